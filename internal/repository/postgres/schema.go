package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the portal tables and indexes if they don't exist
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames, tablePrefix string) error {
	if _, err := pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`); err != nil {
		return fmt.Errorf("enable uuid-ossp: %w", err)
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS ` + tables.Users + ` (
			user_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Roles + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			role_name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.UserRoles + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id TEXT NOT NULL REFERENCES ` + tables.Users + `(user_id) ON DELETE CASCADE,
			role_id UUID NOT NULL REFERENCES ` + tables.Roles + `(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.AppNamespaces + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			app_id TEXT NOT NULL,
			name TEXT NOT NULL,
			is_public BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Namespaces + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			app_id TEXT NOT NULL,
			env TEXT NOT NULL,
			cluster_name TEXT NOT NULL,
			namespace_name TEXT NOT NULL,
			parent_cluster_name TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ,
			deleted_by TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Instances + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			app_id TEXT NOT NULL,
			env TEXT NOT NULL,
			cluster_name TEXT NOT NULL,
			ip TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.InstanceConfigs + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			instance_id UUID NOT NULL REFERENCES ` + tables.Instances + `(id) ON DELETE CASCADE,
			config_app_id TEXT NOT NULL,
			env TEXT NOT NULL,
			config_cluster_name TEXT NOT NULL,
			config_namespace_name TEXT NOT NULL,
			release_key TEXT NOT NULL DEFAULT '',
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Items + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			namespace_id UUID NOT NULL REFERENCES ` + tables.Namespaces + `(id) ON DELETE CASCADE,
			key TEXT NOT NULL,
			value TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ DEFAULT NOW(),
			deleted_at TIMESTAMPTZ,
			deleted_by TEXT
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_` + tablePrefix + `app_namespaces_app_name ON ` + tables.AppNamespaces + `(app_id, name) WHERE deleted_at IS NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_` + tablePrefix + `namespaces_identity ON ` + tables.Namespaces + `(app_id, env, cluster_name, namespace_name) WHERE deleted_at IS NULL`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `namespaces_env_name ON ` + tables.Namespaces + `(env, namespace_name)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `instance_configs_namespace ON ` + tables.InstanceConfigs + `(config_app_id, env, config_cluster_name, config_namespace_name)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `items_namespace ON ` + tables.Items + `(namespace_id)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	return nil
}

// DropAllTables drops every portal table, children first
func DropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	for _, table := range tables.All() {
		if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE"); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
	}
	return nil
}
