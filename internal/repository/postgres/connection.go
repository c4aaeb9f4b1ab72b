package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"nsportal/internal/domain/repositories"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Namespaces      string
	AppNamespaces   string
	Instances       string
	InstanceConfigs string
	Items           string
	Users           string
	Roles           string
	UserRoles       string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Namespaces:      fmt.Sprintf("%snamespaces", prefix),
		AppNamespaces:   fmt.Sprintf("%sapp_namespaces", prefix),
		Instances:       fmt.Sprintf("%sinstances", prefix),
		InstanceConfigs: fmt.Sprintf("%sinstance_configs", prefix),
		Items:           fmt.Sprintf("%sitems", prefix),
		Users:           fmt.Sprintf("%susers", prefix),
		Roles:           fmt.Sprintf("%sroles", prefix),
		UserRoles:       fmt.Sprintf("%suser_roles", prefix),
	}
}

// All returns every table in drop order, children before parents
func (t *TableNames) All() []string {
	return []string{
		t.Items,
		t.InstanceConfigs,
		t.Instances,
		t.Namespaces,
		t.AppNamespaces,
		t.UserRoles,
		t.Roles,
		t.Users,
	}
}

// CreateConnectionPool creates a pgx pool. Connections through a transaction
// pooler (port 6543) switch to describe caching, since the pooler does not
// keep prepared statements across transactions. An explicit
// default_query_exec_mode in the URL wins over the auto-detection.
//
// Table prefixes are interpolated with fmt.Sprintf before the statement
// reaches the server, so each environment prepares its own statements.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the appropriate query executor for the context.
// If a transaction is present in the context, it returns the transaction.
// Otherwise, it returns the provided pool.
// This enables repositories to automatically participate in transactions when they exist.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	// Check if there's a transaction in the context
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	// No transaction, use the pool
	return pool
}
