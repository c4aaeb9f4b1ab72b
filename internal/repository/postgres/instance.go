package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"nsportal/internal/domain/repositories"
)

// PostgresInstanceRepository implements the InstanceRepository interface.
// An instance uses a namespace when it has an instance config row for it.
type PostgresInstanceRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewInstanceRepository creates a new instance repository
func NewInstanceRepository(config *RepositoryConfig) repositories.InstanceRepository {
	return &PostgresInstanceRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// CountByNamespace counts distinct instances holding a config of the namespace
func (r *PostgresInstanceRepository) CountByNamespace(ctx context.Context, appID, env, clusterName, namespaceName string) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(DISTINCT instance_id)
		FROM %s
		WHERE config_app_id = $1 AND env = $2
		  AND config_cluster_name = $3 AND config_namespace_name = $4
	`, r.tables.InstanceConfigs)

	var count int
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, appID, env, clusterName, namespaceName).Scan(&count); err != nil {
		return 0, fmt.Errorf("count instances: %w", err)
	}

	return count, nil
}

// DeleteConfigs removes the instance config rows of the namespace
func (r *PostgresInstanceRepository) DeleteConfigs(ctx context.Context, appID, env, clusterName, namespaceName string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE config_app_id = $1 AND env = $2
		  AND config_cluster_name = $3 AND config_namespace_name = $4
	`, r.tables.InstanceConfigs)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, appID, env, clusterName, namespaceName); err != nil {
		return fmt.Errorf("delete instance configs: %w", err)
	}

	return nil
}
