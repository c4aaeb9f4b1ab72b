package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"nsportal/internal/domain"
	"nsportal/internal/domain/models"
	"nsportal/internal/domain/repositories"
)

// PostgresNamespaceRepository implements the NamespaceRepository interface
type PostgresNamespaceRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewNamespaceRepository creates a new namespace repository
func NewNamespaceRepository(config *RepositoryConfig) repositories.NamespaceRepository {
	return &PostgresNamespaceRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const namespaceColumns = `id, app_id, env, cluster_name, namespace_name, parent_cluster_name,
		created_at, updated_at, deleted_at, deleted_by`

// Get retrieves a live namespace by its identity
func (r *PostgresNamespaceRepository) Get(ctx context.Context, appID, env, clusterName, namespaceName string) (*models.NamespaceRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE app_id = $1 AND env = $2 AND cluster_name = $3 AND namespace_name = $4
		  AND deleted_at IS NULL
	`, namespaceColumns, r.tables.Namespaces)

	executor := GetExecutor(ctx, r.pool)
	record, err := scanNamespace(executor.QueryRow(ctx, query, appID, env, clusterName, namespaceName))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("namespace %s/%s/%s/%s: %w", appID, env, clusterName, namespaceName, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get namespace: %w", err)
	}

	return record, nil
}

// FindBranch retrieves the child namespace created off parentClusterName
func (r *PostgresNamespaceRepository) FindBranch(ctx context.Context, appID, env, parentClusterName, namespaceName string) (*models.NamespaceRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE app_id = $1 AND env = $2 AND parent_cluster_name = $3 AND namespace_name = $4
		  AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT 1
	`, namespaceColumns, r.tables.Namespaces)

	executor := GetExecutor(ctx, r.pool)
	record, err := scanNamespace(executor.QueryRow(ctx, query, appID, env, parentClusterName, namespaceName))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("branch of %s/%s: %w", parentClusterName, namespaceName, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("find branch: %w", err)
	}

	return record, nil
}

// ListByName lists live parent namespaces named namespaceName across all apps
func (r *PostgresNamespaceRepository) ListByName(ctx context.Context, env, namespaceName string, offset, limit int) ([]models.AssociatedNamespace, error) {
	query := fmt.Sprintf(`
		SELECT id, app_id, cluster_name, namespace_name, created_at
		FROM %s
		WHERE env = $1 AND namespace_name = $2
		  AND parent_cluster_name IS NULL
		  AND deleted_at IS NULL
		ORDER BY created_at, id
		OFFSET $3 LIMIT $4
	`, r.tables.Namespaces)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, env, namespaceName, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list namespaces by name: %w", err)
	}
	defer rows.Close()

	namespaces := []models.AssociatedNamespace{}
	for rows.Next() {
		var ns models.AssociatedNamespace
		if err := rows.Scan(&ns.ID, &ns.AppID, &ns.ClusterName, &ns.NamespaceName, &ns.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan namespace: %w", err)
		}
		namespaces = append(namespaces, ns)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate namespaces: %w", err)
	}

	return namespaces, nil
}

// CountByNameExcludingApp counts live parent namespaces named namespaceName in other apps
func (r *PostgresNamespaceRepository) CountByNameExcludingApp(ctx context.Context, env, namespaceName, appID string) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM %s
		WHERE env = $1 AND namespace_name = $2 AND app_id <> $3
		  AND parent_cluster_name IS NULL
		  AND deleted_at IS NULL
	`, r.tables.Namespaces)

	var count int
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, env, namespaceName, appID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count namespaces by name: %w", err)
	}

	return count, nil
}

// SoftDelete marks a namespace deleted
func (r *PostgresNamespaceRepository) SoftDelete(ctx context.Context, id, operator string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET deleted_at = NOW(), deleted_by = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`, r.tables.Namespaces)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, operator)
	if err != nil {
		return fmt.Errorf("soft delete namespace: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("namespace %s: %w", id, domain.ErrNotFound)
	}

	r.logger.Debug("namespace soft deleted", "id", id, "operator", operator)
	return nil
}

// rowScanner is satisfied by pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanNamespace(row rowScanner) (*models.NamespaceRecord, error) {
	var record models.NamespaceRecord
	err := row.Scan(
		&record.ID,
		&record.AppID,
		&record.Env,
		&record.ClusterName,
		&record.NamespaceName,
		&record.ParentClusterName,
		&record.CreatedAt,
		&record.UpdatedAt,
		&record.DeletedAt,
		&record.DeletedBy,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}
