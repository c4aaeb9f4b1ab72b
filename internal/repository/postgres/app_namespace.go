package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"nsportal/internal/domain"
	"nsportal/internal/domain/models"
	"nsportal/internal/domain/repositories"
)

// PostgresAppNamespaceRepository implements the AppNamespaceRepository interface
type PostgresAppNamespaceRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewAppNamespaceRepository creates a new app namespace repository
func NewAppNamespaceRepository(config *RepositoryConfig) repositories.AppNamespaceRepository {
	return &PostgresAppNamespaceRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// GetByAppIDAndName retrieves the definition of name owned by appID
func (r *PostgresAppNamespaceRepository) GetByAppIDAndName(ctx context.Context, appID, name string) (*models.AppNamespace, error) {
	query := fmt.Sprintf(`
		SELECT id, app_id, name, is_public
		FROM %s
		WHERE app_id = $1 AND name = $2 AND deleted_at IS NULL
	`, r.tables.AppNamespaces)

	var appNamespace models.AppNamespace
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, appID, name).Scan(
		&appNamespace.ID,
		&appNamespace.AppID,
		&appNamespace.Name,
		&appNamespace.IsPublic,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("app namespace %s/%s: %w", appID, name, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get app namespace: %w", err)
	}

	return &appNamespace, nil
}

// FindPublicByName retrieves the public definition of name
func (r *PostgresAppNamespaceRepository) FindPublicByName(ctx context.Context, name string) (*models.AppNamespace, error) {
	query := fmt.Sprintf(`
		SELECT id, app_id, name, is_public
		FROM %s
		WHERE name = $1 AND is_public AND deleted_at IS NULL
	`, r.tables.AppNamespaces)

	var appNamespace models.AppNamespace
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, name).Scan(
		&appNamespace.ID,
		&appNamespace.AppID,
		&appNamespace.Name,
		&appNamespace.IsPublic,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("public app namespace %s: %w", name, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("find public app namespace: %w", err)
	}

	return &appNamespace, nil
}
