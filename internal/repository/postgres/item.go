package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"nsportal/internal/domain/repositories"
)

// PostgresItemRepository implements the ItemRepository interface
type PostgresItemRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewItemRepository creates a new item repository
func NewItemRepository(config *RepositoryConfig) repositories.ItemRepository {
	return &PostgresItemRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// DeleteByNamespace soft-deletes the live items of a namespace
func (r *PostgresItemRepository) DeleteByNamespace(ctx context.Context, namespaceID, operator string) (int64, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET deleted_at = NOW(), deleted_by = $2
		WHERE namespace_id = $1 AND deleted_at IS NULL
	`, r.tables.Items)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, namespaceID, operator)
	if err != nil {
		return 0, fmt.Errorf("delete items: %w", err)
	}

	return result.RowsAffected(), nil
}
