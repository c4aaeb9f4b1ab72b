package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"nsportal/internal/domain"
	"nsportal/internal/domain/models"
	"nsportal/internal/domain/repositories"
)

// PostgresUserRepository implements the UserRepository interface
type PostgresUserRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewUserRepository creates a new user repository
func NewUserRepository(config *RepositoryConfig) repositories.UserRepository {
	return &PostgresUserRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// GetByID retrieves a console user
func (r *PostgresUserRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT user_id, name, email
		FROM %s
		WHERE user_id = $1
	`, r.tables.Users)

	var user models.User
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, userID).Scan(&user.UserID, &user.Name, &user.Email)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

// PostgresRoleRepository implements the RoleRepository interface
type PostgresRoleRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(config *RepositoryConfig) repositories.RoleRepository {
	return &PostgresRoleRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// ListUsersWithRole lists users assigned to roleName, ordered by user id.
// An unknown role has no users.
func (r *PostgresRoleRepository) ListUsersWithRole(ctx context.Context, roleName string) ([]models.User, error) {
	query := fmt.Sprintf(`
		SELECT u.user_id, u.name, u.email
		FROM %s ur
		JOIN %s ro ON ro.id = ur.role_id
		JOIN %s u ON u.user_id = ur.user_id
		WHERE ro.role_name = $1 AND ur.deleted_at IS NULL
		ORDER BY u.user_id
	`, r.tables.UserRoles, r.tables.Roles, r.tables.Users)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, roleName)
	if err != nil {
		return nil, fmt.Errorf("list users with role: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.UserID, &user.Name, &user.Email); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}
