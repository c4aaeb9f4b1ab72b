package repositories

import (
	"context"

	"nsportal/internal/domain/models"
)

// UserRepository defines data access operations for console users
type UserRepository interface {
	// GetByID returns domain.ErrNotFound for unknown users
	GetByID(ctx context.Context, userID string) (*models.User, error)
}

// RoleRepository defines data access operations for role assignments
type RoleRepository interface {
	// ListUsersWithRole lists users assigned to the role, ordered by user id
	ListUsersWithRole(ctx context.Context, roleName string) ([]models.User, error)
}
