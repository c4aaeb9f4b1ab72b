package auth

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"nsportal/internal/domain"
	"nsportal/internal/domain/models"
	"nsportal/internal/domain/repositories"
)

// MasterRoleName returns the role granting master rights on an application.
func MasterRoleName(appID string) string {
	return "Master+" + appID
}

// MasterAuthorizer resolves application roles from the role repository.
// A user may delete an application's namespaces iff they hold its master role.
type MasterAuthorizer struct {
	roleRepo repositories.RoleRepository
	logger   *slog.Logger
}

// NewMasterAuthorizer creates a new master-role authorizer
func NewMasterAuthorizer(roleRepo repositories.RoleRepository, logger *slog.Logger) *MasterAuthorizer {
	return &MasterAuthorizer{
		roleRepo: roleRepo,
		logger:   logger,
	}
}

// AppRoleUsers returns the master users of the application
func (a *MasterAuthorizer) AppRoleUsers(ctx context.Context, appID string) (*models.AppRoleUsers, error) {
	if appID == "" {
		return nil, fmt.Errorf("app id is required: %w", domain.ErrValidation)
	}

	users, err := a.roleRepo.ListUsersWithRole(ctx, MasterRoleName(appID))
	if err != nil {
		return nil, fmt.Errorf("list master users: %w", err)
	}

	return &models.AppRoleUsers{
		AppID:       appID,
		MasterUsers: users,
	}, nil
}

// CanDeleteNamespace checks that userID is a master of appID
func (a *MasterAuthorizer) CanDeleteNamespace(ctx context.Context, userID, appID string) error {
	roleUsers, err := a.AppRoleUsers(ctx, appID)
	if err != nil {
		return err
	}

	if !slices.Contains(roleUsers.MasterUserIDs(), userID) {
		a.logger.Warn("namespace delete denied",
			"user_id", userID,
			"app_id", appID,
		)
		return fmt.Errorf("user %s is not a master of app %s: %w", userID, appID, domain.ErrForbidden)
	}
	return nil
}
