package services

import (
	"context"

	"nsportal/internal/domain/models"
)

// Paging contract of the associated namespace lookup used by the fan-out
// guard. The lookup service only guarantees this first page; callers must
// not page further.
const (
	AssociatedNamespacesOffset = 0
	AssociatedNamespacesLimit  = 20
)

// CurrentUserProvider resolves the user acting on the request in ctx.
type CurrentUserProvider interface {
	CurrentUser(ctx context.Context) (*models.User, error)
}

// AuthorizationService resolves role membership for an application.
type AuthorizationService interface {
	// AppRoleUsers returns the users holding roles on the application.
	AppRoleUsers(ctx context.Context, appID string) (*models.AppRoleUsers, error)
}

// ResourceLookupService resolves namespaces linked to a public namespace name.
type ResourceLookupService interface {
	// ListAssociatedNamespaces lists the namespaces, across all apps, that share
	// namespaceName in env. Guards call it with AssociatedNamespacesOffset and
	// AssociatedNamespacesLimit.
	ListAssociatedNamespaces(ctx context.Context, env, namespaceName string, offset, limit int) ([]models.AssociatedNamespace, error)
}

// DeletionService performs the destructive namespace delete.
type DeletionService interface {
	DeleteNamespace(ctx context.Context, appID, env, clusterName, namespaceName string) error
}

// View is the surface a delete flow reports to. Implementations decide how
// the messages reach the operator.
type View interface {
	ShowConfirmationDialog(ns models.Namespace)
	ShowLocalError(message string)
	ShowSuccess(message string)
	ReloadView()
}
