package repositories

import (
	"context"

	"nsportal/internal/domain/models"
)

// NamespaceRepository defines data access operations for namespaces
type NamespaceRepository interface {
	// Get retrieves a live namespace by its identity.
	// Returns domain.ErrNotFound if it does not exist or was deleted.
	Get(ctx context.Context, appID, env, clusterName, namespaceName string) (*models.NamespaceRecord, error)

	// FindBranch retrieves the child namespace hanging off the given parent cluster.
	// Returns domain.ErrNotFound if the namespace has no branch.
	FindBranch(ctx context.Context, appID, env, parentClusterName, namespaceName string) (*models.NamespaceRecord, error)

	// ListByName lists live, non-branch namespaces with the given name across
	// all applications, ordered by id.
	ListByName(ctx context.Context, env, namespaceName string, offset, limit int) ([]models.AssociatedNamespace, error)

	// CountByNameExcludingApp counts live, non-branch namespaces with the given
	// name that belong to applications other than appID.
	CountByNameExcludingApp(ctx context.Context, env, namespaceName, appID string) (int, error)

	// SoftDelete marks a namespace deleted by operator.
	SoftDelete(ctx context.Context, id, operator string) error
}

// AppNamespaceRepository defines data access operations for app namespace definitions
type AppNamespaceRepository interface {
	// GetByAppIDAndName returns domain.ErrNotFound if the app does not define the name
	GetByAppIDAndName(ctx context.Context, appID, name string) (*models.AppNamespace, error)

	// FindPublicByName returns the public definition of a namespace name, if any
	FindPublicByName(ctx context.Context, name string) (*models.AppNamespace, error)
}

// InstanceRepository defines data access operations for client instance configs
type InstanceRepository interface {
	// CountByNamespace counts instances that fetched the namespace's latest release
	CountByNamespace(ctx context.Context, appID, env, clusterName, namespaceName string) (int, error)

	// DeleteConfigs removes the instance config rows of a namespace
	DeleteConfigs(ctx context.Context, appID, env, clusterName, namespaceName string) error
}

// ItemRepository defines data access operations for configuration items
type ItemRepository interface {
	// DeleteByNamespace soft-deletes all items of a namespace and returns the count
	DeleteByNamespace(ctx context.Context, namespaceID, operator string) (int64, error)
}
