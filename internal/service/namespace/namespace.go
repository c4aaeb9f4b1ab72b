package namespace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"nsportal/internal/config"
	"nsportal/internal/domain"
	"nsportal/internal/domain/models"
	"nsportal/internal/domain/repositories"
	"nsportal/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// namespaceService implements the NamespaceService interface
type namespaceService struct {
	namespaceRepo    repositories.NamespaceRepository
	appNamespaceRepo repositories.AppNamespaceRepository
	instanceRepo     repositories.InstanceRepository
	logger           *slog.Logger
}

// NewNamespaceService creates a new namespace service
func NewNamespaceService(
	namespaceRepo repositories.NamespaceRepository,
	appNamespaceRepo repositories.AppNamespaceRepository,
	instanceRepo repositories.InstanceRepository,
	logger *slog.Logger,
) services.NamespaceService {
	return &namespaceService{
		namespaceRepo:    namespaceRepo,
		appNamespaceRepo: appNamespaceRepo,
		instanceRepo:     instanceRepo,
		logger:           logger,
	}
}

// LoadNamespace assembles the delete candidate for ref
func (s *namespaceService) LoadNamespace(ctx context.Context, ref services.NamespaceRef) (*models.Namespace, error) {
	if err := validateRef(&ref); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if _, err := s.namespaceRepo.Get(ctx, ref.AppID, ref.Env, ref.ClusterName, ref.NamespaceName); err != nil {
		return nil, err
	}

	ns := &models.Namespace{
		AppID:         ref.AppID,
		ClusterName:   ref.ClusterName,
		NamespaceName: ref.NamespaceName,
		Env:           ref.Env,
	}

	// The app's own definition wins; otherwise the namespace links a public one.
	appNamespace, err := s.findAppNamespace(ctx, ref.AppID, ref.NamespaceName)
	if err != nil {
		return nil, err
	}
	if appNamespace != nil {
		ns.IsPublic = appNamespace.IsPublic
		ns.IsLinkedNamespace = appNamespace.IsPublic && appNamespace.AppID != ref.AppID
	}

	ns.InstancesCount, err = s.instanceRepo.CountByNamespace(ctx, ref.AppID, ref.Env, ref.ClusterName, ref.NamespaceName)
	if err != nil {
		return nil, fmt.Errorf("count instances: %w", err)
	}

	branch, err := s.namespaceRepo.FindBranch(ctx, ref.AppID, ref.Env, ref.ClusterName, ref.NamespaceName)
	switch {
	case errors.Is(err, domain.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("find branch: %w", err)
	default:
		total, err := s.instanceRepo.CountByNamespace(ctx, ref.AppID, ref.Env, branch.ClusterName, ref.NamespaceName)
		if err != nil {
			return nil, fmt.Errorf("count branch instances: %w", err)
		}
		ns.HasBranch = true
		ns.Branch = &models.Branch{
			ClusterName:            branch.ClusterName,
			LatestReleaseInstances: models.InstanceSummary{Total: total},
		}
	}

	return ns, nil
}

// ListAssociatedNamespaces lists non-branch namespaces sharing a public namespace's name
func (s *namespaceService) ListAssociatedNamespaces(ctx context.Context, env, namespaceName string, offset, limit int) ([]models.AssociatedNamespace, error) {
	if err := validation.Validate(env, validation.Required, validation.Length(1, config.MaxEnvLength)); err != nil {
		return nil, fmt.Errorf("%w: env: %v", domain.ErrValidation, err)
	}
	if err := validation.Validate(namespaceName, validation.Required, validation.Length(1, config.MaxNamespaceNameLength)); err != nil {
		return nil, fmt.Errorf("%w: namespace_name: %v", domain.ErrValidation, err)
	}
	if offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative", domain.ErrValidation)
	}
	if limit < 1 || limit > config.MaxAssociatedPageSize {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", domain.ErrValidation, config.MaxAssociatedPageSize)
	}

	if _, err := s.appNamespaceRepo.FindPublicByName(ctx, namespaceName); err != nil {
		return nil, fmt.Errorf("public app namespace %s: %w", namespaceName, err)
	}

	associated, err := s.namespaceRepo.ListByName(ctx, env, namespaceName, offset, limit)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("associated namespaces listed",
		"env", env,
		"namespace", namespaceName,
		"offset", offset,
		"limit", limit,
		"count", len(associated),
	)

	return associated, nil
}

// findAppNamespace returns the app's own definition of name, falling back to
// the public definition. Returns nil when neither exists.
func (s *namespaceService) findAppNamespace(ctx context.Context, appID, name string) (*models.AppNamespace, error) {
	appNamespace, err := s.appNamespaceRepo.GetByAppIDAndName(ctx, appID, name)
	if err == nil {
		return appNamespace, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get app namespace: %w", err)
	}

	appNamespace, err = s.appNamespaceRepo.FindPublicByName(ctx, name)
	if err == nil {
		return appNamespace, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return nil, fmt.Errorf("find public app namespace: %w", err)
}

// validateRef validates a namespace reference
func validateRef(ref *services.NamespaceRef) error {
	return validation.ValidateStruct(ref,
		validation.Field(&ref.AppID, validation.Required, validation.Length(1, config.MaxAppIDLength)),
		validation.Field(&ref.Env, validation.Required, validation.Length(1, config.MaxEnvLength)),
		validation.Field(&ref.ClusterName, validation.Required, validation.Length(1, config.MaxClusterNameLength)),
		validation.Field(&ref.NamespaceName, validation.Required, validation.Length(1, config.MaxNamespaceNameLength)),
	)
}
