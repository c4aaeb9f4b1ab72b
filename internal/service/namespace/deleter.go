package namespace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"nsportal/internal/domain"
	"nsportal/internal/domain/events"
	"nsportal/internal/domain/models"
	"nsportal/internal/domain/repositories"
	"nsportal/internal/domain/services"
	"nsportal/internal/httputil"
)

// deleter implements DeletionService. It repeats the delete preconditions
// against storage, since the validation run may be stale by the time the
// operator confirms.
type deleter struct {
	namespaceRepo    repositories.NamespaceRepository
	appNamespaceRepo repositories.AppNamespaceRepository
	instanceRepo     repositories.InstanceRepository
	itemRepo         repositories.ItemRepository
	txManager        repositories.TransactionManager
	authorizer       services.ResourceAuthorizer
	logger           *slog.Logger
}

// NewDeleter creates the namespace deletion service
func NewDeleter(
	namespaceRepo repositories.NamespaceRepository,
	appNamespaceRepo repositories.AppNamespaceRepository,
	instanceRepo repositories.InstanceRepository,
	itemRepo repositories.ItemRepository,
	txManager repositories.TransactionManager,
	authorizer services.ResourceAuthorizer,
	logger *slog.Logger,
) services.DeletionService {
	return &deleter{
		namespaceRepo:    namespaceRepo,
		appNamespaceRepo: appNamespaceRepo,
		instanceRepo:     instanceRepo,
		itemRepo:         itemRepo,
		txManager:        txManager,
		authorizer:       authorizer,
		logger:           logger,
	}
}

// DeleteNamespace soft-deletes a namespace, its branch and their items
func (d *deleter) DeleteNamespace(ctx context.Context, appID, env, clusterName, namespaceName string) error {
	ref := services.NamespaceRef{
		AppID:         appID,
		Env:           env,
		ClusterName:   clusterName,
		NamespaceName: namespaceName,
	}
	if err := validateRef(&ref); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	operator := httputil.UserIDFromContext(ctx)
	if operator == "" {
		return fmt.Errorf("delete namespace: %w", domain.ErrUnauthorized)
	}
	if err := d.authorizer.CanDeleteNamespace(ctx, operator, appID); err != nil {
		return err
	}

	record, err := d.namespaceRepo.Get(ctx, appID, env, clusterName, namespaceName)
	if err != nil {
		return err
	}

	branch, err := d.checkDeletable(ctx, ref)
	if err != nil {
		return err
	}

	err = d.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		targets := []*models.NamespaceRecord{record}
		if branch != nil {
			targets = append(targets, branch)
		}

		for _, target := range targets {
			if _, err := d.itemRepo.DeleteByNamespace(txCtx, target.ID, operator); err != nil {
				return fmt.Errorf("delete items of %s: %w", target.ClusterName, err)
			}
			if err := d.instanceRepo.DeleteConfigs(txCtx, appID, env, target.ClusterName, namespaceName); err != nil {
				return fmt.Errorf("delete instance configs of %s: %w", target.ClusterName, err)
			}
			if err := d.namespaceRepo.SoftDelete(txCtx, target.ID, operator); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	d.logger.Info("namespace deleted",
		"app_id", appID,
		"env", env,
		"cluster", clusterName,
		"namespace", namespaceName,
		"branch_deleted", branch != nil,
		"operator", operator,
	)

	return nil
}

// checkDeletable enforces the delete preconditions and returns the branch
// that must go with the namespace, if any.
func (d *deleter) checkDeletable(ctx context.Context, ref services.NamespaceRef) (*models.NamespaceRecord, error) {
	appNamespace, err := d.appNamespaceRepo.GetByAppIDAndName(ctx, ref.AppID, ref.NamespaceName)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get app namespace: %w", err)
	}
	ownsDefinition := err == nil

	if ownsDefinition && !appNamespace.IsPublic {
		return nil, &domain.ValidationError{Message: "private namespace can not be deleted"}
	}

	count, err := d.instanceRepo.CountByNamespace(ctx, ref.AppID, ref.Env, ref.ClusterName, ref.NamespaceName)
	if err != nil {
		return nil, fmt.Errorf("count instances: %w", err)
	}
	if count > 0 {
		return nil, conflict(ref, events.ReasonMasterInstance, "can not delete namespace because namespace has active instances")
	}

	branch, err := d.namespaceRepo.FindBranch(ctx, ref.AppID, ref.Env, ref.ClusterName, ref.NamespaceName)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		branch = nil
	case err != nil:
		return nil, fmt.Errorf("find branch: %w", err)
	}
	if branch != nil {
		count, err := d.instanceRepo.CountByNamespace(ctx, ref.AppID, ref.Env, branch.ClusterName, ref.NamespaceName)
		if err != nil {
			return nil, fmt.Errorf("count branch instances: %w", err)
		}
		if count > 0 {
			return nil, conflict(ref, events.ReasonBranchInstance, "can not delete namespace because namespace's branch has active instances")
		}
	}

	if ownsDefinition {
		associated, err := d.namespaceRepo.CountByNameExcludingApp(ctx, ref.Env, ref.NamespaceName, ref.AppID)
		if err != nil {
			return nil, fmt.Errorf("count associated namespaces: %w", err)
		}
		if associated > 0 {
			return nil, conflict(ref, events.ReasonPublicNamespace, "can not delete public namespace which has associated namespaces")
		}
	}

	return branch, nil
}

func conflict(ref services.NamespaceRef, reason, message string) *domain.ConflictError {
	return &domain.ConflictError{
		Message:      message,
		ResourceType: "namespace",
		ResourceID:   fmt.Sprintf("%s+%s+%s+%s", ref.AppID, ref.Env, ref.ClusterName, ref.NamespaceName),
		Reason:       reason,
	}
}
