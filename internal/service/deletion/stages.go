package deletion

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"nsportal/internal/domain"
	"nsportal/internal/domain/models"
	"nsportal/internal/domain/services"
	"nsportal/internal/messages"
)

// StageFunc checks one guard. A nil Outcome means continue with the
// returned context; a non-nil Outcome halts the run.
type StageFunc func(ctx context.Context, vc ValidationContext) (ValidationContext, *Outcome)

// Stage is a named guard in the pipeline
type Stage struct {
	Name string
	Run  StageFunc
}

// guards holds the collaborators the stages consult.
type guards struct {
	users   services.CurrentUserProvider
	authz   services.AuthorizationService
	lookup  services.ResourceLookupService
	catalog *messages.Catalog
}

func (g *guards) stages() []Stage {
	return []Stage{
		{Name: StagePrivacy, Run: g.checkNotPrivate},
		{Name: StagePermission, Run: g.checkPermission},
		{Name: StageMasterInstance, Run: g.checkMasterInstance},
		{Name: StageBranchInstance, Run: g.checkBranchInstance},
		{Name: StageBranchSelector, Run: g.selectBranch},
		{Name: StageAssociation, Run: g.checkAssociatedNamespaces},
	}
}

// checkNotPrivate halts unless the namespace is flagged public.
// The condition is kept literally: a namespace that is not public is
// rejected here.
func (g *guards) checkNotPrivate(_ context.Context, vc ValidationContext) (ValidationContext, *Outcome) {
	if !vc.Namespace.IsPublic {
		return vc, &Outcome{
			Kind:    OutcomeRejectedPrivacy,
			Message: g.catalog.Text(messages.KeyPrivateNamespace),
		}
	}
	return vc, nil
}

func (g *guards) checkPermission(ctx context.Context, vc ValidationContext) (ValidationContext, *Outcome) {
	user, err := g.users.CurrentUser(ctx)
	if err == nil && user == nil {
		err = errors.New("no user returned")
	}
	if err != nil {
		return vc, g.lookupFailed(fmt.Errorf("resolve current user: %w", err))
	}

	roleUsers, err := g.authz.AppRoleUsers(ctx, vc.Namespace.AppID)
	if err == nil && roleUsers == nil {
		err = errors.New("no role users returned")
	}
	if err != nil {
		return vc, g.lookupFailed(fmt.Errorf("resolve role users of app %s: %w", vc.Namespace.AppID, err))
	}

	masterUsers := roleUsers.MasterUserIDs()
	vc = vc.withMasterUsers(masterUsers)

	if !slices.Contains(masterUsers, user.UserID) {
		return vc, &Outcome{
			Kind:    OutcomeRejectedPermission,
			Message: g.catalog.Text(messages.KeyPermissionDenied, strings.Join(masterUsers, ", ")),
		}
	}
	return vc, nil
}

func (g *guards) checkMasterInstance(_ context.Context, vc ValidationContext) (ValidationContext, *Outcome) {
	if vc.Namespace.InstancesCount > 0 {
		return vc, &Outcome{Kind: OutcomeMasterInstance}
	}
	return vc, nil
}

func (g *guards) checkBranchInstance(_ context.Context, vc ValidationContext) (ValidationContext, *Outcome) {
	if vc.Namespace.HasBranch && vc.Namespace.BranchInstances() > 0 {
		return vc, &Outcome{Kind: OutcomeBranchInstance}
	}
	return vc, nil
}

// selectBranch routes linked namespaces straight to confirmation: they are
// private overrides and cannot be referenced by other applications.
func (g *guards) selectBranch(_ context.Context, vc ValidationContext) (ValidationContext, *Outcome) {
	if vc.Namespace.IsLinkedNamespace {
		return vc.withAssociationCheckSkipped(), nil
	}
	return vc, nil
}

func (g *guards) checkAssociatedNamespaces(ctx context.Context, vc ValidationContext) (ValidationContext, *Outcome) {
	if vc.SkipAssociationCheck {
		return vc, nil
	}

	associated, err := g.lookup.ListAssociatedNamespaces(ctx,
		vc.Namespace.Env,
		vc.Namespace.NamespaceName,
		services.AssociatedNamespacesOffset,
		services.AssociatedNamespacesLimit,
	)
	if err != nil {
		return vc, g.lookupFailed(fmt.Errorf("list associated namespaces of %s: %w", vc.Namespace.NamespaceName, err))
	}

	others := otherAppNamespaces(associated, vc.Namespace.AppID)
	if len(others) > 0 {
		return vc, &Outcome{
			Kind:                         OutcomePublicNamespace,
			OtherAppAssociatedNamespaces: others,
		}
	}
	return vc, nil
}

// lookupFailed halts on a collaborator error. The operator only sees
// domain error text; the full error stays on the outcome for logs and traces.
func (g *guards) lookupFailed(err error) *Outcome {
	return &Outcome{
		Kind:    OutcomeLookupFailed,
		Message: g.catalog.Text(messages.KeyLookupFailed, domain.PublicMessage(err)),
		Err:     err,
	}
}

// otherAppNamespaces keeps the associated namespaces owned by an
// application other than appID, preserving order.
func otherAppNamespaces(associated []models.AssociatedNamespace, appID string) []models.AssociatedNamespace {
	var others []models.AssociatedNamespace
	for _, ns := range associated {
		if ns.AppID != appID {
			others = append(others, ns)
		}
	}
	return others
}
