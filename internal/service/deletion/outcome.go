package deletion

import (
	"nsportal/internal/domain/events"
	"nsportal/internal/domain/models"
)

// OutcomeKind tags how a pipeline run resolved.
type OutcomeKind string

const (
	OutcomeConfirmed          OutcomeKind = "confirmed"
	OutcomeRejectedPrivacy    OutcomeKind = "rejected_privacy"
	OutcomeRejectedPermission OutcomeKind = "rejected_permission"
	OutcomeMasterInstance     OutcomeKind = events.ReasonMasterInstance
	OutcomeBranchInstance     OutcomeKind = events.ReasonBranchInstance
	OutcomePublicNamespace    OutcomeKind = events.ReasonPublicNamespace
	OutcomeLookupFailed       OutcomeKind = "lookup_failed"
)

// Stage names, in pipeline order.
const (
	StagePrivacy        = "privacy"
	StagePermission     = "permission"
	StageMasterInstance = "master_instance"
	StageBranchInstance = "branch_instance"
	StageBranchSelector = "branch_selector"
	StageAssociation    = "association"
	StageConfirmation   = "confirmation"
)

// Outcome is the result of one pipeline run.
type Outcome struct {
	Kind      OutcomeKind      `json:"kind"`
	Stage     string           `json:"stage"`
	RunID     string           `json:"run_id"`
	Namespace models.Namespace `json:"namespace"`

	// Message is the text shown to the operator for local failures.
	Message string `json:"message,omitempty"`

	// MasterUsers is set once the permission stage has run.
	MasterUsers []string `json:"master_users,omitempty"`

	OtherAppAssociatedNamespaces []models.AssociatedNamespace `json:"other_app_associated_namespaces,omitempty"`

	// Err is the collaborator error behind OutcomeLookupFailed.
	Err error `json:"-"`
}

// Confirmed reports whether the run reached the confirmation stage
func (o Outcome) Confirmed() bool {
	return o.Kind == OutcomeConfirmed
}

// FailureEvent returns the DELETE_NAMESPACE_FAILED event for resource-state
// outcomes. Local failures and confirmations have no event.
func (o Outcome) FailureEvent() (events.DeleteNamespaceFailedEvent, bool) {
	switch o.Kind {
	case OutcomeMasterInstance, OutcomeBranchInstance, OutcomePublicNamespace:
		ev := events.DeleteNamespaceFailedEvent{
			RunID:     o.RunID,
			Namespace: o.Namespace,
			Reason:    string(o.Kind),
		}
		if o.Kind == OutcomePublicNamespace {
			ev.OtherAppAssociatedNamespaces = o.OtherAppAssociatedNamespaces
		}
		return ev, true
	default:
		return events.DeleteNamespaceFailedEvent{}, false
	}
}
