package events

import (
	"context"

	"nsportal/internal/domain/models"
)

// EventType names an in-process event.
type EventType string

const (
	// PreDeleteNamespace asks the validation pipeline to check a namespace
	// before its deletion is confirmed.
	PreDeleteNamespace EventType = "PRE_DELETE_NAMESPACE"

	// DeleteNamespaceFailed reports that a namespace cannot be deleted
	// because of its resource state.
	DeleteNamespaceFailed EventType = "DELETE_NAMESPACE_FAILED"
)

// Event is anything published on the bus.
type Event interface {
	Type() EventType
}

// Publisher publishes events to subscribers.
type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

// Failure reasons carried by DeleteNamespaceFailedEvent.
const (
	ReasonMasterInstance  = "master_instance"
	ReasonBranchInstance  = "branch_instance"
	ReasonPublicNamespace = "public_namespace"
)

// DeleteNamespaceFailedEvent is emitted when a guard finds the namespace
// still in use. OtherAppAssociatedNamespaces is only set for
// ReasonPublicNamespace.
type DeleteNamespaceFailedEvent struct {
	RunID                        string                       `json:"run_id"`
	Namespace                    models.Namespace             `json:"namespace"`
	Reason                       string                       `json:"reason"`
	OtherAppAssociatedNamespaces []models.AssociatedNamespace `json:"other_app_associated_namespaces,omitempty"`
}

// Type implements Event
func (DeleteNamespaceFailedEvent) Type() EventType { return DeleteNamespaceFailed }
