package services

import (
	"context"

	"nsportal/internal/domain/models"
)

// NamespaceRef identifies one namespace of an application in an environment.
type NamespaceRef struct {
	AppID         string `json:"app_id"`
	Env           string `json:"env"`
	ClusterName   string `json:"cluster_name"`
	NamespaceName string `json:"namespace_name"`
}

// NamespaceService defines read operations backing the delete flow
type NamespaceService interface {
	// LoadNamespace assembles the delete candidate: public flag, instance
	// counts, branch and linked flag.
	LoadNamespace(ctx context.Context, ref NamespaceRef) (*models.Namespace, error)

	ResourceLookupService
}
