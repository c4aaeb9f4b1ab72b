package models

import "time"

// Namespace is a named configuration scope of an application in one
// environment and cluster. It is the candidate of a delete request.
type Namespace struct {
	AppID         string `json:"app_id" db:"app_id"`
	ClusterName   string `json:"cluster_name" db:"cluster_name"`
	NamespaceName string `json:"namespace_name" db:"namespace_name"`
	Env           string `json:"env" db:"env"`

	// IsPublic reports whether the app namespace definition is shared.
	IsPublic          bool    `json:"is_public"`
	InstancesCount    int     `json:"instances_count"`
	HasBranch         bool    `json:"has_branch"`
	Branch            *Branch `json:"branch,omitempty"`
	IsLinkedNamespace bool    `json:"is_linked_namespace"`
}

// Branch is the gray release line of a namespace, stored as a child
// namespace living in its own cluster.
type Branch struct {
	ClusterName            string          `json:"cluster_name"`
	LatestReleaseInstances InstanceSummary `json:"latest_release_instances"`
}

// InstanceSummary counts the client instances using a release.
type InstanceSummary struct {
	Total int `json:"total"`
}

// BranchInstances returns the released-instance total of the branch,
// or zero when the namespace has no branch.
func (n Namespace) BranchInstances() int {
	if !n.HasBranch || n.Branch == nil {
		return 0
	}
	return n.Branch.LatestReleaseInstances.Total
}

// AssociatedNamespace is a namespace in some application that shares
// its name with a public app namespace.
type AssociatedNamespace struct {
	ID            string    `json:"id" db:"id"`
	AppID         string    `json:"app_id" db:"app_id"`
	ClusterName   string    `json:"cluster_name" db:"cluster_name"`
	NamespaceName string    `json:"namespace_name" db:"namespace_name"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// AppNamespace is the definition of a namespace name owned by an application.
type AppNamespace struct {
	ID       string `json:"id" db:"id"`
	AppID    string `json:"app_id" db:"app_id"`
	Name     string `json:"name" db:"name"`
	IsPublic bool   `json:"is_public" db:"is_public"`
}

// NamespaceRecord is a stored namespace row. Child (branch) namespaces
// carry the cluster of their parent in ParentClusterName.
type NamespaceRecord struct {
	ID                string     `json:"id" db:"id"`
	AppID             string     `json:"app_id" db:"app_id"`
	Env               string     `json:"env" db:"env"`
	ClusterName       string     `json:"cluster_name" db:"cluster_name"`
	NamespaceName     string     `json:"namespace_name" db:"namespace_name"`
	ParentClusterName *string    `json:"parent_cluster_name,omitempty" db:"parent_cluster_name"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt         *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
	DeletedBy         *string    `json:"deleted_by,omitempty" db:"deleted_by"`
}
