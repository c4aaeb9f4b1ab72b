package deletion

import "nsportal/internal/domain/models"

// ValidationContext is the state threaded through one pipeline run. Stages
// never mutate it in place; they return an updated copy.
type ValidationContext struct {
	RunID     string
	Namespace models.Namespace

	// MasterUsers are the master user ids of the owning application,
	// resolved by the permission stage.
	MasterUsers []string

	// SkipAssociationCheck is set by the branch selector for linked namespaces.
	SkipAssociationCheck bool
}

func (c ValidationContext) withMasterUsers(masterUsers []string) ValidationContext {
	c.MasterUsers = append([]string(nil), masterUsers...)
	return c
}

func (c ValidationContext) withAssociationCheckSkipped() ValidationContext {
	c.SkipAssociationCheck = true
	return c
}
