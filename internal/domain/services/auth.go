package services

import "context"

// ResourceAuthorizer checks if a user may act on application resources.
//
// Services call the authorizer before destructive operations so the
// handler layer never decides who may delete what.
type ResourceAuthorizer interface {
	// CanDeleteNamespace checks that the user is a master of the application.
	// Returns domain.ErrForbidden otherwise.
	CanDeleteNamespace(ctx context.Context, userID, appID string) error
}
