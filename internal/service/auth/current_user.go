package auth

import (
	"context"
	"errors"
	"fmt"

	"nsportal/internal/domain"
	"nsportal/internal/domain/models"
	"nsportal/internal/domain/repositories"
	"nsportal/internal/httputil"
)

// ContextUserProvider resolves the acting user from the authenticated
// request context. The user record is read on every call; nothing is cached.
type ContextUserProvider struct {
	userRepo repositories.UserRepository
}

// NewContextUserProvider creates a new current user provider
func NewContextUserProvider(userRepo repositories.UserRepository) *ContextUserProvider {
	return &ContextUserProvider{userRepo: userRepo}
}

// CurrentUser returns the user whose id the auth middleware put on ctx
func (p *ContextUserProvider) CurrentUser(ctx context.Context) (*models.User, error) {
	userID := httputil.UserIDFromContext(ctx)
	if userID == "" {
		return nil, fmt.Errorf("no user on request: %w", domain.ErrUnauthorized)
	}

	user, err := p.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("unknown user %s: %w", userID, domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("load current user: %w", err)
	}

	return user, nil
}
