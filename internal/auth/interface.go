package auth

import "nsportal/internal/domain/models"

// JWTVerifier verifies console bearer tokens so the middleware stays
// agnostic to where signing keys come from.
type JWTVerifier interface {
	// VerifyToken validates a token string and returns its claims.
	// Returns domain.ErrUnauthorized for any invalid, expired or anonymous token.
	VerifyToken(tokenString string) (*models.ConsoleClaims, error)

	// Close releases resources held by the verifier.
	Close() error
}
