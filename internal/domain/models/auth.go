package models

import "github.com/golang-jwt/jwt/v5"

// ConsoleClaims represents the JWT claims issued to console operators.
type ConsoleClaims struct {
	jwt.RegisteredClaims // Standard JWT claims (sub, iss, aud, exp, iat, etc.)

	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"` // "authenticated" or "anon"
	SessionID string `json:"session_id"`
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *ConsoleClaims) GetUserID() string {
	return c.Subject
}
