package types

import (
	"github.com/google/uuid"
)

// TokenClaims is the authenticated identity carried by a bearer token.
type TokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
}

// IsAdmin reports whether the token grants admin access.
func (c *TokenClaims) IsAdmin() bool {
	return c.Role == "admin"
}
