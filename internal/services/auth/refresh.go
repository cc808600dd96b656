package auth

import "github.com/google/uuid"

// NewRefreshToken returns an opaque, cryptographically random session
// secret. Uniqueness is not re-checked at the store level, so the token
// source must stay collision-resistant.
func NewRefreshToken() string {
	return uuid.NewString()
}
