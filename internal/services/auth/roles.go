package auth

import "strings"

// Role names as stored in the roles table and embedded in token claims.
const (
	RoleAdmin      = "ROLE_ADMIN"
	RoleRegistered = "ROLE_REGISTERED"
)

// HasRole reports whether the identity carries the given role. Matching is
// case-insensitive, same as the roles table comparison.
func (i Identity) HasRole(role string) bool {
	for _, r := range i.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

func (i Identity) HasAnyRole(roles ...string) bool {
	for _, role := range roles {
		if i.HasRole(role) {
			return true
		}
	}
	return false
}

// IsSelf reports whether the identity refers to the given user. Handlers
// use it to let users read or edit their own records without ROLE_ADMIN.
func (i Identity) IsSelf(userID int64) bool {
	return userID > 0 && i.UserID == userID
}
