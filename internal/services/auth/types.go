package auth

import (
	"errors"
	"time"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrUnknownSession     = errors.New("unknown session")
	ErrUserNotFound       = errors.New("user not found")
	ErrRoleNotFound       = errors.New("role not found")
	ErrTokenExpired       = errors.New("access token expired")
	ErrTokenInvalid       = errors.New("invalid access token")
)

// UserRecord is the persisted identity as the auth core sees it.
// PasswordHash never leaves this package's boundary towards transport.
type UserRecord struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	RoleID       int64
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type RoleRecord struct {
	ID          int64
	Name        string
	Description string
}

// AccessClaims is the decoded, verified content of an access token.
type AccessClaims struct {
	UserID    int64
	Subject   string
	Roles     []string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type UserSummary struct {
	ID    int64
	Name  string
	Email string
	Role  string
}

type AuthResult struct {
	AccessToken   string
	RefreshToken  string
	AccessExpires time.Time
	User          UserSummary
}
