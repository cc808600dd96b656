package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jorgemochonbernalpersonal/comparathor/internal/pkg/validate"
)

// SessionStore tracks the single live refresh token per user. It owns all
// synchronization: concurrent Put/Lookup/Remove from request goroutines
// must be safe without caller locking. Concurrent logins for the same user
// race by design, the last Put wins and the earlier token goes dead.
type SessionStore interface {
	Put(ctx context.Context, userID int64, refreshToken string, ttl time.Duration) error
	LookupUserByToken(ctx context.Context, refreshToken string) (int64, error)
	Remove(ctx context.Context, userID int64) error
}

type UserStore interface {
	FindByEmail(ctx context.Context, email string) (UserRecord, error)
	FindByID(ctx context.Context, id int64) (UserRecord, error)
	Create(ctx context.Context, user UserRecord) (UserRecord, error)
}

type RoleStore interface {
	FindByID(ctx context.Context, id int64) (RoleRecord, error)
}

type Config struct {
	RefreshTTL    time.Duration
	DefaultRoleID int64
}

const defaultRefreshTTL = 720 * time.Hour

type Service struct {
	jwt         *JWTManager
	sessions    SessionStore
	users       UserStore
	roles       RoleStore
	refreshTTL  time.Duration
	defaultRole int64
}

func NewService(jwtManager *JWTManager, sessions SessionStore, users UserStore, roles RoleStore, cfg Config) *Service {
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = defaultRefreshTTL
	}
	if cfg.DefaultRoleID <= 0 {
		cfg.DefaultRoleID = 2
	}

	return &Service{
		jwt:         jwtManager,
		sessions:    sessions,
		users:       users,
		roles:       roles,
		refreshTTL:  cfg.RefreshTTL,
		defaultRole: cfg.DefaultRoleID,
	}
}

func (s *Service) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = validate.NormalizeEmail(email)
	if email == "" || password == "" {
		return AuthResult{}, ErrInvalidInput
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, fmt.Errorf("find user by email: %w", err)
	}
	if !CheckPassword(user.PasswordHash, password) {
		return AuthResult{}, ErrInvalidCredentials
	}

	return s.issueForUser(ctx, user)
}

// Register creates a new identity and immediately authenticates it.
// roleID zero means the standard member role.
func (s *Service) Register(ctx context.Context, name, email, password string, roleID int64) (AuthResult, error) {
	name = strings.TrimSpace(name)
	email = validate.NormalizeEmail(email)
	if !validate.Required(name) || !validate.Email(email) || password == "" {
		return AuthResult{}, ErrInvalidInput
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return AuthResult{}, ErrDuplicateEmail
	} else if !errors.Is(err, ErrUserNotFound) {
		return AuthResult{}, fmt.Errorf("check existing email: %w", err)
	}

	if roleID <= 0 {
		roleID = s.defaultRole
	}
	role, err := s.roles.FindByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, ErrRoleNotFound) {
			return AuthResult{}, ErrRoleNotFound
		}
		return AuthResult{}, fmt.Errorf("find role %d: %w", roleID, err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return AuthResult{}, err
	}

	now := time.Now().UTC()
	user, err := s.users.Create(ctx, UserRecord{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		RoleID:       role.ID,
		Role:         role.Name,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return AuthResult{}, ErrDuplicateEmail
		}
		return AuthResult{}, fmt.Errorf("create user: %w", err)
	}

	return s.issueForUser(ctx, user)
}

// Refresh exchanges a live refresh token for a new access token. The
// refresh token itself is not rotated: the caller keeps the same value
// until logout or until a newer login replaces it.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (AuthResult, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return AuthResult{}, ErrInvalidInput
	}

	userID, err := s.sessions.LookupUserByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrUnknownSession) {
			return AuthResult{}, ErrUnknownSession
		}
		return AuthResult{}, fmt.Errorf("lookup refresh token: %w", err)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return AuthResult{}, ErrUnknownSession
		}
		return AuthResult{}, fmt.Errorf("find user %d: %w", userID, err)
	}

	accessToken, accessExpires, err := s.jwt.GenerateAccessToken(user.ID, user.Email, []string{user.Role})
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate access token: %w", err)
	}

	return AuthResult{
		AccessToken:   accessToken,
		RefreshToken:  refreshToken,
		AccessExpires: accessExpires,
		User:          summarize(user),
	}, nil
}

func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return ErrInvalidInput
	}

	userID, err := s.sessions.LookupUserByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrUnknownSession) {
			return ErrUnknownSession
		}
		return fmt.Errorf("lookup refresh token: %w", err)
	}

	if err := s.sessions.Remove(ctx, userID); err != nil {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// ValidateAccessToken is the request-gate entry point. Access tokens are
// self-contained: only signature and expiry decide, there is no session
// lookup and no revocation list.
func (s *Service) ValidateAccessToken(accessToken string) (AccessClaims, error) {
	return s.jwt.ParseAccessToken(accessToken)
}

func (s *Service) issueForUser(ctx context.Context, user UserRecord) (AuthResult, error) {
	refreshToken := NewRefreshToken()
	if err := s.sessions.Put(ctx, user.ID, refreshToken, s.refreshTTL); err != nil {
		return AuthResult{}, fmt.Errorf("store session: %w", err)
	}

	accessToken, accessExpires, err := s.jwt.GenerateAccessToken(user.ID, user.Email, []string{user.Role})
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate access token: %w", err)
	}

	return AuthResult{
		AccessToken:   accessToken,
		RefreshToken:  refreshToken,
		AccessExpires: accessExpires,
		User:          summarize(user),
	}, nil
}

func summarize(user UserRecord) UserSummary {
	return UserSummary{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
}
