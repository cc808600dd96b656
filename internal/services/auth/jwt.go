package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// MinSecretLen is the minimum HS256 signing-key length. Anything shorter
// is a deployment mistake and must abort startup.
const MinSecretLen = 32

const DefaultAccessTTL = 15 * time.Minute

type JWTManager struct {
	secret    []byte
	accessTTL time.Duration
	now       func() time.Time
}

type tokenClaims struct {
	UserID int64    `json:"userId"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

func NewJWTManager(secret string, accessTTL time.Duration) (*JWTManager, error) {
	if len(secret) < MinSecretLen {
		return nil, fmt.Errorf("jwt secret must be at least %d bytes, got %d", MinSecretLen, len(secret))
	}
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}

	return &JWTManager{
		secret:    []byte(secret),
		accessTTL: accessTTL,
		now:       time.Now,
	}, nil
}

// GenerateAccessToken signs claims for the given identity. The subject is
// the user's login identifier (email); roles must be non-empty because a
// token without roles can never pass a capability check.
func (m *JWTManager) GenerateAccessToken(userID int64, subject string, roles []string) (string, time.Time, error) {
	if userID <= 0 || strings.TrimSpace(subject) == "" || len(roles) == 0 {
		return "", time.Time{}, fmt.Errorf("invalid access token payload")
	}

	// JWT numeric dates carry whole seconds; truncate up front so the
	// returned expiry matches what a parse of the token reports.
	now := m.now().UTC().Truncate(time.Second)
	expiresAt := now.Add(m.accessTTL)
	claims := tokenClaims{
		UserID: userID,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}

	return signed, expiresAt, nil
}

// ParseAccessToken verifies signature and expiry and returns the claims.
// Expiry is checked against wall-clock time with no leeway; every other
// defect collapses into ErrTokenInvalid so callers cannot tell a forged
// token from a malformed one.
func (m *JWTManager) ParseAccessToken(raw string) (AccessClaims, error) {
	if strings.TrimSpace(raw) == "" {
		return AccessClaims{}, ErrTokenInvalid
	}

	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(_ *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}), jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return AccessClaims{}, ErrTokenExpired
		}
		return AccessClaims{}, ErrTokenInvalid
	}
	if token == nil || !token.Valid {
		return AccessClaims{}, ErrTokenInvalid
	}

	if claims.UserID <= 0 || strings.TrimSpace(claims.Subject) == "" || len(claims.Roles) == 0 {
		return AccessClaims{}, ErrTokenInvalid
	}
	if claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return AccessClaims{}, ErrTokenInvalid
	}

	return AccessClaims{
		UserID:    claims.UserID,
		Subject:   claims.Subject,
		Roles:     claims.Roles,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (m *JWTManager) AccessTTL() time.Duration {
	return m.accessTTL
}
