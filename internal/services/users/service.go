package users

import (
	"context"
	"errors"
	"fmt"

	authsvc "github.com/jorgemochonbernalpersonal/comparathor/internal/services/auth"
)

var ErrNotFound = errors.New("user not found")

// Store is the read surface the user endpoints need. The postgres user
// repository satisfies it.
type Store interface {
	FindByID(ctx context.Context, id int64) (authsvc.UserRecord, error)
	List(ctx context.Context) ([]authsvc.UserRecord, error)
}

type Service struct {
	users Store
}

func NewService(users Store) *Service {
	return &Service{users: users}
}

func (s *Service) Get(ctx context.Context, id int64) (authsvc.UserSummary, error) {
	if id <= 0 {
		return authsvc.UserSummary{}, ErrNotFound
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, authsvc.ErrUserNotFound) {
			return authsvc.UserSummary{}, ErrNotFound
		}
		return authsvc.UserSummary{}, fmt.Errorf("find user %d: %w", id, err)
	}

	return authsvc.UserSummary{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}, nil
}

func (s *Service) List(ctx context.Context) ([]authsvc.UserSummary, error) {
	records, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	summaries := make([]authsvc.UserSummary, 0, len(records))
	for _, user := range records {
		summaries = append(summaries, authsvc.UserSummary{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		})
	}
	return summaries, nil
}
