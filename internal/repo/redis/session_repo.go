package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	authsvc "github.com/jorgemochonbernalpersonal/comparathor/internal/services/auth"
)

const (
	refreshPrefix     = "refresh:"
	userRefreshPrefix = "user_refresh:"
)

// SessionRepo keeps the one live refresh token per user in redis. Two key
// families: refresh:<token> -> userID for lookup, user_refresh:<userID> ->
// token so a new login can invalidate the previous token. Both expire with
// the session TTL, so stale entries clean themselves up.
type SessionRepo struct {
	client *goredis.Client
}

func NewSessionRepo(client *goredis.Client) *SessionRepo {
	return &SessionRepo{client: client}
}

// putScript reads the user's previous token, drops its lookup key and
// writes both keys for the new one in a single server-side step. The
// whole overwrite has to be one atomic unit: a read-then-write from the
// client lets two concurrent logins both keep their token alive.
var putScript = goredis.NewScript(`
local old = redis.call("GET", KEYS[1])
if old then
	redis.call("DEL", ARGV[4] .. old)
end
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[3])
redis.call("SET", KEYS[2], ARGV[2], "PX", ARGV[3])
return 1
`)

// Put stores the token for the user, replacing any previous one. The old
// token's lookup key dies in the same atomic script, so last writer wins
// and the loser's refresh token stops resolving immediately.
func (r *SessionRepo) Put(ctx context.Context, userID int64, refreshToken string, ttl time.Duration) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if userID <= 0 || strings.TrimSpace(refreshToken) == "" || ttl <= 0 {
		return authsvc.ErrInvalidInput
	}

	keys := []string{userRefreshKey(userID), refreshKey(refreshToken)}
	err := putScript.Run(ctx, r.client, keys,
		refreshToken, userID, ttl.Milliseconds(), refreshPrefix,
	).Err()
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (r *SessionRepo) LookupUserByToken(ctx context.Context, refreshToken string) (int64, error) {
	if r.client == nil {
		return 0, fmt.Errorf("redis client is nil")
	}
	if strings.TrimSpace(refreshToken) == "" {
		return 0, authsvc.ErrUnknownSession
	}

	value, err := r.client.Get(ctx, refreshKey(refreshToken)).Result()
	if errors.Is(err, goredis.Nil) {
		return 0, authsvc.ErrUnknownSession
	}
	if err != nil {
		return 0, fmt.Errorf("lookup refresh token: %w", err)
	}

	userID, err := strconv.ParseInt(value, 10, 64)
	if err != nil || userID <= 0 {
		return 0, authsvc.ErrUnknownSession
	}
	return userID, nil
}

var removeScript = goredis.NewScript(`
local token = redis.call("GET", KEYS[1])
if token then
	redis.call("DEL", ARGV[1] .. token)
	redis.call("DEL", KEYS[1])
end
return 1
`)

// Remove deletes the user's session. Removing a user with no session is a
// no-op. Same atomicity rule as Put: resolving the token and deleting
// both keys happens server-side so a concurrent login cannot interleave.
func (r *SessionRepo) Remove(ctx context.Context, userID int64) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if userID <= 0 {
		return authsvc.ErrInvalidInput
	}

	err := removeScript.Run(ctx, r.client, []string{userRefreshKey(userID)}, refreshPrefix).Err()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func refreshKey(token string) string {
	return refreshPrefix + token
}

func userRefreshKey(userID int64) string {
	return userRefreshPrefix + strconv.FormatInt(userID, 10)
}
