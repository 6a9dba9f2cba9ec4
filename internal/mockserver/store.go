package mockserver

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps every Redis failure other than a missing key.
var ErrRedisUnavailable = errors.New("redis unavailable")

// ErrSessionNotFound is returned by [Store.Get] for unknown or expired sessions.
var ErrSessionNotFound = errors.New("session not found")

// Session is the server-side record behind one session cookie.
type Session struct {
	ID            string
	Name          string
	Email         string
	Authenticated bool
	CreatedAt     int64
}

// Store keeps sessions as Redis hashes under "<prefix>:<id>" and maintains a
// counter of live sessions under "<prefix>:count".
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

// NewStore creates a session Store backed by the given Redis client.
func NewStore(client redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = "aquao:sess"
	}
	return &Store{redis: client, prefix: prefix}
}

func (s *Store) key(sessionID string) string {
	return s.prefix + ":" + sessionID
}

func (s *Store) countKey() string {
	return s.prefix + ":count"
}

// Save persists sess with the given TTL.
func (s *Store) Save(ctx context.Context, sess *Session, ttl time.Duration) error {
	key := s.key(sess.ID)

	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			"name", sess.Name,
			"email", sess.Email,
			"auth", strconv.FormatBool(sess.Authenticated),
			"created", strconv.FormatInt(sess.CreatedAt, 10),
		)
		pipe.Expire(ctx, key, ttl)
		pipe.Incr(ctx, s.countKey())
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Get loads a session by id.
func (s *Store) Get(ctx context.Context, sessionID string) (*Session, error) {
	fields, err := s.redis.HGetAll(ctx, s.key(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if len(fields) == 0 {
		return nil, ErrSessionNotFound
	}

	auth, _ := strconv.ParseBool(fields["auth"])
	created, _ := strconv.ParseInt(fields["created"], 10, 64)
	return &Session{
		ID:            sessionID,
		Name:          fields["name"],
		Email:         fields["email"],
		Authenticated: auth,
		CreatedAt:     created,
	}, nil
}

// Delete removes a session. Deleting an unknown session is not an error and
// leaves the counter untouched.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	removed, err := s.redis.Del(ctx, s.key(sessionID)).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if removed == 0 {
		return nil
	}

	count, err := s.redis.Decr(ctx, s.countKey()).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if count < 0 {
		if err := s.redis.Set(ctx, s.countKey(), 0, 0).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}
	return nil
}

// Count returns the number of sessions saved and not yet deleted. Sessions that
// expired in Redis are still counted.
func (s *Store) Count(ctx context.Context) (int, error) {
	n, err := s.redis.Get(ctx, s.countKey()).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return n, nil
}

// Ping measures the Redis round-trip time.
func (s *Store) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return time.Since(start), nil
}
