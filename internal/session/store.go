package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store tracks live sessions in Redis so that signing out invalidates an
// access token before it expires. With a nil client every session is live.
type Store struct {
	redis *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{redis: client}
}

func (s *Store) Open(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	if s == nil || s.redis == nil {
		return nil
	}
	pipe := s.redis.TxPipeline()
	pipe.Set(ctx, sessionKey(sessionID), userID, ttl)
	pipe.SAdd(ctx, userKey(userID), sessionID)
	pipe.Expire(ctx, userKey(userID), ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Store) Active(ctx context.Context, sessionID string) (bool, error) {
	if s == nil || s.redis == nil {
		return true, nil
	}
	n, err := s.redis.Exists(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *Store) Revoke(ctx context.Context, sessionID string) error {
	if s == nil || s.redis == nil {
		return nil
	}
	userID, err := s.redis.Get(ctx, sessionKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}

	pipe := s.redis.TxPipeline()
	pipe.Del(ctx, sessionKey(sessionID))
	pipe.SRem(ctx, userKey(userID), sessionID)
	_, err = pipe.Exec(ctx)
	return err
}

// RevokeUser ends every session of userID.
func (s *Store) RevokeUser(ctx context.Context, userID string) error {
	if s == nil || s.redis == nil {
		return nil
	}
	ids, err := s.redis.SMembers(ctx, userKey(userID)).Result()
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKey(id))
	}
	keys = append(keys, userKey(userID))
	return s.redis.Del(ctx, keys...).Err()
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

func userKey(userID string) string {
	return "user:" + userID + ":sessions"
}
