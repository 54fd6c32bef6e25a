package redisrepo

import (
	"context"
	"encoding/json"
	"time"

	"inkq/internal/auth/domain/model"
	"inkq/internal/auth/domain/repository"
	"inkq/internal/auth/usecase"
	"inkq/internal/shared/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	sessionKeyPrefix = "session:"
	userIndexPrefix  = "user_sessions:"
	userIndexSlack   = time.Hour // index keys outlive the longest session slightly
)

// RedisSessionRepository implements the session repository on Redis.
// Sessions are JSON values under session:<token> with a native TTL, so
// expired rows evict themselves; a per-user set indexes tokens for cascade
// deletes. Validity is still checked at resolution time regardless of
// eviction timing.
type RedisSessionRepository struct {
	client *redis.Client
	logger logger.Logger
}

// NewRedisSessionRepository creates a new Redis-based session repository
func NewRedisSessionRepository(client *redis.Client, log logger.Logger) *RedisSessionRepository {
	return &RedisSessionRepository{
		client: client,
		logger: log.WithComponent("redis-session-repo"),
	}
}

// SessionKey returns the Redis key for a session token.
func SessionKey(token string) string {
	return sessionKeyPrefix + token
}

// UserIndexKey returns the Redis key for a user's session-token set.
func UserIndexKey(userID string) string {
	return userIndexPrefix + userID
}

// CreateSession stores the session with a TTL matching its expiry window.
// SET NX surfaces token collisions as the retryable conflict error.
func (r *RedisSessionRepository) CreateSession(ctx context.Context, session *model.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		r.logger.Error("Failed to serialize session", zap.Error(err))
		return err
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}

	ok, err := r.client.SetNX(ctx, SessionKey(session.Token), payload, ttl).Result()
	if err != nil {
		r.logger.Error("Failed to store session in Redis",
			zap.String("user_id", session.UserID),
			zap.Error(err))
		return err
	}
	if !ok {
		return usecase.ErrTokenConflict
	}

	pipe := r.client.Pipeline()
	pipe.SAdd(ctx, UserIndexKey(session.UserID), session.Token)
	pipe.Expire(ctx, UserIndexKey(session.UserID), ttl+userIndexSlack)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Warn("Failed to index session for user",
			zap.String("user_id", session.UserID),
			zap.Error(err))
	}

	return nil
}

// GetSessionByToken loads a session by token
func (r *RedisSessionRepository) GetSessionByToken(ctx context.Context, token string) (*model.Session, error) {
	payload, err := r.client.Get(ctx, SessionKey(token)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, usecase.ErrSessionNotFound
		}
		r.logger.Error("Failed to load session from Redis", zap.Error(err))
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		r.logger.Error("Failed to deserialize session", zap.Error(err))
		return nil, usecase.ErrSessionNotFound
	}
	return &session, nil
}

// TouchSession rewrites the session with an updated last_seen_at, keeping
// the existing TTL so the expiry window never slides.
func (r *RedisSessionRepository) TouchSession(ctx context.Context, token string, seenAt time.Time) error {
	session, err := r.GetSessionByToken(ctx, token)
	if err != nil {
		return err
	}
	session.LastSeenAt = seenAt

	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, SessionKey(token), payload, redis.KeepTTL).Err()
}

// DeleteSession removes a session. Deleting an absent token succeeds.
func (r *RedisSessionRepository) DeleteSession(ctx context.Context, token string) error {
	session, err := r.GetSessionByToken(ctx, token)
	if err != nil {
		if err == usecase.ErrSessionNotFound {
			return nil
		}
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, SessionKey(token))
	pipe.SRem(ctx, UserIndexKey(session.UserID), token)
	_, err = pipe.Exec(ctx)
	return err
}

// DeleteUserSessions removes every session owned by a user
func (r *RedisSessionRepository) DeleteUserSessions(ctx context.Context, userID string) error {
	tokens, err := r.client.SMembers(ctx, UserIndexKey(userID)).Result()
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(tokens)+1)
	for _, token := range tokens {
		keys = append(keys, SessionKey(token))
	}
	keys = append(keys, UserIndexKey(userID))

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.logger.Error("Failed to delete user sessions",
			zap.String("user_id", userID),
			zap.Error(err))
		return err
	}
	return nil
}

// DeleteExpired is a no-op: Redis evicts expired session keys natively.
func (r *RedisSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

// Compile-time interface check
var _ repository.SessionRepository = (*RedisSessionRepository)(nil)
