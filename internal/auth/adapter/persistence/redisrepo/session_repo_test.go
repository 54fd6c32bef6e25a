package redisrepo_test

import (
	"context"
	"testing"
	"time"

	"inkq/internal/auth/adapter/persistence/redisrepo"
	"inkq/internal/auth/domain/model"
	"inkq/internal/auth/usecase"
	"inkq/internal/shared/logger"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

func TestKeySchema(t *testing.T) {
	assert.Equal(t, "session:abc", redisrepo.SessionKey("abc"))
	assert.Equal(t, "user_sessions:user-1", redisrepo.UserIndexKey("user-1"))
}

type RedisRepoTestSuite struct {
	suite.Suite
	client     *redis.Client
	repository *redisrepo.RedisSessionRepository
}

func (suite *RedisRepoTestSuite) SetupSuite() {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379", DB: 15})
	if err := client.Ping(context.Background()).Err(); err != nil {
		suite.T().Skip("Redis not available for testing")
		return
	}
	suite.client = client
	suite.repository = redisrepo.NewRedisSessionRepository(client, logger.NewLogger())
}

func (suite *RedisRepoTestSuite) TearDownSuite() {
	if suite.client != nil {
		suite.client.FlushDB(context.Background())
		suite.client.Close()
	}
}

func (suite *RedisRepoTestSuite) TestSessionLifecycle() {
	ctx := context.Background()
	now := time.Now()
	session := &model.Session{
		Token:      "redis-tok",
		UserID:     "user-1",
		CreatedAt:  now,
		ExpiresAt:  now.Add(time.Hour),
		LastSeenAt: now,
	}
	assert.NoError(suite.T(), suite.repository.CreateSession(ctx, session))

	got, err := suite.repository.GetSessionByToken(ctx, "redis-tok")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "user-1", got.UserID)

	assert.NoError(suite.T(), suite.repository.TouchSession(ctx, "redis-tok", now.Add(time.Minute)))

	// TTL stays bound to the original expiry after a touch.
	ttl, err := suite.client.TTL(ctx, redisrepo.SessionKey("redis-tok")).Result()
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), ttl > 0 && ttl <= time.Hour)

	assert.NoError(suite.T(), suite.repository.DeleteSession(ctx, "redis-tok"))
	_, err = suite.repository.GetSessionByToken(ctx, "redis-tok")
	assert.ErrorIs(suite.T(), err, usecase.ErrSessionNotFound)

	// Idempotent delete.
	assert.NoError(suite.T(), suite.repository.DeleteSession(ctx, "redis-tok"))
}

func (suite *RedisRepoTestSuite) TestCreateSession_TokenConflict() {
	ctx := context.Background()
	now := time.Now()
	session := &model.Session{Token: "conflict-tok", UserID: "u", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	assert.NoError(suite.T(), suite.repository.CreateSession(ctx, session))
	assert.ErrorIs(suite.T(), suite.repository.CreateSession(ctx, session), usecase.ErrTokenConflict)
}

func (suite *RedisRepoTestSuite) TestDeleteUserSessions() {
	ctx := context.Background()
	now := time.Now()
	for _, tok := range []string{"cascade-1", "cascade-2"} {
		assert.NoError(suite.T(), suite.repository.CreateSession(ctx, &model.Session{
			Token: tok, UserID: "cascade-user", CreatedAt: now, ExpiresAt: now.Add(time.Hour),
		}))
	}

	assert.NoError(suite.T(), suite.repository.DeleteUserSessions(ctx, "cascade-user"))
	_, err := suite.repository.GetSessionByToken(ctx, "cascade-1")
	assert.ErrorIs(suite.T(), err, usecase.ErrSessionNotFound)
	_, err = suite.repository.GetSessionByToken(ctx, "cascade-2")
	assert.ErrorIs(suite.T(), err, usecase.ErrSessionNotFound)
}

func TestRedisRepoTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepoTestSuite))
}
