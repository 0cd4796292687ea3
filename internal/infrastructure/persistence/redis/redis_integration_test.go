//go:build integration

package redis_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/fitlife/dietplanner/internal/domain/diet"
	redisinfra "github.com/fitlife/dietplanner/internal/infrastructure/persistence/redis"
	"github.com/fitlife/dietplanner/internal/ports/outbound"
	"github.com/fitlife/dietplanner/test/testutils"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type RedisIntegrationTestSuite struct {
	suite.Suite
	ctx    context.Context
	client redis.UniversalClient
}

func (s *RedisIntegrationTestSuite) SetupSuite() {
	s.ctx = context.Background()
	s.client = testutils.NewRedisClient(s.T())
}

func (s *RedisIntegrationTestSuite) SetupTest() {
	require.NoError(s.T(), s.client.FlushDB(s.ctx).Err())
}

func (s *RedisIntegrationTestSuite) TestCacheRepository() {
	cache := redisinfra.NewCacheRepository(s.client, "test:", zap.NewNop())

	s.Run("SetThenGet_ShouldUsePrefix", func() {
		// Act
		require.NoError(s.T(), cache.Set(s.ctx, "catalog:library:v1", []byte(`{"recipes":[]}`), time.Minute))
		got, err := cache.Get(s.ctx, "catalog:library:v1")

		// Assert
		require.NoError(s.T(), err)
		assert.JSONEq(s.T(), `{"recipes":[]}`, string(got))
		n, err := s.client.Exists(s.ctx, "test:catalog:library:v1").Result()
		require.NoError(s.T(), err)
		assert.Equal(s.T(), int64(1), n)
	})

	s.Run("MissingKey_ShouldReturnCacheMiss", func() {
		// Act
		_, err := cache.Get(s.ctx, "absent")

		// Assert
		assert.ErrorIs(s.T(), err, outbound.ErrCacheMiss)
	})

	s.Run("Delete_ShouldRemoveKey", func() {
		// Arrange
		require.NoError(s.T(), cache.Set(s.ctx, "k", []byte("v"), time.Minute))

		// Act
		require.NoError(s.T(), cache.Delete(s.ctx, "k"))

		// Assert
		exists, err := cache.Exists(s.ctx, "k")
		require.NoError(s.T(), err)
		assert.False(s.T(), exists)
	})
}

func (s *RedisIntegrationTestSuite) TestLocker() {
	locker := redisinfra.NewLocker(s.client, "test:")

	s.Run("HeldLock_ShouldRejectSecondAcquire", func() {
		// Arrange
		lock, err := locker.Acquire(s.ctx, "diet-plan:generate:U001", time.Minute)
		require.NoError(s.T(), err)

		// Act
		_, err = locker.Acquire(s.ctx, "diet-plan:generate:U001", time.Minute)

		// Assert
		assert.ErrorIs(s.T(), err, outbound.ErrLockNotAcquired)
		require.NoError(s.T(), lock.Release(s.ctx))
		again, err := locker.Acquire(s.ctx, "diet-plan:generate:U001", time.Minute)
		require.NoError(s.T(), err)
		require.NoError(s.T(), again.Release(s.ctx))
	})

	s.Run("ExpiredLock_StaleReleaseShouldKeepNewHolder", func() {
		// Arrange
		stale, err := locker.Acquire(s.ctx, "diet-plan:generate:U002", 50*time.Millisecond)
		require.NoError(s.T(), err)
		time.Sleep(150 * time.Millisecond)
		fresh, err := locker.Acquire(s.ctx, "diet-plan:generate:U002", time.Minute)
		require.NoError(s.T(), err)

		// Act
		require.NoError(s.T(), stale.Release(s.ctx))

		// Assert
		_, err = locker.Acquire(s.ctx, "diet-plan:generate:U002", time.Minute)
		assert.ErrorIs(s.T(), err, outbound.ErrLockNotAcquired)
		require.NoError(s.T(), fresh.Release(s.ctx))
	})
}

func (s *RedisIntegrationTestSuite) TestEventPublisher() {
	s.Run("Publish_ShouldDeliverEnvelope", func() {
		// Arrange
		sub := s.client.Subscribe(s.ctx, "test:events")
		defer sub.Close()
		_, err := sub.Receive(s.ctx)
		require.NoError(s.T(), err)
		publisher := redisinfra.NewEventPublisher(s.client, "test:events", zap.NewNop())

		// Act
		err = publisher.Publish(s.ctx, diet.MealLoggedEvent{MealID: "LM001", UserID: "U001"})
		require.NoError(s.T(), err)

		// Assert
		select {
		case msg := <-sub.Channel():
			var envelope map[string]interface{}
			require.NoError(s.T(), json.Unmarshal([]byte(msg.Payload), &envelope))
			assert.Equal(s.T(), "diet.meal_logged", envelope["event"])
		case <-time.After(5 * time.Second):
			s.Fail("event was not delivered")
		}
	})
}

func TestRedisIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(RedisIntegrationTestSuite))
}
