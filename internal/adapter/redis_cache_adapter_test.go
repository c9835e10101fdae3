package adapter

import (
	"context"
	"errors"
	"testing"
	"time"
	"wiki-quiz/internal/cache"
	"wiki-quiz/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisCacheAdapter_Get(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()

	key := cache.QuizResultKey("https://en.wikipedia.org/wiki/Alan_Turing")

	t.Run("Success", func(t *testing.T) {
		mock.ExpectGet(key).SetVal(`{"title":"Alan Turing"}`)
		val, err := adapter.Get(ctx, key)
		assert.NoError(t, err)
		assert.Equal(t, `{"title":"Alan Turing"}`, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CacheMiss", func(t *testing.T) {
		mock.ExpectGet(key).SetErr(redis.Nil)
		val, err := adapter.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
		assert.Empty(t, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		redisErr := errors.New("connection reset")
		mock.ExpectGet(key).SetErr(redisErr)
		val, err := adapter.Get(ctx, key)
		assert.ErrorIs(t, err, redisErr)
		assert.NotErrorIs(t, err, domain.ErrCacheMiss)
		assert.Empty(t, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCacheAdapter_Set(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()

	key := cache.HistoryKey()
	value := `[]`
	expiration := 300 * time.Second

	t.Run("Success", func(t *testing.T) {
		mock.ExpectSet(key, value, expiration).SetVal("OK")
		assert.NoError(t, adapter.Set(ctx, key, value, expiration))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		redisErr := errors.New("OOM command not allowed")
		mock.ExpectSet(key, value, expiration).SetErr(redisErr)
		assert.ErrorIs(t, adapter.Set(ctx, key, value, expiration), redisErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCacheAdapter_Delete(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()

	key := cache.HistoryKey()

	t.Run("Existing", func(t *testing.T) {
		mock.ExpectDel(key).SetVal(1)
		assert.NoError(t, adapter.Delete(ctx, key))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing", func(t *testing.T) {
		mock.ExpectDel(key).SetVal(0)
		assert.NoError(t, adapter.Delete(ctx, key))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCacheAdapter_Ping(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)

	mock.ExpectPing().SetVal("PONG")
	assert.NoError(t, adapter.Ping(context.Background()))

	mock.ExpectPing().SetErr(errors.New("dial tcp: connection refused"))
	assert.Error(t, adapter.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
