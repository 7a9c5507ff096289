package cache_test

import (
	"errors"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/cache"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/config"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cacheConfig = &config.CacheConfig{DefaultTTL: 10 * time.Minute}

func setupMiniredis(t *testing.T) (cache.Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return cache.NewRedisCache(client, cacheConfig), mr
}

func placedOrder() *models.Order {
	productID := uuid.New()

	return &models.Order{
		ID:            uuid.New(),
		AccountID:     uuid.New(),
		Status:        models.OrderStatusOutForDelivery,
		PaymentMethod: "Cash on Delivery",
		Items:         []models.OrderItem{{ProductID: productID, Name: "Kettle", Quantity: 2, UnitPrice: 50}},
		Prices:        models.PriceBreakdown{ItemsPrice: 100, TaxPrice: 15, TotalPrice: 100},
	}
}

func TestRedisCache_OrderReadModel(t *testing.T) {
	ctx := t.Context()

	t.Run("Success - Order Survives Round Trip", func(t *testing.T) {
		// Arrange
		c, mr := setupMiniredis(t)
		order := placedOrder()
		key := cache.Key(cache.OrderKeyPrefix, order.ID.String())

		// Act
		require.NoError(t, c.Set(ctx, key, order, time.Minute))
		var got models.Order
		found, err := c.Get(ctx, key, &got)

		// Assert
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, order.Status, got.Status)
		assert.Equal(t, order.Items, got.Items)
		assert.Equal(t, order.Prices, got.Prices)
		assert.Equal(t, time.Minute, mr.TTL(key))
	})

	t.Run("Success - Non-Positive TTL Uses Default", func(t *testing.T) {
		// Arrange
		c, mr := setupMiniredis(t)
		key := cache.Key(cache.OrderKeyPrefix, uuid.NewString())

		// Act
		require.NoError(t, c.Set(ctx, key, placedOrder(), 0))

		// Assert
		assert.Equal(t, cacheConfig.DefaultTTL, mr.TTL(key))
	})

	t.Run("Success - Expired Entry Is A Miss", func(t *testing.T) {
		// Arrange
		c, mr := setupMiniredis(t)
		key := cache.Key(cache.OrderKeyPrefix, uuid.NewString())
		require.NoError(t, c.Set(ctx, key, placedOrder(), time.Second))
		mr.FastForward(2 * time.Second)

		// Act
		var got models.Order
		found, err := c.Get(ctx, key, &got)

		// Assert
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Success - Delete Drops Several Orders", func(t *testing.T) {
		// Arrange
		c, mr := setupMiniredis(t)
		first := cache.Key(cache.OrderKeyPrefix, uuid.NewString())
		second := cache.Key(cache.OrderKeyPrefix, uuid.NewString())
		require.NoError(t, c.Set(ctx, first, placedOrder(), time.Minute))
		require.NoError(t, c.Set(ctx, second, placedOrder(), time.Minute))

		// Act
		err := c.Delete(ctx, first, second)

		// Assert
		require.NoError(t, err)
		assert.False(t, mr.Exists(first))
		assert.False(t, mr.Exists(second))
		assert.NoError(t, c.Delete(ctx))
	})
}

func TestRedisCache_Failures(t *testing.T) {
	ctx := t.Context()
	key := cache.Key(cache.OrderKeyPrefix, "ord-1")

	t.Run("Failure - Read Error Is Not A Miss", func(t *testing.T) {
		// Arrange
		client, mock := redismock.NewClientMock()
		c := cache.NewRedisCache(client, cacheConfig)
		mock.ExpectGet(key).SetErr(errors.New("connection reset"))

		// Act
		var got models.Order
		found, err := c.Get(ctx, key, &got)

		// Assert
		require.Error(t, err)
		assert.False(t, found)
		assert.Contains(t, err.Error(), "connection reset")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Corrupt Entry", func(t *testing.T) {
		// Arrange
		client, mock := redismock.NewClientMock()
		c := cache.NewRedisCache(client, cacheConfig)
		mock.ExpectGet(key).SetVal("{not json")

		// Act
		var got models.Order
		found, err := c.Get(ctx, key, &got)

		// Assert
		require.Error(t, err)
		assert.False(t, found)
		assert.Contains(t, err.Error(), "failed to unmarshal")
	})

	t.Run("Failure - Unencodable Value", func(t *testing.T) {
		// Arrange
		client, mock := redismock.NewClientMock()
		c := cache.NewRedisCache(client, cacheConfig)

		// Act
		err := c.Set(ctx, key, make(chan int), time.Minute)

		// Assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to marshal")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Write Error", func(t *testing.T) {
		// Arrange
		client, mock := redismock.NewClientMock()
		c := cache.NewRedisCache(client, cacheConfig)
		mock.Regexp().ExpectSet(key, `.*`, time.Minute).SetErr(errors.New("read only replica"))

		// Act
		err := c.Set(ctx, key, placedOrder(), time.Minute)

		// Assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read only replica")
	})

	t.Run("Failure - Delete Error", func(t *testing.T) {
		// Arrange
		client, mock := redismock.NewClientMock()
		c := cache.NewRedisCache(client, cacheConfig)
		mock.ExpectDel(key, "order:ord-2").SetErr(errors.New("timeout"))

		// Act
		err := c.Delete(ctx, key, "order:ord-2")

		// Assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "order:ord-1,order:ord-2")
	})
}

func TestKey(t *testing.T) {
	assert.Equal(t, "order:123e4567-e89b-12d3-a456-426614174000", cache.Key(cache.OrderKeyPrefix, "123e4567-e89b-12d3-a456-426614174000"))
	assert.Equal(t, "account:abc", cache.Key(cache.AccountKeyPrefix, "abc"))
}
