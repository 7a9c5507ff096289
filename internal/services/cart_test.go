package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	appErrors "github.com/aaravmahajanofficial/storefront-checkout/internal/errors"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/lock"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	repository "github.com/aaravmahajanofficial/storefront-checkout/internal/repositories"
	repoMocks "github.com/aaravmahajanofficial/storefront-checkout/internal/repositories/mocks"
	service "github.com/aaravmahajanofficial/storefront-checkout/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type busyLocker struct{}

func (busyLocker) Lock(ctx context.Context, key string) (lock.Unlock, error) {
	return nil, fmt.Errorf("%w: %s", lock.ErrNotAcquired, key)
}

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()

	var appErr *appErrors.AppError
	require.True(t, errors.As(err, &appErr), "expected an AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func cartWith(accountID uuid.UUID, lines ...models.CartLine) func(context.Context, uuid.UUID) (*models.Cart, error) {
	return func(context.Context, uuid.UUID) (*models.Cart, error) {
		copied := append([]models.CartLine{}, lines...)
		return &models.Cart{AccountID: accountID, Lines: copied, Version: 1}, nil
	}
}

func testLine(productID uuid.UUID, qty int, price float64) models.CartLine {
	return models.CartLine{
		ProductID:    productID,
		Name:         "Widget",
		Slug:         "widget",
		Quantity:     qty,
		UnitPrice:    price,
		CountInStock: 10,
	}
}

func TestCartService_GetCart(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		repo := repoMocks.NewCartRepository(t)
		cartService := service.NewCartService(repo, lock.NewLocalLocker())
		repo.On("GetCart", ctx, accountID).Return(cartWith(accountID, testLine(uuid.New(), 1, 5))).Once()

		// Act
		cart, err := cartService.GetCart(ctx, accountID)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, accountID, cart.AccountID)
		assert.Len(t, cart.Lines, 1)
	})

	t.Run("Failure - Account Not Found", func(t *testing.T) {
		// Arrange
		repo := repoMocks.NewCartRepository(t)
		cartService := service.NewCartService(repo, lock.NewLocalLocker())
		repo.On("GetCart", ctx, accountID).Return(nil, repository.ErrAccountNotFound).Once()

		// Act
		cart, err := cartService.GetCart(ctx, accountID)

		// Assert
		assert.Nil(t, cart)
		assertAppError(t, err, appErrors.ErrCodeNotFound)
		assert.ErrorIs(t, err, repository.ErrAccountNotFound)
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		// Arrange
		repo := repoMocks.NewCartRepository(t)
		cartService := service.NewCartService(repo, lock.NewLocalLocker())
		dbErr := errors.New("connection refused")
		repo.On("GetCart", ctx, accountID).Return(nil, dbErr).Once()

		// Act
		_, err := cartService.GetCart(ctx, accountID)

		// Assert
		assertAppError(t, err, appErrors.ErrCodeDatabaseError)
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestCartService_UpsertLine(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()
	productID := uuid.New()

	t.Run("Success - Appends New Line With Default Quantity", func(t *testing.T) {
		// Arrange
		repo := repoMocks.NewCartRepository(t)
		cartService := service.NewCartService(repo, lock.NewLocalLocker())
		repo.On("GetCart", mock.Anything, accountID).Return(cartWith(accountID)).Once()
		repo.On("SaveCart", mock.Anything, mock.MatchedBy(func(c *models.Cart) bool {
			return len(c.Lines) == 1 && c.Lines[0].ProductID == productID && c.Lines[0].Quantity == 1
		})).Return(nil).Once()

		// Act
		cart, err := cartService.UpsertLine(ctx, accountID, testLine(productID, 0, 9.99))

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 1, cart.Lines[0].Quantity)
	})

	t.Run("Success - Replaces Existing Line Keeping Product Unique", func(t *testing.T) {
		// Arrange
		repo := repoMocks.NewCartRepository(t)
		cartService := service.NewCartService(repo, lock.NewLocalLocker())
		other := testLine(uuid.New(), 1, 3)
		repo.On("GetCart", mock.Anything, accountID).Return(cartWith(accountID, testLine(productID, 1, 9.99), other)).Once()
		repo.On("SaveCart", mock.Anything, mock.AnythingOfType("*models.Cart")).Return(nil).Once()

		updated := testLine(productID, 3, 8.5)
		updated.CountInStock = 4

		// Act
		cart, err := cartService.UpsertLine(ctx, accountID, updated)

		// Assert
		require.NoError(t, err)
		require.Len(t, cart.Lines, 2)
		assert.Equal(t, updated, cart.Lines[0])
		assert.Equal(t, other, cart.Lines[1])
	})

	t.Run("Success - Identical Repeat Skips Write", func(t *testing.T) {
		// Arrange
		repo := repoMocks.NewCartRepository(t)
		cartService := service.NewCartService(repo, lock.NewLocalLocker())
		line := testLine(productID, 2, 4)
		repo.On("GetCart", mock.Anything, accountID).Return(cartWith(accountID, line)).Once()

		// Act
		cart, err := cartService.UpsertLine(ctx, accountID, line)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, []models.CartLine{line}, cart.Lines)
		repo.AssertNotCalled(t, "SaveCart", mock.Anything, mock.Anything)
	})

	t.Run("Success - Re-adding Clears Tombstone", func(t *testing.T) {
		// Arrange
		repo := repoMocks.NewCartRepository(t)
		cartService := service.NewCartService(repo, lock.NewLocalLocker())
		repo.On("GetCart", mock.Anything, accountID).Return(&models.Cart{
			AccountID: accountID,
			Lines:     []models.CartLine{},
			Removed:   []uuid.UUID{productID},
			Version:   4,
		}, nil).Once()
		repo.On("SaveCart", mock.Anything, mock.MatchedBy(func(c *models.Cart) bool {
			return len(c.Removed) == 0 && len(c.Lines) == 1
		})).Return(nil).Once()

		// Act
		_, err := cartService.UpsertLine(ctx, accountID, testLine(productID, 1, 1))

		// Assert
		require.NoError(t, err)
	})

	t.Run("Success - Retries After Version Conflict", func(t *testing.T) {
		// Arrange
		repo := repoMocks.NewCartRepository(t)
		cartService := service.NewCartService(repo, lock.NewLocalLocker())
		repo.On("GetCart", mock.Anything, accountID).Return(cartWith(accountID)).Twice()
		repo.On("SaveCart", mock.Anything, mock.Anything).Return(repository.ErrVersionConflict).Once()
		repo.On("SaveCart", mock.Anything, mock.Anything).Return(nil).Once()

		// Act
		cart, err := cartService.UpsertLine(ctx, accountID, testLine(productID, 1, 1))

		// Assert
		require.NoError(t, err)
		assert.Len(t, cart.Lines, 1)
	})

	t.Run("Failure - Conflict After Bounded Retries", func(t *testing.T) {
		// Arrange
		repo := repoMocks.NewCartRepository(t)
		cartService := service.NewCartService(repo, lock.NewLocalLocker())
		repo.On("GetCart", mock.Anything, accountID).Return(cartWith(accountID)).Times(3)
		repo.On("SaveCart", mock.Anything, mock.Anything).Return(repository.ErrVersionConflict).Times(3)

		// Act
		cart, err := cartService.UpsertLine(ctx, accountID, testLine(productID, 1, 1))

		// Assert
		assert.Nil(t, cart)
		assertAppError(t, err, appErrors.ErrCodeConflict)
	})

	t.Run("Failure - Account Not Found", func(t *testing.T) {
		// Arrange
		repo := repoMocks.NewCartRepository(t)
		cartService := service.NewCartService(repo, lock.NewLocalLocker())
		repo.On("GetCart", mock.Anything, accountID).Return(nil, repository.ErrAccountNotFound).Once()

		// Act
		_, err := cartService.UpsertLine(ctx, accountID, testLine(productID, 1, 1))

		// Assert
		assertAppError(t, err, appErrors.ErrCodeNotFound)
	})

	t.Run("Failure - Lock Busy", func(t *testing.T) {
		// Arrange
		repo := repoMocks.NewCartRepository(t)
		cartService := service.NewCartService(repo, busyLocker{})

		// Act
		_, err := cartService.UpsertLine(ctx, accountID, testLine(productID, 1, 1))

		// Assert
		assertAppError(t, err, appErrors.ErrCodeConflict)
		assert.ErrorIs(t, err, lock.ErrNotAcquired)
	})
}

func TestCartService_RemoveLine(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()
	productID := uuid.New()

	t.Run("Success - Removes Present Line", func(t *testing.T) {
		// Arrange
		repo := repoMocks.NewCartRepository(t)
		cartService := service.NewCartService(repo, lock.NewLocalLocker())
		keep := testLine(uuid.New(), 1, 1)
		repo.On("GetCart", mock.Anything, accountID).Return(cartWith(accountID, testLine(productID, 2, 5), keep)).Once()
		repo.On("SaveCart", mock.Anything, mock.MatchedBy(func(c *models.Cart) bool {
			return len(c.Lines) == 1 && c.Lines[0] == keep && len(c.Removed) == 1 && c.Removed[0] == productID
		})).Return(nil).Once()

		// Act
		result, err := cartService.RemoveLine(ctx, accountID, productID)

		// Assert
		require.NoError(t, err)
		assert.True(t, result.Removed)
	})

	t.Run("Success - Retried Delete Is Idempotent", func(t *testing.T) {
		// Arrange
		repo := repoMocks.NewCartRepository(t)
		cartService := service.NewCartService(repo, lock.NewLocalLocker())
		repo.On("GetCart", mock.Anything, accountID).Return(&models.Cart{
			AccountID: accountID,
			Lines:     []models.CartLine{},
			Removed:   []uuid.UUID{productID},
			Version:   2,
		}, nil).Once()

		// Act
		result, err := cartService.RemoveLine(ctx, accountID, productID)

		// Assert
		require.NoError(t, err)
		assert.False(t, result.Removed)
		repo.AssertNotCalled(t, "SaveCart", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Never Present", func(t *testing.T) {
		// Arrange
		repo := repoMocks.NewCartRepository(t)
		cartService := service.NewCartService(repo, lock.NewLocalLocker())
		repo.On("GetCart", mock.Anything, accountID).Return(cartWith(accountID, testLine(uuid.New(), 1, 1))).Once()

		// Act
		result, err := cartService.RemoveLine(ctx, accountID, productID)

		// Assert
		assert.Nil(t, result)
		assertAppError(t, err, appErrors.ErrCodeNotFound)
	})
}

func TestCartService_Clear(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()

	t.Run("Success - Tombstones Cleared Lines", func(t *testing.T) {
		// Arrange
		repo := repoMocks.NewCartRepository(t)
		cartService := service.NewCartService(repo, lock.NewLocalLocker())
		first, second := uuid.New(), uuid.New()
		repo.On("GetCart", mock.Anything, accountID).Return(cartWith(accountID, testLine(first, 1, 1), testLine(second, 2, 2))).Once()
		repo.On("SaveCart", mock.Anything, mock.MatchedBy(func(c *models.Cart) bool {
			return c.Lines != nil && len(c.Lines) == 0 && assert.ObjectsAreEqual([]uuid.UUID{first, second}, c.Removed)
		})).Return(nil).Once()

		// Act
		err := cartService.Clear(ctx, accountID)

		// Assert
		require.NoError(t, err)
	})

	t.Run("Success - Empty Cart", func(t *testing.T) {
		// Arrange
		repo := repoMocks.NewCartRepository(t)
		cartService := service.NewCartService(repo, lock.NewLocalLocker())
		repo.On("GetCart", mock.Anything, accountID).Return(cartWith(accountID)).Once()

		// Act
		err := cartService.Clear(ctx, accountID)

		// Assert
		require.NoError(t, err)
		repo.AssertNotCalled(t, "SaveCart", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Account Not Found", func(t *testing.T) {
		// Arrange
		repo := repoMocks.NewCartRepository(t)
		cartService := service.NewCartService(repo, lock.NewLocalLocker())
		repo.On("GetCart", mock.Anything, accountID).Return(nil, repository.ErrAccountNotFound).Once()

		// Act
		err := cartService.Clear(ctx, accountID)

		// Assert
		assertAppError(t, err, appErrors.ErrCodeNotFound)
	})

	t.Run("Failure - Save Error", func(t *testing.T) {
		// Arrange
		repo := repoMocks.NewCartRepository(t)
		cartService := service.NewCartService(repo, lock.NewLocalLocker())
		repo.On("GetCart", mock.Anything, accountID).Return(cartWith(accountID, testLine(uuid.New(), 1, 1))).Once()
		repo.On("SaveCart", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

		// Act
		err := cartService.Clear(ctx, accountID)

		// Assert
		assertAppError(t, err, appErrors.ErrCodeDatabaseError)
	})
}
