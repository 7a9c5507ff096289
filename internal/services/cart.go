package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/storefront-checkout/internal/errors"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/lock"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/metrics"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	repository "github.com/aaravmahajanofficial/storefront-checkout/internal/repositories"
	"github.com/google/uuid"
)

const (
	maxCartWriteAttempts = 3
	maxTombstones        = 100
)

type CartService interface {
	GetCart(ctx context.Context, accountID uuid.UUID) (*models.Cart, error)
	UpsertLine(ctx context.Context, accountID uuid.UUID, line models.CartLine) (*models.Cart, error)
	RemoveLine(ctx context.Context, accountID uuid.UUID, productID uuid.UUID) (*models.RemoveLineResult, error)
	Clear(ctx context.Context, accountID uuid.UUID) error
}

type cartService struct {
	repo   repository.CartRepository
	locker lock.Locker
}

func NewCartService(repo repository.CartRepository, locker lock.Locker) CartService {
	return &cartService{repo: repo, locker: locker}
}

// mutation edits the cart in memory and reports whether anything changed.
type mutation func(cart *models.Cart) (bool, error)

func (s *cartService) GetCart(ctx context.Context, accountID uuid.UUID) (*models.Cart, error) {

	cart, err := s.repo.GetCart(ctx, accountID)
	if err != nil {
		return nil, cartReadError(err)
	}

	return cart, nil
}

func (s *cartService) UpsertLine(ctx context.Context, accountID uuid.UUID, line models.CartLine) (*models.Cart, error) {

	if line.Quantity == 0 {
		line.Quantity = 1
	}

	return s.mutate(ctx, accountID, func(cart *models.Cart) (bool, error) {

		changed := forgetTombstone(cart, line.ProductID)

		if idx := cart.IndexOf(line.ProductID); idx >= 0 {
			if cart.Lines[idx] == line {
				return changed, nil
			}

			cart.Lines[idx] = line

			return true, nil
		}

		cart.Lines = append(cart.Lines, line)

		return true, nil
	})
}

func (s *cartService) RemoveLine(ctx context.Context, accountID uuid.UUID, productID uuid.UUID) (*models.RemoveLineResult, error) {

	result := &models.RemoveLineResult{}

	_, err := s.mutate(ctx, accountID, func(cart *models.Cart) (bool, error) {

		idx := cart.IndexOf(productID)
		if idx < 0 {
			if hasTombstone(cart, productID) {
				return false, nil
			}

			return false, appErrors.NotFoundError("Cart Item Not Found")
		}

		cart.Lines = append(cart.Lines[:idx], cart.Lines[idx+1:]...)
		addTombstones(cart, productID)
		result.Removed = true

		return true, nil
	})

	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *cartService) Clear(ctx context.Context, accountID uuid.UUID) error {

	_, err := s.mutate(ctx, accountID, func(cart *models.Cart) (bool, error) {

		if cart.IsEmpty() {
			return false, nil
		}

		ids := make([]uuid.UUID, 0, len(cart.Lines))
		for _, line := range cart.Lines {
			ids = append(ids, line.ProductID)
		}

		cart.Lines = []models.CartLine{}
		addTombstones(cart, ids...)

		return true, nil
	})

	return err
}

// mutate runs read-modify-write under the per-account lock. The version check
// in SaveCart still guards against a writer whose lease expired.
func (s *cartService) mutate(ctx context.Context, accountID uuid.UUID, fn mutation) (*models.Cart, error) {

	logger := middleware.LoggerFromContext(ctx).With(slog.String("accountId", accountID.String()))

	unlock, err := s.locker.Lock(ctx, lock.Key(lock.CartKeyPrefix, accountID.String()))
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			logger.Warn("Cart lock not acquired", slog.String("error", err.Error()))
			return nil, appErrors.ConflictError("Cart is being updated, please retry").WithError(err)
		}

		logger.Error("Failed to acquire cart lock", slog.String("error", err.Error()))
		return nil, appErrors.InternalError("Failed to update cart").WithError(err)
	}
	defer unlock()

	for attempt := 1; attempt <= maxCartWriteAttempts; attempt++ {

		cart, err := s.repo.GetCart(ctx, accountID)
		if err != nil {
			return nil, cartReadError(err)
		}

		changed, err := fn(cart)
		if err != nil {
			return nil, err
		}

		if !changed {
			return cart, nil
		}

		err = s.repo.SaveCart(ctx, cart)
		if err == nil {
			return cart, nil
		}

		switch {
		case errors.Is(err, repository.ErrVersionConflict):
			metrics.CartWriteConflicts.Inc()
			logger.Warn("Cart version conflict, retrying", slog.Int("attempt", attempt))
			continue
		case errors.Is(err, repository.ErrAccountNotFound):
			return nil, appErrors.NotFoundError("Account not found").WithError(err)
		default:
			logger.Error("Failed to save cart", slog.String("error", err.Error()))
			return nil, appErrors.DatabaseError("Failed to update cart").WithError(err)
		}
	}

	return nil, appErrors.ConflictError("Cart was modified concurrently").WithError(repository.ErrVersionConflict)
}

func cartReadError(err error) error {
	if errors.Is(err, repository.ErrAccountNotFound) {
		return appErrors.NotFoundError("Account not found").WithError(err)
	}

	return appErrors.DatabaseError("Failed to fetch cart").WithError(err)
}

func hasTombstone(cart *models.Cart, productID uuid.UUID) bool {
	for _, id := range cart.Removed {
		if id == productID {
			return true
		}
	}

	return false
}

func forgetTombstone(cart *models.Cart, productID uuid.UUID) bool {
	for i, id := range cart.Removed {
		if id == productID {
			cart.Removed = append(cart.Removed[:i], cart.Removed[i+1:]...)
			return true
		}
	}

	return false
}

// addTombstones keeps the most recent removals only.
func addTombstones(cart *models.Cart, ids ...uuid.UUID) {
	for _, id := range ids {
		forgetTombstone(cart, id)
		cart.Removed = append(cart.Removed, id)
	}

	if overflow := len(cart.Removed) - maxTombstones; overflow > 0 {
		cart.Removed = append([]uuid.UUID(nil), cart.Removed[overflow:]...)
	}
}
