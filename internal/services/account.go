package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/storefront-checkout/internal/errors"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	repository "github.com/aaravmahajanofficial/storefront-checkout/internal/repositories"
	"github.com/google/uuid"
)

type AccountService interface {
	GetAccount(ctx context.Context, id uuid.UUID) (*models.Account, error)
	UpdateShippingAddress(ctx context.Context, id uuid.UUID, address models.ShippingAddress) (*models.Account, error)
	UpdatePaymentMethod(ctx context.Context, id uuid.UUID, method string) (*models.Account, error)
}

type accountService struct {
	repo           repository.AccountRepository
	paymentMethods []string
}

func NewAccountService(repo repository.AccountRepository, paymentMethods []string) AccountService {
	return &accountService{repo: repo, paymentMethods: paymentMethods}
}

func (s *accountService) GetAccount(ctx context.Context, id uuid.UUID) (*models.Account, error) {

	account, err := s.repo.GetAccountByID(ctx, id)
	if err != nil {
		return nil, accountError(err, "Failed to fetch account")
	}

	return account, nil
}

func (s *accountService) UpdateShippingAddress(ctx context.Context, id uuid.UUID, address models.ShippingAddress) (*models.Account, error) {

	account, err := s.repo.UpdateShippingAddress(ctx, id, address)
	if err != nil {
		return nil, accountError(err, "Failed to save shipping address")
	}

	middleware.LoggerFromContext(ctx).Info("Shipping address saved", slog.String("accountId", id.String()))

	return account, nil
}

func (s *accountService) UpdatePaymentMethod(ctx context.Context, id uuid.UUID, method string) (*models.Account, error) {

	method, ok := acceptedPaymentMethod(s.paymentMethods, method)
	if !ok {
		return nil, appErrors.RejectedError("Payment method is not accepted")
	}

	account, err := s.repo.UpdatePaymentMethod(ctx, id, method)
	if err != nil {
		return nil, accountError(err, "Failed to save payment method")
	}

	middleware.LoggerFromContext(ctx).Info("Payment method selected",
		slog.String("accountId", id.String()),
		slog.String("paymentMethod", method),
	)

	return account, nil
}

func accountError(err error, message string) error {
	if errors.Is(err, repository.ErrAccountNotFound) {
		return appErrors.NotFoundError("Account not found").WithError(err)
	}

	return appErrors.DatabaseError(message).WithError(err)
}

// acceptedPaymentMethod matches case-insensitively and returns the configured spelling.
func acceptedPaymentMethod(accepted []string, method string) (string, bool) {
	method = strings.TrimSpace(method)
	if method == "" {
		return "", false
	}

	idx := slices.IndexFunc(accepted, func(m string) bool {
		return strings.EqualFold(strings.TrimSpace(m), method)
	})
	if idx < 0 {
		return "", false
	}

	return strings.TrimSpace(accepted[idx]), true
}
