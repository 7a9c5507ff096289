package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/utils"
	"github.com/google/uuid"
)

type AccountRepository interface {
	GetAccountByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	UpdateShippingAddress(ctx context.Context, id uuid.UUID, address models.ShippingAddress) (*models.Account, error)
	UpdatePaymentMethod(ctx context.Context, id uuid.UUID, method string) (*models.Account, error)
}

type accountRepository struct {
	DB *sql.DB
}

func NewAccountRepository(db *sql.DB) AccountRepository {
	return &accountRepository{DB: db}
}

const accountColumns = `id, name, email, phone, role, shipping_address, payment_method, created_at, updated_at`

func (r *accountRepository) GetAccountByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	return scanAccount(r.DB.QueryRowContext(dbCtx, query, id))
}

func (r *accountRepository) UpdateShippingAddress(ctx context.Context, id uuid.UUID, address models.ShippingAddress) (*models.Account, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	addressJSON, err := json.Marshal(address)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal shipping address: %w", err)
	}

	query := `
		UPDATE accounts SET shipping_address = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + accountColumns

	return scanAccount(r.DB.QueryRowContext(dbCtx, query, id, addressJSON))
}

func (r *accountRepository) UpdatePaymentMethod(ctx context.Context, id uuid.UUID, method string) (*models.Account, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE accounts SET payment_method = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + accountColumns

	return scanAccount(r.DB.QueryRowContext(dbCtx, query, id, method))
}

func scanAccount(row *sql.Row) (*models.Account, error) {

	account := &models.Account{}

	var addressJSON []byte

	err := row.Scan(&account.ID, &account.Name, &account.Email, &account.Phone, &account.Role, &addressJSON, &account.PaymentMethod, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to query account: %w", err)
	}

	if len(addressJSON) > 0 {
		account.ShippingAddress = &models.ShippingAddress{}
		if err := json.Unmarshal(addressJSON, account.ShippingAddress); err != nil {
			return nil, fmt.Errorf("failed to unmarshal shipping address: %w", err)
		}
	}

	return account, nil
}
