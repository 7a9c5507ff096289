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

type CartRepository interface {
	GetCart(ctx context.Context, accountID uuid.UUID) (*models.Cart, error)
	SaveCart(ctx context.Context, cart *models.Cart) error
}

type cartRepository struct {
	DB *sql.DB
}

func NewCartRepository(db *sql.DB) CartRepository {
	return &cartRepository{DB: db}
}

// GetCart returns the account's cart. An account that never stored a cart
// gets an empty one with Version 0; a missing account is ErrAccountNotFound.
func (r *cartRepository) GetCart(ctx context.Context, accountID uuid.UUID) (*models.Cart, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT a.id, c.lines, c.removed, c.version, c.updated_at
		FROM accounts a
		LEFT JOIN carts c ON c.account_id = a.id
		WHERE a.id = $1
	`

	cart := &models.Cart{}

	var (
		linesJSON   []byte
		removedJSON []byte
		version     sql.NullInt64
		updatedAt   sql.NullTime
	)

	err := r.DB.QueryRowContext(dbCtx, query, accountID).Scan(&cart.AccountID, &linesJSON, &removedJSON, &version, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	cart.Lines = []models.CartLine{}

	if !version.Valid {
		return cart, nil
	}

	cart.Version = version.Int64
	cart.UpdatedAt = updatedAt.Time

	if err := json.Unmarshal(linesJSON, &cart.Lines); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart lines: %w", err)
	}

	if len(removedJSON) > 0 {
		if err := json.Unmarshal(removedJSON, &cart.Removed); err != nil {
			return nil, fmt.Errorf("failed to unmarshal removed lines: %w", err)
		}
	}

	return cart, nil
}

// SaveCart writes the whole cart in one statement, guarded by the version the
// caller read. A lost race yields ErrVersionConflict and writes nothing. On
// success cart.Version and cart.UpdatedAt carry the stored values.
func (r *cartRepository) SaveCart(ctx context.Context, cart *models.Cart) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	lines := cart.Lines
	if lines == nil {
		lines = []models.CartLine{}
	}

	linesJSON, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to marshal cart lines: %w", err)
	}

	removed := cart.Removed
	if removed == nil {
		removed = []uuid.UUID{}
	}

	removedJSON, err := json.Marshal(removed)
	if err != nil {
		return fmt.Errorf("failed to marshal removed lines: %w", err)
	}

	var row *sql.Row

	if cart.Version == 0 {
		query := `
			INSERT INTO carts (account_id, lines, removed, version, updated_at)
			VALUES ($1, $2, $3, 1, NOW())
			ON CONFLICT (account_id) DO NOTHING
			RETURNING version, updated_at
		`
		row = r.DB.QueryRowContext(dbCtx, query, cart.AccountID, linesJSON, removedJSON)
	} else {
		query := `
			UPDATE carts SET lines = $2, removed = $3, version = version + 1, updated_at = NOW()
			WHERE account_id = $1 AND version = $4
			RETURNING version, updated_at
		`
		row = r.DB.QueryRowContext(dbCtx, query, cart.AccountID, linesJSON, removedJSON, cart.Version)
	}

	err = row.Scan(&cart.Version, &cart.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrVersionConflict
		}
		if isForeignKeyViolation(err) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("failed to save cart: %w", err)
	}

	return nil
}
