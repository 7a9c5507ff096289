package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/utils"
	"github.com/google/uuid"
)

type InventoryRepository interface {
	DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) error
}

type inventoryRepository struct {
	DB *sql.DB
}

func NewInventoryRepository(db *sql.DB) InventoryRepository {
	return &inventoryRepository{DB: db}
}

// DecrementStock takes quantity units off the product in a single conditional
// update, so concurrent callers can never drive the count below zero.
func (r *inventoryRepository) DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE products SET count_in_stock = count_in_stock - $2, updated_at = NOW()
		WHERE id = $1 AND count_in_stock >= $2
	`

	result, err := r.DB.ExecContext(dbCtx, query, productID, quantity)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updatedRows == 1 {
		return nil
	}

	// Nothing updated: either the product is gone or it is short.
	var available int

	err = r.DB.QueryRowContext(dbCtx, `SELECT count_in_stock FROM products WHERE id = $1`, productID).Scan(&available)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to read stock: %w", err)
	}

	return fmt.Errorf("%w: requested %d, available %d", ErrInsufficientStock, quantity, available)
}
