package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, filter models.OrderListFilter) ([]models.Order, int, error)
	ListOrdersByAccount(ctx context.Context, accountID uuid.UUID, page int, size int) ([]models.Order, int, error)
	UpdateOrderStatus(ctx context.Context, order *models.Order, change models.StatusChange) error
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

const orderColumns = `id, account_id, shipping_address, payment_method, phone, items_price, shipping_price, tax_price, total_price, status, created_at, updated_at, delivered_at`

// CreateOrder stores the order and its items atomically. Either both are
// visible afterwards or neither is.
func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	addressJSON, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return fmt.Errorf("failed to marshal shipping address: %w", err)
	}

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO orders (id, account_id, shipping_address, payment_method, phone, items_price, shipping_price, tax_price, total_price, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err = tx.QueryRowContext(dbCtx, query, order.ID, order.AccountID, addressJSON, order.PaymentMethod, order.Phone,
		order.Prices.ItemsPrice, order.Prices.ShippingPrice, order.Prices.TaxPrice, order.Prices.TotalPrice, order.Status,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("failed to insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, position, product_id, name, slug, quantity, unit_price, image, count_in_stock)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	for i, item := range order.Items {
		_, err := tx.ExecContext(dbCtx, itemQuery, order.ID, i, item.ProductID, item.Name, item.Slug, item.Quantity, item.UnitPrice, item.Image, item.CountInStock)
		if err != nil {
			return fmt.Errorf("failed to insert an order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}

	return nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.DB.QueryRowContext(dbCtx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	orders := []models.Order{*order}
	if err := r.attachItems(dbCtx, orders); err != nil {
		return nil, err
	}

	return &orders[0], nil
}

// ListOrders pages through all orders, newest first, optionally restricted to one status.
func (r *orderRepository) ListOrders(ctx context.Context, filter models.OrderListFilter) ([]models.Order, int, error) {

	var (
		where string
		args  []any
	)

	if filter.Status != nil {
		where = `WHERE status = $1`
		args = append(args, *filter.Status)
	}

	return r.list(ctx, where, args, filter.Page, filter.Size)
}

func (r *orderRepository) ListOrdersByAccount(ctx context.Context, accountID uuid.UUID, page int, size int) ([]models.Order, int, error) {
	return r.list(ctx, `WHERE account_id = $1`, []any{accountID}, page, size)
}

func (r *orderRepository) list(ctx context.Context, where string, args []any, page int, size int) ([]models.Order, int, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	countQuery := strings.TrimSpace(`SELECT COUNT(*) FROM orders ` + where)
	if err := r.DB.QueryRowContext(dbCtx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := (page - 1) * size
	n := len(args)

	query := fmt.Sprintf(`SELECT %s FROM orders %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, orderColumns, where, n+1, n+2)

	rows, err := r.DB.QueryContext(dbCtx, query, append(args, size, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}

	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating over the rows: %w", err)
	}

	if err := r.attachItems(dbCtx, orders); err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// UpdateOrderStatus applies change only if the stored status still equals
// change.From, and appends the transition to the history in the same
// transaction. order is updated in place on success.
func (r *orderRepository) UpdateOrderStatus(ctx context.Context, order *models.Order, change models.StatusChange) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE orders
		SET status = $1,
			updated_at = NOW(),
			delivered_at = CASE WHEN $1 = 5 THEN NOW() ELSE delivered_at END
		WHERE id = $2 AND status = $3
		RETURNING updated_at, delivered_at
	`

	var deliveredAt sql.NullTime

	err = tx.QueryRowContext(dbCtx, query, change.To, change.OrderID, change.From).Scan(&order.UpdatedAt, &deliveredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrStatusChanged
		}
		return fmt.Errorf("failed to update order status: %w", err)
	}

	historyQuery := `
		INSERT INTO order_status_history (order_id, from_status, to_status, actor_id, changed_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err = tx.ExecContext(dbCtx, historyQuery, change.OrderID, change.From, change.To, change.ActorID, order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to record status history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit status change: %w", err)
	}

	order.Status = change.To
	if deliveredAt.Valid {
		order.DeliveredAt = &deliveredAt.Time
	}

	return nil
}

// attachItems loads the items of all given orders with one query.
func (r *orderRepository) attachItems(ctx context.Context, orders []models.Order) error {

	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, len(orders))
	index := make(map[uuid.UUID]int, len(orders))

	for i := range orders {
		ids[i] = orders[i].ID.String()
		index[orders[i].ID] = i
		orders[i].Items = []models.OrderItem{}
	}

	query := `
		SELECT order_id, product_id, name, slug, quantity, unit_price, image, count_in_stock
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, position
	`

	rows, err := r.DB.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to get the order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {

		var (
			orderID uuid.UUID
			item    models.OrderItem
		)

		if err := rows.Scan(&orderID, &item.ProductID, &item.Name, &item.Slug, &item.Quantity, &item.UnitPrice, &item.Image, &item.CountInStock); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}

		if i, ok := index[orderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}

	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*models.Order, error) {

	order := &models.Order{}

	var (
		addressJSON []byte
		deliveredAt sql.NullTime
	)

	err := row.Scan(&order.ID, &order.AccountID, &addressJSON, &order.PaymentMethod, &order.Phone,
		&order.Prices.ItemsPrice, &order.Prices.ShippingPrice, &order.Prices.TaxPrice, &order.Prices.TotalPrice,
		&order.Status, &order.CreatedAt, &order.UpdatedAt, &deliveredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}

	if err := json.Unmarshal(addressJSON, &order.ShippingAddress); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shipping address: %w", err)
	}

	if deliveredAt.Valid {
		order.DeliveredAt = &deliveredAt.Time
	}

	return order, nil
}
