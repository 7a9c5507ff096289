package models

import (
	"time"

	"github.com/google/uuid"
)

// PriceBreakdown amounts are rounded half-up to two decimals. TotalPrice is
// the raw sum of line extensions; tax and shipping are informational only.
type PriceBreakdown struct {
	ItemsPrice    float64 `json:"itemsPrice"`
	ShippingPrice float64 `json:"shippingPrice"`
	TaxPrice      float64 `json:"taxPrice"`
	TotalPrice    float64 `json:"totalPrice"`
}

type OrderItem struct {
	ProductID    uuid.UUID `json:"productId"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Quantity     int       `json:"quantity"`
	UnitPrice    float64   `json:"unitPrice"`
	Image        string    `json:"image,omitempty"`
	CountInStock int       `json:"countInStock"`
}

type Order struct {
	ID              uuid.UUID       `json:"id"`
	AccountID       uuid.UUID       `json:"accountId"`
	Items           []OrderItem     `json:"orderItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	Phone           string          `json:"phone,omitempty"`
	Prices          PriceBreakdown  `json:"prices"`
	Status          OrderStatus     `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeliveredAt     *time.Time      `json:"delivered_at,omitempty"`
}

// OrderItemsFromCart copies cart lines into immutable order items.
func OrderItemsFromCart(lines []CartLine) []OrderItem {
	items := make([]OrderItem, 0, len(lines))

	for _, line := range lines {
		items = append(items, OrderItem{
			ProductID:    line.ProductID,
			Name:         line.Name,
			Slug:         line.Slug,
			Quantity:     line.Quantity,
			UnitPrice:    line.UnitPrice,
			Image:        line.Image,
			CountInStock: line.CountInStock,
		})
	}

	return items
}

type StatusChange struct {
	OrderID   uuid.UUID   `json:"orderId"`
	From      OrderStatus `json:"from"`
	To        OrderStatus `json:"to"`
	ActorID   uuid.UUID   `json:"actorId"`
	ChangedAt time.Time   `json:"changedAt"`
}

type PlaceOrderRequest struct {
	AccountID       uuid.UUID        `json:"accountId" validate:"required"`
	ShippingAddress *ShippingAddress `json:"shippingAddress,omitempty" validate:"omitempty"`
	PaymentMethod   string           `json:"paymentMethod,omitempty" validate:"max=64"`
	Phone           string           `json:"phone,omitempty" validate:"omitempty,max=32"`
}

type UpdateOrderStatusRequest struct {
	TargetStatus OrderStatus `json:"targetStatus" validate:"required,oneof=-1 1 2 3 4 5"`
}

// SagaStep names the best-effort steps that run after the order is committed.
type SagaStep string

const (
	StepInventory    SagaStep = "inventory"
	StepCartClear    SagaStep = "cart_clear"
	StepNotification SagaStep = "notification"
)

type Warning struct {
	Step      SagaStep   `json:"step"`
	ProductID *uuid.UUID `json:"productId,omitempty"`
	Message   string     `json:"message"`
}

// PlaceOrderResult is a success; a non-empty Warnings list marks it degraded.
type PlaceOrderResult struct {
	Order    *Order    `json:"order"`
	Warnings []Warning `json:"warnings,omitempty"`
	Degraded bool      `json:"degraded"`
}

type OrderListFilter struct {
	Status *OrderStatus
	Page   int
	Size   int
}
