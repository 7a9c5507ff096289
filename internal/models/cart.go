package models

import (
	"time"

	"github.com/google/uuid"
)

type CartLine struct {
	ProductID    uuid.UUID `json:"productId" validate:"required"`
	Name         string    `json:"name" validate:"required,max=200"`
	Slug         string    `json:"slug" validate:"max=200"`
	Quantity     int       `json:"quantity" validate:"gte=0"`
	UnitPrice    float64   `json:"unitPrice" validate:"gte=0"`
	Image        string    `json:"image,omitempty"`
	CountInStock int       `json:"countInStock" validate:"gte=0"`
}

// Cart is the per-account aggregate of pending purchase lines. Version is
// bumped on every committed write and guards against lost updates.
type Cart struct {
	AccountID uuid.UUID   `json:"accountId"`
	Lines     []CartLine  `json:"cartItems"`
	Removed   []uuid.UUID `json:"-"`
	Version   int64       `json:"version"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// IndexOf returns the position of the line for productID, or -1.
func (c *Cart) IndexOf(productID uuid.UUID) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}

	return -1
}

// Snapshot deep-copies the lines so later cart writes cannot reach them.
func (c *Cart) Snapshot() []CartLine {
	lines := make([]CartLine, len(c.Lines))
	copy(lines, c.Lines)

	return lines
}

type UpsertCartLineRequest struct {
	AccountID uuid.UUID `json:"accountId" validate:"required"`
	CartLine  CartLine  `json:"cartLine" validate:"required"`
}

type RemoveLineResult struct {
	Removed bool
}

type MessageResponse struct {
	Message string `json:"message"`
}
