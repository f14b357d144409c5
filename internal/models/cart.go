package models

import (
	"time"

	"github.com/google/uuid"
)

// LineKey identifies a cart line. A cart holds at most one line per key.
type LineKey struct {
	ProductID uuid.UUID
	Size      string
	Color     string
}

type CartLine struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Size      string    `json:"size,omitempty"`
	Color     string    `json:"color,omitempty"`
}

func (l CartLine) Key() LineKey {
	return LineKey{ProductID: l.ProductID, Size: l.Size, Color: l.Color}
}

// Cart is the confirmed line set of a session. Version is the optimistic
// concurrency counter of the persistence store; zero means never persisted.
type Cart struct {
	SessionID string     `json:"session_id"`
	Lines     []CartLine `json:"items"`
	Version   int64      `json:"version"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Clone returns a deep copy so callers can derive the next line set without
// touching confirmed state.
func (c *Cart) Clone() *Cart {
	clone := *c
	clone.Lines = make([]CartLine, len(c.Lines))
	copy(clone.Lines, c.Lines)

	return &clone
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Size      string    `json:"size,omitempty" validate:"max=32"`
	Color     string    `json:"color,omitempty" validate:"max=32"`
	Quantity  int       `json:"quantity" validate:"omitempty,min=1,max=100"`
}

type UpdateItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Size      string    `json:"size,omitempty" validate:"max=32"`
	Color     string    `json:"color,omitempty" validate:"max=32"`
	Quantity  int       `json:"quantity" validate:"max=100"`
}

type RemoveItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Size      string    `json:"size,omitempty" validate:"max=32"`
	Color     string    `json:"color,omitempty" validate:"max=32"`
}

type CartResponse struct {
	Cart  *Cart  `json:"cart"`
	Quote *Quote `json:"quote"`
}
