package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookSnapshot captures the book fields frozen at order time.
type BookSnapshot struct {
	Title      string     `json:"title"`
	Author     string     `json:"author"`
	ISBN       string     `json:"isbn,omitempty"`
	CoverImage *BookImage `json:"coverImage,omitempty"`
}

// OrderDetail is a single line of an order. No order pipeline exists in
// this service; the type and its table are kept for the external order
// system that shares the database.
type OrderDetail struct {
	ID         uuid.UUID    `json:"id" db:"id"`
	OrderID    uuid.UUID    `json:"orderId" db:"order_id"`
	BookID     uuid.UUID    `json:"bookId" db:"book_id"`
	Quantity   int          `json:"quantity" db:"quantity"`
	UnitPrice  float64      `json:"unitPrice" db:"unit_price"`
	TotalPrice float64      `json:"totalPrice" db:"total_price"`
	Snapshot   BookSnapshot `json:"bookSnapshot" db:"book_snapshot"`
	CreatedAt  time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time    `json:"updatedAt" db:"updated_at"`
}

// RecalculateTotal recomputes the line total from quantity and unit
// price. Callers must invoke it before every save.
func (d *OrderDetail) RecalculateTotal() {
	d.TotalPrice = float64(d.Quantity) * d.UnitPrice
}
