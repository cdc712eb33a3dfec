package domain

import "time"

type OrderStatus string

const (
	StatusNew        OrderStatus = "NEW"
	StatusInProgress OrderStatus = "IN_PROGRESS"
	StatusReady      OrderStatus = "READY"
	StatusServed     OrderStatus = "SERVED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// ValidStatus reports whether s is one of the five known order statuses.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case StatusNew, StatusInProgress, StatusReady, StatusServed, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether s excludes the order from the live view.
func (s OrderStatus) Terminal() bool {
	return s == StatusServed || s == StatusCancelled
}

// Order represents an order placed from a table.
type Order struct {
	ID      int64
	TableID int64
	Status  OrderStatus
	// ClientKey is the caller-supplied idempotency key; empty when the
	// client supplied none. Unique across all orders when present.
	ClientKey string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderLineItem is a product position within an order. UnitPrice is the
// catalog price captured at creation time; it never changes afterwards,
// even when the catalog price does.
type OrderLineItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Qty       int
	UnitPrice float64
}
