package domain

import "time"

// History filter status values. "ALL" means both terminal statuses.
const (
	HistoryAll       = "ALL"
	HistoryServed    = "SERVED"
	HistoryCancelled = "CANCELLED"
)

// HistoryFilter selects finished orders for the staff history view.
// Date, From and To are YYYY-MM-DD day bounds; Date wins over From/To.
// Limit applies only when no day bound is given.
type HistoryFilter struct {
	Status string
	Date   string
	From   string
	To     string
	Limit  int
}

// HistoryOrder is a finished order with its line items, denormalized for
// the staff history view.
type HistoryOrder struct {
	ID        int64
	Table     string
	Status    OrderStatus
	CreatedAt time.Time
	UpdatedAt time.Time
	Items     []HistoryItem
}

type HistoryItem struct {
	Name string
	Qty  int
}
