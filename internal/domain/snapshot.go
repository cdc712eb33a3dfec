package domain

import "time"

// Snapshot is the recomputed read-model of all currently active orders.
// It has no identity and is never persisted: it is rebuilt from the store
// of record on every push and discarded after being sent.
type Snapshot struct {
	Orders []SnapshotOrder `json:"orders"`
}

type SnapshotOrder struct {
	ID        int64          `json:"id"`
	Status    OrderStatus    `json:"status"`
	CreatedAt time.Time      `json:"createdAt"`
	Table     string         `json:"table"`
	Items     []SnapshotItem `json:"items"`
}

type SnapshotItem struct {
	Name      string  `json:"name"`
	Qty       int     `json:"qty"`
	UnitPrice float64 `json:"unitPrice"`
}
