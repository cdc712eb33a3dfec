package app

import (
	"context"
	"fmt"

	"github.com/hneno001/qr-cafe/internal/domain"
)

// SnapshotRepository is the read surface of the projection. The orders
// query owns the ordering contract (NEW first, then newest first) and
// excludes terminal statuses.
type SnapshotRepository interface {
	ListActiveOrders(ctx context.Context, limit int) ([]domain.SnapshotOrder, error)
	ListItemsForOrders(ctx context.Context, orderIDs []int64) (map[int64][]domain.SnapshotItem, error)
}

// snapshotLimit bounds push payload size and query cost.
const snapshotLimit = 200

// SnapshotService projects the store of record into the live read-model
// pushed to staff terminals. It never mutates anything.
type SnapshotService struct {
	repo SnapshotRepository
}

func NewSnapshotService(repo SnapshotRepository) *SnapshotService {
	return &SnapshotService{repo: repo}
}

func (s *SnapshotService) Build(ctx context.Context) (domain.Snapshot, error) {
	orders, err := s.repo.ListActiveOrders(ctx, snapshotLimit)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("list active orders: %w", err)
	}
	if len(orders) == 0 {
		return domain.Snapshot{Orders: []domain.SnapshotOrder{}}, nil
	}

	ids := make([]int64, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	items, err := s.repo.ListItemsForOrders(ctx, ids)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("list order items: %w", err)
	}

	for i := range orders {
		if its, ok := items[orders[i].ID]; ok {
			orders[i].Items = its
		} else {
			orders[i].Items = []domain.SnapshotItem{}
		}
	}
	return domain.Snapshot{Orders: orders}, nil
}
