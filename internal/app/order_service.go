package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/hneno001/qr-cafe/internal/clock"
	"github.com/hneno001/qr-cafe/internal/domain"
)

// OrderRepository is the persistence surface the order service needs.
type OrderRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetTableByToken(ctx context.Context, token string) (domain.Table, error)
	GetProducts(ctx context.Context, ids []int64) (map[int64]domain.Product, error)
	GetOrderIDByClientKey(ctx context.Context, key string) (int64, bool, error)
	InsertOrder(ctx context.Context, order domain.Order, items []domain.OrderLineItem) (int64, error)
	UpdateStatus(ctx context.Context, orderID int64, status domain.OrderStatus, now time.Time) (int64, error)
	UpdateStatusIf(ctx context.Context, orderID int64, status, expected domain.OrderStatus, now time.Time) (int64, error)
	ListHistory(ctx context.Context, f domain.HistoryFilter) ([]domain.HistoryOrder, error)
}

// Notifier receives committed order mutations. Implementations must not
// block: the mutation response is already on its way back to the caller
// when the notification fires.
type Notifier interface {
	OrderMutated(m domain.Mutation)
}

// NopNotifier discards mutations; used when no broadcast side is wired.
type NopNotifier struct{}

func (NopNotifier) OrderMutated(domain.Mutation) {}

type OrderService struct {
	repo     OrderRepository
	notifier Notifier
	clock    clock.Clock
}

func NewOrderService(repo OrderRepository, notifier Notifier, clk clock.Clock) *OrderService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &OrderService{
		repo:     repo,
		notifier: notifier,
		clock:    clk,
	}
}

type OrderItemInput struct {
	ProductID int64
	Qty       int
}

type CreateOrderInput struct {
	TableToken string
	Items      []OrderItemInput
	ClientKey  string
}

type CreateOrderResult struct {
	OrderID int64
	Created bool
}

func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (CreateOrderResult, error) {
	token := SanitizeToken(in.TableToken)
	if token == "" {
		return CreateOrderResult{}, domain.ErrInvalidTable
	}

	merged := mergeItems(in.Items)
	if len(merged) == 0 {
		return CreateOrderResult{}, domain.ErrNoItems
	}

	now := s.clock.Now()
	var result CreateOrderResult

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		table, err := s.repo.GetTableByToken(txCtx, token)
		if err != nil {
			return err
		}
		if !table.Active {
			return domain.ErrInvalidTable
		}

		// Fast path: a retry of an already-accepted submission returns
		// the order that submission created.
		if in.ClientKey != "" {
			if id, ok, err := s.repo.GetOrderIDByClientKey(txCtx, in.ClientKey); err != nil {
				return err
			} else if ok {
				result = CreateOrderResult{OrderID: id}
				return nil
			}
		}

		ids := make([]int64, 0, len(merged))
		for _, it := range merged {
			ids = append(ids, it.ProductID)
		}
		products, err := s.repo.GetProducts(txCtx, ids)
		if err != nil {
			return err
		}

		items := make([]domain.OrderLineItem, 0, len(merged))
		for _, it := range merged {
			p, ok := products[it.ProductID]
			if !ok || !p.Available {
				return domain.ErrItemsUnavailable
			}
			items = append(items, domain.OrderLineItem{
				ProductID: it.ProductID,
				Qty:       it.Qty,
				UnitPrice: p.Price,
			})
		}

		order := domain.Order{
			TableID:   table.ID,
			Status:    domain.StatusNew,
			ClientKey: in.ClientKey,
			CreatedAt: now,
			UpdatedAt: now,
		}
		id, err := s.repo.InsertOrder(txCtx, order, items)
		if err != nil {
			return err
		}

		result = CreateOrderResult{OrderID: id, Created: true}
		return nil
	})
	if err != nil {
		// A true concurrent duplicate can slip past the fast path; the
		// unique index on client_key turns it into a conflict we resolve
		// by returning the order that won the race.
		if errors.Is(err, domain.ErrDuplicateClientKey) && in.ClientKey != "" {
			if id, ok, lookupErr := s.repo.GetOrderIDByClientKey(ctx, in.ClientKey); lookupErr == nil && ok {
				return CreateOrderResult{OrderID: id}, nil
			}
		}
		return CreateOrderResult{}, err
	}

	if result.Created {
		s.notifier.OrderMutated(domain.Mutation{Kind: domain.MutationCreated, OrderID: result.OrderID})
	}
	return result, nil
}

type UpdateStatusInput struct {
	OrderID int64
	Status  domain.OrderStatus
	// Expected, when non-empty, makes the update conditional: it only
	// applies while the stored status still equals Expected.
	Expected domain.OrderStatus
}

func (s *OrderService) UpdateStatus(ctx context.Context, in UpdateStatusInput) error {
	if !domain.ValidStatus(in.Status) {
		return domain.ErrInvalidStatus
	}
	if in.Expected != "" && !domain.ValidStatus(in.Expected) {
		return domain.ErrInvalidStatus
	}

	now := s.clock.Now()

	var affected int64
	var err error
	if in.Expected != "" {
		affected, err = s.repo.UpdateStatusIf(ctx, in.OrderID, in.Status, in.Expected, now)
	} else {
		affected, err = s.repo.UpdateStatus(ctx, in.OrderID, in.Status, now)
	}
	if err != nil {
		return err
	}
	if affected == 0 {
		if in.Expected != "" {
			// Zero rows under a conditional write means another writer got
			// there first; the caller must re-read and retry.
			return domain.ErrStatusConflict
		}
		return domain.ErrOrderNotFound
	}

	s.notifier.OrderMutated(domain.Mutation{
		Kind:    domain.MutationUpdated,
		OrderID: in.OrderID,
		Status:  in.Status,
	})
	return nil
}

// ResolveTable resolves a sanitized table token to its table. Unknown and
// inactive tokens are indistinguishable to the caller.
func (s *OrderService) ResolveTable(ctx context.Context, token string) (domain.Table, error) {
	token = SanitizeToken(token)
	if token == "" {
		return domain.Table{}, domain.ErrInvalidTable
	}
	table, err := s.repo.GetTableByToken(ctx, token)
	if err != nil {
		return domain.Table{}, err
	}
	if !table.Active {
		return domain.Table{}, domain.ErrInvalidTable
	}
	return table, nil
}

const maxHistoryLimit = 500

// History lists finished orders for the staff history view.
func (s *OrderService) History(ctx context.Context, f domain.HistoryFilter) ([]domain.HistoryOrder, error) {
	switch f.Status {
	case domain.HistoryServed, domain.HistoryCancelled:
	default:
		f.Status = domain.HistoryAll
	}
	for _, day := range []string{f.Date, f.From, f.To} {
		if day == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", day); err != nil {
			return nil, domain.ErrBadDate
		}
	}
	if f.Limit <= 0 || f.Limit > maxHistoryLimit {
		f.Limit = maxHistoryLimit
	}
	return s.repo.ListHistory(ctx, f)
}

// SanitizeToken strips everything but ASCII letters and digits, matching
// the alphabet of tokens printed on table QR codes.
func SanitizeToken(token string) string {
	var b strings.Builder
	for _, r := range token {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// mergeItems normalizes a raw item list: quantities are floored to 1,
// repeated product references are merged by summing quantity, and the
// first-seen product order is preserved.
func mergeItems(items []OrderItemInput) []OrderItemInput {
	merged := make([]OrderItemInput, 0, len(items))
	index := make(map[int64]int, len(items))
	for _, it := range items {
		if it.ProductID <= 0 {
			continue
		}
		qty := it.Qty
		if qty < 1 {
			qty = 1
		}
		if i, ok := index[it.ProductID]; ok {
			merged[i].Qty += qty
			continue
		}
		index[it.ProductID] = len(merged)
		merged = append(merged, OrderItemInput{ProductID: it.ProductID, Qty: qty})
	}
	return merged
}
