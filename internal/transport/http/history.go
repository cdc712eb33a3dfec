package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/hneno001/qr-cafe/internal/domain"
)

// HistoryLister is the minimal interface for the finished-order view.
type HistoryLister interface {
	History(ctx context.Context, f domain.HistoryFilter) ([]domain.HistoryOrder, error)
}

type historyOrderResponse struct {
	ID        int64                 `json:"id"`
	Table     string                `json:"table"`
	Status    domain.OrderStatus    `json:"status"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
	Items     []historyItemResponse `json:"items"`
}

type historyItemResponse struct {
	Name string `json:"name"`
	Qty  int    `json:"qty"`
}

// HandleOrderHistory returns the staff handler for finished orders,
// filterable by terminal status and day range. Mount behind StaffKey.
func HandleOrderHistory(svc HistoryLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		q := r.URL.Query()
		limit, _ := strconv.Atoi(q.Get("limit"))

		orders, err := svc.History(r.Context(), domain.HistoryFilter{
			Status: q.Get("status"),
			Date:   q.Get("date"),
			From:   q.Get("from"),
			To:     q.Get("to"),
			Limit:  limit,
		})
		if err != nil {
			if errors.Is(err, domain.ErrBadDate) {
				writeError(w, http.StatusBadRequest, codeBadDate, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, codeInternalError, "failed to load history")
			return
		}

		resp := make([]historyOrderResponse, 0, len(orders))
		for _, o := range orders {
			items := make([]historyItemResponse, 0, len(o.Items))
			for _, it := range o.Items {
				items = append(items, historyItemResponse{Name: it.Name, Qty: it.Qty})
			}
			resp = append(resp, historyOrderResponse{
				ID:        o.ID,
				Table:     o.Table,
				Status:    o.Status,
				CreatedAt: o.CreatedAt,
				UpdatedAt: o.UpdatedAt,
				Items:     items,
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
