package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hneno001/qr-cafe/internal/domain"
)

func TestHandleOrderHistory(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 4, 12, 0, 0, 0, time.UTC)

	t.Run("returns finished orders", func(t *testing.T) {
		t.Parallel()
		svc := &stubHistoryLister{orders: []domain.HistoryOrder{
			{ID: 5, Table: "Table 2", Status: domain.StatusServed, CreatedAt: now, UpdatedAt: now, Items: []domain.HistoryItem{
				{Name: "Soup", Qty: 2},
			}},
		}}

		req := httptest.NewRequest(http.MethodGet, "/api/orders/history", nil)
		rec := httptest.NewRecorder()

		HandleOrderHistory(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		body := rec.Body.String()
		for _, substr := range []string{`"status":"SERVED"`, `"created_at"`, `"name":"Soup"`} {
			if !strings.Contains(body, substr) {
				t.Fatalf("expected response to contain %q, got %q", substr, body)
			}
		}
	})

	t.Run("maps query parameters to filter", func(t *testing.T) {
		t.Parallel()
		svc := &stubHistoryLister{}

		req := httptest.NewRequest(http.MethodGet, "/api/orders/history?status=SERVED&from=2025-03-01&to=2025-03-04&limit=50", nil)
		rec := httptest.NewRecorder()

		HandleOrderHistory(svc).ServeHTTP(rec, req)

		f := svc.lastFilter
		if f.Status != "SERVED" || f.From != "2025-03-01" || f.To != "2025-03-04" || f.Limit != 50 {
			t.Fatalf("unexpected filter: %+v", f)
		}
	})

	t.Run("empty history encodes as array", func(t *testing.T) {
		t.Parallel()
		svc := &stubHistoryLister{}

		req := httptest.NewRequest(http.MethodGet, "/api/orders/history", nil)
		rec := httptest.NewRecorder()

		HandleOrderHistory(svc).ServeHTTP(rec, req)

		if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
			t.Fatalf("expected empty array, got %q", body)
		}
	})

	t.Run("bad date", func(t *testing.T) {
		t.Parallel()
		svc := &stubHistoryLister{err: domain.ErrBadDate}

		req := httptest.NewRequest(http.MethodGet, "/api/orders/history?date=not-a-date", nil)
		rec := httptest.NewRecorder()

		HandleOrderHistory(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"bad_date"`) {
			t.Fatalf("expected bad_date code, got %q", rec.Body.String())
		}
	})

	t.Run("service failure", func(t *testing.T) {
		t.Parallel()
		svc := &stubHistoryLister{err: errors.New("db down")}

		req := httptest.NewRequest(http.MethodGet, "/api/orders/history", nil)
		rec := httptest.NewRecorder()

		HandleOrderHistory(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})

	t.Run("method not allowed", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/api/orders/history", nil)
		rec := httptest.NewRecorder()

		HandleOrderHistory(&stubHistoryLister{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", rec.Code)
		}
	})
}

type stubHistoryLister struct {
	orders     []domain.HistoryOrder
	err        error
	lastFilter domain.HistoryFilter
}

func (s *stubHistoryLister) History(_ context.Context, f domain.HistoryFilter) ([]domain.HistoryOrder, error) {
	s.lastFilter = f
	return s.orders, s.err
}
