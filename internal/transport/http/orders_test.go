package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hneno001/qr-cafe/internal/app"
	"github.com/hneno001/qr-cafe/internal/domain"
)

func TestHandleCreateOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		method         string
		body           string
		result         app.CreateOrderResult
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "created",
			method:         http.MethodPost,
			body:           `{"token":"TOK1","items":[{"product_id":7,"qty":2}],"client_key":"cli-1"}`,
			result:         app.CreateOrderResult{OrderID: 42, Created: true},
			expectedStatus: http.StatusCreated,
			expectedSubstr: `"created":true`,
		},
		{
			name:           "idempotent replay",
			method:         http.MethodPost,
			body:           `{"token":"TOK1","items":[{"product_id":7,"qty":2}],"client_key":"cli-1"}`,
			result:         app.CreateOrderResult{OrderID: 42, Created: false},
			expectedStatus: http.StatusOK,
			expectedSubstr: `"created":false`,
		},
		{
			name:           "malformed body",
			method:         http.MethodPost,
			body:           `{"token":`,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"invalid_request_body"`,
		},
		{
			name:           "unknown field rejected",
			method:         http.MethodPost,
			body:           `{"token":"TOK1","items":[{"product_id":7,"qty":1}],"surprise":true}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing token",
			method:         http.MethodPost,
			body:           `{"items":[{"product_id":7,"qty":1}]}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing items",
			method:         http.MethodPost,
			body:           `{"token":"TOK1","items":[]}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid table",
			method:         http.MethodPost,
			body:           `{"token":"NOPE","items":[{"product_id":7,"qty":1}]}`,
			serviceErr:     domain.ErrInvalidTable,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"invalid_table"`,
		},
		{
			name:           "no usable items",
			method:         http.MethodPost,
			body:           `{"token":"TOK1","items":[{"product_id":0,"qty":1}]}`,
			serviceErr:     domain.ErrNoItems,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"no_items"`,
		},
		{
			name:           "item unavailable",
			method:         http.MethodPost,
			body:           `{"token":"TOK1","items":[{"product_id":7,"qty":1}]}`,
			serviceErr:     domain.ErrItemsUnavailable,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"items_unavailable"`,
		},
		{
			name:           "service failure",
			method:         http.MethodPost,
			body:           `{"token":"TOK1","items":[{"product_id":7,"qty":1}]}`,
			serviceErr:     errors.New("db down"),
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "method not allowed",
			method:         http.MethodGet,
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubOrderCreator{result: tt.result, err: tt.serviceErr}

			req := httptest.NewRequest(tt.method, "/api/orders", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			HandleCreateOrder(svc).ServeHTTP(rec, req)

			res := rec.Result()
			if res.StatusCode != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, res.StatusCode)
			}
			if tt.expectedSubstr != "" {
				body := rec.Body.String()
				if !strings.Contains(body, tt.expectedSubstr) {
					t.Fatalf("expected response to contain %q, got %q", tt.expectedSubstr, body)
				}
			}
		})
	}
}

func TestHandleCreateOrder_MapsRequestToInput(t *testing.T) {
	t.Parallel()

	svc := &stubOrderCreator{result: app.CreateOrderResult{OrderID: 1, Created: true}}
	body := `{"token":"TOK1","items":[{"product_id":7,"qty":2},{"product_id":8,"qty":1}],"client_key":"cli-1"}`

	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()

	HandleCreateOrder(svc).ServeHTTP(rec, req)

	in := svc.lastInput
	if in.TableToken != "TOK1" || in.ClientKey != "cli-1" {
		t.Fatalf("unexpected input: %+v", in)
	}
	if len(in.Items) != 2 || in.Items[0].ProductID != 7 || in.Items[0].Qty != 2 {
		t.Fatalf("unexpected items: %+v", in.Items)
	}
}

type stubOrderCreator struct {
	result    app.CreateOrderResult
	err       error
	lastInput app.CreateOrderInput
}

func (s *stubOrderCreator) Create(_ context.Context, in app.CreateOrderInput) (app.CreateOrderResult, error) {
	s.lastInput = in
	return s.result, s.err
}
