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

func TestHandleUpdateStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		method         string
		body           string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "updated",
			method:         http.MethodPost,
			body:           `{"order_id":42,"status":"READY"}`,
			expectedStatus: http.StatusOK,
			expectedSubstr: `"ok":true`,
		},
		{
			name:           "conditional update conflict",
			method:         http.MethodPost,
			body:           `{"order_id":42,"status":"IN_PROGRESS","current_status":"NEW"}`,
			serviceErr:     domain.ErrStatusConflict,
			expectedStatus: http.StatusConflict,
			expectedSubstr: `"status_conflict"`,
		},
		{
			name:           "invalid status",
			method:         http.MethodPost,
			body:           `{"order_id":42,"status":"BURNT"}`,
			serviceErr:     domain.ErrInvalidStatus,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"invalid_status"`,
		},
		{
			name:           "order not found",
			method:         http.MethodPost,
			body:           `{"order_id":999,"status":"READY"}`,
			serviceErr:     domain.ErrOrderNotFound,
			expectedStatus: http.StatusNotFound,
			expectedSubstr: `"order_not_found"`,
		},
		{
			name:           "malformed body",
			method:         http.MethodPost,
			body:           `{"order_id":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "service failure",
			method:         http.MethodPost,
			body:           `{"order_id":42,"status":"READY"}`,
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
			svc := &stubStatusUpdater{err: tt.serviceErr}

			req := httptest.NewRequest(tt.method, "/api/orders/status", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			HandleUpdateStatus(svc).ServeHTTP(rec, req)

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

func TestHandleUpdateStatus_MapsConditionalUpdate(t *testing.T) {
	t.Parallel()

	svc := &stubStatusUpdater{}
	body := `{"order_id":42,"status":"IN_PROGRESS","current_status":"NEW"}`

	req := httptest.NewRequest(http.MethodPost, "/api/orders/status", strings.NewReader(body))
	rec := httptest.NewRecorder()

	HandleUpdateStatus(svc).ServeHTTP(rec, req)

	in := svc.lastInput
	if in.OrderID != 42 || in.Status != domain.StatusInProgress || in.Expected != domain.StatusNew {
		t.Fatalf("unexpected input: %+v", in)
	}
}

type stubStatusUpdater struct {
	err       error
	lastInput app.UpdateStatusInput
}

func (s *stubStatusUpdater) UpdateStatus(_ context.Context, in app.UpdateStatusInput) error {
	s.lastInput = in
	return s.err
}
