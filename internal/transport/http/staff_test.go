package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandleStaffVerify(t *testing.T) {
	t.Parallel()

	const secret = "staff-secret"

	tests := []struct {
		name           string
		method         string
		target         string
		header         string
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "valid key in query",
			method:         http.MethodGet,
			target:         "/api/staff/verify?key=" + secret,
			expectedStatus: http.StatusOK,
			expectedSubstr: `"ok":true`,
		},
		{
			name:           "valid key in header",
			method:         http.MethodGet,
			target:         "/api/staff/verify",
			header:         secret,
			expectedStatus: http.StatusOK,
			expectedSubstr: `"ok":true`,
		},
		{
			name:           "wrong key",
			method:         http.MethodGet,
			target:         "/api/staff/verify?key=wrong",
			expectedStatus: http.StatusUnauthorized,
			expectedSubstr: `"ok":false`,
		},
		{
			name:           "missing key",
			method:         http.MethodGet,
			target:         "/api/staff/verify",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "method not allowed",
			method:         http.MethodPost,
			target:         "/api/staff/verify?key=" + secret,
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(tt.method, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("X-Staff-Key", tt.header)
			}
			rec := httptest.NewRecorder()

			HandleStaffVerify(secret).ServeHTTP(rec, req)

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
