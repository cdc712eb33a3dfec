package http

import (
	"context"
	"net/http"

	"github.com/hneno001/qr-cafe/internal/domain"
)

// SnapshotBuilder is the minimal interface for the live order view.
type SnapshotBuilder interface {
	Build(ctx context.Context) (domain.Snapshot, error)
}

// HandleLatestOrders returns the staff HTTP view of the same snapshot the
// hub pushes over WebSocket. Mount behind StaffKey.
func HandleLatestOrders(svc SnapshotBuilder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		snap, err := svc.Build(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "failed to fetch orders")
			return
		}
		writeJSON(w, http.StatusOK, snap.Orders)
	}
}
