package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hneno001/qr-cafe/internal/app"
	"github.com/hneno001/qr-cafe/internal/domain"
	"github.com/hneno001/qr-cafe/internal/metrics"
)

// StatusUpdater is the minimal interface needed to change an order's status.
type StatusUpdater interface {
	UpdateStatus(ctx context.Context, in app.UpdateStatusInput) error
}

type updateStatusRequest struct {
	OrderID int64  `json:"order_id"`
	Status  string `json:"status"`
	// CurrentStatus, when set, makes the update conditional on the stored
	// status still matching it.
	CurrentStatus string `json:"current_status"`
}

type updateStatusResponse struct {
	OK bool `json:"ok"`
}

// HandleUpdateStatus returns the staff handler for order status changes.
// Mount behind StaffKey.
func HandleUpdateStatus(svc StatusUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req updateStatusRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		err := svc.UpdateStatus(r.Context(), app.UpdateStatusInput{
			OrderID:  req.OrderID,
			Status:   domain.OrderStatus(req.Status),
			Expected: domain.OrderStatus(req.CurrentStatus),
		})
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidStatus):
				writeError(w, http.StatusBadRequest, codeInvalidStatus, err.Error())
			case errors.Is(err, domain.ErrStatusConflict):
				metrics.StatusConflicts.Inc()
				writeError(w, http.StatusConflict, codeStatusConflict, "status changed by someone else, refresh and retry")
			case errors.Is(err, domain.ErrOrderNotFound):
				writeError(w, http.StatusNotFound, codeOrderNotFound, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "update failed")
			}
			return
		}

		metrics.StatusUpdates.Inc()
		writeJSON(w, http.StatusOK, updateStatusResponse{OK: true})
	}
}
