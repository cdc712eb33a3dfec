package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/hneno001/qr-cafe/internal/domain"
)

// TableResolver is the minimal interface for the table lookup.
type TableResolver interface {
	ResolveTable(ctx context.Context, token string) (domain.Table, error)
}

type tableResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// HandleTableLookup resolves a QR token to its table. Unknown and
// inactive tokens both answer 404.
func HandleTableLookup(svc TableResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		token := r.URL.Query().Get("token")
		if token == "" {
			writeError(w, http.StatusBadRequest, codeMissingToken, "missing token")
			return
		}

		table, err := svc.ResolveTable(r.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidTable) {
				writeError(w, http.StatusNotFound, codeInvalidTable, "table not found or inactive")
				return
			}
			writeError(w, http.StatusInternalServerError, codeInternalError, "failed to load table")
			return
		}
		writeJSON(w, http.StatusOK, tableResponse{ID: table.ID, Name: table.Name})
	}
}
