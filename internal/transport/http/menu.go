package http

import (
	"context"
	"net/http"

	"github.com/hneno001/qr-cafe/internal/domain"
)

// MenuProvider is the minimal interface for the customer menu.
type MenuProvider interface {
	Menu(ctx context.Context) (domain.Menu, error)
}

type menuResponse struct {
	Categories []menuCategoryResponse `json:"categories"`
}

type menuCategoryResponse struct {
	ID        int64              `json:"id"`
	Name      string             `json:"name"`
	SortOrder *int               `json:"sort_order"`
	Items     []menuItemResponse `json:"items"`
}

type menuItemResponse struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	SortOrder *int    `json:"sort_order"`
}

// HandleMenu returns the public menu handler: categories in display
// order, available products only.
func HandleMenu(svc MenuProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		menu, err := svc.Menu(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "failed to load menu")
			return
		}

		resp := menuResponse{Categories: make([]menuCategoryResponse, 0, len(menu.Categories))}
		for _, c := range menu.Categories {
			items := make([]menuItemResponse, 0, len(c.Items))
			for _, it := range c.Items {
				items = append(items, menuItemResponse{
					ID:        it.ID,
					Name:      it.Name,
					Price:     it.Price,
					SortOrder: it.SortOrder,
				})
			}
			resp.Categories = append(resp.Categories, menuCategoryResponse{
				ID:        c.ID,
				Name:      c.Name,
				SortOrder: c.SortOrder,
				Items:     items,
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
