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

// OrderCreator is the minimal interface needed to place an order.
type OrderCreator interface {
	Create(ctx context.Context, in app.CreateOrderInput) (app.CreateOrderResult, error)
}

type createOrderRequest struct {
	Token     string            `json:"token"`
	Items     []createOrderItem `json:"items"`
	ClientKey string            `json:"client_key"`
}

type createOrderItem struct {
	ProductID int64 `json:"product_id"`
	Qty       int   `json:"qty"`
}

type createOrderResponse struct {
	OrderID int64 `json:"order_id"`
	Created bool  `json:"created"`
}

// HandleCreateOrder returns the handler for placing a new order from a
// table. Creation is idempotent under a client-supplied key: a repeated
// submission returns the original order id with created=false.
func HandleCreateOrder(svc OrderCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req createOrderRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.Token == "" || len(req.Items) == 0 {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "token and items are required")
			return
		}

		items := make([]app.OrderItemInput, 0, len(req.Items))
		for _, it := range req.Items {
			items = append(items, app.OrderItemInput{ProductID: it.ProductID, Qty: it.Qty})
		}

		res, err := svc.Create(r.Context(), app.CreateOrderInput{
			TableToken: req.Token,
			Items:      items,
			ClientKey:  req.ClientKey,
		})
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidTable):
				writeError(w, http.StatusBadRequest, codeInvalidTable, err.Error())
			case errors.Is(err, domain.ErrNoItems):
				writeError(w, http.StatusBadRequest, codeNoItems, err.Error())
			case errors.Is(err, domain.ErrItemsUnavailable):
				writeError(w, http.StatusBadRequest, codeItemsUnavailable, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "could not save order")
			}
			return
		}

		status := http.StatusOK
		if res.Created {
			status = http.StatusCreated
			metrics.OrdersCreated.Inc()
		}
		writeJSON(w, status, createOrderResponse{OrderID: res.OrderID, Created: res.Created})
	}
}
