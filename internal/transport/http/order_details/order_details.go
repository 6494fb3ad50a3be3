package orderdetails

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/corray333/backend-labs/vendororders/internal/service/models/order"
	"github.com/corray333/backend-labs/vendororders/internal/service/services/ordersvc"
	"github.com/go-chi/chi/v5"
)

type service interface {
	GetOrder(ctx context.Context, id string) (order.Order, error)
}

// orderDetailsResponse is the payload of the detail modal.
type orderDetailsResponse struct {
	order.Order
	Cost string `json:"ticketCostFormatted"`
}

// GetOrder responds with a single order by its id path parameter.
func GetOrder(w http.ResponseWriter, r *http.Request, service service) {
	id, err := url.PathUnescape(chi.URLParam(r, "id"))
	if err != nil || id == "" {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		slog.Error("Error reading order id", "error", err)

		return
	}

	o, err := service.GetOrder(r.Context(), id)
	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)

		return
	case errors.Is(err, ordersvc.ErrSnapshotNotReady):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)

		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error getting order", "order_id", id, "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(orderDetailsResponse{Order: o, Cost: o.FormattedCost()}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error sending response", "error", err)
	}
}
