package listorders

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/corray333/backend-labs/vendororders/internal/service/models/ordersview"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

var (
	decoder  = newDecoder()
	validate = validator.New()
)

type service interface {
	GetView(ctx context.Context, params ordersview.Params) (ordersview.View, error)
}

// queryOrdersRequest is the table state carried in the query string.
type queryOrdersRequest struct {
	Search   string `schema:"search"   validate:"max=100"`
	Page     int    `schema:"page"     validate:"gte=0"`
	Filter   int    `schema:"filter"   validate:"gte=0"`
	Selected string `schema:"selected" validate:"max=64"`
	Modal    bool   `schema:"modal"`
}

func (q *queryOrdersRequest) ToModel() ordersview.Params {
	return ordersview.Params{
		Search:      ordersview.NormalizeSearch(q.Search),
		Page:        q.Page,
		FilterIndex: q.Filter,
		SelectedID:  q.Selected,
		ModalOpen:   q.Modal,
	}
}

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)

	return d
}

// ParseParams decodes and validates the table state from a query string.
func ParseParams(query url.Values) (ordersview.Params, error) {
	req := &queryOrdersRequest{}
	if err := decoder.Decode(req, query); err != nil {
		return ordersview.Params{}, fmt.Errorf("failed to decode query: %w", err)
	}

	if err := validate.Struct(req); err != nil {
		return ordersview.Params{}, fmt.Errorf("invalid query: %w", err)
	}

	return req.ToModel(), nil
}

// ListOrders responds with the derived orders table as JSON.
func ListOrders(w http.ResponseWriter, r *http.Request, service service) {
	params, err := ParseParams(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request", "error", err)

		return
	}

	view, err := service.GetView(r.Context(), params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error getting orders view", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error sending response", "error", err)
	}
}
