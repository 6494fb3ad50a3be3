package createorder

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/vendororders/internal/service/models/currency"
	"github.com/corray333/backend-labs/vendororders/internal/service/models/order"
	"github.com/corray333/backend-labs/vendororders/internal/service/services/ordersvc"
	"github.com/go-playground/validator/v10"
)

// service is an interface for the service layer.
type service interface {
	Ingest(ctx context.Context, orders []order.Order) ([]order.Order, error)
}

// orderInCreateOrderRequest represents an order in a create order request.
type orderInCreateOrderRequest struct {
	ID             string `json:"orderId"        validate:"required,max=64"`
	AttendeeName   string `json:"attendeeName"   validate:"required"`
	AttendeeAvatar string `json:"attendeeAvatar"`
	EventTitle     string `json:"eventTitle"     validate:"required"`
	EventImage     string `json:"eventImage"`
	EventCategory  string `json:"eventCategory"`
	TicketType     string `json:"ticketType"     validate:"required"`
	TicketCost     int64  `json:"ticketCost"     validate:"gte=0"`
	Currency       string `json:"currency"       validate:"required"`
	Created        string `json:"created"`
}

// toModel converts orderInCreateOrderRequest to order.Order.
func (r *orderInCreateOrderRequest) toModel() (*order.Order, error) {
	cur, err := currency.ParseCurrency(r.Currency)
	if err != nil {
		return nil, err
	}

	return &order.Order{
		ID:             r.ID,
		AttendeeName:   r.AttendeeName,
		AttendeeAvatar: r.AttendeeAvatar,
		EventTitle:     r.EventTitle,
		EventImage:     r.EventImage,
		EventCategory:  r.EventCategory,
		TicketType:     r.TicketType,
		TicketCost:     r.TicketCost,
		Currency:       cur,
		Created:        r.Created,
	}, nil
}

// createOrderRequest represents a create order request.
type createOrderRequest struct {
	Orders []orderInCreateOrderRequest `json:"orders" validate:"required,min=1,dive"`
}

// Validate validates the create order request.
func (r *createOrderRequest) Validate() error {
	return validator.New().Struct(r)
}

// BatchInsert handles the batch insert request.
func BatchInsert(w http.ResponseWriter, r *http.Request, service service) {
	ordersReq := createOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&ordersReq); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for batch insert", "error", err)

		return
	}

	if err := ordersReq.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating request body for batch insert", "error", err)

		return
	}

	orders := make([]order.Order, len(ordersReq.Orders))
	for i, req := range ordersReq.Orders {
		model, err := req.toModel()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			slog.Error("Error converting model request to model", "error", err)

			return
		}
		orders[i] = *model
	}

	insertedOrders, err := service.Ingest(r.Context(), orders)
	if errors.Is(err, ordersvc.ErrReadOnly) {
		http.Error(w, err.Error(), http.StatusNotImplemented)

		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error performing batch insert", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(insertedOrders); err != nil {
		slog.Error("Error sending response for batch insert", "error", err)
	}
}
