package order

import (
	"errors"

	"github.com/corray333/backend-labs/vendororders/internal/service/models/currency"
)

var ErrOrderNotFound = errors.New("order not found")

// Order represents a single vendor sale row on the orders dashboard.
type Order struct {
	ID             string            `json:"orderId"        validate:"required,max=64"`
	AttendeeName   string            `json:"attendeeName"   validate:"required"`
	AttendeeAvatar string            `json:"attendeeAvatar"`
	EventTitle     string            `json:"eventTitle"     validate:"required"`
	EventImage     string            `json:"eventImage"`
	EventCategory  string            `json:"eventCategory"`
	TicketType     string            `json:"ticketType"     validate:"required"`
	TicketCost     int64             `json:"ticketCost"     validate:"gte=0"`
	Currency       currency.Currency `json:"currency"       validate:"required"`
	Created        string            `json:"created"`
}

// FormattedCost returns the ticket cost as shown in the table.
func (o Order) FormattedCost() string {
	return o.Currency.Format(o.TicketCost)
}
