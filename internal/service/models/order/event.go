package order

// CreatedEvent is the message published when a new vendor order is placed.
type CreatedEvent struct {
	MessageID string `json:"messageId"`
	Order     Order  `json:"order" validate:"required"`
}
