package iorderrepo

import (
	"context"

	"github.com/corray333/backend-labs/vendororders/internal/service/models/eventfilter"
	"github.com/corray333/backend-labs/vendororders/internal/service/models/order"
)

// IOrderRepository is an interface for the order data source.
type IOrderRepository interface {
	List(ctx context.Context) ([]order.Order, error)
	Filters(ctx context.Context) ([]eventfilter.Filter, error)
}

// IOrderWriter is an interface for stores that accept new orders.
type IOrderWriter interface {
	BulkInsert(ctx context.Context, orders []order.Order) ([]order.Order, error)
}
