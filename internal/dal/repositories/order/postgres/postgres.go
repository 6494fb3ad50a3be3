package postgresrepo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/vendororders/internal/service/models/currency"
	"github.com/corray333/backend-labs/vendororders/internal/service/models/eventfilter"
	"github.com/corray333/backend-labs/vendororders/internal/service/models/order"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var orderColumns = []string{
	"order_id",
	"attendee_name",
	"attendee_avatar",
	"event_title",
	"event_image",
	"event_category",
	"ticket_type",
	"ticket_cost",
	"ticket_currency",
	"created_label",
}

// OrderDal represents order data access layer model
type OrderDal struct {
	OrderId        string `db:"order_id"`
	AttendeeName   string `db:"attendee_name"`
	AttendeeAvatar string `db:"attendee_avatar"`
	EventTitle     string `db:"event_title"`
	EventImage     string `db:"event_image"`
	EventCategory  string `db:"event_category"`
	TicketType     string `db:"ticket_type"`
	TicketCost     int64  `db:"ticket_cost"`
	TicketCurrency string `db:"ticket_currency"`
	CreatedLabel   string `db:"created_label"`
}

// ToModel converts OrderDal to service layer Order model
func (o *OrderDal) ToModel() (*order.Order, error) {
	cur, err := currency.ParseCurrency(o.TicketCurrency)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", o.OrderId, err)
	}

	return &order.Order{
		ID:             o.OrderId,
		AttendeeName:   o.AttendeeName,
		AttendeeAvatar: o.AttendeeAvatar,
		EventTitle:     o.EventTitle,
		EventImage:     o.EventImage,
		EventCategory:  o.EventCategory,
		TicketType:     o.TicketType,
		TicketCost:     o.TicketCost,
		Currency:       cur,
		Created:        o.CreatedLabel,
	}, nil
}

// OrderDalFromModel converts service layer Order model to OrderDal
func OrderDalFromModel(o *order.Order) *OrderDal {
	return &OrderDal{
		OrderId:        o.ID,
		AttendeeName:   o.AttendeeName,
		AttendeeAvatar: o.AttendeeAvatar,
		EventTitle:     o.EventTitle,
		EventImage:     o.EventImage,
		EventCategory:  o.EventCategory,
		TicketType:     o.TicketType,
		TicketCost:     o.TicketCost,
		TicketCurrency: o.Currency.String(),
		CreatedLabel:   o.Created,
	}
}

type PostgresOrderRepository struct {
	conn sqlx.ExtContext
}

func NewPostgresOrderRepository(conn sqlx.ExtContext) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
	}
}

// listQuery selects every order, newest first.
func listQuery() sq.SelectBuilder {
	return sq.Select(orderColumns...).
		From("vendor_orders").
		OrderBy("inserted_at DESC", "order_id ASC").
		PlaceholderFormat(sq.Dollar)
}

// List retrieves all orders.
func (r *PostgresOrderRepository) List(ctx context.Context) ([]order.Order, error) {
	query, args, err := listQuery().ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var rows []OrderDal
	if err := sqlx.SelectContext(ctx, r.conn, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	result := make([]order.Order, 0, len(rows))
	for i := range rows {
		model, err := rows[i].ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert order dal to model: %w", err)
		}
		result = append(result, *model)
	}

	return result, nil
}

// Filters retrieves the filter menu in display order.
func (r *PostgresOrderRepository) Filters(ctx context.Context) ([]eventfilter.Filter, error) {
	query, args, err := sq.Select("label").
		From("event_filters").
		OrderBy("position ASC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var filters []eventfilter.Filter
	if err := sqlx.SelectContext(ctx, r.conn, &filters, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query event filters: %w", err)
	}

	return filters, nil
}

const bulkInsertSQL = `
	INSERT INTO vendor_orders (
		order_id,
		attendee_name,
		attendee_avatar,
		event_title,
		event_image,
		event_category,
		ticket_type,
		ticket_cost,
		ticket_currency,
		created_label
	)
	SELECT * FROM unnest(
		$1::text[], $2::text[], $3::text[], $4::text[], $5::text[],
		$6::text[], $7::text[], $8::bigint[], $9::text[], $10::text[]
	)
	ON CONFLICT (order_id) DO NOTHING
	RETURNING
		order_id,
		attendee_name,
		attendee_avatar,
		event_title,
		event_image,
		event_category,
		ticket_type,
		ticket_cost,
		ticket_currency,
		created_label
`

// BulkInsert inserts orders and returns the ones that were not already stored.
func (r *PostgresOrderRepository) BulkInsert(ctx context.Context, orders []order.Order) ([]order.Order, error) {
	if len(orders) == 0 {
		return []order.Order{}, nil
	}

	var (
		ids        = make([]string, len(orders))
		names      = make([]string, len(orders))
		avatars    = make([]string, len(orders))
		titles     = make([]string, len(orders))
		images     = make([]string, len(orders))
		categories = make([]string, len(orders))
		types      = make([]string, len(orders))
		costs      = make([]int64, len(orders))
		currencies = make([]string, len(orders))
		created    = make([]string, len(orders))
	)

	for i := range orders {
		dal := OrderDalFromModel(&orders[i])
		ids[i] = dal.OrderId
		names[i] = dal.AttendeeName
		avatars[i] = dal.AttendeeAvatar
		titles[i] = dal.EventTitle
		images[i] = dal.EventImage
		categories[i] = dal.EventCategory
		types[i] = dal.TicketType
		costs[i] = dal.TicketCost
		currencies[i] = dal.TicketCurrency
		created[i] = dal.CreatedLabel
	}

	rows, err := r.conn.QueryxContext(ctx, bulkInsertSQL,
		pq.Array(ids),
		pq.Array(names),
		pq.Array(avatars),
		pq.Array(titles),
		pq.Array(images),
		pq.Array(categories),
		pq.Array(types),
		pq.Array(costs),
		pq.Array(currencies),
		pq.Array(created),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to bulk insert orders: %w", err)
	}
	defer rows.Close()

	result := make([]order.Order, 0, len(orders))
	for rows.Next() {
		var dal OrderDal
		if err := rows.StructScan(&dal); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		model, err := dal.ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert order dal to model: %w", err)
		}
		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}
