package ordersvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/corray333/backend-labs/vendororders/internal/dal/interfaces/iorderrepo"
	"github.com/corray333/backend-labs/vendororders/internal/service/models/eventfilter"
	"github.com/corray333/backend-labs/vendororders/internal/service/models/fetchstatus"
	"github.com/corray333/backend-labs/vendororders/internal/service/models/order"
	"github.com/corray333/backend-labs/vendororders/internal/service/models/ordersview"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	ErrSnapshotNotReady = errors.New("orders are not loaded yet")
	ErrReadOnly         = errors.New("order source does not accept new orders")
)

// OrderService keeps an in-memory snapshot of the vendor's orders and
// derives dashboard views from it.
type OrderService struct {
	repo   iorderrepo.IOrderRepository
	writer iorderrepo.IOrderWriter

	// refreshMu serializes loads so the fetch status moves one step at a time.
	refreshMu sync.Mutex

	mu        sync.RWMutex
	status    fetchstatus.Status
	settled   fetchstatus.Status // outcome of the last finished load
	orders    []order.Order
	filters   []eventfilter.Filter
	loadedAt  time.Time
	lastErr   error
	listeners []func(fetchstatus.Status)
	now       func() time.Time
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{
		status: fetchstatus.StatusIdle,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.repo == nil {
		panic("ordersvc: order repository is required")
	}

	return s
}

// WithRepository sets the data source for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithRepository(repo iorderrepo.IOrderRepository) option {
	return func(s *OrderService) {
		s.repo = repo
	}
}

// WithWriter sets the store used by Ingest.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithWriter(writer iorderrepo.IOrderWriter) option {
	return func(s *OrderService) {
		s.writer = writer
	}
}

// WithStatusListener registers fn to be called after every fetch status change.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithStatusListener(fn func(fetchstatus.Status)) option {
	return func(s *OrderService) {
		s.listeners = append(s.listeners, fn)
	}
}

// Refresh reloads orders and filters from the repository.
// On failure the previous snapshot is kept but views render as failed.
func (s *OrderService) Refresh(ctx context.Context) error {
	ctx, span := otel.Tracer("service").Start(ctx, "Service.Refresh")
	defer span.End()

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	s.setStatus(fetchstatus.StatusLoading, nil)

	orders, err := s.repo.List(ctx)
	if err != nil {
		err = fmt.Errorf("failed to load orders: %w", err)
	}

	var filters []eventfilter.Filter
	if err == nil {
		filters, err = s.repo.Filters(ctx)
		if err != nil {
			err = fmt.Errorf("failed to load event filters: %w", err)
		}
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.Error("Failed to refresh orders", "error", err)
		s.setStatus(fetchstatus.StatusFailure, err)

		return err
	}

	if len(filters) == 0 {
		filters = eventfilter.Defaults
	}

	s.mu.Lock()
	s.orders = orders
	s.filters = filters
	s.loadedAt = s.now()
	s.mu.Unlock()

	s.setStatus(fetchstatus.StatusSuccess, nil)
	span.SetAttributes(attribute.Int("orders.count", len(orders)))
	slog.Info("Orders refreshed", "count", len(orders))

	return nil
}

// setStatus moves the fetch machine and notifies listeners.
func (s *OrderService) setStatus(next fetchstatus.Status, cause error) {
	s.mu.Lock()
	status, err := s.status.Transition(next)
	if err != nil {
		s.mu.Unlock()
		slog.Warn("Ignoring fetch status change", "error", err)

		return
	}
	s.status = status
	if status == fetchstatus.StatusSuccess || status == fetchstatus.StatusFailure {
		s.settled = status
		s.lastErr = cause
	}
	listeners := s.listeners
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(status)
	}
}

// Snapshot returns the current data for view derivation. While a reload is
// in flight the outcome of the previous load is served: loaded rows after a
// success, the failure after a failure.
func (s *OrderService) Snapshot() ordersview.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := s.status
	if status == fetchstatus.StatusLoading && s.settled != "" {
		status = s.settled
	}

	return ordersview.Snapshot{
		Status:  status,
		Orders:  s.orders,
		Filters: s.filters,
	}
}

// GetView derives the orders table for params.
func (s *OrderService) GetView(ctx context.Context, params ordersview.Params) (ordersview.View, error) {
	_, span := otel.Tracer("service").Start(ctx, "Service.GetView")
	defer span.End()

	view := ordersview.Derive(s.Snapshot(), params)
	span.SetAttributes(
		attribute.String("view.kind", string(view.Kind)),
		attribute.Int("view.total_items", view.TotalItems),
	)

	return view, nil
}

// GetOrder returns the full record shown in the detail modal.
func (s *OrderService) GetOrder(ctx context.Context, id string) (order.Order, error) {
	_, span := otel.Tracer("service").Start(ctx, "Service.GetOrder")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.loadedAt.IsZero() {
		return order.Order{}, ErrSnapshotNotReady
	}

	for _, o := range s.orders {
		if o.ID == id {
			return o, nil
		}
	}

	return order.Order{}, fmt.Errorf("%w: %s", order.ErrOrderNotFound, id)
}

// Filters returns the filter menu options.
func (s *OrderService) Filters(_ context.Context) []eventfilter.Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.filters) == 0 {
		return eventfilter.Defaults
	}

	return s.filters
}

// Report describes the last fetch.
func (s *OrderService) Report() fetchstatus.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report := fetchstatus.Report{
		Status:   s.status,
		Serving:  s.settled == fetchstatus.StatusSuccess,
		LoadedAt: s.loadedAt,
		Orders:   len(s.orders),
	}
	if s.lastErr != nil {
		report.Error = s.lastErr.Error()
	}

	return report
}

// Ingest stores newly placed orders and adds the stored ones to the snapshot.
// It excludes Refresh, so a reload either sees the stored rows or finishes first.
func (s *OrderService) Ingest(ctx context.Context, orders []order.Order) ([]order.Order, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "Service.Ingest")
	defer span.End()

	if s.writer == nil {
		return nil, ErrReadOnly
	}

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	inserted, err := s.writer.BulkInsert(ctx, orders)
	if err != nil {
		span.RecordError(err)

		return nil, fmt.Errorf("failed to store orders: %w", err)
	}

	s.merge(inserted)
	slog.Info("Orders ingested", "received", len(orders), "stored", len(inserted))

	return inserted, nil
}

// merge puts inserted orders in front of the snapshot, newest first.
// The slice is replaced, never modified, so views holding the old one stay valid.
func (s *OrderService) merge(inserted []order.Order) {
	if len(inserted) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loadedAt.IsZero() {
		return
	}

	fresh := make(map[string]struct{}, len(inserted))
	merged := make([]order.Order, 0, len(inserted)+len(s.orders))
	for i := len(inserted) - 1; i >= 0; i-- {
		if _, dup := fresh[inserted[i].ID]; dup {
			continue
		}
		fresh[inserted[i].ID] = struct{}{}
		merged = append(merged, inserted[i])
	}
	for _, o := range s.orders {
		if _, ok := fresh[o.ID]; !ok {
			merged = append(merged, o)
		}
	}

	s.orders = merged
}
