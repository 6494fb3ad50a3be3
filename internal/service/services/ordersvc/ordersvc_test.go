package ordersvc

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/corray333/backend-labs/vendororders/internal/service/models/currency"
	"github.com/corray333/backend-labs/vendororders/internal/service/models/eventfilter"
	"github.com/corray333/backend-labs/vendororders/internal/service/models/fetchstatus"
	"github.com/corray333/backend-labs/vendororders/internal/service/models/order"
	"github.com/corray333/backend-labs/vendororders/internal/service/models/ordersview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu      sync.Mutex
	orders  []order.Order
	filters []eventfilter.Filter
	err     error
}

func (r *fakeRepo) List(context.Context) ([]order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}

	return append([]order.Order(nil), r.orders...), nil
}

func (r *fakeRepo) Filters(context.Context) ([]eventfilter.Filter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.filters, nil
}

func (r *fakeRepo) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

type fakeWriter struct {
	stored map[string]bool
	err    error
}

func (w *fakeWriter) BulkInsert(_ context.Context, orders []order.Order) ([]order.Order, error) {
	if w.err != nil {
		return nil, w.err
	}
	inserted := make([]order.Order, 0, len(orders))
	for _, o := range orders {
		if w.stored[o.ID] {
			continue
		}
		w.stored[o.ID] = true
		inserted = append(inserted, o)
	}

	return inserted, nil
}

func newOrder(id, title string) order.Order {
	return order.Order{
		ID:           id,
		AttendeeName: "Attendee " + id,
		EventTitle:   title,
		TicketType:   "Regular",
		TicketCost:   500000,
		Currency:     currency.CurrencyNGN,
	}
}

func TestRefresh_SuccessThenFailure(t *testing.T) {
	repo := &fakeRepo{orders: []order.Order{newOrder("A", "Jazz Night"), newOrder("B", "Tech Talk")}}

	var seen []fetchstatus.Status
	svc := MustNewOrderService(
		WithRepository(repo),
		WithStatusListener(func(s fetchstatus.Status) { seen = append(seen, s) }),
	)
	assert.Equal(t, fetchstatus.StatusIdle, svc.Report().Status)

	view, err := svc.GetView(context.Background(), ordersview.Params{})
	require.NoError(t, err)
	assert.Equal(t, ordersview.KindLoading, view.Kind)

	require.NoError(t, svc.Refresh(context.Background()))
	report := svc.Report()
	assert.Equal(t, fetchstatus.StatusSuccess, report.Status)
	assert.Equal(t, 2, report.Orders)
	assert.False(t, report.LoadedAt.IsZero())

	view, err = svc.GetView(context.Background(), ordersview.Params{})
	require.NoError(t, err)
	assert.Equal(t, ordersview.KindPopulated, view.Kind)
	assert.Equal(t, eventfilter.Defaults, svc.Filters(context.Background()))

	boom := errors.New("connection refused")
	repo.fail(boom)
	err = svc.Refresh(context.Background())
	require.ErrorIs(t, err, boom)

	report = svc.Report()
	assert.Equal(t, fetchstatus.StatusFailure, report.Status)
	assert.Contains(t, report.Error, "connection refused")

	view, err = svc.GetView(context.Background(), ordersview.Params{})
	require.NoError(t, err)
	assert.Equal(t, ordersview.KindFailed, view.Kind)

	repo.fail(nil)
	require.NoError(t, svc.Refresh(context.Background()))
	assert.Empty(t, svc.Report().Error)

	assert.Equal(t, []fetchstatus.Status{
		fetchstatus.StatusLoading, fetchstatus.StatusSuccess,
		fetchstatus.StatusLoading, fetchstatus.StatusFailure,
		fetchstatus.StatusLoading, fetchstatus.StatusSuccess,
	}, seen)
}

func TestSnapshot_ServesPreviousDataWhileReloading(t *testing.T) {
	svc := MustNewOrderService(WithRepository(&fakeRepo{orders: []order.Order{newOrder("A", "Jazz")}}))
	require.NoError(t, svc.Refresh(context.Background()))

	svc.setStatus(fetchstatus.StatusLoading, nil)
	snap := svc.Snapshot()
	assert.Equal(t, fetchstatus.StatusSuccess, snap.Status)
	assert.Len(t, snap.Orders, 1)
}

func TestGetOrder(t *testing.T) {
	svc := MustNewOrderService(WithRepository(&fakeRepo{orders: []order.Order{newOrder("A", "Jazz"), newOrder("B", "Rock")}}))

	_, err := svc.GetOrder(context.Background(), "A")
	require.ErrorIs(t, err, ErrSnapshotNotReady)

	require.NoError(t, svc.Refresh(context.Background()))

	got, err := svc.GetOrder(context.Background(), "B")
	require.NoError(t, err)
	assert.Equal(t, "Rock", got.EventTitle)

	_, err = svc.GetOrder(context.Background(), "Z")
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestIngest(t *testing.T) {
	repo := &fakeRepo{orders: []order.Order{newOrder("A", "Jazz")}}
	writer := &fakeWriter{stored: map[string]bool{"A": true}}
	svc := MustNewOrderService(WithRepository(repo), WithWriter(writer))
	require.NoError(t, svc.Refresh(context.Background()))

	inserted, err := svc.Ingest(context.Background(), []order.Order{
		newOrder("A", "Jazz"),
		newOrder("B", "Music Fest"),
		newOrder("C", "Music Gala"),
	})
	require.NoError(t, err)
	require.Len(t, inserted, 2)

	snap := svc.Snapshot()
	ids := make([]string, 0, len(snap.Orders))
	for _, o := range snap.Orders {
		ids = append(ids, o.ID)
	}
	assert.Equal(t, []string{"C", "B", "A"}, ids)

	view, err := svc.GetView(context.Background(), ordersview.Params{Search: "music"})
	require.NoError(t, err)
	assert.Equal(t, 2, view.TotalItems)
}

func TestIngest_Errors(t *testing.T) {
	readOnly := MustNewOrderService(WithRepository(&fakeRepo{}))
	_, err := readOnly.Ingest(context.Background(), []order.Order{newOrder("A", "Jazz")})
	require.ErrorIs(t, err, ErrReadOnly)

	boom := errors.New("disk full")
	failing := MustNewOrderService(WithRepository(&fakeRepo{}), WithWriter(&fakeWriter{err: boom}))
	_, err = failing.Ingest(context.Background(), []order.Order{newOrder("A", "Jazz")})
	assert.ErrorIs(t, err, boom)
}

func TestIngest_BeforeFirstLoadWaitsForRefresh(t *testing.T) {
	writer := &fakeWriter{stored: map[string]bool{}}
	svc := MustNewOrderService(WithRepository(&fakeRepo{}), WithWriter(writer))

	_, err := svc.Ingest(context.Background(), []order.Order{newOrder("A", "Jazz")})
	require.NoError(t, err)
	assert.Empty(t, svc.Snapshot().Orders)
}

func TestMustNewOrderService_RequiresRepository(t *testing.T) {
	assert.Panics(t, func() { MustNewOrderService() })
}

func TestRefresh_UsesClock(t *testing.T) {
	fixed := time.Date(2024, 1, 6, 12, 0, 0, 0, time.UTC)
	svc := MustNewOrderService(WithRepository(&fakeRepo{}))
	svc.now = func() time.Time { return fixed }

	require.NoError(t, svc.Refresh(context.Background()))
	assert.Equal(t, fixed, svc.Report().LoadedAt)
}

// gatedStore is an order store whose List can be held open after reading.
type gatedStore struct {
	mu      sync.Mutex
	orders  []order.Order
	err     error
	gate    chan struct{}
	entered chan struct{}
}

func (s *gatedStore) List(context.Context) ([]order.Order, error) {
	s.mu.Lock()
	orders := append([]order.Order(nil), s.orders...)
	err := s.err
	gate := s.gate
	s.mu.Unlock()

	if gate != nil {
		s.entered <- struct{}{}
		<-gate
	}
	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (s *gatedStore) Filters(context.Context) ([]eventfilter.Filter, error) {
	return nil, nil
}

func (s *gatedStore) BulkInsert(_ context.Context, orders []order.Order) ([]order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append(append([]order.Order(nil), orders...), s.orders...)

	return orders, nil
}

func (s *gatedStore) hold() chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gate = make(chan struct{})
	s.entered = make(chan struct{}, 1)

	return s.gate
}

func (s *gatedStore) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func TestSnapshot_RetryAfterFailureStaysFailed(t *testing.T) {
	store := &gatedStore{orders: []order.Order{newOrder("A", "Jazz")}}
	svc := MustNewOrderService(WithRepository(store))
	require.NoError(t, svc.Refresh(context.Background()))

	store.fail(errors.New("connection reset"))
	require.Error(t, svc.Refresh(context.Background()))

	release := store.hold()
	done := make(chan error, 1)
	go func() { done <- svc.Refresh(context.Background()) }()
	<-store.entered

	assert.Equal(t, fetchstatus.StatusLoading, svc.Report().Status)
	assert.False(t, svc.Report().Serving)
	view, err := svc.GetView(context.Background(), ordersview.Params{})
	require.NoError(t, err)
	assert.Equal(t, ordersview.KindFailed, view.Kind)

	close(release)
	require.Error(t, <-done)

	view, err = svc.GetView(context.Background(), ordersview.Params{})
	require.NoError(t, err)
	assert.Equal(t, ordersview.KindFailed, view.Kind)
}

func TestSnapshot_ReloadAfterSuccessKeepsServing(t *testing.T) {
	store := &gatedStore{orders: []order.Order{newOrder("A", "Jazz")}}
	svc := MustNewOrderService(WithRepository(store))
	require.NoError(t, svc.Refresh(context.Background()))

	release := store.hold()
	done := make(chan error, 1)
	go func() { done <- svc.Refresh(context.Background()) }()
	<-store.entered

	assert.True(t, svc.Report().Serving)
	view, err := svc.GetView(context.Background(), ordersview.Params{})
	require.NoError(t, err)
	assert.Equal(t, ordersview.KindPopulated, view.Kind)

	close(release)
	require.NoError(t, <-done)
}

func TestIngest_DuringRefreshIsNotLost(t *testing.T) {
	store := &gatedStore{orders: []order.Order{newOrder("A", "Jazz")}}
	svc := MustNewOrderService(WithRepository(store), WithWriter(store))
	require.NoError(t, svc.Refresh(context.Background()))

	release := store.hold()
	refreshed := make(chan error, 1)
	go func() { refreshed <- svc.Refresh(context.Background()) }()
	<-store.entered

	var ingested sync.WaitGroup
	ingested.Add(1)
	var ingestDone atomic.Bool
	go func() {
		defer ingested.Done()
		_, err := svc.Ingest(context.Background(), []order.Order{newOrder("B", "Music Gala")})
		assert.NoError(t, err)
		ingestDone.Store(true)
	}()

	assert.Never(t, ingestDone.Load, 50*time.Millisecond, 5*time.Millisecond)

	close(release)
	require.NoError(t, <-refreshed)
	ingested.Wait()

	got, err := svc.GetOrder(context.Background(), "B")
	require.NoError(t, err)
	assert.Equal(t, "Music Gala", got.EventTitle)
	assert.Len(t, svc.Snapshot().Orders, 2)
}
