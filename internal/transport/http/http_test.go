package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	staticrepo "github.com/corray333/backend-labs/vendororders/internal/dal/repositories/order/static"
	"github.com/corray333/backend-labs/vendororders/internal/service/models/eventfilter"
	"github.com/corray333/backend-labs/vendororders/internal/service/models/fetchstatus"
	"github.com/corray333/backend-labs/vendororders/internal/service/models/order"
	"github.com/corray333/backend-labs/vendororders/internal/service/models/ordersview"
	"github.com/corray333/backend-labs/vendororders/internal/service/services/ordersvc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingRepo struct{}

func (failingRepo) List(context.Context) ([]order.Order, error) {
	return nil, errors.New("upstream unavailable")
}

func (failingRepo) Filters(context.Context) ([]eventfilter.Filter, error) {
	return nil, nil
}

func newTestServer(t *testing.T, svc *ordersvc.OrderService) *httptest.Server {
	t.Helper()

	transport := NewHTTPTransport(svc)
	transport.RegisterRoutes()

	srv := httptest.NewServer(transport.Handler())
	t.Cleanup(srv.Close)

	return srv
}

func loadedService(t *testing.T) *ordersvc.OrderService {
	t.Helper()

	svc := ordersvc.MustNewOrderService(ordersvc.WithRepository(staticrepo.MustNewRepository("")))
	require.NoError(t, svc.Refresh(context.Background()))

	return svc
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < http.StatusBadRequest {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}

	return resp.StatusCode
}

func TestListOrders(t *testing.T) {
	srv := newTestServer(t, loadedService(t))

	var all ordersview.View
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/orders", &all))
	assert.Equal(t, ordersview.KindPopulated, all.Kind)
	assert.Equal(t, 24, all.TotalItems)
	assert.Equal(t, 3, all.TotalPages)
	assert.Len(t, all.Rows, ordersview.PageSize)
	assert.Equal(t, "All events", all.Heading)

	var music ordersview.View
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/orders?search=MUSIC", &music))
	assert.Equal(t, "music", music.Params.Search)
	assert.Equal(t, 8, music.TotalItems)
	assert.Equal(t, 1, music.TotalPages)

	var none ordersview.View
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/orders?search=zzz", &none))
	assert.Equal(t, ordersview.KindEmptyWithSearch, none.Kind)
	assert.Empty(t, none.Rows)

	var last ordersview.View
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/orders?page=2&utm_source=mail", &last))
	assert.Equal(t, 2, last.Params.Page)
	require.NotEmpty(t, last.Rows)
	assert.Equal(t, "ORD-1017", last.Rows[0].ID)
}

func TestListOrders_InvalidQuery(t *testing.T) {
	srv := newTestServer(t, loadedService(t))

	for _, query := range []string{"page=-1", "page=abc", "filter=-2", "search=" + strings.Repeat("a", 101)} {
		t.Run(query, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, getJSON(t, srv.URL+"/api/orders?"+query, nil))
		})
	}
}

func TestListOrders_FailedFetch(t *testing.T) {
	svc := ordersvc.MustNewOrderService(ordersvc.WithRepository(failingRepo{}))
	require.Error(t, svc.Refresh(context.Background()))
	srv := newTestServer(t, svc)

	var view ordersview.View
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/orders", &view))
	assert.Equal(t, ordersview.KindFailed, view.Kind)

	var report fetchstatus.Report
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, fetchstatus.StatusFailure, report.Status)
	assert.Contains(t, report.Error, "upstream unavailable")
}

func TestGetOrder(t *testing.T) {
	srv := newTestServer(t, loadedService(t))

	var got struct {
		order.Order
		Cost string `json:"ticketCostFormatted"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/orders/ORD-1002", &got))
	assert.Equal(t, "Lagos Jazz Night", got.EventTitle)
	assert.NotEmpty(t, got.Cost)

	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/api/orders/ORD-9999", nil))
}

func TestGetOrder_NotLoaded(t *testing.T) {
	svc := ordersvc.MustNewOrderService(ordersvc.WithRepository(staticrepo.MustNewRepository("")))
	srv := newTestServer(t, svc)

	assert.Equal(t, http.StatusServiceUnavailable, getJSON(t, srv.URL+"/api/orders/ORD-1001", nil))
	assert.Equal(t, http.StatusServiceUnavailable, getJSON(t, srv.URL+"/healthz", nil))
}

func TestFiltersAndRefresh(t *testing.T) {
	svc := ordersvc.MustNewOrderService(ordersvc.WithRepository(staticrepo.MustNewRepository("")))
	srv := newTestServer(t, svc)

	resp, err := http.Post(srv.URL+"/api/orders/refresh", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report fetchstatus.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, fetchstatus.StatusSuccess, report.Status)
	assert.Equal(t, 24, report.Orders)

	var filters []eventfilter.Filter
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/filters", &filters))
	assert.Len(t, filters, 4)

	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/healthz", nil))
}

func TestBatchInsert_ReadOnlySource(t *testing.T) {
	srv := newTestServer(t, loadedService(t))

	body := `{"orders":[{"orderId":"ORD-5000","attendeeName":"Ada","eventTitle":"Jazz","ticketType":"VIP","ticketCost":100,"currency":"usd"}]}`
	resp, err := http.Post(srv.URL+"/api/orders", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/api/orders", "application/json", strings.NewReader(`{"orders":[]}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRenderOrders(t *testing.T) {
	srv := newTestServer(t, loadedService(t))

	resp, err := http.Get(srv.URL + "/orders?search=jazz&selected=ORD-1002&modal=true")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	page := string(body)

	assert.Contains(t, page, "Result for &#34;jazz&#34;")
	assert.Contains(t, page, "3 orders")
	assert.Contains(t, page, "Lagos Jazz Night")
	assert.Contains(t, page, "<dialog")
	assert.Contains(t, page, "Order ORD-1002")
	assert.Contains(t, page, `placeholder="Search for all events"`)
	assert.Contains(t, page, "<summary>File</summary>")
}

func TestSwaggerDoc(t *testing.T) {
	srv := newTestServer(t, loadedService(t))

	var doc map[string]any
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/swagger/doc.json", &doc))
	assert.Equal(t, "2.0", doc["swagger"])
}
