package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/vendororders/internal/service/models/eventfilter"
	"github.com/corray333/backend-labs/vendororders/internal/service/models/fetchstatus"
	"github.com/corray333/backend-labs/vendororders/internal/service/models/order"
	"github.com/corray333/backend-labs/vendororders/internal/service/models/ordersview"
	createorder "github.com/corray333/backend-labs/vendororders/internal/transport/http/create_order"
	"github.com/corray333/backend-labs/vendororders/internal/transport/http/dashboard"
	"github.com/corray333/backend-labs/vendororders/internal/transport/http/docs"
	listfilters "github.com/corray333/backend-labs/vendororders/internal/transport/http/list_filters"
	listorders "github.com/corray333/backend-labs/vendororders/internal/transport/http/list_orders"
	orderdetails "github.com/corray333/backend-labs/vendororders/internal/transport/http/order_details"
	refreshorders "github.com/corray333/backend-labs/vendororders/internal/transport/http/refresh_orders"
	"github.com/corray333/backend-labs/vendororders/pkg/http/middleware/trace"
	"github.com/corray333/backend-labs/vendororders/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type service interface {
	GetView(ctx context.Context, params ordersview.Params) (ordersview.View, error)
	GetOrder(ctx context.Context, id string) (order.Order, error)
	Filters(ctx context.Context) []eventfilter.Filter
	Refresh(ctx context.Context) error
	Report() fetchstatus.Report
	Ingest(ctx context.Context, orders []order.Order) ([]order.Order, error)
}

type HTTPTransport struct {
	server  *http.Server
	router  *chi.Mux
	service service
}

func NewHTTPTransport(service service) *HTTPTransport {
	router := newRouter()
	server := newServer(router)
	return &HTTPTransport{
		server:  server,
		router:  router,
		service: service,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// Handler exposes the router, mainly for tests.
func (h *HTTPTransport) Handler() http.Handler {
	return h.router
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/api", func(r chi.Router) {
		r.Get("/orders", h.getOrders)
		r.Post("/orders", h.batchInsert)
		r.Post("/orders/refresh", h.refreshOrders)
		r.Get("/orders/{id}", h.getOrder)
		r.Get("/filters", h.getFilters)
	})

	h.router.Get("/orders", h.renderOrders)
	h.router.Get("/healthz", h.healthz)

	h.router.Get("/swagger/doc.json", docs.ServeDoc)
	h.router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}

func (h *HTTPTransport) getOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListOrders(w, r, h.service)
}

func (h *HTTPTransport) batchInsert(w http.ResponseWriter, r *http.Request) {
	createorder.BatchInsert(w, r, h.service)
}

func (h *HTTPTransport) refreshOrders(w http.ResponseWriter, r *http.Request) {
	refreshorders.RefreshOrders(w, r, h.service)
}

func (h *HTTPTransport) getOrder(w http.ResponseWriter, r *http.Request) {
	orderdetails.GetOrder(w, r, h.service)
}

func (h *HTTPTransport) getFilters(w http.ResponseWriter, r *http.Request) {
	listfilters.ListFilters(w, r, h.service)
}

func (h *HTTPTransport) renderOrders(w http.ResponseWriter, r *http.Request) {
	dashboard.RenderOrders(w, r, h.service)
}

// healthz answers 200 while the last finished load succeeded and 503 otherwise.
func (h *HTTPTransport) healthz(w http.ResponseWriter, _ *http.Request) {
	report := h.service.Report()

	status := http.StatusServiceUnavailable
	if report.Serving {
		status = http.StatusOK
	}

	refreshorders.WriteReport(w, status, report)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(trace.NewTraceMiddleware)

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
