package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/corray333/backend-labs/vendororders/internal/dal/interfaces/iorderrepo"
	"github.com/corray333/backend-labs/vendororders/internal/dal/postgres"
	"github.com/corray333/backend-labs/vendororders/internal/dal/rabbitmq"
	postgresrepo "github.com/corray333/backend-labs/vendororders/internal/dal/repositories/order/postgres"
	staticrepo "github.com/corray333/backend-labs/vendororders/internal/dal/repositories/order/static"
	"github.com/corray333/backend-labs/vendororders/internal/otel"
	"github.com/corray333/backend-labs/vendororders/internal/service/services/ordersvc"
	"github.com/corray333/backend-labs/vendororders/internal/transport/consumer"
	grpctransport "github.com/corray333/backend-labs/vendororders/internal/transport/grpc"
	httptransport "github.com/corray333/backend-labs/vendororders/internal/transport/http"
	"github.com/corray333/backend-labs/vendororders/internal/worker/refresh"
	"github.com/spf13/viper"
)

const (
	sourceStatic   = "static"
	sourcePostgres = "postgres"
)

// App represents the application.
type App struct {
	orderSvc       *ordersvc.OrderService
	transport      *httptransport.HTTPTransport
	grpcTransport  *grpctransport.GRPCTransport
	refreshWorker  *refresh.Worker
	consumer       *consumer.Consumer
	otel           *otel.OtelController
	postgresClient *postgres.Client
	rabbitmqClient *rabbitmq.Client
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	a := &App{
		otel:          otel.MustInitOtel(),
		grpcTransport: grpctransport.NewGRPCTransport(),
	}

	var (
		repo   iorderrepo.IOrderRepository
		writer iorderrepo.IOrderWriter
	)

	switch source := viper.GetString("orders.source"); source {
	case sourceStatic:
		repo = staticrepo.MustNewRepository(viper.GetString("orders.seed_path"))
	case sourcePostgres:
		a.postgresClient = postgres.MustNewClient()
		pgRepo := postgresrepo.NewPostgresOrderRepository(a.postgresClient.DB())
		repo, writer = pgRepo, pgRepo
	default:
		panic("unknown orders.source: " + source)
	}
	slog.Info("Orders source selected", "source", viper.GetString("orders.source"))

	a.orderSvc = ordersvc.MustNewOrderService(
		ordersvc.WithRepository(repo),
		ordersvc.WithWriter(writer),
		ordersvc.WithStatusListener(a.grpcTransport.SetFetchStatus),
	)

	a.transport = httptransport.NewHTTPTransport(a.orderSvc)
	a.transport.RegisterRoutes()

	a.refreshWorker = refresh.NewWorker(a.orderSvc)

	if viper.GetBool("rabbitmq.enabled") {
		if writer == nil {
			panic("rabbitmq consumer requires orders.source=postgres")
		}
		a.rabbitmqClient = rabbitmq.MustNewClient()
		a.consumer = consumer.NewConsumer(a.rabbitmqClient, a.orderSvc)
	}

	return a
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	// Create a channel to receive OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	initCtx, initCancel := context.WithTimeout(ctx, 10*time.Second)
	if err := a.orderSvc.Refresh(initCtx); err != nil {
		slog.Error("Initial orders load failed, serving failed state until next refresh", "error", err)
	}
	initCancel()

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	go func() {
		if err := a.grpcTransport.Run(); err != nil {
			slog.Error("gRPC server error", "error", err)
		}
	}()

	go a.refreshWorker.Start(ctx)

	if a.consumer != nil {
		go func() {
			if err := a.consumer.Run(ctx); err != nil {
				slog.Error("Consumer error", "error", err)
			}
		}()
	}

	<-stop
	slog.Info("Shutdown signal received")

	a.shutdown()
}

func (a *App) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	if err := a.grpcTransport.Shutdown(ctx); err != nil {
		slog.Error("gRPC server shutdown error", "error", err)
	} else {
		slog.Info("gRPC server stopped gracefully")
	}

	a.refreshWorker.Stop()

	if a.consumer != nil {
		if err := a.consumer.Shutdown(); err != nil {
			slog.Error("Consumer shutdown error", "error", err)
		}
	}

	if a.rabbitmqClient != nil {
		if err := a.rabbitmqClient.Close(); err != nil {
			slog.Error("RabbitMQ connection close error", "error", err)
		} else {
			slog.Info("RabbitMQ connection closed gracefully")
		}
	}

	if a.postgresClient != nil {
		if err := a.postgresClient.Close(); err != nil {
			slog.Error("Database connection close error", "error", err)
		} else {
			slog.Info("Database connection closed gracefully")
		}
	}

	if err := a.otel.Shutdown(ctx); err != nil {
		slog.Error("Tracer provider shutdown error", "error", err)
	}

	slog.Info("Application shutdown complete")
}
