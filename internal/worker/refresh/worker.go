package refresh

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/viper"
)

// service is an interface for the service layer.
type service interface {
	Refresh(ctx context.Context) error
}

// Worker periodically reloads the order snapshot.
type Worker struct {
	service      service
	pollInterval time.Duration
	timeout      time.Duration
	stopCh       chan struct{}
}

// NewWorker creates a new refresh worker configured from viper.
func NewWorker(service service) *Worker {
	pollIntervalSeconds := viper.GetInt("orders.refresh_interval_seconds")
	if pollIntervalSeconds == 0 {
		pollIntervalSeconds = 30
	}

	timeoutSeconds := viper.GetInt("orders.refresh_timeout_seconds")
	if timeoutSeconds == 0 {
		timeoutSeconds = 10
	}

	return NewWorkerWithInterval(
		service,
		time.Duration(pollIntervalSeconds)*time.Second,
		time.Duration(timeoutSeconds)*time.Second,
	)
}

// NewWorkerWithInterval creates a refresh worker with explicit timings.
func NewWorkerWithInterval(service service, pollInterval, timeout time.Duration) *Worker {
	return &Worker{
		service:      service,
		pollInterval: pollInterval,
		timeout:      timeout,
		stopCh:       make(chan struct{}),
	}
}

// Start reloads the snapshot on every tick until ctx is done or Stop is called.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	slog.Info("Refresh worker started", "poll_interval", w.pollInterval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Refresh worker shutting down")

			return
		case <-w.stopCh:
			slog.Info("Refresh worker stopped")

			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

// Stop stops the worker.
func (w *Worker) Stop() {
	close(w.stopCh)
}

func (w *Worker) refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	if err := w.service.Refresh(ctx); err != nil {
		slog.Warn("Scheduled refresh failed, will retry on next tick",
			"next_retry", time.Now().Add(w.pollInterval),
			"error", err,
		)
	}
}
