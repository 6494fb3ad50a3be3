package refreshorders

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/vendororders/internal/service/models/fetchstatus"
)

type service interface {
	Refresh(ctx context.Context) error
	Report() fetchstatus.Report
}

// RefreshOrders reloads the orders snapshot and responds with the fetch report.
// A failed reload answers 502 with the failure report as the body.
func RefreshOrders(w http.ResponseWriter, r *http.Request, service service) {
	status := http.StatusOK
	if err := service.Refresh(r.Context()); err != nil {
		status = http.StatusBadGateway
		slog.Error("Error refreshing orders", "error", err)
	}

	WriteReport(w, status, service.Report())
}

// WriteReport writes a fetch report as JSON with the given status code.
func WriteReport(w http.ResponseWriter, status int, report fetchstatus.Report) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(report); err != nil {
		slog.Error("Error sending response", "error", err)
	}
}
