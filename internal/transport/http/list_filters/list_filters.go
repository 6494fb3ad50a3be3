package listfilters

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/vendororders/internal/service/models/eventfilter"
)

type service interface {
	Filters(ctx context.Context) []eventfilter.Filter
}

// ListFilters responds with the event filter menu options.
func ListFilters(w http.ResponseWriter, r *http.Request, service service) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(service.Filters(r.Context())); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error sending response", "error", err)
	}
}
