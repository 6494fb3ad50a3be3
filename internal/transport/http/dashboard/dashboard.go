package dashboard

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/vendororders/internal/service/models/ordersview"
	listorders "github.com/corray333/backend-labs/vendororders/internal/transport/http/list_orders"
)

//go:embed templates/*.html
var templatesFS embed.FS

var page = template.Must(template.ParseFS(templatesFS, "templates/orders.html"))

type service interface {
	GetView(ctx context.Context, params ordersview.Params) (ordersview.View, error)
}

// RenderOrders renders the orders dashboard page for the query string state.
func RenderOrders(w http.ResponseWriter, r *http.Request, service service) {
	params, err := listorders.ParseParams(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request", "error", err)

		return
	}

	view, err := service.GetView(r.Context(), params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error getting orders view", "error", err)

		return
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, view); err != nil {
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		slog.Error("Error rendering orders page", "error", err)

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Error sending response", "error", err)
	}
}
