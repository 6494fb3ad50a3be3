package docs

import (
	_ "embed"
	"net/http"
)

//go:embed doc.json
var doc []byte

// ServeDoc serves the OpenAPI document the swagger UI loads.
func ServeDoc(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(doc)
}
