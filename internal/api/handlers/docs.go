package handlers

import (
	"log/slog"
	"net/http"

	apispec "github.com/narvanalabs/signing-vault/api"
)

// DocsHandler serves the API documentation.
type DocsHandler struct {
	logger *slog.Logger
	spec   []byte
}

// NewDocsHandler creates a new docs handler serving the embedded OpenAPI document.
func NewDocsHandler(logger *slog.Logger) *DocsHandler {
	return &DocsHandler{
		logger: logger,
		spec:   apispec.OpenAPISpec,
	}
}

// ServeOpenAPISpec serves the OpenAPI document at /api/docs/openapi.yaml.
func (h *DocsHandler) ServeOpenAPISpec(w http.ResponseWriter, r *http.Request) {
	if len(h.spec) == 0 {
		h.logger.Error("OpenAPI document is empty")
		http.Error(w, "OpenAPI specification not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/yaml")
	w.Write(h.spec)
}
