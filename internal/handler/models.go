package handler

import (
	"log/slog"
	"net/http"

	"pagemill/internal/capabilities"
	"pagemill/internal/httputil"
)

// ModelsHandler serves the model capability catalog to the console's
// conversion-config form.
type ModelsHandler struct {
	registry *capabilities.Registry
	logger   *slog.Logger
}

// NewModelsHandler creates a new models handler
func NewModelsHandler(registry *capabilities.Registry, logger *slog.Logger) *ModelsHandler {
	return &ModelsHandler{
		registry: registry,
		logger:   logger,
	}
}

// GetCapabilities lists all providers and their models. The console filters
// on supports_vision when the aiVision method is selected.
// GET /api/models/capabilities
func (h *ModelsHandler) GetCapabilities(w http.ResponseWriter, r *http.Request) {
	providers := h.registry.GetAllProviders()

	out := make(map[string]interface{}, len(providers))
	for _, provider := range providers {
		models, err := h.registry.ListProviderModels(provider)
		if err != nil {
			h.logger.Error("failed to list provider models", "provider", provider, "error", err)
			continue
		}
		out[provider] = models
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"providers": out,
	})
}
