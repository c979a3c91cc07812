package router

import (
	"search-enrichment-service/internal/usecase"
	"search-enrichment-service/pkg/logger"
)

// FormatRouter routes input units to the first handler that accepts them.
// Handlers are tried in registration order, so a handler accepting every
// input (like a fallback line handler) must be registered last.
type FormatRouter struct {
	handlers []usecase.InputHandler
	logger   logger.Logger
}

// NewFormatRouter creates a new format router
func NewFormatRouter(logger logger.Logger) *FormatRouter {
	return &FormatRouter{
		handlers: make([]usecase.InputHandler, 0),
		logger:   logger,
	}
}

// Register registers a handler; earlier registrations take precedence
func (r *FormatRouter) Register(handler usecase.InputHandler) {
	r.handlers = append(r.handlers, handler)
	r.logger.Info("Registered handler", "handler", handler)
}

// GetHandler returns the first registered handler accepting body, or nil
func (r *FormatRouter) GetHandler(body []byte) usecase.InputHandler {
	for _, handler := range r.handlers {
		if handler.CanHandle(body) {
			return handler
		}
	}
	return nil
}
