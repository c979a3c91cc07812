package usecase

import (
	"context"
)

// InputHandler defines the interface for input format handlers
type InputHandler interface {
	// CanHandle determines if this handler can process the given input unit
	CanHandle(body []byte) bool

	// Process processes one input unit
	Process(ctx context.Context, body []byte) error
}

// FormatRouter routes input units to the appropriate handler based on their format
type FormatRouter interface {
	// Register registers a handler; handlers are tried in registration order
	Register(handler InputHandler)

	// GetHandler returns the appropriate handler for a given input unit
	GetHandler(body []byte) InputHandler
}
