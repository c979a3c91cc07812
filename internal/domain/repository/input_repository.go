package repository

import (
	"context"
	"errors"
	"time"
)

// ErrNoInput is returned by InputSource.Next when the wait elapsed without input
var ErrNoInput = errors.New("no input available")

// InputSource supplies raw input units, one at a time.
// Next returns io.EOF once the source is exhausted.
type InputSource interface {
	Next(ctx context.Context, wait time.Duration) ([]byte, error)
}
