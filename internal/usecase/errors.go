package usecase

import (
	"errors"
	"fmt"
)

// Failure classes of the pipeline, matched with errors.Is
var (
	ErrMalformedInput   = errors.New("malformed input")
	ErrInvalidAggregate = errors.New("invalid aggregate fields")
	ErrEnrichmentLookup = errors.New("enrichment lookup failure")
)

// DecodeError reports a raw line that could not be decoded. Only that line is skipped.
type DecodeError struct {
	Line string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode line: %v", e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrMalformedInput, e.Err}
}

// InvalidAggregateError reports a group whose shared fields are unusable. The whole group is dropped.
type InvalidAggregateError struct {
	SearchID string
	Err      error
}

func (e *InvalidAggregateError) Error() string {
	return fmt.Sprintf("aggregate search %q: %v", e.SearchID, e.Err)
}

func (e *InvalidAggregateError) Unwrap() []error {
	return []error{ErrInvalidAggregate, e.Err}
}

// EnrichmentError reports a failed lookup or conversion. The whole search is dropped.
type EnrichmentError struct {
	SearchID string
	Err      error
}

func (e *EnrichmentError) Error() string {
	return fmt.Sprintf("enrich search %q: %v", e.SearchID, e.Err)
}

func (e *EnrichmentError) Unwrap() []error {
	return []error{ErrEnrichmentLookup, e.Err}
}
