package templates

import (
	"context"

	"search-enrichment-service/pkg/utils"
)

// AggregatedSearchHandler handles searches already grouped upstream and sent as JSON
type AggregatedSearchHandler struct {
	processor interface {
		ProcessAggregated(ctx context.Context, body []byte) error
	}
}

// NewAggregatedSearchHandler creates a new aggregated search handler
func NewAggregatedSearchHandler(processor interface {
	ProcessAggregated(ctx context.Context, body []byte) error
}) *AggregatedSearchHandler {
	return &AggregatedSearchHandler{
		processor: processor,
	}
}

// CanHandle accepts JSON objects
func (h *AggregatedSearchHandler) CanHandle(body []byte) bool {
	return utils.FirstNonSpace(body) == '{'
}

// Process enriches the search directly, bypassing the grouper
func (h *AggregatedSearchHandler) Process(ctx context.Context, body []byte) error {
	return h.processor.ProcessAggregated(ctx, body)
}

func (h *AggregatedSearchHandler) String() string {
	return "aggregated_search"
}
