package templates

import (
	"context"

	"search-enrichment-service/pkg/utils"
)

// RecommendationLineHandler handles raw '^'-delimited recommendation lines
type RecommendationLineHandler struct {
	processor interface {
		ProcessLine(ctx context.Context, line string) error
	}
}

// NewRecommendationLineHandler creates a new raw line handler
func NewRecommendationLineHandler(processor interface {
	ProcessLine(ctx context.Context, line string) error
}) *RecommendationLineHandler {
	return &RecommendationLineHandler{
		processor: processor,
	}
}

// CanHandle accepts anything that is not a JSON object
func (h *RecommendationLineHandler) CanHandle(body []byte) bool {
	return utils.FirstNonSpace(body) != '{'
}

// Process decodes the line and feeds it to the grouper
func (h *RecommendationLineHandler) Process(ctx context.Context, body []byte) error {
	return h.processor.ProcessLine(ctx, string(body))
}

func (h *RecommendationLineHandler) String() string {
	return "recommendation_line"
}
