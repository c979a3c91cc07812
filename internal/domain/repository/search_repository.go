package repository

import (
	"context"

	"search-enrichment-service/internal/domain/entity"
)

// SearchSink receives enriched searches
type SearchSink interface {
	// Name identifies the sink in logs and metrics
	Name() string
	Save(ctx context.Context, search *entity.Search) error
}
