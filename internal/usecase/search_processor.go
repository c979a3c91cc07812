package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"search-enrichment-service/internal/domain/entity"
	"search-enrichment-service/internal/domain/repository"
	"search-enrichment-service/pkg/logger"
	"search-enrichment-service/pkg/metrics"
	"search-enrichment-service/pkg/utils"
)

// progressEvery is the number of input units between two progress logs
const progressEvery = 1000

// Stats are the running counters of a SearchProcessor
type Stats struct {
	InputsRead       int
	LinesMalformed   int
	SearchesRead     int
	SearchesEnriched int
	SearchesDropped  int
}

// SearchProcessor is the single worker that turns input units into enriched searches
type SearchProcessor struct {
	decoder     *Decoder
	jsonDecoder *AggregatedDecoder
	grouper     *Grouper
	aggregator  *Aggregator
	enricher    *Enricher
	sinks       []repository.SearchSink
	encoder     utils.Encoder
	metrics     *metrics.Metrics
	logger      logger.Logger
	stats       Stats
}

// NewSearchProcessor creates a new search processor
func NewSearchProcessor(
	enricher *Enricher,
	sinks []repository.SearchSink,
	encoder utils.Encoder,
	metrics *metrics.Metrics,
	logger logger.Logger,
) *SearchProcessor {
	if encoder == nil {
		encoder = utils.EncodeSummary
	}
	return &SearchProcessor{
		decoder:     NewDecoder(),
		jsonDecoder: NewAggregatedDecoder(),
		grouper:     NewGrouper(),
		aggregator:  NewAggregator(),
		enricher:    enricher,
		sinks:       sinks,
		encoder:     encoder,
		metrics:     metrics,
		logger:      logger,
	}
}

// Stats returns a copy of the running counters
func (sp *SearchProcessor) Stats() Stats {
	return sp.stats
}

// ProcessLine decodes one raw line and feeds the grouper.
// A completed group is aggregated, enriched and emitted before returning.
func (sp *SearchProcessor) ProcessLine(ctx context.Context, line string) error {
	record, err := sp.decoder.Decode(line)
	if err != nil {
		sp.stats.LinesMalformed++
		sp.metrics.LinesMalformed.Inc()
		sp.logger.Warn("Skipping malformed line", "error", err, "line", line)
		return err
	}

	if group := sp.grouper.Add(record); group != nil {
		return sp.processGroup(ctx, group)
	}
	return nil
}

// ProcessAggregated handles one previously grouped search encoded as JSON
func (sp *SearchProcessor) ProcessAggregated(ctx context.Context, body []byte) error {
	sp.stats.SearchesRead++
	sp.metrics.SearchesRead.Inc()
	start := time.Now()

	search, err := sp.jsonDecoder.Decode(body)
	if err != nil {
		sp.drop(metrics.StageAggregate, err, "body", string(body))
		return err
	}

	if err := sp.aggregator.Derive(search); err != nil {
		sp.drop(metrics.StageAggregate, err, "body", string(body))
		return err
	}

	return sp.enrichAndEmit(ctx, search, start)
}

// Flush aggregates whatever the grouper still buffers. Called at end of input.
func (sp *SearchProcessor) Flush(ctx context.Context) error {
	group := sp.grouper.Flush()
	if group == nil {
		return nil
	}
	return sp.processGroup(ctx, group)
}

// Run pulls input units from source until it is exhausted or ctx is cancelled.
// The wait only bounds each pull so the loop can report liveness. On cancellation
// the records still buffered in the grouper are not flushed.
func (sp *SearchProcessor) Run(ctx context.Context, source repository.InputSource, router FormatRouter, wait time.Duration) error {
	sp.logger.Info("Processing input", "wait", wait.String())

	for {
		body, err := source.Next(ctx, wait)
		if err != nil {
			switch {
			case ctx.Err() != nil:
				sp.logger.Info("Processing interrupted", "pending", sp.grouper.Pending(), "stats", sp.stats)
				return ctx.Err()
			case errors.Is(err, repository.ErrNoInput):
				sp.logger.Info("Waiting for input", "stats", sp.stats)
				continue
			case errors.Is(err, io.EOF):
				if err := sp.Flush(ctx); err != nil {
					sp.logger.Debug("Residual group dropped", "error", err)
				}
				sp.logger.Info("Input exhausted", "stats", sp.stats)
				return nil
			default:
				return fmt.Errorf("read input: %w", err)
			}
		}

		sp.stats.InputsRead++
		sp.metrics.InputsRead.Inc()

		handler := router.GetHandler(body)
		if handler == nil {
			sp.logger.Warn("No handler found for input", "body", string(body))
			continue
		}
		if err := handler.Process(ctx, body); err != nil {
			sp.logger.Debug("Input unit not emitted", "error", err)
		}

		if sp.stats.InputsRead%progressEvery == 0 {
			sp.logger.Info("Running", "stats", sp.stats)
		}
	}
}

func (sp *SearchProcessor) processGroup(ctx context.Context, group []*entity.RawRecord) error {
	sp.stats.SearchesRead++
	sp.metrics.SearchesRead.Inc()
	start := time.Now()

	search, err := sp.aggregator.Aggregate(group)
	if err != nil {
		sp.drop(metrics.StageAggregate, err, "searchID", group[0].SearchID, "firstRecord", group[0])
		return err
	}

	return sp.enrichAndEmit(ctx, search, start)
}

func (sp *SearchProcessor) enrichAndEmit(ctx context.Context, search *entity.Search, start time.Time) error {
	if err := sp.enricher.Enrich(search); err != nil {
		sp.drop(metrics.StageEnrich, err, "searchID", search.SearchID, "firstReco", search.Recos[0])
		return err
	}

	sp.stats.SearchesEnriched++
	sp.metrics.SearchesEnriched.Inc()
	sp.metrics.ProcessingTime.Observe(time.Since(start).Seconds())

	if rendered, err := sp.encoder(search); err != nil {
		sp.logger.Error("Failed to encode search", "searchID", search.SearchID, "error", err)
	} else {
		sp.logger.Info("Enriched search", "search", rendered)
	}

	sp.emit(ctx, search)
	return nil
}

// emit hands the search to every sink; a failing sink does not affect the others
func (sp *SearchProcessor) emit(ctx context.Context, search *entity.Search) {
	for _, sink := range sp.sinks {
		if err := sink.Save(ctx, search); err != nil {
			sp.metrics.SinkErrors.WithLabelValues(sink.Name()).Inc()
			sp.logger.Error("Failed to save search", "sink", sink.Name(), "searchID", search.SearchID, "error", err)
		}
	}
}

func (sp *SearchProcessor) drop(stage string, err error, keysAndValues ...interface{}) {
	sp.stats.SearchesDropped++
	sp.metrics.SearchesDropped.WithLabelValues(stage).Inc()
	sp.logger.Error("Dropping search", append([]interface{}{"stage", stage, "error", err}, keysAndValues...)...)
}
