package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"search-enrichment-service/internal/domain/repository"
	"search-enrichment-service/pkg/logger"
	"search-enrichment-service/pkg/metrics"
	"search-enrichment-service/pkg/utils"
)

func newTestProcessor(sinks ...repository.SearchSink) (*SearchProcessor, *metrics.Metrics) {
	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	enricher := NewEnricher(newFakeGeo(), fakeRates{"USD": 1.10})
	return NewSearchProcessor(enricher, sinks, utils.EncodeJSON, m, logger.NewNopLogger()), m
}

func newTestRouter(sp *SearchProcessor) *formatRouter {
	r := &formatRouter{}
	r.Register(handlerFunc{
		accept:  func(body []byte) bool { return utils.FirstNonSpace(body) == '{' },
		process: sp.ProcessAggregated,
	})
	r.Register(handlerFunc{
		accept:  func(body []byte) bool { return true },
		process: func(ctx context.Context, body []byte) error { return sp.ProcessLine(ctx, string(body)) },
	})
	return r
}

func TestSearchProcessor_ProcessLines(t *testing.T) {
	sink := &fakeSink{name: "memory"}
	sp, m := newTestProcessor(sink)
	ctx := context.Background()

	lines := []string{
		rawLine("S1", "USD", "110", flight("CDG", "JFK", "AF", "AF", "M")),
		rawLine("S1", "USD", "220", flight("CDG", "LHR", "BA", "BA", "M"), flight("LHR", "JFK", "AA", "AA", "M")),
		rawLine("S2", "EUR", "80", flight("CDG", "JFK", "AF", "AF", "Y")),
	}
	for _, line := range lines {
		require.NoError(t, sp.ProcessLine(ctx, line))
	}

	// S1 is emitted when S2 starts, S2 only on flush
	require.Len(t, sink.saved, 1)
	require.NoError(t, sp.Flush(ctx))
	require.Len(t, sink.saved, 2)

	s1 := sink.saved[0]
	assert.Equal(t, "S1", s1.SearchID)
	require.Len(t, s1.Recos, 2)
	assert.InDelta(t, 100.0, s1.Recos[0].PriceEUR, 1e-9)
	assert.Positive(t, s1.Recos[0].FlownDistance)
	assert.Positive(t, s1.Recos[1].FlownDistance)
	assert.Equal(t, "AA", s1.Recos[1].MainMarketingAirline)
	assert.Equal(t, "PAR-NYC", s1.OnD)

	assert.Equal(t, "S2", sink.saved[1].SearchID)

	stats := sp.Stats()
	assert.Equal(t, 2, stats.SearchesRead)
	assert.Equal(t, 2, stats.SearchesEnriched)
	assert.Equal(t, 0, stats.SearchesDropped)
	assert.Equal(t, float64(2), testutil.ToFloat64(m.SearchesEnriched))
}

func TestSearchProcessor_DropsUnresolvableSearch(t *testing.T) {
	sink := &fakeSink{name: "memory"}
	sp, m := newTestProcessor(sink)
	ctx := context.Background()

	require.NoError(t, sp.ProcessLine(ctx, rawLine("S1", "EUR", "100", flight("CDG", "JFK", "AF", "AF", "M"))))
	require.NoError(t, sp.ProcessLine(ctx, rawLine("S1", "EUR", "100", flight("CDG", "XXX", "AF", "AF", "M"))))

	err := sp.Flush(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEnrichmentLookup))

	assert.Empty(t, sink.saved)
	assert.Equal(t, 1, sp.Stats().SearchesDropped)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SearchesDropped.WithLabelValues(metrics.StageEnrich)))
}

func TestSearchProcessor_DropsInvalidAggregate(t *testing.T) {
	sink := &fakeSink{name: "memory"}
	sp, m := newTestProcessor(sink)
	ctx := context.Background()

	require.NoError(t, sp.ProcessLine(ctx, rawLine("S1", "EUR", "100", flight("CDG", "JFK", "AF", "AF", "M"))))
	sp.grouper.buffer[0].PassengersString = "ADT"

	err := sp.Flush(ctx)
	assert.True(t, errors.Is(err, ErrInvalidAggregate))
	assert.Empty(t, sink.saved)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SearchesDropped.WithLabelValues(metrics.StageAggregate)))
}

func TestSearchProcessor_SkipsMalformedLine(t *testing.T) {
	sink := &fakeSink{name: "memory"}
	sp, m := newTestProcessor(sink)
	ctx := context.Background()

	require.NoError(t, sp.ProcessLine(ctx, rawLine("S1", "EUR", "100", flight("CDG", "JFK", "AF", "AF", "M"))))

	err := sp.ProcessLine(ctx, "1.0^S1^garbage")
	assert.True(t, errors.Is(err, ErrMalformedInput))

	require.NoError(t, sp.Flush(ctx))
	require.Len(t, sink.saved, 1)
	assert.Len(t, sink.saved[0].Recos, 1)
	assert.Equal(t, 1, sp.Stats().LinesMalformed)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.LinesMalformed))
}

func TestSearchProcessor_SinkFailureDoesNotStopOtherSinks(t *testing.T) {
	broken := &fakeSink{name: "broken", err: errors.New("connection refused")}
	healthy := &fakeSink{name: "healthy"}
	sp, m := newTestProcessor(broken, healthy)
	ctx := context.Background()

	require.NoError(t, sp.ProcessLine(ctx, rawLine("S1", "EUR", "100", flight("CDG", "JFK", "AF", "AF", "M"))))
	require.NoError(t, sp.Flush(ctx))

	assert.Len(t, healthy.saved, 1)
	assert.Equal(t, 1, sp.Stats().SearchesEnriched)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SinkErrors.WithLabelValues("broken")))
}

func TestSearchProcessor_ProcessAggregated(t *testing.T) {
	sink := &fakeSink{name: "memory"}
	sp, _ := newTestProcessor(sink)

	body := groupedJSON(t, rawLine("S9", "USD", "110", flight("CDG", "JFK", "AF", "AF", "M")))
	require.NoError(t, sp.ProcessAggregated(context.Background(), body))

	require.Len(t, sink.saved, 1)
	search := sink.saved[0]
	assert.Equal(t, "S9", search.SearchID)
	assert.Equal(t, 12, search.AdvancePurchase)
	assert.Equal(t, "PAR-NYC", search.OnD)
	assert.InDelta(t, 100.0, search.Recos[0].PriceEUR, 1e-9)
	assert.Equal(t, 0, sp.grouper.Pending())
}

func TestSearchProcessor_Run(t *testing.T) {
	sink := &fakeSink{name: "memory"}
	sp, m := newTestProcessor(sink)

	source := &sliceSource{items: []sourceItem{
		{body: []byte(rawLine("S1", "EUR", "100", flight("CDG", "JFK", "AF", "AF", "M")))},
		{err: repository.ErrNoInput},
		{body: []byte(rawLine("S1", "EUR", "120", flight("CDG", "JFK", "AF", "AF", "M")))},
		{body: groupedJSON(t, rawLine("S2", "EUR", "90", flight("CDG", "JFK", "AF", "AF", "M")))},
		{body: []byte("not^a^line")},
		{body: []byte(rawLine("S3", "EUR", "100", flight("CDG", "JFK", "AF", "AF", "M")))},
	}}

	err := sp.Run(context.Background(), source, newTestRouter(sp), time.Millisecond)
	require.NoError(t, err)

	// S2 is emitted before S1 since the JSON bypasses the grouper
	var got []string
	for _, s := range sink.saved {
		got = append(got, s.SearchID)
	}
	assert.Equal(t, []string{"S2", "S1", "S3"}, got)
	assert.Len(t, sink.saved[1].Recos, 2)

	stats := sp.Stats()
	assert.Equal(t, 5, stats.InputsRead)
	assert.Equal(t, 1, stats.LinesMalformed)
	assert.Equal(t, 3, stats.SearchesEnriched)
	assert.Equal(t, float64(5), testutil.ToFloat64(m.InputsRead))
}

func TestSearchProcessor_RunStopsOnCancel(t *testing.T) {
	sink := &fakeSink{name: "memory"}
	sp, _ := newTestProcessor(sink)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := &sliceSource{items: []sourceItem{
		{body: []byte(rawLine("S1", "EUR", "100", flight("CDG", "JFK", "AF", "AF", "M")))},
	}}

	err := sp.Run(ctx, source, newTestRouter(sp), time.Millisecond)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sink.saved)
}

func TestSearchProcessor_RunReportsSourceFailure(t *testing.T) {
	sp, _ := newTestProcessor()

	source := &sliceSource{items: []sourceItem{{err: errors.New("channel closed")}}}

	err := sp.Run(context.Background(), source, newTestRouter(sp), time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read input")
}

func TestSearchProcessor_DropsNonFiniteAmount(t *testing.T) {
	sink := &fakeSink{name: "memory"}
	sp, m := newTestProcessor(sink)
	ctx := context.Background()

	require.NoError(t, sp.ProcessLine(ctx, rawLine("S1", "USD", "NaN", flight("CDG", "JFK", "", "AF", "Y"))))

	err := sp.Flush(ctx)
	assert.True(t, errors.Is(err, ErrEnrichmentLookup))
	assert.Empty(t, sink.saved)
	assert.Equal(t, 0, sp.Stats().SearchesEnriched)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SearchesDropped.WithLabelValues(metrics.StageEnrich)))
}
