package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"search-enrichment-service/internal/domain/entity"
	"search-enrichment-service/internal/domain/repository"
)

// segment is one flight chunk of a raw line, in line order
type segment [entity.SegmentLayoutSize]string

func flight(dep, arr, operating, marketing, cabin string) segment {
	return segment{dep, "2021-12-01", "10:00:00", arr, "2021-12-01", "12:00:00", operating, marketing, "1234", cabin}
}

// rawLine builds a round-trip PAR-NYC line for searchID
func rawLine(searchID, currency, price string, flights ...segment) string {
	tokens := []string{
		"1.0", searchID, "FR", "2021-11-19", "10:20:30",
		"PAR", "NYC", "2021-12-01", "2021-12-11", "ADT=1",
		currency, price, "10.00", "0.00", fmt.Sprint(len(flights)),
	}
	for _, f := range flights {
		tokens = append(tokens, f[:]...)
	}
	return strings.Join(tokens, "^")
}

type fakeGeo struct {
	countries map[string]string
	cities    map[string][]string
	distances map[string]float64
}

func newFakeGeo() *fakeGeo {
	return &fakeGeo{
		countries: map[string]string{
			"PAR": "FR", "NCE": "FR", "NYC": "US", "LON": "GB",
			"CDG": "FR", "ORY": "FR", "JFK": "US", "LHR": "GB",
		},
		cities: map[string][]string{
			"CDG": {"PAR"}, "ORY": {"PAR"}, "NCE": {"NCE"},
			"JFK": {"NYC"}, "LHR": {"LON"},
		},
		distances: map[string]float64{
			"PAR-NYC": 5837.4,
			"PAR-NCE": 675.5,
			"CDG-JFK": 5837.4,
			"CDG-LHR": 344.4,
			"LHR-JFK": 5554.6,
			"ORY-NCE": 675.5,
		},
	}
}

func (g *fakeGeo) Country(code string) (string, error) {
	c, ok := g.countries[code]
	if !ok {
		return "", fmt.Errorf("%s: %w", code, repository.ErrUnknownLocation)
	}
	return c, nil
}

func (g *fakeGeo) Cities(code string) ([]string, error) {
	c, ok := g.cities[code]
	if !ok {
		return nil, fmt.Errorf("%s: %w", code, repository.ErrUnknownLocation)
	}
	return c, nil
}

func (g *fakeGeo) Distance(from, to string) (float64, error) {
	if d, ok := g.distances[from+"-"+to]; ok {
		return d, nil
	}
	if d, ok := g.distances[to+"-"+from]; ok {
		return d, nil
	}
	return 0, fmt.Errorf("%s-%s: %w", from, to, repository.ErrUnknownLocation)
}

type fakeRates map[string]float64

func (r fakeRates) BaseCurrency() string { return "EUR" }

func (r fakeRates) Rate(currency string) (float64, error) {
	rate, ok := r[currency]
	if !ok {
		return 0, fmt.Errorf("%s: %w", currency, repository.ErrRateNotFound)
	}
	return rate, nil
}

type fakeSink struct {
	name  string
	err   error
	saved []*entity.Search
}

func (s *fakeSink) Name() string { return s.name }

func (s *fakeSink) Save(_ context.Context, search *entity.Search) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, search)
	return nil
}

// sliceSource serves a fixed list of results, then io.EOF
type sliceSource struct {
	items []sourceItem
}

type sourceItem struct {
	body []byte
	err  error
}

func (s *sliceSource) Next(ctx context.Context, _ time.Duration) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(s.items) == 0 {
		return nil, io.EOF
	}
	item := s.items[0]
	s.items = s.items[1:]
	return item.body, item.err
}

// formatRouter sends JSON objects to ProcessAggregated and the rest to ProcessLine
type formatRouter struct {
	handlers []InputHandler
}

func (r *formatRouter) Register(handler InputHandler) {
	r.handlers = append(r.handlers, handler)
}

func (r *formatRouter) GetHandler(body []byte) InputHandler {
	for _, h := range r.handlers {
		if h.CanHandle(body) {
			return h
		}
	}
	return nil
}

type handlerFunc struct {
	accept  func(body []byte) bool
	process func(ctx context.Context, body []byte) error
}

func (h handlerFunc) CanHandle(body []byte) bool { return h.accept(body) }

func (h handlerFunc) Process(ctx context.Context, body []byte) error { return h.process(ctx, body) }
