package usecase

import (
	"errors"
	"fmt"
	"math"

	"search-enrichment-service/internal/domain/entity"
	"search-enrichment-service/internal/domain/repository"
	"search-enrichment-service/pkg/utils"
)

// Enricher adds currency-normalised prices and geography-derived fields to a Search
type Enricher struct {
	geo   repository.GeographyRepository
	rates repository.RateRepository
}

// NewEnricher creates a new enricher over read-only reference data
func NewEnricher(geo repository.GeographyRepository, rates repository.RateRepository) *Enricher {
	return &Enricher{
		geo:   geo,
		rates: rates,
	}
}

// Enrich decorates the search in place. Any failure invalidates the whole search.
func (e *Enricher) Enrich(search *entity.Search) error {
	if err := e.enrichSearch(search); err != nil {
		return &EnrichmentError{SearchID: search.SearchID, Err: err}
	}

	for i, reco := range search.Recos {
		if err := e.enrichReco(reco, search.Currency); err != nil {
			return &EnrichmentError{SearchID: search.SearchID, Err: fmt.Errorf("reco %d: %w", i, err)}
		}
	}

	return nil
}

func (e *Enricher) enrichSearch(search *entity.Search) error {
	originCountry, err := e.geo.Country(search.OriginCity)
	if err != nil {
		return fmt.Errorf("origin country: %w", err)
	}
	destinationCountry, err := e.geo.Country(search.DestinationCity)
	if err != nil {
		return fmt.Errorf("destination country: %w", err)
	}

	distance, err := e.geo.Distance(search.OriginCity, search.DestinationCity)
	if err != nil {
		return fmt.Errorf("OnD distance %s: %w", search.OnD, err)
	}

	search.OriginCountry = originCountry
	search.DestinationCountry = destinationCountry
	search.Geo = entity.International
	if originCountry == destinationCountry {
		search.Geo = entity.Domestic
	}
	search.OnDDistance = int(math.Round(distance))

	return nil
}

func (e *Enricher) enrichReco(reco *entity.Recommendation, currency string) error {
	var err error
	if reco.PriceEUR, err = e.toBase(reco.Price, currency); err != nil {
		return fmt.Errorf("price: %w", err)
	}
	if reco.TaxesEUR, err = e.toBase(reco.Taxes, currency); err != nil {
		return fmt.Errorf("taxes: %w", err)
	}
	if reco.FeesEUR, err = e.toBase(reco.Fees, currency); err != nil {
		return fmt.Errorf("fees: %w", err)
	}

	if len(reco.Flights) == 0 {
		return errors.New("no flights to attribute main airline and cabin")
	}

	marketing := newDistanceTally()
	operating := newDistanceTally()
	cabins := newDistanceTally()
	reco.FlownDistance = 0

	for i := range reco.Flights {
		flight := &reco.Flights[i]

		// a city can have several airports, like PAR with CDG and ORY
		depCity, err := e.firstCity(flight.DepAirport)
		if err != nil {
			return fmt.Errorf("flight %d departure: %w", i, err)
		}
		arrCity, err := e.firstCity(flight.ArrAirport)
		if err != nil {
			return fmt.Errorf("flight %d arrival: %w", i, err)
		}
		distance, err := e.geo.Distance(flight.DepAirport, flight.ArrAirport)
		if err != nil {
			return fmt.Errorf("flight %d distance: %w", i, err)
		}

		flight.DepCity = depCity
		flight.ArrCity = arrCity
		flight.Distance = int(math.Round(distance))
		if flight.OperatingAirline == "" {
			flight.OperatingAirline = flight.MarketingAirline
		}

		reco.FlownDistance += flight.Distance
		marketing.add(flight.MarketingAirline, flight.Distance)
		operating.add(flight.OperatingAirline, flight.Distance)
		cabins.add(flight.Cabin, flight.Distance)
	}

	// the main airline is the one covering the longest part of the trip
	reco.MainMarketingAirline = marketing.max()
	reco.MainOperatingAirline = operating.max()
	reco.MainCabin = cabins.max()

	return nil
}

// toBase converts amount from currency to the base currency, rounded to cents
func (e *Enricher) toBase(amount entity.Amount, currency string) (float64, error) {
	value, err := amount.Float64()
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	if currency == e.rates.BaseCurrency() {
		return value, nil
	}

	rate, err := e.rates.Rate(currency)
	if err != nil {
		return 0, err
	}
	if rate <= 0 {
		return 0, fmt.Errorf("non-positive rate %v for %s", rate, currency)
	}

	return utils.RoundTo(value/rate, 2), nil
}

func (e *Enricher) firstCity(airport string) (string, error) {
	cities, err := e.geo.Cities(airport)
	if err != nil {
		return "", err
	}
	if len(cities) == 0 || cities[0] == "" {
		return "", fmt.Errorf("%s: %w", airport, repository.ErrUnknownLocation)
	}
	return cities[0], nil
}

// distanceTally sums distances per key and remembers first-seen key order.
// Ties go to the key seen first.
type distanceTally struct {
	order  []string
	totals map[string]int
}

func newDistanceTally() *distanceTally {
	return &distanceTally{totals: make(map[string]int)}
}

func (t *distanceTally) add(key string, distance int) {
	if _, ok := t.totals[key]; !ok {
		t.order = append(t.order, key)
	}
	t.totals[key] += distance
}

func (t *distanceTally) max() string {
	best := ""
	bestDistance := math.MinInt
	for _, key := range t.order {
		if d := t.totals[key]; d > bestDistance {
			best = key
			bestDistance = d
		}
	}
	return best
}
