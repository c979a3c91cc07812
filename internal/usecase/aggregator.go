package usecase

import (
	"errors"
	"fmt"
	"strings"

	"search-enrichment-service/internal/domain/entity"
	"search-enrichment-service/pkg/utils"
)

// Aggregator builds Search aggregates and their itinerary metrics
type Aggregator struct{}

// NewAggregator creates a new aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Aggregate groups the records into one Search and derives its itinerary fields
func (a *Aggregator) Aggregate(records []*entity.RawRecord) (*entity.Search, error) {
	search, err := a.Group(records)
	if err != nil {
		return nil, err
	}
	if err := a.Derive(search); err != nil {
		return nil, err
	}
	return search, nil
}

// Group copies the shared fields from the first record and one Recommendation per record
func (a *Aggregator) Group(records []*entity.RawRecord) (*entity.Search, error) {
	if len(records) == 0 {
		return nil, &InvalidAggregateError{Err: errors.New("empty group")}
	}

	first := records[0]
	search := &entity.Search{
		VersionNb:         first.VersionNb,
		SearchID:          first.SearchID,
		SearchCountry:     first.SearchCountry,
		SearchDate:        first.SearchDate,
		SearchTime:        first.SearchTime,
		OriginCity:        first.OriginCity,
		DestinationCity:   first.DestinationCity,
		RequestDepDate:    first.RequestDepDate,
		RequestReturnDate: first.RequestReturnDate,
		PassengersString:  first.PassengersString,
		Currency:          first.Currency,
		Recos:             make([]*entity.Recommendation, 0, len(records)),
	}

	for _, r := range records {
		search.Recos = append(search.Recos, &entity.Recommendation{
			NbOfFlights: r.NbOfFlights,
			Price:       entity.Amount(r.Price),
			Taxes:       entity.Amount(r.Taxes),
			Fees:        entity.Amount(r.Fees),
			Flights:     r.Flights,
		})
	}

	return search, nil
}

// Derive computes advance purchase, stay duration, trip type, passengers and OnD.
// The search is left untouched on error.
func (a *Aggregator) Derive(search *entity.Search) error {
	// approximate: the departure date is local to the origin while the search date is UTC
	advancePurchase, err := utils.DaysBetween(search.SearchDate, search.RequestDepDate)
	if err != nil {
		return &InvalidAggregateError{SearchID: search.SearchID, Err: fmt.Errorf("advance purchase: %w", err)}
	}

	tripType := entity.OneWay
	stayDuration := entity.NoStayDuration
	if strings.TrimSpace(search.RequestReturnDate) != "" {
		tripType = entity.RoundTrip
		stayDuration, err = utils.DaysBetween(search.RequestDepDate, search.RequestReturnDate)
		if err != nil {
			return &InvalidAggregateError{SearchID: search.SearchID, Err: fmt.Errorf("stay duration: %w", err)}
		}
	}

	passengers, err := utils.ParsePassengers(search.PassengersString)
	if err != nil {
		return &InvalidAggregateError{SearchID: search.SearchID, Err: fmt.Errorf("passengers: %w", err)}
	}

	search.AdvancePurchase = advancePurchase
	search.StayDuration = stayDuration
	search.TripType = tripType
	search.Passengers = passengers
	search.OnD = utils.OnDKey(search.OriginCity, search.DestinationCity)

	return nil
}
