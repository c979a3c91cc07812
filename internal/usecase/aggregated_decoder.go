package usecase

import (
	"bytes"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"search-enrichment-service/internal/domain/entity"
)

// AggregatedDecoder reads previously grouped searches from JSON
type AggregatedDecoder struct {
	validate *validator.Validate
}

// NewAggregatedDecoder creates a decoder that rejects unknown fields and incomplete searches
func NewAggregatedDecoder() *AggregatedDecoder {
	return &AggregatedDecoder{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Decode parses and validates one aggregated search
func (d *AggregatedDecoder) Decode(body []byte) (*entity.Search, error) {
	var search entity.Search

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&search); err != nil {
		return nil, &InvalidAggregateError{Err: fmt.Errorf("unmarshal search: %w", err)}
	}

	if err := d.validate.Struct(&search); err != nil {
		return nil, &InvalidAggregateError{SearchID: search.SearchID, Err: fmt.Errorf("validate search: %w", err)}
	}

	for i, reco := range search.Recos {
		if len(reco.Flights) != reco.NbOfFlights {
			return nil, &InvalidAggregateError{
				SearchID: search.SearchID,
				Err:      fmt.Errorf("reco %d declares %d flights, carries %d", i, reco.NbOfFlights, len(reco.Flights)),
			}
		}
	}

	return &search, nil
}
