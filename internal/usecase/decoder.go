package usecase

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"search-enrichment-service/internal/domain/entity"
	"search-enrichment-service/pkg/utils"
)

// Decoder turns one raw delimited line into a RawRecord
type Decoder struct{}

// NewDecoder creates a new line decoder
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode maps the record layout onto the scalar fields, then reads
// nb_of_flights segment chunks from the remaining tokens.
func (d *Decoder) Decode(line string) (*entity.RawRecord, error) {
	tokens := utils.SplitLine(line)

	if utils.CountNonEmpty(tokens) < 2 {
		return nil, &DecodeError{Line: line, Err: errors.New("fewer than 2 non-empty tokens")}
	}
	if len(tokens) < entity.RecordLayoutSize {
		return nil, &DecodeError{
			Line: line,
			Err:  fmt.Errorf("got %d tokens, record layout needs %d", len(tokens), entity.RecordLayoutSize),
		}
	}

	if strings.TrimSpace(tokens[1]) == "" {
		return nil, &DecodeError{Line: line, Err: errors.New("empty search_id")}
	}

	nbOfFlights, err := strconv.Atoi(strings.TrimSpace(tokens[14]))
	if err != nil {
		return nil, &DecodeError{Line: line, Err: fmt.Errorf("nb_of_flights: %w", err)}
	}
	if nbOfFlights < 0 {
		return nil, &DecodeError{Line: line, Err: fmt.Errorf("nb_of_flights is negative: %d", nbOfFlights)}
	}

	needed := entity.RecordLayoutSize + nbOfFlights*entity.SegmentLayoutSize
	if len(tokens) < needed {
		return nil, &DecodeError{
			Line: line,
			Err:  fmt.Errorf("%d flights declared, need %d tokens, got %d", nbOfFlights, needed, len(tokens)),
		}
	}

	record := &entity.RawRecord{
		VersionNb:         tokens[0],
		SearchID:          tokens[1],
		SearchCountry:     tokens[2],
		SearchDate:        tokens[3],
		SearchTime:        tokens[4],
		OriginCity:        tokens[5],
		DestinationCity:   tokens[6],
		RequestDepDate:    tokens[7],
		RequestReturnDate: tokens[8],
		PassengersString:  tokens[9],
		Currency:          tokens[10],
		Price:             tokens[11],
		Taxes:             tokens[12],
		Fees:              tokens[13],
		NbOfFlights:       nbOfFlights,
		Flights:           make([]entity.FlightSegment, 0, nbOfFlights),
	}

	pos := entity.RecordLayoutSize
	for i := 0; i < nbOfFlights; i++ {
		seg := tokens[pos : pos+entity.SegmentLayoutSize]
		record.Flights = append(record.Flights, entity.FlightSegment{
			DepAirport:       seg[0],
			DepDate:          seg[1],
			DepTime:          seg[2],
			ArrAirport:       seg[3],
			ArrDate:          seg[4],
			ArrTime:          seg[5],
			OperatingAirline: seg[6],
			MarketingAirline: seg[7],
			FlightNb:         seg[8],
			Cabin:            seg[9],
		})
		pos += entity.SegmentLayoutSize
	}

	return record, nil
}
