package repository

import "errors"

// ErrUnknownLocation is returned for airport or city codes the geography data does not know
var ErrUnknownLocation = errors.New("unknown location")

// GeographyRepository resolves airport and city codes
type GeographyRepository interface {
	// Country returns the country code of an airport or city
	Country(code string) (string, error)
	// Cities returns the city codes served by an airport, or the city itself
	Cities(code string) ([]string, error)
	// Distance returns the great-circle distance in kilometres between two codes
	Distance(from, to string) (float64, error)
}
