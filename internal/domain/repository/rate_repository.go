package repository

import "errors"

// ErrRateNotFound is returned when the rate table has no entry for a currency
var ErrRateNotFound = errors.New("currency rate not found")

// RateRepository gives the exchange rate of a currency against the base currency
type RateRepository interface {
	BaseCurrency() string
	Rate(currency string) (float64, error)
}
