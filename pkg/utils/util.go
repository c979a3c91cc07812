package utils

import (
	"fmt"
	"math"
	"time"
)

// RoundTo rounds x to the given number of decimals, halves away from zero
func RoundTo(x float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(x*pow) / pow
}

// DaysBetween returns the whole days from one DATE_LAYOUT date to another
func DaysBetween(from, to string) (int, error) {
	start, err := time.Parse(DATE_LAYOUT, from)
	if err != nil {
		return 0, fmt.Errorf("parse date %q: %w", from, err)
	}
	end, err := time.Parse(DATE_LAYOUT, to)
	if err != nil {
		return 0, fmt.Errorf("parse date %q: %w", to, err)
	}
	return int(end.Sub(start).Hours() / 24), nil
}

// FirstNonSpace returns the first byte that is not ASCII whitespace, or 0
func FirstNonSpace(b []byte) byte {
	for _, c := range b {
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return c
	}
	return 0
}
