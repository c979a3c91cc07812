package utils

import (
	"fmt"
	"strconv"
	"strings"

	"search-enrichment-service/internal/domain/entity"
)

// SplitLine splits one raw record line into its tokens
func SplitLine(line string) []string {
	line = strings.TrimRight(line, "\r\n")
	return strings.Split(line, FIELD_DELIMITER)
}

// CountNonEmpty returns how many tokens carry a value
func CountNonEmpty(tokens []string) int {
	n := 0
	for _, t := range tokens {
		if strings.TrimSpace(t) != "" {
			n++
		}
	}
	return n
}

// ParsePassengers decodes a passengers string: "ADT=1,CH=2" means 1 adult and 2 children
func ParsePassengers(s string) ([]entity.Passenger, error) {
	pairs := strings.Split(strings.TrimRight(s, " \t\r\n"), ",")
	passengers := make([]entity.Passenger, 0, len(pairs))

	for _, pair := range pairs {
		parts := strings.Split(pair, "=")
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed passenger pair %q", pair)
		}

		paxType := strings.TrimSpace(parts[0])
		if paxType == "" {
			return nil, fmt.Errorf("missing passenger type in %q", pair)
		}

		nb, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("passenger count in %q: %w", pair, err)
		}
		if nb < 0 {
			return nil, fmt.Errorf("negative passenger count in %q", pair)
		}

		passengers = append(passengers, entity.Passenger{
			PassengerType: paxType,
			PassengerNb:   nb,
		})
	}

	return passengers, nil
}

// OnDKey builds the origin and destination key, e.g. "PAR-NYC"
func OnDKey(origin, destination string) string {
	return origin + OND_SEPARATOR + destination
}
