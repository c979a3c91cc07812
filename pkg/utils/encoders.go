package utils

import (
	"fmt"

	"github.com/goccy/go-json"

	"search-enrichment-service/internal/domain/entity"
)

// Encoder renders a search for logs and dumps
type Encoder func(search *entity.Search) (string, error)

// Encoders lists the available output formats
var Encoders = map[string]Encoder{
	"json":        EncodeJSON,
	"pretty_json": EncodePrettyJSON,
	"summary":     EncodeSummary,
}

// GetEncoder returns the encoder registered under name
func GetEncoder(name string) (Encoder, error) {
	enc, ok := Encoders[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q", name)
	}
	return enc, nil
}

// EncodeJSON renders the search as compact JSON
func EncodeJSON(search *entity.Search) (string, error) {
	b, err := json.Marshal(search)
	if err != nil {
		return "", fmt.Errorf("marshal search: %w", err)
	}
	return string(b), nil
}

// EncodePrettyJSON renders the search as indented JSON
func EncodePrettyJSON(search *entity.Search) (string, error) {
	b, err := json.MarshalIndent(search, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal search: %w", err)
	}
	return string(b), nil
}

// EncodeSummary renders only the search id
func EncodeSummary(search *entity.Search) (string, error) {
	return search.SearchID, nil
}
