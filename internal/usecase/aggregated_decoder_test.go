package usecase

import (
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"search-enrichment-service/internal/domain/entity"
)

func groupedJSON(t *testing.T, lines ...string) []byte {
	t.Helper()
	search, err := NewAggregator().Group(decodeAll(t, lines...))
	require.NoError(t, err)
	body, err := json.Marshal(search)
	require.NoError(t, err)
	return body
}

func TestAggregatedDecoder_Decode(t *testing.T) {
	body := groupedJSON(t,
		rawLine("S1", "USD", "110", flight("CDG", "JFK", "AF", "AF", "M")),
		rawLine("S1", "USD", "95.5", flight("CDG", "LHR", "BA", "BA", "M"), flight("LHR", "JFK", "BA", "BA", "M")),
	)

	search, err := NewAggregatedDecoder().Decode(body)
	require.NoError(t, err)

	assert.Equal(t, "S1", search.SearchID)
	assert.Equal(t, "USD", search.Currency)
	require.Len(t, search.Recos, 2)
	assert.Equal(t, entity.Amount("110"), search.Recos[0].Price)
	assert.Equal(t, entity.Amount("95.5"), search.Recos[1].Price)
	assert.Len(t, search.Recos[1].Flights, 2)
}

func TestAggregatedDecoder_AcceptsStringAmounts(t *testing.T) {
	body := []byte(`{
		"search_id": "S1", "search_date": "2021-11-19", "origin_city": "PAR", "destination_city": "NYC",
		"request_dep_date": "2021-12-01", "passengers_string": "ADT=1", "currency": "EUR",
		"recos": [{"nb_of_flights": 0, "price": "120.00", "taxes": 10, "fees": null, "flights": []}]
	}`)

	search, err := NewAggregatedDecoder().Decode(body)
	require.NoError(t, err)
	assert.Equal(t, entity.Amount("120.00"), search.Recos[0].Price)
	assert.Equal(t, entity.Amount("10"), search.Recos[0].Taxes)
	assert.Equal(t, entity.Amount(""), search.Recos[0].Fees)
}

func TestAggregatedDecoder_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `S1^PAR^NYC`},
		{name: "unknown field", body: `{"search_id": "S1", "colour": "blue"}`},
		{name: "missing search id", body: `{
			"search_date": "2021-11-19", "origin_city": "PAR", "destination_city": "NYC",
			"request_dep_date": "2021-12-01", "passengers_string": "ADT=1", "currency": "EUR",
			"recos": [{"nb_of_flights": 0, "price": 1, "flights": []}]}`},
		{name: "no recos", body: `{
			"search_id": "S1", "search_date": "2021-11-19", "origin_city": "PAR", "destination_city": "NYC",
			"request_dep_date": "2021-12-01", "passengers_string": "ADT=1", "currency": "EUR", "recos": []}`},
		{name: "bad currency", body: `{
			"search_id": "S1", "search_date": "2021-11-19", "origin_city": "PAR", "destination_city": "NYC",
			"request_dep_date": "2021-12-01", "passengers_string": "ADT=1", "currency": "EURO",
			"recos": [{"nb_of_flights": 0, "price": 1, "flights": []}]}`},
		{name: "flight count mismatch", body: `{
			"search_id": "S1", "search_date": "2021-11-19", "origin_city": "PAR", "destination_city": "NYC",
			"request_dep_date": "2021-12-01", "passengers_string": "ADT=1", "currency": "EUR",
			"recos": [{"nb_of_flights": 2, "price": 1, "flights": []}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			search, err := NewAggregatedDecoder().Decode([]byte(tt.body))
			require.Error(t, err)
			assert.Nil(t, search)
			assert.True(t, errors.Is(err, ErrInvalidAggregate))
		})
	}
}
