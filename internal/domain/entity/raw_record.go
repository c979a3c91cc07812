// internal/domain/entity/raw_record.go
package entity

// FlightSegment is one flown leg of a recommendation
type FlightSegment struct {
	DepAirport       string `json:"dep_airport" bson:"dep_airport"`
	DepDate          string `json:"dep_date" bson:"dep_date"`
	DepTime          string `json:"dep_time" bson:"dep_time"`
	ArrAirport       string `json:"arr_airport" bson:"arr_airport"`
	ArrDate          string `json:"arr_date" bson:"arr_date"`
	ArrTime          string `json:"arr_time" bson:"arr_time"`
	OperatingAirline string `json:"operating_airline" bson:"operating_airline"`
	MarketingAirline string `json:"marketing_airline" bson:"marketing_airline"`
	FlightNb         string `json:"flight_nb" bson:"flight_nb"`
	Cabin            string `json:"cabin" bson:"cabin"`

	// Enriched
	DepCity  string `json:"dep_city,omitempty" bson:"dep_city,omitempty"`
	ArrCity  string `json:"arr_city,omitempty" bson:"arr_city,omitempty"`
	Distance int    `json:"distance,omitempty" bson:"distance,omitempty"`
}

// RawRecord is one decoded per-recommendation line
type RawRecord struct {
	VersionNb         string
	SearchID          string
	SearchCountry     string
	SearchDate        string
	SearchTime        string
	OriginCity        string
	DestinationCity   string
	RequestDepDate    string
	RequestReturnDate string
	PassengersString  string
	Currency          string
	Price             string
	Taxes             string
	Fees              string
	NbOfFlights       int
	Flights           []FlightSegment
}

// Field counts of the delimited line layout
const (
	RecordLayoutSize  = 15 // scalar fields up to and including nb_of_flights
	SegmentLayoutSize = 10 // fields per flight segment
)
