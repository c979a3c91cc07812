// internal/domain/entity/search.go
package entity

// TripType distinguishes one-way from round-trip searches
type TripType string

const (
	OneWay    TripType = "OW"
	RoundTrip TripType = "RT"
)

// GeoType is the domestic/international classification of a search
type GeoType string

const (
	Domestic      GeoType = "D"
	International GeoType = "I"
)

// NoStayDuration is the stay_duration of a one-way search
const NoStayDuration = -1

// Passenger is one decoded "type=count" pair of the passengers string
type Passenger struct {
	PassengerType string `json:"passenger_type" bson:"passenger_type"`
	PassengerNb   int    `json:"passenger_nb" bson:"passenger_nb"`
}

// Recommendation is one priced itinerary option within a search
type Recommendation struct {
	NbOfFlights int             `json:"nb_of_flights" bson:"nb_of_flights" validate:"gte=0"`
	Price       Amount          `json:"price" bson:"price" validate:"required"`
	Taxes       Amount          `json:"taxes" bson:"taxes"`
	Fees        Amount          `json:"fees" bson:"fees"`
	Flights     []FlightSegment `json:"flights" bson:"flights" validate:"dive"`

	// Enriched
	PriceEUR             float64 `json:"price_EUR" bson:"price_eur"`
	TaxesEUR             float64 `json:"taxes_EUR" bson:"taxes_eur"`
	FeesEUR              float64 `json:"fees_EUR" bson:"fees_eur"`
	FlownDistance        int     `json:"flown_distance" bson:"flown_distance"`
	MainMarketingAirline string  `json:"main_marketing_airline,omitempty" bson:"main_marketing_airline,omitempty"`
	MainOperatingAirline string  `json:"main_operating_airline,omitempty" bson:"main_operating_airline,omitempty"`
	MainCabin            string  `json:"main_cabin,omitempty" bson:"main_cabin,omitempty"`
}

// Search is the aggregate of all recommendations returned for one travel query
type Search struct {
	VersionNb         string `json:"version_nb" bson:"version_nb"`
	SearchID          string `json:"search_id" bson:"search_id" validate:"required"`
	SearchCountry     string `json:"search_country" bson:"search_country"`
	SearchDate        string `json:"search_date" bson:"search_date" validate:"required"`
	SearchTime        string `json:"search_time" bson:"search_time"`
	OriginCity        string `json:"origin_city" bson:"origin_city" validate:"required"`
	DestinationCity   string `json:"destination_city" bson:"destination_city" validate:"required"`
	RequestDepDate    string `json:"request_dep_date" bson:"request_dep_date" validate:"required"`
	RequestReturnDate string `json:"request_return_date" bson:"request_return_date"`
	PassengersString  string `json:"passengers_string" bson:"passengers_string" validate:"required"`
	Currency          string `json:"currency" bson:"currency" validate:"required,len=3"`
	OnD               string `json:"OnD" bson:"ond"`

	Recos []*Recommendation `json:"recos" bson:"recos" validate:"required,min=1,dive,required"`

	// Derived at aggregation
	AdvancePurchase int         `json:"advance_purchase" bson:"advance_purchase"`
	StayDuration    int         `json:"stay_duration" bson:"stay_duration"`
	TripType        TripType    `json:"trip_type,omitempty" bson:"trip_type,omitempty"`
	Passengers      []Passenger `json:"passengers,omitempty" bson:"passengers,omitempty"`

	// Enriched
	OriginCountry      string  `json:"origin_country,omitempty" bson:"origin_country,omitempty"`
	DestinationCountry string  `json:"destination_country,omitempty" bson:"destination_country,omitempty"`
	Geo                GeoType `json:"geo,omitempty" bson:"geo,omitempty"`
	OnDDistance        int     `json:"OnD_distance" bson:"ond_distance"`
}
