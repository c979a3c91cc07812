package repository

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"search-enrichment-service/internal/domain/repository"
)

// earthRadiusKm is the mean earth radius used for great-circle distances
const earthRadiusKm = 6371.0

// Location is one point of reference of the geography data
type Location struct {
	Latitude    float64
	Longitude   float64
	CountryCode string
	CityCodes   []string
}

func (l Location) hasCoordinates() bool {
	return !math.IsNaN(l.Latitude) && !math.IsNaN(l.Longitude)
}

// GeographyRepository implements the GeographyRepository interface over an in-memory index
type GeographyRepository struct {
	locations map[string]Location
}

// NewGeographyRepository creates a geography repository from already loaded locations
func NewGeographyRepository(locations map[string]Location) *GeographyRepository {
	return &GeographyRepository{
		locations: locations,
	}
}

// LoadGeographyFile reads an OPTD points-of-reference file
func LoadGeographyFile(path string) (*GeographyRepository, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geography file: %w", err)
	}
	defer f.Close()

	return LoadGeography(f)
}

// LoadGeography decodes a '^'-delimited points-of-reference file with a header row.
// Columns used: iata_code, latitude, longitude, country_code, city_code_list.
// When a code appears more than once the first row wins.
func LoadGeography(r io.Reader) (*GeographyRepository, error) {
	reader := csv.NewReader(r)
	reader.Comma = '^'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read geography header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"iata_code", "latitude", "longitude", "country_code", "city_code_list"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("geography header misses column %q", required)
		}
	}

	field := func(row []string, name string) string {
		i := columns[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	locations := make(map[string]Location)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read geography row: %w", err)
		}

		code := field(row, "iata_code")
		if code == "" {
			continue
		}
		if _, seen := locations[code]; seen {
			continue
		}

		var cities []string
		for _, c := range strings.Split(field(row, "city_code_list"), ",") {
			if c = strings.TrimSpace(c); c != "" {
				cities = append(cities, c)
			}
		}

		locations[code] = Location{
			Latitude:    parseCoordinate(field(row, "latitude")),
			Longitude:   parseCoordinate(field(row, "longitude")),
			CountryCode: field(row, "country_code"),
			CityCodes:   cities,
		}
	}

	return NewGeographyRepository(locations), nil
}

func parseCoordinate(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func (g *GeographyRepository) lookup(code string) (Location, error) {
	loc, ok := g.locations[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return Location{}, fmt.Errorf("%q: %w", code, repository.ErrUnknownLocation)
	}
	return loc, nil
}

// Country returns the country code of an airport or city
func (g *GeographyRepository) Country(code string) (string, error) {
	loc, err := g.lookup(code)
	if err != nil {
		return "", err
	}
	if loc.CountryCode == "" {
		return "", fmt.Errorf("%q has no country: %w", code, repository.ErrUnknownLocation)
	}
	return loc.CountryCode, nil
}

// Cities returns the city codes of an airport
func (g *GeographyRepository) Cities(code string) ([]string, error) {
	loc, err := g.lookup(code)
	if err != nil {
		return nil, err
	}
	return loc.CityCodes, nil
}

// Distance returns the haversine distance in kilometres between two codes
func (g *GeographyRepository) Distance(from, to string) (float64, error) {
	a, err := g.lookup(from)
	if err != nil {
		return 0, err
	}
	b, err := g.lookup(to)
	if err != nil {
		return 0, err
	}
	if !a.hasCoordinates() || !b.hasCoordinates() {
		return 0, fmt.Errorf("no coordinates for %s-%s: %w", from, to, repository.ErrUnknownLocation)
	}
	return haversine(a.Latitude, a.Longitude, b.Latitude, b.Longitude), nil
}

// Len returns the number of known codes
func (g *GeographyRepository) Len() int {
	return len(g.locations)
}

func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}
