package repository

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"search-enrichment-service/internal/domain/repository"
	"search-enrichment-service/pkg/utils"
)

// BaseCurrency is the currency the ECB reference rates are quoted against
const BaseCurrency = "EUR"

// CurrencyRateRepository implements the RateRepository interface over one day of rates
type CurrencyRateRepository struct {
	date  string
	rates map[string]float64
}

// NewCurrencyRateRepository creates a rate repository from an in-memory table
func NewCurrencyRateRepository(date string, rates map[string]float64) *CurrencyRateRepository {
	return &CurrencyRateRepository{
		date:  date,
		rates: rates,
	}
}

// LoadRatesFile reads an ECB eurofxref CSV file
func LoadRatesFile(path string) (*CurrencyRateRepository, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rates file: %w", err)
	}
	defer f.Close()

	return LoadRates(f)
}

// LoadRates decodes ECB reference rates. The first row is the header
// (Date, USD, JPY, ...), the next rows are "19 November 2021, 1.1271, 128.22, ...".
// Only the most recent row is kept. N/A values leave the currency without a rate.
func LoadRates(r io.Reader) (*CurrencyRateRepository, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read rates header: %w", err)
	}

	var last []string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read rates row: %w", err)
		}
		if utils.CountNonEmpty(row) <= 1 {
			continue
		}
		last = row
	}
	if last == nil {
		return nil, errors.New("rates file has no data row")
	}

	rateDate, err := time.Parse(utils.RATE_DATE, strings.TrimSpace(last[0]))
	if err != nil {
		return nil, fmt.Errorf("parse rates date: %w", err)
	}

	rates := make(map[string]float64)
	for i := 1; i < len(header) && i < len(last); i++ {
		currency := strings.TrimSpace(header[i])
		value := strings.TrimSpace(last[i])
		if currency == "" || value == "" || value == "N/A" {
			continue
		}
		rate, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("parse rate for %s: %w", currency, err)
		}
		rates[currency] = rate
	}

	return NewCurrencyRateRepository(rateDate.Format(utils.DATE_LAYOUT), rates), nil
}

// BaseCurrency returns the currency all amounts are converted to
func (r *CurrencyRateRepository) BaseCurrency() string {
	return BaseCurrency
}

// Rate returns how many units of currency one base currency unit buys
func (r *CurrencyRateRepository) Rate(currency string) (float64, error) {
	rate, ok := r.rates[currency]
	if !ok {
		return 0, fmt.Errorf("%s: %w", currency, repository.ErrRateNotFound)
	}
	return rate, nil
}

// Date returns the day the rates were published, as YYYY-MM-DD
func (r *CurrencyRateRepository) Date() string {
	return r.date
}

// Len returns the number of currencies with a rate
func (r *CurrencyRateRepository) Len() int {
	return len(r.rates)
}
