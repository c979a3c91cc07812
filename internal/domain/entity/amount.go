package entity

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Amount is a monetary value kept as received until enrichment parses it.
// It decodes from a JSON number or a JSON string and encodes back as a number
// whenever the text is numeric.
type Amount string

// Float64 parses the amount. NaN and infinities are rejected.
func (a Amount) Float64() (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(a)), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("amount %q is not a finite number", string(a))
	}
	return f, nil
}

// AmountOf formats f as an Amount
func AmountOf(f float64) Amount {
	return Amount(strconv.FormatFloat(f, 'f', -1, 64))
}

// MarshalJSON implements json.Marshaler
func (a Amount) MarshalJSON() ([]byte, error) {
	if f, err := a.Float64(); err == nil {
		return []byte(strconv.FormatFloat(f, 'f', -1, 64)), nil
	}
	return []byte(strconv.Quote(string(a))), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	*a = Amount(data)
	return nil
}
