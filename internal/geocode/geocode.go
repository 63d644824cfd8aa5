package geocode

import (
	"context"
	"errors"
	"strings"
)

var ErrNotFound = errors.New("geocode not found")

// Result is a resolved location. DisplayName feeds the register form's
// address field as raw text; the normalizer treats it like any typed input.
type Result struct {
	Lat         float64
	Lon         float64
	DisplayName string
	Confidence  float64
}

// Geocoder resolves free-text addresses and coordinates for form prefill.
type Geocoder interface {
	Search(ctx context.Context, query string) (Result, error)
	Reverse(ctx context.Context, lat, lon float64) (Result, error)
}

// BuildQuery assembles a search string from the structured address fields,
// skipping the ones the operator left blank.
func BuildQuery(street, number, city string) string {
	parts := []string{}
	if s := strings.TrimSpace(street); s != "" {
		if n := strings.TrimSpace(number); n != "" {
			s += ", " + n
		}
		parts = append(parts, s)
	}
	if c := strings.TrimSpace(city); c != "" {
		parts = append(parts, c)
	}
	return strings.Join(parts, ", ")
}
