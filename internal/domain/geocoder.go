package domain

import "context"

// GeocodingResult contains location data returned by a geocoding provider.
type GeocodingResult struct {
	Lat         float64
	Lon         float64
	PlaceName   string
	DisplayName string
	Importance  float64 // provider ranking score, higher is more prominent
}

// Found reports whether the provider resolved the query to a place. A zero
// result with a nil error means the provider had no match.
func (r GeocodingResult) Found() bool {
	return r.DisplayName != ""
}

// Geocoder resolves free-form place names to geographic coordinates.
type Geocoder interface {
	// Geocode performs forward geocoding for a place name. A place the
	// provider cannot resolve yields a zero result and a nil error.
	Geocode(ctx context.Context, place string) (GeocodingResult, error)
}
