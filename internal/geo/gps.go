package geo

import (
	"math"
	"strconv"

	"github.com/pkg/errors"
)

// Validation errors returned by ExtractCoordinates. Callers treat all of
// them as terminal for the triggering event; none are retried.
var (
	// ErrMissingPayload is returned when the payload is absent or not an object.
	ErrMissingPayload = errors.New("gps payload is missing or not an object")
	// ErrMissingCoordinates is returned when no recognized coordinate fields are present.
	ErrMissingCoordinates = errors.New("gps payload has no recognized coordinate fields")
	// ErrNotNumeric is returned when a coordinate value cannot be parsed as a number.
	ErrNotNumeric = errors.New("gps coordinate is not numeric")
	// ErrLatitudeRange is returned when latitude falls outside [-90, 90].
	ErrLatitudeRange = errors.New("latitude out of range [-90, 90]")
	// ErrLongitudeRange is returned when longitude falls outside [-180, 180].
	ErrLongitudeRange = errors.New("longitude out of range [-180, 180]")
)

// Coordinates is a validated, normalized GPS reading.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// extractStrategy tries one historical payload shape and reports whether it
// matched. Strategies are tried in order and short-circuit on first match;
// matching is on field presence, before any numeric parsing.
type extractStrategy func(payload map[string]any) (lat, lng any, ok bool)

// Device firmware in the field has shipped several coordinate layouts over
// the years. The order mirrors how widespread each variant is.
var extractStrategies = []extractStrategy{
	fieldPair("latitude", "longitude"),
	fieldPair("lat", "lng"),
	fieldPair("lat", "lon"),
	nestedLocation("latitude", "longitude"),
	nestedLocation("lat", "lng"),
}

func fieldPair(latKey, lngKey string) extractStrategy {
	return func(payload map[string]any) (any, any, bool) {
		lat, latOK := payload[latKey]
		lng, lngOK := payload[lngKey]

		return lat, lng, latOK && lngOK
	}
}

func nestedLocation(latKey, lngKey string) extractStrategy {
	return func(payload map[string]any) (any, any, bool) {
		loc, ok := payload["location"].(map[string]any)
		if !ok {
			return nil, nil, false
		}

		lat, latOK := loc[latKey]
		lng, lngOK := loc[lngKey]

		return lat, lng, latOK && lngOK
	}
}

// ExtractCoordinates normalizes a raw location payload into Coordinates.
// Values may be JSON numbers or numeric strings; range checks are strict
// even though field naming is permissive.
func ExtractCoordinates(payload map[string]any) (Coordinates, error) {
	if payload == nil {
		return Coordinates{}, ErrMissingPayload
	}

	var rawLat, rawLng any
	matched := false
	for _, strategy := range extractStrategies {
		if lat, lng, ok := strategy(payload); ok {
			rawLat, rawLng = lat, lng
			matched = true

			break
		}
	}
	if !matched {
		return Coordinates{}, ErrMissingCoordinates
	}

	lat, err := toFloat(rawLat)
	if err != nil {
		return Coordinates{}, err
	}
	lng, err := toFloat(rawLng)
	if err != nil {
		return Coordinates{}, err
	}

	if lat < -90 || lat > 90 {
		return Coordinates{}, errors.Wrapf(ErrLatitudeRange, "latitude %v", lat)
	}
	if lng < -180 || lng > 180 {
		return Coordinates{}, errors.Wrapf(ErrLongitudeRange, "longitude %v", lng)
	}

	return Coordinates{Latitude: lat, Longitude: lng}, nil
}

func toFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, ErrNotNumeric
		}

		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(parsed) {
			return 0, errors.Wrapf(ErrNotNumeric, "value %q", v)
		}

		return parsed, nil
	default:
		return 0, errors.Wrapf(ErrNotNumeric, "value %v", value)
	}
}
