package geo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodePayload(t *testing.T, raw string) map[string]any {
	t.Helper()

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	return payload
}

func TestExtractCoordinates_FullFieldNames(t *testing.T) {
	coords, err := ExtractCoordinates(decodePayload(t, `{"latitude": -6.2088, "longitude": 106.8456}`))
	require.NoError(t, err)
	assert.InDelta(t, -6.2088, coords.Latitude, 1e-9)
	assert.InDelta(t, 106.8456, coords.Longitude, 1e-9)
}

func TestExtractCoordinates_AbbreviatedVariants(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "lat lng", payload: `{"lat": 1.5, "lng": 2.5}`},
		{name: "lat lon", payload: `{"lat": 1.5, "lon": 2.5}`},
		{name: "nested full", payload: `{"location": {"latitude": 1.5, "longitude": 2.5}}`},
		{name: "nested abbreviated", payload: `{"location": {"lat": 1.5, "lng": 2.5}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coords, err := ExtractCoordinates(decodePayload(t, tt.payload))
			require.NoError(t, err)
			assert.InDelta(t, 1.5, coords.Latitude, 1e-9)
			assert.InDelta(t, 2.5, coords.Longitude, 1e-9)
		})
	}
}

func TestExtractCoordinates_NumericStrings(t *testing.T) {
	coords, err := ExtractCoordinates(decodePayload(t, `{"lat": "10.5", "lng": "-20.25"}`))
	require.NoError(t, err)
	assert.InDelta(t, 10.5, coords.Latitude, 1e-9)
	assert.InDelta(t, -20.25, coords.Longitude, 1e-9)
}

func TestExtractCoordinates_MissingPayload(t *testing.T) {
	_, err := ExtractCoordinates(nil)
	assert.ErrorIs(t, err, ErrMissingPayload)
}

func TestExtractCoordinates_NoRecognizedFields(t *testing.T) {
	_, err := ExtractCoordinates(decodePayload(t, `{}`))
	assert.ErrorIs(t, err, ErrMissingCoordinates)

	_, err = ExtractCoordinates(decodePayload(t, `{"speed": 42, "heading": 180}`))
	assert.ErrorIs(t, err, ErrMissingCoordinates)
}

func TestExtractCoordinates_NonNumericValues(t *testing.T) {
	_, err := ExtractCoordinates(decodePayload(t, `{"lat": "abc", "lng": 1}`))
	assert.ErrorIs(t, err, ErrNotNumeric)

	_, err = ExtractCoordinates(decodePayload(t, `{"lat": true, "lng": 1}`))
	assert.ErrorIs(t, err, ErrNotNumeric)
}

func TestExtractCoordinates_RangeValidation(t *testing.T) {
	_, err := ExtractCoordinates(decodePayload(t, `{"latitude": 95, "longitude": 0}`))
	assert.ErrorIs(t, err, ErrLatitudeRange)

	_, err = ExtractCoordinates(decodePayload(t, `{"latitude": 0, "longitude": -181}`))
	assert.ErrorIs(t, err, ErrLongitudeRange)

	// Boundary values are valid.
	coords, err := ExtractCoordinates(decodePayload(t, `{"latitude": 90, "longitude": -180}`))
	require.NoError(t, err)
	assert.InDelta(t, 90.0, coords.Latitude, 1e-9)
}

// The direct fields win over a nested location object when both exist.
func TestExtractCoordinates_StrategyOrder(t *testing.T) {
	payload := decodePayload(t, `{"lat": 1, "lng": 2, "location": {"lat": 8, "lng": 9}}`)

	coords, err := ExtractCoordinates(payload)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, coords.Latitude, 1e-9)
	assert.InDelta(t, 2.0, coords.Longitude, 1e-9)
}
