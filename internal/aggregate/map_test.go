package aggregate

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpattn/bidash/internal/domain"
)

func ptr(v float64) *float64 { return &v }

func TestValidCoordinates(t *testing.T) {
	cases := []struct {
		name     string
		lat, lng float64
		want     bool
	}{
		{"valid", 18.52, 73.85, true},
		{"origin", 0, 0, false},
		{"equator", 0, 73.85, true},
		{"lat too high", 91, 10, false},
		{"lng too low", 10, -180.5, false},
		{"edges", -90, 180, true},
		{"nan latitude", math.NaN(), 73.85, false},
		{"nan both", math.NaN(), math.NaN(), false},
		{"infinite longitude", 18.52, math.Inf(1), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidCoordinates(tc.lat, tc.lng))
		})
	}
}

func TestGeoJSONSkipsUnmappableCenters(t *testing.T) {
	centers := []*domain.Center{
		{Key: "C1", Name: "Pune", Latitude: ptr(18.5), Longitude: ptr(73.8)},
		{Key: "C2", Name: "Chennai", Latitude: ptr(13.1), Longitude: ptr(80.3)},
		{Key: "C3", Name: "Nowhere"},
		{Key: "C4", Name: "Null island", Latitude: ptr(0), Longitude: ptr(0)},
		{Key: "C5", Name: "Broken", Latitude: ptr(120), Longitude: ptr(10)},
		{Key: "C6", Name: "Not a number", Latitude: ptr(math.NaN()), Longitude: ptr(math.NaN())},
	}

	fc := GeoJSON(centers)

	require.Len(t, fc.Features, 2)
	assert.Equal(t, 4, fc.Skipped)
	assert.Equal(t, [2]float64{73.8, 18.5}, fc.Features[0].Geometry.Coordinates)
	assert.Equal(t, "C2", fc.Features[1].Properties["centerKey"])
	require.NotNil(t, fc.Bounds)
	assert.Equal(t, BoundingBox{West: 73.8, South: 13.1, East: 80.3, North: 18.5}, *fc.Bounds)
	assert.Equal(t, []float64{73.8, 13.1, 80.3, 18.5}, fc.BBox)

	payload, err := json.Marshal(fc)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"type":"FeatureCollection"`)
}

func TestGeoJSONEmpty(t *testing.T) {
	fc := GeoJSON(nil)

	assert.NotNil(t, fc.Features)
	assert.Nil(t, fc.Bounds)
	_, ok := Bounds(nil)
	assert.False(t, ok)
}
