package aggregate

import (
	"math"

	"github.com/rpattn/bidash/internal/domain"
)

// Point is a center with a usable location.
type Point struct {
	CenterKey   string  `json:"centerKey"`
	CenterName  string  `json:"centerName"`
	AccountName string  `json:"accountName"`
	City        string  `json:"city"`
	Country     string  `json:"country"`
	Type        string  `json:"type"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// BoundingBox is the [west, south, east, north] extent of a set of points.
type BoundingBox struct {
	West  float64 `json:"west"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	North float64 `json:"north"`
}

// ValidCoordinates reports whether lat/lng can be placed on a map. The origin
// is treated as a missing value.
func ValidCoordinates(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return false
	}
	return lat != 0 || lng != 0
}

// MapPoints keeps the centers that have valid coordinates.
func MapPoints(centers []*domain.Center) []Point {
	points := make([]Point, 0, len(centers))
	for _, c := range centers {
		if c.Latitude == nil || c.Longitude == nil {
			continue
		}
		if !ValidCoordinates(*c.Latitude, *c.Longitude) {
			continue
		}
		points = append(points, Point{
			CenterKey:   c.Key,
			CenterName:  c.Name,
			AccountName: c.AccountName,
			City:        c.City,
			Country:     c.Country,
			Type:        c.Type,
			Latitude:    *c.Latitude,
			Longitude:   *c.Longitude,
		})
	}
	return points
}

// Bounds returns the extent of points, or false when there are none.
func Bounds(points []Point) (BoundingBox, bool) {
	if len(points) == 0 {
		return BoundingBox{}, false
	}
	box := BoundingBox{
		West:  points[0].Longitude,
		East:  points[0].Longitude,
		South: points[0].Latitude,
		North: points[0].Latitude,
	}
	for _, p := range points[1:] {
		box.West = min(box.West, p.Longitude)
		box.East = max(box.East, p.Longitude)
		box.South = min(box.South, p.Latitude)
		box.North = max(box.North, p.Latitude)
	}
	return box, true
}

// Geometry is a GeoJSON Point geometry.
type Geometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// Feature is a GeoJSON feature carrying center properties.
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// FeatureCollection is the GeoJSON document sent to the map.
type FeatureCollection struct {
	Type     string       `json:"type"`
	Features []Feature    `json:"features"`
	BBox     []float64    `json:"bbox,omitempty"`
	Skipped  int          `json:"skipped"`
	Bounds   *BoundingBox `json:"bounds,omitempty"`
}

// GeoJSON renders the mappable centers as a FeatureCollection. Skipped counts
// the centers left off the map for missing or invalid coordinates.
func GeoJSON(centers []*domain.Center) FeatureCollection {
	points := MapPoints(centers)
	fc := FeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]Feature, 0, len(points)),
		Skipped:  len(centers) - len(points),
	}
	for _, p := range points {
		fc.Features = append(fc.Features, Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: [2]float64{p.Longitude, p.Latitude},
			},
			Properties: map[string]any{
				"centerKey":   p.CenterKey,
				"centerName":  p.CenterName,
				"accountName": p.AccountName,
				"city":        p.City,
				"country":     p.Country,
				"type":        p.Type,
			},
		})
	}
	if box, ok := Bounds(points); ok {
		fc.Bounds = &box
		fc.BBox = []float64{box.West, box.South, box.East, box.North}
	}
	return fc
}
