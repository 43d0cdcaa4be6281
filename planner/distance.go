package planner

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	geo "github.com/kellydunn/golang-geo"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// Point is a geographic coordinate in degrees.
type Point struct {
	Lat float64 `yaml:"lat" json:"lat"`
	Lng float64 `yaml:"lng" json:"lng"`
}

// IsZero reports whether p is the zero coordinate, which callers use as "unset".
func (p Point) IsZero() bool {
	return p.Lat == 0 && p.Lng == 0
}

// DistanceTo returns the great-circle distance to q in kilometers.
func (p Point) DistanceTo(q Point) float64 {
	return HaversineDistanceKm(p.Lat, p.Lng, q.Lat, q.Lng)
}

func (p Point) String() string {
	return fmt.Sprintf("%.4f,%.4f", p.Lat, p.Lng)
}

// HaversineDistanceKm returns the great-circle distance between two points
// given in degrees, using an Earth radius of 6371 km.
func HaversineDistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	if lat1 == lat2 && lon1 == lon2 {
		return 0
	}
	p1 := geo.NewPoint(lat1, lon1)
	p2 := geo.NewPoint(lat2, lon2)
	d := p1.GreatCircleDistance(p2)
	// rounding near antipodes pushes the haversine term past 1
	if math.IsNaN(d) || d > math.Pi*EarthRadiusKm {
		return math.Pi * EarthRadiusKm
	}
	return d
}

// ParsePoint parses "lat,lng".
func ParsePoint(s string) (Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Point{}, fmt.Errorf("invalid coordinate %q, expected lat,lng", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("invalid latitude %q: %w", parts[0], err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("invalid longitude %q: %w", parts[1], err)
	}
	return Point{Lat: lat, Lng: lng}, nil
}
