// Package geo holds the great-circle distance math used for proximity ranking.
package geo

import (
	"fmt"
	"math"
)

// EarthRadiusKm is the mean Earth radius of the spherical approximation.
const EarthRadiusKm = 6371.0

// Coordinate is a latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// Valid reports whether the coordinate lies within the latitude and longitude ranges.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lng)
}

// DistanceKm computes the Haversine distance between two points, in kilometers,
// rounded to one decimal place (half away from zero). Inputs are not range
// checked; NaN propagates to the result.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	lat1Rad := degreesToRadians(lat1)
	lat2Rad := degreesToRadians(lat2)
	dLat := degreesToRadians(lat2 - lat1)
	dLng := degreesToRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return roundTenth(EarthRadiusKm * c)
}

// Between is DistanceKm for two coordinates.
func Between(a, b Coordinate) float64 {
	return DistanceKm(a.Lat, a.Lng, b.Lat, b.Lng)
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
