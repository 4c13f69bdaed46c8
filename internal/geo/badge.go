package geo

import (
	"fmt"
	"math"
)

// DefaultTravelSpeedKmh approximates city traffic.
const DefaultTravelSpeedKmh = 30.0

// TravelMinutes estimates travel time for a distance at the given speed.
// Any positive distance takes at least one minute.
func TravelMinutes(distanceKm, speedKmh float64) int {
	if speedKmh <= 0 {
		speedKmh = DefaultTravelSpeedKmh
	}
	if distanceKm <= 0 || math.IsNaN(distanceKm) {
		return 0
	}
	minutes := int(math.Ceil(distanceKm / speedKmh * 60))
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// Badge renders the distance label shown next to listings, e.g. "2.3 km, 5 min".
func Badge(distanceKm, speedKmh float64) string {
	return fmt.Sprintf("%.1f km, %d min", distanceKm, TravelMinutes(distanceKm, speedKmh))
}
