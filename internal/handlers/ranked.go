package handlers

import (
	"time"

	"github.com/ukydev/city-directory/internal/geo"
	"github.com/ukydev/city-directory/internal/geocode"
	"github.com/ukydev/city-directory/internal/metrics"
	"github.com/ukydev/city-directory/internal/proximity"
)

// RankedItem is the wire form of a ranked entity. Distance fields are
// omitted when the entity could not be located.
type RankedItem[T any] struct {
	Entity     T        `json:"entity"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
	ETAMinutes *int     `json:"eta_minutes,omitempty"`
	Badge      string   `json:"badge,omitempty"`
}

// RankedResponse wraps a ranked list with the location it was ranked against.
type RankedResponse[T any] struct {
	Location geocode.Resolved `json:"location"`
	Items    []RankedItem[T]  `json:"items"`
}

func present[T proximity.Locatable](results []proximity.RankedResult[T], speedKmh float64) []RankedItem[T] {
	items := make([]RankedItem[T], len(results))
	for i, res := range results {
		items[i].Entity = res.Entity
		if !res.Located() {
			continue
		}
		d := *res.DistanceKm
		eta := geo.TravelMinutes(d, speedKmh)
		items[i].DistanceKm = &d
		items[i].ETAMinutes = &eta
		items[i].Badge = geo.Badge(d, speedKmh)
	}
	return items
}

// rankTimed ranks entities and records the ranking metrics under kind.
func rankTimed[T proximity.Locatable](kind string, entities []T, lat, lng *float64, table []proximity.Reference) []proximity.RankedResult[T] {
	start := time.Now()
	results := proximity.Rank(entities, lat, lng, table)

	located := 0
	for _, res := range results {
		if res.Located() {
			located++
		}
	}
	metrics.ObserveRanking(kind, located, len(results)-located, time.Since(start).Seconds())
	return results
}
