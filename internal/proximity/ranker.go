package proximity

import (
	"cmp"
	"slices"

	"github.com/ukydev/city-directory/internal/geo"
)

// RankedResult pairs an entity with its distance from the user. DistanceKm is
// nil when no coordinate could be resolved or no user location was given.
type RankedResult[T Locatable] struct {
	Entity     T
	DistanceKm *float64
}

// Located reports whether a distance was computed for the entity.
func (r RankedResult[T]) Located() bool {
	return r.DistanceKm != nil
}

// Rank computes each entity's distance from the user and sorts ascending.
// Entities without a resolvable coordinate keep their relative input order
// after all located ones. When userLat or userLng is nil the entities come
// back unchanged in input order, each without a distance.
func Rank[T Locatable](entities []T, userLat, userLng *float64, table []Reference) []RankedResult[T] {
	results := make([]RankedResult[T], len(entities))
	for i, e := range entities {
		results[i] = RankedResult[T]{Entity: e}
	}
	if userLat == nil || userLng == nil {
		return results
	}

	for i := range results {
		c, ok := ResolveCoordinate(results[i].Entity, table)
		if !ok {
			continue
		}
		d := geo.DistanceKm(*userLat, *userLng, c.Lat, c.Lng)
		results[i].DistanceKm = &d
	}

	slices.SortStableFunc(results, compareDistance[T])
	return results
}

// FilterByRadius keeps results whose distance is known and at most radiusKm.
// Order is preserved.
func FilterByRadius[T Locatable](results []RankedResult[T], radiusKm float64) []RankedResult[T] {
	out := make([]RankedResult[T], 0, len(results))
	for _, r := range results {
		if r.DistanceKm == nil || *r.DistanceKm > radiusKm {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Nearby ranks and then drops anything unlocated or outside the radius.
func Nearby[T Locatable](entities []T, userLat, userLng float64, table []Reference, radiusKm float64) []RankedResult[T] {
	return FilterByRadius(Rank(entities, &userLat, &userLng, table), radiusKm)
}

func compareDistance[T Locatable](a, b RankedResult[T]) int {
	switch {
	case a.DistanceKm == nil && b.DistanceKm == nil:
		return 0
	case a.DistanceKm == nil:
		return 1
	case b.DistanceKm == nil:
		return -1
	}
	return cmp.Compare(*a.DistanceKm, *b.DistanceKm)
}
