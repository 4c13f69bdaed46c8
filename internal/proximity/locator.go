// Package proximity resolves listings and banners to coordinates and orders
// them by distance from a user.
//
// Everything here is a pure function of its arguments; callers own loading of
// entities and the reference table, so the functions are safe for concurrent use.
package proximity

import (
	"strings"

	"github.com/ukydev/city-directory/internal/geo"
)

// Locatable is a record that may be placed on the map.
type Locatable interface {
	// DirectCoordinate returns the stored coordinate, if both lat and lng are set.
	DirectCoordinate() (geo.Coordinate, bool)
	// LookupKeys returns the image URL and display name used for fallback lookup.
	LookupKeys() (imageURL, name string)
}

// Reference is a known name to coordinate mapping.
type Reference struct {
	Name       string
	Coordinate geo.Coordinate
}

// ResolveCoordinate returns the entity's coordinate: its own lat/lng when
// present, otherwise a match from the reference table. ok is false when
// nothing matches.
func ResolveCoordinate(entity Locatable, table []Reference) (geo.Coordinate, bool) {
	if c, ok := entity.DirectCoordinate(); ok {
		return c, true
	}
	imageURL, name := entity.LookupKeys()
	key := imageURL
	if strings.TrimSpace(key) == "" {
		key = name
	}
	return lookup(key, table)
}

func lookup(key string, table []Reference) (geo.Coordinate, bool) {
	if len(table) == 0 {
		return geo.Coordinate{}, false
	}
	original := strings.ToLower(baseFilename(key))
	derived := strings.ToLower(DeriveName(key))
	if derived == "" && original == "" {
		return geo.Coordinate{}, false
	}

	for _, step := range matchSteps {
		if ref, ok := step(derived, original, table); ok {
			return ref.Coordinate, true
		}
	}
	return geo.Coordinate{}, false
}

type matchStep func(derived, original string, table []Reference) (Reference, bool)

// matchSteps run in order; the first hit wins.
var matchSteps = []matchStep{
	matchExact,
	matchContains,
	matchOriginal,
	matchAlias,
}

func matchExact(derived, _ string, table []Reference) (Reference, bool) {
	if derived == "" {
		return Reference{}, false
	}
	for _, ref := range table {
		if strings.EqualFold(strings.TrimSpace(ref.Name), derived) {
			return ref, true
		}
	}
	return Reference{}, false
}

func matchContains(derived, _ string, table []Reference) (Reference, bool) {
	if derived == "" {
		return Reference{}, false
	}
	return containsEitherWay(derived, table)
}

func matchOriginal(_, original string, table []Reference) (Reference, bool) {
	if original == "" {
		return Reference{}, false
	}
	return containsEitherWay(original, table)
}

func matchAlias(derived, _ string, table []Reference) (Reference, bool) {
	if derived == "" {
		return Reference{}, false
	}
	for _, a := range aliases {
		if !strings.Contains(derived, a.token) {
			continue
		}
		target := strings.ToLower(a.target)
		for _, ref := range table {
			if strings.Contains(strings.ToLower(ref.Name), target) {
				return ref, true
			}
		}
	}
	return Reference{}, false
}

func containsEitherWay(candidate string, table []Reference) (Reference, bool) {
	for _, ref := range table {
		name := strings.ToLower(strings.TrimSpace(ref.Name))
		if name == "" {
			continue
		}
		if strings.Contains(name, candidate) || strings.Contains(candidate, name) {
			return ref, true
		}
	}
	return Reference{}, false
}
