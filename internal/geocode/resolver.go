package geocode

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/city-directory/internal/db"
	"github.com/ukydev/city-directory/internal/geo"
	"github.com/ukydev/city-directory/internal/models"
)

// Sources a resolved location can come from.
const (
	SourceGeolocation = "geolocation"
	SourcePreference  = "preference"
	SourceNone        = "none"
)

var (
	ErrInvalidCoordinate = errors.New("coordinate out of range")
	ErrUnknownCity       = errors.New("unknown city")
)

// LocationFinder looks up a served city by slug or name.
type LocationFinder interface {
	FindLocation(ctx context.Context, key string) (*models.Location, error)
}

// Query carries what the client knows about its location.
type Query struct {
	Lat  *float64
	Lng  *float64
	City string
}

// Resolved is the user location handed to proximity ranking. Coordinate is
// nil when nothing could be resolved.
type Resolved struct {
	Coordinate *geo.Coordinate `json:"coordinate,omitempty"`
	City       string          `json:"city,omitempty"`
	Source     string          `json:"source"`
}

// LatLng splits the coordinate into the nullable pair proximity.Rank takes.
func (r Resolved) LatLng() (*float64, *float64) {
	if r.Coordinate == nil {
		return nil, nil
	}
	lat, lng := r.Coordinate.Lat, r.Coordinate.Lng
	return &lat, &lng
}

// Resolver picks the user location from, in order, browser coordinates and
// a stored city preference.
type Resolver struct {
	geocoder  ReverseGeocoder
	locations LocationFinder
}

// NewResolver creates a resolver. geocoder may be nil, in which case
// coordinates are used without a city name.
func NewResolver(geocoder ReverseGeocoder, locations LocationFinder) *Resolver {
	return &Resolver{geocoder: geocoder, locations: locations}
}

// Resolve returns the best known location for q.
func (r *Resolver) Resolve(ctx context.Context, q Query) (Resolved, error) {
	if q.Lat != nil && q.Lng != nil {
		c := geo.Coordinate{Lat: *q.Lat, Lng: *q.Lng}
		if !c.Valid() {
			return Resolved{Source: SourceNone}, fmt.Errorf("%w: %s", ErrInvalidCoordinate, c)
		}
		resolved := Resolved{Coordinate: &c, City: strings.TrimSpace(q.City), Source: SourceGeolocation}
		if r.geocoder != nil {
			city, err := r.geocoder.Reverse(ctx, c.Lat, c.Lng)
			if err != nil {
				log.WithError(err).WithField("coordinate", c.String()).Warn("Reverse geocode failed")
			} else {
				resolved.City = city
			}
		}
		return resolved, nil
	}

	if city := strings.TrimSpace(q.City); city != "" && r.locations != nil {
		loc, err := r.locations.FindLocation(ctx, city)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return Resolved{Source: SourceNone, City: city}, fmt.Errorf("%w: %s", ErrUnknownCity, city)
			}
			return Resolved{Source: SourceNone}, fmt.Errorf("find location %q: %w", city, err)
		}
		center := loc.Center
		return Resolved{Coordinate: &center, City: loc.Name, Source: SourcePreference}, nil
	}

	return Resolved{Source: SourceNone}, nil
}
