package models

import (
	"time"

	"github.com/ukydev/city-directory/internal/geo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Banner placements.
const (
	PlacementHome     = "home"
	PlacementCategory = "category"
	PlacementSidebar  = "sidebar"
)

// Banner is an advertisement slot shown on the storefront.
type Banner struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title      string             `bson:"title" json:"title"`
	ImageURL   string             `bson:"image_url" json:"image_url"`
	LinkURL    string             `bson:"link_url" json:"link_url"`
	Placement  string             `bson:"placement" json:"placement"`
	City       string             `bson:"city" json:"city"`
	Priority   int                `bson:"priority" json:"priority"`
	Active     bool               `bson:"active" json:"active"`
	Lat        *float64           `bson:"lat,omitempty" json:"lat,omitempty"`
	Lng        *float64           `bson:"lng,omitempty" json:"lng,omitempty"`
	StartsAt   *time.Time         `bson:"starts_at,omitempty" json:"starts_at,omitempty"`
	EndsAt     *time.Time         `bson:"ends_at,omitempty" json:"ends_at,omitempty"`
	Timestamps `bson:",inline"`
}

// IsValidPlacement checks if a placement is known.
func IsValidPlacement(p string) bool {
	switch p {
	case PlacementHome, PlacementCategory, PlacementSidebar:
		return true
	default:
		return false
	}
}

// IsLive reports whether the banner is active and inside its schedule.
func (b Banner) IsLive(now time.Time) bool {
	if !b.Active {
		return false
	}
	if b.StartsAt != nil && now.Before(*b.StartsAt) {
		return false
	}
	if b.EndsAt != nil && now.After(*b.EndsAt) {
		return false
	}
	return true
}

// DirectCoordinate returns the banner's own coordinate when both parts are set.
func (b Banner) DirectCoordinate() (geo.Coordinate, bool) {
	lat, lng, ok := coordinateFrom(b.Lat, b.Lng)
	return geo.Coordinate{Lat: lat, Lng: lng}, ok
}

// LookupKeys uses the creative's filename, falling back to the title.
func (b Banner) LookupKeys() (string, string) {
	return b.ImageURL, b.Title
}
