package models

import (
	"github.com/ukydev/city-directory/internal/geo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Business is a directory listing.
type Business struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description" json:"description"`
	CategoryID  string             `bson:"category_id" json:"category_id"`
	City        string             `bson:"city" json:"city"`
	Address     string             `bson:"address" json:"address"`
	Phone       string             `bson:"phone" json:"phone"`
	Website     string             `bson:"website" json:"website"`
	ImageURL    string             `bson:"image_url" json:"image_url"`
	Tags        []string           `bson:"tags" json:"tags"`
	Rating      float64            `bson:"rating" json:"rating"`
	Featured    bool               `bson:"featured" json:"featured"`
	Active      bool               `bson:"active" json:"active"`
	Lat         *float64           `bson:"lat,omitempty" json:"lat,omitempty"`
	Lng         *float64           `bson:"lng,omitempty" json:"lng,omitempty"`
	Timestamps  `bson:",inline"`
}

// DirectCoordinate returns the listing's own coordinate when both parts are set.
func (b Business) DirectCoordinate() (geo.Coordinate, bool) {
	lat, lng, ok := coordinateFrom(b.Lat, b.Lng)
	return geo.Coordinate{Lat: lat, Lng: lng}, ok
}

// LookupKeys returns the logo URL and name used to find the listing in the reference table.
func (b Business) LookupKeys() (string, string) {
	return b.ImageURL, b.Name
}
