package models

import (
	"github.com/ukydev/city-directory/internal/geo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Location is a city the directory serves.
type Location struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	Slug       string             `bson:"slug" json:"slug"`
	State      string             `bson:"state" json:"state"`
	Country    string             `bson:"country" json:"country"`
	Center     geo.Coordinate     `bson:"center" json:"center"`
	Active     bool               `bson:"active" json:"active"`
	Timestamps `bson:",inline"`
}
