package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// ReferenceShop is a known shop coordinate used when a listing or banner
// carries no coordinate of its own.
type ReferenceShop struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	Lat        float64            `bson:"lat" json:"lat"`
	Lng        float64            `bson:"lng" json:"lng"`
	Timestamps `bson:",inline"`
}
