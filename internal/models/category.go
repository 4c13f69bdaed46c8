package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Category groups listings, optionally under a parent category.
type Category struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	Slug       string             `bson:"slug" json:"slug"`
	Icon       string             `bson:"icon" json:"icon"`
	ParentID   string             `bson:"parent_id,omitempty" json:"parent_id,omitempty"`
	SortOrder  int                `bson:"sort_order" json:"sort_order"`
	Timestamps `bson:",inline"`
}
