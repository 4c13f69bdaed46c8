package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Page is a static content page such as "about" or "terms".
type Page struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title      string             `bson:"title" json:"title"`
	Slug       string             `bson:"slug" json:"slug"`
	Body       string             `bson:"body" json:"body"`
	Published  bool               `bson:"published" json:"published"`
	Timestamps `bson:",inline"`
}
