package models

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is an enquiry left through the contact form.
type Message struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BusinessID string             `bson:"business_id,omitempty" json:"business_id,omitempty"`
	Name       string             `bson:"name" json:"name"`
	Email      string             `bson:"email" json:"email"`
	Phone      string             `bson:"phone" json:"phone"`
	Subject    string             `bson:"subject" json:"subject"`
	Body       string             `bson:"body" json:"body"`
	Read       bool               `bson:"read" json:"read"`
	Timestamps `bson:",inline"`
}

// Validate checks the fields the contact form requires.
func (m Message) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(m.Body) == "" {
		return errors.New("message body is required")
	}
	if !strings.Contains(m.Email, "@") || !strings.Contains(m.Email, ".") {
		return errors.New("invalid email format")
	}
	return nil
}
