package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Offer is a promotion attached to a business.
type Offer struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BusinessID      string             `bson:"business_id" json:"business_id"`
	Title           string             `bson:"title" json:"title"`
	Description     string             `bson:"description" json:"description"`
	DiscountPercent float64            `bson:"discount_percent" json:"discount_percent"`
	Code            string             `bson:"code" json:"code"`
	ValidFrom       time.Time          `bson:"valid_from" json:"valid_from"`
	ValidUntil      time.Time          `bson:"valid_until" json:"valid_until"`
	Active          bool               `bson:"active" json:"active"`
	Timestamps      `bson:",inline"`
}

// IsValid reports whether the offer can be redeemed at now. A zero ValidUntil never expires.
func (o Offer) IsValid(now time.Time) bool {
	if !o.Active {
		return false
	}
	if !o.ValidFrom.IsZero() && now.Before(o.ValidFrom) {
		return false
	}
	if !o.ValidUntil.IsZero() && now.After(o.ValidUntil) {
		return false
	}
	return true
}
