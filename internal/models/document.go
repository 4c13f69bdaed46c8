package models

import "time"

// Stamper is implemented by documents that track creation and update times.
type Stamper interface {
	Stamp(now time.Time)
}

// Timestamps is embedded by every stored document.
type Timestamps struct {
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Stamp sets CreatedAt on first save and UpdatedAt on every save.
func (t *Timestamps) Stamp(now time.Time) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
}

func coordinateFrom(lat, lng *float64) (float64, float64, bool) {
	if lat == nil || lng == nil {
		return 0, 0, false
	}
	return *lat, *lng, true
}
