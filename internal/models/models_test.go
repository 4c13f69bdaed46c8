package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/ukydev/city-directory/internal/geo"
)

func TestTimestamps_Stamp(t *testing.T) {
	first := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	later := first.Add(time.Hour)

	var b Business
	b.Stamp(first)
	assert.Equal(t, first, b.CreatedAt)
	assert.Equal(t, first, b.UpdatedAt)

	b.Stamp(later)
	assert.Equal(t, first, b.CreatedAt)
	assert.Equal(t, later, b.UpdatedAt)
}

func TestBusiness_DirectCoordinate(t *testing.T) {
	lat, lng := 25.6, 85.1

	c, ok := Business{Lat: &lat, Lng: &lng}.DirectCoordinate()
	assert.True(t, ok)
	assert.Equal(t, geo.Coordinate{Lat: 25.6, Lng: 85.1}, c)

	_, ok = Business{Lat: &lat}.DirectCoordinate()
	assert.False(t, ok)

	img, name := Business{Name: "Swiggy", ImageURL: "Swiggy-logo.jpg"}.LookupKeys()
	assert.Equal(t, "Swiggy-logo.jpg", img)
	assert.Equal(t, "Swiggy", name)
}

func TestBanner_DirectCoordinate(t *testing.T) {
	lat, lng := 25.61, 85.14

	c, ok := Banner{Lat: &lat, Lng: &lng}.DirectCoordinate()
	assert.True(t, ok)
	assert.Equal(t, geo.Coordinate{Lat: 25.61, Lng: 85.14}, c)

	_, ok = Banner{Lng: &lng}.DirectCoordinate()
	assert.False(t, ok)
}

func TestBanner_IsLive(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	before := now.Add(-24 * time.Hour)
	after := now.Add(24 * time.Hour)

	tests := []struct {
		name     string
		banner   Banner
		expected bool
	}{
		{"inactive", Banner{Active: false}, false},
		{"active without schedule", Banner{Active: true}, true},
		{"inside window", Banner{Active: true, StartsAt: &before, EndsAt: &after}, true},
		{"not started", Banner{Active: true, StartsAt: &after}, false},
		{"ended", Banner{Active: true, EndsAt: &before}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.banner.IsLive(now))
		})
	}
}

func TestBanner_LookupKeysFallsBackToTitle(t *testing.T) {
	img, name := Banner{Title: "Big Bazaar sale"}.LookupKeys()
	assert.Empty(t, img)
	assert.Equal(t, "Big Bazaar sale", name)
	assert.True(t, IsValidPlacement(PlacementSidebar))
	assert.False(t, IsValidPlacement("footer"))
}

func TestOffer_IsValid(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	assert.True(t, Offer{Active: true}.IsValid(now))
	assert.False(t, Offer{Active: false}.IsValid(now))
	assert.False(t, Offer{Active: true, ValidFrom: now.Add(time.Hour)}.IsValid(now))
	assert.False(t, Offer{Active: true, ValidUntil: now.Add(-time.Hour)}.IsValid(now))
	assert.True(t, Offer{Active: true, ValidFrom: now.Add(-time.Hour), ValidUntil: now.Add(time.Hour)}.IsValid(now))
}

func TestMessage_Validate(t *testing.T) {
	valid := Message{Name: "Asha", Email: "asha@example.com", Body: "Do you deliver?"}
	assert.NoError(t, valid.Validate())

	noName := valid
	noName.Name = " "
	assert.EqualError(t, noName.Validate(), "name is required")

	noBody := valid
	noBody.Body = ""
	assert.EqualError(t, noBody.Validate(), "message body is required")

	badEmail := valid
	badEmail.Email = "asha"
	assert.EqualError(t, badEmail.Validate(), "invalid email format")
}
