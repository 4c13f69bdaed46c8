package proximity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ukydev/city-directory/internal/geo"
)

type fakeEntity struct {
	id       string
	lat, lng *float64
	imageURL string
	name     string
}

func (f fakeEntity) DirectCoordinate() (geo.Coordinate, bool) {
	if f.lat == nil || f.lng == nil {
		return geo.Coordinate{}, false
	}
	return geo.Coordinate{Lat: *f.lat, Lng: *f.lng}, true
}

func (f fakeEntity) LookupKeys() (string, string) {
	return f.imageURL, f.name
}

func ptr(v float64) *float64 { return &v }

var swiggyTable = []Reference{
	{Name: "Swiggy", Coordinate: geo.Coordinate{Lat: 12.9, Lng: 77.6}},
}

func TestResolveCoordinate_FallbackByImage(t *testing.T) {
	c, ok := ResolveCoordinate(fakeEntity{imageURL: "Swiggy-logo.jpg"}, swiggyTable)
	assert.True(t, ok)
	assert.Equal(t, geo.Coordinate{Lat: 12.9, Lng: 77.6}, c)
}

func TestResolveCoordinate_NoMatch(t *testing.T) {
	_, ok := ResolveCoordinate(fakeEntity{imageURL: "random-unrelated-image.png"}, swiggyTable)
	assert.False(t, ok)
}

func TestResolveCoordinate_DirectWins(t *testing.T) {
	e := fakeEntity{lat: ptr(25.6), lng: ptr(85.1), imageURL: "Swiggy-logo.jpg", name: "Swiggy"}
	c, ok := ResolveCoordinate(e, swiggyTable)
	assert.True(t, ok)
	assert.Equal(t, geo.Coordinate{Lat: 25.6, Lng: 85.1}, c)
}

func TestResolveCoordinate_HalfCoordinateFallsBack(t *testing.T) {
	e := fakeEntity{lat: ptr(25.6), imageURL: "Swiggy-logo.jpg"}
	c, ok := ResolveCoordinate(e, swiggyTable)
	assert.True(t, ok)
	assert.Equal(t, 12.9, c.Lat)
}

func TestResolveCoordinate_UsesNameWithoutImage(t *testing.T) {
	c, ok := ResolveCoordinate(fakeEntity{name: "swiggy"}, swiggyTable)
	assert.True(t, ok)
	assert.Equal(t, 77.6, c.Lng)
}

func TestResolveCoordinate_EmptyInputs(t *testing.T) {
	tests := []struct {
		name   string
		entity fakeEntity
		table  []Reference
	}{
		{"empty key", fakeEntity{}, swiggyTable},
		{"whitespace key", fakeEntity{imageURL: "   ", name: " "}, swiggyTable},
		{"slash only", fakeEntity{imageURL: "/"}, swiggyTable},
		{"empty table", fakeEntity{imageURL: "Swiggy-logo.jpg"}, nil},
		{"blank reference name", fakeEntity{imageURL: "anything.png"}, []Reference{{Name: ""}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ResolveCoordinate(tt.entity, tt.table)
			assert.False(t, ok)
		})
	}
}

func TestResolveCoordinate_MatchOrder(t *testing.T) {
	table := []Reference{
		{Name: "Zomato Foods", Coordinate: geo.Coordinate{Lat: 1, Lng: 1}},
		{Name: "Zomato", Coordinate: geo.Coordinate{Lat: 2, Lng: 2}},
		{Name: "Asian Paints", Coordinate: geo.Coordinate{Lat: 3, Lng: 3}},
		{Name: "HDFC Bank", Coordinate: geo.Coordinate{Lat: 4, Lng: 4}},
		{Name: "Ola", Coordinate: geo.Coordinate{Lat: 5, Lng: 5}},
	}
	tests := []struct {
		name     string
		imageURL string
		expected float64
	}{
		{"exact beats earlier containment", "zomato-logo.png", 2},
		{"derived name contains reference name", "zomato-foods-new.png", 2},
		{"reference name contains derived name", "asian.png", 3},
		{"suffix stripped before containment", "ola-cabs.png", 5},
		{"alias asianpaint", "asianpaint.jpg", 3},
		{"alias hdfc-bank", "/img/hdfc-bank-2048x1153.webp", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := ResolveCoordinate(fakeEntity{imageURL: tt.imageURL}, table)
			assert.True(t, ok)
			assert.Equal(t, tt.expected, c.Lat)
		})
	}
}

func TestResolveCoordinate_OriginalFilename(t *testing.T) {
	// "-new" is stripped from the middle, so only the raw filename still matches.
	table := []Reference{{Name: "Bake-new-house", Coordinate: geo.Coordinate{Lat: 7, Lng: 7}}}
	assert.Equal(t, "Bake-house", DeriveName("Bake-new-house.png"))
	c, ok := ResolveCoordinate(fakeEntity{imageURL: "uploads/Bake-new-house.png"}, table)
	assert.True(t, ok)
	assert.Equal(t, 7.0, c.Lat)
}

func TestDeriveName(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"Swiggy-logo.jpg", "Swiggy"},
		{"https://cdn.example.com/uploads/Swiggy_logo.png?v=3", "Swiggy"},
		{"/uploads/1712-Swiggy-logo.jpg", "Swiggy"},
		{"logo-Zomato.svg", "Zomato"},
		{"logo_Zomato.svg", "Zomato"},
		{"Ola-cabs.png", "Ola"},
		{"Reliance-industries-limited.jpeg", "Reliance"},
		{"Nykaa-new.png", "Nykaa"},
		{"TATAMOTORS.NS-8f3a2c.png", "TATAMOTORS"},
		{"Dmart (1).png", "Dmart"},
		{"Croma-2048x1153.jpg", "Croma"},
		{"Cafe%20Coffee%20Day.png", "Cafe Coffee Day"},
		{`C:\images\Bata-logo.gif`, "Bata"},
		{"St. John Pharmacy", "St. John Pharmacy"},
		{"Newton Classes.png", "Newton Classes"},
		{"hdfc-bank.png", "hdfc-bank"},
		{"1700000000-hdfc-bank.png", "hdfc-bank"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveName(tt.in))
		})
	}
}

func TestNormalizeRules_EachRuleApplies(t *testing.T) {
	samples := map[string]string{
		"stock suffix":       "Tata.NS-abc123",
		"copy counter":       "Tata (2)",
		"pixel dimensions":   "Tata-800x600",
		"industries limited": "Tata-industries-limited",
		"logo suffix":        "Tata-logo",
		"logo prefix":        "logo_Tata",
		"cabs suffix":        "Tata-cabs",
		"new suffix":         "Tata-new",
		"upload prefix":      "1699999-Tata",
	}
	assert.Len(t, normalizeRules, len(samples))
	for _, rule := range normalizeRules {
		sample, ok := samples[rule.name]
		if !assert.True(t, ok, "no sample for rule %q", rule.name) {
			continue
		}
		assert.Equal(t, "Tata", rule.pattern.ReplaceAllString(sample, ""), rule.name)
	}
}
