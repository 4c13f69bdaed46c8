package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ukydev/city-directory/internal/geo"
	"github.com/ukydev/city-directory/internal/models"
)

// Validators for admin writes. Each may normalize the document in place.

func validateOptionalCoordinate(lat, lng *float64) error {
	if lat == nil && lng == nil {
		return nil
	}
	if lat == nil || lng == nil {
		return errors.New("lat and lng must be set together")
	}
	if c := (geo.Coordinate{Lat: *lat, Lng: *lng}); !c.Valid() {
		return fmt.Errorf("coordinate out of range: %s", c)
	}
	return nil
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

func normalizeSlug(slug, fallback string) string {
	s := strings.TrimSpace(slug)
	if s == "" {
		s = fallback
	}
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}), "-")
}

func validateBusiness(b *models.Business) error {
	if err := required("name", b.Name); err != nil {
		return err
	}
	b.Slug = normalizeSlug(b.Slug, b.Name)
	if b.Rating < 0 || b.Rating > 5 {
		return errors.New("rating must be between 0 and 5")
	}
	return validateOptionalCoordinate(b.Lat, b.Lng)
}

func validateBanner(b *models.Banner) error {
	if strings.TrimSpace(b.ImageURL) == "" && strings.TrimSpace(b.Title) == "" {
		return errors.New("image_url or title is required")
	}
	if b.Placement == "" {
		b.Placement = models.PlacementHome
	}
	if !models.IsValidPlacement(b.Placement) {
		return fmt.Errorf("invalid placement %q", b.Placement)
	}
	if b.StartsAt != nil && b.EndsAt != nil && b.EndsAt.Before(*b.StartsAt) {
		return errors.New("ends_at is before starts_at")
	}
	return validateOptionalCoordinate(b.Lat, b.Lng)
}

func validateCategory(c *models.Category) error {
	if err := required("name", c.Name); err != nil {
		return err
	}
	c.Slug = normalizeSlug(c.Slug, c.Name)
	return nil
}

func validateOffer(o *models.Offer) error {
	if err := required("business_id", o.BusinessID); err != nil {
		return err
	}
	if err := required("title", o.Title); err != nil {
		return err
	}
	if o.DiscountPercent < 0 || o.DiscountPercent > 100 {
		return errors.New("discount_percent must be between 0 and 100")
	}
	if !o.ValidUntil.IsZero() && o.ValidUntil.Before(o.ValidFrom) {
		return errors.New("valid_until is before valid_from")
	}
	return nil
}

func validatePage(p *models.Page) error {
	if err := required("title", p.Title); err != nil {
		return err
	}
	p.Slug = normalizeSlug(p.Slug, p.Title)
	return nil
}

func validateLocation(l *models.Location) error {
	if err := required("name", l.Name); err != nil {
		return err
	}
	l.Slug = normalizeSlug(l.Slug, l.Name)
	if !l.Center.Valid() {
		return fmt.Errorf("center out of range: %s", l.Center)
	}
	return nil
}

func validateReferenceShop(s *models.ReferenceShop) error {
	s.Name = strings.TrimSpace(s.Name)
	if err := required("name", s.Name); err != nil {
		return err
	}
	if c := (geo.Coordinate{Lat: s.Lat, Lng: s.Lng}); !c.Valid() {
		return fmt.Errorf("coordinate out of range: %s", c)
	}
	return nil
}
