package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/city-directory/internal/db"
	"github.com/ukydev/city-directory/internal/geo"
	"github.com/ukydev/city-directory/internal/geocode"
	"github.com/ukydev/city-directory/internal/models"
	"github.com/ukydev/city-directory/internal/proximity"
)

// ReferenceTable supplies the reference shop table used to place entities
// that carry no coordinate.
type ReferenceTable interface {
	Get(ctx context.Context) ([]proximity.Reference, error)
}

// LocationResolver works out where the caller is.
type LocationResolver interface {
	Resolve(ctx context.Context, q geocode.Query) (geocode.Resolved, error)
}

// DirectoryHandler serves the location-aware listing endpoints.
type DirectoryHandler struct {
	businesses     db.BusinessCollection
	banners        db.BannerCollection
	offers         db.OfferCollection
	references     ReferenceTable
	resolver       LocationResolver
	nearbyRadiusKm float64
	speedKmh       float64
	now            func() time.Time
}

// NewDirectoryHandler creates a new directory handler
func NewDirectoryHandler(businesses db.BusinessCollection, banners db.BannerCollection, offers db.OfferCollection,
	references ReferenceTable, resolver LocationResolver, nearbyRadiusKm, speedKmh float64) *DirectoryHandler {
	return &DirectoryHandler{
		businesses:     businesses,
		banners:        banners,
		offers:         offers,
		references:     references,
		resolver:       resolver,
		nearbyRadiusKm: nearbyRadiusKm,
		speedKmh:       speedKmh,
		now:            time.Now,
	}
}

// locationQuery reads lat, lng and the named city parameter.
func locationQuery(r *http.Request, cityParam string) (geocode.Query, error) {
	lat, err := optionalFloat(r, "lat")
	if err != nil {
		return geocode.Query{}, err
	}
	lng, err := optionalFloat(r, "lng")
	if err != nil {
		return geocode.Query{}, err
	}
	return geocode.Query{Lat: lat, Lng: lng, City: r.URL.Query().Get(cityParam)}, nil
}

// locate resolves the caller's location for ranking. An unknown city or a
// resolver failure degrades to unranked output; a malformed coordinate is
// reported to the caller.
func (h *DirectoryHandler) locate(w http.ResponseWriter, r *http.Request, cityParam string) (geocode.Resolved, bool) {
	q, err := locationQuery(r, cityParam)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return geocode.Resolved{}, false
	}

	resolved, err := h.resolver.Resolve(r.Context(), q)
	switch {
	case err == nil:
		return resolved, true
	case errors.Is(err, geocode.ErrInvalidCoordinate):
		http.Error(w, "Coordinates out of range", http.StatusBadRequest)
		return geocode.Resolved{}, false
	case errors.Is(err, geocode.ErrUnknownCity):
		log.WithField("city", q.City).Debug("Ignoring unknown city preference")
	default:
		log.WithError(err).Warn("Location resolution failed, serving unranked")
	}
	return geocode.Resolved{Source: geocode.SourceNone}, true
}

// referenceTable loads the reference table only when there is a location
// to rank against. Failures degrade to direct coordinates only.
func (h *DirectoryHandler) referenceTable(ctx context.Context, loc geocode.Resolved) []proximity.Reference {
	if loc.Coordinate == nil {
		return nil
	}
	table, err := h.references.Get(ctx)
	if err != nil {
		log.WithError(err).Warn("Reference table unavailable, using direct coordinates only")
		return nil
	}
	return table
}

// ResolveLocation reports what location listings would be ranked against.
func (h *DirectoryHandler) ResolveLocation(w http.ResponseWriter, r *http.Request) {
	q, err := locationQuery(r, "city")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resolved, err := h.resolver.Resolve(r.Context(), q)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, resolved)
	case errors.Is(err, geocode.ErrInvalidCoordinate):
		http.Error(w, "Coordinates out of range", http.StatusBadRequest)
	case errors.Is(err, geocode.ErrUnknownCity):
		http.Error(w, "Location not found", http.StatusNotFound)
	default:
		log.WithError(err).Error("Failed to resolve location")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// ListBusinesses lists active businesses matching the filters, nearest first
// when the caller's location is known.
func (h *DirectoryHandler) ListBusinesses(w http.ResponseWriter, r *http.Request) {
	filter, err := businessFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	loc, ok := h.locate(w, r, "city_pref")
	if !ok {
		return
	}

	// With a location the limit applies to the nearest listings, so the
	// store returns everything and the ranked list is cut instead.
	limit := filter.Limit
	if loc.Coordinate != nil {
		filter.Limit = 0
	}

	businesses, err := h.businesses.FindBusinesses(r.Context(), filter)
	if err != nil {
		writeStoreError(w, r, err, "business")
		return
	}

	lat, lng := loc.LatLng()
	ranked := rankTimed("business", businesses, lat, lng, h.referenceTable(r.Context(), loc))
	if limit > 0 && int64(len(ranked)) > limit {
		ranked = ranked[:limit]
	}
	writeJSON(w, http.StatusOK, RankedResponse[models.Business]{Location: loc, Items: present(ranked, h.speedKmh)})
}

// NearbyBusinesses returns located businesses within radius km of lat/lng.
func (h *DirectoryHandler) NearbyBusinesses(w http.ResponseWriter, r *http.Request) {
	lat, err := optionalFloat(r, "lat")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	lng, err := optionalFloat(r, "lng")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if lat == nil || lng == nil {
		http.Error(w, "lat and lng are required", http.StatusBadRequest)
		return
	}
	user := geo.Coordinate{Lat: *lat, Lng: *lng}
	if !user.Valid() {
		http.Error(w, "Coordinates out of range", http.StatusBadRequest)
		return
	}

	radius := h.nearbyRadiusKm
	if v, err := optionalFloat(r, "radius"); err != nil || (v != nil && *v <= 0) {
		http.Error(w, "invalid radius", http.StatusBadRequest)
		return
	} else if v != nil {
		radius = *v
	}

	businesses, err := h.businesses.FindBusinesses(r.Context(), db.BusinessFilter{
		CategoryID: r.URL.Query().Get("category"),
		ActiveOnly: true,
	})
	if err != nil {
		writeStoreError(w, r, err, "business")
		return
	}

	loc := geocode.Resolved{Coordinate: &user, Source: geocode.SourceGeolocation}
	ranked := rankTimed("business", businesses, lat, lng, h.referenceTable(r.Context(), loc))
	nearby := proximity.FilterByRadius(ranked, radius)

	writeJSON(w, http.StatusOK, struct {
		RadiusKm float64                       `json:"radius_km"`
		Items    []RankedItem[models.Business] `json:"items"`
	}{RadiusKm: radius, Items: present(nearby, h.speedKmh)})
}

// GetBusiness returns a single business.
func (h *DirectoryHandler) GetBusiness(w http.ResponseWriter, r *http.Request) {
	business, err := h.businesses.FindByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeStoreError(w, r, err, "business")
		return
	}
	writeJSON(w, http.StatusOK, business)
}

// BusinessOffers returns the offers currently valid for a business.
func (h *DirectoryHandler) BusinessOffers(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := h.businesses.FindByID(r.Context(), id); err != nil {
		writeStoreError(w, r, err, "business")
		return
	}

	offers, err := h.offers.ActiveOffers(r.Context(), id, h.now())
	if err != nil {
		writeStoreError(w, r, err, "offer")
		return
	}
	writeJSON(w, http.StatusOK, offers)
}

// ListBanners returns live banners for a placement, nearest first when the
// caller's location is known. Banners are never dropped for distance.
func (h *DirectoryHandler) ListBanners(w http.ResponseWriter, r *http.Request) {
	placement := strings.TrimSpace(r.URL.Query().Get("placement"))
	if placement != "" && !models.IsValidPlacement(placement) {
		http.Error(w, "Invalid placement", http.StatusBadRequest)
		return
	}

	loc, ok := h.locate(w, r, "city")
	if !ok {
		return
	}

	banners, err := h.banners.LiveBanners(r.Context(), placement, r.URL.Query().Get("city"), h.now())
	if err != nil {
		writeStoreError(w, r, err, "banner")
		return
	}

	lat, lng := loc.LatLng()
	ranked := rankTimed("banner", banners, lat, lng, h.referenceTable(r.Context(), loc))
	writeJSON(w, http.StatusOK, RankedResponse[models.Banner]{Location: loc, Items: present(ranked, h.speedKmh)})
}

func businessFilter(r *http.Request) (db.BusinessFilter, error) {
	q := r.URL.Query()
	featured, err := optionalBool(r, "featured")
	if err != nil {
		return db.BusinessFilter{}, err
	}
	limit, err := optionalInt(r, "limit")
	if err != nil {
		return db.BusinessFilter{}, err
	}
	return db.BusinessFilter{
		CategoryID: q.Get("category"),
		City:       q.Get("city"),
		Query:      q.Get("q"),
		Featured:   featured,
		ActiveOnly: true,
		Limit:      limit,
	}, nil
}
