package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/ukydev/city-directory/internal/db"
)

// ContentHandler serves the read-only storefront collections.
type ContentHandler struct {
	categories db.CategoryCollection
	offers     db.OfferCollection
	pages      db.PageCollection
	locations  db.LocationCollection
	now        func() time.Time
}

// NewContentHandler creates a new content handler
func NewContentHandler(categories db.CategoryCollection, offers db.OfferCollection, pages db.PageCollection, locations db.LocationCollection) *ContentHandler {
	return &ContentHandler{
		categories: categories,
		offers:     offers,
		pages:      pages,
		locations:  locations,
		now:        time.Now,
	}
}

func (h *ContentHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.ListCategories(r.Context())
	if err != nil {
		writeStoreError(w, r, err, "category")
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *ContentHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := h.categories.FindBySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		writeStoreError(w, r, err, "category")
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// ListOffers returns every offer valid right now.
func (h *ContentHandler) ListOffers(w http.ResponseWriter, r *http.Request) {
	offers, err := h.offers.ActiveOffers(r.Context(), "", h.now())
	if err != nil {
		writeStoreError(w, r, err, "offer")
		return
	}
	writeJSON(w, http.StatusOK, offers)
}

// GetPage returns a published page. Drafts are reported as missing.
func (h *ContentHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.pages.FindBySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		writeStoreError(w, r, err, "page")
		return
	}
	if !page.Published {
		http.Error(w, "page not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *ContentHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.locations.ActiveLocations(r.Context())
	if err != nil {
		writeStoreError(w, r, err, "location")
		return
	}
	writeJSON(w, http.StatusOK, locations)
}
