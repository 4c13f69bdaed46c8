package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/city-directory/internal/auth"
	"github.com/ukydev/city-directory/internal/db"
	"github.com/ukydev/city-directory/internal/events"
	"github.com/ukydev/city-directory/internal/middleware"
	"github.com/ukydev/city-directory/internal/models"
)

// ReferenceCache is the full reference table cache contract the router needs.
type ReferenceCache interface {
	ReferenceTable
	ReferenceReloader
}

// Deps carries everything the router wires together.
type Deps struct {
	Businesses     db.BusinessCollection
	Banners        db.BannerCollection
	Categories     db.CategoryCollection
	Offers         db.OfferCollection
	Pages          db.PageCollection
	Locations      db.LocationCollection
	Messages       db.MessageCollection
	ReferenceShops db.ReferenceShopCollection

	References ReferenceCache
	Resolver   LocationResolver
	Auth       *auth.Service
	Bus        events.Bus
	InstanceID string

	NearbyRadiusKm  float64
	TravelSpeedKmh  float64
	RateLimitMax    int
	RateLimitWindow time.Duration
	// TrustProxyHeaders keys rate limits by X-Forwarded-For. Enable only
	// behind a proxy that sets it.
	TrustProxyHeaders bool

	// Health reports whether backing services are reachable. Optional.
	Health func(ctx context.Context) error
}

// NewRouter builds the API router.
func NewRouter(d Deps) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Recover, middleware.RequestID, middleware.Observe)

	r.HandleFunc("/health", healthHandler(d.Health)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	directory := NewDirectoryHandler(d.Businesses, d.Banners, d.Offers, d.References, d.Resolver, d.NearbyRadiusKm, d.TravelSpeedKmh)
	content := NewContentHandler(d.Categories, d.Offers, d.Pages, d.Locations)
	messages := NewMessageHandler(d.Messages)
	rateLimiter := middleware.NewRateLimitMiddleware(d.TrustProxyHeaders)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/location/resolve", directory.ResolveLocation).Methods(http.MethodGet)
	api.HandleFunc("/businesses", directory.ListBusinesses).Methods(http.MethodGet)
	api.HandleFunc("/businesses/nearby", directory.NearbyBusinesses).Methods(http.MethodGet)
	api.HandleFunc("/businesses/{id}", directory.GetBusiness).Methods(http.MethodGet)
	api.HandleFunc("/businesses/{id}/offers", directory.BusinessOffers).Methods(http.MethodGet)
	api.HandleFunc("/banners", directory.ListBanners).Methods(http.MethodGet)
	api.HandleFunc("/categories", content.ListCategories).Methods(http.MethodGet)
	api.HandleFunc("/categories/{slug}", content.GetCategory).Methods(http.MethodGet)
	api.HandleFunc("/offers", content.ListOffers).Methods(http.MethodGet)
	api.HandleFunc("/pages/{slug}", content.GetPage).Methods(http.MethodGet)
	api.HandleFunc("/locations", content.ListLocations).Methods(http.MethodGet)
	api.Handle("/messages", rateLimiter.RateLimit(d.RateLimitMax, d.RateLimitWindow)(http.HandlerFunc(messages.Create))).
		Methods(http.MethodPost)

	authMiddleware := middleware.NewAuthMiddleware(d.Auth)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(authMiddleware.Authenticate)

	notifier := NewChangeNotifier(d.Bus, d.References, d.InstanceID)
	section := func(path, action string) *mux.Router {
		sub := admin.PathPrefix(path).Subrouter()
		sub.Use(authMiddleware.RequirePermission(action))
		return sub
	}

	references := section("/reference-shops", models.ActionManageReference)
	references.HandleFunc("/reload", NewReferenceAdmin(d.References, notifier).Reload).Methods(http.MethodPost)
	NewResourceHandler[models.ReferenceShop]("reference shop", db.ReferenceShopsCollection, d.ReferenceShops, validateReferenceShop, notifier).
		Register(references)

	NewResourceHandler[models.Business]("business", db.BusinessesCollection, d.Businesses, validateBusiness, notifier).
		Register(section("/businesses", models.ActionManageListings))
	NewResourceHandler[models.Offer]("offer", db.OffersCollection, d.Offers, validateOffer, notifier).
		Register(section("/offers", models.ActionManageListings))
	NewResourceHandler[models.Banner]("banner", db.BannersCollection, d.Banners, validateBanner, notifier).
		Register(section("/banners", models.ActionManageBanners))
	NewResourceHandler[models.Category]("category", db.CategoriesCollection, d.Categories, validateCategory, notifier).
		Register(section("/categories", models.ActionManageContent))
	NewResourceHandler[models.Page]("page", db.PagesCollection, d.Pages, validatePage, notifier).
		Register(section("/pages", models.ActionManageContent))
	NewResourceHandler[models.Location]("location", db.LocationsCollection, d.Locations, validateLocation, notifier).
		Register(section("/locations", models.ActionManageContent))

	inbox := admin.PathPrefix("/messages").Subrouter()
	inbox.Handle("", authMiddleware.RequirePermission(models.ActionViewMessages)(http.HandlerFunc(messages.Inbox))).
		Methods(http.MethodGet)
	inbox.Handle("/{id}/read", authMiddleware.RequirePermission(models.ActionManageMessages)(http.HandlerFunc(messages.MarkRead))).
		Methods(http.MethodPut)
	inbox.Handle("/{id}", authMiddleware.RequirePermission(models.ActionManageMessages)(http.HandlerFunc(messages.Delete))).
		Methods(http.MethodDelete)

	return r
}

// InvalidateOnRemoteChange subscribes cache to reference shop events from
// other instances. Events from self are skipped since writes invalidate
// locally already.
func InvalidateOnRemoteChange(bus events.Bus, cache ReferenceReloader, self string) error {
	return bus.Subscribe(events.OnCollection(db.ReferenceShopsCollection, func(e events.Event) {
		if e.Source == self {
			return
		}
		log.WithFields(log.Fields{"type": e.Type, "id": e.ID, "source": e.Source}).Info("Reference table changed elsewhere, invalidating")
		cache.Invalidate()
	}))
}

func healthHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				log.WithError(err).Warn("Health check failed")
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
