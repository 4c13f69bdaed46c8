package db

import (
	"context"
	"time"

	"github.com/ukydev/city-directory/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository defines the CRUD operations shared by every collection.
type Repository[T any] interface {
	Insert(ctx context.Context, doc T) (string, error)
	FindByID(ctx context.Context, id string) (*T, error)
	Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]T, error)
	Update(ctx context.Context, id string, doc T) error
	Delete(ctx context.Context, id string) error
}

// SlugRepository adds lookup by slug.
type SlugRepository[T any] interface {
	Repository[T]
	FindBySlug(ctx context.Context, slug string) (*T, error)
}

// BusinessCollection defines the interface for business listing operations.
type BusinessCollection interface {
	Repository[models.Business]
	FindBusinesses(ctx context.Context, filter BusinessFilter) ([]models.Business, error)
}

// BannerCollection defines the interface for banner operations.
type BannerCollection interface {
	Repository[models.Banner]
	LiveBanners(ctx context.Context, placement, city string, now time.Time) ([]models.Banner, error)
}

// CategoryCollection defines the interface for category operations.
type CategoryCollection interface {
	SlugRepository[models.Category]
	ListCategories(ctx context.Context) ([]models.Category, error)
}

// OfferCollection defines the interface for offer operations.
type OfferCollection interface {
	Repository[models.Offer]
	ActiveOffers(ctx context.Context, businessID string, now time.Time) ([]models.Offer, error)
}

// PageCollection defines the interface for content page operations.
type PageCollection interface {
	SlugRepository[models.Page]
}

// LocationCollection defines the interface for city operations.
type LocationCollection interface {
	SlugRepository[models.Location]
	FindLocation(ctx context.Context, key string) (*models.Location, error)
	ActiveLocations(ctx context.Context) ([]models.Location, error)
}

// MessageCollection defines the interface for inbox operations.
type MessageCollection interface {
	Repository[models.Message]
	Inbox(ctx context.Context, unreadOnly bool) ([]models.Message, error)
	MarkRead(ctx context.Context, id string) error
}

// ReferenceShopCollection defines the interface for reference shop operations.
type ReferenceShopCollection interface {
	Repository[models.ReferenceShop]
	AllReferenceShops(ctx context.Context) ([]models.ReferenceShop, error)
}
