package handlers

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/ukydev/city-directory/internal/db"
	"github.com/ukydev/city-directory/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MockRepository is a mock implementation of db.SlugRepository for any document type
type MockRepository[T any] struct {
	mock.Mock
}

func (m *MockRepository[T]) Insert(ctx context.Context, doc T) (string, error) {
	args := m.Called(ctx, doc)
	return args.String(0), args.Error(1)
}

func (m *MockRepository[T]) FindByID(ctx context.Context, id string) (*T, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockRepository[T]) FindBySlug(ctx context.Context, slug string) (*T, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockRepository[T]) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]T, error) {
	args := m.Called(ctx, filter, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockRepository[T]) Update(ctx context.Context, id string, doc T) error {
	args := m.Called(ctx, id, doc)
	return args.Error(0)
}

func (m *MockRepository[T]) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockBusinessCollection struct {
	MockRepository[models.Business]
}

func (m *MockBusinessCollection) FindBusinesses(ctx context.Context, filter db.BusinessFilter) ([]models.Business, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Business), args.Error(1)
}

type MockBannerCollection struct {
	MockRepository[models.Banner]
}

func (m *MockBannerCollection) LiveBanners(ctx context.Context, placement, city string, now time.Time) ([]models.Banner, error) {
	args := m.Called(ctx, placement, city, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Banner), args.Error(1)
}

type MockCategoryCollection struct {
	MockRepository[models.Category]
}

func (m *MockCategoryCollection) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

type MockOfferCollection struct {
	MockRepository[models.Offer]
}

func (m *MockOfferCollection) ActiveOffers(ctx context.Context, businessID string, now time.Time) ([]models.Offer, error) {
	args := m.Called(ctx, businessID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Offer), args.Error(1)
}

type MockPageCollection struct {
	MockRepository[models.Page]
}

type MockLocationCollection struct {
	MockRepository[models.Location]
}

func (m *MockLocationCollection) FindLocation(ctx context.Context, key string) (*models.Location, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Location), args.Error(1)
}

func (m *MockLocationCollection) ActiveLocations(ctx context.Context) ([]models.Location, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Location), args.Error(1)
}

type MockMessageCollection struct {
	MockRepository[models.Message]
}

func (m *MockMessageCollection) Inbox(ctx context.Context, unreadOnly bool) ([]models.Message, error) {
	args := m.Called(ctx, unreadOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockMessageCollection) MarkRead(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockReferenceShopCollection struct {
	MockRepository[models.ReferenceShop]
}

func (m *MockReferenceShopCollection) AllReferenceShops(ctx context.Context) ([]models.ReferenceShop, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReferenceShop), args.Error(1)
}

var (
	_ db.BusinessCollection      = (*MockBusinessCollection)(nil)
	_ db.BannerCollection        = (*MockBannerCollection)(nil)
	_ db.CategoryCollection      = (*MockCategoryCollection)(nil)
	_ db.OfferCollection         = (*MockOfferCollection)(nil)
	_ db.PageCollection          = (*MockPageCollection)(nil)
	_ db.LocationCollection      = (*MockLocationCollection)(nil)
	_ db.MessageCollection       = (*MockMessageCollection)(nil)
	_ db.ReferenceShopCollection = (*MockReferenceShopCollection)(nil)
)
