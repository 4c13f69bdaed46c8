package db

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/ukydev/city-directory/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	BusinessesCollection     = "businesses"
	BannersCollection        = "banners"
	CategoriesCollection     = "categories"
	OffersCollection         = "offers"
	PagesCollection          = "pages"
	LocationsCollection      = "locations"
	MessagesCollection       = "messages"
	ReferenceShopsCollection = "reference_shops"
)

// Collections bundles the stores for one database.
type Collections struct {
	Businesses     *MongoBusinessCollection
	Banners        *MongoBannerCollection
	Categories     *MongoCategoryCollection
	Offers         *MongoOfferCollection
	Pages          *MongoPageCollection
	Locations      *MongoLocationCollection
	Messages       *MongoMessageCollection
	ReferenceShops *MongoReferenceShopCollection
}

// NewCollections wires a store for every collection in database.
func NewCollections(database *mongo.Database) *Collections {
	return &Collections{
		Businesses:     &MongoBusinessCollection{NewMongoRepository[models.Business](database.Collection(BusinessesCollection))},
		Banners:        &MongoBannerCollection{NewMongoRepository[models.Banner](database.Collection(BannersCollection))},
		Categories:     &MongoCategoryCollection{NewMongoRepository[models.Category](database.Collection(CategoriesCollection))},
		Offers:         &MongoOfferCollection{NewMongoRepository[models.Offer](database.Collection(OffersCollection))},
		Pages:          &MongoPageCollection{NewMongoRepository[models.Page](database.Collection(PagesCollection))},
		Locations:      &MongoLocationCollection{NewMongoRepository[models.Location](database.Collection(LocationsCollection))},
		Messages:       &MongoMessageCollection{NewMongoRepository[models.Message](database.Collection(MessagesCollection))},
		ReferenceShops: &MongoReferenceShopCollection{NewMongoRepository[models.ReferenceShop](database.Collection(ReferenceShopsCollection))},
	}
}

// BusinessFilter narrows a listing query. Zero values are ignored.
type BusinessFilter struct {
	CategoryID string
	City       string
	Query      string
	Featured   *bool
	ActiveOnly bool
	Limit      int64
}

// BSON renders the filter as a MongoDB query document.
func (f BusinessFilter) BSON() bson.M {
	filter := bson.M{}
	if f.CategoryID != "" {
		filter["category_id"] = f.CategoryID
	}
	if f.City != "" {
		filter["city"] = caseInsensitive(f.City, true)
	}
	if f.Featured != nil {
		filter["featured"] = *f.Featured
	}
	if f.ActiveOnly {
		filter["active"] = true
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		pattern := caseInsensitive(q, false)
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
			bson.M{"tags": pattern},
		}
	}
	return filter
}

// Options sorts featured and higher-rated listings first.
func (f BusinessFilter) Options() *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: "featured", Value: -1}, {Key: "rating", Value: -1}, {Key: "name", Value: 1}})
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}
	return opts
}

func caseInsensitive(value string, anchored bool) primitive.Regex {
	pattern := regexp.QuoteMeta(value)
	if anchored {
		pattern = "^" + pattern + "$"
	}
	return primitive.Regex{Pattern: pattern, Options: "i"}
}

// MongoBusinessCollection implements BusinessCollection for MongoDB.
type MongoBusinessCollection struct {
	*MongoRepository[models.Business]
}

// FindBusinesses lists businesses matching filter.
func (c *MongoBusinessCollection) FindBusinesses(ctx context.Context, filter BusinessFilter) ([]models.Business, error) {
	return c.Find(ctx, filter.BSON(), filter.Options())
}

// MongoBannerCollection implements BannerCollection for MongoDB.
type MongoBannerCollection struct {
	*MongoRepository[models.Banner]
}

// LiveBanners returns active, in-schedule banners, highest priority first.
// Banners without a city are shown everywhere.
func (c *MongoBannerCollection) LiveBanners(ctx context.Context, placement, city string, now time.Time) ([]models.Banner, error) {
	opts := options.Find().SetSort(bson.D{{Key: "priority", Value: -1}, {Key: "created_at", Value: -1}})
	return c.Find(ctx, liveBannerFilter(placement, city, now), opts)
}

func liveBannerFilter(placement, city string, now time.Time) bson.M {
	and := bson.A{
		bson.M{"$or": bson.A{bson.M{"starts_at": bson.M{"$exists": false}}, bson.M{"starts_at": nil}, bson.M{"starts_at": bson.M{"$lte": now}}}},
		bson.M{"$or": bson.A{bson.M{"ends_at": bson.M{"$exists": false}}, bson.M{"ends_at": nil}, bson.M{"ends_at": bson.M{"$gte": now}}}},
	}
	if city != "" {
		and = append(and, bson.M{"$or": bson.A{bson.M{"city": ""}, bson.M{"city": caseInsensitive(city, true)}}})
	}
	filter := bson.M{"active": true, "$and": and}
	if placement != "" {
		filter["placement"] = placement
	}
	return filter
}

// MongoCategoryCollection implements CategoryCollection for MongoDB.
type MongoCategoryCollection struct {
	*MongoRepository[models.Category]
}

// ListCategories returns categories in display order.
func (c *MongoCategoryCollection) ListCategories(ctx context.Context) ([]models.Category, error) {
	return c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "sort_order", Value: 1}, {Key: "name", Value: 1}}))
}

// MongoOfferCollection implements OfferCollection for MongoDB.
type MongoOfferCollection struct {
	*MongoRepository[models.Offer]
}

// ActiveOffers returns offers redeemable at now, optionally for one business.
func (c *MongoOfferCollection) ActiveOffers(ctx context.Context, businessID string, now time.Time) ([]models.Offer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "valid_until", Value: 1}})
	return c.Find(ctx, activeOfferFilter(businessID, now), opts)
}

func activeOfferFilter(businessID string, now time.Time) bson.M {
	filter := bson.M{
		"active":     true,
		"valid_from": bson.M{"$lte": now},
		"$or": bson.A{
			bson.M{"valid_until": time.Time{}},
			bson.M{"valid_until": bson.M{"$gte": now}},
		},
	}
	if businessID != "" {
		filter["business_id"] = businessID
	}
	return filter
}

// MongoPageCollection implements PageCollection for MongoDB.
type MongoPageCollection struct {
	*MongoRepository[models.Page]
}

// MongoLocationCollection implements LocationCollection for MongoDB.
type MongoLocationCollection struct {
	*MongoRepository[models.Location]
}

// FindLocation looks a city up by slug, then by case-insensitive name.
func (c *MongoLocationCollection) FindLocation(ctx context.Context, key string) (*models.Location, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrNotFound
	}
	return c.FindOne(ctx, bson.M{"$or": bson.A{
		bson.M{"slug": strings.ToLower(key)},
		bson.M{"name": caseInsensitive(key, true)},
	}})
}

// ActiveLocations lists served cities by name.
func (c *MongoLocationCollection) ActiveLocations(ctx context.Context) ([]models.Location, error) {
	return c.Find(ctx, bson.M{"active": true}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

// MongoMessageCollection implements MessageCollection for MongoDB.
type MongoMessageCollection struct {
	*MongoRepository[models.Message]
}

// Inbox lists messages newest first.
func (c *MongoMessageCollection) Inbox(ctx context.Context, unreadOnly bool) ([]models.Message, error) {
	filter := bson.M{}
	if unreadOnly {
		filter["read"] = false
	}
	return c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

// MarkRead flags a message as read.
func (c *MongoMessageCollection) MarkRead(ctx context.Context, id string) error {
	if c.Collection == nil {
		return ErrNilCollection
	}
	objectID, err := parseID(id)
	if err != nil {
		return err
	}
	result, err := c.Collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"read": true, "updated_at": c.clock()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MongoReferenceShopCollection implements ReferenceShopCollection for MongoDB.
type MongoReferenceShopCollection struct {
	*MongoRepository[models.ReferenceShop]
}

// AllReferenceShops loads the whole reference table.
func (c *MongoReferenceShopCollection) AllReferenceShops(ctx context.Context) ([]models.ReferenceShop, error) {
	return c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}
