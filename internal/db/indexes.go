package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// indexSpecs lists the indexes each collection needs.
var indexSpecs = map[string][]mongo.IndexModel{
	BusinessesCollection: {
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		{Keys: bson.D{{Key: "city", Value: 1}, {Key: "category_id", Value: 1}}},
	},
	BannersCollection: {
		{Keys: bson.D{{Key: "placement", Value: 1}, {Key: "active", Value: 1}, {Key: "priority", Value: -1}}},
	},
	CategoriesCollection: {
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
	PagesCollection: {
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
	LocationsCollection: {
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
	OffersCollection: {
		{Keys: bson.D{{Key: "business_id", Value: 1}, {Key: "valid_until", Value: 1}}},
	},
	MessagesCollection: {
		{Keys: bson.D{{Key: "read", Value: 1}, {Key: "created_at", Value: -1}}},
	},
	ReferenceShopsCollection: {
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
}

// EnsureIndexes creates missing indexes. Existing indexes are left alone.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	for name, specs := range indexSpecs {
		if _, err := database.Collection(name).Indexes().CreateMany(ctx, specs); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}
