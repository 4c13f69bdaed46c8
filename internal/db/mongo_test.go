package db

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/city-directory/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestConnectMongo_BadURI(t *testing.T) {
	client, err := ConnectMongo(context.Background(), "mongodb://bad:uri")
	if err == nil {
		t.Error("expected error for bad URI, got nil")
	}
	if client != nil {
		t.Error("expected nil client on error")
	}
}

func TestMongoRepository_NilCollection(t *testing.T) {
	repo := &MongoRepository[models.Business]{}
	ctx := context.Background()

	_, err := repo.Insert(ctx, models.Business{})
	assert.ErrorIs(t, err, ErrNilCollection)
	_, err = repo.Find(ctx, nil)
	assert.ErrorIs(t, err, ErrNilCollection)
	_, err = repo.FindBySlug(ctx, "x")
	assert.ErrorIs(t, err, ErrNilCollection)
	assert.ErrorIs(t, repo.Update(ctx, primitive.NewObjectID().Hex(), models.Business{}), ErrNilCollection)
	assert.ErrorIs(t, repo.Delete(ctx, primitive.NewObjectID().Hex()), ErrNilCollection)
}

func TestParseID(t *testing.T) {
	id := primitive.NewObjectID()
	parsed, err := parseID(id.Hex())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = parseID("not-an-id")
	assert.True(t, errors.Is(err, ErrInvalidID))
}

func TestSetDocument_DropsIdentityFields(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	b := models.Business{ID: primitive.NewObjectID(), Name: "Swiggy", Active: true}
	b.CreatedAt = now.Add(-time.Hour)

	set, err := setDocument(b, now)
	require.NoError(t, err)
	assert.NotContains(t, set, "_id")
	assert.NotContains(t, set, "created_at")
	assert.NotContains(t, set, "lat")
	assert.Equal(t, "Swiggy", set["name"])
	assert.Equal(t, true, set["active"])
	assert.Equal(t, now, set["updated_at"])
}

func TestUpdateDocument_UnsetsClearedOptionalFields(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("business without coordinates", func(t *testing.T) {
		update, err := updateDocument(models.Business{Name: "Swiggy", ImageURL: "Swiggy-logo.jpg"}, now)
		require.NoError(t, err)

		set := update["$set"].(bson.M)
		assert.NotContains(t, set, "lat")
		assert.NotContains(t, set, "lng")
		assert.Equal(t, bson.M{"lat": "", "lng": ""}, update["$unset"])
	})

	t.Run("business with coordinates", func(t *testing.T) {
		lat, lng := 25.6, 85.1
		update, err := updateDocument(models.Business{Name: "Swiggy", Lat: &lat, Lng: &lng}, now)
		require.NoError(t, err)

		set := update["$set"].(bson.M)
		assert.Equal(t, 25.6, set["lat"])
		assert.NotContains(t, update, "$unset")
	})

	t.Run("banner schedule cleared", func(t *testing.T) {
		lat, lng := 25.6, 85.1
		update, err := updateDocument(&models.Banner{Title: "Sale", Lat: &lat, Lng: &lng}, now)
		require.NoError(t, err)
		assert.Equal(t, bson.M{"starts_at": "", "ends_at": ""}, update["$unset"])
	})

	t.Run("category parent cleared", func(t *testing.T) {
		update, err := updateDocument(models.Category{Name: "Food"}, now)
		require.NoError(t, err)
		assert.Equal(t, bson.M{"parent_id": ""}, update["$unset"])
	})
}

// Integration test (requires running MongoDB)
func TestMongoRepository_Integration(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set, skipping integration test")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	client, err := ConnectMongo(ctx, uri)
	if err != nil {
		t.Skipf("failed to connect: %v, skipping integration test", err)
	}
	defer client.Disconnect(context.Background())

	database := client.Database("test_citydirectory")
	collection := database.Collection(BusinessesCollection)
	collection.Drop(ctx)
	require.NoError(t, EnsureIndexes(ctx, database))

	businesses := &MongoBusinessCollection{NewMongoRepository[models.Business](collection)}

	lat, lng := 25.61, 85.14
	id, err := businesses.Insert(ctx, models.Business{
		Name: "Patna Sweets", Slug: "patna-sweets", City: "Patna", Active: true,
		Tags: []string{"sweets", "bakery"}, Lat: &lat, Lng: &lng,
	})
	require.NoError(t, err)
	_, err = businesses.Insert(ctx, models.Business{Name: "Ranchi Tyres", Slug: "ranchi-tyres", City: "Ranchi", Active: true})
	require.NoError(t, err)

	found, err := businesses.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Patna Sweets", found.Name)
	assert.False(t, found.CreatedAt.IsZero())

	list, err := businesses.FindBusinesses(ctx, BusinessFilter{City: "patna", Query: "bakery", ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "patna-sweets", list[0].Slug)

	found.Description = "Since 1952"
	require.NoError(t, businesses.Update(ctx, id, *found))
	updated, err := businesses.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Since 1952", updated.Description)
	assert.WithinDuration(t, found.CreatedAt, updated.CreatedAt, time.Second)

	updated.Lat, updated.Lng = nil, nil
	require.NoError(t, businesses.Update(ctx, id, *updated))
	cleared, err := businesses.FindByID(ctx, id)
	require.NoError(t, err)
	_, located := cleared.DirectCoordinate()
	assert.False(t, located)

	require.NoError(t, businesses.Delete(ctx, id))
	_, err = businesses.FindByID(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, businesses.Delete(ctx, id), ErrNotFound)

	var count int64
	count, err = collection.CountDocuments(ctx, bson.M{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
