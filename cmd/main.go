package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/city-directory/internal/auth"
	"github.com/ukydev/city-directory/internal/config"
	"github.com/ukydev/city-directory/internal/db"
	"github.com/ukydev/city-directory/internal/events"
	"github.com/ukydev/city-directory/internal/geocode"
	"github.com/ukydev/city-directory/internal/handlers"
	"github.com/ukydev/city-directory/internal/logging"
	"github.com/ukydev/city-directory/internal/refcache"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}
	logging.Configure(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.WithError(err).Fatal("Server exited with error")
	}
	log.Info("Server stopped")
}

func run(ctx context.Context, cfg config.Config) error {
	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	client, err := db.ConnectMongo(connectCtx, cfg.MongoURI)
	cancel()
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.WithError(err).Warn("Failed to disconnect from MongoDB")
		}
	}()
	log.WithField("database", cfg.MongoDB).Info("Connected to MongoDB")

	database := client.Database(cfg.MongoDB)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		return err
	}
	cols := db.NewCollections(database)

	authService, err := auth.NewService(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		return err
	}

	references := refcache.New(cols.ReferenceShops, cfg.ReferenceCacheTTL)
	if _, err := references.Load(ctx); err != nil {
		log.WithError(err).Warn("Initial reference table load failed; listings without coordinates stay unranked until it loads")
	}

	geocoder, closeGeocoder := newGeocoder(cfg)
	defer closeGeocoder()

	instanceID := newInstanceID(cfg.MQTTClientID)
	bus := newBus(cfg, instanceID)
	defer bus.Close()
	if err := handlers.InvalidateOnRemoteChange(bus, references, instanceID); err != nil {
		return err
	}

	router := handlers.NewRouter(handlers.Deps{
		Businesses:      cols.Businesses,
		Banners:         cols.Banners,
		Categories:      cols.Categories,
		Offers:          cols.Offers,
		Pages:           cols.Pages,
		Locations:       cols.Locations,
		Messages:        cols.Messages,
		ReferenceShops:  cols.ReferenceShops,
		References:      references,
		Resolver:        geocode.NewResolver(geocoder, cols.Locations),
		Auth:            authService,
		Bus:             bus,
		InstanceID:      instanceID,
		NearbyRadiusKm:  cfg.NearbyRadiusKm,
		TravelSpeedKmh:  cfg.TravelSpeedKmh,
		RateLimitMax:    cfg.RateLimitMax,
		RateLimitWindow: cfg.RateLimitWindow,

		TrustProxyHeaders: cfg.TrustProxyHeaders,
		Health: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
	})

	return serve(ctx, newServer(cfg, router), cfg.ShutdownTimeout)
}

func newServer(cfg config.Config, router *mux.Router) *http.Server {
	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

// serve runs srv until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// newGeocoder returns the Nominatim client, fronted by Redis when configured.
// The returned func releases the Redis connection.
func newGeocoder(cfg config.Config) (geocode.ReverseGeocoder, func()) {
	nominatim := geocode.NewNominatimClient(cfg.GeocodeURL, cfg.GeocodeUserAgent, 5*time.Second)
	if cfg.RedisAddr == "" {
		return nominatim, func() {}
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	log.WithField("addr", cfg.RedisAddr).Info("Caching reverse geocoding in Redis")
	return geocode.NewRedisCache(rdb, nominatim, cfg.GeocodeCacheTTL), func() {
		if err := rdb.Close(); err != nil {
			log.WithError(err).Warn("Failed to close Redis client")
		}
	}
}

// newBus connects to the MQTT broker when one is configured. Without a broker,
// or when it is unreachable, change events stay inside this process.
func newBus(cfg config.Config, clientID string) events.Bus {
	if cfg.MQTTBroker == "" {
		return events.NewLocalBus()
	}
	bus, err := events.NewMQTTBus(cfg.MQTTBroker, clientID, cfg.MQTTTopic)
	if err != nil {
		log.WithError(err).WithField("broker", cfg.MQTTBroker).Warn("MQTT unavailable, falling back to in-process events")
		return events.NewLocalBus()
	}
	log.WithFields(log.Fields{"broker": cfg.MQTTBroker, "topic": cfg.MQTTTopic}).Info("Publishing change events over MQTT")
	return bus
}

// newInstanceID suffixes prefix so replicas sharing a config stay distinct
// on the broker.
func newInstanceID(prefix string) string {
	suffix := uuid.NewString()[:8]
	if prefix == "" {
		return suffix
	}
	return prefix + "-" + suffix
}
