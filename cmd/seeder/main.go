// Command seeder fills a running directory API with demo data through the
// admin endpoints.
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/city-directory/internal/auth"
	"github.com/ukydev/city-directory/internal/config"
	"github.com/ukydev/city-directory/internal/geo"
	"github.com/ukydev/city-directory/internal/logging"
	"github.com/ukydev/city-directory/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type city struct {
	Name   string
	State  string
	Center geo.Coordinate
}

var cities = []city{
	{Name: "Patna", State: "Bihar", Center: geo.Coordinate{Lat: 25.5941, Lng: 85.1376}},
	{Name: "Gaya", State: "Bihar", Center: geo.Coordinate{Lat: 24.7914, Lng: 85.0002}},
	{Name: "Muzaffarpur", State: "Bihar", Center: geo.Coordinate{Lat: 26.1209, Lng: 85.3647}},
	{Name: "Bhagalpur", State: "Bihar", Center: geo.Coordinate{Lat: 25.2425, Lng: 86.9842}},
	{Name: "Ranchi", State: "Jharkhand", Center: geo.Coordinate{Lat: 23.3441, Lng: 85.3096}},
}

var categories = []string{"Food & Drink", "Pharmacy", "Banking", "Home Improvement", "Taxi", "Groceries"}

// brands are seeded as reference shops near Patna; listings using their
// logo but no coordinates get placed through them.
var brands = []struct {
	Name     string
	Logo     string
	Category string
	Offset   geo.Coordinate
}{
	{Name: "Swiggy", Logo: "Swiggy-logo.jpg", Category: "Food & Drink", Offset: geo.Coordinate{Lat: 0.012, Lng: 0.004}},
	{Name: "Zomato", Logo: "zomato-foods-new.png", Category: "Food & Drink", Offset: geo.Coordinate{Lat: -0.008, Lng: 0.015}},
	{Name: "HDFC", Logo: "hdfc-bank.png", Category: "Banking", Offset: geo.Coordinate{Lat: 0.02, Lng: -0.01}},
	{Name: "Asian", Logo: "asianpaint-2048x1153.jpg", Category: "Home Improvement", Offset: geo.Coordinate{Lat: -0.015, Lng: -0.02}},
	{Name: "Meru", Logo: "meru-cabs.png", Category: "Taxi", Offset: geo.Coordinate{Lat: 0.03, Lng: 0.03}},
	{Name: "Apollo Pharmacy", Logo: "Apollo Pharmacy (1).png", Category: "Pharmacy", Offset: geo.Coordinate{Lat: 0.005, Lng: -0.006}},
}

var shopWords = []string{"Corner", "Station", "Market", "Royal", "Ganga", "New", "Sai", "City"}
var shopKinds = map[string][]string{
	"Food & Drink":     {"Chai Point", "Dhaba", "Sweets", "Biryani House"},
	"Pharmacy":         {"Medicals", "Chemist"},
	"Banking":          {"Cooperative Bank", "Finance"},
	"Home Improvement": {"Hardware", "Paints"},
	"Taxi":             {"Travels", "Cabs"},
	"Groceries":        {"Kirana Store", "General Store", "Supermart"},
}

func jitterLocation(rng *rand.Rand, base geo.Coordinate, meters float64) geo.Coordinate {
	latMetersPerDeg := 111320.0
	lngMetersPerDeg := 111320.0 * math.Cos(base.Lat*math.Pi/180)
	dLat := (rng.Float64()*2 - 1) * (meters / latMetersPerDeg)
	dLng := (rng.Float64()*2 - 1) * (meters / lngMetersPerDeg)
	return geo.Coordinate{Lat: base.Lat + dLat, Lng: base.Lng + dLng}
}

type seeder struct {
	apiURL    string
	authToken string
	client    *http.Client
	rng       *rand.Rand
}

func (s *seeder) authorizedPost(path string, payload any) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}
	req, err := http.NewRequest(http.MethodPost, s.apiURL+path, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("POST %s failed with status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	id, ok := result["id"]
	if !ok || id == "" {
		return "", errors.New("invalid ID in response")
	}
	return id, nil
}

func (s *seeder) seedLocations() error {
	for _, c := range cities {
		if _, err := s.authorizedPost("/admin/locations", models.Location{
			Name: c.Name, State: c.State, Country: "India", Center: c.Center, Active: true,
		}); err != nil {
			return err
		}
	}
	log.WithField("count", len(cities)).Info("Seeded locations")
	return nil
}

func (s *seeder) seedCategories() (map[string]string, error) {
	ids := make(map[string]string, len(categories))
	for i, name := range categories {
		id, err := s.authorizedPost("/admin/categories", models.Category{Name: name, SortOrder: i})
		if err != nil {
			return nil, err
		}
		ids[name] = id
	}
	log.WithField("count", len(ids)).Info("Seeded categories")
	return ids, nil
}

func (s *seeder) seedReferenceShops() error {
	base := cities[0].Center
	for _, b := range brands {
		if _, err := s.authorizedPost("/admin/reference-shops", models.ReferenceShop{
			Name: b.Name,
			Lat:  base.Lat + b.Offset.Lat,
			Lng:  base.Lng + b.Offset.Lng,
		}); err != nil {
			return err
		}
	}
	log.WithField("count", len(brands)).Info("Seeded reference shops")
	return nil
}

// buildBusiness makes a listing near c. Every fourth listing is a brand
// outlet with only a logo, to exercise reference shop placement.
func (s *seeder) buildBusiness(c city, i int, categoryIDs map[string]string) models.Business {
	if i%4 == 3 {
		b := brands[s.rng.Intn(len(brands))]
		return models.Business{
			Name:       fmt.Sprintf("%s %s", b.Name, c.Name),
			Slug:       fmt.Sprintf("%s-%s-%d", b.Name, c.Name, i+1),
			CategoryID: categoryIDs[b.Category],
			City:       c.Name,
			ImageURL:   fmt.Sprintf("/uploads/%d-%s", time.Now().Unix(), b.Logo),
			Rating:     3.5 + s.rng.Float64()*1.5,
			Active:     true,
		}
	}

	category := categories[s.rng.Intn(len(categories))]
	kinds := shopKinds[category]
	name := fmt.Sprintf("%s %s %d", shopWords[s.rng.Intn(len(shopWords))], kinds[s.rng.Intn(len(kinds))], i+1)
	loc := jitterLocation(s.rng, c.Center, 4000)
	return models.Business{
		Name:        name,
		Slug:        fmt.Sprintf("%s-%s", name, c.Name),
		Description: fmt.Sprintf("%s in %s", kinds[0], c.Name),
		CategoryID:  categoryIDs[category],
		City:        c.Name,
		Phone:       "+91 " + strconv.Itoa(9000000000+s.rng.Intn(99999999)),
		Tags:        []string{strings.ToLower(category)},
		Rating:      math.Round((2.5+s.rng.Float64()*2.5)*10) / 10,
		Featured:    i == 0,
		Active:      true,
		Lat:         &loc.Lat,
		Lng:         &loc.Lng,
	}
}

func (s *seeder) seedBusinesses(perCity int, categoryIDs map[string]string) ([]string, error) {
	var ids []string
	for _, c := range cities {
		for i := 0; i < perCity; i++ {
			business := s.buildBusiness(c, i, categoryIDs)
			id, err := s.authorizedPost("/admin/businesses", business)
			if err != nil {
				return ids, err
			}
			ids = append(ids, id)
			log.WithFields(log.Fields{
				"business_id": id,
				"name":        business.Name,
				"city":        c.Name,
				"located":     business.Lat != nil,
			}).Debug("Created business")
		}
	}
	log.WithField("count", len(ids)).Info("Seeded businesses")
	return ids, nil
}

func (s *seeder) seedBanners() error {
	now := time.Now().UTC()
	end := now.AddDate(0, 1, 0)
	for i, b := range brands {
		banner := models.Banner{
			Title:     b.Name + " offers",
			ImageURL:  "/banners/" + b.Logo,
			LinkURL:   "/search?q=" + strings.ToLower(b.Name),
			Placement: []string{models.PlacementHome, models.PlacementSidebar}[i%2],
			Priority:  len(brands) - i,
			Active:    true,
			StartsAt:  &now,
			EndsAt:    &end,
		}
		if _, err := s.authorizedPost("/admin/banners", banner); err != nil {
			return err
		}
	}
	log.WithField("count", len(brands)).Info("Seeded banners")
	return nil
}

func (s *seeder) seedOffers(businessIDs []string) error {
	now := time.Now().UTC()
	for i, id := range businessIDs {
		if i%5 != 0 {
			continue
		}
		if _, err := s.authorizedPost("/admin/offers", models.Offer{
			BusinessID:      id,
			Title:           fmt.Sprintf("%d%% off this week", 5+s.rng.Intn(4)*5),
			DiscountPercent: float64(5 + s.rng.Intn(4)*5),
			ValidFrom:       now,
			ValidUntil:      now.AddDate(0, 0, 7),
			Active:          true,
		}); err != nil {
			return err
		}
	}
	return nil
}

// mintToken issues an admin token signed with the API's secret.
func mintToken(cfg config.Config) (string, error) {
	service, err := auth.NewService(cfg.JWTSecret, time.Hour)
	if err != nil {
		return "", err
	}
	return service.GenerateToken(&models.User{
		ID:       primitive.NewObjectID(),
		Username: "seeder",
		Role:     models.RoleAdmin,
		IsActive: true,
	})
}

func run(s *seeder, perCity int) error {
	if err := s.seedLocations(); err != nil {
		return err
	}
	categoryIDs, err := s.seedCategories()
	if err != nil {
		return err
	}
	if err := s.seedReferenceShops(); err != nil {
		return err
	}
	businessIDs, err := s.seedBusinesses(perCity, categoryIDs)
	if err != nil {
		return err
	}
	if err := s.seedOffers(businessIDs); err != nil {
		return err
	}
	return s.seedBanners()
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}
	logging.Configure(cfg.LogLevel, "text")

	token := os.Getenv("SEED_AUTH_TOKEN")
	if token == "" {
		token, err = mintToken(cfg)
		if err != nil {
			log.WithError(err).Fatal("Failed to mint admin token")
		}
	}

	apiURL := os.Getenv("API_BASE_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080/api"
	}

	perCity := 8
	if v := os.Getenv("SEED_BUSINESSES_PER_CITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			perCity = n
		}
	}

	seed := time.Now().UnixNano()
	if v := os.Getenv("SEED_RANDOM_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			seed = n
		}
	}

	log.WithFields(log.Fields{
		"api_url":  apiURL,
		"per_city": perCity,
		"seed":     seed,
	}).Info("Seeding directory")

	s := &seeder{
		apiURL:    strings.TrimRight(apiURL, "/"),
		authToken: token,
		client:    &http.Client{Timeout: 10 * time.Second},
		rng:       rand.New(rand.NewSource(seed)),
	}
	if err := run(s, perCity); err != nil {
		log.WithError(err).Fatal("Seeding failed")
	}
	log.Info("Seeding completed")
}
