// Package geocode resolves where a user is: from browser coordinates, a saved
// city preference, or reverse geocoding.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

var ErrNoResult = errors.New("no geocode result")

// ReverseGeocoder maps a coordinate to a city-level place name.
type ReverseGeocoder interface {
	Reverse(ctx context.Context, lat, lng float64) (string, error)
}

// NominatimClient calls an OpenStreetMap Nominatim compatible /reverse endpoint.
type NominatimClient struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewNominatimClient creates a client for baseURL, e.g. https://nominatim.openstreetmap.org.
func NewNominatimClient(baseURL, userAgent string, timeout time.Duration) *NominatimClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &NominatimClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
	}
}

type reverseResponse struct {
	Address struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		County  string `json:"county"`
	} `json:"address"`
	Error string `json:"error"`
}

// Reverse returns the city, town, village or county containing the point.
func (n *NominatimClient) Reverse(ctx context.Context, lat, lng float64) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/reverse", nil)
	if err != nil {
		return "", fmt.Errorf("build reverse request: %w", err)
	}
	q := req.URL.Query()
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(lat, 'f', 6, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', 6, 64))
	q.Set("zoom", "10")
	q.Set("addressdetails", "1")
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")
	if n.userAgent != "" {
		req.Header.Set("User-Agent", n.userAgent)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute reverse request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var decoded reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode reverse response: %w", err)
	}
	if decoded.Error != "" {
		return "", fmt.Errorf("%w: %s", ErrNoResult, decoded.Error)
	}

	for _, name := range []string{decoded.Address.City, decoded.Address.Town, decoded.Address.Village, decoded.Address.County} {
		if name = strings.TrimSpace(name); name != "" {
			return name, nil
		}
	}
	return "", ErrNoResult
}
