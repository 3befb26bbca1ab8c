// Package geocode resolves free-text addresses to coordinates through an
// external geocoding provider.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"campwild/models"
)

// Result is the resolved location for an address.
type Result struct {
	Lat              float64
	Lng              float64
	FormattedAddress string
}

// Geocoder converts a free-text location string to coordinates and a
// canonical address.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (Result, error)
}

// Client calls a Google-shaped geocoding JSON API. Only the first result is
// ever used; there is no disambiguation and no retry.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

func (c *Client) Geocode(ctx context.Context, address string) (Result, error) {
	q := url.Values{}
	q.Set("address", address)
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return Result{}, models.NewGeocodeError("Could not geocode location", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, models.NewGeocodeError("Geocoding provider unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, models.NewGeocodeError("Geocoding provider error",
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Result{}, models.NewGeocodeError("Invalid geocoding response", err)
	}

	if len(body.Results) == 0 {
		return Result{}, models.NewGeocodeError("Address not found", nil)
	}

	// First-match policy: results beyond the first are ignored.
	first := body.Results[0]
	return Result{
		Lat:              first.Geometry.Location.Lat,
		Lng:              first.Geometry.Location.Lng,
		FormattedAddress: first.FormattedAddress,
	}, nil
}
