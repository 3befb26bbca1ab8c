package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"campwild/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeocode_UsesFirstResult(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"results": [
				{
					"formatted_address": "Yosemite National Park, CA",
					"geometry": {"location": {"lat": 37.87, "lng": -119.54}}
				},
				{
					"formatted_address": "Yosemite Village, CA",
					"geometry": {"location": {"lat": 37.75, "lng": -119.59}}
				}
			]
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key")
	res, err := client.Geocode(context.Background(), "Yosemite")
	require.NoError(t, err)

	assert.Equal(t, 37.87, res.Lat)
	assert.Equal(t, -119.54, res.Lng)
	assert.Equal(t, "Yosemite National Park, CA", res.FormattedAddress)
	assert.Contains(t, gotQuery, "address=Yosemite")
	assert.Contains(t, gotQuery, "key=test-key")
}

func TestGeocode_EmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	_, err := client.Geocode(context.Background(), "nowhere at all")
	require.Error(t, err)
	assert.True(t, models.IsCode(err, "GEOCODE_ERROR"))
}

func TestGeocode_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	_, err := client.Geocode(context.Background(), "Yosemite")
	require.Error(t, err)
	assert.True(t, models.IsCode(err, "GEOCODE_ERROR"))
}

func TestGeocode_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	_, err := client.Geocode(context.Background(), "Yosemite")
	require.Error(t, err)
	assert.True(t, models.IsCode(err, "GEOCODE_ERROR"))
}
