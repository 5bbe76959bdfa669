// Package geocoder resolves free-form addresses and zipcodes to coordinates.
package geocoder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Varun5711/devcamper/internal/models"
)

var ErrNoResults = errors.New("geocoder returned no results")

type Config struct {
	ProviderURL string
	APIKey      string
	Timeout     time.Duration
}

// MapQuest talks to the MapQuest geocoding v1 address endpoint.
type MapQuest struct {
	cfg    Config
	client *http.Client
}

func NewMapQuest(cfg Config) *MapQuest {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &MapQuest{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

type mapQuestResponse struct {
	Info struct {
		StatusCode int      `json:"statuscode"`
		Messages   []string `json:"messages"`
	} `json:"info"`
	Results []struct {
		Locations []struct {
			Street     string `json:"street"`
			City       string `json:"adminArea5"`
			State      string `json:"adminArea3"`
			Country    string `json:"adminArea1"`
			PostalCode string `json:"postalCode"`
			LatLng     struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"latLng"`
		} `json:"locations"`
	} `json:"results"`
}

func (g *MapQuest) Geocode(ctx context.Context, address string) (*models.Location, error) {
	q := url.Values{}
	q.Set("key", g.cfg.APIKey)
	q.Set("location", address)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.cfg.ProviderURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocode request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoder responded with status %d", resp.StatusCode)
	}

	var body mapQuestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode geocode response: %w", err)
	}

	if body.Info.StatusCode != 0 {
		return nil, fmt.Errorf("geocoder error %d: %s", body.Info.StatusCode, strings.Join(body.Info.Messages, "; "))
	}
	if len(body.Results) == 0 || len(body.Results[0].Locations) == 0 {
		return nil, ErrNoResults
	}

	loc := body.Results[0].Locations[0]
	return &models.Location{
		Latitude:         loc.LatLng.Lat,
		Longitude:        loc.LatLng.Lng,
		FormattedAddress: formatAddress(loc.Street, loc.City, loc.State, loc.PostalCode, loc.Country),
		Street:           loc.Street,
		City:             loc.City,
		State:            loc.State,
		Zipcode:          loc.PostalCode,
		Country:          loc.Country,
	}, nil
}

func formatAddress(street, city, state, zipcode, country string) string {
	var parts []string
	for _, p := range []string{street, city, strings.TrimSpace(state + " " + zipcode), country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
