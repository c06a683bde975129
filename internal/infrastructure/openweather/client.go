// Package openweather resolves a postal code to coordinates and a timezone
// using the OpenWeatherMap geocoding and One Call APIs.
package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/brookse/smartdoc-backend/internal/domain/entity"
)

var (
	// ErrLocationNotFound means the geocoding API has no coordinates for
	// the given zipcode.
	ErrLocationNotFound = errors.New("location not found for zipcode")
	// ErrTimezoneNotFound means the One Call response carried no timezone
	// for the resolved coordinates.
	ErrTimezoneNotFound = errors.New("timezone not found for coordinates")
)

// onecallExclude trims the One Call payload down to the timezone field;
// everything else is forecast data we never read.
const onecallExclude = "current,minutely,hourly,daily,alerts"

type Client struct {
	httpClient *http.Client
	apiKey     string
	geoBaseURL string
	oneBaseURL string
}

func NewClient(apiKey, geoBaseURL, oneBaseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		apiKey:     apiKey,
		geoBaseURL: geoBaseURL,
		oneBaseURL: oneBaseURL,
	}
}

type geocodeResponse struct {
	Zip  string   `json:"zip"`
	Name string   `json:"name"` // locality, unused
	Lat  *float64 `json:"lat"`
	Lon  *float64 `json:"lon"`
}

type onecallResponse struct {
	Timezone string `json:"timezone"`
}

// Resolve runs the two-step pipeline: zipcode to coordinates, then
// coordinates to timezone. The second call starts only after the first
// succeeded. All transport failures are returned wrapped so callers can
// abort the write that requested the enrichment.
func (c *Client) Resolve(ctx context.Context, zipcode string) (entity.Location, error) {
	lat, lon, err := c.geocodeZip(ctx, zipcode)
	if err != nil {
		return entity.Location{}, err
	}
	tz, err := c.timezone(ctx, lat, lon)
	if err != nil {
		return entity.Location{}, err
	}
	return entity.Location{Latitude: lat, Longitude: lon, Timezone: tz}, nil
}

func (c *Client) geocodeZip(ctx context.Context, zipcode string) (float64, float64, error) {
	q := url.Values{}
	q.Set("zip", zipcode)
	q.Set("appid", c.apiKey)
	endpoint := c.geoBaseURL + "/zip?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("geocode request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("geocode request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return 0, 0, ErrLocationNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("geocode request: unexpected status %s", resp.Status)
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, 0, fmt.Errorf("geocode response: %w", err)
	}
	if body.Lat == nil || body.Lon == nil {
		return 0, 0, ErrLocationNotFound
	}
	return *body.Lat, *body.Lon, nil
}

func (c *Client) timezone(ctx context.Context, lat, lon float64) (string, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%g", lat))
	q.Set("lon", fmt.Sprintf("%g", lon))
	q.Set("exclude", onecallExclude)
	q.Set("appid", c.apiKey)
	endpoint := c.oneBaseURL + "/onecall?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("timezone request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("timezone request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("timezone request: unexpected status %s", resp.Status)
	}

	var body onecallResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("timezone response: %w", err)
	}
	if body.Timezone == "" {
		return "", ErrTimezoneNotFound
	}
	return body.Timezone, nil
}
