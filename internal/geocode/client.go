// Package geocode resolves free-text places to coordinates through a
// Nominatim-compatible search API.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"backend-trailblazer/internal/shared/geo"
)

// RegionSpan is the side of the square searched around a point, in degrees.
const RegionSpan = 0.1

var ErrNoMatch = errors.New("no location matched")

type Location struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

func (l Location) Coordinates() geo.Coordinates {
	return geo.Coordinates{Lat: l.Lat, Lng: l.Lng}
}

type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

func NewClient(baseURL, userAgent string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: baseURL, userAgent: userAgent, http: httpClient}
}

// Geocode returns the first candidate for text.
func (c *Client) Geocode(ctx context.Context, text string) (Location, error) {
	q := url.Values{}
	q.Set("q", text)
	q.Set("limit", "1")

	places, err := c.search(ctx, q)
	if err != nil {
		return Location{}, err
	}
	if len(places) == 0 {
		return Location{}, ErrNoMatch
	}
	return places[0], nil
}

// Search finds up to limit places matching query inside the RegionSpan box
// centred on near.
func (c *Client) Search(ctx context.Context, query string, near geo.Coordinates, limit int) ([]Location, error) {
	half := RegionSpan / 2
	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("viewbox", fmt.Sprintf("%f,%f,%f,%f", near.Lng-half, near.Lat+half, near.Lng+half, near.Lat-half))
	q.Set("bounded", "1")
	return c.search(ctx, q)
}

type place struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

func (c *Client) search(ctx context.Context, q url.Values) ([]Location, error) {
	q.Set("format", "jsonv2")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoder returned %s", resp.Status)
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("decode geocoder response: %w", err)
	}

	out := make([]Location, 0, len(places))
	for _, p := range places {
		coords, ok := geo.Parse(p.Lat, p.Lon)
		if !ok {
			continue
		}
		name := p.Name
		if name == "" {
			name = p.DisplayName
		}
		out = append(out, Location{Name: name, Lat: coords.Lat, Lng: coords.Lng})
	}
	return out, nil
}
