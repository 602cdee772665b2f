// Package trailapi is a client for the RapidAPI "trailapi" explore endpoint.
package trailapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"backend-trailblazer/internal/record"
)

// Timeout bounds a single explore call.
const Timeout = 10 * time.Second

// Response is the explore payload. Records stay untyped so that the mapper
// can deal with the upstream's loose typing of id, rating and length.
type Response struct {
	Results int             `json:"results"`
	Data    []record.Record `json:"data"`
}

type Client struct {
	baseURL string
	apiKey  string
	apiHost string
	http    *http.Client
}

func NewClient(baseURL, apiKey, apiHost string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{baseURL: baseURL, apiKey: apiKey, apiHost: apiHost, http: httpClient}
}

// Explore lists trails around lat/lon, both already formatted for the query.
func (c *Client) Explore(ctx context.Context, lat, lon string) (Response, error) {
	ctx, cancel := context.WithTimeout(ctx, Timeout)
	defer cancel()

	q := url.Values{}
	q.Set("lat", lat)
	q.Set("lon", lon)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/trails/explore/?"+q.Encode(), nil)
	if err != nil {
		return Response{}, err
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.apiHost)

	resp, err := c.http.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Response{}, fmt.Errorf("trails api returned %s", resp.Status)
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()

	var out Response
	if err := dec.Decode(&out); err != nil {
		return Response{}, fmt.Errorf("decode trails response: %w", err)
	}
	return out, nil
}
