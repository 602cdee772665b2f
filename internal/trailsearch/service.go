package trailsearch

import (
	"context"
	"strings"

	"backend-trailblazer/internal/apperr"
	"backend-trailblazer/internal/geocode"
	"backend-trailblazer/internal/record"
	"backend-trailblazer/internal/shared/geo"
	"backend-trailblazer/internal/trailapi"

	"go.uber.org/zap"
)

// MaxResults caps how many trails a search returns.
const MaxResults = 10

const (
	MsgNoLocation = "No location resolved"
	MsgNoTrails   = "No Trail Data Found"
)

type Geocoder interface {
	Geocode(ctx context.Context, text string) (geocode.Location, error)
}

type TrailsAPI interface {
	Explore(ctx context.Context, lat, lon string) (trailapi.Response, error)
}

type Result struct {
	Trails   []record.Trail    `json:"trails"`
	Message  string            `json:"message,omitempty"`
	Location *geocode.Location `json:"location,omitempty"`
}

type Service struct {
	geocoder Geocoder
	trails   TrailsAPI
	logger   *zap.Logger
}

func NewService(geocoder Geocoder, trails TrailsAPI, logger *zap.Logger) *Service {
	return &Service{geocoder: geocoder, trails: trails, logger: logger}
}

// Search resolves text to a place and lists trails around it. Upstream
// failures degrade to an empty result; only bad input and malformed trail
// records are returned as errors.
func (s *Service) Search(ctx context.Context, text string) (Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{}, apperr.Validation("Search Input Error", "Search text cannot be empty")
	}

	loc, err := s.geocoder.Geocode(ctx, text)
	if err != nil {
		s.logger.Warn("geocoding failed", zap.String("text", text), zap.Error(err))
		return Result{Trails: []record.Trail{}, Message: MsgNoLocation}, nil
	}

	resp, err := s.trails.Explore(ctx, geo.FormatQuery(loc.Lat), geo.FormatQuery(loc.Lng))
	if err != nil {
		s.logger.Warn("trails api failed", zap.String("text", text), zap.Error(err))
		return Result{Trails: []record.Trail{}, Location: &loc}, nil
	}
	if resp.Results == 0 {
		return Result{Trails: []record.Trail{}, Message: MsgNoTrails, Location: &loc}, nil
	}

	// every record is validated, even those past the cut
	trails := make([]record.Trail, 0, len(resp.Data))
	for _, r := range resp.Data {
		t, err := record.DecodeUpstreamTrail(r)
		if err != nil {
			return Result{}, err
		}
		trails = append(trails, t)
	}
	if len(trails) > MaxResults {
		trails = trails[:MaxResults]
	}
	return Result{Trails: trails, Location: &loc}, nil
}
