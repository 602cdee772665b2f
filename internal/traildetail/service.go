// Package traildetail assembles everything the trail screen shows in one
// call: favorite state, nearby map points and a directions link.
package traildetail

import (
	"context"
	"net/url"

	"backend-trailblazer/internal/apperr"
	"backend-trailblazer/internal/favorite"
	"backend-trailblazer/internal/geocode"
	"backend-trailblazer/internal/record"
	"backend-trailblazer/internal/shared/geo"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	directionsBase = "http://maps.apple.com/?q="
	maxMapPoints   = 10
)

type FavoriteState interface {
	InitialState(ctx context.Context, trailID string, alreadyAdded bool) (favorite.State, error)
}

type PlaceSearcher interface {
	Search(ctx context.Context, query string, near geo.Coordinates, limit int) ([]geocode.Location, error)
}

type MapPoint struct {
	Name       string  `json:"name"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	DistanceKm float64 `json:"distance_km"`
}

type View struct {
	Trail      record.Trail    `json:"trail"`
	State      favorite.State  `json:"state"`
	Center     geo.Coordinates `json:"center"`
	Points     []MapPoint      `json:"points"`
	Directions string          `json:"directions_url"`
}

type Service struct {
	favorites FavoriteState
	places    PlaceSearcher
	logger    *zap.Logger
}

func NewService(favorites FavoriteState, places PlaceSearcher, logger *zap.Logger) *Service {
	return &Service{favorites: favorites, places: places, logger: logger}
}

func (s *Service) Detail(ctx context.Context, trail record.Trail, alreadyAdded bool) (View, error) {
	if trail.ID == "" || trail.Name == "" {
		return View{}, apperr.Validation("Trail Error", "Trail id and name are required")
	}

	center, ok := geo.Parse(trail.Lat, trail.Lng)
	if !ok {
		center = geo.DefaultCenter
	}
	view := View{
		Trail:      trail,
		Center:     center,
		Directions: DirectionsURL(trail.Name),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		state, err := s.favorites.InitialState(gctx, trail.ID, alreadyAdded)
		if err != nil {
			return err
		}
		view.State = state
		return nil
	})
	g.Go(func() error {
		view.Points = s.mapPoints(gctx, trail, center)
		return nil
	})
	if err := g.Wait(); err != nil {
		return View{}, err
	}
	return view, nil
}

// mapPoints never fails: without search results the trail itself is the
// only marker.
func (s *Service) mapPoints(ctx context.Context, trail record.Trail, center geo.Coordinates) []MapPoint {
	marker := []MapPoint{{Name: trail.Name, Lat: center.Lat, Lng: center.Lng}}

	found, err := s.places.Search(ctx, trail.Name, center, maxMapPoints)
	if err != nil {
		s.logger.Warn("map search failed", zap.String("trail_id", trail.ID), zap.Error(err))
		return marker
	}
	if len(found) == 0 {
		return marker
	}

	points := make([]MapPoint, 0, len(found))
	for _, loc := range found {
		points = append(points, MapPoint{
			Name:       loc.Name,
			Lat:        loc.Lat,
			Lng:        loc.Lng,
			DistanceKm: center.DistanceKm(loc.Coordinates()),
		})
	}
	return points
}

// DirectionsURL links to the maps app; spaces in the name become '+'.
func DirectionsURL(name string) string {
	return directionsBase + url.QueryEscape(name)
}
