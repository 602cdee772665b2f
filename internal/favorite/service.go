package favorite

import (
	"context"
	"strings"

	"backend-trailblazer/internal/apperr"
	"backend-trailblazer/internal/docstore"
	"backend-trailblazer/internal/record"
	"backend-trailblazer/internal/session"
	"backend-trailblazer/internal/stream"

	"go.uber.org/zap"
)

type State string

const (
	NotFavorited State = "not_favorited"
	Favorited    State = "favorited"
)

func (s State) Valid() bool {
	return s == NotFavorited || s == Favorited
}

type Publisher interface {
	Publish(ctx context.Context, userID string, ev stream.Event) error
}

// Service keeps the signed-in user's favorite trails under
// trails/{uid}/trailData. Adding does not check for an existing entry, so a
// trail can be stored more than once; removing deletes every copy.
type Service struct {
	store  docstore.Store
	gate   session.Gate
	events Publisher
	logger *zap.Logger
}

func NewService(store docstore.Store, gate session.Gate, events Publisher, logger *zap.Logger) *Service {
	return &Service{store: store, gate: gate, events: events, logger: logger}
}

func (s *Service) InitialState(ctx context.Context, trailID string, alreadyAdded bool) (State, error) {
	if alreadyAdded {
		return Favorited, nil
	}
	userID, ok := s.gate.CurrentUserID(ctx)
	if !ok {
		return NotFavorited, nil
	}

	docs, err := s.store.Find(ctx, docstore.TrailDataCollection(userID), "id", trailID)
	if err != nil {
		return NotFavorited, apperr.Network(err)
	}
	if len(docs) > 0 {
		return Favorited, nil
	}
	return NotFavorited, nil
}

func (s *Service) Add(ctx context.Context, trail record.Trail) error {
	userID, err := session.Require(ctx, s.gate)
	if err != nil {
		return err
	}
	if strings.TrimSpace(trail.ID) == "" || strings.TrimSpace(trail.Name) == "" {
		return apperr.Validation("Trail Error", "Trail id and name are required")
	}

	if _, err := s.store.Add(ctx, docstore.TrailDataCollection(userID), record.EncodeTrail(trail)); err != nil {
		return apperr.Network(err)
	}

	s.publish(ctx, userID, stream.Event{Type: stream.EventFavoriteAdded, TrailID: trail.ID, Trail: &trail})
	return nil
}

// Remove deletes every stored copy of trailID and reports how many there were.
func (s *Service) Remove(ctx context.Context, trailID string) (int, error) {
	userID, err := session.Require(ctx, s.gate)
	if err != nil {
		return 0, err
	}

	docs, err := s.store.Find(ctx, docstore.TrailDataCollection(userID), "id", trailID)
	if err != nil {
		return 0, apperr.Network(err)
	}

	removed := 0
	for _, d := range docs {
		if err := s.store.Delete(ctx, d.Path); err != nil {
			return removed, apperr.Network(err)
		}
		removed++
	}

	s.publish(ctx, userID, stream.Event{Type: stream.EventFavoriteRemoved, TrailID: trailID, Removed: removed})
	return removed, nil
}

// Toggle flips current. On failure the caller gets current back with the error.
func (s *Service) Toggle(ctx context.Context, trail record.Trail, current State) (State, error) {
	switch current {
	case NotFavorited:
		if err := s.Add(ctx, trail); err != nil {
			return current, err
		}
		return Favorited, nil
	case Favorited:
		if _, err := s.Remove(ctx, trail.ID); err != nil {
			return current, err
		}
		return NotFavorited, nil
	}
	return current, apperr.Validation("Trail Error", "Unknown favorite state")
}

// List returns the stored favorites in insertion order. Records that no
// longer decode are logged and left out.
func (s *Service) List(ctx context.Context) ([]record.Trail, error) {
	userID, err := session.Require(ctx, s.gate)
	if err != nil {
		return nil, err
	}

	docs, err := s.store.List(ctx, docstore.TrailDataCollection(userID))
	if err != nil {
		return nil, apperr.Network(err)
	}

	trails := make([]record.Trail, 0, len(docs))
	for _, d := range docs {
		t, err := record.DecodeTrail(d.Data)
		if err != nil {
			s.logger.Warn("skipping malformed favorite", zap.String("path", d.Path), zap.Error(err))
			continue
		}
		trails = append(trails, t)
	}
	return trails, nil
}

func (s *Service) publish(ctx context.Context, userID string, ev stream.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, userID, ev); err != nil {
		s.logger.Warn("favorite event not published", zap.String("type", ev.Type), zap.Error(err))
	}
}
