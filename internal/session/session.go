// Package session answers "who is signed in" for a request. The middleware
// resolves the bearer token into an Identity; gated services then call
// Require and fail with a session-expired error when there is none.
package session

import (
	"context"

	"backend-trailblazer/internal/apperr"
)

// Identity is the signed-in user behind a request and the session the
// access token was issued for.
type Identity struct {
	UserID    string
	SessionID string
}

type Gate interface {
	CurrentUserID(ctx context.Context) (string, bool)
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	if !ok || id.UserID == "" {
		return Identity{}, false
	}
	return id, true
}

// ContextGate reads the identity placed on the request context by Middleware.
type ContextGate struct{}

func (ContextGate) CurrentUserID(ctx context.Context) (string, bool) {
	id, ok := FromContext(ctx)
	return id.UserID, ok
}

// Require returns the current user id or a session-expired error.
func Require(ctx context.Context, gate Gate) (string, error) {
	if gate == nil {
		return "", apperr.SessionExpired()
	}
	userID, ok := gate.CurrentUserID(ctx)
	if !ok || userID == "" {
		return "", apperr.SessionExpired()
	}
	return userID, nil
}

// StaticGate always reports the same user; an empty UserID means signed out.
type StaticGate struct {
	UserID string
}

func (g StaticGate) CurrentUserID(context.Context) (string, bool) {
	return g.UserID, g.UserID != ""
}
