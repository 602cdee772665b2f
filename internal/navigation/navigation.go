// Package navigation models which screen the app shows as an explicit state
// machine, one Controller per signed-in user.
package navigation

import (
	"sync"
)

type Screen string

const (
	LogIn   Screen = "login"
	SignUp  Screen = "signup"
	Search  Screen = "search"
	Profile Screen = "profile"
)

type Event string

const (
	LoggedIn       Event = "logged_in"
	SignedUp       Event = "signed_up"
	SignedOut      Event = "signed_out"
	AccountDeleted Event = "account_deleted"
	OpenSearch     Event = "open_search"
	OpenProfile    Event = "open_profile"
	OpenSignUp     Event = "open_signup"
	OpenLogIn      Event = "open_login"
)

// Next is the transition table. Events that do not apply to the current
// screen leave it unchanged.
func Next(current Screen, ev Event) Screen {
	switch ev {
	case LoggedIn, SignedUp:
		if current == LogIn || current == SignUp {
			return Profile
		}
	case SignedOut, AccountDeleted:
		return LogIn
	case OpenSearch:
		if current == Profile {
			return Search
		}
	case OpenProfile:
		if current == Search {
			return Profile
		}
	case OpenSignUp:
		if current == LogIn {
			return SignUp
		}
	case OpenLogIn:
		if current == SignUp {
			return LogIn
		}
	}
	return current
}

func (s Screen) Valid() bool {
	switch s {
	case LogIn, SignUp, Search, Profile:
		return true
	}
	return false
}

func (e Event) Valid() bool {
	switch e {
	case LoggedIn, SignedUp, SignedOut, AccountDeleted, OpenSearch, OpenProfile, OpenSignUp, OpenLogIn:
		return true
	}
	return false
}

type Controller struct {
	mu      sync.Mutex
	current Screen
}

func NewController(start Screen) *Controller {
	return &Controller{current: start}
}

func (c *Controller) Current() Screen {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Dispatch applies ev and returns the resulting screen.
func (c *Controller) Dispatch(ev Event) Screen {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = Next(c.current, ev)
	return c.current
}

// Registry hands out one Controller per user. Anonymous callers start at LogIn.
type Registry struct {
	mu          sync.Mutex
	controllers map[string]*Controller
}

func NewRegistry() *Registry {
	return &Registry{controllers: map[string]*Controller{}}
}

func (r *Registry) For(userID string) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.controllers[userID]
	if !ok {
		c = NewController(LogIn)
		r.controllers[userID] = c
	}
	return c
}

func (r *Registry) Forget(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.controllers, userID)
}
