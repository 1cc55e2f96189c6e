// Package session holds the single signed-in identity of a service instance.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/vincentyono/icp-smart-contract/internal/common/clock"
	"github.com/vincentyono/icp-smart-contract/internal/common/crypto"
	userdomain "github.com/vincentyono/icp-smart-contract/internal/user/domain"
)

var ErrNotSignedIn = errors.New("no active session")

type Session struct {
	ID        string
	User      userdomain.User
	StartedAt time.Time
}

// Gate is a two-state machine: anonymous or signed in as exactly one user.
// Signing in while a session is active replaces it.
type Gate struct {
	mu      sync.RWMutex
	current *Session
	ids     crypto.IDGenerator
	clock   clock.Clock
}

func NewGate(ids crypto.IDGenerator, clk clock.Clock) *Gate {
	return &Gate{ids: ids, clock: clk}
}

// NewSession prepares a session for user without activating it.
func (g *Gate) NewSession(user userdomain.User) (Session, error) {
	id, err := g.ids.NewID()
	if err != nil {
		return Session{}, err
	}
	return Session{
		ID:        id,
		User:      user,
		StartedAt: g.clock.Now(),
	}, nil
}

// Activate makes s the active session and reports whether one was replaced.
func (g *Gate) Activate(s Session) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	replaced := g.current != nil
	g.current = &s
	return replaced
}

// SignIn starts a session for user and reports whether an existing one was replaced.
func (g *Gate) SignIn(user userdomain.User) (Session, bool, error) {
	s, err := g.NewSession(user)
	if err != nil {
		return Session{}, false, err
	}
	return s, g.Activate(s), nil
}

func (g *Gate) SignOut() (Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.current == nil {
		return Session{}, ErrNotSignedIn
	}
	ended := *g.current
	g.current = nil
	return ended, nil
}

func (g *Gate) Current() (Session, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.current == nil {
		return Session{}, false
	}
	return *g.current, true
}
