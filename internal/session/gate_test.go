package session

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vincentyono/icp-smart-contract/internal/common/clock"
	"github.com/vincentyono/icp-smart-contract/internal/common/crypto"
	userdomain "github.com/vincentyono/icp-smart-contract/internal/user/domain"
)

type failingIDs struct{}

func (failingIDs) NewID() (string, error) { return "", errors.New("entropy exhausted") }

func newGate() *Gate {
	return NewGate(crypto.NewUUIDGenerator(), clock.NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestGate_Lifecycle(t *testing.T) {
	g := newGate()
	alice := userdomain.User{ID: "u1", Username: "alice"}

	_, ok := g.Current()
	assert.False(t, ok)

	_, err := g.SignOut()
	assert.ErrorIs(t, err, ErrNotSignedIn)

	s, replaced, err := g.SignIn(alice)
	require.NoError(t, err)
	assert.False(t, replaced)
	assert.True(t, crypto.ValidateID(s.ID))
	assert.Equal(t, alice, s.User)

	current, ok := g.Current()
	require.True(t, ok)
	assert.Equal(t, s, current)

	ended, err := g.SignOut()
	require.NoError(t, err)
	assert.Equal(t, s.ID, ended.ID)

	_, err = g.SignOut()
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestGate_SignInReplacesSession(t *testing.T) {
	g := newGate()

	first, _, err := g.SignIn(userdomain.User{ID: "u1", Username: "alice"})
	require.NoError(t, err)

	second, replaced, err := g.SignIn(userdomain.User{ID: "u2", Username: "bob"})
	require.NoError(t, err)
	assert.True(t, replaced)
	assert.NotEqual(t, first.ID, second.ID)

	current, ok := g.Current()
	require.True(t, ok)
	assert.Equal(t, userdomain.ID("u2"), current.User.ID)
}

func TestGate_SignInFailureKeepsState(t *testing.T) {
	g := NewGate(failingIDs{}, clock.NewRealClock())

	_, _, err := g.SignIn(userdomain.User{ID: "u1"})
	require.Error(t, err)

	_, ok := g.Current()
	assert.False(t, ok)
}

func TestGate_NewSessionDoesNotActivate(t *testing.T) {
	g := newGate()
	alice := userdomain.User{ID: "u1", Username: "alice"}
	bob := userdomain.User{ID: "u2", Username: "bob"}

	active, _, err := g.SignIn(alice)
	require.NoError(t, err)

	pending, err := g.NewSession(bob)
	require.NoError(t, err)
	assert.NotEqual(t, active.ID, pending.ID)

	current, ok := g.Current()
	require.True(t, ok)
	assert.Equal(t, active, current)

	assert.True(t, g.Activate(pending))
	current, ok = g.Current()
	require.True(t, ok)
	assert.Equal(t, pending, current)
}
