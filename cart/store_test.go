package cart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStoreCreatesEmptyCartOnFirstTouch(t *testing.T) {
	s := NewSessionStore(time.Hour)
	defer s.Close()

	id := NewSessionID()
	engine := s.Session(id)
	require.NotNil(t, engine)
	assert.Zero(t, engine.TotalItems())

	// same id returns the same cart
	v := makeVariant("M", 10)
	p := makeProduct(10, nil, v)
	require.NoError(t, engine.AddItem(p, v, 2))
	assert.Equal(t, 2, s.Session(id).TotalItems())
}

func TestSessionStoreIsolatesSessions(t *testing.T) {
	s := NewSessionStore(time.Hour)
	defer s.Close()

	v := makeVariant("M", 10)
	p := makeProduct(10, nil, v)
	require.NoError(t, s.Session("a").AddItem(p, v, 1))

	assert.Zero(t, s.Session("b").TotalItems())
}

func TestSessionStoreDrop(t *testing.T) {
	s := NewSessionStore(time.Hour)
	defer s.Close()

	v := makeVariant("M", 10)
	p := makeProduct(10, nil, v)
	require.NoError(t, s.Session("a").AddItem(p, v, 1))

	s.Drop("a")
	assert.Zero(t, s.Session("a").TotalItems(), "dropped session starts over empty")
}
