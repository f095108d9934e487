package server

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thruflo/devmock/internal/protocol"
)

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub()
	a := newFakeClient("a")
	b := newFakeClient("b")

	hub.Register(a)
	hub.Register(b)
	assert.Equal(t, 2, hub.Len())
	assert.Equal(t, []string{"a", "b"}, hub.IDs())

	hub.Unregister(a)
	assert.Equal(t, []string{"b"}, hub.IDs())

	// Unregistering twice is harmless.
	hub.Unregister(a)
	assert.Equal(t, 1, hub.Len())
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()
	a := newFakeClient("a")
	b := newFakeClient("b")
	broken := newFakeClient("broken")
	broken.failWith(errBrokenPipe)
	hub.Register(a)
	hub.Register(b)
	hub.Register(broken)

	env := protocol.UpdateEnvelope("effect", int64(2))
	failed := hub.Broadcast(env)

	assert.Equal(t, []protocol.Envelope{env}, a.envelopes())
	assert.Equal(t, []protocol.Envelope{env}, b.envelopes())
	assert.Len(t, failed, 1)
	assert.ErrorIs(t, failed["broken"], errBrokenPipe)
	assert.Equal(t, 3, hub.Len())
}

func TestHubBroadcastEmpty(t *testing.T) {
	hub := NewHub()
	assert.Nil(t, hub.Broadcast(protocol.UpdateEnvelope("effect", int64(2))))
}

func TestHubCloseAll(t *testing.T) {
	hub := NewHub()
	a := newFakeClient("a")
	b := newFakeClient("b")
	hub.Register(a)
	hub.Register(b)

	hub.CloseAll()

	assert.Equal(t, 0, hub.Len())
	assert.True(t, a.isClosed())
	assert.True(t, b.isClosed())
}
