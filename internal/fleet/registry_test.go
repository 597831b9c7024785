package fleet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryAdmitAndLookup(t *testing.T) {
	reg := NewRegistry(nil)

	sess, err := reg.Admit(1, 1, &fakeEndpoint{}, nil)
	require.NoError(t, err)
	assert.Equal(t, SystemID(1), sess.SystemID)

	got, err := reg.Lookup(1)
	require.NoError(t, err)
	assert.Same(t, sess, got)
}

func TestRegistryAdmitDuplicateIsError(t *testing.T) {
	reg := NewRegistry(nil)
	_, err := reg.Admit(1, 1, &fakeEndpoint{}, nil)
	require.NoError(t, err)

	_, err = reg.Admit(1, 1, &fakeEndpoint{}, nil)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestRegistryLookupUnknown(t *testing.T) {
	reg := NewRegistry(nil)
	_, err := reg.Lookup(42)
	assert.ErrorIs(t, err, ErrUnknownVehicle)
}

func TestRegistryLookupRejectsBroadcastID(t *testing.T) {
	reg := NewRegistry(nil)
	_, err := reg.Lookup(0)
	assert.ErrorIs(t, err, ErrUnknownVehicle)
}

func TestRegistryReadyReflectsStatus(t *testing.T) {
	reg := NewRegistry(nil)
	sess, err := reg.Admit(1, 1, &fakeEndpoint{}, nil)
	require.NoError(t, err)

	assert.False(t, reg.Ready(1), "a freshly admitted vehicle is Initiating, not Ready")

	sess.setStatus(StatusDisarmed)
	assert.True(t, reg.Ready(1))
}

func TestRegistryOnAdmitCalledWithNewSession(t *testing.T) {
	var seen *Session
	reg := NewRegistry(func(s *Session) { seen = s })

	sess, err := reg.Admit(7, 1, &fakeEndpoint{}, nil)
	require.NoError(t, err)
	assert.Same(t, sess, seen)
}

func TestRegistryAll(t *testing.T) {
	reg := NewRegistry(nil)
	_, _ = reg.Admit(1, 1, &fakeEndpoint{}, nil)
	_, _ = reg.Admit(2, 1, &fakeEndpoint{}, nil)

	all := reg.All()
	assert.Len(t, all, 2)
}
