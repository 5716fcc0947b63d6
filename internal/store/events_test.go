package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lockguard-backend/internal/model"
)

func TestCreateEvent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	t.Run("unknown serial", func(t *testing.T) {
		_, err := s.CreateEvent(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("orphan device", func(t *testing.T) {
		mustDevice(t, s, "Shed", "X0")
		receipt, err := s.CreateEvent(ctx, "X0")
		require.NoError(t, err)
		assert.Equal(t, "Shed", receipt.DeviceName)
		assert.False(t, receipt.FromGroup)
		assert.False(t, receipt.LockActive)
		assert.Empty(t, receipt.PushTokens)
		assert.False(t, receipt.Event.Notified)
	})

	t.Run("armed grouped device carries everything the push needs", func(t *testing.T) {
		alice := mustUser(t, s, "Alice", "alice@example.com")
		device := mustDevice(t, s, "Front Door", "X1")
		_, err := s.AssignDevice(ctx, "X1", alice.ID)
		require.NoError(t, err)

		group, err := s.CreateGroup(ctx, "Home", alice.ID)
		require.NoError(t, err)
		require.NoError(t, s.AddDeviceToGroup(ctx, group.ID, device.ID, alice.ID))
		_, err = s.SetGroupLock(ctx, group.ID, alice.ID, true)
		require.NoError(t, err)

		require.NoError(t, s.AddPushToken(ctx, alice.ID, "ExponentPushToken[one]"))
		require.NoError(t, s.AddPushToken(ctx, alice.ID, "ExponentPushToken[two]"))

		receipt, err := s.CreateEvent(ctx, "X1")
		require.NoError(t, err)
		assert.Equal(t, "Front Door", receipt.DeviceName)
		assert.Equal(t, "Home", receipt.GroupName)
		assert.True(t, receipt.FromGroup)
		assert.True(t, receipt.LockActive)
		assert.Equal(t, []string{"ExponentPushToken[one]", "ExponentPushToken[two]"}, receipt.PushTokens)

		assert.True(t, receipt.Event.Notified)
		assert.True(t, receipt.Event.FromGroup)
		assert.Equal(t, device.ID, receipt.Event.DeviceID)
		assert.NotZero(t, receipt.Event.ID)
		assert.False(t, receipt.Event.Date.IsZero())

		var persisted model.Event
		require.NoError(t, s.DB().First(&persisted, "id = ?", receipt.Event.ID).Error)
		assert.True(t, persisted.Notified)
	})
}

func TestDeviceEventsOwnership(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	alice := mustUser(t, s, "Alice", "alice@example.com")
	bob := mustUser(t, s, "Bob", "bob@example.com")
	device := mustDevice(t, s, "Front Door", "X1")

	_, err := s.AssignDevice(ctx, "X1", alice.ID)
	require.NoError(t, err)

	_, err = s.CreateEvent(ctx, "X1")
	require.NoError(t, err)
	_, err = s.CreateEvent(ctx, "X1")
	require.NoError(t, err)

	_, err = s.DeviceEvents(ctx, device.ID, bob.ID)
	assert.ErrorIs(t, err, ErrNotOwner)
	_, err = s.DeviceEvents(ctx, "no-such-device", alice.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	events, err := s.DeviceEvents(ctx, device.ID, alice.ID)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}
