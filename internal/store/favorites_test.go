package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lockguard-backend/internal/model"
)

func TestFavoriteEligibility(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	alice := mustUser(t, s, "Alice", "alice@example.com")
	bob := mustUser(t, s, "Bob", "bob@example.com")
	device := mustDevice(t, s, "Front Door", "X1")

	group, err := s.CreateGroup(ctx, "Home", alice.ID)
	require.NoError(t, err)

	t.Run("unknown kind", func(t *testing.T) {
		_, err := s.SetFavoriteMain(ctx, alice.ID, "Gadget", device.ID)
		assert.ErrorIs(t, err, ErrInvalidKind)
	})

	t.Run("missing target", func(t *testing.T) {
		_, err := s.SetFavoriteMain(ctx, alice.ID, model.KindDevice, "no-such-device")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.AddFavorite(ctx, alice.ID, model.KindGroup, "no-such-group")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("only the creator may favorite a group", func(t *testing.T) {
		_, err := s.SetFavoriteMain(ctx, bob.ID, model.KindGroup, group.ID)
		assert.ErrorIs(t, err, ErrNotOwner)

		_, err = s.SetFavoriteMain(ctx, alice.ID, model.KindGroup, group.ID)
		assert.NoError(t, err)
	})

	t.Run("grouped devices are ineligible", func(t *testing.T) {
		require.NoError(t, s.AddDeviceToGroup(ctx, group.ID, device.ID, alice.ID))

		_, err := s.AddFavorite(ctx, bob.ID, model.KindDevice, device.ID)
		assert.ErrorIs(t, err, ErrFavoriteIneligible)
	})
}

func TestFavoriteListRules(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	alice := mustUser(t, s, "Alice", "alice@example.com")

	devices := make([]*model.Device, 0, 6)
	for _, serial := range []string{"X1", "X2", "X3", "X4", "X5", "X6"} {
		devices = append(devices, mustDevice(t, s, "Device "+serial, serial))
	}

	_, err := s.SetFavoriteMain(ctx, alice.ID, model.KindDevice, devices[0].ID)
	require.NoError(t, err)

	t.Run("main and list are disjoint", func(t *testing.T) {
		_, err := s.AddFavorite(ctx, alice.ID, model.KindDevice, devices[0].ID)
		assert.ErrorIs(t, err, ErrFavoriteIsMain)
	})

	for _, d := range devices[1:5] {
		_, err := s.AddFavorite(ctx, alice.ID, model.KindDevice, d.ID)
		require.NoError(t, err)
	}

	t.Run("no duplicates in the list", func(t *testing.T) {
		_, err := s.AddFavorite(ctx, alice.ID, model.KindDevice, devices[1].ID)
		assert.ErrorIs(t, err, ErrFavoriteExists)
	})

	t.Run("list caps at four", func(t *testing.T) {
		_, err := s.AddFavorite(ctx, alice.ID, model.KindDevice, devices[5].ID)
		assert.ErrorIs(t, err, ErrFavoriteListFull)
	})

	t.Run("promoting a listed item removes it from the list", func(t *testing.T) {
		_, err := s.SetFavoriteMain(ctx, alice.ID, model.KindDevice, devices[1].ID)
		require.NoError(t, err)

		profile, err := s.Profile(ctx, alice.ID)
		require.NoError(t, err)
		require.NotNil(t, profile.FavoriteMain)
		assert.Equal(t, devices[1].ID, profile.FavoriteMain.Item.ID)
		require.Len(t, profile.FavoriteList, 3)
		for _, fav := range profile.FavoriteList {
			assert.NotEqual(t, devices[1].ID, fav.Item.ID)
		}
	})

	t.Run("remove returns the remaining list", func(t *testing.T) {
		remaining, err := s.RemoveFavorite(ctx, alice.ID, devices[2].ID)
		require.NoError(t, err)
		assert.Len(t, remaining, 2)

		_, err = s.RemoveFavorite(ctx, alice.ID, devices[2].ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestProfileResolvesFavorites(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	alice := mustUser(t, s, "Alice", "alice@example.com")
	device := mustDevice(t, s, "Front Door", "X1")

	group, err := s.CreateGroup(ctx, "Home", alice.ID)
	require.NoError(t, err)
	_, err = s.SetGroupLock(ctx, group.ID, alice.ID, true)
	require.NoError(t, err)

	_, err = s.SetFavoriteMain(ctx, alice.ID, model.KindGroup, group.ID)
	require.NoError(t, err)
	_, err = s.AddFavorite(ctx, alice.ID, model.KindDevice, device.ID)
	require.NoError(t, err)

	profile, err := s.Profile(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", profile.Name)
	assert.Equal(t, "alice@example.com", profile.Email)

	require.NotNil(t, profile.FavoriteMain)
	assert.Equal(t, model.KindGroup, profile.FavoriteMain.Kind)
	require.NotNil(t, profile.FavoriteMain.Item)
	assert.Equal(t, "Home", profile.FavoriteMain.Item.Name)
	require.NotNil(t, profile.FavoriteMain.Item.Locked)
	assert.True(t, *profile.FavoriteMain.Item.Locked)

	require.Len(t, profile.FavoriteList, 1)
	entry := profile.FavoriteList[0]
	assert.Equal(t, model.KindDevice, entry.Kind)
	require.NotNil(t, entry.Item)
	assert.Equal(t, "X1", entry.Item.SerialNumber)
	require.NotNil(t, entry.Item.LockActive)
	assert.False(t, *entry.Item.LockActive)
}

func TestProfileEmptyFavorites(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	alice := mustUser(t, s, "Alice", "alice@example.com")

	profile, err := s.Profile(ctx, alice.ID)
	require.NoError(t, err)
	assert.Nil(t, profile.FavoriteMain)
	assert.NotNil(t, profile.FavoriteList)
	assert.Empty(t, profile.FavoriteList)
}
