package seed_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"restaurant-menu-api/config"
	"restaurant-menu-api/seed"
	"restaurant-menu-api/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixturesAreFreshCopies(t *testing.T) {
	a, b := seed.Restaurants(), seed.Restaurants()
	a[0].Name = "changed"
	assert.Equal(t, "AppleBees", b[0].Name)

	menus := seed.Menus()
	require.Len(t, menus, len(seed.MenuTitles))
	for i, m := range menus {
		assert.Equal(t, seed.MenuTitles[i], m.Name)
		assert.Nil(t, m.RestaurantID)
	}
}

func TestLoad(t *testing.T) {
	s, err := store.Open(config.DatabaseConfig{
		Name:         filepath.Join(t.TempDir(), "seed.db"),
		MaxOpenConns: 1,
		BusyTimeout:  time.Second,
		LogLevel:     "silent",
	}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()
	require.NoError(t, s.Sync(ctx, store.SyncOptions{Force: true}))

	fx, err := seed.Load(ctx, s)
	require.NoError(t, err)
	for _, r := range fx.Restaurants {
		assert.NotZero(t, r.ID)
	}

	n, err := s.Items.Count(ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, len(seed.Items()), n)

	n, err = s.Menus.Count(ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, len(seed.MenuTitles), n)
}
