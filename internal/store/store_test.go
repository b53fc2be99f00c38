package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/psoserv/blockserver/internal/testutil"
)

func setupTestStore(tb testing.TB) *Store {
	tb.Helper()
	pool := testutil.SetupTestDB(tb)
	return &Store{pool: pool}
}

func TestBanStoreCheck(t *testing.T) {
	s := setupTestStore(t)
	bans := NewBanStore(s)
	ctx := context.Background()

	entry, err := bans.Check(ctx, 1)
	require.NoError(t, err)
	require.Nil(t, entry)

	until := time.Now().Add(24 * time.Hour)
	require.NoError(t, bans.Ban(ctx, 1, "cheating", &until))

	entry, err = bans.Check(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, entry)
	require.Equal(t, "cheating", entry.Reason)
	require.WithinDuration(t, until, entry.Until, time.Second)

	require.NoError(t, bans.Unban(ctx, 1))
	entry, err = bans.Check(ctx, 1)
	require.NoError(t, err)
	require.Nil(t, entry)
}

func TestBanStorePermanent(t *testing.T) {
	s := setupTestStore(t)
	bans := NewBanStore(s)
	ctx := context.Background()

	require.NoError(t, bans.Ban(ctx, 2, "permanent", nil))
	entry, err := bans.Check(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, entry)
	require.True(t, entry.Until.IsZero())
}

func TestGMRosterRefreshAndGrant(t *testing.T) {
	s := setupTestStore(t)
	roster := NewGMRoster(s)
	ctx := context.Background()

	_, ok := roster.PrivilegeOf(5)
	require.False(t, ok)

	require.NoError(t, roster.Grant(ctx, 5, 0b0111))
	priv, ok := roster.PrivilegeOf(5)
	require.True(t, ok)
	require.Equal(t, uint32(0b0111), priv)

	fresh := NewGMRoster(s)
	require.NoError(t, fresh.Refresh(ctx))
	priv, ok = fresh.PrivilegeOf(5)
	require.True(t, ok)
	require.Equal(t, uint32(0b0111), priv)
}

func TestLimitsRefresh(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO level_limits (episode, difficulty, min_level, max_level) VALUES (1, 0, 1, 40)`)
	require.NoError(t, err)

	limits := NewLimits(s)
	require.Equal(t, 99, limits.Int("1:0:max", 99), "cache empty before Refresh")

	require.NoError(t, limits.Refresh(ctx))
	require.Equal(t, 40, limits.Int("1:0:max", 99))
	require.Equal(t, 1, limits.Int("1:0:min", -1))
}
