package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okinoko-gomoku/engine"
	"okinoko-gomoku/store"
	"okinoko-gomoku/store/storetest"
)

var createdAt = time.Date(2026, time.May, 2, 8, 30, 0, 0, time.UTC)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "okinoko.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(context.Background(), " ")
	assert.Error(t, err)
}

func TestGameStore(t *testing.T) {
	storetest.RunGameStore(t, func(t *testing.T) store.GameStore { return openTempStore(t) })
}

func TestRuleSetStore(t *testing.T) {
	storetest.RunRuleSetStore(t, func(t *testing.T) store.RuleSetStore { return openTempStore(t) })
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "okinoko.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	rs, _ := engine.DefaultCatalog().Lookup("caro")
	require.NoError(t, s.CreateGame(ctx, engine.NewGame("g1", "alice", "", rs, createdAt)))
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	g, err := s.GetGame(ctx, "g1")
	require.NoError(t, err)
	assert.True(t, g.RuleSet.Forbidden.RequireUnblockedEnd)

	rulesets, err := s.ListRuleSets(ctx)
	require.NoError(t, err)
	require.Len(t, rulesets, 1)
	assert.Equal(t, "caro", rulesets[0].Name)
}
