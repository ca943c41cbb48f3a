// Package storetest holds the behavior every GameStore must share.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okinoko-gomoku/engine"
	"okinoko-gomoku/store"
)

// Factory opens an empty store for one subtest.
type Factory func(t *testing.T) store.GameStore

var base = time.Date(2026, time.May, 1, 12, 0, 0, 0, time.UTC)

func newGame(t *testing.T, id, black, white, ruleset string, created time.Time) *engine.Game {
	t.Helper()
	rs, ok := engine.DefaultCatalog().Lookup(ruleset)
	require.True(t, ok)
	return engine.NewGame(id, black, white, rs, created)
}

// RunGameStore exercises the GameStore contract against stores from f.
func RunGameStore(t *testing.T, f Factory) {
	t.Run("create and get", func(t *testing.T) {
		s := f(t)
		ctx := context.Background()
		g := newGame(t, "g1", "alice", "", "go9", base)

		require.NoError(t, s.CreateGame(ctx, g))
		assert.ErrorIs(t, s.CreateGame(ctx, g), store.ErrAlreadyExists)

		got, err := s.GetGame(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, "alice", got.BlackPlayerID)
		assert.Empty(t, got.WhitePlayerID)
		assert.Equal(t, engine.Waiting, got.Status)
		assert.Equal(t, engine.Go, got.RuleSet.Family)
		require.NotNil(t, got.RuleSet.Komi)
		assert.Equal(t, 5.5, *got.RuleSet.Komi)
		assert.True(t, g.Board.Equal(got.Board))
		assert.True(t, base.Equal(got.CreatedAt))
		assert.Nil(t, got.StartedAt)

		_, err = s.GetGame(ctx, "missing")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("ruleset name conflict", func(t *testing.T) {
		s := f(t)
		ctx := context.Background()
		club := engine.RuleSet{Name: "club", Family: engine.Gomoku, BoardSize: 13}
		require.NoError(t, s.CreateGame(ctx, engine.NewGame("g1", "alice", "", &club, base)))

		same := club
		same.Name = "CLUB"
		require.NoError(t, s.CreateGame(ctx, engine.NewGame("g2", "alice", "", &same, base)))

		other := engine.RuleSet{Name: "Club", Family: engine.Gomoku, BoardSize: 9}
		assert.ErrorIs(t, s.CreateGame(ctx, engine.NewGame("g3", "alice", "", &other, base)), store.ErrAlreadyExists)
		_, err := s.GetGame(ctx, "g3")
		assert.ErrorIs(t, err, store.ErrNotFound)

		got, err := s.GetGame(ctx, "g2")
		require.NoError(t, err)
		assert.Equal(t, 13, got.RuleSet.BoardSize)
	})

	t.Run("returned games are copies", func(t *testing.T) {
		s := f(t)
		ctx := context.Background()
		require.NoError(t, s.CreateGame(ctx, newGame(t, "g1", "alice", "bob", "standard", base)))

		got, err := s.GetGame(ctx, "g1")
		require.NoError(t, err)
		got.Board.Set(0, 0, engine.Black)

		again, err := s.GetGame(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, engine.Empty, again.Board.At(0, 0))
	})

	t.Run("update lifecycle", func(t *testing.T) {
		s := f(t)
		ctx := context.Background()
		g := newGame(t, "g1", "alice", "", "swap2", base)
		require.NoError(t, s.CreateGame(ctx, g))

		require.NoError(t, g.Join("bob"))
		require.NoError(t, g.Start(base.Add(time.Minute)))
		require.NoError(t, s.UpdateGame(ctx, g))

		got, err := s.GetGame(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, "bob", got.WhitePlayerID)
		assert.Equal(t, engine.Active, got.Status)
		require.NotNil(t, got.StartedAt)
		assert.True(t, base.Add(time.Minute).Equal(*got.StartedAt))
		require.NotNil(t, got.Opening)
		assert.Equal(t, engine.OpeningPlace, got.Opening.Phase)

		ghost := newGame(t, "ghost", "x", "", "standard", base)
		assert.ErrorIs(t, s.UpdateGame(ctx, ghost), store.ErrNotFound)
	})

	t.Run("append moves", func(t *testing.T) {
		s := f(t)
		ctx := context.Background()
		g := newGame(t, "g1", "alice", "bob", "standard", base)
		require.NoError(t, g.Start(base))
		require.NoError(t, s.CreateGame(ctx, g))

		var played []engine.Move
		for i, p := range [][2]int{{7, 7}, {7, 8}, {8, 8}} {
			m, err := engine.Play(g, g.Mover(), p[0], p[1], base.Add(time.Duration(i+1)*time.Second))
			require.NoError(t, err)
			require.NoError(t, s.AppendMove(ctx, g, m))
			played = append(played, m)
		}

		stale := played[1]
		assert.ErrorIs(t, s.AppendMove(ctx, g, stale), engine.ErrSequentialMoveNumber)

		moves, err := s.ListMoves(ctx, "g1")
		require.NoError(t, err)
		require.Len(t, moves, 3)
		for i, m := range moves {
			assert.Equal(t, i+1, m.Number)
			assert.Equal(t, played[i].Point(), m.Point())
			assert.Equal(t, played[i].Color, m.Color)
			assert.Equal(t, played[i].PlayerID, m.PlayerID)
			assert.True(t, played[i].CreatedAt.Equal(m.CreatedAt))
		}

		got, err := s.GetGame(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, 3, got.MoveCount)
		assert.Equal(t, engine.White, got.CurrentPlayer)
		assert.True(t, g.Board.Equal(got.Board))

		_, err = s.ListMoves(ctx, "missing")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("go passes persist", func(t *testing.T) {
		s := f(t)
		ctx := context.Background()
		g := newGame(t, "g1", "alice", "bob", "go9", base)
		require.NoError(t, g.Start(base))
		require.NoError(t, s.CreateGame(ctx, g))

		m, err := engine.Pass(g, "alice", base)
		require.NoError(t, err)
		require.NoError(t, s.AppendMove(ctx, g, m))

		moves, err := s.ListMoves(ctx, "g1")
		require.NoError(t, err)
		require.Len(t, moves, 1)
		assert.True(t, moves[0].IsPass())

		got, err := s.GetGame(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, 1, got.Board.ConsecutivePasses)
	})

	t.Run("list filters", func(t *testing.T) {
		s := f(t)
		ctx := context.Background()
		a := newGame(t, "a", "alice", "bob", "standard", base)
		b := newGame(t, "b", "carol", "alice", "standard", base.Add(time.Hour))
		c := newGame(t, "c", "carol", "dave", "mini", base.Add(2*time.Hour))
		require.NoError(t, c.Start(base))
		for _, g := range []*engine.Game{a, b, c} {
			require.NoError(t, s.CreateGame(ctx, g))
		}

		all, err := s.ListGames(ctx, store.ListFilter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"c", "b", "a"}, ids(all))

		mine, err := s.ListGames(ctx, store.ListFilter{PlayerID: "alice"})
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "a"}, ids(mine))

		active := engine.Active
		running, err := s.ListGames(ctx, store.ListFilter{Status: &active})
		require.NoError(t, err)
		assert.Equal(t, []string{"c"}, ids(running))

		first, err := s.ListGames(ctx, store.ListFilter{Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, []string{"c"}, ids(first))
	})
}

// RunRuleSetStore exercises the RuleSetStore contract.
func RunRuleSetStore(t *testing.T, open func(t *testing.T) store.RuleSetStore) {
	s := open(t)
	ctx := context.Background()

	require.NoError(t, s.PutRuleSet(ctx, engine.RuleSet{Name: "club", Family: engine.Gomoku, BoardSize: 13, AllowOverlines: true}))
	assert.ErrorIs(t, s.PutRuleSet(ctx, engine.RuleSet{Name: "club", Family: engine.Gomoku, BoardSize: 9}), store.ErrAlreadyExists)
	assert.ErrorIs(t, s.PutRuleSet(ctx, engine.RuleSet{Name: "CLUB", Family: engine.Gomoku, BoardSize: 13, AllowOverlines: true}), store.ErrAlreadyExists)
	assert.ErrorIs(t, s.PutRuleSet(ctx, engine.RuleSet{Name: "bad", Family: engine.Gomoku, BoardSize: 3}), engine.ErrInvalidRuleSet)

	all, err := s.ListRuleSets(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 13, all[0].BoardSize)
	assert.True(t, all[0].AllowOverlines)
}

func ids(games []*engine.Game) []string {
	out := make([]string, 0, len(games))
	for _, g := range games {
		out = append(out, g.ID)
	}
	return out
}
