package archive

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okinoko-gomoku/engine"
)

var start = time.Date(2026, time.June, 3, 18, 0, 0, 0, time.UTC)

func playedGame(t *testing.T) (*engine.Game, []engine.Move) {
	t.Helper()
	rs, ok := engine.DefaultCatalog().Lookup("standard")
	require.True(t, ok)
	g := engine.NewGame("arch-1", "alice", "bob", rs, start)
	require.NoError(t, g.Start(start))

	var moves []engine.Move
	for i, p := range [][2]int{{7, 3}, {0, 0}, {7, 4}, {0, 1}, {7, 5}, {0, 2}, {7, 6}, {0, 3}, {7, 7}} {
		m, err := engine.Play(g, g.Mover(), p[0], p[1], start.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
		moves = append(moves, m)
	}
	require.Equal(t, engine.Finished, g.Status)
	return g, moves
}

func TestWriteReadGame(t *testing.T) {
	g, moves := playedGame(t)
	path := filepath.Join(t.TempDir(), "nested", "arch-1.parquet")

	require.NoError(t, WriteGame(path, g, moves))
	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	rec, err := ReadGame(path)
	require.NoError(t, err)
	assert.Equal(t, "arch-1", rec.Game.ID)
	assert.Equal(t, engine.Finished, rec.Game.Status)
	assert.Equal(t, "alice", rec.Game.WinnerID)
	require.Len(t, rec.Moves, len(moves))
	for i := range moves {
		assert.Equal(t, moves[i].Point(), rec.Moves[i].Point())
		assert.Equal(t, moves[i].Color, rec.Moves[i].Color)
		assert.Equal(t, moves[i].IsWinning, rec.Moves[i].IsWinning)
		assert.True(t, moves[i].CreatedAt.Equal(rec.Moves[i].CreatedAt))
	}
	assert.NoError(t, rec.Verify())
}

func TestVerifyDetectsTampering(t *testing.T) {
	g, moves := playedGame(t)
	rec := &Record{Game: g, Moves: moves[:len(moves)-1]}
	assert.ErrorIs(t, rec.Verify(), engine.ErrInvalidMoveLog)
}

func TestWriteGameWithoutMoves(t *testing.T) {
	rs, _ := engine.DefaultCatalog().Lookup("go9")
	g := engine.NewGame("empty", "alice", "", rs, start)
	path := filepath.Join(t.TempDir(), "empty.parquet")

	require.NoError(t, WriteGame(path, g, nil))
	rec, err := ReadGame(path)
	require.NoError(t, err)
	assert.Empty(t, rec.Moves)
	assert.Equal(t, engine.Go, rec.Game.RuleSet.Family)
	assert.NoError(t, rec.Verify())
}

func TestReadGameMissingFile(t *testing.T) {
	_, err := ReadGame(filepath.Join(t.TempDir(), "nope.parquet"))
	assert.Error(t, err)
}
