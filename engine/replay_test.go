package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplay_RebuildsBoard(t *testing.T) {
	rs := preset(t, "standard")
	g := activeGame(t, rs)
	var moves []Move
	for _, p := range scenarioOpening {
		moves = append(moves, play(t, g, p[0], p[1]))
	}

	b, err := Replay(rs, moves)
	require.NoError(t, err)
	assert.True(t, b.Equal(g.Board))
	assert.Equal(t, g.Board.ASCII(), b.ASCII())
}

func TestReplay_GoPasses(t *testing.T) {
	rs := preset(t, "go9")
	g := activeGame(t, rs)
	m1, err := Pass(g, "alice", t0)
	require.NoError(t, err)
	m2, err := Pass(g, "bob", t0)
	require.NoError(t, err)

	b, err := Replay(rs, []Move{m1, m2})
	require.NoError(t, err)
	assert.Equal(t, 2, b.ConsecutivePasses)
	assert.True(t, b.Equal(g.Board))
}

func TestReplay_RejectsBrokenLogs(t *testing.T) {
	rs := preset(t, "standard")
	mv := func(n, row, col int, c Cell) Move {
		return Move{Number: n, Row: row, Col: col, Color: c}
	}

	tests := []struct {
		name  string
		moves []Move
		want  error
	}{
		{"gap", []Move{mv(1, 0, 0, Black), mv(3, 0, 1, Black)}, ErrSequentialMoveNumber},
		{"starts at zero", []Move{mv(0, 0, 0, Black)}, ErrSequentialMoveNumber},
		{"same color twice", []Move{mv(1, 0, 0, Black), mv(2, 0, 1, Black)}, ErrInvalidMoveLog},
		{"reused cell", []Move{mv(1, 0, 0, Black), mv(2, 0, 0, White)}, ErrInvalidMoveLog},
		{"off board", []Move{mv(1, 15, 0, Black)}, ErrInvalidMoveLog},
		{"pass in gomoku", []Move{mv(1, -1, -1, Black)}, ErrInvalidMoveLog},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Replay(rs, tt.moves)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
