package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func preset(t *testing.T, name string) *RuleSet {
	t.Helper()
	rs, ok := DefaultCatalog().Lookup(name)
	require.True(t, ok, "preset %s", name)
	return rs
}

// activeGame returns a started alice (black) vs bob (white) game.
func activeGame(t *testing.T, rs *RuleSet) *Game {
	t.Helper()
	g := NewGame("g1", "alice", "bob", rs, t0)
	require.NoError(t, g.Start(t0))
	return g
}

// play submits (row,col) as whoever is due to move.
func play(t *testing.T, g *Game, row, col int) Move {
	t.Helper()
	m, err := Play(g, g.Mover(), row, col, t0)
	require.NoError(t, err)
	return m
}

// scenarioOpening is black on row 7 from col 3, white on row 0, minus the last black stone.
var scenarioOpening = [][2]int{
	{7, 3}, {0, 0}, {7, 4}, {0, 1}, {7, 5}, {0, 2}, {7, 6}, {0, 3},
}

func TestMakeMove_ExactFiveWins(t *testing.T) {
	g := activeGame(t, preset(t, "standard"))
	for i, p := range scenarioOpening {
		m := play(t, g, p[0], p[1])
		assert.Equal(t, i+1, m.Number)
		assert.Equal(t, ExpectedColor(i+1), m.Color)
		assert.False(t, m.IsWinning)
	}

	m := play(t, g, 7, 7)
	assert.Equal(t, 9, m.Number)
	assert.Equal(t, Black, m.Color)
	assert.True(t, m.IsWinning)
	assert.Equal(t, Finished, g.Status)
	assert.Equal(t, g.BlackPlayerID, g.WinnerID)
	assert.Equal(t, 9, g.MoveCount)
	require.NotNil(t, g.FinishedAt)

	_, err := Play(g, "bob", 1, 1, t0)
	var notActive *GameNotActiveError
	require.ErrorAs(t, err, &notActive)
	assert.Equal(t, Finished, notActive.Status)
}

func TestMakeMove_OverlineUnderExactFive(t *testing.T) {
	rs := &RuleSet{Name: "exact", Family: Gomoku, BoardSize: 15}
	g := activeGame(t, rs)
	g.Board.Set(7, 8, Black)
	for _, p := range scenarioOpening {
		play(t, g, p[0], p[1])
	}

	m := play(t, g, 7, 7)
	assert.False(t, m.IsWinning, "a run of six must not win")
	assert.Equal(t, Active, g.Status)
	assert.Equal(t, White, g.CurrentPlayer)
	assert.Empty(t, g.WinnerID)
}

func TestMakeMove_OverlineUnderFreestyle(t *testing.T) {
	g := activeGame(t, preset(t, "freestyle"))
	g.Board.Set(7, 8, Black)
	for _, p := range scenarioOpening {
		play(t, g, p[0], p[1])
	}
	m := play(t, g, 7, 7)
	assert.True(t, m.IsWinning)
	assert.Equal(t, "alice", g.WinnerID)
}

func TestMakeMove_OutOfBounds(t *testing.T) {
	g := activeGame(t, preset(t, "standard"))

	_, err := Play(g, "alice", 15, 0, t0)
	var oob *OutOfBoundsError
	require.ErrorAs(t, err, &oob)
	assert.Equal(t, 15, oob.Row)
	assert.Equal(t, 15, oob.Size)
	assert.True(t, errors.Is(err, ErrOutOfBounds))
	assert.Equal(t, CodeOutOfBounds, CodeOf(err))
	assert.Equal(t, "15", Metadata(err)["row"])

	// pass sentinel is not a coordinate outside the go family
	_, err = Play(g, "alice", -1, -1, t0)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	assert.Zero(t, g.MoveCount)
}

func TestMakeMove_RejectsWithoutMutation(t *testing.T) {
	g := activeGame(t, preset(t, "standard"))
	play(t, g, 7, 7)
	before := g.Snapshot()

	tests := []struct {
		name     string
		player   string
		row, col int
		want     error
	}{
		{"wrong turn", "alice", 3, 3, ErrWrongTurn},
		{"stranger", "mallory", 3, 3, ErrNotAPlayer},
		{"occupied", "bob", 7, 7, ErrPositionOccupied},
		{"negative", "bob", -2, 4, ErrOutOfBounds},
		{"col past edge", "bob", 4, 15, ErrOutOfBounds},
		{"negative col", "bob", 4, -1, ErrOutOfBounds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Play(g, tt.player, tt.row, tt.col, t0)
			require.ErrorIs(t, err, tt.want)
			assert.True(t, before.Board.Equal(g.Board))
			assert.Equal(t, before.MoveCount, g.MoveCount)
			assert.Equal(t, before.CurrentPlayer, g.CurrentPlayer)
		})
	}
}

func TestMakeMove_WhiteCannotOpen(t *testing.T) {
	g := activeGame(t, preset(t, "standard"))

	_, err := Play(g, "bob", 7, 7, t0)
	var wt *WrongTurnError
	require.ErrorAs(t, err, &wt)
	assert.Equal(t, Black, wt.Expected)
	assert.Zero(t, g.MoveCount)
	assert.True(t, g.Board.IsEmpty(7, 7))
	assert.Equal(t, Black, g.CurrentPlayer)
}

func TestMakeMove_WaitingGame(t *testing.T) {
	g := NewGame("g1", "alice", "", preset(t, "standard"), t0)
	_, err := Play(g, "alice", 0, 0, t0)
	assert.ErrorIs(t, err, ErrGameNotActive)
}

func TestMakeMove_FullBoardIsDraw(t *testing.T) {
	// BBWWB / WWBBW alternating rows: no five in any direction.
	var blacks, whites [][2]int
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			black := c == 0 || c == 1 || c == 4
			if r%2 == 1 {
				black = !black
			}
			if black {
				blacks = append(blacks, [2]int{r, c})
			} else {
				whites = append(whites, [2]int{r, c})
			}
		}
	}
	require.Len(t, blacks, 13)
	require.Len(t, whites, 12)

	g := activeGame(t, preset(t, "tiny"))
	for i := 0; i < 25; i++ {
		p := blacks[i/2]
		if i%2 == 1 {
			p = whites[i/2]
		}
		m := play(t, g, p[0], p[1])
		assert.False(t, m.IsWinning)
	}
	assert.True(t, g.Board.Full())
	assert.Equal(t, Finished, g.Status)
	assert.Empty(t, g.WinnerID)
}

func TestMakeMove_PracticeMode(t *testing.T) {
	g := NewGame("g1", "alice", "", preset(t, "standard"), t0)
	require.NoError(t, g.Start(t0))

	m1 := play(t, g, 0, 0)
	m2 := play(t, g, 1, 1)
	assert.Equal(t, "alice", m1.PlayerID)
	assert.Equal(t, "alice", m2.PlayerID)
	assert.Equal(t, Black, m1.Color)
	assert.Equal(t, White, m2.Color)
}

func TestGoEngine_TwoPassesFinish(t *testing.T) {
	g := activeGame(t, preset(t, "go9"))

	m, err := Pass(g, "alice", t0)
	require.NoError(t, err)
	assert.True(t, m.IsPass())
	assert.Equal(t, Black, m.Color)
	assert.Equal(t, Active, g.Status)
	assert.Equal(t, 1, g.Board.ConsecutivePasses)

	m, err = Pass(g, "bob", t0)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Number)
	assert.Equal(t, White, m.Color)
	assert.Equal(t, Finished, g.Status)
	assert.Equal(t, 2, g.Board.ConsecutivePasses)
	assert.Empty(t, g.WinnerID)
}

func TestGoEngine_StoneResetsPasses(t *testing.T) {
	g := activeGame(t, preset(t, "go9"))
	_, err := Pass(g, "alice", t0)
	require.NoError(t, err)
	play(t, g, 4, 4)
	assert.Zero(t, g.Board.ConsecutivePasses)
	_, err = Pass(g, "alice", t0)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Board.ConsecutivePasses)
	assert.Equal(t, Active, g.Status)
	assert.Equal(t, 3, g.MoveCount)
	assert.Nil(t, g.Board.KoPosition)
	assert.Equal(t, Captures{}, g.Board.Captured)
}

func TestGoEngine_NoFiveInARowWin(t *testing.T) {
	g := activeGame(t, preset(t, "go9"))
	for c := 0; c < 5; c++ {
		m := play(t, g, 0, c)
		assert.False(t, m.IsWinning)
		if c < 4 {
			play(t, g, 8, c)
		}
	}
	assert.Equal(t, Active, g.Status)
}

func TestEngineFor(t *testing.T) {
	e, err := EngineFor(Gomoku)
	require.NoError(t, err)
	assert.Equal(t, Gomoku, e.Family())

	e, err = EngineFor(Go)
	require.NoError(t, err)
	assert.Equal(t, Go, e.Family())

	_, err = EngineFor("CHESS")
	var unsupported *UnsupportedGameTypeError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, GameFamily("CHESS"), unsupported.Family)
	assert.Equal(t, CodeUnsupportedGameType, CodeOf(err))
}

func TestEngine_FamilyMismatch(t *testing.T) {
	g := activeGame(t, preset(t, "go9"))
	_, err := GomokuEngine{}.MakeMove(g, "alice", 0, 0, t0)
	assert.ErrorIs(t, err, ErrUnsupportedGameType)
}

func TestCheckSequence(t *testing.T) {
	assert.NoError(t, CheckSequence(0, 1))
	assert.NoError(t, CheckSequence(41, 42))

	err := CheckSequence(3, 5)
	var seq *SequentialMoveNumberError
	require.ErrorAs(t, err, &seq)
	assert.Equal(t, 4, seq.Expected)
	assert.Equal(t, 5, seq.Got)
}
