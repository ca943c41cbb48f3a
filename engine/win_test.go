package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boardWith(size int, stones map[Point]Cell) *BoardState {
	b := NewBoardState(size, Gomoku)
	for p, c := range stones {
		b.Set(p.Row, p.Col, c)
	}
	return b
}

func rowOf(row, from, to int, c Cell, into map[Point]Cell) map[Point]Cell {
	if into == nil {
		into = map[Point]Cell{}
	}
	for col := from; col <= to; col++ {
		into[Point{Row: row, Col: col}] = c
	}
	return into
}

func TestCheckWin_Axes(t *testing.T) {
	rs := &RuleSet{Name: "t", Family: Gomoku, BoardSize: 15}
	tests := []struct {
		name   string
		stones []Point
		last   Point
	}{
		{"horizontal", []Point{{3, 2}, {3, 3}, {3, 4}, {3, 5}, {3, 6}}, Point{3, 4}},
		{"vertical", []Point{{0, 9}, {1, 9}, {2, 9}, {3, 9}, {4, 9}}, Point{0, 9}},
		{"diagonal down", []Point{{5, 5}, {6, 6}, {7, 7}, {8, 8}, {9, 9}}, Point{9, 9}},
		{"diagonal up", []Point{{14, 0}, {13, 1}, {12, 2}, {11, 3}, {10, 4}}, Point{12, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBoardState(15, Gomoku)
			for _, p := range tt.stones {
				b.Set(p.Row, p.Col, White)
			}
			assert.True(t, CheckWin(b, tt.last.Row, tt.last.Col, White, rs))
			assert.False(t, CheckWin(b, tt.last.Row, tt.last.Col, Black, rs))
		})
	}
}

func TestCheckWin_FourIsNotEnough(t *testing.T) {
	rs := &RuleSet{Name: "t", Family: Gomoku, BoardSize: 15, AllowOverlines: true}
	b := boardWith(15, rowOf(7, 0, 3, Black, nil))
	assert.False(t, CheckWin(b, 7, 3, Black, rs))
}

func TestCheckWin_Overlines(t *testing.T) {
	b := boardWith(15, rowOf(7, 2, 7, Black, nil))
	exact := &RuleSet{Name: "exact", Family: Gomoku, BoardSize: 15}
	free := &RuleSet{Name: "free", Family: Gomoku, BoardSize: 15, AllowOverlines: true}

	for col := 2; col <= 7; col++ {
		assert.False(t, CheckWin(b, 7, col, Black, exact), "col %d", col)
		assert.True(t, CheckWin(b, 7, col, Black, free), "col %d", col)
	}
}

func TestCheckWin_Caro(t *testing.T) {
	caro := &RuleSet{
		Name: "caro", Family: Gomoku, BoardSize: 15, AllowOverlines: true,
		Forbidden: ForbiddenMoves{RequireUnblockedEnd: true},
	}

	stones := rowOf(7, 3, 7, Black, nil)
	stones[Point{7, 2}] = White
	assert.True(t, CheckWin(boardWith(15, stones), 7, 5, Black, caro), "one open end")

	stones[Point{7, 8}] = White
	assert.False(t, CheckWin(boardWith(15, stones), 7, 5, Black, caro), "both ends blocked")

	// board edge is not a block
	edge := rowOf(0, 0, 4, Black, nil)
	edge[Point{0, 5}] = White
	assert.True(t, CheckWin(boardWith(15, edge), 0, 0, Black, caro))
}

func TestCheckWin_WholeBoardEdgeToEdge(t *testing.T) {
	rs := &RuleSet{Name: "tiny", Family: Gomoku, BoardSize: 5}
	b := boardWith(5, map[Point]Cell{{4, 0}: Black, {3, 1}: Black, {2, 2}: Black, {1, 3}: Black, {0, 4}: Black})
	assert.True(t, CheckWin(b, 2, 2, Black, rs))

	line := WinningLine(b, 2, 2, Black, rs)
	require.Len(t, line, 5)
	assert.Equal(t, Point{4, 0}, line[0])
	assert.Equal(t, Point{0, 4}, line[4])
}

func TestWinningLine_NoWin(t *testing.T) {
	rs := &RuleSet{Name: "t", Family: Gomoku, BoardSize: 15}
	b := boardWith(15, rowOf(1, 1, 3, White, nil))
	assert.Nil(t, WinningLine(b, 1, 2, White, rs))
	assert.Nil(t, WinningLine(b, 9, 9, White, rs))
}
