package engine

import "time"

// passesToFinish consecutive passes end a Go game.
const passesToFinish = 2

// GoEngine plays the Go family: stones or passes, ended by two consecutive
// passes. Captures, ko and scoring are not implemented; the board's Captured
// and KoPosition fields are carried as-is.
type GoEngine struct{}

func (GoEngine) Family() GameFamily { return Go }

// MakeMove accepts a stone at (row,col) or a pass at (-1,-1).
func (e GoEngine) MakeMove(g *Game, playerID string, row, col int, now time.Time) (Move, error) {
	if err := requireFamily(g, e.Family()); err != nil {
		return Move{}, err
	}
	if err := Validate(g, playerID, row, col); err != nil {
		return Move{}, err
	}

	p := Point{Row: row, Col: col}
	color := g.CurrentPlayer
	m, err := nextMove(g, playerID, p, color, now)
	if err != nil {
		return Move{}, err
	}

	if p.IsPass() {
		g.Board.ConsecutivePasses++
	} else {
		g.Board.Set(row, col, color)
		g.Board.ConsecutivePasses = 0
	}
	g.MoveCount = m.Number
	g.LastMoveAt = now

	if g.Board.ConsecutivePasses >= passesToFinish {
		g.finish("", now)
		return m, nil
	}
	g.toggleTurn()
	return m, nil
}
