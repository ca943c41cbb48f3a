package engine

import "time"

// Engine implements make_move for one game family. Engines hold no
// per-game state; every call works on the Game passed in.
type Engine interface {
	Family() GameFamily
	MakeMove(g *Game, playerID string, row, col int, now time.Time) (Move, error)
}

// GomokuEngine plays every five-in-a-row variant (standard, freestyle,
// Renju flags, Caro, swap2, any board size).
type GomokuEngine struct{}

func (GomokuEngine) Family() GameFamily { return Gomoku }

// MakeMove validates, places the stone, records the move and evaluates the
// terminal conditions. On any error g is left untouched.
func (e GomokuEngine) MakeMove(g *Game, playerID string, row, col int, now time.Time) (Move, error) {
	if err := requireFamily(g, e.Family()); err != nil {
		return Move{}, err
	}
	if err := Validate(g, playerID, row, col); err != nil {
		return Move{}, err
	}

	color := g.CurrentPlayer
	m, err := nextMove(g, playerID, Point{Row: row, Col: col}, color, now)
	if err != nil {
		return Move{}, err
	}

	// ---- commit ----
	g.Board.Set(row, col, color)
	m.IsWinning = CheckWin(g.Board, row, col, color, g.RuleSet)
	g.MoveCount = m.Number
	g.LastMoveAt = now
	if g.Opening.InProgress() {
		g.Opening.afterStone()
	}

	switch {
	case m.IsWinning:
		// winner keeps the turn; nothing follows
		g.finish(playerID, now)
	case g.Board.Full():
		g.finish("", now)
	default:
		g.toggleTurn()
	}
	return m, nil
}

func requireFamily(g *Game, family GameFamily) error {
	if g.RuleSet == nil || g.RuleSet.Family != family {
		var got GameFamily
		if g.RuleSet != nil {
			got = g.RuleSet.Family
		}
		return &UnsupportedGameTypeError{Family: got}
	}
	return nil
}
