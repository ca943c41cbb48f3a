package engine

// Validate decides whether playerID may place a stone at (row,col), or pass
// with (-1,-1) on the Go family. Checks run in a fixed order and stop at the
// first failure:
//
//  1. the game is ACTIVE
//  2. a swap2 opening, if running, is in a stone-placing phase
//  3. playerID holds a seat in the game
//  4. playerID is the one due to move (the seat of CurrentPlayer, or the
//     swap2 opening actor)
//  5. a Go pass is legal here; otherwise (row,col) must be on the board
//  6. the target cell is empty
//
// Validate never mutates the game.
func Validate(g *Game, playerID string, row, col int) error {
	if g.Status != Active {
		return &GameNotActiveError{Status: g.Status}
	}

	if g.Opening.InProgress() && !g.Opening.acceptsStones() {
		return &OpeningError{Phase: g.Opening.Phase, Reason: "decision pending, no stones accepted"}
	}
	if !g.IsPlayer(playerID) {
		return &playerError{kind: ErrNotAPlayer, PlayerID: playerID}
	}
	if playerID != g.Mover() {
		return &WrongTurnError{Expected: g.CurrentPlayer}
	}

	if g.RuleSet.Family == Go && (Point{Row: row, Col: col}).IsPass() {
		return nil
	}
	if !g.Board.InBounds(row, col) {
		return &OutOfBoundsError{Row: row, Col: col, Size: g.Board.Size()}
	}

	if !g.Board.IsEmpty(row, col) {
		return &PositionOccupiedError{Row: row, Col: col}
	}

	// Renju restrictions (black double-three / double-four / overline) are
	// carried on the ruleset but not enforced.
	return nil
}
