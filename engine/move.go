package engine

import "time"

// Move is one accepted ply. Immutable once returned by an engine.
type Move struct {
	GameID    string    `json:"game_id"`
	PlayerID  string    `json:"player_id"`
	Number    int       `json:"move_number"` // 1-based, strictly sequential
	Row       int       `json:"row"`         // -1 for a Go pass
	Col       int       `json:"col"`         // -1 for a Go pass
	Color     Cell      `json:"player_color"`
	IsWinning bool      `json:"is_winning_move"`
	CreatedAt time.Time `json:"created_at"`
}

// Point returns the move's coordinate.
func (m Move) Point() Point { return Point{Row: m.Row, Col: m.Col} }

// IsPass reports whether the move is the Go pass sentinel.
func (m Move) IsPass() bool { return m.Point().IsPass() }

// ExpectedColor is the color of ply n under strict alternation:
// black on odd numbers, white on even.
func ExpectedColor(n int) Cell {
	if n%2 == 1 {
		return Black
	}
	return White
}

// CheckSequence guards the append-only log: next must directly follow prev.
func CheckSequence(prev, next int) error {
	if prev < 0 || next != prev+1 {
		return &SequentialMoveNumberError{Expected: prev + 1, Got: next}
	}
	return nil
}

// nextMove builds the record for the ply about to be committed on g.
// It does not touch g.
func nextMove(g *Game, playerID string, p Point, color Cell, now time.Time) (Move, error) {
	n := g.MoveCount + 1
	if err := CheckSequence(g.MoveCount, n); err != nil {
		return Move{}, err
	}
	return Move{
		GameID:    g.ID,
		PlayerID:  playerID,
		Number:    n,
		Row:       p.Row,
		Col:       p.Col,
		Color:     color,
		CreatedAt: now,
	}, nil
}
