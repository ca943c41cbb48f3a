package engine

import "fmt"

// Replay rebuilds the board from a persisted move log and checks the log's
// invariants on the way: sequential numbers, strict alternation, distinct
// positions and passes only in the Go family.
func Replay(rs *RuleSet, moves []Move) (*BoardState, error) {
	if rs == nil {
		return nil, &UnsupportedGameTypeError{}
	}
	b := NewBoardState(rs.BoardSize, rs.Family)
	for i, m := range moves {
		if err := CheckSequence(i, m.Number); err != nil {
			return nil, err
		}
		if want := ExpectedColor(m.Number); m.Color != want {
			return nil, fmt.Errorf("%w: move %d is %s, want %s", ErrInvalidMoveLog, m.Number, m.Color, want)
		}
		if m.IsPass() {
			if rs.Family != Go {
				return nil, fmt.Errorf("%w: pass at move %d outside the go family", ErrInvalidMoveLog, m.Number)
			}
			b.ConsecutivePasses++
			continue
		}
		if !b.InBounds(m.Row, m.Col) {
			return nil, fmt.Errorf("%w: move %d at (%d,%d) is off a %dx%d board",
				ErrInvalidMoveLog, m.Number, m.Row, m.Col, rs.BoardSize, rs.BoardSize)
		}
		if !b.IsEmpty(m.Row, m.Col) {
			return nil, fmt.Errorf("%w: move %d reuses (%d,%d)", ErrInvalidMoveLog, m.Number, m.Row, m.Col)
		}
		b.Set(m.Row, m.Col, m.Color)
		b.ConsecutivePasses = 0
	}
	return b, nil
}
