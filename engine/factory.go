package engine

import "time"

// One shared, stateless engine per family.
var (
	gomokuEngine Engine = GomokuEngine{}
	goEngine     Engine = GoEngine{}
)

// EngineFor resolves a family to its engine.
func EngineFor(family GameFamily) (Engine, error) {
	switch family {
	case Gomoku:
		return gomokuEngine, nil
	case Go:
		return goEngine, nil
	}
	return nil, &UnsupportedGameTypeError{Family: family}
}

// Play dispatches to the engine of g's ruleset.
func Play(g *Game, playerID string, row, col int, now time.Time) (Move, error) {
	if g.RuleSet == nil {
		return Move{}, &UnsupportedGameTypeError{}
	}
	e, err := EngineFor(g.RuleSet.Family)
	if err != nil {
		return Move{}, err
	}
	return e.MakeMove(g, playerID, row, col, now)
}

// Pass submits the pass sentinel. Only the Go family accepts it; elsewhere
// it fails bounds validation.
func Pass(g *Game, playerID string, now time.Time) (Move, error) {
	return Play(g, playerID, PassPoint.Row, PassPoint.Col, now)
}
