package engine

import (
	"time"
)

// ---------- Game (runtime aggregate) ----------

// Game is the aggregate the engine mutates.
//
// Fields:
//   - ID: opaque identifier assigned by the caller
//   - BlackPlayerID / WhitePlayerID: seats; White may be empty for practice
//   - RuleSet: shared, never modified
//   - Status / CurrentPlayer: lifecycle and color to move
//   - Board: exclusively owned grid, mutated only through an Engine
//   - MoveCount: number of accepted moves (equals the persisted Move rows)
//   - WinnerID: set when a player won; empty for draws, Go two-pass ends and abandonment
//   - Opening: swap2 state while the tournament opening is running, nil otherwise
type Game struct {
	ID            string      `json:"id"`
	BlackPlayerID string      `json:"black_player_id"`
	WhitePlayerID string      `json:"white_player_id,omitempty"`
	RuleSet       *RuleSet    `json:"ruleset"`
	Status        GameStatus  `json:"status"`
	CurrentPlayer Cell        `json:"current_player"`
	Board         *BoardState `json:"board_state"`
	MoveCount     int         `json:"move_count"`
	WinnerID      string      `json:"winner_id,omitempty"`
	Opening       *Swap2State `json:"opening,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	StartedAt     *time.Time  `json:"started_at,omitempty"`
	FinishedAt    *time.Time  `json:"finished_at,omitempty"`
	LastMoveAt    time.Time   `json:"last_move_at"`
}

// NewGame returns a WAITING game with an empty board sized per the ruleset.
// It never fails; validate the ruleset first.
func NewGame(id, blackID, whiteID string, rs *RuleSet, now time.Time) *Game {
	return &Game{
		ID:            id,
		BlackPlayerID: blackID,
		WhitePlayerID: whiteID,
		RuleSet:       rs,
		Status:        Waiting,
		CurrentPlayer: Black,
		Board:         NewBoardState(rs.BoardSize, rs.Family),
		CreatedAt:     now,
		LastMoveAt:    now,
	}
}

// Practice reports whether the game has no second seat. In practice mode
// the black player submits moves for both colors.
func (g *Game) Practice() bool { return g.WhitePlayerID == "" }

// IsPlayer reports whether playerID holds a seat.
func (g *Game) IsPlayer(playerID string) bool {
	if playerID == "" {
		return false
	}
	return playerID == g.BlackPlayerID || playerID == g.WhitePlayerID
}

// PlayerFor returns the id seated at color c (black for white in practice).
func (g *Game) PlayerFor(c Cell) string {
	if c == White && !g.Practice() {
		return g.WhitePlayerID
	}
	return g.BlackPlayerID
}

// Opponent returns the other seat's id, or "" if there is none.
func (g *Game) Opponent(playerID string) string {
	switch playerID {
	case g.BlackPlayerID:
		return g.WhitePlayerID
	case g.WhitePlayerID:
		return g.BlackPlayerID
	}
	return ""
}

// Mover returns the player id entitled to submit the next move.
func (g *Game) Mover() string {
	if g.Opening.InProgress() {
		return g.Opening.Actor(g)
	}
	return g.PlayerFor(g.CurrentPlayer)
}

// Snapshot returns a deep copy safe to hand to renderers and stores.
// The ruleset stays shared.
func (g *Game) Snapshot() *Game {
	out := *g
	out.Board = g.Board.Clone()
	if g.Opening != nil {
		o := *g.Opening
		out.Opening = &o
	}
	if g.StartedAt != nil {
		t := *g.StartedAt
		out.StartedAt = &t
	}
	if g.FinishedAt != nil {
		t := *g.FinishedAt
		out.FinishedAt = &t
	}
	return &out
}

// ---------- Lifecycle ----------

// Join seats playerID as white. The creator cannot join their own game.
func (g *Game) Join(playerID string) error {
	if g.Status != Waiting {
		return &TransitionError{From: g.Status, Op: "join"}
	}
	if playerID == "" || playerID == g.BlackPlayerID {
		return &playerError{kind: ErrNotAPlayer, PlayerID: playerID}
	}
	if g.WhitePlayerID != "" {
		return &TransitionError{From: g.Status, Op: "join a full"}
	}
	g.WhitePlayerID = playerID
	return nil
}

// Start moves WAITING to ACTIVE with black to move. A swap2 ruleset needs
// both seats and begins in the opening.
func (g *Game) Start(now time.Time) error {
	if g.Status != Waiting {
		return &TransitionError{From: g.Status, Op: "start"}
	}
	if g.RuleSet.Forbidden.Swap2Opening && g.RuleSet.Family == Gomoku {
		if g.Practice() {
			return ErrOpponentRequired
		}
		g.Opening = newSwap2()
	}
	g.Status = Active
	g.CurrentPlayer = Black
	g.StartedAt = &now
	g.LastMoveAt = now
	return nil
}

// Resign ends the game in the opponent's favor. Without an opponent (or
// before the game started) the game is abandoned instead.
func (g *Game) Resign(playerID string, now time.Time) error {
	if g.Status.Terminal() {
		return &TransitionError{From: g.Status, Op: "resign"}
	}
	if !g.IsPlayer(playerID) {
		return &playerError{kind: ErrNotAPlayer, PlayerID: playerID}
	}
	if g.Status == Waiting || g.Practice() {
		g.abandon(now)
		return nil
	}
	g.finish(g.Opponent(playerID), now)
	return nil
}

// Abandon moves a WAITING or ACTIVE game to ABANDONED.
func (g *Game) Abandon(now time.Time) error {
	if g.Status.Terminal() {
		return &TransitionError{From: g.Status, Op: "abandon"}
	}
	g.abandon(now)
	return nil
}

func (g *Game) abandon(now time.Time) {
	g.Status = Abandoned
	g.Opening = nil
	g.FinishedAt = &now
	g.LastMoveAt = now
}

// finish closes the game. An empty winner records a draw.
func (g *Game) finish(winnerID string, now time.Time) {
	g.Status = Finished
	g.WinnerID = winnerID
	g.Opening = nil
	g.FinishedAt = &now
	g.LastMoveAt = now
}

func (g *Game) toggleTurn() {
	g.CurrentPlayer = g.CurrentPlayer.Opponent()
}
