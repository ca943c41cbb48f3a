package engine

import "time"

// TimedOut reports whether the player due to act has exceeded limit since
// the last accepted move. A non-positive limit disables timeouts.
func (g *Game) TimedOut(now time.Time, limit time.Duration) bool {
	if g.Status != Active || limit <= 0 {
		return false
	}
	return now.After(g.LastMoveAt.Add(limit))
}

// ClaimTimeout closes an ACTIVE game in favor of claimantID when the
// opponent failed to act within limit. The player due to act cannot claim.
func ClaimTimeout(g *Game, claimantID string, now time.Time, limit time.Duration) error {
	if g.Status != Active {
		return &GameNotActiveError{Status: g.Status}
	}
	if !g.IsPlayer(claimantID) {
		return &playerError{kind: ErrNotAPlayer, PlayerID: claimantID}
	}
	if g.Practice() {
		return ErrOpponentRequired
	}
	if claimantID == g.Mover() {
		if g.Opening.InProgress() {
			return &OpeningError{Phase: g.Opening.Phase, Reason: "claimant is due to act"}
		}
		return &WrongTurnError{Expected: g.CurrentPlayer}
	}
	if !g.TimedOut(now, limit) {
		return ErrTimeoutNotReached
	}
	g.finish(claimantID, now)
	return nil
}
