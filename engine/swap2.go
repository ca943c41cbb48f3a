package engine

import (
	"fmt"
	"strings"
	"time"
)

//
// Swap2 tournament opening.
//
// Stones still alternate black/white from move 1; the opening only decides
// which player id may submit them and who ends up with which color:
//
//	PLACE  black seat places moves 1-3 (B, W, B)
//	CHOOSE white seat picks stay / swap / add
//	ADD    white seat places moves 4-5 (W, B)
//	COLOR  black seat picks the final color
//

// OpeningPhase is the swap2 step currently running.
type OpeningPhase uint8

const (
	OpeningNone   OpeningPhase = 0 // not in opening
	OpeningPlace  OpeningPhase = 1 // creator places 3 initial stones
	OpeningChoose OpeningPhase = 2 // opponent decides swap/stay/add
	OpeningAdd    OpeningPhase = 3 // opponent places 2 extra stones
	OpeningColor  OpeningPhase = 4 // creator chooses final color
)

var openingNames = [...]string{"NONE", "PLACE", "CHOOSE", "ADD", "COLOR"}

func (p OpeningPhase) String() string {
	if int(p) < len(openingNames) {
		return openingNames[p]
	}
	return fmt.Sprintf("OpeningPhase(%d)", uint8(p))
}

func (p OpeningPhase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *OpeningPhase) UnmarshalText(b []byte) error {
	for i, n := range openingNames {
		if strings.EqualFold(n, string(b)) {
			*p = OpeningPhase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown opening phase %q", string(b))
}

// Stones placed in each placing phase.
const (
	swap2OpeningStones = 3
	swap2ExtraStones   = 2
)

// SwapChoice is the white seat's answer after the first three stones.
type SwapChoice string

const (
	SwapStay SwapChoice = "stay" // keep white
	SwapTake SwapChoice = "swap" // take black
	SwapAdd  SwapChoice = "add"  // place two more stones, creator picks color
)

// Swap2State tracks the opening. Nil on a Game means no opening.
type Swap2State struct {
	Phase  OpeningPhase `json:"phase"`
	Placed int          `json:"placed"` // stones placed in the current placing phase
}

func newSwap2() *Swap2State {
	return &Swap2State{Phase: OpeningPlace}
}

// InProgress is nil-safe.
func (st *Swap2State) InProgress() bool {
	return st != nil && st.Phase != OpeningNone
}

// Actor returns the player id due to act in the current phase.
func (st *Swap2State) Actor(g *Game) string {
	switch st.Phase {
	case OpeningChoose, OpeningAdd:
		return g.WhitePlayerID
	default:
		return g.BlackPlayerID
	}
}

// acceptsStones reports whether the phase is a placing phase.
func (st *Swap2State) acceptsStones() bool {
	return st.Phase == OpeningPlace || st.Phase == OpeningAdd
}

// afterStone advances the placing counters once a stone was committed.
func (st *Swap2State) afterStone() {
	st.Placed++
	switch {
	case st.Phase == OpeningPlace && st.Placed == swap2OpeningStones:
		st.Phase = OpeningChoose
		st.Placed = 0
	case st.Phase == OpeningAdd && st.Placed == swap2ExtraStones:
		st.Phase = OpeningColor
		st.Placed = 0
	}
}

// ---------- Decisions ----------

// ChooseSwap applies the white seat's decision after the opening stones.
func ChooseSwap(g *Game, playerID string, choice SwapChoice, now time.Time) error {
	if err := requireOpeningActor(g, playerID, OpeningChoose); err != nil {
		return err
	}
	switch choice {
	case SwapStay:
	case SwapTake:
		swapSeats(g)
	case SwapAdd:
		g.Opening.Phase = OpeningAdd
		g.Opening.Placed = 0
		g.LastMoveAt = now
		return nil
	default:
		return &OpeningError{Phase: g.Opening.Phase, Reason: fmt.Sprintf("invalid choice %q", string(choice))}
	}
	g.Opening = nil
	g.LastMoveAt = now
	return nil
}

// ChooseColor lets the black seat pick the final color after ADD.
func ChooseColor(g *Game, playerID string, color Cell, now time.Time) error {
	if err := requireOpeningActor(g, playerID, OpeningColor); err != nil {
		return err
	}
	switch color {
	case Black:
	case White:
		swapSeats(g)
	default:
		return &OpeningError{Phase: g.Opening.Phase, Reason: "color must be black or white"}
	}
	g.Opening = nil
	g.LastMoveAt = now
	return nil
}

func requireOpeningActor(g *Game, playerID string, phase OpeningPhase) error {
	if g.Status != Active {
		return &GameNotActiveError{Status: g.Status}
	}
	if !g.Opening.InProgress() {
		return &OpeningError{Phase: OpeningNone, Reason: "not in opening"}
	}
	if g.Opening.Phase != phase {
		return &OpeningError{Phase: g.Opening.Phase, Reason: "wrong phase"}
	}
	if !g.IsPlayer(playerID) {
		return &playerError{kind: ErrNotAPlayer, PlayerID: playerID}
	}
	if playerID != g.Opening.Actor(g) {
		return &OpeningError{Phase: g.Opening.Phase, Reason: "not your opening turn"}
	}
	return nil
}

func swapSeats(g *Game) {
	g.BlackPlayerID, g.WhitePlayerID = g.WhitePlayerID, g.BlackPlayerID
}
