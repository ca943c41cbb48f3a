package engine

import (
	"errors"
	"fmt"
	"strconv"
)

// Code is the stable, machine-readable kind of an engine error.
// Boundary layers map it to whatever status their transport needs.
type Code string

const (
	CodeUnknown              Code = "UNKNOWN"
	CodeGameNotActive        Code = "GAME_NOT_ACTIVE"
	CodeWrongTurn            Code = "WRONG_TURN"
	CodeOutOfBounds          Code = "OUT_OF_BOUNDS"
	CodePositionOccupied     Code = "POSITION_OCCUPIED"
	CodeUnsupportedGameType  Code = "UNSUPPORTED_GAME_TYPE"
	CodeSequentialMoveNumber Code = "SEQUENTIAL_MOVE_NUMBER"
	CodeInvalidTransition    Code = "INVALID_STATUS_TRANSITION"
	CodeNotAPlayer           Code = "NOT_A_PLAYER"
	CodeOpponentRequired     Code = "OPPONENT_REQUIRED"
	CodeOpeningPhase         Code = "OPENING_PHASE"
	CodeTimeoutNotReached    Code = "TIMEOUT_NOT_REACHED"
	CodeInvalidRuleSet       Code = "INVALID_RULESET"
	CodeInvalidMoveLog       Code = "INVALID_MOVE_LOG"
)

// Sentinels. Every concrete error below unwraps to exactly one of these,
// so errors.Is works on the kind and errors.As recovers the details.
var (
	ErrGameNotActive        = errors.New("game is not active")
	ErrWrongTurn            = errors.New("not your turn")
	ErrOutOfBounds          = errors.New("position out of bounds")
	ErrPositionOccupied     = errors.New("position occupied")
	ErrUnsupportedGameType  = errors.New("unsupported game type")
	ErrSequentialMoveNumber = errors.New("move number is not sequential")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrNotAPlayer           = errors.New("not a player")
	ErrOpponentRequired     = errors.New("opponent required")
	ErrOpeningPhase         = errors.New("opening phase")
	ErrTimeoutNotReached    = errors.New("timeout not reached")
	ErrInvalidRuleSet       = errors.New("invalid ruleset")
	ErrInvalidMoveLog       = errors.New("invalid move log")
)

var sentinelCodes = map[error]Code{
	ErrGameNotActive:        CodeGameNotActive,
	ErrWrongTurn:            CodeWrongTurn,
	ErrOutOfBounds:          CodeOutOfBounds,
	ErrPositionOccupied:     CodePositionOccupied,
	ErrUnsupportedGameType:  CodeUnsupportedGameType,
	ErrSequentialMoveNumber: CodeSequentialMoveNumber,
	ErrInvalidTransition:    CodeInvalidTransition,
	ErrNotAPlayer:           CodeNotAPlayer,
	ErrOpponentRequired:     CodeOpponentRequired,
	ErrOpeningPhase:         CodeOpeningPhase,
	ErrTimeoutNotReached:    CodeTimeoutNotReached,
	ErrInvalidRuleSet:       CodeInvalidRuleSet,
	ErrInvalidMoveLog:       CodeInvalidMoveLog,
}

// CodeOf walks the chain of err and returns the first known engine code.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	for sentinel, code := range sentinelCodes {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return CodeUnknown
}

// Metadata returns the structured details of an engine error, suitable for
// templating a user-facing message. Nil when err carries none.
func Metadata(err error) map[string]string {
	var d interface{ metadata() map[string]string }
	if errors.As(err, &d) {
		return d.metadata()
	}
	return nil
}

// ---------- Concrete errors ----------

// GameNotActiveError: a move was attempted on a WAITING / FINISHED / ABANDONED game.
type GameNotActiveError struct {
	Status GameStatus
}

func (e *GameNotActiveError) Error() string {
	return fmt.Sprintf("game is not active (status %s)", e.Status)
}
func (e *GameNotActiveError) Unwrap() error { return ErrGameNotActive }
func (e *GameNotActiveError) metadata() map[string]string {
	return map[string]string{"status": e.Status.String()}
}

// WrongTurnError: the submitting player does not hold the color to move.
type WrongTurnError struct {
	Expected Cell
}

func (e *WrongTurnError) Error() string {
	return fmt.Sprintf("not your turn: %s to move", e.Expected)
}
func (e *WrongTurnError) Unwrap() error { return ErrWrongTurn }
func (e *WrongTurnError) metadata() map[string]string {
	return map[string]string{"expected_color": e.Expected.String()}
}

// OutOfBoundsError: coordinate outside [0,size).
type OutOfBoundsError struct {
	Row, Col, Size int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("position (%d,%d) out of bounds for %dx%d board", e.Row, e.Col, e.Size, e.Size)
}
func (e *OutOfBoundsError) Unwrap() error { return ErrOutOfBounds }
func (e *OutOfBoundsError) metadata() map[string]string {
	return map[string]string{
		"row":  strconv.Itoa(e.Row),
		"col":  strconv.Itoa(e.Col),
		"size": strconv.Itoa(e.Size),
	}
}

// PositionOccupiedError: the target cell already holds a stone.
type PositionOccupiedError struct {
	Row, Col int
}

func (e *PositionOccupiedError) Error() string {
	return fmt.Sprintf("position (%d,%d) is occupied", e.Row, e.Col)
}
func (e *PositionOccupiedError) Unwrap() error { return ErrPositionOccupied }
func (e *PositionOccupiedError) metadata() map[string]string {
	return map[string]string{"row": strconv.Itoa(e.Row), "col": strconv.Itoa(e.Col)}
}

// UnsupportedGameTypeError: no engine exists for the family.
type UnsupportedGameTypeError struct {
	Family GameFamily
}

func (e *UnsupportedGameTypeError) Error() string {
	return fmt.Sprintf("unsupported game type %q", string(e.Family))
}
func (e *UnsupportedGameTypeError) Unwrap() error { return ErrUnsupportedGameType }
func (e *UnsupportedGameTypeError) metadata() map[string]string {
	return map[string]string{"family": string(e.Family)}
}

// SequentialMoveNumberError guards the append-only move log.
type SequentialMoveNumberError struct {
	Expected, Got int
}

func (e *SequentialMoveNumberError) Error() string {
	return fmt.Sprintf("move number %d is not sequential (expected %d)", e.Got, e.Expected)
}
func (e *SequentialMoveNumberError) Unwrap() error { return ErrSequentialMoveNumber }
func (e *SequentialMoveNumberError) metadata() map[string]string {
	return map[string]string{"expected": strconv.Itoa(e.Expected), "got": strconv.Itoa(e.Got)}
}

// TransitionError: a lifecycle operation is not allowed from the current status.
type TransitionError struct {
	From GameStatus
	Op   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s a game in status %s", e.Op, e.From)
}
func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }
func (e *TransitionError) metadata() map[string]string {
	return map[string]string{"status": e.From.String(), "op": e.Op}
}

// OpeningError: the swap2 opening does not allow the requested action now.
type OpeningError struct {
	Phase  OpeningPhase
	Reason string
}

func (e *OpeningError) Error() string {
	return fmt.Sprintf("opening phase %s: %s", e.Phase, e.Reason)
}
func (e *OpeningError) Unwrap() error { return ErrOpeningPhase }
func (e *OpeningError) metadata() map[string]string {
	return map[string]string{"phase": e.Phase.String(), "reason": e.Reason}
}

// playerError wraps a sentinel with the offending player id.
type playerError struct {
	kind     error
	PlayerID string
}

func (e *playerError) Error() string {
	return fmt.Sprintf("%v: %q", e.kind, e.PlayerID)
}
func (e *playerError) Unwrap() error { return e.kind }
func (e *playerError) metadata() map[string]string {
	return map[string]string{"player_id": e.PlayerID}
}

// NotAPlayer reports playerID as holding no seat in the game.
func NotAPlayer(playerID string) error {
	return &playerError{kind: ErrNotAPlayer, PlayerID: playerID}
}
