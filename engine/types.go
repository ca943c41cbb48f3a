// Package engine is the authoritative rules core for five-in-a-row games:
// board representation, per-ruleset move validation, win detection and
// the turn/phase state machine for the Gomoku and Go families.
//
// Nothing in here does I/O. Callers own persistence and must keep at most
// one in-flight mutation per game.
package engine

import (
	"fmt"
	"strings"
)

// ---------- Types & Constants ----------

// GameFamily is the top-level rule lineage deciding which engine applies.
type GameFamily string

const (
	Gomoku GameFamily = "GOMOKU"
	Go     GameFamily = "GO"
)

// Cell is the content of one board intersection.
// The same type doubles as a player color (Black / White).
type Cell uint8

const (
	Empty Cell = 0
	Black Cell = 1 // always moves first
	White Cell = 2
)

// Opponent returns the other color. Empty stays Empty.
func (c Cell) Opponent() Cell {
	switch c {
	case Black:
		return White
	case White:
		return Black
	}
	return Empty
}

func (c Cell) String() string {
	switch c {
	case Black:
		return "black"
	case White:
		return "white"
	}
	return "empty"
}

// MarshalText encodes a color as "black" / "white" ("" for empty).
func (c Cell) MarshalText() ([]byte, error) {
	if c == Empty {
		return []byte{}, nil
	}
	return []byte(c.String()), nil
}

func (c *Cell) UnmarshalText(b []byte) error {
	v, err := ParseCell(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// ParseCell reads "black", "white" or "" (empty). Case-insensitive.
func ParseCell(s string) (Cell, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "black", "b":
		return Black, nil
	case "white", "w":
		return White, nil
	case "", "empty":
		return Empty, nil
	}
	return Empty, fmt.Errorf("unknown color %q", s)
}

// GameStatus is the lifecycle state of a game.
type GameStatus uint8

const (
	Waiting   GameStatus = 0 // created, not started
	Active    GameStatus = 1 // accepting moves
	Finished  GameStatus = 2 // win, draw, two passes, resignation or timeout
	Abandoned GameStatus = 3
)

var statusNames = map[GameStatus]string{
	Waiting:   "WAITING",
	Active:    "ACTIVE",
	Finished:  "FINISHED",
	Abandoned: "ABANDONED",
}

func (s GameStatus) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("GameStatus(%d)", uint8(s))
}

// Terminal reports whether no transition can leave this status.
func (s GameStatus) Terminal() bool {
	return s == Finished || s == Abandoned
}

func (s GameStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *GameStatus) UnmarshalText(b []byte) error {
	v, err := ParseGameStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseGameStatus reads the upper-case status names used on the wire.
func ParseGameStatus(name string) (GameStatus, error) {
	for s, n := range statusNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return s, nil
		}
	}
	return Waiting, fmt.Errorf("unknown game status %q", name)
}

// Point addresses a board intersection. (-1,-1) is the Go pass sentinel.
type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// PassPoint is the coordinate submitted for a Go pass.
var PassPoint = Point{Row: -1, Col: -1}

// IsPass reports whether p is the pass sentinel.
func (p Point) IsPass() bool { return p == PassPoint }
