// Package store defines persistence contracts for games, their move logs
// and custom rulesets.
package store

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"okinoko-gomoku/engine"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
	ErrAlreadyExists = errors.New("record already exists")
)

// ListFilter narrows ListGames. Zero values match everything.
type ListFilter struct {
	PlayerID string             // either seat
	Status   *engine.GameStatus // exact status
	Limit    int                // <= 0 means no limit
}

// Match reports whether g passes the filter (Limit aside).
func (f ListFilter) Match(g *engine.Game) bool {
	if f.PlayerID != "" && g.BlackPlayerID != f.PlayerID && g.WhitePlayerID != f.PlayerID {
		return false
	}
	if f.Status != nil && g.Status != *f.Status {
		return false
	}
	return true
}

// SameRuleSet reports whether two rulesets share a name (case-insensitive)
// and definition.
func SameRuleSet(a, b engine.RuleSet) bool {
	if !strings.EqualFold(a.Name, b.Name) {
		return false
	}
	a.Name = b.Name
	return reflect.DeepEqual(a, b)
}

// RuleSetConflict is the error for a game whose ruleset name is stored
// with another definition.
func RuleSetConflict(name string) error {
	return fmt.Errorf("%w: ruleset %q stored with a different definition", ErrAlreadyExists, name)
}

// GameStore persists Game aggregates and their append-only move logs.
//
// Implementations return copies: mutating a returned Game never changes
// stored state until it is written back.
type GameStore interface {
	// CreateGame inserts a new game together with its ruleset when the
	// ruleset is not stored yet. ErrAlreadyExists on a duplicate id or when
	// the ruleset name is stored with a different definition.
	CreateGame(ctx context.Context, g *engine.Game) error
	// GetGame returns ErrNotFound for an unknown id.
	GetGame(ctx context.Context, id string) (*engine.Game, error)
	// UpdateGame overwrites the game row for lifecycle changes that add no move.
	UpdateGame(ctx context.Context, g *engine.Game) error
	// AppendMove atomically stores the post-move game and appends m.
	// m.Number must directly follow the stored move count.
	AppendMove(ctx context.Context, g *engine.Game, m engine.Move) error
	// ListGames returns games ordered by creation time, newest first.
	ListGames(ctx context.Context, filter ListFilter) ([]*engine.Game, error)
	// ListMoves returns the move log in move-number order.
	ListMoves(ctx context.Context, gameID string) ([]engine.Move, error)
	Close() error
}

// RuleSetStore persists named rulesets.
type RuleSetStore interface {
	PutRuleSet(ctx context.Context, rs engine.RuleSet) error
	ListRuleSets(ctx context.Context) ([]engine.RuleSet, error)
}
