// Package memory provides an in-process GameStore for tests and
// single-process tools.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"okinoko-gomoku/engine"
	"okinoko-gomoku/store"
)

// Store keeps snapshots of games and move logs in maps.
type Store struct {
	mu       sync.RWMutex
	games    map[string]*engine.Game
	moves    map[string][]engine.Move
	rulesets map[string]engine.RuleSet
}

var (
	_ store.GameStore    = (*Store)(nil)
	_ store.RuleSetStore = (*Store)(nil)
)

// New returns an empty store.
func New() *Store {
	return &Store{
		games:    make(map[string]*engine.Game),
		moves:    make(map[string][]engine.Move),
		rulesets: make(map[string]engine.RuleSet),
	}
}

func (s *Store) CreateGame(ctx context.Context, g *engine.Game) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if g == nil || strings.TrimSpace(g.ID) == "" {
		return fmt.Errorf("game id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[g.ID]; ok {
		return store.ErrAlreadyExists
	}
	if g.RuleSet != nil {
		key := strings.ToLower(g.RuleSet.Name)
		stored, ok := s.rulesets[key]
		switch {
		case !ok:
			s.rulesets[key] = *g.RuleSet
		case !store.SameRuleSet(stored, *g.RuleSet):
			return store.RuleSetConflict(g.RuleSet.Name)
		}
	}
	s.games[g.ID] = g.Snapshot()
	return nil
}

func (s *Store) GetGame(ctx context.Context, id string) (*engine.Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.games[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return g.Snapshot(), nil
}

func (s *Store) UpdateGame(ctx context.Context, g *engine.Game) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[g.ID]; !ok {
		return store.ErrNotFound
	}
	s.games[g.ID] = g.Snapshot()
	return nil
}

func (s *Store) AppendMove(ctx context.Context, g *engine.Game, m engine.Move) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[g.ID]; !ok {
		return store.ErrNotFound
	}
	log := s.moves[g.ID]
	if err := engine.CheckSequence(len(log), m.Number); err != nil {
		return err
	}
	s.moves[g.ID] = append(log, m)
	s.games[g.ID] = g.Snapshot()
	return nil
}

func (s *Store) ListGames(ctx context.Context, filter store.ListFilter) ([]*engine.Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]*engine.Game, 0, len(s.games))
	for _, g := range s.games {
		if filter.Match(g) {
			out = append(out, g.Snapshot())
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *Store) ListMoves(ctx context.Context, gameID string) ([]engine.Move, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.games[gameID]; !ok {
		return nil, store.ErrNotFound
	}
	return append([]engine.Move(nil), s.moves[gameID]...), nil
}

func (s *Store) PutRuleSet(ctx context.Context, rs engine.RuleSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := rs.Validate(); err != nil {
		return err
	}
	key := strings.ToLower(rs.Name)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rulesets[key]; ok {
		return store.ErrAlreadyExists
	}
	s.rulesets[key] = rs
	return nil
}

func (s *Store) ListRuleSets(ctx context.Context) ([]engine.RuleSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]engine.RuleSet, 0, len(s.rulesets))
	for _, rs := range s.rulesets {
		out = append(out, rs)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
