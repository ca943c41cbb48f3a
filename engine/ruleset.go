package engine

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Board size limits shared by every family.
const (
	MinBoardSize = 5
	MaxBoardSize = 25

	// WinLength is the run needed to win in the Gomoku family.
	WinLength = 5
)

// ForbiddenMoves carries the per-variant restriction flags.
//
// The Renju flags (black double-three, double-four, overline) are surfaced
// for display and storage only; the engine does not detect those patterns.
type ForbiddenMoves struct {
	BlackDoubleThree    bool `json:"black_double_three,omitempty"`
	BlackDoubleFour     bool `json:"black_double_four,omitempty"`
	BlackOverline       bool `json:"black_overline,omitempty"`
	RequireUnblockedEnd bool `json:"require_unblocked_end,omitempty"` // Caro
	Swap2Opening        bool `json:"swap2,omitempty"`                 // tournament opening
}

// HasBlackRestrictions reports whether any Renju-style flag is set.
func (f ForbiddenMoves) HasBlackRestrictions() bool {
	return f.BlackDoubleThree || f.BlackDoubleFour || f.BlackOverline
}

// RuleSet is an immutable variant descriptor. Games hold a pointer to a
// shared instance and never modify it.
type RuleSet struct {
	Name           string         `json:"name"`
	Description    string         `json:"description,omitempty"`
	Family         GameFamily     `json:"game_family"`
	BoardSize      int            `json:"board_size"`
	AllowOverlines bool           `json:"allow_overlines"`
	Forbidden      ForbiddenMoves `json:"forbidden_moves"`
	Komi           *float64       `json:"komi,omitempty"` // Go only
}

// Validate checks the construction constraints. Name uniqueness is the
// catalog's (or the store's) concern.
func (r RuleSet) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRuleSet)
	}
	if r.BoardSize < MinBoardSize || r.BoardSize > MaxBoardSize {
		return fmt.Errorf("%w: board size %d outside [%d,%d]", ErrInvalidRuleSet, r.BoardSize, MinBoardSize, MaxBoardSize)
	}
	switch r.Family {
	case Gomoku:
		if r.Komi != nil {
			return fmt.Errorf("%w: komi only applies to the go family", ErrInvalidRuleSet)
		}
	case Go:
	default:
		return &UnsupportedGameTypeError{Family: r.Family}
	}
	return nil
}

// ---------- Catalog ----------

// Catalog is a named collection of rulesets. Safe for concurrent use.
type Catalog struct {
	mu    sync.RWMutex
	byKey map[string]*RuleSet
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{byKey: make(map[string]*RuleSet)}
}

// Add validates rs and registers a copy under its name.
func (c *Catalog) Add(rs RuleSet) (*RuleSet, error) {
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	key := strings.ToLower(strings.TrimSpace(rs.Name))
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.byKey[key]; ok {
		return nil, fmt.Errorf("%w: name %q already registered", ErrInvalidRuleSet, rs.Name)
	}
	return c.put(key, rs), nil
}

func (c *Catalog) put(key string, rs RuleSet) *RuleSet {
	stored := rs
	if rs.Komi != nil {
		k := *rs.Komi
		stored.Komi = &k
	}
	c.byKey[key] = &stored
	return &stored
}

// LookupOrAdd returns the ruleset registered under rs.Name, registering rs
// first when the name is free. Check and insert happen under one lock.
func (c *Catalog) LookupOrAdd(rs RuleSet) (*RuleSet, error) {
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	key := strings.ToLower(strings.TrimSpace(rs.Name))
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.byKey[key]; ok {
		return existing, nil
	}
	return c.put(key, rs), nil
}

// Lookup finds a ruleset by name (case-insensitive).
func (c *Catalog) Lookup(name string) (*RuleSet, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rs, ok := c.byKey[strings.ToLower(strings.TrimSpace(name))]
	return rs, ok
}

// All returns the registered rulesets sorted by name.
func (c *Catalog) All() []*RuleSet {
	c.mu.RLock()
	out := make([]*RuleSet, 0, len(c.byKey))
	for _, rs := range c.byKey {
		out = append(out, rs)
	}
	c.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func komi(v float64) *float64 { return &v }

// Presets returns the built-in variants. Each call returns fresh values.
func Presets() []RuleSet {
	return []RuleSet{
		{Name: "standard", Description: "15x15, exactly five wins", Family: Gomoku, BoardSize: 15},
		{Name: "freestyle", Description: "15x15, five or more wins", Family: Gomoku, BoardSize: 15, AllowOverlines: true},
		{
			Name: "renju", Description: "15x15, black restricted", Family: Gomoku, BoardSize: 15,
			Forbidden: ForbiddenMoves{BlackDoubleThree: true, BlackDoubleFour: true, BlackOverline: true},
		},
		{
			Name: "caro", Description: "15x15, five or more with an open end", Family: Gomoku, BoardSize: 15,
			AllowOverlines: true, Forbidden: ForbiddenMoves{RequireUnblockedEnd: true},
		},
		{
			Name: "swap2", Description: "15x15 tournament opening", Family: Gomoku, BoardSize: 15,
			Forbidden: ForbiddenMoves{Swap2Opening: true},
		},
		{Name: "tiny", Description: "5x5 gomoku", Family: Gomoku, BoardSize: 5},
		{Name: "mini", Description: "9x9 gomoku", Family: Gomoku, BoardSize: 9},
		{Name: "large", Description: "19x19 gomoku", Family: Gomoku, BoardSize: 19},
		{Name: "huge", Description: "25x25 gomoku", Family: Gomoku, BoardSize: 25},
		{Name: "go9", Description: "9x9 go", Family: Go, BoardSize: 9, Komi: komi(5.5)},
		{Name: "go13", Description: "13x13 go", Family: Go, BoardSize: 13, Komi: komi(6.5)},
		{Name: "go19", Description: "19x19 go", Family: Go, BoardSize: 19, Komi: komi(6.5)},
	}
}

// DefaultCatalog returns a catalog seeded with Presets.
func DefaultCatalog() *Catalog {
	c := NewCatalog()
	for _, rs := range Presets() {
		if _, err := c.Add(rs); err != nil {
			panic(fmt.Sprintf("engine: bad preset %q: %v", rs.Name, err))
		}
	}
	return c
}
