// Package service orchestrates games over a GameStore: it serializes work
// per game id, runs the engine, persists the result and emits events.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"okinoko-gomoku/archive"
	"okinoko-gomoku/engine"
	"okinoko-gomoku/store"
)

const tracerName = "okinoko.service"

// Service is safe for concurrent use. Operations on the same game id run
// one at a time; different games proceed in parallel.
type Service struct {
	games       store.GameStore
	catalog     *engine.Catalog
	events      EventSink
	tracer      trace.Tracer
	now         func() time.Time
	newID       func() string
	moveTimeout time.Duration
	defaultRS   string
	locks       *keyedMutex
}

// Option configures a Service.
type Option func(*Service)

// WithCatalog replaces the preset ruleset catalog.
func WithCatalog(c *engine.Catalog) Option { return func(s *Service) { s.catalog = c } }

// WithEventSink routes domain events to sink.
func WithEventSink(sink EventSink) Option { return func(s *Service) { s.events = sink } }

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// WithIDGenerator overrides uuid game ids.
func WithIDGenerator(fn func() string) Option { return func(s *Service) { s.newID = fn } }

// WithMoveTimeout sets how long a player may stay idle before the
// opponent can claim the game. Zero disables claims.
func WithMoveTimeout(d time.Duration) Option { return func(s *Service) { s.moveTimeout = d } }

// WithDefaultRuleSet names the ruleset used when a request leaves it empty.
func WithDefaultRuleSet(name string) Option { return func(s *Service) { s.defaultRS = name } }

// WithTracer overrides the global tracer.
func WithTracer(t trace.Tracer) Option { return func(s *Service) { s.tracer = t } }

// New returns a Service backed by games.
func New(games store.GameStore, opts ...Option) *Service {
	s := &Service{
		games:       games,
		catalog:     engine.DefaultCatalog(),
		events:      discardSink{},
		now:         time.Now,
		newID:       uuid.NewString,
		moveTimeout: 7 * 24 * time.Hour,
		defaultRS:   "standard",
		locks:       newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	return s
}

// MoveResult is returned by MakeMove and Pass.
type MoveResult struct {
	Move engine.Move
	Game *engine.Game
	// WinningLine is set when Move won the game.
	WinningLine []engine.Point
}

// CreateGameRequest describes a new game. An empty WhitePlayerID creates an
// open game that either waits for Join or is played as practice.
type CreateGameRequest struct {
	BlackPlayerID string
	WhitePlayerID string
	RuleSet       string
}

// ---------- helpers ----------

func (s *Service) clock() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func (s *Service) startSpan(ctx context.Context, op, gameID string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if gameID != "" {
		attrs = append(attrs, attribute.String("game.id", gameID))
	}
	return s.tracer.Start(ctx, tracerName+"/"+op, trace.WithAttributes(attrs...))
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if c := engine.CodeOf(err); c != engine.CodeUnknown {
		span.SetAttributes(attribute.String("error.code", string(c)))
	}
	return err
}

func (s *Service) load(ctx context.Context, gameID string) (*engine.Game, error) {
	g, err := s.games.GetGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("load game %s: %w", gameID, err)
	}
	return g, nil
}

// update runs fn on the locked game and stores the result when fn succeeds.
func (s *Service) update(ctx context.Context, op, gameID string, fn func(g *engine.Game, now time.Time) error) (*engine.Game, error) {
	ctx, span := s.startSpan(ctx, op, gameID)
	defer span.End()

	unlock := s.locks.Lock(gameID)
	defer unlock()

	g, err := s.load(ctx, gameID)
	if err != nil {
		return nil, fail(span, err)
	}
	if err := fn(g, s.clock()); err != nil {
		return nil, fail(span, err)
	}
	if err := s.games.UpdateGame(ctx, g); err != nil {
		return nil, fail(span, fmt.Errorf("store game %s: %w", gameID, err))
	}
	span.SetAttributes(attribute.String("game.status", g.Status.String()))
	return g.Snapshot(), nil
}

// ---------- rulesets ----------

// RuleSet resolves a ruleset by name from the catalog, then from the
// store when it persists rulesets.
func (s *Service) RuleSet(ctx context.Context, name string) (*engine.RuleSet, error) {
	if rs, ok := s.catalog.Lookup(name); ok {
		return rs, nil
	}
	if rss, ok := s.games.(store.RuleSetStore); ok {
		stored, err := rss.ListRuleSets(ctx)
		if err != nil {
			return nil, fmt.Errorf("list rulesets: %w", err)
		}
		for _, rs := range stored {
			if strings.EqualFold(rs.Name, strings.TrimSpace(name)) {
				return s.catalog.LookupOrAdd(rs)
			}
		}
	}
	return nil, fmt.Errorf("%w: unknown ruleset %q", engine.ErrInvalidRuleSet, name)
}

// RegisterRuleSet adds a custom ruleset to the catalog and persists it when
// the store supports it.
func (s *Service) RegisterRuleSet(ctx context.Context, rs engine.RuleSet) (*engine.RuleSet, error) {
	ctx, span := s.startSpan(ctx, "RegisterRuleSet", "", attribute.String("ruleset", rs.Name))
	defer span.End()

	if err := rs.Validate(); err != nil {
		return nil, fail(span, err)
	}
	if _, ok := s.catalog.Lookup(rs.Name); ok {
		return nil, fail(span, fmt.Errorf("%w: name %q already registered", engine.ErrInvalidRuleSet, rs.Name))
	}
	if rss, ok := s.games.(store.RuleSetStore); ok {
		if err := rss.PutRuleSet(ctx, rs); err != nil {
			return nil, fail(span, fmt.Errorf("store ruleset: %w", err))
		}
	}
	stored, err := s.catalog.Add(rs)
	if err != nil {
		return nil, fail(span, err)
	}
	return stored, nil
}

// SeedRuleSets persists every catalog ruleset the store does not hold yet
// and returns how many were added. No-op for stores without rulesets.
func (s *Service) SeedRuleSets(ctx context.Context) (int, error) {
	ctx, span := s.startSpan(ctx, "SeedRuleSets", "")
	defer span.End()

	rss, ok := s.games.(store.RuleSetStore)
	if !ok {
		return 0, nil
	}
	added := 0
	for _, rs := range s.catalog.All() {
		err := rss.PutRuleSet(ctx, *rs)
		switch {
		case err == nil:
			added++
		case errors.Is(err, store.ErrAlreadyExists):
		default:
			return added, fail(span, fmt.Errorf("store ruleset %s: %w", rs.Name, err))
		}
	}
	span.SetAttributes(attribute.Int("rulesets.added", added))
	return added, nil
}

// RuleSets lists the catalog.
func (s *Service) RuleSets() []*engine.RuleSet { return s.catalog.All() }

// ---------- lifecycle ----------

// CreateGame stores a new WAITING game. With both seats filled the game is
// still WAITING until StartGame.
func (s *Service) CreateGame(ctx context.Context, req CreateGameRequest) (*engine.Game, error) {
	ctx, span := s.startSpan(ctx, "CreateGame", "", attribute.String("ruleset", req.RuleSet))
	defer span.End()

	black := strings.TrimSpace(req.BlackPlayerID)
	white := strings.TrimSpace(req.WhitePlayerID)
	if black == "" {
		return nil, fail(span, engine.NotAPlayer(black))
	}
	if white == black {
		return nil, fail(span, engine.NotAPlayer(white))
	}
	name := req.RuleSet
	if strings.TrimSpace(name) == "" {
		name = s.defaultRS
	}
	rs, err := s.RuleSet(ctx, name)
	if err != nil {
		return nil, fail(span, err)
	}

	g := engine.NewGame(s.newID(), black, white, rs, s.clock())
	span.SetAttributes(attribute.String("game.id", g.ID))
	if err := s.games.CreateGame(ctx, g); err != nil {
		return nil, fail(span, fmt.Errorf("store game: %w", err))
	}
	s.emit(ctx, EventGameCreated, map[string]string{"id": g.ID, "by": black, "ruleset": rs.Name})
	return g.Snapshot(), nil
}

// JoinGame seats playerID as white.
func (s *Service) JoinGame(ctx context.Context, gameID, playerID string) (*engine.Game, error) {
	g, err := s.update(ctx, "JoinGame", gameID, func(g *engine.Game, _ time.Time) error {
		return g.Join(playerID)
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, EventGameJoined, map[string]string{"id": gameID, "joined": playerID})
	return g, nil
}

// StartGame activates a WAITING game. Only a seated player may start it.
func (s *Service) StartGame(ctx context.Context, gameID, playerID string) (*engine.Game, error) {
	g, err := s.update(ctx, "StartGame", gameID, func(g *engine.Game, now time.Time) error {
		if !g.IsPlayer(playerID) {
			return engine.NotAPlayer(playerID)
		}
		return g.Start(now)
	})
	if err != nil {
		return nil, err
	}
	attrs := map[string]string{"id": gameID, "by": playerID}
	if g.Opening.InProgress() {
		attrs["opening"] = "swap2"
	}
	s.emit(ctx, EventGameStarted, attrs)
	return g, nil
}

// Resign concedes the game for playerID.
func (s *Service) Resign(ctx context.Context, gameID, playerID string) (*engine.Game, error) {
	g, err := s.update(ctx, "Resign", gameID, func(g *engine.Game, now time.Time) error {
		return g.Resign(playerID, now)
	})
	if err != nil {
		return nil, err
	}
	if g.Status == engine.Abandoned {
		s.emit(ctx, EventGameAbandoned, map[string]string{"id": gameID, "by": playerID})
	} else {
		s.emit(ctx, EventGameResigned, map[string]string{"id": gameID, "resigner": playerID, "winner": g.WinnerID})
	}
	return g, nil
}

// Abandon cancels a WAITING or ACTIVE game on behalf of a seated player.
func (s *Service) Abandon(ctx context.Context, gameID, playerID string) (*engine.Game, error) {
	g, err := s.update(ctx, "Abandon", gameID, func(g *engine.Game, now time.Time) error {
		if !g.IsPlayer(playerID) {
			return engine.NotAPlayer(playerID)
		}
		return g.Abandon(now)
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, EventGameAbandoned, map[string]string{"id": gameID, "by": playerID})
	return g, nil
}

// ClaimTimeout awards the game to claimantID when the opponent has been
// idle longer than the configured move timeout.
func (s *Service) ClaimTimeout(ctx context.Context, gameID, claimantID string) (*engine.Game, error) {
	var timedOut string
	g, err := s.update(ctx, "ClaimTimeout", gameID, func(g *engine.Game, now time.Time) error {
		timedOut = g.Mover()
		return engine.ClaimTimeout(g, claimantID, now, s.moveTimeout)
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, EventGameTimedOut, map[string]string{"id": gameID, "timedOut": timedOut})
	s.emit(ctx, EventGameWon, map[string]string{"id": gameID, "winner": g.WinnerID})
	return g, nil
}

// ChooseSwap records the white seat's swap2 decision.
func (s *Service) ChooseSwap(ctx context.Context, gameID, playerID string, choice engine.SwapChoice) (*engine.Game, error) {
	g, err := s.update(ctx, "ChooseSwap", gameID, func(g *engine.Game, now time.Time) error {
		return engine.ChooseSwap(g, playerID, choice, now)
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, EventSwapChoice, map[string]string{"id": gameID, "by": playerID, "choice": string(choice), "black": g.BlackPlayerID})
	return g, nil
}

// ChooseColor records the black seat's final swap2 color.
func (s *Service) ChooseColor(ctx context.Context, gameID, playerID string, color engine.Cell) (*engine.Game, error) {
	g, err := s.update(ctx, "ChooseColor", gameID, func(g *engine.Game, now time.Time) error {
		return engine.ChooseColor(g, playerID, color, now)
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, EventColorChosen, map[string]string{"id": gameID, "by": playerID, "color": color.String(), "black": g.BlackPlayerID})
	return g, nil
}

// ---------- moves ----------

// MakeMove places a stone for playerID. Rejected moves store nothing.
func (s *Service) MakeMove(ctx context.Context, gameID, playerID string, row, col int) (MoveResult, error) {
	return s.play(ctx, "MakeMove", gameID, playerID, row, col)
}

// Pass submits a Go pass for playerID.
func (s *Service) Pass(ctx context.Context, gameID, playerID string) (MoveResult, error) {
	return s.play(ctx, "Pass", gameID, playerID, engine.PassPoint.Row, engine.PassPoint.Col)
}

func (s *Service) play(ctx context.Context, op, gameID, playerID string, row, col int) (MoveResult, error) {
	ctx, span := s.startSpan(ctx, op, gameID,
		attribute.String("player.id", playerID),
		attribute.Int("move.row", row),
		attribute.Int("move.col", col),
	)
	defer span.End()

	unlock := s.locks.Lock(gameID)
	defer unlock()

	g, err := s.load(ctx, gameID)
	if err != nil {
		return MoveResult{}, fail(span, err)
	}
	m, err := engine.Play(g, playerID, row, col, s.clock())
	if err != nil {
		return MoveResult{}, fail(span, err)
	}
	if err := s.games.AppendMove(ctx, g, m); err != nil {
		return MoveResult{}, fail(span, fmt.Errorf("store move %d of %s: %w", m.Number, gameID, err))
	}
	span.SetAttributes(
		attribute.Int("move.number", m.Number),
		attribute.Bool("move.winning", m.IsWinning),
		attribute.String("game.status", g.Status.String()),
	)

	res := MoveResult{Move: m, Game: g.Snapshot()}
	if m.IsWinning {
		res.WinningLine = engine.WinningLine(g.Board, m.Row, m.Col, m.Color, g.RuleSet)
	}
	s.emitMove(ctx, g, m)
	return res, nil
}

// ---------- queries ----------

// GetGame returns one game.
func (s *Service) GetGame(ctx context.Context, gameID string) (*engine.Game, error) {
	ctx, span := s.startSpan(ctx, "GetGame", gameID)
	defer span.End()
	g, err := s.load(ctx, gameID)
	if err != nil {
		return nil, fail(span, err)
	}
	return g, nil
}

// ListGames returns games matching filter, newest first.
func (s *Service) ListGames(ctx context.Context, filter store.ListFilter) ([]*engine.Game, error) {
	ctx, span := s.startSpan(ctx, "ListGames", "", attribute.String("player.id", filter.PlayerID))
	defer span.End()
	games, err := s.games.ListGames(ctx, filter)
	if err != nil {
		return nil, fail(span, fmt.Errorf("list games: %w", err))
	}
	span.SetAttributes(attribute.Int("games.count", len(games)))
	return games, nil
}

// ListMoves returns a game's move log.
func (s *Service) ListMoves(ctx context.Context, gameID string) ([]engine.Move, error) {
	ctx, span := s.startSpan(ctx, "ListMoves", gameID)
	defer span.End()
	moves, err := s.games.ListMoves(ctx, gameID)
	if err != nil {
		return nil, fail(span, fmt.Errorf("list moves of %s: %w", gameID, err))
	}
	return moves, nil
}

// VerifyGame replays the stored move log and checks it against the stored
// board and move count.
func (s *Service) VerifyGame(ctx context.Context, gameID string) error {
	ctx, span := s.startSpan(ctx, "VerifyGame", gameID)
	defer span.End()

	unlock := s.locks.Lock(gameID)
	defer unlock()

	g, moves, err := s.gameWithMoves(ctx, gameID)
	if err != nil {
		return fail(span, err)
	}
	if len(moves) != g.MoveCount {
		return fail(span, fmt.Errorf("%w: %d stored moves for move count %d", engine.ErrInvalidMoveLog, len(moves), g.MoveCount))
	}
	b, err := engine.Replay(g.RuleSet, moves)
	if err != nil {
		return fail(span, err)
	}
	if !b.Equal(g.Board) {
		return fail(span, fmt.Errorf("%w: replayed board differs from stored board", engine.ErrInvalidMoveLog))
	}
	return nil
}

// ExportGame writes the game and its moves to a Parquet archive at path.
func (s *Service) ExportGame(ctx context.Context, gameID, path string) error {
	ctx, span := s.startSpan(ctx, "ExportGame", gameID, attribute.String("archive.path", path))
	defer span.End()

	unlock := s.locks.Lock(gameID)
	defer unlock()

	g, moves, err := s.gameWithMoves(ctx, gameID)
	if err != nil {
		return fail(span, err)
	}
	if err := archive.WriteGame(path, g, moves); err != nil {
		return fail(span, fmt.Errorf("export %s: %w", gameID, err))
	}
	span.SetAttributes(attribute.Int("moves.count", len(moves)))
	return nil
}

func (s *Service) gameWithMoves(ctx context.Context, gameID string) (*engine.Game, []engine.Move, error) {
	g, err := s.load(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	moves, err := s.games.ListMoves(ctx, gameID)
	if err != nil {
		return nil, nil, fmt.Errorf("list moves of %s: %w", gameID, err)
	}
	return g, moves, nil
}
