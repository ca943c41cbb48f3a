package service

import (
	"context"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"okinoko-gomoku/engine"
)

// Event is one domain notification: a type plus flat string attributes.
type Event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}

// EventSink receives events after the state change they describe is stored.
type EventSink interface {
	Emit(ctx context.Context, e Event)
}

// LogSink logs each event at info level, its attributes as fields.
type LogSink struct {
	Logger *zap.Logger
}

func (s LogSink) Emit(_ context.Context, e Event) {
	logger := s.Logger
	if logger == nil {
		logger = zap.L()
	}
	keys := make([]string, 0, len(e.Attributes))
	for k := range e.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fields := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, zap.String(k, e.Attributes[k]))
	}
	logger.Info(e.Type, fields...)
}

type discardSink struct{}

func (discardSink) Emit(context.Context, Event) {}

// Event types.
const (
	EventGameCreated   = "gameCreated"
	EventGameJoined    = "gameJoined"
	EventGameStarted   = "gameStarted"
	EventGameMove      = "gameMove"
	EventGamePass      = "gamePass"
	EventGameWon       = "gameWon"
	EventGameDraw      = "gameDraw"
	EventGameEnded     = "gameEnded" // go: two passes, no winner
	EventGameResigned  = "gameResigned"
	EventGameAbandoned = "gameAbandoned"
	EventGameTimedOut  = "gameTimedOut"
	EventSwapChoice    = "swapChoice"
	EventColorChosen   = "colorChosen"
)

func (s *Service) emit(ctx context.Context, typ string, attrs map[string]string) {
	s.events.Emit(ctx, Event{Type: typ, Attributes: attrs})
}

func (s *Service) emitMove(ctx context.Context, g *engine.Game, m engine.Move) {
	if m.IsPass() {
		s.emit(ctx, EventGamePass, map[string]string{
			"id":     g.ID,
			"by":     m.PlayerID,
			"number": strconv.Itoa(m.Number),
		})
	} else {
		s.emit(ctx, EventGameMove, map[string]string{
			"id":     g.ID,
			"by":     m.PlayerID,
			"number": strconv.Itoa(m.Number),
			"row":    strconv.Itoa(m.Row),
			"col":    strconv.Itoa(m.Col),
			"color":  m.Color.String(),
		})
	}
	if g.Status != engine.Finished {
		return
	}
	switch {
	case m.IsWinning:
		s.emit(ctx, EventGameWon, map[string]string{"id": g.ID, "winner": g.WinnerID})
	case m.IsPass():
		s.emit(ctx, EventGameEnded, map[string]string{"id": g.ID, "reason": "passes"})
	default:
		s.emit(ctx, EventGameDraw, map[string]string{"id": g.ID})
	}
}
