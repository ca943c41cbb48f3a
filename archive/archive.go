// Package archive exports finished (or in-progress) games to Parquet files
// for long-term storage and offline analysis, one row per move.
package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"okinoko-gomoku/engine"
)

const (
	schemaKey     = "schema"
	schemaVersion = "okinoko_move_v1"
	gameKey       = "game"
)

// MoveRow is one archived move. Game-level columns repeat on every row and
// compress away through dictionary encoding.
type MoveRow struct {
	GameID    string `parquet:"game_id,dict"`
	RuleSet   string `parquet:"ruleset,dict"`
	Family    string `parquet:"game_family,dict"`
	BoardSize int32  `parquet:"board_size"`

	Number    int32  `parquet:"move_number"`
	PlayerID  string `parquet:"player_id,dict"`
	Row       int32  `parquet:"row"`
	Col       int32  `parquet:"col"`
	Color     string `parquet:"player_color,dict"`
	IsWinning bool   `parquet:"is_winning_move"`
	CreatedAt int64  `parquet:"created_at_ms"`
}

// Record is a game plus its move log as read back from an archive.
type Record struct {
	Game  *engine.Game
	Moves []engine.Move
}

// Rows flattens a game's move log.
func Rows(g *engine.Game, moves []engine.Move) []MoveRow {
	rows := make([]MoveRow, 0, len(moves))
	for _, m := range moves {
		rows = append(rows, MoveRow{
			GameID:    g.ID,
			RuleSet:   g.RuleSet.Name,
			Family:    string(g.RuleSet.Family),
			BoardSize: int32(g.RuleSet.BoardSize),
			Number:    int32(m.Number),
			PlayerID:  m.PlayerID,
			Row:       int32(m.Row),
			Col:       int32(m.Col),
			Color:     m.Color.String(),
			IsWinning: m.IsWinning,
			CreatedAt: m.CreatedAt.UTC().UnixMilli(),
		})
	}
	return rows
}

// WriteGame writes g and its moves to outPath atomically. The game snapshot
// travels as JSON in the file's key/value metadata.
func WriteGame(outPath string, g *engine.Game, moves []engine.Move) error {
	if g == nil || g.RuleSet == nil {
		return errors.New("archive: game with ruleset is required")
	}
	snapshot, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encode game: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, Rows(g, moves),
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata(schemaKey, schemaVersion),
		parquet.KeyValueMetadata(gameKey, string(snapshot)),
	); err != nil {
		return fmt.Errorf("write parquet: %w", err)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("rename parquet: %w", err)
	}
	return nil
}

// ReadGame loads an archive written by WriteGame.
func ReadGame(path string) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	if v, _ := pf.Lookup(schemaKey); v != schemaVersion {
		return nil, fmt.Errorf("archive: unexpected schema %q", v)
	}
	snapshot, ok := pf.Lookup(gameKey)
	if !ok {
		return nil, errors.New("archive: missing game metadata")
	}
	var g engine.Game
	if err := json.Unmarshal([]byte(snapshot), &g); err != nil {
		return nil, fmt.Errorf("decode game: %w", err)
	}

	reader := parquet.NewGenericReader[MoveRow](pf)
	defer reader.Close()

	rows := make([]MoveRow, reader.NumRows())
	read := 0
	for read < len(rows) {
		n, err := reader.Read(rows[read:])
		read += n
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read rows: %w", err)
		}
	}
	rows = rows[:read]

	moves := make([]engine.Move, 0, len(rows))
	for _, r := range rows {
		color, err := engine.ParseCell(r.Color)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", r.Number, err)
		}
		moves = append(moves, engine.Move{
			GameID:    r.GameID,
			PlayerID:  r.PlayerID,
			Number:    int(r.Number),
			Row:       int(r.Row),
			Col:       int(r.Col),
			Color:     color,
			IsWinning: r.IsWinning,
			CreatedAt: time.UnixMilli(r.CreatedAt).UTC(),
		})
	}
	return &Record{Game: &g, Moves: moves}, nil
}

// Verify replays the archived log and checks it reproduces the archived board.
func (r *Record) Verify() error {
	b, err := engine.Replay(r.Game.RuleSet, r.Moves)
	if err != nil {
		return err
	}
	if len(r.Moves) != r.Game.MoveCount {
		return fmt.Errorf("%w: %d moves for move count %d", engine.ErrInvalidMoveLog, len(r.Moves), r.Game.MoveCount)
	}
	if !b.Equal(r.Game.Board) {
		return fmt.Errorf("%w: replayed board differs from archived board", engine.ErrInvalidMoveLog)
	}
	return nil
}
