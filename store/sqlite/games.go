package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"okinoko-gomoku/engine"
	"okinoko-gomoku/store"
)

const gameColumns = `g.id, r.definition, g.black_player_id, g.white_player_id, g.status,
       g.current_player, g.board_state, g.move_count, g.winner_id, g.opening,
       g.created_at, g.started_at, g.finished_at, g.last_move_at`

// gameRow is the column form of a Game.
type gameRow struct {
	status, currentPlayer string
	board                 []byte
	opening               sql.NullString
}

func encodeGame(g *engine.Game) (gameRow, error) {
	board, err := json.Marshal(g.Board)
	if err != nil {
		return gameRow{}, fmt.Errorf("encode board: %w", err)
	}
	row := gameRow{
		status:        g.Status.String(),
		currentPlayer: g.CurrentPlayer.String(),
		board:         board,
	}
	if g.Opening != nil {
		raw, err := json.Marshal(g.Opening)
		if err != nil {
			return gameRow{}, fmt.Errorf("encode opening: %w", err)
		}
		row.opening = sql.NullString{String: string(raw), Valid: true}
	}
	return row, nil
}

func scanGame(sc scanner) (*engine.Game, error) {
	var (
		g                                  engine.Game
		definition, status, current, board string
		opening                            sql.NullString
		createdAt, lastMoveAt              int64
		startedAt, finishedAt              sql.NullInt64
	)
	if err := sc.Scan(
		&g.ID, &definition, &g.BlackPlayerID, &g.WhitePlayerID, &status,
		&current, &board, &g.MoveCount, &g.WinnerID, &opening,
		&createdAt, &startedAt, &finishedAt, &lastMoveAt,
	); err != nil {
		return nil, err
	}

	var rs engine.RuleSet
	if err := json.Unmarshal([]byte(definition), &rs); err != nil {
		return nil, fmt.Errorf("decode ruleset: %w", err)
	}
	g.RuleSet = &rs

	var err error
	if g.Status, err = engine.ParseGameStatus(status); err != nil {
		return nil, err
	}
	if g.CurrentPlayer, err = engine.ParseCell(current); err != nil {
		return nil, err
	}
	g.Board = &engine.BoardState{}
	if err := json.Unmarshal([]byte(board), g.Board); err != nil {
		return nil, fmt.Errorf("decode board: %w", err)
	}
	if opening.Valid {
		g.Opening = &engine.Swap2State{}
		if err := json.Unmarshal([]byte(opening.String), g.Opening); err != nil {
			return nil, fmt.Errorf("decode opening: %w", err)
		}
	}
	g.CreatedAt = fromMillis(createdAt)
	g.StartedAt = fromNullMillis(startedAt)
	g.FinishedAt = fromNullMillis(finishedAt)
	g.LastMoveAt = fromMillis(lastMoveAt)
	return &g, nil
}

// CreateGame inserts g, storing its ruleset first when the name is new.
func (s *Store) CreateGame(ctx context.Context, g *engine.Game) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if g == nil || strings.TrimSpace(g.ID) == "" {
		return fmt.Errorf("game id is required")
	}
	if g.RuleSet == nil {
		return fmt.Errorf("game ruleset is required")
	}
	row, err := encodeGame(g)
	if err != nil {
		return err
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create game: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := ensureRuleSet(ctx, tx, *g.RuleSet); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO games (
		   id, ruleset_name, black_player_id, white_player_id, status,
		   current_player, board_state, move_count, winner_id, opening,
		   created_at, started_at, finished_at, last_move_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.RuleSet.Name, g.BlackPlayerID, g.WhitePlayerID, row.status,
		row.currentPlayer, string(row.board), g.MoveCount, g.WinnerID, row.opening,
		toMillis(g.CreatedAt), nullMillis(g.StartedAt), nullMillis(g.FinishedAt), toMillis(g.LastMoveAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("create game: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create game: %w", err)
	}
	return nil
}

// GetGame loads one game with its ruleset.
func (s *Store) GetGame(ctx context.Context, id string) (*engine.Game, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	g, err := scanGame(s.sqlDB.QueryRowContext(ctx,
		`SELECT `+gameColumns+`
		   FROM games g JOIN rulesets r ON r.name = g.ruleset_name
		  WHERE g.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get game: %w", err)
	}
	return g, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func updateGame(ctx context.Context, ex execer, g *engine.Game) error {
	row, err := encodeGame(g)
	if err != nil {
		return err
	}
	res, err := ex.ExecContext(ctx,
		`UPDATE games
		    SET black_player_id = ?, white_player_id = ?, status = ?, current_player = ?,
		        board_state = ?, move_count = ?, winner_id = ?, opening = ?,
		        started_at = ?, finished_at = ?, last_move_at = ?
		  WHERE id = ?`,
		g.BlackPlayerID, g.WhitePlayerID, row.status, row.currentPlayer,
		string(row.board), g.MoveCount, g.WinnerID, row.opening,
		nullMillis(g.StartedAt), nullMillis(g.FinishedAt), toMillis(g.LastMoveAt),
		g.ID,
	)
	if err != nil {
		return fmt.Errorf("update game: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update game: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// UpdateGame overwrites the mutable columns of g.
func (s *Store) UpdateGame(ctx context.Context, g *engine.Game) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	return updateGame(ctx, s.sqlDB, g)
}

// ListGames returns games matching filter, newest first.
func (s *Store) ListGames(ctx context.Context, filter store.ListFilter) ([]*engine.Game, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	var (
		where []string
		args  []any
	)
	if filter.PlayerID != "" {
		where = append(where, "(g.black_player_id = ? OR g.white_player_id = ?)")
		args = append(args, filter.PlayerID, filter.PlayerID)
	}
	if filter.Status != nil {
		where = append(where, "g.status = ?")
		args = append(args, filter.Status.String())
	}
	query := `SELECT ` + gameColumns + ` FROM games g JOIN rulesets r ON r.name = g.ruleset_name`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY g.created_at DESC, g.id ASC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var out []*engine.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate games: %w", err)
	}
	return out, nil
}
