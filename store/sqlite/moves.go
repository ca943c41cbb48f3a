package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"okinoko-gomoku/engine"
	"okinoko-gomoku/store"
)

// AppendMove stores the post-move game and appends m in one transaction.
// The stored move count must directly precede m.Number.
func (s *Store) AppendMove(ctx context.Context, g *engine.Game, m engine.Move) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append move: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var stored int
	err = tx.QueryRowContext(ctx, `SELECT move_count FROM games WHERE id = ?`, g.ID).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("read move count: %w", err)
	}
	if err := engine.CheckSequence(stored, m.Number); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO moves (
		   game_id, move_number, player_id, row_idx, col_idx,
		   player_color, is_winning_move, created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, m.Number, m.PlayerID, m.Row, m.Col,
		m.Color.String(), m.IsWinning, toMillis(m.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("move %d: %w", m.Number, store.ErrAlreadyExists)
		}
		return fmt.Errorf("insert move: %w", err)
	}
	if err := updateGame(ctx, tx, g); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append move: %w", err)
	}
	return nil
}

// ListMoves returns the move log ordered by move number.
func (s *Store) ListMoves(ctx context.Context, gameID string) ([]engine.Move, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	var exists int
	err := s.sqlDB.QueryRowContext(ctx, `SELECT 1 FROM games WHERE id = ?`, gameID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("check game: %w", err)
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT move_number, player_id, row_idx, col_idx, player_color, is_winning_move, created_at
		   FROM moves
		  WHERE game_id = ?
		  ORDER BY move_number ASC`, gameID)
	if err != nil {
		return nil, fmt.Errorf("list moves: %w", err)
	}
	defer rows.Close()

	var out []engine.Move
	for rows.Next() {
		var (
			m         engine.Move
			color     string
			createdAt int64
		)
		if err := rows.Scan(&m.Number, &m.PlayerID, &m.Row, &m.Col, &color, &m.IsWinning, &createdAt); err != nil {
			return nil, fmt.Errorf("scan move: %w", err)
		}
		if m.Color, err = engine.ParseCell(color); err != nil {
			return nil, err
		}
		m.GameID = gameID
		m.CreatedAt = fromMillis(createdAt)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate moves: %w", err)
	}
	return out, nil
}
