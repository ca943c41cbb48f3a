package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"okinoko-gomoku/engine"
	"okinoko-gomoku/store"
)

func insertRuleSet(ctx context.Context, ex execer, rs engine.RuleSet) error {
	def, err := json.Marshal(rs)
	if err != nil {
		return fmt.Errorf("encode ruleset: %w", err)
	}
	_, err = ex.ExecContext(ctx,
		`INSERT INTO rulesets (name, game_family, board_size, definition) VALUES (?, ?, ?, ?)`,
		rs.Name, string(rs.Family), rs.BoardSize, string(def),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("insert ruleset: %w", err)
	}
	return nil
}

// ensureRuleSet stores rs unless its name is taken; a taken name must hold
// the same definition.
func ensureRuleSet(ctx context.Context, tx *sql.Tx, rs engine.RuleSet) error {
	var def string
	err := tx.QueryRowContext(ctx, `SELECT definition FROM rulesets WHERE name = ?`, rs.Name).Scan(&def)
	if errors.Is(err, sql.ErrNoRows) {
		return insertRuleSet(ctx, tx, rs)
	}
	if err != nil {
		return fmt.Errorf("read ruleset: %w", err)
	}
	var stored engine.RuleSet
	if err := json.Unmarshal([]byte(def), &stored); err != nil {
		return fmt.Errorf("decode ruleset: %w", err)
	}
	if !store.SameRuleSet(stored, rs) {
		return store.RuleSetConflict(rs.Name)
	}
	return nil
}

// PutRuleSet stores a validated ruleset. ErrAlreadyExists on a taken name.
func (s *Store) PutRuleSet(ctx context.Context, rs engine.RuleSet) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if err := rs.Validate(); err != nil {
		return err
	}
	return insertRuleSet(ctx, s.sqlDB, rs)
}

// ListRuleSets returns every stored ruleset ordered by name.
func (s *Store) ListRuleSets(ctx context.Context) ([]engine.RuleSet, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT definition FROM rulesets ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list rulesets: %w", err)
	}
	defer rows.Close()

	var out []engine.RuleSet
	for rows.Next() {
		var def string
		if err := rows.Scan(&def); err != nil {
			return nil, fmt.Errorf("scan ruleset: %w", err)
		}
		var rs engine.RuleSet
		if err := json.Unmarshal([]byte(def), &rs); err != nil {
			return nil, fmt.Errorf("decode ruleset: %w", err)
		}
		out = append(out, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rulesets: %w", err)
	}
	return out, nil
}
