package engine

import (
	"encoding/json"
	"fmt"
)

// boardWire is the persisted board representation shared with the
// storage and view layers. Go-only fields are omitted for Gomoku boards.
type boardWire struct {
	Size              int         `json:"size"`
	Board             [][]*string `json:"board"`
	GameFamily        GameFamily  `json:"game_family"`
	CapturedStones    *Captures   `json:"captured_stones,omitempty"`
	KoPosition        *[2]int     `json:"ko_position"`
	ConsecutivePasses *int        `json:"consecutive_passes,omitempty"`
}

// MarshalJSON encodes
//
//	{"size":N,"board":[[null|"black"|"white",...],...],"game_family":"GOMOKU"|"GO",
//	 "captured_stones":{...},"ko_position":null|[r,c],"consecutive_passes":n}
//
// where the last three keys only appear for Go boards.
func (b *BoardState) MarshalJSON() ([]byte, error) {
	blackS, whiteS := Black.String(), White.String()
	w := boardWire{
		Size:       b.size,
		Board:      make([][]*string, b.size),
		GameFamily: b.family,
	}
	for r := 0; r < b.size; r++ {
		row := make([]*string, b.size)
		for c := 0; c < b.size; c++ {
			switch b.At(r, c) {
			case Black:
				row[c] = &blackS
			case White:
				row[c] = &whiteS
			}
		}
		w.Board[r] = row
	}
	if b.family == Go {
		caps := b.Captured
		passes := b.ConsecutivePasses
		w.CapturedStones = &caps
		w.ConsecutivePasses = &passes
		if b.KoPosition != nil {
			w.KoPosition = &[2]int{b.KoPosition.Row, b.KoPosition.Col}
		}
		return json.Marshal(w)
	}
	// ko_position has no omitempty (null is meaningful for Go); drop it for gomoku.
	return json.Marshal(struct {
		Size       int         `json:"size"`
		Board      [][]*string `json:"board"`
		GameFamily GameFamily  `json:"game_family"`
	}{w.Size, w.Board, w.GameFamily})
}

// UnmarshalJSON is the inverse of MarshalJSON and rejects malformed grids.
func (b *BoardState) UnmarshalJSON(data []byte) error {
	var w boardWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Size < 0 || len(w.Board) != w.Size {
		return fmt.Errorf("board: %d rows for size %d", len(w.Board), w.Size)
	}
	family := w.GameFamily
	if family == "" {
		family = Gomoku
	}
	nb := NewBoardState(w.Size, family)
	for r, row := range w.Board {
		if len(row) != w.Size {
			return fmt.Errorf("board: row %d has %d cells for size %d", r, len(row), w.Size)
		}
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, err := ParseCell(*v)
			if err != nil {
				return fmt.Errorf("board: cell (%d,%d): %w", r, c, err)
			}
			nb.Set(r, c, cell)
		}
	}
	if w.CapturedStones != nil {
		nb.Captured = *w.CapturedStones
	}
	if w.KoPosition != nil {
		nb.KoPosition = &Point{Row: w.KoPosition[0], Col: w.KoPosition[1]}
	}
	if w.ConsecutivePasses != nil {
		nb.ConsecutivePasses = *w.ConsecutivePasses
	}
	*b = *nb
	return nil
}
