package main

import (
	"bytes"
	"flag"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okinoko-gomoku/engine"
)

func TestBoardHighlightsWinningLine(t *testing.T) {
	b := engine.NewBoardState(5, engine.Gomoku)
	b.Set(0, 0, engine.Black)
	b.Set(1, 1, engine.White)

	out := board(b, []engine.Point{{Row: 0, Col: 0}})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "    0 1 2 3 4", lines[0])
	assert.Equal(t, " 0  X . . . .", lines[1])
	assert.Equal(t, " 1  . o . . .", lines[2])
}

func TestRenderGameHeader(t *testing.T) {
	rs, _ := engine.DefaultCatalog().Lookup("tiny")
	now := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	g := engine.NewGame("g1", "alice", "", rs, now)
	require.NoError(t, g.Start(now))

	var buf bytes.Buffer
	renderGame(&buf, g)
	assert.Contains(t, buf.String(), "game g1  [tiny]  ACTIVE")
	assert.Contains(t, buf.String(), "white: -")
	assert.Contains(t, buf.String(), "black to move (alice)")
}

func TestPlayerCommand(t *testing.T) {
	player, rest, err := playerCommand("move", []string{"-player", "bob", "g1", "7", "7"}, 3)
	require.NoError(t, err)
	assert.Equal(t, "bob", player)
	assert.Equal(t, []string{"g1", "7", "7"}, rest)

	_, _, err = playerCommand("move", []string{"g1", "7", "7"}, 3)
	assert.ErrorAs(t, err, new(usageError))

	_, err = parse(flag.NewFlagSet("show", flag.ContinueOnError), nil, 1)
	assert.ErrorAs(t, err, new(usageError))
}
