package main

import (
	"fmt"
	"io"
	"strings"

	"okinoko-gomoku/engine"
)

// renderGame prints a header and the board; highlighted stones are drawn
// in upper case.
func renderGame(w io.Writer, g *engine.Game, highlight ...engine.Point) {
	fmt.Fprintf(w, "game %s  [%s]  %s\n", g.ID, g.RuleSet.Name, g.Status)
	fmt.Fprintf(w, "black: %s  white: %s\n", g.BlackPlayerID, orDash(g.WhitePlayerID))
	switch {
	case g.Status == engine.Active && g.Opening.InProgress():
		fmt.Fprintf(w, "swap2 %s: %s to act\n", g.Opening.Phase, g.Mover())
	case g.Status == engine.Active:
		fmt.Fprintf(w, "%s to move (%s)\n", g.CurrentPlayer, g.Mover())
	case g.Status == engine.Finished && g.WinnerID != "":
		fmt.Fprintf(w, "winner: %s\n", g.WinnerID)
	case g.Status == engine.Finished:
		fmt.Fprintln(w, "no winner")
	}
	fmt.Fprint(w, board(g.Board, highlight))
}

func board(b *engine.BoardState, highlight []engine.Point) string {
	hl := make(map[engine.Point]bool, len(highlight))
	for _, p := range highlight {
		hl[p] = true
	}

	var sb strings.Builder
	sb.WriteString("   ")
	for c := 0; c < b.Size(); c++ {
		fmt.Fprintf(&sb, "%2d", c)
	}
	sb.WriteByte('\n')
	for r := 0; r < b.Size(); r++ {
		fmt.Fprintf(&sb, "%2d ", r)
		for c := 0; c < b.Size(); c++ {
			ch := "."
			switch b.At(r, c) {
			case engine.Black:
				ch = "x"
			case engine.White:
				ch = "o"
			}
			if hl[engine.Point{Row: r, Col: c}] {
				ch = strings.ToUpper(ch)
			}
			sb.WriteString(" " + ch)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
