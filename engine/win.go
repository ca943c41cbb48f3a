package engine

// axes are the four line directions: vertical, horizontal, diagonal ↘, diagonal ↗.
var axes = [4][2]int{{1, 0}, {0, 1}, {1, 1}, {-1, 1}}

// run describes the contiguous line of one color through a point on one axis.
type run struct {
	length int
	// first cells past each end (may be off-board)
	fwdRow, fwdCol int
	bwdRow, bwdCol int
	dr, dc         int
}

// scanRun counts contiguous stones of color through (row,col) along (dr,dc),
// inclusive of (row,col) itself.
func scanRun(b *BoardState, row, col, dr, dc int, color Cell) run {
	r := run{length: 1, dr: dr, dc: dc}

	// forward
	fr, fc := row+dr, col+dc
	for b.InBounds(fr, fc) && b.At(fr, fc) == color {
		r.length++
		fr += dr
		fc += dc
	}

	// backward
	br, bc := row-dr, col-dc
	for b.InBounds(br, bc) && b.At(br, bc) == color {
		r.length++
		br -= dr
		bc -= dc
	}

	r.fwdRow, r.fwdCol = fr, fc
	r.bwdRow, r.bwdCol = br, bc
	return r
}

// blockedBoth reports whether the opposing color sits on both ends.
// An off-board end counts as open.
func (r run) blockedBoth(b *BoardState, color Cell) bool {
	opp := color.Opponent()
	fwd := b.InBounds(r.fwdRow, r.fwdCol) && b.At(r.fwdRow, r.fwdCol) == opp
	bwd := b.InBounds(r.bwdRow, r.bwdCol) && b.At(r.bwdRow, r.bwdCol) == opp
	return fwd && bwd
}

// extendsWith reports whether either end cell is color.
func (r run) extendsWith(b *BoardState, color Cell) bool {
	if b.InBounds(r.fwdRow, r.fwdCol) && b.At(r.fwdRow, r.fwdCol) == color {
		return true
	}
	return b.InBounds(r.bwdRow, r.bwdCol) && b.At(r.bwdRow, r.bwdCol) == color
}

// winning applies the ruleset's overline and Caro policies to one run.
func (r run) winning(b *BoardState, color Cell, rs *RuleSet) bool {
	if !rs.AllowOverlines {
		// exact five: a six or longer never counts
		return r.length == WinLength && !r.extendsWith(b, color)
	}
	if r.length < WinLength {
		return false
	}
	if rs.Forbidden.RequireUnblockedEnd && r.blockedBoth(b, color) {
		return false
	}
	return true
}

// CheckWin decides whether the stone of color just placed at (row,col)
// completes a winning line under rs. Call it once per placed stone, after
// placement and before the turn toggles.
func CheckWin(b *BoardState, row, col int, color Cell, rs *RuleSet) bool {
	if color == Empty || !b.InBounds(row, col) || b.At(row, col) != color {
		return false
	}
	for _, d := range axes {
		if scanRun(b, row, col, d[0], d[1], color).winning(b, color, rs) {
			return true
		}
	}
	return false
}

// WinningLine returns the stones of the first winning run through (row,col),
// ordered from the backward end. Empty when CheckWin would be false.
func WinningLine(b *BoardState, row, col int, color Cell, rs *RuleSet) []Point {
	if color == Empty || !b.InBounds(row, col) || b.At(row, col) != color {
		return nil
	}
	for _, d := range axes {
		r := scanRun(b, row, col, d[0], d[1], color)
		if !r.winning(b, color, rs) {
			continue
		}
		line := make([]Point, 0, r.length)
		pr, pc := r.bwdRow+r.dr, r.bwdCol+r.dc
		for i := 0; i < r.length; i++ {
			line = append(line, Point{Row: pr, Col: pc})
			pr += r.dr
			pc += r.dc
		}
		return line
	}
	return nil
}
