package engine

//
// Board state + grid helpers.
//
// The grid is a flat row-major slice (row*size+col). Legality is not checked
// here beyond bounds; that is the validator's job.
//

// Captures counts stones taken by each color (Go only).
type Captures struct {
	Black int `json:"black"`
	White int `json:"white"`
}

// BoardState is the mutable grid exclusively owned by one Game.
type BoardState struct {
	size   int
	family GameFamily
	cells  []Cell

	// Go extension. Captured and KoPosition are carried for storage and
	// display; no capture or ko rule updates them yet.
	Captured          Captures
	KoPosition        *Point
	ConsecutivePasses int
}

// NewBoardState returns an empty size×size board for the family.
func NewBoardState(size int, family GameFamily) *BoardState {
	if size < 0 {
		size = 0
	}
	return &BoardState{
		size:   size,
		family: family,
		cells:  make([]Cell, size*size),
	}
}

// Size is the side length.
func (b *BoardState) Size() int { return b.size }

// Family is the game family this board was created for.
func (b *BoardState) Family() GameFamily { return b.family }

// InBounds is true iff 0 <= row,col < size.
func (b *BoardState) InBounds(row, col int) bool {
	return row >= 0 && row < b.size && col >= 0 && col < b.size
}

// At returns the cell at (row,col). Out-of-bounds reads return Empty.
func (b *BoardState) At(row, col int) Cell {
	if !b.InBounds(row, col) {
		return Empty
	}
	return b.cells[row*b.size+col]
}

// Set writes a cell. Out-of-bounds writes are ignored.
func (b *BoardState) Set(row, col int, c Cell) {
	if !b.InBounds(row, col) {
		return
	}
	b.cells[row*b.size+col] = c
}

// IsEmpty reports whether (row,col) is on the board and holds no stone.
func (b *BoardState) IsEmpty(row, col int) bool {
	return b.InBounds(row, col) && b.cells[row*b.size+col] == Empty
}

// CountEmpty returns the number of free intersections.
func (b *BoardState) CountEmpty() int {
	n := 0
	for _, c := range b.cells {
		if c == Empty {
			n++
		}
	}
	return n
}

// Full reports whether every intersection holds a stone.
func (b *BoardState) Full() bool { return b.CountEmpty() == 0 }

// Stones counts the stones of one color.
func (b *BoardState) Stones(c Cell) int {
	n := 0
	for _, v := range b.cells {
		if v == c {
			n++
		}
	}
	return n
}

// Clone returns a deep copy.
func (b *BoardState) Clone() *BoardState {
	out := *b
	out.cells = append([]Cell(nil), b.cells...)
	if b.KoPosition != nil {
		ko := *b.KoPosition
		out.KoPosition = &ko
	}
	return &out
}

// Equal compares grids and Go extension fields.
func (b *BoardState) Equal(o *BoardState) bool {
	if b == nil || o == nil {
		return b == o
	}
	if b.size != o.size || b.family != o.family || b.Captured != o.Captured || b.ConsecutivePasses != o.ConsecutivePasses {
		return false
	}
	if (b.KoPosition == nil) != (o.KoPosition == nil) || (b.KoPosition != nil && *b.KoPosition != *o.KoPosition) {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// ASCII flattens the board to one '0','1','2' byte per cell, row-major.
// Handy for logs and compact snapshots.
func (b *BoardState) ASCII() string {
	out := make([]byte, len(b.cells))
	for i, c := range b.cells {
		out[i] = byte('0' + c)
	}
	return string(out)
}
