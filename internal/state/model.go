package state

import "errors"

// ErrInvalidDimensions is returned when a grid is asked to take a
// non-positive width or height.
var ErrInvalidDimensions = errors.New("state: grid dimensions must be positive")

// Cell addresses one grid position. Col runs left to right, Row top to bottom.
type Cell struct {
	Col int
	Row int
}

// Dimensions is the width and height of a grid in cells.
type Dimensions struct {
	Width  int
	Height int
}

// Valid reports whether both sides are positive.
func (d Dimensions) Valid() bool {
	return d.Width > 0 && d.Height > 0
}

// Contains reports whether c lies inside [0,Width) x [0,Height).
func (d Dimensions) Contains(c Cell) bool {
	return c.Col >= 0 && c.Col < d.Width && c.Row >= 0 && c.Row < d.Height
}

// Grid is a rectangular on/off matrix indexed [row][col].
// Every row always holds exactly Width entries. Grid is not safe for
// concurrent use; Board adds the locking.
type Grid struct {
	dims  Dimensions
	cells [][]bool
}

// NewGrid allocates an all-off grid.
func NewGrid(width, height int) (*Grid, error) {
	d := Dimensions{Width: width, Height: height}
	if !d.Valid() {
		return nil, ErrInvalidDimensions
	}
	return &Grid{dims: d, cells: allocCells(d)}, nil
}

func allocCells(d Dimensions) [][]bool {
	// one backing array keeps rows equal length by construction
	backing := make([]bool, d.Width*d.Height)
	cells := make([][]bool, d.Height)
	for row := range cells {
		cells[row] = backing[row*d.Width : (row+1)*d.Width : (row+1)*d.Width]
	}
	return cells
}

func (g *Grid) Dimensions() Dimensions { return g.dims }
func (g *Grid) Width() int             { return g.dims.Width }
func (g *Grid) Height() int            { return g.dims.Height }

// Get returns the value at c. Out-of-range cells read as off.
func (g *Grid) Get(c Cell) bool {
	if !g.dims.Contains(c) {
		return false
	}
	return g.cells[c.Row][c.Col]
}

// Set writes on at c and reports whether the stored value changed.
// Out-of-range writes are ignored.
func (g *Grid) Set(c Cell, on bool) bool {
	if !g.dims.Contains(c) {
		return false
	}
	if g.cells[c.Row][c.Col] == on {
		return false
	}
	g.cells[c.Row][c.Col] = on
	return true
}

// Reset turns every cell off.
func (g *Grid) Reset() {
	g.cells = allocCells(g.dims)
}

// Filled lists the on cells in row-major order.
func (g *Grid) Filled() []Cell {
	var out []Cell
	for row, cols := range g.cells {
		for col, on := range cols {
			if on {
				out = append(out, Cell{Col: col, Row: row})
			}
		}
	}
	return out
}

// Count returns the number of on cells.
func (g *Grid) Count() int {
	n := 0
	for _, cols := range g.cells {
		for _, on := range cols {
			if on {
				n++
			}
		}
	}
	return n
}

// Rows returns a copy of the matrix.
func (g *Grid) Rows() [][]bool {
	out := make([][]bool, len(g.cells))
	for row, cols := range g.cells {
		out[row] = append([]bool(nil), cols...)
	}
	return out
}

// Clone returns an independent copy of g.
func (g *Grid) Clone() *Grid {
	c := &Grid{dims: g.dims, cells: allocCells(g.dims)}
	for row, cols := range g.cells {
		copy(c.cells[row], cols)
	}
	return c
}
