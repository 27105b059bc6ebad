package render

import (
	"math"

	"dotmatrix/internal/state"
)

// Cell size bounds in display units.
const (
	MinCellSize     = 20.0
	MaxCellSize     = 50.0
	DefaultCellSize = 30.0
)

// Point is a position in display units.
type Point struct {
	X, Y float64
}

// CellSize picks the on-screen cell size that fits a width x height grid in
// the container, clamped to [MinCellSize, MaxCellSize]. An unknown
// (non-positive) container yields DefaultCellSize.
func CellSize(containerWidth, containerHeight float64, width, height int) float64 {
	if containerWidth <= 0 || containerHeight <= 0 || width <= 0 || height <= 0 {
		return DefaultCellSize
	}
	fit := math.Min(containerWidth/float64(width), containerHeight/float64(height))
	return math.Min(math.Max(fit, MinCellSize), MaxCellSize)
}

// CellFromPoint maps a display position to a grid cell. origin is the
// top-left corner of the painted surface. ok is false outside the grid.
// Input handling and hit-testing must both go through this function.
func CellFromPoint(p Point, cellSize float64, origin Point, width, height int) (state.Cell, bool) {
	if cellSize <= 0 {
		return state.Cell{}, false
	}
	col := math.Floor((p.X - origin.X) / cellSize)
	row := math.Floor((p.Y - origin.Y) / cellSize)
	if col < 0 || row < 0 || col >= float64(width) || row >= float64(height) {
		return state.Cell{}, false
	}
	return state.Cell{Col: int(col), Row: int(row)}, true
}

// Layout places a grid on screen.
type Layout struct {
	Origin   Point
	CellSize float64
	Dims     state.Dimensions
}

// CellAt resolves a display position through CellFromPoint.
func (l Layout) CellAt(x, y float64) (state.Cell, bool) {
	return CellFromPoint(Point{X: x, Y: y}, l.CellSize, l.Origin, l.Dims.Width, l.Dims.Height)
}

// CellCenter returns the display position of the middle of c.
func (l Layout) CellCenter(c state.Cell) Point {
	return Point{
		X: l.Origin.X + float64(c.Col)*l.CellSize + l.CellSize/2,
		Y: l.Origin.Y + float64(c.Row)*l.CellSize + l.CellSize/2,
	}
}

// SurfaceSize is the painted size in whole pixels.
func (l Layout) SurfaceSize() (int, int) {
	return surfaceSize(l.Dims, l.CellSize)
}

func surfaceSize(d state.Dimensions, cellSize float64) (int, int) {
	return int(float64(d.Width) * cellSize), int(float64(d.Height) * cellSize)
}
