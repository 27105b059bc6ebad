// Package input turns pointer gestures into grid mutations: a press toggles
// the cell under it and a drag paints every further cell with the same mode.
package input

import (
	applog "dotmatrix/internal/log"
	"dotmatrix/internal/state"
)

// Mode is what a stroke does to the cells it visits.
type Mode int

const (
	Fill Mode = iota
	Erase
)

func (m Mode) String() string {
	if m == Erase {
		return "erase"
	}
	return "fill"
}

func (m Mode) value() bool { return m == Fill }

// Grid is the part of state.Board the machine mutates.
type Grid interface {
	Cell(c state.Cell) bool
	SetCell(c state.Cell, on bool) bool
	Dimensions() state.Dimensions
}

// Mapper resolves display positions to cells. render.Layout implements it.
type Mapper interface {
	CellAt(x, y float64) (state.Cell, bool)
}

// MapperFunc adapts a function to Mapper.
type MapperFunc func(x, y float64) (state.Cell, bool)

func (f MapperFunc) CellAt(x, y float64) (state.Cell, bool) { return f(x, y) }

// Stroke is the drag state. LastCell is meaningful only when HasLast is set.
type Stroke struct {
	Active   bool
	Mode     Mode
	LastCell state.Cell
	HasLast  bool
}

// Machine is the press/move/release state machine. It is driven from a
// single goroutine.
type Machine struct {
	grid   Grid
	mapper Mapper
	stroke Stroke
	dims   state.Dimensions
}

func NewMachine(grid Grid, mapper Mapper) *Machine {
	return &Machine{grid: grid, mapper: mapper}
}

// Stroke returns the current drag state. A stroke whose grid was resized
// since the press is ended first, so LastCell always lies inside the grid.
func (m *Machine) Stroke() Stroke {
	m.checkDims()
	return m.stroke
}

// checkDims ends the stroke if the grid was rebuilt under it.
func (m *Machine) checkDims() bool {
	if m.stroke.Active && m.grid.Dimensions() != m.dims {
		m.PressEnd()
		return false
	}
	return m.stroke.Active
}

// Handle dispatches ev and reports whether the grid changed.
func (m *Machine) Handle(ev Event) bool {
	switch ev.Kind {
	case Press:
		return m.PressStart(ev.X, ev.Y)
	case Move:
		return m.Move(ev.X, ev.Y)
	case Release:
		m.PressEnd()
	}
	return false
}

// PressStart begins a stroke on the cell under (x, y). The mode inverts that
// cell: an on cell starts an erase, an off cell starts a fill. A press outside
// the grid starts nothing, and later moves of the same gesture are ignored.
func (m *Machine) PressStart(x, y float64) bool {
	c, ok := m.mapper.CellAt(x, y)
	if !ok {
		return false
	}
	mode := Fill
	if m.grid.Cell(c) {
		mode = Erase
	}
	changed := m.grid.SetCell(c, mode.value())
	m.stroke = Stroke{Active: true, Mode: mode, LastCell: c, HasLast: true}
	m.dims = m.grid.Dimensions()
	applog.With("input").Debug("stroke start", "mode", mode, "col", c.Col, "row", c.Row)
	return changed
}

// Move extends an active stroke to the cell under (x, y). Positions outside
// the grid are ignored without ending the stroke, so re-entering resumes
// with the mode chosen at press.
func (m *Machine) Move(x, y float64) bool {
	if !m.checkDims() {
		return false
	}
	c, ok := m.mapper.CellAt(x, y)
	if !ok {
		return false
	}
	if m.stroke.HasLast && c == m.stroke.LastCell {
		return false
	}
	changed := m.grid.SetCell(c, m.stroke.Mode.value())
	m.stroke.LastCell = c
	m.stroke.HasLast = true
	return changed
}

// PressEnd finishes the stroke unconditionally.
func (m *Machine) PressEnd() {
	if m.stroke.Active {
		applog.With("input").Debug("stroke end", "mode", m.stroke.Mode)
	}
	m.stroke = Stroke{}
}
