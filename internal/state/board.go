package state

import (
	"fmt"
	"image"
	"sync"

	applog "dotmatrix/internal/log"
)

// Defaults for a fresh board.
const (
	DefaultWidth        = 16
	DefaultHeight       = 16
	DefaultDotSize      = 0.7
	DefaultImageOpacity = 0.5
)

// ChangeKind says which part of a board changed.
type ChangeKind int

const (
	ChangeCells ChangeKind = iota
	ChangeDimensions
	ChangeDotSize
	ChangeImageOpacity
	ChangeReference
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeCells:
		return "cells"
	case ChangeDimensions:
		return "dimensions"
	case ChangeDotSize:
		return "dot_size"
	case ChangeImageOpacity:
		return "image_opacity"
	case ChangeReference:
		return "reference"
	default:
		return "unknown"
	}
}

// Change is delivered to subscribers after every effective mutation.
type Change struct {
	Kind     ChangeKind
	Revision uint64
}

// Snapshot is an immutable copy of a board. Reference is shared, not copied:
// the board never owns the image.
type Snapshot struct {
	Grid         *Grid
	DotSize      float64
	ImageOpacity float64
	Reference    image.Image
	Revision     uint64
}

func (s Snapshot) Dimensions() Dimensions {
	if s.Grid == nil {
		return Dimensions{}
	}
	return s.Grid.Dimensions()
}

// Board is the editable document: the grid, the render parameters and the
// borrowed reference image. Subscribers are called synchronously, outside
// the lock, once per effective mutation.
type Board struct {
	mu           sync.RWMutex
	grid         *Grid
	dotSize      float64
	imageOpacity float64
	reference    image.Image
	clock        *Clock

	subMu       sync.RWMutex
	subscribers []func(Change)
}

// NewBoard creates an all-off board of the given size with default
// parameters.
func NewBoard(width, height int) (*Board, error) {
	g, err := NewGrid(width, height)
	if err != nil {
		return nil, fmt.Errorf("new board %dx%d: %w", width, height, err)
	}
	return &Board{
		grid:         g,
		dotSize:      DefaultDotSize,
		imageOpacity: DefaultImageOpacity,
		clock:        NewClock(),
	}, nil
}

// Subscribe registers fn for change notifications.
func (b *Board) Subscribe(fn func(Change)) {
	b.subMu.Lock()
	defer b.subMu.Unlock()
	b.subscribers = append(b.subscribers, fn)
}

func (b *Board) notify(kind ChangeKind) {
	ch := Change{Kind: kind, Revision: b.clock.Tick()}
	b.subMu.RLock()
	subs := make([]func(Change), len(b.subscribers))
	copy(subs, b.subscribers)
	b.subMu.RUnlock()
	for _, fn := range subs {
		fn(ch)
	}
}

func (b *Board) Session() string  { return b.clock.Session() }
func (b *Board) Revision() uint64 { return b.clock.Revision() }

func (b *Board) Dimensions() Dimensions {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.grid.Dimensions()
}

// InitGrid replaces the matrix with an all-off one at the current size.
func (b *Board) InitGrid() {
	b.mu.Lock()
	b.grid.Reset()
	b.mu.Unlock()
	b.notify(ChangeCells)
}

// ClearGrid turns every cell off, keeping the dimensions.
func (b *Board) ClearGrid() {
	applog.With("state").Debug("clear grid")
	b.InitGrid()
}

// Resize rebuilds the grid at width x height. Content is discarded even if
// the size is unchanged. Non-positive sizes leave the board untouched.
func (b *Board) Resize(width, height int) error {
	g, err := NewGrid(width, height)
	if err != nil {
		return fmt.Errorf("resize to %dx%d: %w", width, height, err)
	}
	b.mu.Lock()
	b.grid = g
	b.mu.Unlock()
	applog.With("state").Debug("resize grid", "width", width, "height", height)
	b.notify(ChangeDimensions)
	return nil
}

// SetPreset applies a catalog size.
func (b *Board) SetPreset(p Preset) error {
	return b.Resize(p.Width, p.Height)
}

// Cell returns the value at c; out-of-range reads as off.
func (b *Board) Cell(c Cell) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.grid.Get(c)
}

// SetCell writes on at c and reports whether anything changed. Out-of-range
// cells are ignored. Subscribers hear only about real changes.
func (b *Board) SetCell(c Cell, on bool) bool {
	b.mu.Lock()
	changed := b.grid.Set(c, on)
	b.mu.Unlock()
	if changed {
		b.notify(ChangeCells)
	}
	return changed
}

func (b *Board) DotSize() float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dotSize
}

// SetDotSize sets the dot diameter as a fraction of a cell, expected in (0,1].
func (b *Board) SetDotSize(v float64) {
	b.mu.Lock()
	if b.dotSize == v {
		b.mu.Unlock()
		return
	}
	b.dotSize = v
	b.mu.Unlock()
	b.notify(ChangeDotSize)
}

func (b *Board) ImageOpacity() float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.imageOpacity
}

// SetImageOpacity sets the reference image opacity, expected in [0,1].
func (b *Board) SetImageOpacity(v float64) {
	b.mu.Lock()
	if b.imageOpacity == v {
		b.mu.Unlock()
		return
	}
	b.imageOpacity = v
	b.mu.Unlock()
	b.notify(ChangeImageOpacity)
}

func (b *Board) ReferenceImage() image.Image {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.reference
}

// SetReferenceImage borrows img as the tracing underlay.
func (b *Board) SetReferenceImage(img image.Image) {
	b.mu.Lock()
	b.reference = img
	b.mu.Unlock()
	b.notify(ChangeReference)
}

// RemoveReferenceImage drops the underlay. The grid is not touched.
func (b *Board) RemoveReferenceImage() {
	b.SetReferenceImage(nil)
}

// Snapshot copies the current state.
func (b *Board) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Snapshot{
		Grid:         b.grid.Clone(),
		DotSize:      b.dotSize,
		ImageOpacity: b.imageOpacity,
		Reference:    b.reference,
		Revision:     b.clock.Revision(),
	}
}
