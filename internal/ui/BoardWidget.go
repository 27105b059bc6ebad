package ui

import (
	"errors"
	"image/color"
	"log/slog"
	"math"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"

	"dotmatrix/internal/input"
	applog "dotmatrix/internal/log"
	"dotmatrix/internal/render"
	"dotmatrix/internal/state"
)

// Source supplies the snapshot to paint. *state.Board and the mirror both
// satisfy it.
type Source interface {
	Snapshot() state.Snapshot
}

// BoardWidget shows a board and, when editable, turns pointer and touch
// gestures into strokes. It repaints on every board change.
type BoardWidget struct {
	widget.BaseWidget
	source   Source
	machine  *input.Machine
	renderer *render.Renderer
	log      *slog.Logger

	mu     sync.RWMutex
	layout render.Layout

	statusBar *widget.Label
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ mobile.Touchable = (*BoardWidget)(nil)

// NewBoardWidget creates an editable view of board.
func NewBoardWidget(board *state.Board) *BoardWidget {
	b := newBoardWidget(board)
	b.machine = input.NewMachine(board, input.MapperFunc(b.CellAt))
	board.Subscribe(func(state.Change) { b.Refresh() })
	b.ExtendBaseWidget(b)
	return b
}

// NewViewerWidget creates a read-only view. The caller refreshes it when
// src changes.
func NewViewerWidget(src Source) *BoardWidget {
	b := newBoardWidget(src)
	b.ExtendBaseWidget(b)
	return b
}

func newBoardWidget(src Source) *BoardWidget {
	return &BoardWidget{
		source:    src,
		renderer:  render.NewRenderer(),
		log:       applog.With("ui"),
		statusBar: widget.NewLabel("Ready"),
	}
}

// ReadOnly reports whether pointer input is ignored.
func (b *BoardWidget) ReadOnly() bool { return b.machine == nil }

// StatusBar is the label the window shows under the board.
func (b *BoardWidget) StatusBar() *widget.Label { return b.statusBar }

// SetStatus updates the status bar from any goroutine.
func (b *BoardWidget) SetStatus(text string) {
	fyne.Do(func() { b.statusBar.SetText(text) })
}

// CellAt maps a widget-relative position to a cell using the current layout.
func (b *BoardWidget) CellAt(x, y float64) (state.Cell, bool) {
	b.mu.RLock()
	l := b.layout
	b.mu.RUnlock()
	return l.CellAt(x, y)
}

// Layout returns the geometry of the last paint.
func (b *BoardWidget) Layout() render.Layout {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.layout
}

// fit recomputes the cell size and centers the surface in size.
func (b *BoardWidget) fit(size fyne.Size, dims state.Dimensions) render.Layout {
	cs := render.CellSize(float64(size.Width), float64(size.Height), dims.Width, dims.Height)
	sw, sh := float64(dims.Width)*cs, float64(dims.Height)*cs
	l := render.Layout{
		Origin: render.Point{
			X: math.Max(0, math.Floor((float64(size.Width)-sw)/2)),
			Y: math.Max(0, math.Floor((float64(size.Height)-sh)/2)),
		},
		CellSize: cs,
		Dims:     dims,
	}
	b.mu.Lock()
	b.layout = l
	b.mu.Unlock()
	return l
}

func (b *BoardWidget) handle(ev input.Event) {
	if b.machine == nil {
		return
	}
	b.machine.Handle(ev)
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		b.handle(input.PointerEvent(float64(e.Position.X), float64(e.Position.Y), input.Press))
	}
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		b.handle(input.Event{Kind: input.Release})
	}
}

func (b *BoardWidget) MouseMoved(e *desktop.MouseEvent) {
	b.handle(input.PointerEvent(float64(e.Position.X), float64(e.Position.Y), input.Move))
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	b.handle(input.PointerEvent(float64(e.Position.X), float64(e.Position.Y), input.Move))
}

func (b *BoardWidget) DragEnd() {
	b.handle(input.Event{Kind: input.Release})
}

func (b *BoardWidget) TouchDown(e *mobile.TouchEvent) {
	b.touch(e, input.Press)
}

func (b *BoardWidget) TouchUp(e *mobile.TouchEvent) {
	b.touch(e, input.Release)
}

func (b *BoardWidget) TouchCancel(e *mobile.TouchEvent) {
	b.touch(e, input.Release)
}

func (b *BoardWidget) touch(e *mobile.TouchEvent, kind input.Kind) {
	ev, ok := input.TouchEvent([]input.TouchPoint{{X: float64(e.Position.X), Y: float64(e.Position.Y)}}, kind)
	if ok {
		b.handle(ev)
	}
}

func (b *BoardWidget) MouseIn(*desktop.MouseEvent) {}
func (b *BoardWidget) MouseOut()                    {}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &boardWidgetRenderer{
		board:      b,
		background: canvas.NewRectangle(color.White),
		image:      canvas.NewImageFromImage(nil),
	}
	r.image.FillMode = canvas.ImageFillStretch
	r.image.ScaleMode = canvas.ImageScalePixels
	return r
}

type boardWidgetRenderer struct {
	board      *BoardWidget
	background *canvas.Rectangle
	image      *canvas.Image
	size       fyne.Size
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.background, r.image}
}

func (r *boardWidgetRenderer) Layout(size fyne.Size) {
	r.size = size
	r.background.Resize(size)
	r.paint()
}

// paint redraws the whole board. Before the first layout there is no
// surface and the frame is skipped.
func (r *boardWidgetRenderer) paint() {
	if r.size.Width <= 0 || r.size.Height <= 0 {
		return
	}
	snap := r.board.source.Snapshot()
	l := r.board.fit(r.size, snap.Dimensions())
	img, err := r.board.renderer.Paint(snap, l.CellSize)
	if errors.Is(err, render.ErrNoSurface) {
		return
	}
	if err != nil {
		r.board.log.Error("paint failed", "err", err)
		return
	}
	r.image.Image = img
	r.image.Move(fyne.NewPos(float32(l.Origin.X), float32(l.Origin.Y)))
	r.image.Resize(fyne.NewSize(float32(img.Bounds().Dx()), float32(img.Bounds().Dy())))
	r.image.Refresh()
}

func (r *boardWidgetRenderer) Refresh() {
	r.paint()
	canvas.Refresh(r.board)
}

func (r *boardWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

func (r *boardWidgetRenderer) Destroy() {}
