package render

import (
	"errors"
	"image"
	"image/color"
	"math"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"

	applog "dotmatrix/internal/log"
	"dotmatrix/internal/state"
)

// ErrNoSurface is returned when there is nothing to paint on, e.g. before the
// widget has been laid out. Callers drop the frame and wait for the next
// change.
var ErrNoSurface = errors.New("render: no drawing surface")

// Default palette.
var (
	BackgroundColor = color.NRGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}
	GridLineColor   = color.NRGBA{R: 0xdd, G: 0xdd, B: 0xdd, A: 0xff}
	DotColor        = color.NRGBA{A: 0xff}
)

// Renderer paints board snapshots. Every call redraws the whole surface.
type Renderer struct {
	Background color.Color
	GridLine   color.Color
	Dot        color.Color
	LineWidth  float64
}

func NewRenderer() *Renderer {
	return &Renderer{
		Background: BackgroundColor,
		GridLine:   GridLineColor,
		Dot:        DotColor,
		LineWidth:  1,
	}
}

// Paint draws s at cellSize display units per cell onto a fresh surface of
// floor(width*cellSize) x floor(height*cellSize) pixels.
func (r *Renderer) Paint(s state.Snapshot, cellSize float64) (*image.RGBA, error) {
	dims := s.Dimensions()
	w, h := surfaceSize(dims, cellSize)
	if w <= 0 || h <= 0 {
		return nil, ErrNoSurface
	}

	base := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(base, base.Bounds(), image.NewUniform(r.Background), image.Point{}, draw.Src)
	if s.Reference != nil {
		drawReference(base, s.Reference, s.ImageOpacity)
	}

	dc := gg.NewContextForImage(base)
	defer dc.Close()

	dc.SetColor(r.GridLine)
	dc.SetLineWidth(r.LineWidth)
	for col := 0; col <= dims.Width; col++ {
		x := float64(col) * cellSize
		dc.DrawLine(x, 0, x, float64(h))
	}
	for row := 0; row <= dims.Height; row++ {
		y := float64(row) * cellSize
		dc.DrawLine(0, y, float64(w), y)
	}
	if err := dc.Stroke(); err != nil {
		return nil, err
	}

	if err := fillDots(dc, s.Grid, cellSize, s.DotSize, r.Dot); err != nil {
		return nil, err
	}

	out, ok := dc.Image().(*image.RGBA)
	if !ok {
		out = image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(out, out.Bounds(), dc.Image(), image.Point{}, draw.Src)
	}
	applog.With("render").Debug("painted",
		"revision", s.Revision, "cell_size", cellSize, "width", w, "height", h)
	return out, nil
}

// drawReference stretches img over dst at the given opacity.
func drawReference(dst *image.RGBA, img image.Image, opacity float64) {
	a := math.Round(math.Min(math.Max(opacity, 0), 1) * 0xff)
	if a == 0 {
		return
	}
	opts := &draw.Options{SrcMask: image.NewUniform(color.Alpha{A: uint8(a)})}
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, opts)
}

// fillDots draws one filled circle per on cell, centered in its cell, with
// diameter cellSize*dotSize.
func fillDots(dc *gg.Context, g *state.Grid, cellSize, dotSize float64, col color.Color) error {
	if g == nil {
		return nil
	}
	radius := cellSize * dotSize / 2
	dc.SetColor(col)
	for _, c := range g.Filled() {
		cx := float64(c.Col)*cellSize + cellSize/2
		cy := float64(c.Row)*cellSize + cellSize/2
		dc.DrawCircle(cx, cy, radius)
	}
	return dc.Fill()
}
