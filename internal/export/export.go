// Package export writes a board at a fixed 10 units per cell, independent of
// the on-screen cell size. SVG, PNG and PDF all place the same dots.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	applog "dotmatrix/internal/log"
	"dotmatrix/internal/state"
)

// Scale is the export size of one cell.
const Scale = 10

// ErrEmptySnapshot is returned for a snapshot without a grid.
var ErrEmptySnapshot = errors.New("export: snapshot has no grid")

// ErrCancelled is returned by a Saver when the user dismissed the save.
var ErrCancelled = errors.New("export: cancelled")

// Format is an export file type; its value is the file extension.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
)

// Dot is one filled circle in export units.
type Dot struct {
	CX, CY, R float64
}

// Dots lists the circles for every on cell, row by row.
func Dots(g *state.Grid, dotSize float64) []Dot {
	r := Scale * dotSize / 2
	cells := g.Filled()
	dots := make([]Dot, 0, len(cells))
	for _, c := range cells {
		dots = append(dots, Dot{
			CX: float64(c.Col*Scale + Scale/2),
			CY: float64(c.Row*Scale + Scale/2),
			R:  r,
		})
	}
	return dots
}

// Size is the document size in export units.
func Size(d state.Dimensions) (int, int) {
	return d.Width * Scale, d.Height * Scale
}

// FileName is the download name, e.g. dot-matrix-16x16.svg.
func FileName(d state.Dimensions, f Format) string {
	return fmt.Sprintf("dot-matrix-%dx%d.%s", d.Width, d.Height, f)
}

// Saver delivers a finished file, e.g. by writing it to disk or handing it
// to a save dialog. Save returns once the file is written or the user has
// cancelled with ErrCancelled.
type Saver interface {
	Save(name string, data []byte) error
}

// SaverFunc adapts a function to Saver.
type SaverFunc func(name string, data []byte) error

func (f SaverFunc) Save(name string, data []byte) error { return f(name, data) }

// DirSaver writes files into Dir, creating it when missing.
type DirSaver struct {
	Dir string
}

func (d DirSaver) Save(name string, data []byte) error {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(d.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Exporter encodes snapshots and hands the bytes to a Saver.
type Exporter struct {
	saver Saver
	log   *slog.Logger
}

func NewExporter(saver Saver) *Exporter {
	return &Exporter{saver: saver, log: applog.With("export")}
}

// ExportVector writes an SVG and saves it.
func (e *Exporter) ExportVector(s state.Snapshot) error {
	return e.export(s, FormatSVG, WriteSVG)
}

// ExportPDF writes a one-page PDF and saves it.
func (e *Exporter) ExportPDF(s state.Snapshot) error {
	return e.export(s, FormatPDF, WritePDF)
}

// ExportRaster encodes a PNG on a separate goroutine and saves it. The
// returned channel yields the outcome once and is then closed; callers may
// ignore it. If encoding fails nothing is saved.
func (e *Exporter) ExportRaster(s state.Snapshot) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- e.export(s, FormatPNG, WritePNG)
	}()
	return done
}

func (e *Exporter) export(s state.Snapshot, f Format, write func(io.Writer, state.Snapshot) error) error {
	if s.Grid == nil {
		return ErrEmptySnapshot
	}
	name := FileName(s.Dimensions(), f)
	var buf bytes.Buffer
	if err := write(&buf, s); err != nil {
		e.log.Error("encode failed", "file", name, "err", err)
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := e.saver.Save(name, buf.Bytes()); err != nil {
		if errors.Is(err, ErrCancelled) {
			e.log.Info("export cancelled", "file", name)
			return err
		}
		e.log.Error("save failed", "file", name, "err", err)
		return fmt.Errorf("save %s: %w", name, err)
	}
	e.log.Info("exported", "file", name, "bytes", buf.Len(), "dots", s.Grid.Count())
	return nil
}
