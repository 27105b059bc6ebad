package ui

import (
	"errors"
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"dotmatrix/internal/export"
	"dotmatrix/internal/state"
)

// Tools holds what the toolbar acts on.
type Tools struct {
	Board   *state.Board
	View    *BoardWidget
	Window  fyne.Window
	Export  *export.Exporter // save-dialog exports
	Quick   *export.Exporter // exports straight into the configured directory
	Sharing string           // link shown in the status bar, empty when not sharing
}

// NewToolbar builds the editor controls: size, dot and opacity settings,
// reference image and exports.
func NewToolbar(t Tools) fyne.CanvasObject {
	dims := t.Board.Dimensions()

	widthEntry := newSizeEntry(dims.Width)
	heightEntry := newSizeEntry(dims.Height)
	presets := widget.NewSelect(state.PresetNames(), func(name string) {
		p, ok := state.PresetByName(name)
		if !ok {
			return
		}
		if err := t.Board.SetPreset(p); err != nil {
			dialog.ShowError(err, t.Window)
			return
		}
		widthEntry.SetText(strconv.Itoa(p.Width))
		heightEntry.SetText(strconv.Itoa(p.Height))
	})
	presets.PlaceHolder = "Preset"
	apply := widget.NewButton("Apply", func() {
		w, errW := strconv.Atoi(widthEntry.Text)
		h, errH := strconv.Atoi(heightEntry.Text)
		if errW != nil || errH != nil {
			dialog.ShowError(fmt.Errorf("size must be whole numbers, got %q x %q", widthEntry.Text, heightEntry.Text), t.Window)
			return
		}
		if err := t.Board.Resize(w, h); err != nil {
			dialog.ShowError(err, t.Window)
		}
	})

	dotSlider := widget.NewSlider(0.1, 1.0)
	dotSlider.Step = 0.05
	dotSlider.SetValue(t.Board.DotSize())
	dotSlider.OnChanged = t.Board.SetDotSize

	opacitySlider := widget.NewSlider(0, 1)
	opacitySlider.Step = 0.05
	opacitySlider.SetValue(t.Board.ImageOpacity())
	opacitySlider.OnChanged = t.Board.SetImageOpacity

	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.ContentClearIcon(), t.Board.ClearGrid),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.FileImageIcon(), func() { openReference(t) }),
		widget.NewToolbarAction(theme.DeleteIcon(), t.Board.RemoveReferenceImage),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), func() { exportAll(t, t.Quick) }),
	)

	exports := container.NewHBox(
		widget.NewButton("SVG", func() { exportOne(t, t.Export, export.FormatSVG) }),
		widget.NewButton("PNG", func() { exportOne(t, t.Export, export.FormatPNG) }),
		widget.NewButton("PDF", func() { exportOne(t, t.Export, export.FormatPDF) }),
	)

	if t.Sharing != "" {
		t.View.SetStatus("Sharing at " + t.Sharing)
	}

	return container.NewHBox(
		presets,
		widthEntry,
		widget.NewLabel("x"),
		heightEntry,
		apply,
		widget.NewSeparator(),
		widget.NewLabel("Dot:"),
		container.New(layout.NewGridWrapLayout(fyne.NewSize(120, 35)), dotSlider),
		widget.NewLabel("Image:"),
		container.New(layout.NewGridWrapLayout(fyne.NewSize(120, 35)), opacitySlider),
		widget.NewSeparator(),
		tb,
		exports,
		layout.NewSpacer(),
	)
}

func newSizeEntry(v int) *widget.Entry {
	e := widget.NewEntry()
	e.SetText(strconv.Itoa(v))
	e.Validator = func(s string) error {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return fmt.Errorf("positive number required")
		}
		return nil
	}
	return e
}

// exportOne exports the current board in format f. Encoding and saving run
// off the UI goroutine; the result is reported against the exported size.
func exportOne(t Tools, e *export.Exporter, f export.Format) {
	if e == nil {
		return
	}
	snap := t.Board.Snapshot()
	dims := snap.Dimensions()
	go func() {
		err := runExport(e, snap, f)
		fyne.Do(func() { reportExport(t, dims, f, err) })
	}()
}

func runExport(e *export.Exporter, snap state.Snapshot, f export.Format) error {
	switch f {
	case export.FormatSVG:
		return e.ExportVector(snap)
	case export.FormatPDF:
		return e.ExportPDF(snap)
	case export.FormatPNG:
		return <-e.ExportRaster(snap)
	}
	return fmt.Errorf("unknown export format %q", f)
}

func exportAll(t Tools, e *export.Exporter) {
	for _, f := range []export.Format{export.FormatSVG, export.FormatPNG, export.FormatPDF} {
		exportOne(t, e, f)
	}
}

func exportStatus(dims state.Dimensions, f export.Format, err error) string {
	switch {
	case errors.Is(err, export.ErrCancelled):
		return "Export cancelled"
	case err != nil:
		return "Export failed"
	}
	return "Exported " + export.FileName(dims, f)
}

func reportExport(t Tools, dims state.Dimensions, f export.Format, err error) {
	if err != nil && !errors.Is(err, export.ErrCancelled) {
		dialog.ShowError(err, t.Window)
	}
	t.View.SetStatus(exportStatus(dims, f, err))
}
