package export

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dotmatrix/internal/render"
	"dotmatrix/internal/state"
)

func snapshot(t *testing.T, width, height int, dotSize float64, on ...state.Cell) state.Snapshot {
	t.Helper()
	g, err := state.NewGrid(width, height)
	require.NoError(t, err)
	for _, c := range on {
		g.Set(c, true)
	}
	return state.Snapshot{Grid: g, DotSize: dotSize}
}

func TestDotsGeometry(t *testing.T) {
	s := snapshot(t, 3, 2, 0.7, state.Cell{Col: 2, Row: 0}, state.Cell{Col: 0, Row: 1})
	assert.Equal(t, []Dot{
		{CX: 25, CY: 5, R: 3.5},
		{CX: 5, CY: 15, R: 3.5},
	}, Dots(s.Grid, s.DotSize))
}

func TestFileName(t *testing.T) {
	d := state.Dimensions{Width: 24, Height: 8}
	assert.Equal(t, "dot-matrix-24x8.svg", FileName(d, FormatSVG))
	assert.Equal(t, "dot-matrix-24x8.png", FileName(d, FormatPNG))
	assert.Equal(t, "dot-matrix-24x8.pdf", FileName(d, FormatPDF))
}

func TestWriteSVGScenario(t *testing.T) {
	s := snapshot(t, 2, 2, 1.0, state.Cell{Col: 1, Row: 1})
	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, s))

	want := `<?xml version="1.0" encoding="UTF-8"?>
<svg width="20" height="20" xmlns="http://www.w3.org/2000/svg">
  <rect width="20" height="20" fill="transparent"/>
  <circle cx="15" cy="15" r="5" fill="black"/>
</svg>`
	assert.Equal(t, want, buf.String())
}

func TestWriteSVGFractionalRadius(t *testing.T) {
	s := snapshot(t, 1, 1, 0.7, state.Cell{})
	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, s))
	assert.Contains(t, buf.String(), `<circle cx="5" cy="5" r="3.5" fill="black"/>`)
}

func TestRenderPNG(t *testing.T) {
	s := snapshot(t, 3, 2, 0.7, state.Cell{Col: 1, Row: 1})
	img, err := RenderPNG(s)
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 30, 20), img.Bounds())
	_, _, _, a := img.At(0, 0).RGBA()
	assert.Zero(t, a, "background is transparent")
	_, _, _, a = img.At(5, 5).RGBA()
	assert.Zero(t, a, "off cell stays transparent")
	r, g, b, a := img.At(15, 15).RGBA()
	assert.Equal(t, [4]uint32{0, 0, 0, 0xffff}, [4]uint32{r, g, b, a}, "dot center")
}

func TestRasterAndVectorShareGeometry(t *testing.T) {
	cells := []state.Cell{{Col: 0, Row: 0}, {Col: 3, Row: 1}, {Col: 2, Row: 3}}
	s := snapshot(t, 4, 4, 0.6, cells...)
	img, err := RenderPNG(s)
	require.NoError(t, err)

	for _, d := range Dots(s.Grid, s.DotSize) {
		_, _, _, a := img.At(int(d.CX), int(d.CY)).RGBA()
		assert.Equal(t, uint32(0xffff), a, "dot at %v,%v", d.CX, d.CY)
		_, _, _, a = img.At(int(d.CX+d.R+1), int(d.CY)).RGBA()
		assert.Zero(t, a, "just outside dot at %v,%v", d.CX, d.CY)
	}
}

func TestExportIgnoresDisplayCellSize(t *testing.T) {
	s := snapshot(t, 8, 8, 0.7, state.Cell{Col: 4, Row: 2})
	var before bytes.Buffer
	require.NoError(t, WriteSVG(&before, s))

	// painting at any on-screen size does not feed back into export
	for _, cs := range []float64{render.MinCellSize, 33, render.MaxCellSize} {
		_, err := render.NewRenderer().Paint(s, cs)
		require.NoError(t, err)
		var after bytes.Buffer
		require.NoError(t, WriteSVG(&after, s))
		assert.Equal(t, before.String(), after.String())
	}
	assert.Equal(t, []Dot{{CX: 45, CY: 25, R: 3.5}}, Dots(s.Grid, s.DotSize))
}

func TestWritePDF(t *testing.T) {
	s := snapshot(t, 2, 2, 1.0, state.Cell{Col: 1, Row: 1})
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, s))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Contains(t, buf.String(), "/MediaBox [0 0 20.00 20.00]")
}

func TestEmptySnapshot(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, WriteSVG(&buf, state.Snapshot{}), ErrEmptySnapshot)
	assert.ErrorIs(t, WritePNG(&buf, state.Snapshot{}), ErrEmptySnapshot)
	assert.ErrorIs(t, WritePDF(&buf, state.Snapshot{}), ErrEmptySnapshot)
}

type memSaver struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (m *memSaver) Save(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.files == nil {
		m.files = map[string][]byte{}
	}
	m.files[name] = append([]byte(nil), data...)
	return nil
}

func TestExporterSavesEachFormat(t *testing.T) {
	saver := &memSaver{}
	e := NewExporter(saver)
	s := snapshot(t, 16, 8, 0.7, state.Cell{Col: 3, Row: 3})

	require.NoError(t, e.ExportVector(s))
	require.NoError(t, e.ExportPDF(s))
	require.NoError(t, <-e.ExportRaster(s))

	require.Contains(t, saver.files, "dot-matrix-16x8.svg")
	require.Contains(t, saver.files, "dot-matrix-16x8.pdf")
	require.Contains(t, saver.files, "dot-matrix-16x8.png")

	img, err := png.Decode(bytes.NewReader(saver.files["dot-matrix-16x8.png"]))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 160, 80), img.Bounds())
	assert.Equal(t, color.NRGBAModel.Convert(color.Black), color.NRGBAModel.Convert(img.At(35, 35)))
}

func TestExportRasterSnapshotsBeforeReturning(t *testing.T) {
	b, err := state.NewBoard(4, 4)
	require.NoError(t, err)
	b.SetCell(state.Cell{Col: 1, Row: 1}, true)

	saver := &memSaver{}
	done := NewExporter(saver).ExportRaster(b.Snapshot())
	require.NoError(t, b.Resize(48, 48))
	require.NoError(t, <-done)

	_, open := <-done
	assert.False(t, open)
	assert.Contains(t, saver.files, "dot-matrix-4x4.png")
}

func TestExporterSaveFailure(t *testing.T) {
	boom := errors.New("disk full")
	e := NewExporter(SaverFunc(func(string, []byte) error { return boom }))
	s := snapshot(t, 2, 2, 1)

	assert.ErrorIs(t, e.ExportVector(s), boom)
	assert.ErrorIs(t, <-e.ExportRaster(s), boom)
	assert.ErrorIs(t, e.ExportVector(state.Snapshot{}), ErrEmptySnapshot)
}

func TestExporterCancelled(t *testing.T) {
	e := NewExporter(SaverFunc(func(string, []byte) error { return ErrCancelled }))
	s := snapshot(t, 2, 2, 1)

	assert.ErrorIs(t, e.ExportPDF(s), ErrCancelled)
	assert.ErrorIs(t, <-e.ExportRaster(s), ErrCancelled)
}

func TestDirSaver(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, DirSaver{Dir: dir}.Save("a.svg", []byte("<svg/>")))
	data, err := os.ReadFile(filepath.Join(dir, "a.svg"))
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(data))
}
