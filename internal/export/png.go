package export

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/gogpu/gg"

	"dotmatrix/internal/state"
)

// RenderPNG draws s on a transparent width*10 x height*10 surface.
func RenderPNG(s state.Snapshot) (image.Image, error) {
	if s.Grid == nil {
		return nil, ErrEmptySnapshot
	}
	width, height := Size(s.Dimensions())
	dc := gg.NewContext(width, height)
	defer dc.Close()

	dc.Clear()
	dc.SetColor(color.Black)
	for _, d := range Dots(s.Grid, s.DotSize) {
		dc.DrawCircle(d.CX, d.CY, d.R)
	}
	if err := dc.Fill(); err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// WritePNG renders s and PNG-encodes it.
func WritePNG(w io.Writer, s state.Snapshot) error {
	img, err := RenderPNG(s)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}
