package export

import (
	"io"

	"github.com/jung-kurt/gofpdf"

	"dotmatrix/internal/state"
)

// WritePDF writes s as a single page of width*10 x height*10 points with
// the same filled circles as the SVG.
func WritePDF(w io.Writer, s state.Snapshot) error {
	if s.Grid == nil {
		return ErrEmptySnapshot
	}
	width, height := Size(s.Dimensions())
	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: float64(width), Ht: float64(height)},
	})
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.SetCreator("dotmatrix", true)
	p.AddPage()
	p.SetFillColor(0, 0, 0)
	for _, d := range Dots(s.Grid, s.DotSize) {
		p.Circle(d.CX, d.CY, d.R, "F")
	}
	return p.Output(w)
}
