package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"dotmatrix/internal/state"
)

// WriteSVG writes s as an SVG document with a transparent background and one
// black circle per on cell.
func WriteSVG(w io.Writer, s state.Snapshot) error {
	if s.Grid == nil {
		return ErrEmptySnapshot
	}
	width, height := Size(s.Dimensions())
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	fmt.Fprintf(bw, "<svg width=\"%d\" height=\"%d\" xmlns=\"http://www.w3.org/2000/svg\">\n", width, height)
	fmt.Fprintf(bw, "  <rect width=\"%d\" height=\"%d\" fill=\"transparent\"/>\n", width, height)
	for _, d := range Dots(s.Grid, s.DotSize) {
		fmt.Fprintf(bw, "  <circle cx=\"%s\" cy=\"%s\" r=\"%s\" fill=\"black\"/>\n",
			num(d.CX), num(d.CY), num(d.R))
	}
	fmt.Fprintf(bw, "</svg>")
	return bw.Flush()
}

// num prints the shortest decimal form: 5, not 5.000000.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
