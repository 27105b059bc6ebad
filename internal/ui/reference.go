package ui

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

var referenceExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp"}

// DecodeReference reads any supported raster image.
func DecodeReference(r io.Reader) (image.Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode reference image: %w", err)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("decode reference image: empty %s", format)
	}
	return img, nil
}

func openReference(t Tools) {
	open := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, t.Window)
			return
		}
		if r == nil {
			return
		}
		defer r.Close()
		img, err := DecodeReference(r)
		if err != nil {
			dialog.ShowError(err, t.Window)
			return
		}
		t.Board.SetReferenceImage(img)
		t.View.SetStatus("Reference " + r.URI().Name())
	}, t.Window)
	open.SetFilter(storage.NewExtensionFileFilter(referenceExtensions))
	open.Show()
}
