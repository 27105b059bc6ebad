package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"

	"dotmatrix/internal/export"
)

// DialogSaver hands finished exports to a native save dialog. Save blocks
// until the user picks a file or cancels, so it must not be called from the
// UI goroutine.
type DialogSaver struct {
	Window fyne.Window
}

func (d DialogSaver) Save(name string, data []byte) error {
	done := make(chan error, 1)
	fyne.Do(func() {
		save := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
			done <- writeChosen(w, err, data)
		}, d.Window)
		save.SetFileName(name)
		save.Show()
	})
	return <-done
}

// writeChosen finishes a save dialog. A nil writer means the dialog was
// dismissed.
func writeChosen(w fyne.URIWriteCloser, err error, data []byte) error {
	if err != nil {
		return err
	}
	if w == nil {
		return export.ErrCancelled
	}
	defer w.Close()
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", w.URI().Name(), err)
	}
	return nil
}
