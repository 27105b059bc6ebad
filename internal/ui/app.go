package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
)

// RunApp opens the main window around view and blocks until it closes.
// toolbar may be nil for a read-only viewer; it receives the window so
// dialogs have a parent. onStarted, if set, runs once the app is up.
func RunApp(title string, view *BoardWidget, toolbar func(fyne.Window) fyne.CanvasObject, onStarted func()) {
	myApp := app.New()
	if onStarted != nil {
		myApp.Lifecycle().SetOnStarted(onStarted)
	}
	myWindow := myApp.NewWindow(title)
	myWindow.Resize(fyne.NewSize(1024, 768))

	var top fyne.CanvasObject
	if toolbar != nil {
		top = toolbar(myWindow)
	}
	content := container.NewBorder(top, view.StatusBar(), nil, nil, view)

	myWindow.SetContent(content)
	myWindow.ShowAndRun()
}
