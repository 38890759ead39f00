package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"

	"haze-obliterator/internal/logger"
	"haze-obliterator/internal/render"
)

const (
	AppName = "Haze Obliterator"
	AppID   = "com.imageprocessing.haze-obliterator"
)

// Show opens one window with a tab per figure and blocks until it is
// closed. It must be called from the main goroutine.
func Show(figs []render.Figure, log logger.Logger) {
	fyneApp := app.NewWithID(AppID)
	window := fyneApp.NewWindow(AppName)

	tabs := container.NewAppTabs()
	for _, fig := range figs {
		tabs.Append(container.NewTabItem(fig.Title, NewFigurePanel(fig)))
	}
	tabs.SetTabLocation(container.TabLocationLeading)

	window.SetContent(tabs)
	window.Resize(fyne.NewSize(ImageAreaWidth+320, ImageAreaHeight+160))
	window.CenterOnScreen()
	window.SetOnClosed(func() {
		log.Debug("Viewer", "window closed", nil)
	})

	log.Info("Viewer", "showing stages", map[string]interface{}{
		"figures": len(figs),
	})
	window.ShowAndRun()
}
