package gui

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"haze-obliterator/internal/render"
)

const (
	ImageAreaWidth    = 640
	ImageAreaHeight   = 480
	colorbarLength    = 256
	colorbarThickness = 16
)

// NewFigurePanel lays out a titled image with an optional colorbar below
// it (horizontal) or to its right (vertical).
func NewFigurePanel(fig render.Figure) fyne.CanvasObject {
	img := canvas.NewImageFromImage(fig.Image)
	img.FillMode = canvas.ImageFillContain
	img.ScaleMode = canvas.ImageScalePixels
	img.SetMinSize(fyne.NewSize(ImageAreaWidth, ImageAreaHeight))

	title := widget.NewLabelWithStyle(fig.Title, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	if !fig.Colorbar {
		return container.NewBorder(title, nil, nil, nil, img)
	}

	bar := canvas.NewImageFromImage(render.ColorbarImage(fig.Orientation, colorbarLength, colorbarThickness))
	bar.FillMode = canvas.ImageFillStretch
	lo := widget.NewLabel(formatValue(fig.Min))
	hi := widget.NewLabel(formatValue(fig.Max))

	if fig.Orientation == render.Vertical {
		bar.SetMinSize(fyne.NewSize(colorbarThickness, ImageAreaHeight))
		scale := container.NewBorder(hi, lo, nil, nil, bar)
		return container.NewBorder(title, nil, nil, scale, img)
	}

	bar.SetMinSize(fyne.NewSize(ImageAreaWidth, colorbarThickness))
	scale := container.NewBorder(nil, nil, lo, hi, bar)
	return container.NewBorder(title, scale, nil, nil, img)
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}
