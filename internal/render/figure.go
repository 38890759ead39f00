package render

import (
	"fmt"
	"image"
	"image/color"

	"haze-obliterator/internal/dehaze"
)

type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// ParseOrientation accepts "horizontal" or "vertical".
func ParseOrientation(s string) (Orientation, error) {
	switch s {
	case "", "horizontal":
		return Horizontal, nil
	case "vertical":
		return Vertical, nil
	default:
		return Horizontal, fmt.Errorf("unknown colorbar orientation %q", s)
	}
}

// Figure is one titled image, optionally with a colorbar describing the
// value range of single-channel data.
type Figure struct {
	Name        string
	Title       string
	Image       image.Image
	Min, Max    float64
	Colorbar    bool
	Orientation Orientation
}

// NewFigure renders data, which must be a *dehaze.Plane, *dehaze.ClassMap,
// *dehaze.Image3 or *dehaze.RGBImage. Three-channel float data is clipped
// to [0,1]; single-channel data is min-max scaled to gray.
func NewFigure(name, title string, data interface{}, orientation Orientation, colorbar bool) (Figure, error) {
	fig := Figure{Name: name, Title: title, Orientation: orientation, Colorbar: colorbar}
	switch d := data.(type) {
	case *dehaze.Plane:
		fig.Image, fig.Min, fig.Max = Gray(d)
	case *dehaze.ClassMap:
		fig.Image, fig.Min, fig.Max = Gray(d.Plane())
	case *dehaze.Image3:
		fig.Image = RGBA(Quantize(d))
		fig.Min, fig.Max = 0, 1
	case *dehaze.RGBImage:
		fig.Image = RGBA(d)
		fig.Min, fig.Max = 0, 255
	default:
		return Figure{}, fmt.Errorf("cannot render %T", data)
	}
	return fig, nil
}

// ColorbarImage draws the gray ramp used by single-channel figures. The
// ramp runs low to high left to right, or bottom to top when vertical.
func ColorbarImage(orientation Orientation, length, thickness int) *image.Gray {
	length = max(length, 2)
	thickness = max(thickness, 1)

	if orientation == Vertical {
		img := image.NewGray(image.Rect(0, 0, thickness, length))
		for y := 0; y < length; y++ {
			v := color.Gray{Y: uint8((length - 1 - y) * 255 / (length - 1))}
			for x := 0; x < thickness; x++ {
				img.SetGray(x, y, v)
			}
		}
		return img
	}

	img := image.NewGray(image.Rect(0, 0, length, thickness))
	for x := 0; x < length; x++ {
		v := color.Gray{Y: uint8(x * 255 / (length - 1))}
		for y := 0; y < thickness; y++ {
			img.SetGray(x, y, v)
		}
	}
	return img
}

// StageFigures renders every intermediate of res in pipeline order.
func StageFigures(res *dehaze.Result, orientation Orientation) ([]Figure, error) {
	type stage struct {
		name, title string
		data        interface{}
		colorbar    bool
	}
	stages := []stage{
		{"inverted", "Inverted image", res.Inverted, false},
		{"gray", "Inverted luma", res.Gray, true},
	}
	for k, layer := range res.Contrast.Layers {
		s := res.Contrast.Sizes[k]
		stages = append(stages, stage{fmt.Sprintf("std_%02d", s), fmt.Sprintf("Local std %dx%d", s, s), layer, true})
	}
	stages = append(stages,
		stage{"cci", "Contrast class index", res.Classes, true},
		stage{"dark_channel", "Dark channel", scaled(res.DarkChannel), false},
		stage{"atmosphere_raw", "Atmospheric light (max)", scaled(res.RawAtmosphere), false},
		stage{"atmosphere", "Atmospheric light (smoothed)", scaled(res.Atmosphere), false},
		stage{"transmission", "Transmission", res.Transmission, true},
		stage{"radiance", "Recovered radiance", res.Radiance, false},
	)

	figs := make([]Figure, 0, len(stages))
	for _, s := range stages {
		fig, err := NewFigure(s.name, s.title, s.data, orientation, s.colorbar)
		if err != nil {
			return nil, fmt.Errorf("stage %s: %w", s.name, err)
		}
		figs = append(figs, fig)
	}
	return figs, nil
}

// scaled maps 8-bit range float data onto [0,1] for display.
func scaled(img *dehaze.Image3) *dehaze.Image3 {
	out := dehaze.NewImage3(img.H, img.W)
	for i, v := range img.Pix {
		out.Pix[i] = v / 255
	}
	return out
}
