// Package render turns pipeline buffers into displayable images. Nothing
// here feeds back into the dehaze stages; values are only scaled and
// clipped for viewing or encoding.
package render

import (
	"image"
	"image/color"
	"math"

	"gonum.org/v1/gonum/floats"

	"haze-obliterator/internal/dehaze"
)

// Quantize clips every sample of img to [0,1] and scales it to 8 bits.
// NaN samples become 0.
func Quantize(img *dehaze.Image3) *dehaze.RGBImage {
	out := dehaze.NewRGBImage(img.H, img.W)
	for i, v := range img.Pix {
		out.Pix[i] = toByte(v)
	}
	return out
}

func toByte(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}

// planeImage presents a Plane as a grayscale image, mapping [lo,hi] onto
// black to white.
type planeImage struct {
	p      *dehaze.Plane
	lo, hi float64
}

func (g planeImage) ColorModel() color.Model {
	return color.GrayModel
}

func (g planeImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, g.p.W, g.p.H)
}

func (g planeImage) At(x, y int) color.Color {
	return color.Gray{Y: scale(g.p.At(y, x), g.lo, g.hi)}
}

func scale(v, lo, hi float64) uint8 {
	if hi <= lo {
		return 0
	}
	return toByte((v - lo) / (hi - lo))
}

// valueRange returns the finite min and max of values.
func valueRange(values []float64) (float64, float64) {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return 0, 0
	}
	return floats.Min(finite), floats.Max(finite)
}

// Gray renders p with min-max scaling and reports the range used.
func Gray(p *dehaze.Plane) (*image.Gray, float64, float64) {
	lo, hi := valueRange(p.Pix)
	src := planeImage{p: p, lo: lo, hi: hi}
	out := image.NewGray(src.Bounds())
	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			out.SetGray(x, y, src.At(x, y).(color.Gray))
		}
	}
	return out, lo, hi
}

// RGBA converts an 8-bit pipeline image to an opaque *image.RGBA.
func RGBA(img *dehaze.RGBImage) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.W, img.H))
	for i := 0; i < img.H*img.W; i++ {
		copy(out.Pix[i*4:i*4+3], img.Pix[i*dehaze.Channels:i*dehaze.Channels+3])
		out.Pix[i*4+3] = 0xff
	}
	return out
}
