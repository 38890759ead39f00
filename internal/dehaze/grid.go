package dehaze

import (
	"fmt"
)

// Channels is the number of color channels every image buffer carries.
const Channels = 3

// RGBImage is an 8-bit interleaved RGB buffer. Pix[(y*W+x)*3+c].
type RGBImage struct {
	H, W int
	Pix  []uint8
}

// NewRGBImage allocates a black image.
func NewRGBImage(h, w int) *RGBImage {
	return &RGBImage{H: h, W: w, Pix: make([]uint8, h*w*Channels)}
}

func (m *RGBImage) At(y, x, c int) uint8 {
	return m.Pix[(y*m.W+x)*Channels+c]
}

func (m *RGBImage) Set(y, x, c int, v uint8) {
	m.Pix[(y*m.W+x)*Channels+c] = v
}

// Complement returns a new image holding 255 - v for every sample.
func (m *RGBImage) Complement() *RGBImage {
	out := NewRGBImage(m.H, m.W)
	for i, v := range m.Pix {
		out.Pix[i] = ^v
	}
	return out
}

// Float returns the image as a float Image3 with the same sample values.
func (m *RGBImage) Float() *Image3 {
	out := NewImage3(m.H, m.W)
	for i, v := range m.Pix {
		out.Pix[i] = float64(v)
	}
	return out
}

func (m *RGBImage) validate() error {
	if m == nil {
		return fmt.Errorf("%w: nil image", ErrInvalidImage)
	}
	if m.H <= 0 || m.W <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidImage, m.W, m.H)
	}
	if len(m.Pix) != m.H*m.W*Channels {
		return fmt.Errorf("%w: %d samples for %dx%dx%d", ErrInvalidImage, len(m.Pix), m.W, m.H, Channels)
	}
	return nil
}

// Plane is a single-channel float64 buffer in row-major order.
type Plane struct {
	H, W int
	Pix  []float64
}

func NewPlane(h, w int) *Plane {
	return &Plane{H: h, W: w, Pix: make([]float64, h*w)}
}

func (p *Plane) At(y, x int) float64 {
	return p.Pix[y*p.W+x]
}

func (p *Plane) Set(y, x int, v float64) {
	p.Pix[y*p.W+x] = v
}

// Pad returns a copy of p extended by n samples on every side using
// half-sample symmetric reflection (d c b a | a b c d | d c b a).
func (p *Plane) Pad(n int) *Plane {
	out := NewPlane(p.H+2*n, p.W+2*n)
	for y := 0; y < out.H; y++ {
		sy := reflectSymmetric(y-n, p.H)
		row := p.Pix[sy*p.W : (sy+1)*p.W]
		dst := out.Pix[y*out.W : (y+1)*out.W]
		for x := range dst {
			dst[x] = row[reflectSymmetric(x-n, p.W)]
		}
	}
	return out
}

// Image3 is a three-channel float64 buffer, interleaved like RGBImage.
type Image3 struct {
	H, W int
	Pix  []float64
}

func NewImage3(h, w int) *Image3 {
	return &Image3{H: h, W: w, Pix: make([]float64, h*w*Channels)}
}

func (m *Image3) At(y, x, c int) float64 {
	return m.Pix[(y*m.W+x)*Channels+c]
}

func (m *Image3) Set(y, x, c int, v float64) {
	m.Pix[(y*m.W+x)*Channels+c] = v
}

// Channel extracts channel c as a Plane.
func (m *Image3) Channel(c int) *Plane {
	out := NewPlane(m.H, m.W)
	for i := range out.Pix {
		out.Pix[i] = m.Pix[i*Channels+c]
	}
	return out
}

// SetChannel overwrites channel c with the contents of p.
func (m *Image3) SetChannel(c int, p *Plane) {
	for i, v := range p.Pix {
		m.Pix[i*Channels+c] = v
	}
}

// StackChannels interleaves three equally sized planes into an Image3.
func StackChannels(planes [Channels]*Plane) *Image3 {
	out := NewImage3(planes[0].H, planes[0].W)
	for c, p := range planes {
		out.SetChannel(c, p)
	}
	return out
}

// Pad extends the spatial axes by n samples with half-sample symmetric
// reflection. The channel axis is left untouched.
func (m *Image3) Pad(n int) *Image3 {
	out := NewImage3(m.H+2*n, m.W+2*n)
	for y := 0; y < out.H; y++ {
		sy := reflectSymmetric(y-n, m.H)
		for x := 0; x < out.W; x++ {
			sx := reflectSymmetric(x-n, m.W)
			src := (sy*m.W + sx) * Channels
			dst := (y*out.W + x) * Channels
			copy(out.Pix[dst:dst+Channels], m.Pix[src:src+Channels])
		}
	}
	return out
}

// ClassMap holds the per-pixel contrast class, 1-based.
type ClassMap struct {
	H, W int
	K    int
	Pix  []int
}

func NewClassMap(h, w, k int) *ClassMap {
	return &ClassMap{H: h, W: w, K: k, Pix: make([]int, h*w)}
}

func (m *ClassMap) At(y, x int) int {
	return m.Pix[y*m.W+x]
}

// Plane returns the classes as float values, mostly for rendering.
func (m *ClassMap) Plane() *Plane {
	out := NewPlane(m.H, m.W)
	for i, v := range m.Pix {
		out.Pix[i] = float64(v)
	}
	return out
}

// reflectSymmetric maps i onto [0,n) by half-sample symmetric reflection,
// repeating the mirror for offsets larger than n.
func reflectSymmetric(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * n
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - 1 - i
	}
	return i
}
