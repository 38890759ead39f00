package dehaze

import (
	"math"

	"haze-obliterator/internal/parallel"
)

// classRadius maps a contrast class to a window half-width: class 1 gets
// the widest window, class MaxClasses a 2x2 one.
func classRadius(class int) int {
	return MaxHalfWidth + 1 - class
}

// DarkChannel returns, for every pixel and channel, the minimum of inv
// over the class-selected window. The window spans [c-r, c+r) on both axes
// around the pixel, so it holds 2r x 2r samples and always contains the
// pixel itself.
func DarkChannel(inv *Image3, cci *ClassMap, pool *parallel.Pool) (*Image3, error) {
	padded := inv.Pad(MaxHalfWidth)
	out := NewImage3(inv.H, inv.W)

	err := pool.For(inv.H, func(start, end int) error {
		for y := start; y < end; y++ {
			for x := 0; x < inv.W; x++ {
				mins := windowMin3(padded, y+MaxHalfWidth, x+MaxHalfWidth, classRadius(cci.At(y, x)))
				copy(out.Pix[(y*inv.W+x)*Channels:], mins[:])
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func windowMin3(p *Image3, cy, cx, r int) [Channels]float64 {
	mins := [Channels]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	for y := cy - r; y < cy+r; y++ {
		row := p.Pix[(y*p.W+cx-r)*Channels : (y*p.W+cx+r)*Channels]
		for i, v := range row {
			c := i % Channels
			if v < mins[c] {
				mins[c] = v
			}
		}
	}
	return mins
}
