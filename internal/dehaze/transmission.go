package dehaze

import (
	"math"

	"haze-obliterator/internal/parallel"
)

// atmosphereEpsilon keeps the haze ratio finite where the light is zero.
const atmosphereEpsilon = 1e-8

// HazeRatio returns inv / (atm + 1e-8) per sample, with NaN replaced by 0.
func HazeRatio(inv, atm *Image3) *Image3 {
	out := NewImage3(inv.H, inv.W)
	for i, v := range inv.Pix {
		r := v / (atm.Pix[i] + atmosphereEpsilon)
		if math.IsNaN(r) {
			r = 0
		}
		out.Pix[i] = r
	}
	return out
}

// Transmission estimates 1 - w*m per pixel, where m is the minimum of the
// haze ratio over the class-selected window taken jointly over all
// channels. The result is not clamped.
func Transmission(inv, atm *Image3, cci *ClassMap, w float64, pool *parallel.Pool) (*Plane, error) {
	padded := HazeRatio(inv, atm).Pad(MaxHalfWidth)
	out := NewPlane(inv.H, inv.W)

	err := pool.For(inv.H, func(start, end int) error {
		for y := start; y < end; y++ {
			for x := 0; x < inv.W; x++ {
				mins := windowMin3(padded, y+MaxHalfWidth, x+MaxHalfWidth, classRadius(cci.At(y, x)))
				out.Pix[y*inv.W+x] = 1 - w*min(mins[0], mins[1], mins[2])
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
