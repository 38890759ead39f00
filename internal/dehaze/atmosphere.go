package dehaze

import (
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"haze-obliterator/internal/parallel"
)

// AtmosphereRadii returns the half-width table used by AtmosphericLight,
// floor((3m - (m/3)k) / 2) for k in [0, MaxClasses). Entry k serves class
// MaxClasses-k.
func AtmosphereRadii(multiplier int) [MaxClasses]int {
	var radii [MaxClasses]int
	m := float64(multiplier)
	for k := range radii {
		radii[k] = int(math.Floor((3*m - (m/3)*float64(k)) / 2))
	}
	return radii
}

// AtmosphericLight estimates the unsmoothed atmospheric light: each channel
// of dark is replaced by its maximum over a class-selected window scaled by
// multiplier. Channels are processed independently and concurrently.
func AtmosphericLight(dark *Image3, cci *ClassMap, multiplier int, pool *parallel.Pool) (*Image3, error) {
	var planes [Channels]*Plane
	var g errgroup.Group
	for c := range Channels {
		g.Go(func() error {
			plane, err := AtmosphericLightChannel(dark.Channel(c), cci, multiplier, pool)
			if err != nil {
				return fmt.Errorf("channel %d: %w", c, err)
			}
			planes[c] = plane
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return StackChannels(planes), nil
}

// AtmosphericLightChannel is AtmosphericLight for a single channel.
func AtmosphericLightChannel(dark *Plane, cci *ClassMap, multiplier int, pool *parallel.Pool) (*Plane, error) {
	pad := MaxHalfWidth * multiplier
	padded := dark.Pad(pad)
	radii := AtmosphereRadii(multiplier)
	out := NewPlane(dark.H, dark.W)

	// Row cost depends on the classes it holds, so rows are handed out
	// one at a time.
	err := pool.ForEach(dark.H, func(y int) error {
		for x := 0; x < dark.W; x++ {
			k := cci.At(y, x)
			if k < 1 || k > MaxClasses {
				return fmt.Errorf("%w: class %d at (%d,%d)", ErrInvalidImage, k, y, x)
			}
			out.Pix[y*dark.W+x] = windowMax(padded, y+pad, x+pad, radii[MaxClasses-k])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func windowMax(p *Plane, cy, cx, r int) float64 {
	best := math.Inf(-1)
	for y := cy - r; y < cy+r; y++ {
		for _, v := range p.Pix[y*p.W+cx-r : y*p.W+cx+r] {
			if v > best {
				best = v
			}
		}
	}
	return best
}
