package dehaze

import (
	"math"
)

// MaxClasses bounds the number of window scales. Window half-widths are
// derived as MaxHalfWidth+1-class, so class MaxClasses maps to radius 1.
const (
	MaxClasses   = 7
	MaxHalfWidth = 7
)

// Config carries every tunable of the pipeline. The zero value is not
// usable; start from DefaultConfig.
type Config struct {
	// WindowSizes lists the contrast analysis box sizes, largest first.
	WindowSizes []int `yaml:"window_sizes"`
	// TolerancePct biases classification towards finer windows, in [0,100).
	TolerancePct float64 `yaml:"tolerance_pct"`
	// Multiplier scales the atmospheric light windows.
	Multiplier int `yaml:"multiplier"`
	// W is the scattering coefficient used by the transmission estimate.
	W float64 `yaml:"w"`
	// T0 is the transmission floor applied during radiance recovery.
	T0 float64 `yaml:"t0"`
	// GaussianSigma smooths the atmospheric light; 0 disables smoothing.
	GaussianSigma float64 `yaml:"gaussian_sigma"`
	// SmoothAcrossChannels also blurs along the channel axis, which is
	// what an isotropic 3-D Gaussian over the stacked map does.
	SmoothAcrossChannels bool `yaml:"smooth_across_channels"`
	// Workers sizes the pixel worker pool; 0 means GOMAXPROCS.
	Workers int `yaml:"workers"`
}

func DefaultConfig() Config {
	return Config{
		WindowSizes:          []int{15, 13, 11, 9, 7, 5, 3},
		TolerancePct:         3,
		Multiplier:           5,
		W:                    0.9,
		T0:                   0.02,
		GaussianSigma:        10,
		SmoothAcrossChannels: true,
	}
}

// Validate checks the configuration against an image of h rows and w columns.
func (c Config) Validate(h, w int) error {
	if len(c.WindowSizes) == 0 {
		return configErrorf("window_sizes", "at least one window size is required")
	}
	if len(c.WindowSizes) > MaxClasses {
		return configErrorf("window_sizes", "%d sizes given, at most %d supported", len(c.WindowSizes), MaxClasses)
	}
	limit := min(h, w)
	for i, s := range c.WindowSizes {
		switch {
		case s <= 0:
			return configErrorf("window_sizes", "size %d at index %d is not positive", s, i)
		case s%2 == 0:
			return configErrorf("window_sizes", "size %d at index %d is even", s, i)
		case s >= limit:
			return configErrorf("window_sizes", "size %d at index %d is not smaller than min(H,W)=%d", s, i, limit)
		}
	}
	if math.IsNaN(c.TolerancePct) || c.TolerancePct < 0 || c.TolerancePct >= 100 {
		return configErrorf("tolerance_pct", "%v outside [0,100)", c.TolerancePct)
	}
	if c.Multiplier < 2 {
		return configErrorf("multiplier", "%d leaves an empty atmospheric light window, need >= 2", c.Multiplier)
	}
	if math.IsNaN(c.W) || c.W <= 0 || c.W > 1 {
		return configErrorf("w", "%v outside (0,1]", c.W)
	}
	if math.IsNaN(c.T0) || c.T0 <= 0 {
		return configErrorf("t0", "%v must be positive", c.T0)
	}
	if math.IsNaN(c.GaussianSigma) || c.GaussianSigma < 0 {
		return configErrorf("gaussian_sigma", "%v must not be negative", c.GaussianSigma)
	}
	if c.Workers < 0 {
		return configErrorf("workers", "%d must not be negative", c.Workers)
	}
	return nil
}
