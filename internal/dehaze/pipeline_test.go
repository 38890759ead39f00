package dehaze

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty sizes", func(c *Config) { c.WindowSizes = nil }, "window_sizes"},
		{"too many sizes", func(c *Config) { c.WindowSizes = []int{17, 15, 13, 11, 9, 7, 5, 3} }, "window_sizes"},
		{"even size", func(c *Config) { c.WindowSizes = []int{15, 12, 3} }, "window_sizes"},
		{"zero size", func(c *Config) { c.WindowSizes = []int{5, 0} }, "window_sizes"},
		{"size too large", func(c *Config) { c.WindowSizes = []int{21, 3} }, "window_sizes"},
		{"negative tolerance", func(c *Config) { c.TolerancePct = -1 }, "tolerance_pct"},
		{"tolerance 100", func(c *Config) { c.TolerancePct = 100 }, "tolerance_pct"},
		{"multiplier 1", func(c *Config) { c.Multiplier = 1 }, "multiplier"},
		{"multiplier 0", func(c *Config) { c.Multiplier = 0 }, "multiplier"},
		{"w zero", func(c *Config) { c.W = 0 }, "w"},
		{"w above one", func(c *Config) { c.W = 1.5 }, "w"},
		{"t0 zero", func(c *Config) { c.T0 = 0 }, "t0"},
		{"negative sigma", func(c *Config) { c.GaussianSigma = -1 }, "gaussian_sigma"},
		{"negative workers", func(c *Config) { c.Workers = -2 }, "workers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate(21, 30)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			var cerr *ConfigError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, tt.field, cerr.Field)
		})
	}

	assert.NoError(t, DefaultConfig().Validate(16, 16))
	assert.Error(t, DefaultConfig().Validate(15, 100))
}

func TestRunRejectsBeforeProcessing(t *testing.T) {
	_, err := Run(NewRGBImage(10, 10), DefaultConfig())
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Run(&RGBImage{H: 3, W: 3}, DefaultConfig())
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = Run(nil, DefaultConfig())
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestPipelineStageInvariants(t *testing.T) {
	img := randomRGB(32, 28, 77)
	p := NewPipeline(DefaultConfig(), nil)

	res, err := p.Run(img)
	require.NoError(t, err)

	assert.Equal(t, img.Pix, res.Inverted.Complement().Pix)
	for _, v := range res.Classes.Pix {
		require.GreaterOrEqual(t, v, 1)
		require.LessOrEqual(t, v, 7)
	}
	for i, v := range res.DarkChannel.Pix {
		require.LessOrEqual(t, v, float64(res.Inverted.Pix[i]))
		require.GreaterOrEqual(t, res.RawAtmosphere.Pix[i], v)
	}
	for _, v := range res.Transmission.Pix {
		require.LessOrEqual(t, v, 1.0)
	}
	assert.Equal(t, img.H, res.Radiance.H)
	assert.Equal(t, img.W, res.Radiance.W)
	assert.Len(t, res.StageDurations, 8)
}

func TestPipelineIsDeterministic(t *testing.T) {
	img := randomRGB(24, 20, 5)
	cfg := DefaultConfig()

	first, err := Run(img, cfg)
	require.NoError(t, err)
	second, err := Run(img, cfg)
	require.NoError(t, err)
	assert.Equal(t, first.Pix, second.Pix)

	serial := cfg
	serial.Workers = 1
	wide := cfg
	wide.Workers = 8
	a, err := Run(img, serial)
	require.NoError(t, err)
	b, err := Run(img, wide)
	require.NoError(t, err)
	assert.Equal(t, a.Pix, b.Pix)
	assert.Equal(t, first.Pix, a.Pix)
}

func TestPipelineFlatImage(t *testing.T) {
	img := flatRGB(20, 20, 180, 120, 60)
	cfg := DefaultConfig()
	// Keep the light per channel so A equals I exactly on a flat field.
	cfg.SmoothAcrossChannels = false
	p := NewPipeline(cfg, nil)

	res, err := p.Run(img)
	require.NoError(t, err)

	for _, v := range res.Classes.Pix {
		require.Equal(t, 1, v)
	}
	want := [Channels]float64{180.0 / 255, 120.0 / 255, 60.0 / 255}
	for i := 0; i < 20*20; i++ {
		for c := range Channels {
			require.InDelta(t, want[c], res.Radiance.Pix[i*Channels+c], 1e-9)
		}
	}

	// Smoothing across channels pulls the light towards the channel mean.
	mixed, err := Run(img, DefaultConfig())
	require.NoError(t, err)
	assert.Greater(t, mixed.Pix[0], want[0])
}

func TestPipelineSmallWindowConfig(t *testing.T) {
	p := NewPipeline(smallConfig(), nil)

	res, err := p.Run(randomRGB(9, 12, 3))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Classes.K)
	for _, v := range res.Classes.Pix {
		require.LessOrEqual(t, v, 3)
	}
}

func TestNewPipelineCopiesWindowSizes(t *testing.T) {
	cfg := DefaultConfig()
	p := NewPipeline(cfg, nil)

	cfg.WindowSizes[0] = 2
	assert.Equal(t, 15, p.Config().WindowSizes[0])
}
