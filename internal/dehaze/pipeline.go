package dehaze

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"

	"haze-obliterator/internal/logger"
	"haze-obliterator/internal/parallel"
)

// Result carries the output of every stage of one run.
type Result struct {
	Inverted       *RGBImage
	Gray           *Plane
	Contrast       *ContrastStack
	Classes        *ClassMap
	DarkChannel    *Image3
	RawAtmosphere  *Image3
	Atmosphere     *Image3
	Transmission   *Plane
	Radiance       *Image3
	StageDurations map[string]time.Duration
}

// Stage names, in execution order.
const (
	StagePreprocess   = "preprocess"
	StageContrast     = "contrast"
	StageClassify     = "classify"
	StageDarkChannel  = "dark_channel"
	StageAtmosphere   = "atmospheric_light"
	StageSmoothing    = "smoothing"
	StageTransmission = "transmission"
	StageRadiance     = "radiance"
)

// Pipeline runs the dehaze stages in order with a shared worker pool.
// A Pipeline holds no per-image state and may be reused.
type Pipeline struct {
	cfg    Config
	pool   *parallel.Pool
	logger logger.Logger
}

// NewPipeline creates a pipeline.
func NewPipeline(cfg Config, log logger.Logger) *Pipeline {
	if log == nil {
		log = logger.NewNop()
	}
	cfg.WindowSizes = append([]int(nil), cfg.WindowSizes...)
	return &Pipeline{
		cfg:    cfg,
		pool:   parallel.New(cfg.Workers),
		logger: log,
	}
}

func (p *Pipeline) Config() Config {
	return p.cfg
}

// Run validates img and the configuration, then executes every stage.
func (p *Pipeline) Run(img *RGBImage) (*Result, error) {
	if err := img.validate(); err != nil {
		return nil, err
	}
	if err := p.cfg.Validate(img.H, img.W); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	p.logger.Debug("Pipeline", "run started", map[string]interface{}{
		"width":        img.W,
		"height":       img.H,
		"window_sizes": p.cfg.WindowSizes,
		"workers":      p.pool.Workers(),
	})

	res := &Result{StageDurations: make(map[string]time.Duration)}
	cfg := p.cfg
	var inverted *Image3

	stages := []struct {
		name string
		run  func() ([]float64, error)
	}{
		{StagePreprocess, func() ([]float64, error) {
			inv, gray, err := Preprocess(img)
			if err != nil {
				return nil, err
			}
			res.Inverted, res.Gray = inv, gray
			inverted = inv.Float()
			return gray.Pix, nil
		}},
		{StageContrast, func() ([]float64, error) {
			stack, err := LocalContrast(res.Gray, cfg.WindowSizes, p.pool)
			if err != nil {
				return nil, err
			}
			res.Contrast = stack
			return stack.Layers[0].Pix, nil
		}},
		{StageClassify, func() ([]float64, error) {
			classes, err := ClassifyContrast(res.Contrast, cfg.TolerancePct, p.pool)
			if err != nil {
				return nil, err
			}
			res.Classes = classes
			return classes.Plane().Pix, nil
		}},
		{StageDarkChannel, func() ([]float64, error) {
			dark, err := DarkChannel(inverted, res.Classes, p.pool)
			if err != nil {
				return nil, err
			}
			res.DarkChannel = dark
			return dark.Pix, nil
		}},
		{StageAtmosphere, func() ([]float64, error) {
			atm, err := AtmosphericLight(res.DarkChannel, res.Classes, cfg.Multiplier, p.pool)
			if err != nil {
				return nil, err
			}
			res.RawAtmosphere = atm
			return atm.Pix, nil
		}},
		{StageSmoothing, func() ([]float64, error) {
			atm, err := GaussianSmooth(res.RawAtmosphere, cfg.GaussianSigma, cfg.SmoothAcrossChannels)
			if err != nil {
				return nil, err
			}
			res.Atmosphere = atm
			return atm.Pix, nil
		}},
		{StageTransmission, func() ([]float64, error) {
			trans, err := Transmission(inverted, res.Atmosphere, res.Classes, cfg.W, p.pool)
			if err != nil {
				return nil, err
			}
			res.Transmission = trans
			return trans.Pix, nil
		}},
		{StageRadiance, func() ([]float64, error) {
			res.Radiance = RecoverRadiance(inverted, res.Atmosphere, res.Transmission, cfg.T0)
			return res.Radiance.Pix, nil
		}},
	}

	for _, st := range stages {
		if err := p.stage(res, st.name, st.run); err != nil {
			p.logger.Error("Pipeline", err, map[string]interface{}{
				"stage": st.name,
			})
			return nil, fmt.Errorf("stage %s: %w", st.name, err)
		}
	}

	return res, nil
}

func (p *Pipeline) stage(res *Result, name string, fn func() ([]float64, error)) error {
	start := time.Now()
	values, err := fn()
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	res.StageDurations[name] = elapsed

	p.logger.Debug("Pipeline", "stage completed", map[string]interface{}{
		"stage":      name,
		"elapsed_ms": elapsed.Milliseconds(),
		"min":        floats.Min(values),
		"max":        floats.Max(values),
	})
	return nil
}

// Run dehazes img with cfg and returns the recovered radiance.
func Run(img *RGBImage, cfg Config) (*Image3, error) {
	res, err := NewPipeline(cfg, nil).Run(img)
	if err != nil {
		return nil, err
	}
	return res.Radiance, nil
}
