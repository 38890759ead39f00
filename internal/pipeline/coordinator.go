package pipeline

import (
	"fmt"
	"sync"

	"haze-obliterator/internal/dehaze"
	"haze-obliterator/internal/logger"
	"haze-obliterator/internal/render"
)

// Coordinator ties loading, dehazing and saving together and keeps the
// latest source image and result.
type Coordinator struct {
	mu            sync.RWMutex
	originalImage *ImageData
	result        *dehaze.Result
	dehazer       *dehaze.Pipeline
	loader        *Loader
	saver         *Saver
	logger        logger.Logger
	timing        *TimingTracker
}

func NewCoordinator(cfg dehaze.Config, log logger.Logger) *Coordinator {
	if log == nil {
		log = logger.NewNop()
	}
	tracker := NewTimingTracker()
	return &Coordinator{
		dehazer: dehaze.NewPipeline(cfg, log),
		loader:  NewLoader(log, tracker),
		saver:   NewSaver(log, tracker),
		logger:  log,
		timing:  tracker,
	}
}

// LoadImage decodes path and makes it the current image. Timings of the
// previous image are discarded.
func (c *Coordinator) LoadImage(path string) (*ImageData, error) {
	c.timing.Reset()
	imageData, err := c.loader.LoadFromPath(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.originalImage = imageData
	c.result = nil
	c.mu.Unlock()
	return imageData, nil
}

// ProcessImage runs the dehaze pipeline on the loaded image.
func (c *Coordinator) ProcessImage() (*dehaze.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.originalImage == nil {
		return nil, fmt.Errorf("no image loaded")
	}

	ctx := c.timing.StartTiming("dehaze")
	result, err := c.dehazer.Run(c.originalImage.Image)
	elapsed := c.timing.EndTiming(ctx)
	if err != nil {
		c.logger.Error("Coordinator", err, map[string]interface{}{
			"path": c.originalImage.Path,
		})
		return nil, err
	}

	for stage, d := range result.StageDurations {
		c.timing.Record("stage_"+stage, d)
	}

	c.logger.Info("Coordinator", "dehaze completed", map[string]interface{}{
		"size":       fmt.Sprintf("%dx%d", c.originalImage.Width, c.originalImage.Height),
		"elapsed_ms": elapsed.Milliseconds(),
	})

	c.result = result
	return result, nil
}

// SaveImage writes the recovered radiance of the last run.
func (c *Coordinator) SaveImage(path string) error {
	result := c.GetResult()
	if result == nil {
		return fmt.Errorf("no processed image to save")
	}
	if clipped := countOutOfRange(result.Radiance.Pix); clipped > 0 {
		c.logger.Warning("Coordinator", "radiance samples outside [0,1] will be clipped", map[string]interface{}{
			"samples": clipped,
			"total":   len(result.Radiance.Pix),
		})
	}
	if err := c.saver.SaveRadiance(path, result.Radiance); err != nil {
		return err
	}

	c.logger.Info("Coordinator", "output saved", map[string]interface{}{
		"path": path,
	})
	return nil
}

// SaveStages writes every intermediate of the last run into dir.
func (c *Coordinator) SaveStages(dir string, orientation render.Orientation) error {
	result := c.GetResult()
	if result == nil {
		return fmt.Errorf("no processed image to save")
	}
	figs, err := render.StageFigures(result, orientation)
	if err != nil {
		return err
	}
	return c.saver.SaveFigures(dir, figs)
}

func (c *Coordinator) GetOriginalImage() *ImageData {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.originalImage
}

func (c *Coordinator) GetResult() *dehaze.Result {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.result
}

// LogTimings writes the average duration of every recorded operation of
// the current image at debug level.
func (c *Coordinator) LogTimings() {
	for _, op := range c.timing.Operations() {
		c.logger.Debug("Coordinator", "timing", map[string]interface{}{
			"operation":  op,
			"runs":       len(c.timing.GetTimings(op)),
			"average_ms": c.timing.GetAverageTime(op).Milliseconds(),
		})
	}
}

func countOutOfRange(values []float64) int {
	n := 0
	for _, v := range values {
		if !(v >= 0 && v <= 1) {
			n++
		}
	}
	return n
}
