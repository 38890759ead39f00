package pipeline

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"haze-obliterator/internal/dehaze"
	"haze-obliterator/internal/logger"
	"haze-obliterator/internal/opencv/conversion"
	"haze-obliterator/internal/opencv/safe"
	"haze-obliterator/internal/render"

	"gocv.io/x/gocv"
)

type Saver struct {
	logger        logger.Logger
	timingTracker *TimingTracker
}

func NewSaver(log logger.Logger, tracker *TimingTracker) *Saver {
	return &Saver{logger: log, timingTracker: tracker}
}

// SaveRadiance clips the recovered radiance to [0,1], scales it to 8 bits
// and writes it to path. The encoder is chosen from the extension.
func (s *Saver) SaveRadiance(path string, radiance *dehaze.Image3) error {
	if radiance == nil {
		return fmt.Errorf("no image data to save")
	}
	return s.SaveRGB(path, render.Quantize(radiance))
}

func (s *Saver) SaveRGB(path string, img *dehaze.RGBImage) error {
	ctx := s.timingTracker.StartTiming("save_rgb")
	defer s.timingTracker.EndTiming(ctx)

	if err := checkWritableFormat(path); err != nil {
		return err
	}

	mat, err := conversion.RGBToMat(img)
	if err != nil {
		return fmt.Errorf("failed to convert image for %s: %w", path, err)
	}
	defer mat.Close()

	return s.write(path, mat)
}

// SaveFigure writes the image part of fig. Gray figures stay single-channel.
func (s *Saver) SaveFigure(path string, fig render.Figure) error {
	if err := checkWritableFormat(path); err != nil {
		return err
	}

	var (
		mat gocv.Mat
		err error
	)
	switch img := fig.Image.(type) {
	case *image.Gray:
		mat, err = gocv.ImageGrayToMatGray(img)
	default:
		mat, err = gocv.ImageToMatRGB(img)
	}
	if err != nil {
		return fmt.Errorf("failed to convert figure %s: %w", fig.Name, err)
	}

	safeMat, err := safe.Wrap(mat, fig.Name)
	if err != nil {
		return err
	}
	defer safeMat.Close()

	return s.write(path, safeMat)
}

// SaveFigures writes every figure as <dir>/<index>_<name>.png.
func (s *Saver) SaveFigures(dir string, figs []render.Figure) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create stage directory: %w", err)
	}
	for i, fig := range figs {
		path := filepath.Join(dir, fmt.Sprintf("%02d_%s.png", i, fig.Name))
		if err := s.SaveFigure(path, fig); err != nil {
			return err
		}
	}

	s.logger.Info("ImageSaver", "stage images saved", map[string]interface{}{
		"dir":    dir,
		"stages": len(figs),
	})
	return nil
}

func (s *Saver) write(path string, mat *safe.Mat) error {
	if err := safe.ValidateMatForOperation(mat, "IMWrite"); err != nil {
		return err
	}

	s.logger.Debug("ImageSaver", "saving image", map[string]interface{}{
		"path":   path,
		"width":  mat.Cols(),
		"height": mat.Rows(),
	})

	if !gocv.IMWrite(path, mat.GetMat()) {
		err := fmt.Errorf("OpenCV failed to write %s", path)
		s.logger.Error("ImageSaver", err, map[string]interface{}{
			"path": path,
		})
		return err
	}
	return nil
}

func checkWritableFormat(path string) error {
	if formatFromExtension(filepath.Ext(path)) == "unknown" {
		return fmt.Errorf("unsupported output format for %s", path)
	}
	return nil
}
