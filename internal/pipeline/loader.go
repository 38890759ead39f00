package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"haze-obliterator/internal/dehaze"
	"haze-obliterator/internal/logger"
	"haze-obliterator/internal/opencv/conversion"
	"haze-obliterator/internal/opencv/safe"

	"gocv.io/x/gocv"
)

var (
	ErrImageNotFound    = errors.New("image not found")
	ErrImageUndecodable = errors.New("image could not be decoded")
)

// ImageData is a decoded source image.
type ImageData struct {
	Image  *dehaze.RGBImage
	Width  int
	Height int
	Format string
	Path   string
}

type Loader struct {
	logger        logger.Logger
	timingTracker *TimingTracker
}

func NewLoader(log logger.Logger, tracker *TimingTracker) *Loader {
	return &Loader{logger: log, timingTracker: tracker}
}

// LoadFromPath decodes the image at path. A missing file yields
// ErrImageNotFound, an unreadable one ErrImageUndecodable.
func (l *Loader) LoadFromPath(path string) (*ImageData, error) {
	ctx := l.timingTracker.StartTiming("load_from_path")
	defer l.timingTracker.EndTiming(ctx)

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrImageNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat image %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrImageNotFound, path)
	}

	l.logger.Debug("ImageLoader", "loading image", map[string]interface{}{
		"path":       path,
		"size_bytes": info.Size(),
	})

	mat := gocv.IMRead(path, gocv.IMReadColor)
	img, err := l.decode(mat, path)
	if err != nil {
		return nil, err
	}

	imageData := &ImageData{
		Image:  img,
		Width:  img.W,
		Height: img.H,
		Format: formatFromExtension(filepath.Ext(path)),
		Path:   path,
	}

	l.logger.Info("ImageLoader", "image loaded successfully", map[string]interface{}{
		"width":  imageData.Width,
		"height": imageData.Height,
		"format": imageData.Format,
	})

	return imageData, nil
}

// LoadFromBytes decodes an encoded image held in memory.
func (l *Loader) LoadFromBytes(data []byte, format string) (*ImageData, error) {
	ctx := l.timingTracker.StartTiming("load_from_bytes")
	defer l.timingTracker.EndTiming(ctx)

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty buffer", ErrImageNotFound)
	}

	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageUndecodable, err)
	}
	img, err := l.decode(mat, "memory")
	if err != nil {
		return nil, err
	}

	return &ImageData{
		Image:  img,
		Width:  img.W,
		Height: img.H,
		Format: format,
	}, nil
}

func (l *Loader) decode(mat gocv.Mat, source string) (*dehaze.RGBImage, error) {
	safeMat, err := safe.Wrap(mat, "loaded_image")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrImageUndecodable, source)
	}
	defer safeMat.Close()

	img, err := conversion.MatToRGB(safeMat)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrImageUndecodable, source, err)
	}
	return img, nil
}

func formatFromExtension(ext string) string {
	switch strings.ToLower(ext) {
	case ".tiff", ".tif":
		return "tiff"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".png":
		return "png"
	case ".bmp":
		return "bmp"
	case ".webp":
		return "webp"
	default:
		return "unknown"
	}
}
