// Package filters runs the fixed-kernel filters of the dehaze pipeline
// through OpenCV. Buffers cross the boundary as plain slices so callers
// never hold a Mat.
package filters

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"haze-obliterator/internal/opencv/safe"
)

// Grayscale projects interleaved 8-bit RGB samples onto 8-bit luma using
// OpenCV's fixed-point Rec.601 weights.
func Grayscale(rgb []uint8, rows, cols int) ([]uint8, error) {
	src, err := safe.NewMatFromBytes(rows, cols, gocv.MatTypeCV8UC3, rgb, "gray_source")
	if err != nil {
		return nil, err
	}
	defer src.Close()

	if err := safe.ValidateColorMat(src, "RGB to gray"); err != nil {
		return nil, err
	}

	gray := gocv.NewMat()
	gocv.CvtColor(src.GetMat(), &gray, gocv.ColorRGBToGray)
	dst, err := safe.Wrap(gray, "gray")
	if err != nil {
		return nil, fmt.Errorf("RGB to gray conversion failed: %w", err)
	}
	defer dst.Close()

	return dst.Bytes()
}

// BoxMoments returns the normalized box mean and mean of squares of a
// single-channel buffer over ksize x ksize windows. Borders use OpenCV's
// default reflect-101 extrapolation.
func BoxMoments(src []float64, rows, cols, ksize int) ([]float64, []float64, error) {
	if ksize <= 0 || ksize%2 == 0 {
		return nil, nil, fmt.Errorf("box size %d must be odd and positive", ksize)
	}

	in, err := safe.NewMatFromFloats(rows, cols, 1, src, "box_source")
	if err != nil {
		return nil, nil, err
	}
	defer in.Close()

	size := image.Pt(ksize, ksize)
	mean, err := apply(in, "box_mean", func(src gocv.Mat, dst *gocv.Mat) {
		gocv.BoxFilter(src, dst, -1, size)
	})
	if err != nil {
		return nil, nil, err
	}
	meanSq, err := apply(in, "box_mean_sq", func(src gocv.Mat, dst *gocv.Mat) {
		gocv.SqBoxFilter(src, dst, -1, size)
	})
	if err != nil {
		return nil, nil, err
	}
	return mean, meanSq, nil
}

// GaussianKernel returns OpenCV's normalized 1-D Gaussian kernel with
// radius int(truncate*sigma + 0.5). A non-positive sigma yields the
// identity kernel.
func GaussianKernel(sigma, truncate float64) ([]float64, error) {
	if sigma <= 0 {
		return []float64{1}, nil
	}

	kernel, err := safe.Wrap(gocv.GetGaussianKernel(kernelSize(sigma, truncate), sigma), "gaussian_kernel")
	if err != nil {
		return nil, err
	}
	defer kernel.Close()

	return kernel.Float64s()
}

// GaussianBlur smooths an interleaved buffer of the given channel count
// along rows and columns. Borders reflect with the edge sample repeated
// (c b a | a b c | c b a), the "reflect" mode of scipy.ndimage.
func GaussianBlur(src []float64, rows, cols, channels int, sigma, truncate float64) ([]float64, error) {
	if sigma <= 0 {
		return append([]float64(nil), src...), nil
	}

	in, err := safe.NewMatFromFloats(rows, cols, channels, src, "gaussian_source")
	if err != nil {
		return nil, err
	}
	defer in.Close()

	k := kernelSize(sigma, truncate)
	return apply(in, "gaussian", func(src gocv.Mat, dst *gocv.Mat) {
		gocv.GaussianBlur(src, dst, image.Pt(k, k), sigma, sigma, gocv.BorderReflect)
	})
}

// BlurChannels convolves the channel vector of every pixel with kernel,
// reflecting the same way GaussianBlur does. The buffer is viewed as a
// pixels x channels single-channel matrix and filtered along its rows.
func BlurChannels(src []float64, pixels, channels int, kernel []float64) ([]float64, error) {
	in, err := safe.NewMatFromFloats(pixels, channels, 1, src, "channel_source")
	if err != nil {
		return nil, err
	}
	defer in.Close()

	kx, err := safe.NewMatFromFloats(1, len(kernel), 1, kernel, "channel_kernel_x")
	if err != nil {
		return nil, err
	}
	defer kx.Close()

	ky, err := safe.NewMatFromFloats(1, 1, 1, []float64{1}, "channel_kernel_y")
	if err != nil {
		return nil, err
	}
	defer ky.Close()

	return apply(in, "channel_blur", func(src gocv.Mat, dst *gocv.Mat) {
		gocv.SepFilter2D(src, dst, -1, kx.GetMat(), ky.GetMat(), image.Pt(-1, -1), 0, gocv.BorderReflect)
	})
}

func kernelSize(sigma, truncate float64) int {
	return 2*int(truncate*sigma+0.5) + 1
}

// apply runs op into a fresh Mat and copies the float result out.
func apply(in *safe.Mat, tag string, op func(src gocv.Mat, dst *gocv.Mat)) ([]float64, error) {
	// Working buffers such as the pixels x channels view exceed the image
	// size limit, so only liveness is checked here.
	if !in.IsValid() || in.Empty() {
		return nil, fmt.Errorf("Mat is invalid for operation: %s", tag)
	}

	dst := gocv.NewMat()
	op(in.GetMat(), &dst)
	out, err := safe.Wrap(dst, tag)
	if err != nil {
		return nil, fmt.Errorf("%s produced no output: %w", tag, err)
	}
	defer out.Close()

	return out.Float64s()
}
