package conversion

import (
	"fmt"

	"haze-obliterator/internal/dehaze"
	"haze-obliterator/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// MatToRGB converts an 8-bit BGR Mat, as produced by IMRead, into an RGB
// pipeline image.
func MatToRGB(src *safe.Mat) (*dehaze.RGBImage, error) {
	if err := safe.ValidateColorMat(src, "Mat to RGB conversion"); err != nil {
		return nil, err
	}

	rgb := gocv.NewMat()
	gocv.CvtColor(src.GetMat(), &rgb, gocv.ColorBGRToRGB)
	rgbMat, err := safe.Wrap(rgb, "rgb_conversion")
	if err != nil {
		return nil, fmt.Errorf("BGR to RGB conversion failed: %w", err)
	}
	defer rgbMat.Close()

	data, err := rgbMat.Bytes()
	if err != nil {
		return nil, err
	}

	img := &dehaze.RGBImage{H: rgbMat.Rows(), W: rgbMat.Cols(), Pix: data}
	if len(img.Pix) != img.H*img.W*dehaze.Channels {
		return nil, fmt.Errorf("unexpected Mat layout: %d bytes for %dx%d", len(img.Pix), img.W, img.H)
	}
	return img, nil
}

// RGBToMat converts an RGB pipeline image into an 8-bit BGR Mat suitable
// for IMWrite. The caller owns the returned Mat.
func RGBToMat(img *dehaze.RGBImage) (*safe.Mat, error) {
	if img == nil {
		return nil, fmt.Errorf("input image is nil")
	}

	rgbMat, err := safe.NewMatFromBytes(img.H, img.W, gocv.MatTypeCV8UC3, img.Pix, "rgb_output")
	if err != nil {
		return nil, err
	}
	defer rgbMat.Close()

	bgr := gocv.NewMat()
	gocv.CvtColor(rgbMat.GetMat(), &bgr, gocv.ColorRGBToBGR)
	return safe.Wrap(bgr, "bgr_output")
}
