package dehaze

import (
	"fmt"

	"haze-obliterator/internal/opencv/filters"
)

// Preprocess complements every channel of img and projects the complement
// onto 8-bit luma. img is not modified.
func Preprocess(img *RGBImage) (*RGBImage, *Plane, error) {
	inv := img.Complement()
	gray, err := Grayscale(inv)
	if err != nil {
		return nil, nil, err
	}
	return inv, gray, nil
}

// Grayscale returns the rounded 8-bit Rec.601 luma of img, with the
// channels taken in R, G, B order, as float samples.
func Grayscale(img *RGBImage) (*Plane, error) {
	luma, err := filters.Grayscale(img.Pix, img.H, img.W)
	if err != nil {
		return nil, fmt.Errorf("grayscale: %w", err)
	}
	out := NewPlane(img.H, img.W)
	for i, v := range luma {
		out.Pix[i] = float64(v)
	}
	return out, nil
}
