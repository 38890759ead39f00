package dehaze

import (
	"fmt"

	"haze-obliterator/internal/opencv/filters"
)

// gaussianTruncate is the kernel extent in standard deviations.
const gaussianTruncate = 4.0

// GaussianSmooth blurs img along rows and columns, and along the channel
// axis too when acrossChannels is set. Borders use half-sample symmetric
// reflection and the kernel radius is int(4*sigma + 0.5). A non-positive
// sigma returns a copy. img is not modified.
func GaussianSmooth(img *Image3, sigma float64, acrossChannels bool) (*Image3, error) {
	out := &Image3{H: img.H, W: img.W}
	pix, err := filters.GaussianBlur(img.Pix, img.H, img.W, Channels, sigma, gaussianTruncate)
	if err != nil {
		return nil, fmt.Errorf("gaussian smoothing: %w", err)
	}
	if acrossChannels && sigma > 0 {
		kernel, err := filters.GaussianKernel(sigma, gaussianTruncate)
		if err != nil {
			return nil, fmt.Errorf("gaussian kernel: %w", err)
		}
		pix, err = filters.BlurChannels(pix, img.H*img.W, Channels, kernel)
		if err != nil {
			return nil, fmt.Errorf("channel smoothing: %w", err)
		}
	}
	out.Pix = pix
	return out, nil
}
