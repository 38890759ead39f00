package dehaze

import (
	"math/rand"
)

func randomRGB(h, w int, seed int64) *RGBImage {
	rng := rand.New(rand.NewSource(seed))
	img := NewRGBImage(h, w)
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.Intn(256))
	}
	return img
}

func flatRGB(h, w int, r, g, b uint8) *RGBImage {
	img := NewRGBImage(h, w)
	for i := 0; i < h*w; i++ {
		img.Pix[i*Channels] = r
		img.Pix[i*Channels+1] = g
		img.Pix[i*Channels+2] = b
	}
	return img
}

func randomClasses(h, w, k int, seed int64) *ClassMap {
	rng := rand.New(rand.NewSource(seed))
	m := NewClassMap(h, w, k)
	for i := range m.Pix {
		m.Pix[i] = 1 + rng.Intn(k)
	}
	return m
}

func uniformClasses(h, w, k, class int) *ClassMap {
	m := NewClassMap(h, w, k)
	for i := range m.Pix {
		m.Pix[i] = class
	}
	return m
}

// brightSquare returns a 21x21 image, 0 everywhere except a 5x5 block of
// 255 covering rows and columns 8..12.
func brightSquare() *RGBImage {
	img := NewRGBImage(21, 21)
	for y := 8; y <= 12; y++ {
		for x := 8; x <= 12; x++ {
			for c := range Channels {
				img.Set(y, x, c, 255)
			}
		}
	}
	return img
}

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.WindowSizes = []int{7, 5, 3}
	cfg.GaussianSigma = 2
	return cfg
}
