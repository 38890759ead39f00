package dehaze

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filledImage3(h, w int, v [Channels]float64) *Image3 {
	img := NewImage3(h, w)
	for i := 0; i < h*w; i++ {
		copy(img.Pix[i*Channels:], v[:])
	}
	return img
}

func TestHazeRatioGuards(t *testing.T) {
	inv := &Image3{H: 1, W: 1, Pix: []float64{0, 50, 100}}
	atm := &Image3{H: 1, W: 1, Pix: []float64{-1e-8, 0, 200}}

	ratio := HazeRatio(inv, atm)

	assert.Equal(t, 0.0, ratio.Pix[0], "0/0 becomes 0")
	assert.InDelta(t, 50/1e-8, ratio.Pix[1], 1)
	assert.False(t, math.IsInf(ratio.Pix[1], 0))
	assert.InDelta(t, 0.5, ratio.Pix[2], 1e-9)
}

func TestTransmissionJointChannelMinimum(t *testing.T) {
	inv := filledImage3(12, 12, [Channels]float64{100, 50, 200})
	atm := filledImage3(12, 12, [Channels]float64{200, 200, 200})

	trans, err := Transmission(inv, atm, randomClasses(12, 12, 7, 3), 0.9, nil)
	require.NoError(t, err)
	for _, v := range trans.Pix {
		require.InDelta(t, 1-0.9*0.25, v, 1e-9)
	}
}

func TestTransmissionDecreasesWithHaze(t *testing.T) {
	atm := filledImage3(10, 10, [Channels]float64{200, 200, 200})
	cci := uniformClasses(10, 10, 7, 4)

	prev := math.Inf(1)
	for _, v := range []float64{0, 20, 80, 150, 200, 255} {
		inv := filledImage3(10, 10, [Channels]float64{v, v, v})
		trans, err := Transmission(inv, atm, cci, 0.9, nil)
		require.NoError(t, err)
		got := trans.At(5, 5)
		assert.InDelta(t, 1-0.9*v/(200+1e-8), got, 1e-12)
		require.Less(t, got, prev)
		prev = got
	}
	// Not clamped: the haze ratio exceeds 1 for v > A.
	assert.Less(t, prev, 0.0)
}

func TestTransmissionUsesWindowMinimum(t *testing.T) {
	inv := filledImage3(15, 15, [Channels]float64{200, 200, 200})
	inv.Set(7, 5, 1, 0)
	atm := filledImage3(15, 15, [Channels]float64{200, 200, 200})

	// Radius 4 (class 4): pixel (7,7) sees columns 3..10, pixel (7,10) sees 6..13.
	trans, err := Transmission(inv, atm, uniformClasses(15, 15, 7, 4), 0.9, nil)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, trans.At(7, 7), 1e-9)
	assert.InDelta(t, 1-0.9*(200/(200+1e-8)), trans.At(7, 10), 1e-9)
}
