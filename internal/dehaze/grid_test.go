package dehaze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReflectSymmetric(t *testing.T) {
	tests := []struct{ i, n, want int }{
		{0, 4, 0},
		{3, 4, 3},
		{-1, 4, 0},
		{-2, 4, 1},
		{4, 4, 3},
		{5, 4, 2},
		{8, 4, 0},
		{-9, 4, 0},
		{7, 1, 0},
	}
	for _, tt := range tests {
		if got := reflectSymmetric(tt.i, tt.n); got != tt.want {
			t.Errorf("reflectSymmetric(%d, %d) = %d, want %d", tt.i, tt.n, got, tt.want)
		}
	}
}

func TestPlanePad(t *testing.T) {
	p := &Plane{H: 1, W: 3, Pix: []float64{1, 2, 3}}
	padded := p.Pad(2)

	require.Equal(t, 5, padded.H)
	require.Equal(t, 7, padded.W)
	want := []float64{2, 1, 1, 2, 3, 3, 2}
	for y := 0; y < padded.H; y++ {
		assert.Equal(t, want, padded.Pix[y*7:(y+1)*7])
	}
	assert.Equal(t, []float64{1, 2, 3}, p.Pix, "source must not change")
}

func TestImage3PadKeepsChannels(t *testing.T) {
	img := NewImage3(2, 2)
	for i := range img.Pix {
		img.Pix[i] = float64(i)
	}
	padded := img.Pad(1)

	require.Equal(t, 4, padded.H)
	for c := range Channels {
		assert.Equal(t, img.At(0, 0, c), padded.At(0, 0, c))
		assert.Equal(t, img.At(1, 1, c), padded.At(3, 3, c))
		assert.Equal(t, img.At(0, 1, c), padded.At(1, 2, c))
	}
}

func TestChannelRoundTrip(t *testing.T) {
	img := randomRGB(5, 7, 1).Float()
	planes := [Channels]*Plane{img.Channel(0), img.Channel(1), img.Channel(2)}
	assert.Equal(t, img.Pix, StackChannels(planes).Pix)
}

func TestComplementIsInvolution(t *testing.T) {
	img := randomRGB(9, 13, 42)
	assert.Equal(t, img.Pix, img.Complement().Complement().Pix)
}

func TestRGBImageValidate(t *testing.T) {
	var nilImg *RGBImage
	assert.ErrorIs(t, nilImg.validate(), ErrInvalidImage)
	assert.ErrorIs(t, (&RGBImage{}).validate(), ErrInvalidImage)
	assert.ErrorIs(t, (&RGBImage{H: 2, W: 2, Pix: make([]uint8, 5)}).validate(), ErrInvalidImage)
	assert.NoError(t, NewRGBImage(2, 2).validate())
}
