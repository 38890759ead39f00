package dehaze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"haze-obliterator/internal/parallel"
)

func mustDarkChannel(t *testing.T, inv *Image3, cci *ClassMap, pool *parallel.Pool) *Image3 {
	t.Helper()
	dark, err := DarkChannel(inv, cci, pool)
	require.NoError(t, err)
	return dark
}

func TestClassRadius(t *testing.T) {
	for class, want := range map[int]int{1: 7, 4: 4, 7: 1} {
		if got := classRadius(class); got != want {
			t.Errorf("classRadius(%d) = %d, want %d", class, got, want)
		}
	}
}

func TestDarkChannelBoundedByInput(t *testing.T) {
	inv := randomRGB(25, 31, 9).Float()
	cci := randomClasses(25, 31, 7, 10)

	dark, err := DarkChannel(inv, cci, parallel.New(3))
	require.NoError(t, err)

	for i, v := range dark.Pix {
		require.LessOrEqual(t, v, inv.Pix[i])
	}
}

func TestDarkChannelBrightSquare(t *testing.T) {
	inv := brightSquare().Float()

	t.Run("narrowest window", func(t *testing.T) {
		dark, err := DarkChannel(inv, uniformClasses(21, 21, 7, 7), nil)
		require.NoError(t, err)
		for c := range Channels {
			// The 2x2 window reaches up and left only.
			for i := 8; i <= 12; i++ {
				assert.Equal(t, 0.0, dark.At(8, i, c))
				assert.Equal(t, 0.0, dark.At(i, 8, c))
			}
			assert.Equal(t, 255.0, dark.At(12, 12, c))
			assert.Equal(t, 255.0, dark.At(10, 10, c))
		}
	})

	t.Run("widest window", func(t *testing.T) {
		dark, err := DarkChannel(inv, uniformClasses(21, 21, 7, 1), nil)
		require.NoError(t, err)
		for _, v := range dark.Pix {
			require.Equal(t, 0.0, v)
		}
	})

	t.Run("adaptive classes", func(t *testing.T) {
		dark, err := DarkChannel(inv, classesOf(t, brightSquare(), 3), nil)
		require.NoError(t, err)
		for y := 0; y < 21; y++ {
			for x := 0; x < 21; x++ {
				inSquare := y >= 8 && y <= 12 && x >= 8 && x <= 12
				onLeadingEdge := inSquare && (y == 8 || x == 8)
				if !inSquare || onLeadingEdge {
					for c := range Channels {
						require.Equalf(t, 0.0, dark.At(y, x, c), "pixel (%d,%d)", y, x)
					}
				}
			}
		}
	})
}

func TestDarkChannelChannelsIndependent(t *testing.T) {
	inv := flatRGB(20, 20, 255, 0, 0).Float()
	dark := mustDarkChannel(t, inv, randomClasses(20, 20, 7, 4), nil)
	for i := 0; i < 20*20; i++ {
		assert.Equal(t, 255.0, dark.Pix[i*Channels])
		assert.Equal(t, 0.0, dark.Pix[i*Channels+1])
		assert.Equal(t, 0.0, dark.Pix[i*Channels+2])
	}

	base := randomRGB(16, 16, 21).Float()
	cci := randomClasses(16, 16, 7, 22)
	before := mustDarkChannel(t, base, cci, nil)

	changed := &Image3{H: base.H, W: base.W, Pix: append([]float64(nil), base.Pix...)}
	for i := 0; i < 16*16; i++ {
		changed.Pix[i*Channels+1] = 255 - changed.Pix[i*Channels+1]
	}
	after := mustDarkChannel(t, changed, cci, nil)

	for _, c := range []int{0, 2} {
		assert.Equal(t, before.Channel(c).Pix, after.Channel(c).Pix)
	}
}

func TestDarkChannelSerialMatchesParallel(t *testing.T) {
	inv := randomRGB(33, 17, 12).Float()
	cci := randomClasses(33, 17, 7, 13)

	serial := mustDarkChannel(t, inv, cci, nil)
	assert.Equal(t, serial.Pix, mustDarkChannel(t, inv, cci, parallel.New(5)).Pix)
}
