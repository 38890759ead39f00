package dehaze

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"haze-obliterator/internal/opencv/filters"
	"haze-obliterator/internal/parallel"
)

// ContrastStack holds one local standard deviation plane per window size,
// in the order the sizes were given.
type ContrastStack struct {
	Sizes  []int
	Layers []*Plane
}

// K returns the number of scales.
func (s *ContrastStack) K() int {
	return len(s.Layers)
}

// LocalContrast computes the local standard deviation of gray over an s x s
// box for every s in sizes. Borders are reflected without repeating the
// edge sample, the default of OpenCV's box filter. gray must hold integer
// samples, as Grayscale produces.
func LocalContrast(gray *Plane, sizes []int, pool *parallel.Pool) (*ContrastStack, error) {
	stack := &ContrastStack{
		Sizes:  append([]int(nil), sizes...),
		Layers: make([]*Plane, len(sizes)),
	}
	for k, s := range sizes {
		mean, meanSq, err := filters.BoxMoments(gray.Pix, gray.H, gray.W, s)
		if err != nil {
			return nil, fmt.Errorf("local contrast %dx%d: %w", s, s, err)
		}

		area := float64(s * s)
		layer := NewPlane(gray.H, gray.W)
		err = pool.For(gray.H, func(start, end int) error {
			for i := start * gray.W; i < end*gray.W; i++ {
				// Window sums of integer samples are integers. Rounding
				// drops the error of the normalized filter, so flat
				// windows give exactly zero.
				sum := math.Round(mean[i] * area)
				sq := math.Round(meanSq[i] * area)
				m := sum / area
				layer.Pix[i] = math.Sqrt(max(sq/area-m*m, 0))
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		stack.Layers[k] = layer
	}
	return stack, nil
}

// ContrastWeights returns t^(K-1-i) for every scale i, with t = 1 - tolPct/100.
// The first (largest) window gets the smallest weight and the last gets 1.
func ContrastWeights(k int, tolPct float64) []float64 {
	t := 1 - tolPct/100
	weights := make([]float64, k)
	for i := range weights {
		weights[i] = math.Pow(t, float64(k-1-i))
	}
	return weights
}

// ClassifyContrast assigns every pixel the 1-based index of the scale whose
// weighted standard deviation is smallest. Ties resolve to the first scale.
func ClassifyContrast(stack *ContrastStack, tolPct float64, pool *parallel.Pool) (*ClassMap, error) {
	k := stack.K()
	first := stack.Layers[0]
	weights := ContrastWeights(k, tolPct)
	out := NewClassMap(first.H, first.W, k)

	err := pool.For(first.H, func(start, end int) error {
		scores := make([]float64, k)
		for y := start; y < end; y++ {
			for x := 0; x < first.W; x++ {
				i := y*first.W + x
				for s, layer := range stack.Layers {
					scores[s] = layer.Pix[i] * weights[s]
				}
				out.Pix[i] = floats.MinIdx(scores) + 1
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
