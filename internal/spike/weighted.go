package spike

import (
	"errors"
	"math/rand"

	"go.uber.org/zap"
)

// ErrZeroWeights is returned when a weighted draw is requested over an
// empty weight vector or one with no positive weight.
var ErrZeroWeights = errors.New("weighted choice: no positive weight")

// WeightedIndex draws one index with probability proportional to its
// weight. Negative weights are treated as zero.
func WeightedIndex(rng *rand.Rand, weights []float64) (int, error) {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return 0, ErrZeroWeights
	}

	x := rng.Float64() * total
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		x -= w
		if x < 0 {
			return i, nil
		}
	}
	// Float accumulation can leave x at exactly the total.
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return i, nil
		}
	}
	return 0, ErrZeroWeights
}

// weightedOrUniform draws a weighted index, falling back to a uniform
// draw (with a counted warning) when no weight is positive.
func weightedOrUniform(ctx *EngineContext, weights []float64, what string) (int, error) {
	if len(weights) == 0 {
		return 0, ErrZeroWeights
	}
	i, err := WeightedIndex(ctx.Rand, weights)
	if err == nil {
		return i, nil
	}
	if !errors.Is(err, ErrZeroWeights) {
		return 0, err
	}
	ctx.UniformFalls++
	ctx.Warn("all weights zero, falling back to uniform draw", zap.String("draw", what))
	return ctx.Rand.Intn(len(weights)), nil
}

// InvertWeights returns the element-wise complement 1-w of a weight
// vector, clamping negative results to zero. Used for de novo modes so
// rarer variants become more likely to be drawn.
func InvertWeights(weights []float64) []float64 {
	out := make([]float64, len(weights))
	for i, w := range weights {
		inv := 1 - w
		if inv < 0 {
			inv = 0
		}
		out[i] = inv
	}
	return out
}
