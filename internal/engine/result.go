package engine

import (
	"fmt"
	"math"

	"github.com/aviscan-ph/aviscan/internal/model"
)

// probSumTolerance is how far the output vector's sum may drift from 1.0
// before we treat it as un-normalized and apply our own normalization.
const probSumTolerance = 1e-3

// buildPrediction turns a raw model output vector into a Prediction.
// The vector may be softmax-normalized or raw, depending on the model
// export; when the sum is off by more than the tolerance it is re-normalized
// here. Ties at the maximum resolve to the lowest catalog index.
func buildPrediction(output []float32, catalog Catalog) (model.Prediction, error) {
	if len(output) != len(catalog) {
		return model.Prediction{}, fmt.Errorf(
			"engine: output vector has %d entries but label catalog has %d", len(output), len(catalog))
	}

	probs := make([]float64, len(output))
	var sum float64
	for i, v := range output {
		probs[i] = float64(v)
		sum += probs[i]
	}
	if math.Abs(sum-1.0) > probSumTolerance && sum > 0 {
		for i := range probs {
			probs[i] /= sum
		}
	}

	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}

	byLabel := make(map[string]float64, len(catalog))
	for i, name := range catalog {
		byLabel[name] = probs[i]
	}

	return model.Prediction{
		Label:         catalog[best],
		Confidence:    probs[best],
		Probabilities: byLabel,
	}, nil
}
