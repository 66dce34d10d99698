package searches

import (
	"math"
)

// Softmax returns the normalized exponential of values/temperature.
// The maximum is subtracted before exponentiation to keep the sum
// finite at low temperatures.
func Softmax(values []float64, temperature float64) []float64 {
	if len(values) == 0 {
		return nil
	}

	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}

	weights := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		w := math.Exp((v - max) / temperature)
		weights[i] = w
		sum += w
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}
