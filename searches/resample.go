package searches

import (
	"errors"
	"math/rand/v2"

	"github.com/cmu-l3/metagen/candidates"
)

var ErrNoViableCandidates = errors.New("no viable candidates")

// Resample builds the next population of exactly width trajectories by
// stochastic sampling with replacement, weighted by softmax of score
// over temperature. Sampling with replacement matches the reference
// behavior; a high-value candidate may be drawn more often than integer
// rounding of its weight would give. Each draw is cloned so that later
// turns on one copy never reach another.
func Resample(
	rng *rand.Rand,
	population []candidates.Candidate,
	temperature float64,
	width int,
) ([]candidates.Candidate, error) {

	var viable []candidates.Candidate
	for _, candidate := range population {
		if candidate.Scored {
			viable = append(viable, candidate)
		}
	}
	if len(viable) == 0 {
		return nil, ErrNoViableCandidates
	}

	scores := make([]float64, len(viable))
	for i, candidate := range viable {
		scores[i] = candidate.Score
	}
	weights := Softmax(scores, temperature)

	next := make([]candidates.Candidate, 0, width)
	for range width {
		r := rng.Float64()
		pick := len(viable) - 1
		acc := 0.0
		for i, w := range weights {
			acc += w
			if r < acc {
				pick = i
				break
			}
		}
		next = append(next, viable[pick].Clone())
	}

	return next, nil
}
