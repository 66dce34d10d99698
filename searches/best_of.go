package searches

import (
	"context"

	"github.com/cmu-l3/metagen/candidates"
)

// BestOf samples n independent programs, scores them all, and returns
// the highest-value one. Equivalent to a single tree depth with the
// selection temperature at zero.
func (s *Search) BestOf(ctx context.Context, task string, n int) (Result, error) {
	seeds := make([]candidates.Candidate, n)
	for i := range seeds {
		seeds[i] = s.newTask(task)
	}

	scored := s.score(ctx, s.expand(ctx, seeds))

	var result Result
	result.Iterations = 1
	for _, candidate := range scored {
		if !candidate.Scored {
			continue
		}
		if !result.Best.Scored || candidate.Score > result.Best.Score {
			result.Best = candidate
		}
	}
	result.Solved = result.Best.Scored && result.Best.Score >= s.Threshold
	return result, nil
}
