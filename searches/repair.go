package searches

import (
	"context"
	"fmt"

	"github.com/cmu-l3/metagen/candidates"
	"github.com/cmu-l3/metagen/generators"
	"github.com/cmu-l3/metagen/prompts"
)

// Repair is single-chain refinement: one trajectory, refined against
// its own diagnostics until it verifies or the budget is spent. A
// width-1 tree without branching.
func (s *Search) Repair(ctx context.Context, task string) (Result, error) {
	population := s.score(ctx, s.expand(ctx, []candidates.Candidate{s.newTask(task)}))

	var result Result
	for {
		result.Iterations++

		if len(population) > 0 && population[0].Scored {
			candidate := population[0]
			if !result.Best.Scored || candidate.Score > result.Best.Score {
				result.Best = candidate
			}
			if candidate.Score >= s.Threshold {
				result.Solved = true
				return result, nil
			}
		}

		if result.Iterations >= s.MaxIterations {
			return result, nil
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if len(population) == 0 {
			// nothing to refine, start the chain over
			population = []candidates.Candidate{s.newTask(task)}
		} else {
			candidate, err := population[0].AppendTurn(
				generators.RoleUser,
				fmt.Sprintf(prompts.Refinement, population[0].Feedback),
			)
			if err != nil {
				return result, err
			}
			population = []candidates.Candidate{candidate}
		}

		population = s.score(ctx, s.expand(ctx, population))
	}
}
