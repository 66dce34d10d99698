package searches

import (
	"context"
	"strings"

	"github.com/cmu-l3/metagen/candidates"
	"github.com/cmu-l3/metagen/scores"
)

// MBR samples n independent programs and picks the one with the
// highest mean pairwise utility against the rest: the candidate most
// representative of the sample, rather than the one a verifier likes
// best. The chosen program is then verified once so the result carries
// a verdict.
func (s *Search) MBR(ctx context.Context, task string, n int) (Result, error) {
	seeds := make([]candidates.Candidate, n)
	for i := range seeds {
		seeds[i] = s.newTask(task)
	}

	population := s.expand(ctx, seeds)

	var result Result
	result.Iterations = 1
	if len(population) == 0 {
		return result, nil
	}

	bestIndex := 0
	bestUtility := -1.0
	for i := range population {
		total := 0.0
		for j := range population {
			if i == j {
				continue
			}
			total += UnigramF1(population[i].Program, population[j].Program)
		}
		mean := 0.0
		if len(population) > 1 {
			mean = total / float64(len(population)-1)
		}
		if mean > bestUtility {
			bestUtility = mean
			bestIndex = i
		}
	}

	chosen := population[bestIndex]
	report, err := s.Verifier.Verify(ctx, chosen.Program)
	if err == nil {
		if evaluation, ok := scores.Evaluate(report); ok {
			chosen.Score = evaluation.Score
			chosen.Feedback = evaluation.Feedback
			chosen.Scored = true
		}
	}

	result.Best = chosen
	result.Solved = chosen.Scored && chosen.Score >= s.Threshold
	return result, nil
}

// UnigramF1 is the default pairwise utility: the F1 overlap of the two
// programs' whitespace-separated token multisets.
func UnigramF1(a, b string) float64 {
	tokensA := strings.Fields(a)
	tokensB := strings.Fields(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	counts := make(map[string]int, len(tokensA))
	for _, token := range tokensA {
		counts[token]++
	}
	overlap := 0
	for _, token := range tokensB {
		if counts[token] > 0 {
			counts[token]--
			overlap++
		}
	}

	precision := float64(overlap) / float64(len(tokensB))
	recall := float64(overlap) / float64(len(tokensA))
	if precision+recall == 0 {
		return 0
	}
	return 2 * precision * recall / (precision + recall)
}
