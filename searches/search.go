package searches

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/cmu-l3/metagen/candidates"
	"github.com/cmu-l3/metagen/debugs"
	"github.com/cmu-l3/metagen/generators"
	"github.com/cmu-l3/metagen/logs"
	"github.com/cmu-l3/metagen/prompts"
	"github.com/cmu-l3/metagen/scores"
	"github.com/cmu-l3/metagen/syncs"
	"github.com/cmu-l3/metagen/verifiers"
)

// Search bundles the collaborators and budgets shared by all four
// strategies. Tests construct it directly with fakes; production scopes
// assemble it through NewSearch.
type Search struct {
	Generator generators.Generator
	Verifier  verifiers.Verifier
	Logger    logs.Logger
	Random    *rand.Rand
	Tap       debugs.Tap

	Width         int
	Tau           float64
	MaxIterations int
	Threshold     float64
	RetryCap      int
	Concurrency   int
	MaxTokens     int
}

// Result is always structured: exhaustion hands back the best-scoring
// trajectory seen, never an error.
type Result struct {
	Solved     bool
	Best       candidates.Candidate
	Iterations int
}

// sampleCompletion asks the generator for one continuation, looping on
// rate limits.
func (s *Search) sampleCompletion(ctx context.Context, state generators.State) (generators.State, error) {
	const maxAttempts = 3
	backoff := time.Second
	for attempt := 0; ; attempt++ {
		ret, err := s.Generator.Generate(ctx, state)
		if err == nil {
			return ret, nil
		}
		if attempt+1 >= maxAttempts || !errors.Is(err, generators.ErrRetryable) {
			return nil, err
		}
		s.Logger.WarnContext(ctx, "generation rate limited, retrying",
			"attempt", attempt+1, "error", err,
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff << attempt):
		}
	}
}

// newTask starts a trajectory from the original specification, with no
// refinement context.
func (s *Search) newTask(task string) candidates.Candidate {
	return candidates.Candidate{
		State: generators.NewPrompts(prompts.Synthesis, []*generators.Content{
			{
				Role: generators.RoleUser,
				Parts: []generators.Part{
					generators.Text(task),
				},
			},
		}),
	}
}

// expand asks for one refined program per member of population,
// bounded by the generator concurrency limit, and returns those whose
// completions contained a program. Per-candidate failures demote the
// candidate by omission; they never abort the depth.
func (s *Search) expand(ctx context.Context, population []candidates.Candidate) []candidates.Candidate {
	results := make([]*candidates.Candidate, len(population))
	semaphore := syncs.NewSemaphore(s.Concurrency)
	done := make(chan struct{})

	for i, candidate := range population {
		go func() {
			defer func() {
				done <- struct{}{}
			}()
			semaphore.Acquire()
			defer semaphore.Release()

			if s.MaxTokens > 0 {
				n, err := s.Generator.CountTokens(trajectoryText(candidate.State))
				if err == nil && n > s.MaxTokens {
					s.Logger.InfoContext(ctx, "trajectory exceeds context budget",
						"index", i, "tokens", n,
					)
					return
				}
			}

			state, err := s.sampleCompletion(ctx, candidate.State)
			if err != nil {
				s.Logger.WarnContext(ctx, "candidate generation failed",
					"index", i, "error", err,
				)
				return
			}
			program, ok := candidates.ExtractProgram(candidates.LatestModelText(state))
			if !ok {
				s.Logger.InfoContext(ctx, "no program in completion",
					"index", i,
				)
				return
			}
			candidate.State = state
			candidate.Program = program
			candidate.Feedback = ""
			candidate.Scored = false
			results[i] = &candidate
		}()
	}
	// full-population barrier
	for range population {
		<-done
	}

	var refined []candidates.Candidate
	for _, r := range results {
		if r != nil {
			refined = append(refined, *r)
		}
	}
	return refined
}

func trajectoryText(state generators.State) string {
	var b strings.Builder
	b.WriteString(state.SystemPrompt())
	for _, content := range state.Contents() {
		for _, part := range content.Parts {
			if text, ok := part.(generators.Text); ok {
				b.WriteString("\n")
				b.WriteString(string(text))
			}
		}
	}
	return b.String()
}

// score runs the verifier and the value function over every candidate.
// The verifier bounds its own concurrency (verifiers.Pool), so the
// fan-out here is unbounded. Verifier failures leave the candidate
// unscored.
func (s *Search) score(ctx context.Context, population []candidates.Candidate) []candidates.Candidate {
	done := make(chan struct{})
	for i := range population {
		go func() {
			defer func() {
				done <- struct{}{}
			}()
			candidate := &population[i]
			report, err := s.Verifier.Verify(ctx, candidate.Program)
			if err != nil {
				s.Logger.WarnContext(ctx, "verification failed",
					"index", i, "error", err,
				)
				return
			}
			evaluation, ok := scores.Evaluate(report)
			if !ok {
				candidate.Feedback = report.Output
				return
			}
			candidate.Score = evaluation.Score
			candidate.Feedback = evaluation.Feedback
			candidate.Scored = true
		}()
	}
	for range population {
		<-done
	}
	return population
}
