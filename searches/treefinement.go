package searches

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmu-l3/metagen/candidates"
	"github.com/cmu-l3/metagen/cmds"
	"github.com/cmu-l3/metagen/generators"
	"github.com/cmu-l3/metagen/procs"
	"github.com/cmu-l3/metagen/prompts"
)

var tapSearch = cmds.Switch("-tap-search")

// Tree runs the Treefinement loop: a population of trajectories is
// repeatedly refined, verified, filtered and resampled with the REBASE
// rule until a program verifies or the iteration budget runs out.
func (s *Search) Tree(ctx context.Context, task string) (Result, error) {
	run := &treeRun{
		search: s,
		task:   task,
	}

	var proc procs.Proc[context.Context] = initializing{run}
	for proc != nil {
		var err error
		proc, err = proc.Run(ctx)
		if err != nil {
			return run.result(), err
		}
	}

	if !run.solved && *tapSearch {
		s.Tap(ctx, "search exhausted", map[string]any{
			"task":       task,
			"iterations": run.iterations,
			"population": run.population,
			"best":       run.best,
		})
	}

	return run.result(), nil
}

// treeRun is the cross-iteration state owned by the controller. The
// per-depth states below hand their working sets to each other and
// only touch treeRun at well-defined points.
type treeRun struct {
	search     *Search
	task       string
	population []candidates.Candidate
	iterations int
	retries    int
	best       candidates.Candidate
	solved     bool
}

func (r *treeRun) result() Result {
	return Result{
		Solved:     r.solved,
		Best:       r.best,
		Iterations: r.iterations,
	}
}

type step = procs.Proc[context.Context]

// initializing samples Width independent programs against the original
// specification and scores the parsable ones.
type initializing struct {
	run *treeRun
}

var _ step = initializing{}

func (s initializing) Run(ctx context.Context) (step, error) {
	r := s.run

	r.search.Logger.InfoContext(ctx, "initializing population",
		"width", r.search.Width,
	)

	seeds := make([]candidates.Candidate, r.search.Width)
	for i := range seeds {
		seeds[i] = r.search.newTask(r.task)
	}
	initial := r.search.expand(ctx, seeds)

	if len(initial) == 0 {
		r.retries++
		if r.retries > r.search.RetryCap {
			r.search.Logger.WarnContext(ctx, "initialization exhausted")
			return nil, nil
		}
		return s, nil
	}
	r.retries = 0

	return scoring{run: r, refined: initial}, nil
}

// expanding refines every member of the current population in
// parallel; a depth boundary, so cancellation is honored here.
type expanding struct {
	run *treeRun
}

var _ step = expanding{}

func (s expanding) Run(ctx context.Context) (step, error) {
	r := s.run

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.iterations++
	r.search.Logger.InfoContext(ctx, "expanding",
		"iteration", r.iterations,
		"population", len(r.population),
	)

	refined := r.search.expand(ctx, r.population)
	return scoring{run: r, refined: refined}, nil
}

// scoring verifies every refined program behind the population
// barrier.
type scoring struct {
	run     *treeRun
	refined []candidates.Candidate
}

var _ step = scoring{}

func (s scoring) Run(ctx context.Context) (step, error) {
	scored := s.run.search.score(ctx, s.refined)
	return filtering{run: s.run, scored: scored}, nil
}

// filtering drops unscorable candidates, tracks the best trajectory,
// and decides termination. Success is only checked here, after the
// whole depth has been scored.
type filtering struct {
	run    *treeRun
	scored []candidates.Candidate
}

var _ step = filtering{}

func (s filtering) Run(ctx context.Context) (step, error) {
	r := s.run

	var survivors []candidates.Candidate
	for _, candidate := range s.scored {
		if !candidate.Scored {
			continue
		}
		survivors = append(survivors, candidate)
		if !r.best.Scored || candidate.Score > r.best.Score {
			r.best = candidate
		}
	}

	for _, candidate := range survivors {
		if candidate.Score >= r.search.Threshold {
			r.search.Logger.InfoContext(ctx, "verified program found",
				"iterations", r.iterations,
			)
			r.best = candidate
			r.solved = true
			return nil, nil
		}
	}

	if r.iterations >= r.search.MaxIterations {
		r.search.Logger.InfoContext(ctx, "iteration budget exhausted",
			"iterations", r.iterations,
		)
		return nil, nil
	}

	return resampling{run: r, survivors: survivors}, nil
}

// resampling applies the REBASE rule to rebuild a population of
// exactly Width, appending each pick's own diagnostics as the next
// refinement turn. A depth with zero survivors is retried from the
// prior population, bounded by RetryCap.
type resampling struct {
	run       *treeRun
	survivors []candidates.Candidate
}

var _ step = resampling{}

func (s resampling) Run(ctx context.Context) (step, error) {
	r := s.run

	next, err := Resample(r.search.Random, s.survivors, r.search.Tau, r.search.Width)
	if errors.Is(err, ErrNoViableCandidates) {
		r.retries++
		if r.retries > r.search.RetryCap {
			r.search.Logger.WarnContext(ctx, "search exhausted without viable candidates",
				"iterations", r.iterations,
			)
			return nil, nil
		}
		r.search.Logger.InfoContext(ctx, "no survivors, retrying depth",
			"retry", r.retries,
		)
		if len(r.population) == 0 {
			// all-invalid first depth, start over from the task
			return initializing{run: r}, nil
		}
		return expanding{run: r}, nil
	}
	if err != nil {
		return nil, err
	}
	r.retries = 0

	for i, candidate := range next {
		next[i], err = candidate.AppendTurn(
			generators.RoleUser,
			fmt.Sprintf(prompts.Refinement, candidate.Feedback),
		)
		if err != nil {
			return nil, err
		}
	}

	r.population = next
	return expanding{run: r}, nil
}
