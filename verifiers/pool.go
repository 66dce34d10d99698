package verifiers

import (
	"context"

	"github.com/cmu-l3/metagen/cmds"
	"github.com/cmu-l3/metagen/configs"
	"github.com/cmu-l3/metagen/syncs"
	"github.com/cmu-l3/metagen/vars"
)

// Pool bounds concurrent access to an external verification tool. The
// verifier and the generator have independent concurrency limits; an
// exclusive tool runs with capacity 1.
type Pool struct {
	verifier  Verifier
	semaphore syncs.Semaphore
}

var _ Verifier = Pool{}

func NewPool(verifier Verifier, capacity int) Pool {
	if capacity < 1 {
		capacity = 1
	}
	return Pool{
		verifier:  verifier,
		semaphore: syncs.NewSemaphore(capacity),
	}
}

func (p Pool) Verify(ctx context.Context, source string) (Report, error) {
	select {
	case p.semaphore <- true:
	case <-ctx.Done():
		return Report{}, ctx.Err()
	}
	defer p.semaphore.Release()
	return p.verifier.Verify(ctx, source)
}

var verifierConcurrencyFlag = cmds.Var[int]("-verifier-concurrency")

type VerifierConcurrency int

func (Module) VerifierConcurrency(
	loader configs.Loader,
) VerifierConcurrency {
	return vars.FirstNonZero(
		VerifierConcurrency(*verifierConcurrencyFlag),
		configs.First[VerifierConcurrency](loader, "verifier_concurrency"),
		2,
	)
}
