package searches

import (
	"math/rand/v2"
	"time"

	"github.com/cmu-l3/metagen/cmds"
	"github.com/cmu-l3/metagen/configs"
	"github.com/cmu-l3/metagen/vars"
)

var (
	widthFlag      = cmds.Var[int]("-width")
	tauFlag        = cmds.Var[float64]("-tau")
	iterationsFlag = cmds.Var[int]("-iterations")
	seedFlag       = cmds.Var[int64]("-seed")
)

type ExpansionWidth int

func (Module) ExpansionWidth(
	loader configs.Loader,
) ExpansionWidth {
	return vars.FirstNonZero(
		ExpansionWidth(*widthFlag),
		configs.First[ExpansionWidth](loader, "expansion_width"),
		4,
	)
}

type RebaseTemperature float64

func (Module) RebaseTemperature(
	loader configs.Loader,
) RebaseTemperature {
	return vars.FirstNonZero(
		RebaseTemperature(*tauFlag),
		configs.First[RebaseTemperature](loader, "rebase_temperature"),
		0.1,
	)
}

type MaxIterations int

func (Module) MaxIterations(
	loader configs.Loader,
) MaxIterations {
	return vars.FirstNonZero(
		MaxIterations(*iterationsFlag),
		configs.First[MaxIterations](loader, "max_iterations"),
		10,
	)
}

type VerifiedThreshold float64

func (Module) VerifiedThreshold(
	loader configs.Loader,
) VerifiedThreshold {
	return vars.FirstNonZero(
		configs.First[VerifiedThreshold](loader, "verified_threshold"),
		1.0,
	)
}

type RetryCap int

func (Module) RetryCap(
	loader configs.Loader,
) RetryCap {
	return vars.FirstNonZero(
		configs.First[RetryCap](loader, "retry_cap"),
		3,
	)
}

type GeneratorConcurrency int

func (Module) GeneratorConcurrency(
	loader configs.Loader,
) GeneratorConcurrency {
	return vars.FirstNonZero(
		configs.First[GeneratorConcurrency](loader, "generator_concurrency"),
		4,
	)
}

type Seed int64

func (Module) Seed(
	loader configs.Loader,
) Seed {
	return vars.FirstNonZero(
		Seed(*seedFlag),
		configs.First[Seed](loader, "seed"),
		Seed(time.Now().UnixNano()),
	)
}

func (Module) Random(
	seed Seed,
) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
}
