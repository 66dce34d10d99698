package searches

import (
	"math/rand/v2"

	"github.com/cmu-l3/metagen/debugs"
	"github.com/cmu-l3/metagen/generators"
	"github.com/cmu-l3/metagen/logs"
	"github.com/cmu-l3/metagen/metagenconfigs"
	"github.com/cmu-l3/metagen/verifiers"
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
	Generators generators.Module
	Verifiers  verifiers.Module
	Configs    metagenconfigs.Module
	Logs       logs.Module
	Debugs     debugs.Module
}

type NewSearch func() (*Search, error)

func (Module) NewSearch(
	getGenerator generators.GetDefaultGenerator,
	newDafny verifiers.NewDafny,
	verifierConcurrency verifiers.VerifierConcurrency,
	logger logs.Logger,
	random *rand.Rand,
	tap debugs.Tap,
	width ExpansionWidth,
	tau RebaseTemperature,
	maxIterations MaxIterations,
	threshold VerifiedThreshold,
	retryCap RetryCap,
	concurrency GeneratorConcurrency,
	maxTokens metagenconfigs.MaxTokens,
) NewSearch {
	return func() (*Search, error) {
		generator, err := getGenerator()
		if err != nil {
			return nil, err
		}
		return &Search{
			Generator: generator,
			Verifier:  verifiers.NewPool(newDafny(), int(verifierConcurrency)),
			Logger:    logger,
			Random:    random,
			Tap:       tap,

			Width:         int(width),
			Tau:           float64(tau),
			MaxIterations: int(maxIterations),
			Threshold:     float64(threshold),
			RetryCap:      int(retryCap),
			Concurrency:   int(concurrency),
			MaxTokens:     int(maxTokens),
		}, nil
	}
}
