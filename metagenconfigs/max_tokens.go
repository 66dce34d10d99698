package metagenconfigs

import (
	"math"

	"github.com/cmu-l3/metagen/cmds"
	"github.com/cmu-l3/metagen/configs"
	"github.com/cmu-l3/metagen/vars"
)

type MaxTokens int

var maxTokensFlag = cmds.Var[int]("-max-tokens")

func (Module) MaxTokens(
	loader configs.Loader,
) MaxTokens {
	maxTokens := math.MaxInt

	// flag
	if *maxTokensFlag != 0 {
		maxTokens = min(maxTokens, *maxTokensFlag)
	}

	// config
	if n := vars.FirstNonZero(
		configs.First[int](loader, "max_context_tokens"),
		configs.First[int](loader, "max_tokens"),
	); n != 0 {
		maxTokens = min(maxTokens, n)
	}

	return MaxTokens(maxTokens)
}
