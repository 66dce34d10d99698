package generators

import (
	"github.com/cmu-l3/metagen/cmds"
	"github.com/cmu-l3/metagen/configs"
	"github.com/cmu-l3/metagen/logs"
	"github.com/cmu-l3/metagen/vars"
)

type GetDefaultGenerator func() (Generator, error)

func (Module) GetDefaultGenerator(
	name DefaultModelName,
	get GetGenerator,
) GetDefaultGenerator {
	return func() (Generator, error) {
		return get(string(name))
	}
}

var (
	defaultModelName = cmds.Var[string]("-model")
)

type DefaultModelName string

func (Module) DefaultModelName(
	loader configs.Loader,
	fallback FallbackModelName,
	logger logs.Logger,
) (ret DefaultModelName) {
	defer func() {
		logger.Info("default model", "name", ret)
	}()
	return vars.FirstNonZero(
		DefaultModelName(*defaultModelName),
		configs.First[DefaultModelName](loader, "model_name"),
		configs.First[DefaultModelName](loader, "model"),
		DefaultModelName(fallback),
	)
}

type FallbackModelName string

func (Module) FallbackModelName() FallbackModelName {
	return "gemini-flash"
}
