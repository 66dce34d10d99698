package generators

import (
	"github.com/cmu-l3/metagen/configs"
	"github.com/cmu-l3/metagen/vars"
)

type NewOpenRouter func(args GeneratorArgs) *OpenAI

func (Module) NewOpenRouter(
	newOpenAI NewOpenAI,
	apiKey OpenRouterAPIKey,
	loader configs.Loader,
) NewOpenRouter {
	return func(args GeneratorArgs) *OpenAI {
		if endpoint := configs.First[string](loader, "openrouter_endpoint"); endpoint != "" {
			args.BaseURL = endpoint
		} else {
			args.BaseURL = "https://openrouter.ai/api/v1"
		}
		args.IsOpenRouter = true
		return newOpenAI(
			args,
			vars.FirstNonZero(
				args.APIKey,
				string(apiKey),
			),
		)
	}
}

type NewDeepseek func(args GeneratorArgs) *OpenAI

func (Module) NewDeepseek(
	apiKey DeepseekAPIKey,
	newOpenAI NewOpenAI,
) NewDeepseek {
	return func(args GeneratorArgs) *OpenAI {
		args.BaseURL = "https://api.deepseek.com/"
		return newOpenAI(
			args,
			vars.FirstNonZero(
				args.APIKey,
				string(apiKey),
			),
		)
	}
}
