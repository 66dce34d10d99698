package generators

import (
	"os"

	"github.com/cmu-l3/metagen/configs"
	"github.com/cmu-l3/metagen/vars"
)

type (
	GoogleAPIKey     string
	DeepseekAPIKey   string
	OpenRouterAPIKey string
)

func (Module) GoogleAPIKey(
	loader configs.Loader,
) GoogleAPIKey {
	return vars.FirstNonZero(
		configs.First[GoogleAPIKey](loader, "google_api_key"),
		GoogleAPIKey(os.Getenv("GOOGLE_API_KEY")),
	)
}

func (Module) DeepseekAPIKey(
	loader configs.Loader,
) DeepseekAPIKey {
	return vars.FirstNonZero(
		configs.First[DeepseekAPIKey](loader, "deepseek_api_key"),
		DeepseekAPIKey(os.Getenv("DEEPSEEK_API_KEY")),
	)
}

func (Module) OpenRouterAPIKey(
	loader configs.Loader,
) OpenRouterAPIKey {
	return vars.FirstNonZero(
		configs.First[OpenRouterAPIKey](loader, "open_router_api_key"),
		configs.First[OpenRouterAPIKey](loader, "openrouter_api_key"),
		OpenRouterAPIKey(os.Getenv("OPEN_ROUTER_API_KEY")),
		OpenRouterAPIKey(os.Getenv("OPENROUTER_API_KEY")),
	)
}
