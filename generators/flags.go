package generators

import (
	"github.com/cmu-l3/metagen/cmds"
)

var (
	temperatureFlag = cmds.Var[float32]("-temperature")

	debugOpenAI = cmds.Switch("-debug-openai")
	tapOpenAI   = cmds.Switch("-tap-openai")
	debugGemini = cmds.Switch("-debug-gemini")
)
