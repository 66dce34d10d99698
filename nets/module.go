package nets

import (
	"github.com/cmu-l3/metagen/configs"
	"github.com/cmu-l3/metagen/logs"
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
	Configs configs.Module
	Logs    logs.Module
}
