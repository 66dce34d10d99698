package generators

import (
	"github.com/cmu-l3/metagen/configs"
	"github.com/cmu-l3/metagen/debugs"
	"github.com/cmu-l3/metagen/logs"
	"github.com/cmu-l3/metagen/nets"
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
	Configs configs.Module
	Nets    nets.Module
	Logs    logs.Module
	Debugs  debugs.Module
}
