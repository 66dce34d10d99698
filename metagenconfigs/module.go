package metagenconfigs

import (
	"github.com/cmu-l3/metagen/logs"
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
	Logs logs.Module
}
