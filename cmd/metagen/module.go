package main

import (
	"github.com/cmu-l3/metagen/metagenconfigs"
	"github.com/cmu-l3/metagen/searches"
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
	Configs  metagenconfigs.Module
	Searches searches.Module
}
