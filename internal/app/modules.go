package app

import (
	"github.com/vk/gridsim/components/emissions"
	"github.com/vk/gridsim/components/grosseconomy"
	"github.com/vk/gridsim/internal/registry"
)

// coreModules is the definitive list of component modules compiled into
// the gridsim binary.
var coreModules = []registry.Module{
	&grosseconomy.Module{},
	&emissions.Module{},
}
