package app

import (
	"github.com/vk/pdeconf/internal/registry"
	"github.com/vk/pdeconf/modules/profiles"
)

// coreModules is the definitive list of all import modules that are compiled
// into the binary.
var coreModules = []registry.Module{
	&profiles.Module{},
}
