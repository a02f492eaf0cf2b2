package app

import (
	"github.com/pipewright/pipewright/internal/registry"
	"github.com/pipewright/pipewright/modules/checks"
	"github.com/pipewright/pipewright/modules/features"
	"github.com/pipewright/pipewright/modules/normalize"
	"github.com/pipewright/pipewright/modules/output"
	"github.com/pipewright/pipewright/modules/source"
)

// coreModules is the definitive list of all modules that are compiled into
// the pipewright binary.
var coreModules = []registry.Module{
	&source.Module{},
	&normalize.Module{},
	&features.Module{},
	&output.Module{},
	&checks.Module{},
}
