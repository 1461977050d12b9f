package app

import (
	"github.com/vk/flowgridgo/internal/registry"
	"github.com/vk/flowgridgo/modules/counter"
	"github.com/vk/flowgridgo/modules/filelines"
	"github.com/vk/flowgridgo/modules/httppoll"
	"github.com/vk/flowgridgo/modules/socketio"
	"github.com/vk/flowgridgo/modules/ticker"
)

// coreModules is the built-in source set registered when the caller does
// not supply its own modules.
var coreModules = []registry.Module{
	&counter.Module{},
	&ticker.Module{},
	&filelines.Module{},
	&httppoll.Module{},
	&socketio.Module{},
}
