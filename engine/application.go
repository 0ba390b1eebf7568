package engine

import (
	"io/fs"
	"time"

	"github.com/yohamta/donburi"

	"github.com/sdfgeoff/blender-bevy-toolkit/engine/config"
)

// OnTick runs after every resolution pass with the time since the previous
// tick.
type OnTick func(world donburi.World, delta time.Duration) error

type ApplicationConfig struct {
	// The application name used in log lines.
	Name   string
	Config *config.Config
	// AssetFS replaces reading Config.Assets.Root from disk, if set.
	AssetFS fs.FS
	// FnOnTick is optional.
	FnOnTick OnTick
}
