/*
Loads a root scene exported from blender, resolves its descriptors into
runtime components and keeps ticking until interrupted or max_ticks is
reached.
*/
package main

import (
	"errors"
	"flag"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/sdfgeoff/blender-bevy-toolkit/engine"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/config"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/core"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/systems"
)

func main() {
	configPath := flag.String("config", "engine.toml", "path to the engine configuration")
	scenePath := flag.String("scene", "", "root scene to spawn, relative to the asset root")
	maxTicks := flag.Uint64("ticks", 0, "stop after this many ticks (0 keeps the configured value)")
	watch := flag.Bool("watch", false, "reload assets when their files change")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		core.LogInfo("no config at '%s', using defaults", *configPath)
		cfg = config.Default()
	case err != nil:
		core.LogFatal("%s", err)
	}
	if *scenePath != "" {
		cfg.Scene.Root = *scenePath
	}
	if *maxTicks > 0 {
		cfg.Engine.MaxTicks = *maxTicks
	}
	if *watch {
		cfg.Assets.Watch = true
	}
	if cfg.Scene.Root == "" {
		core.LogFatal("no root scene: set [scene] root or pass -scene")
	}

	e, err := engine.New(&engine.ApplicationConfig{
		Name:   "blend-loader",
		Config: cfg,
	})
	if err != nil {
		core.LogFatal("%s", err)
	}

	if err := e.Initialize(); err != nil {
		core.LogFatal("%s", err)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// stop the run loop on sigterm and other system calls
	go func() {
		<-sigCh
		e.Stop()
	}()

	runErr := e.Run()
	summary(e)
	if err := e.Shutdown(); err != nil {
		core.LogError("shutdown: %s", err)
	}
	if runErr != nil {
		core.LogFatal("%s", runErr)
	}
}

func summary(e *engine.Engine) {
	sm := e.SystemManager()
	m := sm.Metrics()
	core.LogInfo("%d ticks, %d entities, %d assets, average tick %s",
		e.Ticks(), e.World().Len(), sm.AssetServer().Len(), m.TickTime())
	for _, kind := range []systems.DescriptorKind{
		systems.MeshKind,
		systems.MaterialKind,
		systems.RigidBodyKind,
		systems.ColliderKind,
		systems.CollectionKind,
	} {
		core.LogInfo("%-10s resolved %d, failed %d", kind, m.ResolvedCount(kind.String()), m.FailedCount(kind.String()))
	}
	if failed := m.FailedCount("asset"); failed > 0 {
		core.LogWarn("%d asset loads failed", failed)
	}
}
