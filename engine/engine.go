package engine

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yohamta/donburi"

	"github.com/sdfgeoff/blender-bevy-toolkit/engine/assets"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/config"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/core"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/scene"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently booting up
	EngineStageBooting
	// Engine completed boot process and is ready to be initialized
	EngineStageBootComplete
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

type Engine struct {
	currentStage  Stage
	app           *ApplicationConfig
	config        *config.Config
	world         donburi.World
	systemManager *systems.SystemManager
	clock         *core.Clock
	lastTime      time.Duration
	ticks         uint64

	isRunning atomic.Bool
	stopOnce  sync.Once
	stop      chan struct{}
}

func New(app *ApplicationConfig) (*Engine, error) {
	cfg := app.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := core.SetLogLevel(cfg.Engine.LogLevel); err != nil {
		return nil, err
	}

	e := &Engine{
		currentStage: EngineStageBooting,
		app:          app,
		config:       cfg,
		world:        donburi.NewWorld(),
		clock:        core.NewClock(),
		stop:         make(chan struct{}),
	}

	sm, err := systems.NewSystemManager(&systems.SystemManagerConfig{
		AssetRoot:    cfg.Assets.Root,
		AssetFS:      app.AssetFS,
		Watch:        cfg.Assets.Watch,
		Workers:      cfg.Assets.Workers,
		QueueSize:    cfg.Assets.QueueSize,
		MeshRevision: cfg.MeshRevision(),
	})
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	e.systemManager = sm
	e.currentStage = EngineStageBootComplete

	return e, nil
}

// Initialize queues the configured root scene.
func (e *Engine) Initialize() error {
	if e.currentStage != EngineStageBootComplete {
		return fmt.Errorf("engine cannot initialize from stage %d", e.currentStage)
	}
	e.currentStage = EngineStageInitializing

	if root := e.config.Scene.Root; root != "" {
		e.SpawnScene(root)
	}

	e.currentStage = EngineStageInitialized
	core.LogInfo("%s initialized.", e.app.Name)
	return nil
}

// SpawnScene loads the scene at path and spawns it without a parent once it
// is ready.
func (e *Engine) SpawnScene(path string) scene.InstanceID {
	h := assets.Load[*scene.Document](e.systemManager.AssetServer(), path)
	return e.systemManager.Spawner().SpawnRoot(h)
}

// Tick runs a single resolution pass. Integrity errors are returned when
// the engine is strict and logged otherwise; any other entity failure is
// logged.
func (e *Engine) Tick() error {
	err := e.systemManager.Pipeline().Tick(e.world)
	e.ticks++
	if err == nil {
		return nil
	}
	if e.config.Engine.Strict && errors.Is(err, core.ErrIntegrity) {
		return err
	}
	core.LogWarn("tick %d: %s", e.ticks, err)
	return nil
}

func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine cannot run from stage %d", e.currentStage)
	}
	e.currentStage = EngineStageRunning
	e.isRunning.Store(true)
	defer e.isRunning.Store(false)

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	ticker := time.NewTicker(e.config.TickInterval())
	defer ticker.Stop()

	maxTicks := e.config.Engine.MaxTicks
	for e.isRunning.Load() {
		// Update clock and get delta time.
		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime

		if err := e.Tick(); err != nil {
			core.LogError("Scene resolution failed, shutting down: %s", err)
			return err
		}

		if e.app.FnOnTick != nil {
			if err := e.app.FnOnTick(e.world, delta); err != nil {
				core.LogError("Application tick failed, shutting down: %s", err)
				return err
			}
		}

		e.lastTime = currentTime

		if maxTicks > 0 && e.ticks >= maxTicks {
			break
		}

		select {
		case <-ticker.C:
		case <-e.stop:
			return nil
		}
	}
	return nil
}

// Stop makes Run return after the current tick. Safe to call from any
// goroutine.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		e.isRunning.Store(false)
		close(e.stop)
	})
}

func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShuttingDown {
		return core.ErrClosed
	}
	e.Stop()
	e.currentStage = EngineStageShuttingDown
	e.clock.Stop()
	return e.systemManager.Shutdown()
}

func (e *Engine) World() donburi.World {
	return e.world
}

func (e *Engine) SystemManager() *systems.SystemManager {
	return e.systemManager
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

func (e *Engine) Ticks() uint64 {
	return e.ticks
}
