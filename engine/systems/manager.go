package systems

import (
	"fmt"
	"io/fs"

	"github.com/sdfgeoff/blender-bevy-toolkit/engine/assets"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/assets/loaders"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/core"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/geometry"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/jobs"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/scene"
)

type SystemManagerConfig struct {
	// AssetRoot is the directory assets are read from. AssetFS overrides it
	// for reading, which tests use with an in-memory file system.
	AssetRoot string
	AssetFS   fs.FS
	// Watch reloads changed assets. Requires AssetRoot.
	Watch bool
	// Workers is the number of loader goroutines. Zero loads inline.
	Workers      int
	QueueSize    int
	MeshRevision geometry.Revision
}

type SystemManager struct {
	jobSystem   *jobs.JobSystem
	assetServer *assets.Server
	spawner     *scene.Spawner
	registry    *Registry
	pipeline    *Pipeline
	metrics     *core.Metrics
}

func NewSystemManager(config *SystemManagerConfig) (*SystemManager, error) {
	if !config.MeshRevision.Valid() {
		return nil, fmt.Errorf("%w: %d", geometry.ErrRevision, config.MeshRevision)
	}

	sm := &SystemManager{metrics: core.NewMetrics()}

	var dispatcher assets.Dispatcher
	if config.Workers > 0 {
		js, err := jobs.NewJobSystem(config.Workers, config.QueueSize)
		if err != nil {
			return nil, err
		}
		sm.jobSystem = js
		dispatcher = js
	}

	as, err := assets.NewServer(assets.ServerConfig{
		Root:       config.AssetRoot,
		FS:         config.AssetFS,
		Dispatcher: dispatcher,
	})
	if err != nil {
		sm.shutdownJobs()
		return nil, err
	}
	sm.assetServer = as

	for _, l := range []assets.Loader{
		loaders.NewMeshLoader(config.MeshRevision),
		&loaders.MaterialLoader{},
		&loaders.TextureLoader{},
		&scene.Loader{},
	} {
		if err := as.RegisterLoader(l); err != nil {
			sm.shutdownJobs()
			return nil, err
		}
	}

	if config.Watch {
		if err := as.Watch(); err != nil {
			sm.shutdownJobs()
			return nil, err
		}
	}

	sm.spawner = scene.NewSpawner(as)
	sm.registry, err = NewRegistry(
		NewMeshResolver(as),
		NewMaterialResolver(as),
		NewRigidBodyResolver(),
		NewColliderResolver(),
		NewCollectionResolver(as, sm.spawner),
	)
	if err != nil {
		sm.Shutdown()
		return nil, err
	}
	sm.pipeline = NewPipeline(sm.registry, as, sm.spawner, sm.metrics)

	core.LogInfo("Systems initialized with asset root '%s' (%d workers, mesh %s).", config.AssetRoot, config.Workers, config.MeshRevision)

	return sm, nil
}

func (sm *SystemManager) AssetServer() *assets.Server {
	return sm.assetServer
}

func (sm *SystemManager) Spawner() *scene.Spawner {
	return sm.spawner
}

func (sm *SystemManager) Pipeline() *Pipeline {
	return sm.pipeline
}

func (sm *SystemManager) Metrics() *core.Metrics {
	return sm.metrics
}

func (sm *SystemManager) shutdownJobs() {
	if sm.jobSystem != nil {
		if err := sm.jobSystem.Shutdown(); err != nil {
			core.LogWarn("job system shutdown: %s", err)
		}
	}
}

// Shutdown stops the watcher, then lets queued loads finish before the
// workers exit.
func (sm *SystemManager) Shutdown() error {
	if err := sm.assetServer.Shutdown(); err != nil {
		return err
	}
	if sm.jobSystem != nil {
		if err := sm.jobSystem.Shutdown(); err != nil {
			return err
		}
	}
	return nil
}
