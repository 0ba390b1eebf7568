package systems

import (
	"errors"
	"time"

	"github.com/yohamta/donburi"

	"github.com/sdfgeoff/blender-bevy-toolkit/engine/assets"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/core"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/scene"
)

// Pipeline runs one resolution pass per tick: drain asset events, spawn
// collections whose documents arrived, run every resolver against the world
// and commit the recorded changes.
type Pipeline struct {
	registry *Registry
	server   *assets.Server
	spawner  *scene.Spawner
	metrics  *core.Metrics
	buffer   *CommandBuffer
}

func NewPipeline(registry *Registry, server *assets.Server, spawner *scene.Spawner, metrics *core.Metrics) *Pipeline {
	return &Pipeline{
		registry: registry,
		server:   server,
		spawner:  spawner,
		metrics:  metrics,
		buffer:   NewCommandBuffer(),
	}
}

// Tick returns the per-entity failures of this pass joined together. A
// failure never stops the other entities or kinds from resolving.
func (p *Pipeline) Tick(w donburi.World) error {
	start := time.Now()

	failedAssets := 0
	for _, ev := range p.server.DrainEvents() {
		if ev.State == assets.Failed {
			failedAssets++
		}
	}
	p.metrics.Failed("asset", failedAssets)

	if n := p.spawner.Update(w); n > 0 {
		core.LogDebug("spawned %d scene instances", n)
	}

	var errs []error
	for _, kind := range p.registry.Kinds() {
		res, _ := p.registry.Resolver(kind)
		rep := res.Resolve(w, p.buffer)
		p.metrics.Resolved(kind.String(), rep.Resolved)
		p.metrics.Failed(kind.String(), len(rep.Errs))
		errs = append(errs, rep.Errs...)
	}
	p.buffer.Commit(w)

	p.metrics.TickUpdate(time.Since(start))
	return errors.Join(errs...)
}
