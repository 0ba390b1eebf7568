package systems

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"

	"github.com/sdfgeoff/blender-bevy-toolkit/engine/assets"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/components"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/core"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/scene"
)

// CollectionResolver asks the spawner to instantiate a linked collection
// under the entity that references it.
type CollectionResolver struct {
	server  *assets.Server
	spawner *scene.Spawner
	query   *donburi.Query
}

func NewCollectionResolver(server *assets.Server, spawner *scene.Spawner) *CollectionResolver {
	return &CollectionResolver{
		server:  server,
		spawner: spawner,
		query:   donburi.NewQuery(filter.Contains(components.CollectionLoaderComponent)),
	}
}

func (r *CollectionResolver) Kind() DescriptorKind {
	return CollectionKind
}

func (r *CollectionResolver) Resolve(w donburi.World, cb *CommandBuffer) Report {
	var rep Report
	r.query.Each(w, func(entry *donburi.Entry) {
		e := entry.Entity()
		desc := components.CollectionLoaderComponent.GetValue(entry)

		h := assets.Load[*scene.Document](r.server, desc.Path)
		id := r.spawner.Spawn(h, e)
		cb.Remove(e, components.CollectionLoaderComponent)
		Insert(cb, e, components.SceneInstanceComponent, components.SceneInstance{ID: id, Path: h.Path})

		core.LogDebug("entity %v spawns collection '%s'", e, h.Path)
		rep.Resolved++
	})
	return rep
}
