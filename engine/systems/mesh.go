package systems

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"

	"github.com/sdfgeoff/blender-bevy-toolkit/engine/assets"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/assets/loaders"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/components"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/core"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/geometry"
)

// MeshResolver swaps MeshLoader for a handle to the loading mesh. The
// handle is attached whether or not the load later succeeds.
type MeshResolver struct {
	server *assets.Server
	query  *donburi.Query
}

func NewMeshResolver(server *assets.Server) *MeshResolver {
	return &MeshResolver{
		server: server,
		query:  donburi.NewQuery(filter.Contains(components.MeshLoaderComponent)),
	}
}

func (r *MeshResolver) Kind() DescriptorKind {
	return MeshKind
}

func (r *MeshResolver) Resolve(w donburi.World, cb *CommandBuffer) Report {
	var rep Report
	r.query.Each(w, func(entry *donburi.Entry) {
		e := entry.Entity()
		desc := components.MeshLoaderComponent.GetValue(entry)

		h := assets.Load[*geometry.Mesh](r.server, desc.Path)
		cb.Remove(e, components.MeshLoaderComponent)
		Insert(cb, e, components.MeshHandleComponent, h)

		core.LogDebug("entity %v uses mesh '%s'", e, h.Path)
		rep.Resolved++
	})
	return rep
}

type MaterialResolver struct {
	server *assets.Server
	query  *donburi.Query
}

func NewMaterialResolver(server *assets.Server) *MaterialResolver {
	return &MaterialResolver{
		server: server,
		query:  donburi.NewQuery(filter.Contains(components.MaterialLoaderComponent)),
	}
}

func (r *MaterialResolver) Kind() DescriptorKind {
	return MaterialKind
}

func (r *MaterialResolver) Resolve(w donburi.World, cb *CommandBuffer) Report {
	var rep Report
	r.query.Each(w, func(entry *donburi.Entry) {
		e := entry.Entity()
		desc := components.MaterialLoaderComponent.GetValue(entry)

		h := assets.Load[*loaders.Material](r.server, desc.Path)
		cb.Remove(e, components.MaterialLoaderComponent)
		Insert(cb, e, components.MaterialHandleComponent, h)

		core.LogDebug("entity %v uses material '%s'", e, h.Path)
		rep.Resolved++
	})
	return rep
}
