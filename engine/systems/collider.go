package systems

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"

	"github.com/sdfgeoff/blender-bevy-toolkit/engine/components"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/core"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/math"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/physics"
)

type ColliderResolver struct {
	query *donburi.Query
}

func NewColliderResolver() *ColliderResolver {
	return &ColliderResolver{
		query: donburi.NewQuery(filter.Contains(components.ColliderDescriptionComponent)),
	}
}

func (r *ColliderResolver) Kind() DescriptorKind {
	return ColliderKind
}

func (r *ColliderResolver) Resolve(w donburi.World, cb *CommandBuffer) Report {
	var rep Report
	r.query.Each(w, func(entry *donburi.Entry) {
		e := entry.Entity()
		desc := components.ColliderDescriptionComponent.GetValue(entry)

		cb.Remove(e, components.ColliderDescriptionComponent)

		shape, err := physics.DecodeShape(desc.ColliderShape, desc.ColliderShapeData)
		if err != nil {
			core.LogError("collider on entity %v: %s", e, err)
			rep.Errs = append(rep.Errs, &EntityError{Entity: e, Kind: ColliderKind, Err: err})
			return
		}

		// The centroid offsets the shape inside the body; the entity
		// transform is left alone.
		Insert(cb, e, components.ColliderComponent, physics.Collider{
			Shape:  shape,
			Offset: math.Vec3(desc.CentroidTranslation),
		})
		Insert(cb, e, components.SensorComponent, physics.Sensor{IsSensor: desc.IsSensor})
		Insert(cb, e, components.FrictionComponent, physics.Friction{Coefficient: desc.Friction})
		Insert(cb, e, components.RestitutionComponent, physics.Restitution{Coefficient: desc.Restitution})
		Insert(cb, e, components.ColliderMassPropertiesComponent, physics.ColliderMassProperties{Density: desc.Density})

		core.LogDebug("resolved %T collider on entity %v", shape, e)
		rep.Resolved++
	})
	return rep
}
