package systems

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"

	"github.com/sdfgeoff/blender-bevy-toolkit/engine/components"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/core"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/math"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/physics"
)

// RigidBodyResolver builds native bodies from RigidBodyDescription. Entities
// without a Transform stay pending until they get one.
type RigidBodyResolver struct {
	query *donburi.Query
}

func NewRigidBodyResolver() *RigidBodyResolver {
	return &RigidBodyResolver{
		query: donburi.NewQuery(filter.Contains(
			components.RigidBodyDescriptionComponent,
			components.TransformComponent,
		)),
	}
}

func (r *RigidBodyResolver) Kind() DescriptorKind {
	return RigidBodyKind
}

func (r *RigidBodyResolver) Resolve(w donburi.World, cb *CommandBuffer) Report {
	var rep Report
	r.query.Each(w, func(entry *donburi.Entry) {
		e := entry.Entity()
		desc := components.RigidBodyDescriptionComponent.GetValue(entry)
		transform := components.TransformComponent.GetValue(entry)

		cb.Remove(e, components.RigidBodyDescriptionComponent)

		kind, err := physics.ParseBodyKind(desc.BodyStatus)
		if err != nil {
			core.LogError("rigid body on entity %v: %s", e, err)
			rep.Errs = append(rep.Errs, &EntityError{Entity: e, Kind: RigidBodyKind, Err: err})
			return
		}

		var velocity physics.Velocity
		if desc.LinearVelocity != nil {
			velocity.Linear = math.Vec3(*desc.LinearVelocity)
		}
		if desc.AngularVelocity != nil {
			velocity.Angular = math.Vec3(*desc.AngularVelocity)
		}

		Insert(cb, e, components.RigidBodyComponent, physics.RigidBody{Kind: kind})
		Insert(cb, e, components.PoseComponent, physics.Pose{
			Translation: transform.Position,
			Rotation:    transform.Rotation,
		})
		Insert(cb, e, components.VelocityComponent, velocity)
		Insert(cb, e, components.DampingComponent, physics.Damping{
			Linear:  desc.DampingLinear,
			Angular: desc.DampingAngular,
		})
		Insert(cb, e, components.LockedAxesComponent, physics.LockedAxesFrom(desc.LockTranslation, desc.LockRotation))
		Insert(cb, e, components.CcdComponent, physics.Ccd{Enabled: desc.CcdEnable})
		Insert(cb, e, components.SleepingComponent, physics.Sleeping{CanSleep: desc.SleepAllow})
		if desc.GravityScale != nil {
			Insert(cb, e, components.GravityScaleComponent, physics.GravityScale{Scale: *desc.GravityScale})
		}
		if desc.Torque != nil {
			Insert(cb, e, components.ExternalTorqueComponent, physics.ExternalTorque{Torque: math.Vec3(*desc.Torque)})
		}

		core.LogDebug("resolved %s rigid body on entity %v", kind, e)
		rep.Resolved++
	})
	return rep
}
