package components

import (
	"github.com/yohamta/donburi"

	"github.com/sdfgeoff/blender-bevy-toolkit/engine/math"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/physics"
)

// Label is the object name from the authoring tool.
type Label struct {
	Name string `toml:"name"`
}

// Parent points at the entity this one was spawned under.
type Parent struct {
	Entity donburi.Entity
}

type Children struct {
	Entities []donburi.Entity
}

var (
	TransformComponent = donburi.NewComponentType[math.Transform](math.TransformCreate())
	LabelComponent     = donburi.NewComponentType[Label]()
	ParentComponent    = donburi.NewComponentType[Parent]()
	ChildrenComponent  = donburi.NewComponentType[Children]()

	RigidBodyComponent      = donburi.NewComponentType[physics.RigidBody]()
	PoseComponent           = donburi.NewComponentType[physics.Pose]()
	VelocityComponent       = donburi.NewComponentType[physics.Velocity]()
	DampingComponent        = donburi.NewComponentType[physics.Damping]()
	LockedAxesComponent     = donburi.NewComponentType[physics.LockedAxes]()
	CcdComponent            = donburi.NewComponentType[physics.Ccd]()
	SleepingComponent       = donburi.NewComponentType[physics.Sleeping]()
	GravityScaleComponent   = donburi.NewComponentType[physics.GravityScale]()
	ExternalTorqueComponent = donburi.NewComponentType[physics.ExternalTorque]()

	ColliderComponent               = donburi.NewComponentType[physics.Collider]()
	SensorComponent                 = donburi.NewComponentType[physics.Sensor]()
	FrictionComponent               = donburi.NewComponentType[physics.Friction]()
	RestitutionComponent            = donburi.NewComponentType[physics.Restitution]()
	ColliderMassPropertiesComponent = donburi.NewComponentType[physics.ColliderMassProperties]()
)
