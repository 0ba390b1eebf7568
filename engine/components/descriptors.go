// Package components declares every component type the scene pipeline
// attaches to donburi entities: the short-lived descriptors written by the
// scene loader and the runtime components they resolve into.
package components

import (
	"github.com/yohamta/donburi"
)

// RigidBodyDescription lives on an entity until the rigid body resolver
// turns it into native physics components.
type RigidBodyDescription struct {
	// 0 dynamic, 1 fixed, 2 kinematic position based, 3 kinematic velocity based.
	BodyStatus uint8 `toml:"body_status"`

	DampingAngular float32 `toml:"damping_angular"`
	DampingLinear  float32 `toml:"damping_linear"`

	CcdEnable  bool `toml:"ccd_enable"`
	SleepAllow bool `toml:"sleep_allow"`

	LockTranslation [3]int32 `toml:"lock_translation"`
	LockRotation    [3]int32 `toml:"lock_rotation"`

	LinearVelocity  *[3]float32 `toml:"linear_velocity,omitempty"`
	AngularVelocity *[3]float32 `toml:"angular_velocity,omitempty"`
	GravityScale    *float32    `toml:"gravity_scale,omitempty"`
	Torque          *[3]float32 `toml:"torque,omitempty"`
}

// ColliderDescription carries a shape as a tag plus raw little-endian bytes.
type ColliderDescription struct {
	Friction    float32 `toml:"friction"`
	Restitution float32 `toml:"restitution"`
	IsSensor    bool    `toml:"is_sensor"`
	Density     float32 `toml:"density"`

	// Offset of the shape centre from the entity origin.
	CentroidTranslation [3]float32 `toml:"centroid_translation"`

	// 0 sphere, 1 capsule, 2 box.
	ColliderShape     uint8  `toml:"collider_shape"`
	ColliderShapeData []byte `toml:"collider_shape_data"`
}

type MeshLoader struct {
	Path string `toml:"path"`
}

type MaterialLoader struct {
	Path string `toml:"path"`
}

// CollectionLoader spawns another scene as children of its entity.
type CollectionLoader struct {
	Path string `toml:"path"`
}

var (
	RigidBodyDescriptionComponent = donburi.NewComponentType[RigidBodyDescription]()
	ColliderDescriptionComponent  = donburi.NewComponentType[ColliderDescription]()
	MeshLoaderComponent           = donburi.NewComponentType[MeshLoader]()
	MaterialLoaderComponent       = donburi.NewComponentType[MaterialLoader]()
	CollectionLoaderComponent     = donburi.NewComponentType[CollectionLoader]()
)
