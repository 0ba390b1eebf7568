// Package physics holds the native rigid-body and collider state that scene
// descriptors resolve into. It does not integrate anything; a physics
// backend reads these components.
package physics

import (
	"errors"
	"fmt"

	"github.com/sdfgeoff/blender-bevy-toolkit/engine/core"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/math"
)

var ErrUnknownBodyKind = errors.New("physics: unknown rigid body kind")

// BodyKind is how the simulation moves a body.
type BodyKind uint8

const (
	Dynamic BodyKind = iota
	Fixed
	KinematicPositionBased
	KinematicVelocityBased
)

// ParseBodyKind maps the exporter's body_status tag to a BodyKind.
// Unknown tags are integrity errors, like unknown collider shapes.
func ParseBodyKind(tag uint8) (BodyKind, error) {
	switch BodyKind(tag) {
	case Dynamic, Fixed, KinematicPositionBased, KinematicVelocityBased:
		return BodyKind(tag), nil
	default:
		return 0, fmt.Errorf("%w: %w: tag %d", core.ErrIntegrity, ErrUnknownBodyKind, tag)
	}
}

func (k BodyKind) String() string {
	switch k {
	case Dynamic:
		return "dynamic"
	case Fixed:
		return "fixed"
	case KinematicPositionBased:
		return "kinematic_position_based"
	case KinematicVelocityBased:
		return "kinematic_velocity_based"
	default:
		return fmt.Sprintf("BodyKind(%d)", uint8(k))
	}
}

// LockedAxes is a bitset of axes the solver must not move along or around.
type LockedAxes uint8

const (
	TranslationLockedX LockedAxes = 1 << iota
	TranslationLockedY
	TranslationLockedZ
	RotationLockedX
	RotationLockedY
	RotationLockedZ

	TranslationLocked = TranslationLockedX | TranslationLockedY | TranslationLockedZ
	RotationLocked    = RotationLockedX | RotationLockedY | RotationLockedZ
)

// LockedAxesFrom builds the bitset from per-axis flags, any non-zero value
// locking the axis.
func LockedAxesFrom(translation, rotation [3]int32) LockedAxes {
	var l LockedAxes
	for i := 0; i < 3; i++ {
		if translation[i] != 0 {
			l |= TranslationLockedX << i
		}
		if rotation[i] != 0 {
			l |= RotationLockedX << i
		}
	}
	return l
}

func (l LockedAxes) Has(flags LockedAxes) bool {
	return l&flags == flags
}

// RigidBody marks an entity as simulated.
type RigidBody struct {
	Kind BodyKind
}

// Pose is the initial placement handed to the solver.
type Pose struct {
	Translation math.Vec3
	Rotation    math.Quaternion
}

type Velocity struct {
	Linear  math.Vec3
	Angular math.Vec3
}

type Damping struct {
	Linear  float32
	Angular float32
}

// Ccd toggles continuous collision detection.
type Ccd struct {
	Enabled bool
}

// Sleeping controls whether the solver may put a resting body to sleep.
type Sleeping struct {
	CanSleep bool
	Sleeping bool
}

type GravityScale struct {
	Scale float32
}

type ExternalTorque struct {
	Torque math.Vec3
}
