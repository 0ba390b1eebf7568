package math

import "github.com/go-gl/mathgl/mgl32"

// Vec2 represents a 2D vector
type Vec2 = mgl32.Vec2

// Vec3 represents a 3D vector
type Vec3 = mgl32.Vec3

// Vec4 represents a 4D vector
type Vec4 = mgl32.Vec4

/** @brief A quaternion, used to represent rotational orientation. */
type Quaternion = mgl32.Quat

/** @brief a 4x4 matrix, typically used to represent object transformations. */
type Mat4 = mgl32.Mat4

func NewVec3(x, y, z float32) Vec3 {
	return Vec3{x, y, z}
}

func NewVec3Zero() Vec3 {
	return Vec3{}
}

func NewVec3One() Vec3 {
	return Vec3{1, 1, 1}
}

func NewQuatIdentity() Quaternion {
	return mgl32.QuatIdent()
}

// NewQuatFromAxisAngle builds a rotation of angle radians around axis.
func NewQuatFromAxisAngle(axis Vec3, angle float32) Quaternion {
	return mgl32.QuatRotate(angle, axis.Normalize())
}
