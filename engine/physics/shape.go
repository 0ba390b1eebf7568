package physics

import (
	"encoding/binary"
	"errors"
	"fmt"
	gomath "math"

	"github.com/sdfgeoff/blender-bevy-toolkit/engine/core"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/math"
)

var (
	ErrUnknownShape = errors.New("physics: unknown collider shape")
	ErrShapePayload = errors.New("physics: collider shape payload too short")
)

// ShapeTag is the exporter's integer encoding of a shape kind. It only
// exists at the serialization edge; everything else works with Shape.
type ShapeTag uint8

const (
	SphereTag ShapeTag = iota
	CapsuleTag
	BoxTag
)

// Shape is one of Ball, Capsule or Cuboid.
type Shape interface {
	Tag() ShapeTag
	isShape()
}

type Ball struct {
	Radius float32
}

// Capsule is aligned with the local Z axis, its segment spanning
// [-HalfHeight, +HalfHeight].
type Capsule struct {
	HalfHeight float32
	Radius     float32
}

type Cuboid struct {
	HalfExtents math.Vec3
}

func (Ball) Tag() ShapeTag    { return SphereTag }
func (Capsule) Tag() ShapeTag { return CapsuleTag }
func (Cuboid) Tag() ShapeTag  { return BoxTag }

func (Ball) isShape()    {}
func (Capsule) isShape() {}
func (Cuboid) isShape()  {}

// Segment returns the end points of the capsule axis.
func (c Capsule) Segment() (a, b math.Vec3) {
	return math.NewVec3(0, 0, -c.HalfHeight), math.NewVec3(0, 0, c.HalfHeight)
}

func payloadSize(tag ShapeTag) (int, bool) {
	switch tag {
	case SphereTag:
		return 4, true
	case CapsuleTag:
		return 8, true
	case BoxTag:
		return 12, true
	default:
		return 0, false
	}
}

// DecodeShape turns a tagged payload into a Shape. An unknown tag is an
// integrity error: no default shape is ever produced.
func DecodeShape(tag uint8, payload []byte) (Shape, error) {
	st := ShapeTag(tag)
	size, ok := payloadSize(st)
	if !ok {
		return nil, fmt.Errorf("%w: %w: tag %d", core.ErrIntegrity, ErrUnknownShape, tag)
	}
	if len(payload) < size {
		return nil, fmt.Errorf("%w: tag %d needs %d bytes, have %d", ErrShapePayload, tag, size, len(payload))
	}
	f := func(i int) float32 {
		return gomath.Float32frombits(binary.LittleEndian.Uint32(payload[4*i:]))
	}
	switch st {
	case SphereTag:
		return Ball{Radius: f(0)}, nil
	case CapsuleTag:
		return Capsule{HalfHeight: f(0), Radius: f(1)}, nil
	default:
		return Cuboid{HalfExtents: math.NewVec3(f(0), f(1), f(2))}, nil
	}
}

// EncodeShape is the inverse of DecodeShape.
func EncodeShape(s Shape) (uint8, []byte) {
	var fs []float32
	switch s := s.(type) {
	case Ball:
		fs = []float32{s.Radius}
	case Capsule:
		fs = []float32{s.HalfHeight, s.Radius}
	case Cuboid:
		fs = []float32{s.HalfExtents.X(), s.HalfExtents.Y(), s.HalfExtents.Z()}
	}
	out := make([]byte, 0, 4*len(fs))
	for _, v := range fs {
		out = binary.LittleEndian.AppendUint32(out, gomath.Float32bits(v))
	}
	return uint8(s.Tag()), out
}

// Collider is the collision shape of an entity, placed at Offset in the
// entity's local space.
type Collider struct {
	Shape  Shape
	Offset math.Vec3
}

// Sensor colliders report overlaps but do not produce contact forces.
type Sensor struct {
	IsSensor bool
}

type Friction struct {
	Coefficient float32
}

type Restitution struct {
	Coefficient float32
}

type ColliderMassProperties struct {
	Density float32
}
