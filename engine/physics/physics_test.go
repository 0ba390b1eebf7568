package physics

import (
	"encoding/binary"
	"errors"
	gomath "math"
	"testing"

	"github.com/sdfgeoff/blender-bevy-toolkit/engine/core"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/math"
)

func le(fs ...float32) []byte {
	out := make([]byte, 0, 4*len(fs))
	for _, f := range fs {
		out = binary.LittleEndian.AppendUint32(out, gomath.Float32bits(f))
	}
	return out
}

func TestDecodeShape(t *testing.T) {
	cases := []struct {
		tag     uint8
		payload []byte
		want    Shape
	}{
		{0, le(0.75), Ball{Radius: 0.75}},
		{1, le(1.5, 0.25), Capsule{HalfHeight: 1.5, Radius: 0.25}},
		{2, le(0.5, 1.0, 2.0), Cuboid{HalfExtents: math.NewVec3(0.5, 1.0, 2.0)}},
	}
	for _, c := range cases {
		s, err := DecodeShape(c.tag, c.payload)
		if err != nil {
			t.Fatalf("DecodeShape(%d): %v", c.tag, err)
		}
		if s != c.want {
			t.Fatalf("DecodeShape(%d)\nhave %#v\nwant %#v", c.tag, s, c.want)
		}
		if uint8(s.Tag()) != c.tag {
			t.Fatalf("Shape.Tag\nhave %d\nwant %d", s.Tag(), c.tag)
		}
		tag, payload := EncodeShape(s)
		if tag != c.tag || string(payload) != string(c.payload) {
			t.Fatalf("EncodeShape(%#v)\nhave %d %x\nwant %d %x", s, tag, payload, c.tag, c.payload)
		}
		// Every shorter payload must fail.
		for n := 0; n < len(c.payload); n++ {
			if _, err := DecodeShape(c.tag, c.payload[:n]); !errors.Is(err, ErrShapePayload) {
				t.Fatalf("DecodeShape(%d) with %d bytes\nhave %v\nwant %v", c.tag, n, err, ErrShapePayload)
			}
		}
	}
}

func TestDecodeShapeUnknown(t *testing.T) {
	for _, tag := range []uint8{3, 99, 255} {
		s, err := DecodeShape(tag, le(1, 2, 3))
		if s != nil {
			t.Fatalf("DecodeShape(%d) produced %#v", tag, s)
		}
		if !errors.Is(err, ErrUnknownShape) || !errors.Is(err, core.ErrIntegrity) {
			t.Fatalf("DecodeShape(%d)\nhave %v\nwant %v and %v", tag, err, ErrUnknownShape, core.ErrIntegrity)
		}
	}
}

func TestCapsuleSegment(t *testing.T) {
	a, b := Capsule{HalfHeight: 2, Radius: 1}.Segment()
	if a != math.NewVec3(0, 0, -2) || b != math.NewVec3(0, 0, 2) {
		t.Fatalf("Capsule.Segment\nhave %v %v\nwant [0 0 -2] [0 0 2]", a, b)
	}
}

func TestParseBodyKind(t *testing.T) {
	for tag, want := range []BodyKind{Dynamic, Fixed, KinematicPositionBased, KinematicVelocityBased} {
		k, err := ParseBodyKind(uint8(tag))
		if err != nil || k != want {
			t.Fatalf("ParseBodyKind(%d)\nhave %s, %v\nwant %s, nil", tag, k, err, want)
		}
	}
	if _, err := ParseBodyKind(4); !errors.Is(err, ErrUnknownBodyKind) || !errors.Is(err, core.ErrIntegrity) {
		t.Fatalf("ParseBodyKind(4)\nhave %v\nwant %v", err, ErrUnknownBodyKind)
	}
}

func TestLockedAxesFrom(t *testing.T) {
	cases := []struct {
		translation, rotation [3]int32
		want                  LockedAxes
	}{
		{[3]int32{}, [3]int32{}, 0},
		{[3]int32{1, 0, 0}, [3]int32{}, TranslationLockedX},
		{[3]int32{0, 0, -1}, [3]int32{0, 7, 0}, TranslationLockedZ | RotationLockedY},
		{[3]int32{1, 1, 1}, [3]int32{1, 1, 1}, TranslationLocked | RotationLocked},
	}
	for _, c := range cases {
		if x := LockedAxesFrom(c.translation, c.rotation); x != c.want {
			t.Fatalf("LockedAxesFrom(%v, %v)\nhave %06b\nwant %06b", c.translation, c.rotation, x, c.want)
		}
	}
	if !(TranslationLocked | RotationLockedX).Has(TranslationLockedY) {
		t.Fatal("LockedAxes.Has: want true")
	}
	if TranslationLockedX.Has(TranslationLocked) {
		t.Fatal("LockedAxes.Has: want false")
	}
}
