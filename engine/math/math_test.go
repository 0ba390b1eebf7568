package math

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestClamp(t *testing.T) {
	cases := []struct {
		f, low, high, want float32
	}{
		{0.5, 0, 1, 0.5},
		{-1, 0, 1, 0},
		{2, 0, 1, 1},
		{0.01, 0.089, 1, 0.089},
	}
	for _, c := range cases {
		if x := Clamp(c.f, c.low, c.high); x != c.want {
			t.Fatalf("Clamp(%v, %v, %v)\nhave %v\nwant %v", c.f, c.low, c.high, x, c.want)
		}
	}
	if x := Clamp(7, 1, 5); x != 5 {
		t.Fatalf("Clamp[int]\nhave %d\nwant 5", x)
	}
	if x := Saturate(float32(1.5)); x != 1 {
		t.Fatalf("Saturate\nhave %v\nwant 1", x)
	}
}

func TestTransformLocal(t *testing.T) {
	tr := TransformFromPosition(NewVec3(1, 2, 3))
	m := tr.Local()
	if x := m.Col(3); !x.ApproxEqual(mgl32.Vec4{1, 2, 3, 1}) {
		t.Fatalf("Transform.Local translation column\nhave %v\nwant [1 2 3 1]", x)
	}
}

func TestTransformMul(t *testing.T) {
	parent := TransformFromPositionRotation(NewVec3(10, 0, 0), NewQuatFromAxisAngle(NewVec3(0, 0, 1), mgl32.DegToRad(90)))
	child := TransformFromPosition(NewVec3(1, 0, 0))
	w := parent.Mul(child)
	if !w.Position.ApproxEqualThreshold(NewVec3(10, 1, 0), 1e-5) {
		t.Fatalf("Transform.Mul position\nhave %v\nwant [10 1 0]", w.Position)
	}
	if !w.Scale.ApproxEqual(NewVec3One()) {
		t.Fatalf("Transform.Mul scale\nhave %v\nwant [1 1 1]", w.Scale)
	}
}
