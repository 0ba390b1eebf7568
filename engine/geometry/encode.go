package geometry

import (
	"encoding/binary"
	"fmt"
	gomath "math"
)

// Encode writes m using the layout of rev. It is the inverse of Decode and
// is used by the scene tooling and tests.
func Encode(m *Mesh, rev Revision) ([]byte, error) {
	if !rev.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrRevision, uint8(rev))
	}
	if err := m.Validate(rev); err != nil {
		return nil, err
	}
	vertexCount, faceCount := m.VertexCount(), m.FaceCount()
	if vertexCount > gomath.MaxUint16 || faceCount > gomath.MaxUint16 {
		return nil, fmt.Errorf("geometry: mesh too large for u16 counts: %d vertices, %d faces", vertexCount, faceCount)
	}

	out := make([]byte, 0, rev.Size(vertexCount, faceCount))
	out = binary.LittleEndian.AppendUint16(out, uint16(vertexCount))
	out = binary.LittleEndian.AppendUint16(out, uint16(faceCount))

	putFloats := func(fs []float32) {
		for _, f := range fs {
			out = binary.LittleEndian.AppendUint32(out, gomath.Float32bits(f))
		}
	}
	for i := range m.Positions {
		putFloats(m.Positions[i][:])
	}
	for i := range m.Normals {
		putFloats(m.Normals[i][:])
	}
	if rev.HasTangents() {
		for i := range m.Tangents {
			putFloats(m.Tangents[i][:])
		}
	}
	for i := range m.UVs {
		putFloats(m.UVs[i][:rev.UVWidth()])
	}
	for _, idx := range m.Indices {
		out = binary.LittleEndian.AppendUint32(out, idx)
	}
	return out, nil
}
