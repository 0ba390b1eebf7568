// Package geometry decodes the binary .mesh buffers written by the blender
// exporter into vertex and index arrays.
package geometry

import "fmt"

// Mesh holds de-interleaved vertex attributes and a triangle list.
type Mesh struct {
	Positions [][3]float32
	Normals   [][3]float32
	// Tangents is nil for revisions without a tangent section.
	Tangents [][4]float32
	// UVs always has three components; the third is zero when UVWidth is 2.
	UVs     [][3]float32
	UVWidth int
	Indices []uint32
}

func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

func (m *Mesh) FaceCount() int {
	return len(m.Indices) / 3
}

// Face returns the vertex indices of triangle i.
func (m *Mesh) Face(i int) [3]uint32 {
	return [3]uint32{m.Indices[3*i], m.Indices[3*i+1], m.Indices[3*i+2]}
}

// Validate checks the structural invariants of the mesh against rev.
func (m *Mesh) Validate(rev Revision) error {
	n := len(m.Positions)
	if len(m.Normals) != n || len(m.UVs) != n {
		return fmt.Errorf("geometry: attribute count mismatch: positions %d, normals %d, uvs %d",
			n, len(m.Normals), len(m.UVs))
	}
	if rev.HasTangents() && len(m.Tangents) != n {
		return fmt.Errorf("geometry: revision %s needs %d tangents, have %d", rev, n, len(m.Tangents))
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("geometry: index count %d is not a multiple of 3", len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= n {
			return &DecodeError{Section: "indices", Offset: i, Need: n, Have: int(idx), Err: ErrIndexRange}
		}
	}
	return nil
}
