package geometry

import (
	"fmt"
	"strings"
)

// Revision selects the section set of a .mesh buffer. The format carries no
// version tag, so the caller has to know which exporter wrote the file.
type Revision uint8

const (
	// RevisionV1: positions, normals, uv (2 floats).
	RevisionV1 Revision = iota + 1
	// RevisionV2: positions, normals, tangents, uv (2 floats).
	RevisionV2
	// RevisionV3: positions, normals, tangents, uv (3 floats).
	RevisionV3
)

// DefaultRevision is the layout written by the current exporter.
const DefaultRevision = RevisionV2

func (r Revision) Valid() bool {
	return r >= RevisionV1 && r <= RevisionV3
}

func (r Revision) HasTangents() bool {
	return r == RevisionV2 || r == RevisionV3
}

// UVWidth returns the number of floats per texture coordinate.
func (r Revision) UVWidth() int {
	if r == RevisionV3 {
		return 3
	}
	return 2
}

func (r Revision) String() string {
	switch r {
	case RevisionV1:
		return "v1"
	case RevisionV2:
		return "v2"
	case RevisionV3:
		return "v3"
	default:
		return fmt.Sprintf("Revision(%d)", uint8(r))
	}
}

// ParseRevision maps "v1", "v2" and "v3" to a Revision.
func ParseRevision(s string) (Revision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "v1", "1":
		return RevisionV1, nil
	case "v2", "2", "":
		return RevisionV2, nil
	case "v3", "3":
		return RevisionV3, nil
	default:
		return 0, fmt.Errorf("geometry: unknown mesh revision %q", s)
	}
}

// section is one fixed-stride array of the buffer.
type section struct {
	name       string
	offset     int
	components int
	count      int
}

func (s section) size() int {
	return s.count * s.components * 4
}

func (s section) end() int {
	return s.offset + s.size()
}

// layout computes the byte offsets of every section for the given counts.
// Each offset is the running total of the sections before it.
func (r Revision) layout(vertexCount, faceCount int) []section {
	sections := make([]section, 0, 5)
	offset := headerSize
	add := func(name string, components, count int) {
		s := section{name: name, offset: offset, components: components, count: count}
		sections = append(sections, s)
		offset = s.end()
	}
	add("positions", 3, vertexCount)
	add("normals", 3, vertexCount)
	if r.HasTangents() {
		add("tangents", 4, vertexCount)
	}
	add("uvs", r.UVWidth(), vertexCount)
	add("indices", 3, faceCount)
	return sections
}

// Size returns the number of bytes a buffer with the given counts occupies.
func (r Revision) Size(vertexCount, faceCount int) int {
	l := r.layout(vertexCount, faceCount)
	return l[len(l)-1].end()
}
