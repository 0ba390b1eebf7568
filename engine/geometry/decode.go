package geometry

import (
	"encoding/binary"
	"errors"
	"fmt"
	gomath "math"
)

const headerSize = 4

var (
	ErrTruncated  = errors.New("geometry: buffer truncated")
	ErrIndexRange = errors.New("geometry: face index out of range")
	ErrRevision   = errors.New("geometry: invalid revision")
)

// DecodeError describes where a buffer failed to decode. For truncation Need
// and Have are byte lengths; for index errors Need is the vertex count and
// Have the offending index.
type DecodeError struct {
	Section string
	Offset  int
	Need    int
	Have    int
	Err     error
}

func (e *DecodeError) Error() string {
	switch {
	case errors.Is(e.Err, ErrTruncated):
		return fmt.Sprintf("%v: section %s needs %d bytes, have %d", e.Err, e.Section, e.Need, e.Have)
	case errors.Is(e.Err, ErrIndexRange):
		return fmt.Sprintf("%v: index %d at position %d, vertex count %d", e.Err, e.Have, e.Offset, e.Need)
	default:
		return fmt.Sprintf("%v: section %s", e.Err, e.Section)
	}
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// reader reads little-endian scalars and never indexes past the buffer.
type reader struct {
	data []byte
}

func (r reader) f32(off int) (float32, bool) {
	if off < 0 || off+4 > len(r.data) {
		return 0, false
	}
	return gomath.Float32frombits(binary.LittleEndian.Uint32(r.data[off:])), true
}

func (r reader) u32(off int) (uint32, bool) {
	if off < 0 || off+4 > len(r.data) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(r.data[off:]), true
}

func (r reader) floats(s section, dst []float32, i int) bool {
	base := s.offset + i*s.components*4
	for c := 0; c < s.components; c++ {
		v, ok := r.f32(base + 4*c)
		if !ok {
			return false
		}
		dst[c] = v
	}
	return true
}

// Decode parses a .mesh buffer laid out according to rev.
// A buffer shorter than the layout requires fails with ErrTruncated.
// Trailing bytes after the index section are ignored.
func Decode(data []byte, rev Revision) (*Mesh, error) {
	if !rev.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrRevision, uint8(rev))
	}
	if len(data) < headerSize {
		return nil, &DecodeError{Section: "header", Need: headerSize, Have: len(data), Err: ErrTruncated}
	}
	vertexCount := int(binary.LittleEndian.Uint16(data[0:2]))
	faceCount := int(binary.LittleEndian.Uint16(data[2:4]))

	sections := rev.layout(vertexCount, faceCount)
	for _, s := range sections {
		if s.end() > len(data) {
			return nil, &DecodeError{Section: s.name, Offset: s.offset, Need: s.end(), Have: len(data), Err: ErrTruncated}
		}
	}

	r := reader{data: data}
	m := &Mesh{
		Positions: make([][3]float32, vertexCount),
		Normals:   make([][3]float32, vertexCount),
		UVs:       make([][3]float32, vertexCount),
		UVWidth:   rev.UVWidth(),
		Indices:   make([]uint32, 3*faceCount),
	}
	if rev.HasTangents() {
		m.Tangents = make([][4]float32, vertexCount)
	}

	var buf [4]float32
	for _, s := range sections {
		for i := 0; i < s.count; i++ {
			var ok bool
			switch s.name {
			case "positions":
				ok = r.floats(s, buf[:3], i)
				copy(m.Positions[i][:], buf[:3])
			case "normals":
				ok = r.floats(s, buf[:3], i)
				copy(m.Normals[i][:], buf[:3])
			case "tangents":
				ok = r.floats(s, buf[:4], i)
				copy(m.Tangents[i][:], buf[:4])
			case "uvs":
				ok = r.floats(s, buf[:s.components], i)
				copy(m.UVs[i][:], buf[:s.components])
			case "indices":
				ok = decodeFace(r, s, m.Indices, i)
				if ok {
					for j := 3 * i; j < 3*i+3; j++ {
						if int(m.Indices[j]) >= vertexCount {
							return nil, &DecodeError{Section: s.name, Offset: j, Need: vertexCount, Have: int(m.Indices[j]), Err: ErrIndexRange}
						}
					}
				}
			}
			if !ok {
				return nil, &DecodeError{Section: s.name, Offset: s.offset, Need: s.end(), Have: len(data), Err: ErrTruncated}
			}
		}
	}
	return m, nil
}

func decodeFace(r reader, s section, dst []uint32, i int) bool {
	base := s.offset + i*12
	for c := 0; c < 3; c++ {
		v, ok := r.u32(base + 4*c)
		if !ok {
			return false
		}
		dst[3*i+c] = v
	}
	return true
}
