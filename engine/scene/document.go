// Package scene reads exported scene documents and instantiates them as
// donburi entities carrying descriptor components.
package scene

import (
	"bytes"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"

	"github.com/sdfgeoff/blender-bevy-toolkit/engine/assets"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/components"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/math"
)

// Document is one exported collection.
type Document struct {
	Entities []EntityRecord `toml:"entity"`
}

// EntityRecord holds the components of one exported object. Every record
// becomes an entity with a Transform; the rest is optional.
type EntityRecord struct {
	Label string `toml:"label"`
	// Parent is the index of an earlier record in the same document.
	Parent *int `toml:"parent"`

	Transform  *TransformRecord                 `toml:"transform"`
	Mesh       *components.MeshLoader           `toml:"mesh"`
	Material   *components.MaterialLoader       `toml:"material"`
	Collection *components.CollectionLoader     `toml:"collection"`
	RigidBody  *components.RigidBodyDescription `toml:"rigid_body"`
	Collider   *components.ColliderDescription  `toml:"collider"`
}

type TransformRecord struct {
	Translation [3]float32 `toml:"translation"`
	// Rotation is x, y, z, w. Identity when absent.
	Rotation *[4]float32 `toml:"rotation"`
	Scale    *[3]float32 `toml:"scale"`
}

func (t *TransformRecord) Transform() math.Transform {
	if t == nil {
		return math.TransformCreate()
	}
	rot := math.NewQuatIdentity()
	if t.Rotation != nil {
		r := t.Rotation
		rot = mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}
	}
	scale := math.NewVec3One()
	if t.Scale != nil {
		scale = math.Vec3(*t.Scale)
	}
	return math.TransformFromPositionRotationScale(math.Vec3(t.Translation), rot, scale)
}

// ParseDocument decodes and validates a scene document. Unknown keys are
// rejected so exporter mismatches surface early.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *Document) Validate() error {
	for i, rec := range d.Entities {
		if rec.Parent != nil && (*rec.Parent < 0 || *rec.Parent >= i) {
			return fmt.Errorf("entity %d: parent %d must reference an earlier entity", i, *rec.Parent)
		}
		if rec.Mesh != nil && rec.Mesh.Path == "" {
			return fmt.Errorf("entity %d: mesh path is required", i)
		}
		if rec.Material != nil && rec.Material.Path == "" {
			return fmt.Errorf("entity %d: material path is required", i)
		}
		if rec.Collection != nil && rec.Collection.Path == "" {
			return fmt.Errorf("entity %d: collection path is required", i)
		}
	}
	return nil
}

// Loader is the asset loader for .scn documents.
type Loader struct{}

func (l *Loader) Load(_ *assets.LoadContext, data []byte) (interface{}, error) {
	return ParseDocument(data)
}

func (l *Loader) Extensions() []string {
	return []string{".scn"}
}
