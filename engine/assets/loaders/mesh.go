package loaders

import (
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/assets"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/geometry"
)

// MeshLoader decodes exported .mesh buffers of a fixed revision.
type MeshLoader struct {
	Revision geometry.Revision
}

func NewMeshLoader(rev geometry.Revision) *MeshLoader {
	return &MeshLoader{Revision: rev}
}

func (ml *MeshLoader) Load(_ *assets.LoadContext, data []byte) (interface{}, error) {
	return geometry.Decode(data, ml.Revision)
}

func (ml *MeshLoader) Extensions() []string {
	return []string{".mesh"}
}
