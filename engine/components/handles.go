package components

import (
	"github.com/google/uuid"
	"github.com/yohamta/donburi"

	"github.com/sdfgeoff/blender-bevy-toolkit/engine/assets"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/assets/loaders"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/geometry"
)

type MeshHandle = assets.Handle[*geometry.Mesh]

type MaterialHandle = assets.Handle[*loaders.Material]

// SceneInstance records the collection spawned under an entity.
type SceneInstance struct {
	ID   uuid.UUID
	Path string
}

var (
	MeshHandleComponent     = donburi.NewComponentType[MeshHandle]()
	MaterialHandleComponent = donburi.NewComponentType[MaterialHandle]()
	SceneInstanceComponent  = donburi.NewComponentType[SceneInstance]()
)
