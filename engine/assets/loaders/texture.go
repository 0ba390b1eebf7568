package loaders

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/sdfgeoff/blender-bevy-toolkit/engine/assets"
)

// Texture is a decoded image referenced by materials.
type Texture struct {
	Image  image.Image
	Format string
}

func (t *Texture) Width() int {
	return t.Image.Bounds().Dx()
}

func (t *Texture) Height() int {
	return t.Image.Bounds().Dy()
}

type TextureLoader struct{}

func (tl *TextureLoader) Load(_ *assets.LoadContext, data []byte) (interface{}, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &Texture{Image: img, Format: format}, nil
}

func (tl *TextureLoader) Extensions() []string {
	return []string{".png", ".jpg", ".jpeg", ".bmp", ".tiff", ".tif", ".webp"}
}
