package loaders

import (
	"bytes"
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/sdfgeoff/blender-bevy-toolkit/engine/assets"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/math"
)

// Lower bound the shading model applies to perceptual roughness.
const MinPerceptualRoughness float32 = 0.089

type AlphaMode uint8

const (
	AlphaOpaque AlphaMode = iota
	AlphaMask
	AlphaBlend
)

func (a AlphaMode) String() string {
	switch a {
	case AlphaOpaque:
		return "opaque"
	case AlphaMask:
		return "mask"
	case AlphaBlend:
		return "blend"
	default:
		return fmt.Sprintf("AlphaMode(%d)", uint8(a))
	}
}

// Material is a physically based surface description. Texture handles are
// zero when the material has no such map.
type Material struct {
	BaseColor           math.Vec4
	Emissive            math.Vec4
	PerceptualRoughness float32
	Metallic            float32
	Reflectance         float32
	DoubleSided         bool
	Unlit               bool
	AlphaMode           AlphaMode
	// AlphaCutoff only applies to AlphaMask.
	AlphaCutoff float32

	BaseColorTexture         assets.Handle[*Texture]
	EmissiveTexture          assets.Handle[*Texture]
	MetallicRoughnessTexture assets.Handle[*Texture]
	NormalMapTexture         assets.Handle[*Texture]
	OcclusionTexture         assets.Handle[*Texture]
}

func DefaultMaterial() *Material {
	return &Material{
		BaseColor:           math.Vec4{1, 1, 1, 1},
		Emissive:            math.Vec4{0, 0, 0, 1},
		PerceptualRoughness: MinPerceptualRoughness,
		Metallic:            0.01,
		Reflectance:         0.5,
		AlphaMode:           AlphaOpaque,
		AlphaCutoff:         0.5,
	}
}

// materialFile is the on-disk layout. Pointers distinguish absent keys from
// zero values.
type materialFile struct {
	BaseColor                []float32 `toml:"base_color"`
	BaseColorTexture         string    `toml:"base_color_texture"`
	Emissive                 []float32 `toml:"emissive"`
	EmissiveTexture          string    `toml:"emissive_texture"`
	PerceptualRoughness      *float32  `toml:"perceptual_roughness"`
	Metallic                 *float32  `toml:"metallic"`
	MetallicRoughnessTexture string    `toml:"metallic_roughness_texture"`
	Reflectance              *float32  `toml:"reflectance"`
	NormalMapTexture         string    `toml:"normal_map_texture"`
	OcclusionTexture         string    `toml:"occlusion_texture"`
	DoubleSided              bool      `toml:"double_sided"`
	Unlit                    bool      `toml:"unlit"`
	AlphaMode                string    `toml:"alpha_mode"`
	AlphaCutoff              *float32  `toml:"alpha_cutoff"`
}

type MaterialLoader struct{}

func (ml *MaterialLoader) Load(ctx *assets.LoadContext, data []byte) (interface{}, error) {
	var raw materialFile
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if err := validateMaterial(&raw); err != nil {
		return nil, err
	}

	material := DefaultMaterial()
	if raw.BaseColor != nil {
		material.BaseColor = math.Vec4(*(*[4]float32)(raw.BaseColor))
	}
	if raw.Emissive != nil {
		material.Emissive = math.Vec4(*(*[4]float32)(raw.Emissive))
	}
	if raw.PerceptualRoughness != nil {
		material.PerceptualRoughness = math.Clamp(*raw.PerceptualRoughness, MinPerceptualRoughness, 1)
	}
	if raw.Metallic != nil {
		material.Metallic = *raw.Metallic
	}
	if raw.Reflectance != nil {
		material.Reflectance = *raw.Reflectance
	}
	material.DoubleSided = raw.DoubleSided
	material.Unlit = raw.Unlit
	material.AlphaMode, _ = parseAlphaMode(raw.AlphaMode)
	if raw.AlphaCutoff != nil {
		material.AlphaCutoff = *raw.AlphaCutoff
	}

	// Each texture is its own asset; a change to one reloads this material.
	textures := []struct {
		path string
		dst  *assets.Handle[*Texture]
	}{
		{raw.BaseColorTexture, &material.BaseColorTexture},
		{raw.EmissiveTexture, &material.EmissiveTexture},
		{raw.MetallicRoughnessTexture, &material.MetallicRoughnessTexture},
		{raw.NormalMapTexture, &material.NormalMapTexture},
		{raw.OcclusionTexture, &material.OcclusionTexture},
	}
	for _, tex := range textures {
		if tex.path != "" {
			*tex.dst = assets.LoadDependency[*Texture](ctx, tex.path)
		}
	}
	return material, nil
}

func (ml *MaterialLoader) Extensions() []string {
	return []string{".material"}
}

func parseAlphaMode(s string) (AlphaMode, error) {
	switch s {
	case "", "opaque":
		return AlphaOpaque, nil
	case "mask":
		return AlphaMask, nil
	case "blend":
		return AlphaBlend, nil
	default:
		return AlphaOpaque, fmt.Errorf("invalid alpha_mode '%s', expected opaque, mask or blend", s)
	}
}

func validateMaterial(material *materialFile) error {
	if material.BaseColor != nil {
		if len(material.BaseColor) != 4 {
			return fmt.Errorf("invalid base_color, expected 4 values, have %d", len(material.BaseColor))
		}
		if !isValidColour(material.BaseColor) {
			return fmt.Errorf("base_color values must be between 0.0 and 1.0")
		}
	}

	// Emissive may exceed 1.0 for HDR output.
	if material.Emissive != nil && len(material.Emissive) != 4 {
		return fmt.Errorf("invalid emissive, expected 4 values, have %d", len(material.Emissive))
	}

	if material.Metallic != nil && !inRange(*material.Metallic) {
		return fmt.Errorf("metallic must be between 0.0 and 1.0")
	}

	if material.Reflectance != nil && !inRange(*material.Reflectance) {
		return fmt.Errorf("reflectance must be between 0.0 and 1.0")
	}

	if material.PerceptualRoughness != nil && *material.PerceptualRoughness < 0 {
		return fmt.Errorf("perceptual_roughness must be a non-negative value")
	}

	if _, err := parseAlphaMode(material.AlphaMode); err != nil {
		return err
	}

	if material.AlphaCutoff != nil && !inRange(*material.AlphaCutoff) {
		return fmt.Errorf("alpha_cutoff must be between 0.0 and 1.0")
	}

	return nil
}

func isValidColour(v []float32) bool {
	for _, c := range v {
		if !inRange(c) {
			return false
		}
	}
	return true
}

// Check if a float32 value is within [0.0, 1.0]
func inRange(value float32) bool {
	return value >= 0.0 && value <= 1.0
}
