package scene

// Material is the shading description attached to a primitive. Primitives
// refer to materials by name when persisted.
type Material struct {
	Name            string `yaml:"name" json:"name"`
	LightingEnabled bool   `yaml:"lighting_enabled" json:"lighting_enabled"`
}

// MaterialLookup resolves a persisted material reference.
type MaterialLookup func(name string) (*Material, error)
