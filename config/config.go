// Package config loads render settings from JSON files and parses loose
// user-typed numeric input.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gmlewis/fractal-renderer/march"
	"github.com/go-gl/mathgl/mgl32"
)

// Defaults used for zero-valued fields.
const (
	DefaultWidth       = 400
	DefaultHeight      = 300
	DefaultMaxSteps    = 100
	DefaultMinDistance = 1e-4
	DefaultScene       = "lattice"
	DefaultShading     = "blinn-phong"
)

// LightCfg is the JSON form of march.Light.
type LightCfg struct {
	Position      mgl32.Vec3 `json:"position"`
	DiffuseColor  mgl32.Vec3 `json:"diffuseColor"`
	DiffusePower  float32    `json:"diffusePower"`
	SpecularColor mgl32.Vec3 `json:"specularColor"`
	SpecularPower float32    `json:"specularPower"`
}

// Config is a complete render description.
type Config struct {
	Width           uint32     `json:"width"`
	Height          uint32     `json:"height"`
	CameraPosition  mgl32.Vec3 `json:"cameraPosition"`
	CameraDirection mgl32.Vec3 `json:"cameraDirection"`
	MaxSteps        int        `json:"maxSteps,omitempty"`
	MinDistance     float32    `json:"minDistance,omitempty"`
	MaxDistance     float32    `json:"maxDistance,omitempty"`
	Scene           string     `json:"scene,omitempty"`
	Shading         string     `json:"shading,omitempty"`
	PointLight      *LightCfg  `json:"light,omitempty"`
}

// Default returns the configuration used when no file is given: the
// camera sits at z=3 looking down -Z into the sphere lattice.
func Default() *Config {
	return &Config{
		Width:           DefaultWidth,
		Height:          DefaultHeight,
		CameraPosition:  mgl32.Vec3{0, 0, 3},
		CameraDirection: mgl32.Vec3{0, 0, -1},
		MaxSteps:        DefaultMaxSteps,
		MinDistance:     DefaultMinDistance,
		Scene:           DefaultScene,
		Shading:         DefaultShading,
	}
}

// Load reads a JSON config from path, fills in defaults and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) fillDefaults() {
	if c.Width == 0 {
		c.Width = DefaultWidth
	}
	if c.Height == 0 {
		c.Height = DefaultHeight
	}
	if c.MaxSteps <= 0 {
		c.MaxSteps = DefaultMaxSteps
	}
	if c.MinDistance <= 0 {
		c.MinDistance = DefaultMinDistance
	}
	if c.Scene == "" {
		c.Scene = DefaultScene
	}
	if c.Shading == "" {
		c.Shading = DefaultShading
	}
}

// Validate checks the render parameters and the scene and shading names.
func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if _, err := march.SceneByName(c.Scene); err != nil {
		return err
	}
	if _, err := march.ShaderByName(c.Shading, c.Light()); err != nil {
		return err
	}
	return nil
}

// Params returns the render parameters described by c.
func (c *Config) Params() march.ImageParameters {
	return march.ImageParameters{
		Width:           c.Width,
		Height:          c.Height,
		CameraPosition:  c.CameraPosition,
		CameraDirection: c.CameraDirection,
		MaxSteps:        c.MaxSteps,
		MinDistance:     c.MinDistance,
		MaxDistance:     c.MaxDistance,
	}
}

// Light returns the configured light, or march.DefaultLight if none is set.
func (c *Config) Light() march.Light {
	if c.PointLight == nil {
		return march.DefaultLight
	}
	return march.Light{
		Position:      c.PointLight.Position,
		DiffuseColor:  c.PointLight.DiffuseColor,
		DiffusePower:  c.PointLight.DiffusePower,
		SpecularColor: c.PointLight.SpecularColor,
		SpecularPower: c.PointLight.SpecularPower,
	}
}

// SceneAndShader resolves the named scene and shader.
func (c *Config) SceneAndShader() (march.Scene, march.Shader, error) {
	scene, err := march.SceneByName(c.Scene)
	if err != nil {
		return nil, nil, err
	}
	shader, err := march.ShaderByName(c.Shading, c.Light())
	if err != nil {
		return nil, nil, err
	}
	return scene, shader, nil
}

// ParseFloat parses s as a float32, returning prev if s is not a number.
func ParseFloat(s string, prev float32) float32 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	if err != nil {
		return prev
	}
	return float32(v)
}

// ParseUint parses s as a uint32, returning prev on failure.
func ParseUint(s string, prev uint32) uint32 {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return prev
	}
	return uint32(v)
}

// ParseInt parses s as an int, returning prev on failure.
func ParseInt(s string, prev int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return prev
	}
	return v
}

// ParseVec3 parses three components independently; each one that fails
// keeps its value from prev.
func ParseVec3(x, y, z string, prev mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		ParseFloat(x, prev[0]),
		ParseFloat(y, prev[1]),
		ParseFloat(z, prev[2]),
	}
}

// ParseVec3String parses a comma-separated "x,y,z" triple. Missing or
// malformed components keep their value from prev.
func ParseVec3String(s string, prev mgl32.Vec3) mgl32.Vec3 {
	parts := strings.SplitN(s, ",", 3)
	for len(parts) < 3 {
		parts = append(parts, "")
	}
	return ParseVec3(parts[0], parts[1], parts[2], prev)
}
