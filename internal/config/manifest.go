package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/inochi2d/inochi2d-go"
)

// ErrInvalidManifest is returned for manifests that parse but make no sense.
var ErrInvalidManifest = errors.New("config: invalid manifest")

// Manifest describes a scene: viewport, camera and the puppets to load.
//
//	viewport:
//	  width: 800
//	  height: 800
//	camera:
//	  zoom: 0.15
//	  x: 0
//	  y: 0
//	puppets:
//	  - models/Aka.inx
type Manifest struct {
	Viewport *ViewportConfig `yaml:"viewport,omitempty"`
	Camera   CameraConfig    `yaml:"camera,omitempty"`
	Puppets  []string        `yaml:"puppets,omitempty"`
}

// ViewportConfig is the initial viewport size.
type ViewportConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// CameraConfig holds optional camera overrides. Unset fields keep the
// native camera's values.
type CameraConfig struct {
	Zoom *float32 `yaml:"zoom,omitempty"`
	X    *float32 `yaml:"x,omitempty"`
	Y    *float32 `yaml:"y,omitempty"`
}

// LoadManifest reads a manifest file. Relative puppet paths are resolved
// against the manifest's directory.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	m, err := ParseManifest(data)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	for i, p := range m.Puppets {
		if !filepath.IsAbs(p) {
			m.Puppets[i] = filepath.Join(dir, p)
		}
	}
	return m, nil
}

// ParseManifest decodes and validates manifest YAML. Puppet paths are
// returned as written.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	if v := m.Viewport; v != nil && (v.Width <= 0 || v.Height <= 0) {
		return nil, fmt.Errorf("%w: viewport %dx%d", ErrInvalidManifest, v.Width, v.Height)
	}
	for i, p := range m.Puppets {
		if p == "" {
			return nil, fmt.Errorf("%w: puppet %d has an empty path", ErrInvalidManifest, i)
		}
	}
	return &m, nil
}

// Apply adds the manifest's viewport and puppets to b.
func (m *Manifest) Apply(b inochi2d.Builder) inochi2d.Builder {
	if m.Viewport != nil {
		b = b.Viewport(m.Viewport.Width, m.Viewport.Height)
	}
	for _, p := range m.Puppets {
		b = b.Puppet(p)
	}
	return b
}

// CameraOptions returns options for the camera fields the manifest sets.
func (m *Manifest) CameraOptions() []inochi2d.CameraOption {
	var opts []inochi2d.CameraOption
	if m.Camera.Zoom != nil {
		opts = append(opts, inochi2d.WithZoom(*m.Camera.Zoom))
	}
	if m.Camera.X != nil {
		opts = append(opts, inochi2d.WithX(*m.Camera.X))
	}
	if m.Camera.Y != nil {
		opts = append(opts, inochi2d.WithY(*m.Camera.Y))
	}
	return opts
}
