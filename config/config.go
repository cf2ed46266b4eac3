package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

var (
	ErrMissingKey   = errors.New("config: missing required key")
	ErrInvalidValue = errors.New("config: invalid value")
)

// Quality selects the post-process kernel presets.
type Quality string

const (
	QualityLow    Quality = "low"
	QualityMedium Quality = "medium"
	QualityHigh   Quality = "high"
)

// Config is the parsed settings file.
type Config struct {
	Engine  EngineConfig  `toml:"engine"`
	Physics PhysicsConfig `toml:"physics"`
	Water   WaterConfig   `toml:"water"`
}

type EngineConfig struct {
	Title           string  `toml:"title"`
	MaxFPS          float64 `toml:"max_fps"`
	ForcedWidth     int     `toml:"forced_width"`
	ForcedHeight    int     `toml:"forced_height"`
	Fullscreen      bool    `toml:"fullscreen"`
	MasterVolume    float64 `toml:"master_volume"`
	HardwareScaling bool    `toml:"hardware_scaling"`
	GraphicsQuality Quality `toml:"graphics_quality"`
}

type PhysicsConfig struct {
	GravityY           float64 `toml:"gravity_y"`
	Iterations         int     `toml:"iterations"`
	SleepTimeThreshold float64 `toml:"sleep_time_threshold"`
	StepHz             float64 `toml:"step_hz"`
}

type WaterConfig struct {
	MaxParticles   int     `toml:"max_particles"`
	ParticleRadius float64 `toml:"particle_radius"`
	SpawnPerFrame  int     `toml:"spawn_per_frame"`
}

// TPS is the tick rate handed to ebiten. Validate guarantees it is at
// least 1.
func (e EngineConfig) TPS() int {
	return int(math.Round(e.MaxFPS))
}

// Forced reports whether the window size is pinned by the settings file.
func (e EngineConfig) Forced() bool {
	return e.ForcedWidth > 0 && e.ForcedHeight > 0
}

// Default returns a config with every optional key at its default.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			MasterVolume:    1,
			HardwareScaling: true,
			GraphicsQuality: QualityHigh,
		},
		Physics: PhysicsConfig{
			GravityY:           20,
			Iterations:         10,
			SleepTimeThreshold: 3,
			StepHz:             60,
		},
		Water: WaterConfig{
			MaxParticles:   5000,
			ParticleRadius: 0.7,
			SpawnPerFrame:  6,
		},
	}
}

// Loader reads settings files from a filesystem.
type Loader struct {
	fsys fs.FS
}

func NewLoader(dir string) *Loader {
	return &Loader{fsys: os.DirFS(dir)}
}

func NewFSLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// Load reads and validates the named settings file.
func (l *Loader) Load(name string) (*Config, error) {
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", name, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", name, err)
	}
	return cfg, nil
}

// Parse decodes TOML settings on top of Default and validates the result.
func Parse(data []byte) (*Config, error) {
	var present map[string]map[string]any
	if err := toml.Unmarshal(data, &present); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	for _, key := range []string{"title", "max_fps"} {
		if _, ok := present["engine"][key]; !ok {
			return nil, fmt.Errorf("%w: engine.%s", ErrMissingKey, key)
		}
	}

	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	e := c.Engine
	switch {
	case strings.TrimSpace(e.Title) == "":
		return fmt.Errorf("%w: engine.title is empty", ErrInvalidValue)
	case e.MaxFPS < 1:
		return fmt.Errorf("%w: engine.max_fps must be at least 1, got %v", ErrInvalidValue, e.MaxFPS)
	case (e.ForcedWidth > 0) != (e.ForcedHeight > 0):
		return fmt.Errorf("%w: engine.forced_width and engine.forced_height must be set together", ErrInvalidValue)
	case e.ForcedWidth < 0 || e.ForcedHeight < 0:
		return fmt.Errorf("%w: forced size must not be negative", ErrInvalidValue)
	case e.MasterVolume < 0 || e.MasterVolume > 1:
		return fmt.Errorf("%w: engine.master_volume must be in [0, 1], got %v", ErrInvalidValue, e.MasterVolume)
	}
	switch e.GraphicsQuality {
	case QualityLow, QualityMedium, QualityHigh:
	default:
		return fmt.Errorf("%w: engine.graphics_quality %q", ErrInvalidValue, e.GraphicsQuality)
	}

	p := c.Physics
	if p.Iterations <= 0 || p.StepHz <= 0 || p.SleepTimeThreshold < 0 {
		return fmt.Errorf("%w: physics iterations and step_hz must be positive", ErrInvalidValue)
	}

	w := c.Water
	if w.MaxParticles <= 0 || w.ParticleRadius <= 0 || w.SpawnPerFrame < 0 {
		return fmt.Errorf("%w: water limits must be positive", ErrInvalidValue)
	}
	return nil
}
