package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/oceansim/internal/catalog"
	"github.com/san-kum/oceansim/internal/dynamo"
)

const (
	DefaultDt       = 1.0 / 60
	DefaultDuration = 30.0
	DefaultFPS      = 60
	DefaultWidth    = 800
	DefaultHeight   = 500
	DefaultSeed     = 1
	DefaultTheme    = "ocean"
)

var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Model    string             `yaml:"model"`
	Seed     uint64             `yaml:"seed"`
	Speed    float64            `yaml:"speed"`
	Width    float64            `yaml:"width"`
	Height   float64            `yaml:"height"`
	FPS      int                `yaml:"fps"`
	Dt       float64            `yaml:"dt"`
	Duration float64            `yaml:"duration"`
	Theme    string             `yaml:"theme"`
	Params   map[string]float64 `yaml:"params,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:    string(dynamo.PlasticDispersal),
		Seed:     DefaultSeed,
		Speed:    1,
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		FPS:      DefaultFPS,
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Theme:    DefaultTheme,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Bounds returns the configured surface size.
func (c *Config) Bounds() dynamo.Bounds {
	return dynamo.Bounds{Width: c.Width, Height: c.Height}
}

// Ticks is the number of dt steps that cover Duration.
func (c *Config) Ticks() int {
	if c.Dt <= 0 {
		return 0
	}
	return int(c.Duration/c.Dt + 0.5)
}

// Validate checks c against the catalog, including every parameter
// override.
func (c *Config) Validate() error {
	m, err := catalog.Default().Get(dynamo.ModelID(c.Model))
	if err != nil {
		return err
	}
	switch {
	case c.Dt <= 0:
		return fmt.Errorf("%w: dt must be positive, got %v", ErrInvalidConfig, c.Dt)
	case c.Duration < 0:
		return fmt.Errorf("%w: duration must not be negative, got %v", ErrInvalidConfig, c.Duration)
	case c.Speed < 0.25 || c.Speed > 4:
		return fmt.Errorf("%w: speed %v outside [0.25, 4]", ErrInvalidConfig, c.Speed)
	case !c.Bounds().Valid():
		return fmt.Errorf("%w: surface %vx%v", ErrInvalidConfig, c.Width, c.Height)
	case c.FPS <= 0:
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalidConfig, c.FPS)
	}
	if _, err := m.Defaults().WithValues(c.Params); err != nil {
		return err
	}
	return nil
}

// Apply merges a preset into c: the preset's model and parameters win,
// everything else keeps its current value.
func (c *Config) Apply(p *Config) {
	if p == nil {
		return
	}
	if p.Model != "" {
		c.Model = p.Model
	}
	if p.Duration > 0 {
		c.Duration = p.Duration
	}
	if p.Speed > 0 {
		c.Speed = p.Speed
	}
	if len(p.Params) > 0 {
		merged := make(map[string]float64, len(c.Params)+len(p.Params))
		for k, v := range c.Params {
			merged[k] = v
		}
		for k, v := range p.Params {
			merged[k] = v
		}
		c.Params = merged
	}
}
