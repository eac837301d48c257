package collision

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/spatial/r2"
)

// Defaults match the reference application.
const (
	DefaultCount  = 20
	DefaultRadius = 0.01
	DefaultDt     = 0.01
)

// Force kinds accepted in ForceConfig.Kind.
const (
	ForceNone    = "none"
	ForceGravity = "gravity"
	ForceFlow    = "flow"
	ForceNBody   = "nbody"
)

// Config describes a simulation run.
type Config struct {
	Count       int         `json:"count"`
	Radius      float64     `json:"radius,omitempty"` // Used for every particle when Radii is nil
	Radii       []float64   `json:"radii,omitempty"`  // One per particle
	Dt          float64     `json:"dt"`
	Seed        int64       `json:"seed"` // 0 seeds from the clock
	MaxAttempts int         `json:"max_attempts,omitempty"`
	Force       ForceConfig `json:"force"`
}

// ForceConfig selects the per-tick force hook.
type ForceConfig struct {
	Kind     string  `json:"kind"`
	Strength float64 `json:"strength,omitempty"`
}

// DefaultConfig returns the reference configuration with no force.
func DefaultConfig() Config {
	return Config{
		Count:  DefaultCount,
		Radius: DefaultRadius,
		Dt:     DefaultDt,
		Force:  ForceConfig{Kind: ForceNone},
	}
}

// ParticleRadii returns one radius per particle.
func (c Config) ParticleRadii() []float64 {
	if c.Radii != nil {
		return c.Radii
	}
	return Broadcast(c.Count, c.Radius)
}

// Validate checks the configuration without placing particles.
func (c Config) Validate() error {
	if c.Count < 1 {
		return fmt.Errorf("count %d: %w", c.Count, ErrInvalidCount)
	}
	if c.Radii != nil && len(c.Radii) != c.Count {
		return fmt.Errorf("%d radii for %d particles: %w", len(c.Radii), c.Count, ErrRadiiMismatch)
	}
	for i, r := range c.ParticleRadii() {
		if !validRadius(r) {
			return fmt.Errorf("particle %d radius %g: %w", i, r, ErrInvalidRadius)
		}
	}
	if !validTimeStep(c.Dt) {
		return fmt.Errorf("dt %g: %w", c.Dt, ErrInvalidTimeStep)
	}
	switch c.Force.Kind {
	case "", ForceNone, ForceGravity, ForceFlow, ForceNBody:
	default:
		return fmt.Errorf("%q: %w", c.Force.Kind, ErrUnknownForce)
	}
	return nil
}

// BuildForce creates the force hook named by c.Force.
func (c Config) BuildForce() (Force, error) {
	switch c.Force.Kind {
	case "", ForceNone:
		return NoForce, nil
	case ForceGravity:
		return UniformField{Accel: r2.Vec{Y: -c.Force.Strength}}, nil
	case ForceFlow:
		return NewFlowField(c.Force.Strength, c.Seed), nil
	case ForceNBody:
		return NewMutualGravity(c.Force.Strength), nil
	}
	return nil, fmt.Errorf("%q: %w", c.Force.Kind, ErrUnknownForce)
}

// LoadConfig reads a JSON config. Missing fields keep DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, cfg.Validate()
}

// SaveConfig writes cfg as indented JSON.
func SaveConfig(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func validRadius(r float64) bool {
	return r > 0 && r < 0.5
}

func validTimeStep(dt float64) bool {
	return dt > 0 && !math.IsInf(dt, 1)
}
