// Package shell holds what the graphical and terminal viewers share: command
// line flags, config assembly and the regenerate action.
package shell

import (
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/olivierh59500/collision-go/collision"
)

// Viewer limits and defaults
const (
	MinCount = 3
	MaxCount = 60

	// Per-particle radius is MinRadius + RadiusSpread*U
	MinRadius    = 0.02
	RadiusSpread = 0.03

	DefaultSnapshotPath = "snapshot.json"
)

// ErrCountRange rejects a -n outside [MinCount, MaxCount].
var ErrCountRange = errors.New("particle count must be in [3, 60]")

// Options are the flags both viewers accept.
type Options struct {
	Count        int
	ConfigPath   string
	Seed         int64
	Dt           float64
	Force        string
	Strength     float64
	SnapshotPath string
}

// Register binds the options to fs.
func (o *Options) Register(fs *flag.FlagSet) {
	fs.IntVar(&o.Count, "n", collision.DefaultCount, fmt.Sprintf("number of particles [%d, %d]", MinCount, MaxCount))
	fs.StringVar(&o.ConfigPath, "config", "", "JSON config file (overrides -n, -dt, -force)")
	fs.Int64Var(&o.Seed, "seed", 0, "random seed, 0 for clock")
	fs.Float64Var(&o.Dt, "dt", collision.DefaultDt, "time step")
	fs.StringVar(&o.Force, "force", collision.ForceNone, "force hook: none, gravity, flow, nbody")
	fs.Float64Var(&o.Strength, "strength", 0.1, "force strength")
	fs.StringVar(&o.SnapshotPath, "snapshot", DefaultSnapshotPath, "snapshot file for save/load")
}

// Build assembles the simulation config. Without a config file the radii are
// drawn at random from the seed.
func (o *Options) Build() (collision.Config, error) {
	if o.ConfigPath != "" {
		cfg, err := collision.LoadConfig(o.ConfigPath)
		if err != nil {
			return cfg, err
		}
		if o.Seed != 0 {
			cfg.Seed = o.Seed
		}
		return cfg, nil
	}

	if o.Count < MinCount || o.Count > MaxCount {
		return collision.Config{}, fmt.Errorf("-n %d: %w", o.Count, ErrCountRange)
	}
	cfg := Regenerate(collision.Config{
		Dt:    o.Dt,
		Force: collision.ForceConfig{Kind: o.Force, Strength: o.Strength},
	}, o.Count, o.Seed)
	return cfg, cfg.Validate()
}

// RandomRadii draws n radii in [MinRadius, MinRadius+RadiusSpread).
func RandomRadii(rng *rand.Rand, n int) []float64 {
	radii := make([]float64, n)
	for i := range radii {
		radii[i] = MinRadius + RadiusSpread*rng.Float64()
	}
	return radii
}

// Regenerate returns cfg with count particles and fresh radii drawn from
// seed. A zero seed is replaced by the clock; the result carries the seed used.
func Regenerate(cfg collision.Config, count int, seed int64) collision.Config {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	cfg.Count = count
	cfg.Seed = seed
	cfg.Radius = 0
	cfg.Radii = RandomRadii(rand.New(rand.NewSource(seed)), count)
	return cfg
}

// ClampCount keeps n inside the viewer limits.
func ClampCount(n int) int {
	return max(MinCount, min(MaxCount, n))
}

// Session is one running simulation and the config that built it.
type Session struct {
	Config collision.Config
	Sim    *collision.Simulation
}

// NewSession builds the simulation for cfg. The session config records the
// seed actually used.
func NewSession(cfg collision.Config) (*Session, error) {
	sim, err := collision.New(cfg)
	if err != nil {
		return nil, err
	}
	cfg.Seed = sim.Seed()
	return &Session{Config: cfg, Sim: sim}, nil
}

// Resize rebuilds with count particles and a new seed. On failure the
// current simulation is kept.
func (s *Session) Resize(count int) error {
	cfg := Regenerate(s.Config, ClampCount(count), 0)
	sim, err := collision.New(cfg)
	if err != nil {
		return err
	}
	s.Config, s.Sim = cfg, sim
	return nil
}

// Save writes the current state to path.
func (s *Session) Save(path string) error {
	return collision.SaveSnapshot(path, s.Sim.Snapshot())
}

// Load replaces the simulation with one restored from path, keeping the
// configured force hook.
func (s *Session) Load(path string) error {
	snap, err := collision.LoadSnapshot(path)
	if err != nil {
		return err
	}
	force, err := s.Config.BuildForce()
	if err != nil {
		return err
	}
	sim, err := collision.Restore(snap, collision.WithForce(force))
	if err != nil {
		return err
	}
	s.Sim = sim
	return nil
}
