package collision

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/spatial/r2"
)

// Stats describes the most recent tick.
type Stats struct {
	Ticks           uint64 // Completed ticks
	Collisions      int    // Pairs resolved in the last tick
	WallBounces     int    // Particles that hit a wall in the last tick
	TotalCollisions uint64
}

// Simulation owns a fixed set of particles in the unit square.
//
// It is not safe for concurrent use. Callers sharing a Simulation must
// serialize ticks and reads, or hand readers a Snapshot taken between ticks.
type Simulation struct {
	particles []Particle
	dt        float64
	force     Force
	seed      int64
	stats     Stats
}

type options struct {
	rng   *rand.Rand
	force Force
}

// Option customizes New and Restore.
type Option func(*options)

// WithRand sets the random source used for placement. It overrides Config.Seed.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// WithForce sets the per-tick force hook. It overrides Config.Force.
func WithForce(f Force) Option {
	return func(o *options) { o.force = f }
}

// New validates cfg and places cfg.Count non-overlapping particles.
// On error no simulation is returned.
func New(cfg Config, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// The clock seed is drawn once so placement and the force hook share it.
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(cfg.Seed))
	}
	if o.force == nil {
		f, err := cfg.BuildForce()
		if err != nil {
			return nil, err
		}
		o.force = f
	}

	sampler := NewSampler(o.rng)
	sampler.MaxAttempts = cfg.MaxAttempts
	particles, err := sampler.Place(cfg.ParticleRadii())
	if err != nil {
		return nil, fmt.Errorf("initial placement: %w", err)
	}

	return &Simulation{
		particles: particles,
		dt:        cfg.Dt,
		force:     o.force,
		seed:      cfg.Seed,
	}, nil
}

// Tick advances the simulation by its configured time step.
func (s *Simulation) Tick() error {
	return s.TickDt(s.dt)
}

// TickDt runs one tick with an explicit step:
//  1. advance each particle, then bounce it off the walls
//  2. resolve all overlapping pairs against the updated positions
//  3. apply the force hook
//
// A failed tick is abandoned where it failed and is not counted.
func (s *Simulation) TickDt(dt float64) error {
	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return fmt.Errorf("dt %g: %w", dt, ErrInvalidTimeStep)
	}

	bounces := 0
	for i := range s.particles {
		p := &s.particles[i]
		p.Advance(dt)
		if BounceWalls(p) {
			bounces++
		}
	}

	collisions, err := ResolveCollisions(s.particles)
	if err != nil {
		return fmt.Errorf("tick %d: %w", s.stats.Ticks+1, err)
	}

	if err := s.force.Apply(s.particles, dt); err != nil {
		return fmt.Errorf("tick %d: force: %w", s.stats.Ticks+1, err)
	}

	s.stats.Ticks++
	s.stats.Collisions = collisions
	s.stats.WallBounces = bounces
	s.stats.TotalCollisions += uint64(collisions)
	return nil
}

// Run performs n ticks, stopping at the first error.
func (s *Simulation) Run(n int) error {
	for i := 0; i < n; i++ {
		if err := s.Tick(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulation) Len() int     { return len(s.particles) }
func (s *Simulation) Dt() float64  { return s.dt }
func (s *Simulation) Stats() Stats { return s.stats }

// Seed returns the seed the simulation was built from, with a zero
// Config.Seed resolved to the clock. Restored simulations report 0.
func (s *Simulation) Seed() int64 { return s.seed }

// Particle returns a copy of particle i.
func (s *Simulation) Particle(i int) Particle { return s.particles[i] }

// Particles returns a copy of all particles in order.
func (s *Simulation) Particles() []Particle {
	out := make([]Particle, len(s.particles))
	copy(out, s.particles)
	return out
}

// KineticEnergy sums 0.5*m*|v|^2 over all particles.
func (s *Simulation) KineticEnergy() float64 {
	e := 0.0
	for i := range s.particles {
		e += s.particles[i].KineticEnergy()
	}
	return e
}

// Momentum sums m*v over all particles.
func (s *Simulation) Momentum() r2.Vec {
	var m r2.Vec
	for i := range s.particles {
		m = r2.Add(m, s.particles[i].Momentum())
	}
	return m
}
