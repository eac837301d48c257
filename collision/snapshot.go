package collision

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// State is the read-only view of one particle.
type State struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	Radius float64 `json:"radius"`
}

// Snapshot is a copy of the simulation taken between ticks.
type Snapshot struct {
	Dt        float64 `json:"dt"`
	Tick      uint64  `json:"tick"`
	Particles []State `json:"particles"`
}

// Snapshot copies the current state.
func (s *Simulation) Snapshot() Snapshot {
	states := make([]State, len(s.particles))
	for i := range s.particles {
		p := &s.particles[i]
		states[i] = State{X: p.X(), Y: p.Y(), VX: p.VX(), VY: p.VY(), Radius: p.Radius()}
	}
	return Snapshot{Dt: s.dt, Tick: s.stats.Ticks, Particles: states}
}

// Restore rebuilds a simulation from a snapshot. Every center must lie in the
// unit square. Centers closer than their radius to a wall are clamped by the
// next tick, and overlap is not re-checked.
// WithRand has no effect; WithForce sets the force hook (default NoForce).
func Restore(snap Snapshot, opts ...Option) (*Simulation, error) {
	if len(snap.Particles) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, ErrInvalidCount)
	}
	if !validTimeStep(snap.Dt) {
		return nil, fmt.Errorf("%w: dt %g: %w", ErrInvalidSnapshot, snap.Dt, ErrInvalidTimeStep)
	}

	particles := make([]Particle, len(snap.Particles))
	for i, st := range snap.Particles {
		if !validRadius(st.Radius) {
			return nil, fmt.Errorf("%w: particle %d radius %g: %w", ErrInvalidSnapshot, i, st.Radius, ErrInvalidRadius)
		}
		if !finite(st.X, st.Y, st.VX, st.VY) {
			return nil, fmt.Errorf("%w: particle %d has non-finite state", ErrInvalidSnapshot, i)
		}
		if st.X < 0 || st.X > 1 || st.Y < 0 || st.Y > 1 {
			return nil, fmt.Errorf("%w: particle %d center (%g, %g) outside the unit square", ErrInvalidSnapshot, i, st.X, st.Y)
		}
		particles[i] = NewParticle(st.X, st.Y, st.VX, st.VY, st.Radius)
	}

	o := options{force: NoForce}
	for _, opt := range opts {
		opt(&o)
	}
	if o.force == nil {
		o.force = NoForce
	}

	return &Simulation{
		particles: particles,
		dt:        snap.Dt,
		force:     o.force,
		stats:     Stats{Ticks: snap.Tick},
	}, nil
}

// SaveSnapshot writes snap as JSON.
func SaveSnapshot(path string, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadSnapshot reads a snapshot written by SaveSnapshot.
func LoadSnapshot(path string) (Snapshot, error) {
	var snap Snapshot
	data, err := os.ReadFile(path)
	if err != nil {
		return snap, fmt.Errorf("read snapshot: %w", err)
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("parse snapshot: %w", err)
	}
	return snap, nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
