package collision

import (
	"math"

	"github.com/aquilax/go-perlin"
	"gonum.org/v1/gonum/spatial/barneshut"
	"gonum.org/v1/gonum/spatial/r2"
)

// Force accelerates particles once per tick, after collisions are resolved.
// Implementations change velocities only.
type Force interface {
	Apply(particles []Particle, dt float64) error
}

// ForceFunc adapts a function to Force.
type ForceFunc func(particles []Particle, dt float64) error

func (f ForceFunc) Apply(particles []Particle, dt float64) error { return f(particles, dt) }

type noForce struct{}

func (noForce) Apply([]Particle, float64) error { return nil }

// NoForce is the default hook.
var NoForce Force = noForce{}

// Forces applies each force in order and stops at the first error.
type Forces []Force

func (fs Forces) Apply(particles []Particle, dt float64) error {
	for _, f := range fs {
		if err := f.Apply(particles, dt); err != nil {
			return err
		}
	}
	return nil
}

// UniformField is a constant acceleration, e.g. gravity {0, -g}.
type UniformField struct {
	Accel r2.Vec
}

func (u UniformField) Apply(particles []Particle, dt float64) error {
	dv := r2.Scale(dt, u.Accel)
	for i := range particles {
		particles[i].Vel = r2.Add(particles[i].Vel, dv)
	}
	return nil
}

// Flow field tuning
const (
	DefaultFlowScale = 3.0
	DefaultFlowDrift = 0.2
)

// FlowField pushes each particle along a Perlin noise direction field that
// drifts over time.
type FlowField struct {
	Strength float64 // Acceleration magnitude
	Scale    float64 // Spatial frequency of the noise
	Drift    float64 // Noise time advanced per unit of simulated time
	noise    *perlin.Perlin
	t        float64
}

// NewFlowField creates a flow field with default scale and drift.
func NewFlowField(strength float64, seed int64) *FlowField {
	return &FlowField{
		Strength: strength,
		Scale:    DefaultFlowScale,
		Drift:    DefaultFlowDrift,
		noise:    perlin.NewPerlin(2, 2, 3, seed),
	}
}

// Direction returns the unit field vector at (x, y) for the current time.
func (f *FlowField) Direction(x, y float64) r2.Vec {
	angle := (f.noise.Noise3D(x*f.Scale, y*f.Scale, f.t) + 1) / 2 * 2 * math.Pi
	return r2.Vec{X: math.Cos(angle), Y: math.Sin(angle)}
}

func (f *FlowField) Apply(particles []Particle, dt float64) error {
	for i := range particles {
		p := &particles[i]
		p.Vel = r2.Add(p.Vel, r2.Scale(f.Strength*dt, f.Direction(p.Pos.X, p.Pos.Y)))
	}
	f.t += f.Drift * dt
	return nil
}

// Mutual gravity tuning
const (
	DefaultTheta     = 0.0
	DefaultSoftening = 0.01
)

// MutualGravity attracts every particle to every other. Theta 0 sums all
// pairs exactly; a positive Theta uses the Barnes-Hut approximation. Mass is
// radius squared, as in collisions.
type MutualGravity struct {
	G         float64
	Theta     float64 // Barnes-Hut opening angle; 0 is exact
	Softening float64 // Added to distance to bound close-range forces
}

// NewMutualGravity returns an exact gravity force with default softening.
func NewMutualGravity(g float64) *MutualGravity {
	return &MutualGravity{G: g, Theta: DefaultTheta, Softening: DefaultSoftening}
}

// body exposes a particle to barneshut with unit mass. The plane divides a
// leaf's center by its mass, so only unit masses keep centers in place; the
// real masses are applied in the force function.
type body struct {
	p *Particle
}

func (b body) Coord2() r2.Vec { return b.p.Pos }
func (b body) Mass() float64  { return 1 }

func (g *MutualGravity) Apply(particles []Particle, dt float64) error {
	if len(particles) < 2 {
		return nil
	}
	bodies := make([]barneshut.Particle2, len(particles))
	total := 0.0
	for i := range particles {
		bodies[i] = body{&particles[i]}
		total += particles[i].Mass()
	}
	plane, err := barneshut.NewPlane(bodies)
	if err != nil {
		return err
	}

	// An aggregate tile reports its body count as mass; it is weighted by
	// the mean particle mass.
	mean := total / float64(len(particles))
	eps2 := g.Softening * g.Softening
	softened := func(p1, p2 barneshut.Particle2, _, count float64, v r2.Vec) r2.Vec {
		d2 := r2.Norm2(v) + eps2
		if d2 == 0 {
			return r2.Vec{}
		}
		m2 := count * mean
		if b, ok := p2.(body); ok {
			m2 = b.p.Mass()
		}
		m1 := p1.(body).p.Mass()
		return r2.Scale(m1*m2/(d2*math.Sqrt(d2)), v)
	}

	// Forces are computed against the unchanged positions, then applied.
	accel := make([]r2.Vec, len(particles))
	for i, b := range bodies {
		f := plane.ForceOn(b, g.Theta, softened)
		accel[i] = r2.Scale(g.G/particles[i].Mass(), f)
	}
	for i := range particles {
		particles[i].Vel = r2.Add(particles[i].Vel, r2.Scale(dt, accel[i]))
	}
	return nil
}
