package collision

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Particle is a hard circle in the unit square.
// Mass is not stored; it is always radius squared.
type Particle struct {
	Pos    r2.Vec // Center
	Vel    r2.Vec // Velocity per unit time
	radius float64
}

// NewParticle creates a particle at (x, y) moving with (vx, vy).
func NewParticle(x, y, vx, vy, radius float64) Particle {
	return Particle{
		Pos:    r2.Vec{X: x, Y: y},
		Vel:    r2.Vec{X: vx, Y: vy},
		radius: radius,
	}
}

func (p *Particle) Radius() float64 { return p.radius }

// Mass uses an area-proportional model.
func (p *Particle) Mass() float64 { return p.radius * p.radius }

func (p *Particle) X() float64  { return p.Pos.X }
func (p *Particle) Y() float64  { return p.Pos.Y }
func (p *Particle) VX() float64 { return p.Vel.X }
func (p *Particle) VY() float64 { return p.Vel.Y }

// Overlaps reports whether the circles intersect. Touching circles do not overlap.
func (p *Particle) Overlaps(other *Particle) bool {
	return r2.Norm(r2.Sub(p.Pos, other.Pos)) < p.radius+other.radius
}

// Advance moves the particle along its velocity for dt.
func (p *Particle) Advance(dt float64) {
	p.Pos = r2.Add(p.Pos, r2.Scale(dt, p.Vel))
}

// KineticEnergy returns 0.5*m*|v|^2.
func (p *Particle) KineticEnergy() float64 {
	return 0.5 * p.Mass() * r2.Norm2(p.Vel)
}

// Momentum returns m*v.
func (p *Particle) Momentum() r2.Vec {
	return r2.Scale(p.Mass(), p.Vel)
}
