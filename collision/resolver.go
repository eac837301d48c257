package collision

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// BounceWalls clamps p inside the unit square and reflects the velocity
// component of each wall it crossed. Both axes are checked, so a corner hit
// flips both components. Reports whether any wall was hit.
func BounceWalls(p *Particle) bool {
	hit := false
	if p.Pos.X-p.radius < 0 {
		p.Pos.X = p.radius
		p.Vel.X = -p.Vel.X
		hit = true
	}
	if p.Pos.X+p.radius > 1 {
		p.Pos.X = 1 - p.radius
		p.Vel.X = -p.Vel.X
		hit = true
	}
	if p.Pos.Y-p.radius < 0 {
		p.Pos.Y = p.radius
		p.Vel.Y = -p.Vel.Y
		hit = true
	}
	if p.Pos.Y+p.radius > 1 {
		p.Pos.Y = 1 - p.radius
		p.Vel.Y = -p.Vel.Y
		hit = true
	}
	return hit
}

// ResolvePair applies the elastic collision law to a and b. Both new
// velocities are computed from the old ones before either is written.
// Returns a SingularityError (indices zero) when the centers coincide;
// velocities are left untouched in that case.
func ResolvePair(a, b *Particle) error {
	m1, m2 := a.Mass(), b.Mass()
	M := m1 + m2

	dr := r2.Sub(a.Pos, b.Pos)
	d := r2.Norm2(dr)
	if d == 0 {
		return &SingularityError{}
	}
	dv := r2.Sub(a.Vel, b.Vel)

	// dot(v2-v1, r2-r1) == dot(v1-v2, r1-r2), so both updates share k
	// and differ only in the sign of the line of centers.
	k := r2.Dot(dv, dr) / d
	u1 := r2.Sub(a.Vel, r2.Scale(2*m2/M*k, dr))
	u2 := r2.Add(b.Vel, r2.Scale(2*m1/M*k, dr))

	a.Vel, b.Vel = u1, u2
	return nil
}

// ResolveCollisions checks every pair i < j against current positions and
// resolves each overlapping pair in index order. Returns the number of
// resolved pairs. Stops at the first singular pair.
func ResolveCollisions(particles []Particle) (int, error) {
	n := 0
	for i := 0; i < len(particles); i++ {
		for j := i + 1; j < len(particles); j++ {
			if !particles[i].Overlaps(&particles[j]) {
				continue
			}
			if err := ResolvePair(&particles[i], &particles[j]); err != nil {
				return n, &SingularityError{I: i, J: j}
			}
			n++
		}
	}
	return n, nil
}
