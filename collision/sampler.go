package collision

import (
	"fmt"
	"math"
	"math/rand"
)

// Initial speed distribution: MinSpeed + SpeedSpread*sqrt(U).
const (
	MinSpeed    = 0.05
	SpeedSpread = 0.1

	// DefaultMaxAttempts bounds the candidate draws for one particle.
	DefaultMaxAttempts = 100000
)

// Sampler builds non-overlapping initial configurations by rejection sampling.
type Sampler struct {
	Rand        *rand.Rand
	MaxAttempts int // Per particle; <= 0 uses DefaultMaxAttempts
}

// NewSampler returns a sampler drawing from rng.
func NewSampler(rng *rand.Rand) *Sampler {
	return &Sampler{Rand: rng, MaxAttempts: DefaultMaxAttempts}
}

// Broadcast repeats a single radius n times.
func Broadcast(n int, radius float64) []float64 {
	radii := make([]float64, n)
	for i := range radii {
		radii[i] = radius
	}
	return radii
}

// Place returns one particle per radius, in order. Every circle lies inside the
// unit square and no two circles overlap.
func (s *Sampler) Place(radii []float64) ([]Particle, error) {
	limit := s.MaxAttempts
	if limit <= 0 {
		limit = DefaultMaxAttempts
	}

	particles := make([]Particle, 0, len(radii))
	for i, r := range radii {
		placed := false
		for attempt := 0; attempt < limit; attempt++ {
			candidate := s.candidate(r)
			if !overlapsAny(&candidate, particles) {
				particles = append(particles, candidate)
				placed = true
				break
			}
		}
		if !placed {
			return nil, fmt.Errorf("particle %d (radius %g) after %d attempts: %w", i, r, limit, ErrPlacementStalled)
		}
	}
	return particles, nil
}

// candidate draws a center in [r, 1-r]^2 and a random velocity.
func (s *Sampler) candidate(r float64) Particle {
	x := r + (1-2*r)*s.Rand.Float64()
	y := r + (1-2*r)*s.Rand.Float64()

	speed := SpeedSpread*math.Sqrt(s.Rand.Float64()) + MinSpeed
	heading := 2 * math.Pi * s.Rand.Float64()

	return NewParticle(x, y, speed*math.Cos(heading), speed*math.Sin(heading), r)
}

func overlapsAny(p *Particle, accepted []Particle) bool {
	for i := range accepted {
		if accepted[i].Overlaps(p) {
			return true
		}
	}
	return false
}
