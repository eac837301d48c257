package collision

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestNew_ConfigurationErrors(t *testing.T) {
	base := Config{Count: 3, Radius: 0.02, Dt: 0.01, Seed: 1}

	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"zero count", func(c *Config) { c.Count = 0 }, ErrInvalidCount},
		{"negative count", func(c *Config) { c.Count = -4 }, ErrInvalidCount},
		{"radii mismatch", func(c *Config) { c.Radii = []float64{0.01, 0.02} }, ErrRadiiMismatch},
		{"zero radius", func(c *Config) { c.Radius = 0 }, ErrInvalidRadius},
		{"half radius", func(c *Config) { c.Radius = 0.5 }, ErrInvalidRadius},
		{"bad radius in list", func(c *Config) { c.Radii = []float64{0.01, -0.02, 0.01} }, ErrInvalidRadius},
		{"zero dt", func(c *Config) { c.Dt = 0 }, ErrInvalidTimeStep},
		{"nan dt", func(c *Config) { c.Dt = math.NaN() }, ErrInvalidTimeStep},
		{"infinite dt", func(c *Config) { c.Dt = math.Inf(1) }, ErrInvalidTimeStep},
		{"unknown force", func(c *Config) { c.Force.Kind = "magnetism" }, ErrUnknownForce},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.modify(&cfg)

			sim, err := New(cfg)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
			if sim != nil {
				t.Errorf("Expected nil simulation on error")
			}
		})
	}
}

func TestNew_PlacementValid(t *testing.T) {
	radii := randomRadii(rand.New(rand.NewSource(3)), 40)
	sim, err := New(Config{Count: 40, Radii: radii, Dt: 0.01, Seed: 3})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if sim.Len() != 40 {
		t.Errorf("Expected 40 particles, got %d", sim.Len())
	}
	assertValidPlacement(t, sim.Particles())
}

func TestNew_PlacementStalled(t *testing.T) {
	sim, err := New(Config{Count: 3, Radius: 0.45, Dt: 0.01, Seed: 1, MaxAttempts: 20})
	if !errors.Is(err, ErrPlacementStalled) {
		t.Fatalf("Expected ErrPlacementStalled, got %v", err)
	}
	if sim != nil {
		t.Errorf("Expected nil simulation on stall")
	}
}

func TestNew_SameSeedSameState(t *testing.T) {
	cfg := Config{Count: 20, Radius: 0.03, Dt: 0.01, Seed: 99}
	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	b, err := New(cfg, WithRand(rand.New(rand.NewSource(99))))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	pa, pb := a.Particles(), b.Particles()
	for i := range pa {
		if pa[i] != pb[i] {
			t.Errorf("Particle %d differs between equal seeds", i)
		}
	}
}

func TestTick_WallBounceScenario(t *testing.T) {
	sim, err := Restore(Snapshot{Dt: 0.1, Particles: []State{{X: 0.02, Y: 0.5, VX: -0.1, Radius: 0.03}}})
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if err := sim.Tick(); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}

	p := sim.Particle(0)
	if p.X() != 0.03 {
		t.Errorf("Expected x clamped to 0.03, got %g", p.X())
	}
	if p.VX() != 0.1 {
		t.Errorf("Expected vx flipped to 0.1, got %g", p.VX())
	}
	if p.Y() != 0.5 || p.VY() != 0 {
		t.Errorf("Expected y axis untouched, got y=%g vy=%g", p.Y(), p.VY())
	}

	stats := sim.Stats()
	if stats.Ticks != 1 || stats.WallBounces != 1 || stats.Collisions != 0 {
		t.Errorf("Expected 1 tick, 1 bounce, 0 collisions, got %+v", stats)
	}
}

func TestTick_HeadOnScenario(t *testing.T) {
	sim, err := Restore(Snapshot{Dt: 0.01, Particles: []State{
		{X: 0.41, Y: 0.5, VX: 0.1, Radius: 0.05},
		{X: 0.5, Y: 0.5, VX: -0.1, Radius: 0.05},
	}})
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if err := sim.TickDt(0); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}

	a, b := sim.Particle(0), sim.Particle(1)
	if !near(a.VX(), -0.1) || !near(b.VX(), 0.1) {
		t.Errorf("Expected swapped velocities (-0.1, 0.1), got (%g, %g)", a.VX(), b.VX())
	}
	if stats := sim.Stats(); stats.Collisions != 1 || stats.TotalCollisions != 1 {
		t.Errorf("Expected 1 collision, got %+v", stats)
	}
}

func TestTick_ZeroDtIdempotent(t *testing.T) {
	sim, err := New(Config{Count: 25, Radius: 0.03, Dt: 0.01, Seed: 8})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	before := sim.Particles()

	if err := sim.TickDt(0); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}

	after := sim.Particles()
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("Particle %d changed: %+v -> %+v", i, before[i], after[i])
		}
	}
}

func TestTick_ContainmentAndEnergy(t *testing.T) {
	radii := randomRadii(rand.New(rand.NewSource(4)), 30)
	sim, err := New(Config{Count: 30, Radii: radii, Dt: 0.01, Seed: 4})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	energy := sim.KineticEnergy()

	for tick := 0; tick < 500; tick++ {
		if err := sim.Tick(); err != nil {
			t.Fatalf("Tick %d failed: %v", tick, err)
		}
		for i, p := range sim.Particles() {
			r := p.Radius()
			if p.X() < r || p.X() > 1-r || p.Y() < r || p.Y() > 1-r {
				t.Fatalf("Tick %d: particle %d at (%g, %g) outside [%g, %g]", tick, i, p.X(), p.Y(), r, 1-r)
			}
			if p.Mass() != r*r {
				t.Fatalf("Tick %d: particle %d mass %g != radius^2", tick, i, p.Mass())
			}
		}
	}

	if got := sim.KineticEnergy(); math.Abs(got-energy) > 1e-9*energy {
		t.Errorf("Expected kinetic energy %g to be conserved, got %g", energy, got)
	}
	if sim.Stats().Ticks != 500 {
		t.Errorf("Expected 500 ticks, got %d", sim.Stats().Ticks)
	}
}

func TestTick_ForceRunsAfterCollisions(t *testing.T) {
	var seen []float64
	var seenDt float64
	hook := ForceFunc(func(ps []Particle, dt float64) error {
		seen = append(seen, ps[0].VX(), ps[1].VX())
		seenDt = dt
		return nil
	})

	sim, err := Restore(Snapshot{Dt: 0.01, Particles: []State{
		{X: 0.41, Y: 0.5, VX: 0.1, Radius: 0.05},
		{X: 0.5, Y: 0.5, VX: -0.1, Radius: 0.05},
	}}, WithForce(hook))
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if err := sim.Tick(); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if len(seen) != 2 || !near(seen[0], -0.1) || !near(seen[1], 0.1) {
		t.Errorf("Expected force hook to see post-collision velocities, got %v", seen)
	}
	if seenDt != 0.01 {
		t.Errorf("Expected force hook dt 0.01, got %g", seenDt)
	}
}

func TestTick_ForceErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	cfg := Config{Count: 5, Radius: 0.02, Dt: 0.01, Seed: 2}
	sim, err := New(cfg, WithForce(ForceFunc(func([]Particle, float64) error { return boom })))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if err := sim.Tick(); !errors.Is(err, boom) {
		t.Errorf("Expected boom, got %v", err)
	}
	if sim.Stats().Ticks != 0 {
		t.Errorf("Expected failed tick not counted, got %d", sim.Stats().Ticks)
	}
}

func TestTick_CoincidentCentersPropagate(t *testing.T) {
	sim, err := Restore(Snapshot{Dt: 0.01, Particles: []State{
		{X: 0.5, Y: 0.5, VX: 0.1, Radius: 0.02},
		{X: 0.5, Y: 0.5, VX: 0.1, Radius: 0.02},
	}})
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	err = sim.Tick()
	var se *SingularityError
	if !errors.As(err, &se) {
		t.Fatalf("Expected SingularityError, got %v", err)
	}
	if se.I != 0 || se.J != 1 {
		t.Errorf("Expected pair (0, 1), got (%d, %d)", se.I, se.J)
	}
}

func TestTickDt_RejectsBadStep(t *testing.T) {
	sim, err := New(Config{Count: 3, Radius: 0.02, Dt: 0.01, Seed: 1})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	for _, dt := range []float64{-0.01, math.NaN(), math.Inf(1)} {
		if err := sim.TickDt(dt); !errors.Is(err, ErrInvalidTimeStep) {
			t.Errorf("dt %g: expected ErrInvalidTimeStep, got %v", dt, err)
		}
	}
}

func TestRun(t *testing.T) {
	calls := 0
	counter := ForceFunc(func([]Particle, float64) error {
		calls++
		return nil
	})
	sim, err := New(Config{Count: 10, Radius: 0.02, Dt: 0.01, Seed: 6}, WithForce(counter))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if err := sim.Run(12); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if sim.Stats().Ticks != 12 || calls != 12 {
		t.Errorf("Expected 12 ticks and force calls, got %d and %d", sim.Stats().Ticks, calls)
	}
}

func TestParticles_ReturnsCopy(t *testing.T) {
	sim, err := New(Config{Count: 4, Radius: 0.02, Dt: 0.01, Seed: 1})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ps := sim.Particles()
	ps[0].Pos.X = 42
	ps[0].Vel.Y = 42

	if p := sim.Particle(0); p.X() == 42 || p.VY() == 42 {
		t.Errorf("Expected caller mutation not to reach the simulation")
	}
}

func TestNew_ClockSeedSharedWithForce(t *testing.T) {
	cfg := Config{Count: 4, Radius: 0.02, Dt: 0.01, Force: ForceConfig{Kind: ForceFlow, Strength: 0.5}}
	sim, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if sim.Seed() == 0 {
		t.Fatalf("Expected zero seed resolved from the clock")
	}

	flow, ok := sim.force.(*FlowField)
	if !ok {
		t.Fatalf("Expected *FlowField, got %T", sim.force)
	}
	want := NewFlowField(0.5, sim.Seed())
	unseeded := NewFlowField(0.5, 0)
	same := true
	for _, pt := range [][2]float64{{0.1, 0.2}, {0.5, 0.5}, {0.77, 0.31}, {0.3, 0.9}} {
		d := flow.Direction(pt[0], pt[1])
		if d != want.Direction(pt[0], pt[1]) {
			t.Errorf("Flow field at %v not seeded from the resolved seed", pt)
		}
		if d != unseeded.Direction(pt[0], pt[1]) {
			same = false
		}
	}
	if same {
		t.Errorf("Expected flow field to differ from the seed-0 field")
	}

	placed, err := New(Config{Count: 4, Radius: 0.02, Dt: 0.01, Seed: sim.Seed()})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	a, b := sim.Particles(), placed.Particles()
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("Particle %d: placement not drawn from the resolved seed", i)
		}
	}
}
