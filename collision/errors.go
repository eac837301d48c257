package collision

import (
	"errors"
	"fmt"
)

// Configuration errors are returned by New and Restore before any particle is placed.
var (
	ErrInvalidCount    = errors.New("particle count must be at least 1")
	ErrInvalidRadius   = errors.New("radius must be in (0, 0.5)")
	ErrRadiiMismatch   = errors.New("radii length does not match particle count")
	ErrInvalidTimeStep = errors.New("time step must be positive and finite")
	ErrInvalidSnapshot = errors.New("invalid snapshot")
	ErrUnknownForce    = errors.New("unknown force kind")
)

// ErrPlacementStalled is returned when the sampler exhausts its attempt budget
// for a single particle. The radii are too large for the domain.
var ErrPlacementStalled = errors.New("cannot place particles")

// ErrCoincidentCenters is the root of SingularityError.
var ErrCoincidentCenters = errors.New("coincident particle centers")

// SingularityError reports a colliding pair whose centers are exactly equal,
// where the elastic update would divide by zero.
type SingularityError struct {
	I, J int
}

func (e *SingularityError) Error() string {
	return fmt.Sprintf("particles %d and %d: %v", e.I, e.J, ErrCoincidentCenters)
}

func (e *SingularityError) Unwrap() error { return ErrCoincidentCenters }
