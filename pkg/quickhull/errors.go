package quickhull

import "github.com/pkg/errors"

var (
	// ErrInvalidInput is returned for fewer than 4 points or non-finite coordinates.
	ErrInvalidInput = errors.New("quickhull: invalid input")
	// ErrDegenerateInput is returned when no 4 affinely independent points
	// exist within tolerance (all points collinear or coplanar).
	ErrDegenerateInput = errors.New("quickhull: degenerate input")
	// ErrAlreadyComputed is returned by a second call to Compute.
	ErrAlreadyComputed = errors.New("quickhull: already computed")
)
