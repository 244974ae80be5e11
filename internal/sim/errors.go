package sim

import "errors"

var (
	// ErrInvalidState indicates a state vector holding NaN or Inf.
	ErrInvalidState = errors.New("sim: invalid state (NaN or Inf detected)")

	// ErrInvalidConfig indicates a non-positive step count or step size.
	ErrInvalidConfig = errors.New("sim: invalid config")

	// ErrDimensionMismatch indicates an initial state that does not fit the system.
	ErrDimensionMismatch = errors.New("sim: dimension mismatch between state and system")
)
