package types

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is returned for invalid setup parameters, before any solve begins
	ErrConfiguration = errors.New("configuration error")
	// ErrNonFiniteResidual marks a residual evaluation that produced NaN or Inf
	ErrNonFiniteResidual = errors.New("non-finite residual")
	// ErrIndexRange is a differentiation operator called outside its point range
	ErrIndexRange = errors.New("index out of stencil range")
	// ErrAborted is a cooperative cancellation of an evaluation
	ErrAborted = errors.New("evaluation aborted")
	// ErrNotConverged is a Newton solve that ran out of iterations or step reductions
	ErrNotConverged = errors.New("nonlinear solve did not converge")
)

type Status uint8

const (
	StatusOk Status = iota
	StatusNonFinite
	StatusConfiguration
	StatusAborted
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOk:
		return "Ok"
	case StatusNonFinite:
		return "NonFinite"
	case StatusConfiguration:
		return "ConfigurationError"
	case StatusAborted:
		return "Aborted"
	}
	return "Failed"
}

func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOk
	case errors.Is(err, ErrAborted):
		return StatusAborted
	case errors.Is(err, ErrNonFiniteResidual):
		return StatusNonFinite
	case errors.Is(err, ErrConfiguration):
		return StatusConfiguration
	}
	return StatusFailed
}

func NewConfigurationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}
