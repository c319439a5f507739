package ChannelV2F

import "fmt"

// ResidualError reports where an evaluation stopped, Err is one of the types sentinels
type ResidualError struct {
	Equation Var
	Point    int // Grid point, 1 is the first point off the wall
	Value    float64
	Err      error
}

func (e *ResidualError) Error() string {
	return fmt.Sprintf("%s equation at point %d: %v (value = %v)", e.Equation, e.Point, e.Err, e.Value)
}

func (e *ResidualError) Unwrap() error { return e.Err }
