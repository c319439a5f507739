package ChannelV2F

import (
	"fmt"

	"github.com/notargets/v2f/FD1D"
)

type Var uint8

const (
	U Var = iota
	K
	Ep
	V2
	F
	NVars
)

func (v Var) String() string {
	switch v {
	case U:
		return "U"
	case K:
		return "k"
	case Ep:
		return "Ep"
	case V2:
		return "V2"
	case F:
		return "f"
	}
	return fmt.Sprintf("Var(%d)", v)
}

// Point is the solution at one grid point
type Point struct {
	U, K, Ep, V2, F float64
}

/*
State is the flat solver vector, NVars values per grid point in the order U, k, Ep, V2, f.
Block j holds grid point j+1, the wall point is implied by the boundary conditions.
*/
type State []float64

func NewState(size int) State { return make(State, int(NVars)*size) }

func (s State) Size() int { return len(s) / int(NVars) }

func (s State) At(j int, v Var) float64 { return s[int(NVars)*j+int(v)] }

func (s State) Set(j int, v Var, val float64) { s[int(NVars)*j+int(v)] = val }

func (s State) Point(j int) Point {
	b := s[int(NVars)*j : int(NVars)*(j+1)]
	return Point{U: b[U], K: b[K], Ep: b[Ep], V2: b[V2], F: b[F]}
}

func (s State) SetPoint(j int, p Point) {
	b := s[int(NVars)*j : int(NVars)*(j+1)]
	b[U], b[K], b[Ep], b[V2], b[F] = p.U, p.K, p.Ep, p.V2, p.F
}

// Field is the strided view of one variable used by the difference operators
func (s State) Field(v Var) FD1D.Field {
	return FD1D.NewField(s, int(v), int(NVars))
}

func (s State) Copy() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// Column extracts one variable over all points
func (s State) Column(v Var) (col []float64) {
	col = make([]float64, s.Size())
	for j := range col {
		col[j] = s.At(j, v)
	}
	return
}
