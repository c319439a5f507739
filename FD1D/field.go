package FD1D

import (
	"fmt"

	"github.com/notargets/v2f/types"
)

/*
Field is a strided view of one scalar over the grid points.
Point j lives at Data[Offset+j*Stride]; an Offset of one on a unit stride field exposes a wall
value at j = -1.
*/
type Field struct {
	Data           []float64
	Offset, Stride int
}

func NewField(data []float64, offset, stride int) Field {
	if stride < 1 || offset < 0 {
		panic(fmt.Errorf("invalid field layout, offset = %d, stride = %d", offset, stride))
	}
	return Field{Data: data, Offset: offset, Stride: stride}
}

func (f Field) index(j int) int { return f.Offset + j*f.Stride }

func (f Field) Has(j int) bool {
	ind := f.index(j)
	return ind >= 0 && ind < len(f.Data)
}

func (f Field) At(j int) float64 {
	if !f.Has(j) {
		panic(fmt.Errorf("%w: point %d, field holds points [%d, %d)",
			types.ErrIndexRange, j, -f.Offset/f.Stride, f.Len()))
	}
	return f.Data[f.index(j)]
}

// Len is the count of points j >= 0 held by the field
func (f Field) Len() int {
	if len(f.Data) <= f.Offset {
		return 0
	}
	return (len(f.Data) - f.Offset + f.Stride - 1) / f.Stride
}

// Boundary is the stencil policy the caller selects for one evaluation point
type Boundary struct {
	Flag  types.BCFLAG
	Value float64
}

func Interior() Boundary { return Boundary{Flag: types.BC_None} }

func Dirichlet(val float64) Boundary { return Boundary{Flag: types.BC_Dirichlet, Value: val} }

func Mirror() Boundary { return Boundary{Flag: types.BC_Neuman} }

// Wall is the no-slip wall policy, differenced as Dirichlet
func Wall(val float64) Boundary { return Boundary{Flag: types.BC_Wall, Value: val} }

// Far is the centerline symmetry policy, differenced as Mirror
func Far() Boundary { return Boundary{Flag: types.BC_Far} }

func (bc Boundary) String() string {
	if bc.Flag.Canonical() == types.BC_Dirichlet {
		return fmt.Sprintf("%s(%v)", bc.Flag, bc.Value)
	}
	return bc.Flag.String()
}
