package FD1D

import (
	"math"

	"github.com/notargets/v2f/types"
)

const (
	StretchParameter = 0.97
)

/*
Stretch holds the sine stretch constants, A = Param*pi/2 and B = sin(A)
Param < 1 keeps cos(A) > 0, so the mapping and its inverse stay finite at the far boundary
*/
type Stretch struct {
	Param, A, B float64
}

func NewStretch(param float64) (st Stretch) {
	st.Param = param
	st.A = param * math.Pi / 2
	st.B = math.Sin(st.A)
	return
}

func DefaultStretch() Stretch { return NewStretch(StretchParameter) }

type Grid struct {
	Size          int
	Extent        float64
	Uniform       bool
	Stretch       Stretch
	Physical      []float64 // Uniformly spaced coordinate used for differencing
	Computational []float64 // Stretched (remapped) coordinate, clustered toward the wall
}

func NewGrid(isUniform bool, extent, targetSpacing float64, st Stretch) (g *Grid, err error) {
	var (
		size float64
	)
	switch {
	case !(extent > 0):
		return nil, types.NewConfigurationError("grid extent must be positive, have %v", extent)
	case !(targetSpacing > 0):
		return nil, types.NewConfigurationError("grid spacing must be positive, have %v", targetSpacing)
	case targetSpacing >= extent:
		return nil, types.NewConfigurationError("grid spacing %v is not smaller than extent %v",
			targetSpacing, extent)
	}
	if isUniform {
		size = math.Ceil(extent / targetSpacing)
	} else {
		if !(st.Param > 0 && st.Param < 1) {
			return nil, types.NewConfigurationError("stretch parameter must be in (0,1), have %v", st.Param)
		}
		size = math.Ceil(st.A / (math.Asin(st.B*targetSpacing/extent-st.B) + st.A))
	}
	if math.IsNaN(size) || math.IsInf(size, 0) || size < 2 || size > math.MaxInt32 {
		return nil, types.NewConfigurationError("grid point count %v from extent %v and spacing %v is unusable",
			size, extent, targetSpacing)
	}
	g = &Grid{
		Size:          int(size),
		Extent:        extent,
		Uniform:       isUniform,
		Stretch:       st,
		Physical:      make([]float64, int(size)),
		Computational: make([]float64, int(size)),
	}
	for i := 0; i < g.Size; i++ {
		g.Physical[i] = extent * float64(i+1) / size
		g.Computational[i] = g.Remap(g.Physical[i])
	}
	return
}

func (g *Grid) Remap(chi float64) float64 {
	if g.Uniform {
		return chi
	}
	var (
		a, b = g.Stretch.A, g.Stretch.B
	)
	return g.Extent * (math.Sin((chi/g.Extent-1)*a)/b + 1)
}

// Spacing is the uniform differencing step between successive points
func (g *Grid) Spacing() float64 {
	return g.Extent / float64(g.Size)
}

// Metric holds the chain rule factors dChi/dY and d2Chi/dY2 at a grid point
type Metric struct {
	D1, D2 float64
}

func (g *Grid) Metric(j int) (m Metric) {
	if g.Uniform {
		return Metric{D1: 1, D2: 0}
	}
	var (
		a, b  = g.Stretch.A, g.Stretch.B
		theta = a * (g.Physical[j]/g.Extent - 1)
		c, s  = math.Cos(theta), math.Sin(theta)
	)
	m.D1 = b / (a * c)
	m.D2 = b * b * s / (a * g.Extent * c * c * c)
	return
}

func (g *Grid) Metrics() (ms []Metric) {
	ms = make([]Metric, g.Size)
	for j := range ms {
		ms[j] = g.Metric(j)
	}
	return
}
