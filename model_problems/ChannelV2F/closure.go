package ChannelV2F

import (
	"math"

	"github.com/notargets/v2f/FD1D"
	"github.com/notargets/v2f/utils"
)

// TimeScale is the turbulence time scale, bounded below by the Kolmogorov scale
func (mc *ModelConstants) TimeScale(p Point) float64 {
	nu := mc.Nu()
	return math.Max(p.K/p.Ep, mc.CT*math.Sqrt(nu/p.Ep))
}

// LengthScale is the elliptic relaxation length, bounded below by the Kolmogorov scale
func (mc *ModelConstants) LengthScale(p Point) float64 {
	nu := mc.Nu()
	return mc.CL * math.Max(math.Pow(p.K, 1.5)/p.Ep, mc.CEta*math.Pow(utils.POW(nu, 3)/p.Ep, 0.25))
}

func (mc *ModelConstants) EddyViscosity(p Point, T float64) float64 {
	return mc.Cmu * p.V2 * T
}

// Production is vT (dU/dy)^2
func Production(vT, dUdy float64) float64 {
	return vT * dUdy * dUdy
}

// WallDissipation is the wall value of Ep from the first point k, Ep_w = 2 nu k / y^2
func (mc *ModelConstants) WallDissipation(first Point, dEta float64) float64 {
	return 2 * mc.Nu() * first.K / (dEta * dEta)
}

// WallRelaxation is the wall value of f consistent with v2 ~ y^4, f_w = -20 nu^2 v2 / (Ep_w y^4)
func (mc *ModelConstants) WallRelaxation(first Point, ep0, dEta float64) float64 {
	nu := mc.Nu()
	return -20 * nu * nu * first.V2 / (ep0 * utils.POW(dEta, 4))
}

/*
Auxiliary holds the eddy viscosity and time scale for every point, index 0 is the wall where
both vanish. The VT and T fields view the arrays with the wall at j = -1.
*/
type Auxiliary struct {
	vT, t []float64
	VT, T FD1D.Field
}

func NewAuxiliary(size int) (aux *Auxiliary) {
	aux = &Auxiliary{
		vT: make([]float64, size+1),
		t:  make([]float64, size+1),
	}
	aux.VT = FD1D.NewField(aux.vT, 1, 1)
	aux.T = FD1D.NewField(aux.t, 1, 1)
	return
}

// Compute fills both fields from the candidate state, nothing carries over between calls
func (aux *Auxiliary) Compute(mc *ModelConstants, x State) {
	aux.vT[0], aux.t[0] = 0, 0
	for j := 0; j < x.Size(); j++ {
		p := x.Point(j)
		T := mc.TimeScale(p)
		aux.t[j+1] = T
		aux.vT[j+1] = mc.EddyViscosity(p, T)
	}
}
