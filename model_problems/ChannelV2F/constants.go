package ChannelV2F

import (
	"math"

	"github.com/notargets/v2f/types"
)

/*
ModelConstants are the v2-f closure coefficients, nondimensionalized on the channel half
height. C1 is the combined return-to-isotropy coefficient of the f equation, (C1-1) in
Durbin's notation.
*/
type ModelConstants struct {
	Reynolds float64
	Cmu      float64
	C1, C2   float64
	CEp1     float64
	CEp2     float64
	SigmaEp  float64
	CL, CEta float64
	CT       float64
	Forcing  float64 // Mean pressure gradient driving U
}

func NewModelConstants(reynolds float64) *ModelConstants {
	return &ModelConstants{
		Reynolds: reynolds,
		Cmu:      0.22,
		C1:       0.4,
		C2:       0.3,
		CEp1:     1.4,
		CEp2:     1.9,
		SigmaEp:  1.3,
		CL:       0.23,
		CEta:     70.,
		CT:       6.,
		Forcing:  1.,
	}
}

// Nu is the nondimensional molecular viscosity
func (mc *ModelConstants) Nu() float64 { return 1 / mc.Reynolds }

func (mc *ModelConstants) Validate() (err error) {
	var (
		positive = map[string]float64{
			"Reynolds": mc.Reynolds,
			"SigmaEp":  mc.SigmaEp,
			"CL":       mc.CL,
			"CT":       mc.CT,
		}
	)
	for name, val := range positive {
		if !(val > 0) || math.IsInf(val, 0) {
			return types.NewConfigurationError("model constant %s must be positive and finite, have %v", name, val)
		}
	}
	for _, val := range []float64{mc.Cmu, mc.C1, mc.C2, mc.CEp1, mc.CEp2, mc.CEta, mc.Forcing} {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return types.NewConfigurationError("model constants must be finite, have %v", val)
		}
	}
	return
}
