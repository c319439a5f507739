package ChannelV2F

import (
	"os"

	"github.com/ghodss/yaml"
)

type ProfilePoint struct {
	Y       float64 `json:"y"`
	U       float64 `json:"U"`
	K       float64 `json:"k"`
	Epsilon float64 `json:"epsilon"`
	V2      float64 `json:"v2"`
	F       float64 `json:"f"`
	NuT     float64 `json:"nuT"`
}

// Result is the saved state of a run, the wall point is the first profile entry
type Result struct {
	Title     string         `json:"title"`
	Reynolds  float64        `json:"reynolds"`
	Steps     int            `json:"steps"`
	Converged bool           `json:"converged"`
	Change    float64        `json:"change"` // Last max |dx|/dt
	Profile   []ProfilePoint `json:"profile"`
}

func (c *Channel) NewResult(x State, steps int, converged bool, change float64) (r *Result) {
	var (
		mc  = c.System.Constants
		aux = NewAuxiliary(x.Size())
		ep0 = mc.WallDissipation(x.Point(0), c.System.Ops.DEta)
	)
	aux.Compute(mc, x)
	r = &Result{
		Title:     c.Params.Title,
		Reynolds:  mc.Reynolds,
		Steps:     steps,
		Converged: converged,
		Change:    change,
		Profile:   make([]ProfilePoint, x.Size()+1),
	}
	r.Profile[0] = ProfilePoint{
		Epsilon: ep0,
		F:       mc.WallRelaxation(x.Point(0), ep0, c.System.Ops.DEta),
	}
	for j := 0; j < x.Size(); j++ {
		p := x.Point(j)
		r.Profile[j+1] = ProfilePoint{
			Y:       c.Grid.Computational[j],
			U:       p.U,
			K:       p.K,
			Epsilon: p.Ep,
			V2:      p.V2,
			F:       p.F,
			NuT:     aux.VT.At(j),
		}
	}
	return
}

func (r *Result) Marshal() ([]byte, error) {
	return yaml.Marshal(r)
}

func (r *Result) Save(fileName string) (err error) {
	var data []byte
	if data, err = r.Marshal(); err != nil {
		return
	}
	return os.WriteFile(fileName, data, 0644)
}

func ReadResult(data []byte) (r *Result, err error) {
	r = &Result{}
	if err = yaml.Unmarshal(data, r); err != nil {
		return nil, err
	}
	return
}
