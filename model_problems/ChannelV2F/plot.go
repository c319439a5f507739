package ChannelV2F

import (
	"image/color"
	"math"
	"time"

	"github.com/notargets/avs/chart2d"
	utils2 "github.com/notargets/avs/utils"
)

var lineColors = [NVars]color.RGBA{
	U:  utils2.WHITE,
	K:  utils2.RED,
	Ep: utils2.GREEN,
	V2: utils2.BLUE,
	F:  {255, 255, 0, 255},
}

// Plot draws each variable scaled by its maximum magnitude against y
func (c *Channel) Plot(x State, graphDelay ...time.Duration) {
	var (
		fmin, fmax = float32(-1.1), float32(1.1)
		y          = c.Grid.Computational
	)
	c.plotOnce.Do(func() {
		c.chart = chart2d.NewChart2D(0, float32(c.Grid.Extent), fmin, fmax,
			1024, 1024, utils2.WHITE, utils2.BLACK)
		for v := U; v < NVars; v++ {
			c.lineKeys[v] = c.chart.AddLine(profileLine(y, x.Column(v)), lineColors[v], utils2.POLYLINE)
		}
	})
	win := c.chart.GetCurrentWindow()
	for v := U; v < NVars; v++ {
		c.chart.UpdateLine(win, c.lineKeys[v], profileLine(y, x.Column(v)), nil)
	}
	if len(graphDelay) != 0 {
		time.Sleep(graphDelay[0])
	}
}

// profileLine interleaves y with f scaled to a unit maximum, starting at the wall
func profileLine(y, f []float64) (xy []float32) {
	var fmax float64
	for _, val := range f {
		fmax = math.Max(fmax, math.Abs(val))
	}
	if fmax == 0 {
		fmax = 1
	}
	xy = make([]float32, 0, 2*(len(y)+1))
	xy = append(xy, 0, 0)
	for j := range y {
		xy = append(xy, float32(y[j]), float32(f[j]/fmax))
	}
	return
}
