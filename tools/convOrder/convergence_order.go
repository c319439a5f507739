package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/notargets/v2f/model_problems/ChannelV2F"
)

var (
	resultFiles string
)

/*
Reads saved channel profiles from a sequence of refined grids and reports the observed order
of the centerline values, using each consecutive triple of grids.
*/
func main() {
	filesPtr := flag.String("results", resultFiles, "comma separated result files of a grid refinement study")
	flag.Parse()
	resultFiles = *filesPtr
	if len(resultFiles) == 0 {
		flag.Usage()
		os.Exit(1)
	}
	study, err := readResults(strings.Split(resultFiles, ","))
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	fmt.Printf("Title = %s, Reynolds = %v\n", study.title, study.reynolds)
	for i := range study.numPTS {
		fmt.Printf("%d, %v, %v, %v\n", study.numPTS[i], study.uCL[i], study.kCL[i], study.epCL[i])
	}
	for i := 0; i+2 < len(study.numPTS); i++ {
		fmt.Printf("points %d-%d-%d: order U = %5.2f, order k = %5.2f\n",
			study.numPTS[i], study.numPTS[i+1], study.numPTS[i+2],
			study.Order(study.uCL, i), study.Order(study.kCL, i))
	}
}

type ConvergenceStudy struct {
	title          string
	reynolds       float64
	numPTS         []int
	uCL, kCL, epCL []float64
}

func (cs *ConvergenceStudy) Add(r *ChannelV2F.Result) {
	cl := r.Profile[len(r.Profile)-1]
	cs.numPTS = append(cs.numPTS, len(r.Profile)-1)
	cs.uCL = append(cs.uCL, cl.U)
	cs.kCL = append(cs.kCL, cl.K)
	cs.epCL = append(cs.epCL, cl.Epsilon)
}

// Order is the observed order from grids i, i+1, i+2
func (cs *ConvergenceStudy) Order(f []float64, i int) float64 {
	ratio := float64(cs.numPTS[i+1]) / float64(cs.numPTS[i])
	return math.Log(math.Abs((f[i+1]-f[i])/(f[i+2]-f[i+1]))) / math.Log(ratio)
}

func readResults(files []string) (cs *ConvergenceStudy, err error) {
	var (
		results []*ChannelV2F.Result
		data    []byte
		r       *ChannelV2F.Result
	)
	for _, file := range files {
		if data, err = os.ReadFile(strings.TrimSpace(file)); err != nil {
			return
		}
		if r, err = ChannelV2F.ReadResult(data); err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		if len(r.Profile) < 2 {
			return nil, fmt.Errorf("%s: profile has %d points", file, len(r.Profile))
		}
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool { return len(results[i].Profile) < len(results[j].Profile) })
	cs = &ConvergenceStudy{}
	for _, r = range results {
		cs.Add(r)
	}
	if len(results) != 0 {
		cs.title, cs.reynolds = results[0].Title, results[0].Reynolds
	}
	return
}
