package InputParameters

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/ghodss/yaml"
	"github.com/spf13/viper"

	"github.com/notargets/v2f/types"
)

// Parameters obtained from the YAML input file, or the viper registry
type InputParametersV2F struct {
	Title               string  `yaml:"Title"`
	Extent              float64 `yaml:"Extent"`        // Channel half height
	TargetSpacing       float64 `yaml:"TargetSpacing"` // First point distance from the wall
	UniformGrid         bool    `yaml:"UniformGrid"`
	DeltaT              float64 `yaml:"DeltaT"`
	DeltaEta            float64 `yaml:"DeltaEta"` // Zero selects the grid spacing
	Reynolds            float64 `yaml:"Reynolds"`
	Cmu                 float64 `yaml:"Cmu"`
	C1                  float64 `yaml:"C1"`
	C2                  float64 `yaml:"C2"`
	CEp1                float64 `yaml:"CEp1"`
	CEp2                float64 `yaml:"CEp2"`
	SigmaEp             float64 `yaml:"SigmaEp"`
	CL                  float64 `yaml:"CL"`
	CEta                float64 `yaml:"CEta"`
	CT                  float64 `yaml:"CT"`
	Forcing             float64 `yaml:"Forcing"`
	MaxTimeSteps        int     `yaml:"MaxTimeSteps"`
	SteadyTolerance     float64 `yaml:"SteadyTolerance"`
	NewtonMaxIterations int     `yaml:"NewtonMaxIterations"`
	NewtonTolerance     float64 `yaml:"NewtonTolerance"`
	InitialU            float64 `yaml:"InitialU"`
	InitialK            float64 `yaml:"InitialK"`
	InitialEpsilon      float64 `yaml:"InitialEpsilon"`
	OutputFile          string  `yaml:"OutputFile"`
}

var defaults = map[string]interface{}{
	"Title":               "v2-f channel",
	"Extent":              1.,
	"TargetSpacing":       0.02,
	"UniformGrid":         true,
	"DeltaT":              0.001,
	"DeltaEta":            0.,
	"Reynolds":            395.,
	"Cmu":                 0.22,
	"C1":                  0.4,
	"C2":                  0.3,
	"CEp1":                1.4,
	"CEp2":                1.9,
	"SigmaEp":             1.3,
	"CL":                  0.23,
	"CEta":                70.,
	"CT":                  6.,
	"Forcing":             1.,
	"MaxTimeSteps":        500,
	"SteadyTolerance":     1.e-6,
	"NewtonMaxIterations": 25,
	"NewtonTolerance":     1.e-9,
	"InitialU":            20.,
	"InitialK":            1.,
	"InitialEpsilon":      1.,
	"OutputFile":          "",
}

// NewInputParametersV2F returns the registered defaults
func NewInputParametersV2F() (ip *InputParametersV2F) {
	v := viper.New()
	RegisterDefaults(v)
	ip = &InputParametersV2F{}
	if err := Load(v, ip); err != nil {
		panic(err)
	}
	return
}

// RegisterDefaults seeds every known key so that a partial config file or no file is complete
func RegisterDefaults(v *viper.Viper) {
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
}

// Keys returns the known configuration keys in sorted order
func Keys() (keys []string) {
	for key := range defaults {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return
}

func Load(v *viper.Viper, ip *InputParametersV2F) (err error) {
	if err = v.Unmarshal(ip); err != nil {
		return types.NewConfigurationError("unable to decode parameters: %v", err)
	}
	return ip.Validate()
}

// Parse overlays the YAML document on the receiver, unset keys keep their values
func (ip *InputParametersV2F) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, ip); err != nil {
		return types.NewConfigurationError("unable to parse input: %v", err)
	}
	return
}

func (ip *InputParametersV2F) Validate() (err error) {
	positive := []struct {
		name string
		val  float64
	}{
		{"Extent", ip.Extent},
		{"TargetSpacing", ip.TargetSpacing},
		{"DeltaT", ip.DeltaT},
		{"Reynolds", ip.Reynolds},
		{"SigmaEp", ip.SigmaEp},
		{"CL", ip.CL},
		{"CT", ip.CT},
		{"SteadyTolerance", ip.SteadyTolerance},
		{"NewtonTolerance", ip.NewtonTolerance},
		{"InitialK", ip.InitialK},
		{"InitialEpsilon", ip.InitialEpsilon},
	}
	for _, p := range positive {
		if !(p.val > 0) || math.IsInf(p.val, 0) {
			return types.NewConfigurationError("%s must be positive and finite, have %v", p.name, p.val)
		}
	}
	switch {
	case ip.TargetSpacing >= ip.Extent:
		return types.NewConfigurationError("TargetSpacing %v must be less than Extent %v", ip.TargetSpacing, ip.Extent)
	case ip.DeltaEta < 0 || math.IsNaN(ip.DeltaEta) || math.IsInf(ip.DeltaEta, 0):
		return types.NewConfigurationError("DeltaEta must be zero or positive, have %v", ip.DeltaEta)
	case ip.MaxTimeSteps < 1:
		return types.NewConfigurationError("MaxTimeSteps must be at least 1, have %d", ip.MaxTimeSteps)
	case ip.NewtonMaxIterations < 1:
		return types.NewConfigurationError("NewtonMaxIterations must be at least 1, have %d", ip.NewtonMaxIterations)
	}
	return
}

func (ip *InputParametersV2F) Print() {
	ip.Fprint(os.Stdout)
}

// Fprint writes one line per configuration key in Keys order
func (ip *InputParametersV2F) Fprint(w io.Writer) {
	var (
		values = make(map[string]interface{})
		data   []byte
		err    error
	)
	if data, err = yaml.Marshal(ip); err == nil {
		err = yaml.Unmarshal(data, &values)
	}
	if err != nil {
		fmt.Fprintf(w, "unable to print parameters: %v\n", err)
		return
	}
	for _, key := range Keys() {
		switch val := values[key].(type) {
		case string:
			fmt.Fprintf(w, "%-24q= %s\n", val, key)
		default:
			fmt.Fprintf(w, "%-24v= %s\n", val, key)
		}
	}
}
