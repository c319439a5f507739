/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"io/ioutil"
	"os"
	"os/signal"
	"time"

	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/v2f/InputParameters"
	"github.com/notargets/v2f/model_problems/ChannelV2F"
	"github.com/notargets/v2f/types"
)

type ModelChannel struct {
	InputFile string
	Graph     bool
	Delay     time.Duration
	Profile   bool
	Perf      bool
}

// ChannelCmd represents the channel command
var ChannelCmd = &cobra.Command{
	Use:   "channel",
	Short: "Steady v2-f channel profile",
	Long: `
Integrates the v2-f equations on a half channel from the wall to the centerline until the
profile is steady, then writes the profile as YAML.

v2f channel -F input.yaml -o profile.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		mc := &ModelChannel{}
		mc.InputFile, _ = cmd.Flags().GetString("inputFile")
		mc.Graph, _ = cmd.Flags().GetBool("graph")
		delay, _ := cmd.Flags().GetInt("delay")
		mc.Delay = time.Duration(delay) * time.Millisecond
		mc.Profile, _ = cmd.Flags().GetBool("profile")
		mc.Perf, _ = cmd.Flags().GetBool("perf")
		if err := RunChannel(mc); err != nil {
			log.WithField("status", types.StatusOf(err)).Error(err)
			os.Exit(1)
		}
	},
}

// Flags bound to configuration keys
var channelKeys = map[string]string{
	"reynolds": "Reynolds",
	"dt":       "DeltaT",
	"extent":   "Extent",
	"spacing":  "TargetSpacing",
	"uniform":  "UniformGrid",
	"steps":    "MaxTimeSteps",
	"output":   "OutputFile",
}

func init() {
	rootCmd.AddCommand(ChannelCmd)
	var (
		ip    = InputParameters.NewInputParametersV2F()
		flags = ChannelCmd.Flags()
	)
	flags.StringP("inputFile", "F", "", "YAML input parameter file, overlays the configuration")
	flags.BoolP("graph", "g", false, "display a graph while computing solution")
	flags.IntP("delay", "d", 0, "milliseconds of delay for plotting")
	flags.Bool("profile", false, "write a CPU profile to the current directory")
	flags.Bool("perf", false, "count CPU instructions for one residual assembly (linux)")
	flags.Float64("reynolds", ip.Reynolds, "Reynolds number based on friction velocity and half height")
	flags.Float64("dt", ip.DeltaT, "pseudo time step")
	flags.Float64("extent", ip.Extent, "channel half height")
	flags.Float64("spacing", ip.TargetSpacing, "target distance of the first point from the wall")
	flags.Bool("uniform", ip.UniformGrid, "uniform grid instead of wall clustered")
	flags.Int("steps", ip.MaxTimeSteps, "maximum number of time steps")
	flags.StringP("output", "o", ip.OutputFile, "YAML file for the final profile")
	for flag, key := range channelKeys {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

func RunChannel(mc *ModelChannel) (err error) {
	if mc.Profile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}
	ip := &InputParameters.InputParametersV2F{}
	if err = InputParameters.Load(viper.GetViper(), ip); err != nil {
		return
	}
	if len(mc.InputFile) != 0 {
		var data []byte
		if data, err = ioutil.ReadFile(mc.InputFile); err != nil {
			return
		}
		if err = ip.Parse(data); err != nil {
			return
		}
	}
	if log.IsLevelEnabled(log.DebugLevel) {
		ip.Print()
	}
	var c *ChannelV2F.Channel
	if c, err = ChannelV2F.NewChannel(ip); err != nil {
		return
	}
	c.Graph, c.GraphDelay = mc.Graph, mc.Delay
	if mc.Perf {
		reportInstructions(c)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	var r *ChannelV2F.Result
	r, err = c.Run(ctx, nil)
	if r != nil {
		log.WithFields(log.Fields{
			"steps":     r.Steps,
			"converged": r.Converged,
			"change":    r.Change,
		}).Info("run finished")
		if len(ip.OutputFile) != 0 {
			if serr := r.Save(ip.OutputFile); serr != nil {
				log.Errorf("unable to save results: %v", serr)
			} else {
				log.Infof("profile written to %s", ip.OutputFile)
			}
		}
	}
	return
}
