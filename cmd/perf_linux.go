//go:build linux
// +build linux

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

	perf "github.com/hodgesds/perf-utils"
	log "github.com/sirupsen/logrus"

	"github.com/notargets/v2f/model_problems/ChannelV2F"
)

func reportInstructions(c *ChannelV2F.Channel) {
	x := c.InitialState()
	sys := *c.System
	sys.SetPrevious(x)
	f := ChannelV2F.NewState(x.Size())
	pv, err := perf.CPUInstructions(func() error {
		return sys.Evaluate(context.Background(), x, f)
	})
	if err != nil {
		log.Warnf("unable to count instructions: %v", err)
		return
	}
	log.Infof("%d CPU instructions for one residual assembly of %d points", pv.Value, x.Size())
}
