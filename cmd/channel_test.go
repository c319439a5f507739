package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/v2f/InputParameters"
	"github.com/notargets/v2f/model_problems/ChannelV2F"
	"github.com/notargets/v2f/types"
)

var coarseInput = `
Title: "coarse channel"
UniformGrid: true
TargetSpacing: 0.1
Reynolds: 100
DeltaT: 0.001
MaxTimeSteps: 1
InitialU: 1
InitialK: 0.1
InitialEpsilon: 0.1
`

func TestRunChannel(t *testing.T) {
	InputParameters.RegisterDefaults(viper.GetViper())
	dir := t.TempDir()
	input := filepath.Join(dir, "input.yaml")
	output := filepath.Join(dir, "profile.yaml")
	require.NoError(t, os.WriteFile(input, []byte(coarseInput), 0644))
	viper.Set("OutputFile", output)
	defer viper.Set("OutputFile", "")
	{
		require.NoError(t, RunChannel(&ModelChannel{InputFile: input}))
		data, err := os.ReadFile(output)
		require.NoError(t, err)
		r, err := ChannelV2F.ReadResult(data)
		require.NoError(t, err)
		assert.Equal(t, "coarse channel", r.Title)
		assert.Equal(t, 1, r.Steps)
		assert.Equal(t, 11, len(r.Profile))
	}
	{ // Invalid input stops before any solve
		bad := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte(coarseInput+"Extent: -1\n"), 0644))
		err := RunChannel(&ModelChannel{InputFile: bad})
		assert.True(t, errors.Is(err, types.ErrConfiguration))
	}
	{ // Missing input file
		err := RunChannel(&ModelChannel{InputFile: filepath.Join(dir, "missing.yaml")})
		assert.Error(t, err)
	}
}
