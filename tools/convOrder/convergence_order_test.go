package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/v2f/model_problems/ChannelV2F"
)

func TestConvergenceOrder(t *testing.T) {
	var (
		dir   = t.TempDir()
		files []string
	)
	// Centerline error falling as h^2
	for _, n := range []int{40, 10, 20} {
		h := 1. / float64(n)
		r := &ChannelV2F.Result{
			Title:    "study",
			Reynolds: 395,
			Profile:  make([]ChannelV2F.ProfilePoint, n+1),
		}
		r.Profile[n] = ChannelV2F.ProfilePoint{Y: 1, U: 20 + 3*h*h, K: 1 - h*h, Epsilon: 0.1}
		file := filepath.Join(dir, filepath.Base(t.Name())+string(rune('a'+n/10))+".yaml")
		require.NoError(t, r.Save(file))
		files = append(files, file)
	}
	cs, err := readResults(files)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 20, 40}, cs.numPTS)
	assert.Equal(t, "study", cs.title)
	assert.InDelta(t, 2., cs.Order(cs.uCL, 0), 1.e-8)
	assert.InDelta(t, 2., cs.Order(cs.kCL, 0), 1.e-8)

	_, err = readResults([]string{filepath.Join(dir, "missing.yaml")})
	assert.Error(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.yaml"), []byte("title: x\n"), 0644))
	_, err = readResults([]string{filepath.Join(dir, "empty.yaml")})
	assert.Error(t, err)
}
