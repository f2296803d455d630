package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSize(t *testing.T) {
	w, h, err := parseSize("640x360")
	require.NoError(t, err)
	assert.Equal(t, 640, w)
	assert.Equal(t, 360, h)

	w, h, err = parseSize("32X24")
	require.NoError(t, err)
	assert.Equal(t, 32, w)
	assert.Equal(t, 24, h)

	for _, bad := range []string{"", "640", "0x10", "ax10", "10x-1"} {
		_, _, err := parseSize(bad)
		assert.Error(t, err, bad)
	}
}

func TestPresetsCommand(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"presets"})
	require.NoError(t, cmd.Execute())
	for _, name := range []string{"cubic", "rider", "octa", "kaleidoscope"} {
		assert.Contains(t, out.String(), name)
	}
}

func TestRenderCommand(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	dir := t.TempDir()
	scene := filepath.Join(dir, "square.toml")
	require.NoError(t, os.WriteFile(scene, []byte(`
name = "square"
seed = 3
segments = 8
detail = 6
radius = 1.0
closed = true
speed = 0.01
lookahead = 0.05
representation = "line_loop"
points = [[0.0, 0.0], [10.0, 0.0], [10.0, 10.0], [0.0, 10.0]]
`), 0o644))

	out := filepath.Join(dir, "frames")
	gifFile := filepath.Join(dir, "square.gif")
	var stdout bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"render", "--trace", "error", "--config", scene, "--frames", "6", "--every", "3",
		"--out", out, "--size", "48x32", "--gif", gifFile})
	require.NoError(t, cmd.Execute())

	files, err := filepath.Glob(filepath.Join(out, "square-*.png"))
	require.NoError(t, err)
	assert.Len(t, files, 2)
	assert.FileExists(t, gifFile)
	assert.Contains(t, stdout.String(), "6 frames, 2 written")
}

func TestRenderRejectsBadInput(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	for _, args := range [][]string{
		{"render", "--preset", "nope", "--every", "0"},
		{"render", "--size", "big", "--every", "0"},
		{"render", "--frames", "0"},
		{"presets", "--trace", "loud"},
	} {
		cmd := newRootCommand()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs(args)
		assert.Error(t, cmd.Execute(), args)
	}
}

func TestTraceKeysCoverEveryPackage(t *testing.T) {
	for _, key := range []string{"oxy.path", "oxy.tube", "oxy.camera", "oxy.noise", "oxy.config",
		"oxy.scene", "oxy.engine", "oxy.renderer", "oxy.window"} {
		assert.Contains(t, traceKeys, key)
	}
	seen := map[string]bool{}
	for _, key := range traceKeys {
		assert.False(t, seen[key], "duplicate trace key %s", key)
		seen[key] = true
	}
	require.NoError(t, setTraceLevel("debug"))
}
