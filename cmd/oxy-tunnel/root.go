package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-tunnel/config"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/scene"
	"github.com/npillmayer/schuko/tracing"
	"github.com/spf13/cobra"
)

var traceKeys = []string{"oxy.path", "oxy.tube", "oxy.camera", "oxy.noise", "oxy.config", "oxy.scene", "oxy.engine", "oxy.renderer", "oxy.window"}

func newRootCommand() *cobra.Command {
	var level string
	root := &cobra.Command{
		Use:           "oxy-tunnel",
		Short:         "Fly a camera through procedurally generated tubes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setTraceLevel(level)
		},
	}
	root.PersistentFlags().StringVar(&level, "trace", "info", "trace level: error, info or debug")
	root.AddCommand(newPresetsCommand(), newRenderCommand(), newRunCommand())
	return root
}

func setTraceLevel(level string) error {
	var l tracing.TraceLevel
	switch strings.ToLower(level) {
	case "error":
		l = tracing.LevelError
	case "info":
		l = tracing.LevelInfo
	case "debug":
		l = tracing.LevelDebug
	default:
		return fmt.Errorf("unknown trace level %q", level)
	}
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(l)
	}
	return nil
}

// sceneFlags are the flags every command that builds a scene shares.
type sceneFlags struct {
	preset string
	file   string
	seed   int64
}

func (f *sceneFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.preset, "preset", "p", "cubic", "built-in scene preset")
	cmd.Flags().StringVarP(&f.file, "config", "c", "", "TOML scene file, overrides --preset")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "override the scene seed")
}

// load resolves the scene configuration. An explicit --seed wins over the file.
func (f *sceneFlags) load(cmd *cobra.Command) (config.Scene, error) {
	var (
		cfg config.Scene
		err error
	)
	if f.file != "" {
		cfg, err = config.Load(f.file)
	} else {
		cfg, err = config.Preset(f.preset)
	}
	if err != nil {
		return config.Scene{}, err
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = f.seed
	}
	return cfg, nil
}

func (f *sceneFlags) build(cmd *cobra.Command, width, height int) (scene.Scene, error) {
	cfg, err := f.load(cmd)
	if err != nil {
		return nil, err
	}
	return scene.NewScene(cfg, scene.WithAspect(float32(width)/float32(height)))
}

// parseSize parses "WIDTHxHEIGHT".
func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("size %q: want WIDTHxHEIGHT", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, fmt.Errorf("size %q: %w", s, err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("size %q: %w", s, err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("size %q: must be positive", s)
	}
	return w, h, nil
}
