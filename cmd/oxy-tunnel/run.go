package main

import (
	"context"
	"errors"

	"github.com/Carmen-Shannon/oxy-tunnel/engine"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/renderer"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/window"
	"github.com/spf13/cobra"
)

type runOptions struct {
	scene     sceneFlags
	size      string
	fps       float64
	uncapped  bool
	software  bool
	noMSAA    bool
	profiling bool
}

func newRunCommand() *cobra.Command {
	o := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open a window and fly through the scene with WebGPU",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd)
		},
	}
	o.scene.register(cmd)
	cmd.Flags().StringVar(&o.size, "size", "1280x720", "window size WIDTHxHEIGHT")
	cmd.Flags().Float64Var(&o.fps, "fps", 60, "tick rate")
	cmd.Flags().BoolVar(&o.uncapped, "uncapped", false, "present without waiting for vsync")
	cmd.Flags().BoolVar(&o.software, "software", false, "force the software fallback adapter")
	cmd.Flags().BoolVar(&o.noMSAA, "no-msaa", false, "disable multisampling")
	cmd.Flags().BoolVar(&o.profiling, "profile", false, "trace FPS and memory statistics every second")
	return cmd
}

func (o *runOptions) run(cmd *cobra.Command) error {
	w, h, err := parseSize(o.size)
	if err != nil {
		return err
	}
	s, err := o.scene.build(cmd, w, h)
	if err != nil {
		return err
	}

	win, err := window.NewWindow(window.WithTitle("oxy-tunnel: "+s.Name()), window.WithSize(w, h))
	if err != nil {
		return err
	}

	opts := []renderer.RendererBuilderOption{renderer.WithForceSoftwareRenderer(o.software)}
	if o.uncapped {
		opts = append(opts, renderer.WithPresentMode(renderer.PresentModeUncapped))
	}
	if o.noMSAA {
		opts = append(opts, renderer.WithMSAA(renderer.MSAAOff))
	}
	r, err := renderer.NewRenderer(renderer.BackendTypeWGPU, win, opts...)
	if err != nil {
		_ = win.Close()
		return err
	}
	defer r.Close()

	e, err := engine.NewEngine(
		engine.WithScene(s),
		engine.WithRenderer(r),
		engine.WithWindow(win),
		engine.WithTickRate(o.fps),
		engine.WithProfiling(o.profiling),
	)
	if err != nil {
		_ = win.Close()
		return err
	}
	if err := e.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
