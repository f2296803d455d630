package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-tunnel/engine"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/renderer"
	"github.com/spf13/cobra"
)

type renderOptions struct {
	scene  sceneFlags
	frames uint64
	every  uint64
	out    string
	size   string
	gif    string
}

func newRenderCommand() *cobra.Command {
	o := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Run the frame loop offscreen and write frames as PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd)
		},
	}
	o.scene.register(cmd)
	cmd.Flags().Uint64Var(&o.frames, "frames", 120, "number of frames to run")
	cmd.Flags().Uint64Var(&o.every, "every", 30, "write every n-th frame, 0 writes none")
	cmd.Flags().StringVarP(&o.out, "out", "o", "frames", "output directory for PNG files")
	cmd.Flags().StringVar(&o.size, "size", "640x360", "output size WIDTHxHEIGHT")
	cmd.Flags().StringVar(&o.gif, "gif", "", "also write the written frames as an animated GIF")
	return cmd
}

func (o *renderOptions) run(cmd *cobra.Command) error {
	if o.frames == 0 {
		return fmt.Errorf("--frames must be positive")
	}
	w, h, err := parseSize(o.size)
	if err != nil {
		return err
	}
	s, err := o.scene.build(cmd, w, h)
	if err != nil {
		return err
	}
	if o.every > 0 {
		if err := os.MkdirAll(o.out, 0o755); err != nil {
			return err
		}
	}

	r, err := renderer.NewRasterRenderer(w, h)
	if err != nil {
		return err
	}
	defer r.Close()

	var rec *renderer.GIFRecorder
	if o.gif != "" {
		rec = renderer.NewGIFRecorder(4)
	}
	var writeErr error
	written := 0
	e, err := engine.NewEngine(
		engine.WithScene(s),
		engine.WithRenderer(r),
		engine.WithUnthrottled(true),
		engine.WithFrameLimit(o.frames),
		engine.WithTickCallback(func(frame uint64, _ float32) {
			if o.every == 0 || frame%o.every != 0 || writeErr != nil {
				return
			}
			file := filepath.Join(o.out, fmt.Sprintf("%s-%05d.png", s.Name(), frame))
			if writeErr = r.SavePNG(file); writeErr != nil {
				return
			}
			written++
			if rec != nil {
				rec.Capture(r)
			}
		}),
	)
	if err != nil {
		return err
	}

	if err := e.Run(cmd.Context()); err != nil {
		return err
	}
	if writeErr != nil {
		return writeErr
	}
	if rec != nil && rec.Len() > 0 {
		if err := rec.Save(o.gif); err != nil {
			return err
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d frames, %d written to %s, %d errors\n",
		s.Name(), e.Frames(), written, o.out, e.Errors())
	return nil
}
