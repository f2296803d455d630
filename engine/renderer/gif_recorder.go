package renderer

import (
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"os"
)

// GIFRecorder collects raster frames into an animated GIF.
// Frames are dithered to the Plan 9 palette.
type GIFRecorder struct {
	images []*image.Paletted
	delays []int
	delay  int
}

// NewGIFRecorder creates an empty recorder.
//
// Parameters:
//   - delay: the per-frame delay in 100ths of a second, at least 1
//
// Returns:
//   - *GIFRecorder: the recorder
func NewGIFRecorder(delay int) *GIFRecorder {
	return &GIFRecorder{delay: max(delay, 1)}
}

// Capture appends the renderer's last presented frame.
//
// Parameters:
//   - r: the raster renderer to read from
func (g *GIFRecorder) Capture(r RasterRenderer) {
	img := r.Image()
	pal := image.NewPaletted(img.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(pal, img.Bounds(), img, img.Bounds().Min)
	g.images = append(g.images, pal)
	g.delays = append(g.delays, g.delay)
}

// Len returns the number of captured frames.
func (g *GIFRecorder) Len() int {
	return len(g.images)
}

// Encode writes the looping animation.
//
// Parameters:
//   - w: the destination
//
// Returns:
//   - error: an error if nothing was captured or encoding failed
func (g *GIFRecorder) Encode(w io.Writer) error {
	if len(g.images) == 0 {
		return errors.New("gif: no frames captured")
	}
	return gif.EncodeAll(w, &gif.GIF{
		Image:     g.images,
		Delay:     g.delays,
		LoopCount: 0,
	})
}

// Save writes the animation to a file.
//
// Parameters:
//   - file: the destination path
//
// Returns:
//   - error: the create or encode error, if any
func (g *GIFRecorder) Save(file string) error {
	out, err := os.Create(file)
	if err != nil {
		return err
	}
	if err := g.Encode(out); err != nil {
		_ = out.Close()
		return fmt.Errorf("save %s: %w", file, err)
	}
	return out.Close()
}
