package renderer

import (
	"errors"
	"image"
	"io"
	"math"
	"slices"

	"github.com/Carmen-Shannon/oxy-tunnel/common"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/light"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/scene"
	"github.com/gogpu/gg"
)

// minPointRadius keeps far away points visible as single pixels.
const minPointRadius = 0.6

// rasterRendererBackendImpl draws frames on the CPU with gg. Primitives are projected with the
// frame's view-projection matrix and painted far to near.
type rasterRendererBackendImpl struct {
	dc         *gg.Context
	background common.Color

	mesh     Mesh
	uploaded bool

	// scratch buffers reused between frames
	clip []clipVertex
	prim []primitive
}

type clipVertex struct {
	screen [2]float64
	// w is the clip-space w, the distance along the view axis.
	w       float32
	visible bool
}

type primitive struct {
	depth  float32
	first  int // index into mesh.Indices
	count  int
	color  common.Color
	radius float64
}

var _ RendererBackend = &rasterRendererBackendImpl{}

func newRasterRendererBackend(width, height int, background common.Color) (*rasterRendererBackendImpl, error) {
	if width <= 0 || height <= 0 {
		return nil, common.NewConfigurationError("size", [2]int{width, height}, "must be positive")
	}
	return &rasterRendererBackendImpl{
		dc:         gg.NewContext(width, height),
		background: background,
	}, nil
}

func (b *rasterRendererBackendImpl) Upload(mesh Mesh) error {
	b.mesh = mesh
	b.uploaded = true
	b.clip = make([]clipVertex, len(mesh.Vertices))
	return nil
}

func (b *rasterRendererBackendImpl) Configure(width, height int) error {
	return b.dc.Resize(width, height)
}

func (b *rasterRendererBackendImpl) Release() {
	_ = b.dc.Close()
}

func (b *rasterRendererBackendImpl) Draw(f scene.Frame) error {
	if !b.uploaded {
		return errors.New("nothing uploaded")
	}
	b.dc.ClearWithColor(b.background.RGBA())

	b.project(f)
	b.collect(f)

	// Painter's order: farthest first.
	slices.SortStableFunc(b.prim, func(x, y primitive) int {
		switch {
		case x.depth > y.depth:
			return -1
		case x.depth < y.depth:
			return 1
		}
		return 0
	})

	var firstErr error
	for _, p := range b.prim {
		if err := b.paint(p); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// project moves every mesh vertex into screen space. Vertices behind the near plane are marked invisible.
func (b *rasterRendererBackendImpl) project(f scene.Frame) {
	w, h := float64(b.dc.Width()), float64(b.dc.Height())
	for i, v := range b.mesh.Vertices {
		c := common.TransformPoint(f.ViewProjection[:], v.Position)
		cv := clipVertex{w: c[3]}
		if c[3] > 1e-6 && c[2] >= 0 {
			ndcX, ndcY := float64(c[0]/c[3]), float64(c[1]/c[3])
			cv.screen = [2]float64{(ndcX*0.5 + 0.5) * w, (0.5 - ndcY*0.5) * h}
			cv.visible = true
		}
		b.clip[i] = cv
	}
}

// collect groups the mesh indices into shaded primitives.
func (b *rasterRendererBackendImpl) collect(f scene.Frame) {
	b.prim = b.prim[:0]
	idx := b.mesh.Indices

	stride := 1
	switch b.mesh.Topology {
	case TopologyLines:
		stride = 2
	case TopologyTriangles:
		stride = 3
	}

	// Focal length in pixels, used to size points in perspective.
	focal := float64(f.Projection[5]) * float64(b.dc.Height()) / 2

	for first := 0; first+stride <= len(idx); first += stride {
		var depth float32
		var centroid [3]float32
		var color [4]float32
		visible := true
		for k := range stride {
			vi := idx[first+k]
			cv := b.clip[vi]
			if !cv.visible {
				visible = false
				break
			}
			v := b.mesh.Vertices[vi]
			depth += cv.w
			for j := range 3 {
				centroid[j] += v.Position[j]
			}
			for j := range 4 {
				color[j] += v.Color[j]
			}
		}
		if !visible {
			continue
		}
		n := float32(stride)
		depth /= n
		for j := range 3 {
			centroid[j] /= n
		}
		if stride == 1 && !f.Frustum.ContainsSphere(centroid, 0) {
			continue
		}

		base := common.Color{R: color[0] / n, G: color[1] / n, B: color[2] / n, A: color[3] / n}
		p := primitive{
			depth: depth,
			first: first,
			count: stride,
			color: b.shade(base, centroid, depth, f),
		}
		if stride == 1 {
			p.radius = max(float64(f.PointSize)*focal/float64(depth), minPointRadius)
		}
		b.prim = append(b.prim, p)
	}
}

// shade applies the point lights and the exponential fog to a base color.
func (b *rasterRendererBackendImpl) shade(base common.Color, pos [3]float32, dist float32, f scene.Frame) common.Color {
	lit := lighting(base, pos, f.Lights, f.Ambient)
	if f.FogDensity <= 0 {
		return lit
	}
	d := float64(f.FogDensity * dist)
	fog := float32(1 - math.Exp(-d*d))
	return common.Color{
		R: lit.R + (b.background.R-lit.R)*fog,
		G: lit.G + (b.background.G-lit.G)*fog,
		B: lit.B + (b.background.B-lit.B)*fog,
		A: lit.A,
	}
}

// lighting scales a color by the ambient term plus every light's attenuated color.
// Without lights the color is returned unchanged.
func lighting(base common.Color, pos [3]float32, lights []light.PointLight, ambient float32) common.Color {
	if len(lights) == 0 {
		return base
	}
	r, g, bl := ambient, ambient, ambient
	for _, l := range lights {
		a := l.Attenuation(pos)
		r += a * l.Color[0]
		g += a * l.Color[1]
		bl += a * l.Color[2]
	}
	clamp := func(v float32) float32 {
		return min(max(v, 0), 1)
	}
	return common.Color{R: clamp(base.R * r), G: clamp(base.G * g), B: clamp(base.B * bl), A: base.A}
}

func (b *rasterRendererBackendImpl) paint(p primitive) error {
	c := p.color.RGBA()
	b.dc.SetRGBA(c.R, c.G, c.B, c.A)
	idx := b.mesh.Indices[p.first : p.first+p.count]

	switch p.count {
	case 1:
		s := b.clip[idx[0]].screen
		b.dc.DrawPoint(s[0], s[1], p.radius)
		return b.dc.Fill()
	case 2:
		s0, s1 := b.clip[idx[0]].screen, b.clip[idx[1]].screen
		b.dc.SetLineWidth(1)
		b.dc.DrawLine(s0[0], s0[1], s1[0], s1[1])
		return b.dc.Stroke()
	default:
		s0, s1, s2 := b.clip[idx[0]].screen, b.clip[idx[1]].screen, b.clip[idx[2]].screen
		b.dc.MoveTo(s0[0], s0[1])
		b.dc.LineTo(s1[0], s1[1])
		b.dc.LineTo(s2[0], s2[1])
		b.dc.ClosePath()
		return b.dc.Fill()
	}
}

func (b *rasterRendererBackendImpl) image() image.Image {
	return b.dc.Image()
}

func (b *rasterRendererBackendImpl) encodePNG(w io.Writer) error {
	return b.dc.EncodePNG(w)
}

func (b *rasterRendererBackendImpl) savePNG(file string) error {
	return b.dc.SavePNG(file)
}
