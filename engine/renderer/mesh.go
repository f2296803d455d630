package renderer

import (
	"github.com/Carmen-Shannon/oxy-tunnel/common"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/tube"
)

// MeshTopology is the primitive type a Mesh is drawn with.
type MeshTopology int

const (
	// TopologyPoints draws every index as one point.
	TopologyPoints MeshTopology = iota
	// TopologyLines draws every index pair as one line segment.
	TopologyLines
	// TopologyTriangles draws every index triple as one triangle.
	TopologyTriangles
)

// GPUVertex is the vertex layout shared by every tube pipeline.
// Size: 28 bytes (position vec3<f32> at 0, color vec4<f32> at 12).
type GPUVertex struct {
	Position [3]float32
	Color    [4]float32
}

// Mesh is a geometry flattened into one vertex and one index buffer.
type Mesh struct {
	Vertices []GPUVertex
	Indices  []uint32
	Topology MeshTopology
}

// cubeCorners and cubeFaces describe a unit cube centered on the origin, counter-clockwise from outside.
var cubeCorners = [8][3]float32{
	{-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5},
	{0.5, 0.5, -0.5}, {-0.5, 0.5, -0.5},
	{-0.5, -0.5, 0.5}, {0.5, -0.5, 0.5},
	{0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5},
}

var cubeFaces = [6][4]int{
	{4, 5, 6, 7}, // +Z
	{1, 0, 3, 2}, // -Z
	{5, 1, 2, 6}, // +X
	{0, 4, 7, 3}, // -X
	{3, 7, 6, 2}, // +Y
	{0, 1, 5, 4}, // -Y
}

// BuildMesh flattens a tube geometry for upload. Points keep one vertex per tube vertex, line
// loops become closed line lists, surfaces keep their triangle list and instances are expanded
// into one transformed cube per instance.
//
// Parameters:
//   - g: the geometry to flatten
//
// Returns:
//   - Mesh: the flattened mesh
func BuildMesh(g tube.Geometry) Mesh {
	switch g.Representation() {
	case tube.RepresentLineLoop:
		return Mesh{Vertices: gpuVertices(g.Vertices()), Indices: lineListIndices(g.LineLoops()), Topology: TopologyLines}
	case tube.RepresentSurface:
		return Mesh{Vertices: gpuVertices(g.Vertices()), Indices: g.Triangles(), Topology: TopologyTriangles}
	case tube.RepresentInstances:
		return instanceMesh(g.Instances())
	default:
		verts := gpuVertices(g.Vertices())
		indices := make([]uint32, len(verts))
		for i := range indices {
			indices[i] = uint32(i)
		}
		return Mesh{Vertices: verts, Indices: indices, Topology: TopologyPoints}
	}
}

func gpuVertices(vertices []tube.Vertex) []GPUVertex {
	out := make([]GPUVertex, len(vertices))
	for i, v := range vertices {
		out[i] = GPUVertex{
			Position: common.Vec3f(v.Position),
			Color:    [4]float32{v.Color.R, v.Color.G, v.Color.B, v.Color.A},
		}
	}
	return out
}

// lineListIndices turns closed loops (first index repeated at the end) into segment pairs.
func lineListIndices(loops [][]uint32) []uint32 {
	var out []uint32
	for _, loop := range loops {
		for i := 0; i+1 < len(loop); i++ {
			out = append(out, loop[i], loop[i+1])
		}
	}
	return out
}

func instanceMesh(instances []tube.Instance) Mesh {
	m := Mesh{
		Vertices: make([]GPUVertex, 0, len(instances)*8),
		Indices:  make([]uint32, 0, len(instances)*36),
		Topology: TopologyTriangles,
	}
	var model [16]float32
	for _, inst := range instances {
		common.BuildModelMatrix(model[:], common.Vec3f(inst.Position), common.Vec3f(inst.Rotation), float32(inst.Scale))
		base := uint32(len(m.Vertices))
		color := [4]float32{inst.Color.R, inst.Color.G, inst.Color.B, inst.Color.A}
		for _, c := range cubeCorners {
			p := common.TransformPoint(model[:], c)
			m.Vertices = append(m.Vertices, GPUVertex{Position: [3]float32{p[0], p[1], p[2]}, Color: color})
		}
		for _, f := range cubeFaces {
			a, b, c, d := base+uint32(f[0]), base+uint32(f[1]), base+uint32(f[2]), base+uint32(f[3])
			m.Indices = append(m.Indices, a, b, c, a, c, d)
		}
	}
	return m
}
