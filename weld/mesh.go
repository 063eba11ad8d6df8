// Package weld implements parallel vertex clustering (welding) of 3D
// triangle meshes: vertices within a distance threshold of one another are
// collapsed into a single representative vertex and triangles are rewritten
// to reference the collapsed vertices.
package weld

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vec3 is a vertex position.
type Vec3 = r3.Vec

// Mesh is a triangle mesh: an ordered sequence of vertex positions plus an
// ordered sequence of triangles indexing those positions. Triangles are not
// deduplicated and ids are dense, zero-based, and fixed for the duration of
// one welding call.
type Mesh struct {
	Vertices  []Vec3
	Triangles [][3]int32
}

// NumVertices returns the number of vertices in the mesh.
func (m *Mesh) NumVertices() int { return len(m.Vertices) }

// NumTriangles returns the number of triangles in the mesh.
func (m *Mesh) NumTriangles() int { return len(m.Triangles) }

// Clone returns a deep copy of the mesh. The epsilon finder clones its mesh
// before each welding probe.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Vertices:  make([]Vec3, len(m.Vertices)),
		Triangles: make([][3]int32, len(m.Triangles)),
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Triangles, m.Triangles)
	return clone
}

// Validate checks the mesh invariant that every triangle index refers to a
// valid vertex id.
func (m *Mesh) Validate() error {
	n := int32(len(m.Vertices))
	for _, tri := range m.Triangles {
		for _, idx := range tri {
			if idx < 0 || idx >= n {
				return ErrTriangleIndexOutOfRange
			}
		}
	}
	return nil
}

var (
	// ErrEmptyIndex is returned when a SpatialIndex is built over zero points.
	ErrEmptyIndex = errors.New("weld: spatial index built over empty point set")
	// ErrTriangleIndexOutOfRange is returned when a triangle references a
	// vertex id outside the mesh's vertex sequence.
	ErrTriangleIndexOutOfRange = errors.New("weld: triangle references vertex id out of range")
	// ErrEpsilonOutOfRange is returned by the epsilon finder when the linear
	// bracket phase exhausts its search cap without bracketing the target
	// reduction rate.
	ErrEpsilonOutOfRange = errors.New("weld: no epsilon in search range achieves the target reduction rate")
)
