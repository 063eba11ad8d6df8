// Package meshgen builds weld.Mesh fixtures for testing and benchmarking
// the welder, as disjoint triangle soup: every triangle corner is its own
// vertex, even where two triangles share an edge in space, which is exactly
// the kind of input the welder exists to repair.
package meshgen

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/nimaft97/parallel-vertex-clustering/weld"
	"github.com/nimaft97/parallel-vertex-clustering/weld/plyio"
)

// Load reads a mesh fixture from a PLY file on disk. It is a thin
// convenience wrapper around plyio.Read for callers that keep their
// fixtures as testdata files rather than generating them procedurally.
func Load(path string) (*weld.Mesh, error) {
	return plyio.Read(path)
}

// icosahedron returns the 12 vertices and 20 triangular faces of a regular
// icosahedron inscribed in the unit sphere, built from the golden ratio
// construction: the vertices are the corners of three mutually orthogonal
// golden rectangles.
func icosahedron() ([]r3.Vec, [][3]int32) {
	const t = 1.6180339887498949 // golden ratio

	raw := [12][3]float64{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}
	vertices := make([]r3.Vec, 12)
	for i, v := range raw {
		vertices[i] = r3.Unit(r3.Vec{X: v[0], Y: v[1], Z: v[2]})
	}

	faces := [][3]int32{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
	return vertices, faces
}

// edgeKey identifies an undirected edge by its two (unordered) endpoint ids.
type edgeKey struct{ a, b int32 }

// subdivide performs one round of 1-to-4 triangle subdivision on a unit
// icosphere mesh, projecting every new vertex back onto the unit sphere.
// Edge midpoints are cached so that subdividing a shared edge from either
// adjacent face produces the same new vertex, keeping the intermediate
// (pre-flatten) mesh properly indexed.
func subdivide(vertices []r3.Vec, faces [][3]int32) ([]r3.Vec, [][3]int32) {
	cache := make(map[edgeKey]int32, len(faces)*3)
	mid := func(a, b int32) int32 {
		key := edgeKey{a, b}
		if key.a > key.b {
			key.a, key.b = key.b, key.a
		}
		if v, ok := cache[key]; ok {
			return v
		}
		v := int32(len(vertices))
		vertices = append(vertices, r3.Unit(r3.Scale(0.5, r3.Add(vertices[a], vertices[b]))))
		cache[key] = v
		return v
	}

	next := make([][3]int32, 0, len(faces)*4)
	for _, f := range faces {
		ab := mid(f[0], f[1])
		bc := mid(f[1], f[2])
		ca := mid(f[2], f[0])
		next = append(next,
			[3]int32{f[0], ab, ca},
			[3]int32{f[1], bc, ab},
			[3]int32{f[2], ca, bc},
			[3]int32{ab, bc, ca},
		)
	}
	return vertices, next
}

// Icosphere builds a disjoint-triangle-soup mesh approximating a sphere of
// the given radius, by subdividing a regular icosahedron subdivisions times
// and re-projecting every vertex onto the sphere. The subdivision keeps
// shared corners indexed internally; flattening to disjoint triangle soup
// happens only in the final pass, so every triangle still comes out with
// its own 3 fresh vertices for the welder to collapse back down.
func Icosphere(radius float64, subdivisions int) (*weld.Mesh, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("meshgen: radius must be positive, got %g", radius)
	}
	if subdivisions < 0 {
		return nil, fmt.Errorf("meshgen: subdivisions must be >= 0, got %d", subdivisions)
	}

	vertices, faces := icosahedron()
	for i := 0; i < subdivisions; i++ {
		vertices, faces = subdivide(vertices, faces)
	}

	mesh := &weld.Mesh{
		Vertices:  make([]weld.Vec3, 0, 3*len(faces)),
		Triangles: make([][3]int32, len(faces)),
	}
	for i, f := range faces {
		base := int32(len(mesh.Vertices))
		mesh.Vertices = append(mesh.Vertices,
			r3.Scale(radius, vertices[f[0]]),
			r3.Scale(radius, vertices[f[1]]),
			r3.Scale(radius, vertices[f[2]]),
		)
		mesh.Triangles[i] = [3]int32{base, base + 1, base + 2}
	}
	return mesh, nil
}

// Grid builds a disjoint-triangle-soup mesh tessellating an nx-by-ny planar
// grid of unit cells at the given spacing, each cell split into two
// triangles. Its vertex count is predictable: 6*nx*ny vertices before
// welding, collapsing to the (nx+1)-by-(ny+1) grid corners once shared
// corners are clustered.
func Grid(nx, ny int, spacing float64) (*weld.Mesh, error) {
	if nx < 1 || ny < 1 {
		return nil, fmt.Errorf("meshgen: grid dimensions must be >= 1, got %dx%d", nx, ny)
	}
	if spacing <= 0 {
		return nil, fmt.Errorf("meshgen: spacing must be positive, got %g", spacing)
	}

	corner := func(i, j int) weld.Vec3 {
		return weld.Vec3{X: float64(i) * spacing, Y: float64(j) * spacing, Z: 0}
	}

	mesh := &weld.Mesh{
		Vertices:  make([]weld.Vec3, 0, 6*nx*ny),
		Triangles: make([][3]int32, 0, 2*nx*ny),
	}
	addTriangle := func(a, b, c weld.Vec3) {
		base := int32(len(mesh.Vertices))
		mesh.Vertices = append(mesh.Vertices, a, b, c)
		mesh.Triangles = append(mesh.Triangles, [3]int32{base, base + 1, base + 2})
	}
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			c00, c10 := corner(i, j), corner(i+1, j)
			c01, c11 := corner(i, j+1), corner(i+1, j+1)
			addTriangle(c00, c10, c11)
			addTriangle(c00, c11, c01)
		}
	}
	return mesh, nil
}
