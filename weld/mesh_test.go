package weld_test

import (
	"testing"

	"github.com/nimaft97/parallel-vertex-clustering/weld"
)

func TestMeshCloneIsIndependent(t *testing.T) {
	m := &weld.Mesh{
		Vertices:  []weld.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}},
		Triangles: [][3]int32{{0, 0, 1}},
	}
	clone := m.Clone()
	clone.Vertices[0].X = 99
	clone.Triangles[0][0] = 1

	if m.Vertices[0].X != 0 {
		t.Fatalf("mutating clone mutated original vertex: %v", m.Vertices[0])
	}
	if m.Triangles[0][0] != 0 {
		t.Fatalf("mutating clone mutated original triangle: %v", m.Triangles[0])
	}
}

func TestMeshValidate(t *testing.T) {
	ok := &weld.Mesh{
		Vertices:  []weld.Vec3{{}, {}},
		Triangles: [][3]int32{{0, 1, 0}},
	}
	if err := ok.Validate(); err != nil {
		t.Fatalf("expected valid mesh, got %v", err)
	}

	bad := &weld.Mesh{
		Vertices:  []weld.Vec3{{}},
		Triangles: [][3]int32{{0, 1, 0}},
	}
	if err := bad.Validate(); err != weld.ErrTriangleIndexOutOfRange {
		t.Fatalf("expected ErrTriangleIndexOutOfRange, got %v", err)
	}
}
