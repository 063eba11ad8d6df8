package meshgen_test

import (
	"testing"

	"github.com/nimaft97/parallel-vertex-clustering/weld/forward"
	"github.com/nimaft97/parallel-vertex-clustering/weld/kdindex"
	"github.com/nimaft97/parallel-vertex-clustering/weld/meshgen"
)

func TestIcosphereProducesDisjointTriangleSoup(t *testing.T) {
	mesh, err := meshgen.Icosphere(1.0, 2)
	if err != nil {
		t.Fatal(err)
	}
	if mesh.NumTriangles() == 0 {
		t.Fatal("expected at least one triangle")
	}
	if mesh.NumVertices() != 3*mesh.NumTriangles() {
		t.Fatalf("expected disjoint triangle soup (3 vertices per triangle), got %d vertices for %d triangles",
			mesh.NumVertices(), mesh.NumTriangles())
	}
	if err := mesh.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestIcosphereMeshWeldsDownSharedCorners(t *testing.T) {
	mesh, err := meshgen.Icosphere(1.0, 2)
	if err != nil {
		t.Fatal(err)
	}
	idx, err := kdindex.Build(mesh.Vertices)
	if err != nil {
		t.Fatal(err)
	}
	welded, err := forward.Weld(mesh.Clone(), idx, 1e-6, forward.Config{Workers: 4})
	if err != nil {
		t.Fatal(err)
	}
	if welded.NumVertices() >= mesh.NumVertices() {
		t.Fatalf("expected welding to reduce shared subdivision corners: before=%d after=%d",
			mesh.NumVertices(), welded.NumVertices())
	}
}

func TestIcosphereRejectsInvalidArgs(t *testing.T) {
	if _, err := meshgen.Icosphere(0, 2); err == nil {
		t.Fatal("expected an error for a non-positive radius")
	}
	if _, err := meshgen.Icosphere(1.0, -1); err == nil {
		t.Fatal("expected an error for negative subdivisions")
	}
}

func TestGridProducesDisjointTriangleSoup(t *testing.T) {
	mesh, err := meshgen.Grid(4, 4, 1.0)
	if err != nil {
		t.Fatal(err)
	}
	wantTriangles := 2 * 4 * 4
	if mesh.NumTriangles() != wantTriangles {
		t.Fatalf("expected %d triangles, got %d", wantTriangles, mesh.NumTriangles())
	}
	if mesh.NumVertices() != 3*mesh.NumTriangles() {
		t.Fatalf("expected disjoint triangle soup, got %d vertices for %d triangles",
			mesh.NumVertices(), mesh.NumTriangles())
	}
	if err := mesh.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestGridMeshWeldsDownSharedCorners(t *testing.T) {
	mesh, err := meshgen.Grid(10, 10, 1.0)
	if err != nil {
		t.Fatal(err)
	}
	idx, err := kdindex.Build(mesh.Vertices)
	if err != nil {
		t.Fatal(err)
	}
	welded, err := forward.Weld(mesh.Clone(), idx, 1e-6, forward.Config{Workers: 4})
	if err != nil {
		t.Fatal(err)
	}
	wantVertices := 11 * 11 // (nx+1) x (ny+1) point grid
	if welded.NumVertices() != wantVertices {
		t.Fatalf("expected welding to collapse the grid to %d distinct corners, got %d",
			wantVertices, welded.NumVertices())
	}
}
