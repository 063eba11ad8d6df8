package epsilon_test

import (
	"math"
	"testing"

	"github.com/nimaft97/parallel-vertex-clustering/weld"
	"github.com/nimaft97/parallel-vertex-clustering/weld/epsilon"
)

// gridMesh builds a 1D grid of n vertices spaced step apart, matching the
// epsilon finder's grid fixture scenario.
func gridMesh(n int, step float64) *weld.Mesh {
	vertices := make([]weld.Vec3, n)
	for i := 0; i < n; i++ {
		vertices[i] = weld.Vec3{X: float64(i) * step, Y: 0, Z: 0}
	}
	return &weld.Mesh{Vertices: vertices}
}

func TestFindConvergesOnGrid(t *testing.T) {
	mesh := gridMesh(1000, 0.01)
	cfg := epsilon.DefaultConfig()
	cfg.Workers = 4
	finder := epsilon.NewFinder(mesh, cfg)

	const target = 0.5
	eps, err := finder.Find(target)
	if err != nil {
		t.Fatal(err)
	}
	if eps < 0.009 || eps > 0.03 {
		t.Fatalf("expected epsilon roughly in [0.01, 0.02], got %g", eps)
	}
	if len(finder.Trace()) == 0 {
		t.Fatal("expected a non-empty search trace")
	}
}

func TestFindReportsOutOfRange(t *testing.T) {
	// A mesh with only two vertices very far apart never reaches a high
	// reduction rate within the search cap.
	mesh := &weld.Mesh{Vertices: []weld.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 1e6, Y: 0, Z: 0},
	}}
	cfg := epsilon.DefaultConfig()
	cfg.EpsilonSearchCap = 1.0
	finder := epsilon.NewFinder(mesh, cfg)

	_, err := finder.Find(0.9)
	if err == nil {
		t.Fatal("expected an out-of-range error")
	}
}

func TestFindEmptyMesh(t *testing.T) {
	finder := epsilon.NewFinder(&weld.Mesh{}, epsilon.DefaultConfig())
	_, err := finder.Find(0.5)
	if err != weld.ErrEmptyIndex {
		t.Fatalf("expected ErrEmptyIndex, got %v", err)
	}
}

func TestFindDoesNotMutateSourceMesh(t *testing.T) {
	mesh := gridMesh(50, 0.1)
	before := append([]weld.Vec3(nil), mesh.Vertices...)

	finder := epsilon.NewFinder(mesh, epsilon.DefaultConfig())
	if _, err := finder.Find(0.3); err != nil {
		t.Fatal(err)
	}
	for i := range before {
		if !(before[i] == mesh.Vertices[i]) {
			t.Fatalf("source mesh mutated at vertex %d", i)
		}
	}
}

func TestFindVariantAsyncAgreesApproximately(t *testing.T) {
	mesh := gridMesh(200, 0.05)
	cfgForward := epsilon.DefaultConfig()
	cfgAsync := epsilon.DefaultConfig()
	cfgAsync.Variant = epsilon.VariantForwardAsync

	epsForward, err := epsilon.NewFinder(mesh, cfgForward).Find(0.4)
	if err != nil {
		t.Fatal(err)
	}
	epsAsync, err := epsilon.NewFinder(mesh, cfgAsync).Find(0.4)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(epsForward-epsAsync) > 0.05 {
		t.Fatalf("variants disagree too much: forward=%g async=%g", epsForward, epsAsync)
	}
}
