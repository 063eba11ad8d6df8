package kdindex_test

import (
	"testing"

	"github.com/nimaft97/parallel-vertex-clustering/weld"
	"github.com/nimaft97/parallel-vertex-clustering/weld/kdindex"
)

func TestBuildEmptyReturnsError(t *testing.T) {
	_, err := kdindex.Build(nil)
	if err != weld.ErrEmptyIndex {
		t.Fatalf("expected ErrEmptyIndex, got %v", err)
	}
}

func TestSearchRadius(t *testing.T) {
	points := []weld.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 0.1, Y: 0, Z: 0},
		{X: 10, Y: 0, Z: 0},
	}
	idx, err := kdindex.Build(points)
	if err != nil {
		t.Fatal(err)
	}
	ids := idx.SearchRadius(points[0], 0.2)
	if len(ids) != 2 || ids[0] != 0 || ids[1] != 1 {
		t.Fatalf("expected ids [0 1], got %v", ids)
	}
}

func TestSearchRadiusSplit(t *testing.T) {
	points := []weld.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 2, Y: 0, Z: 0},
	}
	idx, err := kdindex.Build(points)
	if err != nil {
		t.Fatal(err)
	}
	// From vertex 1's perspective, within radius 1.0: 0, 1, 2 are all in range.
	numSmallerOrEqual, bigger := idx.SearchRadiusSplit(points[1], 1.0, 1)
	if numSmallerOrEqual != 2 {
		t.Fatalf("expected 2 neighbors with id <= 1, got %d", numSmallerOrEqual)
	}
	if len(bigger) != 1 || bigger[0] != 2 {
		t.Fatalf("expected bigger ids [2], got %v", bigger)
	}
}
