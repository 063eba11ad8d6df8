package cluster_test

import (
	"testing"

	"github.com/nimaft97/parallel-vertex-clustering/weld"
	"github.com/nimaft97/parallel-vertex-clustering/weld/cluster"
)

func TestReduceSingletons(t *testing.T) {
	vertices := []weld.Vec3{{X: 0}, {X: 1}, {X: 2}}
	parent := []int32{0, 1, 2}

	newVertices, pid2ccid := cluster.Reduce(vertices, parent)
	if len(newVertices) != 3 {
		t.Fatalf("expected 3 clusters, got %d", len(newVertices))
	}
	for i, ccid := range pid2ccid {
		if ccid != int32(i) {
			t.Fatalf("expected identity mapping, pid2ccid[%d] = %d", i, ccid)
		}
	}
}

func TestReduceRunningMean(t *testing.T) {
	vertices := []weld.Vec3{{X: 0}, {X: 1}, {X: 2}}
	parent := []int32{0, 0, 0}

	newVertices, pid2ccid := cluster.Reduce(vertices, parent)
	if len(newVertices) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(newVertices))
	}
	if got, want := newVertices[0].X, 1.0; got != want {
		t.Fatalf("expected mean X = %v, got %v", want, got)
	}
	for _, ccid := range pid2ccid {
		if ccid != 0 {
			t.Fatalf("expected all pid2ccid = 0, got %v", pid2ccid)
		}
	}
}
