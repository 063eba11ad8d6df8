package pfor_test

import (
	"sync/atomic"
	"testing"

	"github.com/nimaft97/parallel-vertex-clustering/weld/internal/pfor"
)

func TestForCoversEveryIndexExactlyOnce(t *testing.T) {
	const n = 997 // prime, deliberately not a multiple of any worker count
	var hits [n]int32

	pfor.For(n, 8, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			atomic.AddInt32(&hits[i], 1)
		}
	})

	for i, h := range hits {
		if h != 1 {
			t.Fatalf("index %d touched %d times, want 1", i, h)
		}
	}
}

func TestForSingleWorker(t *testing.T) {
	var lo, hi int
	pfor.For(10, 1, func(l, h int) { lo, hi = l, h })
	if lo != 0 || hi != 10 {
		t.Fatalf("expected [0,10), got [%d,%d)", lo, hi)
	}
}

func TestChunksPartitionIsContiguousAndComplete(t *testing.T) {
	chunks := pfor.Chunks(100, 7)
	if len(chunks) == 0 {
		t.Fatal("expected at least one chunk")
	}
	if chunks[0][0] != 0 {
		t.Fatalf("expected first chunk to start at 0, got %v", chunks[0])
	}
	if last := chunks[len(chunks)-1]; last[1] != 100 {
		t.Fatalf("expected last chunk to end at 100, got %v", last)
	}
	for i := 1; i < len(chunks); i++ {
		if chunks[i][0] != chunks[i-1][1] {
			t.Fatalf("chunks not contiguous: %v then %v", chunks[i-1], chunks[i])
		}
	}
}

func TestForChunksPassesChunkIndex(t *testing.T) {
	chunks := pfor.Chunks(10, 3)
	seen := make([]bool, len(chunks))
	pfor.ForChunks(chunks, func(chunkIndex, lo, hi int) {
		seen[chunkIndex] = true
	})
	for i, ok := range seen {
		if !ok {
			t.Fatalf("chunk index %d never invoked", i)
		}
	}
}
