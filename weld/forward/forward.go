// Package forward implements the two parallel welding variants: the
// synchronous "forward" algorithm (Weld) and the asynchronous variant that
// folds cluster reduction into the same wavefront (WeldAsync).
//
// Both are grounded on TriangleMeshPWeld::merge_vertices_forward and
// merge_vertices_forward_async from the original source, translated from
// OpenMP's #pragma omp parallel/barrier/single/atomic idiom to goroutines,
// sync/atomic, and a per-wave sync.WaitGroup barrier (weld/internal/pfor).
package forward

import (
	"sync/atomic"

	"github.com/nimaft97/parallel-vertex-clustering/weld"
	"github.com/nimaft97/parallel-vertex-clustering/weld/cluster"
	"github.com/nimaft97/parallel-vertex-clustering/weld/internal/pfor"
)

// SpatialIndex is the subset of kdindex.Index the welder needs, kept as an
// interface so callers can supply their own index implementation.
type SpatialIndex interface {
	SearchRadiusSplit(q weld.Vec3, r float64, self int32) (numSmallerOrEqual int, biggerIDs []int32)
}

// Config controls the scheduling of a single welding call.
type Config struct {
	// Workers is the number of goroutines used for each parallel-for
	// section. Zero or negative means runtime.NumCPU(). Spec.md §5: "a
	// fixed pool of worker threads, configured once per welder call."
	Workers int
}

// wavefront holds the per-vertex state shared by both welding variants:
// parent pointers, remaining-smaller-neighbor counters, and each vertex's
// read-only list of in-range bigger-id neighbors.
type wavefront struct {
	parent []atomic.Int32
	rem    []atomic.Int32
	bigger [][]int32
}

func buildWavefront(mesh *weld.Mesh, index SpatialIndex, eps float64, workers int) *wavefront {
	n := mesh.NumVertices()
	wf := &wavefront{
		parent: make([]atomic.Int32, n),
		rem:    make([]atomic.Int32, n),
		bigger: make([][]int32, n),
	}
	pfor.For(n, workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			numSmallerOrEqual, biggerIDs := index.SearchRadiusSplit(mesh.Vertices[i], eps, int32(i))
			wf.bigger[i] = biggerIDs
			wf.rem[i].Store(int32(numSmallerOrEqual - 1))
			wf.parent[i].Store(int32(i))
		}
	})
	return wf
}

// runWave executes one iteration of the wave loop over [0, n), invoking
// onActivate for every vertex that transitions from READY to EMITTED this
// wave. It returns whether any vertex remains pending (should_continue).
func runWave(wf *wavefront, n, workers int, onActivate func(chunkIndex, i int, isCentroid bool)) bool {
	var shouldContinue atomic.Bool
	chunks := pfor.Chunks(n, workers)
	pfor.ForChunks(chunks, func(chunkIndex, lo, hi int) {
		for i := lo; i < hi; i++ {
			if wf.rem[i].Load() != 0 {
				continue // either still pending, or already emitted
			}
			wf.rem[i].Add(-1) // this is now the active source for vertex i
			isCentroid := wf.parent[i].Load() == int32(i)
			for _, j := range wf.bigger[i] {
				if isCentroid && wf.rem[j].Load() > 0 {
					claim(wf, j, int32(i))
				}
				if wf.rem[j].Load() >= 1 {
					shouldContinue.Store(true)
				}
				wf.rem[j].Add(-1)
			}
			if onActivate != nil {
				onActivate(chunkIndex, i, isCentroid)
			}
		}
	})
	return shouldContinue.Load()
}

// claim performs the monotone-decreasing CAS write of parent[j]: it writes
// desired only while the observed current value is strictly larger,
// retrying on contention and aborting as soon as some other writer has
// already claimed j with an equal-or-smaller id.
func claim(wf *wavefront, j, desired int32) {
	for {
		expected := wf.parent[j].Load()
		if desired >= expected {
			return
		}
		if wf.parent[j].CompareAndSwap(expected, desired) {
			return
		}
	}
}

// Weld runs the synchronous forward welding algorithm: wave loop to a global
// barrier each iteration, then a single serial reduce pass and a parallel
// triangle rewrite. mesh is only read; the welded result is a new Mesh.
func Weld(mesh *weld.Mesh, index SpatialIndex, eps float64, cfg Config) (*weld.Mesh, error) {
	n := mesh.NumVertices()
	if n == 0 {
		return &weld.Mesh{}, nil
	}
	workers := pfor.WorkerCount(cfg.Workers)
	wf := buildWavefront(mesh, index, eps, workers)

	for {
		if !runWave(wf, n, workers, nil) {
			break
		}
	}

	parent := snapshot(wf.parent)
	newVertices, pid2ccid := cluster.Reduce(mesh.Vertices, parent)
	newTriangles := rewriteTriangles(mesh.Triangles, pid2ccid, workers)

	return &weld.Mesh{Vertices: newVertices, Triangles: newTriangles}, nil
}

// WeldAsync runs the asynchronous forward variant: the same wave loop as
// Weld, but centroid discovery is counted per worker chunk during the wave
// loop itself, prefix-summed into per-chunk ccid offsets, and the centroid
// pass (disjoint writes) runs in parallel; only the follower-aggregation
// pass is serial, because running-mean updates across followers sharing a
// centroid are not commutative without per-centroid locks.
func WeldAsync(mesh *weld.Mesh, index SpatialIndex, eps float64, cfg Config) (*weld.Mesh, error) {
	n := mesh.NumVertices()
	if n == 0 {
		return &weld.Mesh{}, nil
	}
	workers := pfor.WorkerCount(cfg.Workers)
	wf := buildWavefront(mesh, index, eps, workers)
	chunks := pfor.Chunks(n, workers)
	discovered := make([]int32, len(chunks))

	for {
		cont := runWave(wf, n, workers, func(chunkIndex, i int, isCentroid bool) {
			if isCentroid {
				discovered[chunkIndex]++
			}
		})
		if !cont {
			break
		}
	}

	offsets := make([]int32, len(chunks)+1)
	for i, d := range discovered {
		offsets[i+1] = offsets[i] + d
	}
	numClusters := offsets[len(chunks)]

	parent := snapshot(wf.parent)
	pid2ccid := make([]int32, n)
	newVertices := make([]weld.Vec3, numClusters)

	pfor.ForChunks(chunks, func(chunkIndex, lo, hi int) {
		next := offsets[chunkIndex]
		for i := lo; i < hi; i++ {
			if parent[i] == int32(i) {
				ccid := next
				next++
				newVertices[ccid] = mesh.Vertices[i]
				pid2ccid[i] = ccid
			}
		}
	})

	// Serial follower-aggregation pass: fold every follower's position into
	// its centroid's running mean. Left single-threaded by design (spec.md
	// §4.4): concurrent running-mean updates targeting the same centroid
	// are not commutative without per-centroid locks, and locking here
	// would just re-serialize the work anyway.
	memberCount := make([]int32, numClusters)
	for i := range memberCount {
		memberCount[i] = 1
	}
	for i := 0; i < n; i++ {
		p := parent[i]
		if p == int32(i) {
			continue
		}
		ccid := pid2ccid[p]
		pid2ccid[i] = ccid
		cnt := memberCount[ccid]
		prev := newVertices[ccid]
		v := mesh.Vertices[i]
		newVertices[ccid] = weld.Vec3{
			X: prev.X + (v.X-prev.X)/float64(cnt+1),
			Y: prev.Y + (v.Y-prev.Y)/float64(cnt+1),
			Z: prev.Z + (v.Z-prev.Z)/float64(cnt+1),
		}
		memberCount[ccid] = cnt + 1
	}

	newTriangles := rewriteTriangles(mesh.Triangles, pid2ccid, workers)
	return &weld.Mesh{Vertices: newVertices, Triangles: newTriangles}, nil
}

func snapshot(a []atomic.Int32) []int32 {
	out := make([]int32, len(a))
	for i := range a {
		out[i] = a[i].Load()
	}
	return out
}

func rewriteTriangles(triangles [][3]int32, pid2ccid []int32, workers int) [][3]int32 {
	out := make([][3]int32, len(triangles))
	pfor.For(len(triangles), workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			tri := triangles[i]
			out[i] = [3]int32{
				pid2ccid[tri[0]],
				pid2ccid[tri[1]],
				pid2ccid[tri[2]],
			}
		}
	})
	return out
}
