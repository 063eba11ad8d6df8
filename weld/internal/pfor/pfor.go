// Package pfor implements a chunked goroutine parallel-for, the Go stand-in
// for the welder's OpenMP "#pragma omp parallel for" loops. It is grounded
// on the worker-chunking idiom used to filter point clouds in parallel
// elsewhere in the retrieved corpus (runtime.NumCPU, a fixed chunk size,
// sync.WaitGroup), rather than on any parallel-for library, since none
// appears anywhere in the example repos' dependency graphs.
package pfor

import (
	"runtime"
	"sync"
)

// WorkerCount normalizes a caller-requested worker count: 0 or negative
// means "use all available cores", matching spec.md's "configured once per
// welder call" scheduling model with a sane default.
func WorkerCount(requested int) int {
	if requested <= 0 {
		return runtime.NumCPU()
	}
	return requested
}

// For splits [0, n) into up to workers contiguous chunks and runs body on
// each chunk concurrently, blocking until every chunk has completed. body
// receives the half-open range [lo, hi) it owns; it must not touch indices
// outside that range.
func For(n, workers int, body func(lo, hi int)) {
	if n <= 0 {
		return
	}
	workers = WorkerCount(workers)
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		body(0, n)
		return
	}

	ForChunks(Chunks(n, workers), func(_, lo, hi int) {
		body(lo, hi)
	})
}

// Chunks returns the [lo, hi) boundaries For would dispatch to workers
// goroutines over [0, n). Exposed so callers that need a stable chunk-index
// identity across multiple passes (the async welder's per-worker discovered
// centroid counters, assigned in one pass and consumed by offset in a later
// one) can reuse the exact same partition rather than re-deriving it.
func Chunks(n, workers int) [][2]int {
	if n <= 0 {
		return nil
	}
	workers = WorkerCount(workers)
	if workers > n {
		workers = n
	}
	chunkSize := (n + workers - 1) / workers
	chunks := make([][2]int, 0, workers)
	for lo := 0; lo < n; lo += chunkSize {
		hi := lo + chunkSize
		if hi > n {
			hi = n
		}
		chunks = append(chunks, [2]int{lo, hi})
	}
	return chunks
}

// ForChunks runs body once per chunk concurrently, passing the chunk's index
// in the slice alongside its [lo, hi) bounds, and blocks until all chunks
// complete.
func ForChunks(chunks [][2]int, body func(chunkIndex, lo, hi int)) {
	var wg sync.WaitGroup
	for idx, c := range chunks {
		idx, c := idx, c
		wg.Add(1)
		go func() {
			defer wg.Done()
			body(idx, c[0], c[1])
		}()
	}
	wg.Wait()
}
