//go:build weld_debug

package cluster

import "fmt"

// checkParentDepth asserts the depth-1 invariant the reducer relies on:
// every follower's parent is itself a centroid, never another follower.
// Built only under -tags weld_debug since it walks the full parent array an
// extra time purely for verification.
func checkParentDepth(parent []int32) {
	for i, p := range parent {
		if p != int32(i) && parent[p] != p {
			panic(fmt.Sprintf("cluster: parent depth > 1 at vertex %d (parent=%d, parent[parent]=%d)", i, p, parent[p]))
		}
	}
}
