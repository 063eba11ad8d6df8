// Package cluster implements the reduction step of vertex welding: turning
// a finished parent-array into a compacted vertex list plus a per-vertex
// renumbering map.
package cluster

import (
	"github.com/nimaft97/parallel-vertex-clustering/weld"
)

// Reduce walks parent ascending by id and, for every centroid (parent[i] ==
// i), assigns it the next free compressed cluster id (ccid) and copies its
// position; for every follower, folds its position into the running mean of
// its centroid's already-assigned ccid.
//
// parent must satisfy parent[i] <= i for all i and must not contain cycles
// other than self-loops at centroids — both guaranteed by the welder. The
// ascending walk combined with that invariant guarantees a follower's
// centroid has already been assigned a ccid and an initialized running mean
// by the time the follower is processed.
func Reduce(vertices []weld.Vec3, parent []int32) (newVertices []weld.Vec3, pid2ccid []int32) {
	checkParentDepth(parent)
	n := len(vertices)
	pid2ccid = make([]int32, n)
	newVertices = make([]weld.Vec3, 0, n)
	memberCount := make([]int32, 0, n)

	for i := 0; i < n; i++ {
		p := parent[i]
		if p == int32(i) {
			ccid := int32(len(newVertices))
			pid2ccid[i] = ccid
			newVertices = append(newVertices, vertices[i])
			memberCount = append(memberCount, 1)
			continue
		}
		ccid := pid2ccid[p]
		cnt := memberCount[ccid]
		prev := newVertices[ccid]
		v := vertices[i]
		// Incremental (Welford-style) mean: new = prev + (v-prev)/(n+1).
		// Limits catastrophic cancellation for large clusters; the
		// source's (prev*n+v)/(n+1) form is only acceptable for small ones.
		newVertices[ccid] = weld.Vec3{
			X: prev.X + (v.X-prev.X)/float64(cnt+1),
			Y: prev.Y + (v.Y-prev.Y)/float64(cnt+1),
			Z: prev.Z + (v.Z-prev.Z)/float64(cnt+1),
		}
		memberCount[ccid] = cnt + 1
		pid2ccid[i] = ccid
	}
	return newVertices, pid2ccid
}
