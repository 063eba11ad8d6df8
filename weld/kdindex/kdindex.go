// Package kdindex implements the welder's SpatialIndex contract on top of
// gonum's k-d tree, the same spatial-search library the teacher package
// already uses for nearest-triangle queries (see render/kdrender.go).
package kdindex

import (
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/nimaft97/parallel-vertex-clustering/weld"
)

// Index is a static radius-search index over a fixed point set, built once
// per welding call and read-only thereafter.
type Index struct {
	tree   kdtree.Tree
	points kdPoints
}

// Build constructs a spatial index over points. Returns weld.ErrEmptyIndex
// if points is empty.
func Build(points []weld.Vec3) (*Index, error) {
	if len(points) == 0 {
		return nil, weld.ErrEmptyIndex
	}
	kp := make(kdPoints, len(points))
	for i, p := range points {
		kp[i] = kdPoint{pos: p, id: int32(i)}
	}
	tree := kdtree.New(kp, true)
	return &Index{tree: *tree, points: kp}, nil
}

// SearchRadius returns the ids of every point within Euclidean distance r of
// q, inclusive (closed ball).
func (idx *Index) SearchRadius(q weld.Vec3, r float64) []int32 {
	keeper := kdtree.NewDistKeeper(r * r)
	idx.tree.NearestSet(keeper, kdPoint{pos: q})
	ids := make([]int32, len(keeper.Heap))
	for i, cd := range keeper.Heap {
		ids[i] = cd.Comparable.(kdPoint).id
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// SearchRadiusSplit returns the count of neighbors with id <= self
// (including self, if self is itself within r of q — which it always is
// when q is self's own position), and the ids of neighbors with id > self,
// sorted ascending for deterministic output.
func (idx *Index) SearchRadiusSplit(q weld.Vec3, r float64, self int32) (numSmallerOrEqual int, biggerIDs []int32) {
	keeper := kdtree.NewDistKeeper(r * r)
	idx.tree.NearestSet(keeper, kdPoint{pos: q})
	for _, cd := range keeper.Heap {
		id := cd.Comparable.(kdPoint).id
		if id <= self {
			numSmallerOrEqual++
		} else {
			biggerIDs = append(biggerIDs, id)
		}
	}
	sort.Slice(biggerIDs, func(i, j int) bool { return biggerIDs[i] < biggerIDs[j] })
	return numSmallerOrEqual, biggerIDs
}

// kdPoint is a single indexed vertex position. It implements
// kdtree.Comparable the same way render/kdrender.go's kdTriangle does for
// triangle centroids, but compares raw positions instead of centroids.
type kdPoint struct {
	pos r3.Vec
	id  int32
}

func (a kdPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	b := c.(kdPoint)
	switch d {
	case 0:
		return a.pos.X - b.pos.X
	case 1:
		return a.pos.Y - b.pos.Y
	case 2:
		return a.pos.Z - b.pos.Z
	}
	panic("kdindex: dimension out of range")
}

func (a kdPoint) Dims() int { return 3 }

// Distance returns the squared Euclidean distance between two points,
// matching the squared-distance convention documented on
// render/kdrender.go's kdTriangle.Distance.
func (a kdPoint) Distance(c kdtree.Comparable) float64 {
	b := c.(kdPoint)
	return r3.Norm2(r3.Sub(a.pos, b.pos))
}

type kdPoints []kdPoint

func (k kdPoints) Index(i int) kdtree.Comparable { return k[i] }
func (k kdPoints) Len() int                      { return len(k) }
func (k kdPoints) Slice(start, end int) kdtree.Interface { return k[start:end] }

func (k kdPoints) Pivot(d kdtree.Dim) int {
	p := kdPointPlane{dim: int(d), points: k}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

func (k kdPoints) Bounds() *kdtree.Bounding {
	if len(k) == 0 {
		return nil
	}
	min, max := k[0].pos, k[0].pos
	for _, p := range k[1:] {
		min = minElem(min, p.pos)
		max = maxElem(max, p.pos)
	}
	return &kdtree.Bounding{
		Min: kdPoint{pos: min},
		Max: kdPoint{pos: max},
	}
}

func minElem(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: minF(a.X, b.X), Y: minF(a.Y, b.Y), Z: minF(a.Z, b.Z)}
}

func maxElem(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: maxF(a.X, b.X), Y: maxF(a.Y, b.Y), Z: maxF(a.Z, b.Z)}
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// kdPointPlane adapts kdPoints to kdtree.SortSlicer for use in Pivot,
// mirroring render/kdrender.go's kdPlane for triangles.
type kdPointPlane struct {
	dim    int
	points kdPoints
}

func (p kdPointPlane) Less(i, j int) bool {
	return compDim(p.points[i], p.points[j], p.dim) < 0
}
func (p kdPointPlane) Swap(i, j int) {
	p.points[i], p.points[j] = p.points[j], p.points[i]
}
func (p kdPointPlane) Len() int { return len(p.points) }
func (p kdPointPlane) Slice(start, end int) kdtree.SortSlicer {
	p.points = p.points[start:end]
	return p
}

func compDim(a, b kdPoint, dim int) float64 {
	switch dim {
	case 0:
		return a.pos.X - b.pos.X
	case 1:
		return a.pos.Y - b.pos.Y
	case 2:
		return a.pos.Z - b.pos.Z
	}
	panic("kdindex: dimension out of range")
}
