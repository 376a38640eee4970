package geometry

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// Locator answers nearest-point queries against a fixed point set.
// It is safe for concurrent use once built.
type Locator struct {
	tree *kdtree.Tree
	n    int
}

// NewLocator builds a k-d tree over points. The slice is not retained.
func NewLocator(points []r3.Vector) *Locator {
	if len(points) == 0 {
		return &Locator{}
	}
	lp := make(locatorPoints, len(points))
	for i, p := range points {
		lp[i] = locatorPoint{id: i, pos: [3]float64{p.X, p.Y, p.Z}}
	}
	return &Locator{tree: kdtree.New(lp, false), n: len(points)}
}

// Nearest returns the index of the point closest to q and its Euclidean
// distance. ok is false when the locator holds no points.
func (l *Locator) Nearest(q r3.Vector) (id int, dist float64, ok bool) {
	if l == nil || l.tree == nil {
		return -1, 0, false
	}
	c, d2 := l.tree.Nearest(locatorPoint{id: -1, pos: [3]float64{q.X, q.Y, q.Z}})
	if c == nil {
		return -1, 0, false
	}
	return c.(locatorPoint).id, math.Sqrt(d2), true
}

// Len returns the number of indexed points.
func (l *Locator) Len() int {
	if l == nil {
		return 0
	}
	return l.n
}

type locatorPoint struct {
	id  int
	pos [3]float64
}

func (p locatorPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return p.pos[d] - c.(locatorPoint).pos[d]
}

func (p locatorPoint) Dims() int { return 3 }

// Distance returns the squared Euclidean distance.
func (p locatorPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(locatorPoint)
	dx, dy, dz := p.pos[0]-q.pos[0], p.pos[1]-q.pos[1], p.pos[2]-q.pos[2]
	return dx*dx + dy*dy + dz*dz
}

type locatorPoints []locatorPoint

func (p locatorPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p locatorPoints) Len() int                      { return len(p) }
func (p locatorPoints) Pivot(d kdtree.Dim) int {
	return locatorPlane{dim: d, points: p}.Pivot()
}
func (p locatorPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

type locatorPlane struct {
	dim    kdtree.Dim
	points locatorPoints
}

func (p locatorPlane) Len() int { return len(p.points) }
func (p locatorPlane) Less(i, j int) bool {
	return p.points[i].pos[p.dim] < p.points[j].pos[p.dim]
}
func (p locatorPlane) Swap(i, j int) { p.points[i], p.points[j] = p.points[j], p.points[i] }
func (p locatorPlane) Slice(start, end int) kdtree.SortSlicer {
	return locatorPlane{dim: p.dim, points: p.points[start:end]}
}
func (p locatorPlane) Pivot() int {
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}
