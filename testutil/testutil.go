package testutil

import (
	"math"
	"math/rand"
	"sync"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/shapego/geometry"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// UniformPoints generates num points with coordinates in [minVal, maxVal).
func (r *RNG) UniformPoints(num int, minVal, maxVal float64) []r3.Vector {
	r.mu.Lock()
	defer r.mu.Unlock()

	span := maxVal - minVal
	points := make([]r3.Vector, num)
	for i := range points {
		points[i] = r3.Vector{
			X: minVal + r.rand.Float64()*span,
			Y: minVal + r.rand.Float64()*span,
			Z: minVal + r.rand.Float64()*span,
		}
	}
	return points
}

// Jitter returns copies of points displaced by Gaussian noise with standard
// deviation sigma.
func (r *RNG) Jitter(points []r3.Vector, sigma float64) []r3.Vector {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]r3.Vector, len(points))
	for i, p := range points {
		out[i] = r3.Vector{
			X: p.X + r.rand.NormFloat64()*sigma,
			Y: p.Y + r.rand.NormFloat64()*sigma,
			Z: p.Z + r.rand.NormFloat64()*sigma,
		}
	}
	return out
}

// Rotation returns a random proper rotation built from a unit quaternion.
func (r *RNG) Rotation() *mat.Dense {
	r.mu.Lock()
	w, x, y, z := r.rand.NormFloat64(), r.rand.NormFloat64(), r.rand.NormFloat64(), r.rand.NormFloat64()
	r.mu.Unlock()

	n := math.Sqrt(w*w + x*x + y*y + z*z)
	if n == 0 {
		return mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	}
	w, x, y, z = w/n, x/n, y/n, z/n
	return mat.NewDense(3, 3, []float64{
		1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y),
		2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x),
		2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y),
	})
}

// RandomTransform returns a random similarity transform with a scale in
// [0.5, 2) and a translation in [-10, 10)³.
func (r *RNG) RandomTransform(withScale bool) *geometry.Transform {
	rot := r.Rotation()
	if withScale {
		rot.Scale(0.5+1.5*r.Float64(), rot)
	}
	t := r.UniformPoints(1, -10, 10)[0]
	return &geometry.Transform{Linear: rot, Translation: t}
}

// Mesh returns a dataset with a random point cloud of num points and a
// triangle fan over it. num must be at least 3.
func (r *RNG) Mesh(num int) *geometry.Dataset {
	d := geometry.NewDatasetFromPoints(r.UniformPoints(num, -1, 1))
	for i := 1; i+1 < num; i++ {
		d.Polys = append(d.Polys, geometry.Cell{0, uint32(i), uint32(i + 1)})
	}
	return d
}

// UnitSquare returns the four corners of the unit square in the z=0 plane,
// counter-clockwise from the origin, as a single quad.
func UnitSquare() *geometry.Dataset {
	d := geometry.NewDatasetFromPoints([]r3.Vector{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 1, Y: 1, Z: 0},
		{X: 0, Y: 1, Z: 0},
	})
	d.Polys = []geometry.Cell{{0, 1, 2, 3}}
	return d
}

// Triangle returns a single triangle carrying float point scalars 1, 2, 3.
func Triangle() *geometry.Dataset {
	d := geometry.NewDatasetFromPoints([]r3.Vector{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
	})
	d.Polys = []geometry.Cell{{0, 1, 2}}
	scalars, err := geometry.NewAttributeTable(geometry.DataTypeFloat, 1, []float64{1, 2, 3})
	if err != nil {
		panic(err)
	}
	d.PointData.Scalars = scalars
	return d
}

// Polyline returns n points along the x axis joined by n-1 line segments.
func Polyline(n int) *geometry.Dataset {
	points := make([]r3.Vector, n)
	for i := range points {
		points[i] = r3.Vector{X: float64(i)}
	}
	d := geometry.NewDatasetFromPoints(points)
	for i := 0; i+1 < n; i++ {
		d.Lines = append(d.Lines, geometry.Cell{uint32(i), uint32(i + 1)})
	}
	return d
}

// MaxPointDistance returns the largest distance between corresponding
// points of a and b, or +Inf when the point counts differ.
func MaxPointDistance(a, b []r3.Vector) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	var maxDist float64
	for i := range a {
		maxDist = max(maxDist, a[i].Distance(b[i]))
	}
	return maxDist
}
