package geometry

import (
	"errors"
	"fmt"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// TransformMode selects the degrees of freedom of a landmark transform.
// The values match the landmark modes stored in persisted representers.
type TransformMode int

const (
	TransformRigid      TransformMode = 6
	TransformSimilarity TransformMode = 7
	TransformAffine     TransformMode = 12
)

func (m TransformMode) String() string {
	switch m {
	case TransformRigid:
		return "rigid"
	case TransformSimilarity:
		return "similarity"
	case TransformAffine:
		return "affine"
	default:
		return fmt.Sprintf("TransformMode(%d)", int(m))
	}
}

var (
	// ErrLandmarkMismatch is returned when source and target landmark counts differ.
	ErrLandmarkMismatch = errors.New("landmark count mismatch")
	// ErrDegenerateLandmarks is returned when the landmarks do not determine a transform.
	ErrDegenerateLandmarks = errors.New("degenerate landmarks")
)

// Transform is p' = Linear·p + Translation.
type Transform struct {
	Linear      *mat.Dense
	Translation r3.Vector
}

// Identity returns the identity transform.
func Identity() *Transform {
	return &Transform{Linear: mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})}
}

// Apply transforms a single point.
func (t *Transform) Apply(p r3.Vector) r3.Vector {
	l := t.Linear
	return r3.Vector{
		X: l.At(0, 0)*p.X + l.At(0, 1)*p.Y + l.At(0, 2)*p.Z + t.Translation.X,
		Y: l.At(1, 0)*p.X + l.At(1, 1)*p.Y + l.At(1, 2)*p.Z + t.Translation.Y,
		Z: l.At(2, 0)*p.X + l.At(2, 1)*p.Y + l.At(2, 2)*p.Z + t.Translation.Z,
	}
}

// ApplyAll returns transformed copies of points.
func (t *Transform) ApplyAll(points []r3.Vector) []r3.Vector {
	out := make([]r3.Vector, len(points))
	for i, p := range points {
		out[i] = t.Apply(p)
	}
	return out
}

// LandmarkTransform computes the transform that best maps source onto target
// in the least-squares sense, assuming source[i] corresponds to target[i].
//
// Rigid and similarity transforms use the SVD of the cross-covariance with a
// reflection correction; affine transforms solve the linear system directly
// and need at least four non-coplanar landmarks.
func LandmarkTransform(source, target []r3.Vector, mode TransformMode) (*Transform, error) {
	if len(source) != len(target) {
		return nil, fmt.Errorf("%w: %d source vs %d target landmarks", ErrLandmarkMismatch, len(source), len(target))
	}
	if len(source) == 0 {
		return nil, fmt.Errorf("%w: no landmarks", ErrDegenerateLandmarks)
	}
	switch mode {
	case TransformRigid, TransformSimilarity:
		return orthogonalTransform(source, target, mode == TransformSimilarity)
	case TransformAffine:
		return affineTransform(source, target)
	default:
		return nil, fmt.Errorf("unknown transform mode %d", int(mode))
	}
}

func centroid(points []r3.Vector) r3.Vector {
	var c r3.Vector
	for _, p := range points {
		c = c.Add(p)
	}
	return c.Mul(1 / float64(len(points)))
}

func component(v r3.Vector, i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func orthogonalTransform(source, target []r3.Vector, withScale bool) (*Transform, error) {
	n := float64(len(source))
	ms, mt := centroid(source), centroid(target)

	cov := mat.NewDense(3, 3, nil)
	var varS float64
	for i := range source {
		xs, xt := source[i].Sub(ms), target[i].Sub(mt)
		varS += xs.Norm2()
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				cov.Set(r, c, cov.At(r, c)+component(xt, r)*component(xs, c))
			}
		}
	}
	cov.Scale(1/n, cov)
	varS /= n

	var svd mat.SVD
	if !svd.Factorize(cov, mat.SVDFull) {
		return nil, fmt.Errorf("%w: SVD did not converge", ErrDegenerateLandmarks)
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	sv := svd.Values(nil)

	d := []float64{1, 1, 1}
	if mat.Det(&u)*mat.Det(&v) < 0 {
		d[2] = -1
	}

	var ud, rot mat.Dense
	ud.Mul(&u, mat.NewDiagDense(3, d))
	rot.Mul(&ud, v.T())

	scale := 1.0
	if withScale && varS > 0 {
		scale = (sv[0]*d[0] + sv[1]*d[1] + sv[2]*d[2]) / varS
	}
	rot.Scale(scale, &rot)

	t := &Transform{Linear: &rot}
	t.Translation = mt.Sub(t.Apply(ms))
	return t, nil
}

func affineTransform(source, target []r3.Vector) (*Transform, error) {
	n := len(source)
	if n < 4 {
		return nil, fmt.Errorf("%w: affine transform needs at least 4 landmarks, got %d", ErrDegenerateLandmarks, n)
	}
	a := mat.NewDense(n, 4, nil)
	b := mat.NewDense(n, 3, nil)
	for i := range source {
		a.SetRow(i, []float64{source[i].X, source[i].Y, source[i].Z, 1})
		b.SetRow(i, []float64{target[i].X, target[i].Y, target[i].Z})
	}
	var x mat.Dense
	if err := x.Solve(a, b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDegenerateLandmarks, err)
	}
	lin := mat.NewDense(3, 3, nil)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			lin.Set(r, c, x.At(c, r))
		}
	}
	return &Transform{
		Linear:      lin,
		Translation: r3.Vector{X: x.At(3, 0), Y: x.At(3, 1), Z: x.At(3, 2)},
	}, nil
}
