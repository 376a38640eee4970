package shapego

import (
	"fmt"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/golang/geo/r3"

	"github.com/hupe1980/shapego/geometry"
)

// AlignmentMode selects the registration applied to a dataset before it is
// turned into a sample vector. The values are the ones stored in containers.
type AlignmentMode int

const (
	AlignNone       AlignmentMode = 0
	AlignRigid      AlignmentMode = AlignmentMode(geometry.TransformRigid)
	AlignSimilarity AlignmentMode = AlignmentMode(geometry.TransformSimilarity)
	AlignAffine     AlignmentMode = AlignmentMode(geometry.TransformAffine)
)

func (m AlignmentMode) String() string {
	switch m {
	case AlignNone:
		return "none"
	case AlignRigid:
		return "rigid"
	case AlignSimilarity:
		return "similarity"
	case AlignAffine:
		return "affine"
	default:
		return fmt.Sprintf("AlignmentMode(%d)", int(m))
	}
}

// Valid reports whether m is a known mode.
func (m AlignmentMode) Valid() bool {
	switch m {
	case AlignNone, AlignRigid, AlignSimilarity, AlignAffine:
		return true
	}
	return false
}

// ParseAlignmentMode parses a mode name as returned by String.
func ParseAlignmentMode(s string) (AlignmentMode, error) {
	for _, m := range []AlignmentMode{AlignNone, AlignRigid, AlignSimilarity, AlignAffine} {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown alignment mode %q", s)
}

func alignmentFromInt(v int64) (AlignmentMode, error) {
	m := AlignmentMode(v)
	if !m.Valid() {
		return 0, fmt.Errorf("unknown alignment mode %d", v)
	}
	return m, nil
}

// aligner registers incoming point sets onto the reference points,
// assuming point i of the input corresponds to point i of the reference.
type aligner struct {
	mode      AlignmentMode
	landmarks *roaring.Bitmap
}

func (a aligner) validate(n int) error {
	if !a.mode.Valid() {
		return fmt.Errorf("unknown alignment mode %d", int(a.mode))
	}
	if a.landmarks == nil || a.landmarks.IsEmpty() {
		return nil
	}
	if last := a.landmarks.Maximum(); int64(last) >= int64(n) {
		return fmt.Errorf("%w: landmark %d, reference has %d points", ErrInvalidPointIndex, last, n)
	}
	return nil
}

func (a aligner) clone() aligner {
	c := aligner{mode: a.mode}
	if a.landmarks != nil {
		c.landmarks = a.landmarks.Clone()
	}
	return c
}

// alignedPoints returns points registered onto reference. With AlignNone
// the input slice itself is returned; callers must not modify it.
func (a aligner) alignedPoints(points, reference []r3.Vector) ([]r3.Vector, error) {
	if a.mode == AlignNone {
		return points, nil
	}
	if len(points) != len(reference) {
		return nil, &ErrPointCountMismatch{Expected: len(reference), Actual: len(points), Exact: true}
	}

	source, target := points, reference
	if a.landmarks != nil && !a.landmarks.IsEmpty() {
		ids := a.landmarks.ToArray()
		source = make([]r3.Vector, len(ids))
		target = make([]r3.Vector, len(ids))
		for i, id := range ids {
			source[i], target[i] = points[id], reference[id]
		}
	}

	t, err := geometry.LandmarkTransform(source, target, geometry.TransformMode(a.mode))
	if err != nil {
		return nil, err
	}
	return t.ApplyAll(points), nil
}
