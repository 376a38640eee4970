package shapego

import (
	"context"
	"fmt"
	"time"

	"github.com/golang/geo/r3"

	"github.com/hupe1980/shapego/container"
	"github.com/hupe1980/shapego/geometry"
)

// PointDimension is the dimensionality of every point value.
const PointDimension = 3

// InvalidPointID is returned by PointIDForPoint when no reference point matches.
const InvalidPointID = -1

// FormatVersion is the representer layout version written by Save.
const FormatVersion = "0.1"

// MapPointIDToInternalIdx returns the sample vector offset of component
// of point ptID. Changing this layout invalidates every stored vector.
func MapPointIDToInternalIdx(ptID, component int) int {
	return ptID*PointDimension + component
}

// Representer converts between geometric datasets and the flat sample
// vectors a statistical shape model works with.
//
// All methods except Load-style constructors treat the reference as
// read-only, so a Representer may be used from multiple goroutines.
type Representer interface {
	// Name identifies the representer kind in persisted containers.
	Name() string
	// DatasetType is the discriminator checked on load.
	DatasetType() string
	// Alignment returns the registration applied before conversion.
	Alignment() AlignmentMode
	// Reference returns a deep copy of the reference dataset.
	Reference() *geometry.Dataset
	NumberOfPoints() int
	Dimensions() int

	MapPointIDToInternalIdx(ptID, component int) int
	// PointIDForPoint returns the reference point nearest to pt, or
	// InvalidPointID when there is none within the configured tolerance.
	PointIDForPoint(pt r3.Vector) int

	// DatasetToSample returns an aligned deep copy of ds.
	DatasetToSample(ds *geometry.Dataset) (*geometry.Dataset, error)
	// DatasetToSampleVector aligns ds and flattens its first N points.
	DatasetToSampleVector(ds *geometry.Dataset) ([]float64, error)
	// SampleToSampleVector flattens a sample without aligning it.
	SampleToSampleVector(sample *geometry.Dataset) ([]float64, error)
	// SampleVectorToSample builds a copy of the reference carrying the
	// coordinates in v.
	SampleVectorToSample(v []float64) (*geometry.Dataset, error)

	PointSampleFromSample(sample *geometry.Dataset, ptID int) (r3.Vector, error)
	PointSampleToValue(v []float64) (r3.Vector, error)
	ValueToPointSample(v r3.Vector) []float64

	NewDataset() *geometry.Dataset
	DeleteDataset(ds *geometry.Dataset)

	// Save writes the representer into g.
	Save(g *container.Group) error
	// Clone returns an independent copy.
	Clone() Representer
}

// base holds the reference domain and the converter shared by every
// representer kind.
type base struct {
	ref     *geometry.Dataset
	locator *geometry.Locator
	align   aligner
	opts    options
	logger  *Logger
}

func newBase(name, datasetType string, ref *geometry.Dataset, o options) (base, error) {
	if ref == nil {
		return base{}, ErrNilDataset
	}
	if err := ref.Validate(); err != nil {
		return base{}, err
	}
	a := aligner{mode: o.alignment, landmarks: o.landmarks}
	if err := a.validate(ref.NumberOfPoints()); err != nil {
		return base{}, err
	}
	ref = ref.Clone()
	ref.CoerceAttributes()
	return base{
		ref:     ref,
		locator: geometry.NewLocator(ref.Points),
		align:   a.clone(),
		opts:    o,
		logger: o.logger.
			WithRepresenter(name, datasetType).
			WithPoints(ref.NumberOfPoints()).
			WithAlignment(o.alignment),
	}, nil
}

func (b *base) clone() base {
	return base{
		ref:     b.ref.Clone(),
		locator: b.locator,
		align:   b.align.clone(),
		opts:    b.opts,
		logger:  b.logger,
	}
}

// Alignment returns the registration applied before conversion.
func (b *base) Alignment() AlignmentMode { return b.align.mode }

// Reference returns a deep copy of the reference dataset.
func (b *base) Reference() *geometry.Dataset { return b.ref.Clone() }

// NumberOfPoints returns the reference point count N.
func (b *base) NumberOfPoints() int { return b.ref.NumberOfPoints() }

// Dimensions returns PointDimension.
func (b *base) Dimensions() int { return PointDimension }

// MapPointIDToInternalIdx returns the sample vector offset of a point component.
func (b *base) MapPointIDToInternalIdx(ptID, component int) int {
	return MapPointIDToInternalIdx(ptID, component)
}

// Landmarks returns the reference point ids used for alignment, or nil
// when every point is used.
func (b *base) Landmarks() []uint32 {
	if b.align.landmarks == nil || b.align.landmarks.IsEmpty() {
		return nil
	}
	return b.align.landmarks.ToArray()
}

// PointIDForPoint returns the nearest reference point to pt.
func (b *base) PointIDForPoint(pt r3.Vector) int {
	id, dist, ok := b.locator.Nearest(pt)
	if !ok || (b.opts.tolerance > 0 && dist > b.opts.tolerance) {
		return InvalidPointID
	}
	return id
}

func (b *base) checkInput(ds *geometry.Dataset) error {
	if ds == nil {
		return ErrNilDataset
	}
	if n := b.ref.NumberOfPoints(); ds.NumberOfPoints() < n {
		return &ErrPointCountMismatch{Expected: n, Actual: ds.NumberOfPoints()}
	}
	return nil
}

func (b *base) observe(op string, points int, start time.Time, err error) {
	b.opts.metricsCollector.RecordConversion(time.Since(start), err)
	b.logger.LogConversion(context.Background(), op, points, err)
}

// DatasetToSample returns an aligned deep copy of ds.
func (b *base) DatasetToSample(ds *geometry.Dataset) (_ *geometry.Dataset, err error) {
	start := time.Now()
	defer func() { b.observe("dataset_to_sample", pointCount(ds), start, err) }()

	if err := b.checkInput(ds); err != nil {
		return nil, modelError("dataset to sample", err)
	}
	aligned, err := b.align.alignedPoints(ds.Points, b.ref.Points)
	if err != nil {
		return nil, modelError("dataset to sample", err)
	}
	out := ds.Clone()
	if b.align.mode != AlignNone {
		out.Points = aligned
	}
	return out, nil
}

// DatasetToSampleVector aligns ds onto the reference and flattens the
// first N points in reference order.
func (b *base) DatasetToSampleVector(ds *geometry.Dataset) (_ []float64, err error) {
	start := time.Now()
	defer func() { b.observe("dataset_to_sample_vector", pointCount(ds), start, err) }()

	if err := b.checkInput(ds); err != nil {
		return nil, modelError("dataset to sample vector", err)
	}
	aligned, err := b.align.alignedPoints(ds.Points, b.ref.Points)
	if err != nil {
		return nil, modelError("dataset to sample vector", err)
	}
	return b.flatten(aligned), nil
}

// SampleToSampleVector flattens the first N points of sample.
func (b *base) SampleToSampleVector(sample *geometry.Dataset) ([]float64, error) {
	if err := b.checkInput(sample); err != nil {
		return nil, modelError("sample to sample vector", err)
	}
	return b.flatten(sample.Points), nil
}

func (b *base) flatten(points []r3.Vector) []float64 {
	n := b.ref.NumberOfPoints()
	v := make([]float64, n*PointDimension)
	for i := 0; i < n; i++ {
		p := points[i]
		v[MapPointIDToInternalIdx(i, 0)] = p.X
		v[MapPointIDToInternalIdx(i, 1)] = p.Y
		v[MapPointIDToInternalIdx(i, 2)] = p.Z
	}
	return v
}

// SampleVectorToSample returns a copy of the reference whose points are
// taken from v. len(v) must be N×PointDimension.
func (b *base) SampleVectorToSample(v []float64) (_ *geometry.Dataset, err error) {
	start := time.Now()
	defer func() { b.observe("sample_vector_to_sample", len(v)/PointDimension, start, err) }()

	n := b.ref.NumberOfPoints()
	if len(v) != n*PointDimension {
		return nil, modelError("sample vector to sample", &ErrDimensionMismatch{Expected: n * PointDimension, Actual: len(v)})
	}
	out := b.ref.Clone()
	for i := range out.Points {
		out.Points[i] = r3.Vector{
			X: v[MapPointIDToInternalIdx(i, 0)],
			Y: v[MapPointIDToInternalIdx(i, 1)],
			Z: v[MapPointIDToInternalIdx(i, 2)],
		}
	}
	return out, nil
}

// PointSampleFromSample returns point ptID of sample.
func (b *base) PointSampleFromSample(sample *geometry.Dataset, ptID int) (r3.Vector, error) {
	if sample == nil {
		return r3.Vector{}, modelError("point sample from sample", ErrNilDataset)
	}
	if ptID < 0 || ptID >= sample.NumberOfPoints() {
		return r3.Vector{}, modelError("point sample from sample",
			fmt.Errorf("%w: %d for a sample of %d points", ErrInvalidPointIndex, ptID, sample.NumberOfPoints()))
	}
	return sample.Points[ptID], nil
}

// PointSampleToValue converts a PointDimension-length vector to a point.
func (b *base) PointSampleToValue(v []float64) (r3.Vector, error) {
	if len(v) != PointDimension {
		return r3.Vector{}, modelError("point sample to value", &ErrDimensionMismatch{Expected: PointDimension, Actual: len(v)})
	}
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}, nil
}

// ValueToPointSample converts a point to its vector form.
func (b *base) ValueToPointSample(v r3.Vector) []float64 {
	return []float64{v.X, v.Y, v.Z}
}

// NewDataset returns an empty dataset owned by the caller.
func (b *base) NewDataset() *geometry.Dataset {
	return geometry.NewDataset()
}

// DeleteDataset releases ds. Its contents must not be used afterwards.
func (b *base) DeleteDataset(ds *geometry.Dataset) {
	if ds != nil {
		ds.Reset()
	}
}

// writeHeader writes the identity nodes common to every representer kind.
func (b *base) writeHeader(g *container.Group, name, datasetType string) error {
	if err := g.WriteString("name", name); err != nil {
		return err
	}
	if err := g.WriteString("version", FormatVersion); err != nil {
		return err
	}
	if err := g.WriteString("datasetType", datasetType); err != nil {
		return err
	}
	if err := g.WriteInt("alignment", int64(b.align.mode)); err != nil {
		return err
	}
	if b.align.landmarks != nil && !b.align.landmarks.IsEmpty() {
		raw, err := b.align.landmarks.ToBytes()
		if err != nil {
			return err
		}
		if err := g.WriteBytes("landmarks", raw); err != nil {
			return err
		}
	}
	return nil
}

func pointCount(ds *geometry.Dataset) int {
	if ds == nil {
		return 0
	}
	return ds.NumberOfPoints()
}
