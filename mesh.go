package shapego

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/shapego/container"
	"github.com/hupe1980/shapego/geometry"
)

const (
	// MeshRepresenterName is the name written by MeshRepresenter.Save.
	MeshRepresenterName = "StandardMeshRepresenter"
	// DatasetTypeMesh discriminates structured mesh representers.
	DatasetTypeMesh = "POLYGON_MESH"
)

// MeshRepresenter stores its reference as a structured schema: points,
// cells and attribute tables each get their own container node.
type MeshRepresenter struct {
	base
}

var _ Representer = (*MeshRepresenter)(nil)

// NewMeshRepresenter creates a representer around a deep copy of ref.
func NewMeshRepresenter(ref *geometry.Dataset, opts ...Option) (*MeshRepresenter, error) {
	b, err := newBase(MeshRepresenterName, DatasetTypeMesh, ref, applyOptions(opts))
	if err != nil {
		return nil, modelError("new mesh representer", err)
	}
	return &MeshRepresenter{base: b}, nil
}

// Name returns MeshRepresenterName.
func (r *MeshRepresenter) Name() string { return MeshRepresenterName }

// DatasetType returns DatasetTypeMesh.
func (r *MeshRepresenter) DatasetType() string { return DatasetTypeMesh }

// Clone returns an independent copy of r.
func (r *MeshRepresenter) Clone() Representer {
	return &MeshRepresenter{base: r.base.clone()}
}

// Save writes the reference into g:
//
//	name, version, datasetType   strings
//	points                       3×N float64, one column per point
//	cells                        K×M uint32, one column per cell (optional)
//	pointData/{scalars,vectors,normals}
//	cellData/{scalars,vectors,normals}
//	                             components×count float64, int attribute "datatype"
//	alignment                    int
//	landmarks                    roaring bitmap (optional)
//
// Cells must share one arity. Attribute tables with no tuples are omitted.
func (r *MeshRepresenter) Save(g *container.Group) (err error) {
	start := time.Now()
	defer func() {
		r.opts.metricsCollector.RecordSave(time.Since(start), err)
		r.logger.LogSave(context.Background(), g.Path(), err)
	}()

	if err := r.save(g); err != nil {
		return modelError("save mesh representer", err)
	}
	return nil
}

func (r *MeshRepresenter) save(g *container.Group) error {
	if err := r.writeHeader(g, MeshRepresenterName, DatasetTypeMesh); err != nil {
		return err
	}
	if err := g.WriteMatrix("points", pointsMatrix(r.ref.Points)); err != nil {
		return err
	}
	if r.ref.NumberOfCells() > 0 {
		cells, err := cellMatrix(r.ref)
		if err != nil {
			return err
		}
		if err := g.WriteUintMatrix("cells", cells); err != nil {
			return err
		}
	}
	if err := writeAttributes(g, "pointData", &r.ref.PointData); err != nil {
		return err
	}
	return writeAttributes(g, "cellData", &r.ref.CellData)
}

func pointsMatrix(points []r3.Vector) *mat.Dense {
	if len(points) == 0 {
		return &mat.Dense{}
	}
	m := mat.NewDense(PointDimension, len(points), nil)
	for i, p := range points {
		m.Set(0, i, p.X)
		m.Set(1, i, p.Y)
		m.Set(2, i, p.Z)
	}
	return m
}

func cellMatrix(d *geometry.Dataset) (*container.UintMatrix, error) {
	k, count := len(d.Cell(0)), d.NumberOfCells()
	if k == 0 {
		return nil, fmt.Errorf("%w: cell 0 is empty", ErrNonUniformCells)
	}
	m := container.NewUintMatrix(k, count, nil)
	for j := 0; j < count; j++ {
		c := d.Cell(j)
		if len(c) != k {
			return nil, fmt.Errorf("%w: cell %d has %d points, cell 0 has %d", ErrNonUniformCells, j, len(c), k)
		}
		for i, id := range c {
			m.Set(i, j, id)
		}
	}
	return m, nil
}

func writeAttributes(g *container.Group, group string, attrs *geometry.Attributes) error {
	for _, kind := range geometry.AttributeKinds {
		t := attrs.Get(kind)
		if t == nil || t.Tuples() == 0 {
			continue
		}
		m := mat.NewDense(t.Components, t.Tuples(), nil)
		for i := 0; i < t.Tuples(); i++ {
			for c := 0; c < t.Components; c++ {
				m.Set(c, i, t.Values[i*t.Components+c])
			}
		}
		p := group + "/" + kind.String()
		if err := g.WriteMatrix(p, m); err != nil {
			return err
		}
		if err := g.WriteIntAttribute(p, "datatype", int64(t.Type)); err != nil {
			return err
		}
	}
	return nil
}

// LoadMeshRepresenter reconstructs a MeshRepresenter written by Save.
// The datasetType is checked before anything else is read.
func LoadMeshRepresenter(g *container.Group, opts ...Option) (_ *MeshRepresenter, err error) {
	o := applyOptions(opts)
	start := time.Now()
	defer func() {
		o.metricsCollector.RecordLoad(time.Since(start), err)
		o.logger.LogLoad(context.Background(), g.Path(), err)
	}()

	if err := checkDatasetType(g, DatasetTypeMesh, false); err != nil {
		return nil, modelError("load mesh representer", err)
	}
	ref, err := readMeshReference(g)
	if err != nil {
		return nil, modelError("load mesh representer", err)
	}
	if err := readAlignment(g, &o, false); err != nil {
		return nil, modelError("load mesh representer", err)
	}
	b, err := newBase(MeshRepresenterName, DatasetTypeMesh, ref, o)
	if err != nil {
		return nil, modelError("load mesh representer", err)
	}
	return &MeshRepresenter{base: b}, nil
}

func checkDatasetType(g *container.Group, want string, optional bool) error {
	typ, err := g.ReadString("datasetType")
	if err != nil {
		if optional && errors.Is(err, container.ErrNotFound) {
			return nil
		}
		return err
	}
	if typ != want {
		return fmt.Errorf("%w: got %s, expected %s", ErrWrongDatasetType, typ, want)
	}
	return nil
}

// readAlignment reads the stored alignment and landmarks into o. When the
// alignment node is absent and not required, o keeps its current mode.
func readAlignment(g *container.Group, o *options, required bool) error {
	v, err := g.ReadInt("alignment")
	switch {
	case err == nil:
		mode, err := alignmentFromInt(v)
		if err != nil {
			return err
		}
		o.alignment = mode
	case required || !errors.Is(err, container.ErrNotFound):
		return err
	}

	if !g.Exists("landmarks") {
		return nil
	}
	raw, err := g.ReadBytes("landmarks")
	if err != nil {
		return err
	}
	bm := roaring.New()
	if err := bm.UnmarshalBinary(raw); err != nil {
		return fmt.Errorf("landmarks: %w", err)
	}
	o.landmarks = bm
	return nil
}

func readMeshReference(g *container.Group) (*geometry.Dataset, error) {
	rows, cols, err := g.MatrixShape("points")
	if err != nil {
		return nil, fmt.Errorf("points: %w", err)
	}
	// An empty reference is stored as 0×0; anything else needs three rows.
	if rows != PointDimension && (rows != 0 || cols != 0) {
		return nil, fmt.Errorf("points: %w", &ErrDimensionMismatch{Expected: PointDimension, Actual: rows})
	}
	pm, err := g.ReadMatrix("points")
	if err != nil {
		return nil, fmt.Errorf("points: %w", err)
	}
	ref := geometry.NewDataset()
	if !pm.IsEmpty() {
		_, n := pm.Dims()
		ref.Points = make([]r3.Vector, n)
		for i := range ref.Points {
			ref.Points[i] = r3.Vector{X: pm.At(0, i), Y: pm.At(1, i), Z: pm.At(2, i)}
		}
	}

	if g.Exists("cells") {
		cm, err := g.ReadUintMatrix("cells")
		if err != nil {
			return nil, fmt.Errorf("cells: %w", err)
		}
		k, count := cm.Dims()
		cells := make([]geometry.Cell, count)
		for j := range cells {
			c := make(geometry.Cell, k)
			for i := range c {
				c[i] = cm.At(i, j)
			}
			cells[j] = c
		}
		if k == 2 {
			ref.Lines = cells
		} else if k > 0 {
			ref.Polys = cells
		}
	}

	if err := readAttributes(g, "pointData", &ref.PointData); err != nil {
		return nil, err
	}
	if err := readAttributes(g, "cellData", &ref.CellData); err != nil {
		return nil, err
	}
	return ref, nil
}

func readAttributes(g *container.Group, group string, attrs *geometry.Attributes) error {
	if !g.Exists(group) {
		return nil
	}
	for _, kind := range geometry.AttributeKinds {
		p := group + "/" + kind.String()
		if !g.Exists(p) {
			continue
		}
		m, err := g.ReadMatrix(p)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		tag, err := g.ReadIntAttribute(p, "datatype")
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		dt, err := geometry.ParseDataType(tag)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		comps, count := m.Dims()
		vals := make([]float64, comps*count)
		for i := 0; i < count; i++ {
			for c := 0; c < comps; c++ {
				vals[i*comps+c] = m.At(c, i)
			}
		}
		t, err := geometry.NewAttributeTable(dt, comps, vals)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		attrs.Set(kind, t)
	}
	return nil
}
