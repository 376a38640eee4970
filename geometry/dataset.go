package geometry

import (
	"errors"
	"fmt"

	"github.com/golang/geo/r3"
)

// ErrInvalidCell is returned when a cell references a point outside the dataset.
var ErrInvalidCell = errors.New("invalid cell")

// Cell is an ordered list of point indices.
type Cell []uint32

// Dataset is a point set with optional line or polygon topology and
// optional point/cell attributes.
//
// Cells are numbered lines first, then polygons.
type Dataset struct {
	Points    []r3.Vector
	Lines     []Cell
	Polys     []Cell
	PointData Attributes
	CellData  Attributes
}

// NewDataset returns an empty dataset.
func NewDataset() *Dataset {
	return &Dataset{}
}

// NewDatasetFromPoints returns a dataset holding a copy of points and no topology.
func NewDatasetFromPoints(points []r3.Vector) *Dataset {
	return &Dataset{Points: append([]r3.Vector(nil), points...)}
}

// NumberOfPoints returns the point count.
func (d *Dataset) NumberOfPoints() int {
	return len(d.Points)
}

// NumberOfCells returns the number of lines plus polygons.
func (d *Dataset) NumberOfCells() int {
	return len(d.Lines) + len(d.Polys)
}

// Cell returns cell i in native numbering.
func (d *Dataset) Cell(i int) Cell {
	if i < len(d.Lines) {
		return d.Lines[i]
	}
	return d.Polys[i-len(d.Lines)]
}

// Clone returns a deep copy sharing no memory with d.
func (d *Dataset) Clone() *Dataset {
	if d == nil {
		return nil
	}
	return &Dataset{
		Points:    append([]r3.Vector(nil), d.Points...),
		Lines:     cloneCells(d.Lines),
		Polys:     cloneCells(d.Polys),
		PointData: d.PointData.Clone(),
		CellData:  d.CellData.Clone(),
	}
}

// Reset drops all points, cells and attributes.
func (d *Dataset) Reset() {
	*d = Dataset{}
}

// Validate checks that every cell index is in range and that attribute
// tables match the point and cell counts.
func (d *Dataset) Validate() error {
	n := uint32(len(d.Points))
	for i := 0; i < d.NumberOfCells(); i++ {
		for _, id := range d.Cell(i) {
			if id >= n {
				return fmt.Errorf("%w: cell %d references point %d, dataset has %d points", ErrInvalidCell, i, id, n)
			}
		}
	}
	if err := d.PointData.validate(len(d.Points), "point data"); err != nil {
		return err
	}
	return d.CellData.validate(d.NumberOfCells(), "cell data")
}

// CoerceAttributes coerces the values of every point and cell attribute
// table into its element type.
func (d *Dataset) CoerceAttributes() {
	for _, a := range []*Attributes{&d.PointData, &d.CellData} {
		for _, kind := range AttributeKinds {
			a.Get(kind).Coerce()
		}
	}
}

func cloneCells(cells []Cell) []Cell {
	if cells == nil {
		return nil
	}
	out := make([]Cell, len(cells))
	for i, c := range cells {
		out[i] = append(Cell(nil), c...)
	}
	return out
}
