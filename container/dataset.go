package container

import (
	"bytes"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// UintMatrix is a dense row-major matrix of uint32 values, used for cell
// index tables.
type UintMatrix struct {
	rows, cols int
	data       []uint32
}

// NewUintMatrix creates a rows×cols matrix. If data is nil a zeroed backing
// slice is allocated; otherwise len(data) must equal rows*cols and data is
// used directly. NewUintMatrix panics on a size mismatch, like mat.NewDense.
func NewUintMatrix(rows, cols int, data []uint32) *UintMatrix {
	if rows < 0 || cols < 0 {
		panic("container: negative matrix dimension")
	}
	if data == nil {
		data = make([]uint32, rows*cols)
	}
	if len(data) != rows*cols {
		panic(fmt.Sprintf("container: matrix data length %d does not match %d×%d", len(data), rows, cols))
	}
	return &UintMatrix{rows: rows, cols: cols, data: data}
}

// Dims returns the number of rows and columns.
func (m *UintMatrix) Dims() (rows, cols int) { return m.rows, m.cols }

// At returns the element at row i, column j.
func (m *UintMatrix) At(i, j int) uint32 { return m.data[i*m.cols+j] }

// Set sets the element at row i, column j.
func (m *UintMatrix) Set(i, j int, v uint32) { m.data[i*m.cols+j] = v }

// RawRow returns row i without copying.
func (m *UintMatrix) RawRow(i int) []uint32 { return m.data[i*m.cols : (i+1)*m.cols] }

func (g *Group) dataset(p string, kind Kind) (*node, error) {
	n, err := g.lookup(p)
	if err != nil {
		return nil, err
	}
	if n.kind != kind {
		segs, _ := splitPath(p)
		return nil, fmt.Errorf("%w: %s is a %s, want %s", ErrTypeMismatch, g.abs(segs), n.kind, kind)
	}
	return n, nil
}

// WriteString stores a string dataset at p.
func (g *Group) WriteString(p, s string) error {
	return g.insert(p, &node{kind: KindString, str: s})
}

// ReadString reads the string dataset at p.
func (g *Group) ReadString(p string) (string, error) {
	n, err := g.dataset(p, KindString)
	if err != nil {
		return "", err
	}
	return n.str, nil
}

// WriteInt stores an integer dataset at p.
func (g *Group) WriteInt(p string, v int64) error {
	return g.insert(p, &node{kind: KindInt, num: v})
}

// ReadInt reads the integer dataset at p.
func (g *Group) ReadInt(p string) (int64, error) {
	n, err := g.dataset(p, KindInt)
	if err != nil {
		return 0, err
	}
	return n.num, nil
}

// WriteMatrix stores a float64 matrix at p. An empty *mat.Dense stores a 0×0
// matrix.
func (g *Group) WriteMatrix(p string, m mat.Matrix) error {
	rows, cols := m.Dims()
	vals := make([]float64, rows*cols)
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			vals[j*rows+i] = m.At(i, j)
		}
	}
	return g.insert(p, &node{kind: KindMatrix, rows: rows, cols: cols, floats: vals})
}

// ReadMatrix reads the float64 matrix at p. A 0×0 matrix is returned as an
// empty *mat.Dense.
func (g *Group) ReadMatrix(p string) (*mat.Dense, error) {
	n, err := g.dataset(p, KindMatrix)
	if err != nil {
		return nil, err
	}
	if n.rows == 0 || n.cols == 0 {
		return &mat.Dense{}, nil
	}
	d := mat.NewDense(n.rows, n.cols, nil)
	for j := 0; j < n.cols; j++ {
		for i := 0; i < n.rows; i++ {
			d.Set(i, j, n.floats[j*n.rows+i])
		}
	}
	return d, nil
}

// MatrixShape returns the dimensions of the float64 or uint32 matrix at p.
func (g *Group) MatrixShape(p string) (rows, cols int, err error) {
	n, err := g.lookup(p)
	if err != nil {
		return 0, 0, err
	}
	if n.kind != KindMatrix && n.kind != KindUintMatrix {
		return 0, 0, fmt.Errorf("%w: %s is a %s, want a matrix", ErrTypeMismatch, p, n.kind)
	}
	return n.rows, n.cols, nil
}

// WriteUintMatrix stores a copy of m at p.
func (g *Group) WriteUintMatrix(p string, m *UintMatrix) error {
	return g.insert(p, &node{
		kind:  KindUintMatrix,
		rows:  m.rows,
		cols:  m.cols,
		uints: append([]uint32(nil), m.data...),
	})
}

// ReadUintMatrix reads the uint32 matrix at p.
func (g *Group) ReadUintMatrix(p string) (*UintMatrix, error) {
	n, err := g.dataset(p, KindUintMatrix)
	if err != nil {
		return nil, err
	}
	return NewUintMatrix(n.rows, n.cols, append(make([]uint32, 0, len(n.uints)), n.uints...)), nil
}

// WriteBytes stores an opaque blob at p.
func (g *Group) WriteBytes(p string, b []byte) error {
	return g.insert(p, &node{kind: KindBytes, raw: bytes.Clone(b)})
}

// ReadBytes returns a copy of the blob at p.
func (g *Group) ReadBytes(p string) ([]byte, error) {
	n, err := g.dataset(p, KindBytes)
	if err != nil {
		return nil, err
	}
	return bytes.Clone(n.raw), nil
}

// WriteIntAttribute attaches an integer attribute to the node at p,
// replacing any previous value.
func (g *Group) WriteIntAttribute(p, name string, v int64) error {
	n, err := g.lookup(p)
	if err != nil {
		return err
	}
	if n.attrs == nil {
		n.attrs = make(map[string]int64)
	}
	n.attrs[name] = v
	return nil
}

// ReadIntAttribute reads an integer attribute of the node at p.
func (g *Group) ReadIntAttribute(p, name string) (int64, error) {
	n, err := g.lookup(p)
	if err != nil {
		return 0, err
	}
	v, ok := n.attrs[name]
	if !ok {
		segs, _ := splitPath(p)
		return 0, fmt.Errorf("%w: attribute %q of %s", ErrNotFound, name, g.abs(segs))
	}
	return v, nil
}

// HasAttribute reports whether the node at p carries the named attribute.
func (g *Group) HasAttribute(p, name string) bool {
	n, err := g.lookup(p)
	if err != nil {
		return false
	}
	_, ok := n.attrs[name]
	return ok
}
