package geometry

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
)

// ErrMalformedVTK is returned when a legacy VTK stream cannot be parsed.
var ErrMalformedVTK = errors.New("malformed vtk polydata")

// FileError reports a dataset file that could not be read or written.
type FileError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

const vtkHeader = "# vtk DataFile Version 3.0"

// WriteVTK encodes d as a legacy ASCII VTK POLYDATA stream.
func WriteVTK(w io.Writer, d *Dataset) error {
	if err := d.Validate(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%s\nshapego\nASCII\nDATASET POLYDATA\n", vtkHeader)
	fmt.Fprintf(bw, "POINTS %d double\n", len(d.Points))
	for _, p := range d.Points {
		fmt.Fprintf(bw, "%s %s %s\n", formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Z))
	}
	writeCells(bw, "LINES", d.Lines)
	writeCells(bw, "POLYGONS", d.Polys)

	if !d.PointData.Empty() {
		fmt.Fprintf(bw, "POINT_DATA %d\n", len(d.Points))
		writeAttributes(bw, &d.PointData)
	}
	if !d.CellData.Empty() {
		fmt.Fprintf(bw, "CELL_DATA %d\n", d.NumberOfCells())
		writeAttributes(bw, &d.CellData)
	}
	return bw.Flush()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeCells(w *bufio.Writer, keyword string, cells []Cell) {
	if len(cells) == 0 {
		return
	}
	size := 0
	for _, c := range cells {
		size += len(c) + 1
	}
	fmt.Fprintf(w, "%s %d %d\n", keyword, len(cells), size)
	for _, c := range cells {
		w.WriteString(strconv.Itoa(len(c)))
		for _, id := range c {
			w.WriteByte(' ')
			w.WriteString(strconv.FormatUint(uint64(id), 10))
		}
		w.WriteByte('\n')
	}
}

func writeAttributes(w *bufio.Writer, a *Attributes) {
	for _, kind := range AttributeKinds {
		t := a.Get(kind)
		if t == nil {
			continue
		}
		name := arrayName(t, kind)
		switch kind {
		case Scalars:
			fmt.Fprintf(w, "SCALARS %s %s %d\nLOOKUP_TABLE default\n", name, t.Type, t.Components)
		case Vectors:
			fmt.Fprintf(w, "VECTORS %s %s\n", name, t.Type)
		case Normals:
			fmt.Fprintf(w, "NORMALS %s %s\n", name, t.Type)
		}
		for i := 0; i < t.Tuples(); i++ {
			for j, v := range t.Values[i*t.Components : (i+1)*t.Components] {
				if j > 0 {
					w.WriteByte(' ')
				}
				w.WriteString(formatFloat(v))
			}
			w.WriteByte('\n')
		}
	}
}

func arrayName(t *AttributeTable, kind AttributeKind) string {
	if t.Name == "" {
		return kind.String()
	}
	return strings.Join(strings.Fields(t.Name), "_")
}

// ReadVTK decodes a legacy ASCII VTK POLYDATA stream.
func ReadVTK(r io.Reader) (*Dataset, error) {
	br := bufio.NewReader(r)
	header := make([]string, 0, 4)
	for len(header) < 4 {
		line, err := br.ReadString('\n')
		line = strings.TrimSpace(line)
		if line != "" || len(header) == 1 {
			header = append(header, line)
		}
		if err != nil {
			if len(header) < 4 {
				return nil, fmt.Errorf("%w: truncated header", ErrMalformedVTK)
			}
			break
		}
	}
	if !strings.HasPrefix(header[0], "# vtk DataFile") {
		return nil, fmt.Errorf("%w: missing vtk signature", ErrMalformedVTK)
	}
	if !strings.EqualFold(header[2], "ASCII") {
		return nil, fmt.Errorf("%w: only ASCII files are supported, got %q", ErrMalformedVTK, header[2])
	}
	if f := strings.Fields(header[3]); len(f) != 2 || !strings.EqualFold(f[0], "DATASET") || !strings.EqualFold(f[1], "POLYDATA") {
		return nil, fmt.Errorf("%w: expected DATASET POLYDATA, got %q", ErrMalformedVTK, header[3])
	}

	p := &vtkParser{sc: bufio.NewScanner(br)}
	p.sc.Buffer(make([]byte, 64*1024), 1<<20)
	p.sc.Split(bufio.ScanWords)

	d := NewDataset()
	var target *Attributes
	var count int
	for {
		kw, ok := p.next()
		if !ok {
			break
		}
		switch strings.ToUpper(kw) {
		case "POINTS":
			n := p.int()
			p.word() // element type, always read as double
			d.Points = nil
			for i := 0; i < n && p.err == nil; i++ {
				pt := r3.Vector{X: p.float(), Y: p.float(), Z: p.float()}
				if p.err == nil {
					d.Points = append(d.Points, pt)
				}
			}
		case "LINES":
			d.Lines = p.cells()
		case "POLYGONS":
			d.Polys = p.cells()
		case "VERTICES":
			p.fail(fmt.Errorf("%w: VERTICES cells are not supported", ErrMalformedVTK))
		case "POINT_DATA":
			count = p.int()
			target = &d.PointData
		case "CELL_DATA":
			count = p.int()
			target = &d.CellData
		case "SCALARS":
			name, dt := p.word(), p.dataType()
			comps := 1
			if next, ok := p.peek(); ok && !strings.EqualFold(next, "LOOKUP_TABLE") {
				comps = p.int()
			}
			if next, ok := p.peek(); ok && strings.EqualFold(next, "LOOKUP_TABLE") {
				p.next()
				p.word()
			}
			p.attribute(target, Scalars, name, dt, comps, count)
		case "VECTORS":
			name, dt := p.word(), p.dataType()
			p.attribute(target, Vectors, name, dt, 3, count)
		case "NORMALS":
			name, dt := p.word(), p.dataType()
			p.attribute(target, Normals, name, dt, 3, count)
		default:
			p.fail(fmt.Errorf("%w: unsupported section %q", ErrMalformedVTK, kw))
		}
		if p.err != nil {
			return nil, p.err
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

type vtkParser struct {
	sc      *bufio.Scanner
	pending string
	hasPeek bool
	err     error
}

func (p *vtkParser) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

func (p *vtkParser) peek() (string, bool) {
	if p.hasPeek {
		return p.pending, true
	}
	if p.err != nil || !p.sc.Scan() {
		if err := p.sc.Err(); err != nil {
			p.fail(err)
		}
		return "", false
	}
	p.pending, p.hasPeek = p.sc.Text(), true
	return p.pending, true
}

func (p *vtkParser) next() (string, bool) {
	tok, ok := p.peek()
	p.hasPeek = false
	return tok, ok
}

func (p *vtkParser) word() string {
	tok, ok := p.next()
	if !ok {
		p.fail(fmt.Errorf("%w: unexpected end of file", ErrMalformedVTK))
	}
	return tok
}

func (p *vtkParser) int() int {
	tok := p.word()
	if p.err != nil {
		return 0
	}
	n, err := strconv.Atoi(tok)
	if err != nil || n < 0 {
		p.fail(fmt.Errorf("%w: bad count %q", ErrMalformedVTK, tok))
		return 0
	}
	return n
}

// index reads a point id, which must fit a Cell element.
func (p *vtkParser) index() uint32 {
	n := p.int()
	if uint64(n) > math.MaxUint32 {
		p.fail(fmt.Errorf("%w: point id %d out of range", ErrMalformedVTK, n))
		return 0
	}
	return uint32(n)
}

func (p *vtkParser) float() float64 {
	tok := p.word()
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		p.fail(fmt.Errorf("%w: bad number %q", ErrMalformedVTK, tok))
	}
	return v
}

func (p *vtkParser) dataType() DataType {
	tok := p.word()
	if p.err != nil {
		return 0
	}
	dt, err := DataTypeByName(strings.ToLower(tok))
	if err != nil {
		p.fail(err)
	}
	return dt
}

func (p *vtkParser) cells() []Cell {
	n := p.int()
	p.int() // total size, implied by the per-cell counts
	var cells []Cell
	for i := 0; i < n && p.err == nil; i++ {
		k := p.int()
		var c Cell
		for j := 0; j < k && p.err == nil; j++ {
			c = append(c, p.index())
		}
		cells = append(cells, c)
	}
	if p.err != nil {
		return nil
	}
	return cells
}

func (p *vtkParser) attribute(target *Attributes, kind AttributeKind, name string, dt DataType, comps, count int) {
	if p.err != nil {
		return
	}
	if target == nil {
		p.fail(fmt.Errorf("%w: %s outside POINT_DATA or CELL_DATA", ErrMalformedVTK, kind))
		return
	}
	if comps <= 0 || count > math.MaxInt/comps {
		p.fail(fmt.Errorf("%w: %s with %d components and %d tuples", ErrMalformedVTK, kind, comps, count))
		return
	}
	var vals []float64
	for i := 0; i < comps*count && p.err == nil; i++ {
		vals = append(vals, p.float())
	}
	if p.err != nil {
		return
	}
	t, err := NewAttributeTable(dt, comps, vals)
	if err != nil {
		p.fail(err)
		return
	}
	t.Name = name
	target.Set(kind, t)
}

// ReadVTKFile reads a legacy ASCII VTK POLYDATA file.
func ReadVTKFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileError{Op: "read", Path: path, Err: err}
	}
	defer f.Close()
	d, err := ReadVTK(f)
	if err != nil {
		return nil, &FileError{Op: "read", Path: path, Err: err}
	}
	return d, nil
}

// WriteVTKFile writes d to path as legacy ASCII VTK POLYDATA.
func WriteVTKFile(path string, d *Dataset) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return &FileError{Op: "write", Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &FileError{Op: "write", Path: path, Err: cerr}
		}
	}()
	if err := WriteVTK(f, d); err != nil {
		return &FileError{Op: "write", Path: path, Err: err}
	}
	return nil
}
