package shapego

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hupe1980/shapego/container"
	"github.com/hupe1980/shapego/geometry"
	"github.com/hupe1980/shapego/internal/fs"
)

const (
	// PolyDataRepresenterName is the name written by PolyDataRepresenter.Save.
	PolyDataRepresenterName = "PolyDataRepresenter"
	// DatasetTypePolyData discriminates representers that embed their
	// reference as a native VTK file.
	DatasetTypePolyData = "POLYDATA_FILE"
)

const scratchPattern = "shapego-*.vtk"

// PolyDataRepresenter stores its reference as an opaque legacy VTK file
// embedded in the container. Use it when the reference carries data the
// structured mesh schema does not model.
type PolyDataRepresenter struct {
	base
}

var _ Representer = (*PolyDataRepresenter)(nil)

// NewPolyDataRepresenter creates a representer around a deep copy of ref.
func NewPolyDataRepresenter(ref *geometry.Dataset, opts ...Option) (*PolyDataRepresenter, error) {
	b, err := newBase(PolyDataRepresenterName, DatasetTypePolyData, ref, applyOptions(opts))
	if err != nil {
		return nil, modelError("new polydata representer", err)
	}
	return &PolyDataRepresenter{base: b}, nil
}

// NewPolyDataRepresenterFromFile reads the reference from a legacy VTK file.
func NewPolyDataRepresenterFromFile(path string, opts ...Option) (*PolyDataRepresenter, error) {
	ref, err := geometry.ReadVTKFile(path)
	if err != nil {
		return nil, modelError("new polydata representer", err)
	}
	return NewPolyDataRepresenter(ref, opts...)
}

// Name returns PolyDataRepresenterName.
func (r *PolyDataRepresenter) Name() string { return PolyDataRepresenterName }

// DatasetType returns DatasetTypePolyData.
func (r *PolyDataRepresenter) DatasetType() string { return DatasetTypePolyData }

// Clone returns an independent copy of r.
func (r *PolyDataRepresenter) Clone() Representer {
	return &PolyDataRepresenter{base: r.base.clone()}
}

// Save writes the identity nodes, the alignment and the reference as the
// bytes of a VTK file into g. The scratch file is always removed.
func (r *PolyDataRepresenter) Save(g *container.Group) (err error) {
	start := time.Now()
	defer func() {
		r.opts.metricsCollector.RecordSave(time.Since(start), err)
		r.logger.LogSave(context.Background(), g.Path(), err)
	}()

	raw, err := writeScratch(r.opts.fsys, r.opts.tempDir, r.ref)
	if err != nil {
		return modelError("save polydata representer", err)
	}
	if err := r.writeHeader(g, PolyDataRepresenterName, DatasetTypePolyData); err != nil {
		return modelError("save polydata representer", err)
	}
	if err := g.WriteBytes("reference", raw); err != nil {
		return modelError("save polydata representer", err)
	}
	return nil
}

// LoadPolyDataRepresenter reconstructs a PolyDataRepresenter written by
// Save. Containers without a datasetType node are accepted; the alignment
// node is mandatory.
func LoadPolyDataRepresenter(g *container.Group, opts ...Option) (_ *PolyDataRepresenter, err error) {
	o := applyOptions(opts)
	start := time.Now()
	defer func() {
		o.metricsCollector.RecordLoad(time.Since(start), err)
		o.logger.LogLoad(context.Background(), g.Path(), err)
	}()

	if err := checkDatasetType(g, DatasetTypePolyData, true); err != nil {
		return nil, modelError("load polydata representer", err)
	}
	raw, err := g.ReadBytes("reference")
	if err != nil {
		return nil, modelError("load polydata representer", fmt.Errorf("reference: %w", err))
	}
	ref, err := readScratch(o.fsys, o.tempDir, raw)
	if err != nil {
		return nil, modelError("load polydata representer", err)
	}
	if err := readAlignment(g, &o, true); err != nil {
		return nil, modelError("load polydata representer", fmt.Errorf("alignment: %w", err))
	}
	b, err := newBase(PolyDataRepresenterName, DatasetTypePolyData, ref, o)
	if err != nil {
		return nil, modelError("load polydata representer", err)
	}
	return &PolyDataRepresenter{base: b}, nil
}

// writeScratch writes d to a uniquely named scratch file and returns the
// file's bytes.
func writeScratch(fsys fs.FileSystem, dir string, d *geometry.Dataset) (_ []byte, err error) {
	if dir == "" {
		dir = os.TempDir()
	}
	f, err := fsys.CreateTemp(dir, scratchPattern)
	if err != nil {
		return nil, &geometry.FileError{Op: "write", Path: dir, Err: err}
	}
	name := f.Name()
	closed := false
	defer func() {
		if !closed {
			_ = f.Close()
		}
		_ = fsys.Remove(name)
	}()

	w := bufio.NewWriter(f)
	if err := geometry.WriteVTK(w, d); err != nil {
		return nil, &geometry.FileError{Op: "write", Path: name, Err: err}
	}
	if err := w.Flush(); err != nil {
		return nil, &geometry.FileError{Op: "write", Path: name, Err: err}
	}
	if err := f.Sync(); err != nil {
		return nil, &geometry.FileError{Op: "write", Path: name, Err: err}
	}
	closed = true
	if err := f.Close(); err != nil {
		return nil, &geometry.FileError{Op: "write", Path: name, Err: err}
	}

	rf, err := fsys.Open(name)
	if err != nil {
		return nil, &geometry.FileError{Op: "read", Path: name, Err: err}
	}
	defer rf.Close()
	raw, err := io.ReadAll(rf)
	if err != nil {
		return nil, &geometry.FileError{Op: "read", Path: name, Err: err}
	}
	return raw, nil
}

// readScratch dumps raw into a uniquely named scratch file and parses it
// as a VTK dataset.
func readScratch(fsys fs.FileSystem, dir string, raw []byte) (_ *geometry.Dataset, err error) {
	if dir == "" {
		dir = os.TempDir()
	}
	f, err := fsys.CreateTemp(dir, scratchPattern)
	if err != nil {
		return nil, &geometry.FileError{Op: "write", Path: dir, Err: err}
	}
	name := f.Name()
	closed := false
	defer func() {
		if !closed {
			_ = f.Close()
		}
		_ = fsys.Remove(name)
	}()

	if _, err := f.Write(raw); err != nil {
		return nil, &geometry.FileError{Op: "write", Path: name, Err: err}
	}
	closed = true
	if err := f.Close(); err != nil {
		return nil, &geometry.FileError{Op: "write", Path: name, Err: err}
	}

	rf, err := fsys.Open(name)
	if err != nil {
		return nil, &geometry.FileError{Op: "read", Path: name, Err: err}
	}
	defer rf.Close()
	d, err := geometry.ReadVTK(bufio.NewReader(rf))
	if err != nil {
		return nil, &geometry.FileError{Op: "read", Path: name, Err: err}
	}
	return d, nil
}
