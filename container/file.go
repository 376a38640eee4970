package container

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"path/filepath"

	"github.com/hupe1980/shapego/blobstore"
	"github.com/hupe1980/shapego/internal/fs"
)

type options struct {
	compression CompressionType
	fsys        fs.FileSystem
}

// Option configures encoding and file access.
type Option func(*options)

// WithCompression selects the payload compression used when writing.
func WithCompression(c CompressionType) Option {
	return func(o *options) { o.compression = c }
}

// WithFileSystem routes file access through fsys.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) { o.fsys = fsys }
}

func applyOptions(opts []Option) options {
	o := options{compression: CompressionNone, fsys: fs.Default}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// Marshal encodes g and its descendants into the container file format.
func Marshal(g *Group, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, g, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a container produced by Marshal.
func Unmarshal(data []byte) (*Group, error) {
	return Decode(bytes.NewReader(data))
}

// Encode writes g and its descendants to w. g becomes the root of the
// encoded container.
func Encode(w io.Writer, g *Group, opts ...Option) error {
	o := applyOptions(opts)
	raw := encodeTree(g.n)
	if uint64(len(raw)) > MaxUncompressedSize {
		return fmt.Errorf("container: encoded size %d exceeds %d bytes", len(raw), uint64(MaxUncompressedSize))
	}
	payload, used, err := compress(raw, o.compression)
	if err != nil {
		return err
	}

	h := &FileHeader{
		Magic:            MagicNumber,
		Version:          Version,
		Compression:      used,
		PayloadSize:      uint64(len(payload)),
		UncompressedSize: uint64(len(raw)),
	}
	h.Checksum = computeChecksum(h, payload)

	if err := binary.Write(w, binary.LittleEndian, h); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

// Decode reads a container from r and verifies its checksum.
func Decode(r io.Reader) (*Group, error) {
	var h FileHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("container: read header: %w", err)
	}
	if h.Magic != MagicNumber {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidMagic, h.Magic)
	}
	if h.Version != Version {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidVersion, h.Version)
	}

	prefix := headerPrefix(&h)
	cr := NewChecksumReader(io.MultiReader(bytes.NewReader(prefix), io.LimitReader(r, int64(h.PayloadSize))))
	all, err := io.ReadAll(cr)
	if err != nil {
		return nil, fmt.Errorf("container: read payload: %w", err)
	}
	payload := all[len(prefix):]
	if uint64(len(payload)) != h.PayloadSize {
		return nil, fmt.Errorf("%w: truncated payload: %d of %d bytes", ErrCorrupt, len(payload), h.PayloadSize)
	}
	if err := cr.Verify(h.Checksum); err != nil {
		return nil, err
	}

	raw, err := decompress(payload, h.Compression, h.UncompressedSize)
	if err != nil {
		return nil, err
	}
	root, err := decodeTree(raw)
	if err != nil {
		return nil, err
	}
	return &Group{n: root, path: "/"}, nil
}

// SaveToFile atomically writes g to filename: the container is written to a
// temporary file in the same directory, synced, and renamed into place. The
// temporary file is removed on every failure path.
func SaveToFile(filename string, g *Group, opts ...Option) error {
	o := applyOptions(opts)
	dir := filepath.Dir(filename)
	base := filepath.Base(filename)

	tmp, err := o.fsys.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	closed := false
	defer func() {
		if !closed {
			_ = tmp.Close()
		}
		if tmpName != "" {
			_ = o.fsys.Remove(tmpName)
		}
	}()

	buf := bufio.NewWriterSize(tmp, 256*1024)
	if err := Encode(buf, g, opts...); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	closed = true
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := o.fsys.Rename(tmpName, filename); err != nil {
		return err
	}

	// Best-effort: fsync the directory so the rename is durable on POSIX.
	if d, err := o.fsys.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}

	tmpName = ""
	return nil
}

// LoadFromFile reads a container file.
func LoadFromFile(filename string, opts ...Option) (*Group, error) {
	o := applyOptions(opts)
	f, err := o.fsys.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(bufio.NewReaderSize(f, 256*1024))
}

// Put encodes g and stores it under name.
func Put(ctx context.Context, store blobstore.BlobStore, name string, g *Group, opts ...Option) error {
	data, err := Marshal(g, opts...)
	if err != nil {
		return err
	}
	return store.Put(ctx, name, data)
}

// Get fetches and decodes the container stored under name.
func Get(ctx context.Context, store blobstore.BlobStore, name string) (*Group, error) {
	data, err := blobstore.ReadAll(ctx, store, name)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}
