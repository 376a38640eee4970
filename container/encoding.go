package container

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"
)

// maxDepth bounds group nesting when decoding untrusted payloads.
const maxDepth = 64

// Payload layout, little endian:
//
//	node    = kind:u8 body attrs
//	group   = count:u32 { name:str node }   (names sorted)
//	string  = str
//	int     = i64
//	matrix  = rows:u32 cols:u32 { f64 }    (column-major)
//	umatrix = rows:u32 cols:u32 { u32 }    (row-major)
//	bytes   = len:u64 raw
//	attrs   = count:u32 { name:str i64 }   (names sorted)
//	str     = len:u32 utf8
type encoder struct {
	buf []byte
}

func (e *encoder) u8(v uint8)   { e.buf = append(e.buf, v) }
func (e *encoder) u32(v uint32) { e.buf = binary.LittleEndian.AppendUint32(e.buf, v) }
func (e *encoder) u64(v uint64) { e.buf = binary.LittleEndian.AppendUint64(e.buf, v) }

func (e *encoder) str(s string) {
	e.u32(uint32(len(s)))
	e.buf = append(e.buf, s...)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (e *encoder) node(n *node) {
	e.u8(uint8(n.kind))
	switch n.kind {
	case KindGroup:
		e.u32(uint32(len(n.children)))
		for _, name := range sortedKeys(n.children) {
			e.str(name)
			e.node(n.children[name])
		}
	case KindString:
		e.str(n.str)
	case KindInt:
		e.u64(uint64(n.num))
	case KindMatrix:
		e.u32(uint32(n.rows))
		e.u32(uint32(n.cols))
		for _, f := range n.floats {
			e.u64(math.Float64bits(f))
		}
	case KindUintMatrix:
		e.u32(uint32(n.rows))
		e.u32(uint32(n.cols))
		for _, u := range n.uints {
			e.u32(u)
		}
	case KindBytes:
		e.u64(uint64(len(n.raw)))
		e.buf = append(e.buf, n.raw...)
	}
	e.u32(uint32(len(n.attrs)))
	for _, name := range sortedKeys(n.attrs) {
		e.str(name)
		e.u64(uint64(n.attrs[name]))
	}
}

func encodeTree(root *node) []byte {
	e := &encoder{buf: make([]byte, 0, 4096)}
	e.node(root)
	return e.buf
}

type decoder struct {
	data []byte
	off  int
	err  error
}

func (d *decoder) fail(format string, args ...any) {
	if d.err == nil {
		d.err = fmt.Errorf("%w: "+format, append([]any{ErrCorrupt}, args...)...)
	}
}

func (d *decoder) take(n uint64) []byte {
	if d.err != nil {
		return nil
	}
	if n > uint64(len(d.data)-d.off) {
		d.fail("need %d bytes at offset %d, have %d", n, d.off, len(d.data)-d.off)
		return nil
	}
	b := d.data[d.off : d.off+int(n)]
	d.off += int(n)
	return b
}

func (d *decoder) u8() uint8 {
	if b := d.take(1); b != nil {
		return b[0]
	}
	return 0
}

func (d *decoder) u32() uint32 {
	if b := d.take(4); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

func (d *decoder) u64() uint64 {
	if b := d.take(8); b != nil {
		return binary.LittleEndian.Uint64(b)
	}
	return 0
}

func (d *decoder) str() string {
	return string(d.take(uint64(d.u32())))
}

// dims reads a matrix shape and checks the element data fits in the rest
// of the payload before anything is allocated.
func (d *decoder) dims(elemSize uint64) (int, int) {
	rows, cols := uint64(d.u32()), uint64(d.u32())
	if d.err != nil {
		return 0, 0
	}
	avail := uint64(len(d.data)-d.off) / elemSize
	if rows != 0 && cols > avail/rows {
		d.fail("%d×%d matrix exceeds payload", rows, cols)
		return 0, 0
	}
	return int(rows), int(cols)
}

func (d *decoder) node(depth int) *node {
	if depth > maxDepth {
		d.fail("nesting deeper than %d", maxDepth)
		return nil
	}
	n := &node{kind: Kind(d.u8())}
	switch n.kind {
	case KindGroup:
		count := d.u32()
		n.children = make(map[string]*node)
		for i := uint32(0); i < count && d.err == nil; i++ {
			name := d.str()
			child := d.node(depth + 1)
			if d.err != nil {
				break
			}
			if _, dup := n.children[name]; dup || name == "" {
				d.fail("duplicate or empty child name %q", name)
				break
			}
			n.children[name] = child
		}
	case KindString:
		n.str = d.str()
	case KindInt:
		n.num = int64(d.u64())
	case KindMatrix:
		n.rows, n.cols = d.dims(8)
		n.floats = make([]float64, n.rows*n.cols)
		for i := range n.floats {
			n.floats[i] = math.Float64frombits(d.u64())
		}
	case KindUintMatrix:
		n.rows, n.cols = d.dims(4)
		n.uints = make([]uint32, n.rows*n.cols)
		for i := range n.uints {
			n.uints[i] = d.u32()
		}
	case KindBytes:
		n.raw = append([]byte(nil), d.take(d.u64())...)
	default:
		if d.err == nil {
			d.fail("unknown node kind %d", n.kind)
		}
		return nil
	}
	count := d.u32()
	for i := uint32(0); i < count && d.err == nil; i++ {
		if n.attrs == nil {
			n.attrs = make(map[string]int64)
		}
		name := d.str()
		n.attrs[name] = int64(d.u64())
	}
	return n
}

func decodeTree(data []byte) (*node, error) {
	d := &decoder{data: data}
	root := d.node(0)
	if d.err != nil {
		return nil, d.err
	}
	if root.kind != KindGroup {
		return nil, fmt.Errorf("%w: root is a %s", ErrCorrupt, root.kind)
	}
	if d.off != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, len(data)-d.off)
	}
	return root, nil
}
