package geometry

import (
	"errors"
	"fmt"
)

// AttributeKind names the role an attribute array plays on points or cells.
type AttributeKind int

const (
	Scalars AttributeKind = iota
	Vectors
	Normals
)

// AttributeKinds lists every kind in persistence order.
var AttributeKinds = []AttributeKind{Scalars, Vectors, Normals}

// String returns the stable node name used in containers and files.
func (k AttributeKind) String() string {
	switch k {
	case Scalars:
		return "scalars"
	case Vectors:
		return "vectors"
	case Normals:
		return "normals"
	default:
		return fmt.Sprintf("AttributeKind(%d)", int(k))
	}
}

// ErrInvalidAttribute is returned when an attribute table has an inconsistent shape.
var ErrInvalidAttribute = errors.New("invalid attribute table")

// AttributeTable is a components × tuples numeric array with an element type tag.
// Values are stored tuple-major: tuple i occupies Values[i*Components:(i+1)*Components].
type AttributeTable struct {
	Name       string
	Type       DataType
	Components int
	Values     []float64
}

// NewAttributeTable validates the shape and coerces values into the element type.
func NewAttributeTable(dt DataType, components int, values []float64) (*AttributeTable, error) {
	if !dt.Valid() {
		return nil, &UnsupportedDataTypeError{Tag: int64(dt)}
	}
	if components <= 0 {
		return nil, fmt.Errorf("%w: %d components", ErrInvalidAttribute, components)
	}
	if len(values)%components != 0 {
		return nil, fmt.Errorf("%w: %d values not divisible by %d components", ErrInvalidAttribute, len(values), components)
	}
	vals := make([]float64, len(values))
	for i, v := range values {
		vals[i] = dt.Coerce(v)
	}
	return &AttributeTable{Type: dt, Components: components, Values: vals}, nil
}

// Tuples returns the number of tuples in the table.
func (t *AttributeTable) Tuples() int {
	if t == nil || t.Components == 0 {
		return 0
	}
	return len(t.Values) / t.Components
}

// Tuple returns a copy of tuple i.
func (t *AttributeTable) Tuple(i int) []float64 {
	out := make([]float64, t.Components)
	copy(out, t.Values[i*t.Components:(i+1)*t.Components])
	return out
}

// Clone returns a deep copy of the table.
func (t *AttributeTable) Clone() *AttributeTable {
	if t == nil {
		return nil
	}
	c := *t
	c.Values = append([]float64(nil), t.Values...)
	return &c
}

// Coerce converts every value in place into the table's element type, the
// form a persisted table is read back in.
func (t *AttributeTable) Coerce() {
	if t == nil {
		return
	}
	for i, v := range t.Values {
		t.Values[i] = t.Type.Coerce(v)
	}
}

// Attributes holds the optional scalars, vectors and normals of points or cells.
type Attributes struct {
	Scalars *AttributeTable
	Vectors *AttributeTable
	Normals *AttributeTable
}

// Get returns the table for kind, or nil.
func (a *Attributes) Get(kind AttributeKind) *AttributeTable {
	switch kind {
	case Scalars:
		return a.Scalars
	case Vectors:
		return a.Vectors
	case Normals:
		return a.Normals
	}
	return nil
}

// Set attaches t as the table for kind.
func (a *Attributes) Set(kind AttributeKind, t *AttributeTable) {
	switch kind {
	case Scalars:
		a.Scalars = t
	case Vectors:
		a.Vectors = t
	case Normals:
		a.Normals = t
	}
}

// Empty reports whether no table is attached.
func (a *Attributes) Empty() bool {
	return a.Scalars == nil && a.Vectors == nil && a.Normals == nil
}

// Clone returns a deep copy.
func (a Attributes) Clone() Attributes {
	return Attributes{
		Scalars: a.Scalars.Clone(),
		Vectors: a.Vectors.Clone(),
		Normals: a.Normals.Clone(),
	}
}

func (a *Attributes) validate(count int, where string) error {
	for _, kind := range AttributeKinds {
		t := a.Get(kind)
		if t == nil {
			continue
		}
		if !t.Type.Valid() {
			return fmt.Errorf("%s %s: %w", where, kind, &UnsupportedDataTypeError{Tag: int64(t.Type)})
		}
		if t.Components <= 0 || len(t.Values)%t.Components != 0 {
			return fmt.Errorf("%w: %s %s has inconsistent shape", ErrInvalidAttribute, where, kind)
		}
		if t.Tuples() != count {
			return fmt.Errorf("%w: %s %s has %d tuples, expected %d", ErrInvalidAttribute, where, kind, t.Tuples(), count)
		}
	}
	return nil
}
