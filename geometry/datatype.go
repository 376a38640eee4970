package geometry

import (
	"fmt"
	"math"
)

// DataType tags the element type of an attribute array.
//
// The numeric values are the ones written into persisted containers, so they
// must never be renumbered.
type DataType int

const (
	DataTypeChar          DataType = 2
	DataTypeUnsignedChar  DataType = 3
	DataTypeShort         DataType = 4
	DataTypeUnsignedShort DataType = 5
	DataTypeInt           DataType = 6
	DataTypeUnsignedInt   DataType = 7
	DataTypeLong          DataType = 8
	DataTypeUnsignedLong  DataType = 9
	DataTypeFloat         DataType = 10
	DataTypeDouble        DataType = 11
)

// UnsupportedDataTypeError is returned for a tag or name with no known element kind.
type UnsupportedDataTypeError struct {
	Tag  int64
	Name string
}

func (e *UnsupportedDataTypeError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("unsupported data type %q", e.Name)
	}
	return fmt.Sprintf("unsupported data type tag %d", e.Tag)
}

type dataTypeInfo struct {
	name   string
	coerce func(float64) float64
}

func clampInt(lo, hi float64) func(float64) float64 {
	return func(v float64) float64 {
		if math.IsNaN(v) {
			return 0
		}
		return math.Max(lo, math.Min(hi, math.Trunc(v)))
	}
}

// dataTypes is the complete set of element kinds an attribute table can carry.
var dataTypes = map[DataType]dataTypeInfo{
	DataTypeChar:          {name: "char", coerce: clampInt(math.MinInt8, math.MaxInt8)},
	DataTypeUnsignedChar:  {name: "unsigned_char", coerce: clampInt(0, math.MaxUint8)},
	DataTypeShort:         {name: "short", coerce: clampInt(math.MinInt16, math.MaxInt16)},
	DataTypeUnsignedShort: {name: "unsigned_short", coerce: clampInt(0, math.MaxUint16)},
	DataTypeInt:           {name: "int", coerce: clampInt(math.MinInt32, math.MaxInt32)},
	DataTypeUnsignedInt:   {name: "unsigned_int", coerce: clampInt(0, math.MaxUint32)},
	DataTypeLong:          {name: "long", coerce: clampInt(math.MinInt64, math.MaxInt64)},
	DataTypeUnsignedLong:  {name: "unsigned_long", coerce: clampInt(0, math.MaxUint64)},
	DataTypeFloat:         {name: "float", coerce: func(v float64) float64 { return float64(float32(v)) }},
	DataTypeDouble:        {name: "double", coerce: func(v float64) float64 { return v }},
}

// ParseDataType maps a persisted tag to its DataType.
func ParseDataType(tag int64) (DataType, error) {
	dt := DataType(tag)
	if _, ok := dataTypes[dt]; !ok {
		return 0, &UnsupportedDataTypeError{Tag: tag}
	}
	return dt, nil
}

// DataTypeByName maps a native file type name (e.g. "float") to its DataType.
func DataTypeByName(name string) (DataType, error) {
	for dt, info := range dataTypes {
		if info.name == name {
			return dt, nil
		}
	}
	return 0, &UnsupportedDataTypeError{Name: name}
}

// Valid reports whether dt is a known element kind.
func (dt DataType) Valid() bool {
	_, ok := dataTypes[dt]
	return ok
}

// String returns the native file type name.
func (dt DataType) String() string {
	if info, ok := dataTypes[dt]; ok {
		return info.name
	}
	return fmt.Sprintf("DataType(%d)", int(dt))
}

// Coerce converts v into the value range and precision of the element type.
func (dt DataType) Coerce(v float64) float64 {
	if info, ok := dataTypes[dt]; ok {
		return info.coerce(v)
	}
	return v
}

// IsInteger reports whether dt holds integral values.
func (dt DataType) IsInteger() bool {
	return dt != DataTypeFloat && dt != DataTypeDouble
}
