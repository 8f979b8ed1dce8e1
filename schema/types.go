package schema

import (
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
)

// TypeMatcher decides whether a column declared with one arrow type satisfies
// a request for another.
type TypeMatcher interface {
	Matches(declared, requested arrow.DataType) bool
}

type TypeMatcherFunc func(declared, requested arrow.DataType) bool

func (f TypeMatcherFunc) Matches(declared, requested arrow.DataType) bool {
	return f(declared, requested)
}

var (
	ExactTypes      TypeMatcher = TypeMatcherFunc(exact)
	AssignableTypes TypeMatcher = TypeMatcherFunc(Assignable)
)

func exact(declared, requested arrow.DataType) bool {
	return arrow.TypeEqual(declared, requested)
}

// ParseMatcher maps the config spelling of a matching mode to a matcher. An
// empty mode means exact matching.
func ParseMatcher(mode string) (TypeMatcher, error) {
	switch mode {
	case "", "exact":
		return ExactTypes, nil
	case "assignable":
		return AssignableTypes, nil
	}
	return nil, fmt.Errorf("unknown type matching mode %q (want exact or assignable)", mode)
}

// Assignable reports whether every value of declared can be held by requested
// without loss: equal types, integer and float widening, and the small/large
// variants of string and binary.
func Assignable(declared, requested arrow.DataType) bool {
	if arrow.TypeEqual(declared, requested) {
		return true
	}
	from, to := declared.ID(), requested.ID()
	if w, ok := widening[from]; ok {
		for _, id := range w {
			if id == to {
				return true
			}
		}
	}
	return false
}

var widening = map[arrow.Type][]arrow.Type{
	arrow.INT8:         {arrow.INT16, arrow.INT32, arrow.INT64, arrow.FLOAT32, arrow.FLOAT64},
	arrow.INT16:        {arrow.INT32, arrow.INT64, arrow.FLOAT32, arrow.FLOAT64},
	arrow.INT32:        {arrow.INT64, arrow.FLOAT64},
	arrow.UINT8:        {arrow.UINT16, arrow.UINT32, arrow.UINT64, arrow.INT16, arrow.INT32, arrow.INT64, arrow.FLOAT32, arrow.FLOAT64},
	arrow.UINT16:       {arrow.UINT32, arrow.UINT64, arrow.INT32, arrow.INT64, arrow.FLOAT32, arrow.FLOAT64},
	arrow.UINT32:       {arrow.UINT64, arrow.INT64, arrow.FLOAT64},
	arrow.FLOAT16:      {arrow.FLOAT32, arrow.FLOAT64},
	arrow.FLOAT32:      {arrow.FLOAT64},
	arrow.STRING:       {arrow.LARGE_STRING},
	arrow.LARGE_STRING: {arrow.STRING},
	arrow.BINARY:       {arrow.LARGE_BINARY},
	arrow.LARGE_BINARY: {arrow.BINARY},
}

// ParseType understands the arrow type names used in plan files.
func ParseType(name string) (arrow.DataType, bool) {
	dt, ok := namedTypes[name]
	return dt, ok
}

var namedTypes = map[string]arrow.DataType{
	"bool":         arrow.FixedWidthTypes.Boolean,
	"int8":         arrow.PrimitiveTypes.Int8,
	"int16":        arrow.PrimitiveTypes.Int16,
	"int32":        arrow.PrimitiveTypes.Int32,
	"int64":        arrow.PrimitiveTypes.Int64,
	"uint8":        arrow.PrimitiveTypes.Uint8,
	"uint16":       arrow.PrimitiveTypes.Uint16,
	"uint32":       arrow.PrimitiveTypes.Uint32,
	"uint64":       arrow.PrimitiveTypes.Uint64,
	"float16":      arrow.FixedWidthTypes.Float16,
	"float32":      arrow.PrimitiveTypes.Float32,
	"float64":      arrow.PrimitiveTypes.Float64,
	"utf8":         arrow.BinaryTypes.String,
	"string":       arrow.BinaryTypes.String,
	"large_utf8":   arrow.BinaryTypes.LargeString,
	"large_string": arrow.BinaryTypes.LargeString,
	"binary":       arrow.BinaryTypes.Binary,
	"large_binary": arrow.BinaryTypes.LargeBinary,
	"date32":       arrow.FixedWidthTypes.Date32,
	"date64":       arrow.FixedWidthTypes.Date64,
	"timestamp_s":  arrow.FixedWidthTypes.Timestamp_s,
	"timestamp_ms": arrow.FixedWidthTypes.Timestamp_ms,
	"timestamp_us": arrow.FixedWidthTypes.Timestamp_us,
	"timestamp_ns": arrow.FixedWidthTypes.Timestamp_ns,
}
