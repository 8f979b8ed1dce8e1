package project

import (
	"errors"
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"

	"colselect-go/columns"
	"colselect-go/schema"
)

var (
	ErrNoColumns     = errors.New("no columns passed in")
	ErrInsideFrame   = errors.New("column lies inside a frame column")
	ErrNotInSchema   = errors.New("column does not exist in the schema")
	ErrInvalidSchema = func(info string) error {
		return fmt.Errorf("invalid schema was provided. context: %s", info)
	}
)

// step is one hop down a column path: the field reached and its index among
// its siblings.
type step struct {
	index int
	field arrow.Field
}

// locate follows path through fields. Every hop but the last has to be a
// struct; reaching into a list of structs fails with ErrInsideFrame.
func locate(fields []arrow.Field, path schema.ColumnPath) ([]step, error) {
	if path.IsEmpty() {
		return nil, ErrInvalidSchema("the root cannot be projected")
	}
	steps := make([]step, 0, path.Depth())
	for depth, name := range path {
		idx := -1
		for i, f := range fields {
			if f.Name == name {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("%w: %q", ErrNotInSchema, path.String())
		}
		f := fields[idx]
		steps = append(steps, step{index: idx, field: f})
		if depth == path.Depth()-1 {
			break
		}
		switch schema.KindOf(f.Type) {
		case schema.GroupKind:
			fields = f.Type.(*arrow.StructType).Fields()
		case schema.FrameKind:
			return nil, fmt.Errorf("%w: %q is inside %q", ErrInsideFrame, path.String(), path[:depth+1].String())
		default:
			return nil, fmt.Errorf("%w: %q", ErrNotInSchema, path.String())
		}
	}
	return steps, nil
}

// SelectSchema is Select over a schema alone.
func SelectSchema(s *arrow.Schema, cols []schema.ColumnWithPath) (*arrow.Schema, error) {
	fields, _, err := selectFields(s, cols)
	if err != nil {
		return nil, err
	}
	md := s.Metadata()
	return arrow.NewSchema(fields, &md), nil
}

func selectFields(s *arrow.Schema, cols []schema.ColumnWithPath) ([]arrow.Field, [][]step, error) {
	if len(cols) == 0 {
		return nil, nil, ErrNoColumns
	}
	names := make(map[string]int, len(cols))
	for _, c := range cols {
		names[c.Path.Name()]++
	}

	fields := make([]arrow.Field, 0, len(cols))
	hops := make([][]step, 0, len(cols))
	for _, c := range cols {
		steps, err := locate(s.Fields(), c.Path)
		if err != nil {
			return nil, nil, err
		}
		leaf := steps[len(steps)-1].field
		// a null enclosing group makes its children null as well
		for _, st := range steps[:len(steps)-1] {
			leaf.Nullable = leaf.Nullable || st.field.Nullable
		}
		if names[c.Path.Name()] > 1 {
			leaf.Name = c.Path.String()
		}
		fields = append(fields, leaf)
		hops = append(hops, steps)
	}
	return fields, hops, nil
}

// Select keeps only the selected columns of rec, in selection order. Columns
// nested in groups are lifted to the top level and named by the last part of
// their path, or by the whole path when that name is taken twice. Nulls of
// enclosing groups are not pushed into the lifted arrays. The caller releases
// the returned record.
func Select(rec arrow.Record, cols []schema.ColumnWithPath) (arrow.Record, error) {
	fields, hops, err := selectFields(rec.Schema(), cols)
	if err != nil {
		return nil, err
	}
	arrs := make([]arrow.Array, 0, len(fields))
	for i, steps := range hops {
		arr := rec.Column(steps[0].index)
		for _, st := range steps[1:] {
			parent, ok := arr.(*array.Struct)
			if !ok {
				return nil, ErrInvalidSchema(fmt.Sprintf("column %q is not backed by a struct array", cols[i].Path.String()))
			}
			arr = parent.Field(st.index)
		}
		if !arrow.TypeEqual(arr.DataType(), fields[i].Type) {
			return nil, ErrInvalidSchema(fmt.Sprintf("column '%s' has type '%s', but schema expects '%s'", fields[i].Name, arr.DataType(), fields[i].Type))
		}
		arrs = append(arrs, arr)
	}
	md := rec.Schema().Metadata()
	return array.NewRecord(arrow.NewSchema(fields, &md), arrs, rec.NumRows()), nil
}

// SelectWith resolves r against the schema of rec and projects the result.
func SelectWith(rec arrow.Record, r columns.Resolver) (arrow.Record, error) {
	root, err := schema.FromArrow(rec.Schema())
	if err != nil {
		return nil, err
	}
	cols, err := columns.Resolve(r, root)
	if err != nil {
		return nil, err
	}
	return Select(rec, cols)
}
