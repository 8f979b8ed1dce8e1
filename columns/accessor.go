package columns

import (
	"github.com/apache/arrow/go/v17/arrow"

	"colselect-go/schema"
)

// ColumnGroup is a resolved column known to be a group.
type ColumnGroup struct {
	schema.ColumnWithPath
}

// Columns lists the group's children with their full paths.
func (g ColumnGroup) Columns() []schema.ColumnWithPath { return g.Children() }

func (g ColumnGroup) Schema() *arrow.Schema { return g.Node.Schema() }

// Select resolves r with the group as its scope. Output paths continue from
// the group's path.
func (g ColumnGroup) Select(r Resolver) ([]schema.ColumnWithPath, error) {
	return r.Resolve(g.ColumnWithPath)
}

// FrameColumn is a resolved column holding a nested table per row.
type FrameColumn struct {
	schema.ColumnWithPath
}

func (f FrameColumn) Schema() *arrow.Schema { return f.Node.Schema() }

// Table is the root group of the nested table.
func (f FrameColumn) Table() *schema.Node { return f.Node.Frame() }

// Select resolves r against the nested table. Paths are relative to the
// nested table, not to the frame column.
func (f FrameColumn) Select(r Resolver) ([]schema.ColumnWithPath, error) {
	return Resolve(r, f.Table())
}

type ValueColumn struct {
	schema.ColumnWithPath
}

func (v ValueColumn) Type() arrow.DataType { return v.Node.Type() }
func (v ValueColumn) Nullable() bool { return v.Node.Nullable() }

func checkKind(col schema.ColumnWithPath, expected schema.Kind) error {
	if col.Kind() != expected {
		return &KindMismatchError{Expected: expected, Actual: col.Kind(), Path: col.Path}
	}
	return nil
}

func AsColumnGroup(col schema.ColumnWithPath) (ColumnGroup, error) {
	if err := checkKind(col, schema.GroupKind); err != nil {
		return ColumnGroup{}, err
	}
	return ColumnGroup{col}, nil
}

func AsFrameColumn(col schema.ColumnWithPath) (FrameColumn, error) {
	if err := checkKind(col, schema.FrameKind); err != nil {
		return FrameColumn{}, err
	}
	return FrameColumn{col}, nil
}

func AsValueColumn(col schema.ColumnWithPath) (ValueColumn, error) {
	if err := checkKind(col, schema.ValueKind); err != nil {
		return ValueColumn{}, err
	}
	return ValueColumn{col}, nil
}

// Lookup resolves s against root and fails with a NotFoundError when nothing
// matched.
func Lookup(s SingleResolver, root *schema.Node) (schema.ColumnWithPath, error) {
	col, err := ResolveSingle(s, root)
	if err != nil {
		return schema.ColumnWithPath{}, err
	}
	if col == nil {
		return schema.ColumnWithPath{}, &NotFoundError{Selector: s.String()}
	}
	return *col, nil
}

func ResolveColumnGroup(s SingleResolver, root *schema.Node) (ColumnGroup, error) {
	col, err := Lookup(s, root)
	if err != nil {
		return ColumnGroup{}, err
	}
	return AsColumnGroup(col)
}

func ResolveFrameColumn(s SingleResolver, root *schema.Node) (FrameColumn, error) {
	col, err := Lookup(s, root)
	if err != nil {
		return FrameColumn{}, err
	}
	return AsFrameColumn(col)
}

func ResolveValueColumn(s SingleResolver, root *schema.Node) (ValueColumn, error) {
	col, err := Lookup(s, root)
	if err != nil {
		return ValueColumn{}, err
	}
	return AsValueColumn(col)
}

// Lazy kind checks. The returned selector fails with a KindMismatchError when
// it resolves to a column of another kind; resolving to nothing stays silent.

func (s SingleColumn) AsColumnGroup() SingleColumn { return s.ensure(schema.GroupKind, "asColumnGroup()") }
func (s SingleColumn) AsFrameColumn() SingleColumn { return s.ensure(schema.FrameKind, "asFrameColumn()") }
func (s SingleColumn) AsValueColumn() SingleColumn { return s.ensure(schema.ValueKind, "asValueColumn()") }

func (s SingleColumn) ColGroup(sel Selector) SingleColumn {
	return s.Col(sel).ensure(schema.GroupKind, "colGroup()")
}

func (s SingleColumn) FrameCol(sel Selector) SingleColumn {
	return s.Col(sel).ensure(schema.FrameKind, "frameCol()")
}

func (s SingleColumn) ValueCol(sel Selector) SingleColumn {
	return s.Col(sel).ensure(schema.ValueKind, "valueCol()")
}

func (cs ColumnSet) ColGroup(sel Selector) SingleColumn {
	return cs.Col(sel).ensure(schema.GroupKind, "colGroup()")
}

func (cs ColumnSet) FrameCol(sel Selector) SingleColumn {
	return cs.Col(sel).ensure(schema.FrameKind, "frameCol()")
}

func (cs ColumnSet) ValueCol(sel Selector) SingleColumn {
	return cs.Col(sel).ensure(schema.ValueKind, "valueCol()")
}

func ColGroup(sel Selector) SingleColumn { return Root().ColGroup(sel) }
func FrameCol(sel Selector) SingleColumn { return Root().FrameCol(sel) }
func ValueCol(sel Selector) SingleColumn { return Root().ValueCol(sel) }

func (s SingleColumn) ensure(kind schema.Kind, call string) SingleColumn {
	inner := s
	return newSingle(func(scope schema.ColumnWithPath) (*schema.ColumnWithPath, error) {
		col, err := inner.ResolveSingle(scope)
		if err != nil || col == nil {
			return nil, err
		}
		if err := checkKind(*col, kind); err != nil {
			return nil, err
		}
		return col, nil
	}, chain(s, call))
}
