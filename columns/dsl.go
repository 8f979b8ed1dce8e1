package columns

import (
	"github.com/apache/arrow/go/v17/arrow"

	"colselect-go/schema"
)

// Top level selections. Each is the same operation called on Root().

func All() ColumnSet { return Root().All() }
func Col(sel Selector) SingleColumn { return Root().Col(sel) }
func Cols(sels ...Selector) ColumnSet { return Root().Cols(sels...) }
func ColsRange(first, last int) ColumnSet { return Root().ColsRange(first, last) }
func ColsWhere(p Predicate) ColumnSet { return Root().ColsWhere(p) }
func ColsOfKind(kinds ...schema.Kind) ColumnSet {
	return Root().ColsOfKind(kinds...)
}
func ValueCols() ColumnSet { return Root().ValueCols() }
func ColGroups() ColumnSet { return Root().ColGroups() }
func FrameCols() ColumnSet { return Root().FrameCols() }
func ColsAtAnyDepth() ColumnSet { return Root().ColsAtAnyDepth() }

// ColsOf selects the top level columns whose declared type matches dt.
func ColsOf(dt arrow.DataType, m schema.TypeMatcher) ColumnSet {
	return Root().ColsOf(dt, m)
}

func First(p Predicate) SingleColumn { return Root().First(p) }
func Last(p Predicate) SingleColumn { return Root().Last(p) }
func Single(p Predicate) SingleColumn { return Root().Single(p) }

func AllBefore(pivot schema.ColumnPath) ColumnSet { return Root().AllBefore(pivot) }
func AllUpTo(pivot schema.ColumnPath) ColumnSet { return Root().AllUpTo(pivot) }
func AllAfter(pivot schema.ColumnPath) ColumnSet { return Root().AllAfter(pivot) }
func AllFrom(pivot schema.ColumnPath) ColumnSet { return Root().AllFrom(pivot) }

func AllExcept(others ...Resolver) ColumnSet { return Root().AllExcept(others...) }

// Named and At are Col(ByName(name)) and Col(ByPath(path)).
func Named(name string) SingleColumn { return Col(ByName(name)) }
func At(names ...string) SingleColumn {
	return Col(ByPath(schema.PathOf(names...)))
}
