package columns

import (
	"github.com/apache/arrow/go/v17/arrow"

	"colselect-go/schema"
)

// The operations on SingleColumn run on the column's children when it is a
// column group, and on the column alone otherwise.

func (s SingleColumn) All() ColumnSet { return s.set().All() }
func (s SingleColumn) Col(sel Selector) SingleColumn { return s.set().Col(sel) }
func (s SingleColumn) Cols(sels ...Selector) ColumnSet { return s.set().Cols(sels...) }
func (s SingleColumn) ColsRange(first, last int) ColumnSet {
	return s.set().ColsRange(first, last)
}
func (s SingleColumn) ColsWhere(p Predicate) ColumnSet { return s.set().ColsWhere(p) }
func (s SingleColumn) ColsOf(dt arrow.DataType, m schema.TypeMatcher) ColumnSet {
	return s.set().ColsOf(dt, m)
}
func (s SingleColumn) ColsOfKind(kinds ...schema.Kind) ColumnSet {
	return s.set().ColsOfKind(kinds...)
}
func (s SingleColumn) ValueCols() ColumnSet { return s.set().ValueCols() }
func (s SingleColumn) ColGroups() ColumnSet { return s.set().ColGroups() }
func (s SingleColumn) FrameCols() ColumnSet { return s.set().FrameCols() }
func (s SingleColumn) ColsAtAnyDepth() ColumnSet { return s.set().ColsAtAnyDepth() }
func (s SingleColumn) ColsInGroups() ColumnSet { return s.set().ColsInGroups() }

func (s SingleColumn) First(p Predicate) SingleColumn { return s.set().First(p) }
func (s SingleColumn) Last(p Predicate) SingleColumn { return s.set().Last(p) }
func (s SingleColumn) Single(p Predicate) SingleColumn { return s.set().Single(p) }

func (s SingleColumn) Take(n int) ColumnSet { return s.set().Take(n) }
func (s SingleColumn) TakeLast(n int) ColumnSet { return s.set().TakeLast(n) }
func (s SingleColumn) Drop(n int) ColumnSet { return s.set().Drop(n) }
func (s SingleColumn) DropLast(n int) ColumnSet { return s.set().DropLast(n) }
func (s SingleColumn) TakeWhile(p Predicate) ColumnSet { return s.set().TakeWhile(p) }
func (s SingleColumn) TakeLastWhile(p Predicate) ColumnSet { return s.set().TakeLastWhile(p) }
func (s SingleColumn) DropWhile(p Predicate) ColumnSet { return s.set().DropWhile(p) }
func (s SingleColumn) DropLastWhile(p Predicate) ColumnSet { return s.set().DropLastWhile(p) }
func (s SingleColumn) Distinct() ColumnSet { return s.set().Distinct() }
func (s SingleColumn) Simplify() ColumnSet { return s.set().Simplify() }
func (s SingleColumn) AllBefore(pivot schema.ColumnPath) ColumnSet { return s.set().AllBefore(pivot) }
func (s SingleColumn) AllUpTo(pivot schema.ColumnPath) ColumnSet { return s.set().AllUpTo(pivot) }
func (s SingleColumn) AllAfter(pivot schema.ColumnPath) ColumnSet { return s.set().AllAfter(pivot) }
func (s SingleColumn) AllFrom(pivot schema.ColumnPath) ColumnSet { return s.set().AllFrom(pivot) }

// And keeps s itself, not its children, as the first operand. Root is the
// exception: it contributes the scope's children.
func (s SingleColumn) And(others ...Resolver) ColumnSet { return s.set().And(others...) }

// AllExcept returns the children of the group selected by s minus the columns
// produced by others. others are resolved with the group as their scope, so
// AllExcept(Col(ByName("x"))) names the group's own child x.
func (s SingleColumn) AllExcept(others ...Resolver) ColumnSet {
	inner := s
	return newSet(func(scope schema.ColumnWithPath) ([]schema.ColumnWithPath, error) {
		col, err := inner.ResolveSingle(scope)
		if err != nil || col == nil {
			return nil, err
		}
		if !col.Node.IsGroup() {
			return subtract(scope, []schema.ColumnWithPath{*col}, others)
		}
		return subtract(*col, col.Children(), others)
	}, chain(s, "allExcept("+joinResolvers(others)+")"))
}
