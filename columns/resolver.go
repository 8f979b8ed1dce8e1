package columns

import (
	"fmt"

	"colselect-go/schema"
)

var (
	_ = (Resolver)(ColumnSet{})
	_ = (SingleResolver)(SingleColumn{})
	_ = (SingleResolver)(&singleFunc{})
	_ = (Resolver)(&setFunc{})
)

// Resolver turns a scope (a column group together with its path) into an
// ordered list of columns. Paths in the output continue from the scope's path.
// Implementations are immutable and safe for concurrent use.
type Resolver interface {
	Resolve(scope schema.ColumnWithPath) ([]schema.ColumnWithPath, error)
	fmt.Stringer
}

// SingleResolver is a Resolver that yields at most one column.
type SingleResolver interface {
	Resolver
	ResolveSingle(scope schema.ColumnWithPath) (*schema.ColumnWithPath, error)
}

// Resolve evaluates r against root, which must be a column group. Output paths
// are relative to root.
func Resolve(r Resolver, root *schema.Node) ([]schema.ColumnWithPath, error) {
	scope, err := rootScope(root)
	if err != nil {
		return nil, err
	}
	return r.Resolve(scope)
}

// ResolveSingle evaluates s against root. A nil column with a nil error means
// nothing matched.
func ResolveSingle(s SingleResolver, root *schema.Node) (*schema.ColumnWithPath, error) {
	scope, err := rootScope(root)
	if err != nil {
		return nil, err
	}
	return s.ResolveSingle(scope)
}

func rootScope(root *schema.Node) (schema.ColumnWithPath, error) {
	if root == nil {
		return schema.ColumnWithPath{}, ErrNilScope
	}
	if !root.IsGroup() {
		return schema.ColumnWithPath{}, ErrScopeNotGroup(root.Kind())
	}
	return schema.RootOf(root), nil
}

// ResolveChildrenOrDescend is the auto-descent rule. When r is a single column
// selector that resolves to a column group, the group's children are returned
// instead of the group. Applied once; grandchildren are never reached.
func ResolveChildrenOrDescend(scope schema.ColumnWithPath, r Resolver) ([]schema.ColumnWithPath, error) {
	cols, _, err := descend(scope, r)
	return cols, err
}

// descend applies the auto-descent rule and also reports the path the
// returned columns are relative to: the group's path after a descent, the
// scope's path otherwise.
func descend(scope schema.ColumnWithPath, r Resolver) ([]schema.ColumnWithPath, schema.ColumnPath, error) {
	if cs, ok := r.(ColumnSet); ok {
		if cs.r == nil {
			return nil, scope.Path, nil
		}
		r = cs.r
	}
	s, ok := r.(SingleResolver)
	if !ok {
		cols, err := r.Resolve(scope)
		return cols, scope.Path, err
	}
	col, err := s.ResolveSingle(scope)
	if err != nil || col == nil {
		return nil, scope.Path, err
	}
	if col.Kind() == schema.GroupKind {
		return col.Children(), col.Path, nil
	}
	return []schema.ColumnWithPath{*col}, scope.Path, nil
}

type setFunc struct {
	fn   func(scope schema.ColumnWithPath) ([]schema.ColumnWithPath, error)
	desc string
}

func (f *setFunc) Resolve(scope schema.ColumnWithPath) ([]schema.ColumnWithPath, error) {
	return f.fn(scope)
}

func (f *setFunc) String() string { return f.desc }

type singleFunc struct {
	fn   func(scope schema.ColumnWithPath) (*schema.ColumnWithPath, error)
	desc string
}

func (f *singleFunc) ResolveSingle(scope schema.ColumnWithPath) (*schema.ColumnWithPath, error) {
	return f.fn(scope)
}

func (f *singleFunc) Resolve(scope schema.ColumnWithPath) ([]schema.ColumnWithPath, error) {
	col, err := f.fn(scope)
	if err != nil || col == nil {
		return nil, err
	}
	return []schema.ColumnWithPath{*col}, nil
}

func (f *singleFunc) String() string { return f.desc }

// chain renders a call on top of a receiver description; the root receiver
// renders as nothing so top level calls read as "all()" rather than "root.all()".
func chain(receiver Resolver, call string) string {
	if cs, ok := receiver.(ColumnSet); ok {
		receiver = cs.r
	}
	if receiver == nil {
		return call
	}
	if _, ok := receiver.(*rootResolver); ok {
		return call
	}
	if s, ok := receiver.(SingleColumn); ok {
		if _, ok := s.r.(*rootResolver); ok {
			return call
		}
	}
	return receiver.String() + "." + call
}

type rootResolver struct{}

func (rootResolver) ResolveSingle(scope schema.ColumnWithPath) (*schema.ColumnWithPath, error) {
	return &scope, nil
}

// Resolve lists the scope's children. The scope itself is only reachable
// through ResolveSingle, so a bare Root never puts the empty path into a
// result.
func (rootResolver) Resolve(scope schema.ColumnWithPath) ([]schema.ColumnWithPath, error) {
	return scope.Children(), nil
}

func (rootResolver) String() string { return "root()" }

// Root selects the scope itself. Every top level selection is a call on Root,
// which auto-descends into the scope's children; resolved as a plain set it
// yields those children too.
func Root() SingleColumn {
	return SingleColumn{r: &rootResolver{}}
}

// ColumnSet is a selection of any number of columns.
type ColumnSet struct {
	r Resolver
}

// Set lifts any resolver into a ColumnSet. Wrapping a single column keeps its
// auto-descent behaviour.
func Set(r Resolver) ColumnSet {
	if cs, ok := r.(ColumnSet); ok {
		return cs
	}
	return ColumnSet{r: r}
}

func newSet(fn func(scope schema.ColumnWithPath) ([]schema.ColumnWithPath, error), desc string) ColumnSet {
	return ColumnSet{r: &setFunc{fn: fn, desc: desc}}
}

func (cs ColumnSet) Resolve(scope schema.ColumnWithPath) ([]schema.ColumnWithPath, error) {
	if cs.r == nil {
		return nil, nil
	}
	return cs.r.Resolve(scope)
}

func (cs ColumnSet) String() string {
	if cs.r == nil {
		return "none()"
	}
	return cs.r.String()
}

// SingleColumn is a selection of at most one column.
type SingleColumn struct {
	r SingleResolver
}

func newSingle(fn func(scope schema.ColumnWithPath) (*schema.ColumnWithPath, error), desc string) SingleColumn {
	return SingleColumn{r: &singleFunc{fn: fn, desc: desc}}
}

func (s SingleColumn) Resolve(scope schema.ColumnWithPath) ([]schema.ColumnWithPath, error) {
	if s.r == nil {
		return nil, nil
	}
	return s.r.Resolve(scope)
}

func (s SingleColumn) ResolveSingle(scope schema.ColumnWithPath) (*schema.ColumnWithPath, error) {
	if s.r == nil {
		return nil, nil
	}
	return s.r.ResolveSingle(scope)
}

func (s SingleColumn) String() string {
	if s.r == nil {
		return "none()"
	}
	return s.r.String()
}

// set views s as a ColumnSet; operations on it auto-descend into s when s is
// a column group.
func (s SingleColumn) set() ColumnSet { return ColumnSet{r: s} }
