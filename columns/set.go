package columns

import (
	"fmt"
	"slices"
	"strings"

	"github.com/apache/arrow/go/v17/arrow"

	"colselect-go/schema"
)

// Every unary operation below consumes ResolveChildrenOrDescend of its
// receiver: a receiver that is a single column group contributes its children.
// And operands and Except exclusions are resolved as they are.

func (cs ColumnSet) transform(call string, fn func(scope schema.ColumnWithPath, cands []schema.ColumnWithPath) ([]schema.ColumnWithPath, error)) ColumnSet {
	inner := cs
	return newSet(func(scope schema.ColumnWithPath) ([]schema.ColumnWithPath, error) {
		cands, err := ResolveChildrenOrDescend(scope, inner)
		if err != nil {
			return nil, err
		}
		return fn(scope, cands)
	}, chain(cs, call))
}

func (cs ColumnSet) transformSingle(call string, fn func(cands []schema.ColumnWithPath) (*schema.ColumnWithPath, error)) SingleColumn {
	inner := cs
	return newSingle(func(scope schema.ColumnWithPath) (*schema.ColumnWithPath, error) {
		cands, err := ResolveChildrenOrDescend(scope, inner)
		if err != nil {
			return nil, err
		}
		return fn(cands)
	}, chain(cs, call))
}

// All returns every column of the selection, or the children of a single
// selected column group.
func (cs ColumnSet) All() ColumnSet {
	return cs.transform("all()", func(_ schema.ColumnWithPath, cands []schema.ColumnWithPath) ([]schema.ColumnWithPath, error) {
		return cands, nil
	})
}

// Col picks one column. A predicate selector yields its first match.
func (cs ColumnSet) Col(sel Selector) SingleColumn {
	return cs.transformSingle("col("+sel.String()+")", func(cands []schema.ColumnWithPath) (*schema.ColumnWithPath, error) {
		picked, err := sel.pick(cands)
		if err != nil || len(picked) == 0 {
			return nil, err
		}
		return &picked[0], nil
	})
}

// Cols concatenates the columns picked by each selector, in selector order.
func (cs ColumnSet) Cols(sels ...Selector) ColumnSet {
	return cs.transform("cols("+joinSelectors(sels)+")", func(_ schema.ColumnWithPath, cands []schema.ColumnWithPath) ([]schema.ColumnWithPath, error) {
		var out []schema.ColumnWithPath
		for _, sel := range sels {
			picked, err := sel.pick(cands)
			if err != nil {
				return nil, err
			}
			out = append(out, picked...)
		}
		return out, nil
	})
}

// ColsRange picks the columns at positions first through last, inclusive.
// last == first-1 is the empty range.
func (cs ColumnSet) ColsRange(first, last int) ColumnSet {
	return cs.transform(fmt.Sprintf("cols(%d..%d)", first, last), func(_ schema.ColumnWithPath, cands []schema.ColumnWithPath) ([]schema.ColumnWithPath, error) {
		if first > last+1 {
			return nil, &InvalidRangeError{First: first, Last: last}
		}
		if first < 0 || last >= len(cands) {
			return nil, &IndexOutOfRangeError{First: first, Last: last, IsRange: true, Size: len(cands)}
		}
		return cands[first : last+1], nil
	})
}

func (cs ColumnSet) ColsWhere(p Predicate) ColumnSet {
	return cs.transform("cols({predicate})", func(_ schema.ColumnWithPath, cands []schema.ColumnWithPath) ([]schema.ColumnWithPath, error) {
		return filter(cands, p), nil
	})
}

// Filter keeps the columns accepted by p.
func (cs ColumnSet) Filter(p Predicate) ColumnSet {
	return cs.transform("filter({predicate})", func(_ schema.ColumnWithPath, cands []schema.ColumnWithPath) ([]schema.ColumnWithPath, error) {
		return filter(cands, p), nil
	})
}

// ColsOf keeps the columns whose declared type satisfies dt under m. A nil
// matcher compares types exactly.
func (cs ColumnSet) ColsOf(dt arrow.DataType, m schema.TypeMatcher) ColumnSet {
	if m == nil {
		m = schema.ExactTypes
	}
	return cs.transform("colsOf("+dt.String()+")", func(_ schema.ColumnWithPath, cands []schema.ColumnWithPath) ([]schema.ColumnWithPath, error) {
		return filter(cands, func(c schema.ColumnWithPath) bool {
			return m.Matches(c.Node.Type(), dt)
		}), nil
	})
}

func (cs ColumnSet) ColsOfKind(kinds ...schema.Kind) ColumnSet {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return cs.transform("colsOfKind("+strings.Join(names, ", ")+")", func(_ schema.ColumnWithPath, cands []schema.ColumnWithPath) ([]schema.ColumnWithPath, error) {
		return filter(cands, IsKind(kinds...)), nil
	})
}

func (cs ColumnSet) ValueCols() ColumnSet { return cs.ColsOfKind(schema.ValueKind) }
func (cs ColumnSet) ColGroups() ColumnSet { return cs.ColsOfKind(schema.GroupKind) }
func (cs ColumnSet) FrameCols() ColumnSet { return cs.ColsOfKind(schema.FrameKind) }

// ColsAtAnyDepth flattens the selection depth first: each column is followed
// by its descendants. Groups are entered, frames are not.
func (cs ColumnSet) ColsAtAnyDepth() ColumnSet {
	return cs.transform("colsAtAnyDepth()", func(_ schema.ColumnWithPath, cands []schema.ColumnWithPath) ([]schema.ColumnWithPath, error) {
		var out []schema.ColumnWithPath
		for _, c := range cands {
			schema.Walk(c, func(n schema.ColumnWithPath) bool {
				out = append(out, n)
				return true
			})
		}
		return out, nil
	})
}

// ColsInGroups replaces every column group of the selection by its children
// and drops every other column.
func (cs ColumnSet) ColsInGroups() ColumnSet {
	return cs.transform("colsInGroups()", func(_ schema.ColumnWithPath, cands []schema.ColumnWithPath) ([]schema.ColumnWithPath, error) {
		var out []schema.ColumnWithPath
		for _, c := range cands {
			out = append(out, c.Children()...)
		}
		return out, nil
	})
}

// First selects the first column accepted by p (any column when p is nil).
func (cs ColumnSet) First(p Predicate) SingleColumn {
	return cs.transformSingle("first()", func(cands []schema.ColumnWithPath) (*schema.ColumnWithPath, error) {
		for i := range cands {
			if p == nil || p(cands[i]) {
				return &cands[i], nil
			}
		}
		return nil, nil
	})
}

func (cs ColumnSet) Last(p Predicate) SingleColumn {
	return cs.transformSingle("last()", func(cands []schema.ColumnWithPath) (*schema.ColumnWithPath, error) {
		for i := len(cands) - 1; i >= 0; i-- {
			if p == nil || p(cands[i]) {
				return &cands[i], nil
			}
		}
		return nil, nil
	})
}

// Single selects the only column accepted by p. More than one match is a
// NotSingleError; no match resolves to nothing.
func (cs ColumnSet) Single(p Predicate) SingleColumn {
	desc := chain(cs, "single()")
	return cs.transformSingle("single()", func(cands []schema.ColumnWithPath) (*schema.ColumnWithPath, error) {
		matched := filter(cands, p)
		switch len(matched) {
		case 0:
			return nil, nil
		case 1:
			return &matched[0], nil
		default:
			return nil, &NotSingleError{Selector: desc, Count: len(matched)}
		}
	})
}

// And concatenates the selections. Duplicates are kept; follow with Distinct
// to drop them.
func (cs ColumnSet) And(others ...Resolver) ColumnSet {
	parts := make([]string, 0, len(others)+1)
	parts = append(parts, cs.String())
	for _, o := range others {
		parts = append(parts, o.String())
	}
	inner := cs
	return newSet(func(scope schema.ColumnWithPath) ([]schema.ColumnWithPath, error) {
		first, err := inner.Resolve(scope)
		if err != nil {
			return nil, err
		}
		out := slices.Clone(first)
		for _, o := range others {
			cols, err := o.Resolve(scope)
			if err != nil {
				return nil, err
			}
			out = append(out, cols...)
		}
		return out, nil
	}, "and("+strings.Join(parts, ", ")+")")
}

// Except removes from the selection every column whose path is produced by one
// of others, all resolved against the same scope.
func (cs ColumnSet) Except(others ...Resolver) ColumnSet {
	return cs.transform("except("+joinResolvers(others)+")", func(scope schema.ColumnWithPath, cands []schema.ColumnWithPath) ([]schema.ColumnWithPath, error) {
		return subtract(scope, cands, others)
	})
}

func subtract(scope schema.ColumnWithPath, cands []schema.ColumnWithPath, others []Resolver) ([]schema.ColumnWithPath, error) {
	excluded := make(map[string]struct{})
	for _, o := range others {
		cols, err := o.Resolve(scope)
		if err != nil {
			return nil, err
		}
		for _, c := range cols {
			excluded[c.Path.Key()] = struct{}{}
		}
	}
	out := make([]schema.ColumnWithPath, 0, len(cands))
	for _, c := range cands {
		if _, skip := excluded[c.Path.Key()]; !skip {
			out = append(out, c)
		}
	}
	return out, nil
}

// Distinct keeps the first occurrence of every path.
func (cs ColumnSet) Distinct() ColumnSet {
	return cs.transform("distinct()", func(_ schema.ColumnWithPath, cands []schema.ColumnWithPath) ([]schema.ColumnWithPath, error) {
		return distinct(cands), nil
	})
}

func distinct(cands []schema.ColumnWithPath) []schema.ColumnWithPath {
	seen := make(map[string]struct{}, len(cands))
	out := make([]schema.ColumnWithPath, 0, len(cands))
	for _, c := range cands {
		k := c.Path.Key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, c)
	}
	return out
}

// Simplify drops every column that has an ancestor group in the same
// selection, so a group and its own picks collapse into the group.
func (cs ColumnSet) Simplify() ColumnSet {
	return cs.transform("simplify()", func(_ schema.ColumnWithPath, cands []schema.ColumnWithPath) ([]schema.ColumnWithPath, error) {
		return simplify(cands), nil
	})
}

func simplify(cands []schema.ColumnWithPath) []schema.ColumnWithPath {
	present := make(map[string]struct{}, len(cands))
	for _, c := range cands {
		present[c.Path.Key()] = struct{}{}
	}
	out := make([]schema.ColumnWithPath, 0, len(cands))
	for _, c := range distinct(cands) {
		covered := false
		for depth := 0; depth < len(c.Path); depth++ {
			if _, ok := present[c.Path[:depth].Key()]; ok {
				covered = true
				break
			}
		}
		if !covered {
			out = append(out, c)
		}
	}
	return out
}

func joinSelectors(sels []Selector) string {
	parts := make([]string, len(sels))
	for i, s := range sels {
		parts[i] = s.String()
	}
	return strings.Join(parts, ", ")
}

func joinResolvers(rs []Resolver) string {
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = r.String()
	}
	return strings.Join(parts, ", ")
}
