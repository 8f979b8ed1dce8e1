package columns

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"colselect-go/schema"
)

// Predicate tests one candidate column.
type Predicate func(schema.ColumnWithPath) bool

type selectorKind int

const (
	byName selectorKind = iota
	byPath
	byIndex
	byPredicate
)

// Selector names one way of picking columns out of a candidate list. Build it
// with ByName, ByPath, ByIndex or ByPredicate.
type Selector struct {
	kind  selectorKind
	name  string
	path  schema.ColumnPath
	index int
	pred  Predicate
	desc  string
}

func ByName(name string) Selector {
	return Selector{kind: byName, name: name}
}

func ByPath(path schema.ColumnPath) Selector {
	return Selector{kind: byPath, path: slices.Clone(path)}
}

func ByIndex(i int) Selector {
	return Selector{kind: byIndex, index: i}
}

// ByPredicate selects every candidate accepted by p. desc is used when the
// selector is printed.
func ByPredicate(p Predicate, desc string) Selector {
	return Selector{kind: byPredicate, pred: p, desc: desc}
}

func (s Selector) String() string {
	switch s.kind {
	case byName:
		return strconv.Quote(s.name)
	case byPath:
		return "path(" + strconv.Quote(s.path.String()) + ")"
	case byIndex:
		return strconv.Itoa(s.index)
	case byPredicate:
		if s.desc == "" {
			return "{predicate}"
		}
		return "{" + s.desc + "}"
	}
	return fmt.Sprintf("selector(%d)", int(s.kind))
}

// pick applies s to an ordered candidate list. Name lookup takes the first
// match; path lookup treats the candidates as the children of a virtual group
// and walks into column groups only.
func (s Selector) pick(cands []schema.ColumnWithPath) ([]schema.ColumnWithPath, error) {
	switch s.kind {
	case byName:
		for _, c := range cands {
			if c.Name() == s.name {
				return []schema.ColumnWithPath{c}, nil
			}
		}
		return nil, nil
	case byPath:
		if s.path.IsEmpty() {
			return nil, nil
		}
		for _, c := range cands {
			if c.Name() != s.path[0] {
				continue
			}
			if found, ok := c.Get(s.path[1:]); ok {
				return []schema.ColumnWithPath{found}, nil
			}
		}
		return nil, nil
	case byIndex:
		if s.index < 0 || s.index >= len(cands) {
			return nil, &IndexOutOfRangeError{First: s.index, Last: s.index, Size: len(cands)}
		}
		return []schema.ColumnWithPath{cands[s.index]}, nil
	case byPredicate:
		return filter(cands, s.pred), nil
	}
	return nil, fmt.Errorf("unknown selector kind %d", int(s.kind))
}

func filter(cands []schema.ColumnWithPath, p Predicate) []schema.ColumnWithPath {
	if p == nil {
		return cands
	}
	out := make([]schema.ColumnWithPath, 0, len(cands))
	for _, c := range cands {
		if p(c) {
			out = append(out, c)
		}
	}
	return out
}

// Name and kind predicates shared by the selection operations and plans.

func NameEquals(name string) Predicate {
	return func(c schema.ColumnWithPath) bool { return c.Name() == name }
}

func NameContains(sub string) Predicate {
	return func(c schema.ColumnWithPath) bool { return strings.Contains(c.Name(), sub) }
}

func NameStartsWith(prefix string) Predicate {
	return func(c schema.ColumnWithPath) bool { return strings.HasPrefix(c.Name(), prefix) }
}

func NameEndsWith(suffix string) Predicate {
	return func(c schema.ColumnWithPath) bool { return strings.HasSuffix(c.Name(), suffix) }
}

func NameMatches(re *regexp.Regexp) Predicate {
	return func(c schema.ColumnWithPath) bool { return re.MatchString(c.Name()) }
}

func IsKind(kinds ...schema.Kind) Predicate {
	return func(c schema.ColumnWithPath) bool { return slices.Contains(kinds, c.Kind()) }
}

func PathIs(path schema.ColumnPath) Predicate {
	return func(c schema.ColumnWithPath) bool { return c.Path.Equal(path) }
}

func Not(p Predicate) Predicate {
	return func(c schema.ColumnWithPath) bool { return !p(c) }
}

func AllOf(ps ...Predicate) Predicate {
	return func(c schema.ColumnWithPath) bool {
		for _, p := range ps {
			if !p(c) {
				return false
			}
		}
		return true
	}
}
