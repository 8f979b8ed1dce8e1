package columns

import (
	"fmt"
	"slices"
	"strconv"

	"colselect-go/schema"
)

func (cs ColumnSet) Take(n int) ColumnSet {
	return cs.count("take", n, func(cands []schema.ColumnWithPath, n int) []schema.ColumnWithPath {
		return cands[:n]
	})
}

func (cs ColumnSet) TakeLast(n int) ColumnSet {
	return cs.count("takeLast", n, func(cands []schema.ColumnWithPath, n int) []schema.ColumnWithPath {
		return cands[len(cands)-n:]
	})
}

func (cs ColumnSet) Drop(n int) ColumnSet {
	return cs.count("drop", n, func(cands []schema.ColumnWithPath, n int) []schema.ColumnWithPath {
		return cands[n:]
	})
}

func (cs ColumnSet) DropLast(n int) ColumnSet {
	return cs.count("dropLast", n, func(cands []schema.ColumnWithPath, n int) []schema.ColumnWithPath {
		return cands[:len(cands)-n]
	})
}

// count clamps n to the number of candidates before calling fn; a negative n
// fails at resolution time.
func (cs ColumnSet) count(op string, n int, fn func([]schema.ColumnWithPath, int) []schema.ColumnWithPath) ColumnSet {
	call := op + "(" + strconv.Itoa(n) + ")"
	return cs.transform(call, func(_ schema.ColumnWithPath, cands []schema.ColumnWithPath) ([]schema.ColumnWithPath, error) {
		if n < 0 {
			return nil, fmt.Errorf("%s: %w", call, ErrNegativeCount)
		}
		return fn(cands, min(n, len(cands))), nil
	})
}

// TakeWhile keeps the leading columns accepted by p.
func (cs ColumnSet) TakeWhile(p Predicate) ColumnSet {
	return cs.transform("takeWhile({predicate})", func(_ schema.ColumnWithPath, cands []schema.ColumnWithPath) ([]schema.ColumnWithPath, error) {
		return cands[:leading(cands, p)], nil
	})
}

func (cs ColumnSet) TakeLastWhile(p Predicate) ColumnSet {
	return cs.transform("takeLastWhile({predicate})", func(_ schema.ColumnWithPath, cands []schema.ColumnWithPath) ([]schema.ColumnWithPath, error) {
		return cands[len(cands)-trailing(cands, p):], nil
	})
}

func (cs ColumnSet) DropWhile(p Predicate) ColumnSet {
	return cs.transform("dropWhile({predicate})", func(_ schema.ColumnWithPath, cands []schema.ColumnWithPath) ([]schema.ColumnWithPath, error) {
		return cands[leading(cands, p):], nil
	})
}

func (cs ColumnSet) DropLastWhile(p Predicate) ColumnSet {
	return cs.transform("dropLastWhile({predicate})", func(_ schema.ColumnWithPath, cands []schema.ColumnWithPath) ([]schema.ColumnWithPath, error) {
		return cands[:len(cands)-trailing(cands, p)], nil
	})
}

// leading and trailing count the run of columns accepted by p; a nil p
// accepts every column.
func leading(cands []schema.ColumnWithPath, p Predicate) int {
	if p == nil {
		return len(cands)
	}
	n := 0
	for n < len(cands) && p(cands[n]) {
		n++
	}
	return n
}

func trailing(cands []schema.ColumnWithPath, p Predicate) int {
	if p == nil {
		return len(cands)
	}
	n := 0
	for n < len(cands) && p(cands[len(cands)-1-n]) {
		n++
	}
	return n
}

type boundary int

const (
	before boundary = iota
	upTo
	after
	from
)

func (b boundary) String() string {
	switch b {
	case before:
		return "allBefore"
	case upTo:
		return "allUpTo"
	case after:
		return "allAfter"
	default:
		return "allFrom"
	}
}

// AllBefore keeps the columns preceding pivot. pivot is relative to the
// selection: to the group when cs is a single column group, to the scope
// otherwise. The group's full path is accepted as well. If pivot never occurs
// every column is kept.
func (cs ColumnSet) AllBefore(pivot schema.ColumnPath) ColumnSet {
	return cs.slice(before, pivot)
}

// AllUpTo is AllBefore including the pivot.
func (cs ColumnSet) AllUpTo(pivot schema.ColumnPath) ColumnSet {
	return cs.slice(upTo, pivot)
}

// AllAfter keeps the columns following pivot. If pivot never occurs nothing
// is kept.
func (cs ColumnSet) AllAfter(pivot schema.ColumnPath) ColumnSet {
	return cs.slice(after, pivot)
}

// AllFrom is AllAfter including the pivot.
func (cs ColumnSet) AllFrom(pivot schema.ColumnPath) ColumnSet {
	return cs.slice(from, pivot)
}

func (cs ColumnSet) slice(b boundary, pivot schema.ColumnPath) ColumnSet {
	inner := cs
	rel := pivot.Concat(nil)
	call := b.String() + "(" + strconv.Quote(rel.String()) + ")"
	return newSet(func(scope schema.ColumnWithPath) ([]schema.ColumnWithPath, error) {
		cands, base, err := descend(scope, inner)
		if err != nil {
			return nil, err
		}
		pivots := []schema.ColumnPath{base.Concat(rel)}
		if !base.IsEmpty() {
			pivots = append(pivots, rel)
		}
		return cut(cands, pivots, b), nil
	}, chain(cs, call))
}

// cut is one linear scan; seen flips on the first column whose path equals
// any of pivots and never flips back.
func cut(cands []schema.ColumnWithPath, pivots []schema.ColumnPath, b boundary) []schema.ColumnWithPath {
	out := make([]schema.ColumnWithPath, 0, len(cands))
	seen := false
	for _, c := range cands {
		isPivot := !seen && slices.ContainsFunc(pivots, c.Path.Equal)
		switch b {
		case before:
			if isPivot {
				return out
			}
			out = append(out, c)
		case upTo:
			out = append(out, c)
			if isPivot {
				return out
			}
		case after:
			if seen {
				out = append(out, c)
			}
			seen = seen || isPivot
		case from:
			seen = seen || isPivot
			if seen {
				out = append(out, c)
			}
		}
	}
	return out
}
