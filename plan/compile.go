package plan

import (
	"fmt"
	"regexp"

	"colselect-go/columns"
	"colselect-go/schema"
)

// Compiler turns plans into resolvers. Matcher is used by ofType steps that do
// not name a match mode; nil means exact matching.
type Compiler struct {
	Matcher schema.TypeMatcher
}

func Compile(n *Node) (columns.Resolver, error) {
	return Compiler{}.Compile(n)
}

func (c Compiler) Compile(n *Node) (columns.Resolver, error) {
	if n == nil {
		return nil, fmt.Errorf("%w: empty plan", ErrInvalidPlan)
	}
	recv := columns.Resolver(columns.Root())
	if n.Of != nil {
		var err error
		if recv, err = c.Compile(n.Of); err != nil {
			return nil, err
		}
	}
	set := columns.Set(recv)
	single, isSingle := recv.(columns.SingleColumn)

	switch n.Op {
	case "all":
		return set.All(), nil
	case "col", "colGroup", "frameCol", "valueCol":
		sel, err := c.selector(n.Op, Selector{Name: n.Name, Path: n.Path, Index: n.Index, Where: n.Where})
		if err != nil {
			return nil, err
		}
		switch n.Op {
		case "colGroup":
			return set.ColGroup(sel), nil
		case "frameCol":
			return set.FrameCol(sel), nil
		case "valueCol":
			return set.ValueCol(sel), nil
		}
		return set.Col(sel), nil
	case "cols":
		if len(n.Select) == 0 {
			return nil, ErrMissingArg(n.Op, "select")
		}
		sels := make([]columns.Selector, 0, len(n.Select))
		for _, s := range n.Select {
			sel, err := c.selector(n.Op, s)
			if err != nil {
				return nil, err
			}
			sels = append(sels, sel)
		}
		return set.Cols(sels...), nil
	case "range":
		if n.First == nil || n.Last == nil {
			return nil, ErrMissingArg(n.Op, "first/last")
		}
		return set.ColsRange(*n.First, *n.Last), nil
	case "where":
		p, err := c.requiredPredicate(n)
		if err != nil {
			return nil, err
		}
		return set.ColsWhere(p), nil
	case "ofKind":
		kinds, err := parseKinds(n.Op, n.Kinds)
		if err != nil {
			return nil, err
		}
		return set.ColsOfKind(kinds...), nil
	case "ofType":
		if n.Type == "" {
			return nil, ErrMissingArg(n.Op, "type")
		}
		dt, ok := schema.ParseType(n.Type)
		if !ok {
			return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidPlan, n.Type)
		}
		m := c.Matcher
		if n.Match != "" {
			var err error
			if m, err = schema.ParseMatcher(n.Match); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
			}
		}
		return set.ColsOf(dt, m), nil
	case "valueCols":
		return set.ValueCols(), nil
	case "colGroups":
		return set.ColGroups(), nil
	case "frameCols":
		return set.FrameCols(), nil
	case "atAnyDepth":
		return set.ColsAtAnyDepth(), nil
	case "inGroups":
		return set.ColsInGroups(), nil
	case "distinct":
		return set.Distinct(), nil
	case "simplify":
		return set.Simplify(), nil
	case "and", "except", "allExcept":
		args, err := c.args(n)
		if err != nil {
			return nil, err
		}
		switch {
		case n.Op == "and" && n.Of == nil:
			return columns.Set(args[0]).And(args[1:]...), nil
		case n.Op == "and":
			return set.And(args...), nil
		case n.Op == "allExcept" && isSingle:
			return single.AllExcept(args...), nil
		}
		return set.Except(args...), nil
	case "take", "takeLast", "drop", "dropLast":
		if n.N == nil {
			return nil, ErrMissingArg(n.Op, "n")
		}
		switch n.Op {
		case "take":
			return set.Take(*n.N), nil
		case "takeLast":
			return set.TakeLast(*n.N), nil
		case "drop":
			return set.Drop(*n.N), nil
		}
		return set.DropLast(*n.N), nil
	case "takeWhile", "takeLastWhile", "dropWhile", "dropLastWhile":
		p, err := c.requiredPredicate(n)
		if err != nil {
			return nil, err
		}
		switch n.Op {
		case "takeWhile":
			return set.TakeWhile(p), nil
		case "takeLastWhile":
			return set.TakeLastWhile(p), nil
		case "dropWhile":
			return set.DropWhile(p), nil
		}
		return set.DropLastWhile(p), nil
	case "allBefore", "allAfter", "allFrom", "allUpTo":
		if n.Pivot == "" {
			return nil, ErrMissingArg(n.Op, "pivot")
		}
		pivot := schema.ParsePath(n.Pivot)
		switch n.Op {
		case "allBefore":
			return set.AllBefore(pivot), nil
		case "allAfter":
			return set.AllAfter(pivot), nil
		case "allFrom":
			return set.AllFrom(pivot), nil
		}
		return set.AllUpTo(pivot), nil
	case "first", "last", "single":
		p, err := c.predicate(n.Where)
		if err != nil {
			return nil, err
		}
		switch n.Op {
		case "first":
			return set.First(p), nil
		case "last":
			return set.Last(p), nil
		}
		return set.Single(p), nil
	case "":
		return nil, ErrMissingArg("", "op")
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedOp, n.Op)
	}
}

func (c Compiler) args(n *Node) ([]columns.Resolver, error) {
	if len(n.Args) == 0 {
		return nil, ErrMissingArg(n.Op, "args")
	}
	out := make([]columns.Resolver, 0, len(n.Args))
	for _, a := range n.Args {
		r, err := c.Compile(a)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (c Compiler) selector(op string, s Selector) (columns.Selector, error) {
	set := 0
	if s.Name != "" {
		set++
	}
	if s.Path != "" {
		set++
	}
	if s.Index != nil {
		set++
	}
	if s.Where != nil {
		set++
	}
	if set != 1 {
		return columns.Selector{}, fmt.Errorf("%w: op %q needs exactly one of name, path, index, where", ErrInvalidPlan, op)
	}
	switch {
	case s.Name != "":
		return columns.ByName(s.Name), nil
	case s.Path != "":
		return columns.ByPath(schema.ParsePath(s.Path)), nil
	case s.Index != nil:
		return columns.ByIndex(*s.Index), nil
	}
	p, err := c.predicate(s.Where)
	if err != nil {
		return columns.Selector{}, err
	}
	return columns.ByPredicate(p, s.Where.String()), nil
}

func (c Compiler) requiredPredicate(n *Node) (columns.Predicate, error) {
	if n.Where == nil {
		return nil, ErrMissingArg(n.Op, "where")
	}
	return c.predicate(n.Where)
}

// predicate compiles p; a nil p accepts every column.
func (c Compiler) predicate(p *Predicate) (columns.Predicate, error) {
	if p == nil {
		return nil, nil
	}
	switch p.Op {
	case "nameEquals":
		return columns.NameEquals(p.Value), nil
	case "nameContains":
		return columns.NameContains(p.Value), nil
	case "nameStartsWith":
		return columns.NameStartsWith(p.Value), nil
	case "nameEndsWith":
		return columns.NameEndsWith(p.Value), nil
	case "pathIs":
		if p.Value == "" {
			return nil, ErrMissingArg(p.Op, "value")
		}
		return columns.PathIs(schema.ParsePath(p.Value)), nil
	case "nameMatches":
		re, err := regexp.Compile(p.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
		}
		return columns.NameMatches(re), nil
	case "kind":
		kinds, err := parseKinds(p.Op, p.Kinds)
		if err != nil {
			return nil, err
		}
		return columns.IsKind(kinds...), nil
	case "not":
		if len(p.Args) != 1 {
			return nil, fmt.Errorf("%w: not takes exactly one predicate", ErrInvalidPlan)
		}
		inner, err := c.predicate(p.Args[0])
		if err != nil {
			return nil, err
		}
		if inner == nil {
			return nil, fmt.Errorf("%w: not takes exactly one predicate", ErrInvalidPlan)
		}
		return columns.Not(inner), nil
	case "allOf":
		ps := make([]columns.Predicate, 0, len(p.Args))
		for _, a := range p.Args {
			inner, err := c.predicate(a)
			if err != nil {
				return nil, err
			}
			if inner != nil {
				ps = append(ps, inner)
			}
		}
		return columns.AllOf(ps...), nil
	}
	return nil, fmt.Errorf("%w: predicate %q", ErrUnsupportedOp, p.Op)
}

func parseKinds(op string, names []string) ([]schema.Kind, error) {
	if len(names) == 0 {
		return nil, ErrMissingArg(op, "kinds")
	}
	kinds := make([]schema.Kind, 0, len(names))
	for _, name := range names {
		k, err := schema.ParseKind(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

func (p *Predicate) String() string {
	if p == nil {
		return "any"
	}
	switch p.Op {
	case "kind":
		return fmt.Sprintf("kind%v", p.Kinds)
	case "not", "allOf":
		return fmt.Sprintf("%s%v", p.Op, p.Args)
	}
	return fmt.Sprintf("%s %q", p.Op, p.Value)
}
