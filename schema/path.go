package schema

import (
	"strconv"
	"strings"
)

// ColumnPath is the ordered list of names leading from a resolution root to a
// column. The empty path denotes the root itself.
type ColumnPath []string

func PathOf(names ...string) ColumnPath {
	return append(ColumnPath{}, names...)
}

// ParsePath splits a slash separated path. "" is the empty path.
func ParsePath(s string) ColumnPath {
	if s == "" {
		return ColumnPath{}
	}
	return ColumnPath(strings.Split(s, "/"))
}

// Append returns a new path one level deeper. The receiver is never aliased.
func (p ColumnPath) Append(name string) ColumnPath {
	out := make(ColumnPath, len(p)+1)
	copy(out, p)
	out[len(p)] = name
	return out
}

func (p ColumnPath) Concat(other ColumnPath) ColumnPath {
	out := make(ColumnPath, 0, len(p)+len(other))
	out = append(out, p...)
	return append(out, other...)
}

func (p ColumnPath) Parent() ColumnPath {
	if len(p) == 0 {
		return ColumnPath{}
	}
	return PathOf(p[:len(p)-1]...)
}

// Name is the last path component, "" for the root.
func (p ColumnPath) Name() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

func (p ColumnPath) Depth() int { return len(p) }
func (p ColumnPath) IsEmpty() bool { return len(p) == 0 }

func (p ColumnPath) Equal(other ColumnPath) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix is p itself or one of its ancestors.
func (p ColumnPath) HasPrefix(prefix ColumnPath) bool {
	if len(prefix) > len(p) {
		return false
	}
	return p[:len(prefix)].Equal(prefix)
}

func (p ColumnPath) String() string {
	return strings.Join(p, "/")
}

// Key is an injective encoding of p usable as a map key; names may contain
// any character, including the separator used by String.
func (p ColumnPath) Key() string {
	var sb strings.Builder
	for _, name := range p {
		sb.WriteString(strconv.Itoa(len(name)))
		sb.WriteByte(':')
		sb.WriteString(name)
	}
	return sb.String()
}

// ColumnWithPath is a resolved column together with the path that led to it.
type ColumnWithPath struct {
	Node *Node
	Path ColumnPath
}

// RootOf wraps a group as a resolution scope with an empty path.
func RootOf(n *Node) ColumnWithPath {
	return ColumnWithPath{Node: n, Path: ColumnPath{}}
}

func (c ColumnWithPath) Name() string {
	if c.Path.IsEmpty() {
		return c.Node.Name()
	}
	return c.Path.Name()
}

func (c ColumnWithPath) Kind() Kind { return c.Node.Kind() }
func (c ColumnWithPath) IsRoot() bool { return c.Path.IsEmpty() }
func (c ColumnWithPath) String() string { return c.Path.String() }

// Equal compares by path; within one tree the path identifies the node.
func (c ColumnWithPath) Equal(other ColumnWithPath) bool {
	return c.Path.Equal(other.Path)
}

// Children lists the children of a group with their extended paths.
func (c ColumnWithPath) Children() []ColumnWithPath {
	if c.Node.NumChildren() == 0 {
		return nil
	}
	out := make([]ColumnWithPath, 0, c.Node.NumChildren())
	for _, child := range c.Node.children {
		out = append(out, ColumnWithPath{Node: child, Path: c.Path.Append(child.Name())})
	}
	return out
}

func (c ColumnWithPath) Child(name string) (ColumnWithPath, bool) {
	n, ok := c.Node.Child(name)
	if !ok {
		return ColumnWithPath{}, false
	}
	return ColumnWithPath{Node: n, Path: c.Path.Append(name)}, true
}

// Get walks rel below c, descending through column groups only.
func (c ColumnWithPath) Get(rel ColumnPath) (ColumnWithPath, bool) {
	cur := c
	for _, name := range rel {
		if !cur.Node.IsGroup() {
			return ColumnWithPath{}, false
		}
		next, ok := cur.Child(name)
		if !ok {
			return ColumnWithPath{}, false
		}
		cur = next
	}
	return cur, true
}

// Walk visits c and its descendants in pre-order, descending into groups
// only. Returning false from fn skips the children of that column.
func Walk(c ColumnWithPath, fn func(ColumnWithPath) bool) {
	if !fn(c) {
		return
	}
	for _, child := range c.Children() {
		Walk(child, fn)
	}
}
