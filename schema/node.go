package schema

import (
	"errors"
	"fmt"
	"slices"

	"github.com/apache/arrow/go/v17/arrow"
)

var (
	ErrDuplicateName = func(name string, parent ColumnPath) error {
		return fmt.Errorf("duplicate column name %q in group %q", name, parent.String())
	}
	ErrNilSchema = errors.New("nil arrow schema")
)

type Kind int

const (
	ValueKind Kind = iota
	GroupKind
	FrameKind
)

func (k Kind) String() string {
	switch k {
	case ValueKind:
		return "ValueColumn"
	case GroupKind:
		return "ColumnGroup"
	case FrameKind:
		return "FrameColumn"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind accepts the short names used in plans and config ("value", "group", "frame").
func ParseKind(s string) (Kind, error) {
	switch s {
	case "value", "Value", "ValueColumn":
		return ValueKind, nil
	case "group", "Group", "ColumnGroup":
		return GroupKind, nil
	case "frame", "Frame", "FrameColumn":
		return FrameKind, nil
	}
	return 0, fmt.Errorf("unknown column kind %q", s)
}

// KindOf classifies an arrow type. Structs are column groups; list-like types
// whose element is a struct hold a nested table per row and are frame columns.
// Maps are list-like over a key/value struct but are plain values.
func KindOf(dt arrow.DataType) Kind {
	switch t := dt.(type) {
	case *arrow.StructType:
		return GroupKind
	case *arrow.MapType:
		return ValueKind
	case arrow.ListLikeType:
		if _, ok := t.Elem().(*arrow.StructType); ok {
			return FrameKind
		}
	}
	return ValueKind
}

// Node is one column of an immutable schema tree. Only group nodes have
// children; a frame node exposes the schema of its nested table through Frame.
type Node struct {
	field    arrow.Field
	kind     Kind
	children []*Node
	index    map[string]int
	frame    *Node
}

// FromArrow builds the schema tree for s. The returned root is an unnamed
// column group whose children are the top level fields.
func FromArrow(s *arrow.Schema) (*Node, error) {
	if s == nil {
		return nil, ErrNilSchema
	}
	root := &Node{kind: GroupKind}
	if err := root.setChildren(s.Fields(), ColumnPath{}); err != nil {
		return nil, err
	}
	root.field = arrow.Field{Type: arrow.StructOf(s.Fields()...), Metadata: s.Metadata()}
	return root, nil
}

// MustFromArrow is FromArrow for schemas known to be valid, mostly fixtures.
func MustFromArrow(s *arrow.Schema) *Node {
	n, err := FromArrow(s)
	if err != nil {
		panic(err)
	}
	return n
}

func newNode(f arrow.Field, path ColumnPath) (*Node, error) {
	n := &Node{field: f, kind: KindOf(f.Type)}
	switch n.kind {
	case GroupKind:
		st := f.Type.(*arrow.StructType)
		if err := n.setChildren(st.Fields(), path); err != nil {
			return nil, err
		}
	case FrameKind:
		st := f.Type.(arrow.ListLikeType).Elem().(*arrow.StructType)
		nested, err := FromArrow(arrow.NewSchema(st.Fields(), nil))
		if err != nil {
			return nil, err
		}
		n.frame = nested
	}
	return n, nil
}

func (n *Node) setChildren(fields []arrow.Field, path ColumnPath) error {
	n.children = make([]*Node, 0, len(fields))
	n.index = make(map[string]int, len(fields))
	for _, f := range fields {
		if _, dup := n.index[f.Name]; dup {
			return ErrDuplicateName(f.Name, path)
		}
		child, err := newNode(f, path.Append(f.Name))
		if err != nil {
			return err
		}
		n.index[f.Name] = len(n.children)
		n.children = append(n.children, child)
	}
	return nil
}

func (n *Node) Name() string { return n.field.Name }
func (n *Node) Kind() Kind { return n.kind }
func (n *Node) Type() arrow.DataType { return n.field.Type }
func (n *Node) Nullable() bool { return n.field.Nullable }
func (n *Node) Metadata() arrow.Metadata { return n.field.Metadata }
func (n *Node) Field() arrow.Field { return n.field }

func (n *Node) IsGroup() bool { return n.kind == GroupKind }
func (n *Node) IsFrame() bool { return n.kind == FrameKind }
func (n *Node) IsValue() bool { return n.kind == ValueKind }

// Children returns the ordered children of a group; nil for every other kind.
func (n *Node) Children() []*Node {
	return slices.Clone(n.children)
}

func (n *Node) NumChildren() int { return len(n.children) }

func (n *Node) ChildAt(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

func (n *Node) Child(name string) (*Node, bool) {
	i, ok := n.index[name]
	if !ok {
		return nil, false
	}
	return n.children[i], true
}

// Frame returns the root of the nested table held by a frame column.
func (n *Node) Frame() *Node {
	return n.frame
}

// Schema returns the arrow schema formed by the children of a group, or the
// nested table schema of a frame. Value columns have none.
func (n *Node) Schema() *arrow.Schema {
	switch n.kind {
	case GroupKind:
		fields := make([]arrow.Field, len(n.children))
		for i, c := range n.children {
			fields[i] = c.field
		}
		md := n.field.Metadata
		return arrow.NewSchema(fields, &md)
	case FrameKind:
		return n.frame.Schema()
	}
	return nil
}

func (n *Node) String() string {
	return fmt.Sprintf("%s %s: %s", n.kind, n.field.Name, n.field.Type)
}
