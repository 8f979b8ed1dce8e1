package schema

import (
	"github.com/apache/arrow/go/v17/arrow"
)

// Builder assembles an arrow schema field by field, including nested column
// groups (structs) and frame columns (lists of structs).
type Builder struct {
	fields   []arrow.Field
	metadata *arrow.Metadata
}

func NewBuilder() *Builder {
	return &Builder{
		fields: make([]arrow.Field, 0, 10),
	}
}

func (b *Builder) WithField(name string, dtype arrow.DataType, nullable bool) *Builder {
	b.fields = append(b.fields, arrow.Field{
		Name:     name,
		Type:     dtype,
		Nullable: nullable,
	})
	return b
}

// WithGroup adds a column group whose children are declared by fn.
func (b *Builder) WithGroup(name string, fn func(*Builder)) *Builder {
	nested := NewBuilder()
	fn(nested)
	b.fields = append(b.fields, arrow.Field{
		Name:     name,
		Type:     arrow.StructOf(nested.fields...),
		Nullable: true,
	})
	return b
}

// WithFrame adds a frame column; fn declares the columns of the nested table.
func (b *Builder) WithFrame(name string, fn func(*Builder)) *Builder {
	nested := NewBuilder()
	fn(nested)
	b.fields = append(b.fields, arrow.Field{
		Name:     name,
		Type:     arrow.ListOf(arrow.StructOf(nested.fields...)),
		Nullable: true,
	})
	return b
}

func (b *Builder) WithoutField(names ...string) *Builder {
	nameSet := make(map[string]struct{}, len(names))
	for _, n := range names {
		nameSet[n] = struct{}{}
	}

	newFields := make([]arrow.Field, 0, len(b.fields))
	for _, field := range b.fields {
		_, found := nameSet[field.Name]
		if !found {
			newFields = append(newFields, field)
		}
	}
	b.fields = newFields
	return b
}

func (b *Builder) WithMetadata(md arrow.Metadata) *Builder {
	b.metadata = &md
	return b
}

func (b *Builder) Arrow() *arrow.Schema {
	return arrow.NewSchema(b.fields, b.metadata)
}

// Build validates sibling name uniqueness at every level and returns the tree.
func (b *Builder) Build() (*Node, error) {
	return FromArrow(b.Arrow())
}

func (b *Builder) MustBuild() *Node {
	return MustFromArrow(b.Arrow())
}
