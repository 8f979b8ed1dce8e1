package schema

import (
	"errors"
	"strings"
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
)

func TestBuilderWithField(t *testing.T) {
	b := NewBuilder().
		WithField("age", arrow.PrimitiveTypes.Int32, false).
		WithField("name", arrow.BinaryTypes.String, false).
		WithField("salary", arrow.PrimitiveTypes.Float64, true)

	if len(b.fields) != 3 {
		t.Fatalf("Expected 3 fields, got %d", len(b.fields))
	}
	expectedNames := []string{"age", "name", "salary"}
	for i, expected := range expectedNames {
		if b.fields[i].Name != expected {
			t.Errorf("Field %d: expected name '%s', got '%s'", i, expected, b.fields[i].Name)
		}
	}
	if !arrow.TypeEqual(b.fields[2].Type, arrow.PrimitiveTypes.Float64) {
		t.Errorf("Field 'salary': expected Float64 type, got %s", b.fields[2].Type)
	}
	if b.fields[0].Nullable {
		t.Errorf("Field 'age': expected nullable=false")
	}
	if !b.fields[2].Nullable {
		t.Errorf("Field 'salary': expected nullable=true")
	}
}

func TestBuilderWithoutField(t *testing.T) {
	b := NewBuilder().
		WithField("age", arrow.PrimitiveTypes.Int32, false).
		WithField("name", arrow.BinaryTypes.String, false).
		WithField("salary", arrow.PrimitiveTypes.Float64, true).
		WithField("active", arrow.FixedWidthTypes.Boolean, false)

	b.WithoutField("name", "active")
	if len(b.fields) != 2 {
		t.Fatalf("Expected 2 fields after removal, got %d", len(b.fields))
	}
	if b.fields[0].Name != "age" || b.fields[1].Name != "salary" {
		t.Errorf("Expected [age salary], got [%s %s]", b.fields[0].Name, b.fields[1].Name)
	}

	// removing an unknown name is a no-op
	b.WithoutField("missing")
	if len(b.fields) != 2 {
		t.Errorf("Expected 2 fields, got %d", len(b.fields))
	}
}

func TestBuilderNested(t *testing.T) {
	root, err := NewBuilder().
		WithField("id", arrow.PrimitiveTypes.Int64, false).
		WithGroup("address", func(g *Builder) {
			g.WithField("street", arrow.BinaryTypes.String, true).
				WithField("zip", arrow.BinaryTypes.String, true)
		}).
		WithFrame("orders", func(f *Builder) {
			f.WithField("sku", arrow.BinaryTypes.String, false).
				WithField("qty", arrow.PrimitiveTypes.Int32, false)
		}).
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("kinds", func(t *testing.T) {
		want := map[string]Kind{"id": ValueKind, "address": GroupKind, "orders": FrameKind}
		for name, kind := range want {
			n, ok := root.Child(name)
			if !ok {
				t.Fatalf("missing child %s", name)
			}
			if n.Kind() != kind {
				t.Errorf("%s: expected %s, got %s", name, kind, n.Kind())
			}
		}
	})

	t.Run("frame table", func(t *testing.T) {
		orders, _ := root.Child("orders")
		table := orders.Frame()
		if table == nil || !table.IsGroup() {
			t.Fatalf("expected a group as the nested table root")
		}
		if table.NumChildren() != 2 || table.ChildAt(1).Name() != "qty" {
			t.Errorf("unexpected nested table %v", orders.Schema())
		}
	})

	t.Run("metadata", func(t *testing.T) {
		md := arrow.NewMetadata([]string{"owner"}, []string{"sales"})
		n := NewBuilder().WithField("a", arrow.PrimitiveTypes.Int8, true).WithMetadata(md).MustBuild()
		got := n.Schema().Metadata()
		i := got.FindKey("owner")
		if i < 0 || got.Values()[i] != "sales" {
			t.Errorf("metadata lost, got %v", got)
		}
	})
}

func TestBuilderDuplicateNames(t *testing.T) {
	_, err := NewBuilder().
		WithGroup("g", func(g *Builder) {
			g.WithField("x", arrow.PrimitiveTypes.Int32, true).
				WithField("x", arrow.PrimitiveTypes.Int64, true)
		}).
		Build()
	if err == nil {
		t.Fatal("expected duplicate name error")
	}
	if !strings.Contains(err.Error(), `"x"`) || !strings.Contains(err.Error(), `"g"`) {
		t.Errorf("error should name the column and its group, got %v", err)
	}

	if _, err := FromArrow(nil); !errors.Is(err, ErrNilSchema) {
		t.Errorf("expected ErrNilSchema, got %v", err)
	}
}
