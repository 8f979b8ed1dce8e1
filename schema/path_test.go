package schema

import (
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
)

func TestColumnPath(t *testing.T) {
	t.Run("append does not alias", func(t *testing.T) {
		base := make(ColumnPath, 1, 8)
		base[0] = "g"
		a := base.Append("x")
		b := base.Append("y")
		if a.String() != "g/x" || b.String() != "g/y" {
			t.Fatalf("got %s and %s", a, b)
		}
		if len(base) != 1 {
			t.Errorf("receiver changed: %v", base)
		}
	})

	t.Run("parse", func(t *testing.T) {
		cases := []struct {
			in    string
			depth int
			name  string
		}{
			{"", 0, ""},
			{"a", 1, "a"},
			{"g/h/x", 3, "x"},
		}
		for _, tc := range cases {
			p := ParsePath(tc.in)
			if p.Depth() != tc.depth || p.Name() != tc.name || p.String() != tc.in {
				t.Errorf("ParsePath(%q) = %v", tc.in, p)
			}
		}
	})

	t.Run("prefix and parent", func(t *testing.T) {
		p := PathOf("g", "h", "x")
		if !p.HasPrefix(PathOf("g")) || !p.HasPrefix(ColumnPath{}) || !p.HasPrefix(p) {
			t.Errorf("expected prefixes of %s", p)
		}
		if p.HasPrefix(PathOf("h")) || p.HasPrefix(PathOf("g", "h", "x", "y")) {
			t.Errorf("unexpected prefix of %s", p)
		}
		if !p.Parent().Equal(PathOf("g", "h")) || !(ColumnPath{}).Parent().IsEmpty() {
			t.Errorf("bad parent %v", p.Parent())
		}
	})

	t.Run("key is injective", func(t *testing.T) {
		if PathOf("a/b").Key() == PathOf("a", "b").Key() {
			t.Errorf("keys collide for names containing the separator")
		}
		if PathOf("ab").Key() == PathOf("a", "b").Key() {
			t.Errorf("keys collide on concatenation")
		}
		if !PathOf("a", "b").Equal(ParsePath("a/b")) {
			t.Errorf("expected structural equality")
		}
	})
}

func TestColumnWithPath(t *testing.T) {
	root := NewBuilder().
		WithField("a", arrow.PrimitiveTypes.Int32, true).
		WithGroup("g", func(g *Builder) {
			g.WithGroup("h", func(h *Builder) {
				h.WithField("x", arrow.PrimitiveTypes.Int32, true)
			})
		}).
		WithFrame("f", func(f *Builder) {
			f.WithField("y", arrow.PrimitiveTypes.Int32, true)
		}).
		MustBuild()
	scope := RootOf(root)

	if !scope.IsRoot() || scope.Kind() != GroupKind {
		t.Fatalf("root scope should be an unnamed group")
	}

	x, ok := scope.Get(PathOf("g", "h", "x"))
	if !ok || x.Path.String() != "g/h/x" || x.Name() != "x" {
		t.Fatalf("Get(g/h/x) = %v, %v", x, ok)
	}
	if _, ok := scope.Get(PathOf("a", "z")); ok {
		t.Errorf("walked into a value column")
	}
	if _, ok := scope.Get(PathOf("f", "y")); ok {
		t.Errorf("walked into a frame column")
	}

	var visited []string
	Walk(scope, func(c ColumnWithPath) bool {
		visited = append(visited, c.Path.String())
		return true
	})
	want := []string{"", "a", "g", "g/h", "g/h/x", "f"}
	if len(visited) != len(want) {
		t.Fatalf("Walk visited %v, want %v", visited, want)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Errorf("Walk[%d] = %q, want %q", i, visited[i], want[i])
		}
	}
}
