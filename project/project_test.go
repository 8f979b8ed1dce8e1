package project

import (
	"strings"
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"colselect-go/columns"
	"colselect-go/schema"
)

var peopleSchema = arrow.NewSchema([]arrow.Field{
	{Name: "id", Type: arrow.PrimitiveTypes.Int64},
	{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
	{Name: "address", Type: arrow.StructOf(
		arrow.Field{Name: "name", Type: arrow.BinaryTypes.String},
		arrow.Field{Name: "geo", Type: arrow.StructOf(
			arrow.Field{Name: "lat", Type: arrow.PrimitiveTypes.Float64},
			arrow.Field{Name: "lon", Type: arrow.PrimitiveTypes.Float64},
		)},
	), Nullable: true},
	{Name: "orders", Type: arrow.ListOf(arrow.StructOf(
		arrow.Field{Name: "sku", Type: arrow.BinaryTypes.String},
	)), Nullable: true},
}, nil)

const peopleJSON = `[
	{"id": 1, "name": "ann", "address": {"name": "home", "geo": {"lat": 1.0, "lon": 2.0}}, "orders": [{"sku": "a"}]},
	{"id": 2, "name": "bob", "address": {"name": "work", "geo": {"lat": 3.0, "lon": 4.0}}, "orders": []},
	{"id": 3, "name": null, "address": {"name": "away", "geo": {"lat": 5.0, "lon": 6.0}}, "orders": null}
]`

func people(t *testing.T) (arrow.Record, *schema.Node) {
	t.Helper()
	rec, _, err := array.RecordFromJSON(memory.NewGoAllocator(), peopleSchema, strings.NewReader(peopleJSON))
	require.NoError(t, err)
	t.Cleanup(rec.Release)
	root, err := schema.FromArrow(peopleSchema)
	require.NoError(t, err)
	return rec, root
}

func resolve(t *testing.T, r columns.Resolver, root *schema.Node) []schema.ColumnWithPath {
	t.Helper()
	cols, err := columns.Resolve(r, root)
	require.NoError(t, err)
	return cols
}

func fieldNames(s *arrow.Schema) []string {
	names := make([]string, 0, s.NumFields())
	for _, f := range s.Fields() {
		names = append(names, f.Name)
	}
	return names
}

func TestSelect(t *testing.T) {
	rec, root := people(t)

	t.Run("top level columns in selection order", func(t *testing.T) {
		cols := resolve(t, columns.Cols(columns.ByName("orders"), columns.ByName("id")), root)
		out, err := Select(rec, cols)
		require.NoError(t, err)
		defer out.Release()

		assert.Equal(t, []string{"orders", "id"}, fieldNames(out.Schema()))
		assert.Equal(t, int64(3), out.NumRows())
		assert.True(t, array.Equal(rec.Column(0), out.Column(1)))
		assert.True(t, array.Equal(rec.Column(3), out.Column(0)))
	})

	t.Run("nested values are lifted", func(t *testing.T) {
		cols := resolve(t, columns.At("address", "geo").All(), root)
		out, err := Select(rec, cols)
		require.NoError(t, err)
		defer out.Release()

		assert.Equal(t, []string{"lat", "lon"}, fieldNames(out.Schema()))
		lat, ok := out.Column(0).(*array.Float64)
		require.True(t, ok)
		assert.Equal(t, []float64{1, 3, 5}, lat.Float64Values())
		// the enclosing group is nullable
		assert.True(t, out.Schema().Field(0).Nullable)
	})

	t.Run("whole groups stay structs", func(t *testing.T) {
		cols := resolve(t, columns.ColGroups(), root)
		out, err := Select(rec, cols)
		require.NoError(t, err)
		defer out.Release()
		assert.Equal(t, arrow.STRUCT, out.Column(0).DataType().ID())
	})

	t.Run("duplicate names take their full path", func(t *testing.T) {
		cols := resolve(t, columns.Cols(columns.ByName("id"), columns.ByName("name")).And(columns.At("address", "name")), root)
		out, err := Select(rec, cols)
		require.NoError(t, err)
		defer out.Release()

		assert.Equal(t, []string{"id", "name", "address/name"}, fieldNames(out.Schema()))
		names, ok := out.Column(2).(*array.String)
		require.True(t, ok)
		assert.Equal(t, "work", names.Value(1))
	})

	t.Run("columns inside frames are rejected", func(t *testing.T) {
		orders, ok := schema.RootOf(root).Child("orders")
		require.True(t, ok)
		inside := schema.ColumnWithPath{Node: orders.Node.Frame().ChildAt(0), Path: schema.PathOf("orders", "sku")}

		_, err := Select(rec, []schema.ColumnWithPath{inside})
		assert.ErrorIs(t, err, ErrInsideFrame)
		assert.ErrorContains(t, err, `"orders/sku" is inside "orders"`)
	})

	t.Run("unknown and empty selections", func(t *testing.T) {
		_, err := Select(rec, nil)
		assert.ErrorIs(t, err, ErrNoColumns)

		other := schema.NewBuilder().WithField("zzz", arrow.PrimitiveTypes.Int8, false).MustBuild()
		_, err = Select(rec, resolve(t, columns.All(), other))
		assert.ErrorIs(t, err, ErrNotInSchema)

		_, err = Select(rec, []schema.ColumnWithPath{schema.RootOf(root)})
		assert.Error(t, err)
	})

	t.Run("select with a resolver", func(t *testing.T) {
		out, err := SelectWith(rec, columns.AllAfter(schema.PathOf("name")))
		require.NoError(t, err)
		defer out.Release()
		assert.Equal(t, []string{"address", "orders"}, fieldNames(out.Schema()))

		_, err = SelectWith(rec, columns.Col(columns.ByIndex(10)))
		assert.ErrorIs(t, err, columns.ErrIndexOutOfRange)
	})
}

func TestSelectSchema(t *testing.T) {
	_, root := people(t)
	cols := resolve(t, columns.ColsAtAnyDepth().ValueCols(), root)

	s, err := SelectSchema(peopleSchema, cols)
	require.NoError(t, err)
	// both "name" columns are spelled out
	assert.Equal(t, []string{"id", "name", "address/name", "lat", "lon"}, fieldNames(s))
	assert.Equal(t, arrow.FLOAT64, s.Field(3).Type.ID())
}
