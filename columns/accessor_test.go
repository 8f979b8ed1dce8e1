package columns

import (
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"colselect-go/schema"
)

func TestTypedAccessors(t *testing.T) {
	root := nestedTree()

	t.Run("column group", func(t *testing.T) {
		g, err := ResolveColumnGroup(Named("address"), root)
		require.NoError(t, err)
		assert.Equal(t, []string{"address/street", "address/geo"}, paths(g.Columns()))
		assert.Equal(t, 2, g.Schema().NumFields())

		picked, err := g.Select(Cols(ByName("geo")).ColsInGroups())
		require.NoError(t, err)
		assert.Equal(t, []string{"address/geo/lat", "address/geo/lon"}, paths(picked))
	})

	t.Run("frame column", func(t *testing.T) {
		f, err := ResolveFrameColumn(Named("orders"), root)
		require.NoError(t, err)
		assert.Equal(t, "orders", f.Path.String())
		assert.Equal(t, []string{"sku", "qty"}, []string{f.Schema().Field(0).Name, f.Schema().Field(1).Name})

		picked, err := f.Select(ValueCols().Drop(1))
		require.NoError(t, err)
		assert.Equal(t, []string{"qty"}, paths(picked))
	})

	t.Run("value column", func(t *testing.T) {
		v, err := ResolveValueColumn(At("address", "geo", "lat"), root)
		require.NoError(t, err)
		assert.True(t, arrow.TypeEqual(arrow.PrimitiveTypes.Float64, v.Type()))
		assert.True(t, v.Nullable())
	})

	t.Run("kind mismatch", func(t *testing.T) {
		_, err := ResolveFrameColumn(Named("id"), root)
		var km *KindMismatchError
		require.ErrorAs(t, err, &km)
		assert.Equal(t, schema.FrameKind, km.Expected)
		assert.Equal(t, schema.ValueKind, km.Actual)
		assert.Equal(t, "id", km.Path.String())
		assert.ErrorIs(t, err, ErrKindMismatch)
		assert.NotErrorIs(t, err, ErrNotFound)
		assert.Equal(t, `column at "id" is not a FrameColumn, but a ValueColumn`, err.Error())

		_, err = ResolveColumnGroup(Named("orders"), root)
		assert.ErrorIs(t, err, ErrKindMismatch)
		_, err = ResolveValueColumn(Named("address"), root)
		assert.ErrorIs(t, err, ErrKindMismatch)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := ResolveColumnGroup(Named("missing"), root)
		var nf *NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, `col("missing")`, nf.Selector)
		assert.NotErrorIs(t, err, ErrKindMismatch)
	})

	t.Run("as on resolved columns", func(t *testing.T) {
		cols, err := Resolve(All(), root)
		require.NoError(t, err)
		kinds := map[schema.Kind]int{}
		for _, c := range cols {
			if _, err := AsValueColumn(c); err == nil {
				kinds[schema.ValueKind]++
			}
			if _, err := AsColumnGroup(c); err == nil {
				kinds[schema.GroupKind]++
			}
			if _, err := AsFrameColumn(c); err == nil {
				kinds[schema.FrameKind]++
			}
		}
		assert.Equal(t, map[schema.Kind]int{schema.ValueKind: 3, schema.GroupKind: 1, schema.FrameKind: 1}, kinds)
	})
}

func TestLazyKindChecks(t *testing.T) {
	root := nestedTree()

	t.Run("matching kind passes through", func(t *testing.T) {
		assert.Equal(t, []string{"address/street", "address/geo"}, resolvePaths(t, ColGroup(ByName("address")).All(), root))
		assert.Equal(t, []string{"address/geo"}, resolvePaths(t, ColGroup(ByName("address")).ColGroup(ByName("geo")), root))
		assert.Equal(t, []string{"orders"}, resolvePaths(t, FrameCol(ByIndex(3)), root))
		assert.Equal(t, []string{"tags"}, resolvePaths(t, ValueCol(ByName("tags")), root))
		assert.Equal(t, []string{"id"}, resolvePaths(t, All().ValueCol(ByIndex(0)), root))
	})

	t.Run("mismatch fails at resolution", func(t *testing.T) {
		_, err := Resolve(ColGroup(ByName("orders")).All(), root)
		var km *KindMismatchError
		require.ErrorAs(t, err, &km)
		assert.Equal(t, schema.GroupKind, km.Expected)
		assert.Equal(t, schema.FrameKind, km.Actual)

		_, err = Resolve(Named("id").AsColumnGroup(), root)
		assert.ErrorIs(t, err, ErrKindMismatch)
	})

	t.Run("missing stays silent until terminal use", func(t *testing.T) {
		assert.Empty(t, resolvePaths(t, ValueCol(ByName("missing")), root))
		_, err := ResolveValueColumn(ValueCol(ByName("missing")), root)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("descriptions", func(t *testing.T) {
		assert.Equal(t, `col("address").colGroup()`, ColGroup(ByName("address")).String())
		assert.Equal(t, `col("id").asValueColumn()`, Named("id").AsValueColumn().String())
	})
}
