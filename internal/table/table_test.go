package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Run("empty value is missing", func(t *testing.T) {
		assert.Equal(t, CellMissing, Classify("").Kind)
		assert.Equal(t, CellMissing, Classify("   ").Kind)
	})

	t.Run("numeric values keep their raw form", func(t *testing.T) {
		c := Classify("001")
		assert.Equal(t, CellNumber, c.Kind)
		assert.Equal(t, "001", c.Raw)
		assert.Equal(t, "001", c.String())

		f, ok := c.Float()
		require.True(t, ok)
		assert.Equal(t, 1.0, f)
	})

	t.Run("text values", func(t *testing.T) {
		c := Classify("수리 필요")
		assert.Equal(t, CellText, c.Kind)
		assert.Equal(t, "수리 필요", c.String())
	})

	t.Run("missing renders as empty string", func(t *testing.T) {
		assert.Equal(t, "", Missing().String())
		assert.Equal(t, MissingKey, Missing().GroupKey())
	})
}

func TestConcat(t *testing.T) {
	a := New([]string{"Name", "Status"})
	a.AppendRow(Row{"Name": Text("A1"), "Status": Text("정상")})
	a.AppendRow(Row{"Name": Text("A2"), "Status": Text("수리 필요")})

	b := New([]string{"Name", "Dept"})
	b.AppendRow(Row{"Name": Text("B1"), "Dept": Text("총무팀")})

	merged := Concat([]*Table{a, b})

	t.Run("column set is the union in first-seen order", func(t *testing.T) {
		assert.Equal(t, []string{"Name", "Status", "Dept"}, merged.Columns)
	})

	t.Run("row count is the sum and order is file order then row order", func(t *testing.T) {
		require.Equal(t, 3, merged.RowCount())
		assert.Equal(t, "A1", merged.Rows[0]["Name"].String())
		assert.Equal(t, "A2", merged.Rows[1]["Name"].String())
		assert.Equal(t, "B1", merged.Rows[2]["Name"].String())
	})

	t.Run("columns absent from a source table become missing cells", func(t *testing.T) {
		assert.Equal(t, CellMissing, merged.Rows[0]["Dept"].Kind)
		assert.Equal(t, CellMissing, merged.Rows[2]["Status"].Kind)
		assert.Equal(t, CellText, merged.Rows[2]["Dept"].Kind)
	})
}

func TestTextColumns(t *testing.T) {
	tb := New([]string{"ID", "Status", "Count", "Empty"})
	tb.AppendRow(Row{"ID": Classify("1"), "Status": Classify("정상"), "Count": Classify("3"), "Empty": Classify("")})
	tb.AppendRow(Row{"ID": Classify("2"), "Status": Classify("폐기 예정"), "Count": Classify("7"), "Empty": Classify("")})

	assert.Equal(t, []string{"Status"}, tb.TextColumns())
}

func TestDetectColumn(t *testing.T) {
	columns := []string{"자산번호", "Serial Number", "부서명", "Model"}

	t.Run("matches case-insensitively by substring", func(t *testing.T) {
		col, ok := DetectColumn(columns, []string{"serial", "시리얼"}, false)
		require.True(t, ok)
		assert.Equal(t, "Serial Number", col)
	})

	t.Run("first matching column in column order wins", func(t *testing.T) {
		col, ok := DetectColumn(columns, []string{"model", "부서"}, false)
		require.True(t, ok)
		assert.Equal(t, "부서명", col)
	})

	t.Run("no match without fallback", func(t *testing.T) {
		_, ok := DetectColumn(columns, []string{"warranty"}, false)
		assert.False(t, ok)
	})

	t.Run("no match with fallback selects the first column", func(t *testing.T) {
		col, ok := DetectColumn(columns, []string{"warranty"}, true)
		require.True(t, ok)
		assert.Equal(t, "자산번호", col)
	})

	t.Run("empty column list never selects", func(t *testing.T) {
		_, ok := DetectColumn(nil, []string{"serial"}, true)
		assert.False(t, ok)
	})
}
