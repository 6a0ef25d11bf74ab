package oxcel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pivotFixture(t *testing.T) (*Workbook, *Sheet, *Sheet) {
	t.Helper()
	wb := NewWorkbook()
	data, err := wb.Sheet("Sheet1")
	require.NoError(t, err)
	for i, h := range []string{"Region", "Product", "Sales"} {
		require.NoError(t, data.SetCellValue(CellRef{Col: i + 1, Row: 1}.Name(), h))
	}
	require.NoError(t, data.SetCellValue("A2", "East"))
	require.NoError(t, data.SetCellValue("B2", "Widget"))
	require.NoError(t, data.SetCellValue("C2", 100))

	report, err := wb.AddSheet("Report")
	require.NoError(t, err)
	return wb, data, report
}

func sourceCache() PivotCache {
	return PivotCache{SourceSheet: "Sheet1", SourceRange: mustRange("A1:C2")}
}

func mustRange(ref string) Range {
	r, err := ParseRange(ref)
	if err != nil {
		panic(err)
	}
	return r
}

func TestAddPivotTable_DerivesFieldsFromHeader(t *testing.T) {
	_, _, report := pivotFixture(t)
	df := []PivotDataField{{DisplayName: "Total Sales", FieldIndex: 2, Aggregation: PivotSum}}
	require.NoError(t, report.AddPivotTable("P1", "A3", sourceCache(), []int{0}, []int{1}, df))

	p, err := report.PivotTable("P1")
	require.NoError(t, err)
	require.Len(t, p.Cache.Fields, 3)
	assert.Equal(t, "Region", p.Cache.Fields[0].Name)
	assert.Equal(t, "Sales", p.Cache.Fields[2].Name)
}

func TestAddPivotTable_MissingSourceSheet(t *testing.T) {
	_, _, report := pivotFixture(t)
	cache := PivotCache{SourceSheet: "Nope", SourceRange: mustRange("A1:C2")}
	err := report.AddPivotTable("P1", "A3", cache, []int{0}, nil, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddPivotTable_FieldIndexOutOfRange(t *testing.T) {
	_, _, report := pivotFixture(t)
	err := report.AddPivotTable("P1", "A3", sourceCache(), []int{7}, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAddPivotTable_NameUniqueAcrossWorkbook(t *testing.T) {
	_, data, report := pivotFixture(t)
	require.NoError(t, report.AddPivotTable("P1", "A3", sourceCache(), []int{0}, nil, nil))
	err := data.AddPivotTable("P1", "E1", sourceCache(), []int{0}, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestRefreshPivotTable_MarksCacheStale(t *testing.T) {
	_, _, report := pivotFixture(t)
	require.NoError(t, report.AddPivotTable("P1", "A3", sourceCache(), []int{0}, nil, nil))
	require.NoError(t, report.RefreshPivotTable("P1"))

	p, err := report.PivotTable("P1")
	require.NoError(t, err)
	assert.True(t, p.Cache.Stale)
}

func TestRemovePivotTable(t *testing.T) {
	_, _, report := pivotFixture(t)
	require.NoError(t, report.AddPivotTable("P1", "A3", sourceCache(), []int{0}, nil, nil))
	require.NoError(t, report.RemovePivotTable("P1"))
	assert.Empty(t, report.PivotTables())
	assert.ErrorIs(t, report.RemovePivotTable("P1"), ErrNotFound)
}

func TestRenameSheet_UpdatesPivotSource(t *testing.T) {
	wb, _, report := pivotFixture(t)
	require.NoError(t, report.AddPivotTable("P1", "A3", sourceCache(), []int{0}, nil, nil))
	require.NoError(t, wb.RenameSheet("Sheet1", "RawData"))

	p, err := report.PivotTable("P1")
	require.NoError(t, err)
	assert.Equal(t, "RawData", p.Cache.SourceSheet)
}
