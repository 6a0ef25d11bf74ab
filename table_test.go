package oxcel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func salesColumns() []TableColumn {
	return []TableColumn{
		{Name: "Region"},
		{Name: "Product"},
		{Name: "Sales", TotalsFunction: TotalsSum},
	}
}

func TestAddTable_Scenario(t *testing.T) {
	s := newTestSheet(t)
	require.NoError(t, s.AddTable("T1", "A1", "C4", salesColumns(), true, nil))

	table, err := s.Table("T1")
	require.NoError(t, err)
	assert.Equal(t, "A1:C4", table.Range.Name())
	assert.True(t, table.HasTotalsRow)
	assert.Len(t, table.Columns, 3)
	assert.True(t, s.HasTables())

	require.NoError(t, s.RemoveTable("T1"))
	assert.False(t, s.HasTables())
	_, err = s.Table("T1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddTable_ColumnCountMustMatchWidth(t *testing.T) {
	s := newTestSheet(t)
	err := s.AddTable("T1", "A1", "D4", salesColumns(), false, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAddTable_NeedsHeaderAndData(t *testing.T) {
	s := newTestSheet(t)
	err := s.AddTable("T1", "A1", "C1", salesColumns(), false, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAddTable_DuplicateColumnNames(t *testing.T) {
	s := newTestSheet(t)
	cols := []TableColumn{{Name: "A"}, {Name: "a"}}
	err := s.AddTable("T1", "A1", "B4", cols, false, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAddTable_NameUniqueAcrossWorkbook(t *testing.T) {
	wb := NewWorkbook()
	s1, _ := wb.Sheet("Sheet1")
	s2, err := wb.AddSheet("Second")
	require.NoError(t, err)

	require.NoError(t, s1.AddTable("T1", "A1", "C4", salesColumns(), false, nil))
	err = s2.AddTable("T1", "A1", "C4", salesColumns(), false, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAddTable_UnknownTotalsFunction(t *testing.T) {
	s := newTestSheet(t)
	cols := []TableColumn{{Name: "A"}, {Name: "B", TotalsFunction: TotalsFunction("bogus")}}
	err := s.AddTable("T1", "A1", "B4", cols, true, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAddTable_WithStyle(t *testing.T) {
	s := newTestSheet(t)
	style := &TableStyle{Name: "TableStyleMedium2", ShowRowStripes: true}
	require.NoError(t, s.AddTable("Styled", "A1", "C4", salesColumns(), false, style))

	table, err := s.Table("Styled")
	require.NoError(t, err)
	require.NotNil(t, table.Style)
	assert.Equal(t, "TableStyleMedium2", table.Style.Name)
	assert.True(t, table.Style.ShowRowStripes)
}
