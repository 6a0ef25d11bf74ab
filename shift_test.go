package oxcel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertRows_MovesCells(t *testing.T) {
	s := newTestSheet(t)
	require.NoError(t, s.SetCellValue("A2", "above"))
	require.NoError(t, s.SetCellValue("A5", "below"))

	require.NoError(t, s.InsertRows(3, 2))

	v, err := s.CellValue("A2")
	require.NoError(t, err)
	assert.Equal(t, "above", v)

	v, err = s.CellValue("A7")
	require.NoError(t, err)
	assert.Equal(t, "below", v)

	v, err = s.CellValue("A5")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestInsertRows_ShiftsMergesAndRow10(t *testing.T) {
	s := newTestSheet(t)
	require.NoError(t, s.MergeCells("B5:C6"))
	require.NoError(t, s.SetCellValue("D10", 1))

	require.NoError(t, s.InsertRows(3, 2))

	merges := s.Merges()
	require.Len(t, merges, 1)
	assert.Equal(t, "B7:C8", merges[0].Name())

	v, err := s.CellValue("D12")
	require.NoError(t, err)
	assert.Equal(t, float64(1), v)
}

func TestRemoveRows_DropsBandContent(t *testing.T) {
	s := newTestSheet(t)
	require.NoError(t, s.SetCellValue("A3", "gone"))
	require.NoError(t, s.SetCellValue("A6", "kept"))

	require.NoError(t, s.RemoveRows(3, 2))

	_, err := s.Cell("A3")
	assert.ErrorIs(t, err, ErrNotFound)

	v, err := s.CellValue("A4")
	require.NoError(t, err)
	assert.Equal(t, "kept", v)
}

func TestInsertCols_MovesCellsAndColInfo(t *testing.T) {
	s := newTestSheet(t)
	require.NoError(t, s.SetCellValue("C1", "x"))
	require.NoError(t, s.SetColWidth("C", "C", 30))

	require.NoError(t, s.InsertCols(2, 1))

	v, err := s.CellValue("D1")
	require.NoError(t, err)
	assert.Equal(t, "x", v)

	info, err := s.ColInfoFor("D")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, float64(30), info.Width)
}

func TestInsertRows_RewritesFormulas(t *testing.T) {
	s := newTestSheet(t)
	require.NoError(t, s.SetCellFormula("A1", "SUM(B5:B8)"))

	require.NoError(t, s.InsertRows(3, 2))

	c, err := s.Cell("A1")
	require.NoError(t, err)
	require.NotNil(t, c.Formula)
	assert.Equal(t, "SUM(B7:B10)", c.Formula.Text)
}

func TestRemoveRows_FormulaRefToRemovedBand(t *testing.T) {
	s := newTestSheet(t)
	require.NoError(t, s.SetCellFormula("A1", "B5+1"))

	require.NoError(t, s.RemoveRows(5, 1))

	c, err := s.Cell("A1")
	require.NoError(t, err)
	require.NotNil(t, c.Formula)
	assert.Contains(t, c.Formula.Text, "#REF!")
}

func TestInsertRows_PreservesAbsoluteMarkers(t *testing.T) {
	s := newTestSheet(t)
	require.NoError(t, s.SetCellFormula("A1", "SUM($B$5:$B$8)"))

	require.NoError(t, s.InsertRows(3, 2))

	c, err := s.Cell("A1")
	require.NoError(t, err)
	assert.Equal(t, "SUM($B$7:$B$10)", c.Formula.Text)
}

func TestInsertRows_QuotedStringArgumentUntouched(t *testing.T) {
	s := newTestSheet(t)
	require.NoError(t, s.SetCellFormula("A1", `IF(B5>0,"B5 up","down")`))

	require.NoError(t, s.InsertRows(3, 2))

	c, err := s.Cell("A1")
	require.NoError(t, err)
	assert.Equal(t, `IF(B7>0,"B5 up","down")`, c.Formula.Text)
}

func TestInsertRows_ShiftsValidationAndCondFmt(t *testing.T) {
	s := newTestSheet(t)
	require.NoError(t, s.AddListValidation("A5:A8", []string{"a", "b"}, DataValidation{}))
	require.NoError(t, s.AddCellValueRule("B5:B8", OpGreaterThan, []string{"10"}, 0))

	require.NoError(t, s.InsertRows(3, 2))

	vals := s.Validations()
	require.Len(t, vals, 1)
	assert.Equal(t, "A7:A10", vals[0].Range.Name())

	rules := s.CondFormats()
	require.Len(t, rules, 1)
	assert.Equal(t, "B7:B10", rules[0].Range.Name())
}

func TestInsertRows_ShiftsPageBreaks(t *testing.T) {
	s := newTestSheet(t)
	require.NoError(t, s.AddPageBreak(AxisRow, 5))
	require.NoError(t, s.InsertRows(3, 2))
	assert.Equal(t, []int{7}, s.PageBreaks(AxisRow))
}

func TestInsertRows_InvalidArguments(t *testing.T) {
	s := newTestSheet(t)
	assert.ErrorIs(t, s.InsertRows(0, 1), ErrInvalidArgument)
	assert.ErrorIs(t, s.InsertRows(1, 0), ErrInvalidArgument)
}

func TestInsertRows_ShiftsDefinedNames(t *testing.T) {
	wb := NewWorkbook()
	s, _ := wb.Sheet("Sheet1")
	require.NoError(t, wb.SetDefinedName(DefinedName{Name: "Block", RefersTo: "Sheet1!$B$5:$B$8"}))

	require.NoError(t, s.InsertRows(3, 2))

	dn, err := wb.DefinedName("Block", "")
	require.NoError(t, err)
	assert.Equal(t, "Sheet1!$B$7:$B$10", dn.RefersTo)
}
