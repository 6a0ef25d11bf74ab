package oxcel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSheet(t *testing.T) *Sheet {
	t.Helper()
	wb := NewWorkbook()
	s, err := wb.Sheet("Sheet1")
	require.NoError(t, err)
	return s
}

// --- Cell values ---

func TestSetCellValue_Types(t *testing.T) {
	s := newTestSheet(t)
	require.NoError(t, s.SetCellValue("A1", "hello"))
	require.NoError(t, s.SetCellValue("A2", 42))
	require.NoError(t, s.SetCellValue("A3", 3.14))
	require.NoError(t, s.SetCellValue("A4", true))
	when := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.SetCellValue("A5", when))

	v, err := s.CellValue("A1")
	require.NoError(t, err)
	assert.Equal(t, "hello", v)

	v, err = s.CellValue("A2")
	require.NoError(t, err)
	assert.Equal(t, float64(42), v)

	v, err = s.CellValue("A4")
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = s.CellValue("A5")
	require.NoError(t, err)
	assert.Equal(t, when, v)
}

func TestSetCellValue_NilClearsToEmpty(t *testing.T) {
	s := newTestSheet(t)
	require.NoError(t, s.SetCellValue("B2", "x"))
	require.NoError(t, s.SetCellValue("B2", nil))
	c, err := s.Cell("B2")
	require.NoError(t, err)
	assert.Equal(t, CellEmpty, c.Type)
}

func TestCell_NeverWritten(t *testing.T) {
	s := newTestSheet(t)
	_, err := s.Cell("Z99")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCellValue_NeverWritten_IsNil(t *testing.T) {
	s := newTestSheet(t)
	v, err := s.CellValue("Z99")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSetCellValue_RichText(t *testing.T) {
	s := newTestSheet(t)
	runs := []RichTextRun{
		{Text: "bold", Font: &Font{Bold: true}},
		{Text: " plain"},
	}
	require.NoError(t, s.SetCellValue("A1", runs))
	c, err := s.Cell("A1")
	require.NoError(t, err)
	assert.Equal(t, CellString, c.Type)
	assert.Equal(t, "bold plain", c.Str)
	assert.Len(t, c.Rich, 2)
}

func TestSetCellError(t *testing.T) {
	s := newTestSheet(t)
	require.NoError(t, s.SetCellError("A1", "#DIV/0!"))
	c, err := s.Cell("A1")
	require.NoError(t, err)
	assert.Equal(t, CellError, c.Type)
	assert.Equal(t, "#DIV/0!", c.Err)
}

func TestClearCellContent_KeepsStyle(t *testing.T) {
	s := newTestSheet(t)
	styleID := s.Workbook().StyleID(Style{Font: &Font{Bold: true}})
	require.NoError(t, s.SetCellValue("C3", "styled"))
	require.NoError(t, s.SetCellStyle("C3", styleID))
	require.NoError(t, s.ClearCellContent("C3"))

	c, err := s.Cell("C3")
	require.NoError(t, err)
	assert.Equal(t, CellEmpty, c.Type)
	assert.Equal(t, styleID, c.StyleID)
}

func TestRemoveCell_DropsEverything(t *testing.T) {
	s := newTestSheet(t)
	require.NoError(t, s.SetCellValue("C3", "x"))
	require.NoError(t, s.RemoveCell("C3"))
	_, err := s.Cell("C3")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, s.CellCount())
}

// --- Formulas ---

func TestSetCellFormula(t *testing.T) {
	s := newTestSheet(t)
	require.NoError(t, s.SetCellFormula("D1", "SUM(A1:A10)"))
	c, err := s.Cell("D1")
	require.NoError(t, err)
	require.NotNil(t, c.Formula)
	assert.Equal(t, "SUM(A1:A10)", c.Formula.Text)
	assert.Equal(t, FormulaNormal, c.Formula.Kind)
}

func TestSetSharedFormula_MasterAndMembers(t *testing.T) {
	s := newTestSheet(t)
	require.NoError(t, s.SetSharedFormula("B1:B3", "A1*2"))

	master, err := s.Cell("B1")
	require.NoError(t, err)
	require.NotNil(t, master.Formula)
	assert.Equal(t, FormulaShared, master.Formula.Kind)
	assert.Equal(t, "A1*2", master.Formula.Text)

	member, err := s.Cell("B3")
	require.NoError(t, err)
	require.NotNil(t, member.Formula)
	assert.Equal(t, FormulaShared, member.Formula.Kind)
	assert.Equal(t, master.Formula.SharedIndex, member.Formula.SharedIndex)
}

func TestSetArrayFormula(t *testing.T) {
	s := newTestSheet(t)
	require.NoError(t, s.SetArrayFormula("C1:C3", "A1:A3*B1:B3"))
	c, err := s.Cell("C1")
	require.NoError(t, err)
	require.NotNil(t, c.Formula)
	assert.Equal(t, FormulaArray, c.Formula.Kind)
	assert.Equal(t, "C1:C3", c.Formula.Ref.Name())
}

// --- Merges ---

func TestMergeCells_And_Unmerge(t *testing.T) {
	s := newTestSheet(t)
	require.NoError(t, s.MergeCells("A1:B2"))
	assert.Len(t, s.Merges(), 1)
	require.NoError(t, s.UnmergeCells("A1:B2"))
	assert.Empty(t, s.Merges())
}

func TestMergeCells_SingleCellRejected(t *testing.T) {
	s := newTestSheet(t)
	err := s.MergeCells("A1:A1")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestMergeCells_OverlapRejected(t *testing.T) {
	s := newTestSheet(t)
	require.NoError(t, s.MergeCells("A1:C3"))
	err := s.MergeCells("B2:D4")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Len(t, s.Merges(), 1)
}

// --- Used range ---

func TestUsedRange_Empty(t *testing.T) {
	s := newTestSheet(t)
	_, ok := s.UsedRange()
	assert.False(t, ok)
}

func TestUsedRange_BoundingBox(t *testing.T) {
	s := newTestSheet(t)
	require.NoError(t, s.SetCellValue("B2", 1))
	require.NoError(t, s.SetCellValue("D7", 2))
	used, ok := s.UsedRange()
	require.True(t, ok)
	assert.Equal(t, "B2:D7", used.Name())
}

// --- Rows and columns ---

func TestSetRowHeight(t *testing.T) {
	s := newTestSheet(t)
	require.NoError(t, s.SetRowHeight(3, 25.5))
	info := s.RowInfo(3)
	require.NotNil(t, info)
	assert.Equal(t, 25.5, info.Height)
	assert.True(t, info.CustomHeight)
}

func TestSetColWidth_Span(t *testing.T) {
	s := newTestSheet(t)
	require.NoError(t, s.SetColWidth("B", "D", 18))
	info, err := s.ColInfoFor("C")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, float64(18), info.Width)
	assert.True(t, info.CustomWidth)
}

func TestSetColHidden(t *testing.T) {
	s := newTestSheet(t)
	require.NoError(t, s.SetColHidden("E", "E", true))
	info, err := s.ColInfoFor("E")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.True(t, info.Hidden)
}

// --- Page breaks ---

func TestPageBreaks(t *testing.T) {
	s := newTestSheet(t)
	require.NoError(t, s.AddPageBreak(AxisRow, 10))
	require.NoError(t, s.AddPageBreak(AxisRow, 5))
	assert.Equal(t, []int{5, 10}, s.PageBreaks(AxisRow))

	require.NoError(t, s.RemovePageBreak(AxisRow, 5))
	assert.Equal(t, []int{10}, s.PageBreaks(AxisRow))
}

func TestAddPageBreak_BeforeFirstRowRejected(t *testing.T) {
	s := newTestSheet(t)
	err := s.AddPageBreak(AxisRow, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

// --- Auto filter ---

func TestAutoFilter_SetAndRemove(t *testing.T) {
	s := newTestSheet(t)
	require.NoError(t, s.SetAutoFilter("A1:D20"))
	r, ok := s.AutoFilter()
	require.True(t, ok)
	assert.Equal(t, "A1:D20", r.Name())

	require.NoError(t, s.SetAutoFilter(""))
	_, ok = s.AutoFilter()
	assert.False(t, ok)
}

// --- Hyperlinks and comments ---

func TestSetHyperlink(t *testing.T) {
	s := newTestSheet(t)
	require.NoError(t, s.SetHyperlink("A1", Hyperlink{Target: "https://example.com", Tooltip: "site"}))
	c, err := s.Cell("A1")
	require.NoError(t, err)
	require.NotNil(t, c.Hyperlink)
	assert.Equal(t, "https://example.com", c.Hyperlink.Target)
	assert.False(t, c.Hyperlink.Internal)
}

func TestComments(t *testing.T) {
	s := newTestSheet(t)
	require.NoError(t, s.SetComment("B2", Comment{Text: "check this", Author: "reviewer"}))
	comments := s.Comments()
	require.Len(t, comments, 1)
	assert.Equal(t, "check this", comments["B2"].Text)
	assert.Equal(t, "reviewer", comments["B2"].Author)
}

// --- Sheet protection ---

func TestSheetProtect_VerifyPassword(t *testing.T) {
	s := newTestSheet(t)
	s.Protect("secret", SheetProtection{FormatCells: true})
	p, ok := s.Protection()
	require.True(t, ok)
	assert.True(t, p.FormatCells)
	assert.True(t, p.Hash.VerifyPassword("secret"))
	assert.False(t, p.Hash.VerifyPassword("wrong"))

	s.Unprotect()
	_, ok = s.Protection()
	assert.False(t, ok)
}
