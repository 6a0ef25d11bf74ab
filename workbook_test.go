package oxcel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkbook_HasOneSheet(t *testing.T) {
	wb := NewWorkbook()
	assert.Equal(t, 1, wb.SheetCount())
	assert.Equal(t, "Sheet1", wb.ActiveSheet().Name())
}

func TestAddSheet_And_Lookup(t *testing.T) {
	wb := NewWorkbook()
	s, err := wb.AddSheet("Data")
	require.NoError(t, err)
	assert.Equal(t, "Data", s.Name())

	got, err := wb.Sheet("data") // lookup is case-insensitive
	require.NoError(t, err)
	assert.Same(t, s, got)
}

func TestAddSheet_DuplicateName(t *testing.T) {
	wb := NewWorkbook()
	_, err := wb.AddSheet("sheet1")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAddSheet_InvalidNames(t *testing.T) {
	wb := NewWorkbook()
	for _, name := range []string{"", "a:b", "a/b", "what?", "[x]", "'lead", "trail'", "this name is way way way longer than 31 characters"} {
		_, err := wb.AddSheet(name)
		assert.ErrorIs(t, err, ErrInvalidArgument, name)
	}
}

func TestRemoveSheet_LastSheetGuard(t *testing.T) {
	wb := NewWorkbook()
	err := wb.RemoveSheet("Sheet1")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestRemoveSheet_AdjustsActiveTab(t *testing.T) {
	wb := NewWorkbook()
	_, err := wb.AddSheet("Second")
	require.NoError(t, err)
	require.NoError(t, wb.SetActiveSheet("Second"))
	require.NoError(t, wb.RemoveSheet("Second"))
	assert.Equal(t, "Sheet1", wb.ActiveSheet().Name())
}

func TestRenameSheet_RewritesDefinedNames(t *testing.T) {
	wb := NewWorkbook()
	require.NoError(t, wb.SetDefinedName(DefinedName{Name: "Prices", RefersTo: "Sheet1!$A$1:$A$10"}))
	require.NoError(t, wb.RenameSheet("Sheet1", "Catalog"))

	dn, err := wb.DefinedName("Prices", "")
	require.NoError(t, err)
	assert.Equal(t, "Catalog!$A$1:$A$10", dn.RefersTo)
}

func TestCopySheet_DeepCopies(t *testing.T) {
	wb := NewWorkbook()
	src, _ := wb.Sheet("Sheet1")
	require.NoError(t, src.SetCellValue("A1", "original"))
	require.NoError(t, src.MergeCells("B1:C2"))

	dst, err := wb.CopySheet("Sheet1", "Copy")
	require.NoError(t, err)

	// Mutating the copy leaves the source untouched.
	require.NoError(t, dst.SetCellValue("A1", "changed"))
	v, err := src.CellValue("A1")
	require.NoError(t, err)
	assert.Equal(t, "original", v)

	v, err = dst.CellValue("A1")
	require.NoError(t, err)
	assert.Equal(t, "changed", v)
	assert.Len(t, dst.Merges(), 1)
}

func TestCopySheet_ClonesTablesAndPivots(t *testing.T) {
	wb := NewWorkbook()
	src, _ := wb.Sheet("Sheet1")
	for i, h := range []string{"Region", "Product", "Sales"} {
		require.NoError(t, src.SetCellValue(CellRef{Col: i + 1, Row: 1}.Name(), h))
	}
	require.NoError(t, src.AddTable("T1", "A1", "C4", salesColumns(), false, nil))
	cache := PivotCache{SourceSheet: "Sheet1", SourceRange: mustRange("A1:C2")}
	require.NoError(t, src.AddPivotTable("P1", "E1", cache, []int{0}, nil, nil))

	dst, err := wb.CopySheet("Sheet1", "Copy")
	require.NoError(t, err)

	tables := dst.Tables()
	require.Len(t, tables, 1)
	assert.Equal(t, "T12", tables[0].Name)
	assert.Equal(t, "A1:C4", tables[0].Range.Name())

	pivots := dst.PivotTables()
	require.Len(t, pivots, 1)
	assert.Equal(t, "P12", pivots[0].Name)

	// The originals keep their names, and removing the clone's table leaves
	// the source's in place.
	_, err = src.Table("T1")
	require.NoError(t, err)
	require.NoError(t, dst.RemoveTable("T12"))
	assert.True(t, src.HasTables())
}

// --- Defined names ---

func TestDefinedNames_ScopedAndGlobal(t *testing.T) {
	wb := NewWorkbook()
	require.NoError(t, wb.SetDefinedName(DefinedName{Name: "Rate", RefersTo: "0.07"}))
	require.NoError(t, wb.SetDefinedName(DefinedName{Name: "Rate", RefersTo: "0.09", Scope: "Sheet1"}))

	global, err := wb.DefinedName("Rate", "")
	require.NoError(t, err)
	assert.Equal(t, "0.07", global.RefersTo)

	scoped, err := wb.DefinedName("Rate", "Sheet1")
	require.NoError(t, err)
	assert.Equal(t, "0.09", scoped.RefersTo)

	require.NoError(t, wb.RemoveDefinedName("Rate", "Sheet1"))
	_, err = wb.DefinedName("Rate", "Sheet1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, wb.DefinedNames(), 1)
}

// --- Custom properties ---

func TestCustomProperties_Upsert(t *testing.T) {
	wb := NewWorkbook()
	require.NoError(t, wb.SetCustomProperty(CustomProperty{Name: "Reviewed", Type: CustomBool, Bool: true}))
	require.NoError(t, wb.SetCustomProperty(CustomProperty{Name: "Version", Type: CustomNumber, Num: 3}))
	require.NoError(t, wb.SetCustomProperty(CustomProperty{Name: "Version", Type: CustomNumber, Num: 4}))

	p, err := wb.CustomProperty("Version")
	require.NoError(t, err)
	assert.Equal(t, float64(4), p.Num)
	assert.Len(t, wb.CustomProperties(), 2)
}

// --- Workbook protection ---

func TestWorkbookProtect_DefaultsToStructureLock(t *testing.T) {
	wb := NewWorkbook()
	wb.Protect("hunter2", WorkbookProtection{})
	require.True(t, wb.IsProtected())

	p, ok := wb.Protection()
	require.True(t, ok)
	assert.True(t, p.LockStructure)
	assert.False(t, p.LockWindows)
	assert.True(t, p.Hash.VerifyPassword("hunter2"))

	wb.Unprotect()
	assert.False(t, wb.IsProtected())
}

// --- Document properties ---

func TestCoreProperties_RoundTripThroughModel(t *testing.T) {
	wb := NewWorkbook()
	wb.Props.Title = "Quarterly Report"
	wb.Props.Creator = "finance"
	wb.Props.Created = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, "Quarterly Report", wb.Props.Title)
}
