package oxcel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Cell references ---

func TestParseCellRef_Simple(t *testing.T) {
	ref, err := ParseCellRef("A1")
	require.NoError(t, err)
	assert.Equal(t, 1, ref.Col)
	assert.Equal(t, 1, ref.Row)
}

func TestParseCellRef_MultiLetterCol(t *testing.T) {
	ref, err := ParseCellRef("AA10")
	require.NoError(t, err)
	assert.Equal(t, 27, ref.Col)
	assert.Equal(t, 10, ref.Row)
}

func TestParseCellRef_AbsoluteMarkers(t *testing.T) {
	ref, err := ParseCellRef("$B$5")
	require.NoError(t, err)
	assert.Equal(t, 2, ref.Col)
	assert.Equal(t, 5, ref.Row)
}

func TestParseCellRef_Invalid_Empty(t *testing.T) {
	_, err := ParseCellRef("")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestParseCellRef_Invalid_RowFirst(t *testing.T) {
	_, err := ParseCellRef("1A")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestParseCellRef_Invalid_RowZero(t *testing.T) {
	_, err := ParseCellRef("A0")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestParseCellRef_Invalid_NoRow(t *testing.T) {
	_, err := ParseCellRef("AB")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCellRefName_RoundTrip(t *testing.T) {
	for _, name := range []string{"A1", "Z26", "AA1", "XFD1048576", "B7"} {
		ref, err := ParseCellRef(name)
		require.NoError(t, err)
		assert.Equal(t, name, ref.Name())
	}
}

func TestColNameToNumber(t *testing.T) {
	cases := map[string]int{"A": 1, "Z": 26, "AA": 27, "AZ": 52, "XFD": 16384}
	for name, want := range cases {
		n, err := ColNameToNumber(name)
		require.NoError(t, err)
		assert.Equal(t, want, n, name)
	}
}

func TestColNameToNumber_CaseInsensitive(t *testing.T) {
	n, err := ColNameToNumber("aa")
	require.NoError(t, err)
	assert.Equal(t, 27, n)
}

func TestColNameToNumber_OutOfRange(t *testing.T) {
	_, err := ColNameToNumber("XFE")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestColNumberToName(t *testing.T) {
	cases := map[int]string{1: "A", 26: "Z", 27: "AA", 52: "AZ", 16384: "XFD"}
	for n, want := range cases {
		assert.Equal(t, want, ColNumberToName(n))
	}
}

// --- Ranges ---

func TestParseRange_Normalizes(t *testing.T) {
	r, err := ParseRange("C5:A1")
	require.NoError(t, err)
	assert.Equal(t, "A1:C5", r.Name())
}

func TestParseRange_SingleCell(t *testing.T) {
	r, err := ParseRange("B2")
	require.NoError(t, err)
	assert.Equal(t, r.Start, r.End)
	assert.Equal(t, 1, r.Width())
	assert.Equal(t, 1, r.Height())
}

func TestRangeContains(t *testing.T) {
	r, err := ParseRange("B2:D4")
	require.NoError(t, err)
	assert.True(t, r.Contains(CellRef{Col: 3, Row: 3}))
	assert.True(t, r.Contains(CellRef{Col: 2, Row: 2}))
	assert.False(t, r.Contains(CellRef{Col: 1, Row: 3}))
	assert.False(t, r.Contains(CellRef{Col: 3, Row: 5}))
}

func TestRangeIntersects(t *testing.T) {
	a, _ := ParseRange("A1:C3")
	b, _ := ParseRange("C3:E5")
	c, _ := ParseRange("D4:E5")
	assert.True(t, a.Intersects(b))
	assert.False(t, a.Intersects(c))
}

func TestRangeCells_RowMajor(t *testing.T) {
	r, _ := ParseRange("A1:B2")
	var got []string
	r.Cells(func(ref CellRef) bool {
		got = append(got, ref.Name())
		return true
	})
	assert.Equal(t, []string{"A1", "B1", "A2", "B2"}, got)
}

func TestRangeShift_InsertBelow(t *testing.T) {
	r, _ := ParseRange("B5:C6")
	shifted, ok := r.Shift(AxisRow, 3, 2)
	require.True(t, ok)
	assert.Equal(t, "B7:C8", shifted.Name())
}

func TestRangeShift_InsertAfter_NoMove(t *testing.T) {
	r, _ := ParseRange("B5:C6")
	shifted, ok := r.Shift(AxisRow, 7, 2)
	require.True(t, ok)
	assert.Equal(t, "B5:C6", shifted.Name())
}

func TestRangeShift_RemovalSwallowsRange(t *testing.T) {
	r, _ := ParseRange("B5:C6")
	_, ok := r.Shift(AxisRow, 5, -2)
	assert.False(t, ok)
}

func TestRangeShift_RemovalClampsStart(t *testing.T) {
	r, _ := ParseRange("B5:C8")
	shifted, ok := r.Shift(AxisRow, 4, -2)
	require.True(t, ok)
	assert.Equal(t, "B4:C6", shifted.Name())
}

func TestRangeShift_RemovalClampsEnd(t *testing.T) {
	r, _ := ParseRange("B5:C8")
	shifted, ok := r.Shift(AxisRow, 7, -4)
	require.True(t, ok)
	assert.Equal(t, "B5:C6", shifted.Name())
}

func TestRangeShift_Columns(t *testing.T) {
	r, _ := ParseRange("B2:D4")
	shifted, ok := r.Shift(AxisCol, 1, 3)
	require.True(t, ok)
	assert.Equal(t, "E2:G4", shifted.Name())
}
