package oxcel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCellValueRule(t *testing.T) {
	s := newTestSheet(t)
	styleID := s.Workbook().StyleID(Style{Fill: &Fill{Pattern: "solid", FgColor: "FFFFC7CE"}})
	require.NoError(t, s.AddCellValueRule("A1:A10", OpGreaterThan, []string{"100"}, styleID))

	rules := s.CondFormats()
	require.Len(t, rules, 1)
	assert.Equal(t, CondCellValue, rules[0].Type)
	assert.Equal(t, "100", rules[0].Formula1)
	assert.Equal(t, styleID, rules[0].StyleID)
}

func TestAddCellValueRule_BetweenNeedsTwoOperands(t *testing.T) {
	s := newTestSheet(t)
	err := s.AddCellValueRule("A1:A10", OpBetween, []string{"1"}, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAddTextRule(t *testing.T) {
	s := newTestSheet(t)
	require.NoError(t, s.AddTextRule("B1:B10", TextContains, "urgent", 0))
	rules := s.CondFormats()
	require.Len(t, rules, 1)
	assert.Equal(t, CondText, rules[0].Type)
	assert.Equal(t, "urgent", rules[0].TextText)
}

func TestAddTopBottomRule(t *testing.T) {
	s := newTestSheet(t)
	require.NoError(t, s.AddTopBottomRule("C1:C20", 5, false, false, 0))
	require.NoError(t, s.AddTopBottomRule("C1:C20", 10, true, true, 0))
	rules := s.CondFormats()
	require.Len(t, rules, 2)
	assert.False(t, rules[0].Bottom)
	assert.True(t, rules[1].Bottom)
	assert.True(t, rules[1].Percent)
}

func TestAddAverageRule_StdDevRange(t *testing.T) {
	s := newTestSheet(t)
	require.NoError(t, s.AddAverageRule("A1:A10", false, 2, 0))
	err := s.AddAverageRule("A1:A10", false, 4, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAddColorScale_PointCount(t *testing.T) {
	s := newTestSheet(t)
	two := []ScalePoint{
		{Type: PointMin, Color: "FFFF0000"},
		{Type: PointMax, Color: "FF00FF00"},
	}
	require.NoError(t, s.AddColorScale("A1:A10", two))

	one := two[:1]
	assert.ErrorIs(t, s.AddColorScale("B1:B10", one), ErrInvalidArgument)
}

func TestAddDataBar(t *testing.T) {
	s := newTestSheet(t)
	require.NoError(t, s.AddDataBar("A1:A10", "FF638EC6", nil))
	rules := s.CondFormats()
	require.Len(t, rules, 1)
	assert.Equal(t, CondDataBar, rules[0].Type)
	assert.Equal(t, "FF638EC6", rules[0].BarColor)
}

func TestAddIconSet_NeedsThresholds(t *testing.T) {
	s := newTestSheet(t)
	err := s.AddIconSet("A1:A10", "3Arrows", []ScalePoint{{Type: PointPercent, Value: "50"}})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCondFormatsByType_Filters(t *testing.T) {
	s := newTestSheet(t)
	require.NoError(t, s.AddCellValueRule("A1:A10", OpLessThan, []string{"0"}, 0))
	require.NoError(t, s.AddDataBar("A1:A10", "FF638EC6", nil))
	require.NoError(t, s.AddDataBar("B1:B10", "FF638EC6", nil))

	bars, err := s.CondFormatsByType(CondDataBar, "")
	require.NoError(t, err)
	assert.Len(t, bars, 2)

	bars, err = s.CondFormatsByType(CondDataBar, "A1:A10")
	require.NoError(t, err)
	assert.Len(t, bars, 1)
}

func TestRemoveCondFormats(t *testing.T) {
	s := newTestSheet(t)
	require.NoError(t, s.AddCellValueRule("A1:A10", OpLessThan, []string{"0"}, 0))
	require.NoError(t, s.AddTextRule("A1:A10", TextBeginsWith, "x", 0))
	require.NoError(t, s.AddTextRule("B1:B10", TextEndsWith, "y", 0))

	removed, err := s.RemoveCondFormats("A1:A10")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Len(t, s.CondFormats(), 1)
}
