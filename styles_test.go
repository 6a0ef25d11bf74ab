package oxcel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyleIntern_Idempotent(t *testing.T) {
	wb := NewWorkbook()
	style := Style{
		Font: &Font{Bold: true, Size: 12, Name: "Arial"},
		Fill: &Fill{Pattern: "solid", FgColor: "FFFFCC00"},
	}
	first := wb.StyleID(style)
	second := wb.StyleID(style)
	assert.Equal(t, first, second)
	assert.NotEqual(t, 0, first)
}

func TestStyleIntern_DistinctStylesDistinctIDs(t *testing.T) {
	wb := NewWorkbook()
	a := wb.StyleID(Style{Font: &Font{Bold: true}})
	b := wb.StyleID(Style{Font: &Font{Italic: true}})
	assert.NotEqual(t, a, b)
}

func TestStyleIntern_CallerMutationDoesNotLeak(t *testing.T) {
	wb := NewWorkbook()
	font := &Font{Bold: true}
	id := wb.StyleID(Style{Font: font})

	font.Bold = false
	stored, err := wb.StyleByID(id)
	require.NoError(t, err)
	require.NotNil(t, stored.Font)
	assert.True(t, stored.Font.Bold)
}

func TestStyleIntern_DoesNotNormalizeCallerRecords(t *testing.T) {
	wb := NewWorkbook()
	fill := &Fill{Pattern: "solid", FgColor: "#ff0000", Gradient: []GradientStop{{Position: 0, Color: "f00"}}}
	id := wb.StyleID(Style{Fill: fill})

	assert.Equal(t, "#ff0000", fill.FgColor)
	assert.Equal(t, "f00", fill.Gradient[0].Color)

	fill.Gradient[0].Color = "00FF00"
	stored, err := wb.StyleByID(id)
	require.NoError(t, err)
	require.NotNil(t, stored.Fill)
	assert.Equal(t, "FFFF0000", stored.Fill.FgColor)
	assert.Equal(t, "FFFF0000", stored.Fill.Gradient[0].Color)
}

func TestStyleByID_Default(t *testing.T) {
	wb := NewWorkbook()
	st, err := wb.StyleByID(0)
	require.NoError(t, err)
	assert.Nil(t, st.Font)
}

func TestStyleByID_Unknown(t *testing.T) {
	wb := NewWorkbook()
	_, err := wb.StyleByID(999)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNormalizeARGB(t *testing.T) {
	cases := map[string]string{
		"FF0000":    "FFFF0000",
		"#ff0000":   "FFFF0000",
		"f00":       "FFFF0000",
		"80FF0000":  "80FF0000",
		"#80ff0000": "80FF0000",
		"":          "",
		"zzz":       "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeARGB(in), in)
	}
}

func TestSetNumFmtCode_RoundTrips(t *testing.T) {
	wb := NewWorkbook()
	id, err := wb.SetNumFmtCode("0.000%")
	require.NoError(t, err)
	assert.NotEqual(t, 0, id)

	st, err := wb.StyleByID(id)
	require.NoError(t, err)
	assert.Equal(t, "0.000%", st.NumFmtCode)

	again, err := wb.SetNumFmtCode("0.000%")
	require.NoError(t, err)
	assert.Equal(t, id, again)
}

func TestSetNumFmtCode_InvalidRejected(t *testing.T) {
	wb := NewWorkbook()
	_, err := wb.SetNumFmtCode("")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestIsDateFormat_BuiltIns(t *testing.T) {
	assert.True(t, isDateFormat(14, "")) // m/d/yyyy
	assert.True(t, isDateFormat(22, "")) // m/d/yyyy h:mm
	assert.False(t, isDateFormat(0, "")) // general
	assert.False(t, isDateFormat(2, "")) // 0.00
}

func TestIsDateFormat_CustomCodes(t *testing.T) {
	assert.True(t, isDateFormat(164, "yyyy-mm-dd"))
	assert.True(t, isDateFormat(164, "[h]:mm:ss"))
	assert.False(t, isDateFormat(164, "0.00%"))
	assert.False(t, isDateFormat(164, `"Total: "0.00`))
}
