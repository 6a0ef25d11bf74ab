package oxcel

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

func csvSheet(t *testing.T) *Sheet {
	t.Helper()
	wb := NewWorkbook()
	s, err := wb.Sheet("Sheet1")
	require.NoError(t, err)
	return s
}

func TestWriteCSV_Basic(t *testing.T) {
	s := csvSheet(t)
	require.NoError(t, s.SetCellValue("A1", "name"))
	require.NoError(t, s.SetCellValue("B1", "count"))
	require.NoError(t, s.SetCellValue("A2", "widgets"))
	require.NoError(t, s.SetCellValue("B2", 12.5))
	require.NoError(t, s.SetCellValue("A3", true))
	require.NoError(t, s.SetCellError("B3", "#DIV/0!"))

	var buf bytes.Buffer
	require.NoError(t, s.WriteCSV(&buf))
	assert.Equal(t, "name,count\r\nwidgets,12.5\r\nTRUE,#DIV/0!\r\n", buf.String())
}

func TestWriteCSV_QuotingRules(t *testing.T) {
	s := csvSheet(t)
	require.NoError(t, s.SetCellValue("A1", "a,b"))
	require.NoError(t, s.SetCellValue("B1", `say "hi"`))
	require.NoError(t, s.SetCellValue("C1", "two\nlines"))
	require.NoError(t, s.SetCellValue("D1", "plain"))

	var buf bytes.Buffer
	require.NoError(t, s.WriteCSV(&buf))
	assert.Equal(t, "\"a,b\",\"say \"\"hi\"\"\",\"two\nlines\",plain\r\n", buf.String())
}

func TestWriteCSV_QuoteAll(t *testing.T) {
	s := csvSheet(t)
	require.NoError(t, s.SetCellValue("A1", "x"))
	require.NoError(t, s.SetCellValue("B1", 7))

	var buf bytes.Buffer
	require.NoError(t, s.WriteCSV(&buf, WithCSVQuoteAll()))
	assert.Equal(t, "\"x\",\"7\"\r\n", buf.String())
}

func TestWriteCSV_Delimiter(t *testing.T) {
	s := csvSheet(t)
	require.NoError(t, s.SetCellValue("A1", "a;b"))
	require.NoError(t, s.SetCellValue("B1", "c"))

	var buf bytes.Buffer
	require.NoError(t, s.WriteCSV(&buf, WithCSVDelimiter(';')))
	assert.Equal(t, "\"a;b\";c\r\n", buf.String())
}

func TestWriteCSV_GapsAndTrim(t *testing.T) {
	s := csvSheet(t)
	require.NoError(t, s.SetCellValue("A1", "a"))
	require.NoError(t, s.SetCellValue("C1", "c"))
	require.NoError(t, s.SetCellValue("A2", "only"))

	var buf bytes.Buffer
	require.NoError(t, s.WriteCSV(&buf))
	assert.Equal(t, "a,,c\r\nonly,,\r\n", buf.String())

	buf.Reset()
	require.NoError(t, s.WriteCSV(&buf, WithCSVTrimTrailingEmpty()))
	assert.Equal(t, "a,,c\r\nonly\r\n", buf.String())
}

func TestWriteCSV_Dates(t *testing.T) {
	s := csvSheet(t)
	require.NoError(t, s.SetCellValue("A1", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, s.SetCellValue("B1", time.Date(2024, 6, 1, 14, 30, 15, 0, time.UTC)))

	var buf bytes.Buffer
	require.NoError(t, s.WriteCSV(&buf))
	assert.Equal(t, "2024-06-01,2024-06-01 14:30:15\r\n", buf.String())
}

func TestWriteCSV_ShiftJIS(t *testing.T) {
	s := csvSheet(t)
	require.NoError(t, s.SetCellValue("A1", "テスト"))
	require.NoError(t, s.SetCellValue("B1", "data"))

	var buf bytes.Buffer
	require.NoError(t, s.WriteCSV(&buf, WithCSVEncoding("shift-jis")))

	raw := buf.Bytes()
	assert.NotContains(t, string(raw), "テスト")

	decoded, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), raw)
	require.NoError(t, err)
	assert.Equal(t, "テスト,data\r\n", string(decoded))
}

func TestWriteCSV_UnknownEncoding(t *testing.T) {
	s := csvSheet(t)
	require.NoError(t, s.SetCellValue("A1", "x"))
	err := s.WriteCSV(&bytes.Buffer{}, WithCSVEncoding("ebcdic"))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestWriteCSV_EmptySheet(t *testing.T) {
	s := csvSheet(t)
	var buf bytes.Buffer
	require.NoError(t, s.WriteCSV(&buf))
	assert.Zero(t, buf.Len())
}

func TestWriteCSV_FormulaCellUsesStoredValue(t *testing.T) {
	s := csvSheet(t)
	require.NoError(t, s.SetCellFormula("A1", "1+1"))
	require.NoError(t, s.SetCellValue("B1", "x"))

	var buf bytes.Buffer
	require.NoError(t, s.WriteCSV(&buf))
	assert.True(t, strings.HasPrefix(buf.String(), ","), "formula without cached value renders empty: %q", buf.String())
}
