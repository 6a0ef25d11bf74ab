package oxcel

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// CSVOptions control single-sheet CSV export.
type CSVOptions struct {
	delimiter rune
	encoding  string
	quoteAll  bool
	trimEmpty bool
}

// CSVOption adjusts CSV export behavior.
type CSVOption func(*CSVOptions)

// WithCSVDelimiter sets the field separator, comma by default.
func WithCSVDelimiter(d rune) CSVOption {
	return func(o *CSVOptions) { o.delimiter = d }
}

// WithCSVEncoding selects the output byte encoding. Supported names are
// utf-8 (default), shift-jis, gbk, koi8-r, koi8-u, iso-8859-8 and
// iso-8859-8-i.
func WithCSVEncoding(name string) CSVOption {
	return func(o *CSVOptions) { o.encoding = name }
}

// WithCSVQuoteAll quotes every field rather than only the ones that need it.
func WithCSVQuoteAll() CSVOption {
	return func(o *CSVOptions) { o.quoteAll = true }
}

// WithCSVTrimTrailingEmpty drops empty cells at the end of each record.
func WithCSVTrimTrailingEmpty() CSVOption {
	return func(o *CSVOptions) { o.trimEmpty = true }
}

func csvEncoder(name string) (encoding.Encoding, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "shift-jis", "shift_jis", "sjis":
		return japanese.ShiftJIS, nil
	case "gbk":
		return simplifiedchinese.GBK, nil
	case "koi8-r":
		return charmap.KOI8R, nil
	case "koi8-u":
		return charmap.KOI8U, nil
	case "iso-8859-8":
		return charmap.ISO8859_8, nil
	case "iso-8859-8-i":
		return charmap.ISO8859_8I, nil
	default:
		return nil, fmt.Errorf("%w: unsupported CSV encoding %q", ErrInvalidArgument, name)
	}
}

// WriteCSV renders the sheet's used range as delimiter-separated text.
// Cells outside the used range produce nothing; gaps inside it produce
// empty fields.
func (s *Sheet) WriteCSV(w io.Writer, opts ...CSVOption) error {
	o := &CSVOptions{delimiter: ','}
	for _, opt := range opts {
		opt(o)
	}
	enc, err := csvEncoder(o.encoding)
	if err != nil {
		return err
	}
	out := w
	if enc != nil {
		tw := transform.NewWriter(w, enc.NewEncoder())
		defer tw.Close()
		out = tw
	}

	used, ok := s.UsedRange()
	if !ok {
		return nil
	}
	var line strings.Builder
	for row := used.Start.Row; row <= used.End.Row; row++ {
		line.Reset()
		fields := make([]string, 0, used.Width())
		for col := used.Start.Col; col <= used.End.Col; col++ {
			fields = append(fields, s.csvField(CellRef{Col: col, Row: row}))
		}
		if o.trimEmpty {
			for len(fields) > 0 && fields[len(fields)-1] == "" {
				fields = fields[:len(fields)-1]
			}
		}
		for i, field := range fields {
			if i > 0 {
				line.WriteRune(o.delimiter)
			}
			line.WriteString(csvQuote(field, o.delimiter, o.quoteAll))
		}
		line.WriteString("\r\n")
		if _, err := io.WriteString(out, line.String()); err != nil {
			return fmt.Errorf("%w: %v", ErrIO, err)
		}
	}
	return nil
}

// csvField renders one cell the way it would display, with dates formatted
// as timestamps rather than raw serials.
func (s *Sheet) csvField(ref CellRef) string {
	c := s.cells[ref]
	if c == nil {
		return ""
	}
	switch c.Type {
	case CellString:
		return c.Str
	case CellNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case CellBool:
		if c.Bool {
			return "TRUE"
		}
		return "FALSE"
	case CellDate:
		t := c.Time
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
			return t.Format("2006-01-02")
		}
		return t.Format("2006-01-02 15:04:05")
	case CellError:
		return c.Err
	}
	return ""
}

func csvQuote(field string, delimiter rune, quoteAll bool) string {
	needs := quoteAll ||
		strings.ContainsRune(field, delimiter) ||
		strings.ContainsAny(field, "\"\r\n")
	if !needs {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
