package oxcel

import (
	"fmt"
	"strings"
)

// Axis selects the direction of a structural shift.
type Axis int

const (
	AxisRow Axis = iota
	AxisCol
)

// CellRef is a single cell coordinate. Both Col and Row are 1-based, so "A1"
// is {Col: 1, Row: 1}.
type CellRef struct {
	Col int
	Row int
}

// NewCellRef creates a CellRef from 1-based column and row numbers.
func NewCellRef(col, row int) CellRef {
	return CellRef{Col: col, Row: row}
}

// ParseCellRef parses an A1-notation cell address like "B5" or "$AA$10".
// Absolute markers are accepted and discarded.
func ParseCellRef(s string) (CellRef, error) {
	name := strings.ReplaceAll(strings.TrimSpace(s), "$", "")
	if name == "" {
		return CellRef{}, fmt.Errorf("%w: empty cell address", ErrInvalidArgument)
	}

	i := 0
	for i < len(name) && isColLetter(name[i]) {
		i++
	}
	if i == 0 || i == len(name) {
		return CellRef{}, fmt.Errorf("%w: malformed cell address %q", ErrInvalidArgument, s)
	}

	col, err := ColNameToNumber(name[:i])
	if err != nil {
		return CellRef{}, err
	}

	row := 0
	for _, ch := range name[i:] {
		if ch < '0' || ch > '9' {
			return CellRef{}, fmt.Errorf("%w: malformed cell address %q", ErrInvalidArgument, s)
		}
		row = row*10 + int(ch-'0')
		if row > maxRows {
			return CellRef{}, fmt.Errorf("%w: row out of range in %q", ErrInvalidArgument, s)
		}
	}
	if row < 1 {
		return CellRef{}, fmt.Errorf("%w: row must be positive in %q", ErrInvalidArgument, s)
	}

	return CellRef{Col: col, Row: row}, nil
}

// Name renders the coordinate in A1 notation.
func (c CellRef) Name() string {
	return ColNumberToName(c.Col) + itoa(c.Row)
}

// String implements fmt.Stringer.
func (c CellRef) String() string { return c.Name() }

// Valid reports whether the coordinate lies inside the sheet limits.
func (c CellRef) Valid() bool {
	return c.Col >= 1 && c.Col <= maxCols && c.Row >= 1 && c.Row <= maxRows
}

// Sheet limits, per ECMA-376.
const (
	maxCols = 16384   // column XFD
	maxRows = 1048576 // row 2^20
)

// ColNameToNumber converts a column name to its 1-based number:
// "A" → 1, "Z" → 26, "AA" → 27.
func ColNameToNumber(name string) (int, error) {
	if name == "" {
		return 0, fmt.Errorf("%w: empty column name", ErrInvalidArgument)
	}
	n := 0
	for i := 0; i < len(name); i++ {
		b := name[i]
		if b >= 'a' && b <= 'z' {
			b -= 'a' - 'A'
		}
		if b < 'A' || b > 'Z' {
			return 0, fmt.Errorf("%w: malformed column name %q", ErrInvalidArgument, name)
		}
		n = n*26 + int(b-'A'+1)
		if n > maxCols {
			return 0, fmt.Errorf("%w: column %q out of range", ErrInvalidArgument, name)
		}
	}
	return n, nil
}

// ColNumberToName converts a 1-based column number to its name:
// 1 → "A", 26 → "Z", 27 → "AA". Returns "" for non-positive input.
func ColNumberToName(n int) string {
	if n < 1 {
		return ""
	}
	var buf [3]byte
	i := len(buf)
	for n > 0 {
		n--
		i--
		buf[i] = byte('A' + n%26)
		n /= 26
	}
	return string(buf[i:])
}

func isColLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// itoa avoids pulling strconv into the hot cell-name path.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [11]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// Range is a rectangular cell region. Start is the top-left corner and End
// the bottom-right, both inclusive.
type Range struct {
	Start CellRef
	End   CellRef
}

// NewRange builds a Range from two corners, normalizing their order.
func NewRange(a, b CellRef) Range {
	if a.Col > b.Col {
		a.Col, b.Col = b.Col, a.Col
	}
	if a.Row > b.Row {
		a.Row, b.Row = b.Row, a.Row
	}
	return Range{Start: a, End: b}
}

// ParseRange parses "A1:C4" or a single-cell range "B2".
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, ':'); idx >= 0 {
		start, err := ParseCellRef(s[:idx])
		if err != nil {
			return Range{}, fmt.Errorf("range %q: %w", s, err)
		}
		end, err := ParseCellRef(s[idx+1:])
		if err != nil {
			return Range{}, fmt.Errorf("range %q: %w", s, err)
		}
		return NewRange(start, end), nil
	}
	cell, err := ParseCellRef(s)
	if err != nil {
		return Range{}, err
	}
	return Range{Start: cell, End: cell}, nil
}

// Name renders the range in A1 notation. Single-cell ranges render without
// the colon.
func (r Range) Name() string {
	if r.Start == r.End {
		return r.Start.Name()
	}
	return r.Start.Name() + ":" + r.End.Name()
}

// String implements fmt.Stringer.
func (r Range) String() string { return r.Name() }

// Width returns the number of columns covered.
func (r Range) Width() int { return r.End.Col - r.Start.Col + 1 }

// Height returns the number of rows covered.
func (r Range) Height() int { return r.End.Row - r.Start.Row + 1 }

// Contains reports whether the cell lies inside the range.
func (r Range) Contains(c CellRef) bool {
	return c.Col >= r.Start.Col && c.Col <= r.End.Col &&
		c.Row >= r.Start.Row && c.Row <= r.End.Row
}

// Intersects reports whether the two rectangles share at least one cell.
func (r Range) Intersects(o Range) bool {
	return r.Start.Col <= o.End.Col && o.Start.Col <= r.End.Col &&
		r.Start.Row <= o.End.Row && o.Start.Row <= r.End.Row
}

// Cells visits every coordinate in the range in row-major order, stopping
// early when yield returns false. The sequence is finite and restartable and
// never materializes cells.
func (r Range) Cells(yield func(CellRef) bool) {
	for row := r.Start.Row; row <= r.End.Row; row++ {
		for col := r.Start.Col; col <= r.End.Col; col++ {
			if !yield(CellRef{Col: col, Row: row}) {
				return
			}
		}
	}
}

// Shift moves the range for an insertion (n > 0) or removal (n < 0) of |n|
// rows or columns at 1-based boundary at. The second return value is false
// when a removal swallowed the range entirely.
//
// This is the one shift primitive shared by every range-bearing structure:
// merges, page breaks, print areas, auto filters, defined names, table
// ranges, pivot sources, validation and formatting targets.
func (r Range) Shift(axis Axis, at, n int) (Range, bool) {
	start, end := r.Start, r.End
	lo, hi := &start.Row, &end.Row
	if axis == AxisCol {
		lo, hi = &start.Col, &end.Col
	}

	if n >= 0 {
		if *lo >= at {
			*lo += n
		}
		if *hi >= at {
			*hi += n
		}
		return Range{Start: start, End: end}, true
	}

	removed := -n
	if *lo >= at && *hi < at+removed {
		// the whole range sat inside the removed band
		return Range{}, false
	}
	switch {
	case *lo >= at+removed:
		*lo -= removed
	case *lo >= at:
		*lo = at // start edge was removed, range now begins at the boundary
	}
	switch {
	case *hi >= at+removed:
		*hi -= removed
	case *hi >= at:
		*hi = at - 1 // end edge was removed
	}
	return Range{Start: start, End: end}, true
}

// shiftCell moves a single coordinate the same way Shift moves a range end.
// The boolean is false when a removal deleted the coordinate.
func shiftCell(c CellRef, axis Axis, at, n int) (CellRef, bool) {
	v := c.Row
	if axis == AxisCol {
		v = c.Col
	}
	if n >= 0 {
		if v >= at {
			v += n
		}
	} else {
		removed := -n
		switch {
		case v < at:
		case v >= at+removed:
			v -= removed
		default:
			return CellRef{}, false
		}
	}
	if axis == AxisCol {
		c.Col = v
	} else {
		c.Row = v
	}
	return c, true
}
