package oxcel

import (
	"fmt"
	"time"
)

// CellType identifies which value variant a cell holds.
type CellType int

const (
	CellEmpty CellType = iota
	CellString
	CellNumber
	CellBool
	CellDate
	CellError
)

// String returns a human-readable name for the cell type.
func (t CellType) String() string {
	switch t {
	case CellEmpty:
		return "Empty"
	case CellString:
		return "String"
	case CellNumber:
		return "Number"
	case CellBool:
		return "Bool"
	case CellDate:
		return "Date"
	case CellError:
		return "Error"
	}
	return fmt.Sprintf("CellType(%d)", int(t))
}

// FormulaKind identifies how a formula is stored in the package.
type FormulaKind int

const (
	FormulaNormal FormulaKind = iota
	FormulaShared
	FormulaArray
	FormulaDataTable
)

// Formula holds a stored formula. The engine never evaluates it; Excel
// recalculates on open.
type Formula struct {
	Text string
	Kind FormulaKind

	// SharedIndex is the shared-formula group number. Meaningful only for
	// FormulaShared cells; the master cell of the group carries both the
	// literal Text and the Ref the group spans.
	SharedIndex int

	// Ref is the reference range for shared, array and data-table formulas.
	// The zero value means no range is attached.
	Ref Range

	// Data-table bookkeeping.
	TwoDimensional  bool
	RowInputDeleted bool
	ColInputDeleted bool
	RowInputRef     string
	ColInputRef     string
}

// RichTextRun is one formatted run of an in-cell rich string.
type RichTextRun struct {
	Text string
	Font *Font // nil inherits the cell font
}

// Hyperlink attached to a cell. Internal links target "Sheet1!A1"-style
// locations inside the workbook instead of an external URL.
type Hyperlink struct {
	Target   string
	Tooltip  string
	Internal bool
}

// Comment attached to a cell.
type Comment struct {
	Text   string
	Author string
}

// Cell is the content of one grid coordinate. Cells are created on first
// write; an absent map entry is an empty, unstyled cell.
type Cell struct {
	Type CellType

	Str  string        // CellString value
	Rich []RichTextRun // non-nil for rich strings, Str holds the plain text
	Num  float64       // CellNumber value
	Bool bool          // CellBool value
	Time time.Time     // CellDate value
	Err  string        // CellError code, e.g. "#DIV/0!"

	Formula   *Formula
	StyleID   int // index into the workbook style registry, 0 = default
	Hyperlink *Hyperlink
	Comment   *Comment
}

// Value returns the cell's value as an any, matching its type: nil, string,
// float64, bool, time.Time or the error-code string.
func (c *Cell) Value() any {
	if c == nil {
		return nil
	}
	switch c.Type {
	case CellString:
		return c.Str
	case CellNumber:
		return c.Num
	case CellBool:
		return c.Bool
	case CellDate:
		return c.Time
	case CellError:
		return c.Err
	}
	return nil
}

// hasContent reports whether the cell carries anything besides formatting.
func (c *Cell) hasContent() bool {
	return c.Type != CellEmpty || c.Formula != nil || c.Hyperlink != nil || c.Comment != nil
}

// Excel serial date epoch (1900 date system, with the fictitious 1900-02-29
// handled by the +2 day offset below).
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// timeToSerial converts a time to an Excel serial number in the 1900 system.
func timeToSerial(t time.Time) float64 {
	d := t.Sub(excelEpoch)
	return d.Hours() / 24
}

// serialToTime converts an Excel serial number back to a time.
func serialToTime(serial float64) time.Time {
	ns := serial * 24 * float64(time.Hour)
	return excelEpoch.Add(time.Duration(ns)).Round(time.Millisecond)
}
