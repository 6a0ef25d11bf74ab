package oxcel

import (
	"fmt"
	"sort"
	"time"
)

// RowInfo holds per-row overrides. Rows without an entry use sheet defaults.
type RowInfo struct {
	Height       float64
	CustomHeight bool
	Hidden       bool
}

// ColInfo holds overrides for a contiguous 1-based column range.
type ColInfo struct {
	Min         int
	Max         int
	Width       float64
	CustomWidth bool
	AutoWidth   bool
	Hidden      bool
}

// ViewType selects how Excel displays the sheet.
type ViewType string

const (
	ViewNormal           ViewType = "normal"
	ViewPageLayout       ViewType = "pageLayout"
	ViewPageBreakPreview ViewType = "pageBreakPreview"
)

// PaneState describes frozen or split panes.
type PaneState struct {
	XSplit      int    // columns left of the pane, or twips of split
	YSplit      int    // rows above the pane, or twips of split
	TopLeftCell string // first visible cell of the bottom-right pane
	Frozen      bool   // frozen vs. split
}

// SheetView is the per-sheet display state.
type SheetView struct {
	ShowGridlines bool
	ZoomScale     int // percent; 0 means default (100)
	TabColor      string
	Type          ViewType
	Pane          *PaneState
	Selection     string // active cell or selected range
}

// SheetProtection locks sheet features behind an optional password hash.
type SheetProtection struct {
	Hash              PasswordHash
	SelectLockedCells bool
	SelectUnlocked    bool
	FormatCells       bool
	FormatColumns     bool
	FormatRows        bool
	InsertColumns     bool
	InsertRows        bool
	InsertHyperlinks  bool
	DeleteColumns     bool
	DeleteRows        bool
	Sort              bool
	AutoFilter        bool
	PivotTables       bool
	Objects           bool
	Scenarios         bool
}

// PrintSettings collects everything the page-setup and header-footer parts
// carry.
type PrintSettings struct {
	Orientation    string // "portrait" or "landscape"
	PaperSize      int    // ECMA-376 paper size code, 0 = unset
	Scale          int    // percent, 0 = unset
	FitToWidth     int
	FitToHeight    int
	MarginLeft     float64
	MarginRight    float64
	MarginTop      float64
	MarginBottom   float64
	MarginHeader   float64
	MarginFooter   float64
	Header         string
	Footer         string
	PrintArea      string // A1 range, empty = whole used range
	RepeatRows     string // e.g. "1:2"
	RepeatCols     string // e.g. "A:B"
	GridlinesPrint bool
	BlackAndWhite  bool
}

// Sheet is one worksheet: a sparse cell grid plus every structure anchored
// to it. All mutation assumes exclusive access; the engine does no locking.
type Sheet struct {
	wb   *Workbook
	name string

	cells     map[CellRef]*Cell
	rowInfo   map[int]*RowInfo
	colInfo   []*ColInfo
	merges    []Range
	rowBreaks map[int]bool
	colBreaks map[int]bool

	View       SheetView
	autoFilter *Range
	protection *SheetProtection
	Print      PrintSettings

	condFmts    []*CondFormat
	validations []*DataValidation
	tables      []*Table
	pivots      []*PivotTable
	drawings    []*DrawingObject
	oleObjects  []*OleObject
}

func newSheet(wb *Workbook, name string) *Sheet {
	return &Sheet{
		wb:        wb,
		name:      name,
		cells:     map[CellRef]*Cell{},
		rowInfo:   map[int]*RowInfo{},
		rowBreaks: map[int]bool{},
		colBreaks: map[int]bool{},
		View:      SheetView{ShowGridlines: true, Type: ViewNormal},
	}
}

// Name returns the sheet name.
func (s *Sheet) Name() string { return s.name }

// Workbook returns the owning workbook.
func (s *Sheet) Workbook() *Workbook { return s.wb }

// cellAt returns the cell at ref, creating it on first write.
func (s *Sheet) cellAt(ref CellRef) *Cell {
	if c, ok := s.cells[ref]; ok {
		return c
	}
	c := &Cell{}
	s.cells[ref] = c
	return c
}

// Cell returns the cell at the given A1 address, or ErrNotFound when the
// coordinate has never been written. An empty-but-styled cell is found.
func (s *Sheet) Cell(addr string) (*Cell, error) {
	ref, err := ParseCellRef(addr)
	if err != nil {
		return nil, err
	}
	c, ok := s.cells[ref]
	if !ok {
		return nil, fmt.Errorf("%w: cell %s on sheet %q", ErrNotFound, ref, s.name)
	}
	return c, nil
}

// CellValue returns the value at addr, or nil for a never-written or empty
// cell. Use Cell to distinguish absent from legitimately empty.
func (s *Sheet) CellValue(addr string) (any, error) {
	ref, err := ParseCellRef(addr)
	if err != nil {
		return nil, err
	}
	return s.cells[ref].Value(), nil
}

// SetCellValue writes a value, choosing the cell type from the Go type.
// Supported: nil (empty), string, all int/uint/float variants, bool,
// time.Time, []RichTextRun.
func (s *Sheet) SetCellValue(addr string, value any) error {
	ref, err := ParseCellRef(addr)
	if err != nil {
		return err
	}
	c := s.cellAt(ref)
	switch v := value.(type) {
	case nil:
		c.Type = CellEmpty
		c.Str, c.Rich, c.Num, c.Err = "", nil, 0, ""
	case string:
		c.Type = CellString
		c.Str, c.Rich = v, nil
	case []RichTextRun:
		c.Type = CellString
		c.Rich = v
		c.Str = plainText(v)
	case bool:
		c.Type = CellBool
		c.Bool = v
	case time.Time:
		c.Type = CellDate
		c.Time = v
	case int:
		c.Type, c.Num = CellNumber, float64(v)
	case int8:
		c.Type, c.Num = CellNumber, float64(v)
	case int16:
		c.Type, c.Num = CellNumber, float64(v)
	case int32:
		c.Type, c.Num = CellNumber, float64(v)
	case int64:
		c.Type, c.Num = CellNumber, float64(v)
	case uint:
		c.Type, c.Num = CellNumber, float64(v)
	case uint8:
		c.Type, c.Num = CellNumber, float64(v)
	case uint16:
		c.Type, c.Num = CellNumber, float64(v)
	case uint32:
		c.Type, c.Num = CellNumber, float64(v)
	case uint64:
		c.Type, c.Num = CellNumber, float64(v)
	case float32:
		c.Type, c.Num = CellNumber, float64(v)
	case float64:
		c.Type, c.Num = CellNumber, v
	default:
		return fmt.Errorf("%w: unsupported cell value type %T", ErrInvalidArgument, value)
	}
	return nil
}

// SetCellError writes an error-code value such as "#DIV/0!".
func (s *Sheet) SetCellError(addr, code string) error {
	ref, err := ParseCellRef(addr)
	if err != nil {
		return err
	}
	c := s.cellAt(ref)
	c.Type = CellError
	c.Err = code
	return nil
}

// SetCellFormula attaches a normal formula. Shared, array and data-table
// formulas use SetSharedFormula, SetArrayFormula and SetDataTableFormula.
func (s *Sheet) SetCellFormula(addr, formula string) error {
	ref, err := ParseCellRef(addr)
	if err != nil {
		return err
	}
	s.cellAt(ref).Formula = &Formula{Text: formula, Kind: FormulaNormal}
	return nil
}

// SetSharedFormula stores formula once on the range's top-left master cell
// and marks every other cell of the range as a member of the shared group.
func (s *Sheet) SetSharedFormula(rangeRef, formula string) error {
	r, err := ParseRange(rangeRef)
	if err != nil {
		return err
	}
	group := s.nextSharedIndex()
	master := s.cellAt(r.Start)
	master.Formula = &Formula{Text: formula, Kind: FormulaShared, SharedIndex: group, Ref: r}
	r.Cells(func(ref CellRef) bool {
		if ref == r.Start {
			return true
		}
		s.cellAt(ref).Formula = &Formula{Kind: FormulaShared, SharedIndex: group}
		return true
	})
	return nil
}

// SetArrayFormula stores an array formula spanning the given range. The
// formula lives on the range's top-left cell.
func (s *Sheet) SetArrayFormula(rangeRef, formula string) error {
	r, err := ParseRange(rangeRef)
	if err != nil {
		return err
	}
	s.cellAt(r.Start).Formula = &Formula{Text: formula, Kind: FormulaArray, Ref: r}
	return nil
}

// SetDataTableFormula stores a what-if data-table formula over the range.
func (s *Sheet) SetDataTableFormula(rangeRef string, f Formula) error {
	r, err := ParseRange(rangeRef)
	if err != nil {
		return err
	}
	f.Kind = FormulaDataTable
	f.Ref = r
	s.cellAt(r.Start).Formula = &f
	return nil
}

// nextSharedIndex allocates the next unused shared-formula group number.
func (s *Sheet) nextSharedIndex() int {
	next := 0
	for _, c := range s.cells {
		if c.Formula != nil && c.Formula.Kind == FormulaShared && c.Formula.SharedIndex >= next {
			next = c.Formula.SharedIndex + 1
		}
	}
	return next
}

// SetCellStyle assigns an interned style to every cell of the range,
// creating cells as needed.
func (s *Sheet) SetCellStyle(rangeRef string, styleID int) error {
	r, err := ParseRange(rangeRef)
	if err != nil {
		return err
	}
	if _, ok := s.wb.styles.resolve(styleID); !ok {
		return fmt.Errorf("%w: style index %d", ErrInvalidArgument, styleID)
	}
	r.Cells(func(ref CellRef) bool {
		s.cellAt(ref).StyleID = styleID
		return true
	})
	return nil
}

// CellStyle returns the style index of the cell at addr (0 for a
// never-written cell).
func (s *Sheet) CellStyle(addr string) (int, error) {
	ref, err := ParseCellRef(addr)
	if err != nil {
		return 0, err
	}
	if c, ok := s.cells[ref]; ok {
		return c.StyleID, nil
	}
	return 0, nil
}

// SetHyperlink attaches a hyperlink to the cell at addr.
func (s *Sheet) SetHyperlink(addr string, link Hyperlink) error {
	ref, err := ParseCellRef(addr)
	if err != nil {
		return err
	}
	if link.Target == "" {
		return fmt.Errorf("%w: empty hyperlink target", ErrInvalidArgument)
	}
	s.cellAt(ref).Hyperlink = &link
	return nil
}

// SetComment attaches a comment to the cell at addr.
func (s *Sheet) SetComment(addr string, comment Comment) error {
	ref, err := ParseCellRef(addr)
	if err != nil {
		return err
	}
	s.cellAt(ref).Comment = &comment
	return nil
}

// Comments returns the sheet's comment map keyed by A1 address.
func (s *Sheet) Comments() map[string]Comment {
	out := map[string]Comment{}
	for ref, c := range s.cells {
		if c.Comment != nil {
			out[ref.Name()] = *c.Comment
		}
	}
	return out
}

// ClearCellContent removes the cell's value, formula, hyperlink and comment
// but keeps its formatting in place.
func (s *Sheet) ClearCellContent(addr string) error {
	ref, err := ParseCellRef(addr)
	if err != nil {
		return err
	}
	c, ok := s.cells[ref]
	if !ok {
		return nil
	}
	styleID := c.StyleID
	if styleID == 0 {
		delete(s.cells, ref)
		return nil
	}
	s.cells[ref] = &Cell{StyleID: styleID}
	return nil
}

// RemoveCell deletes the cell entirely, formatting included.
func (s *Sheet) RemoveCell(addr string) error {
	ref, err := ParseCellRef(addr)
	if err != nil {
		return err
	}
	delete(s.cells, ref)
	return nil
}

// UsedRange returns the smallest rectangle covering every written cell, and
// false when the sheet is empty.
func (s *Sheet) UsedRange() (Range, bool) {
	first := true
	var r Range
	for ref := range s.cells {
		if first {
			r = Range{Start: ref, End: ref}
			first = false
			continue
		}
		if ref.Col < r.Start.Col {
			r.Start.Col = ref.Col
		}
		if ref.Col > r.End.Col {
			r.End.Col = ref.Col
		}
		if ref.Row < r.Start.Row {
			r.Start.Row = ref.Row
		}
		if ref.Row > r.End.Row {
			r.End.Row = ref.Row
		}
	}
	return r, !first
}

// CellCount returns the number of written cells.
func (s *Sheet) CellCount() int { return len(s.cells) }

// MergeCells merges the given rectangle. Merging a range that intersects an
// existing merge fails with ErrInvalidArgument and changes nothing.
func (s *Sheet) MergeCells(rangeRef string) error {
	r, err := ParseRange(rangeRef)
	if err != nil {
		return err
	}
	if r.Start == r.End {
		return fmt.Errorf("%w: merge range %s covers a single cell", ErrInvalidArgument, r)
	}
	for _, m := range s.merges {
		if m.Intersects(r) {
			return fmt.Errorf("%w: merge %s overlaps existing merge %s", ErrInvalidArgument, r, m)
		}
	}
	s.merges = append(s.merges, r)
	return nil
}

// UnmergeCells removes the merge exactly matching the given range.
func (s *Sheet) UnmergeCells(rangeRef string) error {
	r, err := ParseRange(rangeRef)
	if err != nil {
		return err
	}
	for i, m := range s.merges {
		if m == r {
			s.merges = append(s.merges[:i], s.merges[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: merge %s on sheet %q", ErrNotFound, r, s.name)
}

// Merges returns the sheet's merge ranges in insertion order.
func (s *Sheet) Merges() []Range {
	out := make([]Range, len(s.merges))
	copy(out, s.merges)
	return out
}

// SetRowHeight sets an explicit height for a 1-based row.
func (s *Sheet) SetRowHeight(row int, height float64) error {
	if row < 1 || row > maxRows {
		return fmt.Errorf("%w: row %d", ErrInvalidArgument, row)
	}
	if height < 0 {
		return fmt.Errorf("%w: negative row height", ErrInvalidArgument)
	}
	info := s.rowInfoAt(row)
	info.Height = height
	info.CustomHeight = true
	return nil
}

// SetRowHidden hides or shows a row.
func (s *Sheet) SetRowHidden(row int, hidden bool) error {
	if row < 1 || row > maxRows {
		return fmt.Errorf("%w: row %d", ErrInvalidArgument, row)
	}
	s.rowInfoAt(row).Hidden = hidden
	return nil
}

// RowInfo returns the row override, or nil when the row uses defaults.
func (s *Sheet) RowInfo(row int) *RowInfo { return s.rowInfo[row] }

func (s *Sheet) rowInfoAt(row int) *RowInfo {
	if info, ok := s.rowInfo[row]; ok {
		return info
	}
	info := &RowInfo{}
	s.rowInfo[row] = info
	return info
}

// SetColWidth sets the width of columns spanning firstCol..lastCol, given as
// column letters ("A", "C").
func (s *Sheet) SetColWidth(firstCol, lastCol string, width float64) error {
	min, max, err := colSpan(firstCol, lastCol)
	if err != nil {
		return err
	}
	if width < 0 {
		return fmt.Errorf("%w: negative column width", ErrInvalidArgument)
	}
	info := s.colInfoSpan(min, max)
	info.Width = width
	info.CustomWidth = true
	info.AutoWidth = false
	return nil
}

// SetColAutoWidth flags columns for best-fit sizing.
func (s *Sheet) SetColAutoWidth(firstCol, lastCol string) error {
	min, max, err := colSpan(firstCol, lastCol)
	if err != nil {
		return err
	}
	info := s.colInfoSpan(min, max)
	info.AutoWidth = true
	info.CustomWidth = false
	return nil
}

// SetColHidden hides or shows columns.
func (s *Sheet) SetColHidden(firstCol, lastCol string, hidden bool) error {
	min, max, err := colSpan(firstCol, lastCol)
	if err != nil {
		return err
	}
	s.colInfoSpan(min, max).Hidden = hidden
	return nil
}

// ColInfoFor returns the override covering the given column letter, or nil.
func (s *Sheet) ColInfoFor(col string) (*ColInfo, error) {
	n, err := ColNameToNumber(col)
	if err != nil {
		return nil, err
	}
	for _, info := range s.colInfo {
		if n >= info.Min && n <= info.Max {
			return info, nil
		}
	}
	return nil, nil
}

func colSpan(firstCol, lastCol string) (int, int, error) {
	min, err := ColNameToNumber(firstCol)
	if err != nil {
		return 0, 0, err
	}
	max, err := ColNameToNumber(lastCol)
	if err != nil {
		return 0, 0, err
	}
	if max < min {
		min, max = max, min
	}
	return min, max, nil
}

// colInfoSpan returns the override record exactly covering min..max,
// creating one when absent. Overlapping spans are split so each span keeps
// independent settings.
func (s *Sheet) colInfoSpan(min, max int) *ColInfo {
	for _, info := range s.colInfo {
		if info.Min == min && info.Max == max {
			return info
		}
	}
	info := &ColInfo{Min: min, Max: max}
	s.colInfo = append(s.colInfo, info)
	sort.Slice(s.colInfo, func(i, j int) bool { return s.colInfo[i].Min < s.colInfo[j].Min })
	return info
}

// AddPageBreak inserts a manual page break before the given 1-based row or
// column.
func (s *Sheet) AddPageBreak(axis Axis, at int) error {
	if at < 2 {
		return fmt.Errorf("%w: page break position %d", ErrInvalidArgument, at)
	}
	if axis == AxisRow {
		s.rowBreaks[at] = true
	} else {
		s.colBreaks[at] = true
	}
	return nil
}

// RemovePageBreak deletes a manual break.
func (s *Sheet) RemovePageBreak(axis Axis, at int) error {
	m := s.rowBreaks
	if axis == AxisCol {
		m = s.colBreaks
	}
	if !m[at] {
		return fmt.Errorf("%w: page break at %d", ErrNotFound, at)
	}
	delete(m, at)
	return nil
}

// PageBreaks returns the sorted break positions for the axis.
func (s *Sheet) PageBreaks(axis Axis) []int {
	m := s.rowBreaks
	if axis == AxisCol {
		m = s.colBreaks
	}
	out := make([]int, 0, len(m))
	for at := range m {
		out = append(out, at)
	}
	sort.Ints(out)
	return out
}

// SetAutoFilter places an auto-filter over the range. An empty rangeRef
// removes it.
func (s *Sheet) SetAutoFilter(rangeRef string) error {
	if rangeRef == "" {
		s.autoFilter = nil
		return nil
	}
	r, err := ParseRange(rangeRef)
	if err != nil {
		return err
	}
	s.autoFilter = &r
	return nil
}

// AutoFilter returns the auto-filter range and whether one is set.
func (s *Sheet) AutoFilter() (Range, bool) {
	if s.autoFilter == nil {
		return Range{}, false
	}
	return *s.autoFilter, true
}

// Protect locks the sheet. An empty password stores protection without a
// hash. The zero SheetProtection locks everything Excel locks by default.
func (s *Sheet) Protect(password string, p SheetProtection) {
	if password != "" {
		p.Hash = hashPassword(password)
	}
	s.protection = &p
}

// Unprotect removes sheet protection.
func (s *Sheet) Unprotect() { s.protection = nil }

// Protection returns the protection record and whether the sheet is
// protected.
func (s *Sheet) Protection() (SheetProtection, bool) {
	if s.protection == nil {
		return SheetProtection{}, false
	}
	return *s.protection, true
}

// plainText flattens rich runs to their concatenated text.
func plainText(runs []RichTextRun) string {
	out := ""
	for _, r := range runs {
		out += r.Text
	}
	return out
}
