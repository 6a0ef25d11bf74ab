package oxcel

import (
	"fmt"
	"strings"
)

// TotalsFunction is the aggregate shown in a table column's totals row.
type TotalsFunction string

const (
	TotalsSum       TotalsFunction = "sum"
	TotalsCount     TotalsFunction = "count"
	TotalsAverage   TotalsFunction = "average"
	TotalsMax       TotalsFunction = "max"
	TotalsMin       TotalsFunction = "min"
	TotalsProduct   TotalsFunction = "product"
	TotalsCountNums TotalsFunction = "countNums"
	TotalsStdDev    TotalsFunction = "stdDev"
	TotalsStdDevP   TotalsFunction = "stdDevP"
	TotalsVar       TotalsFunction = "var"
	TotalsVarP      TotalsFunction = "varP"
)

var validTotalsFunctions = map[TotalsFunction]bool{
	TotalsSum: true, TotalsCount: true, TotalsAverage: true, TotalsMax: true,
	TotalsMin: true, TotalsProduct: true, TotalsCountNums: true,
	TotalsStdDev: true, TotalsStdDevP: true, TotalsVar: true, TotalsVarP: true,
}

// TableColumn is one column of a table.
type TableColumn struct {
	Name           string
	TotalsFunction TotalsFunction // "" for no aggregate
	TotalsLabel    string         // literal shown instead of an aggregate
}

// TableStyle selects a named built-in table style plus its stripe options.
type TableStyle struct {
	Name              string // e.g. "TableStyleMedium2"
	ShowFirstColumn   bool
	ShowLastColumn    bool
	ShowRowStripes    bool
	ShowColumnStripes bool
}

// Table is a worksheet table. Names are unique across the workbook.
type Table struct {
	Name         string
	DisplayName  string
	Range        Range
	Columns      []TableColumn
	HasTotalsRow bool
	Style        *TableStyle
}

// AddTable places a table over startCell..endCell. The range must be a
// proper rectangle at least one header row plus one data row tall, the
// column list must match the range width, and totals functions must come
// from the fixed set.
func (s *Sheet) AddTable(name, startCell, endCell string, columns []TableColumn, totalsRow bool, style *TableStyle) error {
	if name == "" {
		return fmt.Errorf("%w: empty table name", ErrInvalidArgument)
	}
	start, err := ParseCellRef(startCell)
	if err != nil {
		return err
	}
	end, err := ParseCellRef(endCell)
	if err != nil {
		return err
	}
	if end.Col < start.Col || end.Row < start.Row {
		return fmt.Errorf("%w: table range %s:%s is not a rectangle", ErrInvalidArgument, startCell, endCell)
	}
	r := Range{Start: start, End: end}
	if r.Height() < 2 {
		return fmt.Errorf("%w: table range %s needs a header row and a data row", ErrInvalidArgument, r)
	}
	if len(columns) != r.Width() {
		return fmt.Errorf("%w: table %q has %d columns for a %d-column range", ErrInvalidArgument, name, len(columns), r.Width())
	}
	seen := map[string]bool{}
	for _, col := range columns {
		if col.Name == "" {
			return fmt.Errorf("%w: table %q has an unnamed column", ErrInvalidArgument, name)
		}
		lower := strings.ToLower(col.Name)
		if seen[lower] {
			return fmt.Errorf("%w: table %q repeats column %q", ErrInvalidArgument, name, col.Name)
		}
		seen[lower] = true
		if col.TotalsFunction != "" && !validTotalsFunctions[col.TotalsFunction] {
			return fmt.Errorf("%w: totals function %q", ErrInvalidArgument, col.TotalsFunction)
		}
	}
	if _, _, err := s.wb.findTable(name); err == nil {
		return fmt.Errorf("%w: duplicate table name %q", ErrInvalidArgument, name)
	}
	t := &Table{
		Name:         name,
		DisplayName:  name,
		Range:        r,
		Columns:      append([]TableColumn(nil), columns...),
		HasTotalsRow: totalsRow,
		Style:        style,
	}
	s.tables = append(s.tables, t)
	return nil
}

// Table returns the named table on this sheet.
func (s *Sheet) Table(name string) (Table, error) {
	for _, t := range s.tables {
		if strings.EqualFold(t.Name, name) {
			return *t, nil
		}
	}
	return Table{}, fmt.Errorf("%w: table %q on sheet %q", ErrNotFound, name, s.name)
}

// Tables returns the sheet's tables in insertion order.
func (s *Sheet) Tables() []Table {
	out := make([]Table, len(s.tables))
	for i, t := range s.tables {
		out[i] = *t
	}
	return out
}

// HasTables reports whether the sheet carries any table.
func (s *Sheet) HasTables() bool { return len(s.tables) > 0 }

// RemoveTable deletes the named table from this sheet.
func (s *Sheet) RemoveTable(name string) error {
	for i, t := range s.tables {
		if strings.EqualFold(t.Name, name) {
			s.tables = append(s.tables[:i], s.tables[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: table %q on sheet %q", ErrNotFound, name, s.name)
}

// findTable locates a table anywhere in the workbook.
func (wb *Workbook) findTable(name string) (*Sheet, *Table, error) {
	for _, s := range wb.sheets {
		for _, t := range s.tables {
			if strings.EqualFold(t.Name, name) {
				return s, t, nil
			}
		}
	}
	return nil, nil, fmt.Errorf("%w: table %q", ErrNotFound, name)
}
