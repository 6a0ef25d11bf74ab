package oxcel

import (
	"fmt"
	"strings"

	"github.com/xuri/efp"
)

// InsertRows inserts n empty rows before 1-based row at, shifting every
// dependent structure down.
func (s *Sheet) InsertRows(at, n int) error { return s.shift(AxisRow, at, n) }

// RemoveRows deletes n rows starting at 1-based row at, shifting every
// dependent structure up. Content inside the removed band is dropped.
func (s *Sheet) RemoveRows(at, n int) error { return s.shift(AxisRow, at, -n) }

// InsertCols inserts n empty columns before 1-based column at.
func (s *Sheet) InsertCols(at, n int) error { return s.shift(AxisCol, at, n) }

// RemoveCols deletes n columns starting at 1-based column at.
func (s *Sheet) RemoveCols(at, n int) error { return s.shift(AxisCol, at, -n) }

// shift applies one insert (n > 0) or removal (n < 0) to every range-bearing
// structure the sheet and workbook own. All structures go through the same
// Range.Shift/shiftCell primitives so the displacement rules cannot drift
// apart.
func (s *Sheet) shift(axis Axis, at, n int) error {
	if at < 1 || n == 0 {
		return fmt.Errorf("%w: shift at %d by %d", ErrInvalidArgument, at, n)
	}
	limit := maxRows
	if axis == AxisCol {
		limit = maxCols
	}
	if n > 0 {
		if last, ok := s.lastUsed(axis); ok && last+n > limit {
			return fmt.Errorf("%w: shift would push content past the sheet edge", ErrInvalidArgument)
		}
	}

	// Cells: rebuild the sparse map with moved keys.
	moved := make(map[CellRef]*Cell, len(s.cells))
	for ref, c := range s.cells {
		nref, ok := shiftCell(ref, axis, at, n)
		if !ok {
			continue
		}
		moved[nref] = c
	}
	s.cells = moved

	// Formula bookkeeping: attached ranges and reference text.
	for _, c := range s.cells {
		if c.Formula == nil {
			continue
		}
		if c.Formula.Ref.Start.Valid() {
			if r, ok := c.Formula.Ref.Shift(axis, at, n); ok {
				c.Formula.Ref = r
			}
		}
		if c.Formula.Text != "" {
			c.Formula.Text = rewriteFormula(c.Formula.Text, s.name, "", axis, at, n)
		}
	}
	// Formulas on other sheets that name this sheet explicitly.
	for _, other := range s.wb.sheets {
		if other == s {
			continue
		}
		for _, c := range other.cells {
			if c.Formula != nil && c.Formula.Text != "" {
				c.Formula.Text = rewriteFormula(c.Formula.Text, s.name, other.name, axis, at, n)
			}
		}
	}

	// Row/column overrides.
	if axis == AxisRow {
		rows := make(map[int]*RowInfo, len(s.rowInfo))
		for row, info := range s.rowInfo {
			if nr, ok := shiftIndex(row, at, n); ok {
				rows[nr] = info
			}
		}
		s.rowInfo = rows
	} else {
		var cols []*ColInfo
		for _, info := range s.colInfo {
			r := Range{Start: CellRef{Col: info.Min, Row: 1}, End: CellRef{Col: info.Max, Row: 1}}
			nr, ok := r.Shift(AxisCol, at, n)
			if !ok {
				continue
			}
			info.Min, info.Max = nr.Start.Col, nr.End.Col
			cols = append(cols, info)
		}
		s.colInfo = cols
	}

	// Page breaks on the shifted axis.
	breaks := s.rowBreaks
	if axis == AxisCol {
		breaks = s.colBreaks
	}
	nb := make(map[int]bool, len(breaks))
	for b := range breaks {
		if v, ok := shiftIndex(b, at, n); ok && v >= 2 {
			nb[v] = true
		}
	}
	if axis == AxisRow {
		s.rowBreaks = nb
	} else {
		s.colBreaks = nb
	}

	// Merges. A merge reduced to a single cell is dropped.
	var merges []Range
	for _, m := range s.merges {
		if nm, ok := m.Shift(axis, at, n); ok && nm.Start != nm.End {
			merges = append(merges, nm)
		}
	}
	s.merges = merges

	// Auto filter and print area.
	if s.autoFilter != nil {
		if nr, ok := s.autoFilter.Shift(axis, at, n); ok {
			s.autoFilter = &nr
		} else {
			s.autoFilter = nil
		}
	}
	if s.Print.PrintArea != "" {
		if r, err := ParseRange(s.Print.PrintArea); err == nil {
			if nr, ok := r.Shift(axis, at, n); ok {
				s.Print.PrintArea = nr.Name()
			} else {
				s.Print.PrintArea = ""
			}
		}
	}

	// Rule and object targets.
	var validations []*DataValidation
	for _, v := range s.validations {
		if nr, ok := v.Range.Shift(axis, at, n); ok {
			v.Range = nr
			validations = append(validations, v)
		}
	}
	s.validations = validations

	var condFmts []*CondFormat
	for _, cf := range s.condFmts {
		if nr, ok := cf.Range.Shift(axis, at, n); ok {
			cf.Range = nr
			condFmts = append(condFmts, cf)
		}
	}
	s.condFmts = condFmts

	for _, t := range s.tables {
		if nr, ok := t.Range.Shift(axis, at, n); ok {
			t.Range = nr
		}
	}
	for _, d := range s.drawings {
		if ref, ok := shiftCell(d.Anchor.From, axis, at, n); ok {
			d.Anchor.From = ref
		}
		if d.Anchor.TwoCell {
			if ref, ok := shiftCell(d.Anchor.To, axis, at, n); ok {
				d.Anchor.To = ref
			}
		}
	}
	for _, o := range s.oleObjects {
		if ref, ok := shiftCell(o.Anchor.From, axis, at, n); ok {
			o.Anchor.From = ref
		}
	}

	// Workbook-level structures naming this sheet.
	for i := range s.wb.definedNames {
		dn := &s.wb.definedNames[i]
		dn.RefersTo = rewriteFormula(dn.RefersTo, s.name, "", axis, at, n)
	}
	for _, sh := range s.wb.sheets {
		for _, p := range sh.pivots {
			if !p.Cache.External && strings.EqualFold(p.Cache.SourceSheet, s.name) {
				if nr, ok := p.Cache.SourceRange.Shift(axis, at, n); ok {
					p.Cache.SourceRange = nr
				}
			}
			if sh == s {
				if ref, ok := shiftCell(p.TargetCell, axis, at, n); ok {
					p.TargetCell = ref
				}
			}
		}
		// Internal hyperlinks pointing at this sheet.
		for _, c := range sh.cells {
			if c.Hyperlink != nil && c.Hyperlink.Internal {
				c.Hyperlink.Target = rewriteFormula(c.Hyperlink.Target, s.name, sh.name, axis, at, n)
			}
		}
	}
	return nil
}

// lastUsed returns the highest used row or column index across cells and
// merges.
func (s *Sheet) lastUsed(axis Axis) (int, bool) {
	last := 0
	for ref := range s.cells {
		v := ref.Row
		if axis == AxisCol {
			v = ref.Col
		}
		if v > last {
			last = v
		}
	}
	for _, m := range s.merges {
		v := m.End.Row
		if axis == AxisCol {
			v = m.End.Col
		}
		if v > last {
			last = v
		}
	}
	return last, last > 0
}

// shiftIndex moves a bare 1-based row or column index.
func shiftIndex(v, at, n int) (int, bool) {
	if n >= 0 {
		if v >= at {
			return v + n, true
		}
		return v, true
	}
	removed := -n
	switch {
	case v < at:
		return v, true
	case v >= at+removed:
		return v - removed, true
	}
	return 0, false
}

// rewriteFormula rewrites the A1 references in formula text after a shift on
// targetSheet. homeSheet is the sheet the formula lives on; a reference
// without an explicit sheet prefix belongs to homeSheet. Rewriting is
// best-effort and token-based: references the tokenizer does not surface as
// range operands (e.g. INDIRECT arguments) are left untouched.
func rewriteFormula(formula, targetSheet, homeSheet string, axis Axis, at, n int) string {
	if formula == "" {
		return formula
	}
	implicitMatches := homeSheet == "" || strings.EqualFold(homeSheet, targetSheet)
	ps := efp.ExcelParser()
	tokens := ps.Parse(formula)
	if tokens == nil {
		return formula
	}
	var out strings.Builder
	for _, token := range tokens {
		switch {
		case token.TType == efp.TokenTypeFunction && token.TSubType == efp.TokenSubTypeStart:
			out.WriteString(token.TValue)
			out.WriteString("(")
		case token.TType == efp.TokenTypeFunction && token.TSubType == efp.TokenSubTypeStop:
			out.WriteString(")")
		case token.TType == efp.TokenTypeSubexpression && token.TSubType == efp.TokenSubTypeStart:
			out.WriteString("(")
		case token.TType == efp.TokenTypeSubexpression && token.TSubType == efp.TokenSubTypeStop:
			out.WriteString(")")
		case token.TType == efp.TokenTypeArgument:
			out.WriteString(",")
		case token.TType == efp.TokenTypeOperand && token.TSubType == efp.TokenSubTypeRange:
			out.WriteString(rewriteRangeToken(token.TValue, targetSheet, implicitMatches, axis, at, n))
		case token.TType == efp.TokenTypeOperand && token.TSubType == efp.TokenSubTypeText:
			out.WriteString(`"`)
			out.WriteString(strings.ReplaceAll(token.TValue, `"`, `""`))
			out.WriteString(`"`)
		default:
			out.WriteString(token.TValue)
		}
	}
	return out.String()
}

// rewriteRangeToken rewrites a single range operand like "B5", "$B$5:C7" or
// "Data!A1:A9". Whole-row/column references and anything unparseable pass
// through unchanged.
func rewriteRangeToken(tok, targetSheet string, implicitMatches bool, axis Axis, at, n int) string {
	prefix := ""
	ref := tok
	if idx := strings.LastIndex(tok, "!"); idx >= 0 {
		prefix = tok[:idx+1]
		ref = tok[idx+1:]
		sheet := strings.Trim(tok[:idx], "'")
		if !strings.EqualFold(sheet, targetSheet) {
			return tok
		}
	} else if !implicitMatches {
		return tok
	}
	parts := strings.Split(ref, ":")
	if len(parts) > 2 {
		return tok
	}
	rewritten := make([]string, len(parts))
	for i, part := range parts {
		moved, ok := rewriteRefPart(part, axis, at, n)
		if !ok {
			return tok
		}
		rewritten[i] = moved
	}
	return prefix + strings.Join(rewritten, ":")
}

// rewriteRefPart moves one cell reference, preserving its absolute markers.
// A reference that falls inside a removed band collapses to "#REF!".
func rewriteRefPart(part string, axis Axis, at, n int) (string, bool) {
	absCol := strings.HasPrefix(part, "$")
	bare := strings.ReplaceAll(part, "$", "")
	absRow := strings.Count(part, "$") == 2 || (strings.Count(part, "$") == 1 && !absCol)
	ref, err := ParseCellRef(bare)
	if err != nil {
		return "", false
	}
	moved, ok := shiftCell(ref, axis, at, n)
	if !ok {
		return "#REF!", true
	}
	var b strings.Builder
	if absCol {
		b.WriteString("$")
	}
	b.WriteString(ColNumberToName(moved.Col))
	if absRow {
		b.WriteString("$")
	}
	b.WriteString(itoa(moved.Row))
	return b.String(), true
}
