package oxcel

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Open parses a serialized package held in memory.
func Open(data []byte, opts ...Option) (*Workbook, error) {
	return OpenReader(bytes.NewReader(data), int64(len(data)), opts...)
}

// OpenFile parses the package at path.
func OpenFile(name string, opts ...Option) (*Workbook, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	return OpenReader(f, info.Size(), opts...)
}

// OpenReader parses a package from an io.ReaderAt. In the default lenient
// mode, recoverable defects (dangling relationships, out-of-range style
// indices, unknown parts) are skipped and recorded as warnings; strict mode
// turns them into errors.
func OpenReader(r io.ReaderAt, size int64, opts ...Option) (*Workbook, error) {
	o := applyOptions(opts)
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: not a zip archive: %v", ErrCorruptPackage, err)
	}
	pr := &packageReader{opts: o, parts: map[string]*zip.File{}}
	for _, f := range zr.File {
		pr.parts[strings.TrimPrefix(f.Name, "/")] = f
	}
	return pr.run()
}

type packageReader struct {
	opts  *Options
	parts map[string]*zip.File

	wb      *Workbook
	sst     []sstEntry
	xfMap   []int // xf position → style registry ID
	dxfMap  []int // dxf position → style registry ID
	dateXfs map[int]bool
}

func (pr *packageReader) warn(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if pr.opts.strict {
		return fmt.Errorf("%w: %s", ErrCorruptPackage, msg)
	}
	pr.wb.warnings = append(pr.wb.warnings, msg)
	return nil
}

func (pr *packageReader) partBytes(name string) ([]byte, error) {
	f, ok := pr.parts[name]
	if !ok {
		return nil, fmt.Errorf("%w: missing part %s", ErrCorruptPackage, name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open part %s: %v", ErrCorruptPackage, name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: read part %s: %v", ErrCorruptPackage, name, err)
	}
	return data, nil
}

func (pr *packageReader) parsePart(name string, v any) error {
	data, err := pr.partBytes(name)
	if err != nil {
		return err
	}
	if err := xml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: parse %s: %v", ErrCorruptPackage, name, err)
	}
	return nil
}

// relsFor loads the relationship part for the given part, keyed by rId.
// A part without relationships yields an empty map.
func (pr *packageReader) relsFor(partName string) (map[string]xlsxRelationship, error) {
	dir, base := path.Split(partName)
	relName := dir + "_rels/" + base + ".rels"
	out := map[string]xlsxRelationship{}
	if _, ok := pr.parts[relName]; !ok {
		return out, nil
	}
	var rels xlsxRelationships
	if err := pr.parsePart(relName, &rels); err != nil {
		return nil, err
	}
	for _, rel := range rels.Relationships {
		out[rel.ID] = rel
	}
	return out, nil
}

// resolveTarget turns a relationship target into a package part name,
// relative to the part that owns the relationship.
func resolveTarget(ownerPart, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	dir, _ := path.Split(ownerPart)
	return path.Clean(dir + target)
}

func (pr *packageReader) run() (*Workbook, error) {
	pr.wb = &Workbook{
		styles: newStyleRegistry(),
		sst:    newSharedStrings(),
		Window: WindowGeometry{Width: 28800, Height: 17600},
	}

	if _, ok := pr.parts["[Content_Types].xml"]; !ok {
		return nil, fmt.Errorf("%w: missing [Content_Types].xml", ErrCorruptPackage)
	}
	rootRels, err := pr.relsFor("")
	if err != nil {
		return nil, err
	}
	wbPart := ""
	corePart, appPart, customPart := "", "", ""
	for _, rel := range rootRels {
		switch rel.Type {
		case relTypeOfficeDocument:
			wbPart = resolveTarget("", rel.Target)
		case relTypeCoreProps:
			corePart = resolveTarget("", rel.Target)
		case relTypeExtProps:
			appPart = resolveTarget("", rel.Target)
		case relTypeCustomProps:
			customPart = resolveTarget("", rel.Target)
		}
	}
	if wbPart == "" {
		return nil, fmt.Errorf("%w: no office document relationship", ErrCorruptPackage)
	}

	var xwb xlsxWorkbook
	if err := pr.parsePart(wbPart, &xwb); err != nil {
		return nil, err
	}
	wbRels, err := pr.relsFor(wbPart)
	if err != nil {
		return nil, err
	}

	if err := pr.readStyles(wbPart, wbRels); err != nil {
		return nil, err
	}
	if err := pr.readSharedStrings(wbPart, wbRels); err != nil {
		return nil, err
	}
	caches, err := pr.readPivotCaches(wbPart, wbRels, &xwb)
	if err != nil {
		return nil, err
	}

	if len(xwb.Sheets.Sheet) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrCorruptPackage)
	}
	for _, xs := range xwb.Sheets.Sheet {
		rel, ok := wbRels[xs.RID]
		if !ok {
			if err := pr.warn("sheet %q: dangling relationship %s", xs.Name, xs.RID); err != nil {
				return nil, err
			}
			continue
		}
		sheet := newSheet(pr.wb, xs.Name)
		part := resolveTarget(wbPart, rel.Target)
		if err := pr.readSheet(sheet, part, caches); err != nil {
			return nil, err
		}
		pr.wb.sheets = append(pr.wb.sheets, sheet)
	}
	if len(pr.wb.sheets) == 0 {
		return nil, fmt.Errorf("%w: no readable sheets", ErrCorruptPackage)
	}

	pr.readWorkbookMeta(&xwb)
	if err := pr.readDocProps(corePart, appPart, customPart); err != nil {
		return nil, err
	}
	return pr.wb, nil
}

func (pr *packageReader) readWorkbookMeta(xwb *xlsxWorkbook) {
	wb := pr.wb
	if xwb.BookViews != nil && len(xwb.BookViews.WorkBookView) > 0 {
		v := xwb.BookViews.WorkBookView[0]
		wb.Window = WindowGeometry{X: v.XWindow, Y: v.YWindow, Width: v.WindowWidth, Height: v.WindowHeight}
		if v.ActiveTab >= 0 && v.ActiveTab < len(wb.sheets) {
			wb.activeTab = v.ActiveTab
		}
	}
	if p := xwb.WorkbookProtection; p != nil {
		wb.protection = &WorkbookProtection{
			LockStructure: p.LockStructure,
			LockWindows:   p.LockWindows,
			LockRevision:  p.LockRevision,
			Hash: PasswordHash{
				Legacy:    p.WorkbookPassword,
				Algorithm: p.WorkbookAlgorithmName,
				Hash:      p.WorkbookHashValue,
				Salt:      p.WorkbookSaltValue,
				SpinCount: p.WorkbookSpinCount,
			},
		}
	}
	if xwb.DefinedNames == nil {
		return
	}
	for _, dn := range xwb.DefinedNames.DefinedName {
		scope := ""
		if dn.LocalSheetID != nil {
			if *dn.LocalSheetID < 0 || *dn.LocalSheetID >= len(wb.sheets) {
				continue
			}
			scope = wb.sheets[*dn.LocalSheetID].name
		}
		switch dn.Name {
		case "_xlnm.Print_Area":
			if s, err := wb.Sheet(scope); err == nil {
				s.Print.PrintArea = stripSheetPrefix(dn.Data)
			}
		case "_xlnm.Print_Titles":
			if s, err := wb.Sheet(scope); err == nil {
				applyPrintTitles(s, dn.Data)
			}
		default:
			wb.definedNames = append(wb.definedNames, DefinedName{
				Name: dn.Name, RefersTo: dn.Data, Scope: scope,
				Comment: dn.Comment, Hidden: dn.Hidden,
			})
		}
	}
}

// stripSheetPrefix removes a leading 'Sheet'! or Sheet! qualifier.
func stripSheetPrefix(ref string) string {
	if i := strings.LastIndex(ref, "!"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

// applyPrintTitles splits a _xlnm.Print_Titles value back into repeat rows
// and columns. Column spans contain letters, row spans digits only.
func applyPrintTitles(s *Sheet, value string) {
	for _, part := range strings.Split(value, ",") {
		span := strings.ReplaceAll(stripSheetPrefix(part), "$", "")
		if span == "" {
			continue
		}
		if span[0] >= '0' && span[0] <= '9' {
			s.Print.RepeatRows = span
		} else {
			s.Print.RepeatCols = span
		}
	}
}

func (pr *packageReader) readStyles(wbPart string, wbRels map[string]xlsxRelationship) error {
	part := ""
	for _, rel := range wbRels {
		if rel.Type == relTypeStyles {
			part = resolveTarget(wbPart, rel.Target)
		}
	}
	if part == "" {
		// A package without styles still has the implicit default style.
		pr.xfMap = []int{0}
		return nil
	}
	var ss xlsxStyleSheet
	if err := pr.parsePart(part, &ss); err != nil {
		return err
	}
	reg, xfMap, dxfMap, err := parseStyleSheet(&ss, pr.opts.strict)
	if err != nil {
		return err
	}
	pr.wb.styles = reg
	pr.xfMap = xfMap
	pr.dxfMap = dxfMap
	pr.dateXfs = map[int]bool{}
	for xf, styleID := range xfMap {
		if st, ok := reg.resolve(styleID); ok && isDateFormat(st.NumFmtID, st.NumFmtCode) {
			pr.dateXfs[xf] = true
		}
	}
	return nil
}

func (pr *packageReader) readSharedStrings(wbPart string, wbRels map[string]xlsxRelationship) error {
	part := ""
	for _, rel := range wbRels {
		if rel.Type == relTypeSharedStrings {
			part = resolveTarget(wbPart, rel.Target)
		}
	}
	if part == "" {
		return nil
	}
	var sst xlsxSST
	if err := pr.parsePart(part, &sst); err != nil {
		return err
	}
	for _, si := range sst.SI {
		pr.sst = append(pr.sst, siToEntry(&si))
	}
	return nil
}

func siToEntry(si *xlsxSI) sstEntry {
	if len(si.R) > 0 {
		var text strings.Builder
		runs := make([]RichTextRun, 0, len(si.R))
		for _, r := range si.R {
			text.WriteString(r.T.Value)
			runs = append(runs, RichTextRun{Text: r.T.Value, Font: fontFromRunProps(r.RPr)})
		}
		return sstEntry{text: text.String(), rich: runs}
	}
	if si.T != nil {
		return sstEntry{text: si.T.Value}
	}
	return sstEntry{}
}

func fontFromRunProps(rp *xlsxRunProperties) *Font {
	if rp == nil {
		return nil
	}
	f := &Font{}
	if rp.B != nil {
		f.Bold = true
	}
	if rp.I != nil {
		f.Italic = true
	}
	if rp.Strike != nil {
		f.Strike = true
	}
	if rp.U != nil {
		f.Underline = rp.U.Val
		if f.Underline == "" {
			f.Underline = "single"
		}
	}
	if rp.Sz != nil {
		f.Size = rp.Sz.Val
	}
	if rp.Color != nil {
		f.Color = NormalizeARGB(rp.Color.RGB)
	}
	if rp.RFont != nil {
		f.Name = rp.RFont.Val
	}
	if *f == (Font{}) {
		return nil
	}
	return f
}

// readPivotCaches loads every cache definition referenced by the workbook,
// keyed by cacheId.
func (pr *packageReader) readPivotCaches(wbPart string, wbRels map[string]xlsxRelationship, xwb *xlsxWorkbook) (map[int]*PivotCache, error) {
	out := map[int]*PivotCache{}
	if xwb.PivotCaches == nil {
		return out, nil
	}
	for _, ref := range xwb.PivotCaches.PivotCache {
		rel, ok := wbRels[ref.RID]
		if !ok {
			if err := pr.warn("pivot cache %d: dangling relationship %s", ref.CacheID, ref.RID); err != nil {
				return nil, err
			}
			continue
		}
		var xc xlsxPivotCacheDefinition
		if err := pr.parsePart(resolveTarget(wbPart, rel.Target), &xc); err != nil {
			return nil, err
		}
		cache := &PivotCache{Stale: xc.RefreshOnLoad}
		if ws := xc.CacheSource.WorksheetSource; ws != nil {
			if xc.CacheSource.Type == "external" {
				cache.External = true
				cache.ExternalRef = ws.Ref
			} else {
				cache.SourceSheet = ws.Sheet
				if r, err := ParseRange(ws.Ref); err == nil {
					cache.SourceRange = r
				}
			}
		}
		for _, cf := range xc.CacheFields.CacheField {
			field := CacheField{Name: cf.Name, NumFmtID: cf.NumFmtID}
			if cf.SharedItems != nil {
				for _, item := range cf.SharedItems.S {
					field.SharedItems = append(field.SharedItems, item.Val)
				}
			}
			cache.Fields = append(cache.Fields, field)
		}
		out[ref.CacheID] = cache
	}
	return out, nil
}

func (pr *packageReader) readSheet(s *Sheet, part string, caches map[int]*PivotCache) error {
	var ws xlsxWorksheet
	if err := pr.parsePart(part, &ws); err != nil {
		return err
	}
	rels, err := pr.relsFor(part)
	if err != nil {
		return err
	}

	pr.readSheetView(s, &ws)
	pr.readCols(s, &ws)
	if err := pr.readRows(s, &ws); err != nil {
		return err
	}

	if p := ws.SheetProtection; p != nil {
		s.protection = &SheetProtection{
			Hash: PasswordHash{
				Legacy:    p.Password,
				Algorithm: p.AlgorithmName,
				Hash:      p.HashValue,
				Salt:      p.SaltValue,
				SpinCount: p.SpinCount,
			},
			Objects:           p.Objects,
			Scenarios:         p.Scenarios,
			FormatCells:       p.FormatCells,
			FormatColumns:     p.FormatColumns,
			FormatRows:        p.FormatRows,
			InsertColumns:     p.InsertColumns,
			InsertRows:        p.InsertRows,
			InsertHyperlinks:  p.InsertHyperlinks,
			DeleteColumns:     p.DeleteColumns,
			DeleteRows:        p.DeleteRows,
			SelectLockedCells: p.SelectLockedCells,
			SelectUnlocked:    p.SelectUnlockedCells,
			Sort:              p.Sort,
			AutoFilter:        p.AutoFilter,
			PivotTables:       p.PivotTables,
		}
	}
	if ws.AutoFilter != nil {
		if r, err := ParseRange(ws.AutoFilter.Ref); err == nil {
			s.autoFilter = &r
		}
	}
	if ws.MergeCells != nil {
		for _, mc := range ws.MergeCells.MergeCell {
			r, err := ParseRange(mc.Ref)
			if err != nil {
				if err := pr.warn("sheet %q: bad merge ref %q", s.name, mc.Ref); err != nil {
					return err
				}
				continue
			}
			s.merges = append(s.merges, r)
		}
	}
	if err := pr.readCondFmts(s, &ws); err != nil {
		return err
	}
	pr.readValidations(s, &ws)
	if err := pr.readHyperlinks(s, &ws, rels); err != nil {
		return err
	}
	pr.readPrint(s, &ws)
	pr.readBreaks(s, &ws)

	if ws.TableParts != nil {
		for _, tp := range ws.TableParts.TablePart {
			rel, ok := rels[tp.RID]
			if !ok {
				if err := pr.warn("sheet %q: dangling table relationship %s", s.name, tp.RID); err != nil {
					return err
				}
				continue
			}
			if err := pr.readTable(s, resolveTarget(part, rel.Target)); err != nil {
				return err
			}
		}
	}
	if ws.Drawing != nil {
		if rel, ok := rels[ws.Drawing.RID]; ok {
			if err := pr.readDrawing(s, resolveTarget(part, rel.Target)); err != nil {
				return err
			}
		}
	}
	if err := pr.readComments(s, part, rels); err != nil {
		return err
	}
	if ws.OleObjects != nil {
		for _, o := range ws.OleObjects.OleObject {
			rel, ok := rels[o.RID]
			if !ok {
				continue
			}
			data, err := pr.partBytes(resolveTarget(part, rel.Target))
			if err != nil {
				return err
			}
			s.oleObjects = append(s.oleObjects, &OleObject{
				ProgID: o.ProgID,
				Data:   data,
				Anchor: Anchor{From: CellRef{Col: 1, Row: 1}, ExtentCX: 914400, ExtentCY: 914400},
			})
		}
	}
	return pr.readPivotTables(s, part, rels, caches)
}

func (pr *packageReader) readSheetView(s *Sheet, ws *xlsxWorksheet) {
	if ws.SheetPr != nil && ws.SheetPr.TabColor != nil {
		s.View.TabColor = NormalizeARGB(ws.SheetPr.TabColor.RGB)
	}
	if ws.SheetViews == nil || len(ws.SheetViews.SheetView) == 0 {
		return
	}
	v := ws.SheetViews.SheetView[0]
	if v.ShowGridLines != nil {
		s.View.ShowGridlines = *v.ShowGridLines
	}
	if v.View != "" {
		s.View.Type = ViewType(v.View)
	}
	if v.ZoomScale != 0 {
		s.View.ZoomScale = v.ZoomScale
	}
	if v.Pane != nil {
		s.View.Pane = &PaneState{
			XSplit:      int(v.Pane.XSplit),
			YSplit:      int(v.Pane.YSplit),
			TopLeftCell: v.Pane.TopLeftCell,
			Frozen:      v.Pane.State == "frozen" || v.Pane.State == "frozenSplit",
		}
	}
	if len(v.Selection) > 0 {
		s.View.Selection = v.Selection[0].ActiveCell
		if s.View.Selection == "" {
			s.View.Selection = v.Selection[0].SQRef
		}
	}
}

func (pr *packageReader) readCols(s *Sheet, ws *xlsxWorksheet) {
	if ws.Cols == nil {
		return
	}
	for _, col := range ws.Cols.Col {
		if col.Min < 1 || col.Max < col.Min {
			continue
		}
		s.colInfo = append(s.colInfo, &ColInfo{
			Min:         col.Min,
			Max:         col.Max,
			Width:       col.Width,
			CustomWidth: col.CustomWidth,
			AutoWidth:   col.BestFit,
			Hidden:      col.Hidden,
		})
	}
}

func (pr *packageReader) readRows(s *Sheet, ws *xlsxWorksheet) error {
	for _, row := range ws.SheetData.Row {
		if row.Ht != 0 || row.CustomHeight || row.Hidden {
			s.rowInfo[row.R] = &RowInfo{Height: row.Ht, CustomHeight: row.CustomHeight, Hidden: row.Hidden}
		}
		for _, xc := range row.C {
			ref, err := ParseCellRef(xc.R)
			if err != nil {
				if err := pr.warn("sheet %q: bad cell ref %q", s.name, xc.R); err != nil {
					return err
				}
				continue
			}
			cell, err := pr.readCell(s, &xc)
			if err != nil {
				return err
			}
			if cell != nil {
				s.cells[ref] = cell
			}
		}
	}
	return nil
}

func (pr *packageReader) readCell(s *Sheet, xc *xlsxC) (*Cell, error) {
	cell := &Cell{}
	if xc.S >= 0 && xc.S < len(pr.xfMap) {
		cell.StyleID = pr.xfMap[xc.S]
	} else if xc.S != 0 {
		if err := pr.warn("sheet %q: cell %s style index %d out of range", s.name, xc.R, xc.S); err != nil {
			return nil, err
		}
	}
	switch xc.T {
	case "s":
		idx, err := strconv.Atoi(xc.V)
		if err != nil || idx < 0 || idx >= len(pr.sst) {
			if err := pr.warn("sheet %q: shared string index %q out of range", s.name, xc.V); err != nil {
				return nil, err
			}
			return nil, nil
		}
		entry := pr.sst[idx]
		cell.Type = CellString
		cell.Str = entry.text
		cell.Rich = entry.rich
	case "str":
		cell.Type = CellString
		cell.Str = xc.V
	case "inlineStr":
		cell.Type = CellString
		if xc.IS != nil {
			entry := siToEntry(xc.IS)
			cell.Str = entry.text
			cell.Rich = entry.rich
		}
	case "b":
		cell.Type = CellBool
		cell.Bool = xc.V == "1" || strings.EqualFold(xc.V, "true")
	case "e":
		cell.Type = CellError
		cell.Err = xc.V
	case "", "n":
		if xc.V != "" {
			num, err := strconv.ParseFloat(xc.V, 64)
			if err != nil {
				if err := pr.warn("sheet %q: bad numeric value %q", s.name, xc.V); err != nil {
					return nil, err
				}
				break
			}
			if pr.dateXfs[xc.S] {
				cell.Type = CellDate
				cell.Time = serialToTime(num)
			} else {
				cell.Type = CellNumber
				cell.Num = num
			}
		}
	default:
		return nil, fmt.Errorf("%w: cell type %q", ErrUnsupportedSchema, xc.T)
	}
	if xc.F != nil {
		cell.Formula = formulaFromXML(xc.F)
	}
	if cell.Type == CellEmpty && cell.Formula == nil && cell.StyleID == 0 {
		return nil, nil
	}
	return cell, nil
}

func formulaFromXML(f *xlsxF) *Formula {
	out := &Formula{Text: f.Content}
	if f.Ref != "" {
		if r, err := ParseRange(f.Ref); err == nil {
			out.Ref = r
		}
	}
	switch f.T {
	case "shared":
		out.Kind = FormulaShared
		if f.SI != nil {
			out.SharedIndex = *f.SI
		}
	case "array":
		out.Kind = FormulaArray
	case "dataTable":
		out.Kind = FormulaDataTable
		out.TwoDimensional = f.Dt2D
		out.RowInputDeleted = f.Del1
		out.ColInputDeleted = f.Del2
		out.RowInputRef = f.R1
		out.ColInputRef = f.R2
	}
	return out
}

func (pr *packageReader) readCondFmts(s *Sheet, ws *xlsxWorksheet) error {
	for _, group := range ws.ConditionalFormatting {
		r, err := ParseRange(group.SQRef)
		if err != nil {
			if err := pr.warn("sheet %q: bad conditional formatting ref %q", s.name, group.SQRef); err != nil {
				return err
			}
			continue
		}
		for _, rule := range group.CfRule {
			cf := &CondFormat{Range: r}
			if rule.DxfID != nil && *rule.DxfID >= 0 && *rule.DxfID < len(pr.dxfMap) {
				cf.StyleID = pr.dxfMap[*rule.DxfID]
			}
			switch rule.Type {
			case "cellIs":
				cf.Type = CondCellValue
				cf.Operator = ValidationOperator(rule.Operator)
				if len(rule.Formula) > 0 {
					cf.Formula1 = rule.Formula[0]
				}
				if len(rule.Formula) > 1 {
					cf.Formula2 = rule.Formula[1]
				}
			case "containsText", "notContainsText", "beginsWith", "endsWith":
				cf.Type = CondText
				cf.TextOp = TextCondition(rule.Type)
				cf.TextText = rule.Text
			case "top10":
				cf.Type = CondTopBottom
				cf.Rank = rule.Rank
				cf.Bottom = rule.Bottom
				cf.Percent = rule.Percent
			case "aboveAverage":
				cf.Type = CondAverage
				cf.Below = rule.AboveAverage != nil && !*rule.AboveAverage
				cf.StdDev = rule.StdDev
			case "colorScale":
				cf.Type = CondColorScale
				if rule.ColorScale != nil {
					for i, cfvo := range rule.ColorScale.Cfvo {
						p := ScalePoint{Type: ScalePointType(cfvo.Type), Value: cfvo.Val}
						if i < len(rule.ColorScale.Color) {
							p.Color = NormalizeARGB(rule.ColorScale.Color[i].RGB)
						}
						cf.Points = append(cf.Points, p)
					}
				}
			case "dataBar":
				cf.Type = CondDataBar
				if rule.DataBar != nil {
					for _, cfvo := range rule.DataBar.Cfvo {
						cf.Points = append(cf.Points, ScalePoint{Type: ScalePointType(cfvo.Type), Value: cfvo.Val})
					}
					if len(rule.DataBar.Color) > 0 {
						cf.BarColor = NormalizeARGB(rule.DataBar.Color[0].RGB)
					}
				}
			case "iconSet":
				cf.Type = CondIconSet
				if rule.IconSet != nil {
					cf.IconStyle = rule.IconSet.IconSet
					for _, cfvo := range rule.IconSet.Cfvo {
						cf.Points = append(cf.Points, ScalePoint{Type: ScalePointType(cfvo.Type), Value: cfvo.Val})
					}
				}
			default:
				if err := pr.warn("sheet %q: conditional formatting type %q not supported", s.name, rule.Type); err != nil {
					return err
				}
				continue
			}
			s.condFmts = append(s.condFmts, cf)
		}
	}
	return nil
}

func (pr *packageReader) readValidations(s *Sheet, ws *xlsxWorksheet) {
	if ws.DataValidations == nil {
		return
	}
	for _, x := range ws.DataValidations.DataValidation {
		// Multi-range sqref values keep only the first range.
		refs := strings.Fields(x.SQRef)
		if len(refs) == 0 {
			continue
		}
		r, err := ParseRange(refs[0])
		if err != nil {
			continue
		}
		v := &DataValidation{
			Type:          ValidationType(x.Type),
			Range:         r,
			Operator:      ValidationOperator(x.Operator),
			Formula1:      x.Formula1,
			Formula2:      x.Formula2,
			AllowBlank:    x.AllowBlank,
			ErrorTitle:    x.ErrorTitle,
			ErrorMessage:  x.Error,
			PromptTitle:   x.PromptTitle,
			PromptMessage: x.Prompt,
		}
		if v.Type == ValidationList && strings.HasPrefix(x.Formula1, `"`) && strings.HasSuffix(x.Formula1, `"`) {
			v.Items = strings.Split(strings.Trim(x.Formula1, `"`), ",")
			v.Formula1 = ""
		}
		s.validations = append(s.validations, v)
	}
}

func (pr *packageReader) readHyperlinks(s *Sheet, ws *xlsxWorksheet, rels map[string]xlsxRelationship) error {
	if ws.Hyperlinks == nil {
		return nil
	}
	for _, h := range ws.Hyperlinks.Hyperlink {
		ref, err := ParseCellRef(h.Ref)
		if err != nil {
			// A hyperlink can span a range; anchor on its first cell.
			if r, rerr := ParseRange(h.Ref); rerr == nil {
				ref = r.Start
			} else {
				continue
			}
		}
		link := &Hyperlink{Tooltip: h.Tooltip}
		if h.RID != "" {
			rel, ok := rels[h.RID]
			if !ok {
				if err := pr.warn("sheet %q: dangling hyperlink relationship %s", s.name, h.RID); err != nil {
					return err
				}
				continue
			}
			link.Target = rel.Target
		} else {
			link.Target = h.Location
			link.Internal = true
		}
		s.cellAt(ref).Hyperlink = link
	}
	return nil
}

func (pr *packageReader) readPrint(s *Sheet, ws *xlsxWorksheet) {
	if ws.PrintOptions != nil {
		s.Print.GridlinesPrint = ws.PrintOptions.GridLines
	}
	if m := ws.PageMargins; m != nil {
		s.Print.MarginLeft = m.Left
		s.Print.MarginRight = m.Right
		s.Print.MarginTop = m.Top
		s.Print.MarginBottom = m.Bottom
		s.Print.MarginHeader = m.Header
		s.Print.MarginFooter = m.Footer
	}
	if p := ws.PageSetup; p != nil {
		s.Print.PaperSize = p.PaperSize
		s.Print.Scale = p.Scale
		s.Print.FitToWidth = p.FitToWidth
		s.Print.FitToHeight = p.FitToHeight
		s.Print.Orientation = p.Orientation
		s.Print.BlackAndWhite = p.BlackAndWhite
	}
	if hf := ws.HeaderFooter; hf != nil {
		s.Print.Header = hf.OddHeader
		s.Print.Footer = hf.OddFooter
	}
}

func (pr *packageReader) readBreaks(s *Sheet, ws *xlsxWorksheet) {
	if ws.RowBreaks != nil {
		for _, brk := range ws.RowBreaks.Brk {
			if brk.ID >= 1 {
				s.rowBreaks[brk.ID+1] = true
			}
		}
	}
	if ws.ColBreaks != nil {
		for _, brk := range ws.ColBreaks.Brk {
			if brk.ID >= 1 {
				s.colBreaks[brk.ID+1] = true
			}
		}
	}
}

func (pr *packageReader) readTable(s *Sheet, part string) error {
	var xt xlsxTable
	if err := pr.parsePart(part, &xt); err != nil {
		return err
	}
	r, err := ParseRange(xt.Ref)
	if err != nil {
		return pr.warn("table %q: bad range %q", xt.Name, xt.Ref)
	}
	t := &Table{
		Name:         xt.Name,
		DisplayName:  xt.DisplayName,
		Range:        r,
		HasTotalsRow: xt.TotalsRowCount > 0,
	}
	for _, col := range xt.TableColumns.TableColumn {
		t.Columns = append(t.Columns, TableColumn{
			Name:           col.Name,
			TotalsFunction: TotalsFunction(col.TotalsRowFunction),
			TotalsLabel:    col.TotalsRowLabel,
		})
	}
	if ts := xt.TableStyleInfo; ts != nil {
		t.Style = &TableStyle{
			Name:              ts.Name,
			ShowFirstColumn:   ts.ShowFirstColumn,
			ShowLastColumn:    ts.ShowLastColumn,
			ShowRowStripes:    ts.ShowRowStripes,
			ShowColumnStripes: ts.ShowColumnStripes,
		}
	}
	s.tables = append(s.tables, t)
	return nil
}

func (pr *packageReader) readDrawing(s *Sheet, part string) error {
	var wsDr xdrWsDr
	if err := pr.parsePart(part, &wsDr); err != nil {
		return err
	}
	rels, err := pr.relsFor(part)
	if err != nil {
		return err
	}
	resolveImage := func(rid string) ([]byte, string) {
		rel, ok := rels[rid]
		if !ok {
			return nil, ""
		}
		target := resolveTarget(part, rel.Target)
		data, err := pr.partBytes(target)
		if err != nil {
			return nil, ""
		}
		ext := strings.TrimPrefix(path.Ext(target), ".")
		return data, ext
	}
	resolveChart := func(rid string) *Chart {
		rel, ok := rels[rid]
		if !ok {
			return nil
		}
		var cs cChartSpace
		if err := pr.parsePart(resolveTarget(part, rel.Target), &cs); err != nil {
			return nil
		}
		return chartFromXML(&cs)
	}
	s.drawings = append(s.drawings, drawingFromXML(&wsDr, resolveImage, resolveChart)...)
	return nil
}

func (pr *packageReader) readComments(s *Sheet, part string, rels map[string]xlsxRelationship) error {
	for _, rel := range rels {
		if rel.Type != relTypeComments {
			continue
		}
		var xc xlsxComments
		if err := pr.parsePart(resolveTarget(part, rel.Target), &xc); err != nil {
			return err
		}
		for _, c := range xc.CommentList.Comment {
			ref, err := ParseCellRef(c.Ref)
			if err != nil {
				continue
			}
			author := ""
			if c.AuthorID >= 0 && c.AuthorID < len(xc.Authors.Author) {
				author = xc.Authors.Author[c.AuthorID]
			}
			var text strings.Builder
			if c.Text.T != nil {
				text.WriteString(c.Text.T.Value)
			}
			for _, r := range c.Text.R {
				text.WriteString(r.T.Value)
			}
			s.cellAt(ref).Comment = &Comment{Text: text.String(), Author: author}
		}
	}
	return nil
}

func (pr *packageReader) readPivotTables(s *Sheet, part string, rels map[string]xlsxRelationship, caches map[int]*PivotCache) error {
	ids := make([]string, 0, len(rels))
	for id, rel := range rels {
		if rel.Type == relTypePivotTable {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	for _, id := range ids {
		var xp xlsxPivotTableDefinition
		if err := pr.parsePart(resolveTarget(part, rels[id].Target), &xp); err != nil {
			return err
		}
		cache, ok := caches[xp.CacheID]
		if !ok {
			if err := pr.warn("pivot table %q: unknown cache %d", xp.Name, xp.CacheID); err != nil {
				return err
			}
			continue
		}
		target := CellRef{Col: 1, Row: 1}
		if r, err := ParseRange(xp.Location.Ref); err == nil {
			target = r.Start
		} else if c, err := ParseCellRef(xp.Location.Ref); err == nil {
			target = c
		}
		p := &PivotTable{Name: xp.Name, TargetCell: target, Cache: *cache}
		if xp.RowFields != nil {
			for _, f := range xp.RowFields.Field {
				p.RowFields = append(p.RowFields, f.X)
			}
		}
		if xp.ColFields != nil {
			for _, f := range xp.ColFields.Field {
				p.ColFields = append(p.ColFields, f.X)
			}
		}
		if xp.DataFields != nil {
			for _, df := range xp.DataFields.DataField {
				p.DataFields = append(p.DataFields, PivotDataField{
					DisplayName: df.Name,
					FieldIndex:  df.Fld,
					Aggregation: PivotAggregation(df.Subtotal),
					BaseField:   df.BaseField,
					BaseItem:    df.BaseItem,
				})
			}
		}
		s.pivots = append(s.pivots, p)
	}
	return nil
}

func (pr *packageReader) readDocProps(corePart, appPart, customPart string) error {
	wb := pr.wb
	if corePart != "" {
		if _, ok := pr.parts[corePart]; ok {
			var core xlsxCoreProperties
			if err := pr.parsePart(corePart, &core); err != nil {
				return err
			}
			wb.Props.Title = core.Title
			wb.Props.Subject = core.Subject
			wb.Props.Creator = core.Creator
			wb.Props.Keywords = core.Keywords
			wb.Props.Description = core.Description
			wb.Props.LastModifiedBy = core.LastModifiedBy
			wb.Props.Category = core.Category
			if core.Created != nil {
				if t, err := time.Parse(time.RFC3339, core.Created.Value); err == nil {
					wb.Props.Created = t
				}
			}
			if core.Modified != nil {
				if t, err := time.Parse(time.RFC3339, core.Modified.Value); err == nil {
					wb.Props.Modified = t
				}
			}
		}
	}
	if appPart != "" {
		if _, ok := pr.parts[appPart]; ok {
			var app xlsxAppProperties
			if err := pr.parsePart(appPart, &app); err != nil {
				return err
			}
			wb.Props.Application = app.Application
			wb.Props.Company = app.Company
		}
	}
	if customPart != "" {
		if _, ok := pr.parts[customPart]; ok {
			var custom xlsxCustomProperties
			if err := pr.parsePart(customPart, &custom); err != nil {
				return err
			}
			for _, p := range custom.Property {
				cp := CustomProperty{Name: p.Name}
				switch {
				case p.Lpwstr != nil:
					cp.Type = CustomString
					cp.Str = *p.Lpwstr
				case p.R8 != nil:
					cp.Type = CustomNumber
					cp.Num = *p.R8
				case p.Bool != nil:
					cp.Type = CustomBool
					cp.Bool = *p.Bool
				case p.Filetime != nil:
					cp.Type = CustomDate
					if t, err := time.Parse(time.RFC3339, *p.Filetime); err == nil {
						cp.Time = t
					}
				default:
					continue
				}
				wb.custom = append(wb.custom, cp)
			}
		}
	}
	return nil
}
