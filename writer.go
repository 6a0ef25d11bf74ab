package oxcel

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Write serializes the workbook into w. The shared-string table and style
// deduplication are recomputed from the live in-memory objects; stale
// indices from a prior read are never trusted. Consistency violations are
// detected before any byte reaches w.
func (wb *Workbook) Write(w io.Writer, opts ...Option) error {
	buf, err := wb.WriteToBuffer(opts...)
	if err != nil {
		return err
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

// WriteToBuffer serializes the workbook into a fresh buffer.
func (wb *Workbook) WriteToBuffer(opts ...Option) (*bytes.Buffer, error) {
	o := applyOptions(opts)
	buf := new(bytes.Buffer)
	pw := &packageWriter{wb: wb, opts: o, zw: zip.NewWriter(buf)}
	if err := pw.run(); err != nil {
		return nil, err
	}
	if err := pw.zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	return buf, nil
}

// SaveTo writes the package to path. The bytes go to a temporary file in
// the same directory first and are renamed into place on success, so a
// failed write never leaves a partial file behind.
func (wb *Workbook) SaveTo(path string, opts ...Option) error {
	buf, err := wb.WriteToBuffer(opts...)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".oxcel-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

// packageWriter assembles one package: part payloads, relationship files
// and the content-types manifest, with relationship IDs allocated stably in
// part order.
type packageWriter struct {
	wb   *Workbook
	opts *Options
	zw   *zip.Writer

	overrides []ctOverride
	defaults  map[string]string // extension → content type

	tableCount int
	imageCount int
	chartCount int
	oleCount   int
	cacheCount int
	pivotCount int
	hasFormula bool
}

func (pw *packageWriter) run() error {
	wb := pw.wb
	wb.warnings = nil
	if err := pw.preflight(); err != nil {
		return err
	}

	// Fresh shared-string pool rebuilt from live cells.
	wb.sst = newSharedStrings()
	pw.defaults = map[string]string{"rels": ctRels, "xml": ctXML}

	// dxf styles referenced by conditional formatting, deduplicated in
	// first-seen rule order across all sheets. condFmtXML derives dxf
	// positions from the same order, so both sides agree by construction.
	var dxfStyles []int
	dxfSeen := map[int]bool{}
	for _, s := range wb.sheets {
		for _, cf := range s.condFmts {
			if cf.StyleID != 0 && !dxfSeen[cf.StyleID] {
				dxfSeen[cf.StyleID] = true
				dxfStyles = append(dxfStyles, cf.StyleID)
			}
		}
	}

	var wbRels []xlsxRelationship
	var cacheRefs []xlsxPivotCacheRef
	nextWbRID := 0
	rid := func() string {
		nextWbRID++
		return "rId" + strconv.Itoa(nextWbRID)
	}

	// Worksheets first: streaming mode emits rows as it goes, and cell
	// strings intern into the fresh pool on the way out.
	sheetRIDs := make([]string, len(wb.sheets))
	for i, sheet := range wb.sheets {
		name := fmt.Sprintf("sheet%d.xml", i+1)
		if err := pw.writeSheet(sheet, i+1, &cacheRefs); err != nil {
			return err
		}
		r := rid()
		sheetRIDs[i] = r
		wbRels = append(wbRels, xlsxRelationship{ID: r, Type: relTypeWorksheet, Target: "worksheets/" + name})
		pw.override("/xl/worksheets/"+name, ctWorksheet)
	}

	// Styles and shared strings, recomputed.
	ss, _ := buildStyleSheet(wb.styles, dxfStyles)
	if err := pw.writeXMLPart("xl/styles.xml", ss); err != nil {
		return err
	}
	stylesRID := rid()
	wbRels = append(wbRels, xlsxRelationship{ID: stylesRID, Type: relTypeStyles, Target: "styles.xml"})
	pw.override("/xl/styles.xml", ctStyles)

	if wb.sst.count() > 0 {
		if err := pw.writeXMLPart("xl/sharedStrings.xml", sstToXML(wb.sst)); err != nil {
			return err
		}
		r := rid()
		wbRels = append(wbRels, xlsxRelationship{ID: r, Type: relTypeSharedStrings, Target: "sharedStrings.xml"})
		pw.override("/xl/sharedStrings.xml", ctSharedStrings)
	}

	for i := range cacheRefs {
		cacheRefs[i].RID = rid()
		wbRels = append(wbRels, xlsxRelationship{
			ID:     cacheRefs[i].RID,
			Type:   relTypePivotCacheDef,
			Target: fmt.Sprintf("pivotCache/pivotCacheDefinition%d.xml", cacheRefs[i].CacheID),
		})
	}

	if err := pw.writeWorkbookPart(sheetRIDs, cacheRefs); err != nil {
		return err
	}
	if err := pw.writeXMLPart("xl/_rels/workbook.xml.rels", &xlsxRelationships{Relationships: wbRels}); err != nil {
		return err
	}
	if err := pw.writeDocProps(); err != nil {
		return err
	}
	if err := pw.writeRootRels(); err != nil {
		return err
	}
	return pw.writeContentTypes()
}

// preflight validates cross-references before any bytes are emitted.
// Droppable danglers (defined-name scopes) are removed with a warning;
// structural danglers abort with ErrInvalidState.
func (pw *packageWriter) preflight() error {
	wb := pw.wb
	if wb.activeTab < 0 || wb.activeTab >= len(wb.sheets) {
		return fmt.Errorf("%w: active tab %d with %d sheets", ErrInvalidState, wb.activeTab, len(wb.sheets))
	}
	kept := wb.definedNames[:0]
	for _, dn := range wb.definedNames {
		if dn.Scope != "" {
			if _, err := wb.Sheet(dn.Scope); err != nil {
				wb.warnings = append(wb.warnings,
					fmt.Sprintf("dropping defined name %q: scope sheet %q does not exist", dn.Name, dn.Scope))
				continue
			}
		}
		kept = append(kept, dn)
	}
	wb.definedNames = kept
	for _, s := range wb.sheets {
		for _, p := range s.pivots {
			if p.Cache.External {
				continue
			}
			if _, err := wb.Sheet(p.Cache.SourceSheet); err != nil {
				return fmt.Errorf("%w: pivot table %q sources dropped sheet %q", ErrInvalidState, p.Name, p.Cache.SourceSheet)
			}
		}
		for _, t := range s.tables {
			if t.Range.Height() < 2 {
				return fmt.Errorf("%w: table %q range %s lost its data rows", ErrInvalidState, t.Name, t.Range)
			}
		}
	}
	return nil
}

func (pw *packageWriter) override(partName, contentType string) {
	pw.overrides = append(pw.overrides, ctOverride{PartName: partName, ContentType: contentType})
}

func (pw *packageWriter) writeXMLPart(name string, v any) error {
	f, err := pw.zw.Create(name)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if _, err := io.WriteString(f, xml.Header); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	enc := xml.NewEncoder(f)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrIO, name, err)
	}
	return nil
}

func (pw *packageWriter) writeBinaryPart(name string, data []byte) error {
	f, err := pw.zw.Create(name)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

// writeWorkbookPart emits xl/workbook.xml.
func (pw *packageWriter) writeWorkbookPart(sheetRIDs []string, cacheRefs []xlsxPivotCacheRef) error {
	wb := pw.wb
	x := &xlsxWorkbook{
		FileVersion: &xlsxFileVersion{AppName: "oxcel"},
		WorkbookPr:  &xlsxWorkbookPr{},
		BookViews: &xlsxBookViews{WorkBookView: []xlsxWorkBookView{{
			XWindow:      wb.Window.X,
			YWindow:      wb.Window.Y,
			WindowWidth:  wb.Window.Width,
			WindowHeight: wb.Window.Height,
			ActiveTab:    wb.activeTab,
		}}},
	}
	if wb.protection != nil {
		x.WorkbookProtection = &xlsxWorkbookProtection{
			LockStructure: wb.protection.LockStructure,
			LockWindows:   wb.protection.LockWindows,
			LockRevision:  wb.protection.LockRevision,
		}
		if !wb.protection.Hash.IsZero() {
			x.WorkbookProtection.WorkbookPassword = wb.protection.Hash.Legacy
			x.WorkbookProtection.WorkbookAlgorithmName = wb.protection.Hash.Algorithm
			x.WorkbookProtection.WorkbookHashValue = wb.protection.Hash.Hash
			x.WorkbookProtection.WorkbookSaltValue = wb.protection.Hash.Salt
			x.WorkbookProtection.WorkbookSpinCount = wb.protection.Hash.SpinCount
		}
	}
	for i, s := range wb.sheets {
		x.Sheets.Sheet = append(x.Sheets.Sheet, xlsxSheet{
			Name: s.name, SheetID: i + 1, RID: sheetRIDs[i],
		})
	}
	names := append([]DefinedName(nil), wb.definedNames...)
	for _, s := range wb.sheets {
		if s.Print.PrintArea != "" {
			names = append(names, DefinedName{
				Name: "_xlnm.Print_Area", Scope: s.name,
				RefersTo: quoteSheetName(s.name) + "!" + s.Print.PrintArea,
			})
		}
		if titles := printTitles(s); titles != "" {
			names = append(names, DefinedName{
				Name: "_xlnm.Print_Titles", Scope: s.name, RefersTo: titles,
			})
		}
	}
	if len(names) > 0 {
		dns := &xlsxDefinedNames{}
		for _, dn := range names {
			out := xlsxDefinedName{Name: dn.Name, Comment: dn.Comment, Hidden: dn.Hidden, Data: dn.RefersTo}
			if dn.Scope != "" {
				for i, s := range wb.sheets {
					if strings.EqualFold(s.name, dn.Scope) {
						idx := i
						out.LocalSheetID = &idx
						break
					}
				}
			}
			dns.DefinedName = append(dns.DefinedName, out)
		}
		x.DefinedNames = dns
	}
	if len(cacheRefs) > 0 {
		x.PivotCaches = &xlsxPivotCaches{PivotCache: cacheRefs}
	}
	if pw.hasFormula {
		x.CalcPr = &xlsxCalcPr{FullCalcOnLoad: true}
	}
	pw.override("/xl/workbook.xml", ctWorkbook)
	return pw.writeXMLPart("xl/workbook.xml", x)
}

// printTitles builds the _xlnm.Print_Titles value from the repeat rows and
// columns, columns first per convention.
func printTitles(s *Sheet) string {
	var parts []string
	if s.Print.RepeatCols != "" {
		parts = append(parts, quoteSheetName(s.name)+"!"+absoluteSpan(s.Print.RepeatCols))
	}
	if s.Print.RepeatRows != "" {
		parts = append(parts, quoteSheetName(s.name)+"!"+absoluteSpan(s.Print.RepeatRows))
	}
	return strings.Join(parts, ",")
}

// absoluteSpan turns "1:2" into "$1:$2" and "A:B" into "$A:$B", leaving
// already-absolute spans alone.
func absoluteSpan(span string) string {
	parts := strings.SplitN(span, ":", 2)
	for i, p := range parts {
		if !strings.HasPrefix(p, "$") {
			parts[i] = "$" + p
		}
	}
	return strings.Join(parts, ":")
}

// quoteSheetName wraps a sheet name in single quotes when a formula
// reference needs them.
func quoteSheetName(name string) string {
	if strings.ContainsAny(name, " '!-+%&()") {
		return "'" + strings.ReplaceAll(name, "'", "''") + "'"
	}
	return name
}

// writeSheet emits one worksheet part plus everything hanging off it:
// tables, drawing, comments, OLE embeddings and pivot parts.
func (pw *packageWriter) writeSheet(s *Sheet, idx int, cacheRefs *[]xlsxPivotCacheRef) error {
	ws := &xlsxWorksheet{}
	var rels []xlsxRelationship
	nextRID := 0
	rid := func() string {
		nextRID++
		return "rId" + strconv.Itoa(nextRID)
	}

	if s.View.TabColor != "" {
		ws.SheetPr = &xlsxSheetPr{TabColor: &xlsxColor{RGB: NormalizeARGB(s.View.TabColor)}}
	}
	if used, ok := s.UsedRange(); ok {
		ws.Dimension = &xlsxDimension{Ref: used.Name()}
	}
	ws.SheetViews = pw.sheetViews(s)
	if cols := pw.colsXML(s); cols != nil {
		ws.Cols = cols
	}

	if s.protection != nil {
		ws.SheetProtection = sheetProtectionToXML(s.protection)
	}
	if s.autoFilter != nil {
		ws.AutoFilter = &xlsxAutoFilter{Ref: s.autoFilter.Name()}
	}
	if len(s.merges) > 0 {
		mc := &xlsxMergeCells{Count: len(s.merges)}
		for _, m := range s.merges {
			mc.MergeCell = append(mc.MergeCell, xlsxMergeCell{Ref: m.Name()})
		}
		ws.MergeCells = mc
	}
	ws.ConditionalFormatting = pw.condFmtXML(s)
	ws.DataValidations = validationsToXML(s.validations)

	// Hyperlinks: external targets go through relationships.
	var links []xlsxHyperlink
	for _, ref := range sortedCellRefs(s.cells) {
		c := s.cells[ref]
		if c.Hyperlink == nil {
			continue
		}
		h := xlsxHyperlink{Ref: ref.Name(), Tooltip: c.Hyperlink.Tooltip}
		if c.Hyperlink.Internal {
			h.Location = c.Hyperlink.Target
		} else {
			h.RID = rid()
			rels = append(rels, xlsxRelationship{ID: h.RID, Type: relTypeHyperlink, Target: c.Hyperlink.Target, TargetMode: "External"})
		}
		links = append(links, h)
	}
	if len(links) > 0 {
		ws.Hyperlinks = &xlsxHyperlinks{Hyperlink: links}
	}

	pw.printToXML(s, ws)
	pw.breaksToXML(s, ws)

	// Tables.
	if len(s.tables) > 0 {
		tp := &xlsxTableParts{Count: len(s.tables)}
		for _, t := range s.tables {
			pw.tableCount++
			name := fmt.Sprintf("table%d.xml", pw.tableCount)
			if err := pw.writeXMLPart("xl/tables/"+name, tableToXML(t, pw.tableCount)); err != nil {
				return err
			}
			pw.override("/xl/tables/"+name, ctTable)
			r := rid()
			rels = append(rels, xlsxRelationship{ID: r, Type: relTypeTable, Target: "../tables/" + name})
			tp.TablePart = append(tp.TablePart, xlsxTablePart{RID: r})
		}
		ws.TableParts = tp
	}

	// Drawing part: shapes, images, charts.
	if len(s.drawings) > 0 {
		drawingName := fmt.Sprintf("drawing%d.xml", idx)
		var drawRels []xlsxRelationship
		imageRIDs := map[int]string{}
		chartRIDs := map[int]string{}
		nextDrawRID := 0
		for i, d := range s.drawings {
			switch d.Kind {
			case DrawingImage:
				pw.imageCount++
				media := fmt.Sprintf("image%d.%s", pw.imageCount, d.ImageExt)
				if err := pw.writeBinaryPart("xl/media/"+media, d.ImageData); err != nil {
					return err
				}
				pw.defaults[d.ImageExt] = "image/" + d.ImageExt
				nextDrawRID++
				r := "rId" + strconv.Itoa(nextDrawRID)
				imageRIDs[i] = r
				drawRels = append(drawRels, xlsxRelationship{ID: r, Type: relTypeImage, Target: "../media/" + media})
			case DrawingChart:
				pw.chartCount++
				chartName := fmt.Sprintf("chart%d.xml", pw.chartCount)
				if err := pw.writeXMLPart("xl/charts/"+chartName, chartToXML(d.Chart)); err != nil {
					return err
				}
				pw.override("/xl/charts/"+chartName, ctChart)
				nextDrawRID++
				r := "rId" + strconv.Itoa(nextDrawRID)
				chartRIDs[i] = r
				drawRels = append(drawRels, xlsxRelationship{ID: r, Type: relTypeChart, Target: "../charts/" + chartName})
			}
		}
		if err := pw.writeXMLPart("xl/drawings/"+drawingName, drawingToXML(s.drawings, imageRIDs, chartRIDs)); err != nil {
			return err
		}
		pw.override("/xl/drawings/"+drawingName, ctDrawing)
		if len(drawRels) > 0 {
			if err := pw.writeXMLPart("xl/drawings/_rels/"+drawingName+".rels", &xlsxRelationships{Relationships: drawRels}); err != nil {
				return err
			}
		}
		r := rid()
		rels = append(rels, xlsxRelationship{ID: r, Type: relTypeDrawing, Target: "../drawings/" + drawingName})
		ws.Drawing = &xlsxRIDRef{RID: r}
	}

	// Comments plus the legacy VML part Excel needs to display them.
	comments := s.Comments()
	if len(comments) > 0 {
		commentsName := fmt.Sprintf("comments%d.xml", idx)
		vmlName := fmt.Sprintf("vmlDrawing%d.vml", idx)
		if err := pw.writeXMLPart("xl/"+commentsName, commentsToXML(comments)); err != nil {
			return err
		}
		pw.override("/xl/"+commentsName, ctComments)
		if err := pw.writeBinaryPart("xl/drawings/"+vmlName, vmlForComments(comments)); err != nil {
			return err
		}
		pw.defaults["vml"] = ctVMLDrawing
		r := rid()
		rels = append(rels, xlsxRelationship{ID: r, Type: relTypeComments, Target: "../" + commentsName})
		vr := rid()
		rels = append(rels, xlsxRelationship{ID: vr, Type: relTypeVMLDrawing, Target: "../drawings/" + vmlName})
		ws.LegacyDrawing = &xlsxRIDRef{RID: vr}
	}

	// OLE embeddings.
	if len(s.oleObjects) > 0 {
		oo := &xlsxOleObjects{}
		for _, o := range s.oleObjects {
			pw.oleCount++
			bin := fmt.Sprintf("oleObject%d.bin", pw.oleCount)
			if err := pw.writeBinaryPart("xl/embeddings/"+bin, o.Data); err != nil {
				return err
			}
			pw.defaults["bin"] = ctOleObject
			r := rid()
			rels = append(rels, xlsxRelationship{ID: r, Type: relTypeOleObject, Target: "../embeddings/" + bin})
			oo.OleObject = append(oo.OleObject, xlsxOleObject{ProgID: o.ProgID, RID: r})
		}
		ws.OleObjects = oo
	}

	// Pivot parts: one cache definition per pivot table.
	for _, p := range s.pivots {
		pw.cacheCount++
		pw.pivotCount++
		cacheName := fmt.Sprintf("pivotCacheDefinition%d.xml", pw.cacheCount)
		pivotName := fmt.Sprintf("pivotTable%d.xml", pw.pivotCount)
		if err := pw.writeXMLPart("xl/pivotCache/"+cacheName, pivotCacheToXML(&p.Cache)); err != nil {
			return err
		}
		pw.override("/xl/pivotCache/"+cacheName, ctPivotCacheDef)
		if err := pw.writeXMLPart("xl/pivotTables/"+pivotName, pivotTableToXML(p, pw.cacheCount)); err != nil {
			return err
		}
		pw.override("/xl/pivotTables/"+pivotName, ctPivotTable)
		if err := pw.writeXMLPart("xl/pivotTables/_rels/"+pivotName+".rels", &xlsxRelationships{Relationships: []xlsxRelationship{{
			ID: "rId1", Type: relTypePivotCacheDef, Target: "../pivotCache/" + cacheName,
		}}}); err != nil {
			return err
		}
		r := rid()
		rels = append(rels, xlsxRelationship{ID: r, Type: relTypePivotTable, Target: "../pivotTables/" + pivotName})
		*cacheRefs = append(*cacheRefs, xlsxPivotCacheRef{CacheID: pw.cacheCount})
	}

	if len(rels) > 0 {
		name := fmt.Sprintf("sheet%d.xml", idx)
		if err := pw.writeXMLPart("xl/worksheets/_rels/"+name+".rels", &xlsxRelationships{Relationships: rels}); err != nil {
			return err
		}
	}

	// Rows last: mode selection is internal, the part contract is the same.
	streaming := pw.opts.forceStreaming || len(s.cells) > pw.opts.streamingThreshold
	return pw.writeSheetData(s, idx, ws, streaming)
}

// writeSheetData emits the worksheet part. In-memory mode materializes all
// rows inside the struct; streaming mode marshals the row-less part, splits
// it at the empty sheetData element and emits rows one at a time between
// the halves.
func (pw *packageWriter) writeSheetData(s *Sheet, idx int, ws *xlsxWorksheet, streaming bool) error {
	partName := fmt.Sprintf("xl/worksheets/sheet%d.xml", idx)
	rows := pw.buildRowIndex(s)
	if !streaming {
		for _, rowNum := range rows {
			ws.SheetData.Row = append(ws.SheetData.Row, pw.buildRow(s, rowNum))
		}
		return pw.writeXMLPart(partName, ws)
	}

	shell, err := xml.Marshal(ws)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrIO, partName, err)
	}
	const emptySheetData = "<sheetData></sheetData>"
	cut := bytes.Index(shell, []byte(emptySheetData))
	if cut < 0 {
		return fmt.Errorf("%w: worksheet shell missing sheetData", ErrInvalidState)
	}
	f, err := pw.zw.Create(partName)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if _, err := io.WriteString(f, xml.Header); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if _, err := f.Write(shell[:cut]); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if _, err := io.WriteString(f, "<sheetData>"); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	enc := xml.NewEncoder(f)
	for _, rowNum := range rows {
		row := pw.buildRow(s, rowNum)
		if err := enc.EncodeElement(row, xml.StartElement{Name: xml.Name{Local: "row"}}); err != nil {
			return fmt.Errorf("%w: encode row %d: %v", ErrIO, rowNum, err)
		}
	}
	if err := enc.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if _, err := io.WriteString(f, "</sheetData>"); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if _, err := f.Write(shell[cut+len(emptySheetData):]); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

// buildRowIndex returns the sorted row numbers carrying cells or overrides.
func (pw *packageWriter) buildRowIndex(s *Sheet) []int {
	seen := map[int]bool{}
	for ref := range s.cells {
		seen[ref.Row] = true
	}
	for row := range s.rowInfo {
		seen[row] = true
	}
	rows := make([]int, 0, len(seen))
	for row := range seen {
		rows = append(rows, row)
	}
	sort.Ints(rows)
	return rows
}

// buildRow materializes one xlsxRow, interning strings into the fresh pool.
func (pw *packageWriter) buildRow(s *Sheet, rowNum int) xlsxRow {
	row := xlsxRow{R: rowNum}
	if info := s.rowInfo[rowNum]; info != nil {
		row.Ht = info.Height
		row.CustomHeight = info.CustomHeight
		row.Hidden = info.Hidden
	}
	var refs []CellRef
	for ref := range s.cells {
		if ref.Row == rowNum {
			refs = append(refs, ref)
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Col < refs[j].Col })
	for _, ref := range refs {
		row.C = append(row.C, pw.buildCell(s, ref, s.cells[ref]))
	}
	return row
}

func (pw *packageWriter) buildCell(s *Sheet, ref CellRef, c *Cell) xlsxC {
	out := xlsxC{R: ref.Name(), S: c.StyleID}
	switch c.Type {
	case CellString:
		out.T = "s"
		out.V = strconv.Itoa(s.wb.sst.intern(c.Str, c.Rich))
	case CellNumber:
		out.V = strconv.FormatFloat(c.Num, 'f', -1, 64)
	case CellBool:
		out.T = "b"
		if c.Bool {
			out.V = "1"
		} else {
			out.V = "0"
		}
	case CellDate:
		out.V = strconv.FormatFloat(timeToSerial(c.Time), 'f', -1, 64)
		out.S = pw.dateStyle(s, c.StyleID)
	case CellError:
		out.T = "e"
		out.V = c.Err
	}
	if c.Formula != nil {
		pw.hasFormula = true
		f := &xlsxF{Content: c.Formula.Text}
		switch c.Formula.Kind {
		case FormulaShared:
			f.T = "shared"
			si := c.Formula.SharedIndex
			f.SI = &si
			if c.Formula.Ref.Start.Valid() {
				f.Ref = c.Formula.Ref.Name()
			}
		case FormulaArray:
			f.T = "array"
			if c.Formula.Ref.Start.Valid() {
				f.Ref = c.Formula.Ref.Name()
			}
		case FormulaDataTable:
			f.T = "dataTable"
			if c.Formula.Ref.Start.Valid() {
				f.Ref = c.Formula.Ref.Name()
			}
			f.Dt2D = c.Formula.TwoDimensional
			f.Del1 = c.Formula.RowInputDeleted
			f.Del2 = c.Formula.ColInputDeleted
			f.R1 = c.Formula.RowInputRef
			f.R2 = c.Formula.ColInputRef
		}
		out.F = f
		if c.Type == CellEmpty {
			out.V = ""
		}
	}
	return out
}

// dateStyle guarantees a date cell carries a date number format so readers
// recover the value as a date rather than a bare serial.
func (pw *packageWriter) dateStyle(s *Sheet, styleID int) int {
	st, ok := s.wb.styles.resolve(styleID)
	if ok && isDateFormat(st.NumFmtID, st.NumFmtCode) {
		return styleID
	}
	st.NumFmtID = 22
	st.NumFmtCode = ""
	return s.wb.styles.intern(st)
}

func (pw *packageWriter) sheetViews(s *Sheet) *xlsxSheetViews {
	view := xlsxSheetView{WorkbookViewID: 0}
	if !s.View.ShowGridlines {
		f := false
		view.ShowGridLines = &f
	}
	if s.View.Type != "" && s.View.Type != ViewNormal {
		view.View = string(s.View.Type)
	}
	if s.View.ZoomScale != 0 && s.View.ZoomScale != 100 {
		view.ZoomScale = s.View.ZoomScale
	}
	if s.View.Pane != nil {
		p := &xlsxPane{
			XSplit:      float64(s.View.Pane.XSplit),
			YSplit:      float64(s.View.Pane.YSplit),
			TopLeftCell: s.View.Pane.TopLeftCell,
		}
		if s.View.Pane.Frozen {
			p.State = "frozen"
		}
		view.Pane = p
	}
	if s.View.Selection != "" {
		view.Selection = []xlsxSelection{{ActiveCell: s.View.Selection, SQRef: s.View.Selection}}
	}
	return &xlsxSheetViews{SheetView: []xlsxSheetView{view}}
}

func (pw *packageWriter) colsXML(s *Sheet) *xlsxCols {
	if len(s.colInfo) == 0 {
		return nil
	}
	cols := &xlsxCols{}
	for _, info := range s.colInfo {
		cols.Col = append(cols.Col, xlsxCol{
			Min:         info.Min,
			Max:         info.Max,
			Width:       info.Width,
			CustomWidth: info.CustomWidth,
			BestFit:     info.AutoWidth,
			Hidden:      info.Hidden,
		})
	}
	return cols
}

func (pw *packageWriter) printToXML(s *Sheet, ws *xlsxWorksheet) {
	p := s.Print
	if p.GridlinesPrint {
		ws.PrintOptions = &xlsxPrintOptions{GridLines: true}
	}
	if p.MarginLeft != 0 || p.MarginRight != 0 || p.MarginTop != 0 || p.MarginBottom != 0 {
		ws.PageMargins = &xlsxPageMargins{
			Left: p.MarginLeft, Right: p.MarginRight,
			Top: p.MarginTop, Bottom: p.MarginBottom,
			Header: p.MarginHeader, Footer: p.MarginFooter,
		}
	}
	if p.Orientation != "" || p.PaperSize != 0 || p.Scale != 0 || p.FitToWidth != 0 || p.FitToHeight != 0 || p.BlackAndWhite {
		ws.PageSetup = &xlsxPageSetup{
			PaperSize:     p.PaperSize,
			Scale:         p.Scale,
			FitToWidth:    p.FitToWidth,
			FitToHeight:   p.FitToHeight,
			Orientation:   p.Orientation,
			BlackAndWhite: p.BlackAndWhite,
		}
	}
	if p.Header != "" || p.Footer != "" {
		ws.HeaderFooter = &xlsxHeaderFooter{OddHeader: p.Header, OddFooter: p.Footer}
	}
}

func (pw *packageWriter) breaksToXML(s *Sheet, ws *xlsxWorksheet) {
	if rb := s.PageBreaks(AxisRow); len(rb) > 0 {
		brk := &xlsxBreaks{Count: len(rb), ManualBreakCount: len(rb)}
		for _, at := range rb {
			brk.Brk = append(brk.Brk, xlsxBrk{ID: at - 1, Max: maxCols - 1, Man: true})
		}
		ws.RowBreaks = brk
	}
	if cb := s.PageBreaks(AxisCol); len(cb) > 0 {
		brk := &xlsxBreaks{Count: len(cb), ManualBreakCount: len(cb)}
		for _, at := range cb {
			brk.Brk = append(brk.Brk, xlsxBrk{ID: at - 1, Max: maxRows - 1, Man: true})
		}
		ws.ColBreaks = brk
	}
}

// condFmtXML groups rules by target range preserving rule order; priority is
// the global rule position, which keeps write-back order stable.
func (pw *packageWriter) condFmtXML(s *Sheet) []xlsxConditionalFormatting {
	if len(s.condFmts) == 0 {
		return nil
	}
	dxfSeen := map[int]int{}
	dxfOf := func(styleID int) *int {
		if styleID == 0 {
			return nil
		}
		if pos, ok := dxfSeen[styleID]; ok {
			return &pos
		}
		pos := len(dxfSeen)
		dxfSeen[styleID] = pos
		p := pos
		return &p
	}
	// Rebuild per-sheet first-seen order across all sheets written so far:
	// the styles part lists dxf styles in overall rule order, so positions
	// must continue across sheets.
	for _, prev := range pw.wb.sheets {
		if prev == s {
			break
		}
		for _, cf := range prev.condFmts {
			if cf.StyleID != 0 {
				dxfOf(cf.StyleID)
			}
		}
	}
	var out []xlsxConditionalFormatting
	for i, cf := range s.condFmts {
		rule := xlsxCfRule{Priority: i + 1, DxfID: dxfOf(cf.StyleID)}
		switch cf.Type {
		case CondCellValue:
			rule.Type = "cellIs"
			rule.Operator = string(cf.Operator)
			rule.Formula = []string{cf.Formula1}
			if cf.Formula2 != "" {
				rule.Formula = append(rule.Formula, cf.Formula2)
			}
		case CondText:
			rule.Type = string(cf.TextOp)
			rule.Text = cf.TextText
		case CondTopBottom:
			rule.Type = "top10"
			rule.Rank = cf.Rank
			rule.Bottom = cf.Bottom
			rule.Percent = cf.Percent
		case CondAverage:
			rule.Type = "aboveAverage"
			if cf.Below {
				f := false
				rule.AboveAverage = &f
			}
			rule.StdDev = cf.StdDev
		case CondColorScale:
			rule.Type = "colorScale"
			cs := &xlsxColorScale{}
			for _, p := range cf.Points {
				cs.Cfvo = append(cs.Cfvo, xlsxCfvo{Type: string(p.Type), Val: p.Value})
				cs.Color = append(cs.Color, xlsxColor{RGB: p.Color})
			}
			rule.ColorScale = cs
		case CondDataBar:
			rule.Type = "dataBar"
			db := &xlsxDataBar{Color: []xlsxColor{{RGB: cf.BarColor}}}
			if len(cf.Points) == 0 {
				db.Cfvo = []xlsxCfvo{{Type: "min"}, {Type: "max"}}
			}
			for _, p := range cf.Points {
				db.Cfvo = append(db.Cfvo, xlsxCfvo{Type: string(p.Type), Val: p.Value})
			}
			rule.DataBar = db
		case CondIconSet:
			rule.Type = "iconSet"
			is := &xlsxIconSet{IconSet: cf.IconStyle}
			for _, p := range cf.Points {
				is.Cfvo = append(is.Cfvo, xlsxCfvo{Type: string(p.Type), Val: p.Value})
			}
			rule.IconSet = is
		}
		out = append(out, xlsxConditionalFormatting{SQRef: cf.Range.Name(), CfRule: []xlsxCfRule{rule}})
	}
	return out
}

func (pw *packageWriter) writeDocProps() error {
	wb := pw.wb
	now := time.Now().UTC()
	created, modified := wb.Props.Created, wb.Props.Modified
	if created.IsZero() {
		created = now
	}
	if modified.IsZero() {
		modified = now
	}
	core := &xlsxCoreProperties{
		Title:          wb.Props.Title,
		Subject:        wb.Props.Subject,
		Creator:        wb.Props.Creator,
		Keywords:       wb.Props.Keywords,
		Description:    wb.Props.Description,
		LastModifiedBy: wb.Props.LastModifiedBy,
		Category:       wb.Props.Category,
		Created:        &xlsxDate{Type: "dcterms:W3CDTF", Value: created.Format(time.RFC3339)},
		Modified:       &xlsxDate{Type: "dcterms:W3CDTF", Value: modified.Format(time.RFC3339)},
	}
	if err := pw.writeXMLPart("docProps/core.xml", core); err != nil {
		return err
	}
	pw.override("/docProps/core.xml", ctCoreProps)

	application := wb.Props.Application
	if application == "" {
		application = "oxcel"
	}
	app := &xlsxAppProperties{Application: application, Company: wb.Props.Company}
	if err := pw.writeXMLPart("docProps/app.xml", app); err != nil {
		return err
	}
	pw.override("/docProps/app.xml", ctExtProps)

	if len(wb.custom) > 0 {
		custom := &xlsxCustomProperties{}
		for i, p := range wb.custom {
			out := xlsxCustomProperty{FmtID: customPropsFmtID, PID: i + 2, Name: p.Name}
			switch p.Type {
			case CustomString:
				v := p.Str
				out.Lpwstr = &v
			case CustomNumber:
				v := p.Num
				out.R8 = &v
			case CustomBool:
				v := p.Bool
				out.Bool = &v
			case CustomDate:
				v := p.Time.UTC().Format(time.RFC3339)
				out.Filetime = &v
			}
			custom.Property = append(custom.Property, out)
		}
		if err := pw.writeXMLPart("docProps/custom.xml", custom); err != nil {
			return err
		}
		pw.override("/docProps/custom.xml", ctCustomProps)
	}
	return nil
}

func (pw *packageWriter) writeRootRels() error {
	rels := []xlsxRelationship{
		{ID: "rId1", Type: relTypeOfficeDocument, Target: "xl/workbook.xml"},
		{ID: "rId2", Type: relTypeCoreProps, Target: "docProps/core.xml"},
		{ID: "rId3", Type: relTypeExtProps, Target: "docProps/app.xml"},
	}
	if len(pw.wb.custom) > 0 {
		rels = append(rels, xlsxRelationship{ID: "rId4", Type: relTypeCustomProps, Target: "docProps/custom.xml"})
	}
	return pw.writeXMLPart("_rels/.rels", &xlsxRelationships{Relationships: rels})
}

func (pw *packageWriter) writeContentTypes() error {
	types := &ctTypes{}
	exts := make([]string, 0, len(pw.defaults))
	for ext := range pw.defaults {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	for _, ext := range exts {
		types.Defaults = append(types.Defaults, ctDefault{Extension: ext, ContentType: pw.defaults[ext]})
	}
	types.Overrides = pw.overrides
	return pw.writeXMLPart("[Content_Types].xml", types)
}

// sstToXML renders the rebuilt shared-string pool.
func sstToXML(s *sharedStrings) *xlsxSST {
	out := &xlsxSST{Count: s.count(), UniqueCount: s.count()}
	for _, e := range s.entries {
		si := xlsxSI{}
		if len(e.rich) > 0 {
			for _, run := range e.rich {
				r := xlsxRun{T: xlsxText{Value: run.Text, Space: spaceAttr(run.Text)}}
				if run.Font != nil {
					r.RPr = runPropsToXML(run.Font)
				}
				si.R = append(si.R, r)
			}
		} else {
			si.T = &xlsxText{Value: e.text, Space: spaceAttr(e.text)}
		}
		out.SI = append(out.SI, si)
	}
	return out
}

// spaceAttr preserves leading or trailing whitespace through XML parsers.
func spaceAttr(text string) string {
	if text != strings.TrimSpace(text) {
		return "preserve"
	}
	return ""
}

func runPropsToXML(f *Font) *xlsxRunProperties {
	rp := &xlsxRunProperties{}
	if f.Bold {
		rp.B = &xlsxBoolAttr{}
	}
	if f.Italic {
		rp.I = &xlsxBoolAttr{}
	}
	if f.Strike {
		rp.Strike = &xlsxBoolAttr{}
	}
	if f.Underline != "" {
		rp.U = &xlsxValAttrS{Val: f.Underline}
	}
	if f.Size > 0 {
		rp.Sz = &xlsxValAttrF{Val: f.Size}
	}
	if f.Color != "" {
		rp.Color = &xlsxColor{RGB: f.Color}
	}
	if f.Name != "" {
		rp.RFont = &xlsxValAttrS{Val: f.Name}
	}
	return rp
}

func sheetProtectionToXML(p *SheetProtection) *xlsxSheetProtection {
	out := &xlsxSheetProtection{
		Sheet:               true,
		Objects:             p.Objects,
		Scenarios:           p.Scenarios,
		FormatCells:         p.FormatCells,
		FormatColumns:       p.FormatColumns,
		FormatRows:          p.FormatRows,
		InsertColumns:       p.InsertColumns,
		InsertRows:          p.InsertRows,
		InsertHyperlinks:    p.InsertHyperlinks,
		DeleteColumns:       p.DeleteColumns,
		DeleteRows:          p.DeleteRows,
		SelectLockedCells:   p.SelectLockedCells,
		SelectUnlockedCells: p.SelectUnlocked,
		Sort:                p.Sort,
		AutoFilter:          p.AutoFilter,
		PivotTables:         p.PivotTables,
	}
	if !p.Hash.IsZero() {
		out.Password = p.Hash.Legacy
		out.AlgorithmName = p.Hash.Algorithm
		out.HashValue = p.Hash.Hash
		out.SaltValue = p.Hash.Salt
		out.SpinCount = p.Hash.SpinCount
	}
	return out
}

func validationsToXML(rules []*DataValidation) *xlsxDataValidations {
	if len(rules) == 0 {
		return nil
	}
	out := &xlsxDataValidations{Count: len(rules)}
	for _, v := range rules {
		x := xlsxDataValidation{
			Type:       string(v.Type),
			Operator:   string(v.Operator),
			AllowBlank: v.AllowBlank,
			SQRef:      v.Range.Name(),
		}
		if v.Type == ValidationList && len(v.Items) > 0 {
			x.Formula1 = `"` + strings.Join(v.Items, ",") + `"`
		} else {
			x.Formula1 = v.Formula1
			x.Formula2 = v.Formula2
		}
		if v.ErrorTitle != "" || v.ErrorMessage != "" {
			x.ShowErrorMessage = true
			x.ErrorTitle = v.ErrorTitle
			x.Error = v.ErrorMessage
		}
		if v.PromptTitle != "" || v.PromptMessage != "" {
			x.ShowInputMessage = true
			x.PromptTitle = v.PromptTitle
			x.Prompt = v.PromptMessage
		}
		out.DataValidation = append(out.DataValidation, x)
	}
	return out
}

func tableToXML(t *Table, id int) *xlsxTable {
	shown := t.HasTotalsRow
	x := &xlsxTable{
		ID:             id,
		Name:           t.Name,
		DisplayName:    t.DisplayName,
		Ref:            t.Range.Name(),
		TotalsRowShown: &shown,
		AutoFilter:     &xlsxAutoFilter{Ref: headerRange(t).Name()},
		TableColumns:   xlsxTableColumns{Count: len(t.Columns)},
	}
	if t.HasTotalsRow {
		x.TotalsRowCount = 1
	}
	for i, col := range t.Columns {
		x.TableColumns.TableColumn = append(x.TableColumns.TableColumn, xlsxTableColumn{
			ID:                i + 1,
			Name:              col.Name,
			TotalsRowFunction: string(col.TotalsFunction),
			TotalsRowLabel:    col.TotalsLabel,
		})
	}
	if t.Style != nil {
		x.TableStyleInfo = &xlsxTableStyle{
			Name:              t.Style.Name,
			ShowFirstColumn:   t.Style.ShowFirstColumn,
			ShowLastColumn:    t.Style.ShowLastColumn,
			ShowRowStripes:    t.Style.ShowRowStripes,
			ShowColumnStripes: t.Style.ShowColumnStripes,
		}
	}
	return x
}

// headerRange is the table range minus its totals row, which is what the
// table's auto filter spans.
func headerRange(t *Table) Range {
	r := t.Range
	if t.HasTotalsRow && r.Height() > 1 {
		r.End.Row--
	}
	return r
}

func pivotCacheToXML(c *PivotCache) *xlsxPivotCacheDefinition {
	x := &xlsxPivotCacheDefinition{
		RefreshOnLoad: c.Stale,
		CacheSource:   xlsxCacheSource{Type: "worksheet"},
		CacheFields:   xlsxCacheFields{Count: len(c.Fields)},
	}
	if c.External {
		x.CacheSource.Type = "external"
		x.CacheSource.WorksheetSource = &xlsxWorksheetSource{Ref: c.ExternalRef}
	} else {
		x.CacheSource.WorksheetSource = &xlsxWorksheetSource{Ref: c.SourceRange.Name(), Sheet: c.SourceSheet}
	}
	for _, f := range c.Fields {
		cf := xlsxCacheField{Name: f.Name, NumFmtID: f.NumFmtID}
		if len(f.SharedItems) > 0 {
			si := &xlsxSharedItems{Count: len(f.SharedItems)}
			for _, item := range f.SharedItems {
				si.S = append(si.S, xlsxValAttrS{Val: item})
			}
			cf.SharedItems = si
		}
		x.CacheFields.CacheField = append(x.CacheFields.CacheField, cf)
	}
	return x
}

func pivotTableToXML(p *PivotTable, cacheID int) *xlsxPivotTableDefinition {
	x := &xlsxPivotTableDefinition{
		Name:    p.Name,
		CacheID: cacheID,
		Location: xlsxPivotLocation{
			Ref:            p.TargetCell.Name(),
			FirstHeaderRow: 1,
			FirstDataRow:   2,
			FirstDataCol:   1,
		},
	}
	fields := &xlsxPivotFields{Count: len(p.Cache.Fields)}
	axisOf := map[int]string{}
	for _, idx := range p.RowFields {
		axisOf[idx] = "axisRow"
	}
	for _, idx := range p.ColFields {
		axisOf[idx] = "axisCol"
	}
	dataField := map[int]bool{}
	for _, df := range p.DataFields {
		dataField[df.FieldIndex] = true
	}
	for i := range p.Cache.Fields {
		fields.PivotField = append(fields.PivotField, xlsxPivotField{
			Axis:      axisOf[i],
			DataField: dataField[i],
		})
	}
	x.PivotFields = fields
	if len(p.RowFields) > 0 {
		x.RowFields = fieldIndexes(p.RowFields)
	}
	if len(p.ColFields) > 0 {
		x.ColFields = fieldIndexes(p.ColFields)
	}
	if len(p.DataFields) > 0 {
		dfs := &xlsxDataFields{Count: len(p.DataFields)}
		for _, df := range p.DataFields {
			dfs.DataField = append(dfs.DataField, xlsxDataField{
				Name:      df.DisplayName,
				Fld:       df.FieldIndex,
				Subtotal:  string(df.Aggregation),
				BaseField: df.BaseField,
				BaseItem:  df.BaseItem,
			})
		}
		x.DataFields = dfs
	}
	return x
}

func fieldIndexes(indexes []int) *xlsxFieldIndexes {
	out := &xlsxFieldIndexes{Count: len(indexes)}
	for _, idx := range indexes {
		out.Field = append(out.Field, xlsxFieldIdx{X: idx})
	}
	return out
}

func commentsToXML(comments map[string]Comment) *xlsxComments {
	refs := make([]string, 0, len(comments))
	for ref := range comments {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	out := &xlsxComments{}
	authorIdx := map[string]int{}
	for _, ref := range refs {
		c := comments[ref]
		id, ok := authorIdx[c.Author]
		if !ok {
			id = len(out.Authors.Author)
			out.Authors.Author = append(out.Authors.Author, c.Author)
			authorIdx[c.Author] = id
		}
		out.CommentList.Comment = append(out.CommentList.Comment, xlsxComment{
			Ref:      ref,
			AuthorID: id,
			Text:     xlsxSI{R: []xlsxRun{{T: xlsxText{Value: c.Text}}}},
		})
	}
	return out
}

// vmlForComments emits the legacy VML shapes Excel requires to anchor
// comment boxes.
func vmlForComments(comments map[string]Comment) []byte {
	refs := make([]string, 0, len(comments))
	for ref := range comments {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	var b bytes.Buffer
	b.WriteString(`<xml xmlns:v="urn:schemas-microsoft-com:vml" xmlns:o="urn:schemas-microsoft-com:office:office" xmlns:x="urn:schemas-microsoft-com:office:excel">`)
	b.WriteString(`<o:shapelayout v:ext="edit"><o:idmap v:ext="edit" data="1"/></o:shapelayout>`)
	b.WriteString(`<v:shapetype id="_x0000_t202" coordsize="21600,21600" o:spt="202" path="m,l,21600r21600,l21600,xe"><v:stroke joinstyle="miter"/><v:path gradientshapeok="t" o:connecttype="rect"/></v:shapetype>`)
	for i, ref := range refs {
		cell, err := ParseCellRef(ref)
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, `<v:shape id="_x0000_s%d" type="#_x0000_t202" style="position:absolute;visibility:hidden" fillcolor="#ffffe1" o:insetmode="auto">`, 1025+i)
		b.WriteString(`<v:fill color2="#ffffe1"/><v:shadow on="t" color="black" obscured="t"/><v:path o:connecttype="none"/>`)
		b.WriteString(`<v:textbox style="mso-direction-alt:auto"><div style="text-align:left"></div></v:textbox>`)
		fmt.Fprintf(&b, `<x:ClientData ObjectType="Note"><x:MoveWithCells/><x:SizeWithCells/><x:AutoFill>False</x:AutoFill><x:Row>%d</x:Row><x:Column>%d</x:Column></x:ClientData>`, cell.Row-1, cell.Col-1)
		b.WriteString(`</v:shape>`)
	}
	b.WriteString(`</xml>`)
	return b.Bytes()
}

// sortedCellRefs returns map keys in row-major order for deterministic
// output.
func sortedCellRefs(cells map[CellRef]*Cell) []CellRef {
	refs := make([]CellRef, 0, len(cells))
	for ref := range cells {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Row != refs[j].Row {
			return refs[i].Row < refs[j].Row
		}
		return refs[i].Col < refs[j].Col
	})
	return refs
}
