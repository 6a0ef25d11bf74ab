package oxcel

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tiendc/go-deepcopy"
)

// DefinedName is a named formula or range, either workbook-global or scoped
// to one sheet.
type DefinedName struct {
	Name     string
	RefersTo string // formula or address text, e.g. "Data!$A$1:$C$4"
	Scope    string // sheet name, or "" for workbook scope
	Comment  string
	Hidden   bool
}

// CoreProperties are the docProps/core.xml and app.xml fields.
type CoreProperties struct {
	Title          string
	Subject        string
	Creator        string
	Keywords       string
	Description    string
	LastModifiedBy string
	Category       string
	Application    string
	Company        string
	Created        time.Time
	Modified       time.Time
}

// CustomPropertyType tags the value variant of a custom document property.
type CustomPropertyType int

const (
	CustomString CustomPropertyType = iota
	CustomNumber
	CustomBool
	CustomDate
)

// CustomProperty is one docProps/custom.xml entry.
type CustomProperty struct {
	Name string
	Type CustomPropertyType
	Str  string
	Num  float64
	Bool bool
	Time time.Time
}

// WorkbookProtection locks workbook structure behind an optional password
// hash.
type WorkbookProtection struct {
	Hash          PasswordHash
	LockStructure bool
	LockWindows   bool
	LockRevision  bool
}

// WindowGeometry is the stored workbook window placement.
type WindowGeometry struct {
	X, Y          int
	Width, Height int
}

// Workbook is the root of the document graph: an ordered sheet list plus the
// shared pools and document-level metadata. A Workbook instance must be
// confined to one goroutine; the engine performs no internal locking.
type Workbook struct {
	sheets []*Sheet
	styles *styleRegistry
	sst    *sharedStrings

	definedNames []DefinedName
	Props        CoreProperties
	custom       []CustomProperty
	protection   *WorkbookProtection
	activeTab    int
	Window       WindowGeometry

	// warnings collects dropped dangling references from the last write and
	// tolerated anomalies from a lenient read.
	warnings []string
}

// NewWorkbook creates an empty workbook with a single sheet "Sheet1".
func NewWorkbook() *Workbook {
	wb := &Workbook{
		styles: newStyleRegistry(),
		sst:    newSharedStrings(),
		Window: WindowGeometry{X: 240, Y: 105, Width: 14805, Height: 8010},
	}
	wb.sheets = append(wb.sheets, newSheet(wb, "Sheet1"))
	return wb
}

// Sheets returns the sheets in tab order.
func (wb *Workbook) Sheets() []*Sheet {
	out := make([]*Sheet, len(wb.sheets))
	copy(out, wb.sheets)
	return out
}

// SheetCount returns the number of sheets.
func (wb *Workbook) SheetCount() int { return len(wb.sheets) }

// Sheet returns the sheet with the given name (case-insensitive), or
// ErrNotFound.
func (wb *Workbook) Sheet(name string) (*Sheet, error) {
	for _, s := range wb.sheets {
		if strings.EqualFold(s.name, name) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: sheet %q", ErrNotFound, name)
}

// AddSheet appends a new empty sheet. Names collide case-insensitively, must
// be 1-31 characters and may not contain : \ / ? * [ ].
func (wb *Workbook) AddSheet(name string) (*Sheet, error) {
	if err := wb.checkSheetName(name); err != nil {
		return nil, err
	}
	s := newSheet(wb, name)
	wb.sheets = append(wb.sheets, s)
	return s, nil
}

// RemoveSheet deletes a sheet and everything it owns. The last remaining
// sheet cannot be removed.
func (wb *Workbook) RemoveSheet(name string) error {
	if len(wb.sheets) == 1 {
		return fmt.Errorf("%w: cannot remove the last sheet", ErrInvalidState)
	}
	for i, s := range wb.sheets {
		if strings.EqualFold(s.name, name) {
			s.wb = nil
			wb.sheets = append(wb.sheets[:i], wb.sheets[i+1:]...)
			if wb.activeTab >= len(wb.sheets) {
				wb.activeTab = len(wb.sheets) - 1
			}
			return nil
		}
	}
	return fmt.Errorf("%w: sheet %q", ErrNotFound, name)
}

// RenameSheet changes a sheet's name, updating nothing else: structures
// owned by the sheet stay valid. Defined names and table sources referring
// to the old name by text are rewritten.
func (wb *Workbook) RenameSheet(oldName, newName string) error {
	s, err := wb.Sheet(oldName)
	if err != nil {
		return err
	}
	if strings.EqualFold(oldName, newName) {
		s.name = newName
		return nil
	}
	if err := wb.checkSheetName(newName); err != nil {
		return err
	}
	prev := s.name
	s.name = newName
	for i := range wb.definedNames {
		if strings.EqualFold(wb.definedNames[i].Scope, prev) {
			wb.definedNames[i].Scope = newName
		}
		wb.definedNames[i].RefersTo = rewriteSheetPrefix(wb.definedNames[i].RefersTo, prev, newName)
	}
	for _, sh := range wb.sheets {
		for _, p := range sh.pivots {
			if strings.EqualFold(p.Cache.SourceSheet, prev) {
				p.Cache.SourceSheet = newName
			}
		}
	}
	return nil
}

// CopySheet deep-copies an existing sheet under a new name, duplicating
// cells, styles references, merges, rules, tables and drawings.
func (wb *Workbook) CopySheet(srcName, dstName string) (*Sheet, error) {
	src, err := wb.Sheet(srcName)
	if err != nil {
		return nil, err
	}
	if err := wb.checkSheetName(dstName); err != nil {
		return nil, err
	}
	dst := newSheet(wb, dstName)
	// Copy the owned structures wholesale; the copier follows pointers so
	// the clone shares nothing with the source.
	type sheetPayload struct {
		Cells       map[CellRef]*Cell
		RowInfo     map[int]*RowInfo
		ColInfo     []*ColInfo
		Merges      []Range
		RowBreaks   map[int]bool
		ColBreaks   map[int]bool
		View        SheetView
		AutoFilter  *Range
		Protection  *SheetProtection
		Print       PrintSettings
		CondFmts    []*CondFormat
		Validations []*DataValidation
		Drawings    []*DrawingObject
		OleObjects  []*OleObject
		Tables      []*Table
		Pivots      []*PivotTable
	}
	src2 := sheetPayload{
		Cells: src.cells, RowInfo: src.rowInfo, ColInfo: src.colInfo,
		Merges: src.merges, RowBreaks: src.rowBreaks, ColBreaks: src.colBreaks,
		View: src.View, AutoFilter: src.autoFilter, Protection: src.protection,
		Print: src.Print, CondFmts: src.condFmts, Validations: src.validations,
		Drawings: src.drawings, OleObjects: src.oleObjects,
		Tables: src.tables, Pivots: src.pivots,
	}
	var out sheetPayload
	if err := deepcopy.Copy(&out, src2); err != nil {
		return nil, fmt.Errorf("copy sheet %q: %w", srcName, err)
	}
	dst.cells = out.Cells
	dst.rowInfo = out.RowInfo
	dst.colInfo = out.ColInfo
	dst.merges = out.Merges
	dst.rowBreaks = out.RowBreaks
	dst.colBreaks = out.ColBreaks
	dst.View = out.View
	dst.autoFilter = out.AutoFilter
	dst.protection = out.Protection
	dst.Print = out.Print
	dst.condFmts = out.CondFmts
	dst.validations = out.Validations
	dst.drawings = out.Drawings
	dst.oleObjects = out.OleObjects
	// Table and pivot names are workbook-unique; the clones get a numeric
	// suffix, the way Excel names a copied table.
	dst.tables = out.Tables
	for _, tbl := range dst.tables {
		tbl.Name = wb.uniqueObjectName(tbl.Name, func(n string) bool {
			_, _, err := wb.findTable(n)
			return err == nil
		})
		tbl.DisplayName = tbl.Name
	}
	dst.pivots = out.Pivots
	for _, p := range dst.pivots {
		p.Name = wb.uniqueObjectName(p.Name, func(n string) bool {
			for _, sh := range wb.sheets {
				for _, other := range sh.pivots {
					if strings.EqualFold(other.Name, n) {
						return true
					}
				}
			}
			return false
		})
	}
	wb.sheets = append(wb.sheets, dst)
	return dst, nil
}

// uniqueObjectName derives a free name by appending the first unused numeric
// suffix to base.
func (wb *Workbook) uniqueObjectName(base string, taken func(string) bool) string {
	if !taken(base) {
		return base
	}
	for i := 2; ; i++ {
		candidate := base + strconv.Itoa(i)
		if !taken(candidate) {
			return candidate
		}
	}
}

func (wb *Workbook) checkSheetName(name string) error {
	n := len([]rune(name))
	if n == 0 {
		return fmt.Errorf("%w: empty sheet name", ErrInvalidArgument)
	}
	if n > 31 {
		return fmt.Errorf("%w: sheet name %q longer than 31 characters", ErrInvalidArgument, name)
	}
	if strings.ContainsAny(name, `:\/?*[]`) {
		return fmt.Errorf("%w: sheet name %q contains a forbidden character", ErrInvalidArgument, name)
	}
	if strings.HasPrefix(name, "'") || strings.HasSuffix(name, "'") {
		return fmt.Errorf("%w: sheet name %q may not start or end with an apostrophe", ErrInvalidArgument, name)
	}
	for _, s := range wb.sheets {
		if strings.EqualFold(s.name, name) {
			return fmt.Errorf("%w: duplicate sheet name %q", ErrInvalidArgument, name)
		}
	}
	return nil
}

// SetActiveSheet selects the active tab by sheet name.
func (wb *Workbook) SetActiveSheet(name string) error {
	for i, s := range wb.sheets {
		if strings.EqualFold(s.name, name) {
			wb.activeTab = i
			return nil
		}
	}
	return fmt.Errorf("%w: sheet %q", ErrNotFound, name)
}

// ActiveSheet returns the currently active sheet.
func (wb *Workbook) ActiveSheet() *Sheet { return wb.sheets[wb.activeTab] }

// SetDefinedName adds or replaces a defined name. Names are unique per
// scope, case-insensitively. A sheet-scoped name requires the sheet to
// exist.
func (wb *Workbook) SetDefinedName(dn DefinedName) error {
	if dn.Name == "" {
		return fmt.Errorf("%w: empty defined name", ErrInvalidArgument)
	}
	if dn.Scope != "" {
		if _, err := wb.Sheet(dn.Scope); err != nil {
			return err
		}
	}
	for i := range wb.definedNames {
		if strings.EqualFold(wb.definedNames[i].Name, dn.Name) &&
			strings.EqualFold(wb.definedNames[i].Scope, dn.Scope) {
			wb.definedNames[i] = dn
			return nil
		}
	}
	wb.definedNames = append(wb.definedNames, dn)
	return nil
}

// DefinedName looks up a name within a scope ("" for workbook scope).
func (wb *Workbook) DefinedName(name, scope string) (DefinedName, error) {
	for _, dn := range wb.definedNames {
		if strings.EqualFold(dn.Name, name) && strings.EqualFold(dn.Scope, scope) {
			return dn, nil
		}
	}
	return DefinedName{}, fmt.Errorf("%w: defined name %q", ErrNotFound, name)
}

// RemoveDefinedName deletes a name within a scope.
func (wb *Workbook) RemoveDefinedName(name, scope string) error {
	for i, dn := range wb.definedNames {
		if strings.EqualFold(dn.Name, name) && strings.EqualFold(dn.Scope, scope) {
			wb.definedNames = append(wb.definedNames[:i], wb.definedNames[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: defined name %q", ErrNotFound, name)
}

// DefinedNames returns all defined names in insertion order.
func (wb *Workbook) DefinedNames() []DefinedName {
	out := make([]DefinedName, len(wb.definedNames))
	copy(out, wb.definedNames)
	return out
}

// SetCustomProperty adds or replaces a typed custom document property.
func (wb *Workbook) SetCustomProperty(p CustomProperty) error {
	if p.Name == "" {
		return fmt.Errorf("%w: empty property name", ErrInvalidArgument)
	}
	for i := range wb.custom {
		if wb.custom[i].Name == p.Name {
			wb.custom[i] = p
			return nil
		}
	}
	wb.custom = append(wb.custom, p)
	return nil
}

// CustomProperty looks up a custom property by name.
func (wb *Workbook) CustomProperty(name string) (CustomProperty, error) {
	for _, p := range wb.custom {
		if p.Name == name {
			return p, nil
		}
	}
	return CustomProperty{}, fmt.Errorf("%w: custom property %q", ErrNotFound, name)
}

// CustomProperties returns all custom properties in insertion order.
func (wb *Workbook) CustomProperties() []CustomProperty {
	out := make([]CustomProperty, len(wb.custom))
	copy(out, wb.custom)
	return out
}

// Protect locks the workbook structure. An empty password stores the locks
// without a hash. The zero WorkbookProtection still locks structure, which
// is what Excel does when protecting with no options.
func (wb *Workbook) Protect(password string, p WorkbookProtection) {
	if !p.LockStructure && !p.LockWindows && !p.LockRevision {
		p.LockStructure = true
	}
	if password != "" {
		p.Hash = hashPassword(password)
	}
	wb.protection = &p
}

// Unprotect removes workbook protection.
func (wb *Workbook) Unprotect() { wb.protection = nil }

// IsProtected reports whether workbook protection is set.
func (wb *Workbook) IsProtected() bool { return wb.protection != nil }

// Protection returns the protection record and whether one is set.
func (wb *Workbook) Protection() (WorkbookProtection, bool) {
	if wb.protection == nil {
		return WorkbookProtection{}, false
	}
	return *wb.protection, true
}

// Warnings returns the recoverable-anomaly warnings collected by the last
// write or lenient read, in occurrence order.
func (wb *Workbook) Warnings() []string {
	out := make([]string, len(wb.warnings))
	copy(out, wb.warnings)
	return out
}

// StyleID interns a style record and returns its index.
func (wb *Workbook) StyleID(s Style) int { return wb.styles.intern(s) }

// StyleByID resolves an interned style index.
func (wb *Workbook) StyleByID(id int) (Style, error) {
	s, ok := wb.styles.resolve(id)
	if !ok {
		return Style{}, fmt.Errorf("%w: style index %d", ErrInvalidArgument, id)
	}
	return s, nil
}

// SetNumFmtCode interns a style carrying only a custom number-format code
// and returns its style index. The code must tokenize as a number format.
func (wb *Workbook) SetNumFmtCode(code string) (int, error) {
	if !validNumFmtCode(code) {
		return 0, fmt.Errorf("%w: number format code %q", ErrInvalidArgument, code)
	}
	return wb.styles.intern(Style{NumFmtCode: code}), nil
}

// rewriteSheetPrefix replaces "old!"-style sheet prefixes in address text,
// handling the quoted form 'old name'!.
func rewriteSheetPrefix(text, oldName, newName string) string {
	text = strings.ReplaceAll(text, "'"+oldName+"'!", "'"+newName+"'!")
	return strings.ReplaceAll(text, oldName+"!", newName+"!")
}
