package oxcel

import "encoding/xml"

// XML mappings for the package parts. The same structs drive both the
// reader and the writer so the two directions cannot disagree about shape.
// Fields carry local names only, which keeps unmarshalling tolerant of
// namespace-prefix variation; the root XMLName pins the default namespace
// for output.

const (
	nsMain         = "http://schemas.openxmlformats.org/spreadsheetml/2006/main"
	nsRel          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPkgRel       = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsContentTypes = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsCoreProps    = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	nsDC           = "http://purl.org/dc/elements/1.1/"
	nsDCTerms      = "http://purl.org/dc/terms/"
	nsXSI          = "http://www.w3.org/2001/XMLSchema-instance"
	nsExtProps     = "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"
	nsCustomProps  = "http://schemas.openxmlformats.org/officeDocument/2006/custom-properties"
	nsVTypes       = "http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes"
	nsDrawing      = "http://schemas.openxmlformats.org/drawingml/2006/spreadsheetDrawing"
	nsDrawingMain  = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsChart        = "http://schemas.openxmlformats.org/drawingml/2006/chart"

	relTypeOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relTypeCoreProps      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relTypeExtProps       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	relTypeCustomProps    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/custom-properties"
	relTypeWorksheet      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet"
	relTypeSharedStrings  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/sharedStrings"
	relTypeStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relTypeTable          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/table"
	relTypeDrawing        = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/drawing"
	relTypeImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	relTypeChart          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/chart"
	relTypeHyperlink      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"
	relTypeComments       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/comments"
	relTypeVMLDrawing     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/vmlDrawing"
	relTypeOleObject      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/oleObject"
	relTypePivotTable     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/pivotTable"
	relTypePivotCacheDef  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/pivotCacheDefinition"

	ctWorkbook      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"
	ctWorksheet     = "application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"
	ctSharedStrings = "application/vnd.openxmlformats-officedocument.spreadsheetml.sharedStrings+xml"
	ctStyles        = "application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml"
	ctTable         = "application/vnd.openxmlformats-officedocument.spreadsheetml.table+xml"
	ctCoreProps     = "application/vnd.openxmlformats-package.core-properties+xml"
	ctExtProps      = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
	ctCustomProps   = "application/vnd.openxmlformats-officedocument.custom-properties+xml"
	ctRels          = "application/vnd.openxmlformats-package.relationships+xml"
	ctXML           = "application/xml"
	ctDrawing       = "application/vnd.openxmlformats-officedocument.drawing+xml"
	ctChart         = "application/vnd.openxmlformats-officedocument.drawingml.chart+xml"
	ctComments      = "application/vnd.openxmlformats-officedocument.spreadsheetml.comments+xml"
	ctVMLDrawing    = "application/vnd.openxmlformats-officedocument.vmlDrawing"
	ctOleObject     = "application/vnd.openxmlformats-officedocument.oleObject"
	ctPivotTable    = "application/vnd.openxmlformats-officedocument.spreadsheetml.pivotTable+xml"
	ctPivotCacheDef = "application/vnd.openxmlformats-officedocument.spreadsheetml.pivotCacheDefinition+xml"
)

// [Content_Types].xml

type ctTypes struct {
	XMLName   xml.Name     `xml:"http://schemas.openxmlformats.org/package/2006/content-types Types"`
	Defaults  []ctDefault  `xml:"Default"`
	Overrides []ctOverride `xml:"Override"`
}

type ctDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type ctOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// .rels parts

type xlsxRelationships struct {
	XMLName       xml.Name           `xml:"http://schemas.openxmlformats.org/package/2006/relationships Relationships"`
	Relationships []xlsxRelationship `xml:"Relationship"`
}

type xlsxRelationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

// xl/workbook.xml

type xlsxWorkbook struct {
	XMLName            xml.Name                `xml:"http://schemas.openxmlformats.org/spreadsheetml/2006/main workbook"`
	FileVersion        *xlsxFileVersion        `xml:"fileVersion"`
	WorkbookPr         *xlsxWorkbookPr         `xml:"workbookPr"`
	WorkbookProtection *xlsxWorkbookProtection `xml:"workbookProtection"`
	BookViews          *xlsxBookViews          `xml:"bookViews"`
	Sheets             xlsxSheets              `xml:"sheets"`
	DefinedNames       *xlsxDefinedNames       `xml:"definedNames"`
	PivotCaches        *xlsxPivotCaches        `xml:"pivotCaches"`
	CalcPr             *xlsxCalcPr             `xml:"calcPr"`
}

type xlsxFileVersion struct {
	AppName string `xml:"appName,attr,omitempty"`
}

type xlsxWorkbookPr struct {
	Date1904 bool `xml:"date1904,attr,omitempty"`
}

type xlsxWorkbookProtection struct {
	LockStructure         bool   `xml:"lockStructure,attr,omitempty"`
	LockWindows           bool   `xml:"lockWindows,attr,omitempty"`
	LockRevision          bool   `xml:"lockRevision,attr,omitempty"`
	WorkbookPassword      string `xml:"workbookPassword,attr,omitempty"`
	WorkbookAlgorithmName string `xml:"workbookAlgorithmName,attr,omitempty"`
	WorkbookHashValue     string `xml:"workbookHashValue,attr,omitempty"`
	WorkbookSaltValue     string `xml:"workbookSaltValue,attr,omitempty"`
	WorkbookSpinCount     int    `xml:"workbookSpinCount,attr,omitempty"`
}

type xlsxBookViews struct {
	WorkBookView []xlsxWorkBookView `xml:"workbookView"`
}

type xlsxWorkBookView struct {
	XWindow      int `xml:"xWindow,attr"`
	YWindow      int `xml:"yWindow,attr"`
	WindowWidth  int `xml:"windowWidth,attr,omitempty"`
	WindowHeight int `xml:"windowHeight,attr,omitempty"`
	ActiveTab    int `xml:"activeTab,attr,omitempty"`
}

type xlsxSheets struct {
	Sheet []xlsxSheet `xml:"sheet"`
}

type xlsxSheet struct {
	Name    string `xml:"name,attr"`
	SheetID int    `xml:"sheetId,attr"`
	State   string `xml:"state,attr,omitempty"`
	RID     string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
}

type xlsxDefinedNames struct {
	DefinedName []xlsxDefinedName `xml:"definedName"`
}

type xlsxDefinedName struct {
	Name         string `xml:"name,attr"`
	Comment      string `xml:"comment,attr,omitempty"`
	Hidden       bool   `xml:"hidden,attr,omitempty"`
	LocalSheetID *int   `xml:"localSheetId,attr"`
	Data         string `xml:",chardata"`
}

type xlsxPivotCaches struct {
	PivotCache []xlsxPivotCacheRef `xml:"pivotCache"`
}

type xlsxPivotCacheRef struct {
	CacheID int    `xml:"cacheId,attr"`
	RID     string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
}

type xlsxCalcPr struct {
	FullCalcOnLoad bool `xml:"fullCalcOnLoad,attr,omitempty"`
}

// xl/sharedStrings.xml

type xlsxSST struct {
	XMLName     xml.Name `xml:"http://schemas.openxmlformats.org/spreadsheetml/2006/main sst"`
	Count       int      `xml:"count,attr"`
	UniqueCount int      `xml:"uniqueCount,attr"`
	SI          []xlsxSI `xml:"si"`
}

type xlsxSI struct {
	T *xlsxText `xml:"t"`
	R []xlsxRun `xml:"r"`
}

type xlsxText struct {
	Space string `xml:"http://www.w3.org/XML/1998/namespace space,attr,omitempty"`
	Value string `xml:",chardata"`
}

type xlsxRun struct {
	RPr *xlsxRunProperties `xml:"rPr"`
	T   xlsxText           `xml:"t"`
}

type xlsxRunProperties struct {
	B      *xlsxBoolAttr `xml:"b"`
	I      *xlsxBoolAttr `xml:"i"`
	Strike *xlsxBoolAttr `xml:"strike"`
	U      *xlsxValAttrS `xml:"u"`
	Sz     *xlsxValAttrF `xml:"sz"`
	Color  *xlsxColor    `xml:"color"`
	RFont  *xlsxValAttrS `xml:"rFont"`
	Family *xlsxValAttrI `xml:"family"`
	Scheme *xlsxValAttrS `xml:"scheme"`
}

type xlsxBoolAttr struct {
	Val *bool `xml:"val,attr"`
}

type xlsxValAttrS struct {
	Val string `xml:"val,attr"`
}

type xlsxValAttrI struct {
	Val int `xml:"val,attr"`
}

type xlsxValAttrF struct {
	Val float64 `xml:"val,attr"`
}

type xlsxColor struct {
	RGB     string  `xml:"rgb,attr,omitempty"`
	Theme   *int    `xml:"theme,attr"`
	Indexed *int    `xml:"indexed,attr"`
	Tint    float64 `xml:"tint,attr,omitempty"`
	Auto    bool    `xml:"auto,attr,omitempty"`
}

// xl/styles.xml

type xlsxStyleSheet struct {
	XMLName xml.Name     `xml:"http://schemas.openxmlformats.org/spreadsheetml/2006/main styleSheet"`
	NumFmts *xlsxNumFmts `xml:"numFmts"`
	Fonts   *xlsxFonts   `xml:"fonts"`
	Fills   *xlsxFills   `xml:"fills"`
	Borders *xlsxBorders `xml:"borders"`
	CellXfs *xlsxCellXfs `xml:"cellXfs"`
	Dxfs    *xlsxDxfs    `xml:"dxfs"`
}

type xlsxNumFmts struct {
	Count  int          `xml:"count,attr"`
	NumFmt []xlsxNumFmt `xml:"numFmt"`
}

type xlsxNumFmt struct {
	NumFmtID   int    `xml:"numFmtId,attr"`
	FormatCode string `xml:"formatCode,attr"`
}

type xlsxFonts struct {
	Count int        `xml:"count,attr"`
	Font  []xlsxFont `xml:"font"`
}

type xlsxFont struct {
	B      *xlsxBoolAttr `xml:"b"`
	I      *xlsxBoolAttr `xml:"i"`
	Strike *xlsxBoolAttr `xml:"strike"`
	U      *xlsxValAttrS `xml:"u"`
	Sz     *xlsxValAttrF `xml:"sz"`
	Color  *xlsxColor    `xml:"color"`
	Name   *xlsxValAttrS `xml:"name"`
	Family *xlsxValAttrI `xml:"family"`
	Scheme *xlsxValAttrS `xml:"scheme"`
}

type xlsxFills struct {
	Count int        `xml:"count,attr"`
	Fill  []xlsxFill `xml:"fill"`
}

type xlsxFill struct {
	PatternFill  *xlsxPatternFill  `xml:"patternFill"`
	GradientFill *xlsxGradientFill `xml:"gradientFill"`
}

type xlsxPatternFill struct {
	PatternType string     `xml:"patternType,attr,omitempty"`
	FgColor     *xlsxColor `xml:"fgColor"`
	BgColor     *xlsxColor `xml:"bgColor"`
}

type xlsxGradientFill struct {
	Degree float64            `xml:"degree,attr,omitempty"`
	Stop   []xlsxGradientStop `xml:"stop"`
}

type xlsxGradientStop struct {
	Position float64   `xml:"position,attr"`
	Color    xlsxColor `xml:"color"`
}

type xlsxBorders struct {
	Count  int          `xml:"count,attr"`
	Border []xlsxBorder `xml:"border"`
}

type xlsxBorder struct {
	DiagonalUp   bool            `xml:"diagonalUp,attr,omitempty"`
	DiagonalDown bool            `xml:"diagonalDown,attr,omitempty"`
	Left         *xlsxBorderEdge `xml:"left"`
	Right        *xlsxBorderEdge `xml:"right"`
	Top          *xlsxBorderEdge `xml:"top"`
	Bottom       *xlsxBorderEdge `xml:"bottom"`
	Diagonal     *xlsxBorderEdge `xml:"diagonal"`
}

type xlsxBorderEdge struct {
	Style string     `xml:"style,attr,omitempty"`
	Color *xlsxColor `xml:"color"`
}

type xlsxCellXfs struct {
	Count int      `xml:"count,attr"`
	Xf    []xlsxXf `xml:"xf"`
}

type xlsxXf struct {
	NumFmtID          int             `xml:"numFmtId,attr"`
	FontID            int             `xml:"fontId,attr"`
	FillID            int             `xml:"fillId,attr"`
	BorderID          int             `xml:"borderId,attr"`
	ApplyNumberFormat bool            `xml:"applyNumberFormat,attr,omitempty"`
	ApplyFont         bool            `xml:"applyFont,attr,omitempty"`
	ApplyFill         bool            `xml:"applyFill,attr,omitempty"`
	ApplyBorder       bool            `xml:"applyBorder,attr,omitempty"`
	ApplyAlignment    bool            `xml:"applyAlignment,attr,omitempty"`
	ApplyProtection   bool            `xml:"applyProtection,attr,omitempty"`
	Alignment         *xlsxAlignment  `xml:"alignment"`
	Protection        *xlsxProtection `xml:"protection"`
}

type xlsxAlignment struct {
	Horizontal   string `xml:"horizontal,attr,omitempty"`
	Vertical     string `xml:"vertical,attr,omitempty"`
	WrapText     bool   `xml:"wrapText,attr,omitempty"`
	TextRotation int    `xml:"textRotation,attr,omitempty"`
	Indent       int    `xml:"indent,attr,omitempty"`
	ShrinkToFit  bool   `xml:"shrinkToFit,attr,omitempty"`
}

type xlsxProtection struct {
	Locked *bool `xml:"locked,attr"`
	Hidden *bool `xml:"hidden,attr"`
}

type xlsxDxfs struct {
	Count int       `xml:"count,attr"`
	Dxf   []xlsxDxf `xml:"dxf"`
}

type xlsxDxf struct {
	Font   *xlsxFont   `xml:"font"`
	Fill   *xlsxFill   `xml:"fill"`
	Border *xlsxBorder `xml:"border"`
}

// xl/worksheets/sheetN.xml

type xlsxWorksheet struct {
	XMLName               xml.Name                    `xml:"http://schemas.openxmlformats.org/spreadsheetml/2006/main worksheet"`
	SheetPr               *xlsxSheetPr                `xml:"sheetPr"`
	Dimension             *xlsxDimension              `xml:"dimension"`
	SheetViews            *xlsxSheetViews             `xml:"sheetViews"`
	Cols                  *xlsxCols                   `xml:"cols"`
	SheetData             xlsxSheetData               `xml:"sheetData"`
	SheetProtection       *xlsxSheetProtection        `xml:"sheetProtection"`
	AutoFilter            *xlsxAutoFilter             `xml:"autoFilter"`
	MergeCells            *xlsxMergeCells             `xml:"mergeCells"`
	ConditionalFormatting []xlsxConditionalFormatting `xml:"conditionalFormatting"`
	DataValidations       *xlsxDataValidations        `xml:"dataValidations"`
	Hyperlinks            *xlsxHyperlinks             `xml:"hyperlinks"`
	PrintOptions          *xlsxPrintOptions           `xml:"printOptions"`
	PageMargins           *xlsxPageMargins            `xml:"pageMargins"`
	PageSetup             *xlsxPageSetup              `xml:"pageSetup"`
	HeaderFooter          *xlsxHeaderFooter           `xml:"headerFooter"`
	RowBreaks             *xlsxBreaks                 `xml:"rowBreaks"`
	ColBreaks             *xlsxBreaks                 `xml:"colBreaks"`
	Drawing               *xlsxRIDRef                 `xml:"drawing"`
	LegacyDrawing         *xlsxRIDRef                 `xml:"legacyDrawing"`
	OleObjects            *xlsxOleObjects             `xml:"oleObjects"`
	TableParts            *xlsxTableParts             `xml:"tableParts"`
}

type xlsxSheetPr struct {
	TabColor *xlsxColor `xml:"tabColor"`
}

type xlsxDimension struct {
	Ref string `xml:"ref,attr"`
}

type xlsxSheetViews struct {
	SheetView []xlsxSheetView `xml:"sheetView"`
}

type xlsxSheetView struct {
	ShowGridLines  *bool           `xml:"showGridLines,attr"`
	TabSelected    bool            `xml:"tabSelected,attr,omitempty"`
	View           string          `xml:"view,attr,omitempty"`
	ZoomScale      int             `xml:"zoomScale,attr,omitempty"`
	WorkbookViewID int             `xml:"workbookViewId,attr"`
	Pane           *xlsxPane       `xml:"pane"`
	Selection      []xlsxSelection `xml:"selection"`
}

type xlsxPane struct {
	XSplit      float64 `xml:"xSplit,attr,omitempty"`
	YSplit      float64 `xml:"ySplit,attr,omitempty"`
	TopLeftCell string  `xml:"topLeftCell,attr,omitempty"`
	ActivePane  string  `xml:"activePane,attr,omitempty"`
	State       string  `xml:"state,attr,omitempty"`
}

type xlsxSelection struct {
	Pane       string `xml:"pane,attr,omitempty"`
	ActiveCell string `xml:"activeCell,attr,omitempty"`
	SQRef      string `xml:"sqref,attr,omitempty"`
}

type xlsxCols struct {
	Col []xlsxCol `xml:"col"`
}

type xlsxCol struct {
	Min         int     `xml:"min,attr"`
	Max         int     `xml:"max,attr"`
	Width       float64 `xml:"width,attr,omitempty"`
	CustomWidth bool    `xml:"customWidth,attr,omitempty"`
	BestFit     bool    `xml:"bestFit,attr,omitempty"`
	Hidden      bool    `xml:"hidden,attr,omitempty"`
}

type xlsxSheetData struct {
	Row []xlsxRow `xml:"row"`
}

type xlsxRow struct {
	R            int     `xml:"r,attr"`
	Ht           float64 `xml:"ht,attr,omitempty"`
	CustomHeight bool    `xml:"customHeight,attr,omitempty"`
	Hidden       bool    `xml:"hidden,attr,omitempty"`
	C            []xlsxC `xml:"c"`
}

type xlsxC struct {
	R  string  `xml:"r,attr"`
	S  int     `xml:"s,attr,omitempty"`
	T  string  `xml:"t,attr,omitempty"`
	F  *xlsxF  `xml:"f"`
	V  string  `xml:"v,omitempty"`
	IS *xlsxSI `xml:"is"`
}

type xlsxF struct {
	T       string `xml:"t,attr,omitempty"`
	Ref     string `xml:"ref,attr,omitempty"`
	SI      *int   `xml:"si,attr"`
	Dt2D    bool   `xml:"dt2D,attr,omitempty"`
	Dtr     bool   `xml:"dtr,attr,omitempty"`
	Del1    bool   `xml:"del1,attr,omitempty"`
	Del2    bool   `xml:"del2,attr,omitempty"`
	R1      string `xml:"r1,attr,omitempty"`
	R2      string `xml:"r2,attr,omitempty"`
	Content string `xml:",chardata"`
}

type xlsxSheetProtection struct {
	AlgorithmName       string `xml:"algorithmName,attr,omitempty"`
	HashValue           string `xml:"hashValue,attr,omitempty"`
	SaltValue           string `xml:"saltValue,attr,omitempty"`
	SpinCount           int    `xml:"spinCount,attr,omitempty"`
	Password            string `xml:"password,attr,omitempty"`
	Sheet               bool   `xml:"sheet,attr,omitempty"`
	Objects             bool   `xml:"objects,attr,omitempty"`
	Scenarios           bool   `xml:"scenarios,attr,omitempty"`
	FormatCells         bool   `xml:"formatCells,attr,omitempty"`
	FormatColumns       bool   `xml:"formatColumns,attr,omitempty"`
	FormatRows          bool   `xml:"formatRows,attr,omitempty"`
	InsertColumns       bool   `xml:"insertColumns,attr,omitempty"`
	InsertRows          bool   `xml:"insertRows,attr,omitempty"`
	InsertHyperlinks    bool   `xml:"insertHyperlinks,attr,omitempty"`
	DeleteColumns       bool   `xml:"deleteColumns,attr,omitempty"`
	DeleteRows          bool   `xml:"deleteRows,attr,omitempty"`
	SelectLockedCells   bool   `xml:"selectLockedCells,attr,omitempty"`
	SelectUnlockedCells bool   `xml:"selectUnlockedCells,attr,omitempty"`
	Sort                bool   `xml:"sort,attr,omitempty"`
	AutoFilter          bool   `xml:"autoFilter,attr,omitempty"`
	PivotTables         bool   `xml:"pivotTables,attr,omitempty"`
}

type xlsxAutoFilter struct {
	Ref string `xml:"ref,attr"`
}

type xlsxMergeCells struct {
	Count     int             `xml:"count,attr"`
	MergeCell []xlsxMergeCell `xml:"mergeCell"`
}

type xlsxMergeCell struct {
	Ref string `xml:"ref,attr"`
}

type xlsxConditionalFormatting struct {
	SQRef  string       `xml:"sqref,attr"`
	CfRule []xlsxCfRule `xml:"cfRule"`
}

type xlsxCfRule struct {
	Type         string          `xml:"type,attr"`
	DxfID        *int            `xml:"dxfId,attr"`
	Priority     int             `xml:"priority,attr"`
	Operator     string          `xml:"operator,attr,omitempty"`
	Text         string          `xml:"text,attr,omitempty"`
	Rank         int             `xml:"rank,attr,omitempty"`
	Bottom       bool            `xml:"bottom,attr,omitempty"`
	Percent      bool            `xml:"percent,attr,omitempty"`
	AboveAverage *bool           `xml:"aboveAverage,attr"`
	StdDev       int             `xml:"stdDev,attr,omitempty"`
	Formula      []string        `xml:"formula"`
	ColorScale   *xlsxColorScale `xml:"colorScale"`
	DataBar      *xlsxDataBar    `xml:"dataBar"`
	IconSet      *xlsxIconSet    `xml:"iconSet"`
}

type xlsxColorScale struct {
	Cfvo  []xlsxCfvo  `xml:"cfvo"`
	Color []xlsxColor `xml:"color"`
}

type xlsxDataBar struct {
	Cfvo  []xlsxCfvo  `xml:"cfvo"`
	Color []xlsxColor `xml:"color"`
}

type xlsxIconSet struct {
	IconSet string     `xml:"iconSet,attr,omitempty"`
	Cfvo    []xlsxCfvo `xml:"cfvo"`
}

type xlsxCfvo struct {
	Type string `xml:"type,attr"`
	Val  string `xml:"val,attr,omitempty"`
}

type xlsxDataValidations struct {
	Count          int                  `xml:"count,attr"`
	DataValidation []xlsxDataValidation `xml:"dataValidation"`
}

type xlsxDataValidation struct {
	Type             string `xml:"type,attr,omitempty"`
	Operator         string `xml:"operator,attr,omitempty"`
	AllowBlank       bool   `xml:"allowBlank,attr,omitempty"`
	ShowInputMessage bool   `xml:"showInputMessage,attr,omitempty"`
	ShowErrorMessage bool   `xml:"showErrorMessage,attr,omitempty"`
	ErrorTitle       string `xml:"errorTitle,attr,omitempty"`
	Error            string `xml:"error,attr,omitempty"`
	PromptTitle      string `xml:"promptTitle,attr,omitempty"`
	Prompt           string `xml:"prompt,attr,omitempty"`
	SQRef            string `xml:"sqref,attr"`
	Formula1         string `xml:"formula1,omitempty"`
	Formula2         string `xml:"formula2,omitempty"`
}

type xlsxHyperlinks struct {
	Hyperlink []xlsxHyperlink `xml:"hyperlink"`
}

type xlsxHyperlink struct {
	Ref      string `xml:"ref,attr"`
	Location string `xml:"location,attr,omitempty"`
	Tooltip  string `xml:"tooltip,attr,omitempty"`
	RID      string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr,omitempty"`
}

type xlsxPrintOptions struct {
	GridLines bool `xml:"gridLines,attr,omitempty"`
}

type xlsxPageMargins struct {
	Left   float64 `xml:"left,attr"`
	Right  float64 `xml:"right,attr"`
	Top    float64 `xml:"top,attr"`
	Bottom float64 `xml:"bottom,attr"`
	Header float64 `xml:"header,attr"`
	Footer float64 `xml:"footer,attr"`
}

type xlsxPageSetup struct {
	PaperSize     int    `xml:"paperSize,attr,omitempty"`
	Scale         int    `xml:"scale,attr,omitempty"`
	FitToWidth    int    `xml:"fitToWidth,attr,omitempty"`
	FitToHeight   int    `xml:"fitToHeight,attr,omitempty"`
	Orientation   string `xml:"orientation,attr,omitempty"`
	BlackAndWhite bool   `xml:"blackAndWhite,attr,omitempty"`
}

type xlsxHeaderFooter struct {
	OddHeader string `xml:"oddHeader,omitempty"`
	OddFooter string `xml:"oddFooter,omitempty"`
}

type xlsxBreaks struct {
	Count            int       `xml:"count,attr"`
	ManualBreakCount int       `xml:"manualBreakCount,attr"`
	Brk              []xlsxBrk `xml:"brk"`
}

type xlsxBrk struct {
	ID  int  `xml:"id,attr"`
	Max int  `xml:"max,attr,omitempty"`
	Man bool `xml:"man,attr,omitempty"`
}

type xlsxRIDRef struct {
	RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
}

type xlsxOleObjects struct {
	OleObject []xlsxOleObject `xml:"oleObject"`
}

type xlsxOleObject struct {
	ProgID string `xml:"progId,attr"`
	RID    string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
}

type xlsxTableParts struct {
	Count     int             `xml:"count,attr"`
	TablePart []xlsxTablePart `xml:"tablePart"`
}

type xlsxTablePart struct {
	RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
}

// xl/tables/tableN.xml

type xlsxTable struct {
	XMLName        xml.Name         `xml:"http://schemas.openxmlformats.org/spreadsheetml/2006/main table"`
	ID             int              `xml:"id,attr"`
	Name           string           `xml:"name,attr"`
	DisplayName    string           `xml:"displayName,attr"`
	Ref            string           `xml:"ref,attr"`
	TotalsRowCount int              `xml:"totalsRowCount,attr,omitempty"`
	TotalsRowShown *bool            `xml:"totalsRowShown,attr"`
	AutoFilter     *xlsxAutoFilter  `xml:"autoFilter"`
	TableColumns   xlsxTableColumns `xml:"tableColumns"`
	TableStyleInfo *xlsxTableStyle  `xml:"tableStyleInfo"`
}

type xlsxTableColumns struct {
	Count       int               `xml:"count,attr"`
	TableColumn []xlsxTableColumn `xml:"tableColumn"`
}

type xlsxTableColumn struct {
	ID                int    `xml:"id,attr"`
	Name              string `xml:"name,attr"`
	TotalsRowFunction string `xml:"totalsRowFunction,attr,omitempty"`
	TotalsRowLabel    string `xml:"totalsRowLabel,attr,omitempty"`
}

type xlsxTableStyle struct {
	Name              string `xml:"name,attr,omitempty"`
	ShowFirstColumn   bool   `xml:"showFirstColumn,attr"`
	ShowLastColumn    bool   `xml:"showLastColumn,attr"`
	ShowRowStripes    bool   `xml:"showRowStripes,attr"`
	ShowColumnStripes bool   `xml:"showColumnStripes,attr"`
}

// xl/pivotCache/pivotCacheDefinitionN.xml

type xlsxPivotCacheDefinition struct {
	XMLName       xml.Name        `xml:"http://schemas.openxmlformats.org/spreadsheetml/2006/main pivotCacheDefinition"`
	RefreshOnLoad bool            `xml:"refreshOnLoad,attr,omitempty"`
	CacheSource   xlsxCacheSource `xml:"cacheSource"`
	CacheFields   xlsxCacheFields `xml:"cacheFields"`
}

type xlsxCacheSource struct {
	Type            string               `xml:"type,attr"`
	WorksheetSource *xlsxWorksheetSource `xml:"worksheetSource"`
}

type xlsxWorksheetSource struct {
	Ref   string `xml:"ref,attr,omitempty"`
	Sheet string `xml:"sheet,attr,omitempty"`
}

type xlsxCacheFields struct {
	Count      int              `xml:"count,attr"`
	CacheField []xlsxCacheField `xml:"cacheField"`
}

type xlsxCacheField struct {
	Name        string           `xml:"name,attr"`
	NumFmtID    int              `xml:"numFmtId,attr"`
	SharedItems *xlsxSharedItems `xml:"sharedItems"`
}

type xlsxSharedItems struct {
	Count int            `xml:"count,attr,omitempty"`
	S     []xlsxValAttrS `xml:"s"`
}

// xl/pivotTables/pivotTableN.xml

type xlsxPivotTableDefinition struct {
	XMLName     xml.Name          `xml:"http://schemas.openxmlformats.org/spreadsheetml/2006/main pivotTableDefinition"`
	Name        string            `xml:"name,attr"`
	CacheID     int               `xml:"cacheId,attr"`
	Location    xlsxPivotLocation `xml:"location"`
	PivotFields *xlsxPivotFields  `xml:"pivotFields"`
	RowFields   *xlsxFieldIndexes `xml:"rowFields"`
	ColFields   *xlsxFieldIndexes `xml:"colFields"`
	DataFields  *xlsxDataFields   `xml:"dataFields"`
}

type xlsxPivotLocation struct {
	Ref            string `xml:"ref,attr"`
	FirstHeaderRow int    `xml:"firstHeaderRow,attr"`
	FirstDataRow   int    `xml:"firstDataRow,attr"`
	FirstDataCol   int    `xml:"firstDataCol,attr"`
}

type xlsxPivotFields struct {
	Count      int              `xml:"count,attr"`
	PivotField []xlsxPivotField `xml:"pivotField"`
}

type xlsxPivotField struct {
	Axis      string `xml:"axis,attr,omitempty"`
	DataField bool   `xml:"dataField,attr,omitempty"`
	ShowAll   bool   `xml:"showAll,attr"`
}

type xlsxFieldIndexes struct {
	Count int            `xml:"count,attr"`
	Field []xlsxFieldIdx `xml:"field"`
}

type xlsxFieldIdx struct {
	X int `xml:"x,attr"`
}

type xlsxDataFields struct {
	Count     int             `xml:"count,attr"`
	DataField []xlsxDataField `xml:"dataField"`
}

type xlsxDataField struct {
	Name      string `xml:"name,attr,omitempty"`
	Fld       int    `xml:"fld,attr"`
	Subtotal  string `xml:"subtotal,attr,omitempty"`
	BaseField int    `xml:"baseField,attr,omitempty"`
	BaseItem  int    `xml:"baseItem,attr,omitempty"`
}

// xl/commentsN.xml

type xlsxComments struct {
	XMLName     xml.Name        `xml:"http://schemas.openxmlformats.org/spreadsheetml/2006/main comments"`
	Authors     xlsxAuthors     `xml:"authors"`
	CommentList xlsxCommentList `xml:"commentList"`
}

type xlsxAuthors struct {
	Author []string `xml:"author"`
}

type xlsxCommentList struct {
	Comment []xlsxComment `xml:"comment"`
}

type xlsxComment struct {
	Ref      string `xml:"ref,attr"`
	AuthorID int    `xml:"authorId,attr"`
	Text     xlsxSI `xml:"text"`
}

// docProps/core.xml

type xlsxCoreProperties struct {
	XMLName        xml.Name  `xml:"http://schemas.openxmlformats.org/package/2006/metadata/core-properties coreProperties"`
	Title          string    `xml:"http://purl.org/dc/elements/1.1/ title,omitempty"`
	Subject        string    `xml:"http://purl.org/dc/elements/1.1/ subject,omitempty"`
	Creator        string    `xml:"http://purl.org/dc/elements/1.1/ creator,omitempty"`
	Description    string    `xml:"http://purl.org/dc/elements/1.1/ description,omitempty"`
	Keywords       string    `xml:"keywords,omitempty"`
	LastModifiedBy string    `xml:"lastModifiedBy,omitempty"`
	Category       string    `xml:"category,omitempty"`
	Created        *xlsxDate `xml:"http://purl.org/dc/terms/ created"`
	Modified       *xlsxDate `xml:"http://purl.org/dc/terms/ modified"`
}

type xlsxDate struct {
	Type  string `xml:"http://www.w3.org/2001/XMLSchema-instance type,attr,omitempty"`
	Value string `xml:",chardata"`
}

// docProps/app.xml

type xlsxAppProperties struct {
	XMLName     xml.Name `xml:"http://schemas.openxmlformats.org/officeDocument/2006/extended-properties Properties"`
	Application string   `xml:"Application,omitempty"`
	Company     string   `xml:"Company,omitempty"`
}

// docProps/custom.xml

type xlsxCustomProperties struct {
	XMLName  xml.Name             `xml:"http://schemas.openxmlformats.org/officeDocument/2006/custom-properties Properties"`
	Property []xlsxCustomProperty `xml:"property"`
}

type xlsxCustomProperty struct {
	FmtID    string   `xml:"fmtid,attr"`
	PID      int      `xml:"pid,attr"`
	Name     string   `xml:"name,attr"`
	Lpwstr   *string  `xml:"http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes lpwstr"`
	R8       *float64 `xml:"http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes r8"`
	Bool     *bool    `xml:"http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes bool"`
	Filetime *string  `xml:"http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes filetime"`
}

const customPropsFmtID = "{D5CDD505-2E9C-101B-9397-08002B2CF9AE}"
