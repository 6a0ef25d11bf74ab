package oxcel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tiendc/go-deepcopy"
	"github.com/xuri/nfp"
)

// Font describes character formatting.
type Font struct {
	Name      string
	Size      float64
	Bold      bool
	Italic    bool
	Underline string // "", "single", "double"
	Strike    bool
	Family    int
	Scheme    string // "", "major", "minor"
	Color     string // ARGB, normalized
}

// GradientStop is one color stop of a gradient fill. Position lies in [0,1].
type GradientStop struct {
	Position float64
	Color    string
}

// Fill describes cell shading: either a pattern fill or a gradient fill.
// A non-empty Gradient list selects the gradient variant.
type Fill struct {
	Pattern  string // "none", "solid", "gray125", ...
	FgColor  string
	BgColor  string
	Angle    float64
	Gradient []GradientStop
}

// BorderEdge is the style of one border side.
type BorderEdge struct {
	Style string // "", "thin", "medium", "thick", "dashed", "dotted", "double", ...
	Color string
}

// Border describes all four edges plus the diagonal.
type Border struct {
	Left     BorderEdge
	Right    BorderEdge
	Top      BorderEdge
	Bottom   BorderEdge
	Diagonal BorderEdge
	DiagUp   bool
	DiagDown bool
}

// Alignment describes in-cell content placement.
type Alignment struct {
	Horizontal string // "", "left", "center", "right", "fill", "justify", ...
	Vertical   string // "", "top", "center", "bottom", "justify"
	WrapText   bool
	Rotation   int // degrees, -90..90 or 255 for vertical text
	Indent     int
	ShrinkFit  bool
}

// StyleProtection mirrors the cell-level protection flags. They only take
// effect while the owning sheet is protected.
type StyleProtection struct {
	Locked bool
	Hidden bool
}

// Style is one cell format record. Cells reference styles by registry index,
// never by inline copy; structurally identical records share one index.
type Style struct {
	Font       *Font
	Fill       *Fill
	Border     *Border
	Alignment  *Alignment
	NumFmtID   int    // built-in number format id; ignored when NumFmtCode set
	NumFmtCode string // custom number format code
	Protection *StyleProtection
}

// NormalizeARGB canonicalizes a color to 8 uppercase hex digits. Accepts
// "RGB" shorthand, "RRGGBB", "AARRGGBB" and an optional leading '#'. Returns
// "" for anything else.
func NormalizeARGB(c string) string {
	c = strings.TrimPrefix(strings.TrimSpace(c), "#")
	c = strings.ToUpper(c)
	for _, r := range c {
		if (r < '0' || r > '9') && (r < 'A' || r > 'F') {
			return ""
		}
	}
	switch len(c) {
	case 3:
		var b strings.Builder
		b.WriteString("FF")
		for _, r := range c {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		return b.String()
	case 6:
		return "FF" + c
	case 8:
		return c
	}
	return ""
}

// key renders the font canonically for dedup hashing.
func (f *Font) key() string {
	if f == nil {
		return "-"
	}
	return fmt.Sprintf("%s|%g|%t%t%s%t|%d|%s|%s",
		f.Name, f.Size, f.Bold, f.Italic, f.Underline, f.Strike, f.Family, f.Scheme, f.Color)
}

func (f *Fill) key() string {
	if f == nil {
		return "-"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s|%s|%g", f.Pattern, f.FgColor, f.BgColor, f.Angle)
	for _, st := range f.Gradient {
		fmt.Fprintf(&b, "|%g:%s", st.Position, st.Color)
	}
	return b.String()
}

func (e BorderEdge) key() string { return e.Style + ":" + e.Color }

func (bd *Border) key() string {
	if bd == nil {
		return "-"
	}
	return strings.Join([]string{
		bd.Left.key(), bd.Right.key(), bd.Top.key(), bd.Bottom.key(), bd.Diagonal.key(),
		strconv.FormatBool(bd.DiagUp), strconv.FormatBool(bd.DiagDown),
	}, "|")
}

func (a *Alignment) key() string {
	if a == nil {
		return "-"
	}
	return fmt.Sprintf("%s|%s|%t|%d|%d|%t",
		a.Horizontal, a.Vertical, a.WrapText, a.Rotation, a.Indent, a.ShrinkFit)
}

func (p *StyleProtection) key() string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%t|%t", p.Locked, p.Hidden)
}

// key is the canonical rendering used for content-addressed interning: deep
// structural equality without a linear registry scan.
func (s *Style) key() string {
	return strings.Join([]string{
		s.Font.key(), s.Fill.key(), s.Border.key(), s.Alignment.key(),
		strconv.Itoa(s.NumFmtID), s.NumFmtCode, s.Protection.key(),
	}, "\x1f")
}

// normalize canonicalizes every color the record carries so equal styles
// built from "ff0000" and "#FF0000" intern to one entry.
func (s *Style) normalize() {
	if s.Font != nil && s.Font.Color != "" {
		s.Font.Color = NormalizeARGB(s.Font.Color)
	}
	if s.Fill != nil {
		if s.Fill.FgColor != "" {
			s.Fill.FgColor = NormalizeARGB(s.Fill.FgColor)
		}
		if s.Fill.BgColor != "" {
			s.Fill.BgColor = NormalizeARGB(s.Fill.BgColor)
		}
		for i := range s.Fill.Gradient {
			s.Fill.Gradient[i].Color = NormalizeARGB(s.Fill.Gradient[i].Color)
		}
	}
	if s.Border != nil {
		for _, e := range []*BorderEdge{&s.Border.Left, &s.Border.Right, &s.Border.Top, &s.Border.Bottom, &s.Border.Diagonal} {
			if e.Color != "" {
				e.Color = NormalizeARGB(e.Color)
			}
		}
	}
}

// styleRegistry deduplicates style records. Index 0 is always the default
// (empty) style.
type styleRegistry struct {
	styles []Style
	index  map[string]int
}

func newStyleRegistry() *styleRegistry {
	r := &styleRegistry{index: map[string]int{}}
	def := Style{}
	r.styles = append(r.styles, def)
	r.index[def.key()] = 0
	return r
}

// intern returns the index of a structurally identical record, creating one
// when absent. The record is deep-copied first: the registry never shares a
// sub-record with the caller, and normalization never writes through the
// caller's pointers.
func (r *styleRegistry) intern(s Style) int {
	var rec Style
	_ = deepcopy.Copy(&rec, s) // plain-data record, cannot fail
	s = rec
	s.normalize()
	k := s.key()
	if i, ok := r.index[k]; ok {
		return i
	}
	i := len(r.styles)
	r.styles = append(r.styles, s)
	r.index[k] = i
	return i
}

// resolve returns the record at index i. Infallible for indices produced by
// intern; the ok result is false otherwise.
func (r *styleRegistry) resolve(i int) (Style, bool) {
	if i < 0 || i >= len(r.styles) {
		return Style{}, false
	}
	return r.styles[i], true
}

func (r *styleRegistry) count() int { return len(r.styles) }

// Built-in number formats, per ECMA-376 §18.8.30. Custom formats start at
// id 164.
var builtInNumFmt = map[int]string{
	0:  "general",
	1:  "0",
	2:  "0.00",
	3:  "#,##0",
	4:  "#,##0.00",
	9:  "0%",
	10: "0.00%",
	11: "0.00e+00",
	12: "# ?/?",
	13: "# ??/??",
	14: "mm-dd-yy",
	15: "d-mmm-yy",
	16: "d-mmm",
	17: "mmm-yy",
	18: "h:mm am/pm",
	19: "h:mm:ss am/pm",
	20: "h:mm",
	21: "h:mm:ss",
	22: "m/d/yy h:mm",
	37: "#,##0 ;(#,##0)",
	38: "#,##0 ;[red](#,##0)",
	39: "#,##0.00;(#,##0.00)",
	40: "#,##0.00;[red](#,##0.00)",
	45: "mm:ss",
	46: "[h]:mm:ss",
	47: "mmss.0",
	48: "##0.0e+0",
	49: "@",
}

const customNumFmtBase = 164

// builtInDateFmt holds the built-in ids whose format renders date or time.
var builtInDateFmt = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true,
	20: true, 21: true, 22: true, 45: true, 46: true, 47: true,
}

// isDateFormat reports whether a number format renders its value as a date
// or time. Custom codes are classified by tokenizing them with the
// number-format parser and looking for date/time token parts.
func isDateFormat(id int, code string) bool {
	if code == "" {
		return builtInDateFmt[id]
	}
	ps := nfp.NumberFormatParser()
	for _, section := range ps.Parse(code) {
		for _, token := range section.Items {
			switch token.TType {
			case nfp.TokenTypeDateTimes, nfp.TokenTypeElapsedDateTimes:
				return true
			}
		}
	}
	return false
}

// validNumFmtCode reports whether a custom number format code tokenizes into
// at least one recognizable section.
func validNumFmtCode(code string) bool {
	if strings.TrimSpace(code) == "" {
		return false
	}
	ps := nfp.NumberFormatParser()
	return len(ps.Parse(code)) > 0
}
