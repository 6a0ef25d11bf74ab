package oxcel

import "fmt"

// CondFmtType tags the conditional-formatting rule variant.
type CondFmtType string

const (
	CondCellValue  CondFmtType = "cellIs"
	CondText       CondFmtType = "text"
	CondTopBottom  CondFmtType = "top10"
	CondAverage    CondFmtType = "aboveAverage"
	CondColorScale CondFmtType = "colorScale"
	CondDataBar    CondFmtType = "dataBar"
	CondIconSet    CondFmtType = "iconSet"
)

// TextCondition is the comparison of a text rule.
type TextCondition string

const (
	TextContains    TextCondition = "containsText"
	TextNotContains TextCondition = "notContainsText"
	TextBeginsWith  TextCondition = "beginsWith"
	TextEndsWith    TextCondition = "endsWith"
)

// ScalePointType positions a color-scale, data-bar or icon-set threshold.
type ScalePointType string

const (
	PointMin        ScalePointType = "min"
	PointMax        ScalePointType = "max"
	PointNumber     ScalePointType = "num"
	PointPercent    ScalePointType = "percent"
	PointPercentile ScalePointType = "percentile"
	PointFormula    ScalePointType = "formula"
)

// ScalePoint is one threshold of a continuous rule.
type ScalePoint struct {
	Type  ScalePointType
	Value string // unused for min/max
	Color string // ARGB; unused for icon-set thresholds
}

// CondFormat is one conditional-formatting rule. All variants of a sheet
// live in one ordered list so write-back preserves insertion order and rule
// priority.
type CondFormat struct {
	Type  CondFmtType
	Range Range

	// cellIs
	Operator ValidationOperator
	Formula1 string
	Formula2 string

	// text
	TextOp   TextCondition
	TextText string

	// top10
	Rank    int
	Bottom  bool
	Percent bool

	// aboveAverage
	Below  bool
	StdDev int

	// colorScale / dataBar / iconSet
	Points    []ScalePoint
	BarColor  string
	IconStyle string // e.g. "3TrafficLights1"

	// display format for discrete rules
	StyleID int // interned dxf-style record, 0 = none
}

// AddCellValueRule formats cells whose value satisfies op against one or two
// operands.
func (s *Sheet) AddCellValueRule(rangeRef string, op ValidationOperator, operands []string, styleID int) error {
	r, err := ParseRange(rangeRef)
	if err != nil {
		return err
	}
	if !validOperators[op] {
		return fmt.Errorf("%w: comparison operator %q", ErrInvalidArgument, op)
	}
	want := 1
	if twoOperandOps[op] {
		want = 2
	}
	if len(operands) != want {
		return fmt.Errorf("%w: operator %q needs %d operand(s), got %d", ErrInvalidArgument, op, want, len(operands))
	}
	if _, ok := s.wb.styles.resolve(styleID); !ok {
		return fmt.Errorf("%w: style index %d", ErrInvalidArgument, styleID)
	}
	cf := &CondFormat{Type: CondCellValue, Range: r, Operator: op, Formula1: operands[0], StyleID: styleID}
	if want == 2 {
		cf.Formula2 = operands[1]
	}
	s.condFmts = append(s.condFmts, cf)
	return nil
}

// AddTextRule formats cells whose text satisfies the condition.
func (s *Sheet) AddTextRule(rangeRef string, cond TextCondition, text string, styleID int) error {
	r, err := ParseRange(rangeRef)
	if err != nil {
		return err
	}
	switch cond {
	case TextContains, TextNotContains, TextBeginsWith, TextEndsWith:
	default:
		return fmt.Errorf("%w: text condition %q", ErrInvalidArgument, cond)
	}
	s.condFmts = append(s.condFmts, &CondFormat{
		Type: CondText, Range: r, TextOp: cond, TextText: text, StyleID: styleID,
	})
	return nil
}

// AddTopBottomRule formats the top or bottom N (or N percent) values.
func (s *Sheet) AddTopBottomRule(rangeRef string, rank int, bottom, percent bool, styleID int) error {
	r, err := ParseRange(rangeRef)
	if err != nil {
		return err
	}
	if rank < 1 {
		return fmt.Errorf("%w: rank %d", ErrInvalidArgument, rank)
	}
	s.condFmts = append(s.condFmts, &CondFormat{
		Type: CondTopBottom, Range: r, Rank: rank, Bottom: bottom, Percent: percent, StyleID: styleID,
	})
	return nil
}

// AddAverageRule formats cells above (or below) the range average, offset by
// stdDev standard deviations when non-zero.
func (s *Sheet) AddAverageRule(rangeRef string, below bool, stdDev int, styleID int) error {
	r, err := ParseRange(rangeRef)
	if err != nil {
		return err
	}
	if stdDev < 0 || stdDev > 3 {
		return fmt.Errorf("%w: standard deviation count %d", ErrInvalidArgument, stdDev)
	}
	s.condFmts = append(s.condFmts, &CondFormat{
		Type: CondAverage, Range: r, Below: below, StdDev: stdDev, StyleID: styleID,
	})
	return nil
}

// AddColorScale adds a 2- or 3-point color scale. Point colors are
// normalized to ARGB.
func (s *Sheet) AddColorScale(rangeRef string, points []ScalePoint) error {
	r, err := ParseRange(rangeRef)
	if err != nil {
		return err
	}
	if len(points) != 2 && len(points) != 3 {
		return fmt.Errorf("%w: color scale needs 2 or 3 points, got %d", ErrInvalidArgument, len(points))
	}
	pts, err := normalizePoints(points, true)
	if err != nil {
		return err
	}
	s.condFmts = append(s.condFmts, &CondFormat{Type: CondColorScale, Range: r, Points: pts})
	return nil
}

// AddDataBar adds a data-bar rule. Points may be empty for automatic
// min/max.
func (s *Sheet) AddDataBar(rangeRef, barColor string, points []ScalePoint) error {
	r, err := ParseRange(rangeRef)
	if err != nil {
		return err
	}
	color := NormalizeARGB(barColor)
	if color == "" {
		return fmt.Errorf("%w: bar color %q", ErrInvalidArgument, barColor)
	}
	if len(points) > 2 {
		return fmt.Errorf("%w: data bar takes at most min and max points", ErrInvalidArgument)
	}
	pts, err := normalizePoints(points, false)
	if err != nil {
		return err
	}
	s.condFmts = append(s.condFmts, &CondFormat{Type: CondDataBar, Range: r, BarColor: color, Points: pts})
	return nil
}

// AddIconSet adds an icon-set rule with ordered thresholds.
func (s *Sheet) AddIconSet(rangeRef, style string, thresholds []ScalePoint) error {
	r, err := ParseRange(rangeRef)
	if err != nil {
		return err
	}
	if style == "" {
		return fmt.Errorf("%w: empty icon set style", ErrInvalidArgument)
	}
	if len(thresholds) < 2 {
		return fmt.Errorf("%w: icon set needs at least 2 thresholds", ErrInvalidArgument)
	}
	pts, err := normalizePoints(thresholds, false)
	if err != nil {
		return err
	}
	s.condFmts = append(s.condFmts, &CondFormat{Type: CondIconSet, Range: r, IconStyle: style, Points: pts})
	return nil
}

func normalizePoints(points []ScalePoint, needColor bool) ([]ScalePoint, error) {
	out := make([]ScalePoint, len(points))
	for i, p := range points {
		switch p.Type {
		case PointMin, PointMax:
		case PointNumber, PointPercent, PointPercentile, PointFormula:
			if p.Value == "" {
				return nil, fmt.Errorf("%w: point type %q needs a value", ErrInvalidArgument, p.Type)
			}
		default:
			return nil, fmt.Errorf("%w: point type %q", ErrInvalidArgument, p.Type)
		}
		if p.Color != "" {
			p.Color = NormalizeARGB(p.Color)
			if p.Color == "" {
				return nil, fmt.Errorf("%w: point color %q", ErrInvalidArgument, points[i].Color)
			}
		} else if needColor {
			return nil, fmt.Errorf("%w: point %d missing color", ErrInvalidArgument, i)
		}
		out[i] = p
	}
	return out, nil
}

// CondFormats returns every rule in insertion order.
func (s *Sheet) CondFormats() []CondFormat {
	out := make([]CondFormat, len(s.condFmts))
	for i, cf := range s.condFmts {
		out[i] = *cf
	}
	return out
}

// CondFormatsByType projects the rules of one category targeting exactly
// rangeRef, preserving insertion order. An empty rangeRef matches any range.
func (s *Sheet) CondFormatsByType(typ CondFmtType, rangeRef string) ([]CondFormat, error) {
	var r Range
	if rangeRef != "" {
		var err error
		r, err = ParseRange(rangeRef)
		if err != nil {
			return nil, err
		}
	}
	var out []CondFormat
	for _, cf := range s.condFmts {
		if cf.Type != typ {
			continue
		}
		if rangeRef != "" && cf.Range != r {
			continue
		}
		out = append(out, *cf)
	}
	return out, nil
}

// RemoveCondFormats deletes every rule targeting exactly rangeRef and
// returns how many were removed.
func (s *Sheet) RemoveCondFormats(rangeRef string) (int, error) {
	r, err := ParseRange(rangeRef)
	if err != nil {
		return 0, err
	}
	kept := s.condFmts[:0]
	removed := 0
	for _, cf := range s.condFmts {
		if cf.Range == r {
			removed++
			continue
		}
		kept = append(kept, cf)
	}
	s.condFmts = kept
	return removed, nil
}
