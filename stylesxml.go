package oxcel

import "fmt"

// buildStyleSheet decomposes the flat style registry into the styles part:
// deduplicated fonts, fills and borders lists plus one cellXfs entry per
// registry record. dxfStyles lists the registry indices referenced by
// conditional-formatting rules; their dxf positions are returned.
func buildStyleSheet(reg *styleRegistry, dxfStyles []int) (*xlsxStyleSheet, map[int]int) {
	ss := &xlsxStyleSheet{}

	fonts := []xlsxFont{{Sz: &xlsxValAttrF{Val: 11}, Name: &xlsxValAttrS{Val: "Calibri"}}}
	fontIdx := map[string]int{fontKeyOf(nil): 0}
	fills := []xlsxFill{
		{PatternFill: &xlsxPatternFill{PatternType: "none"}},
		{PatternFill: &xlsxPatternFill{PatternType: "gray125"}},
	}
	fillIdx := map[string]int{fillKeyOf(nil): 0}
	borders := []xlsxBorder{{
		Left: &xlsxBorderEdge{}, Right: &xlsxBorderEdge{},
		Top: &xlsxBorderEdge{}, Bottom: &xlsxBorderEdge{}, Diagonal: &xlsxBorderEdge{},
	}}
	borderIdx := map[string]int{borderKeyOf(nil): 0}

	var numFmts []xlsxNumFmt
	numFmtIdx := map[string]int{}
	nextNumFmt := customNumFmtBase

	var xfs []xlsxXf
	for i := 0; i < reg.count(); i++ {
		st, _ := reg.resolve(i)
		xf := xlsxXf{}

		if st.Font != nil {
			k := fontKeyOf(st.Font)
			id, ok := fontIdx[k]
			if !ok {
				id = len(fonts)
				fonts = append(fonts, fontToXML(st.Font))
				fontIdx[k] = id
			}
			xf.FontID = id
			xf.ApplyFont = true
		}
		if st.Fill != nil {
			k := fillKeyOf(st.Fill)
			id, ok := fillIdx[k]
			if !ok {
				id = len(fills)
				fills = append(fills, fillToXML(st.Fill))
				fillIdx[k] = id
			}
			xf.FillID = id
			xf.ApplyFill = true
		}
		if st.Border != nil {
			k := borderKeyOf(st.Border)
			id, ok := borderIdx[k]
			if !ok {
				id = len(borders)
				borders = append(borders, borderToXML(st.Border))
				borderIdx[k] = id
			}
			xf.BorderID = id
			xf.ApplyBorder = true
		}
		switch {
		case st.NumFmtCode != "":
			id, ok := numFmtIdx[st.NumFmtCode]
			if !ok {
				id = nextNumFmt
				nextNumFmt++
				numFmts = append(numFmts, xlsxNumFmt{NumFmtID: id, FormatCode: st.NumFmtCode})
				numFmtIdx[st.NumFmtCode] = id
			}
			xf.NumFmtID = id
			xf.ApplyNumberFormat = true
		case st.NumFmtID != 0:
			xf.NumFmtID = st.NumFmtID
			xf.ApplyNumberFormat = true
		}
		if st.Alignment != nil {
			xf.Alignment = &xlsxAlignment{
				Horizontal:   st.Alignment.Horizontal,
				Vertical:     st.Alignment.Vertical,
				WrapText:     st.Alignment.WrapText,
				TextRotation: st.Alignment.Rotation,
				Indent:       st.Alignment.Indent,
				ShrinkToFit:  st.Alignment.ShrinkFit,
			}
			xf.ApplyAlignment = true
		}
		if st.Protection != nil {
			xf.Protection = &xlsxProtection{Locked: boolPtr(st.Protection.Locked), Hidden: boolPtr(st.Protection.Hidden)}
			xf.ApplyProtection = true
		}
		xfs = append(xfs, xf)
	}

	if len(numFmts) > 0 {
		ss.NumFmts = &xlsxNumFmts{Count: len(numFmts), NumFmt: numFmts}
	}
	ss.Fonts = &xlsxFonts{Count: len(fonts), Font: fonts}
	ss.Fills = &xlsxFills{Count: len(fills), Fill: fills}
	ss.Borders = &xlsxBorders{Count: len(borders), Border: borders}
	ss.CellXfs = &xlsxCellXfs{Count: len(xfs), Xf: xfs}

	dxfPos := map[int]int{}
	if len(dxfStyles) > 0 {
		var dxfs []xlsxDxf
		for _, styleID := range dxfStyles {
			if _, seen := dxfPos[styleID]; seen {
				continue
			}
			st, ok := reg.resolve(styleID)
			if !ok {
				continue
			}
			dxf := xlsxDxf{}
			if st.Font != nil {
				f := fontToXML(st.Font)
				dxf.Font = &f
			}
			if st.Fill != nil {
				f := fillToXML(st.Fill)
				dxf.Fill = &f
			}
			if st.Border != nil {
				b := borderToXML(st.Border)
				dxf.Border = &b
			}
			dxfPos[styleID] = len(dxfs)
			dxfs = append(dxfs, dxf)
		}
		ss.Dxfs = &xlsxDxfs{Count: len(dxfs), Dxf: dxfs}
	}
	return ss, dxfPos
}

// parseStyleSheet recomposes the styles part into a fresh registry and
// returns the cellXfs→registry index mapping and the dxf→registry mapping.
// In lenient mode an xf referencing an out-of-range font, fill or border
// falls back to the default component instead of failing.
func parseStyleSheet(ss *xlsxStyleSheet, strict bool) (*styleRegistry, []int, []int, error) {
	reg := newStyleRegistry()
	if ss == nil {
		return reg, nil, nil, nil
	}
	numFmtCodes := map[int]string{}
	if ss.NumFmts != nil {
		for _, nf := range ss.NumFmts.NumFmt {
			numFmtCodes[nf.NumFmtID] = nf.FormatCode
		}
	}
	var xfMap []int
	if ss.CellXfs != nil {
		for xi, xf := range ss.CellXfs.Xf {
			st := Style{}
			if ss.Fonts != nil && xf.FontID > 0 {
				if xf.FontID >= len(ss.Fonts.Font) {
					if strict {
						return nil, nil, nil, fmt.Errorf("%w: xf %d references font %d of %d", ErrCorruptPackage, xi, xf.FontID, len(ss.Fonts.Font))
					}
				} else {
					st.Font = fontFromXML(ss.Fonts.Font[xf.FontID])
				}
			}
			if ss.Fills != nil && xf.FillID > 1 {
				if xf.FillID >= len(ss.Fills.Fill) {
					if strict {
						return nil, nil, nil, fmt.Errorf("%w: xf %d references fill %d of %d", ErrCorruptPackage, xi, xf.FillID, len(ss.Fills.Fill))
					}
				} else {
					st.Fill = fillFromXML(ss.Fills.Fill[xf.FillID])
				}
			}
			if ss.Borders != nil && xf.BorderID > 0 {
				if xf.BorderID >= len(ss.Borders.Border) {
					if strict {
						return nil, nil, nil, fmt.Errorf("%w: xf %d references border %d of %d", ErrCorruptPackage, xi, xf.BorderID, len(ss.Borders.Border))
					}
				} else {
					st.Border = borderFromXML(ss.Borders.Border[xf.BorderID])
				}
			}
			if code, ok := numFmtCodes[xf.NumFmtID]; ok && xf.NumFmtID >= customNumFmtBase {
				st.NumFmtCode = code
			} else if xf.NumFmtID != 0 {
				st.NumFmtID = xf.NumFmtID
			}
			if xf.Alignment != nil {
				st.Alignment = &Alignment{
					Horizontal: xf.Alignment.Horizontal,
					Vertical:   xf.Alignment.Vertical,
					WrapText:   xf.Alignment.WrapText,
					Rotation:   xf.Alignment.TextRotation,
					Indent:     xf.Alignment.Indent,
					ShrinkFit:  xf.Alignment.ShrinkToFit,
				}
			}
			if xf.Protection != nil {
				st.Protection = &StyleProtection{
					Locked: xf.Protection.Locked == nil || *xf.Protection.Locked,
					Hidden: xf.Protection.Hidden != nil && *xf.Protection.Hidden,
				}
			}
			xfMap = append(xfMap, reg.intern(st))
		}
	}
	var dxfMap []int
	if ss.Dxfs != nil {
		for _, dxf := range ss.Dxfs.Dxf {
			st := Style{}
			if dxf.Font != nil {
				st.Font = fontFromXML(*dxf.Font)
			}
			if dxf.Fill != nil {
				st.Fill = fillFromXML(*dxf.Fill)
			}
			if dxf.Border != nil {
				st.Border = borderFromXML(*dxf.Border)
			}
			dxfMap = append(dxfMap, reg.intern(st))
		}
	}
	return reg, xfMap, dxfMap, nil
}

func fontKeyOf(f *Font) string     { return f.key() }
func fillKeyOf(f *Fill) string     { return f.key() }
func borderKeyOf(b *Border) string { return b.key() }

func fontToXML(f *Font) xlsxFont {
	out := xlsxFont{}
	if f.Bold {
		out.B = &xlsxBoolAttr{}
	}
	if f.Italic {
		out.I = &xlsxBoolAttr{}
	}
	if f.Strike {
		out.Strike = &xlsxBoolAttr{}
	}
	if f.Underline != "" {
		out.U = &xlsxValAttrS{Val: f.Underline}
	}
	if f.Size > 0 {
		out.Sz = &xlsxValAttrF{Val: f.Size}
	}
	if f.Color != "" {
		out.Color = &xlsxColor{RGB: f.Color}
	}
	if f.Name != "" {
		out.Name = &xlsxValAttrS{Val: f.Name}
	}
	if f.Family != 0 {
		out.Family = &xlsxValAttrI{Val: f.Family}
	}
	if f.Scheme != "" {
		out.Scheme = &xlsxValAttrS{Val: f.Scheme}
	}
	return out
}

func fontFromXML(x xlsxFont) *Font {
	f := &Font{
		Bold:   boolElem(x.B),
		Italic: boolElem(x.I),
		Strike: boolElem(x.Strike),
	}
	if x.U != nil {
		f.Underline = x.U.Val
		if f.Underline == "" {
			f.Underline = "single"
		}
	}
	if x.Sz != nil {
		f.Size = x.Sz.Val
	}
	if x.Color != nil {
		f.Color = NormalizeARGB(x.Color.RGB)
	}
	if x.Name != nil {
		f.Name = x.Name.Val
	}
	if x.Family != nil {
		f.Family = x.Family.Val
	}
	if x.Scheme != nil {
		f.Scheme = x.Scheme.Val
	}
	return f
}

func fillToXML(f *Fill) xlsxFill {
	if len(f.Gradient) > 0 {
		gf := &xlsxGradientFill{Degree: f.Angle}
		for _, st := range f.Gradient {
			gf.Stop = append(gf.Stop, xlsxGradientStop{Position: st.Position, Color: xlsxColor{RGB: st.Color}})
		}
		return xlsxFill{GradientFill: gf}
	}
	pf := &xlsxPatternFill{PatternType: f.Pattern}
	if f.FgColor != "" {
		pf.FgColor = &xlsxColor{RGB: f.FgColor}
	}
	if f.BgColor != "" {
		pf.BgColor = &xlsxColor{RGB: f.BgColor}
	}
	return xlsxFill{PatternFill: pf}
}

func fillFromXML(x xlsxFill) *Fill {
	if x.GradientFill != nil {
		f := &Fill{Angle: x.GradientFill.Degree}
		for _, st := range x.GradientFill.Stop {
			f.Gradient = append(f.Gradient, GradientStop{Position: st.Position, Color: NormalizeARGB(st.Color.RGB)})
		}
		return f
	}
	f := &Fill{}
	if x.PatternFill != nil {
		f.Pattern = x.PatternFill.PatternType
		if x.PatternFill.FgColor != nil {
			f.FgColor = NormalizeARGB(x.PatternFill.FgColor.RGB)
		}
		if x.PatternFill.BgColor != nil {
			f.BgColor = NormalizeARGB(x.PatternFill.BgColor.RGB)
		}
	}
	return f
}

func borderToXML(b *Border) xlsxBorder {
	return xlsxBorder{
		DiagonalUp:   b.DiagUp,
		DiagonalDown: b.DiagDown,
		Left:         edgeToXML(b.Left),
		Right:        edgeToXML(b.Right),
		Top:          edgeToXML(b.Top),
		Bottom:       edgeToXML(b.Bottom),
		Diagonal:     edgeToXML(b.Diagonal),
	}
}

func edgeToXML(e BorderEdge) *xlsxBorderEdge {
	out := &xlsxBorderEdge{Style: e.Style}
	if e.Color != "" {
		out.Color = &xlsxColor{RGB: e.Color}
	}
	return out
}

func borderFromXML(x xlsxBorder) *Border {
	return &Border{
		DiagUp:   x.DiagonalUp,
		DiagDown: x.DiagonalDown,
		Left:     edgeFromXML(x.Left),
		Right:    edgeFromXML(x.Right),
		Top:      edgeFromXML(x.Top),
		Bottom:   edgeFromXML(x.Bottom),
		Diagonal: edgeFromXML(x.Diagonal),
	}
}

func edgeFromXML(x *xlsxBorderEdge) BorderEdge {
	if x == nil {
		return BorderEdge{}
	}
	e := BorderEdge{Style: x.Style}
	if x.Color != nil {
		e.Color = NormalizeARGB(x.Color.RGB)
	}
	return e
}

func boolElem(b *xlsxBoolAttr) bool {
	return b != nil && (b.Val == nil || *b.Val)
}

func boolPtr(b bool) *bool { return &b }
