package oxcel

import "encoding/xml"

// Minimal chart part (xl/charts/chartN.xml). The engine stores series range
// formulas verbatim; Excel resolves and caches the plotted values itself.

type cChartSpace struct {
	XMLName xml.Name `xml:"http://schemas.openxmlformats.org/drawingml/2006/chart chartSpace"`
	Chart   cChart   `xml:"chart"`
}

type cChart struct {
	Title    *cTitle   `xml:"title"`
	PlotArea cPlotArea `xml:"plotArea"`
}

type cTitle struct {
	Tx *cTx `xml:"tx"`
}

type cTx struct {
	Rich *cRich `xml:"rich"`
}

type cRich struct {
	P []cP `xml:"http://schemas.openxmlformats.org/drawingml/2006/main p"`
}

type cP struct {
	R []cR `xml:"r"`
}

type cR struct {
	T string `xml:"t"`
}

type cPlotArea struct {
	BarChart     *cTypedChart `xml:"barChart"`
	LineChart    *cTypedChart `xml:"lineChart"`
	PieChart     *cTypedChart `xml:"pieChart"`
	AreaChart    *cTypedChart `xml:"areaChart"`
	ScatterChart *cTypedChart `xml:"scatterChart"`
	CatAx        *cAx         `xml:"catAx"`
	ValAx        *cAx         `xml:"valAx"`
}

type cTypedChart struct {
	BarDir *cVal  `xml:"barDir"`
	Ser    []cSer `xml:"ser"`
}

type cVal struct {
	Val string `xml:"val,attr"`
}

type cSer struct {
	Idx   cIdx    `xml:"idx"`
	Order cIdx    `xml:"order"`
	Tx    *cSerTx `xml:"tx"`
	Cat   *cRef   `xml:"cat"`
	Val   *cRef   `xml:"val"`
}

type cIdx struct {
	Val int `xml:"val,attr"`
}

type cSerTx struct {
	StrRef *cStrRef `xml:"strRef"`
	V      string   `xml:"v,omitempty"`
}

type cStrRef struct {
	F string `xml:"f"`
}

type cRef struct {
	StrRef *cStrRef `xml:"strRef"`
	NumRef *cStrRef `xml:"numRef"`
}

type cAx struct {
	Title *cTitle `xml:"title"`
}

// chartToXML renders a chart definition into its part.
func chartToXML(ch *Chart) *cChartSpace {
	typed := &cTypedChart{}
	for i, s := range ch.Series {
		ser := cSer{Idx: cIdx{Val: i}, Order: cIdx{Val: i}}
		if s.Name != "" {
			ser.Tx = &cSerTx{V: s.Name}
		}
		if s.Categories != "" {
			ser.Cat = &cRef{StrRef: &cStrRef{F: s.Categories}}
		}
		if s.Values != "" {
			ser.Val = &cRef{NumRef: &cStrRef{F: s.Values}}
		}
		typed.Ser = append(typed.Ser, ser)
	}
	plot := cPlotArea{}
	switch ch.Type {
	case "bar":
		typed.BarDir = &cVal{Val: "bar"}
		plot.BarChart = typed
	case "col":
		typed.BarDir = &cVal{Val: "col"}
		plot.BarChart = typed
	case "line":
		plot.LineChart = typed
	case "pie":
		plot.PieChart = typed
	case "area":
		plot.AreaChart = typed
	case "scatter":
		plot.ScatterChart = typed
	}
	if ch.XAxisTitle != "" {
		plot.CatAx = &cAx{Title: richTitle(ch.XAxisTitle)}
	}
	if ch.YAxisTitle != "" {
		plot.ValAx = &cAx{Title: richTitle(ch.YAxisTitle)}
	}
	cs := &cChartSpace{Chart: cChart{PlotArea: plot}}
	if ch.Title != "" {
		cs.Chart.Title = richTitle(ch.Title)
	}
	return cs
}

func richTitle(text string) *cTitle {
	return &cTitle{Tx: &cTx{Rich: &cRich{P: []cP{{R: []cR{{T: text}}}}}}}
}

// chartFromXML recovers the chart definition the engine wrote.
func chartFromXML(cs *cChartSpace) *Chart {
	ch := &Chart{}
	plot := cs.Chart.PlotArea
	var typed *cTypedChart
	switch {
	case plot.BarChart != nil:
		typed = plot.BarChart
		ch.Type = "bar"
		if typed.BarDir != nil && typed.BarDir.Val == "col" {
			ch.Type = "col"
		}
	case plot.LineChart != nil:
		typed, ch.Type = plot.LineChart, "line"
	case plot.PieChart != nil:
		typed, ch.Type = plot.PieChart, "pie"
	case plot.AreaChart != nil:
		typed, ch.Type = plot.AreaChart, "area"
	case plot.ScatterChart != nil:
		typed, ch.Type = plot.ScatterChart, "scatter"
	default:
		return nil
	}
	if cs.Chart.Title != nil {
		ch.Title = titleText(cs.Chart.Title)
	}
	if plot.CatAx != nil {
		ch.XAxisTitle = titleText(plot.CatAx.Title)
	}
	if plot.ValAx != nil {
		ch.YAxisTitle = titleText(plot.ValAx.Title)
	}
	for _, ser := range typed.Ser {
		s := ChartSeries{}
		if ser.Tx != nil {
			s.Name = ser.Tx.V
			if s.Name == "" && ser.Tx.StrRef != nil {
				s.Name = ser.Tx.StrRef.F
			}
		}
		if ser.Cat != nil && ser.Cat.StrRef != nil {
			s.Categories = ser.Cat.StrRef.F
		}
		if ser.Val != nil && ser.Val.NumRef != nil {
			s.Values = ser.Val.NumRef.F
		}
		ch.Series = append(ch.Series, s)
	}
	return ch
}

func titleText(t *cTitle) string {
	if t == nil || t.Tx == nil || t.Tx.Rich == nil {
		return ""
	}
	out := ""
	for _, p := range t.Tx.Rich.P {
		for _, r := range p.R {
			out += r.T
		}
	}
	return out
}
