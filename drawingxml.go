package oxcel

import (
	"encoding/xml"
	"strings"
)

// XML mappings for xl/drawings/drawingN.xml (spreadsheetDrawing namespace).
// Only the subset the engine emits is modeled; unknown content is dropped on
// read.

type xdrWsDr struct {
	XMLName       xml.Name           `xml:"http://schemas.openxmlformats.org/drawingml/2006/spreadsheetDrawing wsDr"`
	OneCellAnchor []xdrOneCellAnchor `xml:"oneCellAnchor"`
	TwoCellAnchor []xdrTwoCellAnchor `xml:"twoCellAnchor"`
}

type xdrOneCellAnchor struct {
	From         xdrMarker     `xml:"from"`
	Ext          xdrExt        `xml:"ext"`
	Sp           *xdrSp        `xml:"sp"`
	Pic          *xdrPic       `xml:"pic"`
	GraphicFrame *xdrGraphic   `xml:"graphicFrame"`
	ClientData   xdrClientData `xml:"clientData"`
}

type xdrTwoCellAnchor struct {
	From         xdrMarker     `xml:"from"`
	To           xdrMarker     `xml:"to"`
	Sp           *xdrSp        `xml:"sp"`
	CxnSp        *xdrCxnSp     `xml:"cxnSp"`
	Pic          *xdrPic       `xml:"pic"`
	GraphicFrame *xdrGraphic   `xml:"graphicFrame"`
	ClientData   xdrClientData `xml:"clientData"`
}

type xdrClientData struct{}

type xdrMarker struct {
	Col    int   `xml:"col"`
	ColOff int64 `xml:"colOff"`
	Row    int   `xml:"row"`
	RowOff int64 `xml:"rowOff"`
}

type xdrExt struct {
	Cx int64 `xml:"cx,attr"`
	Cy int64 `xml:"cy,attr"`
}

type xdrSp struct {
	NvSpPr xdrNvPr    `xml:"nvSpPr"`
	SpPr   xdrSpPr    `xml:"spPr"`
	TxBody *xdrTxBody `xml:"txBody"`
}

type xdrCxnSp struct {
	NvCxnSpPr xdrNvPr `xml:"nvCxnSpPr"`
	SpPr      xdrSpPr `xml:"spPr"`
}

type xdrPic struct {
	NvPicPr  xdrNvPr     `xml:"nvPicPr"`
	BlipFill xdrBlipFill `xml:"blipFill"`
	SpPr     xdrSpPr     `xml:"spPr"`
}

type xdrGraphic struct {
	NvGraphicFramePr xdrNvPr        `xml:"nvGraphicFramePr"`
	Graphic          xdrGraphicData `xml:"http://schemas.openxmlformats.org/drawingml/2006/main graphic"`
}

type xdrGraphicData struct {
	GraphicData xdrChartRef `xml:"graphicData"`
}

type xdrChartRef struct {
	URI   string       `xml:"uri,attr"`
	Chart *xlsxRIDRef2 `xml:"http://schemas.openxmlformats.org/drawingml/2006/chart chart"`
}

// xlsxRIDRef2 carries an r:id on a chart reference element.
type xlsxRIDRef2 struct {
	RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
}

type xdrNvPr struct {
	CNvPr xdrCNvPr `xml:"cNvPr"`
}

type xdrCNvPr struct {
	ID   int    `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

type xdrSpPr struct {
	PrstGeom  *xdrPrstGeom  `xml:"http://schemas.openxmlformats.org/drawingml/2006/main prstGeom"`
	SolidFill *xdrSolidFill `xml:"http://schemas.openxmlformats.org/drawingml/2006/main solidFill"`
	Ln        *xdrLn        `xml:"http://schemas.openxmlformats.org/drawingml/2006/main ln"`
}

type xdrPrstGeom struct {
	Prst string `xml:"prst,attr"`
}

type xdrSolidFill struct {
	SrgbClr *xdrSrgbClr `xml:"srgbClr"`
}

type xdrLn struct {
	SolidFill *xdrSolidFill `xml:"solidFill"`
}

type xdrSrgbClr struct {
	Val string `xml:"val,attr"`
}

type xdrTxBody struct {
	BodyPr xdrBodyPr `xml:"http://schemas.openxmlformats.org/drawingml/2006/main bodyPr"`
	P      []xdrP    `xml:"http://schemas.openxmlformats.org/drawingml/2006/main p"`
}

type xdrBodyPr struct{}

type xdrP struct {
	R []xdrR `xml:"r"`
}

type xdrR struct {
	T string `xml:"t"`
}

type xdrBlipFill struct {
	Blip    xdrBlip     `xml:"blip"`
	Stretch *xdrStretch `xml:"http://schemas.openxmlformats.org/drawingml/2006/main stretch"`
}

type xdrBlip struct {
	Embed string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships embed,attr"`
}

type xdrStretch struct{}

// drawingToXML renders the sheet's drawing objects. imageRIDs and chartRIDs
// map object positions to relationship IDs allocated by the writer.
func drawingToXML(objects []*DrawingObject, imageRIDs, chartRIDs map[int]string) *xdrWsDr {
	wsdr := &xdrWsDr{}
	for i, obj := range objects {
		// Anchors store 0-based grid positions in the wire format.
		from := xdrMarker{Col: obj.Anchor.From.Col - 1, ColOff: obj.Anchor.FromOffX, Row: obj.Anchor.From.Row - 1, RowOff: obj.Anchor.FromOffY}
		id := i + 2
		switch obj.Kind {
		case DrawingShape, DrawingTextBox:
			sp := &xdrSp{
				NvSpPr: xdrNvPr{CNvPr: xdrCNvPr{ID: id, Name: obj.Name}},
				SpPr:   xdrSpPr{PrstGeom: &xdrPrstGeom{Prst: obj.ShapeType}},
			}
			if obj.FillColor != "" {
				sp.SpPr.SolidFill = &xdrSolidFill{SrgbClr: &xdrSrgbClr{Val: rgbOf(obj.FillColor)}}
			}
			if obj.LineColor != "" {
				sp.SpPr.Ln = &xdrLn{SolidFill: &xdrSolidFill{SrgbClr: &xdrSrgbClr{Val: rgbOf(obj.LineColor)}}}
			}
			if obj.Text != "" {
				sp.TxBody = &xdrTxBody{P: []xdrP{{R: []xdrR{{T: obj.Text}}}}}
			}
			wsdr.OneCellAnchor = append(wsdr.OneCellAnchor, xdrOneCellAnchor{
				From: from,
				Ext:  xdrExt{Cx: obj.Anchor.ExtentCX, Cy: obj.Anchor.ExtentCY},
				Sp:   sp,
			})
		case DrawingConnector:
			to := xdrMarker{Col: obj.Anchor.To.Col - 1, ColOff: obj.Anchor.ToOffX, Row: obj.Anchor.To.Row - 1, RowOff: obj.Anchor.ToOffY}
			cxn := &xdrCxnSp{
				NvCxnSpPr: xdrNvPr{CNvPr: xdrCNvPr{ID: id, Name: obj.Name}},
				SpPr:      xdrSpPr{PrstGeom: &xdrPrstGeom{Prst: obj.ShapeType}},
			}
			if obj.LineColor != "" {
				cxn.SpPr.Ln = &xdrLn{SolidFill: &xdrSolidFill{SrgbClr: &xdrSrgbClr{Val: rgbOf(obj.LineColor)}}}
			}
			wsdr.TwoCellAnchor = append(wsdr.TwoCellAnchor, xdrTwoCellAnchor{
				From:  from,
				To:    to,
				CxnSp: cxn,
			})
		case DrawingImage:
			wsdr.OneCellAnchor = append(wsdr.OneCellAnchor, xdrOneCellAnchor{
				From: from,
				Ext:  xdrExt{Cx: obj.Anchor.ExtentCX, Cy: obj.Anchor.ExtentCY},
				Pic: &xdrPic{
					NvPicPr:  xdrNvPr{CNvPr: xdrCNvPr{ID: id, Name: obj.Name}},
					BlipFill: xdrBlipFill{Blip: xdrBlip{Embed: imageRIDs[i]}, Stretch: &xdrStretch{}},
					SpPr:     xdrSpPr{PrstGeom: &xdrPrstGeom{Prst: "rect"}},
				},
			})
		case DrawingChart:
			to := xdrMarker{Col: obj.Anchor.To.Col - 1, ColOff: obj.Anchor.ToOffX, Row: obj.Anchor.To.Row - 1, RowOff: obj.Anchor.ToOffY}
			wsdr.TwoCellAnchor = append(wsdr.TwoCellAnchor, xdrTwoCellAnchor{
				From: from,
				To:   to,
				GraphicFrame: &xdrGraphic{
					NvGraphicFramePr: xdrNvPr{CNvPr: xdrCNvPr{ID: id, Name: obj.Name}},
					Graphic: xdrGraphicData{GraphicData: xdrChartRef{
						URI:   nsChart,
						Chart: &xlsxRIDRef2{RID: chartRIDs[i]},
					}},
				},
			})
		}
	}
	return wsdr
}

// rgbOf strips the alpha byte for DrawingML's 6-digit srgbClr.
func rgbOf(argb string) string {
	c := NormalizeARGB(argb)
	if len(c) == 8 {
		return c[2:]
	}
	return c
}

// drawingFromXML rebuilds drawing objects from the wire format. Image and
// chart references are resolved through the drawing part's relationships.
func drawingFromXML(wsdr *xdrWsDr, resolveImage func(rid string) ([]byte, string), resolveChart func(rid string) *Chart) []*DrawingObject {
	var out []*DrawingObject
	for _, a := range wsdr.OneCellAnchor {
		anchor := Anchor{
			From:     CellRef{Col: a.From.Col + 1, Row: a.From.Row + 1},
			FromOffX: a.From.ColOff,
			FromOffY: a.From.RowOff,
			ExtentCX: a.Ext.Cx,
			ExtentCY: a.Ext.Cy,
		}
		switch {
		case a.Sp != nil:
			out = append(out, shapeFromXML(a.Sp, anchor))
		case a.Pic != nil:
			if obj := picFromXML(a.Pic, anchor, resolveImage); obj != nil {
				out = append(out, obj)
			}
		case a.GraphicFrame != nil:
			if obj := chartFrameFromXML(a.GraphicFrame, anchor, resolveChart); obj != nil {
				out = append(out, obj)
			}
		}
	}
	for _, a := range wsdr.TwoCellAnchor {
		anchor := Anchor{
			From:     CellRef{Col: a.From.Col + 1, Row: a.From.Row + 1},
			FromOffX: a.From.ColOff,
			FromOffY: a.From.RowOff,
			To:       CellRef{Col: a.To.Col + 1, Row: a.To.Row + 1},
			ToOffX:   a.To.ColOff,
			ToOffY:   a.To.RowOff,
			TwoCell:  true,
		}
		switch {
		case a.Sp != nil:
			out = append(out, shapeFromXML(a.Sp, anchor))
		case a.CxnSp != nil:
			obj := &DrawingObject{
				Kind:      DrawingConnector,
				Name:      a.CxnSp.NvCxnSpPr.CNvPr.Name,
				Anchor:    anchor,
				LineColor: lineColorOf(&a.CxnSp.SpPr),
			}
			if a.CxnSp.SpPr.PrstGeom != nil {
				obj.ShapeType = a.CxnSp.SpPr.PrstGeom.Prst
			}
			out = append(out, obj)
		case a.Pic != nil:
			if obj := picFromXML(a.Pic, anchor, resolveImage); obj != nil {
				out = append(out, obj)
			}
		case a.GraphicFrame != nil:
			if obj := chartFrameFromXML(a.GraphicFrame, anchor, resolveChart); obj != nil {
				out = append(out, obj)
			}
		}
	}
	return out
}

func shapeFromXML(sp *xdrSp, anchor Anchor) *DrawingObject {
	obj := &DrawingObject{
		Kind:      DrawingShape,
		Name:      sp.NvSpPr.CNvPr.Name,
		Anchor:    anchor,
		LineColor: lineColorOf(&sp.SpPr),
	}
	if sp.SpPr.PrstGeom != nil {
		obj.ShapeType = sp.SpPr.PrstGeom.Prst
	}
	if sp.SpPr.SolidFill != nil && sp.SpPr.SolidFill.SrgbClr != nil {
		obj.FillColor = NormalizeARGB(sp.SpPr.SolidFill.SrgbClr.Val)
	}
	if sp.TxBody != nil {
		var text []string
		for _, p := range sp.TxBody.P {
			for _, r := range p.R {
				text = append(text, r.T)
			}
		}
		obj.Text = strings.Join(text, "")
		if obj.ShapeType == "rect" && obj.FillColor == "" {
			obj.Kind = DrawingTextBox
		}
	}
	return obj
}

func picFromXML(pic *xdrPic, anchor Anchor, resolveImage func(rid string) ([]byte, string)) *DrawingObject {
	data, ext := resolveImage(pic.BlipFill.Blip.Embed)
	if data == nil {
		return nil
	}
	return &DrawingObject{
		Kind:      DrawingImage,
		Name:      pic.NvPicPr.CNvPr.Name,
		Anchor:    anchor,
		ImageData: data,
		ImageExt:  ext,
	}
}

func chartFrameFromXML(gf *xdrGraphic, anchor Anchor, resolveChart func(rid string) *Chart) *DrawingObject {
	if gf.Graphic.GraphicData.Chart == nil {
		return nil
	}
	chart := resolveChart(gf.Graphic.GraphicData.Chart.RID)
	if chart == nil {
		return nil
	}
	return &DrawingObject{
		Kind:   DrawingChart,
		Name:   gf.NvGraphicFramePr.CNvPr.Name,
		Anchor: anchor,
		Chart:  chart,
	}
}

func lineColorOf(spPr *xdrSpPr) string {
	if spPr.Ln != nil && spPr.Ln.SolidFill != nil && spPr.Ln.SolidFill.SrgbClr != nil {
		return NormalizeARGB(spPr.Ln.SolidFill.SrgbClr.Val)
	}
	return ""
}
