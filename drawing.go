package oxcel

import (
	"fmt"
	"strings"
)

// DrawingKind tags the drawing object variant.
type DrawingKind string

const (
	DrawingShape     DrawingKind = "shape"
	DrawingTextBox   DrawingKind = "textBox"
	DrawingConnector DrawingKind = "connector"
	DrawingImage     DrawingKind = "image"
	DrawingChart     DrawingKind = "chart"
)

// Anchor places a drawing object on the grid. A one-cell anchor pins the
// top-left corner and sizes by extent; a two-cell anchor stretches between
// two corners. Offsets and extents are in EMU (914400 per inch).
type Anchor struct {
	From     CellRef
	FromOffX int64
	FromOffY int64
	To       CellRef // zero for one-cell anchors
	ToOffX   int64
	ToOffY   int64
	ExtentCX int64 // one-cell anchors only
	ExtentCY int64
	TwoCell  bool
}

// ChartSeries is one plotted series of a chart object.
type ChartSeries struct {
	Name       string
	Categories string // range formula, e.g. "Data!$A$2:$A$7"
	Values     string // range formula
}

// Chart is the plotted definition carried by a DrawingChart object.
type Chart struct {
	Type       string // "bar", "col", "line", "pie", "scatter", "area"
	Title      string
	XAxisTitle string
	YAxisTitle string
	Series     []ChartSeries
}

// DrawingObject is one entry of a sheet's drawing part.
type DrawingObject struct {
	Kind   DrawingKind
	Name   string
	Anchor Anchor

	// shape / textBox / connector
	ShapeType string // preset geometry, e.g. "rect", "ellipse", "line"
	Text      string
	FillColor string
	LineColor string

	// image
	ImageData []byte
	ImageExt  string // "png", "jpeg", "gif"

	// chart
	Chart *Chart
}

var validChartTypes = map[string]bool{
	"bar": true, "col": true, "line": true, "pie": true, "scatter": true, "area": true,
}

// AddShape places a preset-geometry shape anchored at cell addr.
func (s *Sheet) AddShape(addr, shapeType, text string, widthEMU, heightEMU int64) error {
	anchor, err := oneCellAnchor(addr, widthEMU, heightEMU)
	if err != nil {
		return err
	}
	if shapeType == "" {
		return fmt.Errorf("%w: empty shape type", ErrInvalidArgument)
	}
	s.drawings = append(s.drawings, &DrawingObject{
		Kind: DrawingShape, Name: s.nextDrawingName("Shape"),
		Anchor: anchor, ShapeType: shapeType, Text: text,
	})
	return nil
}

// AddTextBox places a text box anchored at cell addr.
func (s *Sheet) AddTextBox(addr, text string, widthEMU, heightEMU int64) error {
	anchor, err := oneCellAnchor(addr, widthEMU, heightEMU)
	if err != nil {
		return err
	}
	s.drawings = append(s.drawings, &DrawingObject{
		Kind: DrawingTextBox, Name: s.nextDrawingName("TextBox"),
		Anchor: anchor, ShapeType: "rect", Text: text,
	})
	return nil
}

// AddConnector draws a connector between two cell anchors.
func (s *Sheet) AddConnector(fromAddr, toAddr string) error {
	from, err := ParseCellRef(fromAddr)
	if err != nil {
		return err
	}
	to, err := ParseCellRef(toAddr)
	if err != nil {
		return err
	}
	s.drawings = append(s.drawings, &DrawingObject{
		Kind: DrawingConnector, Name: s.nextDrawingName("Connector"),
		Anchor:    Anchor{From: from, To: to, TwoCell: true},
		ShapeType: "line",
	})
	return nil
}

// AddImage embeds image bytes anchored at cell addr. ext selects the media
// content type and must be png, jpeg, jpg or gif.
func (s *Sheet) AddImage(addr string, data []byte, ext string, widthEMU, heightEMU int64) error {
	anchor, err := oneCellAnchor(addr, widthEMU, heightEMU)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: empty image data", ErrInvalidArgument)
	}
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	switch ext {
	case "png", "jpeg", "gif":
	case "jpg":
		ext = "jpeg"
	default:
		return fmt.Errorf("%w: image extension %q", ErrInvalidArgument, ext)
	}
	s.drawings = append(s.drawings, &DrawingObject{
		Kind: DrawingImage, Name: s.nextDrawingName("Picture"),
		Anchor: anchor, ImageData: data, ImageExt: ext,
	})
	return nil
}

// AddChart places a chart plotting the given series, anchored between two
// cells.
func (s *Sheet) AddChart(fromAddr, toAddr string, chart Chart) error {
	from, err := ParseCellRef(fromAddr)
	if err != nil {
		return err
	}
	to, err := ParseCellRef(toAddr)
	if err != nil {
		return err
	}
	if !validChartTypes[chart.Type] {
		return fmt.Errorf("%w: chart type %q", ErrInvalidArgument, chart.Type)
	}
	if len(chart.Series) == 0 {
		return fmt.Errorf("%w: chart needs at least one series", ErrInvalidArgument)
	}
	s.drawings = append(s.drawings, &DrawingObject{
		Kind: DrawingChart, Name: s.nextDrawingName("Chart"),
		Anchor: Anchor{From: from, To: to, TwoCell: true},
		Chart:  &chart,
	})
	return nil
}

// Drawings returns the sheet's drawing objects in insertion order.
func (s *Sheet) Drawings() []DrawingObject {
	out := make([]DrawingObject, len(s.drawings))
	for i, d := range s.drawings {
		out[i] = *d
	}
	return out
}

// RemoveDrawing deletes the drawing object with the given name.
func (s *Sheet) RemoveDrawing(name string) error {
	for i, d := range s.drawings {
		if d.Name == name {
			s.drawings = append(s.drawings[:i], s.drawings[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: drawing %q on sheet %q", ErrNotFound, name, s.name)
}

func oneCellAnchor(addr string, cx, cy int64) (Anchor, error) {
	ref, err := ParseCellRef(addr)
	if err != nil {
		return Anchor{}, err
	}
	if cx <= 0 || cy <= 0 {
		return Anchor{}, fmt.Errorf("%w: drawing extent %dx%d", ErrInvalidArgument, cx, cy)
	}
	return Anchor{From: ref, ExtentCX: cx, ExtentCY: cy}, nil
}

func (s *Sheet) nextDrawingName(prefix string) string {
	n := 1
	for _, d := range s.drawings {
		if strings.HasPrefix(d.Name, prefix+" ") {
			n++
		}
	}
	return fmt.Sprintf("%s %d", prefix, n)
}
