package oxcel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Minimal valid PNG header bytes; enough for extension bookkeeping, the
// engine never decodes pixels.
var pngStub = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func TestAddShape(t *testing.T) {
	s := newTestSheet(t)
	require.NoError(t, s.AddShape("B2", "roundRect", "Note", 914400, 457200))

	objs := s.Drawings()
	require.Len(t, objs, 1)
	assert.Equal(t, DrawingShape, objs[0].Kind)
	assert.Equal(t, "roundRect", objs[0].ShapeType)
	assert.Equal(t, "Note", objs[0].Text)
	assert.Equal(t, 2, objs[0].Anchor.From.Col)
	assert.Equal(t, int64(914400), objs[0].Anchor.ExtentCX)
}

func TestAddTextBox(t *testing.T) {
	s := newTestSheet(t)
	require.NoError(t, s.AddTextBox("A1", "hello", 914400, 457200))
	objs := s.Drawings()
	require.Len(t, objs, 1)
	assert.Equal(t, DrawingTextBox, objs[0].Kind)
}

func TestAddConnector_TwoCellAnchor(t *testing.T) {
	s := newTestSheet(t)
	require.NoError(t, s.AddConnector("A1", "D8"))
	objs := s.Drawings()
	require.Len(t, objs, 1)
	assert.Equal(t, DrawingConnector, objs[0].Kind)
	assert.True(t, objs[0].Anchor.TwoCell)
	assert.Equal(t, 4, objs[0].Anchor.To.Col)
	assert.Equal(t, 8, objs[0].Anchor.To.Row)
}

func TestAddImage_ExtensionNormalized(t *testing.T) {
	s := newTestSheet(t)
	require.NoError(t, s.AddImage("C3", pngStub, "jpg", 914400, 914400))
	objs := s.Drawings()
	require.Len(t, objs, 1)
	assert.Equal(t, "jpeg", objs[0].ImageExt)
}

func TestAddImage_UnsupportedExtension(t *testing.T) {
	s := newTestSheet(t)
	err := s.AddImage("C3", pngStub, "bmp", 914400, 914400)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAddChart(t *testing.T) {
	s := newTestSheet(t)
	chart := Chart{
		Type:  "col",
		Title: "Sales by Region",
		Series: []ChartSeries{
			{Name: "Sales", Categories: "Sheet1!$A$2:$A$5", Values: "Sheet1!$C$2:$C$5"},
		},
	}
	require.NoError(t, s.AddChart("E2", "L20", chart))
	objs := s.Drawings()
	require.Len(t, objs, 1)
	assert.Equal(t, DrawingChart, objs[0].Kind)
	require.NotNil(t, objs[0].Chart)
	assert.Equal(t, "Sales by Region", objs[0].Chart.Title)
}

func TestAddChart_UnknownType(t *testing.T) {
	s := newTestSheet(t)
	err := s.AddChart("E2", "L20", Chart{Type: "donut"})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestRemoveDrawing(t *testing.T) {
	s := newTestSheet(t)
	require.NoError(t, s.AddShape("B2", "rect", "", 10, 10))
	objs := s.Drawings()
	require.Len(t, objs, 1)

	require.NoError(t, s.RemoveDrawing(objs[0].Name))
	assert.Empty(t, s.Drawings())
	assert.ErrorIs(t, s.RemoveDrawing("nothing"), ErrNotFound)
}

// --- OLE ---

func TestAddOleObject_RequiresProgID(t *testing.T) {
	s := newTestSheet(t)
	err := s.AddOleObject("B2", "", []byte{1, 2, 3}, 914400, 914400)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	require.NoError(t, s.AddOleObject("B2", "Word.Document.12", []byte{1, 2, 3}, 914400, 914400))
	objs := s.OleObjects()
	require.Len(t, objs, 1)
	assert.Equal(t, "Word.Document.12", objs[0].ProgID)
}

func TestProgIDForExtension(t *testing.T) {
	progID, err := ProgIDForExtension("report.docx")
	require.NoError(t, err)
	assert.Equal(t, "Word.Document.12", progID)

	_, err = ProgIDForExtension("mystery.xyz")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInspectOleObject_NotCompoundFile(t *testing.T) {
	_, err := InspectOleObject([]byte("plainly not a compound file"))
	assert.Error(t, err)
}
