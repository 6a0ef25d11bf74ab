package oxcel

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/richardlehane/mscfb"
	"github.com/richardlehane/msoleps"
)

// OleObject is an embedded document carried in xl/embeddings. The ProgID
// identifies the application that opens the payload and must be supplied
// explicitly; extension-based guessing is offered only through
// ProgIDForExtension.
type OleObject struct {
	ProgID string
	Data   []byte // the embedding binary, usually a compound file
	Icon   []byte // optional EMF/PNG icon shown in the grid
	Anchor Anchor
}

// OleMetadata is what the engine can recover from an embedding binary
// without the owning application.
type OleMetadata struct {
	Streams []string          // compound-file stream names
	Native  []byte            // payload of the Ole10Native stream, when present
	Summary map[string]string // SummaryInformation properties, when present
}

// AddOleObject embeds a document at cell addr. progID is required; pass the
// result of ProgIDForExtension to opt into extension-based inference.
func (s *Sheet) AddOleObject(addr, progID string, data []byte, widthEMU, heightEMU int64) error {
	anchor, err := oneCellAnchor(addr, widthEMU, heightEMU)
	if err != nil {
		return err
	}
	if progID == "" {
		return fmt.Errorf("%w: empty ProgID", ErrInvalidArgument)
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: empty OLE payload", ErrInvalidArgument)
	}
	s.oleObjects = append(s.oleObjects, &OleObject{
		ProgID: progID,
		Data:   append([]byte(nil), data...),
		Anchor: anchor,
	})
	return nil
}

// OleObjects returns the sheet's embedded objects in insertion order.
func (s *Sheet) OleObjects() []OleObject {
	out := make([]OleObject, len(s.oleObjects))
	for i, o := range s.oleObjects {
		out[i] = *o
	}
	return out
}

// progIDByExtension is a convenience mapping only; there is no authoritative
// registry tying an extension to a ProgID, so AddOleObject never consults it
// implicitly.
var progIDByExtension = map[string]string{
	".doc":  "Word.Document.8",
	".docx": "Word.Document.12",
	".xls":  "Excel.Sheet.8",
	".xlsx": "Excel.Sheet.12",
	".ppt":  "PowerPoint.Show.8",
	".pptx": "PowerPoint.Show.12",
	".pdf":  "AcroExch.Document.DC",
	".txt":  "txtfile",
}

// ProgIDForExtension guesses a ProgID from a file extension. The mapping is
// a documented convenience with no authoritative source; prefer passing the
// real ProgID when it is known.
func ProgIDForExtension(filename string) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	if id, ok := progIDByExtension[ext]; ok {
		return id, nil
	}
	return "", fmt.Errorf("%w: no known ProgID for extension %q", ErrNotFound, ext)
}

// InspectOleObject parses an embedding binary as a compound file and
// extracts its stream names, the Ole10Native payload and the
// SummaryInformation property set. Non-compound payloads return
// ErrUnsupportedSchema.
func InspectOleObject(data []byte) (OleMetadata, error) {
	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return OleMetadata{}, fmt.Errorf("%w: OLE payload is not a compound file: %v", ErrUnsupportedSchema, err)
	}
	meta := OleMetadata{Summary: map[string]string{}}
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		meta.Streams = append(meta.Streams, entry.Name)
		switch {
		case entry.Name == "\x01Ole10Native":
			buf := make([]byte, entry.Size)
			if n, _ := entry.Read(buf); n > 0 {
				meta.Native = buf[:n]
			}
		case msoleps.IsMSOLEPS(entry.Initial):
			props := msoleps.New()
			if err := props.Reset(doc); err != nil {
				continue
			}
			for _, p := range props.Property {
				meta.Summary[p.Name] = p.String()
			}
		}
	}
	return meta, nil
}
