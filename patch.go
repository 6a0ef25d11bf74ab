package oxcel

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// PatchProtection sets workbook-level protection inside an already
// serialized package without reparsing it. Every part except xl/workbook.xml
// is copied byte for byte, so content this engine does not model survives
// untouched. An empty password protects by structure lock only.
func PatchProtection(data []byte, password string, p WorkbookProtection) ([]byte, error) {
	if password != "" {
		p.Hash = hashPassword(password)
	}
	return patchWorkbookPart(data, func(part []byte) ([]byte, error) {
		return spliceProtection(part, &p)
	})
}

// UnpatchProtection removes workbook-level protection from a serialized
// package, leaving all other parts untouched.
func UnpatchProtection(data []byte) ([]byte, error) {
	return patchWorkbookPart(data, func(part []byte) ([]byte, error) {
		return spliceProtection(part, nil)
	})
}

func patchWorkbookPart(data []byte, transform func([]byte) ([]byte, error)) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a zip archive: %v", ErrCorruptPackage, err)
	}
	out := new(bytes.Buffer)
	zw := zip.NewWriter(out)
	patched := false
	for _, f := range zr.File {
		name := strings.TrimPrefix(f.Name, "/")
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: open part %s: %v", ErrCorruptPackage, name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: read part %s: %v", ErrCorruptPackage, name, err)
		}
		if name == "xl/workbook.xml" {
			if content, err = transform(content); err != nil {
				return nil, err
			}
			patched = true
		}
		w, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIO, err)
		}
		if _, err := w.Write(content); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIO, err)
		}
	}
	if !patched {
		return nil, fmt.Errorf("%w: missing xl/workbook.xml", ErrCorruptPackage)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	return out.Bytes(), nil
}

// spliceProtection replaces or removes the workbookProtection element in a
// raw workbook part. A nil protection removes it; otherwise the element is
// placed in its schema position, before bookViews and sheets.
func spliceProtection(part []byte, p *WorkbookProtection) ([]byte, error) {
	stripped, err := removeElement(part, "workbookProtection")
	if err != nil {
		return nil, err
	}
	if p == nil {
		return stripped, nil
	}
	elem, err := protectionElement(p)
	if err != nil {
		return nil, err
	}
	at := bytes.Index(stripped, []byte("<bookViews"))
	if at < 0 {
		at = bytes.Index(stripped, []byte("<sheets"))
	}
	if at < 0 {
		return nil, fmt.Errorf("%w: workbook part has no sheets element", ErrCorruptPackage)
	}
	out := make([]byte, 0, len(stripped)+len(elem))
	out = append(out, stripped[:at]...)
	out = append(out, elem...)
	out = append(out, stripped[at:]...)
	return out, nil
}

func protectionElement(p *WorkbookProtection) ([]byte, error) {
	x := &xlsxWorkbookProtection{
		LockStructure: p.LockStructure,
		LockWindows:   p.LockWindows,
		LockRevision:  p.LockRevision,
	}
	if !p.Hash.IsZero() {
		x.WorkbookPassword = p.Hash.Legacy
		x.WorkbookAlgorithmName = p.Hash.Algorithm
		x.WorkbookHashValue = p.Hash.Hash
		x.WorkbookSaltValue = p.Hash.Salt
		x.WorkbookSpinCount = p.Hash.SpinCount
	}
	elem, err := xml.Marshal(x)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	// Marshal names the element after its Go type; rename it in place.
	elem = bytes.Replace(elem, []byte("<xlsxWorkbookProtection"), []byte("<workbookProtection"), 1)
	elem = bytes.Replace(elem, []byte("</xlsxWorkbookProtection>"), []byte("</workbookProtection>"), 1)
	return elem, nil
}

// removeElement strips one top-level occurrence of the named element,
// whether self-closing or paired.
func removeElement(part []byte, name string) ([]byte, error) {
	open := []byte("<" + name)
	start := bytes.Index(part, open)
	if start < 0 {
		return part, nil
	}
	rest := part[start:]
	selfClose := bytes.Index(rest, []byte("/>"))
	pairClose := bytes.Index(rest, []byte("</"+name+">"))
	tagEnd := bytes.IndexByte(rest, '>')
	if tagEnd < 0 {
		return nil, fmt.Errorf("%w: unterminated %s element", ErrCorruptPackage, name)
	}
	var end int
	switch {
	case selfClose >= 0 && selfClose == tagEnd-1:
		end = start + tagEnd + 1
	case pairClose >= 0:
		end = start + pairClose + len(name) + 3
	default:
		return nil, fmt.Errorf("%w: unterminated %s element", ErrCorruptPackage, name)
	}
	out := make([]byte, 0, len(part))
	out = append(out, part[:start]...)
	out = append(out, part[end:]...)
	return out, nil
}
