package oxcel

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedFixture(t *testing.T) []byte {
	t.Helper()
	wb := NewWorkbook()
	s, err := wb.Sheet("Sheet1")
	require.NoError(t, err)
	require.NoError(t, s.SetCellValue("A1", "payload"))
	require.NoError(t, s.SetCellValue("B1", 3.14))
	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func partsOf(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	out := map[string][]byte{}
	for _, f := range zr.File {
		out[f.Name] = zipPart(t, data, f.Name)
	}
	return out
}

func TestPatchProtection_AddsProtection(t *testing.T) {
	original := protectedFixture(t)

	patched, err := PatchProtection(original, "secret", WorkbookProtection{LockStructure: true})
	require.NoError(t, err)

	got, err := Open(patched)
	require.NoError(t, err)
	require.True(t, got.IsProtected())
	p, ok := got.Protection()
	require.True(t, ok)
	assert.True(t, p.LockStructure)
	assert.True(t, p.Hash.VerifyPassword("secret"))
	assert.False(t, p.Hash.VerifyPassword("nope"))

	s, err := got.Sheet("Sheet1")
	require.NoError(t, err)
	v, _ := s.CellValue("A1")
	assert.Equal(t, "payload", v)
}

func TestPatchProtection_OtherPartsUntouched(t *testing.T) {
	original := protectedFixture(t)
	patched, err := PatchProtection(original, "secret", WorkbookProtection{LockStructure: true})
	require.NoError(t, err)

	before := partsOf(t, original)
	after := partsOf(t, patched)
	require.Equal(t, len(before), len(after))
	for name, content := range before {
		if name == "xl/workbook.xml" {
			assert.NotEqual(t, content, after[name])
			continue
		}
		assert.Equal(t, content, after[name], "part %s changed", name)
	}
}

func TestPatchProtection_ReplacesExisting(t *testing.T) {
	wb := NewWorkbook()
	wb.Protect("old", WorkbookProtection{LockStructure: true, LockWindows: true})
	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)

	patched, err := PatchProtection(buf.Bytes(), "new", WorkbookProtection{LockRevision: true})
	require.NoError(t, err)

	got, err := Open(patched)
	require.NoError(t, err)
	p, ok := got.Protection()
	require.True(t, ok)
	assert.True(t, p.LockRevision)
	assert.False(t, p.LockWindows)
	assert.True(t, p.Hash.VerifyPassword("new"))
	assert.False(t, p.Hash.VerifyPassword("old"))
}

func TestPatchProtection_NoPassword(t *testing.T) {
	patched, err := PatchProtection(protectedFixture(t), "", WorkbookProtection{LockStructure: true})
	require.NoError(t, err)

	got, err := Open(patched)
	require.NoError(t, err)
	p, ok := got.Protection()
	require.True(t, ok)
	assert.True(t, p.LockStructure)
	assert.True(t, p.Hash.IsZero())
}

func TestUnpatchProtection(t *testing.T) {
	patched, err := PatchProtection(protectedFixture(t), "secret", WorkbookProtection{LockStructure: true})
	require.NoError(t, err)

	cleared, err := UnpatchProtection(patched)
	require.NoError(t, err)

	got, err := Open(cleared)
	require.NoError(t, err)
	assert.False(t, got.IsProtected())

	s, err := got.Sheet("Sheet1")
	require.NoError(t, err)
	v, _ := s.CellValue("B1")
	assert.Equal(t, 3.14, v)
}

func TestUnpatchProtection_NoProtectionIsNoop(t *testing.T) {
	original := protectedFixture(t)
	cleared, err := UnpatchProtection(original)
	require.NoError(t, err)
	got, err := Open(cleared)
	require.NoError(t, err)
	assert.False(t, got.IsProtected())
}

func TestPatchProtection_NotAZip(t *testing.T) {
	_, err := PatchProtection([]byte("nope"), "p", WorkbookProtection{})
	assert.ErrorIs(t, err, ErrCorruptPackage)
}

func TestPatchProtection_MissingWorkbookPart(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("unrelated.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = PatchProtection(buf.Bytes(), "p", WorkbookProtection{})
	assert.ErrorIs(t, err, ErrCorruptPackage)
}

func TestLegacyPasswordHash_KnownValue(t *testing.T) {
	// The legacy hash is deterministic; equal inputs must agree and the
	// verifier is case-insensitive on the stored hex.
	h1 := hashPassword("secret")
	h2 := hashPassword("secret")
	assert.Equal(t, h1.Legacy, h2.Legacy)
	assert.Len(t, h1.Legacy, 4)

	assert.NotEqual(t, h1.Hash, h2.Hash, "ISO hashes use random salts")
	assert.True(t, h1.VerifyPassword("secret"))
	assert.True(t, h2.VerifyPassword("secret"))
}

func TestPasswordHash_LegacyOnlyFallback(t *testing.T) {
	h := hashPassword("abc")
	h.Hash, h.Salt, h.Algorithm, h.SpinCount = "", "", "", 0
	assert.True(t, h.VerifyPassword("abc"))
	assert.False(t, h.VerifyPassword("abd"))
}
