package oxcel

import "strings"

// sharedStrings is the workbook-wide deduplicated string pool. Cells hold
// their text inline in the domain model; the pool is rebuilt from live cells
// at write time and consulted by index at read time, so stale indices from a
// prior read can never leak into a write.
type sharedStrings struct {
	entries []sstEntry
	index   map[string]int // dedup key → position in entries
}

// sstEntry is one pooled string, plain or rich.
type sstEntry struct {
	text string
	rich []RichTextRun // nil for a plain string
}

func newSharedStrings() *sharedStrings {
	return &sharedStrings{index: map[string]int{}}
}

// intern returns the pool index for the given text, adding it when absent.
// Rich strings dedup on their full run structure, not just the plain text.
func (s *sharedStrings) intern(text string, rich []RichTextRun) int {
	key := sstKey(text, rich)
	if i, ok := s.index[key]; ok {
		return i
	}
	i := len(s.entries)
	s.entries = append(s.entries, sstEntry{text: text, rich: rich})
	s.index[key] = i
	return i
}

// resolve returns the entry at index i. The ok result is false for an index
// the pool never produced.
func (s *sharedStrings) resolve(i int) (sstEntry, bool) {
	if i < 0 || i >= len(s.entries) {
		return sstEntry{}, false
	}
	return s.entries[i], true
}

func (s *sharedStrings) count() int { return len(s.entries) }

// sstKey builds the dedup key. A rich string's key encodes each run's text
// and font so two rich strings with equal plain text but different formatting
// stay distinct.
func sstKey(text string, rich []RichTextRun) string {
	if len(rich) == 0 {
		return "p\x00" + text
	}
	var b strings.Builder
	b.WriteString("r")
	for _, run := range rich {
		b.WriteString("\x00")
		b.WriteString(run.Text)
		if run.Font != nil {
			b.WriteString("\x01")
			b.WriteString(run.Font.key())
		}
	}
	return b.String()
}
