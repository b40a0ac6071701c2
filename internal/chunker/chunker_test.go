package chunker

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitEmptyInput(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\n\t"} {
		if got := Split(text, Meta{}, DefaultConfig()); len(got) != 0 {
			t.Errorf("Split(%q) = %d chunks, want 0", text, len(got))
		}
	}
}

func TestSplitShortSectionYieldsOneChunk(t *testing.T) {
	text := "A short paragraph well under the target size."
	chunks := Split(text, Meta{Title: "short", Source: "short.pdf"}, DefaultConfig())

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != text {
		t.Errorf("chunk text = %q, want original text", chunks[0].Text)
	}
	if chunks[0].Metadata.Section != WholeDocumentSection {
		t.Errorf("section = %q, want %q", chunks[0].Metadata.Section, WholeDocumentSection)
	}
	if chunks[0].Metadata.ChunkID != "0-0" {
		t.Errorf("chunk id = %q, want 0-0", chunks[0].Metadata.ChunkID)
	}
}

func TestSplitSectionBoundaries(t *testing.T) {
	text := "# Intro\nThis paper proposes X.\n## Method\nWe use Y."
	chunks := Split(text, Meta{Title: "paper", Source: "paper.pdf"}, DefaultConfig())

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks (one per section), got %d", len(chunks))
	}
	if chunks[0].Metadata.Section != "Intro" {
		t.Errorf("first section = %q, want Intro", chunks[0].Metadata.Section)
	}
	if chunks[1].Metadata.Section != "Method" {
		t.Errorf("second section = %q, want Method", chunks[1].Metadata.Section)
	}
	if !strings.Contains(chunks[0].Text, "proposes X") {
		t.Errorf("first chunk missing body: %q", chunks[0].Text)
	}
	if !strings.Contains(chunks[1].Text, "We use Y") {
		t.Errorf("second chunk missing body: %q", chunks[1].Text)
	}
	// Section text keeps its heading line.
	if !strings.HasPrefix(chunks[0].Text, "# Intro") {
		t.Errorf("heading should stay in its section, got %q", chunks[0].Text)
	}
}

func TestSplitIdempotent(t *testing.T) {
	text := buildLongText(40)
	cfg := DefaultConfig()
	meta := Meta{Title: "t", Source: "t.pdf"}

	a := Split(text, meta, cfg)
	b := Split(text, meta, cfg)

	if len(a) != len(b) {
		t.Fatalf("chunk counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Text != b[i].Text {
			t.Errorf("chunk %d text differs between runs", i)
		}
		if a[i].Metadata != b[i].Metadata {
			t.Errorf("chunk %d metadata differs between runs", i)
		}
	}
}

func TestSplitSizeBound(t *testing.T) {
	cfg := Config{Size: 200, Overlap: 30}
	text := buildLongText(60)

	for _, c := range Split(text, Meta{}, cfg) {
		if len(c.Text) > cfg.Size+cfg.Overlap {
			t.Errorf("chunk %s has length %d, exceeds size+overlap bound %d",
				c.Metadata.ChunkID, len(c.Text), cfg.Size+cfg.Overlap)
		}
	}
}

func TestSplitIndivisibleRun(t *testing.T) {
	// No separators at all: the character-level fallback must still bound
	// chunk sizes and lose nothing.
	text := strings.Repeat("x", 950)
	cfg := Config{Size: 300, Overlap: 40}

	chunks := Split(text, Meta{}, cfg)
	if len(chunks) == 0 {
		t.Fatal("expected chunks for non-empty input")
	}
	for _, c := range chunks {
		if len(c.Text) > cfg.Size+cfg.Overlap {
			t.Errorf("chunk length %d exceeds bound %d", len(c.Text), cfg.Size+cfg.Overlap)
		}
	}
	// No fragment fits inside the overlap budget, so chunks are disjoint and
	// plain concatenation must reproduce the input.
	var joined strings.Builder
	for _, c := range chunks {
		joined.WriteString(c.Text)
	}
	if joined.String() != text {
		t.Errorf("reconstruction lost characters: got %d chars, want %d", joined.Len(), len(text))
	}
}

func TestSplitMultiByteRunAtRuneBoundaries(t *testing.T) {
	// Separator-free Korean text: the fallback must cut between runes, never
	// inside one, and sizing counts runes rather than bytes.
	text := strings.Repeat("가", 900)
	cfg := Config{Size: 250, Overlap: 30}

	chunks := Split(text, Meta{}, cfg)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	var joined strings.Builder
	for _, c := range chunks {
		if !utf8.ValidString(c.Text) {
			t.Errorf("chunk %s is not valid UTF-8: %q", c.Metadata.ChunkID, c.Text)
		}
		if n := utf8.RuneCountInString(c.Text); n > cfg.Size+cfg.Overlap {
			t.Errorf("chunk %s has %d runes, exceeds bound %d",
				c.Metadata.ChunkID, n, cfg.Size+cfg.Overlap)
		}
		joined.WriteString(c.Text)
	}
	if joined.String() != text {
		t.Errorf("reconstruction lost runes: got %d, want %d",
			utf8.RuneCountInString(joined.String()), utf8.RuneCountInString(text))
	}
}

func TestSplitMultiByteSectionSizesInRunes(t *testing.T) {
	// 400 runes of Korean prose with spaces. Measured in bytes this would
	// splinter into many chunks; in runes it fits in two.
	sentence := strings.Repeat("가나다라 ", 100)
	text := strings.TrimSpace(sentence)
	cfg := Config{Size: 300, Overlap: 40}

	chunks := Split(text, Meta{}, cfg)
	for _, c := range chunks {
		if n := utf8.RuneCountInString(c.Text); n > cfg.Size+cfg.Overlap {
			t.Errorf("chunk %s has %d runes, exceeds bound %d",
				c.Metadata.ChunkID, n, cfg.Size+cfg.Overlap)
		}
	}
	if len(chunks) > 3 {
		t.Errorf("expected rune-based sizing to pack %d runes into at most 3 chunks, got %d",
			utf8.RuneCountInString(text), len(chunks))
	}
}

func TestSplitCoverage(t *testing.T) {
	// Concatenating chunk texts with overlaps removed must reproduce each
	// section exactly.
	text := "# Background\n" + buildLongText(30) + "\n## Evaluation\n" + buildLongText(25)
	cfg := Config{Size: 250, Overlap: 40}

	chunks := Split(text, Meta{}, cfg)
	if len(chunks) < 4 {
		t.Fatalf("expected several chunks per section, got %d total", len(chunks))
	}

	bySection := map[string][]Chunk{}
	var order []string
	for _, c := range chunks {
		if _, seen := bySection[c.Metadata.Section]; !seen {
			order = append(order, c.Metadata.Section)
		}
		bySection[c.Metadata.Section] = append(bySection[c.Metadata.Section], c)
	}

	if len(order) != 2 || order[0] != "Background" || order[1] != "Evaluation" {
		t.Fatalf("unexpected section order: %v", order)
	}

	var rebuilt []string
	for _, name := range order {
		rebuilt = append(rebuilt, reconstruct(bySection[name]))
	}
	if got := strings.Join(rebuilt, "\n"); got != text {
		t.Errorf("coverage broken: rebuilt text differs from input\n got: %q\nwant: %q",
			clip(got), clip(text))
	}
}

func TestSplitChunkIDsUniqueAndOrdered(t *testing.T) {
	text := "# A\n" + buildLongText(20) + "\n# B\n" + buildLongText(20)
	chunks := Split(text, Meta{}, Config{Size: 200, Overlap: 20})

	seen := map[string]bool{}
	for _, c := range chunks {
		if seen[c.Metadata.ChunkID] {
			t.Errorf("duplicate chunk id %q", c.Metadata.ChunkID)
		}
		seen[c.Metadata.ChunkID] = true
	}
}

func TestSplitMetadataDefaults(t *testing.T) {
	chunks := Split("some text", Meta{}, DefaultConfig())
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Metadata.Source != "N/A" || chunks[0].Metadata.Title != "N/A" {
		t.Errorf("expected N/A defaults, got source=%q title=%q",
			chunks[0].Metadata.Source, chunks[0].Metadata.Title)
	}

	chunks = Split("some text", Meta{Title: "only-title"}, DefaultConfig())
	if chunks[0].Metadata.Source != "only-title" {
		t.Errorf("source should fall back to title, got %q", chunks[0].Metadata.Source)
	}
}

// reconstruct joins section chunks back together by trimming the overlap each
// chunk shares with the accumulated text.
func reconstruct(chunks []Chunk) string {
	acc := ""
	for _, c := range chunks {
		if acc == "" {
			acc = c.Text
			continue
		}
		overlap := 0
		max := len(c.Text)
		if len(acc) < max {
			max = len(acc)
		}
		for n := max; n > 0; n-- {
			if strings.HasSuffix(acc, c.Text[:n]) {
				overlap = n
				break
			}
		}
		acc += c.Text[overlap:]
	}
	return acc
}

// buildLongText produces paragraphs of distinct numbered sentences so that
// overlap seams are unambiguous when reconstructing.
func buildLongText(sentences int) string {
	var b strings.Builder
	for i := 0; i < sentences; i++ {
		fmt.Fprintf(&b, "Result %03d shows a relative gain over the strongest baseline.", i)
		if i%5 == 4 {
			b.WriteString("\n\n")
		} else {
			b.WriteString(" ")
		}
	}
	return strings.TrimSpace(b.String())
}

func clip(s string) string {
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
