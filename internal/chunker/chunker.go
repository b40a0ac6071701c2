// Package chunker splits extracted document text into retrieval-sized,
// context-preserving segments. Splitting is two-pass: a structural pass keeps
// section boundaries intact by splitting on heading markers, then a
// length-bounded pass cuts each section into overlapping pieces at the most
// natural boundary available (paragraph, line, word, character).
package chunker

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// separators is the boundary priority for the length-bounded pass. The empty
// string marks the character-level fallback.
var separators = []string{"\n\n", "\n", " ", ""}

// WholeDocumentSection is the section name used when no headings are found.
const WholeDocumentSection = "whole_document"

// Config controls chunk sizing.
type Config struct {
	Size    int // target chunk length in characters
	Overlap int // characters carried over between consecutive chunks
}

// DefaultConfig returns the chunking configuration used for technical papers:
// roughly 350-500 tokens per chunk with a soft seam between neighbours.
func DefaultConfig() Config {
	return Config{Size: 1000, Overlap: 120}
}

// Meta identifies the document the chunks came from.
type Meta struct {
	Title  string
	Source string
}

// Metadata is the provenance attached to every chunk.
type Metadata struct {
	Source  string
	Title   string
	Section string
	ChunkID string // "<sectionIndex>-<pieceIndex>"
}

// Chunk is a bounded-length text segment with provenance metadata. Chunks are
// never mutated after creation.
type Chunk struct {
	Text     string
	Metadata Metadata
}

// Split chunks text using cfg. Empty (or blank) input yields no chunks.
// Output preserves document reading order: sections in original order,
// pieces within a section in original order.
func Split(text string, meta Meta, cfg Config) []Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	source := meta.Source
	if source == "" {
		source = meta.Title
	}
	if source == "" {
		source = "N/A"
	}
	title := meta.Title
	if title == "" {
		title = "N/A"
	}

	var chunks []Chunk
	for secIdx, sec := range splitSections(text) {
		for pieceIdx, piece := range splitPieces(sec.text, cfg) {
			chunks = append(chunks, Chunk{
				Text: piece,
				Metadata: Metadata{
					Source:  source,
					Title:   title,
					Section: sec.name,
					ChunkID: fmt.Sprintf("%d-%d", secIdx, pieceIdx),
				},
			})
		}
	}
	return chunks
}

type section struct {
	name string
	text string
}

// splitSections splits text on level-1/level-2 heading lines. Heading lines
// stay part of their section so no characters are lost. Text without any
// headings becomes a single whole_document section.
func splitSections(text string) []section {
	lines := strings.Split(text, "\n")

	var sections []section
	var cur []string
	curName := ""
	sawHeading := false

	flush := func() {
		if len(cur) == 0 {
			return
		}
		name := curName
		if name == "" {
			name = WholeDocumentSection
		}
		sections = append(sections, section{name: name, text: strings.Join(cur, "\n")})
		cur = nil
	}

	for _, line := range lines {
		if name, ok := headingName(line); ok {
			flush()
			curName = name
			sawHeading = true
		}
		cur = append(cur, line)
	}
	flush()

	if !sawHeading {
		// Treat the entire text as one section.
		return []section{{name: WholeDocumentSection, text: text}}
	}
	return sections
}

func headingName(line string) (string, bool) {
	for _, prefix := range []string{"## ", "# "} {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, prefix)), true
		}
	}
	return "", false
}

// splitPieces cuts one section into pieces of at most cfg.Size characters
// (plus at most cfg.Overlap carried-over characters), breaking at the highest
// priority separator available.
func splitPieces(text string, cfg Config) []string {
	if text == "" {
		return nil
	}
	if cfg.Size <= 0 {
		cfg = DefaultConfig()
	}
	if utf8.RuneCountInString(text) <= cfg.Size {
		return []string{text}
	}
	return mergeParts(atomize(text, 0, cfg.Size), cfg)
}

// atomize splits text into fragments no longer than limit, trying separators
// in priority order. Separators stay attached to the preceding fragment so
// concatenating all fragments reproduces text exactly. Only the final
// character-level fallback can still produce an over-long fragment, and it
// never does: it hard-cuts at limit.
func atomize(text string, sepIdx int, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	sep := separators[sepIdx]
	if sep == "" {
		// Hard cut at rune boundaries so multi-byte text is never split
		// mid-character.
		runes := []rune(text)
		var out []string
		for len(runes) > limit {
			out = append(out, string(runes[:limit]))
			runes = runes[limit:]
		}
		if len(runes) > 0 {
			out = append(out, string(runes))
		}
		return out
	}

	var out []string
	for _, frag := range strings.SplitAfter(text, sep) {
		if frag == "" {
			continue
		}
		if utf8.RuneCountInString(frag) <= limit {
			out = append(out, frag)
		} else {
			out = append(out, atomize(frag, sepIdx+1, limit)...)
		}
	}
	return out
}

// mergeParts packs fragments into chunks of at most cfg.Size characters.
// When a chunk is emitted, whole tail fragments totalling at most cfg.Overlap
// characters seed the next chunk, so consecutive chunks share a seam. A chunk
// holding only seed fragments is never emitted on its own, which bounds chunk
// length by cfg.Size+cfg.Overlap in the worst case.
func mergeParts(parts []string, cfg Config) []string {
	var chunks []string
	var cur []string
	curLen := 0
	seeds := 0 // leading fragments of cur that repeat the previous chunk

	for _, p := range parts {
		pLen := utf8.RuneCountInString(p)
		if curLen > 0 && curLen+pLen > cfg.Size && len(cur) > seeds {
			chunks = append(chunks, strings.Join(cur, ""))

			var tail []string
			tailLen := 0
			for j := len(cur) - 1; j >= 0; j-- {
				fragLen := utf8.RuneCountInString(cur[j])
				if tailLen+fragLen > cfg.Overlap {
					break
				}
				tail = append([]string{cur[j]}, tail...)
				tailLen += fragLen
			}
			cur = tail
			curLen = tailLen
			seeds = len(tail)
		}
		cur = append(cur, p)
		curLen += pLen
	}

	if len(cur) > seeds {
		chunks = append(chunks, strings.Join(cur, ""))
	}
	return chunks
}
