package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Document is the extracted plain text of a source file plus its provenance
// metadata. It is immutable once produced.
type Document struct {
	Text string
	Meta Meta
}

// Meta carries document provenance used downstream as chunk metadata.
type Meta struct {
	Title  string // filename without extension
	Source string // original filename
	Pages  int    // page count, 0 when unknown
}

// Empty reports whether no text could be extracted.
func (d *Document) Empty() bool {
	return d == nil || strings.TrimSpace(d.Text) == ""
}

// ExtractionError indicates the source file existed but could not be parsed.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// File extracts text from the PDF at path. A missing path yields an empty
// Document rather than an error, so callers can degrade to a "no content"
// state; a parse failure of an existing file yields an *ExtractionError.
func File(path string) (*Document, error) {
	if _, err := os.Stat(path); err != nil {
		return &Document{Meta: MetaFor(path)}, nil
	}

	res, err := docconv.ConvertPath(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Err: err}
	}

	meta := MetaFor(path)
	// Page count is provenance only; failures here must not fail extraction.
	if n, err := api.PageCountFile(path); err == nil {
		meta.Pages = n
	}

	return &Document{
		Text: res.Body,
		Meta: meta,
	}, nil
}

// MetaFor derives title and source metadata from a file path.
func MetaFor(path string) Meta {
	name := filepath.Base(path)
	return Meta{
		Title:  strings.TrimSuffix(name, filepath.Ext(name)),
		Source: name,
	}
}
