package pipeline

import (
	"github.com/hyunwoo-dev/paperlens/internal/chunker"
	"github.com/hyunwoo-dev/paperlens/internal/vectordb"
)

// State carries one pipeline invocation through its stages. Each stage fills
// the fields it produces and leaves the rest untouched, so later stages see
// everything earlier stages wrote.
type State struct {
	RawText string
	Meta    chunker.Meta

	// Set by the index stage.
	Chunks    []chunker.Chunk
	Retriever vectordb.Retriever

	// Set by the summarize and classify stages.
	Summary string
	Domain  string

	// Question is set by the caller before the run; Answer by the QA stage.
	Question string
	Answer   string

	TopK int

	// Faults records absorbed stage failures, in stage order. They are
	// reported, not thrown: the run itself still completes.
	Faults []error
}

func (s *State) recordFault(err error) {
	s.Faults = append(s.Faults, err)
}
