package pipeline

import "fmt"

// Stage names used in typed errors and recorded faults.
const (
	StageIndex     = "index"
	StageSummarize = "summarize"
	StageClassify  = "classify"
	StageQA        = "qa"
)

// EmbeddingError reports a failure while embedding or indexing chunks.
// The orchestrator absorbs it: the retriever stays nil and later stages
// run on raw text.
type EmbeddingError struct {
	Err error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding failed: %v", e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// GenerationError reports a generative-text failure in a named stage.
// Summarize and classify failures are absorbed with degraded defaults;
// QA failures propagate to the caller.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation failed: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// EmptyContentError signals that extraction produced no text. The pipeline
// continues with a nil retriever so later stages degrade instead of aborting.
type EmptyContentError struct {
	Source string
}

func (e *EmptyContentError) Error() string {
	return fmt.Sprintf("document %q contains no extractable text", e.Source)
}
