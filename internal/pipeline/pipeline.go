// Package pipeline orchestrates the document analysis flow: chunk and index
// the extracted text, summarize it, classify its domain, and optionally
// answer a question grounded in the indexed content.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/hyunwoo-dev/paperlens/internal/chunker"
	"github.com/hyunwoo-dev/paperlens/internal/llm"
	"github.com/hyunwoo-dev/paperlens/internal/vectordb"
)

// Fixed answers for the QA stage's terminal states.
const (
	NoIndexAnswer = "The document could not be embedded or searched. No retriever is available."
	NoMatchAnswer = "No content related to the question was found. Please check that the uploaded PDF contains the paper text."
)

// UnknownDomain is returned by the classify stage when no label could be
// produced. It is never empty so display code always has something to show.
const UnknownDomain = "unknown domain"

// Cache stores retrievers keyed by document ID so repeated questions skip
// re-indexing. Implemented by cache.RetrieverCache.
type Cache interface {
	Set(docID string, r vectordb.Retriever)
	Get(docID string) (vectordb.Retriever, bool)
	Has(docID string) bool
	Clear(docID string)
}

// Config tunes one pipeline instance.
type Config struct {
	Model           string
	Chunking        chunker.Config
	TopK            int
	SummaryMaxChars int
	RequestTimeout  time.Duration
}

// DefaultConfig matches the reference tuning: 5 retrieved chunks per
// question and summaries fed at most 5000 characters of input.
func DefaultConfig() Config {
	return Config{
		Chunking:        chunker.DefaultConfig(),
		TopK:            5,
		SummaryMaxChars: 5000,
		RequestTimeout:  60 * time.Second,
	}
}

// Pipeline runs analysis invocations. Safe for concurrent use: invocations
// share only the retriever cache.
type Pipeline struct {
	provider llm.Provider
	indexer  vectordb.Indexer
	cache    Cache
	cfg      Config
}

func New(provider llm.Provider, indexer vectordb.Indexer, cache Cache, cfg Config) *Pipeline {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultConfig().TopK
	}
	if cfg.SummaryMaxChars <= 0 {
		cfg.SummaryMaxChars = DefaultConfig().SummaryMaxChars
	}
	if cfg.Chunking.Size <= 0 {
		cfg.Chunking = chunker.DefaultConfig()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultConfig().RequestTimeout
	}
	return &Pipeline{provider: provider, indexer: indexer, cache: cache, cfg: cfg}
}

// Analyze runs the full pipeline without a question: index, summarize,
// classify. Stage failures with a degraded default are recorded in
// State.Faults rather than returned.
func (p *Pipeline) Analyze(ctx context.Context, text string, meta chunker.Meta) (*State, error) {
	st := &State{RawText: text, Meta: meta, TopK: p.cfg.TopK}
	p.runIndex(ctx, st)
	p.runSummarize(ctx, st)
	p.runClassify(ctx, st)
	return st, nil
}

// AnalyzeAndAnswer runs the full pipeline and then answers the question
// against the freshly built index. A QA generation failure is returned along
// with the state accumulated so far.
func (p *Pipeline) AnalyzeAndAnswer(ctx context.Context, text string, meta chunker.Meta, question string) (*State, error) {
	st := &State{RawText: text, Meta: meta, Question: question, TopK: p.cfg.TopK}
	p.runIndex(ctx, st)
	p.runSummarize(ctx, st)
	p.runClassify(ctx, st)
	if st.Question == "" {
		return st, nil
	}
	if err := p.runQA(ctx, st); err != nil {
		return st, err
	}
	return st, nil
}

// AnswerExisting answers a question about an already-analyzed document using
// its cached retriever. A cache miss behaves like an absent retriever.
func (p *Pipeline) AnswerExisting(ctx context.Context, docID, question string) (string, error) {
	var retriever vectordb.Retriever
	if p.cache != nil {
		if r, ok := p.cache.Get(docID); ok {
			retriever = r
		}
	}
	return p.Answer(ctx, retriever, question)
}

// Answer runs just the QA stage against the given retriever, which may be
// nil.
func (p *Pipeline) Answer(ctx context.Context, retriever vectordb.Retriever, question string) (string, error) {
	st := &State{Retriever: retriever, Question: question, TopK: p.cfg.TopK}
	if err := p.runQA(ctx, st); err != nil {
		return "", err
	}
	return st.Answer, nil
}

// Index rebuilds a document's chunk index and caches the retriever under
// docID. Used when a question arrives for a persisted document whose
// retriever has been evicted. Indexing faults are absorbed the same way
// Analyze absorbs them: the returned retriever is nil and QA degrades to
// its fixed message.
func (p *Pipeline) Index(ctx context.Context, docID, text string, meta chunker.Meta) (vectordb.Retriever, error) {
	st := &State{RawText: text, Meta: meta}
	p.runIndex(ctx, st)
	if st.Retriever != nil {
		p.CacheRetriever(docID, st.Retriever)
	}
	return st.Retriever, nil
}

// HasRetriever reports whether a retriever is cached for the document.
func (p *Pipeline) HasRetriever(docID string) bool {
	return p.cache != nil && p.cache.Has(docID)
}

// CacheRetriever records a document's retriever for later AnswerExisting
// calls. A nil retriever is not cached.
func (p *Pipeline) CacheRetriever(docID string, r vectordb.Retriever) {
	if p.cache == nil || r == nil {
		return
	}
	p.cache.Set(docID, r)
}

// EvictRetriever drops a document's cached retriever, if any.
func (p *Pipeline) EvictRetriever(docID string) {
	if p.cache != nil {
		p.cache.Clear(docID)
	}
}

func (p *Pipeline) runIndex(ctx context.Context, st *State) {
	text := strings.TrimSpace(st.RawText)
	if text == "" {
		st.recordFault(&EmptyContentError{Source: st.Meta.Source})
		return
	}

	st.Chunks = chunker.Split(st.RawText, st.Meta, p.cfg.Chunking)

	ctx, cancel := context.WithTimeout(ctx, p.cfg.RequestTimeout)
	defer cancel()

	retriever, err := p.indexer.Index(ctx, st.Chunks)
	if err != nil {
		st.recordFault(&EmbeddingError{Err: err})
		return
	}
	st.Retriever = retriever
}

func (p *Pipeline) runSummarize(ctx context.Context, st *State) {
	text := strings.TrimSpace(st.RawText)
	if text == "" {
		return
	}

	out, err := p.complete(ctx, summaryPrompt(truncate(text, p.cfg.SummaryMaxChars)))
	if err != nil {
		st.recordFault(&GenerationError{Stage: StageSummarize, Err: err})
		return
	}
	st.Summary = strings.TrimSpace(out)
}

func (p *Pipeline) runClassify(ctx context.Context, st *State) {
	input := st.Summary
	if input == "" {
		input = truncate(strings.TrimSpace(st.RawText), p.cfg.SummaryMaxChars)
	}
	if input == "" {
		st.Domain = UnknownDomain
		return
	}

	out, err := p.complete(ctx, classifyPrompt(input))
	if err != nil {
		st.recordFault(&GenerationError{Stage: StageClassify, Err: err})
		st.Domain = UnknownDomain
		return
	}
	label := strings.TrimSpace(out)
	if label == "" {
		label = UnknownDomain
	}
	st.Domain = label
}

func (p *Pipeline) runQA(ctx context.Context, st *State) error {
	if st.Retriever == nil {
		st.Answer = NoIndexAnswer
		return nil
	}

	qctx, cancel := context.WithTimeout(ctx, p.cfg.RequestTimeout)
	results, err := st.Retriever.Retrieve(qctx, st.Question, st.TopK)
	cancel()
	if err != nil {
		return &GenerationError{Stage: StageQA, Err: err}
	}
	if len(results) == 0 {
		st.Answer = NoMatchAnswer
		return nil
	}

	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.Chunk.Text
	}
	contextBlock := strings.Join(texts, "\n")

	out, err := p.complete(ctx, qaPrompt(contextBlock, st.Question))
	if err != nil {
		return &GenerationError{Stage: StageQA, Err: err}
	}
	st.Answer = strings.TrimSpace(out)
	return nil
}

func (p *Pipeline) complete(ctx context.Context, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.RequestTimeout)
	defer cancel()

	resp, err := p.provider.Complete(ctx, llm.CompletionRequest{
		Model:       p.cfg.Model,
		Messages:    promptMessages(userPrompt),
		Temperature: 0.3,
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

func truncate(s string, maxChars int) string {
	if maxChars <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}
