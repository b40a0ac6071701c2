package vectordb

import (
	"context"
	"fmt"

	chromem "github.com/philippgille/chromem-go"

	"github.com/hyunwoo-dev/paperlens/internal/chunker"
	"github.com/hyunwoo-dev/paperlens/internal/embeddings"
)

const collectionName = "chunks"

// ChromemIndexer builds one chromem-go collection per indexed document.
type ChromemIndexer struct {
	embedder embeddings.Embedder
	opts     Options
}

// NewChromemIndexer creates an Indexer backed by chromem-go using the given
// embedder for both indexing and querying.
func NewChromemIndexer(embedder embeddings.Embedder, opts Options) *ChromemIndexer {
	if opts.TopK <= 0 {
		opts.TopK = DefaultOptions().TopK
	}
	return &ChromemIndexer{embedder: embedder, opts: opts}
}

func (ix *ChromemIndexer) Index(ctx context.Context, chunks []chunker.Chunk) (Retriever, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	db := chromem.NewDB()
	col, err := db.GetOrCreateCollection(collectionName, nil, embeddings.ToChromemFunc(ix.embedder))
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	docs := make([]chromem.Document, len(chunks))
	for i, c := range chunks {
		docs[i] = chromem.Document{
			ID:       c.Metadata.ChunkID,
			Content:  c.Text,
			Metadata: metadataToMap(c.Metadata),
		}
	}

	if err := col.AddDocuments(ctx, docs, 1); err != nil {
		return nil, fmt.Errorf("add documents: %w", err)
	}

	return &chromemRetriever{collection: col, opts: ix.opts}, nil
}

// chromemRetriever queries a generous candidate pool by cosine similarity and
// reranks it with maximal-marginal-relevance selection, so answers draw on
// distinct document sections instead of near-duplicate passages.
type chromemRetriever struct {
	collection *chromem.Collection
	opts       Options
}

func (r *chromemRetriever) Retrieve(ctx context.Context, query string, k int) ([]Result, error) {
	if k <= 0 {
		k = r.opts.TopK
	}

	count := r.collection.Count()
	if count == 0 {
		return nil, nil
	}

	// chromem-go requires nResults <= collection size.
	pool := fetchK(k)
	if pool > count {
		pool = count
	}

	candidates, err := r.collection.Query(ctx, query, pool, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	if k > len(candidates) {
		k = len(candidates)
	}

	cands := make([]candidate, len(candidates))
	for i, c := range candidates {
		cands[i] = candidate{relevance: c.Similarity, embedding: c.Embedding}
	}

	results := make([]Result, 0, k)
	for _, idx := range selectMMR(cands, k, r.opts.MMRLambda) {
		c := candidates[idx]
		results = append(results, Result{
			Chunk: chunker.Chunk{
				Text:     c.Content,
				Metadata: mapToMetadata(c.Metadata),
			},
			Similarity: c.Similarity,
		})
	}
	return results, nil
}

// metadataToMap converts chunk metadata to the flat map chromem stores.
func metadataToMap(m chunker.Metadata) map[string]string {
	return map[string]string{
		"source":   m.Source,
		"title":    m.Title,
		"section":  m.Section,
		"chunk_id": m.ChunkID,
	}
}

// mapToMetadata converts a flat map back to chunk metadata.
func mapToMetadata(m map[string]string) chunker.Metadata {
	return chunker.Metadata{
		Source:  m["source"],
		Title:   m["title"],
		Section: m["section"],
		ChunkID: m["chunk_id"],
	}
}
