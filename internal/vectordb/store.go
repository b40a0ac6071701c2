// Package vectordb builds in-memory similarity indexes over document chunks
// and retrieves the chunks most relevant to a question. One index is built
// per analyzed document and lives only in process memory.
package vectordb

import (
	"context"

	"github.com/hyunwoo-dev/paperlens/internal/chunker"
)

// Result pairs a retrieved chunk with its similarity to the query.
type Result struct {
	Chunk      chunker.Chunk
	Similarity float32
}

// Retriever finds the chunks of one indexed document most relevant to a
// query. Implementations must be safe for concurrent use.
type Retriever interface {
	// Retrieve returns up to k chunks ranked by relevance. k <= 0 selects
	// the configured default.
	Retrieve(ctx context.Context, query string, k int) ([]Result, error)
}

// Indexer embeds a chunk set and builds a searchable index over it.
type Indexer interface {
	// Index returns a retriever over chunks. An empty chunk set yields a nil
	// retriever and no error, signalling a "no content" state.
	Index(ctx context.Context, chunks []chunker.Chunk) (Retriever, error)
}

// Options tunes retrieval behaviour.
type Options struct {
	// TopK is the number of chunks returned per query.
	TopK int
	// MMRLambda balances relevance against diversity when selecting from the
	// candidate pool: 1 is pure relevance, 0 is pure diversity.
	MMRLambda float64
}

// DefaultOptions returns the retrieval tuning used for paper QA.
func DefaultOptions() Options {
	return Options{TopK: 5, MMRLambda: 0.5}
}

// fetchK returns the candidate pool size for a final selection of k: the pool
// is kept generously larger than k so diversity-aware selection has real
// choices.
func fetchK(k int) int {
	if n := 6 * k; n > 20 {
		return n
	}
	return 20
}
