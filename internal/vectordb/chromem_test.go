package vectordb

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/hyunwoo-dev/paperlens/internal/chunker"
)

// mockEmbedder returns deterministic embeddings based on text content.
// Similar texts produce similar vectors because shared characters contribute
// to the same positions in the vector.
type mockEmbedder struct {
	dims int
}

func (m *mockEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	for i, text := range texts {
		results[i] = m.deterministicVector(text)
	}
	return results, nil
}

func (m *mockEmbedder) Dimensions() int { return m.dims }
func (m *mockEmbedder) Name() string    { return "mock" }

func (m *mockEmbedder) deterministicVector(text string) []float32 {
	vec := make([]float32, m.dims)
	for i, ch := range text {
		idx := (int(ch) + i) % m.dims
		vec[idx] += 1.0
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}
	return vec
}

func testChunks() []chunker.Chunk {
	texts := []string{
		"Reinforcement learning controls the drone flight system autonomously",
		"Sensor fusion combines lidar and camera data for self-driving accuracy",
		"The evaluation compares three baselines on two public benchmarks",
		"Training uses a distributed cluster of eight accelerator nodes",
	}
	chunks := make([]chunker.Chunk, len(texts))
	for i, tx := range texts {
		chunks[i] = chunker.Chunk{
			Text: tx,
			Metadata: chunker.Metadata{
				Source:  "paper.pdf",
				Title:   "paper",
				Section: "whole_document",
				ChunkID: fmt.Sprintf("0-%d", i),
			},
		}
	}
	return chunks
}

func TestIndexEmptyChunksReturnsNilRetriever(t *testing.T) {
	ix := NewChromemIndexer(&mockEmbedder{dims: 64}, DefaultOptions())

	r, err := ix.Index(context.Background(), nil)
	if err != nil {
		t.Fatalf("Index of empty chunks should not error, got %v", err)
	}
	if r != nil {
		t.Error("expected nil retriever for empty chunk set")
	}
}

func TestIndexAndRetrieve(t *testing.T) {
	ctx := context.Background()
	ix := NewChromemIndexer(&mockEmbedder{dims: 64}, DefaultOptions())

	r, err := ix.Index(ctx, testChunks())
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if r == nil {
		t.Fatal("expected non-nil retriever")
	}

	results, err := r.Retrieve(ctx, "drone flight reinforcement learning", 2)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected at least one result")
	}
	if len(results) > 2 {
		t.Errorf("expected at most 2 results, got %d", len(results))
	}
	for _, res := range results {
		if res.Chunk.Text == "" {
			t.Error("result chunk has empty text")
		}
		if res.Chunk.Metadata.Source != "paper.pdf" {
			t.Errorf("metadata lost in round trip: %+v", res.Chunk.Metadata)
		}
	}
}

func TestRetrieveDefaultK(t *testing.T) {
	ctx := context.Background()
	ix := NewChromemIndexer(&mockEmbedder{dims: 64}, Options{TopK: 3, MMRLambda: 0.5})

	r, err := ix.Index(ctx, testChunks())
	if err != nil {
		t.Fatalf("Index: %v", err)
	}

	// k <= 0 falls back to the configured TopK, clamped to the pool.
	results, err := r.Retrieve(ctx, "benchmarks", 0)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("expected 3 results for default k, got %d", len(results))
	}
}

func TestFetchK(t *testing.T) {
	tests := []struct{ k, want int }{
		{1, 20},
		{3, 20},
		{4, 24},
		{5, 30},
		{10, 60},
	}
	for _, tt := range tests {
		if got := fetchK(tt.k); got != tt.want {
			t.Errorf("fetchK(%d) = %d, want %d", tt.k, got, tt.want)
		}
	}
}
