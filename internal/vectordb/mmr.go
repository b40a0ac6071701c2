package vectordb

// candidate is one entry of the retrieval pool: its similarity to the query
// and its embedding, used to measure redundancy against already-picked
// candidates.
type candidate struct {
	relevance float32
	embedding []float32
}

// selectMMR picks k candidate indices by maximal marginal relevance: each
// round takes the candidate maximizing
//
//	lambda*relevance - (1-lambda)*maxSimilarityToSelected
//
// so lambda 1 degenerates to pure relevance ranking and lambda 0 to pure
// diversity. Embeddings are assumed L2-normalized (chromem-go normalizes on
// insert), so the dot product is cosine similarity.
func selectMMR(cands []candidate, k int, lambda float64) []int {
	if k > len(cands) {
		k = len(cands)
	}
	if k <= 0 {
		return nil
	}

	selected := make([]int, 0, k)
	picked := make([]bool, len(cands))

	// maxSim[i] tracks the highest similarity of candidate i to any selected
	// candidate so far.
	maxSim := make([]float64, len(cands))

	for len(selected) < k {
		best := -1
		bestScore := 0.0
		for i, c := range cands {
			if picked[i] {
				continue
			}
			score := lambda * float64(c.relevance)
			if len(selected) > 0 {
				score -= (1 - lambda) * maxSim[i]
			}
			if best == -1 || score > bestScore {
				best = i
				bestScore = score
			}
		}
		if best == -1 {
			break
		}

		picked[best] = true
		selected = append(selected, best)

		for i, c := range cands {
			if picked[i] {
				continue
			}
			if sim := dot(c.embedding, cands[best].embedding); sim > maxSim[i] {
				maxSim[i] = sim
			}
		}
	}

	return selected
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
