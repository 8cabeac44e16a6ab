package chat

import (
	"sort"
	"sync"
)

// IndexedDoc is one profile summary held by the vector store.
type IndexedDoc struct {
	ID   string `json:"id"`
	Kind string `json:"kind"` // "teacher" or "student"
	Text string `json:"text"`
}

// scoredDoc pairs a document with its similarity to a query.
type scoredDoc struct {
	doc   IndexedDoc
	score float64
}

// vectorStore is a brute-force in-memory cosine store. Vectors must be
// L2-normalized by the embedder; dot product is then cosine similarity.
type vectorStore struct {
	mu      sync.RWMutex
	docs    []IndexedDoc
	vectors [][]float64
}

func newVectorStore() *vectorStore {
	return &vectorStore{}
}

// replace swaps the whole index in one step. The store is rebuilt on every
// Index call, never patched incrementally.
func (s *vectorStore) replace(docs []IndexedDoc, vectors [][]float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = docs
	s.vectors = vectors
}

func (s *vectorStore) count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// search returns the topK most similar documents. Documents with zero
// similarity are skipped so unrelated queries return nothing.
func (s *vectorStore) search(query []float64, topK int) []scoredDoc {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scored := make([]scoredDoc, 0, len(s.docs))
	for i, vec := range s.vectors {
		if score := dot(vec, query); score > 0 {
			scored = append(scored, scoredDoc{doc: s.docs[i], score: score})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if topK > 0 && len(scored) > topK {
		scored = scored[:topK]
	}
	return scored
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
