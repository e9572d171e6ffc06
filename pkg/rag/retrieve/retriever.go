// Package retrieve performs similarity search over the indexed PDF chunks.
// Retrieval never fails: any underlying error yields an empty result, and
// the answer composer decides what to tell the user.
package retrieve

import (
	"context"
	"log"

	"github.com/skycast-ai/skycast/pkg/domain"
)

// DefaultTopK is the retrieval depth used when the caller does not specify
// one. Eight chunks gives the composer enough context to answer confidently.
const DefaultTopK = 8

// Retriever implements domain.Retriever over an embedder and vector store.
type Retriever struct {
	embedder domain.Embedder
	store    domain.VectorStore
}

func New(embedder domain.Embedder, store domain.VectorStore) *Retriever {
	return &Retriever{embedder: embedder, store: store}
}

// Search embeds the query and returns the text of the topK nearest chunks,
// most similar first. Errors are logged and swallowed into an empty result.
func (r *Retriever) Search(ctx context.Context, query string, topK int) []string {
	if topK <= 0 {
		topK = DefaultTopK
	}

	vectors, err := r.embedder.Embed(ctx, []string{query})
	if err != nil || len(vectors) == 0 {
		log.Printf("[WARN] Query embedding failed: %v", err)
		return nil
	}

	hits, err := r.store.Search(ctx, vectors[0], topK)
	if err != nil {
		log.Printf("[WARN] Vector search failed: %v", err)
		return nil
	}

	texts := make([]string, 0, len(hits))
	for _, hit := range hits {
		texts = append(texts, hit.Content)
	}
	return texts
}
