package retrieve

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skycast-ai/skycast/pkg/domain"
)

type stubEmbedder struct {
	err error
}

func (s *stubEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	vectors := make([][]float64, len(texts))
	for i := range texts {
		vectors[i] = []float64{0.1, 0.2, 0.3}
	}
	return vectors, nil
}

func (s *stubEmbedder) Dimension() int { return 3 }

type stubStore struct {
	hits     []domain.Chunk
	err      error
	gotTopK  int
	gotQuery []float64
}

func (s *stubStore) Recreate(ctx context.Context, vectorSize uint64) error { return nil }

func (s *stubStore) Upsert(ctx context.Context, chunks []domain.Chunk) error { return nil }

func (s *stubStore) Search(ctx context.Context, vector []float64, topK int) ([]domain.Chunk, error) {
	s.gotQuery = vector
	s.gotTopK = topK
	return s.hits, s.err
}

func (s *stubStore) Count(ctx context.Context) (uint64, error) { return 0, nil }

func (s *stubStore) Close() error { return nil }

func TestSearchReturnsChunkTexts(t *testing.T) {
	store := &stubStore{hits: []domain.Chunk{
		{Content: "first chunk", Score: 0.93},
		{Content: "second chunk", Score: 0.88},
	}}
	r := New(&stubEmbedder{}, store)

	texts := r.Search(context.Background(), "what does the PDF say?", 2)
	require.Equal(t, []string{"first chunk", "second chunk"}, texts)
	assert.Equal(t, 2, store.gotTopK)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, store.gotQuery)
}

func TestSearchDefaultTopK(t *testing.T) {
	store := &stubStore{}
	r := New(&stubEmbedder{}, store)

	r.Search(context.Background(), "query", 0)
	assert.Equal(t, DefaultTopK, store.gotTopK)
}

func TestSearchSwallowsEmbeddingError(t *testing.T) {
	r := New(&stubEmbedder{err: errors.New("backend down")}, &stubStore{})
	assert.Empty(t, r.Search(context.Background(), "query", 4))
}

func TestSearchSwallowsStoreError(t *testing.T) {
	r := New(&stubEmbedder{}, &stubStore{err: errors.New("connection refused")})
	assert.Empty(t, r.Search(context.Background(), "query", 4))
}

func TestSearchNoHits(t *testing.T) {
	r := New(&stubEmbedder{}, &stubStore{hits: nil})
	assert.Empty(t, r.Search(context.Background(), "query", 4))
}
