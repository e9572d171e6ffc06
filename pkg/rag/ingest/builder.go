// Package ingest builds the vector index: it parses a PDF into page text,
// splits it into overlapping chunks, embeds each chunk, and upserts the
// vectors into the vector store collection.
package ingest

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	pdf "github.com/dslipak/pdf"
	"github.com/google/uuid"

	"github.com/skycast-ai/skycast/pkg/domain"
	"github.com/skycast-ai/skycast/pkg/rag/chunker"
)

const upsertAttempts = 3

// Builder wires the chunker, embedder, and vector store into one indexing
// pipeline. Build failures are returned to the caller, who decides whether
// to degrade to weather-only mode.
type Builder struct {
	chunker  *chunker.Chunker
	embedder domain.Embedder
	store    domain.VectorStore

	// backoffBase is the first retry delay; doubled on every attempt.
	backoffBase time.Duration
}

// Index describes a completed build.
type Index struct {
	DocumentID string
	ChunkCount int
	VectorSize int
	BuiltAt    time.Time
}

func NewBuilder(c *chunker.Chunker, embedder domain.Embedder, store domain.VectorStore) *Builder {
	return &Builder{
		chunker:     c,
		embedder:    embedder,
		store:       store,
		backoffBase: time.Second,
	}
}

// Build indexes the PDF at pdfPath. Every failure is wrapped in
// domain.ErrIndexBuild so the caller can distinguish build failures from
// query-time errors.
func (b *Builder) Build(ctx context.Context, pdfPath string) (*Index, error) {
	text, err := loadPDF(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIndexBuild, err)
	}

	return b.BuildFromText(ctx, text)
}

// BuildFromText indexes raw document text through the same pipeline Build
// uses after PDF extraction.
func (b *Builder) BuildFromText(ctx context.Context, text string) (*Index, error) {
	texts := b.chunker.Split(text)
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: no extractable text", domain.ErrIndexBuild)
	}

	vectors, err := b.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIndexBuild, err)
	}

	vectorSize := b.embedder.Dimension()
	if len(vectors) > 0 && len(vectors[0]) > 0 {
		vectorSize = len(vectors[0])
	}

	if err := b.store.Recreate(ctx, uint64(vectorSize)); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIndexBuild, err)
	}

	documentID := uuid.New().String()
	chunks := make([]domain.Chunk, len(texts))
	for i, content := range texts {
		chunks[i] = domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: documentID,
			Content:    content,
			Vector:     vectors[i],
		}
	}

	if err := b.upsertWithRetry(ctx, chunks); err != nil {
		return nil, fmt.Errorf("%w: failed to upsert vectors after retries: %v", domain.ErrIndexBuild, err)
	}

	// Best-effort diagnostics; a count failure never fails the build.
	if count, err := b.store.Count(ctx); err != nil {
		log.Printf("[WARN] Could not verify point count: %v", err)
	} else {
		log.Printf("[INFO] Collection contains %d points after indexing", count)
	}

	return &Index{
		DocumentID: documentID,
		ChunkCount: len(chunks),
		VectorSize: vectorSize,
		BuiltAt:    time.Now(),
	}, nil
}

// upsertWithRetry retries transient upsert failures with exponential
// backoff (1s, 2s, 4s by default) before giving up with the last error.
func (b *Builder) upsertWithRetry(ctx context.Context, chunks []domain.Chunk) error {
	var lastErr error
	backoff := b.backoffBase

	for attempt := 1; attempt <= upsertAttempts; attempt++ {
		lastErr = b.store.Upsert(ctx, chunks)
		if lastErr == nil {
			return nil
		}

		log.Printf("[WARN] Upsert attempt %d/%d failed: %v", attempt, upsertAttempts, lastErr)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return lastErr
}

// loadPDF extracts page-level plain text from the PDF, in page order. Pages
// that fail to extract are skipped with a warning.
func loadPDF(path string) (string, error) {
	r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF %s: %w", path, err)
	}

	var content strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			log.Printf("[WARN] Failed to extract text from page %d of %s: %v", i, path, err)
			continue
		}
		content.WriteString(text)
		content.WriteString("\n")
	}

	return content.String(), nil
}
