// Package chunker splits document text into fixed-size overlapping chunks,
// the unit of indexing and retrieval.
package chunker

import (
	"strings"

	"github.com/skycast-ai/skycast/pkg/config"
)

const (
	defaultChunkSize = 800
	defaultOverlap   = 100
)

// Chunker produces overlapping sliding-window chunks, preserving document
// order. Sizes are in runes so multi-byte text never splits mid-character.
type Chunker struct {
	chunkSize int
	overlap   int
}

func New(cfg config.ChunkerConfig) *Chunker {
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}

	overlap := cfg.Overlap
	if overlap < 0 || overlap >= chunkSize {
		overlap = defaultOverlap
		if overlap >= chunkSize {
			overlap = chunkSize / 8
		}
	}

	return &Chunker{chunkSize: chunkSize, overlap: overlap}
}

// Split returns the chunks of text in order. Empty and whitespace-only
// input yields no chunks.
func (c *Chunker) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)
	total := len(runes)

	if total <= c.chunkSize {
		return []string{strings.TrimSpace(text)}
	}

	step := c.chunkSize - c.overlap
	chunks := make([]string, 0, (total/step)+1)

	for start := 0; start < total; start += step {
		end := start + c.chunkSize
		if end > total {
			end = total
		}

		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end == total {
			break
		}
	}

	return chunks
}

// ChunkSize reports the configured window size.
func (c *Chunker) ChunkSize() int { return c.chunkSize }

// Overlap reports the configured window overlap.
func (c *Chunker) Overlap() int { return c.overlap }
