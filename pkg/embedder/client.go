// Package embedder computes fixed-dimension text embeddings through an
// OpenAI-compatible embeddings endpoint. The default target is a local
// server (Ollama's compatibility API) running a 384-dimension model.
package embedder

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/skycast-ai/skycast/pkg/config"
	"github.com/skycast-ai/skycast/pkg/domain"
)

// Client implements domain.Embedder.
type Client struct {
	client     *openai.Client
	model      string
	vectorSize int
}

func NewClient(cfg config.EmbedderConfig) *Client {
	opts := []option.RequestOption{}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	} else {
		// Local compatibility servers ignore the key but the SDK requires one.
		opts = append(opts, option.WithAPIKey("none"))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	client := openai.NewClient(opts...)

	vectorSize := cfg.VectorSize
	if vectorSize <= 0 {
		vectorSize = 384
	}

	return &Client{
		client:     &client,
		model:      cfg.Model,
		vectorSize: vectorSize,
	}
}

// Embed returns one vector per input text, in input order.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: no texts to embed", domain.ErrInvalidInput)
	}

	resp, err := c.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(c.model),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingFailed, err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts", domain.ErrEmbeddingFailed, len(resp.Data), len(texts))
	}

	vectors := make([][]float64, len(texts))
	for _, item := range resp.Data {
		if item.Index < 0 || int(item.Index) >= len(texts) {
			return nil, fmt.Errorf("%w: vector index %d out of range", domain.ErrEmbeddingFailed, item.Index)
		}
		vectors[item.Index] = item.Embedding
	}

	return vectors, nil
}

// Dimension is the configured embedding dimensionality, used to size the
// vector collection before the first vectors arrive.
func (c *Client) Dimension() int {
	return c.vectorSize
}
