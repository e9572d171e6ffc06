package domain

import (
	"context"
	"time"
)

// RouteDecision selects which branch of the execution graph handles a query.
type RouteDecision string

const (
	RouteWeather RouteDecision = "weather"
	RouteRAG     RouteDecision = "rag"
)

// WeatherReading is the provider JSON passed through untouched from the
// weather API. It lives only for the duration of one request.
type WeatherReading map[string]interface{}

// Chunk is a contiguous span of PDF text plus its embedding vector.
// Chunks are created once at index time and are immutable afterwards.
type Chunk struct {
	ID         string                 `json:"id"`
	DocumentID string                 `json:"document_id"`
	Content    string                 `json:"content"`
	Vector     []float64              `json:"vector,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Score      float64                `json:"score,omitempty"`
}

// State is the single mutable record flowing through the execution graph.
// Exactly one of WeatherRaw / ContextChunks is populated per request,
// matching Route. Answer is always set before the request completes.
type State struct {
	Query         string         `json:"query"`
	HasPDF        bool           `json:"has_pdf"`
	Route         RouteDecision  `json:"route,omitempty"`
	Location      string         `json:"location,omitempty"`
	WeatherRaw    WeatherReading `json:"weather_raw,omitempty"`
	ContextChunks []string       `json:"context_chunks,omitempty"`
	Answer        string         `json:"answer"`
}

// QueryRequest is the API shape for one routed query.
type QueryRequest struct {
	Query    string `json:"query"`
	Location string `json:"location,omitempty"`
}

// QueryResponse carries the composed answer plus routing diagnostics.
type QueryResponse struct {
	Answer  string        `json:"answer"`
	Route   RouteDecision `json:"route"`
	Sources []string      `json:"sources,omitempty"`
	Elapsed string        `json:"elapsed"`
}

// IngestResponse reports the result of an index build.
type IngestResponse struct {
	Success    bool      `json:"success"`
	DocumentID string    `json:"document_id"`
	ChunkCount int       `json:"chunk_count"`
	IndexedAt  time.Time `json:"indexed_at"`
	Message    string    `json:"message,omitempty"`
}

// Message is one chat-style turn sent to the LLM.
type Message struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

// Generator produces a text answer from an ordered list of messages.
type Generator interface {
	Generate(ctx context.Context, messages []Message) (string, error)
}

// Embedder turns a batch of texts into one fixed-dimension vector each.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
	Dimension() int
}

// WeatherService resolves a location string into current conditions.
type WeatherService interface {
	Fetch(ctx context.Context, location string) (WeatherReading, error)
}

// VectorStore is the capability surface the graph needs from the vector
// database. Version-compatibility concerns belong to the adapter, not here.
type VectorStore interface {
	Recreate(ctx context.Context, vectorSize uint64) error
	Upsert(ctx context.Context, chunks []Chunk) error
	Search(ctx context.Context, vector []float64, topK int) ([]Chunk, error)
	Count(ctx context.Context) (uint64, error)
	Close() error
}

// Retriever returns the top-k chunk texts for a query. It never fails:
// underlying errors become an empty result.
type Retriever interface {
	Search(ctx context.Context, query string, topK int) []string
}
