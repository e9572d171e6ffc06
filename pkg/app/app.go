// Package app assembles the application: configuration, external clients,
// the vector index pipeline, and the execution graph. The CLI and the HTTP
// server both drive this facade.
package app

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/skycast-ai/skycast/pkg/config"
	"github.com/skycast-ai/skycast/pkg/domain"
	"github.com/skycast-ai/skycast/pkg/embedder"
	"github.com/skycast-ai/skycast/pkg/graph"
	"github.com/skycast-ai/skycast/pkg/llm"
	"github.com/skycast-ai/skycast/pkg/rag/chunker"
	"github.com/skycast-ai/skycast/pkg/rag/ingest"
	"github.com/skycast-ai/skycast/pkg/rag/retrieve"
	"github.com/skycast-ai/skycast/pkg/weather"
)

// App owns the long-lived resources and the current execution graph. The
// graph is swapped atomically after a successful index build; a failed
// build leaves the previous (weather-only) graph in place.
type App struct {
	cfg      *config.Config
	weather  domain.WeatherService
	llm      domain.Generator
	embedder domain.Embedder
	store    domain.VectorStore
	builder  *ingest.Builder

	mu        sync.RWMutex
	graph     *graph.Graph
	lastIndex *ingest.Index
}

// Option overrides a collaborator, used by tests and by callers that bring
// their own store.
type Option func(*App)

func WithWeatherService(svc domain.WeatherService) Option {
	return func(a *App) { a.weather = svc }
}

func WithGenerator(gen domain.Generator) Option {
	return func(a *App) { a.llm = gen }
}

func WithEmbedder(emb domain.Embedder) Option {
	return func(a *App) { a.embedder = emb }
}

func WithVectorStore(store domain.VectorStore) Option {
	return func(a *App) { a.store = store }
}

// New builds the application from config. The LLM client is constructed
// eagerly: a missing LLM key fails here, not at first use.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	a := &App{cfg: cfg}

	for _, opt := range opts {
		opt(a)
	}

	if a.llm == nil {
		client, err := llm.NewClient(cfg.LLM)
		if err != nil {
			return nil, err
		}
		a.llm = client
	}

	if a.weather == nil {
		a.weather = weather.NewClient(cfg.Weather)
	}

	if a.embedder == nil {
		a.embedder = embedder.NewClient(cfg.Embedder)
	}

	if a.store == nil {
		store, err := newQdrantStore(cfg)
		if err != nil {
			return nil, err
		}
		a.store = store
	}

	a.builder = ingest.NewBuilder(chunker.New(cfg.Chunker), a.embedder, a.store)

	// Weather-only graph until a PDF is indexed.
	a.graph = graph.Build(graph.Resources{
		Weather: a.weather,
		LLM:     a.llm,
	})

	return a, nil
}

// Index builds the vector index for the PDF and, on success, swaps in a
// graph with the rag branch enabled. On failure the prior graph stays and
// the error is returned for the caller to report.
func (a *App) Index(ctx context.Context, pdfPath string) (*ingest.Index, error) {
	idx, err := a.builder.Build(ctx, pdfPath)
	if err != nil {
		log.Printf("[ERROR] Index build failed, keeping previous graph: %v", err)
		return nil, err
	}

	a.enableRAG(idx)
	log.Printf("[INFO] Indexed %s: %d chunks", pdfPath, idx.ChunkCount)
	return idx, nil
}

// IndexText builds the vector index from raw text instead of a PDF file.
// Same swap semantics as Index.
func (a *App) IndexText(ctx context.Context, text string) (*ingest.Index, error) {
	idx, err := a.builder.BuildFromText(ctx, text)
	if err != nil {
		log.Printf("[ERROR] Index build failed, keeping previous graph: %v", err)
		return nil, err
	}

	a.enableRAG(idx)
	return idx, nil
}

// enableRAG swaps in a graph with the rag branch backed by the freshly
// built index.
func (a *App) enableRAG(idx *ingest.Index) {
	retriever := retrieve.New(a.embedder, a.store)

	a.mu.Lock()
	a.graph = graph.Build(graph.Resources{
		Weather:   a.weather,
		LLM:       a.llm,
		Retriever: retriever,
	})
	a.lastIndex = idx
	a.mu.Unlock()
}

// Query runs one pass of the execution graph and returns the composed
// answer. The error return is non-nil only for the rag branch's uncaught
// LLM failure.
func (a *App) Query(ctx context.Context, req domain.QueryRequest) (*domain.QueryResponse, error) {
	if req.Query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}

	a.mu.RLock()
	g := a.graph
	a.mu.RUnlock()

	start := time.Now()
	state := &domain.State{
		Query:    req.Query,
		Location: req.Location,
		HasPDF:   g.SupportsRAG,
	}

	state, err := g.Run(ctx, state)
	if err != nil {
		return nil, err
	}

	return &domain.QueryResponse{
		Answer:  state.Answer,
		Route:   state.Route,
		Sources: state.ContextChunks,
		Elapsed: time.Since(start).String(),
	}, nil
}

// SupportsRAG reports whether the current graph has a rag branch.
func (a *App) SupportsRAG() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.graph.SupportsRAG
}

// LastIndex returns the most recent successful build, or nil.
func (a *App) LastIndex() *ingest.Index {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastIndex
}

func (a *App) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}
