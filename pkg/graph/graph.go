// Package graph implements the two-branch execution graph: a router node
// deciding between a weather lookup and a RAG answer, each branch composing
// the final response through the LLM.
//
//	start -> router -> {weather | rag} -> end
//
// Each invocation is a single synchronous pass with no cycles or re-entry.
package graph

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/skycast-ai/skycast/pkg/domain"
	"github.com/skycast-ai/skycast/pkg/rag/retrieve"
)

// Resources are the external collaborators the graph nodes call into.
// Retriever is nil when no PDF index exists; the rag node is then absent
// from the graph.
type Resources struct {
	Weather   domain.WeatherService
	LLM       domain.Generator
	Retriever domain.Retriever
	TopK      int
}

// Graph is the compiled two-branch state machine. All fields are fixed at
// construction; SupportsRAG reports whether the rag branch exists.
type Graph struct {
	SupportsRAG bool

	weather   domain.WeatherService
	llm       domain.Generator
	retriever domain.Retriever
	topK      int
	tracer    trace.Tracer
}

// Build compiles the graph from its resources. When res.Retriever is nil
// the graph contains only the weather branch, and routing collapses to
// weather for every query.
func Build(res Resources) *Graph {
	topK := res.TopK
	if topK <= 0 {
		topK = retrieve.DefaultTopK
	}

	return &Graph{
		SupportsRAG: res.Retriever != nil,
		weather:     res.Weather,
		llm:         res.LLM,
		retriever:   res.Retriever,
		topK:        topK,
		tracer:      otel.Tracer("skycast/graph"),
	}
}

// Run executes one pass over the graph. The returned state always carries a
// populated Answer, except when the rag branch's LLM call fails; that error
// propagates to the caller (see ragNode).
func (g *Graph) Run(ctx context.Context, state *domain.State) (*domain.State, error) {
	ctx, span := g.tracer.Start(ctx, "graph.run",
		trace.WithAttributes(attribute.Bool("has_pdf", state.HasPDF)))
	defer span.End()

	route := Route(state.Query, state.HasPDF)
	if route == domain.RouteRAG && !g.SupportsRAG {
		// The rag node does not exist in this graph; the branch is
		// structurally unreachable.
		route = domain.RouteWeather
	}
	state.Route = route
	span.SetAttributes(attribute.String("route", string(route)))

	switch route {
	case domain.RouteRAG:
		return g.ragNode(ctx, state)
	default:
		return g.weatherNode(ctx, state), nil
	}
}
