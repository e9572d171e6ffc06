package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/skycast-ai/skycast/pkg/domain"
	"github.com/skycast-ai/skycast/pkg/weather"
)

const (
	weatherSystemPrompt = "You are a helpful weather assistant. Summarize the current weather " +
		"for a non-technical user in 2-3 sentences."

	ragSystemPrompt = "You are a helpful assistant that answers questions using only the " +
		"provided PDF context. If the answer is not in the context, say that " +
		"you do not know."
)

// weatherNode resolves a location, fetches current conditions, and has the
// LLM phrase them. Any failure along the whole branch, gateway or LLM, is
// converted into a user-facing answer instead of an error.
func (g *Graph) weatherNode(ctx context.Context, state *domain.State) *domain.State {
	location := state.Location
	if location == "" {
		location = weather.ExtractLocation(state.Query)
	}

	reading, err := g.weather.Fetch(ctx, location)
	if err != nil {
		state.WeatherRaw = nil
		state.Answer = fmt.Sprintf("Weather lookup failed: %v. Please refine the location and try again.", err)
		return state
	}

	raw, err := json.Marshal(reading)
	if err != nil {
		raw = []byte(fmt.Sprintf("%v", reading))
	}

	answer, err := g.llm.Generate(ctx, []domain.Message{
		{Role: "system", Content: weatherSystemPrompt},
		{Role: "user", Content: string(raw)},
	})
	if err != nil {
		state.WeatherRaw = nil
		state.Answer = fmt.Sprintf("Weather lookup failed: %v. Please refine the location and try again.", err)
		return state
	}

	state.WeatherRaw = reading
	state.Answer = answer
	return state
}

// ragNode retrieves context chunks and has the LLM answer from them alone.
// An empty retrieval short-circuits without an LLM call. An LLM failure
// here propagates to the caller; only the weather branch has a blanket
// catch.
func (g *Graph) ragNode(ctx context.Context, state *domain.State) (*domain.State, error) {
	chunks := g.retriever.Search(ctx, state.Query, g.topK)
	state.ContextChunks = chunks

	if len(chunks) == 0 {
		state.Answer = fmt.Sprintf(
			"I could not find any relevant information in the indexed PDF documents for the query: '%s'. "+
				"Please try rephrasing or confirm that the PDF was indexed successfully.",
			state.Query,
		)
		return state, nil
	}

	contextText := strings.Join(chunks, "\n\n")

	answer, err := g.llm.Generate(ctx, []domain.Message{
		{Role: "system", Content: ragSystemPrompt},
		{Role: "user", Content: fmt.Sprintf("Question: %s\n\nContext:\n%s", state.Query, contextText)},
	})
	if err != nil {
		return state, err
	}

	state.Answer = answer
	return state, nil
}
