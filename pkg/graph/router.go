package graph

import (
	"strings"

	"github.com/skycast-ai/skycast/pkg/domain"
)

// Route decides which branch handles a query. Pure function; ordered rules,
// first match wins:
//
//  1. Weather keywords take hard priority, regardless of RAG availability.
//  2. Otherwise RAG when a PDF index is available.
//  3. Otherwise the weather branch doubles as the general-purpose fallback.
func Route(query string, hasPDF bool) domain.RouteDecision {
	q := strings.ToLower(query)

	if strings.Contains(q, "weather") || strings.Contains(q, "temperature") {
		return domain.RouteWeather
	}

	if hasPDF {
		return domain.RouteRAG
	}

	return domain.RouteWeather
}
