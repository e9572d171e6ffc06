package app

import (
	"github.com/skycast-ai/skycast/pkg/config"
	"github.com/skycast-ai/skycast/pkg/domain"
	"github.com/skycast-ai/skycast/pkg/rag/store"
)

func newQdrantStore(cfg *config.Config) (domain.VectorStore, error) {
	return store.NewQdrantStore(cfg.Qdrant.URL, cfg.Qdrant.Collection)
}
