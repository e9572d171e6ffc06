package api

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/skycast-ai/skycast/pkg/domain"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"supports_rag": s.app.SupportsRAG(),
	})
}

func (s *Server) handleQuery(c *gin.Context) {
	var req domain.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format: " + err.Error(),
		})
		return
	}

	if req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid input: empty query",
		})
		return
	}

	resp, err := s.app.Query(c.Request.Context(), req)
	if err != nil {
		// The rag branch's LLM failure is the one uncaught error path.
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to process query: " + err.Error(),
		})
		return
	}

	queriesTotal.WithLabelValues(string(resp.Route)).Inc()
	c.JSON(http.StatusOK, resp)
}

// handleIndex accepts a multipart PDF upload and builds the vector index.
// Indexing happens only on this explicit action, never on upload alone.
func (s *Server) handleIndex(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "missing PDF upload: " + err.Error(),
		})
		return
	}

	if !strings.EqualFold(filepath.Ext(file.Filename), ".pdf") {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "only PDF files can be indexed",
		})
		return
	}

	tmpPath := filepath.Join(os.TempDir(), "uploaded_sample.pdf")
	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to save upload: " + err.Error(),
		})
		return
	}
	defer func() { _ = os.Remove(tmpPath) }()

	idx, err := s.app.Index(c.Request.Context(), tmpPath)
	if err != nil {
		indexBuildsTotal.WithLabelValues("failure").Inc()
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrIndexBuild) {
			status = http.StatusUnprocessableEntity
		}
		// The previous graph stays in place; queries keep working.
		c.JSON(status, gin.H{
			"error":        "index build failed: " + err.Error(),
			"supports_rag": s.app.SupportsRAG(),
		})
		return
	}

	indexBuildsTotal.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, domain.IngestResponse{
		Success:    true,
		DocumentID: idx.DocumentID,
		ChunkCount: idx.ChunkCount,
		IndexedAt:  idx.BuiltAt,
		Message:    "PDF indexed; RAG enabled",
	})
}
