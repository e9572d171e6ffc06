package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skycast-ai/skycast/pkg/app"
	"github.com/skycast-ai/skycast/pkg/config"
	"github.com/skycast-ai/skycast/pkg/domain"
)

type stubWeather struct {
	reading domain.WeatherReading
	err     error
}

func (s *stubWeather) Fetch(ctx context.Context, location string) (domain.WeatherReading, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.reading, nil
}

type stubLLM struct {
	answer string
	err    error
}

func (s *stubLLM) Generate(ctx context.Context, messages []domain.Message) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.answer, nil
}

type stubEmbedder struct{}

func (stubEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	for i := range texts {
		vectors[i] = []float64{0.1, 0.2}
	}
	return vectors, nil
}

func (stubEmbedder) Dimension() int { return 2 }

type stubStore struct{}

func (stubStore) Recreate(ctx context.Context, vectorSize uint64) error      { return nil }
func (stubStore) Upsert(ctx context.Context, chunks []domain.Chunk) error    { return nil }
func (stubStore) Count(ctx context.Context) (uint64, error)                  { return 0, nil }
func (stubStore) Close() error                                               { return nil }
func (stubStore) Search(ctx context.Context, v []float64, k int) ([]domain.Chunk, error) {
	return nil, nil
}

// hitStore always returns one search hit, so the rag branch reaches the LLM.
type hitStore struct{ stubStore }

func (hitStore) Search(ctx context.Context, v []float64, k int) ([]domain.Chunk, error) {
	return []domain.Chunk{{Content: "relevant content", Score: 0.9}}, nil
}

func newMultipart(t *testing.T, buf *bytes.Buffer, filename, content string) string {
	t.Helper()
	w := multipart.NewWriter(buf)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = io.WriteString(fw, content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return w.FormDataContentType()
}

func testServer(t *testing.T, opts ...app.Option) *Server {
	t.Helper()
	cfg := &config.Config{
		Server:   config.ServerConfig{Host: "127.0.0.1", Port: 7130, EnableUI: true},
		Weather:  config.WeatherConfig{Timeout: 10 * time.Second},
		LLM:      config.LLMConfig{APIKey: "gsk-test", Model: "llama-3.1-8b-instant"},
		Embedder: config.EmbedderConfig{VectorSize: 2},
		Qdrant:   config.QdrantConfig{URL: "http://localhost:6334", Collection: "pdf_collection"},
		Chunker:  config.ChunkerConfig{ChunkSize: 800, Overlap: 100},
	}

	base := []app.Option{
		app.WithWeatherService(&stubWeather{reading: domain.WeatherReading{"weather": "sunny"}}),
		app.WithGenerator(&stubLLM{answer: "Sunny and 20°C"}),
		app.WithEmbedder(stubEmbedder{}),
		app.WithVectorStore(stubStore{}),
	}
	application, err := app.New(cfg, append(base, opts...)...)
	require.NoError(t, err)

	return NewServer(cfg, application)
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := testServer(t)
	rec := doJSON(t, s, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, false, resp["supports_rag"])
}

func TestQueryWeatherEndToEnd(t *testing.T) {
	s := testServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/query", domain.QueryRequest{Query: "weather in London"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp domain.QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Sunny and 20°C", resp.Answer)
	assert.Equal(t, domain.RouteWeather, resp.Route)
}

func TestQueryEmptyBody(t *testing.T) {
	s := testServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/query", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "empty query")
}

func TestQueryWeatherFailureStillAnswers(t *testing.T) {
	s := testServer(t, app.WithWeatherService(&stubWeather{
		err: &domain.WeatherAPIError{Status: 404, Body: "City not found"},
	}))

	rec := doJSON(t, s, http.MethodPost, "/api/query", domain.QueryRequest{Query: "weather in Atlantis"})
	require.Equal(t, http.StatusOK, rec.Code, "weather failures become answers, not HTTP errors")

	var resp domain.QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Answer, "Weather lookup failed:")
	assert.Contains(t, resp.Answer, "404")
}

func TestIndexRejectsNonPDF(t *testing.T) {
	s := testServer(t)

	var buf bytes.Buffer
	mw := newMultipart(t, &buf, "notes.txt", "plain text")

	req := httptest.NewRequest(http.MethodPost, "/api/index", &buf)
	req.Header.Set("Content-Type", mw)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "only PDF files")
}

func TestIndexBuildFailureReportsAndKeepsServing(t *testing.T) {
	s := testServer(t)

	var buf bytes.Buffer
	mw := newMultipart(t, &buf, "broken.pdf", "not really a pdf")

	req := httptest.NewRequest(http.MethodPost, "/api/index", &buf)
	req.Header.Set("Content-Type", mw)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "index build failed")

	// The weather-only graph keeps answering.
	rec = doJSON(t, s, http.MethodPost, "/api/query", domain.QueryRequest{Query: "weather in London"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestQueryRAGLLMFailureSurfaces(t *testing.T) {
	llmErr := errors.New("model overloaded")
	s := testServer(t,
		app.WithGenerator(&stubLLM{err: llmErr}),
		app.WithVectorStore(hitStore{}),
	)

	_, err := s.app.IndexText(context.Background(), "relevant content")
	require.NoError(t, err)

	rec := doJSON(t, s, http.MethodPost, "/api/query", domain.QueryRequest{Query: "summarize the PDF"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "model overloaded")
}

func TestUIServed(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Skycast")
}

func TestMetricsServed(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
