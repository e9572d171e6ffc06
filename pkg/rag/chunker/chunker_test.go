package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skycast-ai/skycast/pkg/config"
)

func TestSplitEmpty(t *testing.T) {
	c := New(config.ChunkerConfig{ChunkSize: 800, Overlap: 100})
	assert.Nil(t, c.Split(""))
	assert.Nil(t, c.Split("   \n\t  "))
}

func TestSplitSingleChunk(t *testing.T) {
	c := New(config.ChunkerConfig{ChunkSize: 800, Overlap: 100})
	chunks := c.Split("short text")
	require.Len(t, chunks, 1)
	assert.Equal(t, "short text", chunks[0])
}

func TestSplitOverlappingWindows(t *testing.T) {
	c := New(config.ChunkerConfig{ChunkSize: 10, Overlap: 4})
	text := "abcdefghijklmnopqrstuvwxyz"

	chunks := c.Split(text)
	require.Equal(t, []string{
		"abcdefghij",
		"ghijklmnop",
		"mnopqrstuv",
		"stuvwxyz",
	}, chunks)

	// Each window repeats the last 4 runes of its predecessor.
	for i := 1; i < len(chunks)-1; i++ {
		prevTail := chunks[i-1][len(chunks[i-1])-4:]
		assert.True(t, strings.HasPrefix(chunks[i], prevTail))
	}
}

func TestSplitPreservesOrder(t *testing.T) {
	c := New(config.ChunkerConfig{ChunkSize: 800, Overlap: 100})
	var b strings.Builder
	for i := 0; i < 3000; i++ {
		b.WriteString("word ")
	}

	chunks := c.Split(b.String())
	require.Greater(t, len(chunks), 1)

	// Reconstructing must find each chunk at a later offset than the last.
	text := b.String()
	lastIdx := -1
	for _, chunk := range chunks {
		idx := strings.Index(text[lastIdx+1:], chunk)
		require.GreaterOrEqual(t, idx, 0)
		lastIdx += 1 + idx
	}
}

func TestSplitRuneSafety(t *testing.T) {
	c := New(config.ChunkerConfig{ChunkSize: 5, Overlap: 2})
	chunks := c.Split("日本語のテキストを分割する試験です")
	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.True(t, len([]rune(chunk)) <= 5)
	}
}

func TestNewClampsBadConfig(t *testing.T) {
	c := New(config.ChunkerConfig{})
	assert.Equal(t, 800, c.ChunkSize())
	assert.Equal(t, 100, c.Overlap())

	c = New(config.ChunkerConfig{ChunkSize: 10, Overlap: 10})
	assert.Equal(t, 10, c.ChunkSize())
	assert.Less(t, c.Overlap(), 10)
}
