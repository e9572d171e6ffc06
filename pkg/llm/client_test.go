package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skycast-ai/skycast/pkg/config"
	"github.com/skycast-ai/skycast/pkg/domain"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(config.LLMConfig{Model: "llama-3.1-8b-instant"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfigurationMissing))
	assert.Contains(t, err.Error(), "GROQ_API_KEY is not set")
}

func TestNewClientWithKey(t *testing.T) {
	client, err := NewClient(config.LLMConfig{
		APIKey:      "gsk-test",
		BaseURL:     "https://api.groq.com/openai/v1",
		Model:       "llama-3.1-8b-instant",
		Temperature: 0.2,
	})
	require.NoError(t, err)
	assert.Equal(t, "llama-3.1-8b-instant", client.model)
	assert.Equal(t, 0.2, client.temperature)
}
