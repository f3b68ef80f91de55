package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewFromConfig(t *testing.T) {
	logger := zap.NewNop()

	client, err := NewFromConfig(&Config{}, logger)
	require.NoError(t, err)
	assert.Nil(t, client, "no provider disables hints")

	client, err = NewFromConfig(nil, logger)
	require.NoError(t, err)
	assert.Nil(t, client)

	client, err = NewFromConfig(&Config{Provider: "openai", Endpoint: "http://localhost:8000/v1", Model: "m"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &Client{}, client)

	client, err = NewFromConfig(&Config{Provider: " Anthropic ", Model: "claude", APIKey: "k"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &AnthropicClient{}, client)

	_, err = NewFromConfig(&Config{Provider: "gemini"}, logger)
	assert.Error(t, err)
}
