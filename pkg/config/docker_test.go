package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveHost(t *testing.T) {
	tests := []struct {
		host     string
		inDocker bool
		expected string
	}{
		{"localhost", true, "host.docker.internal"},
		{"127.0.0.1", true, "host.docker.internal"},
		{"localhost", false, "localhost"},
		{"db.example.com", true, "db.example.com"},
		{"host.docker.internal", true, "host.docker.internal"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, resolveHost(tt.host, tt.inDocker), "host=%s docker=%v", tt.host, tt.inDocker)
	}
}

func TestResolveURL(t *testing.T) {
	assert.Equal(t, "http://host.docker.internal:8000/v1", resolveURL("http://localhost:8000/v1", true))
	assert.Equal(t, "http://host.docker.internal/v1", resolveURL("http://127.0.0.1/v1", true))
	assert.Equal(t, "http://localhost:8000/v1", resolveURL("http://localhost:8000/v1", false))
	assert.Equal(t, "https://api.openai.com/v1", resolveURL("https://api.openai.com/v1", true))
	assert.Equal(t, "", resolveURL("", true))
}
