package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMCPRequestLogger(t *testing.T) {
	tests := []struct {
		name        string
		response    string
		wantMessage string
	}{
		{"success", `{"jsonrpc":"2.0","id":1,"result":{"content":[{"type":"text","text":"{}"}]}}`, "MCP call succeeded"},
		{"tool error result", `{"jsonrpc":"2.0","id":1,"result":{"content":[],"isError":true}}`, "MCP tool returned error result"},
		{"rpc error", `{"jsonrpc":"2.0","id":1,"error":{"code":-32603,"message":"postgres://u:p@db/x refused"}}`, "MCP call failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.DebugLevel)
			var seenBody string
			handler := MCPRequestLogger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				b, _ := io.ReadAll(r.Body)
				seenBody = string(b)
				_, _ = w.Write([]byte(tt.response))
			}))

			body := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"parse_unit_price","arguments":{"name":"Eggs (18 ct)"}}}`
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body)))

			assert.Equal(t, body, seenBody, "request body is restored for the next handler")
			assert.Equal(t, tt.response, rec.Body.String())

			require.Equal(t, 2, logs.Len())
			assert.Equal(t, "MCP request", logs.All()[0].Message)
			assert.Equal(t, "parse_unit_price", logs.All()[0].ContextMap()["tool"])
			assert.Equal(t, tt.wantMessage, logs.All()[1].Message)
			if msg, ok := logs.All()[1].ContextMap()["error_message"].(string); ok {
				assert.NotContains(t, msg, "u:p@")
			}
		})
	}
}

func TestSanitizeArguments(t *testing.T) {
	long := strings.Repeat("x", 300)
	got := sanitizeArguments(map[string]any{
		"household_id": "abc",
		"api_key":      "sk-secret",
		"name":         long,
		"limit":        5.0,
	})

	assert.Equal(t, "abc", got["household_id"])
	assert.Equal(t, "[REDACTED]", got["api_key"])
	assert.Len(t, got["name"], maxLoggedArgument+3)
	assert.Equal(t, 5.0, got["limit"])
	assert.Nil(t, sanitizeArguments(nil))
}
