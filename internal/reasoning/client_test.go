package reasoning

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newServerCompleter(t *testing.T, timeout time.Duration, handler http.HandlerFunc) Completer {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewCompleter("test-key", "test-model", timeout, zap.NewNop(),
		option.WithBaseURL(server.URL),
		option.WithMaxRetries(0),
	)
}

func TestAnthropicCompleter_TimeoutBoundsRequest(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	c := newServerCompleter(t, 50*time.Millisecond, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})

	start := time.Now()
	_, err := c.Complete(context.Background(), Request{Prompt: "ping"})

	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second,
		"a hung provider must not block past the configured bound")
}

func TestAnthropicCompleter_ConcatenatesTextBlocks(t *testing.T) {
	c := newServerCompleter(t, time.Second, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "test-model",
			"content": [
				{"type": "text", "text": "{\"domain\":"},
				{"type": "text", "text": " \"financial\"}"}
			],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 12, "output_tokens": 6}
		}`)
	})

	out, err := c.Complete(context.Background(), Request{Prompt: "classify"})

	require.NoError(t, err)
	assert.Equal(t, `{"domain": "financial"}`, out)
}
