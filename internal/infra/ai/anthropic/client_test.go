package anthropic

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/insight/internal/domain/ai"
)

func TestCompleteReturnsTypedSegments(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-haiku-4-5-20251001",
			"content": [
				{"type": "text", "text": "Here: {\"score\":"},
				{"type": "tool_use", "id": "tu_1", "name": "noop", "input": {}},
				{"type": "text", "text": "70}"}
			],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 5}
		}`)
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL, "")
	segs, err := c.Complete(context.Background(), "sys", "hello", 2048)
	require.NoError(t, err)

	require.Len(t, segs, 3)
	assert.Equal(t, ai.SegmentText, segs[0].Type)
	assert.Equal(t, ai.SegmentType("tool_use"), segs[1].Type)
	assert.Equal(t, `Here: {"score":70}`, ai.JoinText(segs))

	assert.Equal(t, defaultModel, got["model"])
	assert.EqualValues(t, 2048, got["max_tokens"])
	require.NotNil(t, got["system"])
}

func TestCompleteWrapsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`)
	}))
	defer srv.Close()

	c := NewClient("bad", srv.URL, "")
	_, err := c.Complete(context.Background(), "sys", "hello", 16)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create message")
}
