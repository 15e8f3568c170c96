package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abhishekpnaik05/vigitrack/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewGeminiClient(config.GenAIConfig{
		APIKey:       "test-key",
		BaseURL:      srv.URL,
		Model:        "test-model",
		Timeout:      5 * time.Second,
		MaxToolTurns: 3,
	}, zap.NewNop())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func textCandidate(text string) map[string]any {
	return map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{"role": "model", "parts": []any{map[string]any{"text": text}}}},
		},
	}
}

func TestGenerate_Text(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/test-model:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var body generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Contents, 1)
		assert.Equal(t, "hello", body.Contents[0].Parts[0].Text)
		assert.Nil(t, body.GenerationConfig)

		writeJSON(w, http.StatusOK, textCandidate("  hi there \n"))
	})

	resp, err := client.Generate(context.Background(), &Request{Prompt: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hi there", resp.Text)
	assert.Empty(t, resp.ToolCalls)
}

func TestGenerate_ResponseSchema(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.NotNil(t, body.GenerationConfig)
		assert.Equal(t, "application/json", body.GenerationConfig.ResponseMimeType)
		assert.Equal(t, TypeObject, body.GenerationConfig.ResponseSchema.Type)

		writeJSON(w, http.StatusOK, textCandidate(`{"summary":"ok"}`))
	})

	resp, err := client.Generate(context.Background(), &Request{
		Prompt:         "p",
		ResponseSchema: Object(map[string]*Schema{"summary": String("")}, "summary"),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"summary":"ok"}`, resp.Text)
}

func TestGenerate_ToolLoop(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		switch atomic.AddInt32(&calls, 1) {
		case 1:
			require.Len(t, body.Tools, 1)
			assert.Equal(t, "sendSms", body.Tools[0].FunctionDeclarations[0].Name)
			writeJSON(w, http.StatusOK, map[string]any{
				"candidates": []any{map[string]any{"content": map[string]any{
					"role": "model",
					"parts": []any{map[string]any{"functionCall": map[string]any{
						"name": "sendSms",
						"args": map[string]any{"to": "+15550100", "message": "help"},
					}}},
				}}},
			})
		default:
			require.Len(t, body.Contents, 3)
			fr := body.Contents[2].Parts[0].FunctionResponse
			require.NotNil(t, fr)
			assert.Equal(t, "sendSms", fr.Name)
			assert.Equal(t, map[string]any{"success": true}, fr.Response["result"])
			writeJSON(w, http.StatusOK, textCandidate("Contacts notified."))
		}
	})

	var gotArgs struct {
		To      string `json:"to"`
		Message string `json:"message"`
	}
	tool := Tool{
		Name:       "sendSms",
		Parameters: Object(map[string]*Schema{"to": String(""), "message": String("")}, "to", "message"),
		Handler: func(_ context.Context, args json.RawMessage) (any, error) {
			require.NoError(t, json.Unmarshal(args, &gotArgs))
			return map[string]any{"success": true}, nil
		},
	}

	resp, err := client.Generate(context.Background(), &Request{Prompt: "sos", Tools: []Tool{tool}})
	require.NoError(t, err)
	assert.Equal(t, "Contacts notified.", resp.Text)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "sendSms", resp.ToolCalls[0].Name)
	assert.Equal(t, "+15550100", gotArgs.To)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGenerate_UnknownToolIsReported(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			writeJSON(w, http.StatusOK, map[string]any{
				"candidates": []any{map[string]any{"content": map[string]any{
					"parts": []any{map[string]any{"functionCall": map[string]any{"name": "launchRocket"}}},
				}}},
			})
			return
		}
		writeJSON(w, http.StatusOK, textCandidate("done"))
	})

	resp, err := client.Generate(context.Background(), &Request{Prompt: "p"})
	require.NoError(t, err)
	require.Len(t, resp.ToolCalls, 1)
	assert.Contains(t, resp.ToolCalls[0].Error, "unknown tool")
	assert.Equal(t, "done", resp.Text)
}

func TestGenerate_ErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": map[string]any{"code": 400, "message": "API key not valid", "status": "INVALID_ARGUMENT"},
		})
	})

	_, err := client.Generate(context.Background(), &Request{Prompt: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestGenerate_NoCandidates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"promptFeedback": map[string]any{"blockReason": "SAFETY"}})
	})

	resp, err := client.Generate(context.Background(), &Request{Prompt: "p"})
	require.NoError(t, err)
	assert.Empty(t, resp.Text)
}

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.Generate(context.Background(), &Request{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
