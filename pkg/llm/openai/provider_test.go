package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edumentor-be/pkg/llm"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewProvider(Config{
		APIKey:          "test-key",
		BaseURL:         server.URL,
		ChatModel:       "test-chat-model",
		TranscribeModel: "test-transcribe-model",
	})
}

func TestChat_ReturnsFirstChoice(t *testing.T) {
	var gotAuth string
	var gotReq map[string]any

	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Hello there"}}]}`))
	})

	reply, err := provider.Chat(context.Background(), []llm.Message{
		{Role: "system", Content: "You are helpful."},
		{Role: "user", Content: "Hi"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Hello there", reply)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "test-chat-model", gotReq["model"])
}

func TestChat_ModelOverride(t *testing.T) {
	var gotReq map[string]any

	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	})

	_, err := provider.Chat(context.Background(), []llm.Message{{Role: "user", Content: "x"}},
		llm.WithModel("other-model"), llm.WithTemperature(0.2))

	require.NoError(t, err)
	assert.Equal(t, "other-model", gotReq["model"])
	assert.Equal(t, 0.2, gotReq["temperature"])
}

func TestChat_PropagatesAPIError(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	})

	_, err := provider.Chat(context.Background(), []llm.Message{{Role: "user", Content: "x"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
	assert.Contains(t, err.Error(), "401")
}

func TestChat_EmptyChoices(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	_, err := provider.Chat(context.Background(), []llm.Message{{Role: "user", Content: "x"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestTranscribe_SendsMultipartForm(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/transcriptions", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "test-transcribe-model", r.FormValue("model"))
		assert.Equal(t, "ar", r.FormValue("language"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "lecture.mp3", header.Filename)

		_, _ = w.Write([]byte(`{"text":"transcribed words"}`))
	})

	text, err := provider.Transcribe(context.Background(), []byte("fake-audio"), "lecture.mp3", "ar")

	require.NoError(t, err)
	assert.Equal(t, "transcribed words", text)
}

func TestTranscribe_OmitsEmptyLanguage(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, hasLang := r.MultipartForm.Value["language"]
		assert.False(t, hasLang)
		_, _ = w.Write([]byte(`{"text":"ok"}`))
	})

	_, err := provider.Transcribe(context.Background(), []byte("fake-audio"), "a.wav", "")
	require.NoError(t, err)
}
