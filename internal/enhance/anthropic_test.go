package enhance

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnthropic_NoKeySkipsNetwork(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	a := NewAnthropic(srv.Client(), srv.URL, "", "claude-test", 50)
	_, err := a.Complete(context.Background(), "prompt")

	assert.ErrorIs(t, err, ErrNoCredential)
	assert.False(t, called)
}

func TestAnthropic_RequestShapeAndResponse(t *testing.T) {
	var body messagesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "sk-test", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		_, _ = w.Write([]byte(`{"id":"msg_1","content":[{"type":"text","text":" space opera rebellion "},{"type":"text","text":"ignored"}]}`))
	}))
	defer srv.Close()

	a := NewAnthropic(srv.Client(), srv.URL, "sk-test", "claude-test", 50)
	got, err := a.Complete(context.Background(), "the prompt")

	require.NoError(t, err)
	assert.Equal(t, " space opera rebellion ", got)
	assert.Equal(t, "claude-test", body.Model)
	assert.Equal(t, 50, body.MaxTokens)
	require.Len(t, body.Messages, 1)
	assert.Equal(t, "user", body.Messages[0].Role)
	assert.Equal(t, "the prompt", body.Messages[0].Content)
}

func TestAnthropic_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer srv.Close()

	_, err := NewAnthropic(srv.Client(), srv.URL, "bad", "m", 50).Complete(context.Background(), "p")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "authentication_error", apiErr.Type)
	assert.Equal(t, "invalid x-api-key", apiErr.Message)
}

func TestAnthropic_NonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewAnthropic(srv.Client(), srv.URL, "k", "m", 50).Complete(context.Background(), "p")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "bad gateway")
}

func TestAnthropic_LongErrorBodyStaysValidUTF8(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("a" + strings.Repeat("é", 200)))
	}))
	defer srv.Close()

	_, err := NewAnthropic(srv.Client(), srv.URL, "k", "m", 50).Complete(context.Background(), "p")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, utf8.ValidString(apiErr.Message))
	assert.Equal(t, "a"+strings.Repeat("é", 149)+"...", apiErr.Message)
}

func TestAnthropic_NonTextFirstBlock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[{"type":"tool_use","id":"toolu_1"},{"type":"text","text":"late text"}]}`))
	}))
	defer srv.Close()

	_, err := NewAnthropic(srv.Client(), srv.URL, "k", "m", 50).Complete(context.Background(), "p")
	assert.ErrorContains(t, err, `"tool_use"`)
}

func TestAnthropic_EmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[]}`))
	}))
	defer srv.Close()

	_, err := NewAnthropic(srv.Client(), srv.URL, "k", "m", 50).Complete(context.Background(), "p")
	assert.Error(t, err)
}

func TestAnthropic_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := NewAnthropic(srv.Client(), srv.URL, "k", "m", 50).Complete(context.Background(), "p")
	assert.Error(t, err)
}
