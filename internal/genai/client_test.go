// ABOUTME: Tests for the generation backend client
// ABOUTME: Covers success, server errors, timeouts, and the unavailable error class

package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.False(t, req.Stream)

		json.NewEncoder(w).Encode(generateResponse{Response: "generated text"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-model", 5*time.Second, nil)
	text, err := c.Generate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "generated text", text)
}

func TestGenerate_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-model", 5*time.Second, nil)
	_, err := c.Generate(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGenerate_QuotaError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-model", 5*time.Second, nil)
	_, err := c.Generate(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGenerate_ConnectionRefused(t *testing.T) {
	// Port 1 should refuse connections
	c := NewClient("http://127.0.0.1:1", "test-model", 2*time.Second, nil)
	_, err := c.Generate(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGenerate_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-model", 50*time.Millisecond, nil)
	_, err := c.Generate(context.Background(), "hello")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestGenerate_BackendReportedError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generateResponse{Error: "model not loaded"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-model", 5*time.Second, nil)
	_, err := c.Generate(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not loaded")
}
