package summarize

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborline/harborline/internal/platform/httpx"
)

func shipment() Request {
	return Request{
		CustomerName: "Acme Trading",
		POL:          "Singapore",
		POD:          "Hamburg",
		Equipment:    "40HC",
		Volume:       "2x40HC",
		Type:         "FCL",
	}
}

func TestSummarizeReturnsProviderText(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/summaries", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]string{"summary": "FCL shipment for Acme Trading, Singapore to Hamburg."})
	}))
	defer srv.Close()

	out, err := NewClient(srv.URL).Summarize(context.Background(), shipment())
	require.NoError(t, err)
	assert.Equal(t, "FCL shipment for Acme Trading, Singapore to Hamburg.", out)
	assert.Equal(t, "Acme Trading", got.CustomerName)
}

func TestSummarizeWrapsProviderErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Summarize(context.Background(), shipment())
	assert.ErrorIs(t, err, httpx.ErrExternal)
}

func TestSummarizeRejectsEmptyOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"summary": "   "})
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Summarize(context.Background(), shipment())
	assert.ErrorIs(t, err, httpx.ErrExternal)
}

func TestSummarizeRejectsMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Summarize(context.Background(), shipment())
	assert.ErrorIs(t, err, httpx.ErrExternal)
}

func TestSummarizeUnreachableProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := NewClient(srv.URL).Summarize(context.Background(), shipment())
	assert.ErrorIs(t, err, httpx.ErrExternal)
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	assert.NoError(t, NewClient(srv.URL).Ping(context.Background()))
}
