// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/nbib-fetch/pkg/types"
)

func TestGet_ReturnsBody(t *testing.T) {
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("PMID- 12345678\n"))
	}))
	defer ts.Close()

	body, err := Get(context.Background(), ts.Client(), ts.URL, types.HTTPConfig{UserAgent: "nbib-fetch-test/0.1"})
	require.NoError(t, err)

	assert.Equal(t, "PMID- 12345678\n", string(body))
	assert.Equal(t, "nbib-fetch-test/0.1", gotUA)
}

func TestGet_NonSuccessStatus(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	_, err := Get(context.Background(), ts.Client(), ts.URL, types.HTTPConfig{})
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	assert.Equal(t, ts.URL, se.URL)
	// No retry on 429.
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRedactURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"api key", "https://h/esearch.fcgi?api_key=abc&db=pubmed", "https://h/esearch.fcgi?api_key=REDACTED&db=pubmed"},
		{"no key", "https://h/esearch.fcgi?term=a+b&db=pubmed", "https://h/esearch.fcgi?term=a+b&db=pubmed"},
		{"no query", "https://h/pubmed/", "https://h/pubmed/"},
		{"unparseable", "://bad", "://bad"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RedactURL(tt.in))
		})
	}
}

func TestGet_RedactsAPIKeyFromErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	rawURL := ts.URL + "/esearch.fcgi?api_key=SECRETKEY123&db=pubmed"

	_, err := Get(context.Background(), ts.Client(), rawURL, types.HTTPConfig{})
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "SECRETKEY123")
	assert.Contains(t, err.Error(), "api_key=REDACTED")

	ts.Close()
	_, err = Get(context.Background(), http.DefaultClient, rawURL, types.HTTPConfig{})
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "SECRETKEY123")
}

func TestGet_TransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	url := ts.URL
	ts.Close()

	_, err := Get(context.Background(), http.DefaultClient, url, types.HTTPConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP request")
}

func TestGet_ContextCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := Get(ctx, ts.Client(), ts.URL, types.HTTPConfig{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewClient(t *testing.T) {
	c := NewClient(types.HTTPConfig{Timeout: 5 * time.Second})
	assert.Equal(t, 5*time.Second, c.Timeout)
}
