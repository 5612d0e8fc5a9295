package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectWebSinglePage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><body><h1>Title</h1><p>Hello there.</p></body></html>`)
	}))
	defer srv.Close()

	var buf bytes.Buffer
	w := newWriterTo(&buf)
	cfg := &AppConfig{MaxBytes: -1, ReadContent: true}
	stats := &RunStats{}

	require.NoError(t, collectWeb(srv.URL, cfg, w, stats))
	require.NoError(t, w.Flush())

	out := buf.String()
	assert.Contains(t, out, "=== "+srv.URL+"/ ===\n")
	assert.Contains(t, out, "# Title")
	assert.Contains(t, out, "Hello there.")
	assert.Equal(t, uint64(1), stats.FilesProcessed)
}

func TestCollectWebTraversesLinksOnce(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		// The self link must not cause a second record for the same page.
		fmt.Fprint(w, `<html><body><a href="/b">next</a><a href="/">self</a></body></html>`)
	})
	mux.HandleFunc("/b", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><body><p>Leaf page.</p></body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	var buf bytes.Buffer
	w := newWriterTo(&buf)
	cfg := &AppConfig{MaxBytes: -1, ReadContent: true, TraverseLinks: true, LinkDepth: 1}
	stats := &RunStats{}

	require.NoError(t, collectWeb(srv.URL, cfg, w, stats))
	require.NoError(t, w.Flush())

	assert.Equal(t, uint64(2), stats.FilesProcessed)
	assert.Contains(t, buf.String(), "Leaf page.")
}

func TestCollectWebSkipsNonHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte{0, 1, 2, 3})
	}))
	defer srv.Close()

	var buf bytes.Buffer
	w := newWriterTo(&buf)
	require.NoError(t, collectWeb(srv.URL, &AppConfig{MaxBytes: -1, ReadContent: true}, w, &RunStats{}))
	require.NoError(t, w.Flush())
	assert.Empty(t, buf.String())
}
