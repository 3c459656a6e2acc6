package main

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientStatus_Success(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/status").
		ExpectGET().
		RespondJSON(StatusResponse{Status: "ok", Version: "1.0.0"}).
		Build()
	defer srv.Close()

	status, err := NewClient(srv.URL).Status()
	require.NoError(t, err)
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "1.0.0", status.Version)
}

func TestClientStatus_ConnectionError(t *testing.T) {
	srv := newMockServer(t).Build()
	srv.Close()

	_, err := NewClient(srv.URL).Status()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
}

func TestClientHistory_Limit(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/history").
		Handler(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "3", r.URL.Query().Get("limit"))
			respondJSON(t, w, http.StatusOK, []HistoryEntry{
				{ID: 2, URL: "https://example.com/2", FileFormat: "mp3", Quality: "best", Timestamp: "2024-01-02T00:00:00Z"},
			})
		}).
		Build()
	defer srv.Close()

	entries, err := NewClient(srv.URL).History(3)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "mp3", entries[0].FileFormat)
}

func TestClientHistory_NoLimit(t *testing.T) {
	srv := newMockServer(t).
		Handler(func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.URL.RawQuery)
			respondJSON(t, w, http.StatusOK, []HistoryEntry{})
		}).
		Build()
	defer srv.Close()

	entries, err := NewClient(srv.URL).History(0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestClientDownload_Success(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/download_get").
		ExpectGET().
		Handler(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "https://example.com/watch?v=1&t=2", q.Get("url"))
			assert.Equal(t, "mp3", q.Get("format"))
			assert.Equal(t, "high", q.Get("quality"))
			w.Header().Set("Content-Disposition", `attachment; filename="JustPaste.mp3"`)
			_, _ = w.Write([]byte("audio-bytes"))
		}).
		Build()
	defer srv.Close()

	var buf bytes.Buffer
	name, n, err := NewClient(srv.URL).Download("https://example.com/watch?v=1&t=2", "mp3", "high", &buf)
	require.NoError(t, err)
	assert.Equal(t, "JustPaste.mp3", name)
	assert.Equal(t, int64(11), n)
	assert.Equal(t, "audio-bytes", buf.String())
}

func TestClientDownload_ServerError(t *testing.T) {
	srv := newMockServer(t).
		RespondError(http.StatusInternalServerError, "EXTRACTION_FAILED", "extraction failed after 2 attempt(s): boom").
		Build()
	defer srv.Close()

	var buf bytes.Buffer
	_, _, err := NewClient(srv.URL).Download("https://example.com", "mp4", "", &buf)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "EXTRACTION_FAILED", apiErr.Code)
	assert.Contains(t, err.Error(), "boom")
	assert.Zero(t, buf.Len())
}

func TestClientGet_PlainTextError(t *testing.T) {
	srv := newMockServer(t).
		Handler(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("bad gateway"))
		}).
		Build()
	defer srv.Close()

	_, err := NewClient(srv.URL).Status()
	require.Error(t, err)
	assert.Equal(t, "server error 502: bad gateway", err.Error())
}
