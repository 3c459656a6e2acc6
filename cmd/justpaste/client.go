package main

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client wraps HTTP calls to the justpaste server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	// downloads can run for minutes, so they get no overall timeout
	downloadClient *http.Client
}

// NewClient creates a new justpaste API client.
func NewClient(serverURL string) *Client {
	return &Client{
		baseURL: serverURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		downloadClient: &http.Client{},
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("server error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("server error %d: %s", e.StatusCode, e.Message)
}

// errorFromResponse builds an *APIError, decoding the JSON error body when present.
func errorFromResponse(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: string(body)}
	var er ErrorResponse
	if json.Unmarshal(body, &er) == nil && er.Error != "" {
		apiErr.Code = er.Code
		apiErr.Message = er.Error
	}
	return apiErr
}

func (c *Client) get(path string, result any) error {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return errorFromResponse(resp)
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

// API response types (mirror server types)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type HistoryEntry struct {
	ID         int64  `json:"id"`
	URL        string `json:"url"`
	FileFormat string `json:"file_format"`
	Quality    string `json:"quality"`
	Timestamp  string `json:"timestamp"`
}

// Status returns the server status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.get("/api/v1/status", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// History returns recent downloads, newest first. limit <= 0 means all.
func (c *Client) History(limit int) ([]HistoryEntry, error) {
	path := "/history"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var resp []HistoryEntry
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Download asks the server to fetch rawURL in format and streams the file
// into w. It returns the file name the server suggested.
func (c *Client) Download(rawURL, format, quality string, w io.Writer) (string, int64, error) {
	q := url.Values{}
	q.Set("url", rawURL)
	q.Set("format", format)
	if quality != "" {
		q.Set("quality", quality)
	}

	resp, err := c.downloadClient.Get(c.baseURL + "/download_get?" + q.Encode())
	if err != nil {
		return "", 0, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", 0, errorFromResponse(resp)
	}

	name := ""
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		name = params["filename"]
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return name, n, fmt.Errorf("read body: %w", err)
	}
	return name, n, nil
}
