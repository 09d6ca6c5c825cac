package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/handiism/albumart/internal/model"
)

// MaxArtBytes caps how much of a remote image is read into memory.
const MaxArtBytes = 32 << 20

// Client fetches remote cover art.
//
// Example usage:
//
//	client := NewClient(60*time.Second, "albumart")
//
//	if err := client.Exists(ctx, artURL); err != nil {
//	    // unreachable or 404
//	}
//
//	data, err := client.DownloadBytes(ctx, artURL, nil)
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new HTTP client. A zero timeout means no timeout.
func NewClient(timeout time.Duration, userAgent string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
	}
}

// ProgressWriter wraps a writer to track download progress.
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header),
	// or -1 when unknown.
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// Exists checks a URL with a HEAD request.
//
// 404 and 410 responses wrap model.ErrNotFound. Servers that reject HEAD
// with 405 are treated as reachable; the GET that follows reports the
// real outcome.
func (c *Client) Exists(ctx context.Context, url string) error {
	resp, err := c.do(ctx, http.MethodHead, url)
	if err != nil {
		return err
	}
	resp.Body.Close()

	if resp.StatusCode == http.StatusMethodNotAllowed {
		return nil
	}
	return checkStatus(resp)
}

// DownloadBytes downloads a file into memory with an optional progress
// callback. Bodies larger than MaxArtBytes are rejected.
func (c *Client) DownloadBytes(ctx context.Context, url string, onProgress func(written, total int64)) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	if resp.ContentLength > MaxArtBytes {
		return nil, fmt.Errorf("%s: %d bytes exceeds limit of %d", url, resp.ContentLength, MaxArtBytes)
	}

	var buf bytes.Buffer
	var writer io.Writer = &buf
	if onProgress != nil {
		writer = &ProgressWriter{
			Writer:   &buf,
			Total:    resp.ContentLength,
			OnUpdate: onProgress,
		}
	}

	n, err := io.Copy(writer, io.LimitReader(resp.Body, MaxArtBytes+1))
	if err != nil {
		return nil, err
	}
	if n > MaxArtBytes {
		return nil, fmt.Errorf("%s: body exceeds limit of %d bytes", url, MaxArtBytes)
	}
	return buf.Bytes(), nil
}

func (c *Client) do(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return c.httpClient.Do(req)
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusGone:
		return errors.Join(model.ErrNotFound, fmt.Errorf("HTTP %s", resp.Status))
	default:
		return fmt.Errorf("HTTP %s", resp.Status)
	}
}
