// Package webfetch provides a tool that fetches a web page and converts its
// HTML body to Markdown.
package webfetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "flowkit-webfetch/1.0"
	maxBodySize      = 10 * 1024 * 1024
	dialTimeout      = 10 * time.Second
)

// FetchTool retrieves a URL over HTTP/HTTPS and converts the response body
// from HTML to Markdown.
//
// Input: "url" (required; "https://" is prepended if the scheme is missing),
// "timeout_seconds" (optional, default 30), "user_agent" (optional).
// Output: "url" (final URL after redirects), "markdown".
type FetchTool struct{}

// NewFetchTool creates a FetchTool.
func NewFetchTool() *FetchTool { return &FetchTool{} }

// Name implements tool.Tool.
func (f *FetchTool) Name() string { return "web_fetch" }

// Call implements tool.Tool.
func (f *FetchTool) Call(ctx context.Context, input map[string]any) (map[string]any, error) {
	rawURL, _ := input["url"].(string)
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, fmt.Errorf("web_fetch: url parameter required")
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		rawURL = "https://" + rawURL
	}

	timeout := defaultTimeout
	if secs, ok := input["timeout_seconds"].(int); ok && secs > 0 {
		timeout = time.Duration(secs) * time.Second
	}
	userAgent := defaultUserAgent
	if ua, ok := input["user_agent"].(string); ok && ua != "" {
		userAgent = ua
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctxTimeout, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("web_fetch: failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{Timeout: dialTimeout}).DialContext,
		},
		CheckRedirect: func(r *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return fmt.Errorf("too many redirects (>10)")
			}
			return nil
		},
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("web_fetch: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("web_fetch: unexpected status code %d", resp.StatusCode)
	}

	limited := io.LimitReader(resp.Body, maxBodySize+1)
	htmlBytes, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("web_fetch: failed to read response body: %w", err)
	}
	if len(htmlBytes) > maxBodySize {
		return nil, fmt.Errorf("web_fetch: response body exceeds maximum size of %d bytes", maxBodySize)
	}

	markdown, err := htmltomarkdown.ConvertString(string(htmlBytes))
	if err != nil {
		return nil, fmt.Errorf("web_fetch: failed to convert HTML to markdown: %w", err)
	}

	return map[string]any{
		"url":      resp.Request.URL.String(),
		"markdown": markdown,
	}, nil
}
