// ABOUTME: Bottle image lookup: search candidates, fetch first that loads.
// ABOUTME: Every attempt is bounded; no image is never a hard failure.

package imagesearch

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrNoImage means no candidate produced a usable image. Callers treat it
// as a degraded outcome, not a failure to surface.
var ErrNoImage = errors.New("no candidate image could be fetched")

// AttemptTimeout bounds each candidate fetch.
const AttemptTimeout = 8 * time.Second

// maxImageBytes caps a fetched image so one huge file cannot blow up the
// collection blob.
const maxImageBytes = 4 << 20

// Searcher returns candidate image URLs for a free-text query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]string, error)
}

// HTTPSearcher queries a JSON endpoint: GET <endpoint>?q=<query>, reply
// {"images":[{"url":"..."}, ...]}.
type HTTPSearcher struct {
	endpoint string
	client   *http.Client
}

// NewHTTPSearcher builds a searcher for the given endpoint.
func NewHTTPSearcher(endpoint string) *HTTPSearcher {
	return &HTTPSearcher{
		endpoint: endpoint,
		client:   &http.Client{Timeout: AttemptTimeout},
	}
}

type searchResponse struct {
	Images []struct {
		URL string `json:"url"`
	} `json:"images"`
}

// Search returns candidate URLs in ranking order.
func (s *HTTPSearcher) Search(ctx context.Context, query string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	q := req.URL.Query()
	q.Set("q", query)
	req.URL.RawQuery = q.Encode()

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image search: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image search returned %s", resp.Status)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search reply: %w", err)
	}

	urls := make([]string, 0, len(parsed.Images))
	for _, img := range parsed.Images {
		if img.URL != "" {
			urls = append(urls, img.URL)
		}
	}
	return urls, nil
}

// FetchFirst tries each candidate URL in order and returns the first
// image that loads, base64-encoded. Each attempt gets its own timeout; a
// failed attempt just moves on to the next. All candidates failing yields
// ErrNoImage.
func FetchFirst(ctx context.Context, urls []string) (string, error) {
	client := &http.Client{}
	for _, url := range urls {
		img, err := fetchOne(ctx, client, url)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			continue
		}
		return img, nil
	}
	return "", ErrNoImage
}

func fetchOne(ctx context.Context, client *http.Client, url string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, AttemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch returned %s", resp.Status)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return "", fmt.Errorf("not an image: %s", ct)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", errors.New("empty image body")
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
