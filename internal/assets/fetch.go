// Package assets retrieves product image bytes for report rendering.
// Individual fetch failures are tolerated; a product whose image cannot
// be fetched simply renders without one.
package assets

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/storekit/sales-reporter/internal/types"

	// Registered decoders used to validate fetched bytes before the
	// renderer sees them.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// DefaultTimeout is the default HTTP request timeout per image.
const DefaultTimeout = 15 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; SalesReporter/1.0)"

// maxImageBytes caps a single image download.
const maxImageBytes = 8 << 20

// Error represents an error fetching a single image.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("asset fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("asset fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Fetcher downloads image assets over HTTP(S).
type Fetcher struct {
	client    *http.Client
	userAgent string
	log       *slog.Logger
}

// NewFetcher returns a Fetcher with the given timeout; zero means
// DefaultTimeout.
func NewFetcher(timeout time.Duration, log *slog.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: DefaultUserAgent,
		log:       log,
	}
}

// FetchAll fetches images for every selection entry with a non-empty
// image URL, concurrently. The result maps product id to its asset so
// callers stay correct regardless of completion order. Entries without
// a URL, and entries whose fetch or decode fails, map to a nil-data
// asset; failures are logged and never abort the batch.
func (f *Fetcher) FetchAll(ctx context.Context, selection types.RankedSelection) map[string]*types.ImageAsset {
	results := make(map[string]*types.ImageAsset, len(selection))
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	for _, item := range selection {
		asset := &types.ImageAsset{ProductID: item.ProductID}
		mu.Lock()
		results[item.ProductID] = asset
		mu.Unlock()

		if item.ImageURL == "" {
			continue
		}

		imageURL := item.ImageURL
		g.Go(func() error {
			data, err := f.fetchOne(gCtx, imageURL)
			if err != nil {
				f.log.Warn("image fetch failed, report row renders without image",
					slog.String("product_id", asset.ProductID),
					slog.String("url", imageURL),
					slog.Any("error", err))
				return nil // tolerated
			}
			mu.Lock()
			asset.Data = data
			mu.Unlock()
			return nil
		})
	}

	// Workers only ever return nil; Wait is for completion, not errors.
	_ = g.Wait()
	return results
}

// fetchOne downloads and validates one image.
func (f *Fetcher) fetchOne(ctx context.Context, urlStr string) ([]byte, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return nil, &Error{URL: urlStr, Message: "response is not a decodable image", Cause: err}
	}
	return data, nil
}
