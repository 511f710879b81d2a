// =============================================================================
// langcsv - Source Fetcher
// =============================================================================
//
// This module retrieves the translation table from wherever it is hosted and
// mirrors it byte-for-byte into a local scratch file.
//
// SUPPORTED SOURCES:
//   - https:// and http://   : one GET request (HTTPFetcher)
//   - s3://bucket/key        : S3 or S3-compatible storage (S3Fetcher)
//   - file:// or bare paths  : local copy (LocalFetcher)
//
// ORDERING:
//   Download returns only after the scratch file is flushed and closed, so
//   the parser never sees a half-written table.
//
// =============================================================================

package fetcher

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrUnsupportedScheme is returned when no fetcher handles a URL scheme.
	ErrUnsupportedScheme = errors.New("fetcher: unsupported source scheme")

	// ErrBadStatus is returned when an HTTP source answers with a non-2xx status.
	ErrBadStatus = errors.New("fetcher: unexpected response status")

	// ErrEmptySource is returned when no source URL was configured.
	ErrEmptySource = errors.New("fetcher: source URL is empty")
)

// =============================================================================
// FETCHER INTERFACE
// =============================================================================

// Fetcher streams the resource named by source into w.
type Fetcher interface {
	Fetch(ctx context.Context, source string, w io.Writer) error
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, source string, w io.Writer) error

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, source string, w io.Writer) error {
	return f(ctx, source, w)
}

// =============================================================================
// ROUTER
// =============================================================================

// Router dispatches to a Fetcher by URL scheme.
// An empty scheme (a bare path) is routed like "file".
type Router struct {
	fetchers map[string]Fetcher
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{fetchers: make(map[string]Fetcher)}
}

// Handle registers f for the given schemes.
func (r *Router) Handle(f Fetcher, schemes ...string) *Router {
	for _, s := range schemes {
		r.fetchers[strings.ToLower(s)] = f
	}
	return r
}

// Fetch implements Fetcher.
func (r *Router) Fetch(ctx context.Context, source string, w io.Writer) error {
	scheme := Scheme(source)
	f, ok := r.fetchers[scheme]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
	}
	return f.Fetch(ctx, source, w)
}

// Scheme returns the lower-cased scheme of source, "file" for bare paths.
func Scheme(source string) string {
	u, err := url.Parse(source)
	// Single letter schemes are Windows drive letters.
	if err != nil || len(u.Scheme) <= 1 {
		return "file"
	}
	return strings.ToLower(u.Scheme)
}

// =============================================================================
// DOWNLOAD
// =============================================================================

// Download fetches source into the file at dst, creating parent directories
// and overwriting any previous content.
//
// On failure the partially written file is removed.
func Download(ctx context.Context, f Fetcher, source, dst string) (err error) {
	if source == "" {
		return ErrEmptySource
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create scratch directory: %w", err)
	}

	file, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create scratch file: %w", err)
	}

	defer func() {
		if err != nil {
			file.Close()
			os.Remove(dst)
		}
	}()

	buf := bufio.NewWriter(file)
	if err := f.Fetch(ctx, source, buf); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush scratch file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close scratch file: %w", err)
	}

	return nil
}

// WithCacheBust appends a _timestamp query parameter (unix milliseconds) to
// http(s) sources so intermediate caches always serve the latest table.
// Other schemes are returned unchanged.
func WithCacheBust(source string, now time.Time) string {
	scheme := Scheme(source)
	if scheme != "http" && scheme != "https" {
		return source
	}

	u, err := url.Parse(source)
	if err != nil {
		return source
	}

	q := u.Query()
	q.Set("_timestamp", strconv.FormatInt(now.UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u.String()
}
