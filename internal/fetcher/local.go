package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
)

// LocalFetcher copies a file from the local filesystem.
// It accepts file:// URLs and bare paths.
type LocalFetcher struct{}

// Fetch implements Fetcher.
func (LocalFetcher) Fetch(ctx context.Context, source string, w io.Writer) error {
	path := source
	if u, err := url.Parse(source); err == nil && u.Scheme == "file" {
		path = u.Path
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer f.Close()

	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to copy source: %w", err)
	}
	return nil
}
