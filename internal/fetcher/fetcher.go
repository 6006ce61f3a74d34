// Package fetcher downloads provider payloads over HTTP with pacing and retry.
package fetcher

import (
	"context"
	"io"
)

// Fetcher defines the interface for downloading remote data.
type Fetcher interface {
	// Download fetches the URL and returns the response body. Callers close it.
	Download(ctx context.Context, url string) (io.ReadCloser, error)
}

// GetJSON downloads url and decodes the body as a single JSON object.
func GetJSON[T any](ctx context.Context, f Fetcher, url string) (*T, error) {
	body, err := f.Download(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close() //nolint:errcheck

	return DecodeJSONObject[T](body)
}
