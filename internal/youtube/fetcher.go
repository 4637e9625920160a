package youtube

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/ytbatch/ytbatch/internal/downloader"
)

// Fetcher pulls whole stream files over plain HTTP.
type Fetcher struct {
	client *http.Client
}

var _ downloader.StreamFetcher = (*Fetcher)(nil)

// NewFetcher builds a Fetcher on the shared header-shaping transport so
// stream hosts see the same client identity that resolved the URL.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{client: newHTTPClient(timeout)}
}

// Fetch streams srcURL into dst, creating or truncating it. The copy
// stops as soon as ctx is cancelled.
func (f *Fetcher) Fetch(ctx context.Context, srcURL, dst string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srcURL, nil)
	if err != nil {
		return transferErr(err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return transferErr(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return transferErr(fmt.Errorf("restricted content (status %d)", resp.StatusCode))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return transferErr(fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	file, err := os.Create(dst)
	if err != nil {
		return transferErr(fmt.Errorf("opening output file: %w", err))
	}
	if _, err := copyWithContext(ctx, file, resp.Body); err != nil {
		file.Close()
		return transferErr(fmt.Errorf("download failed: %w", err))
	}
	if err := file.Close(); err != nil {
		return transferErr(fmt.Errorf("closing output file: %w", err))
	}
	return nil
}

func transferErr(err error) error {
	return downloader.WrapCategory(downloader.CategoryTransfer, err)
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *contextReader) Read(p []byte) (int, error) {
	select {
	case <-r.ctx.Done():
		return 0, r.ctx.Err()
	default:
		return r.r.Read(p)
	}
}

func copyWithContext(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	reader := &contextReader{ctx: ctx, r: src}
	return io.Copy(dst, reader)
}
