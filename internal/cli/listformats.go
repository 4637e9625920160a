package cli

import (
	"context"
	"fmt"

	"github.com/ytbatch/ytbatch/internal/downloader"
)

// listFormats resolves each url and prints its available streams without
// downloading anything.
func listFormats(ctx context.Context, provider downloader.StreamProvider, urls []string, asJSON bool) error {
	p := newPrinter(false)
	for i, url := range urls {
		video, err := provider.Resolve(ctx, url)
		if err != nil {
			return fmt.Errorf("fetching metadata for %s: %w", url, err)
		}
		if asJSON {
			if err := writeStreamsJSON(url, video); err != nil {
				return err
			}
			continue
		}
		if i > 0 {
			fmt.Println()
		}
		p.streams(url, video)
	}
	return nil
}
