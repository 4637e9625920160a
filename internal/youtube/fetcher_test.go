package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ytbatch/ytbatch/internal/downloader"
)

func TestFetcherWritesDestination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("stream bytes"))
	}))
	defer server.Close()

	dst := filepath.Join(t.TempDir(), "video.mp4")
	fetcher := NewFetcher(10 * time.Second)
	if err := fetcher.Fetch(context.Background(), server.URL, dst); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("reading destination: %v", err)
	}
	if string(got) != "stream bytes" {
		t.Fatalf("destination content = %q", got)
	}
}

func TestFetcherStatusErrors(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		wantMsg string
	}{
		{name: "forbidden", status: http.StatusForbidden, wantMsg: "restricted content"},
		{name: "not found", status: http.StatusNotFound, wantMsg: "unexpected status 404"},
		{name: "server error", status: http.StatusInternalServerError, wantMsg: "unexpected status 500"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer server.Close()

			dst := filepath.Join(t.TempDir(), "video.mp4")
			fetcher := NewFetcher(10 * time.Second)
			err := fetcher.Fetch(context.Background(), server.URL, dst)
			if err == nil {
				t.Fatalf("expected error for status %d", tc.status)
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Fatalf("error = %q, want it to mention %q", err, tc.wantMsg)
			}
			if got := downloader.CategoryOf(err); got != downloader.CategoryTransfer {
				t.Fatalf("category = %q, want %q", got, downloader.CategoryTransfer)
			}
			if _, statErr := os.Stat(dst); !os.IsNotExist(statErr) {
				t.Fatalf("destination created despite failed fetch: %v", statErr)
			}
		})
	}
}

func TestFetcherCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("stream bytes"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dst := filepath.Join(t.TempDir(), "video.mp4")
	fetcher := NewFetcher(10 * time.Second)
	if err := fetcher.Fetch(ctx, server.URL, dst); err == nil {
		t.Fatal("expected an error for a cancelled context")
	}
}

func TestCopyWithContextStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var sb strings.Builder
	_, err := copyWithContext(ctx, &sb, strings.NewReader("should not arrive"))
	if err == nil {
		t.Fatal("expected context error")
	}
	if sb.Len() != 0 {
		t.Fatalf("copied %d bytes after cancellation", sb.Len())
	}
}
