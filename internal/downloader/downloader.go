package downloader

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
)

// Options control one batch run. Scalar fields apply to every url; their
// slice twins override per url and must match the url count exactly.
type Options struct {
	// OutputDir receives synthesized filenames. OutputDirs sets it per url.
	OutputDir  string
	OutputDirs []string

	// Path pins the destination file; Paths pins them per url. When either
	// is set, extension preferences are ignored since the path already
	// dictates the format.
	Path  string
	Paths []string

	// Clip bounds a sub-clip of every video; Clips does so per url. A nil
	// entry downloads the whole video.
	Clip  *ClipSegment
	Clips []*ClipSegment

	// Ext is the preferred container extension ("mp4", "webm"), with or
	// without the leading dot. Exts sets it per url.
	Ext  string
	Exts []string

	// Resolution is "highest" (default), "lowest", or a target such as
	// "720p", matched by nearest. Resolutions sets it per url.
	Resolution  string
	Resolutions []string

	// MaxVideos stops the run after that many successful downloads. Zero
	// means all of them.
	MaxVideos int

	// Workers bounds parallel downloads. Zero uses the CPU count; one runs
	// strictly in input order.
	Workers int

	// SkipFailures records per-video failures and keeps going. When false,
	// the first failure aborts the whole run.
	SkipFailures bool

	// OnSuccess, when set, is invoked once per successful download, never
	// concurrently, at most MaxVideos times.
	OnSuccess func()

	// OnResult, when set, observes every finished attempt with its final
	// error (nil on success). Like OnSuccess it runs on the collection
	// goroutine, never concurrently.
	OnResult func(index int, url string, err error)
}

// Result maps input indices to final paths and to per-video failures. An
// index appears in at most one of the two maps; indices never attempted
// because the run already hit MaxVideos appear in neither.
type Result struct {
	Downloaded map[int]string
	Errors     map[int]error
}

func newResult() *Result {
	return &Result{
		Downloaded: make(map[int]string),
		Errors:     make(map[int]error),
	}
}

// Service downloads batches of videos through its collaborators. Zero-value
// collaborators are rejected at run time; Log defaults to a no-op logger.
type Service struct {
	Provider StreamProvider
	Fetcher  StreamFetcher
	Clipper  ClipExtractor
	Log      zerolog.Logger
}

// NewService wires a download service. clipper may be nil when no run will
// request clip extraction.
func NewService(provider StreamProvider, fetcher StreamFetcher, clipper ClipExtractor) *Service {
	return &Service{
		Provider: provider,
		Fetcher:  fetcher,
		Clipper:  clipper,
		Log:      zerolog.Nop(),
	}
}

// DownloadVideos downloads urls per opts and returns the per-index results.
// The error is non-nil only for invalid options and, when opts.SkipFailures
// is false, for the first per-video failure; in both cases no Result is
// returned. Cancelling ctx stops dispatch and returns whatever finished.
func (s *Service) DownloadVideos(ctx context.Context, urls []string, opts Options) (*Result, error) {
	if s.Provider == nil || s.Fetcher == nil {
		return nil, configErrorf("service needs a stream provider and a fetcher")
	}

	scratchRoot, err := os.MkdirTemp("", "ytbatch-")
	if err != nil {
		return nil, fmt.Errorf("creating scratch directory: %w", err)
	}

	tasks, err := buildTasks(urls, opts, scratchRoot, s.Log)
	if err != nil {
		os.RemoveAll(scratchRoot)
		return nil, err
	}
	if s.Clipper == nil && anyClips(tasks) {
		os.RemoveAll(scratchRoot)
		return nil, configErrorf("clip extraction requested but no clip extractor is configured")
	}

	quota := opts.MaxVideos
	if quota <= 0 {
		quota = len(tasks)
	}
	workers := resolveWorkers(opts.Workers, tasks)

	s.Log.Debug().
		Int("videos", len(tasks)).
		Int("workers", workers).
		Int("max", quota).
		Msg("starting batch")

	if workers <= 1 {
		return s.downloadSequential(ctx, tasks, opts, quota, scratchRoot)
	}
	return s.downloadParallel(ctx, tasks, opts, quota, workers, scratchRoot)
}

// resolveWorkers applies the worker-count defaults. Clip extraction drives
// ffmpeg child processes, which Windows does not manage reliably in
// parallel, so any batch with clips runs sequentially there no matter what
// was requested.
func resolveWorkers(requested int, tasks []task) int {
	if runtime.GOOS == "windows" && anyClips(tasks) {
		return 1
	}
	if requested <= 0 {
		return runtime.NumCPU()
	}
	return requested
}

func anyClips(tasks []task) bool {
	for _, t := range tasks {
		if t.clip != nil {
			return true
		}
	}
	return false
}

func (s *Service) downloadSequential(ctx context.Context, tasks []task, opts Options, quota int, scratchRoot string) (*Result, error) {
	defer os.RemoveAll(scratchRoot)

	res := newResult()
	for _, t := range tasks {
		if ctx.Err() != nil {
			break
		}
		out := s.execute(ctx, t)
		if opts.OnResult != nil {
			opts.OnResult(out.index, out.url, out.err)
		}
		if out.err != nil {
			if !opts.SkipFailures {
				return nil, fmt.Errorf("downloading %s: %w", out.url, out.err)
			}
			s.Log.Debug().Int("index", out.index).Err(out.err).Msg("video failed")
			res.Errors[out.index] = out.err
			continue
		}
		res.Downloaded[out.index] = out.path
		if opts.OnSuccess != nil {
			opts.OnSuccess()
		}
		if len(res.Downloaded) >= quota {
			break
		}
	}
	return res, nil
}

func (s *Service) downloadParallel(ctx context.Context, tasks []task, opts Options, quota, workers int, scratchRoot string) (*Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	taskCh := make(chan task)
	// Buffered to the task count so workers never block on delivery and can
	// exit even after the collection loop has returned.
	results := make(chan outcome, len(tasks))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range taskCh {
				results <- s.execute(ctx, t)
			}
		}()
	}

	go func() {
		defer close(taskCh)
		for _, t := range tasks {
			select {
			case taskCh <- t:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	// In-flight workers may still be writing under the scratch root after
	// an early return, so removal waits for them in the background.
	cleanup := func() {
		go func() {
			wg.Wait()
			os.RemoveAll(scratchRoot)
		}()
	}

	res := newResult()
	for out := range results {
		if opts.OnResult != nil {
			opts.OnResult(out.index, out.url, out.err)
		}
		if out.err != nil {
			if !opts.SkipFailures {
				cancel()
				cleanup()
				return nil, fmt.Errorf("downloading %s: %w", out.url, out.err)
			}
			s.Log.Debug().Int("index", out.index).Err(out.err).Msg("video failed")
			res.Errors[out.index] = out.err
			continue
		}
		res.Downloaded[out.index] = out.path
		if opts.OnSuccess != nil {
			opts.OnSuccess()
		}
		if len(res.Downloaded) >= quota {
			cancel()
			cleanup()
			return res, nil
		}
	}
	cleanup()
	return res, nil
}
