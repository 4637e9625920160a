package downloader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// outcome is what one task execution reports back to the collection loop.
// Exactly one of path/err is set.
type outcome struct {
	index int
	url   string
	path  string
	err   error
}

// execute runs one task end to end: resolve, select, transfer into the
// task's scratch directory, publish. Every failure comes back inside the
// outcome; nothing escapes, including panics from the resolver libraries,
// which have been known to choke on malformed player responses.
func (s *Service) execute(ctx context.Context, t task) (out outcome) {
	out = outcome{index: t.index, url: t.url}
	defer func() {
		if r := recover(); r != nil {
			out.path = ""
			out.err = WrapCategory(CategoryUnexpected, fmt.Errorf("panic: %v", r))
		}
	}()

	video, err := s.Provider.Resolve(ctx, t.url)
	if err != nil {
		out.err = categorize(err, CategoryUnexpected)
		return out
	}
	if !video.Playable {
		reason := video.Reason
		if reason == "" {
			reason = "video is not playable"
		}
		out.err = WrapCategory(CategoryNotPlayable, errors.New(reason))
		return out
	}

	stream := selectStream(video.Streams, t.ext, t.resolution)
	if stream == nil {
		out.err = WrapCategory(CategoryNoStream, errors.New("no stream matches the requested parameters"))
		return out
	}

	finalPath := resolveFinalPath(t, stream, s.Log)
	target := filepath.Join(t.scratchDir, filepath.Base(finalPath))
	if err := os.MkdirAll(t.scratchDir, 0o755); err != nil {
		out.err = WrapCategory(CategoryUnexpected, fmt.Errorf("creating scratch directory: %w", err))
		return out
	}

	if t.clip == nil {
		err = s.Fetcher.Fetch(ctx, stream.URL, target)
	} else {
		start, duration := t.clip.bounds()
		err = s.Clipper.Extract(ctx, stream.URL, target, start, duration)
	}
	if err != nil {
		out.err = categorize(err, CategoryTransfer)
		return out
	}

	if err := os.MkdirAll(filepath.Dir(finalPath), 0o755); err != nil {
		out.err = WrapCategory(CategoryUnexpected, fmt.Errorf("creating output directory: %w", err))
		return out
	}
	if err := moveFile(target, finalPath); err != nil {
		out.err = WrapCategory(CategoryUnexpected, fmt.Errorf("publishing output: %w", err))
		return out
	}

	out.path = finalPath
	return out
}

// resolveFinalPath computes where the finished download belongs. An explicit
// task path wins; otherwise the provider's default filename lands in the
// task's output directory, with a requested extension spliced on. Either
// way, when the chosen path's extension does not match the selected stream's
// container, the path is rewritten to the container's extension: this system
// renames, it never transcodes.
func resolveFinalPath(t task, stream *Stream, log zerolog.Logger) string {
	path := t.path
	if path == "" {
		name := stream.DefaultFilename
		if t.ext != "" {
			name = replaceExt(name, t.ext)
		}
		path = filepath.Join(t.outputDir, name)
	}
	if normalizeExt(filepath.Ext(path)) != stream.Ext {
		rewritten := replaceExt(path, stream.Ext)
		log.Warn().
			Str("url", t.url).
			Str("requested", path).
			Str("using", rewritten).
			Msg("selected stream container differs from requested extension")
		path = rewritten
	}
	return path
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + ext
}
