package downloader

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ClipSegment bounds a sub-clip in seconds. A nil Start means the beginning
// of the video, a nil End means its end.
type ClipSegment struct {
	Start *float64
	End   *float64
}

// normalize collapses a segment that spans the whole video to nil so the
// executor only ever sees real clips.
func (c *ClipSegment) normalize() *ClipSegment {
	if c == nil {
		return nil
	}
	if (c.Start == nil || *c.Start <= 0) && c.End == nil {
		return nil
	}
	out := *c
	return &out
}

// bounds returns the extraction start and duration in seconds. A negative
// duration means the clip runs to the end of the source.
func (c *ClipSegment) bounds() (start, duration float64) {
	if c.Start != nil {
		start = *c.Start
	}
	if c.End == nil {
		return start, -1
	}
	return start, *c.End - start
}

type policyKind int

const (
	policyHighest policyKind = iota
	policyLowest
	policyNearest
)

// resolutionPolicy is the parsed form of a resolution option: an extremal
// choice or an integer target to approximate.
type resolutionPolicy struct {
	kind   policyKind
	target int
}

func parseResolutionPolicy(s string) (resolutionPolicy, error) {
	switch s {
	case "", "highest":
		return resolutionPolicy{kind: policyHighest}, nil
	case "lowest":
		return resolutionPolicy{kind: policyLowest}, nil
	}
	if !strings.HasSuffix(s, "p") {
		return resolutionPolicy{}, configErrorf("invalid resolution %q: expected \"highest\", \"lowest\", or a target like \"720p\"", s)
	}
	target, err := strconv.Atoi(strings.TrimSuffix(s, "p"))
	if err != nil {
		return resolutionPolicy{}, configErrorf("invalid resolution %q: expected \"highest\", \"lowest\", or a target like \"720p\"", s)
	}
	return resolutionPolicy{kind: policyNearest, target: target}, nil
}

// task is one fully resolved unit of work. buildTasks sets every field once;
// nothing mutates a task afterwards.
type task struct {
	index      int
	url        string
	outputDir  string
	path       string
	clip       *ClipSegment
	ext        string
	resolution resolutionPolicy
	scratchDir string
}

// expand turns a scalar-or-per-video option into a per-video slice: an empty
// slice broadcasts the scalar, a non-empty one must match the url count.
func expand[T any](scalar T, perVideo []T, n int, name string) ([]T, error) {
	if len(perVideo) == 0 {
		out := make([]T, n)
		for i := range out {
			out[i] = scalar
		}
		return out, nil
	}
	if len(perVideo) != n {
		return nil, configErrorf("%s: got %d values for %d urls", name, len(perVideo), n)
	}
	return perVideo, nil
}

// buildTasks validates the run options and expands them into one task per
// url, in input order. It fails with a config-categorized error before any
// network activity; index i of the returned slice always corresponds to
// urls[i].
func buildTasks(urls []string, opts Options, scratchRoot string, log zerolog.Logger) ([]task, error) {
	hasPaths := opts.Path != "" || len(opts.Paths) > 0
	hasDirs := opts.OutputDir != "" || len(opts.OutputDirs) > 0
	if !hasPaths && !hasDirs {
		return nil, configErrorf("either an output directory or explicit paths must be provided")
	}

	ext := opts.Ext
	exts := opts.Exts
	if hasPaths && (ext != "" || len(exts) > 0) {
		log.Warn().Msg("ignoring extension preference because explicit paths were provided")
		ext = ""
		exts = nil
	}

	n := len(urls)
	dirs, err := expand(opts.OutputDir, opts.OutputDirs, n, "output dirs")
	if err != nil {
		return nil, err
	}
	paths, err := expand(opts.Path, opts.Paths, n, "paths")
	if err != nil {
		return nil, err
	}
	clips, err := expand(opts.Clip, opts.Clips, n, "clip segments")
	if err != nil {
		return nil, err
	}
	extPer, err := expand(ext, exts, n, "extensions")
	if err != nil {
		return nil, err
	}
	resPer, err := expand(opts.Resolution, opts.Resolutions, n, "resolutions")
	if err != nil {
		return nil, err
	}

	tasks := make([]task, 0, n)
	for i, url := range urls {
		policy, err := parseResolutionPolicy(resPer[i])
		if err != nil {
			return nil, err
		}
		if paths[i] == "" && dirs[i] == "" {
			return nil, configErrorf("video %d has neither an output directory nor an explicit path", i)
		}
		tasks = append(tasks, task{
			index:      i,
			url:        url,
			outputDir:  dirs[i],
			path:       paths[i],
			clip:       clips[i].normalize(),
			ext:        normalizeExt(extPer[i]),
			resolution: policy,
			scratchDir: filepath.Join(scratchRoot, uuid.NewString()),
		})
	}
	return tasks, nil
}

func normalizeExt(ext string) string {
	return strings.TrimPrefix(strings.TrimSpace(ext), ".")
}
