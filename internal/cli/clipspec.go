package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ytbatch/ytbatch/internal/downloader"
)

// parseClipSpec parses a start-end range in seconds. Either side may be
// empty: "30-" clips from 30s to the end, "-45" from the start to 45s.
func parseClipSpec(spec string) (*downloader.ClipSegment, error) {
	trimmed := strings.TrimSpace(spec)
	sep := strings.Index(trimmed, "-")
	if sep < 0 {
		return nil, fmt.Errorf("invalid clip %q: expected start-end in seconds", spec)
	}

	var segment downloader.ClipSegment
	if left := trimmed[:sep]; left != "" {
		start, err := strconv.ParseFloat(left, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid clip start %q in %q", left, spec)
		}
		segment.Start = &start
	}
	if right := trimmed[sep+1:]; right != "" {
		end, err := strconv.ParseFloat(right, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid clip end %q in %q", right, spec)
		}
		segment.End = &end
	}

	if segment.Start == nil && segment.End == nil {
		return nil, fmt.Errorf("invalid clip %q: at least one bound is required", spec)
	}
	if segment.Start != nil && segment.End != nil && *segment.End <= *segment.Start {
		return nil, fmt.Errorf("invalid clip %q: end must be after start", spec)
	}
	return &segment, nil
}
