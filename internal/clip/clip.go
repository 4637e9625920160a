package clip

import (
	"context"
	"fmt"
	"os/exec"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/ytbatch/ytbatch/internal/downloader"
)

// FFmpeg extracts clip segments by remuxing a portion of the source
// stream. Codecs are copied, never transcoded.
type FFmpeg struct{}

var _ downloader.ClipExtractor = (*FFmpeg)(nil)

// NewFFmpeg returns a ClipExtractor backed by the ffmpeg binary, or an
// error when the binary is not on PATH.
func NewFFmpeg() (*FFmpeg, error) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, fmt.Errorf("ffmpeg not found on PATH: %w", err)
	}
	return &FFmpeg{}, nil
}

// Extract writes the [start, start+duration) portion of src to dst. A
// non-positive duration keeps everything from start through the end.
func (e *FFmpeg) Extract(ctx context.Context, src, dst string, start, duration float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	input, output := clipArgs(start, duration)
	if err := ffmpeg.Input(src, input).
		Output(dst, output).
		OverWriteOutput().
		Silent(true).
		Run(); err != nil {
		return fmt.Errorf("extracting clip: %w", err)
	}
	return nil
}

// clipArgs builds the keyword arguments for a seek-and-copy remux. The
// seek sits on the input side so ffmpeg jumps to the nearest keyframe
// instead of decoding from the top.
func clipArgs(start, duration float64) (input, output ffmpeg.KwArgs) {
	input = ffmpeg.KwArgs{"ss": start}
	output = ffmpeg.KwArgs{"c": "copy"}
	if duration > 0 {
		output["t"] = duration
	}
	return input, output
}
