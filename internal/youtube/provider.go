package youtube

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kkdai/youtube/v2"
	"github.com/rs/zerolog"

	"github.com/ytbatch/ytbatch/internal/downloader"
)

// Provider resolves watch page URLs into stream listings through the
// YouTube player API.
type Provider struct {
	client *youtube.Client
	log    zerolog.Logger
}

var _ downloader.StreamProvider = (*Provider)(nil)

// NewProvider builds a Provider on the shared header-shaping transport.
// Metadata goes through the Android player client, which hands out
// progressive formats more reliably than the web client.
func NewProvider(timeout time.Duration, log zerolog.Logger) *Provider {
	youtube.DefaultClient = youtube.AndroidClient
	return &Provider{
		client: &youtube.Client{HTTPClient: newHTTPClient(timeout)},
		log:    log,
	}
}

// Resolve fetches metadata for one video and maps every usable format to
// a stream. Playability verdicts from the player API come back as an
// unplayable video instead of an error so callers can report them per
// item.
func (p *Provider) Resolve(ctx context.Context, rawURL string) (*downloader.Video, error) {
	watchURL, err := normalizeWatchURL(rawURL)
	if err != nil {
		return nil, err
	}

	video, err := p.client.GetVideoContext(ctx, watchURL)
	if err != nil {
		if reason, ok := playabilityReason(err); ok {
			id, _ := youtube.ExtractVideoID(watchURL)
			return &downloader.Video{ID: id, Reason: reason}, nil
		}
		return nil, fmt.Errorf("fetching metadata: %w", err)
	}

	out := &downloader.Video{
		ID:       video.ID,
		Title:    video.Title,
		Author:   video.Author,
		Playable: true,
		Streams:  p.mapStreams(ctx, video),
	}
	if len(out.Streams) == 0 && video.HLSManifestURL != "" {
		out.Playable = false
		out.Reason = "live stream"
	}
	return out, nil
}

// mapStreams keeps the formats a download can use. Storyboards and
// audio-only renditions carry no resolution and are skipped, as is any
// format whose source URL cannot be resolved.
func (p *Provider) mapStreams(ctx context.Context, video *youtube.Video) []downloader.Stream {
	streams := make([]downloader.Stream, 0, len(video.Formats))
	for i := range video.Formats {
		format := &video.Formats[i]
		resolution := format.Height
		if resolution == 0 {
			resolution = qualityLabelHeight(format.QualityLabel)
		}
		if resolution == 0 {
			continue
		}
		srcURL, err := p.client.GetStreamURLContext(ctx, video, format)
		if err != nil {
			p.log.Debug().
				Str("video", video.ID).
				Int("itag", format.ItagNo).
				Err(err).
				Msg("skipping format without a source url")
			continue
		}
		ext := mimeToExt(format.MimeType)
		streams = append(streams, downloader.Stream{
			Itag:            format.ItagNo,
			Resolution:      resolution,
			Ext:             ext,
			Progressive:     format.AudioChannels > 0,
			Size:            format.ContentLength,
			URL:             srcURL,
			DefaultFilename: sanitize(video.Title) + "." + ext,
		})
	}
	return streams
}

// qualityLabelHeight parses the leading digits of labels like "720p60".
func qualityLabelHeight(label string) int {
	end := len(label)
	for i, r := range label {
		if r < '0' || r > '9' {
			end = i
			break
		}
	}
	height := 0
	for _, r := range label[:end] {
		height = height*10 + int(r-'0')
	}
	return height
}

// playabilityReason reports whether err is the player API refusing to
// serve the video, and with what reason.
func playabilityReason(err error) (string, bool) {
	var status *youtube.ErrPlayabiltyStatus
	if errors.As(err, &status) {
		if status.Reason != "" {
			return status.Reason, true
		}
		return strings.ToLower(status.Status), true
	}
	if isRestrictedAccess(err) {
		return err.Error(), true
	}
	return "", false
}

func isRestrictedAccess(err error) bool {
	if err == nil {
		return false
	}
	message := strings.ToLower(err.Error())
	restrictedMarkers := []string{
		"private",
		"sign in",
		"login",
		"members only",
		"premium",
		"copyright",
		"video unavailable",
		"content unavailable",
		"restricted",
		"not available",
	}
	for _, marker := range restrictedMarkers {
		if strings.Contains(message, marker) {
			return true
		}
	}
	return false
}
