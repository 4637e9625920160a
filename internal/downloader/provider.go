package downloader

import "context"

// Video is the provider's view of one remote video.
type Video struct {
	ID      string
	Title   string
	Author  string
	Streams []Stream

	// Playable is false when the provider refuses to serve the video;
	// Reason then carries its stated explanation, if any.
	Playable bool
	Reason   string
}

// Stream describes one fetchable rendition of a video, normalized from
// whatever the provider exposes.
type Stream struct {
	Itag            int
	Resolution      int    // vertical pixels
	Ext             string // container extension without the dot
	Progressive     bool   // audio and video muxed into a single stream
	Size            int64  // bytes, 0 when unknown
	URL             string // direct source, usable by the fetcher and ffmpeg
	DefaultFilename string // provider-suggested basename, extension included
}

// StreamProvider resolves a watch URL into playability and streams. An
// unplayable video is data, not an error: Resolve returns it with Playable
// unset.
type StreamProvider interface {
	Resolve(ctx context.Context, url string) (*Video, error)
}

// StreamFetcher transfers a whole stream to a local file.
type StreamFetcher interface {
	Fetch(ctx context.Context, srcURL, dst string) error
}

// ClipExtractor cuts a time range from a stream source into a local file.
// A non-positive duration means "through the end of the source".
type ClipExtractor interface {
	Extract(ctx context.Context, srcURL, dst string, start, duration float64) error
}
