package youtube

import (
	"fmt"
	"net/url"
	"strings"
)

// normalizeWatchURL validates raw and rewrites the YouTube URL variants
// (music, live, shorts, youtu.be) to the canonical watch form the player
// API accepts.
func normalizeWatchURL(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid URL %q: missing scheme or host", raw)
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
	default:
		return "", fmt.Errorf("unsupported URL scheme: %s", parsed.Scheme)
	}
	return NormalizeURL(ConvertMusicURL(parsed.String())), nil
}

// normalizeHostname returns the lowercase hostname with any "www." prefix
// and port stripped.
func normalizeHostname(parsed *url.URL) string {
	host := strings.ToLower(parsed.Hostname())
	return strings.TrimPrefix(host, "www.")
}

// ConvertMusicURL converts YouTube Music URLs to regular YouTube URLs.
func ConvertMusicURL(u string) string {
	parsed, err := url.Parse(u)
	if err != nil {
		return u
	}
	if normalizeHostname(parsed) != "music.youtube.com" {
		return u
	}

	parsed.Host = "www.youtube.com"

	// Drop music-specific share parameters.
	query := parsed.Query()
	delete(query, "si")
	parsed.RawQuery = query.Encode()

	return parsed.String()
}

// NormalizeURL converts alternate YouTube URL forms (live/shorts/youtu.be) to watch?v=.
func NormalizeURL(u string) string {
	parsed, err := url.Parse(u)
	if err != nil {
		return u
	}
	host := normalizeHostname(parsed)
	if host != "youtube.com" && host != "youtu.be" {
		return u
	}
	query := parsed.Query()
	if host == "youtu.be" {
		id := strings.TrimPrefix(parsed.Path, "/")
		if id != "" {
			query.Set("v", id)
			parsed.Path = "/watch"
			parsed.RawQuery = query.Encode()
		}
		return parsed.String()
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(parts) >= 2 && (parts[0] == "live" || parts[0] == "shorts") {
		if query.Get("v") == "" && parts[1] != "" {
			query.Set("v", parts[1])
		}
		parsed.Path = "/watch"
		parsed.RawQuery = query.Encode()
		return parsed.String()
	}
	return u
}
