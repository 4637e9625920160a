package cli

import (
	"encoding/json"
	"os"

	"github.com/ytbatch/ytbatch/internal/downloader"
)

type jsonResult struct {
	Type     string `json:"type"`
	Status   string `json:"status"`
	Index    int    `json:"index"`
	URL      string `json:"url,omitempty"`
	Output   string `json:"output,omitempty"`
	Bytes    int64  `json:"bytes,omitempty"`
	Category string `json:"category,omitempty"`
	Error    string `json:"error,omitempty"`
}

// emitJSONResults writes one result line per url to stdout, in input order.
func emitJSONResults(res *downloader.Result, urls []string) {
	for i, url := range urls {
		out := jsonResult{Type: "result", Index: i, URL: url}
		if path, found := res.Downloaded[i]; found {
			out.Status = "ok"
			out.Output = path
			out.Bytes = fileSize(path)
		} else if err, found := res.Errors[i]; found {
			out.Status = "failed"
			out.Category = string(downloader.CategoryOf(err))
			out.Error = err.Error()
		} else {
			out.Status = "skipped"
		}
		emitJSON(out)
	}
}

// writeJSONError reports an error that aborted the whole run.
func writeJSONError(url string, err error) {
	emitJSON(struct {
		Type     string `json:"type"`
		URL      string `json:"url,omitempty"`
		Category string `json:"category"`
		Error    string `json:"error"`
	}{
		Type:     "error",
		URL:      url,
		Category: string(downloader.CategoryOf(err)),
		Error:    err.Error(),
	})
}

type streamInfo struct {
	Itag        int    `json:"itag"`
	Resolution  int    `json:"resolution"`
	Ext         string `json:"ext"`
	Progressive bool   `json:"progressive"`
	Size        int64  `json:"size,omitempty"`
	Filename    string `json:"filename,omitempty"`
}

func writeStreamsJSON(url string, video *downloader.Video) error {
	payload := struct {
		Type     string       `json:"type"`
		URL      string       `json:"url"`
		ID       string       `json:"id"`
		Title    string       `json:"title,omitempty"`
		Author   string       `json:"author,omitempty"`
		Playable bool         `json:"playable"`
		Reason   string       `json:"reason,omitempty"`
		Streams  []streamInfo `json:"streams"`
	}{
		Type:     "formats",
		URL:      url,
		ID:       video.ID,
		Title:    video.Title,
		Author:   video.Author,
		Playable: video.Playable,
		Reason:   video.Reason,
	}
	for _, s := range video.Streams {
		payload.Streams = append(payload.Streams, streamInfo{
			Itag:        s.Itag,
			Resolution:  s.Resolution,
			Ext:         s.Ext,
			Progressive: s.Progressive,
			Size:        s.Size,
			Filename:    s.DefaultFilename,
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	return enc.Encode(payload)
}

func emitJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
