package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ytbatch/ytbatch/internal/downloader"
)

const (
	colorReset  = "\x1b[0m"
	colorGreen  = "\x1b[32m"
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
)

type printer struct {
	quiet   bool
	color   bool
	columns int
}

func newPrinter(quiet bool) *printer {
	columns := terminalColumns()
	if columns <= 0 {
		columns = 100
	}
	return &printer{
		quiet:   quiet,
		color:   supportsColor(),
		columns: columns,
	}
}

// results prints one line per url in input order, then a batch summary.
// Urls the run never attempted because the quota was already met show up
// as skipped.
func (p *printer) results(res *downloader.Result, urls []string) {
	var ok, failed, skipped int
	var bytes int64

	for i := range urls {
		prefix := p.prefix(i+1, len(urls))
		if path, found := res.Downloaded[i]; found {
			ok++
			size := fileSize(path)
			bytes += size
			p.itemOK(prefix, path, size)
			continue
		}
		if err, found := res.Errors[i]; found {
			failed++
			p.itemFailed(prefix, err)
			continue
		}
		skipped++
		p.itemSkipped(prefix, "quota reached")
	}

	p.summary(len(urls), ok, failed, skipped, bytes)
}

func (p *printer) prefix(index, total int) string {
	if total <= 0 {
		total = 1
	}
	width := len(strconv.Itoa(total))
	return fmt.Sprintf("[%*d/%d]", width, index, total)
}

func (p *printer) itemOK(prefix, path string, size int64) {
	if p.quiet {
		return
	}
	detail := fmt.Sprintf("%s %s", padLeft(humanBytes(size), 9), path)
	p.line(prefix, "OK", colorGreen, detail)
}

func (p *printer) itemFailed(prefix string, err error) {
	p.line(prefix, "FAIL", colorRed, err.Error())
}

func (p *printer) itemSkipped(prefix, reason string) {
	if p.quiet {
		return
	}
	p.line(prefix, "SKIP", colorYellow, reason)
}

func (p *printer) line(prefix, status, color, detail string) {
	maxDetail := p.columns - len(prefix) - len(status) - 3
	if maxDetail < 0 {
		maxDetail = 0
	}
	fmt.Fprintf(os.Stderr, "%s %s %s\n", prefix, p.colorize(status, color), truncateText(detail, maxDetail))
}

func (p *printer) summary(total, ok, failed, skipped int, bytes int64) {
	if p.quiet {
		return
	}
	okLabel := p.colorize("OK", colorGreen)
	failLabel := p.colorize("FAIL", colorRed)
	skipLabel := p.colorize("SKIP", colorYellow)
	fmt.Fprintf(os.Stderr, "Summary: %s %d | %s %d | %s %d | TOTAL %d | SIZE %s\n",
		okLabel, ok, failLabel, failed, skipLabel, skipped, total, humanBytes(bytes))
}

// streams prints the stream table for one resolved video.
func (p *printer) streams(url string, video *downloader.Video) {
	title := video.Title
	if title == "" {
		title = url
	}
	fmt.Fprintf(os.Stdout, "%s (%s)\n", title, video.ID)

	if !video.Playable {
		reason := video.Reason
		if reason == "" {
			reason = "not playable"
		}
		fmt.Fprintf(os.Stdout, "  %s\n", reason)
		return
	}

	fmt.Fprintf(os.Stdout, "%5s  %10s  %-5s  %-11s  %9s\n", "ITAG", "RESOLUTION", "EXT", "STREAM", "SIZE")
	for _, s := range video.Streams {
		kind := "video-only"
		if s.Progressive {
			kind = "progressive"
		}
		size := "-"
		if s.Size > 0 {
			size = humanBytes(s.Size)
		}
		fmt.Fprintf(os.Stdout, "%5d  %9dp  %-5s  %-11s  %9s\n", s.Itag, s.Resolution, s.Ext, kind, size)
	}
}

func (p *printer) colorize(text, color string) string {
	if !p.color || color == "" {
		return text
	}
	return color + text + colorReset
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := int64(unit), 0
	for n >= unit*div && exp < 4 {
		div *= unit
		exp++
	}
	value := float64(n) / float64(div)
	suffix := []string{"KB", "MB", "GB", "TB"}
	return fmt.Sprintf("%.1f%s", value, suffix[exp])
}

func padLeft(value string, width int) string {
	if len(value) >= width {
		return value
	}
	return strings.Repeat(" ", width-len(value)) + value
}

func truncateText(text string, max int) string {
	if max <= 0 || len(text) <= max {
		return text
	}
	if max <= 3 {
		return text[:max]
	}
	return text[:max-3] + "..."
}

func terminalColumns() int {
	if columns := os.Getenv("COLUMNS"); columns != "" {
		if val, err := strconv.Atoi(columns); err == nil && val > 0 {
			return val
		}
	}
	return 0
}

func supportsColor() bool {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" || os.Getenv("CLICOLOR_FORCE") != "" {
		return true
	}
	if os.Getenv("CLICOLOR") == "0" {
		return false
	}
	return isTerminal(os.Stderr)
}

func isTerminal(file *os.File) bool {
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
