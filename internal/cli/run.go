package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ytbatch/ytbatch/internal/clip"
	"github.com/ytbatch/ytbatch/internal/downloader"
	"github.com/ytbatch/ytbatch/internal/tui"
	"github.com/ytbatch/ytbatch/internal/youtube"
)

const defaultTimeout = 3 * time.Minute

// runConfig is the flag surface after viper has merged command line, env,
// and config file values.
type runConfig struct {
	outputDir    string
	paths        []string
	clips        []string
	ext          string
	resolution   string
	maxVideos    int
	workers      int
	skipFailures bool
	quiet        bool
	json         bool
	listFormats  bool
	logLevel     string
	timeout      time.Duration
}

func configFromViper() runConfig {
	cfg := runConfig{
		outputDir:    viper.GetString(keyOutputDir),
		paths:        viper.GetStringSlice(keyPath),
		clips:        viper.GetStringSlice(keyClip),
		ext:          viper.GetString(keyExt),
		resolution:   viper.GetString(keyResolution),
		maxVideos:    viper.GetInt(keyMaxVideos),
		workers:      viper.GetInt(keyWorkers),
		skipFailures: viper.GetBool(keySkipFailures),
		quiet:        viper.GetBool(keyQuiet),
		json:         viper.GetBool(keyJSON),
		listFormats:  viper.GetBool(keyListFormats),
		logLevel:     viper.GetString(keyLogLevel),
		timeout:      viper.GetDuration(keyTimeout),
	}
	if cfg.timeout <= 0 {
		cfg.timeout = defaultTimeout
	}
	if cfg.json {
		cfg.quiet = true
	}
	return cfg
}

func run(cmd *cobra.Command, args []string) error {
	cfg := configFromViper()
	if len(args) == 0 {
		return downloader.WrapCategory(downloader.CategoryConfig, errors.New("no urls provided"))
	}

	log := newLogger(cfg.logLevel, cfg.quiet)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider := youtube.NewProvider(cfg.timeout, log)
	defer youtube.CloseIdleConnections()

	if cfg.listFormats {
		return listFormats(ctx, provider, args, cfg.json)
	}

	opts, err := buildOptions(cfg, len(args))
	if err != nil {
		return err
	}

	var clipper downloader.ClipExtractor
	if len(cfg.clips) > 0 {
		ff, err := clip.NewFFmpeg()
		if err != nil {
			return downloader.WrapCategory(downloader.CategoryConfig, err)
		}
		clipper = ff
	}

	svc := downloader.NewService(provider, youtube.NewFetcher(cfg.timeout), clipper)
	svc.Log = log

	quota := cfg.maxVideos
	if quota <= 0 || quota > len(args) {
		quota = len(args)
	}

	var tracker *tui.Tracker
	switch {
	case cfg.quiet:
	case isTerminal(os.Stderr):
		tracker = tui.New(quota, len(args))
		tracker.Start(ctx)
		opts.OnResult = tracker.Observe
	default:
		// No terminal to draw on, report progress through the logger.
		opts.OnResult = func(index int, url string, err error) {
			if err != nil {
				log.Warn().Int("video", index).Str("url", url).Err(err).Msg("download failed")
				return
			}
			log.Info().Int("video", index).Str("url", url).Msg("downloaded")
		}
	}

	res, err := svc.DownloadVideos(ctx, args, opts)
	tracker.Stop()
	if err != nil {
		if cfg.json {
			writeJSONError("", err)
			return downloader.MarkReported(err)
		}
		return err
	}

	if cfg.json {
		emitJSONResults(res, args)
	} else {
		newPrinter(cfg.quiet).results(res, args)
	}
	return worstFailure(res)
}

// buildOptions maps the flag surface onto engine options. A single clip
// range applies to every url; several must line up with the url count, as
// must explicit paths.
func buildOptions(cfg runConfig, urlCount int) (downloader.Options, error) {
	opts := downloader.Options{
		OutputDir:    cfg.outputDir,
		Ext:          cfg.ext,
		Resolution:   cfg.resolution,
		MaxVideos:    cfg.maxVideos,
		Workers:      cfg.workers,
		SkipFailures: cfg.skipFailures,
	}

	switch len(cfg.paths) {
	case 0:
	case urlCount:
		opts.Paths = cfg.paths
	default:
		return downloader.Options{}, downloader.WrapCategory(downloader.CategoryConfig,
			fmt.Errorf("got %d paths for %d urls", len(cfg.paths), urlCount))
	}

	segments := make([]*downloader.ClipSegment, 0, len(cfg.clips))
	for _, spec := range cfg.clips {
		segment, err := parseClipSpec(spec)
		if err != nil {
			return downloader.Options{}, downloader.WrapCategory(downloader.CategoryConfig, err)
		}
		segments = append(segments, segment)
	}
	switch len(segments) {
	case 0:
	case 1:
		opts.Clip = segments[0]
	default:
		opts.Clips = segments
	}

	return opts, nil
}

// worstFailure turns recorded per-url failures into the process exit error,
// keeping the highest exit code among them. The failures were already
// printed, so the error comes back marked as reported.
func worstFailure(res *downloader.Result) error {
	var worst error
	for _, err := range res.Errors {
		if worst == nil || downloader.ExitCode(err) > downloader.ExitCode(worst) {
			worst = err
		}
	}
	if worst == nil {
		return nil
	}
	return downloader.MarkReported(worst)
}

// newLogger builds the console logger. Quiet keeps errors visible but drops
// everything below them.
func newLogger(level string, quiet bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if quiet && lvl < zerolog.ErrorLevel {
		lvl = zerolog.ErrorLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}
