// Package cli wires the command line front end: flag parsing, config file
// loading, and the run loop that drives the download service.
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	keyOutputDir    = "output-dir"
	keyPath         = "path"
	keyClip         = "clip"
	keyExt          = "ext"
	keyResolution   = "resolution"
	keyMaxVideos    = "max-videos"
	keyWorkers      = "workers"
	keySkipFailures = "skip-failures"
	keyQuiet        = "quiet"
	keyJSON         = "json"
	keyListFormats  = "list-formats"
	keyLogLevel     = "log-level"
	keyTimeout      = "timeout"
	keyConfig       = "config"
)

var rootCmd = &cobra.Command{
	Use:           "ytbatch [url...]",
	Short:         "ytbatch downloads batches of videos with per-url paths, clips, and stream preferences",
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		file := viper.GetString(keyConfig)
		if file == "" {
			return nil
		}
		return loadConfigFile(file)
	},
	RunE: run,
}

// Execute parses the command line and runs the batch. Errors come back
// categorized so main can turn them into exit codes.
func Execute() error {
	viper.SetEnvPrefix("YTBATCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := initFlags(rootCmd); err != nil {
		return err
	}
	return rootCmd.Execute()
}

func initFlags(cmd *cobra.Command) error {
	flags := cmd.PersistentFlags()

	// Destination selection
	flags.StringP(keyOutputDir, "o", "", "directory for downloaded files (a filename is synthesized per video)")
	if err := viper.BindPFlag(keyOutputDir, flags.Lookup(keyOutputDir)); err != nil {
		return err
	}

	flags.StringSlice(keyPath, nil, "explicit destination path, one per url")
	if err := viper.BindPFlag(keyPath, flags.Lookup(keyPath)); err != nil {
		return err
	}

	// Stream selection
	flags.String(keyExt, "", "preferred container extension (mp4, webm)")
	if err := viper.BindPFlag(keyExt, flags.Lookup(keyExt)); err != nil {
		return err
	}

	flags.String(keyResolution, "", "stream resolution: highest, lowest, or a target such as 720p")
	if err := viper.BindPFlag(keyResolution, flags.Lookup(keyResolution)); err != nil {
		return err
	}

	flags.StringSlice(keyClip, nil, "clip range in seconds as start-end (\"15-65\", \"30-\", \"-45\"); one applies to every url, several map one per url")
	if err := viper.BindPFlag(keyClip, flags.Lookup(keyClip)); err != nil {
		return err
	}

	// Batch behavior
	flags.IntP(keyMaxVideos, "n", 0, "stop after this many successful downloads (0 means all)")
	if err := viper.BindPFlag(keyMaxVideos, flags.Lookup(keyMaxVideos)); err != nil {
		return err
	}

	flags.IntP(keyWorkers, "j", 0, "parallel downloads (0 uses the CPU count)")
	if err := viper.BindPFlag(keyWorkers, flags.Lookup(keyWorkers)); err != nil {
		return err
	}

	flags.Bool(keySkipFailures, false, "record per-url failures and keep downloading")
	if err := viper.BindPFlag(keySkipFailures, flags.Lookup(keySkipFailures)); err != nil {
		return err
	}

	flags.Duration(keyTimeout, defaultTimeout, "per-request timeout")
	if err := viper.BindPFlag(keyTimeout, flags.Lookup(keyTimeout)); err != nil {
		return err
	}

	// Output
	flags.BoolP(keyQuiet, "q", false, "suppress progress output (errors still shown)")
	if err := viper.BindPFlag(keyQuiet, flags.Lookup(keyQuiet)); err != nil {
		return err
	}

	flags.Bool(keyJSON, false, "emit JSON results on stdout (suppresses human-readable progress)")
	if err := viper.BindPFlag(keyJSON, flags.Lookup(keyJSON)); err != nil {
		return err
	}

	flags.Bool(keyListFormats, false, "list available formats and exit")
	if err := viper.BindPFlag(keyListFormats, flags.Lookup(keyListFormats)); err != nil {
		return err
	}

	flags.String(keyLogLevel, "info", "log level: debug, info, warn, error")
	if err := viper.BindPFlag(keyLogLevel, flags.Lookup(keyLogLevel)); err != nil {
		return err
	}

	flags.String(keyConfig, "", "config file with flag defaults (any viper-supported format)")
	if err := viper.BindPFlag(keyConfig, flags.Lookup(keyConfig)); err != nil {
		return err
	}

	return nil
}

// loadConfigFile reads flag defaults from the given config file. Flags set
// on the command line still win over file values.
func loadConfigFile(file string) error {
	info, err := os.Stat(file)
	if err != nil {
		return fmt.Errorf("checking config file: %w", err)
	}
	if info.IsDir() {
		return errors.New("config file is a directory, should be a file")
	}

	viper.SetConfigFile(file)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("loading config file: %w", err)
	}
	return nil
}
