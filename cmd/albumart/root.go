package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/handiism/albumart/internal/batch"
	"github.com/handiism/albumart/internal/config"
	"github.com/handiism/albumart/internal/logging"
	"github.com/handiism/albumart/internal/model"
)

type rootOptions struct {
	configPath string
	normalize  bool
	size       int
	verbose    bool
	logLevel   string
	logFormat  string
	summary    bool
	strict     bool
	plain      bool
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	var opts rootOptions

	rootCmd := &cobra.Command{
		Use:   "albumart [flags] <mp3-folder> <art-image> | <manifest-file>",
		Short: "Embed cover art into MP3 files",
		Long: `albumart writes a front-cover picture into the ID3 tag of every MP3 file
in a folder.

With two arguments the image is embedded as-is into every MP3 in the folder.
With one argument the file is read as a CSV manifest with Album and Art
columns, and every row is processed in turn. Art may be a local path or an
http(s) URL.`,
		Example: `  albumart /music/album1 /art/cover.png
  albumart --normalize /music/album1 /art/cover.jpg
  albumart --summary albums.csv`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var normalize *bool
			if cmd.Flags().Changed("normalize") {
				normalize = &opts.normalize
			}

			job, err := config.NewJob(args, normalize)
			if err != nil {
				fmt.Fprintln(stderr, cmd.UsageString())
				return &exitError{code: exitUsage, err: err}
			}

			return runJob(cmd, job, opts, stdout, stderr)
		},
	}

	flags := rootCmd.Flags()
	flags.BoolVarP(&opts.normalize, "normalize", "n", false, "Crop and resize the art to a square PNG (default off for folders, on for manifests)")
	flags.IntVar(&opts.size, "size", 0, "Edge length of normalized covers in pixels (default 300)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Show verbose output")
	flags.StringVar(&opts.logLevel, "log-level", "", "Diagnostics level: debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", "", "Diagnostics format: console or json")
	flags.BoolVar(&opts.summary, "summary", false, "Print a table of per-folder results when done")
	flags.BoolVar(&opts.strict, "strict", false, "Exit with status 2 if any folder or file failed")
	flags.BoolVar(&opts.plain, "plain", false, "Disable emoji prefixes even on a terminal")
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Settings file (JSON, YAML or TOML)")

	rootCmd.AddCommand(newInspectCommand())
	rootCmd.AddCommand(newConfigCommand())

	return rootCmd
}

func runJob(cmd *cobra.Command, job config.Job, opts rootOptions, stdout, stderr io.Writer) error {
	settings, err := loadSettings(opts)
	if err != nil {
		return &exitError{code: exitUsage, err: err}
	}

	logger, err := logging.New(logging.Options{
		Level:  settings.LogLevel,
		Format: settings.LogFormat,
		Writer: stderr,
	})
	if err != nil {
		return &exitError{code: exitUsage, err: fmt.Errorf("%w: %w", model.ErrArgument, err)}
	}
	slog.SetDefault(logger)

	printer := newPrinter(stdout, stderr, opts.verbose, opts.plain)
	manager := batch.NewManager(settings, printer.print, batch.WithLogger(logger))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	runErr := manager.Run(ctx, job)

	if opts.summary {
		fmt.Fprintln(stdout, renderSummary(manager.Outcomes(), manager.Stats()))
	}

	switch {
	case runErr == nil:
	case errors.Is(runErr, context.Canceled):
		return &exitError{code: exitCanceled, err: runErr}
	case errors.Is(runErr, model.ErrArgument):
		return &exitError{code: exitUsage, err: runErr}
	default:
		logger.Debug("run ended with error", "error", runErr)
	}

	if opts.strict && (runErr != nil || manager.Stats().Failures()) {
		return &exitError{code: exitFailures}
	}
	return nil
}

// loadSettings reads the settings file and applies flag overrides.
func loadSettings(opts rootOptions) (*config.Settings, error) {
	settings := config.DefaultSettings()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		settings = loaded
	}

	if opts.size != 0 {
		settings.CoverSize = opts.size
	}
	if opts.logLevel != "" {
		settings.LogLevel = opts.logLevel
	}
	if opts.logFormat != "" {
		settings.LogFormat = opts.logFormat
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}
