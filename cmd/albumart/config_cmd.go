package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/handiism/albumart/internal/config"
)

const defaultConfigFile = "albumart.yaml"

func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default settings to a file",
		Long: `Write the default settings to a file. The format follows the extension:
.json, .yaml/.yml or .toml. Defaults to ` + defaultConfigFile + ` in the current directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := defaultConfigFile
			if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
				target = strings.TrimSpace(args[0])
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.DefaultSettings().Save(target); err != nil {
				return fmt.Errorf("write config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", target)
			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			settings := config.DefaultSettings()
			if path != "" {
				loaded, err := config.Load(path)
				if err != nil {
					return err
				}
				settings = loaded
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "audio_extension:      %s\n", settings.AudioExtension)
			fmt.Fprintf(out, "cover_size:           %d\n", settings.CoverSize)
			fmt.Fprintf(out, "cover_description:    %s\n", settings.CoverDescription)
			fmt.Fprintf(out, "replace_all_art:      %t\n", settings.ReplaceAllArt)
			fmt.Fprintf(out, "id3_version:          %d\n", settings.ID3Version)
			fmt.Fprintf(out, "album_column:         %s\n", settings.AlbumColumn)
			fmt.Fprintf(out, "art_column:           %s\n", settings.ArtColumn)
			fmt.Fprintf(out, "http_timeout_seconds: %d\n", settings.HTTPTimeoutSeconds)
			fmt.Fprintf(out, "user_agent:           %s\n", settings.UserAgent)
			fmt.Fprintf(out, "log_level:            %s\n", settings.LogLevel)
			fmt.Fprintf(out, "log_format:           %s\n", settings.LogFormat)
			return nil
		},
	}
}
