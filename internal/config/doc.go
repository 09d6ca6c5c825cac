// Package config provides configuration management for albumart.
//
// This package handles:
//   - Loading and saving settings from JSON, YAML or TOML files
//   - Default configuration values
//   - Building and validating the Job a run executes
//   - Conversion to TagConfig and manifest.Options for other packages
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// .mp3 files, 300x300 covers, "Album"/"Art" manifest columns
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/albumart.yaml")
//	// A missing file yields the defaults
//
// # Jobs
//
//	job, err := config.NewJob([]string{"/music/album", "/art/cover.png"}, nil)
//	// job.Mode == config.ModeFolder
//
//	job, err = config.NewJob([]string{"albums.csv"}, nil)
//	// job.Mode == config.ModeManifest, job.Normalize == true
package config
