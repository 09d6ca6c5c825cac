package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/handiism/albumart/internal/audio"
	ioutils "github.com/handiism/albumart/internal/io"
	"github.com/handiism/albumart/internal/manifest"
	"github.com/handiism/albumart/internal/model"
)

// Settings holds all configuration options.
type Settings struct {
	// Enumeration
	AudioExtension string `json:"audio_extension" yaml:"audio_extension" toml:"audio_extension"`

	// Cover settings
	CoverSize        int    `json:"cover_size" yaml:"cover_size" toml:"cover_size"`
	CoverDescription string `json:"cover_description" yaml:"cover_description" toml:"cover_description"`
	ReplaceAllArt    bool   `json:"replace_all_art" yaml:"replace_all_art" toml:"replace_all_art"`
	ID3Version       int    `json:"id3_version" yaml:"id3_version" toml:"id3_version"` // 0 keeps the file's version

	// Manifest settings
	AlbumColumn string `json:"album_column" yaml:"album_column" toml:"album_column"`
	ArtColumn   string `json:"art_column" yaml:"art_column" toml:"art_column"`

	// Remote art
	HTTPTimeoutSeconds int    `json:"http_timeout_seconds" yaml:"http_timeout_seconds" toml:"http_timeout_seconds"`
	UserAgent          string `json:"user_agent" yaml:"user_agent" toml:"user_agent"`

	// Logging
	LogLevel  string `json:"log_level" yaml:"log_level" toml:"log_level"`   // debug, info, warn, error
	LogFormat string `json:"log_format" yaml:"log_format" toml:"log_format"` // console, json
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		AudioExtension: ioutils.DefaultAudioExtension,

		CoverSize:        ioutils.DefaultCoverSize,
		CoverDescription: model.DefaultDescription,
		ReplaceAllArt:    false,
		ID3Version:       0,

		AlbumColumn: model.ColumnAlbum,
		ArtColumn:   model.ColumnArt,

		HTTPTimeoutSeconds: 60,
		UserAgent:          "albumart",

		LogLevel:  "info",
		LogFormat: "console",
	}
}

// Load reads settings from a JSON, YAML or TOML file, chosen by extension.
//
// A missing file yields the defaults. Keys absent from the file keep their
// default values.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	switch codecFor(path) {
	case "yaml":
		err = yaml.Unmarshal(data, settings)
	case "toml":
		err = toml.Unmarshal(data, settings)
	default:
		err = json.Unmarshal(data, settings)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a file, encoded by the path's extension.
func (s *Settings) Save(path string) error {
	if err := ioutils.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	switch codecFor(path) {
	case "yaml":
		data, err = yaml.Marshal(s)
	case "toml":
		data, err = toml.Marshal(s)
	default:
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks values that cannot be repaired with a default.
func (s *Settings) Validate() error {
	var errs []error
	if s.CoverSize <= 0 {
		errs = append(errs, fmt.Errorf("cover_size must be positive, got %d", s.CoverSize))
	}
	if s.ID3Version != 0 && s.ID3Version != 3 && s.ID3Version != 4 {
		errs = append(errs, fmt.Errorf("id3_version must be 0, 3 or 4, got %d", s.ID3Version))
	}
	if s.HTTPTimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("http_timeout_seconds must not be negative, got %d", s.HTTPTimeoutSeconds))
	}
	switch strings.ToLower(strings.TrimSpace(s.LogFormat)) {
	case "", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format must be console or json, got %q", s.LogFormat))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", model.ErrArgument, errors.Join(errs...))
}

// ToTagConfig converts settings to TagConfig.
func (s *Settings) ToTagConfig() *audio.TagConfig {
	return &audio.TagConfig{
		ReplaceAll: s.ReplaceAllArt,
		Version:    byte(s.ID3Version),
	}
}

// ToManifestOptions converts settings to manifest.Options.
func (s *Settings) ToManifestOptions() manifest.Options {
	return manifest.Options{
		AlbumColumn: s.AlbumColumn,
		ArtColumn:   s.ArtColumn,
	}
}

// HTTPTimeout returns the remote art timeout as a duration.
func (s *Settings) HTTPTimeout() time.Duration {
	return time.Duration(s.HTTPTimeoutSeconds) * time.Second
}

func codecFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	default:
		return "json"
	}
}
