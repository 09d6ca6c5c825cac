package model

import (
	"path/filepath"
	"strings"
)

// Target is one album folder paired with the art that goes into every audio
// file inside it.
//
// In folder mode a run has exactly one Target. In manifest mode every row
// yields one.
type Target struct {
	// Folder is the directory holding the audio files.
	Folder string

	// Art is a local image path or an http(s) URL.
	Art string

	// Line is the manifest line the target came from, 0 in folder mode.
	Line int
}

// Name returns the folder's base name for display.
func (t Target) Name() string {
	if t.Folder == "" {
		return ""
	}
	return filepath.Base(filepath.Clean(t.Folder))
}

// RemoteArt reports whether Art must be fetched over HTTP.
func (t Target) RemoteArt() bool {
	return IsRemote(t.Art)
}

// IsRemote reports whether a path is an http or https URL.
func IsRemote(path string) bool {
	lower := strings.ToLower(strings.TrimSpace(path))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Outcome summarises what happened to one target.
type Outcome struct {
	Target Target

	// Files is the number of audio files found.
	Files int

	// Tagged is the number of files whose cover was written.
	Tagged int

	// Failed is the number of files that could not be tagged.
	Failed int

	// Err is set when the target was skipped as a whole.
	Err error
}

// Skipped reports whether the target was abandoned before any file was tried.
func (o Outcome) Skipped() bool {
	return o.Err != nil && o.Tagged == 0 && o.Failed == 0
}
