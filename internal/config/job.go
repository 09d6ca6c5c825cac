package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/handiism/albumart/internal/model"
)

// Mode selects which pipeline a Job runs.
type Mode int

const (
	// ModeFolder tags every audio file in one folder with one image.
	ModeFolder Mode = iota

	// ModeManifest tags one folder per manifest row.
	ModeManifest
)

func (m Mode) String() string {
	switch m {
	case ModeFolder:
		return "folder"
	case ModeManifest:
		return "manifest"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Job is one invocation of the tagger.
//
// Build a Job from command-line arguments with NewJob; it is validated
// before any file is touched.
type Job struct {
	Mode Mode

	// Folder and Art are used in ModeFolder.
	Folder string
	Art    string

	// Manifest is used in ModeManifest.
	Manifest string

	// Normalize resizes and crops the art to a square before embedding.
	Normalize bool
}

// NewJob builds a Job from positional arguments.
//
// Two arguments select folder mode (folder, art), one selects manifest
// mode. Normalization defaults to off for folder mode and on for manifest
// mode; pass a non-nil normalize to override.
func NewJob(args []string, normalize *bool) (Job, error) {
	var job Job
	switch len(args) {
	case 1:
		job = Job{Mode: ModeManifest, Manifest: args[0], Normalize: true}
	case 2:
		job = Job{Mode: ModeFolder, Folder: args[0], Art: args[1]}
	default:
		return Job{}, fmt.Errorf("%w: expected <mp3-folder> <art-image> or <manifest-file>, got %d argument(s)", model.ErrArgument, len(args))
	}
	if normalize != nil {
		job.Normalize = *normalize
	}
	return job, job.Validate()
}

// Validate checks that the arguments the mode needs are present.
// It does not touch the filesystem.
func (j Job) Validate() error {
	var errs []error
	switch j.Mode {
	case ModeFolder:
		if strings.TrimSpace(j.Folder) == "" {
			errs = append(errs, errors.New("mp3 folder path is required"))
		}
		if strings.TrimSpace(j.Art) == "" {
			errs = append(errs, errors.New("art image path is required"))
		}
	case ModeManifest:
		if strings.TrimSpace(j.Manifest) == "" {
			errs = append(errs, errors.New("manifest path is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown mode %d", int(j.Mode)))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", model.ErrArgument, errors.Join(errs...))
}
