package ioutils

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/handiism/albumart/internal/model"
)

// DefaultAudioExtension is the extension enumerated when none is configured.
const DefaultAudioExtension = ".mp3"

// ListAudioFiles returns the files in dir whose extension matches ext.
//
// The comparison is case-insensitive, so "Track.MP3" matches ".mp3".
// Subdirectories are not descended into, and directories whose names happen
// to end in ext are skipped. Paths are returned joined with dir, in lexical
// order of their names.
//
// An empty ext means DefaultAudioExtension; a leading dot is optional.
//
// Returns an error marked model.ErrNotFound if dir does not exist. A folder
// with no matching files is not an error: the returned slice is empty.
//
// Example:
//
//	files, err := ListAudioFiles("/music/album1", ".mp3")
//	// files = ["/music/album1/a.mp3", "/music/album1/b.mp3"]
func ListAudioFiles(dir, ext string) ([]string, error) {
	ext = normalizeExt(ext)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, model.Wrap(model.ErrNotFound, "read folder", dir, err)
		}
		return nil, err
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}

	return files, nil
}

// Exists reports whether path exists, whatever its type.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// DirExists reports whether path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// FileExists reports whether path exists and is not a directory.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// WriteFile writes data to a file, creating parent directories as needed.
//
// The file is created with mode 0644. If the file already exists,
// it is truncated before writing.
//
// Parameters:
//   - ctx: Context for cancellation (checked before writing)
//   - path: File path to write to
//   - data: Bytes to write
func WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

func normalizeExt(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		return DefaultAudioExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
