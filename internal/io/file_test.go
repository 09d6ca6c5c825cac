package ioutils

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/albumart/internal/model"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))
}

func TestListAudioFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.mp3"))
	touch(t, filepath.Join(dir, "a.mp3"))
	touch(t, filepath.Join(dir, "C.MP3"))
	touch(t, filepath.Join(dir, "notes.txt"))
	touch(t, filepath.Join(dir, "cover.png"))
	touch(t, filepath.Join(dir, "nested", "d.mp3"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.mp3"), 0o755))

	files, err := ListAudioFiles(dir, ".mp3")
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "C.MP3"),
		filepath.Join(dir, "a.mp3"),
		filepath.Join(dir, "b.mp3"),
	}, files)
}

func TestListAudioFiles_ExtensionForms(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.mp3"))
	touch(t, filepath.Join(dir, "b.flac"))

	tests := []struct {
		ext  string
		want string
	}{
		{"", "a.mp3"},
		{"mp3", "a.mp3"},
		{".MP3", "a.mp3"},
		{"flac", "b.flac"},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			files, err := ListAudioFiles(dir, tt.ext)
			require.NoError(t, err)
			require.Len(t, files, 1)
			assert.Equal(t, tt.want, filepath.Base(files[0]))
		})
	}
}

func TestListAudioFiles_OnlyNonAudio(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "notes.txt"))
	touch(t, filepath.Join(dir, "cover.jpg"))

	files, err := ListAudioFiles(dir, ".mp3")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestListAudioFiles_MissingFolder(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")

	_, err := ListAudioFiles(missing, ".mp3")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Contains(t, err.Error(), missing)
}

func TestExistenceChecks(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "cover.png")
	touch(t, file)
	missing := filepath.Join(dir, "missing")

	assert.True(t, Exists(dir))
	assert.True(t, Exists(file))
	assert.False(t, Exists(missing))

	assert.True(t, DirExists(dir))
	assert.False(t, DirExists(file))
	assert.False(t, DirExists(missing))

	assert.True(t, FileExists(file))
	assert.False(t, FileExists(dir))
	assert.False(t, FileExists(missing))
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "settings.json")

	require.NoError(t, WriteFile(context.Background(), path, []byte("{}")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestWriteFile_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := filepath.Join(t.TempDir(), "x.json")
	assert.ErrorIs(t, WriteFile(ctx, path, []byte("{}")), context.Canceled)
	assert.False(t, Exists(path))
}
