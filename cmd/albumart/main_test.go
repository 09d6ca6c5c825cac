package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func lines(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 5), uint8(y * 9), 128, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func setupAlbum(t *testing.T) (root, folder, art string) {
	t.Helper()
	root = t.TempDir()
	folder = filepath.Join(root, "album1")
	require.NoError(t, os.MkdirAll(folder, 0o755))
	payload := bytes.Repeat([]byte{0xFF, 0xFB, 0x90, 0x64}, 1024)
	for _, name := range []string{"a.mp3", "b.mp3", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(folder, name), payload, 0o644))
	}
	art = filepath.Join(root, "art", "cover.png")
	writePNG(t, art, 64, 48)
	return root, folder, art
}

func TestRun_MissingArguments(t *testing.T) {
	for name, args := range map[string][]string{
		"none":     nil,
		"too many": {"a", "b", "c"},
	} {
		t.Run(name, func(t *testing.T) {
			res := runCLI(t, args...)
			assert.Equal(t, exitUsage, res.code)
			assert.Empty(t, res.stdout, "no work performed")
			assert.Contains(t, res.stderr, "Usage:")
			assert.Contains(t, res.stderr, "invalid argument")
		})
	}
}

func TestRun_FolderMode(t *testing.T) {
	_, folder, art := setupAlbum(t)

	res := runCLI(t, folder, art)
	require.Equal(t, exitOK, res.code, res.stderr)

	assert.Equal(t, []string{
		"Successfully added album art to 'a.mp3'",
		"Successfully added album art to 'b.mp3'",
		"Processing completed",
	}, lines(res.stdout))
	assert.Empty(t, res.stderr)
}

func TestRun_ManifestMissingFolder(t *testing.T) {
	root, _, art := setupAlbum(t)
	manifest := filepath.Join(root, "albums.csv")
	require.NoError(t, os.WriteFile(manifest, []byte("Album,Art\n/missing/folder,"+art+"\n"), 0o644))

	res := runCLI(t, manifest)
	assert.Equal(t, exitOK, res.code, "per-row failures do not change the exit status")
	assert.Equal(t, []string{"Processing completed"}, lines(res.stdout))

	errs := lines(res.stderr)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "/missing/folder")

	strict := runCLI(t, "--strict", manifest)
	assert.Equal(t, exitFailures, strict.code)
}

func TestRun_ManifestWithSummary(t *testing.T) {
	root, folder, art := setupAlbum(t)
	manifest := filepath.Join(root, "albums.csv")
	require.NoError(t, os.WriteFile(manifest, []byte("Album,Art\n"+folder+","+art+"\n"), 0o644))

	res := runCLI(t, "--summary", "--size", "32", manifest)
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Successfully added album art to 'a.mp3'")
	assert.Contains(t, res.stdout, "FOLDER")
	assert.Contains(t, res.stdout, folder)
	assert.Contains(t, res.stdout, "ok")

	inspect := runCLI(t, "inspect", filepath.Join(folder, "a.mp3"))
	require.Equal(t, exitOK, inspect.code, inspect.stderr)
	assert.Contains(t, inspect.stdout, "image/png")
	assert.Contains(t, inspect.stdout, "Front cover (3)")
	assert.Contains(t, inspect.stdout, "32x32", "manifest mode normalizes by default")

	outDir := filepath.Join(root, "extracted")
	extract := runCLI(t, "inspect", "--extract", outDir, filepath.Join(folder, "b.mp3"))
	require.Equal(t, exitOK, extract.code, extract.stderr)
	data, err := os.ReadFile(filepath.Join(outDir, "b.png"))
	require.NoError(t, err)
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 32, cfg.Width)
}

func TestRun_InvalidConfig(t *testing.T) {
	_, folder, art := setupAlbum(t)

	res := runCLI(t, "--size=-5", folder, art)
	assert.Equal(t, exitUsage, res.code)
	assert.Contains(t, res.stderr, "cover_size")
	assert.Empty(t, res.stdout)
}

func TestRun_ConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "albumart.toml")

	res := runCLI(t, "config", "init", path)
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "cover_size = 300")

	again := runCLI(t, "config", "init", path)
	assert.Equal(t, exitUsage, again.code)
	assert.Contains(t, again.stderr, "already exists")

	show := runCLI(t, "--config", path, "config", "show")
	require.Equal(t, exitOK, show.code, show.stderr)
	assert.Contains(t, show.stdout, "album_column:         Album")
}

func TestRun_InspectUntagged(t *testing.T) {
	_, folder, _ := setupAlbum(t)

	res := runCLI(t, "inspect", filepath.Join(folder, "b.mp3"))
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Cover:       none")

	missing := runCLI(t, "inspect", filepath.Join(folder, "nope.mp3"))
	assert.Equal(t, exitUsage, missing.code)
}

func TestRun_Help(t *testing.T) {
	res := runCLI(t, "--help")
	assert.Equal(t, exitOK, res.code)
	assert.Contains(t, res.stdout, "--normalize")
	assert.Contains(t, res.stdout, "inspect")
}
