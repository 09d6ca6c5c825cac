package batch

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/handiism/albumart/internal/audio"
	"github.com/handiism/albumart/internal/config"
	"github.com/handiism/albumart/internal/http"
	ioutils "github.com/handiism/albumart/internal/io"
	"github.com/handiism/albumart/internal/logging"
	"github.com/handiism/albumart/internal/manifest"
	"github.com/handiism/albumart/internal/model"
)

// CompletedMessage is the last event of every run.
const CompletedMessage = "Processing completed"

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

func (l ProgressLevel) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelVerbose:
		return "verbose"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelSuccess:
		return "success"
	default:
		return fmt.Sprintf("ProgressLevel(%d)", int(l))
	}
}

// ProgressEvent represents a tagging progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel

	// Path is the audio file, folder or manifest the event concerns.
	Path string
}

// CoverWriter embeds a cover into one audio file.
type CoverWriter interface {
	EmbedCover(path string, cover model.Cover) error
}

// Normalizer turns raw image bytes into a square cover.
type Normalizer interface {
	Normalize(ctx context.Context, data []byte, size int) ([]byte, error)
}

// ArtFetcher retrieves remote art.
type ArtFetcher interface {
	Exists(ctx context.Context, url string) error
	DownloadBytes(ctx context.Context, url string, onProgress func(written, total int64)) ([]byte, error)
}

// Option customizes a Manager.
type Option func(*Manager)

// WithTagger replaces the ID3 writer.
func WithTagger(w CoverWriter) Option {
	return func(m *Manager) { m.tagger = w }
}

// WithNormalizer replaces the image normalizer.
func WithNormalizer(n Normalizer) Option {
	return func(m *Manager) { m.images = n }
}

// WithFetcher replaces the HTTP client used for remote art.
func WithFetcher(f ArtFetcher) Option {
	return func(m *Manager) { m.fetcher = f }
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// Stats counts what a run did.
type Stats struct {
	// Targets is the number of folders considered (manifest rows or 1).
	Targets int

	// Skipped is the number of targets abandoned before any file was tried.
	Skipped int

	// Files is the number of tag-write attempts.
	Files int

	// Tagged and Failed split Files by result.
	Tagged int
	Failed int
}

// Failures reports whether anything went wrong.
func (s Stats) Failures() bool {
	return s.Skipped > 0 || s.Failed > 0
}

// Manager coordinates cover tagging.
//
// Work is strictly sequential: one target at a time, one file at a time.
// A Manager is meant for a single Run; Stats and Outcomes accumulate.
type Manager struct {
	settings *config.Settings
	tagger   CoverWriter
	images   Normalizer
	fetcher  ArtFetcher
	logger   *slog.Logger

	outcomes []model.Outcome
	stats    Stats

	totalFiles     int32
	processedFiles int32

	onProgress func(ProgressEvent)
	mu         sync.RWMutex
}

// NewManager creates a new Manager. A nil settings means defaults.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent), opts ...Option) *Manager {
	if settings == nil {
		settings = config.DefaultSettings()
	}

	m := &Manager{
		settings:   settings,
		tagger:     audio.NewTagger(settings.ToTagConfig()),
		images:     ioutils.NewImageService(),
		fetcher:    http.NewClient(settings.HTTPTimeout(), settings.UserAgent),
		logger:     logging.Discard(),
		onProgress: onProgress,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run executes job.
//
// Invalid jobs fail with model.ErrArgument before any file is touched and
// emit nothing. Otherwise every per-file and per-target failure becomes an
// error event, and CompletedMessage is always emitted last. The returned
// error is nil unless the run was cancelled or the manifest could not be
// opened.
func (m *Manager) Run(ctx context.Context, job config.Job) error {
	if err := job.Validate(); err != nil {
		return err
	}

	start := time.Now()
	m.logger.Debug("run started", "mode", job.Mode.String(), "normalize", job.Normalize)
	defer func() {
		m.progress(ProgressEvent{Message: CompletedMessage, Level: LevelInfo})
		m.logger.Debug("run finished", "duration", time.Since(start), "stats", m.Stats())
	}()

	var err error
	switch job.Mode {
	case config.ModeFolder:
		m.processTarget(ctx, model.Target{Folder: job.Folder, Art: job.Art}, job.Normalize)
	case config.ModeManifest:
		err = m.runManifest(ctx, job)
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		m.progress(ProgressEvent{Message: "Interrupted, remaining files were not processed", Level: LevelWarning})
		return ctxErr
	}
	return err
}

// GetProgress returns current tagging progress.
func (m *Manager) GetProgress() (processed, total int32) {
	return atomic.LoadInt32(&m.processedFiles), atomic.LoadInt32(&m.totalFiles)
}

// Stats returns a snapshot of the run counters.
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats
}

// Outcomes returns one entry per target, in processing order.
func (m *Manager) Outcomes() []model.Outcome {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Outcome, len(m.outcomes))
	copy(out, m.outcomes)
	return out
}

func (m *Manager) runManifest(ctx context.Context, job config.Job) error {
	reader, err := manifest.Open(job.Manifest, m.settings.ToManifestOptions())
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error: %v", err), Level: LevelError, Path: job.Manifest})
		return err
	}

	source := reader.Path()
	if missing, err := reader.Validate(); err == nil && len(missing) > 0 {
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Warning: manifest '%s' has no %s column", source, strings.Join(missing, "/")),
			Level:   LevelWarning,
			Path:    source,
		})
	}

	for row, err := range reader.Rows() {
		if ctx.Err() != nil {
			break
		}
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				m.progress(ProgressEvent{Message: fmt.Sprintf("Error: %v", err), Level: LevelError, Path: source})
				return err
			}
			msg := fmt.Sprintf("Error: %v", err)
			var perr *csv.ParseError
			if row.Line > 0 && errors.As(err, &perr) {
				msg = fmt.Sprintf("Error: row %d: %v", row.Line, perr.Err)
			}
			m.logger.Debug("manifest row unreadable", "manifest", source, "line", row.Line, "error", err)
			m.record(model.Outcome{Target: model.Target{Line: row.Line}, Err: err})
			m.progress(ProgressEvent{Message: msg, Level: LevelError, Path: source})
			continue
		}

		target := row.Target()
		if missing := row.Missing(); len(missing) > 0 {
			err := model.Wrap(model.ErrArgument, "missing "+strings.Join(missing, ", "), source, nil)
			m.record(model.Outcome{Target: target, Err: err})
			m.progress(ProgressEvent{
				Message: fmt.Sprintf("Error: row %d: missing required field(s) %s", row.Line, strings.Join(missing, ", ")),
				Level:   LevelError,
				Path:    source,
			})
			continue
		}

		m.logger.Debug("manifest row", "line", row.Line, "album", target.Folder, "art", target.Art)
		m.processTarget(ctx, target, job.Normalize)
	}

	return nil
}

// processTarget validates one folder/art pair and tags every audio file in
// the folder.
func (m *Manager) processTarget(ctx context.Context, target model.Target, normalize bool) {
	outcome := model.Outcome{Target: target}
	defer func() { m.record(outcome) }()

	if errs := m.checkTarget(ctx, target); len(errs) > 0 {
		outcome.Err = errors.Join(errs...)
		m.reportMissing(target, errs)
		return
	}

	files, err := ioutils.ListAudioFiles(target.Folder, m.settings.AudioExtension)
	if err != nil {
		outcome.Err = err
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error: %s%v", rowPrefix(target), err), Level: LevelError, Path: target.Folder})
		return
	}
	if len(files) == 0 {
		outcome.Err = model.Wrap(model.ErrEmptyResult, "list", target.Folder, nil)
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Error: %sNo audio files found in the folder '%s'", rowPrefix(target), target.Folder),
			Level:   LevelError,
			Path:    target.Folder,
		})
		return
	}

	outcome.Files = len(files)
	atomic.AddInt32(&m.totalFiles, int32(len(files)))
	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Tagging %d file(s) in '%s'", len(files), target.Folder),
		Level:   LevelVerbose,
		Path:    target.Folder,
	})

	for _, file := range files {
		if ctx.Err() != nil {
			return
		}

		start := time.Now()
		err := m.tagFile(ctx, file, target.Art, normalize)
		if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			return
		}
		atomic.AddInt32(&m.processedFiles, 1)

		if err != nil {
			outcome.Failed++
			m.logger.Debug("tag failed", "file", file, "error", err)
			m.progress(ProgressEvent{
				Message: fmt.Sprintf("Error adding album art to '%s': %v", filepath.Base(file), err),
				Level:   LevelError,
				Path:    file,
			})
			continue
		}

		outcome.Tagged++
		m.logger.Debug("tagged", "file", file, "duration", time.Since(start))
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Successfully added album art to '%s'", filepath.Base(file)),
			Level:   LevelSuccess,
			Path:    file,
		})
	}
}

var (
	errNotDir = errors.New("not a directory")
	errIsDir  = errors.New("is a directory")
)

// checkTarget returns one error per missing path. Both paths are always
// checked so each problem is reported.
func (m *Manager) checkTarget(ctx context.Context, target model.Target) []error {
	var errs []error
	if !ioutils.DirExists(target.Folder) {
		var cause error
		if ioutils.Exists(target.Folder) {
			cause = errNotDir
		}
		errs = append(errs, model.Wrap(model.ErrNotFound, "folder", target.Folder, cause))
	}

	if target.RemoteArt() {
		if err := m.fetcher.Exists(ctx, target.Art); err != nil {
			kind := model.ErrNotFound
			if !errors.Is(err, model.ErrNotFound) {
				kind = model.ErrArgument
			}
			errs = append(errs, model.Wrap(kind, "art image", target.Art, err))
		}
	} else if !ioutils.FileExists(target.Art) {
		var cause error
		if ioutils.Exists(target.Art) {
			cause = errIsDir
		}
		errs = append(errs, model.Wrap(model.ErrNotFound, "art image", target.Art, cause))
	}
	return errs
}

// reportMissing emits one line per missing path in folder mode and a single
// line for a manifest row.
func (m *Manager) reportMissing(target model.Target, errs []error) {
	lines := make([]string, 0, len(errs))
	for _, err := range errs {
		var pe *model.PathError
		if !errors.As(err, &pe) {
			lines = append(lines, err.Error())
			continue
		}
		switch {
		case pe.Op == "folder" && errors.Is(pe.Err, errNotDir):
			lines = append(lines, fmt.Sprintf("Folder '%s' is not a directory.", pe.Path))
		case pe.Op == "folder":
			lines = append(lines, fmt.Sprintf("Folder '%s' does not exist.", pe.Path))
		case errors.Is(pe.Err, errIsDir):
			lines = append(lines, fmt.Sprintf("Art image '%s' is a directory.", pe.Path))
		case pe.Err != nil && !errors.Is(pe.Err, model.ErrNotFound):
			lines = append(lines, fmt.Sprintf("Art image '%s' is not reachable: %v", pe.Path, pe.Err))
		default:
			lines = append(lines, fmt.Sprintf("Art image '%s' does not exist.", pe.Path))
		}
	}

	if target.Line == 0 {
		for i, line := range lines {
			m.progress(ProgressEvent{Message: "Error: " + line, Level: LevelError, Path: pathOf(errs[i], target.Folder)})
		}
		return
	}

	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Error: %s%s", rowPrefix(target), strings.Join(lines, " ")),
		Level:   LevelError,
		Path:    target.Folder,
	})
}

// tagFile loads the art, optionally normalizes it and writes it into file.
func (m *Manager) tagFile(ctx context.Context, file, art string, normalize bool) error {
	data, err := m.loadArt(ctx, art)
	if err != nil {
		return err
	}

	mimeType := ioutils.DetectMIME(data)
	if normalize {
		data, err = m.images.Normalize(ctx, data, m.settings.CoverSize)
		if err != nil {
			return err
		}
		mimeType = model.MIMEPNG
	}

	cover := model.NewFrontCover(mimeType, data)
	if d := strings.TrimSpace(m.settings.CoverDescription); d != "" {
		cover.Description = d
	}

	m.logger.Debug("embedding cover", "file", file, "mime", cover.MIMEType, "bytes", cover.Size())
	return m.tagger.EmbedCover(file, cover)
}

func (m *Manager) loadArt(ctx context.Context, art string) ([]byte, error) {
	if model.IsRemote(art) {
		data, err := m.fetcher.DownloadBytes(ctx, art, nil)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, model.Wrap(model.ErrNotFound, "download", art, err)
		}
		return data, nil
	}

	data, err := os.ReadFile(art)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, model.Wrap(model.ErrNotFound, "read", art, err)
		}
		return nil, model.Wrap(model.ErrImageProcessing, "read", art, err)
	}
	return data, nil
}

func (m *Manager) record(outcome model.Outcome) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.outcomes = append(m.outcomes, outcome)
	m.stats.Targets++
	m.stats.Files += outcome.Tagged + outcome.Failed
	m.stats.Tagged += outcome.Tagged
	m.stats.Failed += outcome.Failed
	if outcome.Skipped() {
		m.stats.Skipped++
	}
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}

func rowPrefix(target model.Target) string {
	if target.Line == 0 {
		return ""
	}
	return fmt.Sprintf("row %d: ", target.Line)
}

func pathOf(err error, fallback string) string {
	var pe *model.PathError
	if errors.As(err, &pe) && pe.Path != "" {
		return pe.Path
	}
	return fallback
}
