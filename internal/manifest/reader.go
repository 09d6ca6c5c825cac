package manifest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/handiism/albumart/internal/model"
)

// Options configures how a manifest is parsed.
type Options struct {
	// AlbumColumn is the header naming the folder column. Default "Album".
	AlbumColumn string

	// ArtColumn is the header naming the image column. Default "Art".
	ArtColumn string

	// Comma is the field delimiter. Zero picks tab for .tsv files and
	// comma otherwise.
	Comma rune
}

// Reader streams the rows of a manifest file.
//
// A Reader holds no open file. Every call to Rows starts a fresh pass from
// the top of the file; there is no checkpoint to resume from.
type Reader struct {
	path string
	opts Options
}

// Open checks that the manifest exists and returns a Reader for it.
//
// Returns an error marked model.ErrNotFound if path does not exist or is a
// directory.
func Open(path string, opts Options) (*Reader, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, model.Wrap(model.ErrNotFound, "open manifest", path, err)
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, model.Wrap(model.ErrNotFound, "open manifest", path, errors.New("is a directory"))
	}

	if opts.AlbumColumn == "" {
		opts.AlbumColumn = model.ColumnAlbum
	}
	if opts.ArtColumn == "" {
		opts.ArtColumn = model.ColumnArt
	}
	if opts.Comma == 0 {
		opts.Comma = ','
		if strings.EqualFold(filepath.Ext(path), ".tsv") {
			opts.Comma = '\t'
		}
	}

	return &Reader{path: path, opts: opts}, nil
}

// Path returns the manifest path.
func (r *Reader) Path() string {
	return r.path
}

// Rows returns a lazy sequence of manifest rows.
//
// The first record is the header; each later record becomes a Row keyed by
// header name. Header names matching the album or art column ignoring case
// are normalised to the configured spelling. Blank lines and lines starting
// with '#' are skipped. Rows with missing cells are yielded as they are.
//
// Every physical line is one record, so a quoted field cannot span lines. A
// line that does not parse yields a Row carrying only its line number and a
// *csv.ParseError, and iteration continues with the next line. Failing to
// open or read the file yields one error and ends the sequence. Breaking out
// of the loop closes the file.
//
// Example:
//
//	for row, err := range reader.Rows() {
//	    if err != nil {
//	        log.Print(err)
//	        continue
//	    }
//	    fmt.Println(row.Album(), row.Art())
//	}
func (r *Reader) Rows() iter.Seq2[model.Row, error] {
	return func(yield func(model.Row, error) bool) {
		f, err := os.Open(r.path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				err = model.Wrap(model.ErrNotFound, "open manifest", r.path, err)
			}
			yield(model.Row{}, err)
			return
		}
		defer f.Close()

		var header []string
		for rec, err := range r.records(f) {
			if header == nil {
				if err != nil {
					yield(model.Row{}, fmt.Errorf("manifest %s: header: %w", r.path, err))
					return
				}
				header = r.normalizeHeader(rec.fields)
				continue
			}

			if err != nil {
				if !yield(model.Row{Line: rec.line}, fmt.Errorf("manifest %s: %w", r.path, err)) {
					return
				}
				continue
			}

			fields := make(map[string]string, len(header))
			for i, name := range header {
				if i < len(rec.fields) {
					fields[name] = rec.fields[i]
				}
			}

			if !yield(model.NewRow(rec.line, fields, r.opts.AlbumColumn, r.opts.ArtColumn), nil) {
				return
			}
		}
	}
}

// Header reads and returns the normalised header row.
func (r *Reader) Header() ([]string, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	for rec, err := range r.records(f) {
		if err != nil {
			return nil, fmt.Errorf("manifest %s: header: %w", r.path, err)
		}
		return r.normalizeHeader(rec.fields), nil
	}
	return nil, fmt.Errorf("manifest %s: header: %w", r.path, io.EOF)
}

// Validate reports the required columns missing from the header.
func (r *Reader) Validate() ([]string, error) {
	header, err := r.Header()
	if err != nil {
		return nil, err
	}

	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}

	var missing []string
	for _, col := range []string{r.opts.AlbumColumn, r.opts.ArtColumn} {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing, nil
}

// maxLineBytes bounds a single manifest line.
const maxLineBytes = 1 << 20

type record struct {
	line   int
	fields []string
}

// records yields every non-blank, non-comment line of src parsed as one
// delimited record, with its 1-based line number. A line that fails to parse
// yields a *csv.ParseError positioned on that line and the scan goes on; a
// read error is yielded last.
func (r *Reader) records(src io.Reader) iter.Seq2[record, error] {
	return func(yield func(record, error) bool) {
		sc := bufio.NewScanner(src)
		sc.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineBytes)

		line := 0
		for sc.Scan() {
			line++
			text := strings.TrimSuffix(sc.Text(), "\r")
			if line == 1 {
				text = strings.TrimPrefix(text, "\ufeff")
			}
			if text == "" || strings.HasPrefix(text, "#") {
				continue
			}

			fields, err := r.newCSVReader(strings.NewReader(text)).Read()
			if err != nil {
				var perr *csv.ParseError
				if errors.As(err, &perr) {
					err = &csv.ParseError{StartLine: line, Line: line, Column: perr.Column, Err: perr.Err}
				}
				if !yield(record{line: line}, err) {
					return
				}
				continue
			}

			if !yield(record{line: line, fields: fields}, nil) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			yield(record{line: line + 1}, err)
		}
	}
}

func (r *Reader) newCSVReader(src io.Reader) *csv.Reader {
	cr := csv.NewReader(src)
	cr.Comma = r.opts.Comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return cr
}

func (r *Reader) normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		h = strings.TrimSpace(h)
		switch {
		case strings.EqualFold(h, r.opts.AlbumColumn):
			h = r.opts.AlbumColumn
		case strings.EqualFold(h, r.opts.ArtColumn):
			h = r.opts.ArtColumn
		}
		out[i] = h
	}
	return out
}
