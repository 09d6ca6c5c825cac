package model

import (
	"fmt"
	"strings"
)

// Default manifest column names.
const (
	ColumnAlbum = "Album"
	ColumnArt   = "Art"
)

// Row is one manifest record keyed by header column name.
//
// Rows are surfaced exactly as read: a row missing the album or art column
// is still a Row, and it is up to the caller to report it.
type Row struct {
	// Line is the 1-based line of the record in the manifest.
	Line int

	// Fields maps header names to cell values.
	Fields map[string]string

	albumColumn string
	artColumn   string
}

// NewRow creates a row that resolves Album and Art through the given column
// names. Empty names fall back to ColumnAlbum and ColumnArt.
func NewRow(line int, fields map[string]string, albumColumn, artColumn string) Row {
	if albumColumn == "" {
		albumColumn = ColumnAlbum
	}
	if artColumn == "" {
		artColumn = ColumnArt
	}
	return Row{Line: line, Fields: fields, albumColumn: albumColumn, artColumn: artColumn}
}

// Get returns the trimmed value of a column.
func (r Row) Get(column string) string {
	return strings.TrimSpace(r.Fields[column])
}

// Album returns the album folder path.
func (r Row) Album() string {
	return r.Get(r.column(r.albumColumn, ColumnAlbum))
}

// Art returns the art image path or URL.
func (r Row) Art() string {
	return r.Get(r.column(r.artColumn, ColumnArt))
}

// Missing lists the required columns that are absent or blank.
func (r Row) Missing() []string {
	var missing []string
	if r.Album() == "" {
		missing = append(missing, r.column(r.albumColumn, ColumnAlbum))
	}
	if r.Art() == "" {
		missing = append(missing, r.column(r.artColumn, ColumnArt))
	}
	return missing
}

// Target converts the row into a tagging target.
func (r Row) Target() Target {
	return Target{Folder: r.Album(), Art: r.Art(), Line: r.Line}
}

func (r Row) String() string {
	return fmt.Sprintf("row %d", r.Line)
}

func (r Row) column(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
