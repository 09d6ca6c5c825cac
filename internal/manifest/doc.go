// Package manifest reads the album/art manifests that drive bulk tagging.
//
// A manifest is CSV (or TSV, by extension) with a header row naming at least
// an Album column (a folder path) and an Art column (an image path or URL):
//
//	Album,Art
//	/music/Abbey Road,/art/abbey.png
//	/music/Revolver,https://example.com/revolver.jpg
//
// Rows are streamed one at a time, so large manifests are never loaded
// whole:
//
//	reader, err := manifest.Open("albums.csv", manifest.Options{})
//	for row, err := range reader.Rows() {
//	    ...
//	}
package manifest
