// Package model defines the core data structures shared by the albumart
// packages.
//
// # Cover
//
// Cover is the APIC frame written into each MP3:
//
//	cover := model.NewFrontCover(model.MIMEPNG, pngBytes)
//	// cover.PictureType == model.PictureFrontCover (3)
//	// cover.Description == "Cover"
//
// # Target and Row
//
// Target pairs an album folder with its art. Folder mode builds one directly;
// manifest mode builds one per Row:
//
//	row := model.NewRow(2, map[string]string{"Album": "/music/a", "Art": "/art/a.png"}, "", "")
//	target := row.Target()
//
// # Errors
//
// Failures are PathErrors marked with ErrArgument, ErrNotFound,
// ErrEmptyResult, ErrImageProcessing or ErrTagWrite:
//
//	if errors.Is(err, model.ErrNotFound) {
//	    // report and skip the row
//	}
package model
