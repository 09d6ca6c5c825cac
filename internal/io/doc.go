// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - Listing the audio files of an album folder
//   - Existence checks for folders and images
//   - File writing and directory creation
//   - Cover normalization and MIME detection
//
// # Audio Files
//
//	files, err := ioutils.ListAudioFiles("/music/album1", ".mp3")
//	if errors.Is(err, model.ErrNotFound) {
//	    // folder is missing
//	}
//	if len(files) == 0 {
//	    // nothing to tag
//	}
//
// # Image Processing
//
// The ImageService turns any supported image into a square PNG cover:
//
//	svc := ioutils.NewImageService()
//
//	// Scale to cover 300x300 and keep the most detailed window
//	square, err := svc.Normalize(ctx, imageData, 300)
//
//	// MIME type for covers embedded as-is
//	mime := ioutils.DetectMIME(imageData)
package ioutils
