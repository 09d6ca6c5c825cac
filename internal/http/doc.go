// Package http provides the HTTP client used to fetch remote cover art.
//
// Manifest rows and the command line may name an http(s) URL instead of a
// local image. The Client checks such URLs with a HEAD request before any
// audio file is touched, then downloads the image into memory.
//
// # Basic Usage
//
//	client := http.NewClient(60*time.Second, "albumart")
//
//	if err := client.Exists(ctx, artURL); errors.Is(err, model.ErrNotFound) {
//	    // report the row and move on
//	}
//
//	data, err := client.DownloadBytes(ctx, artURL, func(written, total int64) {
//	    fmt.Printf("%d / %d bytes\n", written, total)
//	})
package http
