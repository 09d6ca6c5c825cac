// Package batch provides the orchestration logic for tagging album folders
// with cover art.
//
// # Manager
//
// The Manager runs one config.Job:
//
//  1. Check that the album folder and the art exist
//  2. List the folder's audio files
//  3. For each file: load the art, normalize it if asked, embed it
//  4. Report one success or error event per file
//
// In manifest mode the steps run once per row, each row finishing before
// the next one is read. A failure never stops the run; it becomes an
// error event and processing moves on.
//
// # Basic Usage
//
//	manager := batch.NewManager(settings, func(event batch.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	job, err := config.NewJob(os.Args[1:], nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := manager.Run(ctx, job); err != nil {
//	    log.Print(err)
//	}
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	    Path    string
//	}
//
// The last event of every run is CompletedMessage. GetProgress exposes
// file counters that are safe to poll from another goroutine.
package batch
