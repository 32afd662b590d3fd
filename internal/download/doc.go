// Package download runs the pipeline that turns a YouTube video into a
// tagged MP3 file.
//
// # Manager
//
// The Manager runs four stages strictly in order, each a method passing
// the job on to the next:
//
//  1. Fetch: retrieve video info and select a stream format
//  2. Download: stream the format into an in-memory buffer
//  3. Transcode: write the buffer to a scratch file and convert it to MP3
//  4. Tag: resolve and confirm the metadata, tag the file, copy it to
//     its final name and read its technical metadata back
//
// In video mode the payload is written out after the download and the
// last two stages are skipped.
//
// # Basic Usage
//
//	manager := download.NewManager(settings, opts, prompt.AutoConfirmer{}, nil, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	result, err := manager.Run(ctx, "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
//	if err != nil {
//	    os.Exit(download.ExitCode(err))
//	}
//
// # Errors
//
// A failed stage aborts the run with a *StageError. ExitCode maps it to
// a stable, per-stage exit code. Tagging, artwork and playlist failures
// only produce LevelWarning events.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent.
// LevelProgress events carry bytes, rate and ETA while downloading and a
// percentage while transcoding.
package download
