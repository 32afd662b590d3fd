// Package model defines the core data structures used throughout ytmp3.
//
// # Stream formats
//
// StreamFormat describes one encoding offered for a video. Optional fields
// distinguish "not reported" from zero:
//
//	f := model.StreamFormat{Itag: 140, AudioBitrate: model.Some(128)}
//	if size, ok := f.ContentLength.Get(); ok {
//	    fmt.Println(size)
//	}
//
// # Song metadata
//
// SongMetadata accumulates tag values from the lookup service, the title
// parser and the operator:
//
//	song := lookup.Merge(confirmed)
//	for _, f := range song.Present() {
//	    fmt.Printf("%s=%s\n", f.Name, f.Value)
//	}
//
// # File naming
//
// OutputFileName derives "{artist} - {title}.mp3" with unsafe characters
// replaced.
package model
