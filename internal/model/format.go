package model

import (
	"fmt"
	"time"
)

// StreamFormat is one encoding of a source video offered by the platform.
//
// Formats are built once from the video-retrieval client and are never
// mutated afterwards; the format selector only reads them.
type StreamFormat struct {
	// Itag identifies the format on YouTube.
	Itag int

	// AudioBitrate is the audio bitrate in kbps. Absent for video-only formats.
	AudioBitrate Optional[int]

	// ContentLength is the stream size in bytes, when the platform reports it.
	ContentLength Optional[int64]

	// Container is the file container, e.g. "mp4" or "webm".
	Container string

	// MimeType is the full mime type including codecs.
	MimeType string

	// HasVideo and HasAudio describe which tracks the stream carries.
	HasVideo bool
	HasAudio bool
}

// String renders the format for verbose logs.
func (f StreamFormat) String() string {
	size := "?"
	if n, ok := f.ContentLength.Get(); ok {
		size = fmt.Sprintf("%d", n)
	}
	kbps := "-"
	if n, ok := f.AudioBitrate.Get(); ok {
		kbps = fmt.Sprintf("%dkbps", n)
	}
	return fmt.Sprintf("itag=%d %s audio=%s size=%s", f.Itag, f.Container, kbps, size)
}

// VideoMetadata correlates a download with its post-processing.
//
// It is built once, right after format selection.
type VideoMetadata struct {
	ID           string
	Title        string
	Author       string
	Duration     time.Duration
	ThumbnailURL string
	Format       StreamFormat
}

// ProbeInfo holds the technical attributes read back from a finished file.
type ProbeInfo struct {
	Path     string
	Duration time.Duration
	Size     int64

	// BitRate is in bits per second.
	BitRate int64
}
