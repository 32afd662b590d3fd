// Package youtube retrieves video metadata and streams and picks the
// format to download.
//
// Formats reported by the platform are normalised into
// model.StreamFormat values once, right after the fetch. Selection is a
// pure function over that list:
//
//	video, err := client.Fetch(ctx, "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
//	format, err := youtube.Select(video.Formats, youtube.PolicyHighestBitrate, false)
//	stream, size, err := client.Stream(ctx, video, format.Itag)
package youtube
