// Package ioutils provides file system and image processing utilities for ytmp3.
//
// This package contains functions for:
//   - Intermediate file naming and cleanup
//   - Copying the finished file to its final name
//   - Filename sanitization for cross-platform compatibility
//   - Cover art scaling and JPEG conversion
//
// # File Operations
//
//	tmp := ioutils.TempPath(false, ".mp4")
//	err := ioutils.WriteFile(ctx, tmp, payload)
//	err = ioutils.CopyFile(ctx, tmp, "Artist - Title.mp3")
//	_ = ioutils.RemoveQuietly(tmp)
//
// # Filename Sanitization
//
//	safe := ioutils.SanitizeFileName("Song: Part 1/2") // "Song_ Part 1_2"
//	name := ioutils.EnsureSuffix(safe, ".mp3")         // "Song_ Part 1_2.mp3"
//
// # Artwork
//
//	cover, _ := ioutils.NewArtworkProcessor(600).Prepare(ctx, imageData)
package ioutils
