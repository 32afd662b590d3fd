// Package audio writes ID3 tags into finished MP3 files and maintains
// playlists that list them.
//
// # Tagging
//
//	tagger := audio.NewTagger(audio.DefaultTagConfig())
//	err := tagger.SaveTags("Artist - Title.mp3", song, coverJPEG)
//
//	song, err := audio.ReadTags("Artist - Title.mp3")
//
// # Playlists
//
// The format follows the playlist file extension:
//
//	format, err := audio.FormatFromPath("mix.pls")
//	creator := audio.NewPlaylistCreator(format, true)
//	err = creator.Append(ctx, "mix.pls", audio.PlaylistEntry{Path: "Artist - Title.mp3", Title: "Title"})
package audio
