package model

import (
	"fmt"
	"strings"

	ioutils "github.com/handiism/ytmp3/internal/io"
)

// DefaultAlbum is offered when no album is known for a song.
const DefaultAlbum = "Single"

// Field names of the recognised tag fields, in prompt order.
const (
	FieldTitle  = "title"
	FieldArtist = "artist"
	FieldAlbum  = "album"
	FieldGenre  = "genre"
	FieldYear   = "year"
)

// SongMetadata is the descriptive metadata written into the output file.
//
// It is filled progressively: first by the song lookup service, then by
// the title parser, and finally by the operator at the confirmation
// prompt. A later source replaces every field it has set.
//
// Example:
//
//	song := model.SongMetadata{Title: model.Some("Come Together")}
//	song = song.Merge(model.SongMetadata{Artist: model.Some("The Beatles")})
//	for _, f := range song.Present() {
//	    fmt.Println(f.Name, f.Value)
//	}
type SongMetadata struct {
	Title  Optional[string]
	Artist Optional[string]
	Album  Optional[string]
	Genre  Optional[string]

	// Year is the 4-digit release year.
	Year Optional[string]

	// Lookup extras; only the song lookup service sets these.
	AlbumURL    Optional[string]
	ArtworkURL  Optional[string]
	TrackNumber Optional[int]
	TrackCount  Optional[int]
}

// Field is one recognised, non-empty metadata field.
type Field struct {
	Name  string
	Value string
}

// Merge returns s with every field that other has set replaced by other's value.
func (s SongMetadata) Merge(other SongMetadata) SongMetadata {
	mergeString(&s.Title, other.Title)
	mergeString(&s.Artist, other.Artist)
	mergeString(&s.Album, other.Album)
	mergeString(&s.Genre, other.Genre)
	mergeString(&s.Year, other.Year)
	mergeString(&s.AlbumURL, other.AlbumURL)
	mergeString(&s.ArtworkURL, other.ArtworkURL)
	if other.TrackNumber.IsSet() {
		s.TrackNumber = other.TrackNumber
	}
	if other.TrackCount.IsSet() {
		s.TrackCount = other.TrackCount
	}
	return s
}

func mergeString(dst *Optional[string], src Optional[string]) {
	if src.IsSet() {
		*dst = src
	}
}

// Present returns the recognised fields that hold a non-blank value,
// in the order title, artist, album, genre, year.
func (s SongMetadata) Present() []Field {
	candidates := []struct {
		name  string
		value Optional[string]
	}{
		{FieldTitle, s.Title},
		{FieldArtist, s.Artist},
		{FieldAlbum, s.Album},
		{FieldGenre, s.Genre},
		{FieldYear, s.Year},
	}

	var fields []Field
	for _, c := range candidates {
		v, ok := c.value.Get()
		if !ok {
			continue
		}
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		fields = append(fields, Field{Name: c.name, Value: v})
	}
	return fields
}

// TrackPosition renders the TRCK value, e.g. "3/12", or "" if unknown.
func (s SongMetadata) TrackPosition() string {
	n, ok := s.TrackNumber.Get()
	if !ok {
		return ""
	}
	if total, ok := s.TrackCount.Get(); ok {
		return fmt.Sprintf("%d/%d", n, total)
	}
	return fmt.Sprintf("%d", n)
}

// OutputFileName computes the final audio file name.
//
// An override wins when given. Otherwise the name is "{artist} - {title}.mp3",
// or just "{title}.mp3" when no artist is known. Invalid filename characters
// are replaced with underscores and a ".mp3" suffix is enforced.
//
// Example:
//
//	OutputFileName(song, "")          // "The Beatles - Come Together.mp3"
//	OutputFileName(song, "tune")      // "tune.mp3"
//	OutputFileName(song, "a/b.mp3")   // "a_b.mp3"
func OutputFileName(song SongMetadata, override string) string {
	name := strings.TrimSpace(override)
	if name == "" {
		title := song.Title.OrElse("audio")
		if artist, ok := song.Artist.Get(); ok && strings.TrimSpace(artist) != "" {
			name = fmt.Sprintf("%s - %s", strings.TrimSpace(artist), strings.TrimSpace(title))
		} else {
			name = strings.TrimSpace(title)
		}
	}

	if strings.HasSuffix(strings.ToLower(name), ".mp3") {
		name = name[:len(name)-len(".mp3")]
	}
	name = ioutils.SanitizeFileName(name)
	if name == "" {
		name = "audio"
	}
	return name + ".mp3"
}
