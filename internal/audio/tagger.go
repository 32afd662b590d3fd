package audio

import (
	"strconv"
	"strings"

	"github.com/bogem/id3v2"

	"github.com/handiism/ytmp3/internal/model"
)

// TagEditAction defines how to handle individual ID3 tags.
//
// Each tag field can be configured independently to determine whether
// it should be modified, cleared, or left unchanged.
type TagEditAction int

const (
	// TagEmpty clears the tag value.
	TagEmpty TagEditAction = iota

	// TagModify writes the resolved value when one is present.
	TagModify

	// TagDoNotModify leaves the existing tag value unchanged.
	TagDoNotModify
)

// albumURLDescription names the comment frame carrying the album page.
const albumURLDescription = "Album URL"

// TagConfig holds tagging configuration for each ID3 field.
//
// Example:
//
//	cfg := &TagConfig{
//	    ModifyTags:  true,
//	    Title:       TagModify,
//	    Artist:      TagModify,
//	    Genre:       TagDoNotModify, // keep whatever the file had
//	    Comments:    TagEmpty,       // drop the album URL comment
//	}
type TagConfig struct {
	// ModifyTags is a master switch. If false, no text frames are touched.
	ModifyTags bool

	// Title controls the TIT2 (Title) frame.
	Title TagEditAction

	// Artist controls the TPE1 (Lead artist) frame.
	Artist TagEditAction

	// AlbumArtist controls the TPE2 (Album artist) frame, filled from the artist.
	AlbumArtist TagEditAction

	// Album controls the TALB (Album title) frame.
	Album TagEditAction

	// Genre controls the TCON (Content type) frame.
	Genre TagEditAction

	// Year controls the TYER (Year) frame.
	Year TagEditAction

	// Date controls the TDRC (Recording time) frame (ID3v2.4).
	Date TagEditAction

	// TrackNumber controls the TRCK (Track number/total) frame.
	TrackNumber TagEditAction

	// Comments controls the COMM frame holding the album URL.
	Comments TagEditAction
}

// DefaultTagConfig returns the default tag configuration, which writes
// every field that has a value.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		ModifyTags:  true,
		Title:       TagModify,
		Artist:      TagModify,
		AlbumArtist: TagModify,
		Album:       TagModify,
		Genre:       TagModify,
		Year:        TagModify,
		Date:        TagModify,
		TrackNumber: TagModify,
		Comments:    TagModify,
	}
}

// Tagger writes ID3 tags to MP3 files.
//
// Tagger uses the id3v2 library to modify MP3 file metadata including:
//   - Title, Artist, Album Artist, Album, Genre
//   - Year and recording date
//   - Track number and count from the song lookup
//   - The album page URL as a comment
//   - Cover Art (attached picture)
//
// Only fields holding a value are written; an absent field never
// produces an empty frame.
//
// Example:
//
//	tagger := NewTagger(DefaultTagConfig())
//	if err := tagger.SaveTags("/tmp/song.mp3", song, artworkBytes); err != nil {
//	    // the file is still usable, just untagged
//	}
type Tagger struct {
	config *TagConfig
}

// NewTagger creates a new Tagger with the given configuration.
//
// If config is nil, DefaultTagConfig() is used.
func NewTagger(config *TagConfig) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &Tagger{config: config}
}

// SaveTags writes the present fields of song into the MP3 file at path.
//
// This method:
//  1. Opens the file and parses any tag it already has
//  2. Updates text frames based on TagConfig settings
//  3. Embeds cover art if artwork bytes are provided
//  4. Saves the modified tag back to the file
//
// artwork must be JPEG data; pass nil to keep the existing pictures.
func (t *Tagger) SaveTags(path string, song model.SongMetadata, artwork []byte) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	if t.config.ModifyTags {
		t.updateStringTags(tag, song)
	}

	if artwork != nil {
		t.updateArtwork(tag, artwork)
	}

	return tag.Save()
}

// updateStringTags updates text frames based on configuration.
func (t *Tagger) updateStringTags(tag *id3v2.Tag, song model.SongMetadata) {
	present := make(map[string]string)
	for _, f := range song.Present() {
		present[f.Name] = f.Value
	}

	apply := func(action TagEditAction, id, value string) {
		switch action {
		case TagEmpty:
			tag.DeleteFrames(id)
		case TagModify:
			if value != "" {
				tag.AddTextFrame(id, id3v2.EncodingUTF8, value)
			}
		}
	}

	apply(t.config.Title, "TIT2", present[model.FieldTitle])
	apply(t.config.Artist, "TPE1", present[model.FieldArtist])
	apply(t.config.AlbumArtist, "TPE2", present[model.FieldArtist])
	apply(t.config.Album, "TALB", present[model.FieldAlbum])
	apply(t.config.Genre, "TCON", present[model.FieldGenre])
	apply(t.config.Year, "TYER", present[model.FieldYear])
	apply(t.config.Date, "TDRC", present[model.FieldYear])
	apply(t.config.TrackNumber, "TRCK", song.TrackPosition())

	switch t.config.Comments {
	case TagEmpty:
		tag.DeleteFrames(tag.CommonID("Comments"))
	case TagModify:
		if u := strings.TrimSpace(song.AlbumURL.OrElse("")); u != "" {
			tag.AddCommentFrame(id3v2.CommentFrame{
				Encoding:    id3v2.EncodingUTF8,
				Language:    "eng",
				Description: albumURLDescription,
				Text:        u,
			})
		}
	}
}

// updateArtwork embeds cover art as an attached picture frame.
func (t *Tagger) updateArtwork(tag *id3v2.Tag, artwork []byte) {
	// Remove any existing cover pictures
	tag.DeleteFrames(tag.CommonID("Attached picture"))

	pic := id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    "image/jpeg",
		PictureType: id3v2.PTFrontCover,
		Description: "Cover",
		Picture:     artwork,
	}
	tag.AddAttachedPicture(pic)
}

// ReadTags reads the recognised fields back from the file at path.
func ReadTags(path string) (model.SongMetadata, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return model.SongMetadata{}, err
	}
	defer tag.Close()

	year := tag.GetTextFrame("TYER").Text
	if year == "" {
		year = tag.GetTextFrame("TDRC").Text
	}

	song := model.SongMetadata{
		Title:  model.OptionalString(tag.GetTextFrame("TIT2").Text),
		Artist: model.OptionalString(tag.GetTextFrame("TPE1").Text),
		Album:  model.OptionalString(tag.GetTextFrame("TALB").Text),
		Genre:  model.OptionalString(tag.GetTextFrame("TCON").Text),
		Year:   model.OptionalString(year),
	}

	if n, total, ok := parseTrackPosition(tag.GetTextFrame("TRCK").Text); ok {
		song.TrackNumber = model.OptionalPositive(n)
		song.TrackCount = model.OptionalPositive(total)
	}

	for _, f := range tag.GetFrames(tag.CommonID("Comments")) {
		if c, ok := f.(id3v2.CommentFrame); ok && c.Description == albumURLDescription {
			song.AlbumURL = model.OptionalString(c.Text)
		}
	}
	return song, nil
}

// HasArtwork reports whether the file at path embeds a picture.
func HasArtwork(path string) (bool, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return false, err
	}
	defer tag.Close()
	return len(tag.GetFrames(tag.CommonID("Attached picture"))) > 0, nil
}

// parseTrackPosition splits "3/12" into 3 and 12. The total is zero when absent.
func parseTrackPosition(s string) (int, int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, false
	}
	num, total, _ := strings.Cut(s, "/")
	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil {
		return 0, 0, false
	}
	t, _ := strconv.Atoi(strings.TrimSpace(total))
	return n, t, true
}
