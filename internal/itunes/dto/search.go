package dto

import (
	"strconv"
	"strings"

	"github.com/handiism/ytmp3/internal/model"
)

// SearchResponse is the body returned by the iTunes Search API.
type SearchResponse struct {
	ResultCount int            `json:"resultCount"`
	Results     []SearchResult `json:"results"`
}

// SearchResult is one entry of a search response.
type SearchResult struct {
	WrapperType       string `json:"wrapperType"`
	Kind              string `json:"kind"`
	TrackName         string `json:"trackName"`
	ArtistName        string `json:"artistName"`
	CollectionName    string `json:"collectionName"`
	PrimaryGenreName  string `json:"primaryGenreName"`
	ReleaseDate       string `json:"releaseDate"`
	CollectionViewURL string `json:"collectionViewUrl"`
	ArtworkURL100     string `json:"artworkUrl100"`
	TrackNumber       int    `json:"trackNumber"`
	TrackCount        int    `json:"trackCount"`
}

// IsSong reports whether the entry describes a song.
func (r *SearchResult) IsSong() bool {
	return r.Kind == "song"
}

// MatchedBy reports whether term contains both the track name and the
// artist name, ignoring case.
func (r *SearchResult) MatchedBy(term string) bool {
	track := strings.ToLower(strings.TrimSpace(r.TrackName))
	artist := strings.ToLower(strings.TrimSpace(r.ArtistName))
	if track == "" || artist == "" {
		return false
	}
	term = strings.ToLower(term)
	return strings.Contains(term, track) && strings.Contains(term, artist)
}

// ToSong converts the entry to song metadata.
//
// The release date is truncated to its year and the artwork URL is
// rewritten to request a size of artworkSize pixels.
func (r *SearchResult) ToSong(artworkSize int) model.SongMetadata {
	year := strings.TrimSpace(r.ReleaseDate)
	if len(year) > 4 {
		year = year[:4]
	}

	return model.SongMetadata{
		Title:       model.OptionalString(r.TrackName),
		Artist:      model.OptionalString(r.ArtistName),
		Album:       model.OptionalString(r.CollectionName),
		Genre:       model.OptionalString(r.PrimaryGenreName),
		Year:        model.OptionalString(year),
		AlbumURL:    model.OptionalString(r.CollectionViewURL),
		ArtworkURL:  model.OptionalString(UpscaleArtwork(r.ArtworkURL100, artworkSize)),
		TrackNumber: model.OptionalPositive(r.TrackNumber),
		TrackCount:  model.OptionalPositive(r.TrackCount),
	}
}

// UpscaleArtwork rewrites the "100x100" size segment of an iTunes
// artwork URL. URLs without that segment are returned unchanged.
//
//	UpscaleArtwork(".../100x100bb.jpg", 600) // ".../600x600bb.jpg"
func UpscaleArtwork(url string, size int) string {
	if url == "" || size <= 0 {
		return url
	}
	idx := strings.LastIndex(url, "100x100")
	if idx < 0 {
		return url
	}
	dim := strconv.Itoa(size)
	return url[:idx] + dim + "x" + dim + url[idx+len("100x100"):]
}
