package dto

import "testing"

func TestUpscaleArtwork(t *testing.T) {
	tests := []struct {
		url  string
		size int
		want string
	}{
		{"https://x/100x100bb.jpg", 600, "https://x/600x600bb.jpg"},
		{"https://x/thumb/100x100/100x100bb.jpg", 1000, "https://x/thumb/100x100/1000x1000bb.jpg"},
		{"https://x/cover.jpg", 600, "https://x/cover.jpg"},
		{"", 600, ""},
		{"https://x/100x100bb.jpg", 0, "https://x/100x100bb.jpg"},
	}

	for _, tt := range tests {
		if got := UpscaleArtwork(tt.url, tt.size); got != tt.want {
			t.Errorf("UpscaleArtwork(%q, %d) = %q, want %q", tt.url, tt.size, got, tt.want)
		}
	}
}

func TestSearchResult_MatchedBy(t *testing.T) {
	r := SearchResult{Kind: "song", TrackName: "Yesterday", ArtistName: "The Beatles"}

	tests := []struct {
		term string
		want bool
	}{
		{"the beatles - yesterday (remastered)", true},
		{"THE BEATLES YESTERDAY", true},
		{"Yesterday", false},
		{"The Beatles", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := r.MatchedBy(tt.term); got != tt.want {
			t.Errorf("MatchedBy(%q) = %v, want %v", tt.term, got, tt.want)
		}
	}

	empty := SearchResult{Kind: "song"}
	if empty.MatchedBy("anything") {
		t.Error("result without names must not match")
	}
}

func TestSearchResult_ToSong(t *testing.T) {
	r := SearchResult{
		TrackName:   "Song",
		ArtistName:  "Artist",
		ReleaseDate: "2020",
		TrackNumber: 0,
	}

	song := r.ToSong(600)
	if got := song.Year.OrElse(""); got != "2020" {
		t.Errorf("Year = %q", got)
	}
	if song.Album.IsSet() || song.Genre.IsSet() {
		t.Error("missing fields should stay unset")
	}
	if song.TrackNumber.IsSet() {
		t.Error("zero track number should stay unset")
	}
}
