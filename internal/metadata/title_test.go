package metadata

import "testing"

func TestParseTitle(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		separators []string
		want       TitleResult
	}{
		{
			name:       "noise suffix stripped",
			raw:        "Artist - Song (Official Video)",
			separators: []string{"-"},
			want:       TitleResult{OK: true, Artist: "Artist", Title: "Song"},
		},
		{
			name:       "no separator",
			raw:        "NoSeparatorHere",
			separators: []string{"-"},
			want:       TitleResult{},
		},
		{
			name:       "quoted title with trailing lyrics",
			raw:        `Band - "Track Name" - Lyrics`,
			separators: []string{"-"},
			want:       TitleResult{OK: true, Artist: "Band", Title: "Track Name"},
		},
		{
			name: "default separators include em dash",
			raw:  "Artist — Song",
			want: TitleResult{OK: true, Artist: "Artist", Title: "Song"},
		},
		{
			name:       "splits at first separator",
			raw:        "A - B - C",
			separators: []string{"-"},
			want:       TitleResult{OK: true, Artist: "A", Title: "B - C"},
		},
		{
			name:       "noise is case insensitive",
			raw:        "Artist - Song OFFICIAL VIDEO",
			separators: []string{"-"},
			want:       TitleResult{OK: true, Artist: "Artist", Title: "Song"},
		},
		{
			name:       "noise phrases applied in order",
			raw:        "Artist - Song High Quality Lyrics",
			separators: []string{"-"},
			want:       TitleResult{OK: true, Artist: "Artist", Title: "Song High Quality"},
		},
		{
			name:       "noise only removed when trailing",
			raw:        "Artist - Lyrics Of Love",
			separators: []string{"-"},
			want:       TitleResult{OK: true, Artist: "Artist", Title: "Lyrics Of Love"},
		},
		{
			name:       "noise needs preceding whitespace",
			raw:        "Artist - Songlyrics",
			separators: []string{"-"},
			want:       TitleResult{OK: true, Artist: "Artist", Title: "Songlyrics"},
		},
		{
			name:       "curly quotes",
			raw:        "Artist - “Song”",
			separators: []string{"-"},
			want:       TitleResult{OK: true, Artist: "Artist", Title: "Song"},
		},
		{
			name:       "custom multi-character separator",
			raw:        "Artist :: Song",
			separators: []string{"::"},
			want:       TitleResult{OK: true, Artist: "Artist", Title: "Song"},
		},
		{
			name:       "regex characters are literal",
			raw:        "Artist . Song",
			separators: []string{"|", "*"},
			want:       TitleResult{},
		},
		{
			name:       "empty artist",
			raw:        " - Song",
			separators: []string{"-"},
			want:       TitleResult{},
		},
		{
			name:       "empty title",
			raw:        "Artist - ",
			separators: []string{"-"},
			want:       TitleResult{},
		},
		{
			name:       "title made only of noise",
			raw:        "Artist - Lyrics",
			separators: []string{"-"},
			want:       TitleResult{OK: true, Artist: "Artist", Title: "Lyrics"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTitle(tt.raw, tt.separators)
			if got != tt.want {
				t.Errorf("ParseTitle(%q, %q) = %+v, want %+v", tt.raw, tt.separators, got, tt.want)
			}
		})
	}
}
