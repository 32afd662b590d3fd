package audio

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testEntries() []PlaylistEntry {
	return []PlaylistEntry{
		{Path: "Test Artist - Track One.mp3", Title: "Track One", Artist: "Test Artist", Duration: 180 * time.Second},
		{Path: "Track Two.mp3", Title: "Track Two", Duration: 200 * time.Second},
	}
}

func TestPlaylistCreator_M3U(t *testing.T) {
	creator := NewPlaylistCreator(FormatM3U, false)

	content := creator.Render("mix", testEntries())

	if strings.Contains(content, "#EXTM3U") {
		t.Error("plain M3U should not contain a header")
	}
	if !strings.Contains(content, "Test Artist - Track One.mp3\n") {
		t.Error("M3U should contain track filename")
	}
}

func TestPlaylistCreator_M3UExtended(t *testing.T) {
	creator := NewPlaylistCreator(FormatM3U, true)

	content := creator.Render("mix", testEntries())

	if !strings.HasPrefix(content, "#EXTM3U") {
		t.Error("Extended M3U should start with #EXTM3U")
	}
	if !strings.Contains(content, "#EXTINF:180,Test Artist - Track One\n") {
		t.Errorf("Extended M3U should contain #EXTINF with artist and title, got:\n%s", content)
	}
	if !strings.Contains(content, "#EXTINF:200,Track Two\n") {
		t.Errorf("title-only entries should not carry a dangling separator, got:\n%s", content)
	}
}

func TestPlaylistCreator_PLS(t *testing.T) {
	creator := NewPlaylistCreator(FormatPLS, false)

	content := creator.Render("mix", testEntries())

	if !strings.HasPrefix(content, "[playlist]") {
		t.Error("PLS should start with [playlist]")
	}
	if !strings.Contains(content, "File2=Track Two.mp3") {
		t.Error("PLS should contain File2=")
	}
	if !strings.Contains(content, "NumberOfEntries=2") {
		t.Error("PLS should contain NumberOfEntries")
	}
}

func TestPlaylistCreator_XMLEscape(t *testing.T) {
	entries := []PlaylistEntry{{Path: "A & B.mp3", Title: "Track & \"Quote\"", Artist: "Artist <Special>"}}

	for _, format := range []PlaylistFormat{FormatWPL, FormatZPL} {
		creator := NewPlaylistCreator(format, false)
		content := creator.Render("Mix & Match", entries)

		if !strings.Contains(content, "&amp;") {
			t.Error("should escape & as &amp;")
		}
		if strings.Contains(content, "<Special>") {
			t.Error("should escape < and >")
		}

		parsed := creator.Parse(content)
		if len(parsed) != 1 || parsed[0].Path != "A & B.mp3" {
			t.Errorf("Parse() = %+v", parsed)
		}
	}
}

func TestPlaylistCreator_ParseRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		format PlaylistFormat
	}{
		{"m3u", FormatM3U},
		{"pls", FormatPLS},
		{"wpl", FormatWPL},
		{"zpl", FormatZPL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creator := NewPlaylistCreator(tt.format, true)
			content := creator.Render("mix", testEntries())

			parsed := creator.Parse(content)
			if len(parsed) != 2 {
				t.Fatalf("Parse() returned %d entries, want 2", len(parsed))
			}
			if parsed[0].Path != "Test Artist - Track One.mp3" || parsed[1].Path != "Track Two.mp3" {
				t.Errorf("paths = %q, %q", parsed[0].Path, parsed[1].Path)
			}
			if again := creator.Render("mix", parsed); again != content {
				t.Errorf("re-rendered playlist differs:\n%s\nvs\n%s", again, content)
			}
		})
	}
}

func TestPlaylistCreator_Append(t *testing.T) {
	dir := t.TempDir()
	playlist := filepath.Join(dir, "favourites.m3u")
	creator := NewPlaylistCreator(FormatM3U, true)
	ctx := context.Background()

	first := PlaylistEntry{Path: filepath.Join(dir, "One.mp3"), Title: "One", Artist: "A", Duration: 61 * time.Second}
	second := PlaylistEntry{Path: filepath.Join(dir, "Two.mp3"), Title: "Two", Artist: "B", Duration: 62 * time.Second}

	for _, e := range []PlaylistEntry{first, second, first} {
		if err := creator.Append(ctx, playlist, e); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	data, err := os.ReadFile(playlist)
	if err != nil {
		t.Fatal(err)
	}
	want := "#EXTM3U\n#EXTINF:61,A - One\nOne.mp3\n#EXTINF:62,B - Two\nTwo.mp3\n"
	if string(data) != want {
		t.Errorf("playlist =\n%s\nwant\n%s", data, want)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    PlaylistFormat
		wantErr bool
	}{
		{"a.m3u", FormatM3U, false},
		{"a.M3U8", FormatM3U, false},
		{"a.pls", FormatPLS, false},
		{"a.wpl", FormatWPL, false},
		{"a.zpl", FormatZPL, false},
		{"a.txt", FormatM3U, true},
	}

	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("FormatFromPath(%q) = %v, %v", tt.path, got, err)
		}
	}
}
