package audio

import (
	"context"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	ioutils "github.com/handiism/ytmp3/internal/io"
)

// PlaylistFormat represents supported playlist file formats.
//
// Each format has different features and compatibility:
//   - M3U: Simple text format, widely supported
//   - PLS: INI-style format, used by Winamp
//   - WPL: XML format, Windows Media Player
//   - ZPL: XML format, Zune/Groove Music
type PlaylistFormat int

const (
	// FormatM3U creates .m3u files (most compatible).
	// Can be extended with EXTINF lines for duration/title info.
	FormatM3U PlaylistFormat = iota

	// FormatPLS creates .pls files (Winamp/SHOUTcast format).
	FormatPLS

	// FormatWPL creates .wpl files (Windows Media Player).
	FormatWPL

	// FormatZPL creates .zpl files (Zune/Groove Music).
	FormatZPL
)

// FormatFromPath picks the playlist format from the file extension.
func FormatFromPath(path string) (PlaylistFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".m3u", ".m3u8":
		return FormatM3U, nil
	case ".pls":
		return FormatPLS, nil
	case ".wpl":
		return FormatWPL, nil
	case ".zpl":
		return FormatZPL, nil
	default:
		return FormatM3U, fmt.Errorf("unsupported playlist extension %q (want .m3u, .m3u8, .pls, .wpl or .zpl)", filepath.Ext(path))
	}
}

// PlaylistEntry is one track listed in a playlist.
type PlaylistEntry struct {
	// Path is the track location, relative to the playlist when possible.
	Path     string
	Title    string
	Artist   string
	Duration time.Duration
}

// DisplayName renders "Artist - Title", or only the title.
func (e PlaylistEntry) DisplayName() string {
	if e.Artist == "" {
		return e.Title
	}
	return e.Artist + " - " + e.Title
}

// PlaylistCreator reads and writes playlist files in various formats.
//
// Example:
//
//	creator := NewPlaylistCreator(FormatM3U, true)
//	err := creator.Append(ctx, "favourites.m3u", PlaylistEntry{
//	    Path:     "The Beatles - Come Together.mp3",
//	    Title:    "Come Together",
//	    Artist:   "The Beatles",
//	    Duration: 259 * time.Second,
//	})
//
//	// favourites.m3u:
//	// #EXTM3U
//	// #EXTINF:259,The Beatles - Come Together
//	// The Beatles - Come Together.mp3
type PlaylistCreator struct {
	format   PlaylistFormat
	extended bool // For M3U: include EXTINF lines with duration/title
}

// NewPlaylistCreator creates a new PlaylistCreator.
//
// Parameters:
//   - format: The playlist format to generate
//   - extended: For M3U format, whether to include #EXTINF lines
//     (ignored for other formats)
func NewPlaylistCreator(format PlaylistFormat, extended bool) *PlaylistCreator {
	return &PlaylistCreator{
		format:   format,
		extended: extended,
	}
}

// Append adds entry to the playlist at playlistPath, creating the file
// with its header when it does not exist yet. An entry with a path the
// playlist already lists is not added twice.
func (p *PlaylistCreator) Append(ctx context.Context, playlistPath string, entry PlaylistEntry) error {
	var entries []PlaylistEntry

	data, err := os.ReadFile(playlistPath)
	switch {
	case err == nil:
		entries = p.Parse(string(data))
	case !os.IsNotExist(err):
		return err
	}

	entry.Path = relativeTo(playlistPath, entry.Path)
	for _, e := range entries {
		if e.Path == entry.Path {
			return nil
		}
	}
	entries = append(entries, entry)

	if err := ioutils.EnsureDir(filepath.Dir(playlistPath)); err != nil {
		return err
	}

	title := strings.TrimSuffix(filepath.Base(playlistPath), filepath.Ext(playlistPath))
	return ioutils.WriteFile(ctx, playlistPath, []byte(p.Render(title, entries)))
}

// relativeTo expresses track relative to the directory of playlist.
func relativeTo(playlist, track string) string {
	absTrack, err := filepath.Abs(track)
	if err != nil {
		return track
	}
	absDir, err := filepath.Abs(filepath.Dir(playlist))
	if err != nil {
		return track
	}
	rel, err := filepath.Rel(absDir, absTrack)
	if err != nil || strings.HasPrefix(rel, "..") {
		return absTrack
	}
	return filepath.ToSlash(rel)
}

// Render generates playlist content for entries.
func (p *PlaylistCreator) Render(title string, entries []PlaylistEntry) string {
	switch p.format {
	case FormatPLS:
		return p.createPLS(entries)
	case FormatWPL:
		return p.createWPL(title, entries)
	case FormatZPL:
		return p.createZPL(title, entries)
	default:
		return p.createM3U(entries)
	}
}

// Parse reads the entries of an existing playlist.
func (p *PlaylistCreator) Parse(content string) []PlaylistEntry {
	switch p.format {
	case FormatPLS:
		return parsePLS(content)
	case FormatWPL, FormatZPL:
		return parseSMIL(content)
	default:
		return parseM3U(content)
	}
}

// createM3U generates an M3U playlist.
//
// Standard M3U format:
//
//	filename1.mp3
//	filename2.mp3
//
// Extended M3U format (when extended=true):
//
//	#EXTM3U
//	#EXTINF:180,Artist - Title
//	filename1.mp3
func (p *PlaylistCreator) createM3U(entries []PlaylistEntry) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
	}

	for _, e := range entries {
		if p.extended {
			sb.WriteString(fmt.Sprintf("#EXTINF:%d,%s\n", seconds(e.Duration), e.DisplayName()))
		}
		sb.WriteString(e.Path + "\n")
	}

	return sb.String()
}

func parseM3U(content string) []PlaylistEntry {
	var (
		entries []PlaylistEntry
		pending PlaylistEntry
	)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "" || line == "#EXTM3U":
		case strings.HasPrefix(line, "#EXTINF:"):
			dur, name, _ := strings.Cut(strings.TrimPrefix(line, "#EXTINF:"), ",")
			pending = PlaylistEntry{Title: name, Duration: secondsToDuration(dur)}
		case strings.HasPrefix(line, "#"):
		default:
			pending.Path = line
			entries = append(entries, pending)
			pending = PlaylistEntry{}
		}
	}
	return entries
}

// createPLS generates a PLS playlist.
//
// PLS format is an INI-style text file:
//
//	[playlist]
//	File1=filename1.mp3
//	Title1=Artist - Song Title
//	Length1=180
//	NumberOfEntries=1
//	Version=2
func (p *PlaylistCreator) createPLS(entries []PlaylistEntry) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")

	for i, e := range entries {
		idx := i + 1
		sb.WriteString(fmt.Sprintf("File%d=%s\n", idx, e.Path))
		sb.WriteString(fmt.Sprintf("Title%d=%s\n", idx, e.DisplayName()))
		sb.WriteString(fmt.Sprintf("Length%d=%d\n", idx, seconds(e.Duration)))
	}

	sb.WriteString(fmt.Sprintf("NumberOfEntries=%d\n", len(entries)))
	sb.WriteString("Version=2\n")

	return sb.String()
}

var plsLine = regexp.MustCompile(`^(?i)(File|Title|Length)(\d+)=(.*)$`)

func parsePLS(content string) []PlaylistEntry {
	byIndex := make(map[int]*PlaylistEntry)
	for _, line := range strings.Split(content, "\n") {
		m := plsLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		idx, _ := strconv.Atoi(m[2])
		e, ok := byIndex[idx]
		if !ok {
			e = &PlaylistEntry{}
			byIndex[idx] = e
		}
		switch strings.ToLower(m[1]) {
		case "file":
			e.Path = m[3]
		case "title":
			e.Title = m[3]
		case "length":
			e.Duration = secondsToDuration(m[3])
		}
	}

	indices := make([]int, 0, len(byIndex))
	for idx, e := range byIndex {
		if e.Path != "" {
			indices = append(indices, idx)
		}
	}
	sort.Ints(indices)

	entries := make([]PlaylistEntry, 0, len(indices))
	for _, idx := range indices {
		entries = append(entries, *byIndex[idx])
	}
	return entries
}

// createWPL generates a Windows Media Player playlist.
//
// WPL is an XML-based SMIL format used by Windows Media Player.
func (p *PlaylistCreator) createWPL(title string, entries []PlaylistEntry) string {
	var sb strings.Builder

	sb.WriteString("<?wpl version=\"1.0\"?>\n")
	sb.WriteString("<smil>\n")
	sb.WriteString("  <head>\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(title)))
	sb.WriteString("  </head>\n")
	sb.WriteString("  <body>\n")
	sb.WriteString("    <seq>\n")

	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("      <media src=\"%s\"/>\n", escapeXML(e.Path)))
	}

	sb.WriteString("    </seq>\n")
	sb.WriteString("  </body>\n")
	sb.WriteString("</smil>\n")

	return sb.String()
}

// createZPL generates a Zune/Groove Music playlist.
//
// ZPL is similar to WPL but includes track title, artist and duration.
func (p *PlaylistCreator) createZPL(title string, entries []PlaylistEntry) string {
	var sb strings.Builder

	sb.WriteString("<?zpl version=\"2.0\"?>\n")
	sb.WriteString("<smil>\n")
	sb.WriteString("  <head>\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(title)))
	sb.WriteString("    <meta name=\"Generator\" content=\"ytmp3\"/>\n")
	sb.WriteString(fmt.Sprintf("    <meta name=\"ItemCount\" content=\"%d\"/>\n", len(entries)))
	sb.WriteString("  </head>\n")
	sb.WriteString("  <body>\n")
	sb.WriteString("    <seq>\n")

	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("      <media src=\"%s\" trackTitle=\"%s\" trackArtist=\"%s\" duration=\"%d\"/>\n",
			escapeXML(e.Path),
			escapeXML(e.Title),
			escapeXML(e.Artist),
			e.Duration.Milliseconds()))
	}

	sb.WriteString("    </seq>\n")
	sb.WriteString("  </body>\n")
	sb.WriteString("</smil>\n")

	return sb.String()
}

var (
	smilMedia = regexp.MustCompile(`<media\s+src="([^"]*)"([^>]*)/?>`)
	smilAttr  = regexp.MustCompile(`(\w+)="([^"]*)"`)
)

func parseSMIL(content string) []PlaylistEntry {
	var entries []PlaylistEntry
	for _, m := range smilMedia.FindAllStringSubmatch(content, -1) {
		e := PlaylistEntry{Path: html.UnescapeString(m[1])}
		for _, a := range smilAttr.FindAllStringSubmatch(m[2], -1) {
			v := html.UnescapeString(a[2])
			switch a[1] {
			case "trackTitle":
				e.Title = v
			case "trackArtist":
				e.Artist = v
			case "duration":
				if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
					e.Duration = time.Duration(ms) * time.Millisecond
				}
			}
		}
		entries = append(entries, e)
	}
	return entries
}

func seconds(d time.Duration) int {
	if d <= 0 {
		return -1
	}
	return int(d.Round(time.Second) / time.Second)
}

func secondsToDuration(s string) time.Duration {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}

// escapeXML escapes special XML characters in a string.
//
// Replaces: & < > " '
// With:     &amp; &lt; &gt; &quot; &apos;
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
