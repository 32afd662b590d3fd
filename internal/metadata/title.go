package metadata

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/handiism/ytmp3/internal/timeutil"
)

// DefaultSeparators split "Artist - Title" style video titles.
var DefaultSeparators = []string{"-", "—"}

// noisePhrases are dropped from the end of a parsed title, in order.
var noisePhrases = []string{
	"(official video)",
	"official video",
	"high quality",
	"lyrics",
}

// TitleResult is the outcome of ParseTitle. Artist and Title are only
// meaningful when OK is true.
type TitleResult struct {
	OK     bool
	Artist string
	Title  string
}

// ParseTitle splits a video title into artist and song title.
//
// The title is split once, at the first occurrence of any separator.
// The song title is then cleaned: one surrounding quote character is
// removed, trailing noise phrases such as "(Official Video)" or
// "Lyrics" are dropped when preceded by whitespace, and separators
// left dangling at the end are trimmed.
//
// No separator, or an empty artist or title, yields OK == false. That
// is an expected outcome, not an error.
//
// Example:
//
//	ParseTitle("Artist - Song (Official Video)", nil)
//	// TitleResult{OK: true, Artist: "Artist", Title: "Song"}
//
//	ParseTitle(`Band - "Track Name" - Lyrics`, []string{"-"})
//	// TitleResult{OK: true, Artist: "Band", Title: "Track Name"}
func ParseTitle(raw string, separators []string) TitleResult {
	separators = usableSeparators(separators)
	if len(separators) == 0 {
		return TitleResult{}
	}

	m := splitPattern(separators).FindStringSubmatch(raw)
	if m == nil {
		return TitleResult{}
	}

	artist := strings.TrimSpace(m[1])
	title := cleanTitle(m[2], separators)
	if artist == "" || title == "" {
		return TitleResult{}
	}
	return TitleResult{OK: true, Artist: artist, Title: title}
}

func usableSeparators(separators []string) []string {
	if len(separators) == 0 {
		return DefaultSeparators
	}
	out := make([]string, 0, len(separators))
	for _, s := range separators {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func splitPattern(separators []string) *regexp.Regexp {
	quoted := make([]string, len(separators))
	for i, s := range separators {
		quoted[i] = regexp.QuoteMeta(s)
	}
	return regexp.MustCompile(`(?s)^(.*?)(?:` + strings.Join(quoted, "|") + `)(.*)$`)
}

func cleanTitle(title string, separators []string) string {
	title = timeutil.TrimQuotes(title)
	for _, phrase := range noisePhrases {
		title = trimNoise(title, phrase)
	}
	title = trimTrailingSeparators(title, separators)
	return timeutil.TrimQuotes(title)
}

// trimNoise removes phrase from the end of s when whitespace precedes it.
func trimNoise(s, phrase string) string {
	rest, ok := timeutil.TrimSuffixFold(s, phrase)
	if !ok || rest == "" {
		return s
	}
	if r := []rune(rest); !unicode.IsSpace(r[len(r)-1]) {
		return s
	}
	return strings.TrimRightFunc(rest, unicode.IsSpace)
}

func trimTrailingSeparators(s string, separators []string) string {
	for {
		s = strings.TrimSpace(s)
		trimmed := false
		for _, sep := range separators {
			if strings.HasSuffix(s, sep) {
				s = s[:len(s)-len(sep)]
				trimmed = true
			}
		}
		if !trimmed {
			return s
		}
	}
}
