// Package timeutil provides time, size and string formatting helpers
// used by the pipeline report and the title parser.
package timeutil

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/labstack/gommon/bytes"
)

// NowSeconds returns the current wall clock time in fractional seconds.
func NowSeconds() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}

// FormatDuration renders d as H:MM:SS, or M:SS below one hour.
// Sub-second precision is rounded away.
//
// Example:
//
//	FormatDuration(90 * time.Second)   // "1:30"
//	FormatDuration(3661 * time.Second) // "1:01:01"
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d.Round(time.Second) / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// FormatSeconds is FormatDuration for a fractional number of seconds.
func FormatSeconds(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "--:--"
	}
	return FormatDuration(time.Duration(seconds * float64(time.Second)))
}

// FormatBytes renders n as a human readable size.
func FormatBytes(n int64) string {
	return bytes.Format(n)
}

// FormatRate renders a transfer rate in bytes per second.
func FormatRate(bytesPerSec float64) string {
	if bytesPerSec <= 0 || math.IsNaN(bytesPerSec) || math.IsInf(bytesPerSec, 0) {
		return "-"
	}
	return bytes.Format(int64(bytesPerSec)) + "/s"
}

// TrimSuffixFold removes suffix from s when s ends with it, ignoring case.
// It reports whether anything was removed.
func TrimSuffixFold(s, suffix string) (string, bool) {
	if suffix == "" || len(s) < len(suffix) {
		return s, false
	}
	if !strings.EqualFold(s[len(s)-len(suffix):], suffix) {
		return s, false
	}
	return s[:len(s)-len(suffix)], true
}

// quotes holds the straight and curly quote characters stripped from titles.
const quotes = "\"'“”‘’"

// TrimQuotes removes at most one leading and one trailing quote character
// and trims the whitespace left behind.
//
//	TrimQuotes(`"Track Name"`) // "Track Name"
//	TrimQuotes(`“Song”`)       // "Song"
//	TrimQuotes(`""x""`)        // `"x"`
func TrimQuotes(s string) string {
	s = strings.TrimSpace(s)
	for _, q := range quotes {
		if r := string(q); strings.HasPrefix(s, r) {
			s = s[len(r):]
			break
		}
	}
	for _, q := range quotes {
		if r := string(q); strings.HasSuffix(s, r) {
			s = s[:len(s)-len(r)]
			break
		}
	}
	return strings.TrimSpace(s)
}
