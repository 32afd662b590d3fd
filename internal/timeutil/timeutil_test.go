package timeutil

import (
	"strings"
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		d        time.Duration
		expected string
	}{
		{"Zero", 0, "0:00"},
		{"Negative", -time.Second, "0:00"},
		{"One second", time.Second, "0:01"},
		{"90 seconds", 90 * time.Second, "1:30"},
		{"One hour", time.Hour, "1:00:00"},
		{"Complex time", 3661 * time.Second, "1:01:01"},
		{"Rounds up", 59*time.Second + 600*time.Millisecond, "1:00"},
		{"Rounds down", 59*time.Second + 400*time.Millisecond, "0:59"},
		{"Long", 25 * time.Hour, "25:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDuration(tt.d); got != tt.expected {
				t.Errorf("FormatDuration(%v) = %s; want %s", tt.d, got, tt.expected)
			}
		})
	}
}

func TestFormatSeconds(t *testing.T) {
	if got := FormatSeconds(213.4); got != "3:33" {
		t.Errorf("FormatSeconds(213.4) = %s; want 3:33", got)
	}
}

func TestFormatRate(t *testing.T) {
	if got := FormatRate(0); got != "-" {
		t.Errorf("FormatRate(0) = %q; want -", got)
	}
	if got := FormatRate(2048); !strings.HasSuffix(got, "/s") || got == "/s" {
		t.Errorf("FormatRate(2048) = %q", got)
	}
}

func TestTrimSuffixFold(t *testing.T) {
	tests := []struct {
		s, suffix string
		want      string
		trimmed   bool
	}{
		{"Song Lyrics", " lyrics", "Song", true},
		{"Song LYRICS", " Lyrics", "Song", true},
		{"Lyrics", " lyrics", "Lyrics", false},
		{"Song", "", "Song", false},
		{"Lyrical song", " lyrics", "Lyrical song", false},
	}

	for _, tt := range tests {
		got, ok := TrimSuffixFold(tt.s, tt.suffix)
		if got != tt.want || ok != tt.trimmed {
			t.Errorf("TrimSuffixFold(%q, %q) = %q, %v; want %q, %v", tt.s, tt.suffix, got, ok, tt.want, tt.trimmed)
		}
	}
}

func TestTrimQuotes(t *testing.T) {
	tests := []struct {
		input, expected string
	}{
		{`"Track Name"`, "Track Name"},
		{`'Track'`, "Track"},
		{`“Curly”`, "Curly"},
		{`‘Single’`, "Single"},
		{`""double""`, `"double"`},
		{`  " padded "  `, "padded"},
		{`no quotes`, "no quotes"},
		{`Track Name"`, "Track Name"},
		{`"`, ""},
	}

	for _, tt := range tests {
		if got := TrimQuotes(tt.input); got != tt.expected {
			t.Errorf("TrimQuotes(%q) = %q; want %q", tt.input, got, tt.expected)
		}
	}
}

func TestNowSeconds(t *testing.T) {
	before := float64(time.Now().UnixNano()) / float64(time.Second)
	got := NowSeconds()
	after := float64(time.Now().UnixNano()) / float64(time.Second)

	if got < before || got > after {
		t.Errorf("NowSeconds() = %f, want within [%f, %f]", got, before, after)
	}
}
