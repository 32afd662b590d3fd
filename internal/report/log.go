package report

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/handiism/ytmp3/internal/download"
	"github.com/handiism/ytmp3/internal/timeutil"
)

func prefix(level download.ProgressLevel) string {
	switch level {
	case download.LevelVerbose:
		return "V"
	case download.LevelSuccess:
		return "✓"
	case download.LevelWarning:
		return "!"
	case download.LevelError:
		return "!!"
	case download.LevelProgress:
		return "~"
	}
	return "I"
}

func levelColor(level download.ProgressLevel) *color.Color {
	switch level {
	case download.LevelVerbose, download.LevelProgress:
		return color.New(color.FgWhite, color.Italic)
	case download.LevelSuccess:
		return color.New(color.FgHiGreen)
	case download.LevelWarning:
		return color.New(color.FgYellow, color.Underline)
	case download.LevelError:
		return color.New(color.FgHiRed, color.Bold)
	}
	return color.New(color.FgWhite)
}

// Logger prints pipeline events as plain coloured lines.
//
// Verbose events are dropped unless verbose is set. Progress events are
// reduced to one line per tenth of the stage, or per event in verbose mode.
type Logger struct {
	out     io.Writer
	verbose bool

	mu       sync.Mutex
	lastStep map[download.Stage]int
}

// NewLogger creates a Logger writing to out.
func NewLogger(out io.Writer, verbose bool) *Logger {
	return &Logger{out: out, verbose: verbose, lastStep: make(map[download.Stage]int)}
}

// Event prints e.
func (l *Logger) Event(e download.ProgressEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch e.Level {
	case download.LevelVerbose:
		if !l.verbose {
			return
		}
	case download.LevelProgress:
		if !l.throttle(e) {
			return
		}
		e.Message = ProgressLine(e)
	}

	l.emit(e.Level, "[%s] (%s) %s\n", e.Stage, prefix(e.Level), e.Message)
}

// throttle reports whether a progress event should be printed.
func (l *Logger) throttle(e download.ProgressEvent) bool {
	if l.verbose {
		return true
	}
	if e.Percent < 0 {
		return false
	}
	step := int(e.Percent / 10)
	last, seen := l.lastStep[e.Stage]
	if seen && step <= last {
		return false
	}
	l.lastStep[e.Stage] = step
	return true
}

// Fatal prints err with the error prefix.
func (l *Logger) Fatal(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.emit(download.LevelError, "error: %v\n", err)
}

func (l *Logger) emit(level download.ProgressLevel, format string, args ...any) {
	levelColor(level).Fprintf(l.out, format, args...)
}

// ProgressLine renders a progress event as text, for example
// "45.0% 3.1 MB / 6.9 MB at 1.2 MB/s, 0:03 left".
func ProgressLine(e download.ProgressEvent) string {
	if e.Stage != download.StageDownload {
		return fmt.Sprintf("%.1f%%", e.Percent)
	}

	total := "?"
	if e.Total > 0 {
		total = timeutil.FormatBytes(e.Total)
	}
	line := fmt.Sprintf("%s / %s at %s", timeutil.FormatBytes(e.Bytes), total, timeutil.FormatRate(e.Rate))
	if e.Percent >= 0 {
		line = fmt.Sprintf("%.1f%% %s", e.Percent, line)
	}
	if e.ETA > 0 {
		line += fmt.Sprintf(", %s left", timeutil.FormatDuration(e.ETA))
	}
	return line
}
