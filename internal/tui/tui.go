// Package tui renders the long-running pipeline stages with Bubble Tea.
package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"

	"github.com/handiism/ytmp3/internal/download"
	"github.com/handiism/ytmp3/internal/report"
)

const accent = lipgloss.Color("#FF6B6B")

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(accent)
	subtitleStyle = fg("#4ECDC4")
	successStyle  = fg("#95E1A3")
	errorStyle    = lipgloss.NewStyle().Foreground(accent)
	warningStyle  = fg("#FFE66D")
	infoStyle     = fg("#A8DADC")
	dimStyle      = fg("#6C757D")
)

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// maxLogs is how many messages stay visible under the progress bar.
const maxLogs = 5

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Message types
type (
	// eventMsg forwards a pipeline event to the running program.
	eventMsg struct {
		Event download.ProgressEvent
	}

	// doneMsg is sent when the stage returns.
	doneMsg struct {
		Err error
	}
)

// stageModel is the Bubble Tea model shown while one stage runs.
type stageModel struct {
	stage    download.Stage
	spinner  spinner.Model
	progress progress.Model
	last     download.ProgressEvent
	logs     []LogEntry

	cancel    context.CancelFunc
	done      bool
	cancelled bool
	err       error
}

func newStageModel(stage download.Stage, cancel context.CancelFunc) stageModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(accent)

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	return stageModel{
		stage:    stage,
		spinner:  sp,
		progress: prog,
		last:     download.ProgressEvent{Stage: stage, Percent: -1},
		cancel:   cancel,
	}
}

func (m stageModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m stageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case eventMsg:
		ev := msg.Event
		switch ev.Level {
		case download.LevelProgress:
			m.last = ev
			if ev.Percent >= 0 {
				return m, m.progress.SetPercent(ev.Percent / 100)
			}
		case download.LevelVerbose:
		default:
			m.logs = append(m.logs, LogEntry{Message: ev.Message, Level: ev.Level})
			if len(m.logs) > maxLogs {
				m.logs = m.logs[len(m.logs)-maxLogs:]
			}
		}

	case doneMsg:
		m.done = true
		m.err = msg.Err
		return m, tea.Quit

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd
	}

	return m, nil
}

func (m stageModel) View() string {
	var b strings.Builder

	switch {
	case m.cancelled:
		b.WriteString(errorStyle.Render("✗ Cancelled " + m.stage.String()))
	case m.done && m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s failed", m.stage)))
	case m.done:
		b.WriteString(successStyle.Render("✓ " + pastTense(m.stage)))
	default:
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(titleStyle.Render(presentTense(m.stage)))
	}
	b.WriteString("\n")

	if m.last.Percent >= 0 {
		pct := m.last.Percent / 100
		if m.done && m.err == nil {
			pct = 1
		}
		b.WriteString(m.progress.ViewAs(pct))
		b.WriteString("\n")
	}
	if stats := m.stats(); stats != "" {
		b.WriteString(infoStyle.Render(stats))
		b.WriteString("\n")
	}

	b.WriteString(m.renderLogs())

	if !m.done && !m.cancelled {
		b.WriteString(dimStyle.Render("ctrl+c: cancel"))
		b.WriteString("\n")
	}
	return b.String()
}

func (m stageModel) stats() string {
	if m.stage != download.StageDownload || m.last.Bytes == 0 {
		return ""
	}
	return report.ProgressLine(m.last)
}

// logGlyphs pairs each level with its style and marker in the log list.
var logGlyphs = map[download.ProgressLevel]struct {
	style  lipgloss.Style
	marker string
}{
	download.LevelError:   {errorStyle, "✗"},
	download.LevelWarning: {warningStyle, "!"},
	download.LevelSuccess: {successStyle, "✓"},
	download.LevelInfo:    {subtitleStyle, "›"},
}

func (m stageModel) renderLogs() string {
	var b strings.Builder
	for _, entry := range m.logs {
		g, ok := logGlyphs[entry.Level]
		if !ok {
			g.style, g.marker = dimStyle, "•"
		}
		fmt.Fprintln(&b, g.style.Render(g.marker+" "+entry.Message))
	}
	return b.String()
}

func presentTense(stage download.Stage) string {
	switch stage {
	case download.StageDownload:
		return "Downloading"
	case download.StageTranscode:
		return "Transcoding"
	}
	return "Working"
}

func pastTense(stage download.Stage) string {
	switch stage {
	case download.StageDownload:
		return "Downloaded"
	case download.StageTranscode:
		return "Transcoded"
	}
	return "Done"
}

// Display shows pipeline events on the console.
//
// When interactive, the download and transcode stages each run under
// their own Bubble Tea program with a progress bar. Every other stage,
// and every stage when not interactive, is printed line by line through
// a report.Logger.
type Display struct {
	in          io.Reader
	out         io.Writer
	log         *report.Logger
	interactive bool

	mu      sync.Mutex
	program *tea.Program
}

// NewDisplay creates a Display reading keys from in and drawing to out.
func NewDisplay(in io.Reader, out io.Writer, log *report.Logger, interactive bool) *Display {
	return &Display{in: in, out: out, log: log, interactive: interactive}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Handle receives pipeline events. It is safe for concurrent use.
func (d *Display) Handle(ev download.ProgressEvent) {
	d.mu.Lock()
	p := d.program
	d.mu.Unlock()

	if p != nil {
		p.Send(eventMsg{Event: ev})
		return
	}
	d.log.Event(ev)
}

// RunStage runs stage inline, or next to a Bubble Tea program for the
// download and transcode stages when interactive. Quitting the program
// cancels the stage.
func (d *Display) RunStage(ctx context.Context, stage download.Stage, run func(ctx context.Context) error) error {
	if !d.interactive || (stage != download.StageDownload && stage != download.StageTranscode) {
		return run(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newStageModel(stage, cancel),
		tea.WithInput(d.in),
		tea.WithOutput(d.out),
		tea.WithoutSignalHandler(),
	)
	d.setProgram(p)
	defer d.setProgram(nil)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := run(gctx)
		p.Send(doneMsg{Err: err})
		return err
	})
	g.Go(func() error {
		final, err := p.Run()
		if err != nil {
			cancel()
			return fmt.Errorf("terminal UI: %w", err)
		}
		if m, ok := final.(stageModel); ok && m.cancelled {
			return context.Canceled
		}
		return nil
	})
	return g.Wait()
}

func (d *Display) setProgram(p *tea.Program) {
	d.mu.Lock()
	d.program = p
	d.mu.Unlock()
}
