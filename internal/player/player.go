// Package player is an interactive terminal player for a timeline: live
// preview, progress bar, playback keys and export.
package player

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ivlev/sig2gif/internal/export"
	"github.com/ivlev/sig2gif/internal/frame"
	"github.com/ivlev/sig2gif/internal/logging"
	"github.com/ivlev/sig2gif/internal/timeline"
)

const (
	frameInterval = time.Second / 30
	seekStep      = 0.05
	speedStep     = 1.25
	exportTimeout = 2 * time.Minute

	defaultWidth = 80
	maxPreview   = 96
)

var (
	primaryColor = lipgloss.Color("#7C3AED")
	successColor = lipgloss.Color("#10B981")
	errorColor   = lipgloss.Color("#EF4444")
	mutedColor   = lipgloss.Color("#6B7280")
	inkColor     = lipgloss.Color("#F9FAFB")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Foreground(inkColor).
			Padding(0, 1)

	statusStyle  = lipgloss.NewStyle().Foreground(mutedColor)
	successStyle = lipgloss.NewStyle().Foreground(successColor)
	errorStyle   = lipgloss.NewStyle().Foreground(errorColor)
)

// Options configures the player.
type Options struct {
	Title    string
	OutDir   string
	Formats  []export.Format
	Export   export.Options
	Autoplay bool
}

type tickMsg time.Time

type exportedMsg struct {
	files []string
	err   error
}

// Model is the bubbletea model. The timeline it drives must use the
// manual clock passed to New; the model advances it on every tick.
type Model struct {
	tl    *timeline.Timeline
	clock *frame.Manual
	exec  *executor
	exp   *export.Exporter
	opts  Options

	keys keyMap
	help help.Model
	bar  progress.Model

	start     time.Time
	width     int
	lines     []string
	exporting bool
	message   string
	err       error
}

// New creates a player for tl, which must be scheduled on clock.
func New(tl *timeline.Timeline, clock *frame.Manual, opts Options) *Model {
	if opts.Title == "" {
		opts.Title = "sig2gif"
	}
	if opts.OutDir == "" {
		opts.OutDir = "."
	}
	if len(opts.Formats) == 0 {
		opts.Formats = []export.Format{export.FormatSVG, export.FormatPNG, export.FormatGIF}
	}
	ex := newExecutor()
	m := &Model{
		tl:    tl,
		clock: clock,
		exec:  ex,
		exp:   export.New(tl, ex, opts.Export),
		opts:  opts,
		keys:  defaultKeys(),
		help:  help.New(),
		bar:   progress.New(progress.WithDefaultGradient()),
		start: time.Now(),
	}
	m.resize(defaultWidth)
	m.refresh()
	return m
}

// Run starts the program in the alternate screen and blocks until the user
// quits.
func (m *Model) Run() error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	m.exec.attach(p)
	defer m.exec.detach()
	_, err := p.Run()
	return err
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	if m.opts.Autoplay {
		m.tl.Play()
	}
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width)
		m.refresh()
		return m, nil

	case tickMsg:
		m.advance(time.Time(msg))
		return m, m.tick()

	case execMsg:
		msg.run()
		return m, nil

	case exportedMsg:
		m.exporting = false
		m.err = msg.err
		if msg.err == nil {
			m.message = "exported " + strings.Join(msg.files, ", ")
		} else if len(msg.files) > 0 {
			m.message = "partially exported " + strings.Join(msg.files, ", ")
		}
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	case m.exporting:
		// playback is suspended by the running export
		return nil
	case key.Matches(msg, m.keys.Toggle):
		m.tl.Toggle()
	case key.Matches(msg, m.keys.Reset):
		m.tl.Reset()
	case key.Matches(msg, m.keys.Back):
		m.tl.Seek(m.tl.Progress() - seekStep)
	case key.Matches(msg, m.keys.Forward):
		m.tl.Seek(m.tl.Progress() + seekStep)
	case key.Matches(msg, m.keys.Slower):
		m.tl.SetSpeed(m.tl.Speed() / speedStep)
	case key.Matches(msg, m.keys.Faster):
		m.tl.SetSpeed(m.tl.Speed() * speedStep)
	case key.Matches(msg, m.keys.Loop):
		m.tl.SetLoop(!m.tl.Loop())
	case key.Matches(msg, m.keys.Export):
		return m.exportCmd()
	default:
		return nil
	}
	m.refresh()
	return nil
}

// advance moves the manual clock to wall time and runs due frames.
func (m *Model) advance(now time.Time) {
	elapsed := float64(now.Sub(m.start).Microseconds()) / 1000
	m.clock.Step(elapsed)
	m.refresh()
}

func (m *Model) refresh() {
	scene, err := m.tl.Scene()
	if err != nil {
		logging.Logger().Debug("player: read scene", "err", err)
		return
	}
	lines, err := preview(scene, m.previewCols())
	if err != nil {
		logging.Logger().Debug("player: preview", "err", err)
		m.lines = nil
		return
	}
	m.lines = lines
}

// exportCmd writes every configured format in the background. Timeline
// access is routed back to Update through the executor.
func (m *Model) exportCmd() tea.Cmd {
	m.exporting = true
	m.err = nil
	m.message = "exporting..."
	exp, dir, formats := m.exp, m.opts.OutDir, m.opts.Formats
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()
		files, err := exp.Download(ctx, dir, formats...)
		return exportedMsg{files: files, err: err}
	}
}

func (m *Model) resize(width int) {
	if width <= 0 {
		width = defaultWidth
	}
	m.width = width
	m.bar.Width = max(10, min(width-4, 60))
	m.help.Width = width
}

func (m *Model) previewCols() int {
	return max(8, min(m.width-6, maxPreview))
}

// View implements tea.Model
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.opts.Title))
	b.WriteString("\n")

	body := strings.Join(m.lines, "\n")
	if body == "" {
		body = statusStyle.Render("(nothing to draw)")
	}
	b.WriteString(panelStyle.Render(body))
	b.WriteString("\n\n")

	b.WriteString(" ")
	b.WriteString(m.bar.ViewAs(m.tl.Progress()))
	b.WriteString("\n\n")

	loop := "off"
	if m.tl.Loop() {
		loop = "on"
	}
	status := fmt.Sprintf(" %s  %.0f/%.0f ms  speed %.2fx  loop %s",
		m.tl.State(), m.tl.Progress()*m.tl.Duration(), m.tl.Duration(), m.tl.Speed(), loop)
	b.WriteString(statusStyle.Render(status))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(" " + errorStyle.Render("[!] "+m.err.Error()))
		b.WriteString("\n")
	case m.message != "":
		b.WriteString(" " + successStyle.Render(m.message))
		b.WriteString("\n")
	}

	b.WriteString("\n ")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
