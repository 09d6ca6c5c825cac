// Package tui provides a Bubble Tea terminal user interface for albumart.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/albumart/internal/batch"
	"github.com/handiism/albumart/internal/config"
	"github.com/handiism/albumart/internal/model"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

// maxLogs is how many progress lines stay on screen.
const maxLogs = 10

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateRunning
	StateComplete
	StateError
)

// NormalizeMode is the tri-state normalize toggle.
type NormalizeMode int

const (
	// NormalizeAuto uses the mode default: off for folders, on for manifests.
	NormalizeAuto NormalizeMode = iota
	NormalizeOn
	NormalizeOff
)

func (n NormalizeMode) String() string {
	switch n {
	case NormalizeOn:
		return "on"
	case NormalizeOff:
		return "off"
	default:
		return "auto"
	}
}

func (n NormalizeMode) next() NormalizeMode {
	return (n + 1) % 3
}

func (n NormalizeMode) flag() *bool {
	var v bool
	switch n {
	case NormalizeOn:
		v = true
	case NormalizeOff:
		v = false
	default:
		return nil
	}
	return &v
}

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   batch.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	inputs   []textinput.Model
	focus    int
	spinner  spinner.Model
	progress progress.Model
	settings *config.Settings
	logs     []LogEntry
	err      error

	// Run context
	ctx    context.Context
	cancel context.CancelFunc

	manager *batch.Manager
	events  chan batch.ProgressEvent
	job     config.Job
	stats   batch.Stats

	processedFiles int32
	totalFiles     int32

	// Options
	normalize NormalizeMode
	verbose   bool

	width  int
	height int
}

// NewModel creates a new TUI model. A nil settings means defaults.
func NewModel(settings *config.Settings) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}

	source := textinput.New()
	source.Placeholder = "/music/album1  or  albums.csv"
	source.Focus()
	source.CharLimit = 1024
	source.Width = 60

	art := textinput.New()
	art.Placeholder = "/art/cover.png  (leave empty for a manifest)"
	art.CharLimit = 1024
	art.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:    StateInput,
		inputs:   []textinput.Model{source, art},
		spinner:  sp,
		progress: prog,
		settings: settings,
		logs:     make([]LogEntry, 0),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg carries one event from the running manager.
	ProgressMsg struct {
		Event batch.ProgressEvent
	}

	// DoneMsg is sent when the run returns.
	DoneMsg struct {
		Stats batch.Stats
		Err   error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateRunning {
				m.cancel()
			}
			return m, nil

		case "tab", "shift+tab", "up", "down":
			if m.state == StateInput {
				m.setFocus(1 - m.focus)
			}
			return m, nil

		case "enter":
			if m.state == StateInput {
				return m.start()
			}
			return m, nil

		case "ctrl+n":
			if m.state == StateInput {
				m.normalize = m.normalize.next()
			}
			return m, nil

		case "ctrl+o":
			if m.state == StateInput {
				m.verbose = !m.verbose
			}
			return m, nil

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				m.reset()
				return m, textinput.Blink
			}
		}

		if m.state == StateInput {
			var cmd tea.Cmd
			m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
			cmds = append(cmds, cmd)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		if m.events != nil {
			cmds = append(cmds, waitForEvent(m.events))
		}
		if msg.Event.Level == batch.LevelVerbose && !m.verbose {
			break
		}
		m.logs = append(m.logs, LogEntry{Message: msg.Event.Message, Level: msg.Event.Level})
		if len(m.logs) > maxLogs {
			m.logs = m.logs[len(m.logs)-maxLogs:]
		}

	case DoneMsg:
		m.stats = msg.Stats
		if m.manager != nil {
			m.processedFiles, m.totalFiles = m.manager.GetProgress()
		}
		switch {
		case errors.Is(msg.Err, context.Canceled):
			m.state = StateError
			m.err = errors.New("cancelled by user")
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
		}

	case TickMsg:
		if m.manager != nil && m.state == StateRunning {
			m.processedFiles, m.totalFiles = m.manager.GetProgress()
			cmds = append(cmds, m.progress.SetPercent(m.percent()), tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)

	default:
		if m.state == StateInput {
			var cmd tea.Cmd
			m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// Job builds the job described by the current inputs.
func (m Model) Job() (config.Job, error) {
	args := []string{strings.TrimSpace(m.inputs[0].Value())}
	if art := strings.TrimSpace(m.inputs[1].Value()); art != "" {
		args = append(args, art)
	}
	return config.NewJob(args, m.normalize.flag())
}

// start validates the inputs and launches the manager.
func (m Model) start() (tea.Model, tea.Cmd) {
	job, err := m.Job()
	if err != nil {
		m.state = StateError
		m.err = err
		return m, nil
	}

	events := make(chan batch.ProgressEvent, 64)
	manager := batch.NewManager(m.settings, func(e batch.ProgressEvent) {
		events <- e
	})

	m.job = job
	m.events = events
	m.manager = manager
	m.state = StateRunning
	for i := range m.inputs {
		m.inputs[i].Blur()
	}

	ctx := m.ctx
	run := func() tea.Msg {
		err := manager.Run(ctx, job)
		close(events)
		return DoneMsg{Stats: manager.Stats(), Err: err}
	}

	return m, tea.Batch(run, waitForEvent(events), tickProgress(), m.spinner.Tick)
}

func (m *Model) reset() {
	m.state = StateInput
	m.logs = nil
	m.err = nil
	m.manager = nil
	m.events = nil
	m.stats = batch.Stats{}
	m.processedFiles = 0
	m.totalFiles = 0
	m.ctx, m.cancel = context.WithCancel(context.Background())
	for i := range m.inputs {
		m.inputs[i].SetValue("")
	}
	m.setFocus(0)
}

func (m *Model) setFocus(i int) {
	m.focus = i
	for j := range m.inputs {
		if j == i {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
}

func (m Model) percent() float64 {
	if m.totalFiles == 0 {
		return 0
	}
	return float64(m.processedFiles) / float64(m.totalFiles)
}

// waitForEvent reads the next manager event. A closed channel yields no
// message.
func waitForEvent(events <-chan batch.ProgressEvent) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return nil
		}
		return ProgressMsg{Event: e}
	}
}

// tickProgress returns a command to tick progress updates.
func tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("🎵 albumart"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Embed cover art into MP3 files"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateRunning:
		b.WriteString(m.viewRunning())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("MP3 folder or manifest:"))
	b.WriteString("\n")
	b.WriteString(m.inputs[0].View())
	b.WriteString("\n\n")
	b.WriteString(subtitleStyle.Render("Art image or URL:"))
	b.WriteString("\n")
	b.WriteString(m.inputs[1].View())
	b.WriteString("\n\n")

	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[×]"
	}

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  [%s] Normalize to %dx%d PNG (ctrl+n)\n", m.normalize, m.settings.CoverSize, m.settings.CoverSize))
	b.WriteString(fmt.Sprintf("  %s Verbose output (ctrl+o)\n", verboseCheck))

	return b.String()
}

func (m Model) viewRunning() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	switch m.job.Mode {
	case config.ModeManifest:
		b.WriteString(subtitleStyle.Render("Processing manifest " + m.job.Manifest))
	default:
		b.WriteString(subtitleStyle.Render("Tagging " + model.Target{Folder: m.job.Folder}.Name()))
	}
	b.WriteString("\n\n")

	b.WriteString(m.progress.ViewAs(m.percent()))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Files: %d/%d", m.processedFiles, m.totalFiles)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	box := boxStyle.Render(fmt.Sprintf(
		"✨ Processing completed\n\n"+
			"Folders: %d (%d skipped)\n"+
			"Tagged:  %d\n"+
			"Failed:  %d",
		m.stats.Targets,
		m.stats.Skipped,
		m.stats.Tagged,
		m.stats.Failed,
	))
	b.WriteString(box)
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("❌ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
		b.WriteString("\n\n")
	}
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case batch.LevelError:
			style = errorStyle
			prefix = "✗"
		case batch.LevelWarning:
			style = warningStyle
			prefix = "!"
		case batch.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case batch.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) helpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • tab: switch field • ctrl+n: normalize • ctrl+o: verbose • esc: quit"
	case StateRunning:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new run • q: quit"
	}
	return ""
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
