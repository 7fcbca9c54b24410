package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	playbackin "storydeck/internal/modules/playback/port/in"
	progressdto "storydeck/internal/modules/progress/dto"
	"storydeck/internal/ui/components"
	"storydeck/internal/ui/theme"
	chaptersview "storydeck/internal/ui/views/chapters"
	playerview "storydeck/internal/ui/views/player"
)

type playerPort interface {
	Open(ctx context.Context, chapterID string, resume bool) (playbackin.Session, error)
	SetVolume(volume float64) float64
}

type progressPort interface {
	Progress(ctx context.Context) (progressdto.ProgressOutput, error)
	SetName(ctx context.Context, name string) (progressdto.ProgressOutput, error)
	Reset(ctx context.Context) error
	Certificate(ctx context.Context, write bool) (progressdto.CertificateOutput, error)
}

type screen int

const (
	screenChapters screen = iota
	screenPlayer
)

type progressLoadedMsg struct {
	progress progressdto.ProgressOutput
	err      error
}

type sessionOpenedMsg struct {
	session playbackin.Session
	err     error
}

type statusMsg struct{ text string }

type keyMap struct {
	Play    key.Binding
	Resume  key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Play:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play chapter")),
		Resume:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "resume chapter")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Play, k.Resume},
		{k.Help, k.Palette, k.Quit},
	}
}

// Model is the root Bubble Tea model. It switches between the chapter list
// and the player, and owns the status bar, help overlay and command palette.
type Model struct {
	player   playerPort
	progress progressPort
	volume   float64

	chapters   chaptersview.Model
	playerView playerview.Model
	screen     screen

	keys     keyMap
	help     help.Model
	showHelp bool
	palette  components.Palette
	snapshot progressdto.ProgressOutput
	status   string
	width    int
	height   int
}

func NewModel(chapters chaptersview.Port, player playerPort, progress progressPort, volume float64) Model {
	return Model{
		player:   player,
		progress: progress,
		volume:   volume,
		chapters: chaptersview.New(chapters),
		screen:   screenChapters,
		keys:     defaultKeys(),
		help:     help.New(),
		palette:  components.NewPalette(),
		status:   "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.chapters.Init(), m.loadProgressCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case progressLoadedMsg:
		if msg.err != nil {
			m.status = "progress: " + msg.err.Error()
		} else {
			m.snapshot = msg.progress
		}
		return m, nil

	case statusMsg:
		m.status = msg.text
		return m, tea.Batch(m.chapters.Reload(), m.loadProgressCmd())

	case sessionOpenedMsg:
		if msg.err != nil {
			m.status = "open chapter: " + msg.err.Error()
			return m, nil
		}
		m.playerView = playerview.New(msg.session, m.player, m.volume)
		m.playerView, _ = m.playerView.Update(m.contentSize())
		m.screen = screenPlayer
		m.status = "playing " + msg.session.Snapshot().Title
		return m, m.playerView.Init()

	case playerview.ExitMsg:
		m.screen = screenChapters
		m.status = "ready"
		return m, tea.Batch(m.chapters.Reload(), m.loadProgressCmd())

	case playerview.CompletedMsg:
		if msg.Err != nil {
			m.status = "complete chapter: " + msg.Err.Error()
			return m, nil
		}
		m.screen = screenChapters
		m.status = fmt.Sprintf("chapter complete, story %.0f%% done", msg.Result.TotalProgress)
		if msg.Result.Certified {
			m.status += ". Certified! Open the palette and run certificate."
		}
		return m, tea.Batch(m.chapters.Reload(), m.loadProgressCmd())

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.screen == screenPlayer {
			break
		}
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.chapters.Filtering() {
			break
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "?":
			m.showHelp = true
			return m, nil
		case ":":
			return m, m.palette.Open()
		case "enter":
			return m, m.openSelected(false)
		case "r":
			return m, m.openSelected(true)
		}
	}

	var cmd tea.Cmd
	switch m.screen {
	case screenChapters:
		m.chapters, cmd = m.chapters.Update(msg)
	case screenPlayer:
		m.playerView, cmd = m.playerView.Update(msg)
	}
	return m, cmd
}

func (m Model) View() string {
	status := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(status), 1)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.screen == screenPlayer:
		content = m.playerView.View()
	default:
		content = m.chapters.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, content, status)
}

func (m Model) renderStatusBar() string {
	left := m.status
	name := m.snapshot.UserName
	if name == "" {
		name = "guest"
	}
	right := theme.Muted.Render(fmt.Sprintf("%s  %.0f%%", name, m.snapshot.TotalProgress))
	if m.snapshot.IsCertified {
		right = theme.Good.Render("certified") + "  " + right
	}
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}
	switch parts[0] {
	case "name":
		return m, m.setNameCmd(strings.TrimSpace(strings.TrimPrefix(input, parts[0])))

	case "volume":
		if len(parts) < 2 {
			m.status = fmt.Sprintf("volume %.0f%%", m.volume*100)
			return m, nil
		}
		pct, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			m.status = "usage: volume <0-100>"
			return m, nil
		}
		m.volume = m.player.SetVolume(pct / 100)
		m.status = fmt.Sprintf("volume %.0f%%", m.volume*100)
		return m, nil

	case "progress":
		s := m.snapshot
		m.status = fmt.Sprintf("%d chapters done, %.0f%%, badges: %s", len(s.CompletedChapters), s.TotalProgress, strings.Join(s.Badges, ", "))
		return m, nil

	case "certificate":
		return m, m.certificateCmd()

	case "resume":
		return m, m.openSelected(true)

	case "reset":
		return m, m.resetCmd()

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

func (m *Model) propagateSize() {
	size := m.contentSize()
	m.chapters, _ = m.chapters.Update(size)
	if m.screen == screenPlayer {
		m.playerView, _ = m.playerView.Update(size)
	}
}

func (m Model) contentSize() tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: m.width, Height: m.height - 2}
}

func (m Model) openSelected(resume bool) tea.Cmd {
	chapter, ok := m.chapters.Selected()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		session, err := m.player.Open(context.Background(), chapter.ID, resume)
		return sessionOpenedMsg{session: session, err: err}
	}
}

func (m Model) loadProgressCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.progress.Progress(context.Background())
		return progressLoadedMsg{progress: out, err: err}
	}
}

func (m Model) setNameCmd(name string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.progress.SetName(context.Background(), name)
		if err != nil {
			return statusMsg{text: "name: " + err.Error()}
		}
		if out.UserName == "" {
			return statusMsg{text: "display name cleared"}
		}
		return statusMsg{text: "display name set to " + out.UserName}
	}
}

func (m Model) resetCmd() tea.Cmd {
	return func() tea.Msg {
		if err := m.progress.Reset(context.Background()); err != nil {
			return statusMsg{text: "reset: " + err.Error()}
		}
		return statusMsg{text: "progress reset"}
	}
}

func (m Model) certificateCmd() tea.Cmd {
	return func() tea.Msg {
		cert, err := m.progress.Certificate(context.Background(), true)
		if err != nil {
			return statusMsg{text: "certificate: " + err.Error()}
		}
		return statusMsg{text: fmt.Sprintf("certificate %s written to %s", cert.ID, cert.Path)}
	}
}
