package player

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	playbackdto "storydeck/internal/modules/playback/dto"
	playbackin "storydeck/internal/modules/playback/port/in"
	"storydeck/internal/ui/theme"
)

const volumeStep = 0.1

// TimerMsg carries an autoplay deadline from the session's timer channel.
type TimerMsg struct {
	Token  uint64
	Closed bool
}

// CompletedMsg reports the outcome of recording the chapter as finished.
type CompletedMsg struct {
	Result playbackdto.CompletionOutput
	Err    error
}

// ExitMsg asks the app to leave the player.
type ExitMsg struct{}

type VolumePort interface {
	SetVolume(volume float64) float64
}

type Model struct {
	session playbackin.Session
	volume  VolumePort
	level   float64
	bar     progress.Model
	title   cases.Caser
	status  string
	width   int
	height  int
}

func New(session playbackin.Session, volume VolumePort, level float64) Model {
	bar := progress.New(progress.WithGradient(string(theme.Lavender), string(theme.Sapphire)), progress.WithoutPercentage())
	return Model{
		session: session,
		volume:  volume,
		level:   level,
		bar:     bar,
		title:   cases.Title(language.English),
	}
}

func (m Model) Init() tea.Cmd {
	return waitForTimer(m.session.Timer())
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(msg.Width-4, 10)

	case TimerMsg:
		if msg.Closed {
			return m, nil
		}
		m.session.Tick(msg.Token)
		return m, waitForTimer(m.session.Timer())

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		// Shift+wheel moves whole slides, the plain wheel steps subtitles.
		switch msg.Button {
		case tea.MouseButtonWheelDown:
			if msg.Shift {
				m.scrollSlides(1)
			} else {
				m.session.HandleWheel(1)
			}
		case tea.MouseButtonWheelUp:
			if msg.Shift {
				m.scrollSlides(-1)
			} else {
				m.session.HandleWheel(-1)
			}
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "+", "=":
			m.setVolume(m.level + volumeStep)
			return m, nil
		case "-":
			m.setVolume(m.level - volumeStep)
			return m, nil
		case "pgdown":
			m.scrollSlides(1)
			return m, nil
		case "pgup":
			m.scrollSlides(-1)
			return m, nil
		}
		if n, ok := slideNumber(msg.String()); ok {
			m.session.HandleScroll(n - 1)
			return m, nil
		}
		switch m.session.HandleKey(msg.String()) {
		case playbackdto.ActionExit:
			m.session.Close()
			return m, func() tea.Msg { return ExitMsg{} }
		case playbackdto.ActionComplete:
			// Sessions are single-goroutine, so completion runs on the update loop.
			result, err := m.session.Complete(context.Background())
			if err != nil {
				m.status = "could not save progress: " + err.Error()
			}
			return m, func() tea.Msg { return CompletedMsg{Result: result, Err: err} }
		}
	}
	return m, nil
}

func (m Model) scrollSlides(delta int) {
	m.session.HandleScroll(m.session.Snapshot().SlideIndex + delta)
}

// slideNumber maps the keys 1-9 to a one-based slide number.
func slideNumber(key string) (int, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return 0, false
	}
	return int(key[0] - '0'), true
}

func (m *Model) setVolume(v float64) {
	if m.volume == nil {
		return
	}
	m.level = m.volume.SetVolume(v)
	m.status = fmt.Sprintf("volume %.0f%%", m.level*100)
}

func (m Model) View() string {
	snap := m.session.Snapshot()
	header := m.renderHeader(snap)
	footer := m.renderFooter(snap)
	bodyH := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 1)

	var body string
	if snap.AtEnd {
		body = m.renderEnd(snap)
	} else {
		body = m.renderSlide(snap)
	}
	body = lipgloss.Place(m.width, bodyH, lipgloss.Center, lipgloss.Center, body)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) renderHeader(snap playbackdto.SessionSnapshot) string {
	flags := []string{
		flag("autoplay", snap.Autoplay),
		flag("audio", snap.AudioEnabled),
		flag("captions", snap.SubtitlesVisible),
	}
	position := fmt.Sprintf("slide %d/%d", min(snap.SlideIndex+1, snap.SlideCount), snap.SlideCount)
	return theme.Title.Render(snap.Title) + "  " + theme.Muted.Render(position) + "  " + strings.Join(flags, " ") + "\n"
}

func (m Model) renderSlide(snap playbackdto.SessionSnapshot) string {
	image := theme.Pane.Width(max(m.width/2, 20)).Render(theme.Muted.Render("[ " + filepath.Base(snap.Image) + " ]"))
	if !snap.SubtitlesVisible || snap.Text == "" {
		return image
	}
	line := snap.Text
	if snap.Speaker != "" {
		line = theme.Speaker(snap.Speaker).Render(m.title.String(snap.Speaker)+":") + " " + line
	}
	if snap.HasAudio {
		line += theme.Muted.Render("  ♪")
	}
	counter := theme.Muted.Render(fmt.Sprintf("%d/%d", snap.SubtitleIndex+1, snap.SubtitleCount))
	caption := theme.Subtitle.Width(max(m.width-8, 20)).Render(line + "  " + counter)
	return lipgloss.JoinVertical(lipgloss.Center, image, "", caption)
}

func (m Model) renderEnd(snap playbackdto.SessionSnapshot) string {
	return lipgloss.JoinVertical(lipgloss.Center,
		theme.Good.Render("End of "+snap.Title),
		"",
		theme.Muted.Render("enter: mark chapter complete   esc: back to chapters"),
	)
}

func (m Model) renderFooter(snap playbackdto.SessionSnapshot) string {
	fraction := 0.0
	if snap.SlideCount > 0 {
		fraction = float64(snap.SlideIndex) / float64(snap.SlideCount)
	}
	keys := "←/→ step  pgup/pgdn slide  1-9 jump  space autoplay  a audio  c captions  +/- volume  esc back"
	status := m.status
	if status == "" {
		status = keys
	}
	return "\n" + m.bar.ViewAs(fraction) + "\n" + theme.Muted.Render(status)
}

func flag(name string, on bool) string {
	if on {
		return theme.Hot.Render(name)
	}
	return theme.Muted.Render(name)
}

func waitForTimer(ch <-chan uint64) tea.Cmd {
	return func() tea.Msg {
		token, ok := <-ch
		return TimerMsg{Token: token, Closed: !ok}
	}
}
