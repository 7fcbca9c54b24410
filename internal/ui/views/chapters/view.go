package chapters

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	storydto "storydeck/internal/modules/story/dto"
	"storydeck/internal/ui/theme"
)

type Port interface {
	Chapters(ctx context.Context) ([]storydto.ChapterSummary, error)
}

type LoadedMsg struct {
	Chapters []storydto.ChapterSummary
	Err      error
}

type chapterItem struct {
	chapter storydto.ChapterSummary
}

func (i chapterItem) Title() string {
	switch {
	case i.chapter.Completed:
		return "✓ " + i.chapter.Title
	case !i.chapter.Unlocked:
		return "🔒 " + i.chapter.Title
	}
	return "  " + i.chapter.Title
}

func (i chapterItem) Description() string {
	return fmt.Sprintf("%d slides  %s", i.chapter.SlideCount, formatDuration(i.chapter.Duration))
}

func (i chapterItem) FilterValue() string { return i.chapter.Title }

type Model struct {
	port    Port
	list    list.Model
	preview viewport.Model
	spinner spinner.Model
	loading bool
	err     error
	width   int
	height  int
}

func New(port Port) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Chapters"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:    port,
		list:    l,
		preview: vp,
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

// Reload fetches chapter summaries again, picking up new unlock state.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		chapters, err := m.port.Chapters(context.Background())
		return LoadedMsg{Chapters: chapters, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case LoadedMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err != nil {
			return m, nil
		}
		items := make([]list.Item, len(msg.Chapters))
		for i, c := range msg.Chapters {
			items[i] = chapterItem{chapter: c}
		}
		cmds = append(cmds, m.list.SetItems(items))
		m.list.Select(firstOpen(msg.Chapters))
		m.preview.SetContent(m.renderDetail())

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.loading {
		prev := m.list.Index()
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
		if m.list.Index() != prev {
			m.preview.SetContent(m.renderDetail())
		}
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading chapters…")
	}
	if m.err != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Hot.Render("Could not load chapters: "+m.err.Error()))
	}

	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.preview.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

func (m Model) Selected() (storydto.ChapterSummary, bool) {
	if item, ok := m.list.SelectedItem().(chapterItem); ok {
		return item.chapter, true
	}
	return storydto.ChapterSummary{}, false
}

// Filtering reports whether the list filter is taking keystrokes.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.preview.Width = detailW - 4
	m.preview.Height = m.height - 4
}

func (m Model) renderDetail() string {
	c, ok := m.Selected()
	if !ok {
		return theme.Muted.Render("No chapters in the catalog")
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(c.Title) + "\n\n")
	if c.Description != "" {
		sb.WriteString(c.Description + "\n\n")
	}
	sb.WriteString(theme.Muted.Render("chapter: ") + fmt.Sprintf("%d", c.Ordinal) + "\n")
	sb.WriteString(theme.Muted.Render("slides:  ") + fmt.Sprintf("%d", c.SlideCount) + "\n")
	sb.WriteString(theme.Muted.Render("length:  ") + formatDuration(c.Duration) + "\n")
	switch {
	case c.Completed:
		sb.WriteString(theme.Good.Render("completed") + "\n")
	case c.Unlocked:
		sb.WriteString(theme.Hot.Render("unlocked") + "\n")
	default:
		sb.WriteString(theme.Muted.Render("locked: finish the previous chapter first") + "\n")
	}
	if c.Thumbnail != "" {
		sb.WriteString(theme.Muted.Render("cover:   ") + c.Thumbnail + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("enter: play  r: resume  :: command"))
	return sb.String()
}

func firstOpen(chapters []storydto.ChapterSummary) int {
	for i, c := range chapters {
		if c.Unlocked && !c.Completed {
			return i
		}
	}
	return 0
}

func formatDuration(d time.Duration) string {
	return d.Round(time.Second).String()
}
