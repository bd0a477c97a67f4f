package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"sveltedoctor/internal/driver"
)

// recentFiles is how many file rows stay on screen.
const recentFiles = 8

type progressModel struct {
	title      string
	events     <-chan driver.Event
	spinner    spinner.Model
	prog       progress.Model
	items      []fileItem // most recent last
	index      map[string]int
	total      int
	finished   int
	findings   int
	stageLabel string
	width      int
	done       bool
}

type fileItem struct {
	path     string
	status   string
	findings int
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders scan progress
// from driver events until the channel is closed.
func NewProgressModel(title string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	return &progressModel{
		title:      title,
		events:     events,
		spinner:    sp,
		prog:       prog,
		index:      make(map[string]int),
		stageLabel: "scanning",
		width:      80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(driver.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.stageLabel != "" {
		header = fmt.Sprintf("%s (%s)", header, m.stageLabel)
	}
	if m.done {
		header = fmt.Sprintf("done: %s", header)
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %d/%d files, %d finding(s)\n\n", m.finished, m.total, m.findings)

	statusWidth := 12
	nameWidth := m.width - statusWidth - 4
	if nameWidth < 20 {
		nameWidth = 20
	}
	for _, item := range m.items {
		name := truncate(item.path, nameWidth)
		status := item.status
		if item.status == "done" && item.findings > 0 {
			status = fmt.Sprintf("%d issue(s)", item.findings)
		}
		statusStyled := styleStatus(item).Render(fmt.Sprintf("%12s", status))
		b.WriteString(fmt.Sprintf("  %s %s\n", statusStyled, name))
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	if ev.File == "" {
		switch {
		case ev.Stage == driver.StageScan && ev.Status == driver.StatusDone:
			m.total = ev.Total
			m.stageLabel = "analyzing"
		case ev.Stage == driver.StageFix:
			m.stageLabel = "fixing"
		case ev.Stage == driver.StageScore:
			m.stageLabel = "scoring"
		}
		return nil
	}
	if ev.Stage != driver.StageAnalyze {
		return nil
	}

	item := m.track(ev.File)
	item.status = statusLabel(ev.Status)
	if ev.Status == driver.StatusDone || ev.Status == driver.StatusError {
		item.findings = ev.Diagnostics
		m.finished++
		m.findings += ev.Diagnostics
	}
	if m.total == 0 {
		return nil
	}
	return m.prog.SetPercent(float64(m.finished) / float64(m.total))
}

// track returns the row for path, adding it and evicting the oldest finished
// row when the window is full.
func (m *progressModel) track(path string) *fileItem {
	if i, ok := m.index[path]; ok {
		return &m.items[i]
	}
	if len(m.items) >= recentFiles {
		evict := 0
		for i, it := range m.items {
			if it.status == "done" || it.status == "error" {
				evict = i
				break
			}
		}
		m.items = append(m.items[:evict], m.items[evict+1:]...)
	}
	m.items = append(m.items, fileItem{path: path})
	m.reindex()
	return &m.items[len(m.items)-1]
}

func (m *progressModel) reindex() {
	clear(m.index)
	for i, it := range m.items {
		m.index[it.path] = i
	}
}

func statusLabel(status driver.Status) string {
	switch status {
	case driver.StatusWorking:
		return "analyzing"
	case driver.StatusDone:
		return "done"
	case driver.StatusError:
		return "error"
	default:
		return ""
	}
}

func styleStatus(item fileItem) lipgloss.Style {
	switch {
	case item.status == "error":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case item.status == "done" && item.findings > 0:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	case item.status == "done":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case item.status == "analyzing":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
