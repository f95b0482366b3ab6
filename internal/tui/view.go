package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

func (m *model) View() string {
	if m.helpVisible && m.stage != stageUpload {
		return joinNonEmpty([]string{m.heroView(), m.helpView(), m.legendView()})
	}
	switch m.stage {
	case stagePrograms:
		return m.viewPrograms()
	case stageSubjects:
		return m.viewSubjects()
	case stageUpload:
		return m.viewUpload()
	case stageUploadDone:
		return m.viewUploadDone()
	case stagePreview:
		return m.viewPreview()
	default:
		return ""
	}
}

func (m *model) viewPrograms() string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("Programs"))
	b.WriteRune('\n')
	for idx, p := range m.config.Catalog.Programs() {
		label := fmt.Sprintf("  %s", p.Name)
		if idx == m.programCursor {
			label = currentLineStyle.Render("▸ " + p.Name)
		}
		b.WriteString(label)
		b.WriteRune('\n')
	}
	return joinNonEmpty([]string{m.heroView(), b.String(), m.statusView(), m.legendView()})
}

func (m *model) viewSubjects() string {
	return joinNonEmpty([]string{m.heroView(), m.semesterTabsView(), m.list.View(), m.statusView(), m.legendView()})
}

func (m *model) viewUpload() string {
	var body string
	switch {
	case m.submitting:
		body = helperStyle.Render(fmt.Sprintf("%s Uploading…", m.spinner.View()))
	case m.form != nil:
		body = m.form.View()
	}
	return joinNonEmpty([]string{
		sectionHeaderStyle.Render("Upload a resource"),
		body,
		m.statusView(),
	})
}

func (m *model) viewUploadDone() string {
	lines := []string{
		successTitleStyle.Render("Upload Successful!"),
		"Your resource has been sent for review.",
	}
	if m.lastAck.RequestID != "" {
		lines = append(lines, helperStyle.Render("Request "+m.lastAck.RequestID))
	}
	lines = append(lines, helperStyle.Render("Press enter to continue."))
	return joinNonEmpty([]string{m.heroView(), modalBoxStyle.Render(strings.Join(lines, "\n"))})
}

func (m *model) viewPreview() string {
	title := sectionHeaderStyle.Render("Preview")
	link := helperStyle.Render(wordwrap.String(m.previewLink, m.wrapWidth(2)))
	return joinNonEmpty([]string{title + "\n" + link, m.preview.View(), m.statusView(), m.legendView()})
}

func (m *model) heroView() string {
	title := heroTitleStyle.Render("BE Notes")
	if p, ok := m.nav.Program(); ok && m.stage != stagePrograms {
		title = lipgloss.JoinHorizontal(lipgloss.Top, title, subtitleStyle.Render("  "+p.Name))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, taglineStyle.Render(heroTagline))
}

func (m *model) semesterTabsView() string {
	buttons := m.nav.SemesterButtons()
	cells := make([]string, 0, len(buttons))
	for _, b := range buttons {
		label := fmt.Sprintf("Sem %d", b.Number)
		if b.Active {
			cells = append(cells, activeTabStyle.Render(label))
			continue
		}
		cells = append(cells, tabStyle.Render(label))
	}
	// Eight tabs do not fit narrow terminals on one line.
	if m.layout.windowWidth > 0 && lipgloss.Width(strings.Join(cells, "")) > m.layout.viewportWidth {
		half := len(cells) / 2
		return lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.JoinHorizontal(lipgloss.Top, cells[:half]...),
			lipgloss.JoinHorizontal(lipgloss.Top, cells[half:]...),
		)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func (m *model) statusView() string {
	parts := []string{}
	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(wordwrap.String(m.errorMessage, m.wrapWidth(0))))
	}
	if m.infoMessage != "" {
		message := m.infoMessage
		if m.needsSpinner() {
			message = fmt.Sprintf("%s %s", m.spinner.View(), message)
		}
		parts = append(parts, helperStyle.Render(wordwrap.String(message, m.wrapWidth(0))))
	}
	return strings.Join(parts, "\n")
}

type keyHint struct {
	key  string
	desc string
}

func (m *model) legendView() string {
	var hints []keyHint
	switch m.stage {
	case stagePrograms:
		hints = []keyHint{{"enter", "open"}, {"u", "upload"}, {"?", "help"}, {"q", "quit"}}
	case stageSubjects:
		hints = []keyHint{{"enter", "expand"}, {"←/→", "semester"}, {"y", "copy link"}, {"u", "upload"}, {"esc", "back"}, {"?", "help"}}
	case stagePreview:
		hints = []keyHint{{"↑/↓", "scroll"}, {"y", "copy link"}, {"esc", "back"}}
	}
	cells := make([]string, 0, len(hints))
	for _, h := range hints {
		cells = append(cells, keyStyle.Render(h.key)+" "+keyDescStyle.Render(h.desc))
	}
	return strings.Join(cells, "  ")
}

func (m *model) helpView() string {
	width := m.wrapWidth(4)
	rendered, ok := m.helpCache[width]
	if !ok {
		rendered = renderHelp(width)
		m.helpCache[width] = rendered
	}
	return helpBoxStyle.Render(rendered)
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}

var (
	subtitleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("147"))
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	subjectStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	electiveStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("147"))
	categoryStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffd166"))
	linkStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("#8ecae6"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	heroAccentColor        = lipgloss.Color("#6366f1")
	heroSecondaryTextColor = lipgloss.Color("#94a3b8")

	heroTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(heroAccentColor)
	taglineStyle      = lipgloss.NewStyle().Foreground(heroSecondaryTextColor).Italic(true)
	tabStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4")).Padding(0, 1)
	activeTabStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(heroAccentColor).Padding(0, 1)
	keyStyle          = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	keyDescStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4"))
	helpBoxStyle      = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("#7f5af0")).Padding(1, 2)
	modalBoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#a3be8c")).Padding(1, 2)
	successTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#a3be8c"))
	currentLineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6"))
)
