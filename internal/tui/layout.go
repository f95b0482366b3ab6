package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/benotes/internal/browse"
	"github.com/csheth/benotes/internal/resources"
)

type pageLayout struct {
	windowWidth    int
	windowHeight   int
	viewportWidth  int
	viewportHeight int
}

func newPageLayout() pageLayout {
	return pageLayout{
		viewportWidth:  80,
		viewportHeight: 20,
	}
}

func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	innerWidth := width - viewportHorizontalPadding
	if innerWidth < minViewportWidth {
		innerWidth = minViewportWidth
	}
	l.viewportWidth = innerWidth
	// title, tagline, semester tabs, blank, status, legend
	const chrome = 7
	contentHeight := height - chrome
	if contentHeight < 5 {
		contentHeight = 5
	}
	l.viewportHeight = contentHeight
}

func (m *model) buildItems() []listItem {
	var items []listItem
	for _, row := range m.nav.Rows() {
		if row.Kind == browse.RowElective {
			items = append(items, listItem{kind: itemGroup, id: row.ID, label: row.Label})
			if m.nav.GroupOpen(row.ID) {
				for _, child := range row.Children {
					items = m.appendSubject(items, child, 1)
				}
			}
			continue
		}
		items = m.appendSubject(items, row, 0)
	}
	return items
}

func (m *model) appendSubject(items []listItem, row browse.Row, depth int) []listItem {
	items = append(items, listItem{kind: itemSubject, id: row.ID, position: row.Position, label: row.Label, depth: depth})
	panel, ok := m.nav.Panel(row.ID)
	if !ok || !panel.Open {
		return items
	}
	inner := depth + 1
	switch panel.State() {
	case browse.ExpandedLoading:
		items = append(items, listItem{kind: itemText, id: row.ID, label: "Loading...", depth: inner, style: textLoading})
	case browse.ExpandedError:
		items = append(items, listItem{kind: itemText, id: row.ID, label: resources.FailureMessage, depth: inner, style: textError})
	case browse.ExpandedLoaded:
		if panel.Plan.Empty() {
			items = append(items, listItem{kind: itemText, id: row.ID, label: resources.EmptyMessage, depth: inner, style: textHelper})
			break
		}
		for _, group := range panel.Plan.Groups {
			items = append(items, listItem{kind: itemText, id: row.ID, label: string(group.Type), depth: inner, style: textCategory})
			for _, rec := range group.Records {
				items = append(items, listItem{
					kind:   itemResource,
					id:     row.ID,
					label:  resources.Icon(rec.Type) + " " + rec.Label(),
					depth:  inner + 1,
					record: rec,
				})
			}
		}
	}
	return items
}

// refreshItems rebuilds the list and keeps the cursor on the same entry when
// it still exists.
func (m *model) refreshItems() {
	current, hadCurrent := m.currentItem()
	m.items = m.buildItems()
	if hadCurrent {
		for idx, item := range m.items {
			if sameItem(item, current) {
				m.cursor = idx
				m.renderList()
				return
			}
		}
	}
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 || !m.items[m.cursor].selectable() {
		m.cursor = m.nearestSelectable(m.cursor)
	}
	m.renderList()
}

func sameItem(a, b listItem) bool {
	return a.kind == b.kind && a.id == b.id && a.position == b.position && a.depth == b.depth && a.label == b.label && a.record.Link == b.record.Link
}

func (m *model) currentItem() (listItem, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return listItem{}, false
	}
	item := m.items[m.cursor]
	return item, item.selectable()
}

func (m *model) firstSelectable() int {
	for idx, item := range m.items {
		if item.selectable() {
			return idx
		}
	}
	return 0
}

func (m *model) lastSelectable() int {
	for idx := len(m.items) - 1; idx >= 0; idx-- {
		if m.items[idx].selectable() {
			return idx
		}
	}
	return 0
}

func (m *model) nearestSelectable(from int) int {
	for idx := from; idx >= 0; idx-- {
		if idx < len(m.items) && m.items[idx].selectable() {
			return idx
		}
	}
	return m.firstSelectable()
}

func (m *model) moveCursor(delta int) {
	idx := m.cursor
	for {
		idx += delta
		if idx < 0 || idx >= len(m.items) {
			return
		}
		if m.items[idx].selectable() {
			m.cursor = idx
			m.renderList()
			return
		}
	}
}

func (m *model) renderList() {
	if m.stage != stageSubjects && m.stage != stageUpload && m.stage != stagePreview {
		return
	}
	if msg := m.nav.EmptyMessage(); msg != "" {
		m.list.SetContent(helperStyle.Render(msg))
		return
	}
	lines := make([]string, 0, len(m.items))
	for idx, item := range m.items {
		lines = append(lines, m.renderItem(item, idx == m.cursor))
	}
	m.list.SetContent(strings.Join(lines, "\n"))
	m.ensureCursorVisible()
}

func (m *model) renderItem(item listItem, current bool) string {
	indent := strings.Repeat("  ", item.depth)
	var text string
	switch item.kind {
	case itemSubject:
		chevron := "▸"
		if panel, ok := m.nav.Panel(item.id); ok && panel.Open {
			chevron = "▾"
		}
		text = fmt.Sprintf("%s %s", chevron, item.label)
	case itemGroup:
		chevron := "▸"
		if m.nav.GroupOpen(item.id) {
			chevron = "▾"
		}
		text = fmt.Sprintf("%s ☰ %s", chevron, item.label)
	case itemResource:
		text = item.label
	default:
		text = item.label
		if item.style == textLoading {
			text = fmt.Sprintf("%s %s", m.spinner.View(), item.label)
		}
	}
	if current {
		return indent + currentLineStyle.Render(text)
	}
	switch item.style {
	case textCategory:
		return indent + categoryStyle.Render(text)
	case textHelper, textLoading:
		return indent + helperStyle.Render(text)
	case textError:
		return indent + errorStyle.Render(text)
	}
	switch item.kind {
	case itemGroup:
		return indent + electiveStyle.Render(text)
	case itemResource:
		return indent + linkStyle.Render(text)
	}
	return indent + subjectStyle.Render(text)
}

func (m *model) ensureCursorVisible() {
	if m.list.Height <= 0 {
		return
	}
	top := m.list.YOffset
	bottom := top + m.list.Height - 1
	switch {
	case m.cursor < top:
		m.list.SetYOffset(m.cursor)
	case m.cursor > bottom:
		m.list.SetYOffset(m.cursor - m.list.Height + 1)
	}
}

func (m *model) renderPreview() {
	if m.previewLink == "" {
		return
	}
	width := m.preview.Width - 2
	if width < 20 {
		width = 20
	}
	var body string
	switch {
	case m.previewLoading:
		body = helperStyle.Render(fmt.Sprintf("%s Downloading…", m.spinner.View()))
	case m.previewErr != "":
		body = errorStyle.Render(wordwrap.String(m.previewErr, width))
	case strings.TrimSpace(m.previewDoc.Text) == "":
		body = helperStyle.Render("No text could be extracted from this document.")
	default:
		header := helperStyle.Render(fmt.Sprintf("%d page(s)", m.previewDoc.Pages))
		body = joinNonEmpty([]string{header, wordwrap.String(m.previewDoc.Text, width)})
	}
	m.preview.SetContent(body)
}

func (m *model) wrapWidth(padding int) int {
	width := m.layout.viewportWidth - padding
	if width < 20 {
		width = 20
	}
	return width
}
