package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestPageLayoutUpdate(t *testing.T) {
	cases := []struct {
		name           string
		width          int
		height         int
		viewportWidth  int
		viewportHeight int
	}{
		{name: "narrow", width: 80, height: 24, viewportWidth: 76, viewportHeight: 17},
		{name: "wide", width: 200, height: 40, viewportWidth: 196, viewportHeight: 33},
		{name: "tiny", width: 30, height: 8, viewportWidth: minViewportWidth, viewportHeight: 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			layout := newPageLayout()
			layout.Update(tc.width, tc.height)
			if layout.viewportWidth != tc.viewportWidth {
				t.Fatalf("viewport width mismatch: got %d want %d", layout.viewportWidth, tc.viewportWidth)
			}
			if layout.viewportHeight != tc.viewportHeight {
				t.Fatalf("viewport height mismatch: got %d want %d", layout.viewportHeight, tc.viewportHeight)
			}
		})
	}
}

func TestWindowResizeKeepsCursorVisible(t *testing.T) {
	m := newTestModel(t)
	m.selectProgram("computer")
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 12})
	if m.list.Height != 5 || m.list.Width != 56 {
		t.Fatalf("list size = %dx%d", m.list.Width, m.list.Height)
	}

	m.cursor = m.lastSelectable()
	m.renderList()
	if m.cursor < m.list.YOffset || m.cursor >= m.list.YOffset+m.list.Height {
		t.Fatalf("cursor %d outside viewport offset %d", m.cursor, m.list.YOffset)
	}
}

func TestMoveCursorSkipsText(t *testing.T) {
	m := newTestModel(t)
	m.selectProgram("computer")
	cursorTo(t, m, "Programming in C")
	m.activateCursor()

	m.moveCursor(1)
	if got := m.items[m.cursor].label; got != "Engineering Physics" {
		t.Fatalf("cursor on %q, want the next subject", got)
	}
	m.moveCursor(1)
	if got := m.items[m.cursor].label; got != "Engineering Physics" {
		t.Fatalf("cursor should stop at the last row, got %q", got)
	}
}
