package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/lacquer/internal/theme"
)

// Layout manages the terminal layout dimensions.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	NoticeHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions. The
// header, notice line and status bar take one row each.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		NoticeHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the main content area.
func (l Layout) ContentHeight() int {
	h := l.Height - l.HeaderHeight - l.NoticeHeight - l.StatusBarHeight
	if h < 0 {
		return 0
	}
	return h
}

// RenderHeader renders the top bar with a title on the left and status
// text on the right.
func (l Layout) RenderHeader(title string, status string) string {
	titleRendered := theme.HeaderStyle.Render(title)
	statusRendered := theme.HeaderStyle.Align(lipgloss.Right).Render(status)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		titleRendered,
		l.fill(theme.HeaderStyle, lipgloss.Width(titleRendered)+lipgloss.Width(statusRendered)),
		statusRendered,
	)
}

// RenderNotice renders the line above the status bar. Errors are shown in
// red, anything else as a plain notice.
func (l Layout) RenderNotice(text string, isError bool) string {
	style := theme.NoticeStyle
	if isError {
		style = theme.ErrorStyle
	}
	return style.Width(l.Width).MaxHeight(l.NoticeHeight).Render(text)
}

// RenderStatusBar renders the bottom status bar with keyboard hints.
func (l Layout) RenderStatusBar(hints string) string {
	rendered := theme.StatusBarStyle.Render(hints)
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		rendered,
		l.fill(theme.StatusBarStyle, lipgloss.Width(rendered)),
	)
}

// RenderWithFrame stacks header, content, notice and status bar.
func (l Layout) RenderWithFrame(header, content, notice, statusBar string) string {
	content = lipgloss.NewStyle().Height(l.ContentHeight()).MaxHeight(l.ContentHeight()).Render(content)
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		content,
		notice,
		statusBar,
	)
}

// fill pads a bar out to the full width in the bar's background.
func (l Layout) fill(bar lipgloss.Style, used int) string {
	gap := l.Width - used
	if gap < 0 {
		gap = 0
	}
	return bar.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(bar.GetBackground()).
			Render(""),
	)
}
