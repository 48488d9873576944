package components

import (
	"github.com/theirongolddev/iceplan/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// NoticeLevel selects the status bar colour of a notice.
type NoticeLevel int

// Notice levels.
const (
	NoticeInfo NoticeLevel = iota
	NoticeSuccess
	NoticeWarn
)

// RenderStatusBar renders the bottom status bar: key hints on the left, the
// current notice (or where the plan came from) on the right.
func RenderStatusBar(width int, notice string, level NoticeLevel, source string) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width)

	left := " [?]help  [y]copy link  [q]uit"

	right := ""
	switch {
	case notice != "":
		fg := t.TextPrimary
		switch level {
		case NoticeSuccess:
			fg = t.GreenBright
		case NoticeWarn:
			fg = t.Orange
		}
		right = lipgloss.NewStyle().Foreground(fg).Background(t.Surface).Render(notice + " ")
	case source != "":
		right = lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render("from " + source + " ")
	}

	return style.Render(SplitLine(left, right, width))
}
