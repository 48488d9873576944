// Package tui provides the interactive Bubble Tea budget planner for iceplan.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/iceplan/internal/budget"
	"github.com/theirongolddev/iceplan/internal/cli"
	"github.com/theirongolddev/iceplan/internal/config"
	"github.com/theirongolddev/iceplan/internal/logging"
	"github.com/theirongolddev/iceplan/internal/planner"
	"github.com/theirongolddev/iceplan/internal/tui/components"
	"github.com/theirongolddev/iceplan/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

const (
	minTerminalWidth = 60
	compactWidth     = 100
	maxContentWidth  = 140

	minContentHeight = 5
	noticeTTL        = 4 * time.Second
	clipboardTimeout = 3 * time.Second
)

// Options wires the app to its session and capabilities.
type Options struct {
	Session   *planner.Session
	Config    config.Config
	Clipboard planner.Clipboard
	Browser   planner.Browser
	Logger    *zap.Logger
	// NeedSetup shows the first-run form before the planner.
	NeedSetup bool
}

// App is the root Bubble Tea model.
type App struct {
	ctx       context.Context
	session   *planner.Session
	cfg       config.Config
	clipboard planner.Clipboard
	browser   planner.Browser
	logger    *zap.Logger

	// UI state
	width    int
	height   int
	cursor   int // index into budget.Fields()
	showHelp bool

	// Inline editing
	editing bool
	input   textinput.Model

	// Reset confirmation (huh form). Form values are pointers so they
	// survive the model being copied on every Update.
	confirmForm  *huh.Form
	confirmReset *bool

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *setupValues
	needSetup bool

	// Status bar notice
	notice      string
	noticeLevel components.NoticeLevel
	noticeID    int

	// Last link offered, for the open-in-browser fallback.
	lastLink string
}

// NewApp creates a new TUI app model.
func NewApp(ctx context.Context, opts Options) App {
	a := App{
		ctx:       ctx,
		session:   opts.Session,
		cfg:       opts.Config,
		clipboard: opts.Clipboard,
		browser:   opts.Browser,
		logger:    logging.OrNop(opts.Logger),
		needSetup: opts.NeedSetup,
	}
	if a.clipboard == nil {
		a.clipboard = planner.SystemClipboard{}
	}
	if a.browser == nil {
		a.browser = planner.SystemBrowser{}
	}
	if a.needSetup {
		a.setupVals = &setupValues{}
		a.setupForm = newSetupForm(a.cfg, a.setupVals)
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	if a.needSetup && a.setupForm != nil {
		return a.setupForm.Init()
	}
	return nil
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case linkCopiedMsg:
		return a.handleCopied(msg)

	case browserOpenedMsg:
		if msg.err != nil {
			a.logger.Warn("opening browser", zap.Error(msg.err))
			return a.setNotice("Could not open browser: "+msg.url, components.NoticeWarn)
		}
		return a.setNotice("Opened link in browser", components.NoticeInfo)

	case noticeExpiredMsg:
		if msg.id == a.noticeID {
			a.notice = ""
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		// Global: quit
		if key == "ctrl+c" {
			return a, tea.Quit
		}

		// First-run setup wizard intercepts all keys
		if a.needSetup && a.setupForm != nil {
			return a.updateSetupForm(msg)
		}

		// Reset confirmation intercepts all keys
		if a.confirmForm != nil {
			return a.updateConfirmForm(msg)
		}

		// Inline edit has its own keybindings (text input)
		if a.editing {
			return a.updateEditInput(msg)
		}

		// Help toggle
		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}

		// Dismiss help
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		return a.updateMain(key)
	}

	// Forward unhandled messages to active forms (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.confirmForm != nil {
		return a.updateConfirmForm(msg)
	}
	if a.editing {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a App) updateMain(key string) (tea.Model, tea.Cmd) {
	fields := budget.Fields()
	f := fields[a.cursor]

	switch key {
	case "q":
		return a, tea.Quit
	case "j", "down", "tab":
		if a.cursor < len(fields)-1 {
			a.cursor++
		}
	case "k", "up", "shift+tab":
		if a.cursor > 0 {
			a.cursor--
		}
	case "g", "home":
		a.cursor = 0
	case "G", "end":
		a.cursor = len(fields) - 1
	case "+", "=", "l", "right":
		return a.step(f, true)
	case "-", "_", "h", "left":
		return a.step(f, false)
	case "enter", "e":
		return a.startEdit(f)
	case "y", "c":
		return a.copyLink()
	case "o":
		return a.openLink()
	case "ctrl+r", "R":
		a.confirmReset = new(bool)
		a.confirmForm = newResetForm(a.confirmReset)
		return a, a.confirmForm.Init()
	case "esc":
		a.notice = ""
	}
	return a, nil
}

func (a App) step(f budget.Field, up bool) (tea.Model, tea.Cmd) {
	if !f.Editable() || !f.Numeric() {
		return a, nil
	}
	var err error
	if up {
		err = a.session.Increment(a.ctx, f)
	} else {
		err = a.session.Decrement(a.ctx, f)
	}
	return a.afterEdit(err)
}

// afterEdit surfaces persistence failures. The in-memory model has already
// changed, so the edit stays visible.
func (a App) afterEdit(err error) (tea.Model, tea.Cmd) {
	if err != nil {
		a.logger.Warn("saving plan", zap.Error(err))
		return a.setNotice("Not saved: "+err.Error(), components.NoticeWarn)
	}
	return a, nil
}

func (a App) copyLink() (tea.Model, tea.Cmd) {
	link, err := a.session.ShareURL()
	if err != nil {
		a.logger.Warn("building share link", zap.Error(err))
		return a.setNotice("Could not build link", components.NoticeWarn)
	}
	a.lastLink = link
	return a, copyLinkCmd(a.ctx, a.clipboard, link)
}

func (a App) handleCopied(msg linkCopiedMsg) (tea.Model, tea.Cmd) {
	if msg.result.Copied() {
		return a.setNotice("Link copied to clipboard", components.NoticeSuccess)
	}
	a.logger.Warn("copying share link", zap.Error(msg.result.Err))
	if msg.result.URL != "" {
		a.lastLink = msg.result.URL
		return a.setNotice("Clipboard unavailable, press o to open the link", components.NoticeWarn)
	}
	return a.setNotice("Could not copy link", components.NoticeWarn)
}

func (a App) openLink() (tea.Model, tea.Cmd) {
	link := a.lastLink
	if link == "" {
		var err error
		link, err = a.session.ShareURL()
		if err != nil {
			return a.setNotice("Could not build link", components.NoticeWarn)
		}
		a.lastLink = link
	}
	return a, openLinkCmd(a.browser, link)
}

func (a App) setNotice(text string, level components.NoticeLevel) (tea.Model, tea.Cmd) {
	a.noticeID++
	a.notice = text
	a.noticeLevel = level
	return a, expireNoticeCmd(a.noticeID)
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.applySetup()
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	return a, cmd
}

func (a App) updateConfirmForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.confirmForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.confirmForm = f
	}

	switch a.confirmForm.State {
	case huh.StateCompleted:
		a.confirmForm = nil
		return a.finishReset(*a.confirmReset)
	case huh.StateAborted:
		a.confirmForm = nil
		return a, nil
	}

	return a, cmd
}

func (a App) finishReset(confirmed bool) (tea.Model, tea.Cmd) {
	if !confirmed {
		return a, nil
	}
	a.editing = false
	a.lastLink = ""
	if err := a.session.Reset(a.ctx); err != nil {
		a.logger.Warn("resetting plan", zap.Error(err))
		return a.setNotice("Reset, but the saved plan could not be cleared", components.NoticeWarn)
	}
	return a.setNotice("Plan reset to defaults", components.NoticeInfo)
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}

	if a.confirmForm != nil {
		return a.viewConfirm()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  iceplan needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewConfirm() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Orange).
		Background(t.Surface).
		Padding(1, 3)

	card := cardStyle.Render(a.confirmForm.View())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active
	h := a.height
	w := a.width

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	sectionStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Cyan).
		Background(t.Surface).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Editing", []struct{ key, desc string }{
			{"j k", "Move between fields"},
			{"- +", "Step the selected value"},
			{"Enter", "Type a value"},
			{"Esc", "Cancel typing"},
		}},
		{"Plan", []struct{ key, desc string }{
			{"y", "Copy shareable link"},
			{"o", "Open link in browser"},
			{"^r", "Reset to defaults"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}
	for i, sec := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-8s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	card := cardStyle.Render(b.String())

	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := a.renderHeader(w)
	statusBar := components.RenderStatusBar(w, a.notice, a.noticeLevel, a.session.Source().String())

	headerH := lipgloss.Height(header)
	statusH := lipgloss.Height(statusBar)
	contentH := h - headerH - statusH
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	content := a.renderPlanner(cw)

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) renderHeader(w int) string {
	t := theme.Active
	m := a.session.Model()

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	nameStyle := lipgloss.NewStyle().
		Foreground(t.TextPrimary).
		Background(t.Surface)

	pillStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	name := m.TeamName()
	if strings.TrimSpace(name) == "" {
		name = "Untitled team"
		nameStyle = nameStyle.Foreground(t.TextMuted).Italic(true)
	}

	left := logoStyle.Render(" ◈ iceplan") + pillStyle.Render(" · ") + nameStyle.Render(truncStr(name, w/2))
	right := pillStyle.Render("total ") + logoStyle.Render(cli.FormatMoney(m.Total())) + pillStyle.Render(" ")

	return lipgloss.NewStyle().Background(t.Surface).Width(w).
		Render(components.SplitLine(left, right, w))
}

// ─── Helpers ────────────────────────────────────────────────────

type linkCopiedMsg struct {
	result planner.ShareResult
}

type browserOpenedMsg struct {
	url string
	err error
}

type noticeExpiredMsg struct {
	id int
}

// copyLinkCmd writes link to the clipboard off the update loop. Only the
// resulting message touches App state.
func copyLinkCmd(ctx context.Context, cb planner.Clipboard, link string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, clipboardTimeout)
		defer cancel()
		return linkCopiedMsg{result: planner.CopyLink(ctx, cb, link)}
	}
}

func openLinkCmd(b planner.Browser, link string) tea.Cmd {
	return func() tea.Msg {
		return browserOpenedMsg{url: link, err: b.OpenURL(link)}
	}
}

func expireNoticeCmd(id int) tea.Cmd {
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{id: id}
	})
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	padding := strings.Repeat("\n", h-len(lines))
	return s + padding
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}
