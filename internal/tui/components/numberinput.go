package components

import (
	"github.com/theirongolddev/iceplan/internal/budget"
	"github.com/theirongolddev/iceplan/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// NumberInput renders a numeric field as "[-] value [+]". It holds no state
// beyond what the model reports; edits go back through the model.
type NumberInput struct {
	budget.InputSpec
	Focused bool
}

// NewNumberInput wraps a model input description.
func NewNumberInput(spec budget.InputSpec, focused bool) NumberInput {
	return NumberInput{InputSpec: spec, Focused: focused}
}

// CanDecrement reports whether the minus control does anything.
func (n NumberInput) CanDecrement() bool {
	return !n.Disabled && n.Value > n.Min
}

// CanIncrement reports whether the plus control does anything.
func (n NumberInput) CanIncrement() bool {
	return !n.Disabled
}

// View renders the control with value formatted by format.
func (n NumberInput) View(format func(float64) string) string {
	t := theme.Active

	bg := t.Surface
	if n.Focused {
		bg = t.SurfaceBright
	}

	activeCtl := lipgloss.NewStyle().Foreground(t.Accent).Background(bg).Bold(true)
	deadCtl := lipgloss.NewStyle().Foreground(t.TextDim).Background(bg)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(bg)
	if n.Focused {
		valueStyle = valueStyle.Bold(true)
	}
	if n.Disabled {
		valueStyle = lipgloss.NewStyle().Foreground(t.TextMuted).Background(bg)
	}
	space := lipgloss.NewStyle().Background(bg).Render(" ")

	minus := deadCtl.Render("[-]")
	if n.CanDecrement() {
		minus = activeCtl.Render("[-]")
	}
	plus := deadCtl.Render("[+]")
	if n.CanIncrement() {
		plus = activeCtl.Render("[+]")
	}

	return minus + space + valueStyle.Render(format(n.Value)) + space + plus
}
