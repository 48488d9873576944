package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/iceplan/internal/budget"
	"github.com/theirongolddev/iceplan/internal/cli"
	"github.com/theirongolddev/iceplan/internal/tui/components"
	"github.com/theirongolddev/iceplan/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const labelWidth = 22

func newEditInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 24
	return ti
}

func (a App) startEdit(f budget.Field) (tea.Model, tea.Cmd) {
	if !f.Editable() {
		return a.setNotice(f.Label()+" follows the number of players", components.NoticeInfo)
	}

	m := a.session.Model()
	ti := newEditInput()
	if f.Numeric() {
		ti.Placeholder = fmt.Sprintf("%s (min %s)", f.Label(), cli.FormatAmount(f.Bounds().Min))
		ti.SetValue(plainNumber(m.Value(f)))
	} else {
		ti.Placeholder = "Team name"
		ti.SetValue(m.TeamName())
	}
	ti.Focus()
	ti.CursorEnd()

	a.editing = true
	a.input = ti
	return a, textinput.Blink
}

func (a App) updateEditInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.editing = false
		f := budget.Fields()[a.cursor]
		// Numeric text goes through the field's bounds like any other raw input.
		return a.afterEdit(a.session.Set(a.ctx, f, a.input.Value()))
	case "esc":
		a.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a App) renderPlanner(cw int) string {
	if a.isCompactLayout() {
		var b strings.Builder
		b.WriteString(components.FocusCard("Team & costs", a.renderInputs(cw), cw))
		b.WriteString("\n")
		b.WriteString(a.renderSummaryCards(cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Breakdown", a.renderBreakdown(cw), cw))
		return b.String()
	}

	widths := components.LayoutRow(cw, 2)
	left := components.FocusCard("Team & costs", a.renderInputs(widths[0]), widths[0])
	right := a.renderSummaryCards(widths[1]) + "\n" +
		components.ContentCard("Breakdown", a.renderBreakdown(widths[1]), widths[1])
	return components.CardRow([]string{left, right})
}

func (a App) renderInputs(cw int) string {
	t := theme.Active
	m := a.session.Model()
	innerW := components.CardInnerWidth(cw)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	selectedValueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	for i, f := range budget.Fields() {
		selected := i == a.cursor
		label := fmt.Sprintf("%-*s ", labelWidth, truncStr(f.Label(), labelWidth))

		// Show text input if currently editing this field
		if selected && a.editing {
			b.WriteString(markerStyle.Render("▸ "))
			b.WriteString(accentStyle.Render(label))
			b.WriteString(a.input.View())
			b.WriteString("\n")
			continue
		}

		var value string
		if f.Numeric() {
			value = components.NewNumberInput(m.Input(f), selected).View(cli.FieldFormatter(f))
		} else {
			name := m.TeamName()
			style := valueStyle
			if selected {
				style = selectedValueStyle
			}
			if name == "" {
				name = "(unnamed)"
				style = style.Foreground(t.TextDim)
			}
			value = style.Render(truncStr(name, innerW-labelWidth-3))
		}

		if selected {
			row := markerStyle.Render("▸ ") + selectedLabelStyle.Render(label) + value
			b.WriteString(row)
			if pad := innerW - lipgloss.Width(row); pad > 0 {
				b.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", pad)))
			}
		} else {
			b.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			b.WriteString(labelStyle.Render(label))
			b.WriteString(value)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if a.editing {
		b.WriteString(hintStyle.Render("[Enter] save  [Esc] cancel"))
	} else {
		b.WriteString(hintStyle.Render("[j/k] select  [-/+] step  [Enter] edit"))
	}
	return b.String()
}

func (a App) renderSummaryCards(cw int) string {
	m := a.session.Model()
	cards := []struct{ Label, Value, Delta string }{
		{"Total", cli.FormatMoney(m.Total()), "incl. " + cli.FormatMoney(m.Fees()) + " fees"},
		{"Per player", cli.FormatMoney(m.PerPlayer()), fmt.Sprintf("split %d ways", m.NumPlayers())},
	}
	return components.MetricCardRow(cards, cw)
}

func (a App) renderBreakdown(cw int) string {
	t := theme.Active
	m := a.session.Model()
	innerW := components.CardInnerWidth(cw)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	detailStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	totalStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Bold(true)
	ruleStyle := lipgloss.NewStyle().Foreground(t.Border)

	line := func(label, detail, value string, vs lipgloss.Style) string {
		left := labelStyle.Render(fmt.Sprintf("%-11s", label))
		if detail != "" {
			left += detailStyle.Render(detail)
		}
		return components.SplitLine(left, vs.Render(value), innerW) + "\n"
	}

	var b strings.Builder
	b.WriteString(line("Ice time",
		fmt.Sprintf("%s h × %s", cli.FormatAmount(m.Value(budget.FieldIceHours)), cli.FormatMoney(m.Value(budget.FieldIceCost))),
		cli.FormatMoney(m.IceTotal()), valueStyle))
	b.WriteString(line("Coaching", "", cli.FormatMoney(m.CoachTotal()), valueStyle))
	b.WriteString(line("Jerseys",
		fmt.Sprintf("%d × %s", m.JerseyQuantity(), cli.FormatMoney(m.Value(budget.FieldJerseyCost))),
		cli.FormatMoney(m.JerseyTotal()), valueStyle))
	b.WriteString(ruleStyle.Render(strings.Repeat("─", innerW)) + "\n")
	b.WriteString(line("Subtotal", "", cli.FormatMoney(m.Subtotal()), valueStyle))
	b.WriteString(line("Fees",
		fmt.Sprintf("%s + %s", cli.FormatPercent(m.FeePercent()), cli.FormatMoney(m.Value(budget.FieldFixedFee))),
		cli.FormatMoney(m.Fees()), valueStyle))
	b.WriteString(ruleStyle.Render(strings.Repeat("─", innerW)) + "\n")
	b.WriteString(line("Total", "", cli.FormatMoney(m.Total()), totalStyle))
	b.WriteString(strings.TrimSuffix(line("Per player", "", cli.FormatMoney(m.PerPlayer()), totalStyle), "\n"))
	return b.String()
}

// plainNumber renders a value for retyping, without grouping separators.
func plainNumber(v float64) string {
	return strings.ReplaceAll(cli.FormatAmount(v), ",", "")
}
