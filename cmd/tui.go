package cmd

import (
	"fmt"

	"github.com/theirongolddev/iceplan/internal/config"
	"github.com/theirongolddev/iceplan/internal/tui"
	"github.com/theirongolddev/iceplan/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Edit the plan interactively",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Logs go to a file; stderr belongs to the alt screen.
	rt, err := openRuntime(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer rt.Close()

	theme.SetActive(rt.cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(cmd.Context(), tui.Options{
		Session:   rt.session,
		Config:    rt.cfg,
		Logger:    rt.logger,
		NeedSetup: !config.Exists(),
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
