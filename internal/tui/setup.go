package tui

import (
	"errors"
	"net/url"
	"strings"

	"github.com/theirongolddev/iceplan/internal/config"
	"github.com/theirongolddev/iceplan/internal/tui/components"
	"github.com/theirongolddev/iceplan/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"go.uber.org/zap"
)

// setupValues holds what the first-run form collects.
type setupValues struct {
	theme     string
	shareBase string
}

func newSetupForm(cfg config.Config, vals *setupValues) *huh.Form {
	vals.theme = cfg.Appearance.Theme
	vals.shareBase = cfg.Share.BaseURL

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to iceplan").
				Description("Plan a hockey team's season budget.\nThese settings are saved to "+config.ConfigPath()),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&vals.theme),
			huh.NewInput().
				Title("Share link base URL").
				Description("Shared plans are appended to this address").
				Value(&vals.shareBase).
				Validate(validateShareBase),
		),
	).WithShowHelp(true)
}

func validateShareBase(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("enter an absolute URL, e.g. https://iceplan.app/")
	}
	return nil
}

func (a *App) applySetup() {
	a.cfg.Appearance.Theme = a.setupVals.theme
	a.cfg.Share.BaseURL = strings.TrimSpace(a.setupVals.shareBase)
	theme.SetActive(a.cfg.Appearance.Theme)
	a.session.SetShareBase(a.cfg.Share.BaseURL)

	if err := config.Save(a.cfg); err != nil {
		a.logger.Warn("saving config", zap.Error(err))
		a.notice = "Settings apply to this session only: " + err.Error()
		a.noticeLevel = components.NoticeWarn
	}
}

func newResetForm(confirmed *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Reset the plan?").
				Description("Every value returns to its default and the saved plan is cleared.").
				Affirmative("Reset").
				Negative("Keep").
				Value(confirmed),
		),
	)
}
