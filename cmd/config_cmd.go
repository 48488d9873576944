// Package cmd implements the iceplan CLI commands.
package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/iceplan/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [Store]")
	fmt.Printf("    Driver: %s\n", cfg.Store.Driver)
	switch cfg.Store.Driver {
	case "redis":
		fmt.Printf("    Redis:  %s db %d\n", cfg.Store.RedisAddr, cfg.Store.RedisDB)
		if cfg.Store.RedisPassword != "" {
			fmt.Printf("    Password: %s\n", maskSecret(cfg.Store.RedisPassword))
		}
	case "memory":
		fmt.Println("    Plans are not kept between runs")
	default:
		fmt.Printf("    Path:   %s\n", cfg.StorePath())
	}
	fmt.Println()

	fmt.Println("  [Share]")
	fmt.Printf("    Base URL: %s\n", cfg.Share.BaseURL)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level: %s\n", cfg.Log.Level)
	if cfg.Log.File != "" {
		fmt.Printf("    File:  %s\n", cfg.Log.File)
	}
	fmt.Printf("    TUI:   %s\n", cfg.TUILogPath())
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Addr: %s\n", cfg.Server.Addr)
	fmt.Println()

	fmt.Println("  Run `iceplan tui` on a fresh install to pick a theme and share URL.")
	return nil
}

func maskSecret(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
