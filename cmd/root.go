package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/theirongolddev/iceplan/internal/config"
	"github.com/theirongolddev/iceplan/internal/logging"
	"github.com/theirongolddev/iceplan/internal/planner"
	"github.com/theirongolddev/iceplan/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagLink  string
	flagStore string
	flagDB    string
	flagQuiet bool
)

var rootCmd = &cobra.Command{
	Use:          "iceplan",
	Short:        "Hockey team season budget planner",
	Long:         "Plan a hockey team's season: ice time, coaching, jerseys and fees, split per player.",
	RunE:         runShow,
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagLink, "link", "l", "", "Load a shared plan (URL or bare token)")
	rootCmd.PersistentFlags().StringVar(&flagStore, "store", "", "Store driver: sqlite, redis or memory")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only log errors")
}

// runtime is what every command needs: config, logger, store and the
// loaded planning session.
type runtime struct {
	cfg     config.Config
	logger  *zap.Logger
	kv      store.KV
	session *planner.Session
}

// openRuntime loads config, applies flag overrides and loads the session.
// With tuiMode set, logs go to the TUI log file instead of stderr.
func openRuntime(ctx context.Context, tuiMode bool) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagStore != "" {
		cfg.Store.Driver = flagStore
	}
	if flagDB != "" {
		cfg.Store.Path = flagDB
	}

	level := cfg.Log.Level
	if flagQuiet {
		level = "error"
	}
	logger, err := logging.New(level, logPath(cfg, tuiMode))
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	kv, err := store.Open(store.Options{
		Driver:        cfg.Store.Driver,
		Path:          cfg.StorePath(),
		RedisAddr:     cfg.Store.RedisAddr,
		RedisPassword: cfg.Store.RedisPassword,
		RedisDB:       cfg.Store.RedisDB,
	})
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("opening %s store: %w", cfg.Store.Driver, err)
	}

	session := planner.Load(ctx, kv, flagLink,
		planner.WithLogger(logger),
		planner.WithShareBase(cfg.Share.BaseURL),
	)

	return &runtime{cfg: cfg, logger: logger, kv: kv, session: session}, nil
}

// logPath picks the log destination. Empty means stderr.
func logPath(cfg config.Config, tuiMode bool) string {
	if tuiMode {
		return cfg.TUILogPath()
	}
	return cfg.Log.File
}

func (r *runtime) Close() {
	if err := r.kv.Close(); err != nil {
		r.logger.Warn("closing store", zap.Error(err))
	}
	_ = r.logger.Sync()
}
